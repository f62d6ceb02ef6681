package services_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereayou/voxus/internal/config"
	"github.com/thereayou/voxus/internal/database"
	"github.com/thereayou/voxus/internal/database/dbtest"
	"github.com/thereayou/voxus/internal/models"
	"github.com/thereayou/voxus/internal/services"
	"github.com/thereayou/voxus/internal/storage"
	"github.com/thereayou/voxus/internal/websocket"
	"github.com/thereayou/voxus/pkg/apperrors"
)

type fixture struct {
	db    *database.Database
	files *storage.LocalStorage
	svc   *services.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := dbtest.New(t)
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return &fixture{db: db, files: files, svc: services.NewService(db, files, config.DefaultLimits())}
}

// upload writes an attachment the way the upload endpoint does.
func (f *fixture) upload(t *testing.T, key, body string) {
	t.Helper()
	require.NoError(t, f.files.Save(context.Background(), key, strings.NewReader(body), ""))
}

func (f *fixture) user(t *testing.T, nick string) *models.User {
	return dbtest.CreateUser(t, f.db, nick)
}

func (f *fixture) channel(t *testing.T, owner *models.User, name string, private bool) *services.Membership {
	t.Helper()
	m, err := f.svc.CreateChannel(context.Background(), owner.ID, name, private)
	require.NoError(t, err)
	return m
}

func (f *fixture) join(t *testing.T, user *models.User, name string) *models.Member {
	t.Helper()
	m, err := f.svc.JoinChannel(context.Background(), user.ID, name)
	require.NoError(t, err)
	return m.Member
}

func assertKind(t *testing.T, err error, kind apperrors.Kind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind.Code(), apperrors.KindOf(err).Code(), "got %v", err)
}

func TestCreateChannel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")

	created := f.channel(t, alice, "general", false)
	assert.True(t, created.Member.IsOwner)
	assert.Equal(t, alice.ID, created.Channel.OwnerID)

	tests := []struct {
		name    string
		channel string
	}{
		{"too short", "ab"},
		{"too long", string(make([]byte, 51))},
		{"blank", "   "},
		{"taken", "general"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateChannel(ctx, alice.ID, tt.channel, false)
			assertKind(t, err, apperrors.KindNameInvalid)
		})
	}
}

func TestJoinRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")

	f.channel(t, alice, "general", false)
	joined, err := f.svc.JoinChannel(ctx, bob.ID, "general")
	require.NoError(t, err)
	assert.False(t, joined.Created)
	assert.False(t, joined.Member.IsOwner)

	members, err := f.svc.ListMembers(ctx, bob.ID, joined.Channel.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)

	owners := 0
	for _, m := range members {
		if m.IsOwner {
			owners++
			assert.Equal(t, "alice", m.Nickname)
		}
	}
	assert.Equal(t, 1, owners)

	t.Run("second join is AlreadyMember", func(t *testing.T) {
		_, err := f.svc.JoinChannel(ctx, bob.ID, "general")
		assertKind(t, err, apperrors.KindAlreadyMember)
	})

	t.Run("unknown name creates the channel", func(t *testing.T) {
		m, err := f.svc.JoinChannel(ctx, bob.ID, "random")
		require.NoError(t, err)
		assert.True(t, m.Created)
		assert.True(t, m.Member.IsOwner)
	})
}

func TestConcurrentJoin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	f.channel(t, alice, "general", false)

	const attempts = 6
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.JoinChannel(ctx, bob.ID, "general")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assertKind(t, err, apperrors.KindAlreadyMember)
	}
	assert.Equal(t, 1, succeeded)
}

func TestPrivateChannelInvites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	f.user(t, "dave")

	secret := f.channel(t, alice, "secret", true)
	channelID := secret.Channel.ID

	_, err := f.svc.JoinChannel(ctx, bob.ID, "secret")
	assertKind(t, err, apperrors.KindInviteRequired)

	_, err = f.svc.InviteUser(ctx, carol.ID, channelID, "bob")
	assertKind(t, err, apperrors.KindMembershipRequired)

	res, err := f.svc.InviteUser(ctx, alice.ID, channelID, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, res.Target.ID)
	assert.Equal(t, "secret", res.View.ChannelName)

	_, err = f.svc.InviteUser(ctx, alice.ID, channelID, "bob")
	assertKind(t, err, apperrors.KindMemberAlreadyInvited)

	_, err = f.svc.InviteUser(ctx, alice.ID, channelID, "nobody")
	assertKind(t, err, apperrors.KindUserNotFound)

	invites, err := f.svc.ListUserInvites(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, invites, 1)
	assert.Equal(t, "secret", invites[0].ChannelName)

	f.join(t, bob, "secret")
	_, err = f.db.FindInvite(ctx, bob.ID, channelID)
	assert.ErrorIs(t, err, database.ErrNotFound, "join consumes the invite")

	t.Run("peers cannot invite to a private channel", func(t *testing.T) {
		_, err := f.svc.InviteUser(ctx, bob.ID, channelID, "dave")
		assertKind(t, err, apperrors.KindOwnershipRequired)
	})

	t.Run("members cannot be invited", func(t *testing.T) {
		_, err := f.svc.InviteUser(ctx, alice.ID, channelID, "bob")
		assertKind(t, err, apperrors.KindAlreadyMember)
	})

	t.Run("channel invites are listed for members", func(t *testing.T) {
		_, err := f.svc.InviteUser(ctx, alice.ID, channelID, "dave")
		require.NoError(t, err)
		views, err := f.svc.ListChannelInvites(ctx, bob.ID, channelID)
		require.NoError(t, err)
		require.Len(t, views, 1)
		assert.Equal(t, "dave", views[0].Nickname)

		_, err = f.svc.ListChannelInvites(ctx, carol.ID, channelID)
		assertKind(t, err, apperrors.KindMembershipRequired)
	})
}

func TestAcceptAndDecline(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	channelID := f.channel(t, alice, "general", false).Channel.ID

	_, err := f.svc.AcceptInvite(ctx, bob.ID, channelID)
	assertKind(t, err, apperrors.KindInviteRequired)

	_, err = f.svc.InviteUser(ctx, alice.ID, channelID, "bob")
	require.NoError(t, err)
	accepted, err := f.svc.AcceptInvite(ctx, bob.ID, channelID)
	require.NoError(t, err)
	assert.Equal(t, bob.ID, accepted.Member.UserID)

	t.Run("decline twice", func(t *testing.T) {
		_, err := f.svc.InviteUser(ctx, bob.ID, channelID, "carol")
		require.NoError(t, err)

		_, err = f.svc.DeclineInvite(ctx, carol.ID, channelID)
		require.NoError(t, err)
		_, err = f.svc.DeclineInvite(ctx, carol.ID, channelID)
		assertKind(t, err, apperrors.KindInviteRequired)
	})

	t.Run("stale invite of a member is cleaned up", func(t *testing.T) {
		require.NoError(t, f.db.CreateInvite(ctx, &models.Invite{UserID: bob.ID, ChannelID: channelID}, false))

		_, err := f.svc.AcceptInvite(ctx, bob.ID, channelID)
		assertKind(t, err, apperrors.KindAlreadyMember)

		_, err = f.db.FindInvite(ctx, bob.ID, channelID)
		assert.ErrorIs(t, err, database.ErrNotFound)
	})
}

func TestKickQuorum(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner")
	channelID := f.channel(t, owner, "general", false).Channel.ID

	voters := []*models.User{f.user(t, "bob"), f.user(t, "carol"), f.user(t, "dave")}
	for _, v := range voters {
		f.join(t, v, "general")
	}
	eve := f.user(t, "eve")
	target := f.join(t, eve, "general")

	res, err := f.svc.CastKickVote(ctx, voters[0].ID, channelID, target.ID)
	require.NoError(t, err)
	assert.False(t, res.Kicked)
	assert.Equal(t, 1, res.Votes)

	_, err = f.svc.CastKickVote(ctx, voters[0].ID, channelID, target.ID)
	assertKind(t, err, apperrors.KindDuplicateVote)

	res, err = f.svc.CastKickVote(ctx, voters[1].ID, channelID, target.ID)
	require.NoError(t, err)
	assert.False(t, res.Kicked)
	assert.Equal(t, 2, res.Votes, "duplicate vote is not counted")

	stored, err := f.db.GetMember(ctx, target.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.KickVotes)

	members, err := f.svc.ListMembers(ctx, owner.ID, channelID)
	require.NoError(t, err)
	for _, m := range members {
		if m.ID == target.ID {
			assert.Len(t, m.ReceivedKickVotes, 2)
		}
	}

	res, err = f.svc.CastKickVote(ctx, voters[2].ID, channelID, target.ID)
	require.NoError(t, err)
	assert.True(t, res.Kicked)
	assert.True(t, res.Applied)
	assert.False(t, res.ByOwner)
	assert.Equal(t, 3, res.Votes)

	_, err = f.db.FindMember(ctx, eve.ID, channelID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	t.Run("vote after removal", func(t *testing.T) {
		_, err := f.svc.CastKickVote(ctx, owner.ID, channelID, target.ID)
		assertKind(t, err, apperrors.KindMemberNotFound)
	})

	t.Run("kicked user is barred until the owner invites", func(t *testing.T) {
		_, err := f.svc.JoinChannel(ctx, eve.ID, "general")
		assertKind(t, err, apperrors.KindMembershipProhibited)

		_, err = f.svc.InviteUser(ctx, voters[0].ID, channelID, "eve")
		assertKind(t, err, apperrors.KindOwnershipRequired)

		_, err = f.svc.InviteUser(ctx, owner.ID, channelID, "eve")
		require.NoError(t, err)
		_, err = f.svc.AcceptInvite(ctx, eve.ID, channelID)
		require.NoError(t, err)
	})
}

func TestOwnerKickVote(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner")
	bob := f.user(t, "bob")
	channelID := f.channel(t, owner, "general", false).Channel.ID
	target := f.join(t, bob, "general")

	res, err := f.svc.CastKickVote(ctx, owner.ID, channelID, target.ID)
	require.NoError(t, err)
	assert.True(t, res.Kicked)
	assert.True(t, res.ByOwner)
	assert.Equal(t, 1, res.Votes)

	banned, err := f.db.IsBlacklisted(ctx, bob.ID, channelID)
	require.NoError(t, err)
	assert.True(t, banned)
}

func TestProhibitedKickVotes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner")
	bob := f.user(t, "bob")
	membership := f.channel(t, owner, "general", false)
	bobMember := f.join(t, bob, "general")

	_, err := f.svc.CastKickVote(ctx, bob.ID, membership.Channel.ID, bobMember.ID)
	assertKind(t, err, apperrors.KindProhibitedKickVote)

	_, err = f.svc.CastKickVote(ctx, bob.ID, membership.Channel.ID, membership.Member.ID)
	assertKind(t, err, apperrors.KindProhibitedKickVote)

	_, err = f.svc.CastKickVote(ctx, f.user(t, "outsider").ID, membership.Channel.ID, bobMember.ID)
	assertKind(t, err, apperrors.KindMembershipRequired)
}

func TestRevokeMember(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner")
	bob := f.user(t, "bob")
	carol := f.user(t, "carol")
	membership := f.channel(t, owner, "general", false)
	channelID := membership.Channel.ID
	bobMember := f.join(t, bob, "general")
	f.join(t, carol, "general")

	_, err := f.svc.RevokeMember(ctx, carol.ID, channelID, bobMember.ID)
	assertKind(t, err, apperrors.KindOwnershipRequired)

	_, err = f.svc.RevokeMember(ctx, owner.ID, channelID, membership.Member.ID)
	assertKind(t, err, apperrors.KindProhibitedKickVote)

	res, err := f.svc.RevokeMember(ctx, owner.ID, channelID, bobMember.ID)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Equal(t, "bob", res.User.Nick)

	// no ban after a revoke
	f.join(t, bob, "general")
}

func TestLeaveOrCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner")
	bob := f.user(t, "bob")
	channelID := f.channel(t, owner, "general", false).Channel.ID
	f.join(t, bob, "general")

	res, err := f.svc.LeaveOrCancel(ctx, bob.ID, channelID)
	require.NoError(t, err)
	assert.False(t, res.Deleted)

	_, err = f.svc.LeaveOrCancel(ctx, bob.ID, channelID)
	assertKind(t, err, apperrors.KindMembershipRequired)

	res, err = f.svc.LeaveOrCancel(ctx, owner.ID, channelID)
	require.NoError(t, err)
	assert.True(t, res.Deleted)
	assert.Equal(t, []uint{owner.ID}, res.RemovedUserIDs)

	_, err = f.svc.LeaveOrCancel(ctx, owner.ID, channelID)
	assertKind(t, err, apperrors.KindChannelNotFound)
}

func TestQuit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner")
	bob := f.user(t, "bob")
	channelID := f.channel(t, owner, "general", false).Channel.ID
	f.join(t, bob, "general")

	_, err := f.svc.Quit(ctx, bob.ID, channelID)
	assertKind(t, err, apperrors.KindOwnershipRequired)

	res, err := f.svc.Quit(ctx, owner.ID, channelID)
	require.NoError(t, err)
	assert.Equal(t, "general", res.Channel.Name)
	assert.True(t, res.Deleted)
	assert.ElementsMatch(t, []uint{owner.ID, bob.ID}, res.RemovedUserIDs)

	channels, err := f.svc.ListChannels(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, channels)
}

func TestUpdateNotifStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner")
	channelID := f.channel(t, owner, "general", false).Channel.ID

	_, err := f.svc.UpdateNotifStatus(ctx, owner.ID, channelID, "loud")
	assertKind(t, err, apperrors.KindValidation)

	_, err = f.svc.UpdateNotifStatus(ctx, f.user(t, "bob").ID, channelID, models.NotifNone)
	assertKind(t, err, apperrors.KindMembershipRequired)

	member, err := f.svc.UpdateNotifStatus(ctx, owner.ID, channelID, models.NotifMentions)
	require.NoError(t, err)
	assert.Equal(t, models.NotifMentions, member.NotifStatus)
	assert.False(t, services.ReceivesGeneral(member.NotifStatus))
}

func TestSendMessageValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner")
	channelID := f.channel(t, owner, "general", false).Channel.ID
	limits := config.DefaultLimits()

	tooMany := make([]services.FileInput, limits.MaxFileCount+1)
	for i := range tooMany {
		tooMany[i] = services.FileInput{Name: "a.txt", Path: "uploads/a.txt", Size: 1}
	}

	tests := []struct {
		name    string
		content string
		files   []services.FileInput
	}{
		{"empty", "  ", nil},
		{"too long", string(make([]rune, limits.MessageMaxLength+1)), nil},
		{"too many files", "hi", tooMany},
		{"file too large", "", []services.FileInput{{Name: "big", Path: "uploads/big", Size: limits.MaxFileSize + 1}}},
		{"path outside uploads", "", []services.FileInput{{Name: "x", Path: "uploads/../secret", Size: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.SendMessage(ctx, owner.ID, channelID, tt.content, tt.files)
			assertKind(t, err, apperrors.KindMalformedMessage)
		})
	}

	t.Run("files without content", func(t *testing.T) {
		f.upload(t, "uploads/a.txt", "abc")
		d, err := f.svc.SendMessage(ctx, owner.ID, channelID, "", []services.FileInput{
			{Name: "a.txt", Path: "uploads/a.txt", Size: 3, MimeType: "text/plain"},
		})
		require.NoError(t, err)
		require.Len(t, d.Message.Files, 1)
		assert.Equal(t, "a.txt", d.Message.Files[0].Name)
	})

	t.Run("stored size and type win over the client's", func(t *testing.T) {
		f.upload(t, "uploads/report.pdf", "%PDF-1.4 twelve")
		d, err := f.svc.SendMessage(ctx, owner.ID, channelID, "", []services.FileInput{
			{Name: "report.pdf", Path: "uploads/report.pdf", Size: 999999, MimeType: "text/html"},
		})
		require.NoError(t, err)
		require.Len(t, d.Message.Files, 1)
		assert.Equal(t, int64(len("%PDF-1.4 twelve")), d.Message.Files[0].Size)
		assert.Equal(t, "application/pdf", d.Message.Files[0].MimeType)

		file, err := f.svc.GetFile(ctx, owner.ID, channelID, d.Message.Files[0].ID)
		require.NoError(t, err)
		assert.Equal(t, int64(len("%PDF-1.4 twelve")), file.Size)
	})

	t.Run("file never uploaded", func(t *testing.T) {
		_, err := f.svc.SendMessage(ctx, owner.ID, channelID, "", []services.FileInput{
			{Name: "ghost.txt", Path: "uploads/ghost.txt", Size: 1},
		})
		assertKind(t, err, apperrors.KindMalformedMessage)
	})

	t.Run("non member", func(t *testing.T) {
		_, err := f.svc.SendMessage(ctx, f.user(t, "bob").ID, channelID, "hi", nil)
		assertKind(t, err, apperrors.KindMembershipRequired)
	})
}

func TestSendMessageRouting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner")
	muted := f.user(t, "muted")
	busy := f.user(t, "busy")
	channelID := f.channel(t, owner, "general", false).Channel.ID
	mutedMember := f.join(t, muted, "general")
	f.join(t, busy, "general")

	_, err := f.svc.UpdateNotifStatus(ctx, muted.ID, channelID, models.NotifNone)
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, busy.ID, models.UserStatusDND)
	require.NoError(t, err)

	d, err := f.svc.SendMessage(ctx, owner.ID, channelID, fmt.Sprintf("@%d check this @9999", mutedMember.ID), nil)
	require.NoError(t, err)
	assert.Equal(t, []uint{muted.ID}, d.MentionedUserIDs)
	assert.Equal(t, []uint{mutedMember.ID}, d.Message.Mentions)
	assert.True(t, d.Excluded[muted.ID])
	assert.True(t, d.Excluded[busy.ID])
	assert.False(t, d.Excluded[owner.ID])
	assert.Equal(t, "owner", d.Message.Author.Nickname)

	d, err = f.svc.SendMessage(ctx, owner.ID, channelID, "no mention", nil)
	require.NoError(t, err)
	assert.Empty(t, d.MentionedUserIDs)

	page, err := f.svc.ListMessages(ctx, muted.ID, channelID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "no mention", page.Messages[0].Content)
	assert.Len(t, page.Members, 3)
}

func TestListMessagesPaging(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner")
	channelID := f.channel(t, owner, "general", false).Channel.ID
	batch := config.DefaultLimits().MessageBatchSize

	for i := 0; i < batch+5; i++ {
		_, err := f.svc.SendMessage(ctx, owner.ID, channelID, fmt.Sprintf("m%d", i), nil)
		require.NoError(t, err)
	}

	page, err := f.svc.ListMessages(ctx, owner.ID, channelID, 0)
	require.NoError(t, err)
	assert.Len(t, page.Messages, batch)

	page, err = f.svc.ListMessages(ctx, owner.ID, channelID, batch)
	require.NoError(t, err)
	assert.Len(t, page.Messages, 5)
	assert.Equal(t, "m0", page.Messages[4].Content)

	_, err = f.svc.ListMessages(ctx, f.user(t, "bob").ID, channelID, 0)
	assertKind(t, err, apperrors.KindMembershipRequired)
}

func TestExtractMentions(t *testing.T) {
	assert.Equal(t, []uint{12, 3}, services.ExtractMentions("@12 hi @3 and @12 again, mail a@b, @0"))
	assert.Empty(t, services.ExtractMentions("nobody here"))
}

func TestPresenceAudience(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	c := f.user(t, "c")

	f.channel(t, a, "xchan", false)
	f.channel(t, a, "ychan", false)
	f.channel(t, c, "zchan", false)
	f.join(t, b, "xchan")

	p, err := f.svc.Connect(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, p.Audience)
	assert.Len(t, p.Members, 2)
	assert.True(t, p.User.IsConnected)

	p, err = f.svc.Disconnect(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, p.User.IsConnected)

	_, err = f.svc.UpdateStatus(ctx, a.ID, "away")
	assertKind(t, err, apperrors.KindValidation)
}

func TestReconcileConnections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.user(t, "a")
	b := f.user(t, "b")
	c := f.user(t, "c")
	require.NoError(t, f.db.SetUserConnected(ctx, a.ID, true))
	require.NoError(t, f.db.SetUserConnected(ctx, b.ID, true))

	// a and c hold sockets, b does not; c's row was cleared by a late disconnect
	hub := websocket.NewHub()
	hub.Register(websocket.NewClient(hub, nil, a.ID))
	hub.Register(websocket.NewClient(hub, nil, c.ID))

	fixed, err := f.svc.ReconcileConnections(ctx, hub)
	require.NoError(t, err)
	assert.Equal(t, []uint{b.ID}, fixed.Offline)
	assert.Equal(t, []uint{c.ID}, fixed.Online)

	ids, err := f.db.ListConnectedUserIDs(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{a.ID, c.ID}, ids)

	t.Run("second pass is a no-op", func(t *testing.T) {
		fixed, err := f.svc.ReconcileConnections(ctx, hub)
		require.NoError(t, err)
		assert.Empty(t, fixed.Offline)
		assert.Empty(t, fixed.Online)
	})
}

func TestGetFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "owner")
	channelID := f.channel(t, owner, "general", false).Channel.ID
	otherID := f.channel(t, owner, "other", false).Channel.ID

	f.upload(t, "uploads/a.txt", "a")
	d, err := f.svc.SendMessage(ctx, owner.ID, channelID, "", []services.FileInput{{Name: "a.txt", Path: "uploads/a.txt", Size: 1}})
	require.NoError(t, err)
	fileID := d.Message.Files[0].ID

	file, err := f.svc.GetFile(ctx, owner.ID, channelID, fileID)
	require.NoError(t, err)
	assert.Equal(t, "uploads/a.txt", file.Path)

	_, err = f.svc.GetFile(ctx, owner.ID, otherID, fileID)
	assertKind(t, err, apperrors.KindFileNotFound)

	_, err = f.svc.GetFile(ctx, f.user(t, "bob").ID, channelID, fileID)
	assertKind(t, err, apperrors.KindMembershipRequired)
}
