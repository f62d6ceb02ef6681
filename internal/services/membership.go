package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/thereayou/voxus/internal/models"
	"github.com/thereayou/voxus/pkg/apperrors"
)

// Membership is the caller's channel together with their member row.
type Membership struct {
	Channel *models.Channel
	Member  *models.Member
	// Created is set when joinChannel fell through to channel creation.
	Created bool
}

// CancelResult tells the caller which branch of LeaveOrCancel ran.
type CancelResult struct {
	Channel *models.Channel
	Member  *models.Member
	Deleted bool
	// RemovedUserIDs lists every member's user when the channel was deleted.
	RemovedUserIDs []uint
}

func (s *Service) validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < s.limits.ChannelNameMin || n > s.limits.ChannelNameMax {
		return "", apperrors.NameLength(s.limits.ChannelNameMin, s.limits.ChannelNameMax)
	}
	return name, nil
}

// CreateChannel creates the channel and its owner member atomically.
func (s *Service) CreateChannel(ctx context.Context, userID uint, name string, isPrivate bool) (*Membership, error) {
	name, err := s.validateName(name)
	if err != nil {
		return nil, err
	}

	channel := &models.Channel{Name: name, OwnerID: userID, IsPrivate: isPrivate}
	owner := &models.Member{UserID: userID, JoinedAt: time.Now(), NotifStatus: models.NotifAll}
	if err := s.store.CreateChannelWithOwner(ctx, channel, owner); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.NameInvalid("name is already taken")
		}
		return nil, apperrors.Internal(err)
	}
	return &Membership{Channel: channel, Member: owner, Created: true}, nil
}

// JoinChannel joins the named channel, creating it when it does not exist yet.
// Private channels need a pending invite, which the join consumes.
func (s *Service) JoinChannel(ctx context.Context, userID uint, name string) (*Membership, error) {
	name, err := s.validateName(name)
	if err != nil {
		return nil, err
	}

	channel, err := s.store.FindChannelByName(ctx, name)
	if err != nil {
		if !isNotFound(err) {
			return nil, apperrors.Internal(err)
		}
		created, err := s.CreateChannel(ctx, userID, name, false)
		if err == nil {
			return created, nil
		}
		if !apperrors.Is(err, apperrors.KindNameInvalid) {
			return nil, err
		}
		// lost a creation race, join the winner's channel
		if channel, err = s.store.FindChannelByName(ctx, name); err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	if _, err := s.store.FindMember(ctx, userID, channel.ID); err == nil {
		return nil, apperrors.AlreadyMember("join a channel")
	} else if !isNotFound(err) {
		return nil, apperrors.Internal(err)
	}

	banned, err := s.store.IsBlacklisted(ctx, userID, channel.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if banned {
		return nil, apperrors.MembershipProhibited("join the channel")
	}

	if channel.IsPrivate {
		if _, err := s.store.FindInvite(ctx, userID, channel.ID); err != nil {
			if isNotFound(err) {
				return nil, apperrors.InviteRequired("join a private channel")
			}
			return nil, apperrors.Internal(err)
		}
	}

	member := &models.Member{UserID: userID, ChannelID: channel.ID, JoinedAt: time.Now(), NotifStatus: models.NotifAll}
	if err := s.store.JoinWithInvite(ctx, member); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.AlreadyMember("join a channel")
		}
		return nil, apperrors.Internal(err)
	}
	return &Membership{Channel: channel, Member: member}, nil
}

// LeaveOrCancel deletes the channel when the caller owns it and otherwise removes only the caller.
func (s *Service) LeaveOrCancel(ctx context.Context, userID, channelID uint) (*CancelResult, error) {
	channel, err := s.channel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	member, err := s.member(ctx, userID, channelID, "leave the channel")
	if err != nil {
		return nil, err
	}

	if member.IsOwner {
		removed, err := s.deleteChannel(ctx, channelID)
		if err != nil {
			return nil, err
		}
		return &CancelResult{Channel: channel, Member: member, Deleted: true, RemovedUserIDs: removed}, nil
	}

	removed, err := s.store.DeleteMember(ctx, member.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !removed {
		return nil, apperrors.MembershipRequired("leave the channel")
	}
	return &CancelResult{Channel: channel, Member: member}, nil
}

// Quit is the owner-only hard delete.
func (s *Service) Quit(ctx context.Context, userID, channelID uint) (*CancelResult, error) {
	channel, err := s.channel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	member, err := s.member(ctx, userID, channelID, "delete the channel")
	if err != nil {
		return nil, err
	}
	if !member.IsOwner {
		return nil, apperrors.OwnershipRequired("delete the channel")
	}
	removed, err := s.deleteChannel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	return &CancelResult{Channel: channel, Member: member, Deleted: true, RemovedUserIDs: removed}, nil
}

func (s *Service) deleteChannel(ctx context.Context, channelID uint) ([]uint, error) {
	removed, err := s.store.DeleteChannel(ctx, channelID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ChannelNotFound()
		}
		return nil, apperrors.Internal(err)
	}
	return removed, nil
}

// ListChannels returns every channel the user belongs to with its members.
func (s *Service) ListChannels(ctx context.Context, userID uint) ([]ChannelView, error) {
	channels, err := s.store.GetUserChannels(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	views := make([]ChannelView, 0, len(channels))
	for i := range channels {
		views = append(views, newChannelView(&channels[i]))
	}
	return views, nil
}

// ListMembers returns the channel's members with the acting member ids of the kick votes each received.
func (s *Service) ListMembers(ctx context.Context, userID, channelID uint) ([]MemberView, error) {
	if _, err := s.channel(ctx, channelID); err != nil {
		return nil, err
	}
	if _, err := s.member(ctx, userID, channelID, "list its members"); err != nil {
		return nil, err
	}

	members, err := s.store.ListChannelMembers(ctx, channelID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	votes, err := s.store.ListChannelKickVotes(ctx, channelID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	received := make(map[uint][]uint)
	for _, v := range votes {
		received[v.TargetMemberID] = append(received[v.TargetMemberID], v.ActingMemberID)
	}

	views := make([]MemberView, 0, len(members))
	for i := range members {
		m := &members[i]
		view := newMemberView(m, &m.User)
		if acting, ok := received[m.ID]; ok {
			view.ReceivedKickVotes = acting
		}
		views = append(views, view)
	}
	return views, nil
}

// DescribeMember loads one member of the channel in client form.
func (s *Service) DescribeMember(ctx context.Context, member *models.Member) (MemberView, error) {
	user, err := s.user(ctx, member.UserID)
	if err != nil {
		return MemberView{}, err
	}
	return newMemberView(member, user), nil
}

// ListChannelInvites returns the pending invites of a channel the caller belongs to.
func (s *Service) ListChannelInvites(ctx context.Context, userID, channelID uint) ([]InviteView, error) {
	channel, err := s.channel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if _, err := s.member(ctx, userID, channelID, "list its invites"); err != nil {
		return nil, err
	}

	invites, err := s.store.ListChannelInvites(ctx, channelID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	views := make([]InviteView, 0, len(invites))
	for _, inv := range invites {
		views = append(views, InviteView{
			ID:          inv.ID,
			ChannelID:   inv.ChannelID,
			ChannelName: channel.Name,
			UserID:      inv.UserID,
			Nickname:    inv.User.Nick,
			InvitedAt:   inv.CreatedAt,
		})
	}
	return views, nil
}
