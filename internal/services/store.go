package services

import (
	"context"
	"errors"

	"github.com/thereayou/voxus/internal/database"
	"github.com/thereayou/voxus/internal/models"
)

// Store is the persistence surface the services depend on. *database.Database implements it.
type Store interface {
	SaveUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByNick(ctx context.Context, nick string) (*models.User, error)
	UpdateUserStatus(ctx context.Context, id uint, status models.UserStatus) error
	SetUserConnected(ctx context.Context, id uint, connected bool) error
	ListConnectedUserIDs(ctx context.Context) ([]uint, error)
	FilterDisconnectedUserIDs(ctx context.Context, ids []uint) ([]uint, error)
	SharedChannelUserIDs(ctx context.Context, userID uint) ([]uint, error)

	CreateChannelWithOwner(ctx context.Context, channel *models.Channel, owner *models.Member) error
	GetChannel(ctx context.Context, id uint) (*models.Channel, error)
	FindChannelByName(ctx context.Context, name string) (*models.Channel, error)
	GetUserChannels(ctx context.Context, userID uint) ([]models.Channel, error)
	DeleteChannel(ctx context.Context, id uint) ([]uint, error)

	JoinWithInvite(ctx context.Context, member *models.Member) error
	GetMember(ctx context.Context, id uint) (*models.Member, error)
	FindMember(ctx context.Context, userID, channelID uint) (*models.Member, error)
	ListChannelMembers(ctx context.Context, channelID uint) ([]models.Member, error)
	ListUserMembers(ctx context.Context, userID uint) ([]models.Member, error)
	DeleteMember(ctx context.Context, id uint) (bool, error)
	KickMember(ctx context.Context, member *models.Member) (bool, error)
	UpdateMemberNotifStatus(ctx context.Context, id uint, status models.NotifStatus) error
	UpdateMemberKickVotes(ctx context.Context, id uint, votes int) error

	CreateInvite(ctx context.Context, invite *models.Invite, clearBlacklist bool) error
	FindInvite(ctx context.Context, userID, channelID uint) (*models.Invite, error)
	DeleteInvite(ctx context.Context, id uint) (bool, error)
	AcceptInvite(ctx context.Context, invite *models.Invite, member *models.Member) error
	ListUserInvites(ctx context.Context, userID uint) ([]models.Invite, error)
	ListChannelInvites(ctx context.Context, channelID uint) ([]models.Invite, error)

	CreateKickVote(ctx context.Context, vote *models.KickVote) error
	FindKickVote(ctx context.Context, actingMemberID, targetMemberID uint) (*models.KickVote, error)
	CountKickVotes(ctx context.Context, targetMemberID uint) (int, error)
	ListChannelKickVotes(ctx context.Context, channelID uint) ([]models.KickVote, error)
	IsBlacklisted(ctx context.Context, userID, channelID uint) (bool, error)

	SaveMessage(ctx context.Context, message *models.Message) error
	GetChannelMessages(ctx context.Context, channelID uint, offset, limit int) ([]models.Message, error)
	GetFile(ctx context.Context, id uint) (*models.File, error)
}

var _ Store = (*database.Database)(nil)

func isNotFound(err error) bool {
	return errors.Is(err, database.ErrNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, database.ErrDuplicate)
}
