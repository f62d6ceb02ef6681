package services

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/thereayou/voxus/internal/config"
	"github.com/thereayou/voxus/internal/models"
	"github.com/thereayou/voxus/internal/storage"
	"github.com/thereayou/voxus/pkg/apperrors"
)

// Service implements the channel membership, moderation and messaging rules.
// Callers fan out events only after a method returns without error.
type Service struct {
	store  Store
	files  FileStat
	limits config.Limits
	// nick -> user id; nicks never change once registered
	nicks *cache.Cache
}

// FileStat reports what storage holds for an attachment key.
type FileStat interface {
	Stat(ctx context.Context, key string) (storage.ObjectInfo, error)
}

func NewService(store Store, files FileStat, limits config.Limits) *Service {
	return &Service{
		store:  store,
		files:  files,
		limits: limits,
		nicks:  cache.New(10*time.Minute, 20*time.Minute),
	}
}

func (s *Service) Limits() config.Limits {
	return s.limits
}

func (s *Service) channel(ctx context.Context, id uint) (*models.Channel, error) {
	channel, err := s.store.GetChannel(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.ChannelNotFound()
		}
		return nil, apperrors.Internal(err)
	}
	return channel, nil
}

// member returns the caller's membership or MembershipRequired(action).
func (s *Service) member(ctx context.Context, userID, channelID uint, action string) (*models.Member, error) {
	member, err := s.store.FindMember(ctx, userID, channelID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.MembershipRequired(action)
		}
		return nil, apperrors.Internal(err)
	}
	return member, nil
}

// RequireMember is member for callers outside the package.
func (s *Service) RequireMember(ctx context.Context, userID, channelID uint, action string) (*models.Member, error) {
	if _, err := s.channel(ctx, channelID); err != nil {
		return nil, err
	}
	return s.member(ctx, userID, channelID, action)
}

// channelMember loads a member of channelID by member id.
func (s *Service) channelMember(ctx context.Context, channelID, memberID uint) (*models.Member, error) {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.MemberNotFound()
		}
		return nil, apperrors.Internal(err)
	}
	if member.ChannelID != channelID {
		return nil, apperrors.MemberNotFound()
	}
	return member, nil
}

func (s *Service) user(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.UserNotFound()
		}
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *Service) userByNick(ctx context.Context, nick string) (*models.User, error) {
	if id, ok := s.nicks.Get(nick); ok {
		return s.user(ctx, id.(uint))
	}

	user, err := s.store.FindUserByNick(ctx, nick)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.UserNotFound()
		}
		return nil, apperrors.Internal(err)
	}
	s.nicks.SetDefault(nick, user.ID)
	return user, nil
}
