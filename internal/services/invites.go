package services

import (
	"context"
	"strings"
	"time"

	"github.com/thereayou/voxus/internal/models"
	"github.com/thereayou/voxus/pkg/apperrors"
)

// InviteResult carries what the caller needs to notify both sides.
type InviteResult struct {
	Invite  *models.Invite
	Channel *models.Channel
	Target  *models.User
	View    InviteView
}

// InviteUser invites the user with the given nick. Any member may invite to a public channel,
// only the owner to a private one or a blacklisted user. An owner invite lifts the ban.
func (s *Service) InviteUser(ctx context.Context, userID, channelID uint, nick string) (*InviteResult, error) {
	channel, err := s.channel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	acting, err := s.member(ctx, userID, channelID, "invite users")
	if err != nil {
		return nil, err
	}
	if channel.IsPrivate && !acting.IsOwner {
		return nil, apperrors.OwnershipRequired("invite users to a private channel")
	}

	target, err := s.userByNick(ctx, strings.TrimSpace(nick))
	if err != nil {
		return nil, err
	}

	if _, err := s.store.FindMember(ctx, target.ID, channelID); err == nil {
		return nil, apperrors.TargetAlreadyMember(target.Nick)
	} else if !isNotFound(err) {
		return nil, apperrors.Internal(err)
	}

	banned, err := s.store.IsBlacklisted(ctx, target.ID, channelID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if banned && !acting.IsOwner {
		return nil, apperrors.OwnershipRequired("invite a blacklisted member")
	}

	if _, err := s.store.FindInvite(ctx, target.ID, channelID); err == nil {
		return nil, apperrors.MemberAlreadyInvited(target.Nick)
	} else if !isNotFound(err) {
		return nil, apperrors.Internal(err)
	}

	invite := &models.Invite{UserID: target.ID, ChannelID: channelID, CreatedAt: time.Now()}
	if err := s.store.CreateInvite(ctx, invite, banned); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.DuplicateInvite()
		}
		return nil, apperrors.Internal(err)
	}

	return &InviteResult{
		Invite:  invite,
		Channel: channel,
		Target:  target,
		View: InviteView{
			ID:          invite.ID,
			ChannelID:   channel.ID,
			ChannelName: channel.Name,
			UserID:      target.ID,
			Nickname:    target.Nick,
			InvitedAt:   invite.CreatedAt,
		},
	}, nil
}

// AcceptInvite turns the caller's pending invite into membership.
func (s *Service) AcceptInvite(ctx context.Context, userID, channelID uint) (*Membership, error) {
	invite, err := s.pendingInvite(ctx, userID, channelID, "accept the invite")
	if err != nil {
		return nil, err
	}

	if _, err := s.store.FindMember(ctx, userID, channelID); err == nil {
		if _, err := s.store.DeleteInvite(ctx, invite.ID); err != nil {
			return nil, apperrors.Internal(err)
		}
		return nil, apperrors.AlreadyMember("accept an invite to a channel")
	} else if !isNotFound(err) {
		return nil, apperrors.Internal(err)
	}

	banned, err := s.store.IsBlacklisted(ctx, userID, channelID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if banned {
		return nil, apperrors.MembershipProhibited("accept the invite")
	}

	channel, err := s.channel(ctx, channelID)
	if err != nil {
		return nil, err
	}

	member := &models.Member{UserID: userID, ChannelID: channelID, JoinedAt: time.Now(), NotifStatus: models.NotifAll}
	if err := s.store.AcceptInvite(ctx, invite, member); err != nil {
		switch {
		case isNotFound(err):
			return nil, apperrors.InviteRequired("accept the invite")
		case isDuplicate(err):
			return nil, apperrors.AlreadyMember("accept an invite to a channel")
		}
		return nil, apperrors.Internal(err)
	}
	return &Membership{Channel: channel, Member: member}, nil
}

// DeclineInvite drops the caller's pending invite.
func (s *Service) DeclineInvite(ctx context.Context, userID, channelID uint) (*models.Invite, error) {
	invite, err := s.pendingInvite(ctx, userID, channelID, "decline the invite")
	if err != nil {
		return nil, err
	}

	removed, err := s.store.DeleteInvite(ctx, invite.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !removed {
		return nil, apperrors.InviteRequired("decline the invite")
	}
	return invite, nil
}

// ListUserInvites returns the caller's pending invites with channel names.
func (s *Service) ListUserInvites(ctx context.Context, userID uint) ([]InviteView, error) {
	invites, err := s.store.ListUserInvites(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	views := make([]InviteView, 0, len(invites))
	for _, inv := range invites {
		views = append(views, InviteView{
			ID:          inv.ID,
			ChannelID:   inv.ChannelID,
			ChannelName: inv.Channel.Name,
			UserID:      inv.UserID,
			InvitedAt:   inv.CreatedAt,
		})
	}
	return views, nil
}

func (s *Service) pendingInvite(ctx context.Context, userID, channelID uint, action string) (*models.Invite, error) {
	invite, err := s.store.FindInvite(ctx, userID, channelID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.InviteRequired(action)
		}
		return nil, apperrors.Internal(err)
	}
	return invite, nil
}
