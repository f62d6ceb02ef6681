package services

import (
	"context"

	"github.com/thereayou/voxus/internal/models"
	"github.com/thereayou/voxus/pkg/apperrors"
)

// Presence is a user's state change plus the users who should hear about it.
type Presence struct {
	User     *models.User
	Members  []models.Member
	Audience []uint
}

// Me returns the caller's profile.
func (s *Service) Me(ctx context.Context, userID uint) (*models.User, error) {
	return s.user(ctx, userID)
}

// UpdateStatus stores active/dnd and returns the presence audience.
func (s *Service) UpdateStatus(ctx context.Context, userID uint, status models.UserStatus) (*Presence, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("status must be active or dnd")
	}
	if err := s.store.UpdateUserStatus(ctx, userID, status); err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.presence(ctx, userID, false)
}

// Connect marks the user connected and returns their memberships for group subscription.
func (s *Service) Connect(ctx context.Context, userID uint) (*Presence, error) {
	if err := s.store.SetUserConnected(ctx, userID, true); err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.presence(ctx, userID, true)
}

// Disconnect marks the user disconnected; Members lets the caller clear per-channel state.
func (s *Service) Disconnect(ctx context.Context, userID uint) (*Presence, error) {
	if err := s.store.SetUserConnected(ctx, userID, false); err != nil {
		return nil, apperrors.Internal(err)
	}
	return s.presence(ctx, userID, true)
}

// MemberChannels lists the user's member rows.
func (s *Service) MemberChannels(ctx context.Context, userID uint) ([]models.Member, error) {
	members, err := s.store.ListUserMembers(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return members, nil
}

// Audience lists the other users sharing at least one channel with userID.
func (s *Service) Audience(ctx context.Context, userID uint) ([]uint, error) {
	ids, err := s.store.SharedChannelUserIDs(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return ids, nil
}

func (s *Service) presence(ctx context.Context, userID uint, withMembers bool) (*Presence, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	audience, err := s.Audience(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &Presence{User: user, Audience: audience}
	if withMembers {
		if p.Members, err = s.MemberChannels(ctx, userID); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// LiveConnections is the registry of sockets held by this process.
type LiveConnections interface {
	IsUserConnected(userID uint) bool
	ConnectedUserIDs() []uint
	// LockUser serializes presence changes of one user.
	LockUser(userID uint) (unlock func())
}

// Reconciled lists the users whose stored connection flag was corrected.
type Reconciled struct {
	Offline []uint
	Online  []uint
}

// ReconcileConnections makes the stored connection flags agree with live: rows marked connected
// without a socket are cleared and users holding a socket whose row says disconnected are set.
// Each correction is re-checked under the user's lock.
func (s *Service) ReconcileConnections(ctx context.Context, live LiveConnections) (*Reconciled, error) {
	result := &Reconciled{}

	stale, err := s.store.ListConnectedUserIDs(ctx)
	if err != nil {
		return result, apperrors.Internal(err)
	}
	for _, id := range stale {
		fixed, err := s.setConnectedIf(ctx, live, id, false)
		if err != nil {
			return result, err
		}
		if fixed {
			result.Offline = append(result.Offline, id)
		}
	}

	missing, err := s.store.FilterDisconnectedUserIDs(ctx, live.ConnectedUserIDs())
	if err != nil {
		return result, apperrors.Internal(err)
	}
	for _, id := range missing {
		fixed, err := s.setConnectedIf(ctx, live, id, true)
		if err != nil {
			return result, err
		}
		if fixed {
			result.Online = append(result.Online, id)
		}
	}
	return result, nil
}

// setConnectedIf writes connected only while live still agrees with it.
func (s *Service) setConnectedIf(ctx context.Context, live LiveConnections, userID uint, connected bool) (bool, error) {
	unlock := live.LockUser(userID)
	defer unlock()

	if live.IsUserConnected(userID) != connected {
		return false, nil
	}
	if err := s.store.SetUserConnected(ctx, userID, connected); err != nil {
		return false, apperrors.Internal(err)
	}
	return true, nil
}
