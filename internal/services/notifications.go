package services

import (
	"context"

	"github.com/thereayou/voxus/internal/models"
	"github.com/thereayou/voxus/pkg/apperrors"
)

// UpdateNotifStatus stores the member's notification level. The caller must adjust the
// connection's general-group subscription before acknowledging.
func (s *Service) UpdateNotifStatus(ctx context.Context, userID, channelID uint, status models.NotifStatus) (*models.Member, error) {
	if !status.Valid() {
		return nil, apperrors.Validation("status must be one of all, mentions, none")
	}
	if _, err := s.channel(ctx, channelID); err != nil {
		return nil, err
	}
	member, err := s.member(ctx, userID, channelID, "change its notifications")
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateMemberNotifStatus(ctx, member.ID, status); err != nil {
		return nil, apperrors.Internal(err)
	}
	member.NotifStatus = status
	return member, nil
}

// ReceivesGeneral reports whether a member at this level holds the channel's general group.
func ReceivesGeneral(status models.NotifStatus) bool {
	return status == models.NotifAll || status == ""
}
