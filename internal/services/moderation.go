package services

import (
	"context"
	"time"

	"github.com/thereayou/voxus/internal/logger"
	"github.com/thereayou/voxus/internal/models"
	"github.com/thereayou/voxus/pkg/apperrors"
)

// KickResult reports the outcome of a kick vote.
type KickResult struct {
	Channel *models.Channel
	Target  *models.Member
	User    *models.User
	Votes   int
	Kicked  bool
	// ByOwner is set when the owner's vote forced the kick.
	ByOwner bool
	// Applied is false when a concurrent removal already deleted the target.
	Applied bool
}

// CastKickVote records a vote against targetMemberID. The target is removed and blacklisted once
// the recounted votes reach the quorum, or immediately when the owner votes.
func (s *Service) CastKickVote(ctx context.Context, userID, channelID, targetMemberID uint) (*KickResult, error) {
	channel, err := s.channel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	acting, err := s.member(ctx, userID, channelID, "vote to kick members")
	if err != nil {
		return nil, err
	}
	target, err := s.channelMember(ctx, channelID, targetMemberID)
	if err != nil {
		return nil, err
	}

	if acting.ID == target.ID {
		return nil, apperrors.ProhibitedKickVote("yourself")
	}
	if target.IsOwner {
		return nil, apperrors.ProhibitedKickVote("the channel owner")
	}

	if _, err := s.store.FindKickVote(ctx, acting.ID, target.ID); err == nil {
		return nil, apperrors.DuplicateVote()
	} else if !isNotFound(err) {
		return nil, apperrors.Internal(err)
	}

	vote := &models.KickVote{
		ChannelID:      channelID,
		TargetMemberID: target.ID,
		ActingMemberID: acting.ID,
		KickedByOwner:  acting.IsOwner,
		CreatedAt:      time.Now(),
	}
	if err := s.store.CreateKickVote(ctx, vote); err != nil {
		if isDuplicate(err) {
			return nil, apperrors.DuplicateVote()
		}
		return nil, apperrors.Internal(err)
	}

	// recount after the insert so back-to-back votes both see each other
	count, err := s.store.CountKickVotes(ctx, target.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user, err := s.user(ctx, target.UserID)
	if err != nil {
		return nil, err
	}

	result := &KickResult{Channel: channel, Target: target, User: user, Votes: count}
	if acting.IsOwner || count >= s.limits.KickQuorum {
		applied, err := s.store.KickMember(ctx, target)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		result.Kicked = true
		result.ByOwner = acting.IsOwner
		result.Applied = applied
		return result, nil
	}

	if err := s.store.UpdateMemberKickVotes(ctx, target.ID, count); err != nil {
		logger.Warn("kick vote counter not updated", "member_id", target.ID, "err", err)
	}
	target.KickVotes = count
	result.Applied = true
	return result, nil
}

// RevokeResult reports a revoked member.
type RevokeResult struct {
	Channel *models.Channel
	Target  *models.Member
	User    *models.User
	Applied bool
}

// RevokeMember is the owner's removal without a vote. It leaves no blacklist entry.
func (s *Service) RevokeMember(ctx context.Context, userID, channelID, targetMemberID uint) (*RevokeResult, error) {
	channel, err := s.channel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	acting, err := s.member(ctx, userID, channelID, "revoke members")
	if err != nil {
		return nil, err
	}
	if !acting.IsOwner {
		return nil, apperrors.OwnershipRequired("revoke members")
	}

	target, err := s.channelMember(ctx, channelID, targetMemberID)
	if err != nil {
		return nil, err
	}
	if target.IsOwner {
		return nil, apperrors.ProhibitedKickVote("the channel owner")
	}

	user, err := s.user(ctx, target.UserID)
	if err != nil {
		return nil, err
	}

	applied, err := s.store.DeleteMember(ctx, target.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &RevokeResult{Channel: channel, Target: target, User: user, Applied: applied}, nil
}
