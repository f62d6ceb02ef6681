package services

import (
	"context"

	"github.com/thereayou/voxus/internal/models"
	"github.com/thereayou/voxus/pkg/apperrors"
)

// AuthorizeUpload checks that the caller may attach files to the channel.
func (s *Service) AuthorizeUpload(ctx context.Context, userID, channelID uint) error {
	if _, err := s.channel(ctx, channelID); err != nil {
		return err
	}
	_, err := s.member(ctx, userID, channelID, "upload files")
	return err
}

// GetFile returns an attachment of the channel to one of its members.
func (s *Service) GetFile(ctx context.Context, userID, channelID, fileID uint) (*models.File, error) {
	if _, err := s.member(ctx, userID, channelID, "download files"); err != nil {
		return nil, err
	}

	file, err := s.store.GetFile(ctx, fileID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.FileNotFound()
		}
		return nil, apperrors.Internal(err)
	}
	if file.ChannelID != channelID {
		return nil, apperrors.FileNotFound()
	}
	return file, nil
}
