package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/thereayou/voxus/internal/models"
	"github.com/thereayou/voxus/internal/storage"
	"github.com/thereayou/voxus/pkg/apperrors"
)

var mentionPattern = regexp.MustCompile(`@(\d+)`)

// UploadPrefix is the storage key prefix of message attachments.
const UploadPrefix = "uploads/"

// FileInput describes an attachment already written to storage. Size and MimeType are
// replaced by what storage reports when the message is saved.
type FileInput struct {
	Name     string `json:"name" validate:"required,max=255"`
	Path     string `json:"path" validate:"required"`
	Size     int64  `json:"size" validate:"gte=0"`
	MimeType string `json:"mimeType"`
}

// Delivery is a stored message plus its routing plan.
type Delivery struct {
	Message MessageView
	// AuthorUserID always sees their own message.
	AuthorUserID uint
	// MentionedUserIDs get the message on their personal route, once.
	MentionedUserIDs []uint
	// Excluded users must not receive it through the general group:
	// do-not-disturb users and mentioned users.
	Excluded map[uint]bool
}

// ExtractMentions returns the distinct member ids referenced as @<digits>, in order of appearance.
func ExtractMentions(content string) []uint {
	var ids []uint
	seen := make(map[uint]bool)
	for _, m := range mentionPattern.FindAllStringSubmatch(content, -1) {
		id, err := strconv.ParseUint(m[1], 10, 64)
		if err != nil || id == 0 || seen[uint(id)] {
			continue
		}
		seen[uint(id)] = true
		ids = append(ids, uint(id))
	}
	return ids
}

func (s *Service) validateMessage(content string, files []FileInput) error {
	if strings.TrimSpace(content) == "" && len(files) == 0 {
		return apperrors.MalformedMessage("a message needs content or files")
	}
	if utf8.RuneCountInString(content) > s.limits.MessageMaxLength {
		return apperrors.MalformedMessage(fmt.Sprintf("content exceeds %d characters", s.limits.MessageMaxLength))
	}
	if len(files) > s.limits.MaxFileCount {
		return apperrors.MalformedMessage(fmt.Sprintf("at most %d files per message", s.limits.MaxFileCount))
	}
	for _, f := range files {
		if f.Size > s.limits.MaxFileSize {
			return apperrors.MalformedMessage(fmt.Sprintf("file %s is too large", f.Name))
		}
		clean := path.Clean(f.Path)
		if clean != f.Path || !strings.HasPrefix(clean, UploadPrefix) {
			return apperrors.MalformedMessage(fmt.Sprintf("file %s has an invalid path", f.Name))
		}
	}
	return nil
}

// resolveFiles takes size and type from storage; the client's copy of them is only a hint.
func (s *Service) resolveFiles(ctx context.Context, channelID uint, files []FileInput) ([]models.File, error) {
	stored := make([]models.File, 0, len(files))
	for _, f := range files {
		info, err := s.files.Stat(ctx, f.Path)
		if err != nil {
			if errors.Is(err, storage.ErrNotExist) {
				return nil, apperrors.MalformedMessage(fmt.Sprintf("file %s was not uploaded", f.Name))
			}
			return nil, apperrors.Internal(err)
		}
		if info.Size > s.limits.MaxFileSize {
			return nil, apperrors.MalformedMessage(fmt.Sprintf("file %s is too large", f.Name))
		}
		if info.ContentType == "" {
			info.ContentType = "application/octet-stream"
		}
		stored = append(stored, models.File{
			ChannelID: channelID,
			Path:      f.Path,
			Name:      f.Name,
			Size:      info.Size,
			MimeType:  info.ContentType,
		})
	}
	return stored, nil
}

// SendMessage stores a message and computes who receives it.
func (s *Service) SendMessage(ctx context.Context, userID, channelID uint, content string, files []FileInput) (*Delivery, error) {
	if _, err := s.channel(ctx, channelID); err != nil {
		return nil, err
	}
	author, err := s.member(ctx, userID, channelID, "send messages in a channel")
	if err != nil {
		return nil, err
	}
	if err := s.validateMessage(content, files); err != nil {
		return nil, err
	}

	stored, err := s.resolveFiles(ctx, channelID, files)
	if err != nil {
		return nil, err
	}

	message := &models.Message{MemberID: author.ID, ChannelID: channelID, Content: content, Files: stored}
	if err := s.store.SaveMessage(ctx, message); err != nil {
		return nil, apperrors.Internal(err)
	}

	members, err := s.store.ListChannelMembers(ctx, channelID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	byID := make(map[uint]*models.Member, len(members))
	for i := range members {
		byID[members[i].ID] = &members[i]
	}

	delivery := &Delivery{AuthorUserID: userID, Excluded: make(map[uint]bool)}
	for i := range members {
		if members[i].User.Status == models.UserStatusDND {
			delivery.Excluded[members[i].UserID] = true
		}
	}

	// unknown ids and members of other channels are ignored
	var mentions []uint
	for _, id := range ExtractMentions(message.Content) {
		m, ok := byID[id]
		if !ok {
			continue
		}
		mentions = append(mentions, m.ID)
		if m.UserID == userID {
			continue
		}
		delivery.MentionedUserIDs = append(delivery.MentionedUserIDs, m.UserID)
		delivery.Excluded[m.UserID] = true
	}

	authorView := AuthorView{MemberID: author.ID, UserID: userID}
	if m, ok := byID[author.ID]; ok {
		authorView.Nickname = m.User.Nick
	}
	delivery.Message = newMessageView(message, authorView, mentions)
	return delivery, nil
}

// MessagePage is one newest-first page of channel history.
type MessagePage struct {
	ChannelID uint          `json:"channelId"`
	Offset    int           `json:"offset"`
	Messages  []MessageView `json:"messages"`
	Members   []MemberView  `json:"members"`
}

// ListMessages returns a page of MessageBatchSize messages starting at offset.
func (s *Service) ListMessages(ctx context.Context, userID, channelID uint, offset int) (*MessagePage, error) {
	if _, err := s.channel(ctx, channelID); err != nil {
		return nil, err
	}
	if _, err := s.member(ctx, userID, channelID, "read its messages"); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.store.GetChannelMessages(ctx, channelID, offset, s.limits.MessageBatchSize)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	members, err := s.store.ListChannelMembers(ctx, channelID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	page := &MessagePage{
		ChannelID: channelID,
		Offset:    offset,
		Messages:  make([]MessageView, 0, len(messages)),
		Members:   make([]MemberView, 0, len(members)),
	}
	byID := make(map[uint]*models.Member, len(members))
	for i := range members {
		m := &members[i]
		byID[m.ID] = m
		page.Members = append(page.Members, newMemberView(m, &m.User))
	}

	for i := range messages {
		msg := &messages[i]
		author := AuthorView{MemberID: msg.MemberID}
		if m, ok := byID[msg.MemberID]; ok {
			author.UserID = m.UserID
			author.Nickname = m.User.Nick
		}
		var mentions []uint
		for _, id := range ExtractMentions(msg.Content) {
			if _, ok := byID[id]; ok {
				mentions = append(mentions, id)
			}
		}
		page.Messages = append(page.Messages, newMessageView(msg, author, mentions))
	}
	return page, nil
}
