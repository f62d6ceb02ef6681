package handlers

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/voxus/internal/logger"
	"github.com/thereayou/voxus/internal/middleware"
	"github.com/thereayou/voxus/internal/services"
	"github.com/thereayou/voxus/internal/storage"
	"github.com/thereayou/voxus/pkg/apperrors"
)

// allowedMimePrefixes lists the attachment types accepted on upload.
var allowedMimePrefixes = []string{
	"image/",
	"video/",
	"audio/",
	"text/plain",
	"application/pdf",
	"application/zip",
}

type HTTPMessageHandler struct {
	svc   *services.Service
	store storage.Storage
}

func NewHTTPMessageHandler(svc *services.Service, store storage.Storage) *HTTPMessageHandler {
	return &HTTPMessageHandler{svc: svc, store: store}
}

func idParam(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid " + name)
	}
	return uint(id), nil
}

// GetChannelMessages получает историю сообщений канала
func (h *HTTPMessageHandler) GetChannelMessages(c *gin.Context) {
	channelID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	offset := 0
	if o := c.Query("offset"); o != "" {
		if offset, err = strconv.Atoi(o); err != nil || offset < 0 {
			respondError(c, apperrors.Validation("offset must be a non-negative integer"))
			return
		}
	}

	page, err := h.svc.ListMessages(c.Request.Context(), middleware.UserID(c), channelID, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

// UploadFile stores one attachment and returns the descriptor to put into msg:send.
func (h *HTTPMessageHandler) UploadFile(c *gin.Context) {
	channelID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()

	if err := h.svc.AuthorizeUpload(ctx, middleware.UserID(c), channelID); err != nil {
		respondError(c, err)
		return
	}

	limit := h.svc.Limits().MaxFileSize
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+1<<20)

	header, err := c.FormFile("file")
	if err != nil {
		respondError(c, apperrors.MalformedMessage("file is required"))
		return
	}
	if header.Size > limit {
		respondError(c, apperrors.MalformedMessage("file is too large"))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	if !allowedMime(contentType) {
		respondError(c, apperrors.MalformedMessage("file type "+contentType+" is not allowed"))
		return
	}

	src, err := header.Open()
	if err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}
	defer src.Close()

	key := services.UploadPrefix + uuid.NewString() + strings.ToLower(filepath.Ext(header.Filename))
	if err := h.store.Save(ctx, key, src, contentType); err != nil {
		respondError(c, apperrors.Internal(err))
		return
	}

	logger.Debug("file uploaded", "channel_id", channelID, "key", key, "size", header.Size)
	c.JSON(http.StatusCreated, services.FileInput{
		Name:     filepath.Base(header.Filename),
		Path:     key,
		Size:     header.Size,
		MimeType: contentType,
	})
}

// DownloadFile streams an attachment to a member of its channel.
func (h *HTTPMessageHandler) DownloadFile(c *gin.Context) {
	channelID, err := idParam(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	fileID, err := idParam(c, "fileId")
	if err != nil {
		respondError(c, err)
		return
	}
	ctx := c.Request.Context()

	file, err := h.svc.GetFile(ctx, middleware.UserID(c), channelID, fileID)
	if err != nil {
		respondError(c, err)
		return
	}

	body, err := h.store.Get(ctx, file.Path)
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			respondError(c, apperrors.FileNotFound())
			return
		}
		respondError(c, apperrors.Internal(err))
		return
	}
	defer body.Close()

	contentType := file.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": file.Name}))
	c.DataFromReader(http.StatusOK, file.Size, contentType, body, nil)
}

func allowedMime(contentType string) bool {
	for _, prefix := range allowedMimePrefixes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}
