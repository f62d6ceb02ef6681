package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/voxus/internal/middleware"
	"github.com/thereayou/voxus/internal/services"
)

type UserHandler struct {
	svc *services.Service
}

func NewUserHandler(svc *services.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

// GetMe возвращает информацию о текущем пользователе
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.svc.Me(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListChannels returns the caller's channels for clients that render before the socket is up.
func (h *UserHandler) ListChannels(c *gin.Context) {
	channels, err := h.svc.ListChannels(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"channels": channels})
}
