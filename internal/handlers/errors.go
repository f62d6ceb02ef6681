package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/thereayou/voxus/internal/logger"
	"github.com/thereayou/voxus/pkg/apperrors"
)

// respondError writes a domain error with the status of its kind.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !apperrors.As(err, &appErr) {
		appErr = apperrors.Internal(err)
	}
	if appErr.Kind == apperrors.KindInternal {
		logger.Error("request failed", "path", c.FullPath(), "err", err)
	}
	c.AbortWithStatusJSON(appErr.Kind.HTTPStatus(), gin.H{"error": appErr.Message, "code": appErr.Code()})
}

func bindError(c *gin.Context, err error) {
	respondError(c, apperrors.Validation(err.Error()))
}
