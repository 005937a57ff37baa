package middleware

import (
	"net/http"

	"feedline/internal/apperr"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondError تبدیل خطا به پاسخ HTTP؛ تنها جایی که خطاها لاگ می‌شوند
func RespondError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperr.StatusOf(err)
	message, data := apperr.Public(err)

	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Error("❌ Request failed", fields...)
	} else {
		logger.Info("Request rejected", fields...)
	}

	body := gin.H{"message": message}
	if data != nil {
		body["data"] = data
	}
	c.AbortWithStatusJSON(status, body)
}
