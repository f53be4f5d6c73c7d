package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "igen/internal/errors"
	"igen/internal/logger"
)

// APIKeyHeader carries the shared key of the statement pipeline.
const APIKeyHeader = "X-API-Key"

// PipelineAuthMiddleware admits requests whose API key matches apiKey.
// Pipeline requests act without a user, so no user context is set.
func PipelineAuthMiddleware(apiKey string) gin.HandlerFunc {
	expected := []byte(apiKey)
	return func(c *gin.Context) {
		if len(expected) == 0 {
			abortWith(c, apperrors.ErrPipelineDisabled)
			return
		}
		key := strings.TrimSpace(c.GetHeader(APIKeyHeader))
		if key == "" || subtle.ConstantTimeCompare([]byte(key), expected) != 1 {
			logger.Get().Warnw("rejected pipeline request", "path", c.FullPath(), "client_ip", c.ClientIP())
			abortWith(c, apperrors.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
