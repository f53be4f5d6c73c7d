package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "igen/internal/errors"
	"igen/internal/logger"
	"igen/internal/middleware"
	"igen/internal/models"
	"igen/internal/services"
)

const dateLayout = "2006-01-02"

var errInvalidDate = apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid date format. Use YYYY-MM-DD.")

// ErrorResponse represents an error response. Some errors add extra keys
// such as detected_headers or upload_batch_id.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID := c.GetString(middleware.ContextUserID)
	if userID == "" {
		return "", apperrors.ErrUnauthorized
	}
	return userID, nil
}

// scopeFromContext builds the caller's tenant scope from the token claims.
func scopeFromContext(c *gin.Context) (services.Scope, error) {
	userID, err := getUserID(c)
	if err != nil {
		return services.Scope{}, err
	}
	role, _ := c.Get(middleware.ContextRole)
	r, _ := role.(models.Role)
	companies, _ := c.Get(middleware.ContextCompanyIDs)
	ids, _ := companies.([]string)
	return services.Scope{UserID: userID, Role: r, CompanyIDs: ids}, nil
}

// requireParam returns a non-empty path or query value.
func requireParam(value, name string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, name+" is required")
	}
	return value, nil
}

// parseDate parses an optional YYYY-MM-DD value.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, errInvalidDate
	}
	return &t, nil
}

// parseDecimal parses an optional decimal value.
func parseDecimal(raw, name string) (*decimal.Decimal, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+name)
	}
	return &d, nil
}

// optionalID returns nil for an empty id.
func optionalID(id string) *string {
	if id = strings.TrimSpace(id); id == "" {
		return nil
	}
	return &id
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, middleware.ErrorBody(appErr))
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(apperrors.ErrInternalServer.StatusCode, middleware.ErrorBody(apperrors.ErrInternalServer))
}
