package testutil

import (
	"errors"
	"testing"

	apperrors "igen/internal/errors"
)

// AssertAppError fails unless err is an *AppError carrying code, and returns it
// so callers can inspect details such as upload_batch_id.
func AssertAppError(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError %s, got %T: %v", code, err, err)
	}
	if appErr.Code != code {
		t.Errorf("expected error code %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

// ErrorDetail returns the named response detail of an AppError as a string.
func ErrorDetail(t *testing.T, appErr *apperrors.AppError, key string) string {
	t.Helper()

	value, ok := appErr.Details[key].(string)
	if !ok || value == "" {
		t.Fatalf("expected %s detail on %s, got %v", key, appErr.Code, appErr.Details)
	}
	return value
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
