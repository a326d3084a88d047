package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "submission not found",
			},
			expected: "NOT_FOUND: submission not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "draft save failed",
				Err:     errors.New("connection refused"),
			},
			expected: "INTERNAL_ERROR: draft save failed (caused by: connection refused)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConflictOnDate(t *testing.T) {
	err := ConflictOnDate(3, 5, 2, 2025)

	if err.Code != CodeConflict {
		t.Errorf("expected code %s, got %s", CodeConflict, err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, err.HTTPStatus)
	}
	if err.Message != "Room 3 is already occupied on 2025-02-05" {
		t.Errorf("unexpected message: %s", err.Message)
	}
	if err.Details["room"] != 3 || err.Details["day"] != 5 {
		t.Errorf("expected room/day details, got %v", err.Details)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("timeout")
	err := Internal("sync failed", cause)

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the wrapped cause")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := InvalidInput("bad month")
	if got := AsAppError(appErr); got != appErr {
		t.Error("expected AsAppError to pass through an AppError unchanged")
	}

	plain := errors.New("boom")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("expected unknown errors to collapse to %s, got %s", CodeInternal, got.Code)
	}
	if !errors.Is(got, plain) {
		t.Error("expected the original error to be preserved as the cause")
	}
}
