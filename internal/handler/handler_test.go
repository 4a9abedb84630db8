package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/0xHy0kR1/LF-backend/internal/service"
)

func TestHandler_NotFound(t *testing.T) {
	h := New()

	req := httptest.NewRequest(http.MethodGet, "/nonexistent", nil)
	rec := httptest.NewRecorder()

	h.NotFound(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["error"] != "resource not found" {
		t.Errorf("unexpected error message: %s", response["error"])
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	h := New()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	h.MethodNotAllowed(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if response["error"] != "method not allowed" {
		t.Errorf("unexpected error message: %s", response["error"])
	}
}

func TestHandleServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", fmt.Errorf("%w: title is required", service.ErrValidation), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"conflict", service.ErrConflict, http.StatusBadRequest, "USER_EXISTS"},
		{"no file", service.ErrNoFile, http.StatusBadRequest, "NO_FILE"},
		{"invalid image", service.ErrInvalidImage, http.StatusBadRequest, "INVALID_IMAGE"},
		{"bad question", service.ErrInvalidSecurityQuestion, http.StatusBadRequest, "INVALID_SECURITY_QUESTION"},
		{"unauthenticated", service.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"wrong password", service.ErrWrongPassword, http.StatusUnauthorized, "INVALID_PASSWORD"},
		{"incorrect answer", service.ErrIncorrectAnswer, http.StatusUnauthorized, "INCORRECT_ANSWER"},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "PERMISSION_DENIED"},
		{"user not found", service.ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
		{"item not found", fmt.Errorf("get: %w", service.ErrItemNotFound), http.StatusNotFound, "ITEM_NOT_FOUND"},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleServiceError(rec, logger, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}

			var response map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response["code"] != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, response["code"])
			}
			if response["error"] == "" {
				t.Error("expected a non-empty error message")
			}
		})
	}
}

func TestHandleServiceError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	handleServiceError(rec, slog.New(slog.NewTextHandler(io.Discard, nil)), errors.New("pq: password=hunter2"))

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["error"] != "An internal error occurred" {
		t.Errorf("unexpected error message: %s", response["error"])
	}
}
