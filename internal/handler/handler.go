// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/0xHy0kR1/LF-backend/internal/handler/dto"
	"github.com/0xHy0kR1/LF-backend/internal/service"
)

// Handler serves the router-level fallbacks.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Default().Error("response_encode_failed", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleServiceError maps service errors to HTTP responses.
// Internal failures are logged and answered with a generic message.
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "VALIDATION_FAILED", err.Error())
	case errors.Is(err, service.ErrConflict):
		writeError(w, http.StatusBadRequest, "USER_EXISTS", "User already exists")
	case errors.Is(err, service.ErrNoFile):
		writeError(w, http.StatusBadRequest, "NO_FILE", "No file uploaded")
	case errors.Is(err, service.ErrInvalidImage):
		writeError(w, http.StatusBadRequest, "INVALID_IMAGE", "Unsupported or corrupt image")
	case errors.Is(err, service.ErrInvalidSecurityQuestion):
		writeError(w, http.StatusBadRequest, "INVALID_SECURITY_QUESTION", "Invalid JSON format for securityQuestion")
	case errors.Is(err, service.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", "Authentication required")
	case errors.Is(err, service.ErrWrongPassword):
		writeError(w, http.StatusUnauthorized, "INVALID_PASSWORD", "Invalid password")
	case errors.Is(err, service.ErrIncorrectAnswer):
		writeError(w, http.StatusUnauthorized, "INCORRECT_ANSWER", "Incorrect answer")
	case errors.Is(err, service.ErrForbidden):
		writeError(w, http.StatusForbidden, "PERMISSION_DENIED", "Permission denied")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case errors.Is(err, service.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "Lost item not found")
	default:
		logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred")
	}
}
