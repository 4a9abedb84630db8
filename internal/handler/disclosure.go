package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/0xHy0kR1/LF-backend/internal/handler/dto"
	"github.com/0xHy0kR1/LF-backend/internal/service"
)

// DisclosureHandler serves the public view and security-question endpoints.
type DisclosureHandler struct {
	svc    *service.DisclosureService
	logger *slog.Logger
}

// NewDisclosureHandler creates a new DisclosureHandler.
func NewDisclosureHandler(svc *service.DisclosureService, logger *slog.Logger) *DisclosureHandler {
	return &DisclosureHandler{
		svc:    svc,
		logger: logger,
	}
}

// View handles GET /api/lost-items/view/{itemId}.
// Gated items answer with the question only.
func (h *DisclosureHandler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.RequestView(r.Context(), chi.URLParam(r, "itemId"))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	if view.Gated() {
		writeJSON(w, http.StatusOK, dto.GatedViewResponse{SecurityQuestion: view.Question})
		return
	}
	writeJSON(w, http.StatusOK, dto.ToItemDetailResponse(view.Detail))
}

// Answer handles POST /api/lost-items/answerSecurityQuestion/{itemId}.
func (h *DisclosureHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req dto.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	detail, err := h.svc.AnswerSecurityQuestion(r.Context(), chi.URLParam(r, "itemId"), req.SecurityQuestion.Answer)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToItemDetailResponse(detail))
}
