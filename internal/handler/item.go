package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/0xHy0kR1/LF-backend/internal/auth"
	"github.com/0xHy0kR1/LF-backend/internal/handler/dto"
	"github.com/0xHy0kR1/LF-backend/internal/service"
)

// multipartMemory is the part of a multipart body kept in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

var errBadForm = errors.New("invalid form data")

// ItemHandler handles HTTP requests for the lost item lifecycle.
type ItemHandler struct {
	svc    *service.ItemService
	logger *slog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(svc *service.ItemService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{
		svc:    svc,
		logger: logger,
	}
}

// itemForm holds the fields of a create or update form.
type itemForm struct {
	Title            string
	Description      string
	Category         string
	Location         string
	SecurityQuestion string
	Image            *service.Upload
}

// Create handles POST /api/lost-items/create.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		handleServiceError(w, h.logger, service.ErrUnauthenticated)
		return
	}

	form, ok := h.readForm(w, r)
	if !ok {
		return
	}

	item, err := h.svc.Create(r.Context(), service.CreateItemInput{
		OwnerID:          userID,
		Title:            form.Title,
		Description:      form.Description,
		Category:         form.Category,
		Location:         form.Location,
		SecurityQuestion: form.SecurityQuestion,
		Image:            form.Image,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ToItemResponse(item))
}

// ListLost handles GET /api/lost-items/list-lostItems.
func (h *ItemHandler) ListLost(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListLost(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToItemListResponse(items))
}

// ListFound handles GET /api/lost-items/list-foundItems.
func (h *ItemHandler) ListFound(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListFound(r.Context())
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.ToItemListResponse(items))
}

// Update handles PUT /api/lost-items/update/{itemId}.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	form, ok := h.readForm(w, r)
	if !ok {
		return
	}

	item, err := h.svc.Update(r.Context(), service.UpdateItemInput{
		ItemID:           chi.URLParam(r, "itemId"),
		UserID:           auth.UserIDFromContext(r.Context()),
		Title:            form.Title,
		Description:      form.Description,
		Category:         form.Category,
		Location:         form.Location,
		SecurityQuestion: form.SecurityQuestion,
		Image:            form.Image,
	})
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToItemResponse(item))
}

// Delete handles DELETE /api/lost-items/delete/{itemId}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	err := h.svc.Delete(r.Context(), chi.URLParam(r, "itemId"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Item deleted successfully",
	})
}

// MarkAsFound handles PUT /api/lost-items/markAsFound/{itemId}.
func (h *ItemHandler) MarkAsFound(w http.ResponseWriter, r *http.Request) {
	_, err := h.svc.MarkAsFound(r.Context(), chi.URLParam(r, "itemId"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Item marked as found successfully",
	})
}

// Notifications handles GET /api/lost-items/notifications/{itemId}.
func (h *ItemHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	log, err := h.svc.Notifications(r.Context(), chi.URLParam(r, "itemId"), auth.UserIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dto.NotificationListResponse{Notifications: log})
}

// readForm parses a multipart or urlencoded item form. The image part is optional
// here; Create reports a missing file through the service. On failure the
// response has already been written.
func (h *ItemHandler) readForm(w http.ResponseWriter, r *http.Request) (itemForm, bool) {
	form, err := parseItemForm(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "Upload exceeds the size limit")
			return form, false
		}
		h.logger.Warn("form_parse_failed", "error", err)
		writeError(w, http.StatusBadRequest, "INVALID_FORM", "Invalid form data")
		return form, false
	}
	return form, true
}

func parseItemForm(r *http.Request) (itemForm, error) {
	var form itemForm

	err := r.ParseMultipartForm(multipartMemory)
	switch {
	case err == nil:
	case errors.Is(err, http.ErrNotMultipart):
		if err := r.ParseForm(); err != nil {
			return form, fmt.Errorf("%w: %w", errBadForm, err)
		}
	default:
		return form, fmt.Errorf("%w: %w", errBadForm, err)
	}

	form.Title = r.FormValue("title")
	form.Description = r.FormValue("description")
	form.Category = r.FormValue("category")
	form.Location = r.FormValue("location")
	form.SecurityQuestion = r.FormValue("securityQuestion")

	if r.MultipartForm == nil {
		return form, nil
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, nil
	}
	if err != nil {
		return form, fmt.Errorf("%w: %w", errBadForm, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return form, fmt.Errorf("%w: %w", errBadForm, err)
	}

	form.Image = &service.Upload{
		Data:        data,
		ContentType: header.Header.Get("Content-Type"),
	}
	return form, nil
}
