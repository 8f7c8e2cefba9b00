package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jerseyhub/backend/internal/contextkeys"
	"github.com/jerseyhub/backend/internal/domain"
	"github.com/jerseyhub/backend/internal/service"
)

// LinkHandler handles shared-link creation and public resolution.
type LinkHandler struct {
	svc *service.LinkService
}

// NewLinkHandler creates a new LinkHandler.
func NewLinkHandler(svc *service.LinkService) *LinkHandler {
	return &LinkHandler{svc: svc}
}

// Create handles POST /api/links.
func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(contextkeys.UserID).(string)

	var req domain.CreateLinkRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	resp, err := h.svc.Create(r.Context(), userID, &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, resp)
}

// List handles GET /api/links.
func (h *LinkHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(contextkeys.UserID).(string)

	links, err := h.svc.ListByUser(r.Context(), userID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, links)
}

// Resolve handles GET /api/link/{code} — the public, unauthenticated view.
func (h *LinkHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	resolved, err := h.svc.Resolve(r.Context(), code)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, resolved)
}
