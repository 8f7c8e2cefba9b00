package handler

import (
	"net/http"
	"strings"

	"github.com/jerseyhub/backend/internal/service"
)

// CatalogHandler serves the authenticated catalog screen.
type CatalogHandler struct {
	svc *service.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Browse handles GET /api/catalog?search=&tags=a,b.
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("search")

	var tags []string
	if raw := r.URL.Query().Get("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	resp, err := h.svc.Browse(r.Context(), term, tags)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, resp)
}
