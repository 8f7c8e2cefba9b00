package handler

import (
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jerseyhub/backend/internal/contextkeys"
	"github.com/jerseyhub/backend/internal/domain"
	"github.com/jerseyhub/backend/internal/service"
)

// maxImageUpload caps jersey image uploads at 10 MB.
const maxImageUpload = 10 << 20

// AdminHandler handles the admin dashboard: catalog CRUD and stats.
type AdminHandler struct {
	db      *pgxpool.Pool
	catalog *service.CatalogService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *pgxpool.Pool, catalog *service.CatalogService) *AdminHandler {
	return &AdminHandler{db: db, catalog: catalog}
}

// GetStats returns system-wide counts for the admin dashboard.
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var usersCount, jerseysCount, linksCount, totalViews int

	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM users").Scan(&usersCount); err != nil {
		log.Printf("failed to count users: %v", err)
	}
	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*) FROM jerseys").Scan(&jerseysCount); err != nil {
		log.Printf("failed to count jerseys: %v", err)
	}
	if err := h.db.QueryRow(r.Context(), "SELECT COUNT(*), COALESCE(SUM(view_count), 0) FROM shared_links").Scan(&linksCount, &totalViews); err != nil {
		log.Printf("failed to count links: %v", err)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"users":      usersCount,
		"jerseys":    jerseysCount,
		"links":      linksCount,
		"totalViews": totalViews,
	})
}

// CreateJersey handles POST /api/admin/jerseys (multipart form with image).
func (h *AdminHandler) CreateJersey(w http.ResponseWriter, r *http.Request) {
	userID, _ := r.Context().Value(contextkeys.UserID).(string)

	req, image, err := parseJerseyForm(r)
	if err != nil {
		Error(w, err)
		return
	}
	if image != nil {
		defer image.Close()
	}

	var file io.Reader
	if image != nil {
		file = image
	}

	jersey, err := h.catalog.CreateJersey(r.Context(), userID, &domain.CreateJerseyRequest{
		Title:    req.Title,
		TeamName: req.TeamName,
		Tags:     req.Tags,
	}, file)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, jersey)
}

// UpdateJersey handles PUT /api/admin/jerseys/{id}. The image is optional;
// when present it replaces the stored asset.
func (h *AdminHandler) UpdateJersey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	req, image, err := parseJerseyForm(r)
	if err != nil {
		Error(w, err)
		return
	}
	if image != nil {
		defer image.Close()
	}

	var file io.Reader
	if image != nil {
		file = image
	}

	jersey, err := h.catalog.UpdateJersey(r.Context(), id, req, file)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, jersey)
}

// DeleteJersey handles DELETE /api/admin/jerseys/{id}.
func (h *AdminHandler) DeleteJersey(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.catalog.DeleteJersey(r.Context(), id); err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}

// CreateTeam handles POST /api/admin/teams.
func (h *AdminHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateTeamRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	team, err := h.catalog.CreateTeam(r.Context(), &req)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusCreated, team)
}

// ListTeams handles GET /api/admin/teams.
func (h *AdminHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.catalog.ListTeams(r.Context())
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, teams)
}

// parseJerseyForm reads the multipart jersey form. The returned file is nil
// when no image was attached.
func parseJerseyForm(r *http.Request) (*domain.UpdateJerseyRequest, io.ReadCloser, error) {
	if err := r.ParseMultipartForm(maxImageUpload); err != nil {
		return nil, nil, domain.ErrBadRequest("invalid multipart form")
	}

	req := &domain.UpdateJerseyRequest{
		Title:    r.FormValue("title"),
		TeamName: r.FormValue("teamName"),
	}
	if raw := r.FormValue("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				req.Tags = append(req.Tags, t)
			}
		}
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return req, nil, nil
		}
		return nil, nil, domain.ErrBadRequest("invalid image upload")
	}
	return req, file, nil
}
