package service

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jerseyhub/backend/internal/domain"
	"github.com/jerseyhub/backend/pkg/storage"
)

// imageFolder is the asset-store folder for jersey images.
const imageFolder = "jerseys"

// CatalogService serves the browsable catalog and the admin CRUD behind it.
type CatalogService struct {
	jerseys  JerseyStore
	teams    TeamStore
	images   storage.ImageStore
	validate *validator.Validate
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(jerseys JerseyStore, teams TeamStore, images storage.ImageStore) *CatalogService {
	return &CatalogService{
		jerseys:  jerseys,
		teams:    teams,
		images:   images,
		validate: validator.New(),
	}
}

// Browse returns the catalog filtered by search term and tags, together with
// the tag vocabulary derived from the full (unfiltered) collection.
func (s *CatalogService) Browse(ctx context.Context, term string, tags []string) (*domain.CatalogResponse, error) {
	all, err := s.jerseys.FindAll(ctx)
	if err != nil {
		return nil, domain.ErrInternal("failed to load catalog", err)
	}

	return &domain.CatalogResponse{
		Jerseys: domain.FilterJerseys(all, term, tags),
		Tags:    domain.TagVocabulary(all),
	}, nil
}

// CreateJersey inserts a catalog entry, uploading the image first and
// creating the referenced team on demand.
func (s *CatalogService) CreateJersey(ctx context.Context, createdBy string, req *domain.CreateJerseyRequest, image io.Reader) (*domain.Jersey, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if image == nil {
		return nil, domain.ErrBadRequest("image is required")
	}

	team, err := s.teams.GetOrCreateByName(ctx, req.TeamName)
	if err != nil {
		return nil, domain.ErrInternal("failed to resolve team", err)
	}

	asset, err := s.images.Upload(ctx, image, imageFolder)
	if err != nil {
		return nil, domain.ErrInternal("failed to upload image", err)
	}

	now := time.Now()
	j := &domain.Jersey{
		ID:            uuid.New().String(),
		Title:         req.Title,
		TeamID:        team.ID,
		TeamName:      team.Name,
		ImageURL:      asset.URL,
		ImagePublicID: asset.PublicID,
		Tags:          req.Tags,
		CreatedBy:     &createdBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if j.Tags == nil {
		j.Tags = []string{}
	}

	if err := s.jerseys.Create(ctx, j); err != nil {
		// Insert failed after the upload; release the orphaned asset.
		if derr := s.images.Destroy(ctx, asset.PublicID); derr != nil {
			log.Printf("failed to release orphaned image %s: %v", asset.PublicID, derr)
		}
		return nil, domain.ErrInternal("failed to create jersey", err)
	}
	return j, nil
}

// UpdateJersey edits a catalog entry. A new image replaces and releases the
// previous asset; empty request fields are left unchanged.
func (s *CatalogService) UpdateJersey(ctx context.Context, id string, req *domain.UpdateJerseyRequest, image io.Reader) (*domain.Jersey, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	j, err := s.jerseys.FindByID(ctx, id)
	if err != nil {
		return nil, domain.ErrInternal("failed to find jersey", err)
	}
	if j == nil {
		return nil, domain.ErrNotFound("jersey not found")
	}

	if req.Title != "" {
		j.Title = req.Title
	}
	if req.TeamName != "" {
		team, err := s.teams.GetOrCreateByName(ctx, req.TeamName)
		if err != nil {
			return nil, domain.ErrInternal("failed to resolve team", err)
		}
		j.TeamID = team.ID
		j.TeamName = team.Name
	}
	if req.Tags != nil {
		j.Tags = req.Tags
	}

	oldPublicID := ""
	if image != nil {
		asset, err := s.images.Upload(ctx, image, imageFolder)
		if err != nil {
			return nil, domain.ErrInternal("failed to upload image", err)
		}
		oldPublicID = j.ImagePublicID
		j.ImageURL = asset.URL
		j.ImagePublicID = asset.PublicID
	}

	if err := s.jerseys.Update(ctx, j); err != nil {
		return nil, domain.ErrInternal("failed to update jersey", err)
	}

	if oldPublicID != "" {
		if err := s.images.Destroy(ctx, oldPublicID); err != nil {
			log.Printf("failed to release replaced image %s: %v", oldPublicID, err)
		}
	}
	return j, nil
}

// DeleteJersey removes a catalog entry and releases its image asset.
// Existing shared links referencing the jersey keep working; the resolver
// simply omits it.
func (s *CatalogService) DeleteJersey(ctx context.Context, id string) error {
	j, err := s.jerseys.FindByID(ctx, id)
	if err != nil {
		return domain.ErrInternal("failed to find jersey", err)
	}
	if j == nil {
		return domain.ErrNotFound("jersey not found")
	}

	if err := s.jerseys.Delete(ctx, id); err != nil {
		return domain.ErrInternal("failed to delete jersey", err)
	}

	if err := s.images.Destroy(ctx, j.ImagePublicID); err != nil {
		log.Printf("failed to release image %s: %v", j.ImagePublicID, err)
	}
	return nil
}

// CreateTeam handles the admin "add team" action.
func (s *CatalogService) CreateTeam(ctx context.Context, req *domain.CreateTeamRequest) (*domain.Team, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	team, err := s.teams.GetOrCreateByName(ctx, req.Name)
	if err != nil {
		return nil, domain.ErrInternal("failed to create team", err)
	}
	return team, nil
}

// ListTeams returns all teams for the admin forms.
func (s *CatalogService) ListTeams(ctx context.Context) ([]*domain.Team, error) {
	teams, err := s.teams.ListAll(ctx)
	if err != nil {
		return nil, domain.ErrInternal("failed to list teams", err)
	}
	return teams, nil
}
