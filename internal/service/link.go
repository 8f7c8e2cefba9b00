package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jerseyhub/backend/internal/domain"
)

// maxCodeAttempts bounds the collision retry loop around link creation.
// With 36^8 possible codes a collision is already unlikely; hitting the
// bound means something is wrong and the error should surface.
const maxCodeAttempts = 5

// LinkService creates and resolves shared catalog links.
type LinkService struct {
	links         LinkStore
	jerseys       JerseyStore
	users         UserStore
	validate      *validator.Validate
	publicBaseURL string
}

// NewLinkService creates a new LinkService. publicBaseURL is the origin the
// generated /link/{code} URLs are built against.
func NewLinkService(links LinkStore, jerseys JerseyStore, users UserStore, publicBaseURL string) *LinkService {
	return &LinkService{
		links:         links,
		jerseys:       jerseys,
		users:         users,
		validate:      validator.New(),
		publicBaseURL: publicBaseURL,
	}
}

// Create generates a shared link for the caller's selection. Non-admin
// callers must have a contact phone on file so the public page can render
// the contact affordance.
func (s *LinkService) Create(ctx context.Context, userID string, req *domain.CreateLinkRequest) (*domain.CreateLinkResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to find user", err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized("unknown user")
	}
	if !user.IsAdmin() && (user.Phone == nil || *user.Phone == "") {
		return nil, domain.ErrValidation("contact phone is required before generating links")
	}

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := s.nextCode(ctx)

		link := &domain.SharedLink{
			ShortCode: code,
			UserID:    userID,
			JerseyIDs: req.JerseyIDs,
			ViewCount: 0,
			ExpiresAt: req.ExpiresAt,
			CreatedAt: time.Now(),
		}

		err := s.links.Create(ctx, link)
		if err == nil {
			return &domain.CreateLinkResponse{
				ShortCode: code,
				URL:       fmt.Sprintf("%s/link/%s", s.publicBaseURL, code),
			}, nil
		}
		if err == domain.ErrDuplicateCode {
			log.Printf("short code collision on %q, retrying (%d/%d)", code, attempt+1, maxCodeAttempts)
			continue
		}
		return nil, domain.ErrInternal("failed to create link", err)
	}

	return nil, domain.ErrInternal("failed to create link", fmt.Errorf("exhausted %d short code attempts", maxCodeAttempts))
}

// nextCode asks the database for a unique code and falls back to local
// random generation when that fails. The fallback does not guarantee
// uniqueness; the insert constraint does.
func (s *LinkService) nextCode(ctx context.Context) string {
	code, err := s.links.GenerateCode(ctx)
	if err == nil && code != "" {
		return code
	}
	if err != nil {
		log.Printf("server-side code generation failed, using local fallback: %v", err)
	}
	return randomShortCode(domain.ShortCodeLength)
}

func randomShortCode(length int) string {
	alphabet := domain.ShortCodeAlphabet
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			// crypto/rand only fails when the OS entropy source is broken;
			// the insert constraint still guards uniqueness.
			b[i] = alphabet[int(time.Now().UnixNano())%len(alphabet)]
			continue
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b)
}

// Resolve turns a visitor-supplied code into the public link payload.
//
// Unknown and expired codes share the same public message; the logs
// distinguish them. The view-count increment is attempted before the item
// fetch but its failure never blocks resolution. Jerseys deleted since the
// link was created are silently omitted.
func (s *LinkService) Resolve(ctx context.Context, code string) (*domain.ResolvedLink, error) {
	link, err := s.links.FindByCode(ctx, code)
	if err != nil {
		return nil, domain.ErrInternal("failed to load link", err)
	}
	if link == nil {
		log.Printf("link %q not found", code)
		return nil, domain.ErrNotFound("link not found or expired")
	}
	if link.Expired(time.Now()) {
		log.Printf("link %q expired at %s", code, link.ExpiresAt.Format(time.RFC3339))
		return nil, domain.ErrNotFound("link not found or expired")
	}

	if err := s.links.IncrementViewCount(ctx, code); err != nil {
		log.Printf("failed to count view for link %q: %v", code, err)
	}

	jerseys, err := s.jerseys.FindByIDs(ctx, link.JerseyIDs)
	if err != nil {
		return nil, domain.ErrInternal("failed to load jerseys", err)
	}

	resolved := &domain.ResolvedLink{Jerseys: jerseys}
	owner, err := s.users.FindByID(ctx, link.UserID)
	if err != nil || owner == nil {
		// The page still renders without contact details.
		log.Printf("failed to load owner for link %q: %v", code, err)
		return resolved, nil
	}
	resolved.OwnerName = displayName(owner.Email)
	if owner.Phone != nil {
		resolved.OwnerPhone = *owner.Phone
	}
	return resolved, nil
}

// ListByUser returns the caller's links with their view counts.
func (s *LinkService) ListByUser(ctx context.Context, userID string) ([]*domain.SharedLink, error) {
	links, err := s.links.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, domain.ErrInternal("failed to list links", err)
	}
	return links, nil
}

// displayName derives a reseller display name from the email local part.
func displayName(email string) string {
	for i := 0; i < len(email); i++ {
		if email[i] == '@' {
			return email[:i]
		}
	}
	return email
}
