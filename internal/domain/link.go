package domain

import (
	"errors"
	"time"
)

// ShortCodeLength is the length of generated link codes.
const ShortCodeLength = 8

// ShortCodeAlphabet is the alphabet for locally generated codes. Lowercase
// plus digits; the /link/{code} route pattern accepts any alphanumeric code,
// which is a superset of this.
const ShortCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// ErrDuplicateCode signals a short-code collision on insert. Recovered
// locally by regenerating the code and retrying.
var ErrDuplicateCode = errors.New("short code already exists")

// SharedLink maps an unguessable short code to a reseller's selection of
// jerseys. Immutable after creation except for the view counter.
type SharedLink struct {
	ShortCode string     `json:"shortCode"`
	UserID    string     `json:"userId"`
	JerseyIDs []string   `json:"jerseyIds"`
	ViewCount int        `json:"viewCount"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Expired reports whether the link is past its expiry. A link without an
// expiry never expires.
func (l *SharedLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && l.ExpiresAt.Before(now)
}

// CreateLinkRequest is the validated input for generating a shared link.
type CreateLinkRequest struct {
	JerseyIDs []string   `json:"jerseyIds" validate:"required,min=1,dive,required"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// CreateLinkResponse returns the generated code and the public URL.
type CreateLinkResponse struct {
	ShortCode string `json:"shortCode"`
	URL       string `json:"url"`
}

// ResolvedLink is the public payload for a visited link: the surviving
// jerseys plus the owner's contact details. Phone may be empty, in which
// case the contact affordance is disabled rather than erroring.
type ResolvedLink struct {
	Jerseys    []*Jersey `json:"jerseys"`
	OwnerName  string    `json:"ownerName"`
	OwnerPhone string    `json:"ownerPhone,omitempty"`
}
