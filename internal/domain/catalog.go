package domain

import (
	"sort"
	"strings"
	"time"
)

// Team normalizes the team name referenced by jerseys.
type Team struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// Jersey represents a sellable catalog entry.
type Jersey struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	TeamID        string    `json:"teamId"`
	TeamName      string    `json:"teamName"`
	ImageURL      string    `json:"imageUrl"`
	ImagePublicID string    `json:"-"` // asset handle, used when releasing the image
	Tags          []string  `json:"tags"`
	CreatedBy     *string   `json:"createdBy,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// CreateJerseyRequest is the validated input for creating a jersey.
// The image itself arrives as a multipart file and is uploaded to the
// asset store before the record is inserted.
type CreateJerseyRequest struct {
	Title    string   `json:"title" validate:"required,min=1,max=200"`
	TeamName string   `json:"teamName" validate:"required,min=1,max=100"`
	Tags     []string `json:"tags"`
}

// UpdateJerseyRequest is the validated input for editing a jersey.
// Empty fields are left unchanged; a new image replaces the old asset.
type UpdateJerseyRequest struct {
	Title    string   `json:"title" validate:"omitempty,min=1,max=200"`
	TeamName string   `json:"teamName" validate:"omitempty,min=1,max=100"`
	Tags     []string `json:"tags"`
}

// CreateTeamRequest is the validated input for the admin "add team" action.
type CreateTeamRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CatalogResponse is the authenticated catalog screen payload: the filtered
// jerseys plus the tag vocabulary offered as filter options.
type CatalogResponse struct {
	Jerseys []*Jersey `json:"jerseys"`
	Tags    []string  `json:"tags"`
}

// FilterJerseys applies free-text and tag filtering over the jersey list.
//
// A jersey matches the search term when the term is a case-insensitive
// substring of its title or its team name. A jersey matches the tag filter
// when its tag set intersects the requested tags. Both filters are combined
// with AND; an empty term or tag set disables that filter. Input order is
// preserved (the store layer orders by creation time, newest first).
func FilterJerseys(jerseys []*Jersey, term string, tags []string) []*Jersey {
	filtered := jerseys

	if term != "" {
		lower := strings.ToLower(term)
		matched := make([]*Jersey, 0, len(filtered))
		for _, j := range filtered {
			if strings.Contains(strings.ToLower(j.Title), lower) ||
				strings.Contains(strings.ToLower(j.TeamName), lower) {
				matched = append(matched, j)
			}
		}
		filtered = matched
	}

	if len(tags) > 0 {
		matched := make([]*Jersey, 0, len(filtered))
		for _, j := range filtered {
			if intersects(j.Tags, tags) {
				matched = append(matched, j)
			}
		}
		filtered = matched
	}

	return filtered
}

func intersects(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}

// TagVocabulary derives the selectable filter tags: every distinct tag across
// all jerseys, excluding any tag that case-insensitively equals that jersey's
// own team name (the team is already searchable by name, so offering it again
// as a tag would be redundant). Result is sorted.
func TagVocabulary(jerseys []*Jersey) []string {
	seen := make(map[string]struct{})
	for _, j := range jerseys {
		team := strings.ToLower(j.TeamName)
		for _, tag := range j.Tags {
			if tag == "" || strings.ToLower(tag) == team {
				continue
			}
			seen[tag] = struct{}{}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
