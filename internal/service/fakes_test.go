package service

import (
	"context"
	"time"

	"github.com/jerseyhub/backend/internal/domain"
)

// In-memory stores used across the service tests.

type fakeUserStore struct {
	users map[string]*domain.User // keyed by ID
}

func newFakeUserStore(users ...*domain.User) *fakeUserStore {
	s := &fakeUserStore{users: make(map[string]*domain.User)}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

func (s *fakeUserStore) Create(ctx context.Context, u *domain.User) error {
	s.users[u.ID] = u
	return nil
}

func (s *fakeUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users[id], nil
}

func (s *fakeUserStore) Exists(ctx context.Context, email string) (bool, error) {
	u, _ := s.FindByEmail(ctx, email)
	return u != nil, nil
}

func (s *fakeUserStore) ListAll(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *fakeUserStore) Delete(ctx context.Context, id string) error {
	delete(s.users, id)
	return nil
}

func (s *fakeUserStore) UpdatePhone(ctx context.Context, id, phone string) error {
	if u := s.users[id]; u != nil {
		u.Phone = &phone
	}
	return nil
}

func (s *fakeUserStore) UpdateSubscription(ctx context.Context, id, status string, endDate *time.Time) error {
	if u := s.users[id]; u != nil {
		u.SubscriptionStatus = status
		u.SubscriptionEndDate = endDate
	}
	return nil
}

func (s *fakeUserStore) UpdateSubscriptionByEmail(ctx context.Context, email, status string, endDate *time.Time) error {
	for _, u := range s.users {
		if u.Email == email {
			u.SubscriptionStatus = status
			u.SubscriptionEndDate = endDate
		}
	}
	return nil
}

type fakeJerseyStore struct {
	jerseys []*domain.Jersey
	findErr error
}

func (s *fakeJerseyStore) Create(ctx context.Context, j *domain.Jersey) error {
	s.jerseys = append([]*domain.Jersey{j}, s.jerseys...)
	return nil
}

func (s *fakeJerseyStore) Update(ctx context.Context, j *domain.Jersey) error {
	for i, existing := range s.jerseys {
		if existing.ID == j.ID {
			s.jerseys[i] = j
		}
	}
	return nil
}

func (s *fakeJerseyStore) Delete(ctx context.Context, id string) error {
	out := s.jerseys[:0]
	for _, j := range s.jerseys {
		if j.ID != id {
			out = append(out, j)
		}
	}
	s.jerseys = out
	return nil
}

func (s *fakeJerseyStore) FindByID(ctx context.Context, id string) (*domain.Jersey, error) {
	for _, j := range s.jerseys {
		if j.ID == id {
			return j, nil
		}
	}
	return nil, nil
}

func (s *fakeJerseyStore) FindAll(ctx context.Context) ([]*domain.Jersey, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.jerseys, nil
}

func (s *fakeJerseyStore) FindByIDs(ctx context.Context, ids []string) ([]*domain.Jersey, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []*domain.Jersey
	for _, j := range s.jerseys {
		if want[j.ID] {
			out = append(out, j)
		}
	}
	return out, nil
}

type fakeTeamStore struct {
	teams map[string]*domain.Team // keyed by name
}

func newFakeTeamStore() *fakeTeamStore {
	return &fakeTeamStore{teams: make(map[string]*domain.Team)}
}

func (s *fakeTeamStore) GetOrCreateByName(ctx context.Context, name string) (*domain.Team, error) {
	if t, ok := s.teams[name]; ok {
		return t, nil
	}
	t := &domain.Team{ID: "team-" + name, Name: name, CreatedAt: time.Now()}
	s.teams[name] = t
	return t, nil
}

func (s *fakeTeamStore) ListAll(ctx context.Context) ([]*domain.Team, error) {
	var out []*domain.Team
	for _, t := range s.teams {
		out = append(out, t)
	}
	return out, nil
}

// fakeLinkStore queues per-call Create results so collision handling can be
// exercised deterministically.
type fakeLinkStore struct {
	links      map[string]*domain.SharedLink
	genCode    string
	genErr     error
	createErrs []error // shifted per Create call; nil entry means success
	findErr    error
	incrErr    error
	incrCalls  int
}

func newFakeLinkStore() *fakeLinkStore {
	return &fakeLinkStore{links: make(map[string]*domain.SharedLink)}
}

func (s *fakeLinkStore) GenerateCode(ctx context.Context) (string, error) {
	if s.genErr != nil {
		return "", s.genErr
	}
	if s.genCode != "" {
		return s.genCode, nil
	}
	return "", s.genErr
}

func (s *fakeLinkStore) Create(ctx context.Context, l *domain.SharedLink) error {
	if len(s.createErrs) > 0 {
		err := s.createErrs[0]
		s.createErrs = s.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := s.links[l.ShortCode]; exists {
		return domain.ErrDuplicateCode
	}
	s.links[l.ShortCode] = l
	return nil
}

func (s *fakeLinkStore) FindByCode(ctx context.Context, code string) (*domain.SharedLink, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.links[code], nil
}

func (s *fakeLinkStore) FindAllByUser(ctx context.Context, userID string) ([]*domain.SharedLink, error) {
	var out []*domain.SharedLink
	for _, l := range s.links {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *fakeLinkStore) IncrementViewCount(ctx context.Context, code string) error {
	s.incrCalls++
	if s.incrErr != nil {
		return s.incrErr
	}
	if l, ok := s.links[code]; ok {
		l.ViewCount++
	}
	return nil
}
