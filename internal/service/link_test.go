package service

import (
	"context"
	"testing"
	"time"

	"github.com/jerseyhub/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://jerseyhub.app"

func reseller(id string) *domain.User {
	phone := "+55 11 98888-7777"
	return &domain.User{
		ID:                 id,
		Email:              "ana@example.com",
		Role:               domain.RoleReseller,
		SubscriptionStatus: domain.SubscriptionActive,
		Phone:              &phone,
	}
}

func TestCreateLink(t *testing.T) {
	ctx := context.Background()
	links := newFakeLinkStore()
	jerseys := &fakeJerseyStore{jerseys: []*domain.Jersey{{ID: "j1"}, {ID: "j2"}}}
	users := newFakeUserStore(reseller("u1"))
	svc := NewLinkService(links, jerseys, users, testBaseURL)

	resp, err := svc.Create(ctx, "u1", &domain.CreateLinkRequest{JerseyIDs: []string{"j1", "j2"}})
	require.NoError(t, err)

	assert.Len(t, resp.ShortCode, domain.ShortCodeLength)
	for _, c := range resp.ShortCode {
		assert.Contains(t, domain.ShortCodeAlphabet, string(c))
	}
	assert.Equal(t, testBaseURL+"/link/"+resp.ShortCode, resp.URL)

	stored := links.links[resp.ShortCode]
	require.NotNil(t, stored)
	assert.Equal(t, "u1", stored.UserID)
	assert.Equal(t, []string{"j1", "j2"}, stored.JerseyIDs)
	assert.Zero(t, stored.ViewCount)
}

func TestCreateLinkUsesServerGeneratedCode(t *testing.T) {
	ctx := context.Background()
	links := newFakeLinkStore()
	links.genCode = "abc12345"
	users := newFakeUserStore(reseller("u1"))
	svc := NewLinkService(links, &fakeJerseyStore{}, users, testBaseURL)

	resp, err := svc.Create(ctx, "u1", &domain.CreateLinkRequest{JerseyIDs: []string{"j1"}})
	require.NoError(t, err)
	assert.Equal(t, "abc12345", resp.ShortCode)
}

func TestCreateLinkRetriesOnCollision(t *testing.T) {
	ctx := context.Background()
	links := newFakeLinkStore()
	links.createErrs = []error{domain.ErrDuplicateCode, domain.ErrDuplicateCode, nil}
	users := newFakeUserStore(reseller("u1"))
	svc := NewLinkService(links, &fakeJerseyStore{}, users, testBaseURL)

	resp, err := svc.Create(ctx, "u1", &domain.CreateLinkRequest{JerseyIDs: []string{"j1"}})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ShortCode)
	assert.Contains(t, links.links, resp.ShortCode)
}

func TestCreateLinkGivesUpAfterBoundedAttempts(t *testing.T) {
	ctx := context.Background()
	links := newFakeLinkStore()
	for i := 0; i < maxCodeAttempts; i++ {
		links.createErrs = append(links.createErrs, domain.ErrDuplicateCode)
	}
	users := newFakeUserStore(reseller("u1"))
	svc := NewLinkService(links, &fakeJerseyStore{}, users, testBaseURL)

	_, err := svc.Create(ctx, "u1", &domain.CreateLinkRequest{JerseyIDs: []string{"j1"}})
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.Code)
	assert.Empty(t, links.links)
}

func TestCreateLinkRejectsEmptySelection(t *testing.T) {
	ctx := context.Background()
	users := newFakeUserStore(reseller("u1"))
	svc := NewLinkService(newFakeLinkStore(), &fakeJerseyStore{}, users, testBaseURL)

	_, err := svc.Create(ctx, "u1", &domain.CreateLinkRequest{JerseyIDs: nil})
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 422, appErr.Code)
}

func TestCreateLinkRequiresPhoneForResellers(t *testing.T) {
	ctx := context.Background()
	noPhone := reseller("u1")
	noPhone.Phone = nil
	users := newFakeUserStore(noPhone)
	svc := NewLinkService(newFakeLinkStore(), &fakeJerseyStore{}, users, testBaseURL)

	_, err := svc.Create(ctx, "u1", &domain.CreateLinkRequest{JerseyIDs: []string{"j1"}})
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 422, appErr.Code)
}

func TestCreateLinkAdminDoesNotNeedPhone(t *testing.T) {
	ctx := context.Background()
	admin := &domain.User{ID: "a1", Email: "admin@jerseyhub.app", Role: domain.RoleAdmin}
	users := newFakeUserStore(admin)
	svc := NewLinkService(newFakeLinkStore(), &fakeJerseyStore{}, users, testBaseURL)

	_, err := svc.Create(ctx, "a1", &domain.CreateLinkRequest{JerseyIDs: []string{"j1"}})
	require.NoError(t, err)
}

func TestResolveUnknownCode(t *testing.T) {
	ctx := context.Background()
	svc := NewLinkService(newFakeLinkStore(), &fakeJerseyStore{}, newFakeUserStore(), testBaseURL)

	_, err := svc.Resolve(ctx, "nope1234")
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Code)
	assert.Equal(t, "link not found or expired", appErr.Message)
}

func TestResolveExpiredCodeLooksLikeUnknown(t *testing.T) {
	ctx := context.Background()
	links := newFakeLinkStore()
	past := time.Now().Add(-time.Hour)
	links.links["old12345"] = &domain.SharedLink{ShortCode: "old12345", UserID: "u1", JerseyIDs: []string{"j1"}, ExpiresAt: &past}
	svc := NewLinkService(links, &fakeJerseyStore{}, newFakeUserStore(reseller("u1")), testBaseURL)

	_, err := svc.Resolve(ctx, "old12345")
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Code)
	// Expired and unknown codes must be indistinguishable to visitors.
	assert.Equal(t, "link not found or expired", appErr.Message)
	assert.Zero(t, links.incrCalls, "expired links do not count views")
}

func TestResolveCountsViews(t *testing.T) {
	ctx := context.Background()
	links := newFakeLinkStore()
	links.links["abc12345"] = &domain.SharedLink{ShortCode: "abc12345", UserID: "u1", JerseyIDs: []string{"j1"}}
	jerseys := &fakeJerseyStore{jerseys: []*domain.Jersey{{ID: "j1"}}}
	svc := NewLinkService(links, jerseys, newFakeUserStore(reseller("u1")), testBaseURL)

	for i := 0; i < 3; i++ {
		_, err := svc.Resolve(ctx, "abc12345")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, links.links["abc12345"].ViewCount)
}

func TestResolveSurvivesViewCountFailure(t *testing.T) {
	ctx := context.Background()
	links := newFakeLinkStore()
	links.links["abc12345"] = &domain.SharedLink{ShortCode: "abc12345", UserID: "u1", JerseyIDs: []string{"j1"}}
	links.incrErr = context.DeadlineExceeded
	jerseys := &fakeJerseyStore{jerseys: []*domain.Jersey{{ID: "j1"}}}
	svc := NewLinkService(links, jerseys, newFakeUserStore(reseller("u1")), testBaseURL)

	resolved, err := svc.Resolve(ctx, "abc12345")
	require.NoError(t, err)
	require.Len(t, resolved.Jerseys, 1)
}

func TestResolveOmitsDeletedJerseys(t *testing.T) {
	ctx := context.Background()
	links := newFakeLinkStore()
	links.links["abc12345"] = &domain.SharedLink{ShortCode: "abc12345", UserID: "u1", JerseyIDs: []string{"jA", "jB", "jC"}}
	// jB was deleted from the catalog after the link was shared.
	jerseys := &fakeJerseyStore{jerseys: []*domain.Jersey{{ID: "jA"}, {ID: "jC"}}}
	svc := NewLinkService(links, jerseys, newFakeUserStore(reseller("u1")), testBaseURL)

	resolved, err := svc.Resolve(ctx, "abc12345")
	require.NoError(t, err)
	require.Len(t, resolved.Jerseys, 2)
	assert.Equal(t, "jA", resolved.Jerseys[0].ID)
	assert.Equal(t, "jC", resolved.Jerseys[1].ID)
}

func TestResolveIncludesOwnerContact(t *testing.T) {
	ctx := context.Background()
	links := newFakeLinkStore()
	links.links["abc12345"] = &domain.SharedLink{ShortCode: "abc12345", UserID: "u1", JerseyIDs: []string{"j1"}}
	jerseys := &fakeJerseyStore{jerseys: []*domain.Jersey{{ID: "j1"}}}
	svc := NewLinkService(links, jerseys, newFakeUserStore(reseller("u1")), testBaseURL)

	resolved, err := svc.Resolve(ctx, "abc12345")
	require.NoError(t, err)
	assert.Equal(t, "ana", resolved.OwnerName)
	assert.Equal(t, "+55 11 98888-7777", resolved.OwnerPhone)
}

func TestResolveWithoutOwnerStillRenders(t *testing.T) {
	ctx := context.Background()
	links := newFakeLinkStore()
	links.links["abc12345"] = &domain.SharedLink{ShortCode: "abc12345", UserID: "gone", JerseyIDs: []string{"j1"}}
	jerseys := &fakeJerseyStore{jerseys: []*domain.Jersey{{ID: "j1"}}}
	svc := NewLinkService(links, jerseys, newFakeUserStore(), testBaseURL)

	resolved, err := svc.Resolve(ctx, "abc12345")
	require.NoError(t, err)
	require.Len(t, resolved.Jerseys, 1)
	assert.Empty(t, resolved.OwnerName)
	assert.Empty(t, resolved.OwnerPhone)
}

func TestListByUser(t *testing.T) {
	ctx := context.Background()
	links := newFakeLinkStore()
	links.links["aaaa1111"] = &domain.SharedLink{ShortCode: "aaaa1111", UserID: "u1"}
	links.links["bbbb2222"] = &domain.SharedLink{ShortCode: "bbbb2222", UserID: "u2"}
	svc := NewLinkService(links, &fakeJerseyStore{}, newFakeUserStore(), testBaseURL)

	got, err := svc.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "aaaa1111", got[0].ShortCode)
}
