package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHasActiveSubscription(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		user User
		want bool
	}{
		{
			name: "active without end date never expires",
			user: User{Role: RoleReseller, SubscriptionStatus: SubscriptionActive},
			want: true,
		},
		{
			name: "active with future end date",
			user: User{Role: RoleReseller, SubscriptionStatus: SubscriptionActive, SubscriptionEndDate: &future},
			want: true,
		},
		{
			name: "active but past end date",
			user: User{Role: RoleReseller, SubscriptionStatus: SubscriptionActive, SubscriptionEndDate: &past},
			want: false,
		},
		{
			name: "inactive",
			user: User{Role: RoleReseller, SubscriptionStatus: SubscriptionInactive},
			want: false,
		},
		{
			name: "trial does not count as active",
			user: User{Role: RoleMember, SubscriptionStatus: SubscriptionTrial, SubscriptionEndDate: &future},
			want: false,
		},
		{
			name: "admin bypasses the gate",
			user: User{Role: RoleAdmin, SubscriptionStatus: SubscriptionInactive},
			want: true,
		},
		{
			name: "super admin bypasses the gate",
			user: User{Role: RoleSuperAdmin, SubscriptionStatus: SubscriptionInactive, SubscriptionEndDate: &past},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.HasActiveSubscription(now))
		})
	}
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, (&User{Role: RoleAdmin}).IsAdmin())
	assert.True(t, (&User{Role: RoleSuperAdmin}).IsAdmin())
	assert.False(t, (&User{Role: RoleReseller}).IsAdmin())
	assert.False(t, (&User{Role: RoleMember}).IsAdmin())
}

func TestNewUserResponseOmitsPassword(t *testing.T) {
	phone := "+55 11 99999-0000"
	u := &User{
		ID:                 NewUserID(),
		Email:              "ana@example.com",
		Password:           "$2a$10$hash",
		Role:               RoleReseller,
		SubscriptionStatus: SubscriptionActive,
		Phone:              &phone,
	}
	resp := NewUserResponse(u)
	assert.Equal(t, u.ID, resp.ID)
	assert.Equal(t, u.Email, resp.Email)
	assert.Equal(t, u.Role, resp.Role)
	assert.Equal(t, &phone, resp.Phone)
}
