package domain

import (
	"time"

	"github.com/google/uuid"
)

// Roles. Resellers and members are subject to the subscription gate;
// admin and super_admin bypass it.
const (
	RoleReseller   = "reseller"
	RoleMember     = "member"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Subscription statuses.
const (
	SubscriptionActive   = "active"
	SubscriptionInactive = "inactive"
	SubscriptionTrial    = "trial"
)

// User represents a registered user together with its reseller profile.
type User struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Password            string     `json:"-"` // bcrypt hash, never serialized
	Role                string     `json:"role"`
	SubscriptionStatus  string     `json:"subscriptionStatus"`
	SubscriptionEndDate *time.Time `json:"subscriptionEndDate,omitempty"`
	Phone               *string    `json:"phone,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
}

// IsAdmin reports whether the user holds an administrative role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}

// HasActiveSubscription reports whether the user may access gated routes.
// A subscription is active when its status is "active" and the end date is
// either unset or still in the future. Admin roles bypass the gate.
func (u *User) HasActiveSubscription(now time.Time) bool {
	if u.IsAdmin() {
		return true
	}
	if u.SubscriptionStatus != SubscriptionActive {
		return false
	}
	return u.SubscriptionEndDate == nil || u.SubscriptionEndDate.After(now)
}

// LoginRequest is the validated input for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// RegisterRequest is the validated input for self-registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse is the API response after successful login.
type LoginResponse struct {
	Token string    `json:"token"`
	User  LoginUser `json:"user"`
}

// LoginUser is the user info returned after login.
type LoginUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// JWTClaims represents the JWT payload.
type JWTClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// CreateUserRequest is the validated input for admin user provisioning.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=reseller member admin"`
}

// UpdateProfileRequest carries the contact phone a reseller sets during
// onboarding. Set once, editable from the profile screen.
type UpdateProfileRequest struct {
	Phone string `json:"phone" validate:"required,min=8,max=32"`
}

// SetSubscriptionRequest is the admin toggle for a user's subscription.
type SetSubscriptionRequest struct {
	Status  string     `json:"status" validate:"required,oneof=active inactive trial"`
	EndDate *time.Time `json:"endDate"`
}

// UserResponse is the safe API response for a user (no password hash).
type UserResponse struct {
	ID                  string     `json:"id"`
	Email               string     `json:"email"`
	Role                string     `json:"role"`
	SubscriptionStatus  string     `json:"subscriptionStatus"`
	SubscriptionEndDate *time.Time `json:"subscriptionEndDate,omitempty"`
	Phone               *string    `json:"phone,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// NewUserResponse maps a User to its API representation.
func NewUserResponse(u *User) *UserResponse {
	return &UserResponse{
		ID:                  u.ID,
		Email:               u.Email,
		Role:                u.Role,
		SubscriptionStatus:  u.SubscriptionStatus,
		SubscriptionEndDate: u.SubscriptionEndDate,
		Phone:               u.Phone,
		CreatedAt:           u.CreatedAt,
	}
}

// NewUserID generates a new UUID for a user.
func NewUserID() string {
	return uuid.New().String()
}
