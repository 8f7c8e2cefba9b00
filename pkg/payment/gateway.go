package payment

import (
	"context"
	"encoding/json"
	"time"
)

// Normalized webhook event types. Provider-specific event names are mapped
// onto these by the gateway implementations.
const (
	EventCheckoutCompleted    = "checkout.completed"
	EventSubscriptionUpdated  = "subscription.updated"
	EventSubscriptionCanceled = "subscription.canceled"
	EventIgnored              = "ignored"
)

// CheckoutParams describe a hosted checkout session to create.
type CheckoutParams struct {
	CustomerEmail string
	PriceID       string
	SuccessURL    string
	CancelURL     string
}

// CheckoutSession is the created hosted session the user is redirected to.
type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent is a provider webhook notification reduced to the fields the
// subscription service acts on.
type WebhookEvent struct {
	Type          string
	CustomerEmail string
	CustomerName  string
	Active        bool
	PeriodEnd     *time.Time
}

// Gateway defines the interface for payment providers.
type Gateway interface {
	// CreateCheckoutSession creates a hosted checkout session for a plan.
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
	// ParseWebhookEvent verifies the webhook signature and normalizes the
	// payload into a WebhookEvent.
	ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error)
}

// MockGateway is a dummy implementation for development and tests.
type MockGateway struct{}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (g *MockGateway) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error) {
	return &CheckoutSession{
		ID:  "mock_session",
		URL: "https://example.com/pay?price=" + params.PriceID,
	}, nil
}

// ParseWebhookEvent decodes the payload directly as a WebhookEvent without
// signature verification. Dev only.
func (g *MockGateway) ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error) {
	var ev WebhookEvent
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
