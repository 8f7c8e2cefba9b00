package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/customer"
	"github.com/stripe/stripe-go/v76/subscription"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeGateway implements Gateway on top of Stripe hosted checkout and
// webhooks.
type StripeGateway struct {
	webhookSecret string
}

// NewStripeGateway configures the Stripe client with the given API key.
func NewStripeGateway(apiKey, webhookSecret string) *StripeGateway {
	stripe.Key = apiKey
	return &StripeGateway{webhookSecret: webhookSecret}
}

func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(p.PriceID), Quantity: stripe.Int64(1)},
		},
		SuccessURL:          stripe.String(p.SuccessURL),
		CancelURL:           stripe.String(p.CancelURL),
		AllowPromotionCodes: stripe.Bool(true),
	}
	params.Context = ctx
	if p.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(p.CustomerEmail)
	}

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// ParseWebhookEvent verifies the Stripe signature and maps the events the
// application cares about. Everything else comes back as EventIgnored.
func (g *StripeGateway) ParseWebhookEvent(payload []byte, signature string) (*WebhookEvent, error) {
	event, err := webhook.ConstructEvent(payload, signature, g.webhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	switch string(event.Type) {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("failed to decode checkout session: %w", err)
		}

		ev := &WebhookEvent{
			Type:          EventCheckoutCompleted,
			CustomerEmail: sess.CustomerEmail,
			Active:        true,
		}
		if sess.CustomerDetails != nil {
			ev.CustomerName = sess.CustomerDetails.Name
			if ev.CustomerEmail == "" {
				ev.CustomerEmail = sess.CustomerDetails.Email
			}
		}
		// The session payload carries only the subscription ID; the period
		// end requires a follow-up retrieve.
		if sess.Subscription != nil && sess.Subscription.ID != "" {
			sub, err := subscription.Get(sess.Subscription.ID, nil)
			if err != nil {
				return nil, fmt.Errorf("failed to retrieve subscription: %w", err)
			}
			end := time.Unix(sub.CurrentPeriodEnd, 0)
			ev.PeriodEnd = &end
		}
		return ev, nil

	case "customer.subscription.updated", "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("failed to decode subscription: %w", err)
		}

		ev := &WebhookEvent{
			Type:   EventSubscriptionUpdated,
			Active: sub.Status == stripe.SubscriptionStatusActive,
		}
		if string(event.Type) == "customer.subscription.deleted" {
			ev.Type = EventSubscriptionCanceled
			ev.Active = false
		}
		if sub.CurrentPeriodEnd > 0 {
			end := time.Unix(sub.CurrentPeriodEnd, 0)
			ev.PeriodEnd = &end
		}
		// The subscription payload references the customer by ID only.
		if sub.Customer != nil && sub.Customer.ID != "" {
			cust, err := customer.Get(sub.Customer.ID, nil)
			if err != nil {
				return nil, fmt.Errorf("failed to retrieve customer: %w", err)
			}
			ev.CustomerEmail = cust.Email
			ev.CustomerName = cust.Name
		}
		return ev, nil

	default:
		return &WebhookEvent{Type: EventIgnored}, nil
	}
}
