package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/jerseyhub/backend/internal/domain"
	"github.com/jerseyhub/backend/pkg/mail"
	"github.com/jerseyhub/backend/pkg/payment"
	"golang.org/x/crypto/bcrypt"
)

// passwordAlphabet avoids lookalike characters in generated credentials.
const passwordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789!@#$%"

// SubscriptionService owns checkout creation and webhook-driven
// subscription state sync.
type SubscriptionService struct {
	users   UserStore
	gateway payment.Gateway
	mailer  mail.Mailer
	siteURL string
}

// NewSubscriptionService creates a new SubscriptionService. siteURL is the
// frontend origin used for checkout success/cancel redirects.
func NewSubscriptionService(users UserStore, gateway payment.Gateway, mailer mail.Mailer, siteURL string) *SubscriptionService {
	return &SubscriptionService{
		users:   users,
		gateway: gateway,
		mailer:  mailer,
		siteURL: siteURL,
	}
}

// CreateCheckout creates a hosted checkout session for a plan.
func (s *SubscriptionService) CreateCheckout(ctx context.Context, userID, planID string) (*payment.CheckoutSession, error) {
	plan, ok := domain.GetPlan(planID)
	if !ok {
		return nil, domain.ErrBadRequest("invalid plan")
	}

	var email string
	if userID != "" {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return nil, domain.ErrInternal("failed to find user", err)
		}
		if user != nil {
			email = user.Email
		}
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, payment.CheckoutParams{
		CustomerEmail: email,
		PriceID:       plan.StripePriceID,
		SuccessURL:    s.siteURL + "/catalogo?pagamento=sucesso",
		CancelURL:     s.siteURL + "/planos",
	})
	if err != nil {
		return nil, domain.ErrInternal("failed to create checkout session", err)
	}
	return sess, nil
}

// HandleWebhookEvent applies a normalized payment event to the stored
// subscription state. On a completed checkout for an unknown email, a
// reseller account is provisioned and its generated credentials are emailed.
func (s *SubscriptionService) HandleWebhookEvent(ctx context.Context, ev *payment.WebhookEvent) error {
	switch ev.Type {
	case payment.EventCheckoutCompleted:
		if ev.CustomerEmail == "" {
			return domain.ErrBadRequest("checkout event without customer email")
		}

		existing, err := s.users.FindByEmail(ctx, ev.CustomerEmail)
		if err != nil {
			return domain.ErrInternal("failed to find user", err)
		}
		if existing != nil {
			if err := s.users.UpdateSubscription(ctx, existing.ID, domain.SubscriptionActive, ev.PeriodEnd); err != nil {
				return domain.ErrInternal("failed to activate subscription", err)
			}
			log.Printf("subscription activated for %s", ev.CustomerEmail)
			return nil
		}
		return s.provisionUser(ctx, ev)

	case payment.EventSubscriptionUpdated, payment.EventSubscriptionCanceled:
		if ev.CustomerEmail == "" {
			return domain.ErrBadRequest("subscription event without customer email")
		}
		status := domain.SubscriptionInactive
		if ev.Active {
			status = domain.SubscriptionActive
		}
		if err := s.users.UpdateSubscriptionByEmail(ctx, ev.CustomerEmail, status, ev.PeriodEnd); err != nil {
			return domain.ErrInternal("failed to sync subscription", err)
		}
		log.Printf("subscription for %s set to %s", ev.CustomerEmail, status)
		return nil

	default:
		return nil
	}
}

// provisionUser creates a reseller account from a successful checkout and
// emails the generated credentials. Email failure is logged only; the
// webhook must not be retried for it.
func (s *SubscriptionService) provisionUser(ctx context.Context, ev *payment.WebhookEvent) error {
	password, err := generatePassword(12)
	if err != nil {
		return domain.ErrInternal("failed to generate password", err)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.ErrInternal("failed to hash password", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:                  domain.NewUserID(),
		Email:               ev.CustomerEmail,
		Password:            string(hashed),
		Role:                domain.RoleReseller,
		SubscriptionStatus:  domain.SubscriptionActive,
		SubscriptionEndDate: ev.PeriodEnd,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.ErrInternal("failed to provision user", err)
	}
	log.Printf("provisioned reseller account for %s", ev.CustomerEmail)

	name := ev.CustomerName
	if name == "" {
		name = displayName(ev.CustomerEmail)
	}
	msg := mail.Message{
		To:      ev.CustomerEmail,
		Subject: "Seu acesso ao JerseyHub",
		Body: fmt.Sprintf(
			"Olá %s,\n\nSua assinatura está ativa. Acesse com:\n\nEmail: %s\nSenha: %s\n\nRecomendamos trocar a senha após o primeiro acesso.\n\n%s",
			name, ev.CustomerEmail, password, s.siteURL,
		),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Printf("failed to send credentials email to %s: %v", ev.CustomerEmail, err)
	}
	return nil
}

// SetSubscription is the admin toggle for a user's subscription state.
func (s *SubscriptionService) SetSubscription(ctx context.Context, userID string, req *domain.SetSubscriptionRequest) error {
	switch req.Status {
	case domain.SubscriptionActive, domain.SubscriptionInactive, domain.SubscriptionTrial:
	default:
		return domain.ErrValidation("invalid subscription status")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return domain.ErrInternal("failed to find user", err)
	}
	if user == nil {
		return domain.ErrNotFound("user not found")
	}
	if err := s.users.UpdateSubscription(ctx, userID, req.Status, req.EndDate); err != nil {
		return domain.ErrInternal("failed to update subscription", err)
	}
	return nil
}

func generatePassword(length int) (string, error) {
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordAlphabet))))
		if err != nil {
			return "", err
		}
		b[i] = passwordAlphabet[n.Int64()]
	}
	return string(b), nil
}
