package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jerseyhub/backend/internal/domain"
	"github.com/jerseyhub/backend/pkg/mail"
	"github.com/jerseyhub/backend/pkg/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeMailer struct {
	sent    []mail.Message
	sendErr error
}

func (m *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, msg)
	return nil
}

func newSubscriptionTestService(users *fakeUserStore, mailer *fakeMailer) *SubscriptionService {
	return NewSubscriptionService(users, payment.NewMockGateway(), mailer, "https://jerseyhub.app")
}

func TestCreateCheckoutRejectsUnknownPlan(t *testing.T) {
	svc := newSubscriptionTestService(newFakeUserStore(), &fakeMailer{})

	_, err := svc.CreateCheckout(context.Background(), "u1", "anual")
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.Code)
}

func TestCreateCheckoutBuildsSession(t *testing.T) {
	svc := newSubscriptionTestService(newFakeUserStore(reseller("u1")), &fakeMailer{})

	sess, err := svc.CreateCheckout(context.Background(), "u1", "mensal")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.URL)
}

func TestWebhookCheckoutActivatesExistingUser(t *testing.T) {
	user := reseller("u1")
	user.SubscriptionStatus = domain.SubscriptionInactive
	users := newFakeUserStore(user)
	mailer := &fakeMailer{}
	svc := newSubscriptionTestService(users, mailer)

	end := time.Now().Add(30 * 24 * time.Hour)
	err := svc.HandleWebhookEvent(context.Background(), &payment.WebhookEvent{
		Type:          payment.EventCheckoutCompleted,
		CustomerEmail: user.Email,
		PeriodEnd:     &end,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.SubscriptionActive, users.users["u1"].SubscriptionStatus)
	require.NotNil(t, users.users["u1"].SubscriptionEndDate)
	assert.True(t, users.users["u1"].SubscriptionEndDate.Equal(end))
	assert.Empty(t, mailer.sent, "existing users get no credentials email")
}

func TestWebhookCheckoutProvisionsNewUser(t *testing.T) {
	users := newFakeUserStore()
	mailer := &fakeMailer{}
	svc := newSubscriptionTestService(users, mailer)

	err := svc.HandleWebhookEvent(context.Background(), &payment.WebhookEvent{
		Type:          payment.EventCheckoutCompleted,
		CustomerEmail: "novo@example.com",
		CustomerName:  "Novo Revendedor",
	})
	require.NoError(t, err)

	created, ferr := users.FindByEmail(context.Background(), "novo@example.com")
	require.NoError(t, ferr)
	require.NotNil(t, created)
	assert.Equal(t, domain.RoleReseller, created.Role)
	assert.Equal(t, domain.SubscriptionActive, created.SubscriptionStatus)
	assert.NotEmpty(t, created.Password)

	require.Len(t, mailer.sent, 1)
	msg := mailer.sent[0]
	assert.Equal(t, "novo@example.com", msg.To)
	assert.Contains(t, msg.Body, "Novo Revendedor")
	assert.Contains(t, msg.Body, "novo@example.com")

	// The emailed password must match the stored hash.
	password := extractPassword(t, msg.Body)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte(password)))
}

func extractPassword(t *testing.T, body string) string {
	t.Helper()
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(line, "Senha: ") {
			return strings.TrimPrefix(line, "Senha: ")
		}
	}
	t.Fatal("credentials email has no password line")
	return ""
}

func TestWebhookProvisioningSurvivesMailFailure(t *testing.T) {
	users := newFakeUserStore()
	mailer := &fakeMailer{sendErr: errors.New("smtp down")}
	svc := newSubscriptionTestService(users, mailer)

	err := svc.HandleWebhookEvent(context.Background(), &payment.WebhookEvent{
		Type:          payment.EventCheckoutCompleted,
		CustomerEmail: "novo@example.com",
	})
	require.NoError(t, err, "mail failure must not fail the webhook")

	created, _ := users.FindByEmail(context.Background(), "novo@example.com")
	require.NotNil(t, created)
}

func TestWebhookCheckoutWithoutEmailFails(t *testing.T) {
	svc := newSubscriptionTestService(newFakeUserStore(), &fakeMailer{})

	err := svc.HandleWebhookEvent(context.Background(), &payment.WebhookEvent{
		Type: payment.EventCheckoutCompleted,
	})
	require.Error(t, err)
}

func TestWebhookSubscriptionCanceledDeactivates(t *testing.T) {
	user := reseller("u1")
	users := newFakeUserStore(user)
	svc := newSubscriptionTestService(users, &fakeMailer{})

	err := svc.HandleWebhookEvent(context.Background(), &payment.WebhookEvent{
		Type:          payment.EventSubscriptionCanceled,
		CustomerEmail: user.Email,
		Active:        false,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionInactive, users.users["u1"].SubscriptionStatus)
}

func TestWebhookSubscriptionUpdatedReactivates(t *testing.T) {
	user := reseller("u1")
	user.SubscriptionStatus = domain.SubscriptionInactive
	users := newFakeUserStore(user)
	svc := newSubscriptionTestService(users, &fakeMailer{})

	end := time.Now().Add(30 * 24 * time.Hour)
	err := svc.HandleWebhookEvent(context.Background(), &payment.WebhookEvent{
		Type:          payment.EventSubscriptionUpdated,
		CustomerEmail: user.Email,
		Active:        true,
		PeriodEnd:     &end,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionActive, users.users["u1"].SubscriptionStatus)
}

func TestWebhookIgnoredEventIsNoop(t *testing.T) {
	users := newFakeUserStore()
	svc := newSubscriptionTestService(users, &fakeMailer{})

	err := svc.HandleWebhookEvent(context.Background(), &payment.WebhookEvent{Type: payment.EventIgnored})
	require.NoError(t, err)
	assert.Empty(t, users.users)
}

func TestSetSubscription(t *testing.T) {
	user := reseller("u1")
	users := newFakeUserStore(user)
	svc := newSubscriptionTestService(users, &fakeMailer{})

	err := svc.SetSubscription(context.Background(), "u1", &domain.SetSubscriptionRequest{Status: domain.SubscriptionInactive})
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriptionInactive, users.users["u1"].SubscriptionStatus)
}

func TestSetSubscriptionRejectsUnknownStatus(t *testing.T) {
	svc := newSubscriptionTestService(newFakeUserStore(reseller("u1")), &fakeMailer{})

	err := svc.SetSubscription(context.Background(), "u1", &domain.SetSubscriptionRequest{Status: "paused"})
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 422, appErr.Code)
}

func TestSetSubscriptionUnknownUser(t *testing.T) {
	svc := newSubscriptionTestService(newFakeUserStore(), &fakeMailer{})

	err := svc.SetSubscription(context.Background(), "ghost", &domain.SetSubscriptionRequest{Status: domain.SubscriptionActive})
	require.Error(t, err)
	appErr, ok := domain.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.Code)
}

func TestGeneratePasswordUsesSafeAlphabet(t *testing.T) {
	password, err := generatePassword(12)
	require.NoError(t, err)
	assert.Len(t, password, 12)
	for _, c := range password {
		assert.Contains(t, passwordAlphabet, string(c))
	}
}
