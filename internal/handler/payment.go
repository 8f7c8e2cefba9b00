package handler

import (
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jerseyhub/backend/internal/contextkeys"
	"github.com/jerseyhub/backend/internal/domain"
	"github.com/jerseyhub/backend/internal/service"
	"github.com/jerseyhub/backend/pkg/payment"
)

// maxWebhookBody caps webhook payloads at 64 KB.
const maxWebhookBody = 64 << 10

// PaymentHandler handles checkout, webhook, and subscription endpoints.
type PaymentHandler struct {
	svc     *service.SubscriptionService
	auth    *service.AuthService
	gateway payment.Gateway
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc *service.SubscriptionService, auth *service.AuthService, gateway payment.Gateway) *PaymentHandler {
	return &PaymentHandler{svc: svc, auth: auth, gateway: gateway}
}

// CheckoutRequest is the input for creating a checkout session.
type CheckoutRequest struct {
	Plan string `json:"plan"`
}

// CreateCheckout handles POST /api/payment/checkout.
func (h *PaymentHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	var req CheckoutRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	sess, err := h.svc.CreateCheckout(r.Context(), userID, req.Plan)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]string{
		"sessionId": sess.ID,
		"url":       sess.URL,
	})
}

// Webhook handles POST /api/payment/webhook. Signature verification happens
// in the gateway; a bad signature is a 400 so the provider retries nothing.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		JSON(w, http.StatusBadRequest, map[string]string{"error": "unreadable payload"})
		return
	}

	ev, err := h.gateway.ParseWebhookEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		log.Printf("webhook rejected: %v", err)
		JSON(w, http.StatusBadRequest, map[string]string{"error": "invalid webhook"})
		return
	}

	if err := h.svc.HandleWebhookEvent(r.Context(), ev); err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"received": true})
}

// GetSubscription handles GET /api/payment/subscription.
func (h *PaymentHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextkeys.UserID).(string)
	if !ok || userID == "" {
		JSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		return
	}

	user, err := h.auth.GetUserByID(r.Context(), userID)
	if err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"status":  user.SubscriptionStatus,
		"endDate": user.SubscriptionEndDate,
	})
}

// SetSubscription handles POST /api/admin/users/{id}/subscription — the
// manual admin toggle (gated in the router).
func (h *PaymentHandler) SetSubscription(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req domain.SetSubscriptionRequest
	if err := DecodeJSON(r, &req); err != nil {
		Error(w, err)
		return
	}

	if err := h.svc.SetSubscription(r.Context(), id, &req); err != nil {
		Error(w, err)
		return
	}

	JSON(w, http.StatusOK, map[string]bool{"success": true})
}
