package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"net/url"
	"sync"
	"time"

	"github.com/stripe/stripe-go/v82/webhook"
)

// alphanumericChars for generating Stripe-compatible IDs
const alphanumericChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// randomAlphanumeric generates a random alphanumeric string of given length
func randomAlphanumeric(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = alphanumericChars[rand.Intn(len(alphanumericChars))]
	}
	return string(b)
}

// MockGateway implements PaymentGateway for local development and tests.
// Sessions redirect straight to the success URL; webhooks use Stripe's
// signature scheme so the confirmation path is the same as production.
type MockGateway struct {
	webhookSecret string
	sessions      sync.Map // session ID -> *CheckoutSessionRequest
}

// NewMockGateway creates a new mock gateway
func NewMockGateway(webhookSecret string) *MockGateway {
	return &MockGateway{webhookSecret: webhookSecret}
}

// CreateCheckoutSession records the request and returns a local redirect
func (g *MockGateway) CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error) {
	if req == nil {
		return nil, fmt.Errorf("checkout session request is required")
	}

	id := "cs_test_" + randomAlphanumeric(24)
	g.sessions.Store(id, req)

	redirect := req.SuccessURL
	if u, err := url.Parse(req.SuccessURL); err == nil && req.SuccessURL != "" {
		q := u.Query()
		q.Set("session_id", id)
		u.RawQuery = q.Encode()
		redirect = u.String()
	}

	return &CheckoutSession{ID: id, URL: redirect}, nil
}

// Session returns a recorded checkout request
func (g *MockGateway) Session(id string) (*CheckoutSessionRequest, bool) {
	v, ok := g.sessions.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*CheckoutSessionRequest), true
}

// ParseWebhook verifies a Stripe-style signature with the mock secret
func (g *MockGateway) ParseWebhook(payload []byte, sigHeader string) (*WebhookEvent, error) {
	return parseStripeEvent(payload, sigHeader, g.webhookSecret)
}

// SignPayload returns a Stripe-Signature header value for payload
func (g *MockGateway) SignPayload(payload []byte) string {
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    g.webhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Header
}

// Name returns the gateway name
func (g *MockGateway) Name() string {
	return "mock"
}
