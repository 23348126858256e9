package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

// EventCheckoutSessionCompleted is the only webhook type that issues tickets
const EventCheckoutSessionCompleted = "checkout.session.completed"

// Metadata keys echoed back by the gateway on completion
const (
	MetadataEventID    = "event_id"
	MetadataTicketType = "ticket_type"
)

// PaymentGateway creates hosted checkout sessions and authenticates their callbacks
type PaymentGateway interface {
	// CreateCheckoutSession creates a hosted payment page for one ticket
	CreateCheckoutSession(ctx context.Context, req *CheckoutSessionRequest) (*CheckoutSession, error)
	// ParseWebhook verifies sigHeader against the exact payload bytes and
	// decodes the event. Failures wrap domain.ErrInvalidSignature or
	// domain.ErrMalformedPayload.
	ParseWebhook(payload []byte, sigHeader string) (*WebhookEvent, error)
	// Name returns the gateway name
	Name() string
}

// CheckoutSessionRequest describes a single-ticket purchase
type CheckoutSessionRequest struct {
	CustomerEmail string
	Description   string
	AmountMinor   int64
	Currency      string
	SuccessURL    string
	CancelURL     string
	Metadata      map[string]string
}

// CheckoutSession is the created hosted payment page
type CheckoutSession struct {
	ID  string
	URL string
}

// WebhookEvent is an authenticated gateway notification
type WebhookEvent struct {
	ID      string
	Type    string
	Session *CompletedSession // set only for checkout.session.completed
}

// CompletedSession is the purchase intent recovered from a completed checkout
type CompletedSession struct {
	ID            string
	CustomerEmail string
	AmountTotal   int64
	Metadata      map[string]string
}

// parseStripeEvent verifies a Stripe-signed payload and extracts the completed session
func parseStripeEvent(payload []byte, sigHeader, secret string) (*WebhookEvent, error) {
	if sigHeader == "" {
		return nil, fmt.Errorf("%w: missing signature header", domain.ErrInvalidSignature)
	}

	event, err := webhook.ConstructEventWithOptions(payload, sigHeader, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if isSignatureError(err) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSignature, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	out := &WebhookEvent{ID: event.ID, Type: string(event.Type)}
	if out.Type != EventCheckoutSessionCompleted {
		return out, nil
	}
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return nil, fmt.Errorf("%w: event %s has no data", domain.ErrMalformedPayload, event.ID)
	}

	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}

	email := cs.CustomerEmail
	if cs.CustomerDetails != nil && cs.CustomerDetails.Email != "" {
		email = cs.CustomerDetails.Email
	}

	out.Session = &CompletedSession{
		ID:            cs.ID,
		CustomerEmail: email,
		AmountTotal:   cs.AmountTotal,
		Metadata:      cs.Metadata,
	}
	return out, nil
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}
