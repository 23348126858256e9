package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testSecret = "whsec_test_secret"

func completedPayload(t *testing.T, metadata map[string]string, email string) []byte {
	t.Helper()
	body := map[string]interface{}{
		"id":     "evt_test_1",
		"object": "event",
		"type":   EventCheckoutSessionCompleted,
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":             "cs_test_1",
				"object":         "checkout.session",
				"amount_total":   1000,
				"customer_email": email,
				"metadata":       metadata,
			},
		},
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	return payload
}

func TestMockGateway_ParseWebhook_Completed(t *testing.T) {
	g := NewMockGateway(testSecret)
	payload := completedPayload(t, map[string]string{MetadataEventID: "evt-1", MetadataTicketType: "General"}, "ana@example.com")

	event, err := g.ParseWebhook(payload, g.SignPayload(payload))
	require.NoError(t, err)

	assert.Equal(t, EventCheckoutSessionCompleted, event.Type)
	require.NotNil(t, event.Session)
	assert.Equal(t, "cs_test_1", event.Session.ID)
	assert.Equal(t, "ana@example.com", event.Session.CustomerEmail)
	assert.Equal(t, "evt-1", event.Session.Metadata[MetadataEventID])
	assert.Equal(t, int64(1000), event.Session.AmountTotal)
}

func TestMockGateway_ParseWebhook_PrefersCustomerDetailsEmail(t *testing.T) {
	g := NewMockGateway(testSecret)
	payload := []byte(fmt.Sprintf(`{"id":"evt_2","object":"event","type":%q,"data":{"object":{"id":"cs_2","customer_email":"old@example.com","customer_details":{"email":"new@example.com"},"metadata":{}}}}`, EventCheckoutSessionCompleted))

	event, err := g.ParseWebhook(payload, g.SignPayload(payload))
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", event.Session.CustomerEmail)
}

func TestMockGateway_ParseWebhook_InvalidSignature(t *testing.T) {
	g := NewMockGateway(testSecret)
	payload := completedPayload(t, nil, "ana@example.com")

	other := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    "whsec_someone_else",
		Timestamp: time.Now(),
	})

	_, err := g.ParseWebhook(payload, other.Header)
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)

	_, err = g.ParseWebhook(payload, "")
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)

	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] = ' '
	_, err = g.ParseWebhook(tampered, g.SignPayload(payload))
	assert.ErrorIs(t, err, domain.ErrInvalidSignature)
}

func TestMockGateway_ParseWebhook_OtherTypeHasNoSession(t *testing.T) {
	g := NewMockGateway(testSecret)
	payload := []byte(`{"id":"evt_3","object":"event","type":"payment_intent.created","data":{"object":{"id":"pi_1"}}}`)

	event, err := g.ParseWebhook(payload, g.SignPayload(payload))
	require.NoError(t, err)
	assert.Equal(t, "payment_intent.created", event.Type)
	assert.Nil(t, event.Session)
}

func TestMockGateway_ParseWebhook_MalformedJSON(t *testing.T) {
	g := NewMockGateway(testSecret)
	payload := []byte(`{"id":`)

	_, err := g.ParseWebhook(payload, g.SignPayload(payload))
	assert.ErrorIs(t, err, domain.ErrMalformedPayload)
}

func TestMockGateway_CreateCheckoutSession(t *testing.T) {
	g := NewMockGateway(testSecret)
	req := &CheckoutSessionRequest{
		CustomerEmail: "ana@example.com",
		AmountMinor:   1500,
		Currency:      "eur",
		SuccessURL:    "http://localhost:3000/checkout/success",
		Metadata:      map[string]string{MetadataEventID: "evt-1", MetadataTicketType: "VIP"},
	}

	cs, err := g.CreateCheckoutSession(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, cs.ID, "cs_test_")

	u, err := url.Parse(cs.URL)
	require.NoError(t, err)
	assert.Equal(t, cs.ID, u.Query().Get("session_id"))

	stored, ok := g.Session(cs.ID)
	require.True(t, ok)
	assert.Equal(t, int64(1500), stored.AmountMinor)
	assert.Equal(t, "mock", g.Name())
}

func TestNewStripeGateway_Validation(t *testing.T) {
	_, err := NewStripeGateway(nil)
	assert.Error(t, err)

	_, err = NewStripeGateway(&StripeGatewayConfig{WebhookSecret: testSecret})
	assert.Error(t, err)

	_, err = NewStripeGateway(&StripeGatewayConfig{SecretKey: "sk_test_123"})
	assert.Error(t, err)

	g, err := NewStripeGateway(&StripeGatewayConfig{SecretKey: "sk_test_123", WebhookSecret: testSecret})
	require.NoError(t, err)
	assert.Equal(t, "stripe", g.Name())
}
