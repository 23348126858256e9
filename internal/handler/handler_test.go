package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCheckoutService struct {
	BuildSessionFunc func(ctx context.Context, actor service.Actor, eventID, ticketTypeName string) (*dto.CheckoutResponse, error)
}

func (m *mockCheckoutService) BuildSession(ctx context.Context, actor service.Actor, eventID, ticketTypeName string) (*dto.CheckoutResponse, error) {
	return m.BuildSessionFunc(ctx, actor, eventID, ticketTypeName)
}

type mockConfirmationService struct {
	ConfirmFunc func(ctx context.Context, payload []byte, sigHeader string) (*service.ConfirmationResult, error)
}

func (m *mockConfirmationService) Confirm(ctx context.Context, payload []byte, sigHeader string) (*service.ConfirmationResult, error) {
	return m.ConfirmFunc(ctx, payload, sigHeader)
}

type mockRewardService struct {
	ComputeProgressFunc func(ctx context.Context, userID string) (*domain.RewardSummary, error)
}

func (m *mockRewardService) ComputeProgress(ctx context.Context, userID string) (*domain.RewardSummary, error) {
	return m.ComputeProgressFunc(ctx, userID)
}

// withIdentity stands in for JWTMiddleware
func withIdentity(identity *middleware.Identity) gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity != nil {
			middleware.SetIdentity(c, identity)
		}
		c.Next()
	}
}

func newTestRouter(identity *middleware.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(withIdentity(identity))
	return router
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func errorCode(body map[string]interface{}) string {
	errObj, _ := body["error"].(map[string]interface{})
	code, _ := errObj["code"].(string)
	return code
}

var buyer = &middleware.Identity{UserID: "u1", Email: "ana@example.com", Role: middleware.RoleUser}

func TestCheckoutHandler_Create(t *testing.T) {
	tests := []struct {
		name       string
		identity   *middleware.Identity
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "created", identity: buyer, body: `{"event_id":"e1","ticket_type":"General"}`, wantStatus: http.StatusCreated},
		{name: "anonymous", body: `{"event_id":"e1","ticket_type":"General"}`, wantStatus: http.StatusUnauthorized},
		{name: "missing fields", identity: buyer, body: `{"event_id":"e1"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown event", identity: buyer, body: `{"event_id":"x","ticket_type":"General"}`, err: domain.ErrEventNotFound, wantStatus: http.StatusNotFound},
		{name: "buyer not synced", identity: buyer, body: `{"event_id":"e1","ticket_type":"General"}`, err: domain.ErrUserNotFound, wantStatus: http.StatusNotFound},
		{name: "unknown ticket type", identity: buyer, body: `{"event_id":"e1","ticket_type":"VIP"}`, err: domain.ErrInvalidTicketType, wantStatus: http.StatusBadRequest},
		{name: "sold out", identity: buyer, body: `{"event_id":"e1","ticket_type":"General"}`, err: domain.ErrSoldOut, wantStatus: http.StatusConflict, wantCode: "SOLD_OUT"},
		{name: "zero price", identity: buyer, body: `{"event_id":"e1","ticket_type":"General"}`, err: domain.ErrInvalidPrice, wantStatus: http.StatusUnprocessableEntity},
		{name: "gateway down", identity: buyer, body: `{"event_id":"e1","ticket_type":"General"}`, err: errors.New("stripe: timeout"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockCheckoutService{BuildSessionFunc: func(ctx context.Context, actor service.Actor, eventID, ticketTypeName string) (*dto.CheckoutResponse, error) {
				assert.Equal(t, "u1", actor.UserID)
				if tt.err != nil {
					return nil, tt.err
				}
				return &dto.CheckoutResponse{SessionID: "cs_1", URL: "https://pay.test/cs_1", UnitPrice: 10, AmountMinor: 1000, Currency: "eur"}, nil
			}}
			router := newTestRouter(tt.identity)
			router.POST("/checkout", NewCheckoutHandler(svc).Create)

			req := httptest.NewRequest(http.MethodPost, "/checkout", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(decode(t, rec)))
			}
			if tt.wantStatus == http.StatusCreated {
				data := decode(t, rec)["data"].(map[string]interface{})
				assert.Equal(t, "https://pay.test/cs_1", data["url"])
				assert.Equal(t, float64(1000), data["amount_minor"])
			}
		})
	}
}

func TestWebhookHandler_HandleStripe(t *testing.T) {
	ticket := &domain.Ticket{ID: "t1"}
	tests := []struct {
		name       string
		result     *service.ConfirmationResult
		err        error
		wantStatus int
		wantAck    string
	}{
		{name: "created", result: &service.ConfirmationResult{Status: service.ResultCreated, Ticket: ticket}, wantStatus: http.StatusOK, wantAck: "created"},
		{name: "redelivery", result: &service.ConfirmationResult{Status: service.ResultAlreadyProcessed, Ticket: ticket}, wantStatus: http.StatusOK, wantAck: "already_processed"},
		{name: "other event type", result: &service.ConfirmationResult{Status: service.ResultIgnored}, wantStatus: http.StatusOK, wantAck: "ignored"},
		{name: "bad signature", err: fmt.Errorf("%w: no valid signature", domain.ErrInvalidSignature), wantStatus: http.StatusOK, wantAck: "rejected"},
		{name: "zero price tranche", err: fmt.Errorf("%w: got 0 at sold=1", domain.ErrInvalidPrice), wantStatus: http.StatusOK, wantAck: "rejected"},
		{name: "malformed", err: fmt.Errorf("%w: missing metadata", domain.ErrMalformedPayload), wantStatus: http.StatusOK, wantAck: "rejected"},
		{name: "unknown buyer", err: domain.ErrUserNotFound, wantStatus: http.StatusOK, wantAck: "rejected"},
		{name: "unknown event", err: domain.ErrEventNotFound, wantStatus: http.StatusOK, wantAck: "rejected"},
		{name: "unknown ticket type", err: domain.ErrInvalidTicketType, wantStatus: http.StatusOK, wantAck: "rejected"},
		{name: "no tranche", err: domain.ErrNoTranche, wantStatus: http.StatusOK, wantAck: "rejected"},
		{name: "store down", err: fmt.Errorf("%w: connection refused", domain.ErrPersistence), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockConfirmationService{ConfirmFunc: func(ctx context.Context, payload []byte, sigHeader string) (*service.ConfirmationResult, error) {
				assert.Equal(t, `{"id":"evt_1"}`, string(payload))
				assert.Equal(t, "t=1,v1=abc", sigHeader)
				return tt.result, tt.err
			}}
			router := newTestRouter(nil)
			router.POST("/webhooks/stripe", NewWebhookHandler(svc).HandleStripe)

			req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBufferString(`{"id":"evt_1"}`))
			req.Header.Set(StripeSignatureHeader, "t=1,v1=abc")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantAck != "" {
				body := decode(t, rec)
				assert.Equal(t, true, body["received"])
				assert.Equal(t, tt.wantAck, body["status"])
			}
		})
	}
}

func TestRewardHandler_Progress(t *testing.T) {
	svc := &mockRewardService{ComputeProgressFunc: func(ctx context.Context, userID string) (*domain.RewardSummary, error) {
		summary := domain.NewRewardSummary(userID)
		for i := 0; i < 12; i++ {
			summary.Count(domain.PriceTierMedium)
		}
		summary.CountUnresolved()
		return summary, nil
	}}
	router := newTestRouter(buyer)
	router.GET("/rewards/progress", NewRewardHandler(svc).Progress)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rewards/progress", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data dto.RewardProgressResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 13, body.Data.TotalReviews)
	assert.Equal(t, 1, body.Data.Unresolved)
	require.Len(t, body.Data.Tiers, 4)

	medium := body.Data.Tiers[1]
	assert.Equal(t, "medium", medium.Tier)
	assert.Equal(t, 12, medium.ReviewCount)
	require.Len(t, medium.Unlocked, 1)
	assert.Equal(t, domain.RewardConsumable, medium.Unlocked[0].Reward)
	require.NotNil(t, medium.Next)
	assert.Equal(t, 30, medium.Next.Count)
	assert.Equal(t, 18, medium.Remaining)
}

func TestRewardHandler_Progress_Unauthenticated(t *testing.T) {
	router := newTestRouter(nil)
	router.GET("/rewards/progress", NewRewardHandler(&mockRewardService{}).Progress)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rewards/progress", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		identity   *middleware.Identity
		wantStatus int
	}{
		{name: "club", identity: &middleware.Identity{UserID: "c1", Role: middleware.RoleClub}, wantStatus: http.StatusOK},
		{name: "admin", identity: &middleware.Identity{UserID: "a1", Role: middleware.RoleAdmin}, wantStatus: http.StatusOK},
		{name: "plain user", identity: buyer, wantStatus: http.StatusForbidden},
		{name: "anonymous", wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.identity)
			router.GET("/club-only", func(c *gin.Context) {
				if _, ok := requireRole(c, middleware.RoleClub); !ok {
					return
				}
				c.Status(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/club-only", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{domain.ErrVenueNotFound, http.StatusNotFound},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrNotAttendee, http.StatusForbidden},
		{domain.ErrDuplicateReview, http.StatusConflict},
		{fmt.Errorf("%w: rating", domain.ErrMissingRequiredArg), http.StatusBadRequest},
		{domain.ErrInvalidTarget, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			router := newTestRouter(nil)
			router.GET("/x", func(c *gin.Context) { respondError(c, tt.err, "failed") })

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
