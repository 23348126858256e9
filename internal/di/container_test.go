package di

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/gateway"
	"github.com/nightlife-hub/nightpass/internal/handler"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainer_PurchaseReviewRewardFlow(t *testing.T) {
	ctx := context.Background()
	gw := gateway.NewMockGateway("whsec_flow")
	c := NewContainer(&ContainerConfig{
		ServiceName:    "nightpass-test",
		Gateway:        gw,
		CheckoutConfig: &service.CheckoutConfig{SuccessURL: "http://localhost/ok", CancelURL: "http://localhost/cancel"},
	})

	owner := service.Actor{UserID: "club-1", Email: "club@example.com", Role: domain.RoleClub}
	buyer := service.Actor{UserID: "u1", Email: "ana@example.com", Role: domain.RoleUser}

	venue, err := c.VenueService.CreateVenue(ctx, owner, &dto.CreateVenueRequest{Name: "Apolo", PriceRange: "$$"})
	require.NoError(t, err)
	dj, err := c.DJService.CreateDJ(ctx, &dto.CreateDJRequest{Name: "DJ Coco"})
	require.NoError(t, err)
	event, err := c.EventService.CreateEvent(ctx, owner, &dto.CreateEventRequest{
		Name:     "Nasty Mondays",
		VenueID:  venue.ID,
		DJIDs:    []string{dj.ID},
		StartsAt: time.Now().Add(72 * time.Hour),
		TicketTypes: []dto.TicketTypeRequest{{
			Name:     "General",
			Tranches: []domain.Tranche{{CumulativeCeiling: 100, UnitPrice: 12}},
		}},
	})
	require.NoError(t, err)

	_, err = c.UserService.SyncUser(ctx, buyer)
	require.NoError(t, err)

	session, err := c.CheckoutService.BuildSession(ctx, buyer, event.ID, "General")
	require.NoError(t, err)
	assert.Equal(t, 12.0, session.UnitPrice)

	recorded, ok := gw.Session(session.SessionID)
	require.True(t, ok)

	payload, err := json.Marshal(map[string]interface{}{
		"id":     "evt_flow",
		"object": "event",
		"type":   gateway.EventCheckoutSessionCompleted,
		"data": map[string]interface{}{"object": map[string]interface{}{
			"id":             session.SessionID,
			"object":         "checkout.session",
			"customer_email": recorded.CustomerEmail,
			"metadata":       recorded.Metadata,
		}},
	})
	require.NoError(t, err)

	result, err := c.ConfirmationService.Confirm(ctx, payload, gw.SignPayload(payload))
	require.NoError(t, err)
	require.Equal(t, service.ResultCreated, result.Status)

	// Inline tier recalculation: a 12 average is the lowest band
	updated, err := c.VenueService.GetVenue(ctx, venue.ID)
	require.NoError(t, err)
	assert.Equal(t, "1", updated.PriceRange)

	_, err = c.ReviewService.CreateReview(ctx, buyer, &dto.CreateReviewRequest{
		TargetID: venue.ID, TargetType: domain.TargetClub, EventID: event.ID, Rating: 5,
	})
	require.NoError(t, err)
	_, err = c.ReviewService.CreateReview(ctx, buyer, &dto.CreateReviewRequest{
		TargetID: dj.ID, TargetType: domain.TargetDJ, EventID: event.ID, Rating: 4.5,
	})
	require.NoError(t, err)

	summary, err := c.RewardService.ComputeProgress(ctx, buyer.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalReviews)
	assert.Equal(t, 2, summary.Tiers[domain.PriceTierLow].ReviewCount)

	tickets, total, err := c.TicketService.ListUserTickets(ctx, buyer.UserID, &dto.ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	validated, err := c.TicketService.ValidateTicket(ctx, owner, tickets[0].ID)
	require.NoError(t, err)
	assert.True(t, validated.Validated)
}

func TestContainer_WebhookRejectsBadSignatureWithAck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := NewContainer(&ContainerConfig{
		ServiceName:    "nightpass-test",
		Gateway:        gateway.NewMockGateway("whsec_flow"),
		CheckoutConfig: &service.CheckoutConfig{SuccessURL: "http://localhost/ok", CancelURL: "http://localhost/cancel"},
	})
	router := gin.New()
	router.POST("/webhooks/stripe", c.WebhookHandler.HandleStripe)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewBufferString(`{"id":"evt_1","type":"checkout.session.completed"}`))
	req.Header.Set(handler.StripeSignatureHeader, "t=1,v1=deadbeef")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var ack dto.WebhookAck
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ack))
	assert.True(t, ack.Received)
	assert.Equal(t, "rejected", ack.Status)
	assert.Equal(t, domain.ErrInvalidSignature.Error(), ack.Reason)
}
