package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/gateway"
	"github.com/nightlife-hub/nightpass/internal/repository"
	"github.com/stretchr/testify/require"
)

const testWebhookSecret = "whsec_service_test"

type testEnv struct {
	venues    *repository.MemoryVenueRepository
	djs       *repository.MemoryDJRepository
	events    *repository.MemoryEventRepository
	tickets   *repository.MemoryTicketRepository
	reviews   *repository.MemoryReviewRepository
	users     *repository.MemoryUserRepository
	gateway   *gateway.MockGateway
	directory VenueDirectory
}

func newTestEnv() *testEnv {
	env := &testEnv{
		venues:  repository.NewMemoryVenueRepository(),
		djs:     repository.NewMemoryDJRepository(),
		events:  repository.NewMemoryEventRepository(),
		reviews: repository.NewMemoryReviewRepository(),
		users:   repository.NewMemoryUserRepository(),
		gateway: gateway.NewMockGateway(testWebhookSecret),
	}
	env.tickets = repository.NewMemoryTicketRepository(env.events)
	env.directory = NewVenueDirectory(env.venues, env.djs)
	return env
}

func (e *testEnv) seedVenue(t *testing.T, id, ownerID, priceRange string) *domain.Venue {
	t.Helper()
	venue := &domain.Venue{ID: id, Name: "Venue " + id, City: "Barcelona", PriceRange: priceRange, OwnerID: ownerID, CreatedAt: time.Now()}
	require.NoError(t, e.venues.Create(context.Background(), venue))
	return venue
}

func (e *testEnv) seedDJ(t *testing.T, id, name string) *domain.DJ {
	t.Helper()
	dj := &domain.DJ{ID: id, Name: name, CreatedAt: time.Now()}
	require.NoError(t, e.djs.Create(context.Background(), dj))
	return dj
}

// seedEvent creates an event with one "General" type priced 10 up to 5 sold, then 20 up to 10
func (e *testEnv) seedEvent(t *testing.T, id, venueID string, djIDs ...string) *domain.Event {
	t.Helper()
	event := &domain.Event{
		ID:      id,
		Name:    "Night " + id,
		VenueID: venueID,
		DJIDs:   djIDs,
		TicketTypes: []domain.TicketType{{
			Name: "General",
			Tranches: []domain.Tranche{
				{CumulativeCeiling: 5, UnitPrice: 10},
				{CumulativeCeiling: 10, UnitPrice: 20},
			},
		}},
		AttendeeIDs: []string{},
		StartsAt:    time.Now().Add(24 * time.Hour),
		CreatedAt:   time.Now(),
	}
	require.NoError(t, e.events.Create(context.Background(), event))
	return event
}

func (e *testEnv) seedUser(t *testing.T, id, email string) *domain.User {
	t.Helper()
	user := &domain.User{ID: id, Email: email, Role: domain.RoleUser}
	require.NoError(t, e.users.Upsert(context.Background(), user))
	return user
}

// sellTickets issues n tickets to throwaway buyers
func (e *testEnv) sellTickets(t *testing.T, eventID, typeName string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		ticket := domain.NewTicket("filler-"+uuid.NewString(), eventID, typeName, "", 0, time.Now())
		_, err := e.tickets.IssueTicket(context.Background(), ticket, func(int) (float64, error) { return 1, nil })
		require.NoError(t, err)
	}
}

func (e *testEnv) signedWebhook(t *testing.T, eventType, sessionID string, metadata map[string]string, email string) ([]byte, string) {
	t.Helper()
	body := map[string]interface{}{
		"id":     "evt_" + sessionID,
		"object": "event",
		"type":   eventType,
		"data": map[string]interface{}{
			"object": map[string]interface{}{
				"id":             sessionID,
				"object":         "checkout.session",
				"customer_email": email,
				"metadata":       metadata,
			},
		},
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	return payload, e.gateway.SignPayload(payload)
}

func ticketMetadata(eventID, typeName string) map[string]string {
	return map[string]string{
		gateway.MetadataEventID:    eventID,
		gateway.MetadataTicketType: typeName,
	}
}
