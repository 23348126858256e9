package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/gateway"
	"github.com/nightlife-hub/nightpass/internal/metrics"
	"github.com/nightlife-hub/nightpass/internal/repository"
	"github.com/nightlife-hub/nightpass/pkg/logger"
	"github.com/nightlife-hub/nightpass/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ResultStatus describes what a confirmation did
type ResultStatus string

const (
	ResultCreated          ResultStatus = "created"
	ResultAlreadyProcessed ResultStatus = "already_processed"
	ResultIgnored          ResultStatus = "ignored"
)

// ConfirmationResult is the outcome of an accepted webhook
type ConfirmationResult struct {
	Status    ResultStatus
	EventType string
	Ticket    *domain.Ticket
}

// confirmationService implements ConfirmationService
type confirmationService struct {
	eventRepo  repository.EventRepository
	ticketRepo repository.TicketRepository
	userRepo   repository.UserRepository
	gateway    gateway.PaymentGateway
	trigger    TierTrigger
	now        func() time.Time
}

// NewConfirmationService creates a new ConfirmationService
func NewConfirmationService(
	eventRepo repository.EventRepository,
	ticketRepo repository.TicketRepository,
	userRepo repository.UserRepository,
	gw gateway.PaymentGateway,
	trigger TierTrigger,
) ConfirmationService {
	if trigger == nil {
		trigger = NewNoopTierTrigger()
	}
	return &confirmationService{
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		gateway:    gw,
		trigger:    trigger,
		now:        time.Now,
	}
}

// Confirm verifies the webhook signature and issues at most one ticket per
// buyer, event and ticket type. The price is recomputed from the sold count
// at confirmation time, not taken from the session.
func (s *confirmationService) Confirm(ctx context.Context, payload []byte, sigHeader string) (*ConfirmationResult, error) {
	started := time.Now()
	ctx, span := telemetry.StartSpan(ctx, "confirmation.confirm")
	defer span.End()

	event, err := s.gateway.ParseWebhook(payload, sigHeader)
	if err != nil {
		metrics.RecordWebhookRejected(ctx, confirmationReason(err))
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}
	span.SetAttributes(attribute.String("webhook.type", event.Type), attribute.String("webhook.id", event.ID))

	result, err := s.apply(ctx, event)
	if err != nil {
		metrics.RecordWebhookRejected(ctx, confirmationReason(err))
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}
	if result.Status == ResultAlreadyProcessed {
		metrics.RecordWebhookDuplicate(ctx)
	}
	metrics.RecordWebhook(ctx, event.Type, string(result.Status), started)
	return result, nil
}

func (s *confirmationService) apply(ctx context.Context, event *gateway.WebhookEvent) (*ConfirmationResult, error) {
	if event.Type != gateway.EventCheckoutSessionCompleted {
		return &ConfirmationResult{Status: ResultIgnored, EventType: event.Type}, nil
	}

	session := event.Session
	if session == nil {
		return nil, fmt.Errorf("%w: missing checkout session", domain.ErrMalformedPayload)
	}
	eventID := session.Metadata[gateway.MetadataEventID]
	ticketTypeName := session.Metadata[gateway.MetadataTicketType]
	if eventID == "" || ticketTypeName == "" {
		return nil, fmt.Errorf("%w: session %s lacks event metadata", domain.ErrMalformedPayload, session.ID)
	}
	if session.CustomerEmail == "" {
		return nil, fmt.Errorf("%w: session %s has no customer email", domain.ErrMalformedPayload, session.ID)
	}

	buyer, err := s.userRepo.GetByEmail(ctx, session.CustomerEmail)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if buyer == nil {
		return nil, domain.ErrUserNotFound
	}

	nightEvent, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if nightEvent == nil {
		return nil, domain.ErrEventNotFound
	}

	// Lock-free fast path for redeliveries; IssueTicket checks again under its lock
	existing, err := s.ticketRepo.FindByUserEventType(ctx, buyer.ID, nightEvent.ID, ticketTypeName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}
	if existing != nil {
		return s.alreadyProcessed(event, existing), nil
	}

	ticketType, ok := nightEvent.FindTicketType(ticketTypeName)
	if !ok {
		return nil, domain.ErrInvalidTicketType
	}

	ticket := domain.NewTicket(buyer.ID, nightEvent.ID, ticketType.Name, session.ID, 0, s.now())
	issued, err := s.ticketRepo.IssueTicket(ctx, ticket, func(sold int) (float64, error) {
		if err := domain.ValidateSoldCount(sold); err != nil {
			return 0, err
		}
		price, ok := domain.PriceFor(ticketType.Tranches, sold)
		if !ok {
			return 0, domain.ErrNoTranche
		}
		if price <= 0 {
			return 0, fmt.Errorf("%w: got %v at sold=%d", domain.ErrInvalidPrice, price, sold)
		}
		return price, nil
	})
	switch {
	case errors.Is(err, domain.ErrAlreadyProcessed):
		if issued == nil {
			// Lost a unique-key race outside the lock, load the winner
			if issued, err = s.ticketRepo.FindByUserEventType(ctx, buyer.ID, nightEvent.ID, ticketType.Name); err != nil || issued == nil {
				return nil, fmt.Errorf("%w: duplicate ticket not readable: %v", domain.ErrPersistence, err)
			}
		}
		return s.alreadyProcessed(event, issued), nil
	case errors.Is(err, domain.ErrNoTranche), errors.Is(err, domain.ErrNegativeSoldCount), errors.Is(err, domain.ErrInvalidPrice):
		return nil, err
	case err != nil:
		return nil, fmt.Errorf("%w: %v", domain.ErrPersistence, err)
	}

	metrics.RecordTicketIssued(ctx, issued.EventID, issued.TicketTypeName, issued.PricePaid)
	logger.Get().Info("ticket issued",
		zap.String("ticket_id", issued.ID),
		zap.String("event_id", issued.EventID),
		zap.String("ticket_type", issued.TicketTypeName),
		zap.Float64("price", issued.PricePaid),
		zap.String("session_id", session.ID),
	)

	// The ticket is committed, a failed recalculation must not fail the webhook
	if err := s.trigger.TicketIssued(ctx, &dto.TicketIssuedEvent{
		TicketID:       issued.ID,
		EventID:        issued.EventID,
		VenueID:        nightEvent.VenueID,
		UserID:         issued.UserID,
		TicketTypeName: issued.TicketTypeName,
		PricePaid:      issued.PricePaid,
		IssuedAt:       issued.PurchasedAt,
	}); err != nil {
		logger.Get().Warn("price tier recalculation failed",
			zap.String("venue_id", nightEvent.VenueID),
			zap.String("ticket_id", issued.ID),
			zap.Error(err),
		)
	}

	return &ConfirmationResult{Status: ResultCreated, EventType: event.Type, Ticket: issued}, nil
}

func (s *confirmationService) alreadyProcessed(event *gateway.WebhookEvent, ticket *domain.Ticket) *ConfirmationResult {
	logger.Get().Info("duplicate payment confirmation",
		zap.String("webhook_id", event.ID),
		zap.String("ticket_id", ticket.ID),
	)
	return &ConfirmationResult{Status: ResultAlreadyProcessed, EventType: event.Type, Ticket: ticket}
}

func confirmationReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, domain.ErrMalformedPayload):
		return "malformed"
	case errors.Is(err, domain.ErrNoTranche), errors.Is(err, domain.ErrNegativeSoldCount):
		return "no_tranche"
	case errors.Is(err, domain.ErrInvalidPrice):
		return "invalid_price"
	case errors.Is(err, domain.ErrPersistence):
		return "persistence"
	case domain.IsNotFoundError(err):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidTicketType):
		return "invalid_ticket_type"
	default:
		return "error"
	}
}
