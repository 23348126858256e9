package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/gateway"
	"github.com/nightlife-hub/nightpass/internal/metrics"
	"github.com/nightlife-hub/nightpass/internal/repository"
	"github.com/nightlife-hub/nightpass/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// CheckoutConfig holds the redirect and currency settings for sessions
type CheckoutConfig struct {
	Currency   string
	SuccessURL string
	CancelURL  string
}

// checkoutService implements CheckoutService
type checkoutService struct {
	eventRepo  repository.EventRepository
	ticketRepo repository.TicketRepository
	userRepo   repository.UserRepository
	directory  VenueDirectory
	gateway    gateway.PaymentGateway
	config     *CheckoutConfig
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	eventRepo repository.EventRepository,
	ticketRepo repository.TicketRepository,
	userRepo repository.UserRepository,
	directory VenueDirectory,
	gw gateway.PaymentGateway,
	config *CheckoutConfig,
) CheckoutService {
	if config == nil {
		config = &CheckoutConfig{}
	}
	if config.Currency == "" {
		config.Currency = "eur"
	}
	return &checkoutService{
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		directory:  directory,
		gateway:    gw,
		config:     config,
	}
}

// BuildSession prices one ticket and creates a gateway checkout session.
// Buyers must be synced first so the completion webhook can find them by email.
func (s *checkoutService) BuildSession(ctx context.Context, actor Actor, eventID, ticketTypeName string) (*dto.CheckoutResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "checkout.build_session")
	defer span.End()
	span.SetAttributes(
		attribute.String("event_id", eventID),
		attribute.String("ticket_type", ticketTypeName),
	)

	resp, err := s.buildSession(ctx, actor, eventID, ticketTypeName)
	if err != nil {
		metrics.RecordCheckoutRejected(ctx, rejectionReason(err))
		telemetry.SetSpanError(ctx, err)
		return nil, err
	}
	metrics.RecordCheckoutCreated(ctx, eventID, ticketTypeName)
	return resp, nil
}

func (s *checkoutService) buildSession(ctx context.Context, actor Actor, eventID, ticketTypeName string) (*dto.CheckoutResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, domain.ErrEventNotFound
	}

	ticketType, ok := event.FindTicketType(ticketTypeName)
	if !ok {
		return nil, domain.ErrInvalidTicketType
	}

	buyer, err := s.userRepo.GetByID(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if buyer == nil {
		return nil, domain.ErrUserNotFound
	}

	// Read the count as late as possible, right before pricing
	sold, err := s.ticketRepo.CountSold(ctx, event.ID, ticketType.Name)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateSoldCount(sold); err != nil {
		return nil, err
	}

	price, ok := domain.PriceFor(ticketType.Tranches, sold)
	if !ok {
		return nil, domain.ErrSoldOut
	}
	if price <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	description, err := s.describe(ctx, event, ticketType.Name)
	if err != nil {
		return nil, err
	}

	amount := domain.MinorUnits(price)
	session, err := s.gateway.CreateCheckoutSession(ctx, &gateway.CheckoutSessionRequest{
		CustomerEmail: buyer.Email,
		Description:   description,
		AmountMinor:   amount,
		Currency:      s.config.Currency,
		SuccessURL:    s.config.SuccessURL,
		CancelURL:     s.config.CancelURL,
		Metadata: map[string]string{
			gateway.MetadataEventID:    event.ID,
			gateway.MetadataTicketType: ticketType.Name,
		},
	})
	if err != nil {
		return nil, err
	}

	return &dto.CheckoutResponse{
		SessionID:   session.ID,
		URL:         session.URL,
		UnitPrice:   price,
		AmountMinor: amount,
		Currency:    s.config.Currency,
	}, nil
}

// describe builds the line item label: "<type> - <event> @ <venue> (<djs>)"
func (s *checkoutService) describe(ctx context.Context, event *domain.Event, ticketTypeName string) (string, error) {
	venue, err := s.directory.GetVenue(ctx, event.VenueID)
	if err != nil {
		return "", err
	}
	djs, err := s.directory.GetDJs(ctx, event.DJIDs)
	if err != nil {
		return "", err
	}

	description := fmt.Sprintf("%s - %s @ %s", ticketTypeName, event.Name, venue.Name)
	if len(djs) > 0 {
		names := make([]string, len(djs))
		for i, dj := range djs {
			names[i] = dj.Name
		}
		description += " (" + strings.Join(names, ", ") + ")"
	}
	return description, nil
}

func rejectionReason(err error) string {
	switch {
	case domain.IsSoldOutError(err):
		return "sold_out"
	case domain.IsNotFoundError(err):
		return "not_found"
	case domain.IsValidationError(err):
		return "invalid_request"
	default:
		return "error"
	}
}
