package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/nightlife-hub/nightpass/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

var (
	// Checkout counters
	CheckoutSessionsCreated  *telemetry.Counter
	CheckoutSessionsRejected *telemetry.Counter

	// Confirmation counters
	TicketsIssued     *telemetry.Counter
	WebhooksReceived  *telemetry.Counter
	WebhooksRejected  *telemetry.Counter
	WebhooksDuplicate *telemetry.Counter

	// Read side
	RewardComputations *telemetry.Counter
	TierRecalculations *telemetry.Counter

	// Histograms
	TicketPrice           *telemetry.Histogram
	WebhookProcessingTime *telemetry.Histogram

	initOnce sync.Once
	initErr  error
)

// Init initializes all ticketing metrics. Recording before Init is a no-op.
func Init() error {
	initOnce.Do(func() {
		initErr = initMetrics()
	})
	return initErr
}

func initMetrics() error {
	counters := []struct {
		dst  **telemetry.Counter
		opts telemetry.MetricOpts
	}{
		{&CheckoutSessionsCreated, telemetry.MetricOpts{Name: "checkout_sessions_created_total", Description: "Checkout sessions handed to the payment gateway", Unit: "1"}},
		{&CheckoutSessionsRejected, telemetry.MetricOpts{Name: "checkout_sessions_rejected_total", Description: "Checkout attempts rejected before reaching the gateway", Unit: "1"}},
		{&TicketsIssued, telemetry.MetricOpts{Name: "tickets_issued_total", Description: "Tickets created from confirmed payments", Unit: "1"}},
		{&WebhooksReceived, telemetry.MetricOpts{Name: "payment_webhooks_received_total", Description: "Payment webhooks received", Unit: "1"}},
		{&WebhooksRejected, telemetry.MetricOpts{Name: "payment_webhooks_rejected_total", Description: "Payment webhooks acknowledged without issuing a ticket", Unit: "1"}},
		{&WebhooksDuplicate, telemetry.MetricOpts{Name: "payment_webhooks_duplicate_total", Description: "Redelivered payment webhooks", Unit: "1"}},
		{&RewardComputations, telemetry.MetricOpts{Name: "reward_progress_computations_total", Description: "Reward progress computations", Unit: "1"}},
		{&TierRecalculations, telemetry.MetricOpts{Name: "venue_tier_recalculations_total", Description: "Venue price tier recalculations", Unit: "1"}},
	}
	for _, c := range counters {
		counter, err := telemetry.NewCounter(c.opts)
		if err != nil {
			return err
		}
		*c.dst = counter
	}

	var err error
	TicketPrice, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "ticket_price",
		Description: "Unit price paid per issued ticket",
		Unit:        "EUR",
	}, []float64{5, 10, 15, 20, 30, 50, 75, 100, 200})
	if err != nil {
		return err
	}

	WebhookProcessingTime, err = telemetry.NewHistogramWithBuckets(telemetry.MetricOpts{
		Name:        "payment_webhook_processing_seconds",
		Description: "Webhook processing duration",
		Unit:        "s",
	}, []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}) // 10ms to 5s
	return err
}

// RecordCheckoutCreated records a checkout session handed to the gateway
func RecordCheckoutCreated(ctx context.Context, eventID, ticketType string) {
	if CheckoutSessionsCreated != nil {
		CheckoutSessionsCreated.Inc(ctx,
			attribute.String("event_id", eventID),
			attribute.String("ticket_type", ticketType),
		)
	}
}

// RecordCheckoutRejected records a checkout refused with reason
func RecordCheckoutRejected(ctx context.Context, reason string) {
	if CheckoutSessionsRejected != nil {
		CheckoutSessionsRejected.Inc(ctx, attribute.String("reason", reason))
	}
}

// RecordTicketIssued records a ticket and its price
func RecordTicketIssued(ctx context.Context, eventID, ticketType string, price float64) {
	attrs := []attribute.KeyValue{
		attribute.String("event_id", eventID),
		attribute.String("ticket_type", ticketType),
	}
	if TicketsIssued != nil {
		TicketsIssued.Inc(ctx, attrs...)
	}
	if TicketPrice != nil {
		TicketPrice.Record(ctx, price, attrs...)
	}
}

// RecordWebhook records a processed webhook by outcome and its duration
func RecordWebhook(ctx context.Context, eventType, outcome string, started time.Time) {
	attrs := []attribute.KeyValue{
		attribute.String("event_type", eventType),
		attribute.String("outcome", outcome),
	}
	if WebhooksReceived != nil {
		WebhooksReceived.Inc(ctx, attrs...)
	}
	if WebhookProcessingTime != nil {
		WebhookProcessingTime.Record(ctx, time.Since(started).Seconds(), attrs...)
	}
}

// RecordWebhookRejected records a terminal webhook rejection
func RecordWebhookRejected(ctx context.Context, reason string) {
	if WebhooksRejected != nil {
		WebhooksRejected.Inc(ctx, attribute.String("reason", reason))
	}
}

// RecordWebhookDuplicate records an idempotent redelivery
func RecordWebhookDuplicate(ctx context.Context) {
	if WebhooksDuplicate != nil {
		WebhooksDuplicate.Inc(ctx)
	}
}

// RecordRewardComputation records a reward progress read
func RecordRewardComputation(ctx context.Context, unresolved int) {
	if RewardComputations != nil {
		RewardComputations.Inc(ctx, attribute.Bool("has_unresolved", unresolved > 0))
	}
}

// RecordTierRecalculation records a venue price tier update
func RecordTierRecalculation(ctx context.Context, venueID, priceRange string) {
	if TierRecalculations != nil {
		TierRecalculations.Inc(ctx,
			attribute.String("venue_id", venueID),
			attribute.String("price_range", priceRange),
		)
	}
}
