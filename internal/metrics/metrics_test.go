package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordBeforeInitIsSafe(t *testing.T) {
	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordTicketIssued(ctx, "evt-1", "General", 10)
		RecordWebhook(ctx, "checkout.session.completed", "created", time.Now())
	})
}

func TestInit_RegistersInstruments(t *testing.T) {
	require.NoError(t, Init())
	require.NoError(t, Init())

	assert.NotNil(t, TicketsIssued)
	assert.NotNil(t, WebhookProcessingTime)

	ctx := context.Background()
	assert.NotPanics(t, func() {
		RecordCheckoutCreated(ctx, "evt-1", "VIP")
		RecordCheckoutRejected(ctx, "sold_out")
		RecordWebhookRejected(ctx, "malformed_payload")
		RecordWebhookDuplicate(ctx)
		RecordRewardComputation(ctx, 1)
		RecordTierRecalculation(ctx, "venue-1", "2")
	})
}
