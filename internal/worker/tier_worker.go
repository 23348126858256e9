package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/kafka"
	"github.com/nightlife-hub/nightpass/pkg/logger"
	"github.com/nightlife-hub/nightpass/pkg/retry"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ProcessedKeyPrefix namespaces the per-ticket dedupe markers
const ProcessedKeyPrefix = "nightpass:tier:processed:"

// RecordSource is the consumer side the worker polls from
type RecordSource interface {
	Poll(ctx context.Context) ([]*kafka.Record, error)
	CommitRecords(ctx context.Context, records []*kafka.Record) error
}

// Deduper marks tickets whose price has already been folded in
type Deduper interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// TierWorkerConfig contains configuration for the tier worker
type TierWorkerConfig struct {
	WorkerCount   int
	RetryAttempts int
	RetryDelay    time.Duration
	DedupeTTL     time.Duration

	// DeadLetters receives events that still fail after retrying. Nil drops them.
	DeadLetters retry.DLQPublisher
}

// TierWorker consumes ticket.issued events and recalculates venue price tiers
type TierWorker struct {
	source    RecordSource
	directory service.VenueDirectory
	deduper   Deduper
	config    *TierWorkerConfig
}

// NewTierWorker creates a new tier worker. A nil deduper disables
// redelivery protection, so a replayed event is counted twice.
func NewTierWorker(source RecordSource, directory service.VenueDirectory, deduper Deduper, config *TierWorkerConfig) *TierWorker {
	if config == nil {
		config = &TierWorkerConfig{}
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 4
	}
	if config.RetryAttempts <= 0 {
		config.RetryAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = time.Second
	}
	if config.DedupeTTL <= 0 {
		config.DedupeTTL = 7 * 24 * time.Hour
	}
	return &TierWorker{
		source:    source,
		directory: directory,
		deduper:   deduper,
		config:    config,
	}
}

// Start runs the worker pool until ctx is cancelled
func (w *TierWorker) Start(ctx context.Context) error {
	log := logger.Get()
	log.Info(fmt.Sprintf("Starting tier worker with %d workers", w.config.WorkerCount))

	recordsCh := make(chan *kafka.Record, w.config.WorkerCount*10)

	var wg sync.WaitGroup
	for i := 0; i < w.config.WorkerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			w.worker(ctx, id, recordsCh)
		}(i)
	}

	err := w.poll(ctx, recordsCh)
	wg.Wait()
	return err
}

func (w *TierWorker) poll(ctx context.Context, recordsCh chan<- *kafka.Record) error {
	log := logger.Get()
	defer close(recordsCh)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		records, err := w.source.Poll(ctx)
		if err != nil {
			if errors.Is(err, kafka.ErrConsumerClosed) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error("Failed to poll ticket events", zap.Error(err))
			time.Sleep(time.Second)
			continue
		}

		for _, record := range records {
			select {
			case recordsCh <- record:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

func (w *TierWorker) worker(ctx context.Context, id int, recordsCh <-chan *kafka.Record) {
	log := logger.Get()
	log.Debug(fmt.Sprintf("Tier worker %d started", id))

	for record := range recordsCh {
		if err := w.processRecord(ctx, record); err != nil {
			log.Error(fmt.Sprintf("Tier worker %d failed to process record", id), zap.Error(err))
		}
	}

	log.Debug(fmt.Sprintf("Tier worker %d stopped", id))
}

func (w *TierWorker) deadLetter(ctx context.Context, record *kafka.Record, result *retry.Result, err error) {
	if w.config.DeadLetters == nil || ctx.Err() != nil {
		return
	}
	headers := make(map[string]string, len(record.Headers))
	for _, h := range record.Headers {
		headers[h.Key] = string(h.Value)
	}
	msg := &retry.DLQMessage{
		OriginalTopic:  record.Topic,
		OriginalKey:    string(record.Key),
		Payload:        record.Value,
		Headers:        headers,
		Error:          err.Error(),
		Attempts:       result.Attempts,
		FirstAttemptAt: time.Now().Add(-result.TotalDuration),
	}
	if dlqErr := w.config.DeadLetters.PublishToDLQ(ctx, msg); dlqErr != nil {
		logger.Get().Error("Failed to dead-letter ticket event", zap.String("topic", record.Topic), zap.Error(dlqErr))
	}
}

// processRecord applies one event and commits it whatever the outcome
func (w *TierWorker) processRecord(ctx context.Context, record *kafka.Record) error {
	log := logger.Get()

	var event dto.TicketIssuedEvent
	if err := json.Unmarshal(record.Value, &event); err != nil || event.TicketID == "" || event.VenueID == "" {
		log.Error("Dropping malformed ticket event", zap.ByteString("value", record.Value), zap.Error(err))
		return w.source.CommitRecords(ctx, []*kafka.Record{record})
	}

	if result, err := w.apply(ctx, &event); err != nil {
		log.Error("Failed to recalculate venue tier",
			zap.String("venue_id", event.VenueID),
			zap.String("ticket_id", event.TicketID),
			zap.Int("attempts", result.Attempts),
			zap.Error(err),
		)
		w.deadLetter(ctx, record, result, err)
	}

	return w.source.CommitRecords(ctx, []*kafka.Record{record})
}

// apply returns the retry result when the recalculation ran, nil when the
// ticket was already applied
func (w *TierWorker) apply(ctx context.Context, event *dto.TicketIssuedEvent) (*retry.Result, error) {
	log := logger.Get()
	key := ProcessedKeyPrefix + event.TicketID

	if w.deduper != nil {
		fresh, err := w.deduper.SetNX(ctx, key, event.VenueID, w.config.DedupeTTL).Result()
		if err != nil {
			// Apply without a marker
			log.Warn("Tier dedupe unavailable", zap.String("ticket_id", event.TicketID), zap.Error(err))
		} else if !fresh {
			log.Debug("Skipping already applied ticket event", zap.String("ticket_id", event.TicketID))
			return nil, nil
		}
	}

	result := retry.New(&retry.Config{
		MaxRetries:      w.config.RetryAttempts - 1,
		InitialInterval: w.config.RetryDelay,
		MaxInterval:     10 * w.config.RetryDelay,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}).DoWithCallback(ctx, func(ctx context.Context) error {
		venue, err := w.directory.RecalculatePriceTier(ctx, event.VenueID, event.PricePaid)
		if err != nil {
			if errors.Is(err, domain.ErrVenueNotFound) {
				return retry.Permanent(err)
			}
			return err
		}
		log.Info("Venue tier recalculated",
			zap.String("venue_id", venue.ID),
			zap.String("price_range", venue.PriceRange),
			zap.Int("observed", venue.ObservedPriceCount),
		)
		return nil
	}, func(attempt int, err error, next time.Duration) {
		log.Warn(fmt.Sprintf("Attempt %d failed to recalculate venue %s, retrying in %s", attempt, event.VenueID, next), zap.Error(err))
	})
	if result.Err == nil {
		return result, nil
	}

	if w.deduper != nil {
		w.deduper.Del(ctx, key)
	}
	if result.LastError != nil {
		return result, result.LastError
	}
	return result, result.Err
}
