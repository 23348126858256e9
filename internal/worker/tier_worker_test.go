package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nightlife-hub/nightpass/internal/domain"
	"github.com/nightlife-hub/nightpass/internal/dto"
	"github.com/nightlife-hub/nightpass/internal/repository"
	"github.com/nightlife-hub/nightpass/internal/service"
	"github.com/nightlife-hub/nightpass/pkg/kafka"
	"github.com/nightlife-hub/nightpass/pkg/retry"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	mu        sync.Mutex
	batches   [][]*kafka.Record
	committed []*kafka.Record
}

func (s *fakeSource) Poll(ctx context.Context) ([]*kafka.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.batches) == 0 {
		return nil, kafka.ErrConsumerClosed
	}
	batch := s.batches[0]
	s.batches = s.batches[1:]
	return batch, nil
}

func (s *fakeSource) CommitRecords(ctx context.Context, records []*kafka.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.committed = append(s.committed, records...)
	return nil
}

type memoryDeduper struct {
	mu   sync.Mutex
	keys map[string]bool
	err  error
}

func newMemoryDeduper() *memoryDeduper {
	return &memoryDeduper{keys: make(map[string]bool)}
}

func (d *memoryDeduper) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.BoolCmd {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return goredis.NewBoolResult(false, d.err)
	}
	if d.keys[key] {
		return goredis.NewBoolResult(false, nil)
	}
	d.keys[key] = true
	return goredis.NewBoolResult(true, nil)
}

func (d *memoryDeduper) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, k := range keys {
		delete(d.keys, k)
	}
	return goredis.NewIntResult(int64(len(keys)), nil)
}

type recordingDLQ struct {
	mu       sync.Mutex
	messages []*retry.DLQMessage
}

func (d *recordingDLQ) PublishToDLQ(ctx context.Context, msg *retry.DLQMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.messages = append(d.messages, msg)
	return nil
}

func issuedRecord(t *testing.T, ticketID, venueID string, price float64) *kafka.Record {
	t.Helper()
	value, err := json.Marshal(&dto.TicketIssuedEvent{TicketID: ticketID, VenueID: venueID, PricePaid: price, IssuedAt: time.Now()})
	require.NoError(t, err)
	return &kafka.Record{Topic: service.TopicTicketIssued, Key: []byte(venueID), Value: value}
}

func setupVenues(t *testing.T) (*repository.MemoryVenueRepository, service.VenueDirectory) {
	t.Helper()
	venues := repository.NewMemoryVenueRepository()
	require.NoError(t, venues.Create(context.Background(), &domain.Venue{ID: "v1", Name: "Apolo", PriceRange: "1"}))
	return venues, service.NewVenueDirectory(venues, repository.NewMemoryDJRepository())
}

func TestTierWorker_Start_AppliesEachTicketOnce(t *testing.T) {
	venues, directory := setupVenues(t)
	source := &fakeSource{batches: [][]*kafka.Record{
		{issuedRecord(t, "t1", "v1", 40), issuedRecord(t, "t2", "v1", 60)},
		// Redelivery of t1 and a malformed record
		{issuedRecord(t, "t1", "v1", 40), {Value: []byte("not json")}},
	}}

	w := NewTierWorker(source, directory, newMemoryDeduper(), &TierWorkerConfig{WorkerCount: 1, RetryDelay: time.Millisecond})
	require.NoError(t, w.Start(context.Background()))

	venue, _ := venues.GetByID(context.Background(), "v1")
	assert.Equal(t, 2, venue.ObservedPriceCount)
	assert.Equal(t, 100.0, venue.ObservedPriceTotal)
	assert.Equal(t, "4", venue.PriceRange)
	assert.Len(t, source.committed, 4)
}

func TestTierWorker_ProcessRecord_UnknownVenueReleasesMarker(t *testing.T) {
	_, directory := setupVenues(t)
	source := &fakeSource{}
	deduper := newMemoryDeduper()
	dlq := &recordingDLQ{}
	w := NewTierWorker(source, directory, deduper, &TierWorkerConfig{RetryAttempts: 3, RetryDelay: time.Millisecond, DeadLetters: dlq})

	require.NoError(t, w.processRecord(context.Background(), issuedRecord(t, "t9", "missing", 20)))

	assert.Len(t, source.committed, 1)
	assert.Empty(t, deduper.keys)

	// An unknown venue is not retried
	require.Len(t, dlq.messages, 1)
	assert.Equal(t, 1, dlq.messages[0].Attempts)
	assert.Equal(t, service.TopicTicketIssued, dlq.messages[0].OriginalTopic)
	assert.Equal(t, "missing", dlq.messages[0].OriginalKey)
	assert.Contains(t, dlq.messages[0].Error, "venue not found")
}

type flakyDirectory struct {
	service.VenueDirectory
	failures int
	calls    int
}

func (d *flakyDirectory) RecalculatePriceTier(ctx context.Context, venueID string, price float64) (*domain.Venue, error) {
	d.calls++
	if d.calls <= d.failures {
		return nil, errors.New("could not serialize access")
	}
	return d.VenueDirectory.RecalculatePriceTier(ctx, venueID, price)
}

func TestTierWorker_ProcessRecord_RetriesTransientFailure(t *testing.T) {
	venues, directory := setupVenues(t)
	flaky := &flakyDirectory{VenueDirectory: directory, failures: 2}
	dlq := &recordingDLQ{}
	w := NewTierWorker(&fakeSource{}, flaky, newMemoryDeduper(), &TierWorkerConfig{RetryAttempts: 3, RetryDelay: time.Millisecond, DeadLetters: dlq})

	require.NoError(t, w.processRecord(context.Background(), issuedRecord(t, "t1", "v1", 20)))

	assert.Equal(t, 3, flaky.calls)
	assert.Empty(t, dlq.messages)
	venue, _ := venues.GetByID(context.Background(), "v1")
	assert.Equal(t, 1, venue.ObservedPriceCount)
}

func TestTierWorker_ProcessRecord_DedupeUnavailable(t *testing.T) {
	venues, directory := setupVenues(t)
	source := &fakeSource{}
	deduper := newMemoryDeduper()
	deduper.err = errors.New("redis: connection refused")
	w := NewTierWorker(source, directory, deduper, &TierWorkerConfig{RetryDelay: time.Millisecond})

	require.NoError(t, w.processRecord(context.Background(), issuedRecord(t, "t1", "v1", 20)))

	venue, _ := venues.GetByID(context.Background(), "v1")
	assert.Equal(t, 1, venue.ObservedPriceCount)
	assert.Equal(t, "2", venue.PriceRange)
}
