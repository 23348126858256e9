package service

import (
	"context"

	"github.com/nightlife-hub/nightpass/internal/dto"
)

// TopicTicketIssued carries TicketIssuedEvent payloads
const TopicTicketIssued = "ticket.issued"

// TierTrigger reacts to an issued ticket by recalculating the venue price tier
type TierTrigger interface {
	TicketIssued(ctx context.Context, event *dto.TicketIssuedEvent) error
}

// inlineTierTrigger recalculates synchronously through the directory
type inlineTierTrigger struct {
	directory VenueDirectory
}

// NewInlineTierTrigger recalculates in the caller's goroutine
func NewInlineTierTrigger(directory VenueDirectory) TierTrigger {
	return &inlineTierTrigger{directory: directory}
}

func (t *inlineTierTrigger) TicketIssued(ctx context.Context, event *dto.TicketIssuedEvent) error {
	_, err := t.directory.RecalculatePriceTier(ctx, event.VenueID, event.PricePaid)
	return err
}

// JSONProducer is the subset of the Kafka producer the publisher needs
type JSONProducer interface {
	ProduceJSON(ctx context.Context, topic, key string, value interface{}, headers map[string]string) error
}

// kafkaTierTrigger hands recalculation to the tier worker
type kafkaTierTrigger struct {
	producer JSONProducer
	topic    string
}

// NewKafkaTierTrigger publishes issued tickets to topic
func NewKafkaTierTrigger(producer JSONProducer, topic string) TierTrigger {
	if topic == "" {
		topic = TopicTicketIssued
	}
	return &kafkaTierTrigger{producer: producer, topic: topic}
}

func (t *kafkaTierTrigger) TicketIssued(ctx context.Context, event *dto.TicketIssuedEvent) error {
	return t.producer.ProduceJSON(ctx, t.topic, event.Key(), event, map[string]string{
		"event_type": TopicTicketIssued,
		"ticket_id":  event.TicketID,
	})
}

type noopTierTrigger struct{}

// NewNoopTierTrigger discards notifications
func NewNoopTierTrigger() TierTrigger {
	return noopTierTrigger{}
}

func (noopTierTrigger) TicketIssued(context.Context, *dto.TicketIssuedEvent) error {
	return nil
}
