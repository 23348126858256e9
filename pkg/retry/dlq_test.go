package retry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

type producedMessage struct {
	Topic   string
	Key     string
	Value   interface{}
	Headers map[string]string
}

type recordingProducer struct {
	messages []producedMessage
	err      error
}

func (p *recordingProducer) ProduceJSON(ctx context.Context, topic, key string, value interface{}, headers map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, producedMessage{Topic: topic, Key: key, Value: value, Headers: headers})
	return nil
}

func TestKafkaDLQPublisher_PublishToDLQ(t *testing.T) {
	producer := &recordingProducer{}
	publisher := NewKafkaDLQPublisher(producer, &DLQConfig{Source: "tier-worker"})
	movedAt := time.Date(2026, 3, 14, 23, 0, 0, 0, time.UTC)
	publisher.now = func() time.Time { return movedAt }

	err := publisher.PublishToDLQ(context.Background(), &DLQMessage{
		OriginalTopic: "ticket.issued",
		OriginalKey:   "venue-1",
		Payload:       json.RawMessage(`{"ticket_id":"t-1"}`),
		Headers:       map[string]string{"event_type": "ticket.issued"},
		Error:         "venue row locked",
		Attempts:      3,
	})
	if err != nil {
		t.Fatalf("PublishToDLQ failed: %v", err)
	}

	if len(producer.messages) != 1 {
		t.Fatalf("produced %d messages, want 1", len(producer.messages))
	}
	got := producer.messages[0]
	if got.Topic != "ticket.issued.dlq" {
		t.Errorf("Topic = %s, want ticket.issued.dlq", got.Topic)
	}
	if got.Key != "venue-1" {
		t.Errorf("Key = %s, want venue-1", got.Key)
	}
	if got.Headers["attempts"] != "3" || got.Headers["source"] != "tier-worker" {
		t.Errorf("unexpected headers %v", got.Headers)
	}
	if got.Headers["original_event_type"] != "ticket.issued" {
		t.Errorf("original header not carried: %v", got.Headers)
	}

	msg, ok := got.Value.(*DLQMessage)
	if !ok {
		t.Fatal("produced value is not a DLQMessage")
	}
	if !msg.MovedToDLQAt.Equal(movedAt) {
		t.Errorf("MovedToDLQAt = %v, want %v", msg.MovedToDLQAt, movedAt)
	}
}

func TestKafkaDLQPublisher_Errors(t *testing.T) {
	publisher := NewKafkaDLQPublisher(&recordingProducer{err: errors.New("broker down")}, nil)

	if err := publisher.PublishToDLQ(context.Background(), nil); err == nil {
		t.Error("expected error for nil message")
	}
	if err := publisher.PublishToDLQ(context.Background(), &DLQMessage{OriginalTopic: "ticket.issued"}); err == nil {
		t.Error("expected producer error to surface")
	}
	if topic := publisher.Topic("ticket.issued"); topic != "ticket.issued.dlq" {
		t.Errorf("Topic = %s, want default suffix", topic)
	}
}
