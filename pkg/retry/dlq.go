package retry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// DefaultDLQSuffix is appended to the source topic
const DefaultDLQSuffix = ".dlq"

// DLQMessage is a message that kept failing, with enough context to replay it
type DLQMessage struct {
	OriginalTopic  string            `json:"original_topic"`
	OriginalKey    string            `json:"original_key"`
	Payload        json.RawMessage   `json:"payload"`
	Headers        map[string]string `json:"headers,omitempty"`
	Error          string            `json:"error"`
	Attempts       int               `json:"attempts"`
	FirstAttemptAt time.Time         `json:"first_attempt_at"`
	MovedToDLQAt   time.Time         `json:"moved_to_dlq_at"`
	Source         string            `json:"source"`
}

// DLQPublisher parks failed messages for later inspection
type DLQPublisher interface {
	PublishToDLQ(ctx context.Context, msg *DLQMessage) error
}

// JSONProducer is the Kafka producer surface the publisher needs
type JSONProducer interface {
	ProduceJSON(ctx context.Context, topic, key string, value interface{}, headers map[string]string) error
}

// DLQConfig contains configuration for DLQ publishing
type DLQConfig struct {
	TopicSuffix string
	// Source names the service that gave up on the message
	Source string
}

// KafkaDLQPublisher writes failed messages to <topic><suffix>
type KafkaDLQPublisher struct {
	producer JSONProducer
	config   *DLQConfig
	now      func() time.Time
}

// NewKafkaDLQPublisher creates a new Kafka DLQ publisher
func NewKafkaDLQPublisher(producer JSONProducer, config *DLQConfig) *KafkaDLQPublisher {
	if config == nil {
		config = &DLQConfig{}
	}
	if config.TopicSuffix == "" {
		config.TopicSuffix = DefaultDLQSuffix
	}
	if config.Source == "" {
		config.Source = "unknown"
	}
	return &KafkaDLQPublisher{producer: producer, config: config, now: time.Now}
}

// Topic returns the dead letter topic for originalTopic
func (p *KafkaDLQPublisher) Topic(originalTopic string) string {
	return originalTopic + p.config.TopicSuffix
}

// PublishToDLQ stamps msg and produces it keyed like the original
func (p *KafkaDLQPublisher) PublishToDLQ(ctx context.Context, msg *DLQMessage) error {
	if msg == nil {
		return errors.New("dlq message is nil")
	}
	msg.MovedToDLQAt = p.now()
	msg.Source = p.config.Source

	headers := map[string]string{
		"original_topic": msg.OriginalTopic,
		"error":          msg.Error,
		"attempts":       fmt.Sprintf("%d", msg.Attempts),
		"source":         msg.Source,
	}
	for k, v := range msg.Headers {
		headers["original_"+k] = v
	}

	if err := p.producer.ProduceJSON(ctx, p.Topic(msg.OriginalTopic), msg.OriginalKey, msg, headers); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.Topic(msg.OriginalTopic), err)
	}
	return nil
}
