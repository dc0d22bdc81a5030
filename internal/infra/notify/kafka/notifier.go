package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"

	"fractioncar/internal/app/policies"
	"fractioncar/internal/domain/shared/faults"
)

// Notifier publishes notification events to a Kafka topic consumed by the
// notification fan-out service.
type Notifier struct {
	sync  sarama.SyncProducer
	topic string
}

func NewNotifier(brokers []string, topic string, cfg *sarama.Config) (*Notifier, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Idempotent = true
	cfg.Producer.Return.Successes = true
	sync, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}
	return &Notifier{sync: sync, topic: topic}, nil
}

type event struct {
	Recipient string         `json:"recipient"`
	Audience  string         `json:"audience"`
	Event     string         `json:"event"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	At        time.Time      `json:"at"`
}

func (n *Notifier) Send(ctx context.Context, notification policies.Notification) error {
	payload, err := json.Marshal(event{
		Recipient: notification.Recipient,
		Audience:  notification.Audience,
		Event:     notification.Event,
		Title:     notification.Title,
		Message:   notification.Message,
		Data:      notification.Data,
		At:        time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(notification.Recipient),
		Value: sarama.ByteEncoder(payload),
	}
	if _, _, err := n.sync.SendMessage(msg); err != nil {
		return fmt.Errorf("notify: publish %s: %v: %w", notification.Event, err, faults.ErrExternalService)
	}
	return nil
}

func (n *Notifier) Close() error {
	if n.sync == nil {
		return nil
	}
	return n.sync.Close()
}
