package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fairwayops/lottery-service/internal/domain"
	"github.com/segmentio/kafka-go"
)

const (
	RunEventsTopic   = "lottery-run-events"
	EntryEventsTopic = "lottery-entry-events"
)

// ResultPublisher pushes post-run events for the notification service.
type ResultPublisher struct {
	writer *kafka.Writer
}

var _ domain.PublisherPort = (*ResultPublisher)(nil)

func NewResultPublisher(brokers []string) *ResultPublisher {
	return &ResultPublisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *ResultPublisher) Publish(topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  time.Now(),
			Topic: topic,
		})
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return p.writer.WriteMessages(ctx, km...)
}

func (p *ResultPublisher) PublishRunCompleted(event RunCompletedEvent) error {
	v, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.Publish(RunEventsTopic, domain.Message{Key: []byte(event.LotteryDate), Value: v})
}

// BatchPublishEntryResults publishes all per-entry outcomes in one
// write, keyed by organizer so one member's events stay ordered.
func (p *ResultPublisher) BatchPublishEntryResults(events []EntryResultEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]domain.Message, 0, len(events))
	for _, event := range events {
		v, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("marshaling entry event %s: %w", event.EntryID, err)
		}
		msgs = append(msgs, domain.Message{Key: []byte(event.OrganizerID), Value: v})
	}
	return p.Publish(EntryEventsTopic, msgs...)
}

func (p *ResultPublisher) Close() error {
	return p.writer.Close()
}
