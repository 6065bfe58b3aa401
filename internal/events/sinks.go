package events

import (
	"context"

	"painlog/internal/database"

	"github.com/segmentio/kafka-go"
)

type valkeySink struct {
	client  database.CacheClient
	channel string
}

func NewValkeySink(client database.CacheClient, channel string) Sink {
	return &valkeySink{client: client, channel: channel}
}

func (s *valkeySink) Name() string { return "valkey" }

func (s *valkeySink) Publish(ctx context.Context, _ Event, payload []byte) error {
	return database.NewCacheBuilder(s.client, s.channel).WithContext(ctx).Publish(payload)
}

// Close is a no-op; the client belongs to database.DB.
func (s *valkeySink) Close() error { return nil }

type kafkaSink struct {
	writer *kafka.Writer
}

func NewKafkaSink(brokers []string, topic string) Sink {
	return &kafkaSink{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			RequiredAcks:           kafka.RequireOne,
		},
	}
}

func (s *kafkaSink) Name() string { return "kafka" }

// Publish keys messages by user so one user's events stay ordered within a
// partition.
func (s *kafkaSink) Publish(ctx context.Context, event Event, payload []byte) error {
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(event.Type)},
		},
	})
}

func (s *kafkaSink) Close() error {
	return s.writer.Close()
}
