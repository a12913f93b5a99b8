package repository

import (
	"context"
	"encoding/json"

	"social_messaging_service/internal/messaging/domain"

	"github.com/segmentio/kafka-go"
)

// EventRepository definition downstream event stream (notification fan-out etc.)
type EventRepository interface {
	PublishMessageCreated(ctx context.Context, msg *domain.Message) error
}

type kafkaEventRepository struct {
	writer *kafka.Writer
}

// NewKafkaEventRepository create an EventRepository on kafka
func NewKafkaEventRepository(writer *kafka.Writer) EventRepository {
	return &kafkaEventRepository{writer: writer}
}

func (r *kafkaEventRepository) PublishMessageCreated(ctx context.Context, msg *domain.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return r.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(msg.ChatID),
		Value: payload,
	})
}
