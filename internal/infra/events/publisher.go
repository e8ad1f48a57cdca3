package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// Publisher публикует события бронирований в Kafka
// Ключ сообщения это ID бронирования: события одного бронирования попадают в одну партицию
type Publisher struct {
	writer MessageWriter
	topic  string
	logger Logger
}

// NewKafkaPublisher создает publisher поверх kafka.Writer
func NewKafkaPublisher(brokers []string, topic string, writeTimeout time.Duration, logger Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		WriteTimeout: writeTimeout,
	}
	return NewPublisher(writer, topic, logger)
}

// NewPublisher создает publisher с произвольным writer
func NewPublisher(writer MessageWriter, topic string, logger Logger) *Publisher {
	return &Publisher{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

// Publish записывает событие в топик
func (p *Publisher) Publish(ctx context.Context, event BookingEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: %s booking=%d: %v", ErrEncode, event.Type, event.BookingID, err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatInt(event.BookingID, 10)),
		Value: payload,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "event_type", Value: []byte(event.Type)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("%w: %s booking=%d: %v", ErrPublish, event.Type, event.BookingID, err)
	}

	p.logger.Info("Published event %s id=%s booking=%d to topic=%s", event.Type, event.EventID, event.BookingID, p.topic)
	return nil
}

// Close закрывает writer, дожидаясь отправки буферизованных сообщений
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// NopPublisher используется, когда Kafka выключена в конфигурации
type NopPublisher struct{}

// Publish ничего не делает
func (NopPublisher) Publish(context.Context, BookingEvent) error {
	return nil
}

// Close ничего не делает
func (NopPublisher) Close() error {
	return nil
}
