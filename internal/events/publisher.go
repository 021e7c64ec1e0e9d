package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/config"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/logging"
	"github.com/toorogadgets/toorogadgets-storefront-service/internal/models"
)

// OrderEventType is the type of an order event.
type OrderEventType string

const (
	EventTypeOrderPlaced OrderEventType = "order.placed"
)

// OrderEvent is the envelope written to the orders topic.
type OrderEvent struct {
	ID          string          `json:"id"`
	Type        OrderEventType  `json:"type"`
	OrderNumber string          `json:"order_number"`
	CustomerID  string          `json:"customer_id"`
	Data        json.RawMessage `json:"data"`
	Timestamp   time.Time       `json:"timestamp"`
}

// OrderPublisher notifies downstream consumers about placed orders.
type OrderPublisher interface {
	PublishOrderPlaced(ctx context.Context, order *models.Order) error
	Close() error
}

// Ensure KafkaPublisher implements OrderPublisher
var _ OrderPublisher = (*KafkaPublisher)(nil)

// KafkaPublisher publishes order events to Kafka.
type KafkaPublisher struct {
	writer *kafka.Writer
	topic  string
	logger *logging.Logger
}

// NewKafkaPublisher creates a new Kafka-based order event publisher.
func NewKafkaPublisher(cfg config.KafkaConfig, logger *logging.Logger) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.OrdersTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	return &KafkaPublisher{
		writer: writer,
		topic:  cfg.OrdersTopic,
		logger: logger,
	}
}

// PublishOrderPlaced publishes an order placed event. Keyed by order
// number so events for one order stay on one partition.
func (p *KafkaPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	data, err := json.Marshal(order)
	if err != nil {
		return err
	}

	event := &OrderEvent{
		ID:          uuid.NewString(),
		Type:        EventTypeOrderPlaced,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		Data:        data,
		Timestamp:   time.Now(),
	}

	eventData, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(event.OrderNumber),
		Value: eventData,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.Type)},
			{Key: "event_id", Value: []byte(event.ID)},
		},
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish order event", logging.Fields{
			"event_id":     event.ID,
			"order_number": event.OrderNumber,
			"error":        err.Error(),
		})
		return err
	}

	p.logger.Info("Order event published", logging.Fields{
		"event_id":     event.ID,
		"order_number": event.OrderNumber,
	})
	return nil
}

// Close closes the Kafka writer.
func (p *KafkaPublisher) Close() error {
	p.logger.Info("Closing Kafka publisher")
	return p.writer.Close()
}

// MockOrderPublisher records events for testing.
type MockOrderPublisher struct {
	Events []*OrderEvent

	// Fail forces PublishOrderPlaced to return this error when set.
	Fail error
}

func NewMockOrderPublisher() *MockOrderPublisher {
	return &MockOrderPublisher{Events: make([]*OrderEvent, 0)}
}

func (m *MockOrderPublisher) PublishOrderPlaced(ctx context.Context, order *models.Order) error {
	if m.Fail != nil {
		return m.Fail
	}
	m.Events = append(m.Events, &OrderEvent{
		ID:          uuid.NewString(),
		Type:        EventTypeOrderPlaced,
		OrderNumber: order.OrderNumber,
		CustomerID:  order.CustomerID,
		Timestamp:   time.Now(),
	})
	return nil
}

func (m *MockOrderPublisher) Close() error { return nil }
