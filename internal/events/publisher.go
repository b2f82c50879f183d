package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ArslanEjaz61/carzar-backend/internal/order"
)

// OrderPlaced is emitted after an order is durably persisted. Consumers are
// operator tools; losing an event never invalidates the order itself.
type OrderPlaced struct {
	OrderID       string    `json:"orderId"`
	OrderNumber   string    `json:"orderNumber"`
	Phone         string    `json:"phone"`
	City          string    `json:"city"`
	TotalAmount   float64   `json:"totalAmount"`
	PaymentMethod string    `json:"paymentMethod"`
	LineCount     int       `json:"lineCount"`
	Timestamp     time.Time `json:"timestamp"`
}

type OrderStatusChanged struct {
	OrderID        string    `json:"orderId"`
	OrderNumber    string    `json:"orderNumber"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	PaymentStatus  string    `json:"paymentStatus"`
	Timestamp      time.Time `json:"timestamp"`
}

type Publisher struct {
	ch *amqp.Channel
}

func NewPublisher(conn *amqp.Connection) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareEventsExchange(ch); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &Publisher{ch: ch}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) PublishOrderPlaced(ctx context.Context, o *order.Order) error {
	env := newEnvelope(
		"OrderPlaced",
		orderPlacedEventVersion,
		orderPlacedSchemaRef,
		o.ID,
		OrderPlaced{
			OrderID:       o.ID,
			OrderNumber:   o.Number,
			Phone:         o.Customer.Phone,
			City:          o.Customer.City,
			TotalAmount:   o.Total,
			PaymentMethod: string(o.PaymentMethod),
			LineCount:     len(o.Lines),
			Timestamp:     time.Now().UTC(),
		},
	)

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced: %w", err)
	}
	return p.publishJSON(ctx, OrderPlacedRoutingKey, body)
}

func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, o *order.Order, previous order.Status) error {
	env := newEnvelope(
		"OrderStatusChanged",
		orderStatusChangedEventVersion,
		orderStatusChangedSchemaRef,
		o.ID,
		OrderStatusChanged{
			OrderID:        o.ID,
			OrderNumber:    o.Number,
			PreviousStatus: string(previous),
			NewStatus:      string(o.Status),
			PaymentStatus:  string(o.PaymentStatus),
			Timestamp:      time.Now().UTC(),
		},
	)

	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal OrderStatusChanged: %w", err)
	}
	return p.publishJSON(ctx, OrderStatusChangedRoutingKey, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(
		pubCtx,
		EventsExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
