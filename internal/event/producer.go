// Package event publishes storefront cart events to Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/alfonso816/Tienda/internal/domain"
	pkgkafka "github.com/alfonso816/Tienda/pkg/kafka"
)

// Kafka topics.
const (
	TopicCartUpdated     = "tienda.cart.updated"
	TopicCartCleared     = "tienda.cart.cleared"
	TopicCheckoutHandoff = "tienda.checkout.handoff"
)

const (
	AggregateTypeCart = "cart"
	Source            = "tienda-storefront"
)

// CartUpdatedData is the payload of cart.updated.
type CartUpdatedData struct {
	SessionID string          `json:"session_id"`
	Change    domain.Change   `json:"change"`
	Lines     []LineData      `json:"lines"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	Version   int             `json:"version"`
}

// LineData is one cart line inside event payloads.
type LineData struct {
	ItemID    string          `json:"item_id"`
	Size      string          `json:"size"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// CartClearedData is the payload of cart.cleared.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// CheckoutHandoffData is the payload of checkout.handoff, emitted when a
// shopper is sent to WhatsApp with the order.
type CheckoutHandoffData struct {
	SessionID string          `json:"session_id"`
	LineCount int             `json:"line_count"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
	Link      string          `json:"link"`
}

// Producer publishes cart events.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates an event producer on top of a Kafka producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

func lines(c *domain.Cart) []LineData {
	out := make([]LineData, len(c.Lines))
	for i, l := range c.Lines {
		out[i] = LineData{ItemID: l.ItemID, Size: l.Size, Name: l.Name, UnitPrice: l.UnitPrice, Quantity: l.Quantity}
	}
	return out
}

func (p *Producer) publish(ctx context.Context, topic, sessionID string, data any) error {
	e, err := pkgkafka.NewEvent(topic, AggregateTypeCart, sessionID, Source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if err := p.kafka.Publish(ctx, topic, e); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}
	return nil
}

// PublishCartUpdated publishes the cart state after change.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart, change domain.Change) error {
	err := p.publish(ctx, TopicCartUpdated, cart.SessionID, CartUpdatedData{
		SessionID: cart.SessionID,
		Change:    change,
		Lines:     lines(cart),
		ItemCount: cart.ItemCount(),
		Total:     cart.Total(),
		Version:   cart.Version,
	})
	if err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", cart.SessionID),
		slog.String("change", string(change.Kind)),
	)
	return nil
}

// PublishCartCleared publishes cart.cleared.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	if err := p.publish(ctx, TopicCartCleared, sessionID, CartClearedData{SessionID: sessionID}); err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "published cart.cleared event", slog.String("session_id", sessionID))
	return nil
}

// PublishCheckoutHandoff publishes checkout.handoff.
func (p *Producer) PublishCheckoutHandoff(ctx context.Context, cart *domain.Cart, link string) error {
	err := p.publish(ctx, TopicCheckoutHandoff, cart.SessionID, CheckoutHandoffData{
		SessionID: cart.SessionID,
		LineCount: len(cart.Lines),
		ItemCount: cart.ItemCount(),
		Total:     cart.Total(),
		Link:      link,
	})
	if err != nil {
		return err
	}
	p.logger.DebugContext(ctx, "published checkout.handoff event", slog.String("session_id", cart.SessionID))
	return nil
}

// Nop discards every event. It stands in when EVENTS_ENABLED is off.
type Nop struct{}

func (Nop) PublishCartUpdated(context.Context, *domain.Cart, domain.Change) error { return nil }
func (Nop) PublishCartCleared(context.Context, string) error                       { return nil }
func (Nop) PublishCheckoutHandoff(context.Context, *domain.Cart, string) error     { return nil }
