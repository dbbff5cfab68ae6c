// Package kafka publishes storefront domain events with segmentio/kafka-go.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/alfonso816/Tienda/pkg/logger"
)

// ProducerConfig configures the writer.
type ProducerConfig struct {
	Brokers      []string
	BatchTimeout time.Duration
	WriteTimeout time.Duration
}

// MessageWriter is the part of *kafka.Writer the producer needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var publishTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "events_published_total",
	Help: "Events written to Kafka by topic and outcome.",
}, []string{"topic", "outcome"})

// Producer writes Events to topics.
type Producer struct {
	w       MessageWriter
	brokers []string
	log     *slog.Logger
}

// NewProducer builds a producer writing to cfg.Brokers.
func NewProducer(cfg ProducerConfig, l *slog.Logger) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           cfg.BatchTimeout,
		WriteTimeout:           cfg.WriteTimeout,
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return NewProducerWithWriter(w, cfg.Brokers, l)
}

// NewProducerWithWriter wraps an existing writer.
func NewProducerWithWriter(w MessageWriter, brokers []string, l *slog.Logger) *Producer {
	return &Producer{w: w, brokers: brokers, log: l}
}

// headerCarrier lets the OTel propagator write into Kafka headers.
type headerCarrier struct{ headers *[]kafka.Header }

func (c headerCarrier) Get(key string) string {
	for _, h := range *c.headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	*c.headers = append(*c.headers, kafka.Header{Key: key, Value: []byte(value)})
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(*c.headers))
	for _, h := range *c.headers {
		keys = append(keys, h.Key)
	}
	return keys
}

var _ propagation.TextMapCarrier = headerCarrier{}

// Publish writes e to topic keyed by its aggregate id, stamping the
// correlation id and trace context from ctx.
func (p *Producer) Publish(ctx context.Context, topic string, e *Event) error {
	if e.CorrelationID == "" {
		e.CorrelationID = logger.CorrelationIDFromContext(ctx)
	}
	value, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	headers := []kafka.Header{
		{Key: "event_type", Value: []byte(e.Type)},
		{Key: "source", Value: []byte(e.Source)},
	}
	if e.CorrelationID != "" {
		headers = append(headers, kafka.Header{Key: "correlation_id", Value: []byte(e.CorrelationID)})
	}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier{&headers})

	msg := kafka.Message{Topic: topic, Key: []byte(e.AggregateID), Value: value, Headers: headers}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		publishTotal.WithLabelValues(topic, "error").Inc()
		return fmt.Errorf("publish %s to %s: %w", e.Type, topic, err)
	}
	publishTotal.WithLabelValues(topic, "ok").Inc()
	p.log.DebugContext(ctx, "event published",
		slog.String("topic", topic),
		slog.String("event_type", e.Type),
		slog.String("aggregate_id", e.AggregateID),
	)
	return nil
}

// Ping succeeds when any broker answers a metadata request.
func (p *Producer) Ping(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return errors.New("kafka: no brokers configured")
	}
	var last error
	for _, addr := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", addr)
		if err != nil {
			last = err
			continue
		}
		_, err = conn.Brokers()
		_ = conn.Close()
		if err == nil {
			return nil
		}
		last = err
	}
	return fmt.Errorf("kafka: brokers unreachable: %w", last)
}

// Close flushes and closes the writer.
func (p *Producer) Close() error { return p.w.Close() }
