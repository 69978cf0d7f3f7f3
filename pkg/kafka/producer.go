package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Ramsey-B/backoffice/pkg/metrics"
	"github.com/Ramsey-B/backoffice/pkg/tracing"
)

type Config struct {
	Brokers     []string
	ImportTopic string
}

// ParseBrokers splits a comma separated broker list.
func ParseBrokers(brokers string) []string {
	var list []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			list = append(list, b)
		}
	}
	return list
}

// ImportEvent reports the outcome of importing one merchant.
type ImportEvent struct {
	Type         string    `json:"type"` // merchant.imported, merchant.skipped, merchant.failed
	RunID        string    `json:"run_id"`
	MerchantSlug string    `json:"merchant_slug"`
	MerchantID   string    `json:"merchant_id,omitempty"`
	Warnings     []string  `json:"warnings,omitempty"`
	Error        string    `json:"error,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	TraceID      string    `json:"trace_id,omitempty"`
}

type Producer struct {
	writer *kafka.Writer
	logger ectologger.Logger
	topic  string
}

func NewProducer(cfg Config, logger ectologger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.ImportTopic,
		Balancer:               &kafka.Hash{},
		BatchSize:              100,
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		writer: writer,
		logger: logger,
		topic:  cfg.ImportTopic,
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// PublishImportEvent writes evt keyed by merchant slug so events for one merchant stay ordered.
func (p *Producer) PublishImportEvent(ctx context.Context, evt ImportEvent) error {
	ctx, span := tracing.StartSpan(ctx, "Kafka.PublishImportEvent")
	defer span.End()

	span.SetAttributes(
		attribute.String("messaging.system", "kafka"),
		attribute.String("messaging.destination", p.topic),
		attribute.String("merchant_slug", evt.MerchantSlug),
		attribute.String("event_type", evt.Type),
	)

	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	evt.TraceID = tracing.GetTraceID(ctx)

	msg, err := NewImportMessage(ctx, evt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to marshal message")
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to publish message")
		metrics.RecordKafkaPublish(p.topic, "error")
		p.logger.WithContext(ctx).WithError(err).Errorf("Failed to publish import event to Kafka topic %s", p.topic)
		return err
	}

	metrics.RecordKafkaPublish(p.topic, "success")
	span.SetStatus(codes.Ok, "message published")
	p.logger.WithContext(ctx).Debugf("Published %s for merchant %s", evt.Type, evt.MerchantSlug)
	return nil
}

// NewImportMessage encodes evt with its routing headers.
func NewImportMessage(ctx context.Context, evt ImportEvent) (kafka.Message, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal import event: %w", err)
	}

	headers := []kafka.Header{
		{Key: "type", Value: []byte(evt.Type)},
		{Key: "run_id", Value: []byte(evt.RunID)},
	}
	if traceparent := tracing.GetTraceParent(ctx); traceparent != "" {
		headers = append(headers, kafka.Header{Key: "traceparent", Value: []byte(traceparent)})
	}

	return kafka.Message{
		Key:     []byte(evt.MerchantSlug),
		Value:   data,
		Headers: headers,
	}, nil
}

func (p *Producer) Stats() kafka.WriterStats {
	return p.writer.Stats()
}
