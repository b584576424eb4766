package mq

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/szigetelo/backoffice/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// tableCarrier adapts amqp.Table to TextMapCarrier for OpenTelemetry propagation
type tableCarrier struct {
	table amqp.Table
}

func (c tableCarrier) Get(key string) string {
	if val, ok := c.table[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
		return fmt.Sprintf("%v", val)
	}
	return ""
}

func (c tableCarrier) Set(key, value string) {
	c.table[key] = value
}

func (c tableCarrier) Keys() []string {
	keys := make([]string, 0, len(c.table))
	for k := range c.table {
		keys = append(keys, k)
	}
	return keys
}

// Enabled reports whether a broker URL is configured.
func Enabled(cfg *config.Config) bool {
	return cfg.RabbitMQ.URL != ""
}

func Dial(cfg *config.Config) (*amqp.Connection, error) {
	if cfg.RabbitMQ.EnableTLS {
		return amqp.DialTLS(cfg.RabbitMQ.URL, &tls.Config{MinVersion: tls.VersionTLS12})
	}
	return amqp.Dial(cfg.RabbitMQ.URL)
}

type Publisher struct {
	ch  *amqp.Channel
	log *zap.Logger
	cfg *config.Config
}

// NewPublisher opens a channel and declares the mail and event topic exchanges.
func NewPublisher(conn *amqp.Connection, log *zap.Logger, cfg *config.Config) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	for _, ex := range []string{cfg.RabbitMQ.ExchangeName.Mail, cfg.RabbitMQ.ExchangeName.Events} {
		if err := ch.ExchangeDeclare(ex, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return nil, fmt.Errorf("declare exchange %s: %w", ex, err)
		}
	}
	return &Publisher{ch: ch, log: log, cfg: cfg}, nil
}

func (p *Publisher) Close() error { return p.ch.Close() }

func (p *Publisher) PublishJSON(ctx context.Context, exchangeName string, routingKey string, body any) error {
	b, err := sonic.Marshal(body)
	if err != nil {
		return err
	}

	tracer := otel.Tracer(p.cfg.App.Name)
	ctx, span := tracer.Start(ctx, "rabbitmq.publish",
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination", exchangeName),
			attribute.String("messaging.destination_kind", "exchange"),
			attribute.String("messaging.rabbitmq.routing_key", routingKey),
		))
	defer span.End()

	headers := make(amqp.Table)
	otel.GetTextMapPropagator().Inject(ctx, tableCarrier{table: headers})

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         b,
		Headers:      headers,
	}

	if err := p.ch.PublishWithContext(ctx, exchangeName, routingKey, false, false, publishing); err != nil {
		span.RecordError(err)
		return err
	}

	span.SetAttributes(attribute.Int("messaging.message.body.size", len(b)))
	p.log.Debug("published", zap.String("exchange", exchangeName), zap.String("routing_key", routingKey))
	return nil
}

// PublishMail sends msg to the mail exchange under its template's routing key.
func (p *Publisher) PublishMail(ctx context.Context, msg MailMessage) error {
	return p.PublishJSON(ctx, p.cfg.RabbitMQ.ExchangeName.Mail, MailRoutingKey(p.cfg, msg.Template), msg)
}

func (p *Publisher) PublishEvent(ctx context.Context, routingKey string, ev any) error {
	return p.PublishJSON(ctx, p.cfg.RabbitMQ.ExchangeName.Events, routingKey, ev)
}
