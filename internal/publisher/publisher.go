package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/Checker-Finance/zid-adapter/internal/metrics"
	"github.com/Checker-Finance/zid-adapter/pkg/model"
)

const (
	eventMerchantConnected = "zid.merchant.connected"
	eventVersion           = "1.0.0"
)

// msgPublisher is the slice of nats.JetStreamContext the publisher relies on.
type msgPublisher interface {
	PublishMsg(m *nats.Msg, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Publisher emits canonical event envelopes to NATS JetStream.
type Publisher struct {
	logger  *zap.Logger
	js      msgPublisher
	subject string
	service string
}

// New creates a Publisher on top of an established NATS connection.
func New(logger *zap.Logger, nc *nats.Conn, subject, service string) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	return &Publisher{
		logger:  logger,
		js:      js,
		subject: subject,
		service: service,
	}, nil
}

// PublishMerchantConnected announces a completed OAuth flow.
func (p *Publisher) PublishMerchantConnected(ctx context.Context, evt model.MerchantConnected) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	env := &model.Envelope{
		ID:            uuid.New(),
		CorrelationID: uuid.New(),
		Topic:         p.subject,
		EventType:     eventMerchantConnected,
		Version:       eventVersion,
		Timestamp:     time.Now().UTC(),
		Payload:       payload,
	}
	return p.PublishEnvelope(ctx, env)
}

// PublishEnvelope serializes and publishes an envelope to the configured subject.
func (p *Publisher) PublishEnvelope(ctx context.Context, env *model.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		p.logger.Error("publisher.marshal_failed",
			zap.String("event_type", env.EventType),
			zap.Error(err))
		return err
	}

	msg := &nats.Msg{
		Subject: p.subject,
		Data:    data,
		Header: nats.Header{
			"event_type":     []string{env.EventType},
			"correlation_id": []string{env.CorrelationID.String()},
			"service":        []string{p.service},
			"content_type":   []string{"application/json"},
		},
	}

	if _, err := p.js.PublishMsg(msg, nats.Context(ctx)); err != nil {
		p.logger.Error("publisher.publish_failed",
			zap.String("subject", p.subject),
			zap.String("event_type", env.EventType),
			zap.Error(err))
		metrics.IncNATSPublishError(p.subject)
		return err
	}

	p.logger.Info("publisher.publish_success",
		zap.String("subject", p.subject),
		zap.String("event_type", env.EventType))
	return nil
}
