package publisher

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/scorelens/scoreboard-gateway/internal/metrics"
	"github.com/scorelens/scoreboard-gateway/pkg/model"
)

// Publisher wraps a NATS connection and publishes canonical analysis events.
type Publisher struct {
	nc      *nats.Conn
	js      nats.JetStreamContext
	subject string
	service string
	logger  *zap.Logger
}

// New creates a Publisher with JetStream enabled.
func New(nc *nats.Conn, subject, service string, logger *zap.Logger) (*Publisher, error) {
	js, err := nc.JetStream()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		nc:      nc,
		js:      js,
		subject: subject,
		service: service,
		logger:  logger,
	}, nil
}

// PublishAnalysisCompleted emits an analysis.completed event. The payload is
// extraction output only; images and credentials never cross this boundary.
func (p *Publisher) PublishAnalysisCompleted(ctx context.Context, payload model.AnalysisCompleted) error {
	env := &model.Envelope{
		ID:            uuid.New(),
		CorrelationID: uuid.New(),
		Topic:         p.subject,
		EventType:     "scoreboard.analysis.completed",
		Version:       "1.0.0",
		Service:       p.service,
		OccurredAt:    time.Now().UTC(),
		Payload:       payload,
	}

	data, err := json.Marshal(env)
	if err != nil {
		p.logger.Error("publisher.marshal_failed",
			zap.String("subject", p.subject),
			zap.Error(err))
		metrics.NATSPublishTotal.WithLabelValues(p.subject, "marshal_failed").Inc()
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

	if _, err := p.js.PublishMsg(msg); err != nil {
		p.logger.Error("publisher.publish_failed",
			zap.String("subject", p.subject),
			zap.Error(err))
		metrics.NATSPublishTotal.WithLabelValues(p.subject, "error").Inc()
		return err
	}

	p.logger.Debug("publisher.publish_success",
		zap.String("subject", p.subject),
		zap.String("request_id", payload.RequestID))
	metrics.NATSPublishTotal.WithLabelValues(p.subject, "ok").Inc()
	return nil
}
