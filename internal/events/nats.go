package events

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"jobmatch-engine/internal/errs"
	"jobmatch-engine/internal/telemetry"
)

var tracer = telemetry.Tracer("jobmatch-engine/events")

type NATSPublisher struct {
	conn    *nats.Conn
	subject string
	log     *zap.Logger
}

func NewNATSPublisher(url, subject string, log *zap.Logger) (*NATSPublisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("jobmatch-engine"),
		nats.Timeout(5*time.Second),
		nats.ReconnectWait(time.Second),
		nats.MaxReconnects(-1),
		nats.RetryOnFailedConnect(true),
	)
	if err != nil {
		return nil, errs.Unavailable("connecting to nats", err)
	}
	return &NATSPublisher{conn: conn, subject: subject, log: log.Named("nats")}, nil
}

// Publish sends e to <subject>.<event type>, e.g. jobmatch.runs.run.completed.
func (p *NATSPublisher) Publish(ctx context.Context, e Event) error {
	_, span := tracer.Start(ctx, "events.publish")
	defer span.End()

	subject := p.subject + "." + e.Type
	data := e.Encode()
	span.SetAttributes(
		telemetry.String("nats.subject", subject),
		telemetry.Int("message.size", len(data)),
	)

	if err := p.conn.Publish(subject, data); err != nil {
		span.RecordError(err)
		p.log.Error("publish failed", zap.String("subject", subject), zap.Error(err))
		return errs.Unavailable("publishing to nats", err)
	}
	p.log.Debug("published", zap.String("subject", subject))
	return nil
}

func (p *NATSPublisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}
