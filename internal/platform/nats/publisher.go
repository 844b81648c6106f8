package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"
	natsgo "github.com/nats-io/nats.go"

	"github.com/imamik/nodeforge/internal/provisioning"
)

// ServiceHeader carries the service name of a published note.
const ServiceHeader = "Nodeforge-Service"

// ErrNotConnected is returned when publishing on a closed connection.
var ErrNotConnected = errors.New("nats not connected")

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	PublishMsg(msg *natsgo.Msg) error
	Drain() error
	IsClosed() bool
}

// Publisher sends task status records to NATS.
type Publisher struct {
	conn    conn
	subject string
}

var _ provisioning.TaskSink = (*Publisher)(nil)

// Option configures Connect.
type Option func(*options)

type options struct {
	name          string
	reconnectWait time.Duration
	log           logr.Logger
}

// WithName sets the client name reported to the server.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithReconnectWait sets the delay between reconnect attempts.
func WithReconnectWait(d time.Duration) Option {
	return func(o *options) { o.reconnectWait = d }
}

// WithLogger logs connection state changes to log.
func WithLogger(log logr.Logger) Option {
	return func(o *options) { o.log = log }
}

// Connect dials url and returns a Publisher for subject.
func Connect(url, subject string, opts ...Option) (*Publisher, error) {
	if subject == "" {
		return nil, errors.New("nats subject is required")
	}

	o := options{
		name:          "nodeforge",
		reconnectWait: 2 * time.Second,
		log:           logr.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	nc, err := natsgo.Connect(url,
		natsgo.Name(o.name),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(o.reconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				o.log.Info("nats disconnected", "error", err.Error())
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			o.log.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	return newPublisher(nc, subject), nil
}

func newPublisher(c conn, subject string) *Publisher {
	return &Publisher{conn: c, subject: subject}
}

// AppendTaskStatus publishes rec as JSON.
func (p *Publisher) AppendTaskStatus(ctx context.Context, rec provisioning.TaskStatusRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.conn == nil || p.conn.IsClosed() {
		return ErrNotConnected
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode task status: %w", err)
	}

	msg := natsgo.NewMsg(p.subject)
	msg.Data = data
	msg.Header.Set(ServiceHeader, rec.ServiceName)
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", p.subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *Publisher) Close() error {
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Drain()
}
