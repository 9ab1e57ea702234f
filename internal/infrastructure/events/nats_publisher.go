package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"parcel-ledger.backend/internal/domain/entities"
)

// DefaultSubjectPrefix is used when no prefix is configured
const DefaultSubjectPrefix = "ledger.wallet"

// MessageBus is the subset of a NATS connection the publisher needs
type MessageBus interface {
	Publish(subject string, data []byte) error
}

// Connect dials NATS. An empty url disables events and yields a nil conn.
func Connect(url string) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}

	nc, err := nats.Connect(url,
		nats.Name("parcel-ledger"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect nats: %w", err)
	}
	return nc, nil
}

// Bus adapts a *nats.Conn to MessageBus
type Bus struct {
	nc *nats.Conn
}

// NewBus wraps nc
func NewBus(nc *nats.Conn) *Bus {
	return &Bus{nc: nc}
}

// Publish sends data on subject
func (b *Bus) Publish(subject string, data []byte) error {
	if b == nil || b.nc == nil {
		return nats.ErrInvalidConnection
	}
	return b.nc.Publish(subject, data)
}

// NATSPublisher emits committed wallet mutations as JSON on <prefix>.<operation>
type NATSPublisher struct {
	bus    MessageBus
	prefix string
}

// NewNATSPublisher creates a publisher on bus
func NewNATSPublisher(bus MessageBus, prefix string) *NATSPublisher {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ".")
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{bus: bus, prefix: prefix}
}

// Subject returns the subject an operation is published on
func (p *NATSPublisher) Subject(op entities.LedgerOperation) string {
	return p.prefix + "." + string(op)
}

// Publish encodes and sends event
func (p *NATSPublisher) Publish(ctx context.Context, event entities.LedgerEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.bus == nil {
		return nats.ErrInvalidConnection
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode ledger event: %w", err)
	}
	if err := p.bus.Publish(p.Subject(event.Operation), body); err != nil {
		return fmt.Errorf("publish ledger event: %w", err)
	}
	return nil
}
