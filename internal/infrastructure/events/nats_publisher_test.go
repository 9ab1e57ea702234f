package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"parcel-ledger.backend/internal/domain/entities"
)

type recordingBus struct {
	subjects []string
	bodies   [][]byte
	err      error
}

func (b *recordingBus) Publish(subject string, data []byte) error {
	if b.err != nil {
		return b.err
	}
	b.subjects = append(b.subjects, subject)
	b.bodies = append(b.bodies, data)
	return nil
}

func TestNATSPublisher_Publish(t *testing.T) {
	bus := &recordingBus{}
	p := NewNATSPublisher(bus, "")

	w := entities.NewWallet(uuid.New(), entities.WalletTypeRider)
	w.ID = uuid.New()
	require.NoError(t, w.ApplyCredit(decimal.NewFromInt(7)))

	require.NoError(t, p.Publish(context.Background(), entities.NewLedgerEvent(w, entities.LedgerOperationCredit, decimal.NewFromInt(7))))
	require.Len(t, bus.subjects, 1)
	assert.Equal(t, "ledger.wallet.credit", bus.subjects[0])

	var decoded entities.LedgerEvent
	require.NoError(t, json.Unmarshal(bus.bodies[0], &decoded))
	assert.Equal(t, w.ID, decoded.WalletID)
	assert.Equal(t, entities.LedgerOperationCredit, decoded.Operation)
	assert.True(t, decoded.Balance.Equal(decimal.NewFromInt(7)))
}

func TestNATSPublisher_SubjectPrefix(t *testing.T) {
	p := NewNATSPublisher(&recordingBus{}, " parcels.ledger. ")
	assert.Equal(t, "parcels.ledger.debit", p.Subject(entities.LedgerOperationDebit))
}

func TestNATSPublisher_Errors(t *testing.T) {
	event := entities.LedgerEvent{Operation: entities.LedgerOperationRelease}

	err := NewNATSPublisher(&recordingBus{err: errors.New("slow consumer")}, "").Publish(context.Background(), event)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "publish ledger event")

	err = NewNATSPublisher(nil, "").Publish(context.Background(), event)
	assert.ErrorIs(t, err, nats.ErrInvalidConnection)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NewNATSPublisher(&recordingBus{}, "").Publish(ctx, event)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBus_NilConnection(t *testing.T) {
	assert.ErrorIs(t, NewBus(nil).Publish("x", nil), nats.ErrInvalidConnection)

	nc, err := Connect("")
	require.NoError(t, err)
	assert.Nil(t, nc)
}
