package logistics

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPartner(t *testing.T) *TransportPartner {
	t.Helper()
	p, err := NewTransportPartner("SAFEWHEEL", "SafeWheel Carriers",
		decimal.NewFromInt(2000),      // base fee
		decimal.NewFromInt(18),        // per km
		decimal.NewFromFloat(1.5),     // per kg
		3500)
	require.NoError(t, err)
	return p
}

func newTestOrder(t *testing.T) *TransportOrder {
	t.Helper()
	o, err := NewTransportOrder("TO-2026-00001", uuid.New(), uuid.New(), uuid.New(), newTestPartner(t),
		"Mumbai", "400001", "Pune", "411001", 150, 1200)
	require.NoError(t, err)
	return o
}

func TestNewTransportPartner_Validation(t *testing.T) {
	_, err := NewTransportPartner("", "SafeWheel", decimal.Zero, decimal.Zero, decimal.Zero, 3500)
	assert.Error(t, err)

	_, err = NewTransportPartner("SW", "", decimal.Zero, decimal.Zero, decimal.Zero, 3500)
	assert.Error(t, err)

	_, err = NewTransportPartner("SW", "SafeWheel", decimal.NewFromInt(-1), decimal.Zero, decimal.Zero, 3500)
	assert.Error(t, err)

	_, err = NewTransportPartner("SW", "SafeWheel", decimal.Zero, decimal.Zero, decimal.Zero, 0)
	assert.Error(t, err)
}

func TestTransportPartner_QuoteFor(t *testing.T) {
	p := newTestPartner(t)

	// 2000 + 150*18 + 1200*1.5 = 2000 + 2700 + 1800 = 6500
	quote, err := p.QuoteFor(150, 1200)
	require.NoError(t, err)
	assert.True(t, quote.Equal(decimal.NewFromInt(6500)), "got %s", quote)

	// same inputs always produce the same quote
	again, err := p.QuoteFor(150, 1200)
	require.NoError(t, err)
	assert.True(t, quote.Equal(again))

	_, err = p.QuoteFor(0, 1200)
	assert.Error(t, err)

	_, err = p.QuoteFor(150, 4000)
	assert.Error(t, err)

	p.SetActive(false)
	_, err = p.QuoteFor(150, 1200)
	assert.Error(t, err)
}

func TestTransportStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    TransportStatus
		to      TransportStatus
		allowed bool
	}{
		{"quoted to booked", TransportStatusQuoted, TransportStatusBooked, true},
		{"quoted to picked up", TransportStatusQuoted, TransportStatusPickedUp, false},
		{"booked to picked up", TransportStatusBooked, TransportStatusPickedUp, true},
		{"booked to cancelled", TransportStatusBooked, TransportStatusCancelled, true},
		{"picked up cannot cancel", TransportStatusPickedUp, TransportStatusCancelled, false},
		{"in transit to delivered", TransportStatusInTransit, TransportStatusDelivered, true},
		{"delivered is terminal", TransportStatusDelivered, TransportStatusBooked, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestTransportOrder_Lifecycle(t *testing.T) {
	o := newTestOrder(t)
	assert.Equal(t, TransportStatusQuoted, o.Status)
	assert.True(t, o.QuoteAmount.Equal(decimal.NewFromInt(6500)))

	require.NoError(t, o.Book())
	require.NotNil(t, o.BookedAt)

	require.NoError(t, o.MarkPickedUp())
	require.NotNil(t, o.PickedUpAt)

	require.NoError(t, o.MarkInTransit())
	require.NoError(t, o.MarkDelivered())
	assert.True(t, o.IsDelivered())
	require.NotNil(t, o.DeliveredAt)

	// terminal
	assert.Error(t, o.Cancel("too late"))
}

func TestTransportOrder_CancelBeforePickup(t *testing.T) {
	o := newTestOrder(t)
	require.NoError(t, o.Book())
	require.NoError(t, o.Cancel("deal fell through"))
	assert.Equal(t, TransportStatusCancelled, o.Status)

	// cannot pick up after cancellation
	assert.Error(t, o.MarkPickedUp())
}

func TestNewTransportOrder_Validation(t *testing.T) {
	p := newTestPartner(t)

	_, err := NewTransportOrder("", uuid.New(), uuid.New(), uuid.New(), p, "Mumbai", "400001", "Pune", "411001", 150, 1200)
	assert.Error(t, err)

	_, err = NewTransportOrder("TO-2026-00001", uuid.New(), uuid.Nil, uuid.New(), p, "Mumbai", "400001", "Pune", "411001", 150, 1200)
	assert.Error(t, err)

	_, err = NewTransportOrder("TO-2026-00001", uuid.New(), uuid.New(), uuid.New(), p, "", "400001", "Pune", "411001", 150, 1200)
	assert.Error(t, err)

	// quote failure propagates
	_, err = NewTransportOrder("TO-2026-00001", uuid.New(), uuid.New(), uuid.New(), p, "Mumbai", "400001", "Pune", "411001", -5, 1200)
	assert.Error(t, err)
}
