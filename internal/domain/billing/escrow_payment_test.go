package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

func newTestPayment(t *testing.T) *EscrowPayment {
	t.Helper()
	p, err := NewEscrowPayment("PAY-2026-00001", uuid.New(), uuid.New(), uuid.New(),
		decimal.NewFromInt(475000), "order_9f81bb")
	require.NoError(t, err)
	return p
}

func TestNewEscrowPayment(t *testing.T) {
	p := newTestPayment(t)

	assert.Equal(t, PaymentStatusInitiated, p.Status)
	assert.False(t, p.IsHeld())
	assert.False(t, p.IsSettled())

	events := p.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypePaymentInitiated, events[0].EventType())
}

func TestNewEscrowPayment_Validation(t *testing.T) {
	buyer := uuid.New()
	seller := uuid.New()
	amount := decimal.NewFromInt(475000)

	_, err := NewEscrowPayment("", uuid.New(), buyer, seller, amount, "order_1")
	assert.Error(t, err)

	_, err = NewEscrowPayment("PAY-2026-00001", uuid.Nil, buyer, seller, amount, "order_1")
	assert.Error(t, err)

	_, err = NewEscrowPayment("PAY-2026-00001", uuid.New(), buyer, buyer, amount, "order_1")
	assert.ErrorIs(t, err, shared.ErrSelfDealing)

	_, err = NewEscrowPayment("PAY-2026-00001", uuid.New(), buyer, seller, decimal.Zero, "order_1")
	assert.Error(t, err)

	_, err = NewEscrowPayment("PAY-2026-00001", uuid.New(), buyer, seller, amount, "")
	assert.Error(t, err)
}

func TestPaymentStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    PaymentStatus
		to      PaymentStatus
		allowed bool
	}{
		{"initiated to held", PaymentStatusInitiated, PaymentStatusHeld, true},
		{"initiated to failed", PaymentStatusInitiated, PaymentStatusFailed, true},
		{"initiated cannot release", PaymentStatusInitiated, PaymentStatusReleased, false},
		{"held to released", PaymentStatusHeld, PaymentStatusReleased, true},
		{"held to refunded", PaymentStatusHeld, PaymentStatusRefunded, true},
		{"held cannot fail", PaymentStatusHeld, PaymentStatusFailed, false},
		{"released is terminal", PaymentStatusReleased, PaymentStatusRefunded, false},
		{"failed is terminal", PaymentStatusFailed, PaymentStatusHeld, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestEscrowPayment_HoldAndRelease(t *testing.T) {
	p := newTestPayment(t)

	err := p.MarkHeld("")
	assert.Error(t, err)

	require.NoError(t, p.MarkHeld("txn_41aa07"))
	assert.True(t, p.IsHeld())
	assert.Equal(t, "txn_41aa07", p.GatewayTxnID)
	require.NotNil(t, p.HeldAt)

	// cannot fail once held
	assert.Error(t, p.MarkFailed("late decline"))

	require.NoError(t, p.Release())
	assert.Equal(t, PaymentStatusReleased, p.Status)
	assert.True(t, p.IsSettled())
	require.NotNil(t, p.SettledAt)

	assert.Error(t, p.Refund())
}

func TestEscrowPayment_HoldAndRefund(t *testing.T) {
	p := newTestPayment(t)

	require.NoError(t, p.MarkHeld("txn_41aa07"))
	require.NoError(t, p.Refund())
	assert.Equal(t, PaymentStatusRefunded, p.Status)
	assert.True(t, p.IsSettled())
}

func TestEscrowPayment_Failure(t *testing.T) {
	p := newTestPayment(t)

	require.NoError(t, p.MarkFailed("card declined"))
	assert.Equal(t, PaymentStatusFailed, p.Status)
	assert.Equal(t, "card declined", p.FailureReason)

	assert.Error(t, p.MarkHeld("txn_late"))
	assert.Error(t, p.Release())
}
