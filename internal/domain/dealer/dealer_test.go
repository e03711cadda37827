package dealer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wheeltrade/backend/internal/domain/shared/valueobject"
)

func mustGSTIN(t *testing.T, s string) valueobject.GSTIN {
	t.Helper()
	g, err := valueobject.NewGSTIN(s)
	require.NoError(t, err)
	return g
}

func mustPAN(t *testing.T, s string) valueobject.PAN {
	t.Helper()
	p, err := valueobject.NewPAN(s)
	require.NoError(t, err)
	return p
}

func newTestDealer(t *testing.T) *Dealer {
	t.Helper()
	d, err := NewDealer("DLR-MUM-01", "Apex Motors", mustGSTIN(t, "27AAPFU0939F1ZV"), mustPAN(t, "AAPFU0939F"))
	require.NoError(t, err)
	return d
}

func TestNewDealer(t *testing.T) {
	d := newTestDealer(t)

	assert.Equal(t, "DLR-MUM-01", d.Code)
	assert.Equal(t, "Apex Motors", d.BusinessName)
	assert.Equal(t, DealerStatusPending, d.Status)
	assert.True(t, d.IsPending())
	assert.False(t, d.CanTrade())
	assert.Equal(t, 1, d.GetVersion())

	events := d.GetDomainEvents()
	require.Len(t, events, 1)
	assert.Equal(t, EventTypeDealerRegistered, events[0].EventType())
}

func TestNewDealer_Validation(t *testing.T) {
	gstin := mustGSTIN(t, "27AAPFU0939F1ZV")
	pan := mustPAN(t, "AAPFU0939F")

	_, err := NewDealer("", "Apex Motors", gstin, pan)
	assert.Error(t, err)

	_, err = NewDealer("DLR-01", "", gstin, pan)
	assert.Error(t, err)

	_, err = NewDealer("DLR 01", "Apex Motors", gstin, pan)
	assert.Error(t, err)

	// GSTIN embeds a different PAN
	otherPAN := mustPAN(t, "BBPCK1234G")
	_, err = NewDealer("DLR-01", "Apex Motors", gstin, otherPAN)
	assert.Error(t, err)
}

func TestDealer_StatusTransitions(t *testing.T) {
	d := newTestDealer(t)

	// pending dealers cannot be suspended
	err := d.Suspend("kyc failure")
	assert.Error(t, err)

	require.NoError(t, d.Activate())
	assert.True(t, d.IsActive())
	assert.True(t, d.CanTrade())

	err = d.Activate()
	assert.Error(t, err)

	require.NoError(t, d.Suspend("chargeback dispute"))
	assert.True(t, d.IsSuspended())
	assert.False(t, d.CanTrade())
	assert.Equal(t, "chargeback dispute", d.SuspendReason)

	err = d.Suspend("again")
	assert.Error(t, err)

	// reactivation clears the suspend reason
	require.NoError(t, d.Activate())
	assert.Empty(t, d.SuspendReason)
}

func TestDealer_SetMarginPolicy(t *testing.T) {
	d := newTestDealer(t)

	err := d.SetMarginPolicy(decimal.NewFromInt(5), decimal.NewFromInt(8))
	require.NoError(t, err)
	assert.True(t, d.MinMarginPct.Equal(decimal.NewFromInt(5)))
	assert.True(t, d.TargetMargin.Equal(decimal.NewFromInt(8)))

	// min above target
	err = d.SetMarginPolicy(decimal.NewFromInt(10), decimal.NewFromInt(8))
	assert.Error(t, err)

	err = d.SetMarginPolicy(decimal.NewFromInt(-1), decimal.NewFromInt(8))
	assert.Error(t, err)

	err = d.SetMarginPolicy(decimal.NewFromInt(5), decimal.NewFromInt(101))
	assert.Error(t, err)
}

func TestDealer_SetBankAccount(t *testing.T) {
	d := newTestDealer(t)
	ifsc, err := valueobject.NewIFSC("HDFC0001234")
	require.NoError(t, err)

	require.NoError(t, d.SetBankAccount("123456789012", ifsc))
	assert.True(t, d.HasBankAccount())

	assert.Error(t, d.SetBankAccount("", ifsc))
	assert.Error(t, d.SetBankAccount("12345678", ifsc))
	assert.Error(t, d.SetBankAccount("12345678901A", ifsc))
}

func TestDealer_SetContact(t *testing.T) {
	d := newTestDealer(t)

	require.NoError(t, d.SetContact("Priya Nair", "+91 98765 43210", "priya@apexmotors.in"))
	assert.Equal(t, "Priya Nair", d.ContactName)

	assert.Error(t, d.SetContact("", "not-a-phone!", ""))
	assert.Error(t, d.SetContact("", "", "bad-email"))
}

func TestDealer_SetAddress(t *testing.T) {
	d := newTestDealer(t)

	require.NoError(t, d.SetAddress("12 MG Road", "Mumbai", "Maharashtra", "400001"))
	assert.Equal(t, "12 MG Road, Mumbai, Maharashtra, 400001", d.GetFullAddress())

	assert.Error(t, d.SetAddress("12 MG Road", "Mumbai", "Maharashtra", "0001"))
}

func TestDealer_CustomerMode(t *testing.T) {
	d := newTestDealer(t)
	assert.False(t, d.CustomerMode)

	v := d.GetVersion()
	d.SetCustomerMode(true)
	assert.True(t, d.CustomerMode)
	assert.Equal(t, v+1, d.GetVersion())
}
