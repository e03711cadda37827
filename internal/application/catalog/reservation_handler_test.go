package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/wheeltrade/backend/internal/domain/catalog"
	"github.com/wheeltrade/backend/internal/domain/deal"
	"github.com/wheeltrade/backend/internal/domain/shared"
)

func acceptedEvent(v *catalog.Vehicle, dealID uuid.UUID) *deal.DealAcceptedEvent {
	return &deal.DealAcceptedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(deal.EventTypeDealAccepted, deal.AggregateTypeDeal, dealID, v.DealerID),
		DealID:          dealID,
		DealNumber:      "DL-2026-00042",
		VehicleID:       v.ID,
		SellerDealerID:  v.DealerID,
		BuyerDealerID:   uuid.New(),
	}
}

func closedEvent(v *catalog.Vehicle, dealID uuid.UUID) *deal.DealClosedEvent {
	return &deal.DealClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(deal.EventTypeDealClosed, deal.AggregateTypeDeal, dealID, v.DealerID),
		DealID:          dealID,
		DealNumber:      "DL-2026-00042",
		VehicleID:       v.ID,
	}
}

func completedEvent(v *catalog.Vehicle, dealID uuid.UUID) *deal.DealCompletedEvent {
	return &deal.DealCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(deal.EventTypeDealCompleted, deal.AggregateTypeDeal, dealID, uuid.Nil),
		DealID:          dealID,
		DealNumber:      "DL-2026-00042",
		VehicleID:       v.ID,
	}
}

func TestReservationHandler_Reserve(t *testing.T) {
	ctx := context.Background()
	vehicleRepo := new(MockVehicleRepository)
	handler := NewReservationHandler(vehicleRepo, zaptest.NewLogger(t))

	d := newActiveDealer(t)
	v := newListedVehicle(t, d.ID)
	dealID := uuid.New()

	vehicleRepo.On("FindByID", ctx, v.ID).Return(v, nil)
	vehicleRepo.On("SaveWithLock", ctx, v).Return(nil)

	err := handler.Handle(ctx, acceptedEvent(v, dealID))
	require.NoError(t, err)
	assert.Equal(t, catalog.VehicleStatusReserved, v.Status)
	require.NotNil(t, v.ReservedByDeal)
	assert.Equal(t, dealID, *v.ReservedByDeal)
}

func TestReservationHandler_ReserveAlreadyHeld(t *testing.T) {
	ctx := context.Background()
	vehicleRepo := new(MockVehicleRepository)
	handler := NewReservationHandler(vehicleRepo, zaptest.NewLogger(t))

	d := newActiveDealer(t)
	v := newListedVehicle(t, d.ID)
	require.NoError(t, v.Reserve(uuid.New()))

	vehicleRepo.On("FindByID", ctx, v.ID).Return(v, nil)

	err := handler.Handle(ctx, acceptedEvent(v, uuid.New()))
	assert.ErrorIs(t, err, shared.ErrVehicleUnavailable)
}

func TestReservationHandler_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("holding deal releases the reservation", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		handler := NewReservationHandler(vehicleRepo, zaptest.NewLogger(t))

		d := newActiveDealer(t)
		v := newListedVehicle(t, d.ID)
		dealID := uuid.New()
		require.NoError(t, v.Reserve(dealID))

		vehicleRepo.On("FindByID", ctx, v.ID).Return(v, nil)
		vehicleRepo.On("SaveWithLock", ctx, v).Return(nil)

		err := handler.Handle(ctx, closedEvent(v, dealID))
		require.NoError(t, err)
		assert.Equal(t, catalog.VehicleStatusListed, v.Status)
		assert.Nil(t, v.ReservedByDeal)
	})

	t.Run("unrelated deal leaves the reservation alone", func(t *testing.T) {
		vehicleRepo := new(MockVehicleRepository)
		handler := NewReservationHandler(vehicleRepo, zaptest.NewLogger(t))

		d := newActiveDealer(t)
		v := newListedVehicle(t, d.ID)
		holder := uuid.New()
		require.NoError(t, v.Reserve(holder))

		vehicleRepo.On("FindByID", ctx, v.ID).Return(v, nil)

		err := handler.Handle(ctx, closedEvent(v, uuid.New()))
		require.NoError(t, err)
		assert.Equal(t, catalog.VehicleStatusReserved, v.Status)
		vehicleRepo.AssertNotCalled(t, "SaveWithLock", ctx, v)
	})
}

func TestReservationHandler_MarkSold(t *testing.T) {
	ctx := context.Background()
	vehicleRepo := new(MockVehicleRepository)
	handler := NewReservationHandler(vehicleRepo, zaptest.NewLogger(t))

	d := newActiveDealer(t)
	v := newListedVehicle(t, d.ID)
	dealID := uuid.New()
	require.NoError(t, v.Reserve(dealID))

	vehicleRepo.On("FindByID", ctx, v.ID).Return(v, nil)
	vehicleRepo.On("SaveWithLock", ctx, v).Return(nil)

	err := handler.Handle(ctx, completedEvent(v, dealID))
	require.NoError(t, err)
	assert.Equal(t, catalog.VehicleStatusSold, v.Status)
	assert.NotNil(t, v.SoldAt)
}
