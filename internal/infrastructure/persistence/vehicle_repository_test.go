package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wheeltrade/backend/internal/domain/catalog"
	"github.com/wheeltrade/backend/internal/domain/shared/valueobject"
)

func newReservedVehicle(t *testing.T, dealID uuid.UUID) *catalog.Vehicle {
	t.Helper()
	vin, err := valueobject.NewVIN("MA3EWDE1S00123456")
	require.NoError(t, err)
	v, err := catalog.NewVehicle(uuid.New(), vin, "Maruti", "Swift", 2021)
	require.NoError(t, err)
	require.NoError(t, v.SetPricing(decimal.NewFromInt(400000), decimal.NewFromInt(430000), decimal.NewFromInt(465000)))
	require.NoError(t, v.List())
	require.NoError(t, v.Reserve(dealID))
	v.ClearDomainEvents()
	return v
}

func TestGormVehicleRepository_SaveWithLock(t *testing.T) {
	t.Run("release writes the cleared reservation column", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormVehicleRepository(db)

		v := newReservedVehicle(t, uuid.New())
		require.NoError(t, v.Release())
		require.Nil(t, v.ReservedByDeal)

		mock.ExpectExec(`UPDATE "vehicles" SET .*"reserved_by_deal".* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), v)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stale version reports a lock conflict", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormVehicleRepository(db)

		v := newReservedVehicle(t, uuid.New())
		require.NoError(t, v.Release())

		mock.ExpectExec(`UPDATE "vehicles" SET .* WHERE id = \$\d+ AND version = \$\d+`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), v)

		assert.ErrorContains(t, err, "modified by another transaction")
	})
}
