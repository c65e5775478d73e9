package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockflow/backend/internal/domain/shared"
)

func TestMovementType_IsValid(t *testing.T) {
	assert.True(t, MovementTypeIn.IsValid())
	assert.True(t, MovementTypeOut.IsValid())
	assert.True(t, MovementTypeTransfer.IsValid())
	assert.True(t, MovementTypeAdjustment.IsValid())
	assert.False(t, MovementType("inbound").IsValid())
	assert.False(t, MovementType("").IsValid())
}

func TestMovementReason_FloorsAtZero(t *testing.T) {
	floors := []MovementReason{
		MovementReasonAdjustment,
		MovementReasonLoss,
		MovementReasonDamage,
		MovementReasonTheft,
	}
	for _, reason := range floors {
		assert.Truef(t, reason.FloorsAtZero(), "%s", reason)
	}

	strict := []MovementReason{
		MovementReasonPurchase,
		MovementReasonSale,
		MovementReasonReturn,
		MovementReasonTransfer,
		MovementReasonOpeningStock,
		MovementReasonManufacturing,
	}
	for _, reason := range strict {
		assert.Falsef(t, reason.FloorsAtZero(), "%s", reason)
	}
}

func TestNewStockMovement(t *testing.T) {
	productID := uuid.New()
	actor := uuid.New()

	t.Run("valid inbound movement", func(t *testing.T) {
		movement, err := NewStockMovement(productID, MovementTypeIn, MovementReasonPurchase, 4, 10, 14, actor)
		require.NoError(t, err)
		assert.Equal(t, 4, movement.Quantity)
		assert.Equal(t, 10, movement.PreviousStock)
		assert.Equal(t, 14, movement.NewStock)
		assert.Equal(t, 4, movement.SignedDelta())
		assert.False(t, movement.MovementDate.IsZero())
	})

	t.Run("reference and locations attach fluently", func(t *testing.T) {
		orderID := uuid.New()
		itemID := uuid.New()
		movement, err := NewStockMovement(productID, MovementTypeIn, MovementReasonPurchase, 4, 0, 4, actor)
		require.NoError(t, err)

		movement.WithReference(ReferenceTypePurchase, orderID, &itemID).WithLocations("", "main").WithNotes("dock 4")
		require.NotNil(t, movement.ReferenceID)
		assert.Equal(t, orderID, *movement.ReferenceID)
		assert.Equal(t, itemID, *movement.ItemID)
		assert.Equal(t, "main", movement.LocationTo)
	})

	t.Run("zero quantity rejected", func(t *testing.T) {
		_, err := NewStockMovement(productID, MovementTypeIn, MovementReasonPurchase, 0, 0, 0, actor)
		require.Error(t, err)
		assert.Equal(t, "INVALID_QUANTITY", shared.GetErrorCode(err))
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		_, err := NewStockMovement(productID, MovementType("inbound"), MovementReasonPurchase, 1, 0, 1, actor)
		require.Error(t, err)
		assert.Equal(t, "INVALID_MOVEMENT_TYPE", shared.GetErrorCode(err))
	})

	t.Run("unknown reason rejected", func(t *testing.T) {
		_, err := NewStockMovement(productID, MovementTypeIn, MovementReason("restock"), 1, 0, 1, actor)
		require.Error(t, err)
		assert.Equal(t, "INVALID_MOVEMENT_REASON", shared.GetErrorCode(err))
	})

	t.Run("nil product rejected", func(t *testing.T) {
		_, err := NewStockMovement(uuid.Nil, MovementTypeIn, MovementReasonPurchase, 1, 0, 1, actor)
		require.Error(t, err)
	})
}

func TestStockLevel_Apply(t *testing.T) {
	level, err := NewStockLevel(uuid.New(), "main")
	require.NoError(t, err)

	require.NoError(t, level.Apply(10, false))
	assert.Equal(t, 10, level.Quantity)

	require.NoError(t, level.Apply(-4, false))
	assert.Equal(t, 6, level.Quantity)

	err = level.Apply(-7, false)
	require.Error(t, err)
	assert.Equal(t, "INSUFFICIENT_STOCK", shared.GetErrorCode(err))
	assert.Equal(t, 6, level.Quantity)

	require.NoError(t, level.Apply(-7, true))
	assert.Equal(t, 0, level.Quantity)
}
