package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stockflow/backend/internal/domain/inventory"
	"github.com/stockflow/backend/internal/domain/shared"
)

func setupStockLevelTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&inventory.StockLevel{})
	require.NoError(t, err)

	return db
}

func TestGormStockLevelRepository_Save(t *testing.T) {
	db := setupStockLevelTestDB(t)
	repo := NewGormStockLevelRepository(db)
	ctx := context.Background()

	t.Run("creates a new level row", func(t *testing.T) {
		level, err := inventory.NewStockLevel(uuid.New(), "warehouse-a")
		require.NoError(t, err)

		err = repo.Save(ctx, level)
		assert.NoError(t, err)

		found, err := repo.FindByProductAndLocation(ctx, level.ProductID, "warehouse-a")
		require.NoError(t, err)
		assert.Equal(t, level.ID, found.ID)
		assert.Equal(t, 0, found.Quantity)
	})

	t.Run("updates an existing row in place", func(t *testing.T) {
		level, err := inventory.NewStockLevel(uuid.New(), "warehouse-b")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, level))

		require.NoError(t, level.Apply(25, false))
		require.NoError(t, repo.Save(ctx, level))

		found, err := repo.FindByProductAndLocation(ctx, level.ProductID, "warehouse-b")
		require.NoError(t, err)
		assert.Equal(t, 25, found.Quantity)

		var count int64
		require.NoError(t, db.Model(&inventory.StockLevel{}).
			Where("product_id = ?", level.ProductID).
			Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})
}

func TestGormStockLevelRepository_FindByProductAndLocation(t *testing.T) {
	db := setupStockLevelTestDB(t)
	repo := NewGormStockLevelRepository(db)
	ctx := context.Background()

	t.Run("missing row maps to not found", func(t *testing.T) {
		_, err := repo.FindByProductAndLocation(ctx, uuid.New(), "nowhere")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("location is matched exactly", func(t *testing.T) {
		productID := uuid.New()
		level, err := inventory.NewStockLevel(productID, "warehouse-a")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, level))

		_, err = repo.FindByProductAndLocation(ctx, productID, "warehouse-b")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormStockLevelRepository_FindByProduct(t *testing.T) {
	db := setupStockLevelTestDB(t)
	repo := NewGormStockLevelRepository(db)
	ctx := context.Background()

	productID := uuid.New()
	otherProductID := uuid.New()

	for _, location := range []string{"zone-c", "zone-a", "zone-b"} {
		level, err := inventory.NewStockLevel(productID, location)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, level))
	}
	other, err := inventory.NewStockLevel(otherProductID, "zone-a")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, other))

	levels, err := repo.FindByProduct(ctx, productID)
	require.NoError(t, err)
	require.Len(t, levels, 3)

	// sorted by location
	assert.Equal(t, "zone-a", levels[0].Location)
	assert.Equal(t, "zone-b", levels[1].Location)
	assert.Equal(t, "zone-c", levels[2].Location)

	empty, err := repo.FindByProduct(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
