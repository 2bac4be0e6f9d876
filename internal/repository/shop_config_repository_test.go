package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearShopConfig(t *testing.T) {
	t.Helper()
	_, err := testDB.Exec("DELETE FROM shop_config")
	require.NoError(t, err)
}

func TestShopConfigRepository_LazyDefaultCreation(t *testing.T) {
	clearShopConfig(t)
	repo := NewShopConfigRepository(testDB)
	ctx := context.Background()

	cfg, err := repo.GetOrCreateDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Aizu's Kitchen", cfg.Name)
	assert.Equal(t, "AK-", cfg.OrderPrefix)
	assert.Equal(t, "INR", cfg.Currency)
	assert.Equal(t, "Asia/Kolkata", cfg.Timezone)
	assert.True(t, cfg.DeliveryEnabled)
	assert.True(t, cfg.PickupEnabled)

	// a second read returns the same singleton, not a new row
	again, err := repo.GetOrCreateDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg.CreatedAt, again.CreatedAt)

	var count int
	require.NoError(t, testDB.QueryRow("SELECT COUNT(*) FROM shop_config").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestShopConfigRepository_PartialUpdate(t *testing.T) {
	clearShopConfig(t)
	repo := NewShopConfigRepository(testDB)
	ctx := context.Background()

	name := "Ravi's Diner"
	delivery := false
	cfg, err := repo.Update(ctx, ShopConfigUpdate{
		Name:            &name,
		DeliveryEnabled: &delivery,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ravi's Diner", cfg.Name)
	assert.False(t, cfg.DeliveryEnabled)
	// untouched fields keep their defaults
	assert.Equal(t, "INR", cfg.Currency)
	assert.True(t, cfg.PickupEnabled)

	// empty update is a read
	same, err := repo.Update(ctx, ShopConfigUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Ravi's Diner", same.Name)
}

func TestShopConfigRepository_Reset(t *testing.T) {
	clearShopConfig(t)
	repo := NewShopConfigRepository(testDB)
	ctx := context.Background()

	name := "Someone Else's Kitchen"
	currency := "USD"
	_, err := repo.Update(ctx, ShopConfigUpdate{Name: &name, Currency: &currency})
	require.NoError(t, err)

	cfg, err := repo.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Aizu's Kitchen", cfg.Name)
	assert.Equal(t, "INR", cfg.Currency)

	var count int
	require.NoError(t, testDB.QueryRow("SELECT COUNT(*) FROM shop_config").Scan(&count))
	assert.Equal(t, 1, count, "reset mutates the singleton in place")
}
