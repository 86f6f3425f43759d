package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nexbuy/backend/internal/config"
	"github.com/nexbuy/backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, config.Migrate(db))
	return db
}

func TestDecrementStockExactBoundary(t *testing.T) {
	db := newTestDB(t)
	s := NewCatalogStore(db)

	product := models.Product{Name: "widget", Price: 5.0, Stock: 3}
	require.NoError(t, db.Create(&product).Error)

	require.NoError(t, s.DecrementStock(context.Background(), product.ID, 3))

	reloaded, err := s.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, uint(0), reloaded.Stock)
}

func TestDecrementStockInsufficient(t *testing.T) {
	db := newTestDB(t)
	s := NewCatalogStore(db)

	product := models.Product{Name: "widget", Price: 5.0, Stock: 2}
	require.NoError(t, db.Create(&product).Error)

	err := s.DecrementStock(context.Background(), product.ID, 3)
	require.ErrorIs(t, err, ErrConflict)

	reloaded, err := s.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, uint(2), reloaded.Stock)
}

func TestDecrementStockUnknownProduct(t *testing.T) {
	db := newTestDB(t)
	s := NewCatalogStore(db)

	err := s.DecrementStock(context.Background(), 99, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDecrementStockNeverGoesNegative(t *testing.T) {
	db := newTestDB(t)
	s := NewCatalogStore(db)

	product := models.Product{Name: "widget", Price: 5.0, Stock: 10}
	require.NoError(t, db.Create(&product).Error)

	// 20 attempts of 1 against stock 10: exactly 10 succeed.
	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.DecrementStock(context.Background(), product.ID, 1)
		}(i)
	}
	wg.Wait()

	var succeeded int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			require.True(t, errors.Is(err, ErrConflict))
		}
	}
	require.Equal(t, 10, succeeded)

	reloaded, err := s.GetProduct(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, uint(0), reloaded.Stock)
}

func TestListProductsFilters(t *testing.T) {
	db := newTestDB(t)
	s := NewCatalogStore(db)

	require.NoError(t, db.Create(&models.Product{Name: "cheap shirt", Price: 9.0, Category: "clothing", Stock: 1}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "pricey shirt", Price: 90.0, Category: "clothing", Stock: 1}).Error)
	require.NoError(t, db.Create(&models.Product{Name: "phone", Price: 300.0, Category: "electronics", Stock: 1}).Error)

	total, items, err := s.ListProducts(context.Background(), ProductFilter{Category: "clothing"}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	min, max := 50.0, 500.0
	total, items, err = s.ListProducts(context.Background(), ProductFilter{MinPrice: &min, MaxPrice: &max}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	total, items, err = s.ListProducts(context.Background(), ProductFilter{Category: "electronics", MinPrice: &min}, 0, 10)
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "phone", items[0].Name)
}
