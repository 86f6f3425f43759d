package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nexbuy/backend/internal/models"
)

type CatalogStore struct {
	DB *gorm.DB
}

func NewCatalogStore(db *gorm.DB) *CatalogStore {
	return &CatalogStore{DB: db}
}

func (s *CatalogStore) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := s.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &product, nil
}

type ProductFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
}

func (s *CatalogStore) ListProducts(ctx context.Context, f ProductFilter, offset, limit int) (int64, []models.Product, error) {
	q := s.DB.WithContext(ctx).Model(&models.Product{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (s *CatalogStore) CreateProduct(ctx context.Context, product *models.Product) error {
	return s.DB.WithContext(ctx).Create(product).Error
}

func (s *CatalogStore) SaveProduct(ctx context.Context, product *models.Product) error {
	return s.DB.WithContext(ctx).Save(product).Error
}

func (s *CatalogStore) DeleteProduct(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return nil
}

// DecrementStock is the atomic decrement-if-sufficient primitive the checkout
// workflow relies on. The stock check and the write are one conditional
// UPDATE, so two callers racing over the same product can never jointly take
// more than is available.
func (s *CatalogStore) DecrementStock(ctx context.Context, id, quantity uint) error {
	res := s.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var product models.Product
		if err := s.DB.WithContext(ctx).First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: product %d", ErrNotFound, id)
			}
			return err
		}
		return fmt.Errorf("%w: insufficient stock for %s", ErrConflict, product.Name)
	}
	return nil
}

// SaveRating writes the recomputed aggregate without touching other columns.
func (s *CatalogStore) SaveRating(ctx context.Context, id uint, rating float64, reviewCount uint) error {
	res := s.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"rating":       rating,
			"review_count": reviewCount,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return nil
}
