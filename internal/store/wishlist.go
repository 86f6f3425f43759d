package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nexbuy/backend/internal/models"
)

type WishlistStore struct {
	DB *gorm.DB
}

func NewWishlistStore(db *gorm.DB) *WishlistStore {
	return &WishlistStore{DB: db}
}

func (s *WishlistStore) ListProducts(ctx context.Context, userID uint) ([]models.Product, error) {
	var products []models.Product
	if err := s.DB.WithContext(ctx).
		Model(&models.Product{}).
		Joins("JOIN wishlists ON wishlists.product_id = products.id").
		Where("wishlists.user_id = ?", userID).
		Order("wishlists.id ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *WishlistStore) Exists(ctx context.Context, userID, productID uint) (bool, error) {
	var entry models.Wishlist
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&entry).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}

// Toggle flips membership and reports the resulting state.
func (s *WishlistStore) Toggle(ctx context.Context, userID, productID uint) (added bool, err error) {
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			Delete(&models.Wishlist{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			added = false
			return nil
		}
		added = true
		return tx.Create(&models.Wishlist{UserID: userID, ProductID: productID}).Error
	})
	return added, err
}

func (s *WishlistStore) Remove(ctx context.Context, userID, productID uint) error {
	res := s.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Wishlist{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: product %d not in wishlist", ErrNotFound, productID)
	}
	return nil
}
