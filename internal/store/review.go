package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/nexbuy/backend/internal/models"
)

type ReviewStore struct {
	DB *gorm.DB
}

func NewReviewStore(db *gorm.DB) *ReviewStore {
	return &ReviewStore{DB: db}
}

func (s *ReviewStore) CreateReview(ctx context.Context, review *models.Review) error {
	var existing models.Review
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", review.UserID, review.ProductID).
		First(&existing).Error
	if err == nil {
		return fmt.Errorf("%w: product %d already reviewed", ErrConflict, review.ProductID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return s.DB.WithContext(ctx).Create(review).Error
}

func (s *ReviewStore) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := s.DB.WithContext(ctx).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: review %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &review, nil
}

func (s *ReviewStore) ListByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC, id DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (s *ReviewStore) DeleteReview(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: review %d", ErrNotFound, id)
	}
	return nil
}

// RatingStats reads the aggregate fresh from the review set.
func (s *ReviewStore) RatingStats(ctx context.Context, productID uint) (avg float64, count uint, err error) {
	row := s.DB.WithContext(ctx).
		Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0), COUNT(*)").
		Where("product_id = ?", productID).
		Row()
	if err := row.Scan(&avg, &count); err != nil {
		return 0, 0, err
	}
	return avg, count, nil
}
