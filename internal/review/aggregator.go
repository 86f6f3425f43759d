package review

import (
	"context"
	"math"
	"sync"

	"gorm.io/gorm"

	"github.com/nexbuy/backend/internal/store"
)

// Aggregator keeps Product.rating and Product.review_count consistent with
// the review set. Recomputes serialize per product and always start from a
// fresh read, so concurrent submissions for the same product cannot write a
// stale aggregate over a newer one.
type Aggregator struct {
	DB *gorm.DB

	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewAggregator(db *gorm.DB) *Aggregator {
	return &Aggregator{
		DB:    db,
		locks: make(map[uint]*sync.Mutex),
	}
}

func (a *Aggregator) lock(productID uint) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	l, ok := a.locks[productID]
	if !ok {
		l = &sync.Mutex{}
		a.locks[productID] = l
	}
	return l
}

// Recompute sets rating to the mean of all ratings rounded to one decimal
// place and count to the number of reviews. Zero reviews reset to 0.0 / 0.
func (a *Aggregator) Recompute(ctx context.Context, productID uint) error {
	l := a.lock(productID)
	l.Lock()
	defer l.Unlock()

	avg, count, err := store.NewReviewStore(a.DB).RatingStats(ctx, productID)
	if err != nil {
		return err
	}

	rating := 0.0
	if count > 0 {
		rating = math.Round(avg*10) / 10
	}
	return store.NewCatalogStore(a.DB).SaveRating(ctx, productID, rating, count)
}
