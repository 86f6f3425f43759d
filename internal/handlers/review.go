package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nexbuy/backend/internal/models"
	"github.com/nexbuy/backend/internal/mykafka"
	"github.com/nexbuy/backend/internal/review"
	"github.com/nexbuy/backend/internal/store"
)

type ReviewHandler struct {
	DB         *gorm.DB
	Aggregator *review.Aggregator
	Producer   *mykafka.Producer
}

type ReviewDTO struct {
	ID        uint   `json:"id"`
	UserID    uint   `json:"user_id"`
	UserName  string `json:"user_name"`
	ProductID uint   `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt int64  `json:"created_at"`
}

func (h *ReviewHandler) AddReview(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return errorResponse(c, http.StatusBadRequest, errors.New("rating must be between 1 and 5"))
	}

	ctx := c.Request().Context()
	if _, err := store.NewCatalogStore(h.DB).GetProduct(ctx, uint(productID)); err != nil {
		return mapError(c, err)
	}

	rec := models.Review{
		UserID:    userID,
		ProductID: uint(productID),
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now().Unix(),
	}
	if err := store.NewReviewStore(h.DB).CreateReview(ctx, &rec); err != nil {
		return mapError(c, err)
	}

	if err := h.Aggregator.Recompute(ctx, uint(productID)); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	publish(c, h.Producer, "review_events", fmt.Sprint(userID), map[string]any{
		"type":      "review_added",
		"userID":    userID,
		"productID": productID,
		"rating":    req.Rating,
	})
	return c.JSON(http.StatusCreated, rec)
}

func (h *ReviewHandler) GetProductReviews(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	ctx := c.Request().Context()
	if _, err := store.NewCatalogStore(h.DB).GetProduct(ctx, uint(productID)); err != nil {
		return mapError(c, err)
	}

	reviews, err := store.NewReviewStore(h.DB).ListByProduct(ctx, uint(productID))
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	dtos := make([]ReviewDTO, 0, len(reviews))
	for _, r := range reviews {
		var reviewer models.User
		if err := h.DB.First(&reviewer, r.UserID).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return errorResponse(c, http.StatusInternalServerError, err)
		}
		dtos = append(dtos, ReviewDTO{
			ID:        r.ID,
			UserID:    r.UserID,
			UserName:  reviewer.Name,
			ProductID: r.ProductID,
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx := c.Request().Context()
	reviews := store.NewReviewStore(h.DB)
	rec, err := reviews.GetReview(ctx, uint(id))
	if err != nil {
		return mapError(c, err)
	}
	if rec.UserID != userID {
		return echo.NewHTTPError(http.StatusForbidden, "you can only delete your own reviews")
	}

	if err := reviews.DeleteReview(ctx, rec.ID); err != nil {
		return mapError(c, err)
	}
	if err := h.Aggregator.Recompute(ctx, rec.ProductID); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	publish(c, h.Producer, "review_events", fmt.Sprint(userID), map[string]any{
		"type":      "review_deleted",
		"userID":    userID,
		"productID": rec.ProductID,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "review deleted"})
}
