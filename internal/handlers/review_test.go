package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexbuy/backend/internal/models"
)

func (env *testEnv) postReview(userID uint, productID string, rating int) (int, *models.Product) {
	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/reviews/product/"+productID, map[string]any{
		"rating":  rating,
		"comment": "ok",
	})
	env.asUser(c, userID)
	c.SetParamNames("productId")
	c.SetParamValues(productID)
	require.NoError(env.T, env.Reviews.AddReview(c))

	var product models.Product
	require.NoError(env.T, env.DB.First(&product, 1).Error)
	return rec.Code, &product
}

func TestAddReviewRecomputesRating(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.DB.Create(&models.Product{Name: "widget", Price: 5.0, Stock: 1}).Error)

	code, product := env.postReview(1, "1", 5)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, 5.0, product.Rating)
	require.Equal(t, uint(1), product.ReviewCount)

	code, product = env.postReview(2, "1", 4)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, 4.5, product.Rating)
	require.Equal(t, uint(2), product.ReviewCount)

	code, product = env.postReview(3, "1", 3)
	require.Equal(t, http.StatusCreated, code)
	require.Equal(t, 4.0, product.Rating)
	require.Equal(t, uint(3), product.ReviewCount)
}

func TestAddReviewDuplicateRejected(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.DB.Create(&models.Product{Name: "widget", Price: 5.0, Stock: 1}).Error)

	code, _ := env.postReview(1, "1", 5)
	require.Equal(t, http.StatusCreated, code)

	code, product := env.postReview(1, "1", 1)
	require.Equal(t, http.StatusConflict, code)
	require.Equal(t, 5.0, product.Rating)
	require.Equal(t, uint(1), product.ReviewCount)
}

func TestAddReviewRatingOutOfRange(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.DB.Create(&models.Product{Name: "widget", Price: 5.0, Stock: 1}).Error)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/reviews/product/1", map[string]any{"rating": 6})
	env.asUser(c, 1)
	c.SetParamNames("productId")
	c.SetParamValues("1")
	require.NoError(t, env.Reviews.AddReview(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteReviewOwnershipAndRecompute(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.DB.Create(&models.Product{Name: "widget", Price: 5.0, Stock: 1}).Error)
	env.postReview(1, "1", 5)
	env.postReview(2, "1", 4)
	env.postReview(3, "1", 3)

	var rec3 models.Review
	require.NoError(t, env.DB.Where("user_id = ?", 3).First(&rec3).Error)

	// Not the owner.
	_, c := env.doJSONRequest(http.MethodDelete, "/api/v1/reviews/3", nil)
	env.asUser(c, 2)
	c.SetParamNames("id")
	c.SetParamValues("3")
	requireHTTPError(t, env.Reviews.DeleteReview(c), http.StatusForbidden)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/reviews/3", nil)
	env.asUser(c, 3)
	c.SetParamNames("id")
	c.SetParamValues("3")
	require.NoError(t, env.Reviews.DeleteReview(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var product models.Product
	require.NoError(t, env.DB.First(&product, 1).Error)
	require.Equal(t, 4.5, product.Rating)
	require.Equal(t, uint(2), product.ReviewCount)

	// Delete the rest; rating resets.
	for _, d := range []struct {
		user uint
		id   string
	}{{1, "1"}, {2, "2"}} {
		_, c := env.doJSONRequest(http.MethodDelete, "/api/v1/reviews/"+d.id, nil)
		env.asUser(c, d.user)
		c.SetParamNames("id")
		c.SetParamValues(d.id)
		require.NoError(t, env.Reviews.DeleteReview(c))
	}

	require.NoError(t, env.DB.First(&product, 1).Error)
	require.Equal(t, 0.0, product.Rating)
	require.Equal(t, uint(0), product.ReviewCount)
}

func TestGetProductReviewsEmbedsReviewerName(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.DB.Create(&models.Product{Name: "widget", Price: 5.0, Stock: 1}).Error)
	require.NoError(t, env.DB.Create(&models.User{Name: "Ann", Email: "ann@example.com", PasswordHash: "x", Role: "user"}).Error)
	env.postReview(1, "1", 5)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/reviews/product/1", nil)
	c.SetParamNames("productId")
	c.SetParamValues("1")
	require.NoError(t, env.Reviews.GetProductReviews(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var dtos []ReviewDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dtos))
	require.Len(t, dtos, 1)
	require.Equal(t, "Ann", dtos[0].UserName)
	require.Equal(t, 5, dtos[0].Rating)
}
