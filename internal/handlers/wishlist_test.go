package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nexbuy/backend/internal/models"
)

func TestWishlistToggleAlternates(t *testing.T) {
	env := newTestEnv(t)

	product := models.Product{Name: "widget", Price: 5.0, Stock: 1}
	require.NoError(t, env.DB.Create(&product).Error)

	toggle := func() map[string]any {
		rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/wishlist/toggle/1", nil)
		env.asUser(c, 1)
		c.SetParamNames("productId")
		c.SetParamValues("1")
		require.NoError(t, env.Wishlist.Toggle(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	resp := toggle()
	require.Equal(t, true, resp["added"])

	resp = toggle()
	require.Equal(t, false, resp["added"])

	resp = toggle()
	require.Equal(t, true, resp["added"])
}

func TestWishlistToggleUnknownProduct(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/v1/wishlist/toggle/77", nil)
	env.asUser(c, 1)
	c.SetParamNames("productId")
	c.SetParamValues("77")
	require.NoError(t, env.Wishlist.Toggle(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWishlistCheckAndList(t *testing.T) {
	env := newTestEnv(t)

	product := models.Product{Name: "widget", Price: 5.0, Stock: 1}
	require.NoError(t, env.DB.Create(&product).Error)
	require.NoError(t, env.DB.Create(&models.Wishlist{UserID: 1, ProductID: product.ID}).Error)

	rec, c := env.doJSONRequest(http.MethodGet, "/api/v1/wishlist/check/1", nil)
	env.asUser(c, 1)
	c.SetParamNames("productId")
	c.SetParamValues("1")
	require.NoError(t, env.Wishlist.Check(c))
	require.Equal(t, "true", string(bytesTrim(rec.Body.Bytes())))

	rec, c = env.doJSONRequest(http.MethodGet, "/api/v1/wishlist", nil)
	env.asUser(c, 1)
	require.NoError(t, env.Wishlist.GetWishlist(c))

	var products []models.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 1)
	require.Equal(t, "widget", products[0].Name)
}

func TestWishlistRemoveAbsentEntry(t *testing.T) {
	env := newTestEnv(t)

	product := models.Product{Name: "widget", Price: 5.0, Stock: 1}
	require.NoError(t, env.DB.Create(&product).Error)

	rec, c := env.doJSONRequest(http.MethodDelete, "/api/v1/wishlist/1", nil)
	env.asUser(c, 1)
	c.SetParamNames("productId")
	c.SetParamValues("1")
	require.NoError(t, env.Wishlist.Remove(c))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func bytesTrim(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == ' ') {
		b = b[:len(b)-1]
	}
	return b
}
