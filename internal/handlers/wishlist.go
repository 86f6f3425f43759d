package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nexbuy/backend/internal/store"
)

type WishlistHandler struct {
	DB *gorm.DB
}

func (h *WishlistHandler) GetWishlist(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	products, err := store.NewWishlistStore(h.DB).ListProducts(c.Request().Context(), userID)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, products)
}

func (h *WishlistHandler) Toggle(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	ctx := c.Request().Context()
	if _, err := store.NewCatalogStore(h.DB).GetProduct(ctx, uint(productID)); err != nil {
		return mapError(c, err)
	}

	added, err := store.NewWishlistStore(h.DB).Toggle(ctx, userID, uint(productID))
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	message := "removed from wishlist"
	if added {
		message = "added to wishlist"
	}
	return c.JSON(http.StatusOK, echo.Map{"message": message, "added": added})
}

func (h *WishlistHandler) Check(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	exists, err := store.NewWishlistStore(h.DB).Exists(c.Request().Context(), userID, uint(productID))
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, exists)
}

func (h *WishlistHandler) Remove(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil || productID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	if err := store.NewWishlistStore(h.DB).Remove(c.Request().Context(), userID, uint(productID)); err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "removed from wishlist"})
}
