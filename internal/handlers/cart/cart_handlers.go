package cart

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nexbuy/backend/internal/mykafka"
	"github.com/nexbuy/backend/internal/store"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

type ItemDTO struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Quantity    uint    `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	carts := store.NewCartStore(h.DB)
	cart, err := carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	items, err := carts.ListItems(ctx, cart.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	catalog := store.NewCatalogStore(h.DB)
	dtos := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		product, err := catalog.GetProduct(ctx, it.ProductID)
		if err != nil {
			return mapStoreError(c, err)
		}
		dtos = append(dtos, ItemDTO{
			ID:          it.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Price:       product.Price,
			Quantity:    it.Quantity,
			Subtotal:    product.Price * float64(it.Quantity),
		})
	}

	return c.JSON(http.StatusOK, dtos)
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	ctx := c.Request().Context()
	catalog := store.NewCatalogStore(h.DB)
	product, err := catalog.GetProduct(ctx, req.ProductID)
	if err != nil {
		return mapStoreError(c, err)
	}

	carts := store.NewCartStore(h.DB)
	cart, err := carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	// The merged line may not exceed what is on the shelf.
	var current uint
	if existing, err := carts.ListItems(ctx, cart.ID); err == nil {
		for _, it := range existing {
			if it.ProductID == req.ProductID {
				current = it.Quantity
				break
			}
		}
	}
	if product.Stock < current+req.Quantity {
		return c.JSON(http.StatusConflict, echo.Map{"message": "insufficient stock"})
	}

	item, err := carts.AddItem(ctx, cart.ID, req.ProductID, req.Quantity)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": req.ProductID,
		"quantity":  item.Quantity,
	})
	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) DeleteOneFromCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx := c.Request().Context()
	carts := store.NewCartStore(h.DB)
	cart, err := carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	item, err := carts.GetItem(ctx, cart.ID, uint(id))
	if err != nil {
		return mapStoreError(c, err)
	}

	if item.Quantity > 1 {
		item.Quantity -= 1
		if err := carts.SaveItem(ctx, item); err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		h.publish(c, map[string]any{
			"type":         "cart_item_decremented",
			"userID":       userID,
			"id":           item.ID,
			"new_quantity": item.Quantity,
		})
		return c.JSON(http.StatusOK, item)
	}

	if err := carts.RemoveItem(ctx, cart.ID, item.ID); err != nil {
		return mapStoreError(c, err)
	}
	h.publish(c, map[string]any{
		"type":         "cart_item_deleted",
		"userID":       userID,
		"deleted_item": id,
	})
	return c.JSON(http.StatusOK, echo.Map{"deleted_item": id})
}

func (h *CartHandler) DeleteLineFromCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx := c.Request().Context()
	carts := store.NewCartStore(h.DB)
	cart, err := carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := carts.RemoveItem(ctx, cart.ID, uint(id)); err != nil {
		return mapStoreError(c, err)
	}

	remaining, err := carts.ListItems(ctx, cart.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":         "cart_line_deleted",
		"userID":       userID,
		"deleted_item": id,
	})
	return c.JSON(http.StatusOK, remaining)
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	carts := store.NewCartStore(h.DB)
	cart, err := carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if err := carts.Clear(ctx, cart.ID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.publish(c, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return c.JSON(http.StatusOK, echo.Map{"message": "cart cleared"})
}

func mapStoreError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

func getUserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return id, nil
}

func (h *CartHandler) publish(c echo.Context, event map[string]any) {
	if h.Producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "cart_events", fmt.Sprint(event["userID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
