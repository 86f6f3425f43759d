package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nexbuy/backend/internal/mykafka"
	"github.com/nexbuy/backend/internal/order"
	"github.com/nexbuy/backend/internal/store"
)

type OrderHandler struct {
	DB       *gorm.DB
	Workflow *order.Workflow
	Producer *mykafka.Producer
}

func (h *OrderHandler) Checkout(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ShippingAddress string `json:"shipping_address"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	created, err := h.Workflow.Checkout(c.Request().Context(), userID, req.ShippingAddress)
	if err != nil {
		return mapError(c, err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(userID), map[string]any{
		"type":      "order_created",
		"userID":    userID,
		"orderID":   created.ID,
		"reference": created.Reference,
		"total":     created.TotalAmount,
	})
	return c.JSON(http.StatusCreated, created)
}

func (h *OrderHandler) MyOrders(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	orders, err := store.NewOrderStore(h.DB).ListByUser(c.Request().Context(), userID)
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, err := UserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	found, err := store.NewOrderStore(h.DB).GetOrder(c.Request().Context(), uint(id))
	if err != nil {
		return mapError(c, err)
	}
	if found.UserID != userID && Role(c) != "admin" {
		return echo.NewHTTPError(http.StatusForbidden, "not your order")
	}
	return c.JSON(http.StatusOK, found)
}
