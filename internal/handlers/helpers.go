package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nexbuy/backend/internal/mykafka"
	"github.com/nexbuy/backend/internal/order"
	"github.com/nexbuy/backend/internal/store"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, err error) error {
	return c.JSON(code, Response{
		Status:  "error",
		Message: err.Error(),
	})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

// UserID reads the identity the auth middleware resolved into the context.
func UserID(c echo.Context) (uint, error) {
	id, ok := c.Get("userID").(uint)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	return id, nil
}

func Role(c echo.Context) string {
	role, _ := c.Get("role").(string)
	return role
}

// mapError translates the domain error taxonomy into HTTP codes.
func mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return errorResponse(c, http.StatusNotFound, err)
	case errors.Is(err, store.ErrConflict):
		return errorResponse(c, http.StatusConflict, err)
	case errors.Is(err, order.ErrValidation):
		return errorResponse(c, http.StatusBadRequest, err)
	default:
		return errorResponse(c, http.StatusInternalServerError, err)
	}
}

func publish(c echo.Context, producer *mykafka.Producer, topic string, key string, event map[string]any) {
	if producer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := producer.PublishEvent(ctx, topic, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}
