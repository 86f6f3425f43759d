package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/nexbuy/backend/internal/models"
	"github.com/nexbuy/backend/internal/mykafka"
	"github.com/nexbuy/backend/internal/order"
	"github.com/nexbuy/backend/internal/service/search"
	"github.com/nexbuy/backend/internal/store"
)

type AdminHandler struct {
	DB       *gorm.DB
	Workflow *order.Workflow
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

type productRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ImageURL    *string  `json:"image_url"`
	Category    *string  `json:"category"`
	Stock       *uint    `json:"stock"`
}

func (h *AdminHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}
	if req.Name == nil || *req.Name == "" {
		return errorResponse(c, http.StatusBadRequest, errors.New("name is required"))
	}
	if req.Price == nil || *req.Price <= 0 {
		return errorResponse(c, http.StatusBadRequest, errors.New("price must be positive"))
	}

	product := models.Product{
		Name:      *req.Name,
		Price:     *req.Price,
		CreatedAt: time.Now().Unix(),
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	ctx := c.Request().Context()
	if err := store.NewCatalogStore(h.DB).CreateProduct(ctx, &product); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.indexProduct(c, &product)
	publish(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"name":      product.Name,
	})
	return c.JSON(http.StatusCreated, product)
}

func (h *AdminHandler) PatchProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	ctx := c.Request().Context()
	catalog := store.NewCatalogStore(h.DB)
	product, err := catalog.GetProduct(ctx, uint(id))
	if err != nil {
		return mapError(c, err)
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Price != nil {
		if *req.Price <= 0 {
			return errorResponse(c, http.StatusBadRequest, errors.New("price must be positive"))
		}
		product.Price = *req.Price
	}
	if req.ImageURL != nil {
		product.ImageURL = *req.ImageURL
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Stock != nil {
		product.Stock = *req.Stock
	}

	if err := catalog.SaveProduct(ctx, product); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	h.indexProduct(c, product)
	publish(c, h.Producer, "product_events", fmt.Sprint(product.ID), map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"name":      product.Name,
	})
	return c.JSON(http.StatusOK, product)
}

func (h *AdminHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ctx := c.Request().Context()
	if err := store.NewCatalogStore(h.DB).DeleteProduct(ctx, uint(id)); err != nil {
		return mapError(c, err)
	}

	if h.ES != nil {
		if err := search.DeleteProduct(ctx, h.ES, h.Index, uint(id)); err != nil {
			c.Logger().Errorf("ES delete error: %v", err)
		}
	}
	publish(c, h.Producer, "product_events", fmt.Sprint(id), map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) GetUsers(c echo.Context) error {
	var users []models.User
	if err := h.DB.Order("id ASC").Find(&users).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var user models.User
	if err := h.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "user not found")
		}
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	if user.Role == "admin" {
		return c.JSON(http.StatusConflict, echo.Map{"message": "cannot delete admin user"})
	}

	if err := h.DB.Delete(&user).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

func (h *AdminHandler) GetOrders(c echo.Context) error {
	orders, err := store.NewOrderStore(h.DB).ListAll(c.Request().Context())
	if err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) UpdateOrderStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	updated, err := h.Workflow.UpdateStatus(c.Request().Context(), uint(id), req.Status)
	if err != nil {
		return mapError(c, err)
	}

	publish(c, h.Producer, "order_events", fmt.Sprint(id), map[string]any{
		"type":    "order_status_updated",
		"orderID": id,
		"status":  updated.Status,
	})
	return c.JSON(http.StatusOK, updated)
}

func (h *AdminHandler) GetStats(c echo.Context) error {
	var totalUsers, totalProducts, totalOrders int64
	if err := h.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	if err := h.DB.Model(&models.Product{}).Count(&totalProducts).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}
	if err := h.DB.Model(&models.Order{}).Count(&totalOrders).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	var totalRevenue float64
	row := h.DB.Model(&models.Order{}).Select("COALESCE(SUM(total_amount), 0)").Row()
	if err := row.Scan(&totalRevenue); err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total_users":    totalUsers,
		"total_products": totalProducts,
		"total_orders":   totalOrders,
		"total_revenue":  totalRevenue,
	})
}

func (h *AdminHandler) indexProduct(c echo.Context, product *models.Product) {
	if h.ES == nil {
		return
	}
	if err := search.IndexProduct(c.Request().Context(), h.ES, h.Index, product); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}
