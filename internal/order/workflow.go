package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nexbuy/backend/internal/logging"
	"github.com/nexbuy/backend/internal/models"
	"github.com/nexbuy/backend/internal/store"
)

var ErrValidation = errors.New("validation") // 400

// Workflow turns a cart into an immutable order. Every checkout runs as a
// single transaction: validate all lines first, then create the order with
// its price-snapshotted items, decrement stock through the conditional
// update, and clear the cart. Either all four effects commit or none do.
type Workflow struct {
	DB *gorm.DB
}

func NewWorkflow(db *gorm.DB) *Workflow {
	return &Workflow{DB: db}
}

func (w *Workflow) Checkout(ctx context.Context, userID uint, shippingAddress string) (*models.Order, error) {
	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return nil, fmt.Errorf("%w: shipping address required", ErrValidation)
	}

	l := logging.FromContext(ctx).With("workflow", "checkout", "user_id", userID)

	var order models.Order
	txErr := w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		carts := store.NewCartStore(tx)
		catalog := store.NewCatalogStore(tx)
		orders := store.NewOrderStore(tx)

		cart, err := carts.GetOrCreateCart(ctx, userID)
		if err != nil {
			return err
		}
		items, err := carts.ListItems(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: cart is empty", ErrValidation)
		}

		// Validate every line before writing anything. A later line failing
		// must not leave a half-built order behind.
		var total float64
		lines := make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			product, err := catalog.GetProduct(ctx, it.ProductID)
			if err != nil {
				return err
			}
			if product.Stock < it.Quantity {
				return fmt.Errorf("%w: insufficient stock for %s", store.ErrConflict, product.Name)
			}
			lines = append(lines, models.OrderItem{
				ProductID:   product.ID,
				ProductName: product.Name,
				Price:       product.Price,
				Quantity:    it.Quantity,
			})
			total += product.Price * float64(it.Quantity)
		}

		// The conditional decrement re-checks stock inside the write, so a
		// concurrent checkout that got past the validation pass above still
		// cannot oversell; the loser rolls back with a conflict.
		for _, it := range items {
			if err := catalog.DecrementStock(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}

		order = models.Order{
			Reference:       uuid.NewString(),
			UserID:          userID,
			TotalAmount:     total,
			Status:          StatusPending,
			ShippingAddress: shippingAddress,
			CreatedAt:       time.Now().Unix(),
			Items:           lines,
		}
		if err := orders.CreateOrderWithItems(ctx, &order); err != nil {
			return err
		}

		return carts.Clear(ctx, cart.ID)
	})
	if txErr != nil {
		return nil, txErr
	}

	l.Info("order_created", "order_id", order.ID, "reference", order.Reference, "total", order.TotalAmount)
	return &order, nil
}

// UpdateStatus moves an order through the state machine. Unknown status
// strings and illegal transitions reject without mutating anything.
func (w *Workflow) UpdateStatus(ctx context.Context, orderID uint, rawStatus string) (*models.Order, error) {
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	txErr := w.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := store.NewOrderStore(tx)

		current, err := orders.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !CanTransition(current.Status, status) {
			return fmt.Errorf("%w: cannot move order from %s to %s", store.ErrConflict, current.Status, status)
		}
		if err := orders.UpdateStatus(ctx, orderID, status); err != nil {
			return err
		}
		current.Status = status
		order = current
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	logging.FromContext(ctx).Info("order_status_updated", "order_id", orderID, "status", status)
	return order, nil
}
