// Package checkout converts a cart into a persisted order. The flow is
// two independent remote operations: create the order document, then
// batch-delete the cart lines. There is deliberately no compensation
// between the steps; see PlaceOrder.
package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"kirana/cart"
	"kirana/models"
	"kirana/store"
	"kirana/utils"
)

const OrdersCollection = "orders"

var (
	ErrNoUser    = errors.New("missing user identity")
	ErrEmptyCart = errors.New("cart is empty")
)

type Sequencer struct {
	Store store.Store

	// now is swappable for tests; defaults to time.Now.
	now func() time.Time
}

func NewSequencer(st store.Store) *Sequencer {
	return &Sequencer{Store: st, now: time.Now}
}

// PlaceOrder snapshots the given cart lines into one new pending order,
// then clears the cart in a single atomic batch.
//
// The order snapshot takes the cart's cached prices and names as ground
// truth: stock and price are not re-read from the live products. If
// order creation fails the cart is untouched and the error propagates.
// If the cart clear fails after the order was created, the failure is
// logged and the order stands with no rollback; the caller still sees
// success while stale cart lines remain. That asymmetry is the
// inherited contract, not an oversight here.
func (s *Sequencer) PlaceOrder(ctx context.Context, userID string, items []models.CartItem) (models.Order, error) {
	if userID == "" {
		return models.Order{}, ErrNoUser
	}
	if len(items) == 0 {
		return models.Order{}, ErrEmptyCart
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		orderItems = append(orderItems, models.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
		})
	}

	order := models.Order{
		OrderID:   "ORD" + utils.GenerateRandomString(12),
		UserID:    userID,
		Items:     orderItems,
		Total:     cart.Total(items),
		Status:    models.OrderPending,
		CreatedAt: s.now(),
	}

	if _, err := s.Store.Add(ctx, OrdersCollection, order); err != nil {
		return models.Order{}, err
	}

	keys := make([]string, 0, len(items))
	for _, it := range items {
		keys = append(keys, cart.Key(userID, it.ProductID))
	}
	if err := s.Store.BatchDelete(ctx, cart.Collection, keys); err != nil {
		log.Printf("checkout: cart clear failed for user %s after order %s: %v", userID, order.OrderID, err)
	}

	return order, nil
}
