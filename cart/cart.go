// Package cart applies add/quantity/remove operations to a per-user
// cart. All writes are single-document, last-writer-wins: two devices
// updating the same line race and the later write sticks.
package cart

import (
	"context"
	"errors"
	"time"

	"kirana/models"
	"kirana/store"
)

// Collection holds every user's cart lines; lines are keyed by
// userID:productID so the same product never occupies two lines.
const Collection = "carts"

var (
	ErrNoUser      = errors.New("missing user identity")
	ErrBadQuantity = errors.New("quantity must be at least 1")
)

// Key is the document id of a cart line.
func Key(userID, productID string) string {
	return userID + ":" + productID
}

type Mutator struct {
	Store store.Store
}

// SetItem upserts a cart line keyed by product identity. Adding a
// product already in the cart overwrites the line rather than
// duplicating it.
func (m *Mutator) SetItem(ctx context.Context, userID string, p models.Product, quantity int) error {
	if userID == "" {
		return ErrNoUser
	}
	if quantity < 1 {
		return ErrBadQuantity
	}

	item := models.CartItem{
		ItemID:    p.ProductID,
		UserID:    userID,
		ProductID: p.ProductID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  quantity,
		ImageURL:  p.ImageURL,
		AddedAt:   time.Now(),
	}
	return m.Store.Set(ctx, Collection, Key(userID, p.ProductID), item)
}

// SetQuantity overwrites a line's quantity. A quantity of zero or less
// deletes the line; a quantity:0 document is never persisted. No
// read-before-write check is made.
func (m *Mutator) SetQuantity(ctx context.Context, userID, itemID string, quantity int) error {
	if userID == "" {
		return ErrNoUser
	}

	if quantity <= 0 {
		return m.Store.Delete(ctx, Collection, Key(userID, itemID))
	}
	return m.Store.Update(ctx, Collection, Key(userID, itemID), store.Fields{"quantity": quantity})
}

func (m *Mutator) RemoveItem(ctx context.Context, userID, itemID string) error {
	return m.SetQuantity(ctx, userID, itemID, 0)
}

// Items is a one-shot read of the user's cart, oldest line first.
func (m *Mutator) Items(ctx context.Context, userID string) ([]models.CartItem, error) {
	if userID == "" {
		return nil, ErrNoUser
	}

	var items []models.CartItem
	err := m.Store.Get(ctx, Collection, Query(userID), &items)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.CartItem{}
	}
	return items, nil
}

// Query selects one user's cart lines in insertion order.
func Query(userID string) store.Query {
	return store.Query{
		Filter:    store.Fields{"userId": userID},
		SortField: "addedAt",
	}
}

// Total sums price x quantity over cart lines. Pure derivation over the
// mirror; rounding to two decimals happens at presentation time only.
func Total(items []models.CartItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Price * float64(it.Quantity)
	}
	return sum
}
