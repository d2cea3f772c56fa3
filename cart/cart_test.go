package cart

import (
	"context"
	"errors"
	"testing"

	"kirana/models"
	"kirana/store"
)

func apple() models.Product {
	return models.Product{ProductID: "p1", Name: "Apple", Price: 10, Stock: 5}
}

func TestSetItemRequiresUser(t *testing.T) {
	m := &Mutator{Store: store.NewMemory(nil)}
	if err := m.SetItem(context.Background(), "", apple(), 1); !errors.Is(err, ErrNoUser) {
		t.Fatalf("expected ErrNoUser, got %v", err)
	}
}

func TestRepeatedAddOverwritesLine(t *testing.T) {
	st := store.NewMemory(nil)
	m := &Mutator{Store: st}
	ctx := context.Background()

	if err := m.SetItem(ctx, "u1", apple(), 2); err != nil {
		t.Fatal(err)
	}
	if err := m.SetItem(ctx, "u1", apple(), 5); err != nil {
		t.Fatal(err)
	}

	items, err := m.Items(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 1 {
		t.Fatalf("expected exactly one cart line, got %d", len(items))
	}
	if items[0].Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", items[0].Quantity)
	}
}

func TestSetQuantityZeroDeletesLine(t *testing.T) {
	st := store.NewMemory(nil)
	m := &Mutator{Store: st}
	ctx := context.Background()

	if err := m.SetItem(ctx, "u1", apple(), 3); err != nil {
		t.Fatal(err)
	}
	if err := m.SetQuantity(ctx, "u1", "p1", 0); err != nil {
		t.Fatal(err)
	}

	// The line must be gone, not persisted with quantity 0.
	if n := st.Len(Collection); n != 0 {
		t.Fatalf("expected empty cart collection, %d docs remain", n)
	}
	items, err := m.Items(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty mirror, got %v", items)
	}
}

func TestSetQuantityOverwritesOnlyQuantity(t *testing.T) {
	st := store.NewMemory(nil)
	m := &Mutator{Store: st}
	ctx := context.Background()

	if err := m.SetItem(ctx, "u1", apple(), 1); err != nil {
		t.Fatal(err)
	}
	if err := m.SetQuantity(ctx, "u1", "p1", 4); err != nil {
		t.Fatal(err)
	}

	items, _ := m.Items(ctx, "u1")
	if items[0].Quantity != 4 {
		t.Fatalf("expected quantity 4, got %d", items[0].Quantity)
	}
	if items[0].Price != 10 || items[0].Name != "Apple" {
		t.Fatalf("quantity update must not touch other fields: %+v", items[0])
	}
}

func TestCartsAreScopedPerUser(t *testing.T) {
	st := store.NewMemory(nil)
	m := &Mutator{Store: st}
	ctx := context.Background()

	m.SetItem(ctx, "u1", apple(), 1)
	m.SetItem(ctx, "u2", apple(), 2)

	items, _ := m.Items(ctx, "u1")
	if len(items) != 1 || items[0].Quantity != 1 {
		t.Fatalf("expected u1's single line, got %v", items)
	}
}

func TestTotal(t *testing.T) {
	items := []models.CartItem{
		{Price: 10, Quantity: 2},
		{Price: 5, Quantity: 3},
	}
	if got := Total(items); got != 35 {
		t.Fatalf("expected total 35, got %v", got)
	}
	if got := Total(nil); got != 0 {
		t.Fatalf("expected empty total 0, got %v", got)
	}
}
