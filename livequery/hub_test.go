package livequery

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func waitSnapshot(t *testing.T, sub *Subscription) interface{} {
	t.Helper()
	select {
	case got := <-sub.Updates():
		return got
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for snapshot")
		return nil
	}
}

func TestHubDeliversInitialSnapshot(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	sub := hub.Subscribe("products", func(ctx context.Context) (interface{}, error) {
		return []string{"a", "b"}, nil
	})
	defer sub.Cancel()

	got := waitSnapshot(t, sub)
	list, ok := got.([]string)
	if !ok || len(list) != 2 {
		t.Fatalf("expected initial snapshot [a b], got %v", got)
	}
}

func TestHubRefreshesOnChange(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	var version atomic.Int64
	sub := hub.Subscribe("products", func(ctx context.Context) (interface{}, error) {
		return version.Load(), nil
	})
	defer sub.Cancel()

	waitSnapshot(t, sub)

	version.Store(7)
	hub.Notify("products")

	deadline := time.After(1 * time.Second)
	for {
		select {
		case got := <-sub.Updates():
			if got.(int64) == 7 {
				return
			}
		case <-deadline:
			t.Fatal("never saw refreshed snapshot")
		}
	}
}

func TestHubIgnoresUnrelatedCollections(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	var fetches atomic.Int64
	sub := hub.Subscribe("orders", func(ctx context.Context) (interface{}, error) {
		fetches.Add(1)
		return nil, nil
	})
	defer sub.Cancel()

	waitSnapshot(t, sub)

	hub.Notify("products")
	time.Sleep(50 * time.Millisecond)

	if n := fetches.Load(); n != 1 {
		t.Fatalf("expected 1 fetch after unrelated change, got %d", n)
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	var fetches atomic.Int64
	sub := hub.Subscribe("carts", func(ctx context.Context) (interface{}, error) {
		fetches.Add(1)
		return "snapshot", nil
	})

	waitSnapshot(t, sub)
	sub.Cancel()

	// Change events after cancellation must not reach the fetch.
	hub.Notify("carts")
	hub.Notify("carts")
	time.Sleep(50 * time.Millisecond)

	if n := fetches.Load(); n != 1 {
		t.Fatalf("expected no fetches after cancel, got %d total", n)
	}

	select {
	case _, ok := <-sub.Updates():
		if ok {
			t.Fatal("received snapshot after cancel")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("updates channel not closed after cancel")
	}
}

func TestQueryErrorSurfaces(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	wantErr := errors.New("permission denied")
	sub := hub.Subscribe("users", func(ctx context.Context) (interface{}, error) {
		return nil, wantErr
	})
	defer sub.Cancel()

	select {
	case err := <-sub.Errors():
		if !errors.Is(err, wantErr) {
			t.Fatalf("expected %v, got %v", wantErr, err)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for error")
	}
}

func TestLatestWinsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	var version atomic.Int64
	sub := hub.Subscribe("products", func(ctx context.Context) (interface{}, error) {
		return version.Load(), nil
	})
	defer sub.Cancel()

	waitSnapshot(t, sub)

	// Pile up refreshes without reading; only the newest should remain.
	for i := 1; i <= 5; i++ {
		version.Store(int64(i))
		hub.Notify("products")
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(50 * time.Millisecond)

	got := waitSnapshot(t, sub)
	if got.(int64) != 5 {
		t.Fatalf("expected latest snapshot 5, got %v", got)
	}
}
