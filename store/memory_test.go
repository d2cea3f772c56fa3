package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

type doc struct {
	ID    string    `json:"id"`
	Owner string    `json:"owner"`
	Rank  int       `json:"rank"`
	At    time.Time `json:"at"`
}

func TestMemorySetGetFilter(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	m.Set(ctx, "things", "a", doc{ID: "a", Owner: "u1", Rank: 2})
	m.Set(ctx, "things", "b", doc{ID: "b", Owner: "u2", Rank: 1})
	m.Set(ctx, "things", "c", doc{ID: "c", Owner: "u1", Rank: 3})

	var got []doc
	q := Query{Filter: Fields{"owner": "u1"}, SortField: "rank"}
	if err := m.Get(ctx, "things", q, &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 docs, got %d", len(got))
	}
	if got[0].ID != "a" || got[1].ID != "c" {
		t.Fatalf("wrong sort order: %v", got)
	}
}

func TestMemorySortDescByTime(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	m.Set(ctx, "things", "old", doc{ID: "old", At: base})
	m.Set(ctx, "things", "new", doc{ID: "new", At: base.Add(time.Hour)})

	var got []doc
	if err := m.Get(ctx, "things", Query{SortField: "at", SortDesc: true}, &got); err != nil {
		t.Fatal(err)
	}
	if got[0].ID != "new" {
		t.Fatalf("expected newest first, got %v", got)
	}
}

func TestMemorySetOverwrites(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	m.Set(ctx, "things", "a", doc{ID: "a", Rank: 1})
	m.Set(ctx, "things", "a", doc{ID: "a", Rank: 9})

	if n := m.Len("things"); n != 1 {
		t.Fatalf("expected 1 doc after overwrite, got %d", n)
	}
	f, _ := m.Doc("things", "a")
	if f["rank"].(float64) != 9 {
		t.Fatalf("expected rank 9, got %v", f["rank"])
	}
}

func TestMemoryUpdateMissing(t *testing.T) {
	m := NewMemory(nil)
	err := m.Update(context.Background(), "things", "nope", Fields{"rank": 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryBatchDelete(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	m.Set(ctx, "things", "a", doc{ID: "a"})
	m.Set(ctx, "things", "b", doc{ID: "b"})
	m.Set(ctx, "things", "c", doc{ID: "c"})

	if err := m.BatchDelete(ctx, "things", []string{"a", "c"}); err != nil {
		t.Fatal(err)
	}
	if n := m.Len("things"); n != 1 {
		t.Fatalf("expected 1 doc left, got %d", n)
	}
}

func TestMemoryBatchDeleteFailureTouchesNothing(t *testing.T) {
	m := NewMemory(nil)
	ctx := context.Background()

	m.Set(ctx, "things", "a", doc{ID: "a"})
	m.Set(ctx, "things", "b", doc{ID: "b"})

	m.BatchDeleteErr = errors.New("network down")
	if err := m.BatchDelete(ctx, "things", []string{"a", "b"}); err == nil {
		t.Fatal("expected injected error")
	}
	if n := m.Len("things"); n != 2 {
		t.Fatalf("failed batch must delete nothing, %d docs left", n)
	}
}

type countNotifier struct{ n int }

func (c *countNotifier) Notify(string) { c.n++ }

func TestMemoryNotifiesOnWrites(t *testing.T) {
	n := &countNotifier{}
	m := NewMemory(n)
	ctx := context.Background()

	m.Set(ctx, "things", "a", doc{ID: "a"})
	m.Update(ctx, "things", "a", Fields{"rank": 2})
	m.Delete(ctx, "things", "a")

	if n.n != 3 {
		t.Fatalf("expected 3 notifications, got %d", n.n)
	}
}
