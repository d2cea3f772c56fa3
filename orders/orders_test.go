package orders

import (
	"testing"

	"kirana/models"
)

func TestStatusColor(t *testing.T) {
	cases := []struct {
		status string
		want   string
	}{
		{models.OrderPending, "#FFA000"},
		{models.OrderProcessing, "#1976D2"},
		{models.OrderCompleted, "#2E7D32"},
		{models.OrderCancelled, "#D32F2F"},
		{"refunded", "#9E9E9E"},
		{"", "#9E9E9E"},
	}
	for _, c := range cases {
		if got := StatusColor(c.status); got != c.want {
			t.Errorf("StatusColor(%q) = %q, want %q", c.status, got, c.want)
		}
	}
}

func TestQueryIsUserScopedNewestFirst(t *testing.T) {
	q := Query("u1")
	if q.Filter["userId"] != "u1" {
		t.Fatalf("query not scoped to user: %v", q.Filter)
	}
	if q.SortField != "createdAt" || !q.SortDesc {
		t.Fatalf("expected createdAt descending, got %+v", q)
	}
}
