package products

import (
	"testing"

	"kirana/models"
)

func catalog() []models.Product {
	return []models.Product{
		{ProductID: "p1", Name: "apple"},
		{ProductID: "p2", Name: "Banana"},
		{ProductID: "p3", Name: "Pineapple"},
	}
}

func TestFilterIsCaseInsensitiveSubstring(t *testing.T) {
	got := Filter(catalog(), "AP")
	if len(got) != 2 {
		t.Fatalf("expected apple and Pineapple, got %v", got)
	}
	if got[0].Name != "apple" || got[1].Name != "Pineapple" {
		t.Fatalf("wrong matches: %v", got)
	}
}

func TestFilterEmptyQueryReturnsAll(t *testing.T) {
	list := catalog()
	got := Filter(list, "")
	if len(got) != len(list) {
		t.Fatalf("expected all %d products, got %d", len(list), len(got))
	}
}

func TestFilterNoMatch(t *testing.T) {
	if got := Filter(catalog(), "mango"); len(got) != 0 {
		t.Fatalf("expected no matches, got %v", got)
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	list := catalog()
	Filter(list, "ban")
	if list[0].Name != "apple" || len(list) != 3 {
		t.Fatalf("input mirror mutated: %v", list)
	}
}
