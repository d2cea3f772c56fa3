package admin

import (
	"context"
	"errors"
	"testing"

	"kirana/models"
	"kirana/store"
)

func seedUser(t *testing.T, st *store.Memory, u models.User) {
	t.Helper()
	if err := st.Set(context.Background(), UsersCollection, u.UserID, u); err != nil {
		t.Fatal(err)
	}
}

func isAdmin(t *testing.T, st *store.Memory, userID string) bool {
	t.Helper()
	f, ok := st.Doc(UsersCollection, userID)
	if !ok {
		t.Fatalf("user %s missing", userID)
	}
	v, _ := f["isAdmin"].(bool)
	return v
}

func TestToggleAdminFlips(t *testing.T) {
	st := store.NewMemory(nil)
	seedUser(t, st, models.User{UserID: "u1", Email: "a@b.c", IsAdmin: false})

	got, err := ToggleAdmin(context.Background(), st, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if !got || !isAdmin(t, st, "u1") {
		t.Fatal("expected user promoted to admin")
	}
}

func TestToggleAdminTwiceRestoresOriginal(t *testing.T) {
	st := store.NewMemory(nil)
	seedUser(t, st, models.User{UserID: "u1", Email: "a@b.c", IsAdmin: true})

	if _, err := ToggleAdmin(context.Background(), st, "u1"); err != nil {
		t.Fatal(err)
	}
	if _, err := ToggleAdmin(context.Background(), st, "u1"); err != nil {
		t.Fatal(err)
	}

	if !isAdmin(t, st, "u1") {
		t.Fatal("double toggle must restore the original value")
	}
}

func TestToggleAdminMissingUser(t *testing.T) {
	st := store.NewMemory(nil)
	if _, err := ToggleAdmin(context.Background(), st, "ghost"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
