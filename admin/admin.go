// Package admin backs the admin console: dashboard counts and user
// management. Every route here sits behind the admin middleware.
package admin

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"kirana/models"
	"kirana/store"
	"kirana/utils"
)

const UsersCollection = "users"

var ErrUserNotFound = errors.New("user not found")

type Handler struct {
	Store store.Store
}

// Stats returns one-shot aggregate counts for the dashboard.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	counts := map[string]int64{}
	for _, collection := range []string{"products", "users", "orders"} {
		n, err := h.Store.Count(ctx, collection)
		if err != nil {
			log.Println("Stats error:", err)
			utils.RespondWithError(w, http.StatusInternalServerError, "Failed to fetch statistics")
			return
		}
		counts[collection] = n
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"totalProducts": counts["products"],
		"totalUsers":    counts["users"],
		"totalOrders":   counts["orders"],
	})
}

// ListUsers returns every user record for the management screen.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var users []models.User
	q := store.Query{SortField: "createdAt", SortDesc: true}
	if err := h.Store.Get(ctx, UsersCollection, q, &users); err != nil {
		log.Println("ListUsers error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve users")
		return
	}
	if users == nil {
		users = []models.User{}
	}

	utils.RespondWithJSON(w, http.StatusOK, users)
}

// ToggleAdmin flips a user's admin flag and returns the new value.
// Nothing stops an admin from demoting themselves or the last admin;
// the console's confirm step is the only guard.
func ToggleAdmin(ctx context.Context, st store.Store, userID string) (bool, error) {
	var users []models.User
	q := store.Query{Filter: store.Fields{"userId": userID}}
	if err := st.Get(ctx, UsersCollection, q, &users); err != nil {
		return false, err
	}
	if len(users) == 0 {
		return false, ErrUserNotFound
	}

	next := !users[0].IsAdmin
	if err := st.Update(ctx, UsersCollection, userID, store.Fields{"isAdmin": next}); err != nil {
		return false, err
	}
	return next, nil
}

// ToggleUserRole handles the role switch for one user.
func (h *Handler) ToggleUserRole(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	isAdmin, err := ToggleAdmin(ctx, h.Store, ps.ByName("userid"))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			utils.RespondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Println("ToggleUserRole error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update user role")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"isAdmin": isAdmin})
}

// DeleteUser removes a user record. The console confirms before
// calling.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Store.Delete(ctx, UsersCollection, ps.ByName("userid")); err != nil {
		log.Println("DeleteUser error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
