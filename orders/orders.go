// Package orders serves per-user order history. Orders are immutable
// snapshots written at checkout; status changes arrive from the
// fulfillment side and are only ever read here.
package orders

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"kirana/models"
	"kirana/store"
	"kirana/utils"
)

const Collection = "orders"

type Handler struct {
	Store store.Store
}

// Query selects one user's orders, newest first. Ordering is the
// store's job; consumers must not re-sort.
func Query(userID string) store.Query {
	return store.Query{
		Filter:    store.Fields{"userId": userID},
		SortField: "createdAt",
		SortDesc:  true,
	}
}

// StatusColor maps an order status to its display color.
func StatusColor(status string) string {
	switch status {
	case models.OrderPending:
		return "#FFA000"
	case models.OrderProcessing:
		return "#1976D2"
	case models.OrderCompleted:
		return "#2E7D32"
	case models.OrderCancelled:
		return "#D32F2F"
	default:
		return "#9E9E9E"
	}
}

// GetOrders returns the authenticated user's order history.
func (h *Handler) GetOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var list []models.Order
	if err := h.Store.Get(ctx, Collection, Query(userID), &list); err != nil {
		log.Println("GetOrders error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve orders")
		return
	}
	if list == nil {
		list = []models.Order{}
	}

	utils.RespondWithJSON(w, http.StatusOK, list)
}

// findOrder fetches one of the user's orders by order id.
func (h *Handler) findOrder(ctx context.Context, userID, orderID string) (models.Order, bool, error) {
	var list []models.Order
	q := store.Query{Filter: store.Fields{"userId": userID, "orderId": orderID}}
	if err := h.Store.Get(ctx, Collection, q, &list); err != nil {
		return models.Order{}, false, err
	}
	if len(list) == 0 {
		return models.Order{}, false, nil
	}
	return list[0], true, nil
}
