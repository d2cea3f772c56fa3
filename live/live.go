// Package live streams full result-set snapshots to websocket clients.
// Each connected screen holds one subscription; closing the socket
// cancels it. Late snapshots against a closed socket are dropped, not
// errors.
package live

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"kirana/cart"
	"kirana/livequery"
	"kirana/middleware"
	"kirana/models"
	"kirana/orders"
	"kirana/products"
	"kirana/store"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

type Handler struct {
	Hub   *livequery.Hub
	Store store.Store
}

// fetcher builds the per-screen query for a collection, or nil when the
// subscription is not allowed for this user.
func (h *Handler) fetcher(collection string, claims *middleware.Claims) livequery.FetchFunc {
	switch collection {
	case "products":
		return func(ctx context.Context) (interface{}, error) {
			var list []models.Product
			err := h.Store.Get(ctx, products.Collection, products.Query(), &list)
			return list, err
		}
	case "carts":
		return func(ctx context.Context) (interface{}, error) {
			var items []models.CartItem
			err := h.Store.Get(ctx, cart.Collection, cart.Query(claims.UserID), &items)
			return items, err
		}
	case "orders":
		return func(ctx context.Context) (interface{}, error) {
			var list []models.Order
			err := h.Store.Get(ctx, orders.Collection, orders.Query(claims.UserID), &list)
			return list, err
		}
	case "users":
		if !claims.IsAdmin {
			return nil
		}
		return func(ctx context.Context) (interface{}, error) {
			var users []models.User
			err := h.Store.Get(ctx, "users", store.Query{SortField: "createdAt", SortDesc: true}, &users)
			return users, err
		}
	}
	return nil
}

// Subscribe upgrades the connection and streams snapshots until the
// client goes away.
func (h *Handler) Subscribe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	claims, err := middleware.ValidateToken(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	collection := ps.ByName("collection")
	fetch := h.fetcher(collection, claims)
	if fetch == nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}

	sub := h.Hub.Subscribe(collection, fetch)

	go writePump(conn, sub)
	go readPump(conn, sub)
}

// writePump sends each snapshot as one JSON message.
func writePump(conn *websocket.Conn, sub *livequery.Subscription) {
	defer conn.Close()
	for {
		select {
		case snapshot, ok := <-sub.Updates():
			if !ok {
				return
			}
			if err := conn.WriteJSON(snapshot); err != nil {
				sub.Cancel()
				return
			}
		case err := <-sub.Errors():
			// Query failure ends the stream; the client decides whether
			// to reconnect.
			log.Println("live query error:", err)
			sub.Cancel()
			return
		}
	}
}

// readPump discards client frames and cancels on disconnect.
func readPump(conn *websocket.Conn, sub *livequery.Subscription) {
	defer func() {
		sub.Cancel()
		conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
