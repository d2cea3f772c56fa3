package checkout

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"kirana/cart"
	"kirana/utils"
)

type Handler struct {
	Sequencer *Sequencer
	Cart      *cart.Mutator
}

// PlaceOrder reads the user's current cart and runs the checkout
// sequence against it.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	items, err := h.Cart.Items(ctx, userID)
	if err != nil {
		log.Println("PlaceOrder cart read error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not read cart")
		return
	}

	order, err := h.Sequencer.PlaceOrder(ctx, userID, items)
	switch {
	case errors.Is(err, ErrEmptyCart):
		utils.RespondWithError(w, http.StatusBadRequest, "Cart is empty")
	case err != nil:
		log.Println("PlaceOrder error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Order creation failed")
	default:
		utils.RespondWithJSON(w, http.StatusCreated, order)
	}
}
