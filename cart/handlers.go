package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"kirana/models"
	"kirana/utils"
)

type Handler struct {
	Mutator *Mutator
}

// GetCart returns all cart items for the user.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	items, err := h.Mutator.Items(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		log.Println("GetCart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, items)
}

// AddToCart upserts a cart line for the posted product.
func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		Product  models.Product `json:"product"`
		Quantity int            `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if payload.Product.ProductID == "" || payload.Product.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	err := h.Mutator.SetItem(ctx, userID, payload.Product, payload.Quantity)
	switch {
	case errors.Is(err, ErrNoUser):
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, ErrBadQuantity):
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid quantity")
	case err != nil:
		log.Println("AddToCart error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to add to cart")
	default:
		utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"status": "added"})
	}
}

// UpdateQuantity overwrites one line's quantity; zero removes the line.
func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var payload struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if err := h.Mutator.SetQuantity(ctx, userID, ps.ByName("itemid"), payload.Quantity); err != nil {
		if errors.Is(err, ErrNoUser) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		log.Println("UpdateQuantity error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// RemoveItem deletes one line from the cart.
func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	if err := h.Mutator.RemoveItem(ctx, userID, ps.ByName("itemid")); err != nil {
		if errors.Is(err, ErrNoUser) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		log.Println("RemoveItem error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to update cart")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
