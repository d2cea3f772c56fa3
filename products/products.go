// Package products manages the catalog. Create, update and delete are
// admin-only; browsing and search are public.
package products

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"kirana/models"
	"kirana/store"
	"kirana/utils"
)

const Collection = "products"

type Handler struct {
	Store store.Store
}

// Query selects the whole catalog, newest first.
func Query() store.Query {
	return store.Query{SortField: "createdAt", SortDesc: true}
}

// Filter is the search derivation: case-insensitive substring match
// over the product name. Pure; never mutates the input slice.
func Filter(list []models.Product, query string) []models.Product {
	if query == "" {
		return list
	}
	q := strings.ToLower(query)
	out := make([]models.Product, 0, len(list))
	for _, p := range list {
		if strings.Contains(strings.ToLower(p.Name), q) {
			out = append(out, p)
		}
	}
	return out
}

// GetProducts lists the catalog, optionally filtered by ?q= search.
func (h *Handler) GetProducts(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var list []models.Product
	if err := h.Store.Get(ctx, Collection, Query(), &list); err != nil {
		log.Println("GetProducts error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve products")
		return
	}
	if list == nil {
		list = []models.Product{}
	}

	utils.RespondWithJSON(w, http.StatusOK, Filter(list, r.URL.Query().Get("q")))
}

// GetProduct returns one product by id.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var list []models.Product
	q := store.Query{Filter: store.Fields{"productId": ps.ByName("productid")}}
	if err := h.Store.Get(ctx, Collection, q, &list); err != nil {
		log.Println("GetProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Could not retrieve product")
		return
	}
	if len(list) == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Product not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, list[0])
}

func decodeProduct(r *http.Request) (models.Product, bool) {
	var p models.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		return p, false
	}
	if p.Name == "" || p.Price < 0 || p.Stock < 0 {
		return p, false
	}
	return p, true
}

// CreateProduct adds a catalog entry. Name and a non-negative price are
// required.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, ok := decodeProduct(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields")
		return
	}
	p.ProductID = "p" + utils.GenerateRandomString(12)
	p.CreatedAt = time.Now()

	if err := h.Store.Set(ctx, Collection, p.ProductID, p); err != nil {
		log.Println("CreateProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save product")
		return
	}

	utils.RespondWithJSON(w, http.StatusCreated, p)
}

// UpdateProduct overwrites the editable fields of a product.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, ok := decodeProduct(r)
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing or invalid fields")
		return
	}

	id := ps.ByName("productid")
	fields := store.Fields{
		"name":        p.Name,
		"price":       p.Price,
		"description": p.Description,
		"category":    p.Category,
		"stock":       p.Stock,
		"imageUrl":    p.ImageURL,
	}
	if err := h.Store.Update(ctx, Collection, id, fields); err != nil {
		log.Println("UpdateProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save product")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteProduct removes a catalog entry.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := h.Store.Delete(ctx, Collection, ps.ByName("productid")); err != nil {
		log.Println("DeleteProduct error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
