// Package auth issues and revokes identity tokens. The rest of the
// service never reaches into a session: it consumes the explicit user
// id the middleware extracts from the token.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"

	"kirana/globals"
	"kirana/middleware"
	"kirana/models"
	"kirana/rdx"
	"kirana/store"
	"kirana/utils"
)

const UsersCollection = "users"

const tokenTTL = 12 * time.Hour

type Handler struct {
	Store store.Store
}

func (h *Handler) findByEmail(ctx context.Context, email string) (models.User, bool, error) {
	var list []models.User
	q := store.Query{Filter: store.Fields{"email": email}}
	if err := h.Store.Get(ctx, UsersCollection, q, &list); err != nil {
		return models.User{}, false, err
	}
	if len(list) == 0 {
		return models.User{}, false, nil
	}
	return list[0], true, nil
}

func issueToken(user models.User) (string, error) {
	claims := &middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		IsAdmin:  user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// Register creates a user account and its user document.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Name == "" || input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}

	_, exists, err := h.findByEmail(ctx, input.Email)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if exists {
		utils.RespondWithError(w, http.StatusConflict, "User already exists")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("Failed to hash password for %s: %v", input.Email, err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	user := models.User{
		UserID:    "u" + utils.GenerateRandomString(10),
		Username:  input.Email,
		Name:      input.Name,
		Email:     input.Email,
		Phone:     input.Phone,
		Password:  string(hashed),
		IsAdmin:   false,
		CreatedAt: time.Now(),
	}

	if err := h.Store.Set(ctx, UsersCollection, user.UserID, user); err != nil {
		log.Println("Register error:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	if err := rdx.RdxSet(fmt.Sprintf("users:%s", user.UserID), user.Email); err != nil {
		log.Printf("Failed to cache user %s: %v", user.UserID, err)
	}

	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"userid": user.UserID})
}

// Login verifies credentials and returns a signed token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, found, err := h.findByEmail(ctx, input.Email)
	if err != nil || !found {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	tokenString, err := issueToken(user)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"token":   tokenString,
		"userid":  user.UserID,
		"isAdmin": user.IsAdmin,
	})
}

// Logout drops the cached session entry; token expiry does the rest.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := rdx.RdxDel(fmt.Sprintf("users:%s", userID)); err != nil {
		log.Printf("Failed to drop cached user %s: %v", userID, err)
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
