package utils

import (
	rndm "math/rand"
	"net/http"

	"kirana/globals"
)

var letterRunes = []rune("abcdefghijklmnopqrstuvwxyz0123456789_ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomString creates a random alphanumeric string of length n.
func GenerateRandomString(n int) string {
	b := make([]rune, n)
	for i := range b {
		b[i] = letterRunes[rndm.Intn(len(letterRunes))]
	}
	return string(b)
}

// GetUserIDFromRequest returns the authenticated user id set by the
// Authenticate middleware, or "" when the request is anonymous.
func GetUserIDFromRequest(r *http.Request) string {
	ctx := r.Context()
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

// IsAdminRequest reports whether the Authenticate middleware marked the
// request's user as an admin.
func IsAdminRequest(r *http.Request) bool {
	isAdmin, ok := r.Context().Value(globals.AdminKey).(bool)
	return ok && isAdmin
}
