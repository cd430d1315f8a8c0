package utils

import (
	"net/http"

	"freshcart/globals"
)

// GetSessionIDFromRequest returns the shopper session set by the session
// middleware, falling back to the default session.
func GetSessionIDFromRequest(r *http.Request) string {
	sessionID, ok := r.Context().Value(globals.SessionIDKey).(string)
	if !ok || sessionID == "" {
		return globals.DefaultSession
	}
	return sessionID
}
