package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase/core"
)

type contextKey string

const CurrentUserKey contextKey = "currentUser"

// AnonymousUser is recorded when a request names no user.
const AnonymousUser = "anonymous"

// GetCurrentUser extracts the acting user from the request context.
func GetCurrentUser(r *http.Request) string {
	if val, ok := r.Context().Value(CurrentUserKey).(string); ok && val != "" {
		return val
	}
	return AnonymousUser
}

// CurrentUserMiddleware reads the acting user from the X-Desk-User header,
// falling back to the "desk_user" cookie, and stores it in the request
// context. The value is recorded on quotations, overrides and activity
// entries; it is not an authentication check.
func CurrentUserMiddleware() func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		user := strings.TrimSpace(e.Request.Header.Get("X-Desk-User"))
		if user == "" {
			if cookie, err := e.Request.Cookie("desk_user"); err == nil {
				user = strings.TrimSpace(cookie.Value)
			}
		}
		if user == "" {
			user = AnonymousUser
		}

		ctx := context.WithValue(e.Request.Context(), CurrentUserKey, user)
		e.Request = e.Request.WithContext(ctx)
		return e.Next()
	}
}
