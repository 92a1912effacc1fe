package main

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const ctxUserID ctxKey = "auth_user_id"

// userIDFrom returns the authenticated user id injected by requireAuth.
func userIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

// tokenFromRequest extracts the session token. The cookie takes precedence;
// the Authorization: Bearer header covers non-browser clients.
func (a *api) tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(a.cfg.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// requireAuth gates protected routes: no token, bad signature, expired token,
// or a subject that no longer resolves to a user all end the chain with 401.
// Downstream handlers only see the user id; they re-fetch the user if they
// need more.
func (a *api) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := a.tokenFromRequest(r)
		if raw == "" {
			errorJSON(w, http.StatusUnauthorized, "No token provided")
			return
		}

		claims, err := a.tokens.Parse(raw)
		if err != nil || claims.UserID == "" {
			errorJSON(w, http.StatusUnauthorized, "Please authenticate")
			return
		}

		user, err := a.store.FindByID(r.Context(), claims.UserID)
		if err != nil {
			errorJSON(w, http.StatusUnauthorized, "Please authenticate")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserID, user.ID)))
	})
}
