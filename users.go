package main

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type userSummary struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (a *api) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := a.store.FindByID(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			errorJSON(w, http.StatusNotFound, "User not found")
			return
		}
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    userSummary{Name: user.DisplayName(), Email: user.Email},
	})
}

func (a *api) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.store.ListUsers(r.Context())
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	out := make([]userSummary, 0, len(users))
	for i := range users {
		u := &users[i]
		out = append(out, userSummary{ID: u.ID, Name: u.DisplayName(), Email: u.Email})
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func (a *api) handleUserByID(w http.ResponseWriter, r *http.Request) {
	user, err := a.store.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			errorJSON(w, http.StatusNotFound, "User not found")
			return
		}
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    userSummary{Name: user.DisplayName(), Email: user.Email},
	})
}
