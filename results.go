package main

import (
	"errors"
	"net/http"
)

type appendResultReq struct {
	Name        string `json:"name"`
	Institution string `json:"institution"`
}

func (a *api) handleFetchResults(w http.ResponseWriter, r *http.Request) {
	userID := userIDFrom(r.Context())
	if _, err := a.store.FindByID(r.Context(), userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			errorJSON(w, http.StatusNotFound, "User not found")
			return
		}
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	results, err := a.store.ListResults(r.Context(), userID)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	out := make([]resultDTO, 0, len(results))
	for _, res := range results {
		out = append(out, toResultDTO(res))
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": out})
}

func (a *api) handleAppendResult(w http.ResponseWriter, r *http.Request) {
	var in appendResultReq
	if err := decodeJSON(r, &in); err != nil || in.Name == "" || in.Institution == "" {
		errorJSON(w, http.StatusBadRequest, "Missing fields")
		return
	}

	userID := userIDFrom(r.Context())
	res := &VerificationResult{
		UserID:      userID,
		Name:        in.Name,
		Institution: in.Institution,
		Date:        a.now().UTC(),
	}
	if err := a.store.AppendResult(r.Context(), res); err != nil {
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// Echo the updated user, sanitized: never the password hash.
	user, err := a.store.FindByID(r.Context(), userID)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	results, err := a.store.ListResults(r.Context(), userID)
	if err != nil {
		errorJSON(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	dtos := make([]resultDTO, 0, len(results))
	for _, rec := range results {
		dtos = append(dtos, toResultDTO(rec))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"id":          user.ID,
			"name":        user.DisplayName(),
			"email":       user.Email,
			"lastResults": dtos,
		},
	})
}
