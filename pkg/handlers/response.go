package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/de-tools/macro-atlas/pkg/models/api"
	"github.com/rs/zerolog"
)

func WriteJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func WriteError(w http.ResponseWriter, r *http.Request, status int, message string) {
	WriteJSON(w, r, status, api.Error{Error: message})
}
