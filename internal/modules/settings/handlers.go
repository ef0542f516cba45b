package settings

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// Handlers contains HTTP handlers for the settings API
type Handlers struct {
	service *Service
	log     zerolog.Logger
}

// NewHandlers creates settings handlers
func NewHandlers(service *Service, log zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		log:     log.With().Str("handler", "settings").Logger(),
	}
}

// HandleGetInitialCapital returns the current capital baseline
// GET /api/settings/initial-capital
func (h *Handlers) HandleGetInitialCapital(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]float64{
		"initialCapital": h.service.InitialCapital(),
	})
}

// HandleSetInitialCapital stores a new capital baseline
// PUT /api/settings/initial-capital
func (h *Handlers) HandleSetInitialCapital(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		InitialCapital float64 `json:"initialCapital"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.service.SetInitialCapital(payload.InitialCapital); err != nil {
		h.log.Error().Err(err).Msg("Failed to store capital baseline")
		http.Error(w, "Failed to store capital baseline", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]float64{
		"initialCapital": payload.InitialCapital,
	})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
