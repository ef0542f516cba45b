package ledger

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/aristath/trading-journal/internal/auth"
)

const defaultRecentLimit = 5

// Handlers contains the HTTP handlers for the merged ledger API
type Handlers struct {
	service *Service
	log     zerolog.Logger
}

// NewHandlers creates ledger handlers
func NewHandlers(service *Service, log zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		log:     log.With().Str("handler", "ledger").Logger(),
	}
}

// HandleGetLedger returns the merged, deduplicated ledger
// GET /api/ledger?sort=asc|desc&limit=N
func (h *Handlers) HandleGetLedger(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	opts := ListOptions{SortOrder: "desc"}
	if sortParam := r.URL.Query().Get("sort"); sortParam == "asc" {
		opts.SortOrder = "asc"
	}
	if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
		if parsed, err := strconv.Atoi(limitParam); err == nil && parsed > 0 {
			opts.Limit = parsed
		}
	}

	entries, report, err := h.service.BuildLedger(r.Context(), ownerID, opts)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build ledger")
		http.Error(w, "Failed to build ledger", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, map[string]interface{}{
		"entries":         entries,
		"skippedRows":     report.SkippedRows,
		"degradedSources": report.Degraded,
	})
}

// HandleGetStats returns the aggregate statistics
// GET /api/stats?recentLimit=N
func (h *Handlers) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	recentLimit := defaultRecentLimit
	if limitParam := r.URL.Query().Get("recentLimit"); limitParam != "" {
		if parsed, err := strconv.Atoi(limitParam); err == nil {
			recentLimit = parsed
		}
	}

	stats, report, err := h.service.BuildStatistics(r.Context(), ownerID, StatsOptions{RecentLimit: recentLimit})
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build statistics")
		http.Error(w, "Failed to build statistics", http.StatusBadGateway)
		return
	}

	response := struct {
		Stats
		SkippedRows     int      `json:"skippedRows"`
		DegradedSources []string `json:"degradedSources,omitempty"`
	}{
		Stats:           stats,
		SkippedRows:     report.SkippedRows,
		DegradedSources: report.Degraded,
	}

	h.writeJSON(w, response)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
