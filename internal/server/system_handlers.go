package server

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/trading-journal/internal/database"
)

// SystemHandlers serves runtime diagnostics for the dashboard
type SystemHandlers struct {
	log       zerolog.Logger
	databases []*database.DB
	startedAt time.Time
}

// NewSystemHandlers creates system handlers
func NewSystemHandlers(log zerolog.Logger, databases []*database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:       log.With().Str("handler", "system").Logger(),
		databases: databases,
		startedAt: time.Now(),
	}
}

// HandleInfo returns process and host diagnostics
// GET /api/system/info
func (h *SystemHandlers) HandleInfo(w http.ResponseWriter, r *http.Request) {
	info := map[string]interface{}{
		"uptimeSeconds": int(time.Since(h.startedAt).Seconds()),
		"goroutines":    runtime.NumGoroutine(),
	}

	if cpuPercent, err := cpu.Percent(100*time.Millisecond, false); err == nil && len(cpuPercent) > 0 {
		info["cpuPercent"] = cpuPercent[0]
	}
	if memStat, err := mem.VirtualMemory(); err == nil {
		info["memoryUsedPercent"] = memStat.UsedPercent
	}

	dbSizes := make(map[string]int64, len(h.databases))
	for _, db := range h.databases {
		if db == nil {
			continue
		}
		size, err := db.Size()
		if err != nil {
			h.log.Warn().Err(err).Str("database", db.Name()).Msg("Failed to stat database")
			continue
		}
		dbSizes[db.Name()] = size
	}
	info["databaseSizes"] = dbSizes

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(info); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
