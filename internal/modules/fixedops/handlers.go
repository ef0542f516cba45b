package fixedops

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/trading-journal/internal/auth"
)

// Handlers contains HTTP handlers for the fixed-risk operations API
type Handlers struct {
	service *Service
	log     zerolog.Logger
}

// NewHandlers creates fixed operations handlers
func NewHandlers(service *Service, log zerolog.Logger) *Handlers {
	return &Handlers{
		service: service,
		log:     log.With().Str("handler", "fixedops").Logger(),
	}
}

// HandleList returns all fixed-risk operations of the caller
// GET /api/fixed-operations
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ops, err := h.service.Repository().ListByOwner(ownerID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list fixed operations")
		http.Error(w, "Failed to list fixed operations", http.StatusInternalServerError)
		return
	}
	if ops == nil {
		ops = []FixedOperation{}
	}

	h.writeJSON(w, http.StatusOK, ops)
}

// HandleCreate stores a new fixed-risk operation and cross-posts it
// POST /api/fixed-operations
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var op FixedOperation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	op.ID = 0
	op.OwnerID = ownerID

	if err := op.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Create(&op); err != nil {
		h.log.Error().Err(err).Msg("Failed to create fixed operation")
		http.Error(w, "Failed to create fixed operation", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, op)
}

// HandleUpdate rewrites an existing fixed-risk operation
// PUT /api/fixed-operations/{id}
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid operation id", http.StatusBadRequest)
		return
	}

	var op FixedOperation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	op.ID = id
	op.OwnerID = ownerID

	if err := op.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Update(&op); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to update fixed operation")
		http.Error(w, "Failed to update fixed operation", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, op)
}

// HandleDelete removes one fixed-risk operation and its cross-posted copy
// DELETE /api/fixed-operations/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid operation id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(ownerID, id); err != nil {
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to delete fixed operation")
		http.Error(w, "Failed to delete fixed operation", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleDeleteAll removes every fixed-risk operation of the caller
// DELETE /api/fixed-operations
func (h *Handlers) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.service.DeleteAll(ownerID); err != nil {
		h.log.Error().Err(err).Msg("Failed to delete fixed operations")
		http.Error(w, "Failed to delete fixed operations", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleSummary returns the win/loss breakdown of this collection alone
// GET /api/fixed-operations/stats
func (h *Handlers) HandleSummary(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	summary, err := h.service.Repository().Summarize(ownerID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to summarize fixed operations")
		http.Error(w, "Failed to summarize fixed operations", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, summary)
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
