package operations

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/aristath/trading-journal/internal/auth"
)

// Handlers contains HTTP handlers for the variable-risk operations API
type Handlers struct {
	repo *Repository
	log  zerolog.Logger
}

// NewHandlers creates operations handlers
func NewHandlers(repo *Repository, log zerolog.Logger) *Handlers {
	return &Handlers{
		repo: repo,
		log:  log.With().Str("handler", "operations").Logger(),
	}
}

// HandleList returns all operations of the caller
// GET /api/operations
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ops, err := h.repo.ListByOwner(ownerID)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list operations")
		http.Error(w, "Failed to list operations", http.StatusInternalServerError)
		return
	}
	if ops == nil {
		ops = []Operation{}
	}

	h.writeJSON(w, http.StatusOK, ops)
}

// HandleCreate stores a new operation
// POST /api/operations
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var op Operation
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	op.ID = 0 // never trust a client-supplied id
	op.OwnerID = ownerID
	op.SourceCollection = ""
	op.SourceID = ""

	if err := op.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.repo.Insert(&op); err != nil {
		h.log.Error().Err(err).Msg("Failed to create operation")
		http.Error(w, "Failed to create operation", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusCreated, op)
}

// HandleUpdate rewrites an existing operation
// PUT /api/operations/{id}
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

	var op Operation
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

	if err := h.repo.Update(&op); err != nil {
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to update operation")
		http.Error(w, "Failed to update operation", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, op)
}

// HandleDelete removes one operation
// DELETE /api/operations/{id}
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

	if err := h.repo.Delete(ownerID, id); err != nil {
		h.log.Error().Err(err).Int64("id", id).Msg("Failed to delete operation")
		http.Error(w, "Failed to delete operation", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// HandleDeleteAll removes every operation of the caller
// DELETE /api/operations
func (h *Handlers) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := auth.OwnerID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.repo.DeleteAll(ownerID); err != nil {
		h.log.Error().Err(err).Msg("Failed to delete operations")
		http.Error(w, "Failed to delete operations", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
