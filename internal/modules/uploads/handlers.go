package uploads

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
)

// Handlers contains the HTTP handler for attachment uploads
type Handlers struct {
	store    ObjectStore
	maxBytes int64
	log      zerolog.Logger
}

// NewHandlers creates upload handlers
func NewHandlers(store ObjectStore, maxBytes int64, log zerolog.Logger) *Handlers {
	return &Handlers{
		store:    store,
		maxBytes: maxBytes,
		log:      log.With().Str("handler", "uploads").Logger(),
	}
}

// HandleUpload stores a multipart attachment and returns its public URL
// POST /api/uploads
func (h *Handlers) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		http.Error(w, "Uploads are not configured", http.StatusServiceUnavailable)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "File too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "No file provided", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.store.Upload(r.Context(), header.Filename, contentType, file)
	if err != nil {
		h.log.Error().Err(err).Str("filename", header.Filename).Msg("Failed to upload attachment")
		http.Error(w, "Failed to upload attachment", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]string{"url": url}); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
