package handlers

import (
	"net/http"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/interfaces"
)

// DocumentHandler exposes the document lifecycle over the local UI bridge
type DocumentHandler struct {
	documentService interfaces.DocumentService
	logger          arbor.ILogger
	maxUploadBytes  int64
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(
	documentService interfaces.DocumentService,
	maxUploadBytes int64,
	logger arbor.ILogger,
) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		logger:          logger,
		maxUploadBytes:  maxUploadBytes,
	}
}

// UploadHandler handles POST /api/documents/upload (multipart form, field "file")
func (h *DocumentHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	// Allow one extra byte past the ceiling so oversized files fail with the
	// tracker's size message rather than a generic multipart error
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+(1<<20))

	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	doc, err := h.documentService.Upload(r.Context(), &interfaces.UploadRequest{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Reader:      file,
	})
	if err != nil {
		h.logger.Warn().Err(err).Str("filename", header.Filename).Msg("Upload rejected")
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, doc)
}

// ListHandler handles GET /api/documents
func (h *DocumentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": h.documentService.Documents(),
	})
}

// StatsHandler handles GET /api/documents/stats
func (h *DocumentHandler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, h.documentService.Stats())
}

// StatusHandler handles GET /api/documents/status?doc_id=, refreshing a
// single document from the backend
func (h *DocumentHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	doc, err := h.documentService.Refresh(r.Context(), r.URL.Query().Get("doc_id"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, doc)
}

// PollHandler handles POST /api/documents/poll, forcing an immediate refresh
func (h *DocumentHandler) PollHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "POST") {
		return
	}

	stats, err := h.documentService.Poll(r.Context())
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// DeleteHandler handles DELETE /api/documents/{id}
func (h *DocumentHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "DELETE") {
		return
	}

	docID := strings.TrimPrefix(r.URL.Path, "/api/documents/")
	if docID == "" || strings.Contains(docID, "/") {
		WriteError(w, http.StatusBadRequest, "Document id is required")
		return
	}

	if err := h.documentService.Delete(r.Context(), docID); err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteSuccess(w, "Document deleted")
}
