package models

// DocumentStatus is the ingestion lifecycle state of an uploaded document.
// Transitions are driven only by backend polling reads, never inferred locally:
// uploaded -> processing -> {completed | failed}
type DocumentStatus string

const (
	DocumentStatusUploaded   DocumentStatus = "uploaded"
	DocumentStatusProcessing DocumentStatus = "processing"
	DocumentStatusCompleted  DocumentStatus = "completed"
	DocumentStatusFailed     DocumentStatus = "failed"
)

// Terminal reports whether no further status transitions are expected
func (s DocumentStatus) Terminal() bool {
	return s == DocumentStatusCompleted || s == DocumentStatusFailed
}

// Document is the locally cached view of an uploaded document.
// ID is the backend-assigned content hash.
type Document struct {
	ID            string         `json:"doc_id"`
	Filename      string         `json:"filename"`
	Status        DocumentStatus `json:"status"`
	Size          *int64         `json:"size,omitempty"`
	UploadedBytes *int64         `json:"uploaded_bytes,omitempty"`
	Chunks        *int           `json:"chunks,omitempty"`
}

// DocumentStats is the aggregated view over the document cache
type DocumentStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Processing int `json:"processing"`
	Failed     int `json:"failed"`
	Chunks     int `json:"chunks"` // Sum of indexed chunks across completed documents
}
