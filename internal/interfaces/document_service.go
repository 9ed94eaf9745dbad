package interfaces

import (
	"context"
	"io"

	"github.com/ternarybob/rogo/internal/models"
)

// UploadRequest describes a file handed to the document tracker
type UploadRequest struct {
	Filename    string
	ContentType string // Declared MIME type, may be empty
	Size        int64
	Reader      io.Reader
	Progress    ProgressFunc // Optional observer for fractional progress [0,100]
}

// DocumentService tracks the asynchronous lifecycle of uploaded documents
type DocumentService interface {
	// Upload validates locally (PDF type, size ceiling) without any network
	// call, then streams the upload and registers the returned document
	Upload(ctx context.Context, req *UploadRequest) (*models.Document, error)

	// Delete removes the document server-side, then forces an immediate poll
	Delete(ctx context.Context, docID string) error

	// Poll performs a full list fetch, replaces the local cache wholesale
	// and returns the aggregated view
	Poll(ctx context.Context) (*models.DocumentStats, error)

	// Refresh fetches one document's status and folds it into the cache
	// without touching the other entries
	Refresh(ctx context.Context, docID string) (*models.Document, error)

	// Documents returns the cached document snapshot
	Documents() []*models.Document

	// Stats returns the aggregated view over the cached snapshot
	Stats() models.DocumentStats

	// Start launches the background polling loop; Stop halts it
	Start()
	Stop()
}
