package documents

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/rogo/internal/common"
	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
)

// Tracker owns the local document cache and its background status polling.
// The poller only runs while at least one document is in a non-terminal
// state; with nothing in flight the ticker is released entirely and a new
// upload resumes it.
type Tracker struct {
	mu      sync.RWMutex
	backend interfaces.DocumentBackend
	storage interfaces.DocumentStorage
	events  interfaces.EventService
	logger  arbor.ILogger
	config  *common.DocumentsConfig

	docs     []*models.Document
	inflight map[string]models.DocumentStatus

	pollNow chan struct{}
	stop    chan struct{}
	done    chan struct{}
	running bool
}

// NewTracker creates a document tracker seeded from the persisted snapshot
func NewTracker(
	backend interfaces.DocumentBackend,
	storage interfaces.DocumentStorage,
	events interfaces.EventService,
	logger arbor.ILogger,
	config *common.DocumentsConfig,
) *Tracker {
	t := &Tracker{
		backend:  backend,
		storage:  storage,
		events:   events,
		logger:   logger,
		config:   config,
		inflight: make(map[string]models.DocumentStatus),
		pollNow:  make(chan struct{}, 1),
	}

	docs, err := storage.GetSnapshot()
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load document snapshot, starting empty")
	} else {
		t.docs = docs
		for _, doc := range docs {
			if !doc.Status.Terminal() {
				t.inflight[doc.ID] = doc.Status
			}
		}
	}

	logger.Debug().
		Int("documents", len(t.docs)).
		Int("in_flight", len(t.inflight)).
		Msg("Document tracker loaded")

	return t
}

// Upload validates the file locally, then streams it to the backend and
// registers the returned document. Validation failures never reach the
// network.
func (t *Tracker) Upload(ctx context.Context, req *interfaces.UploadRequest) (*models.Document, error) {
	if err := t.validate(req); err != nil {
		return nil, err
	}

	// Buffer the file so the size ceiling holds even when the declared size
	// is absent, and so the transport layer can replay the body on retry
	data, err := io.ReadAll(io.LimitReader(req.Reader, t.config.MaxFileBytes()+1))
	if err != nil {
		return nil, models.NewValidationError("Could not read file: %v", err)
	}
	if int64(len(data)) > t.config.MaxFileBytes() {
		return nil, models.NewValidationError("File too large. Maximum size is %dMB.", t.config.MaxFileSizeMB)
	}
	if len(data) == 0 {
		return nil, models.NewValidationError("File is empty.")
	}

	if t.config.StrictPDFCheck {
		if err := api.Validate(bytes.NewReader(data), model.NewDefaultConfiguration()); err != nil {
			return nil, models.NewValidationError("File is not a valid PDF.")
		}
	}

	progress := t.progressRelay(ctx, req)

	doc, err := t.backend.UploadDocument(ctx, req.Filename, int64(len(data)), bytes.NewReader(data), progress)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.upsertLocked(doc)
	t.persistLocked()
	t.mu.Unlock()

	t.publishStatus(ctx, doc)
	t.kick()

	t.logger.Info().
		Str("doc_id", doc.ID).
		Str("filename", doc.Filename).
		Str("status", string(doc.Status)).
		Msg("Document uploaded")

	return doc, nil
}

// Delete removes the document server-side, then forces an immediate poll so
// the cache reflects the deletion without waiting a full interval
func (t *Tracker) Delete(ctx context.Context, docID string) error {
	if strings.TrimSpace(docID) == "" {
		return models.NewValidationError("Document id is required.")
	}

	if err := t.backend.DeleteDocument(ctx, docID); err != nil {
		return err
	}

	t.logger.Info().Str("doc_id", docID).Msg("Document deleted")

	if _, err := t.Poll(ctx); err != nil {
		t.logger.Warn().Err(err).Msg("Post-delete poll failed")
	}
	return nil
}

// Poll fetches the full document list and replaces the cache wholesale.
// A fetch failure leaves the previous cache intact.
func (t *Tracker) Poll(ctx context.Context) (*models.DocumentStats, error) {
	docs, err := t.backend.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	transitions := t.replaceLocked(docs)
	t.persistLocked()
	stats := t.statsLocked()
	t.mu.Unlock()

	for _, doc := range transitions {
		t.publishStatus(ctx, doc)
	}

	return &stats, nil
}

// Refresh fetches one document's status and folds it into the cache. Unlike
// Poll it leaves every other entry untouched.
func (t *Tracker) Refresh(ctx context.Context, docID string) (*models.Document, error) {
	if strings.TrimSpace(docID) == "" {
		return nil, models.NewValidationError("Document id is required.")
	}

	doc, err := t.backend.DocumentStatus(ctx, docID)
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	changed := true
	for _, existing := range t.docs {
		if existing.ID != doc.ID {
			continue
		}
		changed = existing.Status != doc.Status
		// The status endpoint carries no filename; keep the cached one
		if doc.Filename == "" {
			doc.Filename = existing.Filename
		}
		break
	}
	t.upsertLocked(doc)
	t.persistLocked()
	t.mu.Unlock()

	if changed {
		t.publishStatus(ctx, doc)
	}

	clone := *doc
	return &clone, nil
}

// Documents returns the cached document snapshot
func (t *Tracker) Documents() []*models.Document {
	t.mu.RLock()
	defer t.mu.RUnlock()

	docs := make([]*models.Document, len(t.docs))
	for i, doc := range t.docs {
		clone := *doc
		docs[i] = &clone
	}
	return docs
}

// Stats returns the aggregated view over the cached snapshot
func (t *Tracker) Stats() models.DocumentStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.statsLocked()
}

// Start launches the background polling loop
func (t *Tracker) Start() {
	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	t.mu.Unlock()

	go t.run()
	t.kick()
}

// Stop halts the polling loop and waits for it to exit
func (t *Tracker) Stop() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	close(t.stop)
	done := t.done
	t.mu.Unlock()

	<-done
}

// run is the polling loop. The ticker exists only while documents are in
// flight; when the last one reaches a terminal state the ticker is dropped
// and the loop sleeps until kicked.
func (t *Tracker) run() {
	defer close(t.done)

	var ticker *time.Ticker
	var tick <-chan time.Time

	adjust := func() {
		if t.pending() > 0 {
			if ticker == nil {
				ticker = time.NewTicker(t.config.Interval())
				tick = ticker.C
				t.logger.Debug().Msg("Document polling resumed")
			}
		} else if ticker != nil {
			ticker.Stop()
			ticker = nil
			tick = nil
			t.logger.Debug().Msg("Document polling suspended")
		}
	}

	adjust()

	for {
		select {
		case <-t.stop:
			if ticker != nil {
				ticker.Stop()
			}
			return
		case <-t.pollNow:
			t.pollOnce()
			adjust()
		case <-tick:
			t.pollOnce()
			adjust()
		}
	}
}

func (t *Tracker) pollOnce() {
	if t.pending() == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.config.Interval()*2)
	defer cancel()

	if _, err := t.Poll(ctx); err != nil {
		t.logger.Warn().Err(err).Msg("Document status poll failed")
	}
}

// kick requests an immediate poll without blocking
func (t *Tracker) kick() {
	select {
	case t.pollNow <- struct{}{}:
	default:
	}
}

func (t *Tracker) pending() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.inflight)
}

// upsertLocked inserts or replaces a single document. Caller holds the lock.
func (t *Tracker) upsertLocked(doc *models.Document) {
	clone := *doc
	for i, existing := range t.docs {
		if existing.ID == doc.ID {
			t.docs[i] = &clone
			t.trackLocked(&clone)
			return
		}
	}
	t.docs = append(t.docs, &clone)
	t.trackLocked(&clone)
}

// replaceLocked swaps the cache for the fetched list and returns the
// documents that changed status since the previous snapshot. Caller holds
// the lock.
func (t *Tracker) replaceLocked(docs []*models.Document) []*models.Document {
	previous := make(map[string]models.DocumentStatus, len(t.docs))
	for _, doc := range t.docs {
		previous[doc.ID] = doc.Status
	}

	var transitions []*models.Document
	next := make([]*models.Document, len(docs))
	inflight := make(map[string]models.DocumentStatus)

	for i, doc := range docs {
		clone := *doc
		next[i] = &clone
		if !clone.Status.Terminal() {
			inflight[clone.ID] = clone.Status
		}
		if prev, seen := previous[clone.ID]; !seen || prev != clone.Status {
			transitions = append(transitions, &clone)
		}
	}

	t.docs = next
	t.inflight = inflight
	return transitions
}

func (t *Tracker) trackLocked(doc *models.Document) {
	if doc.Status.Terminal() {
		delete(t.inflight, doc.ID)
	} else {
		t.inflight[doc.ID] = doc.Status
	}
}

func (t *Tracker) persistLocked() {
	if err := t.storage.SaveSnapshot(t.docs); err != nil {
		t.logger.Warn().Err(err).Msg("Failed to persist document snapshot")
	}
}

func (t *Tracker) statsLocked() models.DocumentStats {
	stats := models.DocumentStats{Total: len(t.docs)}
	for _, doc := range t.docs {
		switch {
		case doc.Status == models.DocumentStatusCompleted:
			stats.Completed++
			if doc.Chunks != nil {
				stats.Chunks += *doc.Chunks
			}
		case doc.Status == models.DocumentStatusFailed:
			stats.Failed++
		default:
			stats.Processing++
		}
	}
	return stats
}

// validate runs the local checks that must reject a file before any network
// call: declared type, extension and declared size
func (t *Tracker) validate(req *interfaces.UploadRequest) error {
	if req == nil || req.Reader == nil {
		return models.NewValidationError("No file provided.")
	}
	name := strings.TrimSpace(req.Filename)
	if name == "" {
		return models.NewValidationError("Filename is required.")
	}
	if !strings.EqualFold(ext(name), ".pdf") {
		return models.NewValidationError("Only PDF files are supported.")
	}
	if req.ContentType != "" && !strings.EqualFold(req.ContentType, "application/pdf") {
		return models.NewValidationError("Only PDF files are supported.")
	}
	if req.Size > t.config.MaxFileBytes() {
		return models.NewValidationError("File too large. Maximum size is %dMB.", t.config.MaxFileSizeMB)
	}
	return nil
}

// progressRelay chains the caller's progress callback with an event so the
// UI bridge can stream upload progress
func (t *Tracker) progressRelay(ctx context.Context, req *interfaces.UploadRequest) interfaces.ProgressFunc {
	filename := req.Filename
	callback := req.Progress
	return func(percent float64) {
		if callback != nil {
			callback(percent)
		}
		_ = t.events.Publish(ctx, interfaces.Event{
			Type: interfaces.EventUploadProgress,
			Payload: map[string]interface{}{
				"filename": filename,
				"percent":  percent,
			},
		})
	}
}

func (t *Tracker) publishStatus(ctx context.Context, doc *models.Document) {
	_ = t.events.Publish(ctx, interfaces.Event{
		Type:    interfaces.EventDocumentStatus,
		Payload: doc,
	})
}

func ext(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}
