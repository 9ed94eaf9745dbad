package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"

	"github.com/ternarybob/rogo/internal/interfaces"
	"github.com/ternarybob/rogo/internal/models"
)

// UploadDocument streams a PDF to the backend as a multipart upload.
// The body is buffered so a transport-level failure can be retried once with
// identical parameters; the upload size ceiling is enforced by the caller
// before this is reached. progress, when non-nil, observes fractional
// progress [0,100] as bytes are handed to the transport.
func (c *Client) UploadDocument(ctx context.Context, filename string, size int64, r io.Reader, progress interfaces.ProgressFunc) (*models.Document, error) {
	const path = "/documents/upload"

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &models.APIError{Message: "rate limiter interrupted: " + err.Error(), Endpoint: path}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart body: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("failed to read upload content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	bodyBytes := body.Bytes()
	contentType := writer.FormDataContentType()
	reqURL := c.baseURL + path

	resp, err := c.attempt(ctx, http.MethodPost, reqURL, bodyBytes, contentType, progress, int64(len(bodyBytes)))
	if err != nil {
		if c.logger != nil {
			c.logger.Debug().Str("filename", filename).Err(err).Msg("Upload failed without response, retrying once")
		}
		resp, err = c.attempt(ctx, http.MethodPost, reqURL, bodyBytes, contentType, progress, int64(len(bodyBytes)))
		if err != nil {
			c.notify(0)
			return nil, &models.APIError{Message: err.Error(), Endpoint: path}
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, c.errorFromResponse(resp, path)
	}

	var upload uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&upload); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}

	uploaded := size
	return &models.Document{
		ID:            upload.DocID,
		Filename:      upload.Filename,
		Status:        models.DocumentStatus(upload.Status),
		Size:          &size,
		UploadedBytes: &uploaded,
	}, nil
}

// ListDocuments fetches the full backend document listing.
func (c *Client) ListDocuments(ctx context.Context) ([]*models.Document, error) {
	var resp documentListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/documents/list", nil, nil, &resp); err != nil {
		return nil, err
	}

	docs := make([]*models.Document, 0, len(resp.Documents))
	for _, d := range resp.Documents {
		docs = append(docs, d.toModel())
	}
	return docs, nil
}

// DocumentStatus fetches the ingestion status of one document.
func (c *Client) DocumentStatus(ctx context.Context, docID string) (*models.Document, error) {
	query := url.Values{}
	query.Set("doc_id", docID)

	var resp documentStatusResponse
	if err := c.doJSON(ctx, http.MethodGet, "/documents/status", query, nil, &resp); err != nil {
		return nil, err
	}

	return &models.Document{
		ID:            resp.DocID,
		Status:        models.DocumentStatus(resp.Status),
		Size:          resp.Size,
		UploadedBytes: resp.UploadedBytes,
		Chunks:        resp.Chunks,
	}, nil
}

// DeleteDocument removes a document server-side.
func (c *Client) DeleteDocument(ctx context.Context, docID string) error {
	var resp documentDeleteResponse
	return c.doJSON(ctx, http.MethodDelete, "/documents/"+url.PathEscape(docID), nil, nil, &resp)
}
