package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// Client talks to the upload orchestrator's HTTP API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new orchestrator API client
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: httpClient,
	}
}

// PlanRequest is the batch plan request body
type PlanRequest struct {
	Files            []PlanFile          `json:"files"`
	AllowedFileTypes map[string][]string `json:"allowedFileTypes"`
	MaxFileSize      int64               `json:"maxFileSize"`
}

// PlanFile describes one file in a batch plan request
type PlanFile struct {
	Prefix      string `json:"prefix"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	FileSize    int64  `json:"fileSize"`
}

// Plan is one file's upload plan as returned by the orchestrator
type Plan struct {
	ID            uuid.UUID `json:"id"`
	Filename      string    `json:"filename"`
	Multipart     bool      `json:"multipart"`
	URL           string    `json:"url,omitempty"`
	UploadID      string    `json:"uploadId,omitempty"`
	PresignedURLs []string  `json:"presignedUrls,omitempty"`
	ChunkSize     int64     `json:"chunkSize,omitempty"`
	Error         string    `json:"error,omitempty"`
}

type planResponse struct {
	UploadResults []Plan `json:"uploadResults"`
}

type completeRequest struct {
	ID       string          `json:"id"`
	UploadID string          `json:"uploadId,omitempty"`
	Parts    []completedPart `json:"parts,omitempty"`
}

type completedPart struct {
	PartNumber int    `json:"partNumber"`
	ETag       string `json:"etag"`
}

type cancelRequest struct {
	ID       string `json:"id"`
	UploadID string `json:"uploadId,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// PlanUploads requests plans for a batch of files. Per-file failures come
// back inside the returned plans, not as an error.
func (c *Client) PlanUploads(ctx context.Context, req PlanRequest) ([]Plan, error) {
	var resp planResponse
	if err := c.post(ctx, "/api/v1/upload", req, &resp); err != nil {
		return nil, err
	}
	return resp.UploadResults, nil
}

// Complete confirms a finished upload. UploadID and parts are only set for
// multipart uploads.
func (c *Client) Complete(ctx context.Context, id uuid.UUID, uploadID string, parts []Part) error {
	req := completeRequest{ID: id.String(), UploadID: uploadID}
	for _, part := range parts {
		req.Parts = append(req.Parts, completedPart{PartNumber: part.Number, ETag: part.ETag})
	}
	return c.post(ctx, "/api/v1/upload/complete", req, nil)
}

// Cancel abandons an upload and releases provider-side reserved storage.
func (c *Client) Cancel(ctx context.Context, id uuid.UUID, uploadID string) error {
	return c.post(ctx, "/api/v1/upload/cancel", cancelRequest{ID: id.String(), UploadID: uploadID}, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.asError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response from %s: %w", path, err)
		}
	}
	return nil
}

func (c *Client) asError(resp *http.Response) error {
	var body errorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&body)

	switch resp.StatusCode {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: retry after %s", domain.ErrRateLimited, resp.Header.Get("X-RateLimit-Reset"))
	case http.StatusNotFound:
		return fmt.Errorf("%s: %w", body.Error, domain.ErrSessionNotFound)
	default:
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
	}
}
