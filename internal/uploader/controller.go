package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// Config bounds the controller's concurrency and retry behavior.
type Config struct {
	// Concurrency caps simultaneously uploading parts across all files.
	Concurrency int
	// MaxRetries bounds attempts per part for transient failures.
	MaxRetries int
	RetryDelay time.Duration
}

// Controller drives file bytes directly to storage using plans from the
// orchestrator. The server never proxies bytes; each part goes to its
// presigned URL.
type Controller struct {
	api        *Client
	httpClient *http.Client
	cfg        Config
	logger     *slog.Logger

	sem chan struct{}

	mu        sync.Mutex
	transfers map[uuid.UUID]*transfer
}

// NewController creates a new Controller
func NewController(api *Client, httpClient *http.Client, cfg Config, logger *slog.Logger) *Controller {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 3
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	return &Controller{
		api:        api,
		httpClient: httpClient,
		cfg:        cfg,
		logger:     logger,
		sem:        make(chan struct{}, cfg.Concurrency),
		transfers:  make(map[uuid.UUID]*transfer),
	}
}

// Start registers a transfer for the given plan and begins uploading in the
// background. Content must support ranged reads so parts can go up
// concurrently.
func (c *Controller) Start(ctx context.Context, plan Plan, content io.ReaderAt, size int64) error {
	if plan.Error != "" {
		return fmt.Errorf("plan for %q failed: %s", plan.Filename, plan.Error)
	}

	t := newTransfer(plan, content, size)

	c.mu.Lock()
	if _, exists := c.transfers[plan.ID]; exists {
		c.mu.Unlock()
		return fmt.Errorf("transfer %s already registered", plan.ID)
	}
	c.transfers[plan.ID] = t
	c.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	t.cancelFn = cancel
	go c.run(runCtx, t)
	return nil
}

// Pause stops scheduling new parts for the file. The in-flight part finishes.
func (c *Controller) Pause(id uuid.UUID) error {
	t, err := c.lookup(id)
	if err != nil {
		return err
	}
	if !t.transition(StateUploading, StatePaused) {
		return fmt.Errorf("transfer %s is not uploading", id)
	}
	return nil
}

// Resume restarts part scheduling for a paused file.
func (c *Controller) Resume(id uuid.UUID) error {
	t, err := c.lookup(id)
	if err != nil {
		return err
	}
	if !t.transition(StatePaused, StateUploading) {
		return fmt.Errorf("transfer %s is not paused", id)
	}
	return nil
}

// Cancel flips the transfer out of the active set first, then tells the
// orchestrator to abort the provider-side upload, then drops the entry.
func (c *Controller) Cancel(ctx context.Context, id uuid.UUID) error {
	t, err := c.lookup(id)
	if err != nil {
		return err
	}

	t.mu.Lock()
	if t.state.terminal() {
		state := t.state
		t.mu.Unlock()
		return fmt.Errorf("transfer %s already %s", id, state)
	}
	t.state = StateCancelled
	t.cond.Broadcast()
	t.mu.Unlock()

	if t.cancelFn != nil {
		t.cancelFn()
	}

	if err := c.api.Cancel(ctx, id, t.plan.UploadID); err != nil {
		c.logger.Error("failed to cancel upload server-side", "id", id.String(), "error", err)
		return err
	}

	c.mu.Lock()
	delete(c.transfers, id)
	c.mu.Unlock()
	return nil
}

// Retry re-queues a failed transfer from scratch.
func (c *Controller) Retry(ctx context.Context, id uuid.UUID) error {
	t, err := c.lookup(id)
	if err != nil {
		return err
	}
	if !t.transition(StateFailed, StateQueued) {
		return fmt.Errorf("transfer %s has not failed", id)
	}
	t.reset()

	runCtx, cancel := context.WithCancel(ctx)
	t.cancelFn = cancel
	go c.run(runCtx, t)
	return nil
}

// Progress reports uploaded bytes, total bytes and the current state.
func (c *Controller) Progress(id uuid.UUID) (uploaded, total int64, state State, err error) {
	t, lookupErr := c.lookup(id)
	if lookupErr != nil {
		return 0, 0, "", lookupErr
	}
	return t.uploaded.Load(), t.size, t.currentState(), nil
}

// State returns the transfer's current state.
func (c *Controller) State(id uuid.UUID) (State, error) {
	t, err := c.lookup(id)
	if err != nil {
		return "", err
	}
	return t.currentState(), nil
}

func (c *Controller) lookup(id uuid.UUID) (*transfer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.transfers[id]
	if !ok {
		return nil, fmt.Errorf("unknown transfer %s", id)
	}
	return t, nil
}

func (c *Controller) run(ctx context.Context, t *transfer) {
	if !t.transition(StateQueued, StateUploading) {
		return
	}

	var uploadErr error
	if t.plan.Multipart {
		uploadErr = c.uploadParts(ctx, t)
	} else {
		uploadErr = c.uploadSingle(ctx, t)
	}

	if t.currentState() == StateCancelled {
		return
	}

	if uploadErr != nil {
		c.logger.Error("transfer failed", "id", t.plan.ID.String(), "filename", t.plan.Filename, "error", uploadErr)
		t.transition(StateUploading, StateFailed)
		return
	}

	parts := t.completedParts()
	sort.Slice(parts, func(i, j int) bool { return parts[i].Number < parts[j].Number })

	uploadID := ""
	if t.plan.Multipart {
		uploadID = t.plan.UploadID
	}
	if err := c.api.Complete(ctx, t.plan.ID, uploadID, parts); err != nil {
		c.logger.Error("failed to confirm upload", "id", t.plan.ID.String(), "error", err)
		t.transition(StateUploading, StateFailed)
		return
	}

	t.transition(StateUploading, StateCompleted)
	c.logger.Info("transfer completed", "id", t.plan.ID.String(), "filename", t.plan.Filename, "bytes", t.uploaded.Load())
}

func (c *Controller) uploadSingle(ctx context.Context, t *transfer) error {
	_, err := c.putWithRetries(ctx, t, t.plan.URL, 0, t.size)
	if err != nil {
		return err
	}
	t.uploaded.Add(t.size)
	return nil
}

func (c *Controller) uploadParts(ctx context.Context, t *transfer) error {
	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error

	fail := func(err error) {
		errMu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		errMu.Unlock()
	}
	failed := func() bool {
		errMu.Lock()
		defer errMu.Unlock()
		return firstErr != nil
	}

	i := 0
	for i < len(t.plan.PresignedURLs) {
		if !t.awaitRunnable() || failed() {
			break
		}

		select {
		case c.sem <- struct{}{}:
		case <-ctx.Done():
			fail(ctx.Err())
		}
		if failed() {
			break
		}

		// a pause that landed while waiting for a slot must gate this part;
		// give the slot back so a paused file never starves other transfers
		if t.currentState() != StateUploading {
			<-c.sem
			continue
		}

		wg.Add(1)
		go func(partNumber int, url string) {
			defer wg.Done()
			defer func() { <-c.sem }()

			offset := int64(partNumber-1) * t.plan.ChunkSize
			length := t.plan.ChunkSize
			if remaining := t.size - offset; remaining < length {
				length = remaining
			}

			etag, err := c.putWithRetries(ctx, t, url, offset, length)
			if err != nil {
				fail(fmt.Errorf("part %d: %w", partNumber, err))
				return
			}
			t.addPart(Part{Number: partNumber, ETag: etag}, length)
		}(i+1, t.plan.PresignedURLs[i])
		i++
	}

	wg.Wait()
	return firstErr
}

// putWithRetries uploads one byte range to its presigned URL. Transient
// failures (network errors, 5xx) are retried a bounded number of times; a 403
// means the plan's URLs expired and the caller needs a fresh plan.
func (c *Controller) putWithRetries(ctx context.Context, t *transfer, url string, offset, length int64) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.cfg.RetryDelay * time.Duration(attempt)):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		etag, err := c.put(ctx, t, url, offset, length)
		if err == nil {
			return etag, nil
		}
		if !retryable(err) {
			return "", err
		}
		lastErr = err
		c.logger.Warn("part upload attempt failed", "id", t.plan.ID.String(), "attempt", attempt+1, "error", err)
	}
	return "", fmt.Errorf("%w: %w", domain.ErrTransientStorage, lastErr)
}

func (c *Controller) put(ctx context.Context, t *transfer, url string, offset, length int64) (string, error) {
	section := io.NewSectionReader(t.content, offset, length)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, section)
	if err != nil {
		return "", fmt.Errorf("failed to build part request: %w", err)
	}
	req.ContentLength = length

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &transientError{err}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return strings.Trim(resp.Header.Get("ETag"), `"`), nil
	case resp.StatusCode == http.StatusForbidden:
		return "", fmt.Errorf("presigned url rejected: %w", domain.ErrPlanExpired)
	case resp.StatusCode >= 500:
		return "", &transientError{fmt.Errorf("storage returned %d", resp.StatusCode)}
	default:
		return "", fmt.Errorf("storage returned %d", resp.StatusCode)
	}
}

type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }
func (e *transientError) Unwrap() error { return e.err }

func retryable(err error) bool {
	var transient *transientError
	return errors.As(err, &transient)
}
