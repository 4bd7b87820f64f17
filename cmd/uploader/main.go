package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/christran/create-2block-app-sub000/internal/uploader"
)

// Command-line front for the upload client controller: plans a batch against
// the orchestrator, streams the bytes directly to storage, and confirms each
// finished file.
func main() {
	var (
		serverURL   string
		token       string
		prefix      string
		concurrency int
		maxFileSize int64
	)

	flag.StringVar(&serverURL, "server", "http://localhost:8080", "Orchestrator base URL")
	flag.StringVar(&token, "token", "", "Bearer token")
	flag.StringVar(&prefix, "prefix", "uploads/", "Storage key prefix")
	flag.IntVar(&concurrency, "concurrency", 3, "Maximum concurrently uploading parts")
	flag.Int64Var(&maxFileSize, "max-file-size", 1000<<20, "Per-file size limit sent with the plan request")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if token == "" {
		logger.Error("-token is required")
		os.Exit(1)
	}
	paths := flag.Args()
	if len(paths) == 0 {
		logger.Error("no files given")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, serverURL, token, prefix, concurrency, maxFileSize, paths, logger); err != nil {
		logger.Error("upload failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, serverURL, token, prefix string, concurrency int, maxFileSize int64, paths []string, logger *slog.Logger) error {
	api := uploader.NewClient(serverURL, token, &http.Client{Timeout: 10 * time.Minute})
	controller := uploader.NewController(api, nil, uploader.Config{Concurrency: concurrency}, logger)

	req := uploader.PlanRequest{
		AllowedFileTypes: allowedTypesFor(paths),
		MaxFileSize:      maxFileSize,
	}
	handles := make(map[string]*os.File, len(paths))
	sizes := make(map[string]int64, len(paths))
	defer func() {
		for _, f := range handles {
			f.Close()
		}
	}()

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		info, err := f.Stat()
		if err != nil {
			f.Close()
			return fmt.Errorf("failed to stat %s: %w", path, err)
		}
		name := filepath.Base(path)
		handles[name] = f
		sizes[name] = info.Size()
		req.Files = append(req.Files, uploader.PlanFile{
			Prefix:      prefix,
			Filename:    name,
			ContentType: contentTypeFor(name),
			FileSize:    info.Size(),
		})
	}

	plans, err := api.PlanUploads(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to plan uploads: %w", err)
	}

	var started []uuid.UUID
	for _, plan := range plans {
		if plan.Error != "" {
			logger.Error("file rejected", "filename", plan.Filename, "error", plan.Error)
			continue
		}
		if err := controller.Start(ctx, plan, handles[plan.Filename], sizes[plan.Filename]); err != nil {
			logger.Error("failed to start transfer", "filename", plan.Filename, "error", err)
			continue
		}
		logger.Info("transfer started", "filename", plan.Filename, "id", plan.ID.String(), "multipart", plan.Multipart)
		started = append(started, plan.ID)
	}
	if len(started) == 0 {
		return fmt.Errorf("no transfers started")
	}

	return waitForTransfers(ctx, controller, started, logger)
}

func waitForTransfers(ctx context.Context, controller *uploader.Controller, ids []uuid.UUID, logger *slog.Logger) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	pending := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		pending[id] = struct{}{}
	}

	failures := 0
	for len(pending) > 0 {
		select {
		case <-ctx.Done():
			for id := range pending {
				if err := controller.Cancel(context.Background(), id); err != nil {
					logger.Error("failed to cancel transfer", "id", id.String(), "error", err)
				}
			}
			return ctx.Err()
		case <-ticker.C:
			for id := range pending {
				uploaded, total, state, err := controller.Progress(id)
				if err != nil {
					delete(pending, id)
					continue
				}
				switch state {
				case uploader.StateCompleted:
					logger.Info("transfer completed", "id", id.String())
					delete(pending, id)
				case uploader.StateFailed:
					logger.Error("transfer failed", "id", id.String())
					failures++
					delete(pending, id)
				default:
					percent := 0.0
					if total > 0 {
						percent = float64(uploaded) / float64(total) * 100
					}
					logger.Info("transfer progress", "id", id.String(), "state", string(state), "percent", fmt.Sprintf("%.1f", percent))
				}
			}
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d transfer(s) failed", failures)
	}
	return nil
}

func contentTypeFor(filename string) string {
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		// strip mime parameters like charset
		if base, _, err := mime.ParseMediaType(byExt); err == nil {
			return base
		}
	}
	return "application/octet-stream"
}

func allowedTypesFor(paths []string) map[string][]string {
	allowed := make(map[string][]string)
	for _, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		contentType := contentTypeFor(filepath.Base(path))
		found := false
		for _, known := range allowed[contentType] {
			if known == ext {
				found = true
				break
			}
		}
		if !found {
			allowed[contentType] = append(allowed[contentType], ext)
		}
	}
	return allowed
}
