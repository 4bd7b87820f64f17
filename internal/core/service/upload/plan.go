package upload

import (
	"github.com/christran/create-2block-app-sub000/internal/config"
	"github.com/christran/create-2block-app-sub000/internal/core/domain"
)

// ComputeChunkPlan splits a file into parts. The chunk size targets
// cfg.TargetParts parts, clamped to the provider's per-part bounds; when that
// would still exceed the provider's part-count ceiling the chunk size is
// recomputed so the plan never exceeds cfg.MaxParts regardless of file size.
func ComputeChunkPlan(cfg config.UploadConfig, fileSize int64) domain.ChunkPlan {
	chunkSize := ceilDiv(fileSize, int64(cfg.TargetParts))
	if chunkSize < cfg.MinChunkSize {
		chunkSize = cfg.MinChunkSize
	}
	if chunkSize > cfg.MaxChunkSize {
		chunkSize = cfg.MaxChunkSize
	}

	totalParts := ceilDiv(fileSize, chunkSize)
	if totalParts > int64(cfg.MaxParts) {
		chunkSize = ceilDiv(fileSize, int64(cfg.MaxParts))
		totalParts = ceilDiv(fileSize, chunkSize)
	}

	return domain.ChunkPlan{ChunkSize: chunkSize, TotalParts: int(totalParts)}
}

func ceilDiv(a, b int64) int64 {
	return (a + b - 1) / b
}
