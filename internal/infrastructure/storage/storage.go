// Package storage provides the document stores used for verification uploads.
package storage

import (
	"context"
	"fmt"

	"tutorlink.backend/internal/config"
	"tutorlink.backend/internal/domain/repositories"
)

// New picks the document store named by cfg.Driver
func New(ctx context.Context, cfg config.StorageConfig) (repositories.DocumentStore, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL)
	case "s3":
		return NewS3Store(ctx, S3Options{
			Bucket:        cfg.Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			PathStyle:     cfg.S3PathStyle,
			PublicBaseURL: s3PublicBase(cfg),
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// the local default base URL points at our own /files route, which is wrong for a bucket
func s3PublicBase(cfg config.StorageConfig) string {
	if cfg.PublicBaseURL == config.DefaultLocalPublicBaseURL {
		return ""
	}
	return cfg.PublicBaseURL
}
