package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"codetutor/internal/config"
	"codetutor/internal/tutor"
)

// NewStoreFromConfig creates a ProjectStore implementation based on the
// store config type. SQLite stores are migrated to the latest schema
// before being returned.
func NewStoreFromConfig(ctx context.Context, cfg config.StoreConfig, clock tutor.Clock, idgen tutor.IDGenerator) (tutor.ProjectStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(clock, idgen), nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("sqlite store requires data_dir to be set")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
		s, err := NewSQLiteStore(filepath.Join(cfg.DataDir, "projects.db"), clock, idgen)
		if err != nil {
			return nil, err
		}
		if err := s.Migrate(); err != nil {
			s.Close()
			return nil, err
		}
		return s, nil
	case "s3":
		if cfg.S3Bucket == "" {
			return nil, fmt.Errorf("s3 store requires s3_bucket to be set")
		}
		return NewS3Store(ctx, S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		}, clock, idgen)
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
