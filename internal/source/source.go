// Package source reads the study index and per-study files from a dataset
// location: a local directory, an S3-compatible bucket or an HTTP server.
package source

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/clinops/trialpulse/pkg/config"
	"github.com/clinops/trialpulse/pkg/logger"
)

// ErrNotFound is returned when the index or a study file does not exist
var ErrNotFound = errors.New("source: object not found")

// Source is a read-only view of a dataset
type Source interface {
	// Name identifies the driver (fs, s3, http)
	Name() string

	// ReadIndex returns the raw study index JSON
	ReadIndex(ctx context.Context) ([]byte, error)

	// Open returns the raw bytes of a file inside a study folder
	Open(ctx context.Context, folder, file string) ([]byte, error)
}

// New builds the Source selected by cfg.Driver
func New(ctx context.Context, cfg config.DatasetConfig, log *logger.Logger) (Source, error) {
	switch cfg.Driver {
	case "", "fs":
		return NewFS(cfg.Root, cfg.IndexFile), nil
	case "s3":
		return NewS3(ctx, cfg.S3, cfg.IndexFile)
	case "http":
		return NewHTTP(cfg.Root, cfg.IndexFile, log), nil
	default:
		return nil, fmt.Errorf("unknown dataset driver %q", cfg.Driver)
	}
}

// objectKey joins key segments with "/" and rejects names escaping the root
func objectKey(prefix string, parts ...string) (string, error) {
	for _, p := range parts {
		if p == "" || p == "." || p == ".." || strings.ContainsAny(p, `/\`) {
			return "", fmt.Errorf("invalid path segment %q", p)
		}
	}
	key := path.Join(parts...)
	if prefix = strings.Trim(prefix, "/"); prefix != "" {
		key = prefix + "/" + key
	}
	return key, nil
}
