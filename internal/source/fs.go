package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FS reads a dataset laid out on local disk:
//
//	<root>/<index file>
//	<root>/<study folder>/<file>
type FS struct {
	root      string
	indexFile string
}

// NewFS creates a filesystem source
func NewFS(root, indexFile string) *FS {
	return &FS{root: root, indexFile: indexFile}
}

func (s *FS) Name() string { return "fs" }

// Root returns the dataset directory
func (s *FS) Root() string { return s.root }

func (s *FS) ReadIndex(ctx context.Context) ([]byte, error) {
	return s.read(ctx, s.indexFile)
}

func (s *FS) Open(ctx context.Context, folder, file string) ([]byte, error) {
	rel, err := objectKey("", folder, file)
	if err != nil {
		return nil, err
	}
	return s.read(ctx, rel)
}

func (s *FS) read(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(rel)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", rel, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rel, err)
	}
	return data, nil
}
