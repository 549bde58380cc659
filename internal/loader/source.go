package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Source defines where the price table is read from.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
	Name() string
}

// FileSource reads the price table from a CSV file on disk.
type FileSource struct {
	Path string
}

// NewFileSource creates a Source for the given CSV path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Name() string { return "file:" + f.Path }

func (f *FileSource) Open(ctx context.Context) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	return file, nil
}

// StaticSource serves fixed CSV content, for development and testing.
type StaticSource struct {
	Content string
	Err     error
}

func (s *StaticSource) Name() string { return "static" }

func (s *StaticSource) Open(_ context.Context) (io.ReadCloser, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return io.NopCloser(strings.NewReader(s.Content)), nil
}
