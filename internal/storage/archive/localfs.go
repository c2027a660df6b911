package archive

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalFS stores blobs as files under a base directory
type LocalFS struct {
	base string
}

func NewLocalFS(base string) (*LocalFS, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, fmt.Errorf("creating archive dir: %w", err)
	}
	return &LocalFS{base: base}, nil
}

func (l *LocalFS) Put(_ context.Context, key string, data []byte) error {
	path := filepath.Join(l.base, key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (l *LocalFS) Get(_ context.Context, key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(l.base, key))
}

func (l *LocalFS) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	err := filepath.WalkDir(filepath.Join(l.base, prefix), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			rel, relErr := filepath.Rel(l.base, path)
			if relErr != nil {
				return relErr
			}
			keys = append(keys, filepath.ToSlash(rel))
		}
		return nil
	})
	if os.IsNotExist(err) {
		return nil, nil
	}
	return keys, err
}

func (l *LocalFS) Delete(_ context.Context, key string) error {
	return os.Remove(filepath.Join(l.base, key))
}
