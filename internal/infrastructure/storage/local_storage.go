// Package storage provides the object storage drivers behind file uploads.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bizdesk/erp/internal/application/upload"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ upload.ObjectStorage = (*LocalStorage)(nil)

// LocalStorage keeps objects as files below a root directory
type LocalStorage struct {
	root string
}

// NewLocalStorage creates the root directory if needed
func NewLocalStorage(root string) (*LocalStorage, error) {
	if root == "" {
		return nil, errors.New("storage root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve storage root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &LocalStorage{root: abs}, nil
}

// path maps a key to a file path and refuses keys escaping the root
func (s *LocalStorage) path(key string) (string, error) {
	p := filepath.Join(s.root, filepath.FromSlash(key))
	if p != s.root && !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", shared.NewInvalidInputError("Invalid storage key")
	}
	return p, nil
}

// Put writes the object to disk
func (s *LocalStorage) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(p)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		_ = os.Remove(p)
		return fmt.Errorf("write file: %w", err)
	}
	return f.Close()
}

// List walks the directory tree below prefix
func (s *LocalStorage) List(_ context.Context, prefix string) ([]upload.ObjectInfo, error) {
	dir, err := s.path(prefix)
	if err != nil {
		return nil, err
	}

	var objects []upload.ObjectInfo
	err = filepath.WalkDir(dir, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			return err
		}
		objects = append(objects, upload.ObjectInfo{
			Key:        filepath.ToSlash(rel),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("walk storage: %w", err)
	}
	return objects, nil
}

// Locate returns the file path of an object
func (s *LocalStorage) Locate(_ context.Context, key string) (*upload.Location, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) || (err == nil && info.IsDir()) {
		return nil, shared.NewNotFoundError("File")
	}
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}
	return &upload.Location{Path: p}, nil
}

// New builds the driver selected by configuration
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (upload.ObjectStorage, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStorage(cfg.LocalRoot)
	case "s3":
		s, err := NewS3Storage(ctx, cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
