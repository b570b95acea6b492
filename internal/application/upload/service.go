// Package upload stores tenant files in object storage under a
// tenant/user/folder key layout.
package upload

import (
	"context"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	folderPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	extPattern    = regexp.MustCompile(`^\.[a-zA-Z0-9]{1,10}$`)
)

// ObjectInfo describes a stored object
type ObjectInfo struct {
	Key        string    `json:"key"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Location tells the caller how to serve an object: either from a local
// file path or by redirecting to a signed URL.
type Location struct {
	Path        string
	RedirectURL string
}

// ObjectStorage is the port implemented by the storage drivers
type ObjectStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)

	// Locate returns shared.ErrNotFound when the object does not exist
	Locate(ctx context.Context, key string) (*Location, error)
}

// File is an incoming upload
type File struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

// Result is returned after a successful upload
type Result struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

// Service handles file uploads
type Service struct {
	storage ObjectStorage
	maxSize int64
	logger  *zap.Logger
}

// NewService creates a new upload service
func NewService(storage ObjectStorage, maxSize int64, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{storage: storage, maxSize: maxSize, logger: logger}
}

// Upload stores the file as <tenant>/<user>/<folder>/<uuid><ext>
func (s *Service) Upload(ctx context.Context, tenantID, userID uuid.UUID, folder string, f File) (*Result, error) {
	if !folderPattern.MatchString(folder) {
		return nil, shared.NewInvalidInputError("Folder may only contain letters, digits, dash and underscore")
	}
	if f.Size <= 0 {
		return nil, shared.NewInvalidInputError("File is empty")
	}
	if s.maxSize > 0 && f.Size > s.maxSize {
		return nil, shared.NewInvalidInputError(fmt.Sprintf("File exceeds the maximum size of %d bytes", s.maxSize))
	}

	ext := strings.ToLower(path.Ext(f.Name))
	if !extPattern.MatchString(ext) {
		ext = ""
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := path.Join(tenantID.String(), userID.String(), folder, uuid.NewString()+ext)
	if err := s.storage.Put(ctx, key, f.Body, f.Size, contentType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	s.logger.Info("file uploaded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("key", key),
		zap.Int64("size", f.Size))

	return &Result{
		URL:         "/uploads/" + key,
		Key:         key,
		Size:        f.Size,
		ContentType: contentType,
	}, nil
}

// List returns the objects under a path relative to the tenant root
func (s *Service) List(ctx context.Context, tenantID uuid.UUID, relPath string) ([]ObjectInfo, error) {
	if strings.Contains(relPath, "..") {
		return nil, shared.NewInvalidInputError("Path must not contain '..'")
	}
	prefix := tenantID.String() + "/"
	if rel := strings.Trim(relPath, "/"); rel != "" {
		prefix += rel + "/"
	}

	objects, err := s.storage.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	if objects == nil {
		objects = []ObjectInfo{}
	}
	return objects, nil
}

// Resolve locates an object owned by the tenant. Keys of other tenants are
// reported as not found.
func (s *Service) Resolve(ctx context.Context, tenantID uuid.UUID, key string) (*Location, error) {
	key = strings.TrimPrefix(key, "/")
	if strings.Contains(key, "..") {
		return nil, shared.NewInvalidInputError("Path must not contain '..'")
	}
	if !strings.HasPrefix(key, tenantID.String()+"/") {
		return nil, shared.NewNotFoundError("File")
	}
	return s.storage.Locate(ctx, key)
}
