package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func s3Config(endpoint string) config.StorageConfig {
	return config.StorageConfig{
		Driver:          "s3",
		S3Bucket:        "uploads",
		S3Region:        "eu-central-1",
		S3Endpoint:      endpoint,
		S3AccessKey:     "test-key",
		S3SecretKey:     "test-secret",
		S3UsePathStyle:  true,
		PresignDuration: 5 * time.Minute,
	}
}

func TestNewS3Storage_RequiresBucket(t *testing.T) {
	cfg := s3Config("http://localhost:9000")
	cfg.S3Bucket = ""

	_, err := NewS3Storage(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}

func TestNewS3Storage_Defaults(t *testing.T) {
	cfg := s3Config("localhost:9000")
	cfg.PresignDuration = 0

	s, err := NewS3Storage(context.Background(), cfg, WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	assert.Equal(t, "uploads", s.bucket)
	assert.Equal(t, 15*time.Minute, s.presignExpiration)
}

func TestS3Storage_Locate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.URL.Path == "/uploads/tenant/user/docs/present.pdf" {
			w.Header().Set("Content-Length", "3")
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s, err := NewS3Storage(context.Background(), s3Config(srv.URL))
	require.NoError(t, err)

	t.Run("existing object yields presigned url", func(t *testing.T) {
		loc, err := s.Locate(context.Background(), "tenant/user/docs/present.pdf")
		require.NoError(t, err)
		assert.Empty(t, loc.Path)
		assert.Contains(t, loc.RedirectURL, "/uploads/tenant/user/docs/present.pdf")
		assert.Contains(t, loc.RedirectURL, "X-Amz-Signature=")
	})

	t.Run("missing object is not found", func(t *testing.T) {
		_, err := s.Locate(context.Background(), "tenant/user/docs/missing.pdf")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
