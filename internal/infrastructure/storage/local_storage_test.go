package storage

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalStorage_PutListLocate(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "t1/u1/docs/a.txt", strings.NewReader("hello"), 5, "text/plain"))
	require.NoError(t, s.Put(ctx, "t1/u1/img/b.png", strings.NewReader("png"), 3, "image/png"))
	require.NoError(t, s.Put(ctx, "t2/u9/docs/c.txt", strings.NewReader("other"), 5, "text/plain"))

	objects, err := s.List(ctx, "t1/")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	keys := []string{objects[0].Key, objects[1].Key}
	assert.ElementsMatch(t, []string{"t1/u1/docs/a.txt", "t1/u1/img/b.png"}, keys)

	loc, err := s.Locate(ctx, "t1/u1/docs/a.txt")
	require.NoError(t, err)
	data, err := os.ReadFile(loc.Path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocalStorage_MissingPrefixListsNothing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	objects, err := s.List(context.Background(), "nobody/")
	require.NoError(t, err)
	assert.Empty(t, objects)
}

func TestLocalStorage_LocateMissing(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Locate(context.Background(), "t1/none.txt")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	err = s.Put(context.Background(), "../outside.txt", strings.NewReader("x"), 1, "text/plain")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestNew_SelectsDriver(t *testing.T) {
	store, err := New(context.Background(), config.StorageConfig{Driver: "local", LocalRoot: t.TempDir()}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, store)

	_, err = New(context.Background(), config.StorageConfig{Driver: "ftp"}, zap.NewNop())
	assert.Error(t, err)
}
