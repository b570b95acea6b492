package upload

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, body, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ObjectInfo), args.Error(1)
}

func (m *MockObjectStorage) Locate(ctx context.Context, key string) (*Location, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Location), args.Error(1)
}

var (
	tenantID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	userID   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

func TestService_Upload(t *testing.T) {
	store := new(MockObjectStorage)
	svc := NewService(store, 1024, nil)

	prefix := tenantID.String() + "/" + userID.String() + "/invoices/"
	store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, prefix) && strings.HasSuffix(key, ".pdf")
	}), mock.Anything, int64(4), "application/pdf").Return(nil)

	res, err := svc.Upload(context.Background(), tenantID, userID, "invoices", File{
		Name: "Scan.PDF", Size: 4, ContentType: "application/pdf", Body: strings.NewReader("%PDF"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.Key, prefix))
	assert.Equal(t, "/uploads/"+res.Key, res.URL)
	store.AssertExpectations(t)
}

func TestService_Upload_Validation(t *testing.T) {
	store := new(MockObjectStorage)
	svc := NewService(store, 10, nil)
	ctx := context.Background()

	_, err := svc.Upload(ctx, tenantID, userID, "../etc", File{Name: "a.txt", Size: 1, Body: strings.NewReader("a")})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.Upload(ctx, tenantID, userID, "docs", File{Name: "a.txt", Size: 11, Body: strings.NewReader("a")})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = svc.Upload(ctx, tenantID, userID, "docs", File{Name: "a.txt", Size: 0})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)

	store.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_List(t *testing.T) {
	store := new(MockObjectStorage)
	svc := NewService(store, 0, nil)
	ctx := context.Background()

	store.On("List", ctx, tenantID.String()+"/").Return(nil, nil).Once()
	store.On("List", ctx, tenantID.String()+"/docs/").Return([]ObjectInfo{{Key: "k", Size: 1}}, nil).Once()

	objects, err := svc.List(ctx, tenantID, "")
	require.NoError(t, err)
	assert.NotNil(t, objects)
	assert.Empty(t, objects)

	objects, err = svc.List(ctx, tenantID, "/docs/")
	require.NoError(t, err)
	assert.Len(t, objects, 1)
	store.AssertExpectations(t)
}

func TestService_List_RejectsParentTraversal(t *testing.T) {
	store := new(MockObjectStorage)
	svc := NewService(store, 0, nil)

	_, err := svc.List(context.Background(), tenantID, "docs/../../other")
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
	store.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestService_Resolve_EnforcesTenantPrefix(t *testing.T) {
	store := new(MockObjectStorage)
	svc := NewService(store, 0, nil)
	ctx := context.Background()

	other := uuid.New().String() + "/u/docs/file.txt"
	_, err := svc.Resolve(ctx, tenantID, other)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	own := tenantID.String() + "/u/docs/file.txt"
	store.On("Locate", ctx, own).Return(&Location{Path: "/data/" + own}, nil)
	loc, err := svc.Resolve(ctx, tenantID, "/"+own)
	require.NoError(t, err)
	assert.Equal(t, "/data/"+own, loc.Path)
}
