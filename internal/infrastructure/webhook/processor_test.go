package webhook

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bizdesk/erp/internal/domain/integration"
	"github.com/bizdesk/erp/internal/infrastructure/persistence"
	"github.com/bizdesk/erp/tests/testutil"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	deliveries *persistence.GormDeliveryRepository
	webhooks   *persistence.GormWebhookRepository
	processor  *DeliveryProcessor
	metrics    *Metrics
}

func newFixture(t *testing.T, cfg ProcessorConfig) *fixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	f := &fixture{
		deliveries: persistence.NewGormDeliveryRepository(db),
		webhooks:   persistence.NewGormWebhookRepository(db),
		metrics:    NewMetrics(prometheus.NewRegistry(), "erp"),
	}
	f.processor = NewDeliveryProcessor(f.deliveries, f.webhooks, NewHTTPSender(time.Second), cfg, zap.NewNop(), WithMetrics(f.metrics))
	return f
}

// flakyWebhooks fails or hides config lookups while delegating the rest
type flakyWebhooks struct {
	integration.WebhookRepository
	err  error
	hide bool
}

func (w *flakyWebhooks) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]integration.WebhookConfig, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.hide {
		return nil, nil
	}
	return w.WebhookRepository.FindByIDs(ctx, ids)
}

func (f *fixture) withWebhooks(t *testing.T, repo integration.WebhookRepository) {
	t.Helper()
	f.processor = NewDeliveryProcessor(f.deliveries, repo, NewHTTPSender(time.Second), f.processor.config, zap.NewNop(), WithMetrics(f.metrics))
}

func (f *fixture) enqueue(t *testing.T, url, secret string, maxAttempts int) *integration.Delivery {
	t.Helper()
	ctx := context.Background()
	cfg, err := integration.NewWebhookConfig(testutil.TestTenantID(), "erp", url, nil, secret)
	require.NoError(t, err)
	require.NoError(t, f.webhooks.Create(ctx, cfg))

	d, err := integration.NewDelivery(cfg, "invoice.created", map[string]string{"number": "INV-1"}, time.Now(), maxAttempts)
	require.NoError(t, err)
	require.NoError(t, f.deliveries.Enqueue(ctx, d))
	return d
}

func TestProcessBatch_Delivers(t *testing.T) {
	var signature atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature.Store(r.Header.Get(HeaderSignature))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := newFixture(t, ProcessorConfig{BatchSize: 10})
	d := f.enqueue(t, srv.URL, "topsecret", 5)

	n := f.processor.ProcessBatch(context.Background())
	assert.Equal(t, 1, n)

	stored, err := f.deliveries.FindByIDForTenant(context.Background(), testutil.TestTenantID(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, integration.DeliveryDelivered, stored.Status)
	assert.Equal(t, 1, stored.Attempts)
	assert.Equal(t, http.StatusOK, stored.ResponseCode)
	assert.NotNil(t, stored.DeliveredAt)
	assert.Equal(t, Sign("topsecret", []byte(d.Body)), signature.Load())

	assert.Equal(t, 0, f.processor.ProcessBatch(context.Background()))
	assert.Equal(t, float64(1), promtestutil.ToFloat64(f.metrics.attempts.WithLabelValues("delivered")))
}

func TestProcessBatch_BacksOffThenDeadLetters(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := newFixture(t, ProcessorConfig{BatchSize: 10})
	d := f.enqueue(t, srv.URL, "", 3)
	ctx := context.Background()

	load := func() *integration.Delivery {
		stored, err := f.deliveries.FindByIDForTenant(ctx, testutil.TestTenantID(), d.ID)
		require.NoError(t, err)
		return stored
	}

	before := time.Now()
	require.Equal(t, 1, f.processor.ProcessBatch(ctx))
	first := load()
	assert.Equal(t, integration.DeliveryFailed, first.Status)
	require.NotNil(t, first.NextAttemptAt)
	assert.WithinDuration(t, before.Add(integration.Backoff(1)), *first.NextAttemptAt, time.Second)

	// Not yet due.
	assert.Equal(t, 0, f.processor.ProcessBatch(ctx))

	f.processor.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	require.Equal(t, 1, f.processor.ProcessBatch(ctx))
	second := load()
	assert.Equal(t, integration.DeliveryFailed, second.Status)
	assert.Equal(t, 2, second.Attempts)
	assert.True(t, second.NextAttemptAt.After(*first.NextAttemptAt))

	require.Equal(t, 1, f.processor.ProcessBatch(ctx))
	dead := load()
	assert.Equal(t, integration.DeliveryDead, dead.Status)
	assert.Equal(t, 3, dead.Attempts)
	assert.Nil(t, dead.NextAttemptAt)
	assert.Contains(t, dead.LastError, "500")

	assert.Equal(t, 0, f.processor.ProcessBatch(ctx))
	assert.Equal(t, int32(3), calls.Load())
}

func TestProcessor_StartStop(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	f := newFixture(t, ProcessorConfig{BatchSize: 10, PollInterval: 20 * time.Millisecond})
	f.enqueue(t, srv.URL, "", 5)

	f.processor.Start(context.Background())
	testutil.RequireEventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.processor.Stop(stopCtx))
}

func TestProcessBatch_ConfigLookupFailureReleasesBatch(t *testing.T) {
	var calls atomic.Int32
	var signature atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		signature.Store(r.Header.Get(HeaderSignature))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := newFixture(t, ProcessorConfig{BatchSize: 10})
	d := f.enqueue(t, srv.URL, "topsecret", 5)
	flaky := &flakyWebhooks{WebhookRepository: f.webhooks, err: errors.New("db down")}
	f.withWebhooks(t, flaky)
	ctx := context.Background()

	assert.Equal(t, 0, f.processor.ProcessBatch(ctx))
	assert.Zero(t, calls.Load())

	stored, err := f.deliveries.FindByIDForTenant(ctx, testutil.TestTenantID(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, integration.DeliveryPending, stored.Status)
	assert.Zero(t, stored.Attempts)

	flaky.err = nil
	require.Equal(t, 1, f.processor.ProcessBatch(ctx))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, Sign("topsecret", []byte(d.Body)), signature.Load())
}

func TestProcessBatch_MissingConfigDeadLetters(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	f := newFixture(t, ProcessorConfig{BatchSize: 10})
	d := f.enqueue(t, srv.URL, "topsecret", 5)
	f.withWebhooks(t, &flakyWebhooks{WebhookRepository: f.webhooks, hide: true})
	ctx := context.Background()

	assert.Equal(t, 0, f.processor.ProcessBatch(ctx))
	assert.Zero(t, calls.Load())

	stored, err := f.deliveries.FindByIDForTenant(ctx, testutil.TestTenantID(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, integration.DeliveryDead, stored.Status)
	assert.Zero(t, stored.Attempts)
	assert.Contains(t, stored.LastError, "configuration")
}
