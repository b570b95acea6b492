package integration

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bizdesk/erp/internal/domain/integration"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/infrastructure/persistence"
	"github.com/bizdesk/erp/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newWebhookService(t *testing.T) (*WebhookService, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	svc := NewWebhookService(persistence.NewGormWebhookRepository(db), persistence.NewGormDeliveryRepository(db), zap.NewNop(),
		WithMaxAttempts(3))
	return svc, db
}

func deliveriesOf(t *testing.T, db *gorm.DB) []integration.Delivery {
	t.Helper()
	var rows []integration.Delivery
	require.NoError(t, db.Find(&rows).Error)
	return rows
}

func TestWebhookService_TriggerEvent_MatchesSubscriptions(t *testing.T) {
	svc, db := newWebhookService(t)
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	all, err := svc.Create(ctx, tenantID, testutil.TestUserID(), CreateWebhookRequest{URL: "https://example.com/all"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, tenantID, testutil.TestUserID(), CreateWebhookRequest{
		URL:    "https://example.com/other",
		Events: []string{"other.event"},
	})
	require.NoError(t, err)

	svc.TriggerEvent(ctx, tenantID, "invoice.created", map[string]string{"invoice_number": "INV-1"})

	rows := deliveriesOf(t, db)
	require.Len(t, rows, 1)
	d := rows[0]
	assert.Equal(t, all.ID, d.WebhookID)
	assert.Equal(t, integration.DeliveryPending, d.Status)
	assert.Equal(t, 3, d.MaxAttempts)

	var env integration.Envelope
	require.NoError(t, json.Unmarshal([]byte(d.Body), &env))
	assert.Equal(t, "invoice.created", env.Event)
	assert.JSONEq(t, `{"invoice_number":"INV-1"}`, string(env.Payload))
	assert.NotEmpty(t, env.Timestamp)
}

func TestWebhookService_TriggerEvent_SkipsInactiveAndOtherTenants(t *testing.T) {
	svc, db := newWebhookService(t)
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	cfg, err := svc.Create(ctx, tenantID, testutil.TestUserID(), CreateWebhookRequest{URL: "https://example.com/hook"})
	require.NoError(t, err)
	inactive := false
	_, err = svc.Update(ctx, tenantID, cfg.ID, UpdateWebhookRequest{IsActive: &inactive})
	require.NoError(t, err)
	_, err = svc.Create(ctx, testutil.OtherTenantID(), testutil.TestUserID(), CreateWebhookRequest{URL: "https://example.com/elsewhere"})
	require.NoError(t, err)

	svc.TriggerEvent(ctx, tenantID, "invoice.created", nil)
	assert.Empty(t, deliveriesOf(t, db))
}

func TestWebhookService_RetryDelivery(t *testing.T) {
	svc, db := newWebhookService(t)
	ctx := context.Background()
	tenantID := testutil.TestTenantID()

	_, err := svc.Create(ctx, tenantID, testutil.TestUserID(), CreateWebhookRequest{URL: "https://example.com/hook"})
	require.NoError(t, err)
	svc.TriggerEvent(ctx, tenantID, "task.created", map[string]int{"n": 1})
	rows := deliveriesOf(t, db)
	require.Len(t, rows, 1)
	id := rows[0].ID

	_, err = svc.RetryDelivery(ctx, tenantID, id)
	assert.ErrorIs(t, err, shared.ErrInvalidState, "pending deliveries are not retryable")

	require.NoError(t, db.Model(&integration.Delivery{}).Where("id = ?", id).
		Updates(map[string]any{"status": integration.DeliveryDead, "attempts": 3}).Error)

	d, err := svc.RetryDelivery(ctx, tenantID, id)
	require.NoError(t, err)
	assert.Equal(t, integration.DeliveryPending, d.Status)
	assert.Zero(t, d.Attempts)

	_, err = svc.RetryDelivery(ctx, testutil.OtherTenantID(), id)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	page, err := svc.ListDeliveries(ctx, tenantID, ListDeliveriesQuery{Status: "pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
}

func TestWebhookService_Create_RejectsBadURL(t *testing.T) {
	svc, _ := newWebhookService(t)

	_, err := svc.Create(context.Background(), testutil.TestTenantID(), testutil.TestUserID(), CreateWebhookRequest{URL: "ftp://example.com"})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}
