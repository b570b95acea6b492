package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/bizdesk/erp/internal/domain/integration"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var webhookListSpec = listSpec{
	sortFields:   fields("name", "url"),
	filterFields: fields("is_active"),
	searchFields: []string{"name", "url"},
}

// GormWebhookRepository implements integration.WebhookRepository
type GormWebhookRepository struct {
	db *gorm.DB
}

// NewGormWebhookRepository creates a new GormWebhookRepository
func NewGormWebhookRepository(db *gorm.DB) *GormWebhookRepository {
	return &GormWebhookRepository{db: db}
}

// FindByIDForTenant finds a webhook by ID within a tenant
func (r *GormWebhookRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*integration.WebhookConfig, error) {
	return findForTenant[integration.WebhookConfig](ctx, r.db, tenantID, id)
}

// FindAllForTenant lists the webhooks of a tenant
func (r *GormWebhookRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]integration.WebhookConfig, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[integration.WebhookConfig](q, filter, webhookListSpec)
}

// FindActive returns the active webhooks of a tenant
func (r *GormWebhookRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]integration.WebhookConfig, error) {
	var out []integration.WebhookConfig
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Find(&out).Error
	return out, err
}

// FindByIDs loads webhooks by id regardless of tenant, for the delivery worker
func (r *GormWebhookRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]integration.WebhookConfig, error) {
	var out []integration.WebhookConfig
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error
	return out, err
}

// Create inserts a webhook
func (r *GormWebhookRepository) Create(ctx context.Context, cfg *integration.WebhookConfig) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

// Save updates a webhook
func (r *GormWebhookRepository) Save(ctx context.Context, cfg *integration.WebhookConfig) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

// Delete removes a webhook and its delivery log
func (r *GormWebhookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("webhook_id = ?", id).Delete(&integration.Delivery{}).Error; err != nil {
			return fmt.Errorf("delete deliveries: %w", err)
		}
		return deleteByID[integration.WebhookConfig](ctx, tx, id)
	})
}

var deliveryListSpec = listSpec{
	sortFields:   fields("status", "attempts", "next_attempt_at", "event"),
	filterFields: fields("status", "webhook_id", "event"),
	searchFields: []string{"event", "last_error"},
}

// GormDeliveryRepository implements integration.DeliveryRepository, the
// durable webhook delivery queue
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewGormDeliveryRepository creates a new GormDeliveryRepository
func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Enqueue inserts pending deliveries
func (r *GormDeliveryRepository) Enqueue(ctx context.Context, deliveries ...*integration.Delivery) error {
	if len(deliveries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(deliveries).Error
}

// FindByIDForTenant finds a delivery by ID within a tenant
func (r *GormDeliveryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*integration.Delivery, error) {
	return findForTenant[integration.Delivery](ctx, r.db, tenantID, id)
}

// FindAllForTenant lists deliveries of a tenant
func (r *GormDeliveryRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]integration.Delivery, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[integration.Delivery](q, filter, deliveryListSpec)
}

// ClaimDue selects due rows and flips them to processing in one
// transaction. On PostgreSQL the select uses FOR UPDATE SKIP LOCKED so that
// concurrent workers never claim the same row.
func (r *GormDeliveryRepository) ClaimDue(ctx context.Context, now time.Time, limit int) ([]*integration.Delivery, error) {
	if limit <= 0 {
		limit = 50
	}
	var claimed []*integration.Delivery
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("status = ? OR (status = ? AND next_attempt_at <= ?)",
			integration.DeliveryPending, integration.DeliveryFailed, now).
			Order("created_at ASC").
			Limit(limit)
		if isPostgres(tx) {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		if err := q.Find(&claimed).Error; err != nil {
			return fmt.Errorf("select due deliveries: %w", err)
		}
		if len(claimed) == 0 {
			return nil
		}

		ids := make([]uuid.UUID, len(claimed))
		for i, d := range claimed {
			ids[i] = d.ID
			d.Status = integration.DeliveryProcessing
			d.UpdatedAt = now
		}
		return tx.Model(&integration.Delivery{}).
			Where("id IN ?", ids).
			UpdateColumns(map[string]any{
				"status":     integration.DeliveryProcessing,
				"updated_at": now,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return claimed, nil
}

// Update persists the outcome of an attempt
func (r *GormDeliveryRepository) Update(ctx context.Context, d *integration.Delivery) error {
	return r.db.WithContext(ctx).Save(d).Error
}

// ReleaseStale returns rows stuck in processing to pending
func (r *GormDeliveryRepository) ReleaseStale(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&integration.Delivery{}).
		Where("status = ? AND updated_at < ?", integration.DeliveryProcessing, before).
		UpdateColumns(map[string]any{
			"status":     integration.DeliveryPending,
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}

// DeleteDeliveredBefore purges successfully delivered rows older than before
func (r *GormDeliveryRepository) DeleteDeliveredBefore(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("status = ? AND delivered_at < ?", integration.DeliveryDelivered, before).
		Delete(&integration.Delivery{})
	return res.RowsAffected, res.Error
}

var (
	_ integration.WebhookRepository  = (*GormWebhookRepository)(nil)
	_ integration.DeliveryRepository = (*GormDeliveryRepository)(nil)
)
