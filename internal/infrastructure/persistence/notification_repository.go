package persistence

import (
	"context"
	"time"

	"github.com/bizdesk/erp/internal/domain/notification"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var notificationListSpec = listSpec{
	sortFields:   fields("type", "read_at"),
	filterFields: fields("type"),
	searchFields: []string{"title", "message"},
}

// GormNotificationRepository implements notification.Repository
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// FindByIDForTenant finds a notification by ID within a tenant
func (r *GormNotificationRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*notification.Notification, error) {
	return findForTenant[notification.Notification](ctx, r.db, tenantID, id)
}

// FindForUser lists notifications addressed to the user or broadcast to the
// whole tenant
func (r *GormNotificationRepository) FindForUser(ctx context.Context, tenantID, userID uuid.UUID, unreadOnly bool, filter shared.Filter) ([]notification.Notification, int64, error) {
	q := r.visibleTo(ctx, tenantID, userID)
	if unreadOnly {
		q = q.Where("read_at IS NULL")
	}
	return list[notification.Notification](q, filter, notificationListSpec)
}

// Create inserts a notification
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// Save updates a notification
func (r *GormNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.db.WithContext(ctx).Save(n).Error
}

// MarkAllRead stamps every unread notification visible to the user
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	now := time.Now()
	res := r.visibleTo(ctx, tenantID, userID).
		Model(&notification.Notification{}).
		Where("read_at IS NULL").
		UpdateColumns(map[string]any{"read_at": now, "updated_at": now})
	return res.RowsAffected, res.Error
}

// Delete removes a notification
func (r *GormNotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return deleteByID[notification.Notification](ctx, r.db, id)
}

func (r *GormNotificationRepository) visibleTo(ctx context.Context, tenantID, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("(user_id = ? OR user_id IS NULL)", userID)
}

var _ notification.Repository = (*GormNotificationRepository)(nil)
