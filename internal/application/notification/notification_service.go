// Package notification serves in-app notifications and implements the
// common.Notifier used by workflows.
package notification

import (
	"context"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/notification"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListNotificationsQuery filters the current user's notifications
type ListNotificationsQuery struct {
	common.ListQuery
	Unread bool   `form:"unread"`
	Type   string `form:"type" binding:"omitempty,oneof=info warning success"`
}

// NotificationService manages notifications for the current user
type NotificationService struct {
	notifications notification.Repository
	logger        *zap.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notifications notification.Repository, logger *zap.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

// List returns the user's own and broadcast notifications
func (s *NotificationService) List(ctx context.Context, tenantID, userID uuid.UUID, q ListNotificationsQuery) (common.Page[notification.Notification], error) {
	f := q.Filter().With("type", q.Type)
	items, total, err := s.notifications.FindForUser(ctx, tenantID, userID, q.Unread, f)
	if err != nil {
		return common.Page[notification.Notification]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// MarkRead stamps one notification as read. Broadcast notifications have a
// single read state shared by every user of the tenant.
func (s *NotificationService) MarkRead(ctx context.Context, tenantID, userID, id uuid.UUID) (*notification.Notification, error) {
	n, err := s.find(ctx, tenantID, userID, id)
	if err != nil {
		return nil, err
	}
	if n.ReadAt != nil {
		return n, nil
	}
	n.MarkRead()
	n.Touch()
	if err := s.notifications.Save(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// MarkAllRead stamps every unread notification visible to the user and
// returns how many changed
func (s *NotificationService) MarkAllRead(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	return s.notifications.MarkAllRead(ctx, tenantID, userID)
}

// Delete removes a notification visible to the user
func (s *NotificationService) Delete(ctx context.Context, tenantID, userID, id uuid.UUID) error {
	n, err := s.find(ctx, tenantID, userID, id)
	if err != nil {
		return err
	}
	return s.notifications.Delete(ctx, n.ID)
}

// Notify stores a notification. Errors are logged and swallowed so a
// failing notification never fails the workflow that raised it.
func (s *NotificationService) Notify(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, typ notification.Type, title, message string) {
	n, err := notification.New(tenantID, userID, typ, title, message)
	if err == nil {
		err = s.notifications.Create(ctx, n)
	}
	if err != nil {
		s.logger.Warn("Failed to create notification",
			zap.String("tenant_id", tenantID.String()),
			zap.String("title", title),
			zap.Error(err))
	}
}

// find loads a notification and hides those addressed to other users
func (s *NotificationService) find(ctx context.Context, tenantID, userID, id uuid.UUID) (*notification.Notification, error) {
	n, err := s.notifications.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if !n.IsVisibleTo(userID) {
		return nil, shared.ErrNotFound
	}
	return n, nil
}

var _ common.Notifier = (*NotificationService)(nil)
