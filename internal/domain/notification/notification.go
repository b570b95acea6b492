package notification

import (
	"context"
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
)

// Type is the visual severity of a notification
type Type string

const (
	TypeInfo    Type = "info"
	TypeSuccess Type = "success"
	TypeWarning Type = "warning"
)

// Notification is an in-app message to one user or, with a nil UserID, to
// every user of the tenant
type Notification struct {
	shared.TenantEntity
	UserID  *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Type    Type       `gorm:"type:varchar(20);not null;default:'info'" json:"type"`
	Title   string     `gorm:"type:varchar(200);not null" json:"title"`
	Message string     `gorm:"type:text" json:"message"`
	Link    string     `gorm:"type:varchar(500)" json:"link,omitempty"`
	ReadAt  *time.Time `json:"read_at,omitempty"`
}

// TableName returns the table name for GORM
func (Notification) TableName() string {
	return "notifications"
}

// New builds an unread notification
func New(tenantID uuid.UUID, userID *uuid.UUID, typ Type, title, message string) (*Notification, error) {
	if strings.TrimSpace(title) == "" {
		return nil, shared.NewInvalidInputError("Notification title cannot be empty")
	}
	if typ == "" {
		typ = TypeInfo
	}
	return &Notification{
		TenantEntity: shared.NewTenantEntity(tenantID),
		UserID:       userID,
		Type:         typ,
		Title:        title,
		Message:      message,
	}, nil
}

// IsVisibleTo reports whether the user may see the notification
func (n *Notification) IsVisibleTo(userID uuid.UUID) bool {
	return n.UserID == nil || *n.UserID == userID
}

// MarkRead stamps the notification as read
func (n *Notification) MarkRead() {
	if n.ReadAt == nil {
		now := time.Now()
		n.ReadAt = &now
	}
}

// Repository defines the interface for notification persistence
type Repository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Notification, error)
	// FindForUser lists the user's own and broadcast notifications
	FindForUser(ctx context.Context, tenantID, userID uuid.UUID, unreadOnly bool, filter shared.Filter) ([]Notification, int64, error)
	Create(ctx context.Context, n *Notification) error
	Save(ctx context.Context, n *Notification) error
	MarkAllRead(ctx context.Context, tenantID, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
