package integration

import (
	"net/url"
	"strings"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
)

// WebhookConfig is a tenant-configured outbound HTTP callback. An empty
// event list subscribes to every event.
type WebhookConfig struct {
	shared.TenantEntity
	Name     string            `gorm:"type:varchar(100)" json:"name"`
	URL      string            `gorm:"type:varchar(1000);not null" json:"url"`
	Events   shared.StringList `gorm:"type:jsonb" json:"events"`
	Secret   string            `gorm:"type:varchar(200)" json:"-"`
	IsActive bool              `gorm:"not null;default:true;index" json:"is_active"`
}

// TableName returns the table name for GORM
func (WebhookConfig) TableName() string {
	return "webhook_configs"
}

// NewWebhookConfig creates an active subscription
func NewWebhookConfig(tenantID uuid.UUID, name, target string, events []string, secret string) (*WebhookConfig, error) {
	w := &WebhookConfig{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         strings.TrimSpace(name),
		Secret:       secret,
		IsActive:     true,
	}
	if err := w.SetURL(target); err != nil {
		return nil, err
	}
	w.SetEvents(events)
	return w, nil
}

// SetURL validates and sets the target URL
func (w *WebhookConfig) SetURL(target string) error {
	u, err := url.Parse(strings.TrimSpace(target))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return shared.NewInvalidInputError("Webhook URL must be an absolute http or https URL")
	}
	w.URL = u.String()
	w.Touch()
	return nil
}

// SetEvents replaces the event filter, dropping blanks and duplicates
func (w *WebhookConfig) SetEvents(events []string) {
	list := make(shared.StringList, 0, len(events))
	for _, e := range events {
		e = strings.TrimSpace(e)
		if e != "" && !list.Contains(e) {
			list = append(list, e)
		}
	}
	w.Events = list
	w.Touch()
}

// Matches reports whether the subscription wants the event
func (w *WebhookConfig) Matches(event string) bool {
	if !w.IsActive {
		return false
	}
	return len(w.Events) == 0 || w.Events.Contains(event)
}
