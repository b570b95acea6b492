package integration

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
)

// DeliveryStatus represents the state of a queued webhook delivery
type DeliveryStatus string

const (
	DeliveryPending    DeliveryStatus = "pending"
	DeliveryProcessing DeliveryStatus = "processing"
	DeliveryDelivered  DeliveryStatus = "delivered"
	DeliveryFailed     DeliveryStatus = "failed"
	DeliveryDead       DeliveryStatus = "dead"
)

// Retry policy defaults
const (
	DefaultMaxAttempts = 5
	DefaultBaseBackoff = time.Second
	MaxBackoff         = time.Hour
)

// Envelope is the JSON body posted to subscribers
type Envelope struct {
	Event     string          `json:"event"`
	Timestamp string          `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Delivery is one queued POST of an event to one webhook subscription
type Delivery struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TenantID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	WebhookID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"webhook_id"`
	Event         string         `gorm:"type:varchar(100);not null" json:"event"`
	URL           string         `gorm:"type:varchar(1000);not null" json:"url"`
	Body          string         `gorm:"type:text;not null" json:"body"`
	Status        DeliveryStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Attempts      int            `gorm:"not null;default:0" json:"attempts"`
	MaxAttempts   int            `gorm:"not null;default:5" json:"max_attempts"`
	LastError     string         `gorm:"type:text" json:"last_error,omitempty"`
	ResponseCode  int            `json:"response_code,omitempty"`
	NextAttemptAt *time.Time     `gorm:"index" json:"next_attempt_at,omitempty"`
	DeliveredAt   *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// TableName returns the table name for GORM
func (Delivery) TableName() string {
	return "webhook_deliveries"
}

// NewDelivery freezes the envelope for a subscription at enqueue time
func NewDelivery(cfg *WebhookConfig, event string, payload any, now time.Time, maxAttempts int) (*Delivery, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(Envelope{
		Event:     event,
		Timestamp: now.UTC().Format(time.RFC3339),
		Payload:   raw,
	})
	if err != nil {
		return nil, err
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Delivery{
		ID:          uuid.New(),
		TenantID:    cfg.TenantID,
		WebhookID:   cfg.ID,
		Event:       event,
		URL:         cfg.URL,
		Body:        string(body),
		Status:      DeliveryPending,
		MaxAttempts: maxAttempts,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// MarkDelivered records a 2xx response
func (d *Delivery) MarkDelivered(code int) {
	now := time.Now()
	d.Attempts++
	d.Status = DeliveryDelivered
	d.ResponseCode = code
	d.LastError = ""
	d.NextAttemptAt = nil
	d.DeliveredAt = &now
	d.UpdatedAt = now
}

// MarkFailed records a failed attempt and schedules the next one with
// exponential backoff, or dead-letters the delivery when attempts run out
func (d *Delivery) MarkFailed(code int, errMsg string) {
	now := time.Now()
	d.Attempts++
	d.ResponseCode = code
	d.LastError = errMsg
	d.UpdatedAt = now
	if d.Attempts >= d.MaxAttempts {
		d.Status = DeliveryDead
		d.NextAttemptAt = nil
		return
	}
	d.Status = DeliveryFailed
	next := now.Add(Backoff(d.Attempts))
	d.NextAttemptAt = &next
}

// Backoff returns the wait after the given number of failed attempts:
// 1s, 2s, 4s ... capped at MaxBackoff
func Backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	if attempts > 20 {
		return MaxBackoff
	}
	b := DefaultBaseBackoff * time.Duration(1<<uint(attempts-1))
	if b > MaxBackoff {
		return MaxBackoff
	}
	return b
}

// Release returns a claimed delivery to the queue without counting an attempt
func (d *Delivery) Release() {
	d.Status = DeliveryPending
	d.UpdatedAt = time.Now()
}

// MarkDead dead-letters the delivery without attempting it
func (d *Delivery) MarkDead(reason string) {
	d.Status = DeliveryDead
	d.LastError = reason
	d.NextAttemptAt = nil
	d.UpdatedAt = time.Now()
}

// ResetForRetry puts a failed or dead delivery back in the queue
func (d *Delivery) ResetForRetry() error {
	if d.Status != DeliveryDead && d.Status != DeliveryFailed {
		return shared.NewDomainError(shared.CodeInvalidState, "Only failed or dead deliveries can be retried")
	}
	d.Status = DeliveryPending
	d.Attempts = 0
	d.LastError = ""
	d.NextAttemptAt = nil
	d.UpdatedAt = time.Now()
	return nil
}

// WebhookRepository defines the interface for webhook config persistence
type WebhookRepository interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*WebhookConfig, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]WebhookConfig, int64, error)
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]WebhookConfig, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]WebhookConfig, error)
	Create(ctx context.Context, cfg *WebhookConfig) error
	Save(ctx context.Context, cfg *WebhookConfig) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// DeliveryRepository is the durable delivery queue
type DeliveryRepository interface {
	Enqueue(ctx context.Context, deliveries ...*Delivery) error
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Delivery, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Delivery, int64, error)

	// ClaimDue atomically moves up to limit due deliveries (pending, or
	// failed with next_attempt_at <= now) to processing and returns them
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]*Delivery, error)
	Update(ctx context.Context, d *Delivery) error

	// ReleaseStale returns processing rows untouched since before to pending
	ReleaseStale(ctx context.Context, before time.Time) (int64, error)
	DeleteDeliveredBefore(ctx context.Context, before time.Time) (int64, error)
}
