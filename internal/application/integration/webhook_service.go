package integration

import (
	"context"
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/bizdesk/erp/internal/domain/integration"
	"github.com/bizdesk/erp/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebhookService manages webhook subscriptions and enqueues deliveries for
// tenant events. It is the common.EventPublisher of the application.
type WebhookService struct {
	webhooks    integration.WebhookRepository
	deliveries  integration.DeliveryRepository
	maxAttempts int
	metrics     *telemetry.BusinessMetrics
	logger      *zap.Logger
	now         func() time.Time
}

// Option configures a WebhookService
type Option func(*WebhookService)

// WithMaxAttempts sets the attempt budget of new deliveries
func WithMaxAttempts(n int) Option {
	return func(s *WebhookService) { s.maxAttempts = n }
}

// WithBusinessMetrics counts created documents and stock adjustments as
// their events pass through
func WithBusinessMetrics(m *telemetry.BusinessMetrics) Option {
	return func(s *WebhookService) { s.metrics = m }
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(webhooks integration.WebhookRepository, deliveries integration.DeliveryRepository, logger *zap.Logger, opts ...Option) *WebhookService {
	s := &WebhookService{
		webhooks:    webhooks,
		deliveries:  deliveries,
		maxAttempts: integration.DefaultMaxAttempts,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns a page of webhook subscriptions
func (s *WebhookService) List(ctx context.Context, tenantID uuid.UUID, q ListWebhooksQuery) (common.Page[integration.WebhookConfig], error) {
	f := q.Filter()
	if q.Active != nil {
		f = f.With("is_active", *q.Active)
	}
	items, total, err := s.webhooks.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[integration.WebhookConfig]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns a webhook subscription by ID
func (s *WebhookService) Get(ctx context.Context, tenantID, id uuid.UUID) (*integration.WebhookConfig, error) {
	return s.webhooks.FindByIDForTenant(ctx, tenantID, id)
}

// Create subscribes a URL to events
func (s *WebhookService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateWebhookRequest) (*integration.WebhookConfig, error) {
	cfg, err := integration.NewWebhookConfig(tenantID, req.Name, req.URL, req.Events, req.Secret)
	if err != nil {
		return nil, err
	}
	cfg.CreatedBy = &userID
	if err := s.webhooks.Create(ctx, cfg); err != nil {
		return nil, err
	}
	s.logger.Info("Webhook created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("webhook_id", cfg.ID.String()),
		zap.Strings("events", cfg.Events))
	return cfg, nil
}

// Update applies a partial update
func (s *WebhookService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateWebhookRequest) (*integration.WebhookConfig, error) {
	cfg, err := s.webhooks.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		cfg.Name = strings.TrimSpace(*req.Name)
	}
	if req.URL != nil {
		if err := cfg.SetURL(*req.URL); err != nil {
			return nil, err
		}
	}
	if req.Events != nil {
		cfg.SetEvents(*req.Events)
	}
	if req.Secret != nil {
		cfg.Secret = *req.Secret
	}
	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}
	cfg.Touch()
	if err := s.webhooks.Save(ctx, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Delete removes a webhook subscription. Queued deliveries stay in the log.
func (s *WebhookService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	cfg, err := s.webhooks.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	return s.webhooks.Delete(ctx, cfg.ID)
}

// TriggerEvent enqueues one delivery per active subscription of the tenant
// that wants event. The body is frozen now; delivery happens in the
// background processor. Failures are logged and never returned.
func (s *WebhookService) TriggerEvent(ctx context.Context, tenantID uuid.UUID, event string, payload any) {
	s.record(ctx, event, payload)

	configs, err := s.webhooks.FindActive(ctx, tenantID)
	if err != nil {
		s.logger.Error("Failed to load webhooks",
			zap.String("tenant_id", tenantID.String()),
			zap.String("event", event),
			zap.Error(err))
		return
	}

	now := s.now()
	batch := make([]*integration.Delivery, 0, len(configs))
	for i := range configs {
		cfg := &configs[i]
		if !cfg.Matches(event) {
			continue
		}
		d, err := integration.NewDelivery(cfg, event, payload, now, s.maxAttempts)
		if err != nil {
			s.logger.Error("Failed to encode webhook payload",
				zap.String("webhook_id", cfg.ID.String()),
				zap.String("event", event),
				zap.Error(err))
			return
		}
		batch = append(batch, d)
	}
	if len(batch) == 0 {
		return
	}
	if err := s.deliveries.Enqueue(ctx, batch...); err != nil {
		s.logger.Error("Failed to enqueue webhook deliveries",
			zap.String("tenant_id", tenantID.String()),
			zap.String("event", event),
			zap.Int("count", len(batch)),
			zap.Error(err))
		return
	}
	s.logger.Debug("Webhook deliveries enqueued",
		zap.String("tenant_id", tenantID.String()),
		zap.String("event", event),
		zap.Int("count", len(batch)))
}

// ListDeliveries returns a page of the delivery log
func (s *WebhookService) ListDeliveries(ctx context.Context, tenantID uuid.UUID, q ListDeliveriesQuery) (common.Page[integration.Delivery], error) {
	f := q.Filter().
		With("status", q.Status).
		With("webhook_id", q.WebhookID).
		With("event", q.Event)
	items, total, err := s.deliveries.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[integration.Delivery]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// RetryDelivery puts a failed or dead delivery back in the queue with a
// fresh attempt budget
func (s *WebhookService) RetryDelivery(ctx context.Context, tenantID, id uuid.UUID) (*integration.Delivery, error) {
	d, err := s.deliveries.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := d.ResetForRetry(); err != nil {
		return nil, err
	}
	if err := s.deliveries.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *WebhookService) record(ctx context.Context, event string, payload any) {
	if kind, ok := strings.CutSuffix(event, ".created"); ok {
		s.metrics.DocumentCreated(ctx, kind)
	}
	if m, ok := payload.(*catalog.StockMovement); ok {
		s.metrics.StockMoved(ctx, string(m.Type), m.Quantity.InexactFloat64())
	}
}

var _ common.EventPublisher = (*WebhookService)(nil)
