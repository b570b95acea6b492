package webhook

import (
	"context"
	"sync"
	"time"

	"github.com/bizdesk/erp/internal/domain/integration"
	"github.com/bizdesk/erp/internal/infrastructure/config"
	"github.com/bizdesk/erp/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Sender performs one delivery attempt
type Sender interface {
	Send(ctx context.Context, d *integration.Delivery, secret string) (int, error)
}

// ProcessorConfig holds configuration for the delivery processor
type ProcessorConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	StaleAfter       time.Duration
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

// ProcessorConfigFrom maps application configuration
func ProcessorConfigFrom(cfg config.WebhookConfig) ProcessorConfig {
	return ProcessorConfig{
		BatchSize:        cfg.BatchSize,
		PollInterval:     cfg.PollInterval,
		StaleAfter:       cfg.StaleAfter,
		CleanupRetention: cfg.CleanupRetention,
		CleanupInterval:  time.Hour,
	}
}

// DeliveryProcessor drains the webhook delivery queue in the background
type DeliveryProcessor struct {
	deliveries integration.DeliveryRepository
	webhooks   integration.WebhookRepository
	sender     Sender
	config     ProcessorConfig
	logger     *zap.Logger
	metrics    *Metrics
	business   *telemetry.BusinessMetrics
	now        func() time.Time

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a DeliveryProcessor
type Option func(*DeliveryProcessor)

// WithMetrics attaches Prometheus collectors
func WithMetrics(m *Metrics) Option {
	return func(p *DeliveryProcessor) { p.metrics = m }
}

// WithBusinessMetrics attaches OpenTelemetry business counters
func WithBusinessMetrics(m *telemetry.BusinessMetrics) Option {
	return func(p *DeliveryProcessor) { p.business = m }
}

// NewDeliveryProcessor creates a new processor
func NewDeliveryProcessor(
	deliveries integration.DeliveryRepository,
	webhooks integration.WebhookRepository,
	sender Sender,
	cfg ProcessorConfig,
	logger *zap.Logger,
	opts ...Option,
) *DeliveryProcessor {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 5 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}
	p := &DeliveryProcessor{
		deliveries: deliveries,
		webhooks:   webhooks,
		sender:     sender,
		config:     cfg,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the delivery and cleanup loops
func (p *DeliveryProcessor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(2)
	go p.processLoop(ctx)
	go p.cleanupLoop(ctx)

	p.logger.Info("webhook processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
	)
}

// Stop cancels the loops and waits for the in-flight batch
func (p *DeliveryProcessor) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("webhook processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *DeliveryProcessor) processLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProcessBatch(ctx)
		}
	}
}

// ProcessBatch claims due deliveries and attempts each once. It returns
// the number of deliveries attempted.
func (p *DeliveryProcessor) ProcessBatch(ctx context.Context) int {
	claimed, err := p.deliveries.ClaimDue(ctx, p.now(), p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to claim webhook deliveries", zap.Error(err))
		return 0
	}
	if len(claimed) == 0 {
		return 0
	}
	p.metrics.addClaimed(len(claimed))

	secrets, err := p.secrets(ctx, claimed)
	if err != nil {
		p.logger.Error("failed to load webhook configs, releasing batch", zap.Error(err))
		p.release(context.WithoutCancel(ctx), claimed)
		return 0
	}

	attempted := 0
	for _, d := range claimed {
		// Stop waits for the batch; attempts are never cancelled mid-flight.
		attemptCtx := context.WithoutCancel(ctx)
		secret, ok := secrets[d.WebhookID]
		if !ok {
			p.dropOrphan(attemptCtx, d)
			continue
		}
		p.deliver(attemptCtx, d, secret)
		attempted++
	}
	return attempted
}

func (p *DeliveryProcessor) release(ctx context.Context, batch []*integration.Delivery) {
	for _, d := range batch {
		d.Release()
		if err := p.deliveries.Update(ctx, d); err != nil {
			p.logger.Error("failed to release webhook delivery",
				zap.String("delivery_id", d.ID.String()), zap.Error(err))
		}
	}
}

// dropOrphan dead-letters a delivery whose webhook config no longer exists
func (p *DeliveryProcessor) dropOrphan(ctx context.Context, d *integration.Delivery) {
	d.MarkDead("webhook configuration not found")
	p.business.WebhookDelivery(ctx, string(integration.DeliveryDead))
	p.logger.Warn("webhook delivery dropped, configuration missing",
		zap.String("delivery_id", d.ID.String()),
		zap.String("webhook_id", d.WebhookID.String()))
	if err := p.deliveries.Update(ctx, d); err != nil {
		p.logger.Error("failed to record webhook delivery outcome",
			zap.String("delivery_id", d.ID.String()), zap.Error(err))
	}
}

func (p *DeliveryProcessor) secrets(ctx context.Context, batch []*integration.Delivery) (map[uuid.UUID]string, error) {
	seen := make(map[uuid.UUID]struct{})
	ids := make([]uuid.UUID, 0, len(batch))
	for _, d := range batch {
		if _, ok := seen[d.WebhookID]; !ok {
			seen[d.WebhookID] = struct{}{}
			ids = append(ids, d.WebhookID)
		}
	}

	configs, err := p.webhooks.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]string, len(configs))
	for _, c := range configs {
		out[c.ID] = c.Secret
	}
	return out, nil
}

func (p *DeliveryProcessor) deliver(ctx context.Context, d *integration.Delivery, secret string) {
	start := time.Now()
	code, err := p.sender.Send(ctx, d, secret)
	elapsed := time.Since(start).Seconds()

	log := p.logger.With(
		zap.String("delivery_id", d.ID.String()),
		zap.String("tenant_id", d.TenantID.String()),
		zap.String("event", d.Event),
	)

	var outcome string
	if err == nil {
		d.MarkDelivered(code)
		outcome = "delivered"
		log.Debug("webhook delivered", zap.Int("status", code))
	} else {
		d.MarkFailed(code, err.Error())
		outcome = string(d.Status)
		if d.Status == integration.DeliveryDead {
			log.Warn("webhook delivery moved to dead letter",
				zap.Int("attempts", d.Attempts),
				zap.String("last_error", d.LastError))
		} else {
			log.Info("webhook delivery failed",
				zap.Int("attempts", d.Attempts),
				zap.Timep("next_attempt_at", d.NextAttemptAt),
				zap.Error(err))
		}
	}
	p.metrics.observe(outcome, elapsed)
	p.business.WebhookDelivery(ctx, outcome)

	if err := p.deliveries.Update(ctx, d); err != nil {
		log.Error("failed to record webhook delivery outcome", zap.Error(err))
	}
}

func (p *DeliveryProcessor) cleanupLoop(ctx context.Context) {
	defer p.wg.Done()

	p.cleanup(ctx)

	ticker := time.NewTicker(p.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.cleanup(ctx)
		}
	}
}

func (p *DeliveryProcessor) cleanup(ctx context.Context) {
	now := p.now()

	released, err := p.deliveries.ReleaseStale(ctx, now.Add(-p.config.StaleAfter))
	if err != nil {
		p.logger.Error("failed to release stale webhook deliveries", zap.Error(err))
	} else if released > 0 {
		p.logger.Warn("released stale webhook deliveries", zap.Int64("count", released))
	}

	if p.config.CleanupRetention <= 0 {
		return
	}
	cutoff := now.Add(-p.config.CleanupRetention)
	deleted, err := p.deliveries.DeleteDeliveredBefore(ctx, cutoff)
	if err != nil {
		p.logger.Error("failed to purge delivered webhooks", zap.Error(err))
		return
	}
	if deleted > 0 {
		p.logger.Info("purged delivered webhooks",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff))
	}
}
