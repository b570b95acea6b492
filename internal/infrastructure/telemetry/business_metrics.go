package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a nil meter is passed to NewBusinessMetrics.
var ErrMeterNil = errors.New("telemetry: meter is nil")

// BusinessMetrics counts domain events: documents issued, stock movements and
// webhook delivery outcomes.
type BusinessMetrics struct {
	documents  metric.Int64Counter
	stockMoves metric.Float64Counter
	deliveries metric.Int64Counter
}

// NewBusinessMetrics registers the business instruments on meter.
func NewBusinessMetrics(meter metric.Meter) (*BusinessMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	documents, err := meter.Int64Counter("erp_documents_created_total",
		metric.WithDescription("Business documents created, by kind"),
		metric.WithUnit("{documents}"))
	if err != nil {
		return nil, fmt.Errorf("documents counter: %w", err)
	}
	stockMoves, err := meter.Float64Counter("erp_stock_movement_quantity_total",
		metric.WithDescription("Quantity moved through stock, by movement type"),
		metric.WithUnit("{units}"))
	if err != nil {
		return nil, fmt.Errorf("stock counter: %w", err)
	}
	deliveries, err := meter.Int64Counter("erp_webhook_deliveries_total",
		metric.WithDescription("Webhook delivery attempts, by outcome"),
		metric.WithUnit("{attempts}"))
	if err != nil {
		return nil, fmt.Errorf("deliveries counter: %w", err)
	}

	return &BusinessMetrics{documents: documents, stockMoves: stockMoves, deliveries: deliveries}, nil
}

// DocumentCreated records a new invoice, offer, return or ticket.
func (m *BusinessMetrics) DocumentCreated(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.documents.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

// StockMoved records the absolute quantity of a stock movement.
func (m *BusinessMetrics) StockMoved(ctx context.Context, movementType string, quantity float64) {
	if m == nil {
		return
	}
	m.stockMoves.Add(ctx, quantity, metric.WithAttributes(attribute.String("type", movementType)))
}

// WebhookDelivery records one delivery attempt outcome (delivered, failed, dead).
func (m *BusinessMetrics) WebhookDelivery(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.deliveries.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
