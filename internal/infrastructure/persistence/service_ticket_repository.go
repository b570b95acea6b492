package persistence

import (
	"context"
	"fmt"

	"github.com/bizdesk/erp/internal/domain/servicedesk"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ticketListSpec = listSpec{
	sortFields:   fields("ticket_number", "status", "priority", "subject"),
	filterFields: fields("status", "priority", "account_id", "assignee_id"),
	searchFields: []string{"ticket_number", "subject", "device", "serial_number"},
}

// GormServiceTicketRepository implements servicedesk.TicketRepository
type GormServiceTicketRepository struct {
	db *gorm.DB
}

// NewGormServiceTicketRepository creates a new GormServiceTicketRepository
func NewGormServiceTicketRepository(db *gorm.DB) *GormServiceTicketRepository {
	return &GormServiceTicketRepository{db: db}
}

// FindByIDForTenant loads a ticket with parts and chronological history
func (r *GormServiceTicketRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*servicedesk.Ticket, error) {
	return findForTenant[servicedesk.Ticket](ctx, r.db, tenantID, id, "Parts", "History")
}

// FindAllForTenant lists ticket headers of a tenant
func (r *GormServiceTicketRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]servicedesk.Ticket, int64, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	return list[servicedesk.Ticket](q, filter, ticketListSpec)
}

// Create inserts the ticket with its parts and history
func (r *GormServiceTicketRepository) Create(ctx context.Context, ticket *servicedesk.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

// Save updates header fields only
func (r *GormServiceTicketRepository) Save(ctx context.Context, ticket *servicedesk.Ticket) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(ticket).Error
}

// AppendHistory adds one history entry
func (r *GormServiceTicketRepository) AppendHistory(ctx context.Context, entry *servicedesk.HistoryEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// Delete removes the ticket and everything it owns
func (r *GormServiceTicketRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return withTx(ctx, r.db, func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", id).Delete(&servicedesk.Part{}).Error; err != nil {
			return fmt.Errorf("delete ticket parts: %w", err)
		}
		if err := tx.Where("ticket_id = ?", id).Delete(&servicedesk.HistoryEntry{}).Error; err != nil {
			return fmt.Errorf("delete ticket history: %w", err)
		}
		return deleteByID[servicedesk.Ticket](ctx, tx, id)
	})
}

var _ servicedesk.TicketRepository = (*GormServiceTicketRepository)(nil)
