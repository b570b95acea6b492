package servicedesk

import (
	"context"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
)

// TicketRepository defines the interface for service ticket persistence
type TicketRepository interface {
	// FindByIDForTenant loads the ticket with parts and history
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Ticket, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Ticket, int64, error)

	// Create inserts the header, parts and history
	Create(ctx context.Context, ticket *Ticket) error

	// Save updates header fields only
	Save(ctx context.Context, ticket *Ticket) error
	AppendHistory(ctx context.Context, entry *HistoryEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}
