package servicedesk

import (
	"context"
	"errors"

	"github.com/bizdesk/erp/internal/application/catalog"
	"github.com/bizdesk/erp/internal/application/common"
	domaincatalog "github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/bizdesk/erp/internal/domain/servicedesk"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const referenceServiceTicket = "service_ticket"

// TicketService handles service tickets, their parts and history
type TicketService struct {
	tickets   servicedesk.TicketRepository
	txScope   common.TransactionScope
	publisher common.EventPublisher
	notifier  common.Notifier
	logger    *zap.Logger
}

// NewTicketService creates a new TicketService
func NewTicketService(
	tickets servicedesk.TicketRepository,
	txScope common.TransactionScope,
	publisher common.EventPublisher,
	notifier common.Notifier,
	logger *zap.Logger,
) *TicketService {
	return &TicketService{
		tickets:   tickets,
		txScope:   txScope,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
	}
}

// List returns a page of ticket headers
func (s *TicketService) List(ctx context.Context, tenantID uuid.UUID, q ListTicketsQuery) (common.Page[servicedesk.Ticket], error) {
	f := q.Filter().
		With("status", q.Status).
		With("priority", q.Priority).
		With("account_id", q.AccountID).
		With("assignee_id", q.AssigneeID)
	items, total, err := s.tickets.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[servicedesk.Ticket]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns a ticket with parts and history
func (s *TicketService) Get(ctx context.Context, tenantID, id uuid.UUID) (*servicedesk.Ticket, error) {
	return s.tickets.FindByIDForTenant(ctx, tenantID, id)
}

// Create opens a ticket. Parts that reference a product consume stock with a
// service movement in the same transaction as the insert.
func (s *TicketService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateTicketRequest) (*servicedesk.Ticket, error) {
	ticket, err := servicedesk.NewTicket(tenantID, userID, req.Subject, toPartInputs(req.Parts))
	if err != nil {
		return nil, err
	}
	ticket.AccountID = req.AccountID
	ticket.Device = req.Device
	ticket.SerialNumber = req.SerialNumber
	ticket.Description = req.Description
	ticket.AssigneeID = req.AssigneeID
	if req.Priority != "" {
		ticket.Priority = req.Priority
	}

	var lowStock []*domaincatalog.Product
	err = s.txScope.Execute(ctx, func(repos common.Repositories) error {
		if ticket.AccountID != nil {
			if _, err := repos.Accounts().FindByIDForTenant(ctx, tenantID, *ticket.AccountID); err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewNotFoundError("Account " + ticket.AccountID.String())
				}
				return err
			}
		}
		if err := repos.ServiceTickets().Create(ctx, ticket); err != nil {
			return err
		}
		for _, part := range ticket.Parts {
			if part.ProductID == nil {
				continue
			}
			product, err := common.PostStock(ctx, repos, common.StockPosting{
				TenantID:      tenantID,
				UserID:        userID,
				ProductID:     *part.ProductID,
				Type:          domaincatalog.MovementService,
				Quantity:      part.Quantity,
				ReferenceType: referenceServiceTicket,
				ReferenceID:   ticket.ID,
				Note:          ticket.TicketNumber,
			})
			if err != nil {
				return err
			}
			if product.IsBelowMinimum() {
				lowStock = append(lowStock, product)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Service ticket created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("ticket_number", ticket.TicketNumber))
	s.publisher.TriggerEvent(ctx, tenantID, common.EventTicketCreated, ticket)
	for _, p := range lowStock {
		catalog.NotifyLowStock(ctx, s.notifier, tenantID, p)
	}
	return ticket, nil
}

// Update changes header fields
func (s *TicketService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateTicketRequest) (*servicedesk.Ticket, error) {
	ticket, err := s.tickets.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.Subject != nil {
		ticket.Subject = *req.Subject
	}
	if req.Device != nil {
		ticket.Device = *req.Device
	}
	if req.SerialNumber != nil {
		ticket.SerialNumber = *req.SerialNumber
	}
	if req.Description != nil {
		ticket.Description = *req.Description
	}
	if req.Priority != nil {
		ticket.Priority = *req.Priority
	}
	if req.AssigneeID != nil {
		ticket.AssigneeID = req.AssigneeID
		if *req.AssigneeID == uuid.Nil {
			ticket.AssigneeID = nil
		}
	}
	ticket.Touch()
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// ChangeStatus moves the ticket to a new status and records the transition
// atomically with the header update
func (s *TicketService) ChangeStatus(ctx context.Context, tenantID, userID, id uuid.UUID, req ChangeStatusRequest) (*servicedesk.Ticket, error) {
	var ticket *servicedesk.Ticket
	err := s.txScope.Execute(ctx, func(repos common.Repositories) error {
		t, err := repos.ServiceTickets().FindByIDForTenant(ctx, tenantID, id)
		if err != nil {
			return err
		}
		entry, err := t.ChangeStatus(userID, servicedesk.Status(req.Status), req.Note)
		if err != nil {
			return err
		}
		if err := repos.ServiceTickets().Save(ctx, t); err != nil {
			return err
		}
		if err := repos.ServiceTickets().AppendHistory(ctx, entry); err != nil {
			return err
		}
		t.History = append(t.History, *entry)
		ticket = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publisher.TriggerEvent(ctx, tenantID, common.EventTicketStatus, ticket)
	return ticket, nil
}

// AddNote appends a note to the ticket history
func (s *TicketService) AddNote(ctx context.Context, tenantID, userID, id uuid.UUID, req AddNoteRequest) (*servicedesk.HistoryEntry, error) {
	ticket, err := s.tickets.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	entry, err := ticket.AddNote(userID, req.Note)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.AppendHistory(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes a ticket with its parts and history. Consumed stock is not
// returned.
func (s *TicketService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	ticket, err := s.tickets.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	return s.tickets.Delete(ctx, ticket.ID)
}
