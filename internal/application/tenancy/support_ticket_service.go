package tenancy

import (
	"context"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/tenancy"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupportTicketService handles tenant requests to the platform operators
type SupportTicketService struct {
	tickets tenancy.SupportTicketRepository
	logger  *zap.Logger
}

// NewSupportTicketService creates a new SupportTicketService
func NewSupportTicketService(tickets tenancy.SupportTicketRepository, logger *zap.Logger) *SupportTicketService {
	return &SupportTicketService{tickets: tickets, logger: logger}
}

// ListForTenant returns the tickets of one tenant
func (s *SupportTicketService) ListForTenant(ctx context.Context, tenantID uuid.UUID, q ListSupportTicketsQuery) (common.Page[tenancy.SupportTicket], error) {
	f := q.Filter().With("status", q.Status).With("priority", q.Priority)
	items, total, err := s.tickets.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[tenancy.SupportTicket]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// ListAll returns tickets across tenants for operators
func (s *SupportTicketService) ListAll(ctx context.Context, q ListSupportTicketsQuery) (common.Page[tenancy.SupportTicket], error) {
	f := q.Filter().With("status", q.Status).With("priority", q.Priority).With("tenant_id", q.TenantID)
	items, total, err := s.tickets.FindAll(ctx, f)
	if err != nil {
		return common.Page[tenancy.SupportTicket]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Create opens a ticket for the caller's tenant
func (s *SupportTicketService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateSupportTicketRequest) (*tenancy.SupportTicket, error) {
	ticket, err := tenancy.NewSupportTicket(tenantID, userID, req.Subject, req.Message, req.Priority)
	if err != nil {
		return nil, err
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.logger.Info("Support ticket opened",
		zap.String("tenant_id", tenantID.String()),
		zap.String("ticket_id", ticket.ID.String()))
	return ticket, nil
}

// Answer sets the status and operator reply
func (s *SupportTicketService) Answer(ctx context.Context, id uuid.UUID, req AnswerSupportTicketRequest) (*tenancy.SupportTicket, error) {
	ticket, err := s.tickets.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ticket.Answer(req.AdminReply, tenancy.SupportTicketStatus(req.Status)); err != nil {
		return nil, err
	}
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}
