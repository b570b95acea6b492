package tenancy

import (
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
)

// SupportTicketStatus represents the state of a support request
type SupportTicketStatus string

const (
	SupportTicketOpen     SupportTicketStatus = "open"
	SupportTicketAnswered SupportTicketStatus = "answered"
	SupportTicketClosed   SupportTicketStatus = "closed"
)

// SupportTicket is a request from a tenant to the platform operators
type SupportTicket struct {
	shared.TenantEntity
	Subject    string              `gorm:"type:varchar(200);not null" json:"subject"`
	Message    string              `gorm:"type:text;not null" json:"message"`
	Priority   string              `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`
	Status     SupportTicketStatus `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	AdminReply string              `gorm:"type:text" json:"admin_reply,omitempty"`
	RepliedAt  *time.Time          `json:"replied_at,omitempty"`
}

// TableName returns the table name for GORM
func (SupportTicket) TableName() string {
	return "support_tickets"
}

// NewSupportTicket opens a ticket for a tenant
func NewSupportTicket(tenantID, userID uuid.UUID, subject, message, priority string) (*SupportTicket, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(message) == "" {
		return nil, shared.NewInvalidInputError("Subject and message are required")
	}
	if priority == "" {
		priority = "normal"
	}
	return &SupportTicket{
		TenantEntity: shared.NewTenantEntityWithCreator(tenantID, userID),
		Subject:      strings.TrimSpace(subject),
		Message:      message,
		Priority:     priority,
		Status:       SupportTicketOpen,
	}, nil
}

// Answer records an operator reply
func (t *SupportTicket) Answer(reply string, status SupportTicketStatus) error {
	switch status {
	case SupportTicketOpen, SupportTicketAnswered, SupportTicketClosed:
	default:
		return shared.NewInvalidInputError("Unknown support ticket status: " + string(status))
	}
	if reply != "" {
		now := time.Now()
		t.AdminReply = reply
		t.RepliedAt = &now
	}
	t.Status = status
	t.Touch()
	return nil
}
