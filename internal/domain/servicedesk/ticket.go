package servicedesk

import (
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the progress of a service ticket
type Status string

const (
	StatusOpen         Status = "open"
	StatusInProgress   Status = "in_progress"
	StatusWaitingParts Status = "waiting_parts"
	StatusResolved     Status = "resolved"
	StatusClosed       Status = "closed"
)

// IsValid checks if the status is a known value
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusWaitingParts, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// IsOpen reports whether the ticket still needs work
func (s Status) IsOpen() bool {
	return s != StatusResolved && s != StatusClosed
}

// ClosedStatuses lists statuses that count as finished work
var ClosedStatuses = []Status{StatusResolved, StatusClosed}

// Ticket is a repair or service job with owned parts and an append-only
// history log
type Ticket struct {
	shared.TenantEntity
	TicketNumber string          `gorm:"type:varchar(50);not null;index" json:"ticket_number"`
	AccountID    *uuid.UUID      `gorm:"type:uuid;index" json:"account_id,omitempty"`
	Subject      string          `gorm:"type:varchar(200);not null" json:"subject"`
	Device       string          `gorm:"type:varchar(200)" json:"device"`
	SerialNumber string          `gorm:"type:varchar(100)" json:"serial_number"`
	Description  string          `gorm:"type:text" json:"description"`
	Priority     string          `gorm:"type:varchar(20);not null;default:'normal'" json:"priority"`
	Status       Status          `gorm:"type:varchar(20);not null;default:'open';index" json:"status"`
	AssigneeID   *uuid.UUID      `gorm:"type:uuid" json:"assignee_id,omitempty"`
	PartsTotal   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"parts_total"`
	Parts        []Part          `gorm:"foreignKey:TicketID;references:ID" json:"parts"`
	History      []HistoryEntry  `gorm:"foreignKey:TicketID;references:ID" json:"history"`
}

// TableName returns the table name for GORM
func (Ticket) TableName() string {
	return "service_tickets"
}

// Part is a spare part or consumable used on a ticket
type Part struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TicketID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"ticket_id"`
	ProductID   *uuid.UUID      `gorm:"type:uuid" json:"product_id,omitempty"`
	Description string          `gorm:"type:varchar(500)" json:"description"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"unit_price"`
	Total       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"total"`
}

// TableName returns the table name for GORM
func (Part) TableName() string {
	return "service_ticket_parts"
}

// HistoryEntry is an append-only log row of a ticket
type HistoryEntry struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	TicketID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"ticket_id"`
	FromStatus Status     `gorm:"type:varchar(20)" json:"from_status,omitempty"`
	ToStatus   Status     `gorm:"type:varchar(20)" json:"to_status,omitempty"`
	Note       string     `gorm:"type:text" json:"note"`
	UserID     *uuid.UUID `gorm:"type:uuid" json:"user_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TableName returns the table name for GORM
func (HistoryEntry) TableName() string {
	return "service_ticket_history"
}

// PartInput is a submitted part line
type PartInput struct {
	ProductID   *uuid.UUID
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// NewTicket opens a ticket with its parts and an initial history entry
func NewTicket(tenantID, userID uuid.UUID, subject string, parts []PartInput) (*Ticket, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, shared.NewInvalidInputError("Ticket subject cannot be empty")
	}
	t := &Ticket{
		TenantEntity: shared.NewTenantEntityWithCreator(tenantID, userID),
		TicketNumber: generateTicketNumber(time.Now()),
		Subject:      subject,
		Priority:     "normal",
		Status:       StatusOpen,
		PartsTotal:   decimal.Zero,
		Parts:        make([]Part, 0, len(parts)),
	}
	for _, in := range parts {
		if !in.Quantity.IsPositive() {
			return nil, shared.NewInvalidInputError("Part quantity must be positive")
		}
		if in.UnitPrice.IsNegative() {
			return nil, shared.NewInvalidInputError("Part price cannot be negative")
		}
		if in.ProductID == nil && strings.TrimSpace(in.Description) == "" {
			return nil, shared.NewInvalidInputError("Part needs a product or a description")
		}
		total := in.Quantity.Mul(in.UnitPrice).Round(2)
		t.Parts = append(t.Parts, Part{
			ID:          uuid.New(),
			TicketID:    t.ID,
			ProductID:   in.ProductID,
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Total:       total,
		})
		t.PartsTotal = t.PartsTotal.Add(total)
	}
	t.History = []HistoryEntry{*t.newHistory(userID, "", StatusOpen, "Ticket created")}
	return t, nil
}

// ChangeStatus moves the ticket to a new status and returns the history
// row that records the transition
func (t *Ticket) ChangeStatus(userID uuid.UUID, status Status, note string) (*HistoryEntry, error) {
	if !status.IsValid() {
		return nil, shared.NewInvalidInputError("Unknown ticket status: " + string(status))
	}
	if t.Status == status {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Ticket is already "+string(status))
	}
	if t.Status == StatusClosed {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Closed tickets cannot change status")
	}
	entry := t.newHistory(userID, t.Status, status, note)
	t.Status = status
	t.Touch()
	return entry, nil
}

// AddNote returns a history row without a status change
func (t *Ticket) AddNote(userID uuid.UUID, note string) (*HistoryEntry, error) {
	if strings.TrimSpace(note) == "" {
		return nil, shared.NewInvalidInputError("Note cannot be empty")
	}
	return t.newHistory(userID, "", "", note), nil
}

func (t *Ticket) newHistory(userID uuid.UUID, from, to Status, note string) *HistoryEntry {
	entry := &HistoryEntry{
		ID:         uuid.New(),
		TicketID:   t.ID,
		FromStatus: from,
		ToStatus:   to,
		Note:       note,
		CreatedAt:  time.Now(),
	}
	if userID != uuid.Nil {
		entry.UserID = &userID
	}
	return entry
}

func generateTicketNumber(now time.Time) string {
	return "SRV-" + now.Format("20060102") + "-" + strings.ToUpper(uuid.NewString()[:6])
}
