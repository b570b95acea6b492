package servicedesk

import (
	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/servicedesk"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListTicketsQuery filters the service ticket list
type ListTicketsQuery struct {
	common.ListQuery
	Status     string `form:"status" binding:"omitempty,oneof=open in_progress waiting_parts resolved closed"`
	Priority   string `form:"priority" binding:"omitempty,oneof=low normal high urgent"`
	AccountID  string `form:"account_id" binding:"omitempty,uuid"`
	AssigneeID string `form:"assignee_id" binding:"omitempty,uuid"`
}

// PartRequest is a part line of a new ticket
type PartRequest struct {
	ProductID   *uuid.UUID      `json:"product_id"`
	Description string          `json:"description" binding:"max=500"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

// CreateTicketRequest represents a request to open a service ticket
type CreateTicketRequest struct {
	AccountID    *uuid.UUID    `json:"account_id"`
	Subject      string        `json:"subject" binding:"required,max=200"`
	Device       string        `json:"device" binding:"max=200"`
	SerialNumber string        `json:"serial_number" binding:"max=100"`
	Description  string        `json:"description"`
	Priority     string        `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	AssigneeID   *uuid.UUID    `json:"assignee_id"`
	Parts        []PartRequest `json:"parts" binding:"omitempty,dive"`
}

// UpdateTicketRequest changes header fields. Status changes go through
// ChangeStatus so they are recorded in the history.
type UpdateTicketRequest struct {
	Subject      *string    `json:"subject" binding:"omitempty,min=1,max=200"`
	Device       *string    `json:"device" binding:"omitempty,max=200"`
	SerialNumber *string    `json:"serial_number" binding:"omitempty,max=100"`
	Description  *string    `json:"description"`
	Priority     *string    `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	AssigneeID   *uuid.UUID `json:"assignee_id"`
}

// ChangeStatusRequest moves a ticket to another status
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=open in_progress waiting_parts resolved closed"`
	Note   string `json:"note"`
}

// AddNoteRequest appends a free-form note to the history
type AddNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

func toPartInputs(reqs []PartRequest) []servicedesk.PartInput {
	out := make([]servicedesk.PartInput, len(reqs))
	for i, r := range reqs {
		out[i] = servicedesk.PartInput{
			ProductID:   r.ProductID,
			Description: r.Description,
			Quantity:    r.Quantity,
			UnitPrice:   r.UnitPrice,
		}
	}
	return out
}
