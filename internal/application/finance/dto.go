package finance

import (
	"time"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCashRegisterRequest represents a request to open a cash register
type CreateCashRegisterRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=100"`
	Currency    string           `json:"currency" binding:"omitempty,len=3"`
	Balance     *decimal.Decimal `json:"balance"`
	Description string           `json:"description"`
}

// UpdateCashRegisterRequest represents a request to update a cash register.
// The balance is maintained by transactions only.
type UpdateCashRegisterRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// ListTransactionsQuery filters the transaction list
type ListTransactionsQuery struct {
	common.ListQuery
	Type           string     `form:"type" binding:"omitempty,oneof=income expense"`
	CashRegisterID string     `form:"cash_register_id" binding:"omitempty,uuid"`
	AccountID      string     `form:"account_id" binding:"omitempty,uuid"`
	Category       string     `form:"category" binding:"omitempty,max=50"`
	From           *time.Time `form:"from" time_format:"2006-01-02"`
	To             *time.Time `form:"to" time_format:"2006-01-02"`
}

// CreateTransactionRequest represents a request to post income or expense
type CreateTransactionRequest struct {
	Type            string          `json:"type" binding:"required,oneof=income expense"`
	Amount          decimal.Decimal `json:"amount"`
	CashRegisterID  uuid.UUID       `json:"cash_register_id" binding:"required"`
	AccountID       *uuid.UUID      `json:"account_id"`
	Category        string          `json:"category" binding:"max=50"`
	Description     string          `json:"description" binding:"max=1000"`
	TransactionDate *time.Time      `json:"transaction_date"`
}
