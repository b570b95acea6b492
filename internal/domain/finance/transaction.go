package finance

import (
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger posting
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

// IsValid checks if the type is a known value
func (t TransactionType) IsValid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is an income or expense posting against a cash register and
// optionally an account
type Transaction struct {
	shared.TenantEntity
	Type            TransactionType `gorm:"type:varchar(20);not null;index" json:"type"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	CashRegisterID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"cash_register_id"`
	AccountID       *uuid.UUID      `gorm:"type:uuid;index" json:"account_id,omitempty"`
	Category        string          `gorm:"type:varchar(50)" json:"category"`
	Description     string          `gorm:"type:text" json:"description"`
	TransactionDate time.Time       `gorm:"not null;index" json:"transaction_date"`
}

// TableName returns the table name for GORM
func (Transaction) TableName() string {
	return "transactions"
}

// NewTransaction validates and builds a posting
func NewTransaction(tenantID, userID uuid.UUID, txType TransactionType, amount decimal.Decimal, registerID uuid.UUID, accountID *uuid.UUID) (*Transaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewInvalidInputError("Transaction type must be income or expense")
	}
	if !amount.IsPositive() {
		return nil, shared.NewInvalidInputError("Transaction amount must be positive")
	}
	if registerID == uuid.Nil {
		return nil, shared.NewInvalidInputError("Cash register is required")
	}
	return &Transaction{
		TenantEntity:    shared.NewTenantEntityWithCreator(tenantID, userID),
		Type:            txType,
		Amount:          amount,
		CashRegisterID:  registerID,
		AccountID:       accountID,
		TransactionDate: time.Now(),
	}, nil
}

// SetDetails sets free-form descriptive fields
func (t *Transaction) SetDetails(category, description string, date *time.Time) {
	t.Category = strings.TrimSpace(category)
	t.Description = description
	if date != nil && !date.IsZero() {
		t.TransactionDate = *date
	}
}

// RegisterDelta is the register balance change: income adds, expense subtracts
func (t *Transaction) RegisterDelta() decimal.Decimal {
	if t.Type == TransactionIncome {
		return t.Amount
	}
	return t.Amount.Neg()
}

// AccountDelta is the account balance change under the "balance is what the
// counterparty owes" convention: income settles debt, expense adds to it.
func (t *Transaction) AccountDelta() decimal.Decimal {
	return t.RegisterDelta().Neg()
}
