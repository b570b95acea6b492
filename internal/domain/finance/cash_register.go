package finance

import (
	"strings"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashRegister is a till or bank account whose balance is maintained by
// transaction postings
type CashRegister struct {
	shared.TenantEntity
	Name        string          `gorm:"type:varchar(100);not null" json:"name"`
	Currency    string          `gorm:"type:varchar(3);not null;default:'TRY'" json:"currency"`
	Balance     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"balance"`
	Description string          `gorm:"type:text" json:"description"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (CashRegister) TableName() string {
	return "cash_registers"
}

// NewCashRegister creates a register with an opening balance
func NewCashRegister(tenantID uuid.UUID, name, currency string, opening decimal.Decimal) (*CashRegister, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewInvalidInputError("Cash register name cannot be empty")
	}
	if currency == "" {
		currency = "TRY"
	}
	return &CashRegister{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Name:         strings.TrimSpace(name),
		Currency:     strings.ToUpper(currency),
		Balance:      opening,
		IsActive:     true,
	}, nil
}
