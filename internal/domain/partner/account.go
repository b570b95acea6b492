package partner

import (
	"strings"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountType distinguishes customers from suppliers
type AccountType string

const (
	AccountTypeCustomer AccountType = "customer"
	AccountTypeSupplier AccountType = "supplier"
)

// IsValid checks if the type is a known value
func (t AccountType) IsValid() bool {
	return t == AccountTypeCustomer || t == AccountTypeSupplier
}

// Account is a customer or supplier ledger entry. Balance is the amount the
// counterparty owes the tenant and is only changed by ledger workflows.
type Account struct {
	shared.TenantEntity
	Code        string          `gorm:"type:varchar(50);not null;index" json:"code"`
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Type        AccountType     `gorm:"type:varchar(20);not null;default:'customer';index" json:"type"`
	ContactName string          `gorm:"type:varchar(100)" json:"contact_name"`
	Email       string          `gorm:"type:varchar(200)" json:"email"`
	Phone       string          `gorm:"type:varchar(50)" json:"phone"`
	Address     string          `gorm:"type:text" json:"address"`
	TaxNumber   string          `gorm:"type:varchar(50)" json:"tax_number"`
	Balance     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0" json:"balance"`
	Notes       string          `gorm:"type:text" json:"notes"`
}

// TableName returns the table name for GORM
func (Account) TableName() string {
	return "accounts"
}

// NewAccount creates an account with zero balance
func NewAccount(tenantID uuid.UUID, code, name string, accountType AccountType) (*Account, error) {
	code = strings.TrimSpace(code)
	if code == "" || len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Account code must be 1-50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if accountType == "" {
		accountType = AccountTypeCustomer
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Account type must be customer or supplier")
	}
	return &Account{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Code:         strings.ToUpper(code),
		Name:         strings.TrimSpace(name),
		Type:         accountType,
		Balance:      decimal.Zero,
	}, nil
}

// CanDelete reports whether the account has a settled balance
func (a *Account) CanDelete() error {
	if !a.Balance.IsZero() {
		return shared.NewBusinessRuleError("Account with an open balance cannot be deleted")
	}
	return nil
}
