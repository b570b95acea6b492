package partner

import (
	"github.com/bizdesk/erp/internal/application/common"
)

// ListAccountsQuery filters the account list
type ListAccountsQuery struct {
	common.ListQuery
	Type string `form:"type" binding:"omitempty,oneof=customer supplier"`
}

// CreateAccountRequest represents a request to create an account
type CreateAccountRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	Name        string `json:"name" binding:"required,min=1,max=200"`
	Type        string `json:"type" binding:"omitempty,oneof=customer supplier"`
	ContactName string `json:"contact_name" binding:"max=100"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Phone       string `json:"phone" binding:"max=50"`
	Address     string `json:"address"`
	TaxNumber   string `json:"tax_number" binding:"max=50"`
	Notes       string `json:"notes"`
}

// UpdateAccountRequest represents a request to update an account. The
// balance is not part of it.
type UpdateAccountRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Type        *string `json:"type" binding:"omitempty,oneof=customer supplier"`
	ContactName *string `json:"contact_name" binding:"omitempty,max=100"`
	Email       *string `json:"email" binding:"omitempty,email,max=200"`
	Phone       *string `json:"phone" binding:"omitempty,max=50"`
	Address     *string `json:"address"`
	TaxNumber   *string `json:"tax_number" binding:"omitempty,max=50"`
	Notes       *string `json:"notes"`
}
