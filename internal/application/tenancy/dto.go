package tenancy

import (
	"time"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListPackagesQuery filters the package catalog
type ListPackagesQuery struct {
	common.ListQuery
	Active *bool `form:"is_active"`
}

// CreatePackageRequest represents a request to add a subscription package
type CreatePackageRequest struct {
	Name                string          `json:"name" binding:"required,max=100"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `json:"price" binding:"decimal_gte0"`
	Currency            string          `json:"currency" binding:"omitempty,len=3"`
	BillingPeriodMonths int             `json:"billing_period_months" binding:"omitempty,min=1,max=36"`
	MaxUsers            int             `json:"max_users" binding:"omitempty,min=0"`
	Modules             []string        `json:"modules"`
}

// UpdatePackageRequest represents a partial package update
type UpdatePackageRequest struct {
	Name                *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description         *string          `json:"description"`
	Price               *decimal.Decimal `json:"price" binding:"omitempty,decimal_gte0"`
	BillingPeriodMonths *int             `json:"billing_period_months" binding:"omitempty,min=1,max=36"`
	MaxUsers            *int             `json:"max_users" binding:"omitempty,min=0"`
	Modules             *[]string        `json:"modules"`
	IsActive            *bool            `json:"is_active"`
}

// ListTenantsQuery filters the tenant list
type ListTenantsQuery struct {
	common.ListQuery
	Status    string `form:"subscription_status" binding:"omitempty,oneof=trial active suspended cancelled"`
	PackageID string `form:"package_id" binding:"omitempty,uuid"`
}

// CreateTenantRequest creates a tenant together with its first admin user
type CreateTenantRequest struct {
	Name          string     `json:"name" binding:"required,max=200"`
	Slug          string     `json:"slug" binding:"required,max=64"`
	ContactEmail  string     `json:"contact_email" binding:"omitempty,email"`
	PackageID     *uuid.UUID `json:"package_id"`
	AdminName     string     `json:"admin_name" binding:"required,max=100"`
	AdminEmail    string     `json:"admin_email" binding:"required,email"`
	AdminPassword string     `json:"admin_password" binding:"required,min=8,max=72"`
}

// UpdateTenantRequest represents a partial tenant update
type UpdateTenantRequest struct {
	Name               *string    `json:"name" binding:"omitempty,min=1,max=200"`
	ContactEmail       *string    `json:"contact_email" binding:"omitempty,email"`
	PackageID          *uuid.UUID `json:"package_id"`
	SubscriptionStatus *string    `json:"subscription_status" binding:"omitempty,oneof=trial active suspended cancelled"`
	SubscriptionEndsAt *time.Time `json:"subscription_ends_at"`
}

// ListSupportTicketsQuery filters support tickets
type ListSupportTicketsQuery struct {
	common.ListQuery
	Status   string `form:"status" binding:"omitempty,oneof=open answered closed"`
	Priority string `form:"priority" binding:"omitempty,oneof=low normal high urgent"`
	TenantID string `form:"tenant_id" binding:"omitempty,uuid"`
}

// CreateSupportTicketRequest opens a support request
type CreateSupportTicketRequest struct {
	Subject  string `json:"subject" binding:"required,max=200"`
	Message  string `json:"message" binding:"required"`
	Priority string `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
}

// AnswerSupportTicketRequest records an operator reply
type AnswerSupportTicketRequest struct {
	Status     string `json:"status" binding:"required,oneof=open answered closed"`
	AdminReply string `json:"admin_reply"`
}

// ListPaymentsQuery filters subscription payments
type ListPaymentsQuery struct {
	common.ListQuery
	TenantID  string `form:"tenant_id" binding:"omitempty,uuid"`
	PackageID string `form:"package_id" binding:"omitempty,uuid"`
	Method    string `form:"method" binding:"omitempty,max=30"`
}

// CreatePaymentRequest records a subscription payment
type CreatePaymentRequest struct {
	TenantID  uuid.UUID       `json:"tenant_id" binding:"required"`
	PackageID uuid.UUID       `json:"package_id" binding:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Months    int             `json:"months" binding:"required,min=1,max=120"`
	Method    string          `json:"method" binding:"max=30"`
	Reference string          `json:"reference" binding:"max=100"`
}
