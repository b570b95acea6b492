package tenancy

import (
	"strings"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SubscriptionPackage is a global catalog entry referenced by tenants
type SubscriptionPackage struct {
	shared.BaseEntity
	Name                string            `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Description         string            `gorm:"type:text" json:"description"`
	Price               decimal.Decimal   `gorm:"type:decimal(18,2);not null" json:"price"`
	Currency            string            `gorm:"type:varchar(3);not null;default:'TRY'" json:"currency"`
	BillingPeriodMonths int               `gorm:"not null;default:1" json:"billing_period_months"`
	MaxUsers            int               `gorm:"not null;default:0" json:"max_users"`
	Modules             shared.StringList `gorm:"type:jsonb" json:"modules"`
	IsActive            bool              `gorm:"not null;default:true" json:"is_active"`
}

// TableName returns the table name for GORM
func (SubscriptionPackage) TableName() string {
	return "subscription_packages"
}

// NewSubscriptionPackage creates an active package
func NewSubscriptionPackage(name string, price decimal.Decimal, currency string, months int) (*SubscriptionPackage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewInvalidInputError("Package name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewInvalidInputError("Package price cannot be negative")
	}
	if months <= 0 {
		months = 1
	}
	if currency == "" {
		currency = "TRY"
	}
	return &SubscriptionPackage{
		BaseEntity:          shared.NewBaseEntity(),
		Name:                name,
		Price:               price,
		Currency:            strings.ToUpper(currency),
		BillingPeriodMonths: months,
		Modules:             shared.StringList{},
		IsActive:            true,
	}, nil
}
