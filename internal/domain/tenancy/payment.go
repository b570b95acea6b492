package tenancy

import (
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionPayment records money received from a tenant for a package
type SubscriptionPayment struct {
	shared.BaseEntity
	TenantID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"tenant_id"`
	PackageID uuid.UUID       `gorm:"type:uuid;not null" json:"package_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency  string          `gorm:"type:varchar(3);not null" json:"currency"`
	Months    int             `gorm:"not null" json:"months"`
	Method    string          `gorm:"type:varchar(30)" json:"method"`
	Reference string          `gorm:"type:varchar(100)" json:"reference"`
	PaidAt    time.Time       `gorm:"not null" json:"paid_at"`
}

// TableName returns the table name for GORM
func (SubscriptionPayment) TableName() string {
	return "subscription_payments"
}

// NewSubscriptionPayment validates and builds a payment
func NewSubscriptionPayment(tenantID, packageID uuid.UUID, amount decimal.Decimal, currency string, months int) (*SubscriptionPayment, error) {
	if !amount.IsPositive() {
		return nil, shared.NewInvalidInputError("Payment amount must be positive")
	}
	if months <= 0 {
		return nil, shared.NewInvalidInputError("Payment must cover at least one month")
	}
	return &SubscriptionPayment{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		PackageID:  packageID,
		Amount:     amount,
		Currency:   currency,
		Months:     months,
		PaidAt:     time.Now(),
	}, nil
}
