package tenancy

import (
	"regexp"
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
)

// SystemTenantID is the reserved tenant that owns super-admin users
var SystemTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// TrialPeriod is the length of the trial granted to new tenants
const TrialPeriod = 14 * 24 * time.Hour

// SubscriptionStatus represents the billing state of a tenant
type SubscriptionStatus string

const (
	SubscriptionTrial     SubscriptionStatus = "trial"
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionSuspended SubscriptionStatus = "suspended"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// IsValid checks if the status is a known value
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionTrial, SubscriptionActive, SubscriptionSuspended, SubscriptionCancelled:
		return true
	}
	return false
}

var slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,62}$`)

// Tenant is an isolated customer organization
type Tenant struct {
	shared.BaseEntity
	Name               string             `gorm:"type:varchar(200);not null" json:"name"`
	Slug               string             `gorm:"type:varchar(64);not null;uniqueIndex" json:"slug"`
	PackageID          *uuid.UUID         `gorm:"type:uuid" json:"package_id,omitempty"`
	SubscriptionStatus SubscriptionStatus `gorm:"type:varchar(20);not null;default:'trial'" json:"subscription_status"`
	SubscriptionEndsAt *time.Time         `json:"subscription_ends_at,omitempty"`
	ContactEmail       string             `gorm:"type:varchar(200)" json:"contact_email"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// NewTenant creates a tenant in trial state
func NewTenant(name, slug, contactEmail string) (*Tenant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewInvalidInputError("Tenant name cannot be empty")
	}
	slug = strings.ToLower(strings.TrimSpace(slug))
	if !slugPattern.MatchString(slug) {
		return nil, shared.NewInvalidInputError("Tenant slug must be lowercase letters, digits or dashes")
	}
	ends := time.Now().Add(TrialPeriod)
	return &Tenant{
		BaseEntity:         shared.NewBaseEntity(),
		Name:               name,
		Slug:               slug,
		SubscriptionStatus: SubscriptionTrial,
		SubscriptionEndsAt: &ends,
		ContactEmail:       contactEmail,
	}, nil
}

// IsSystem reports whether this is the reserved super-admin tenant
func (t *Tenant) IsSystem() bool {
	return t.ID == SystemTenantID
}

// IsAccessible reports whether users of the tenant may sign in
func (t *Tenant) IsAccessible() bool {
	return t.SubscriptionStatus != SubscriptionSuspended && t.SubscriptionStatus != SubscriptionCancelled
}

// SetStatus changes the subscription status
func (t *Tenant) SetStatus(status SubscriptionStatus) error {
	if !status.IsValid() {
		return shared.NewInvalidInputError("Unknown subscription status: " + string(status))
	}
	if t.IsSystem() && status != SubscriptionActive {
		return shared.NewBusinessRuleError("System tenant cannot be deactivated")
	}
	t.SubscriptionStatus = status
	t.Touch()
	return nil
}

// ExtendSubscription activates the tenant on a package for the given number
// of months, counting from the later of now and the current end date.
func (t *Tenant) ExtendSubscription(packageID uuid.UUID, months int, now time.Time) error {
	if months <= 0 {
		return shared.NewInvalidInputError("Subscription months must be positive")
	}
	start := now
	if t.SubscriptionEndsAt != nil && t.SubscriptionEndsAt.After(now) {
		start = *t.SubscriptionEndsAt
	}
	ends := start.AddDate(0, months, 0)
	t.PackageID = &packageID
	t.SubscriptionStatus = SubscriptionActive
	t.SubscriptionEndsAt = &ends
	t.Touch()
	return nil
}
