package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// Role is the coarse authorization level of a user
type Role string

const (
	RoleSuperAdmin Role = "superadmin"
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleStaff      Role = "staff"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleManager, RoleStaff:
		return true
	}
	return false
}

// Module names used in per-user allow-lists
const (
	ModuleAccounts = "accounts"
	ModuleProducts = "products"
	ModuleInvoices = "invoices"
	ModuleOffers   = "offers"
	ModuleSales    = "sales"
	ModuleFinance  = "finance"
	ModuleHR       = "hr"
	ModuleTasks    = "tasks"
	ModuleServices = "services"
	ModuleWebhooks = "webhooks"
	ModuleReports  = "reports"
)

// AllModules lists every module a user can be granted
var AllModules = []string{
	ModuleAccounts, ModuleProducts, ModuleInvoices, ModuleOffers, ModuleSales,
	ModuleFinance, ModuleHR, ModuleTasks, ModuleServices, ModuleWebhooks, ModuleReports,
}

// BcryptCost is the bcrypt work factor used for new password hashes
var BcryptCost = 12

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// User is a person who can sign in to a tenant
type User struct {
	shared.TenantEntity
	Email          string            `gorm:"type:varchar(200);not null;uniqueIndex" json:"email"`
	Name           string            `gorm:"type:varchar(200);not null" json:"name"`
	PasswordHash   string            `gorm:"type:varchar(200);not null" json:"-"`
	Role           Role              `gorm:"type:varchar(20);not null" json:"role"`
	AllowedModules shared.StringList `gorm:"type:jsonb" json:"allowed_modules"`
	Status         UserStatus        `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	LastLoginAt    *time.Time        `json:"last_login_at,omitempty"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user with a hashed password
func NewUser(tenantID uuid.UUID, email, name, password string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(role))
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		TenantEntity:   shared.NewTenantEntity(tenantID),
		Email:          email,
		Name:           strings.TrimSpace(name),
		PasswordHash:   hash,
		Role:           role,
		AllowedModules: shared.StringList{},
		Status:         UserStatusActive,
	}, nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// VerifyPassword checks a plain-text password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetRole changes the role
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(role))
	}
	u.Role = role
	u.Touch()
	return nil
}

// SetModules replaces the module allow-list
func (u *User) SetModules(modules []string) error {
	list := make(shared.StringList, 0, len(modules))
	for _, m := range modules {
		known := false
		for _, k := range AllModules {
			if k == m {
				known = true
				break
			}
		}
		if !known {
			return shared.NewDomainError("INVALID_MODULE", "Unknown module: "+m)
		}
		if !list.Contains(m) {
			list = append(list, m)
		}
	}
	u.AllowedModules = list
	u.Touch()
	return nil
}

// SetStatus activates or deactivates the user
func (u *User) SetStatus(status UserStatus) error {
	if status != UserStatusActive && status != UserStatusInactive {
		return shared.NewDomainError("INVALID_STATUS", "Unknown user status: "+string(status))
	}
	u.Status = status
	u.Touch()
	return nil
}

// RecordLogin stamps the last successful login
func (u *User) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
}

// IsActive reports whether the user may sign in
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// CanAccessModule reports whether the user may use a module
func (u *User) CanAccessModule(module string) bool {
	if u.Role == RoleAdmin || u.Role == RoleSuperAdmin {
		return true
	}
	return u.AllowedModules.Contains(module)
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 || !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}
