package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity holds the identity and timestamps shared by every table
type BaseEntity struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBaseEntity creates a base entity with a generated ID
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch bumps the update timestamp
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}

// TenantEntity is a BaseEntity partitioned by tenant. Repositories of
// tenant entities always filter by TenantID.
type TenantEntity struct {
	BaseEntity
	TenantID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"tenant_id"`
	CreatedBy *uuid.UUID `gorm:"type:uuid" json:"created_by,omitempty"`
}

// NewTenantEntity creates a tenant-scoped entity
func NewTenantEntity(tenantID uuid.UUID) TenantEntity {
	return TenantEntity{BaseEntity: NewBaseEntity(), TenantID: tenantID}
}

// NewTenantEntityWithCreator also records the creating user when known
func NewTenantEntityWithCreator(tenantID, createdBy uuid.UUID) TenantEntity {
	e := NewTenantEntity(tenantID)
	if createdBy != uuid.Nil {
		e.CreatedBy = &createdBy
	}
	return e
}
