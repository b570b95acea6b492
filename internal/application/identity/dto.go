package identity

import (
	"github.com/bizdesk/erp/internal/infrastructure/auth"
)

// LoginRequest carries login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=1,max=128"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke with the
// access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// LoginResult is returned by login and refresh
type LoginResult struct {
	*auth.TokenPair
	User UserInfo `json:"user"`
}

// UserInfo is the authenticated user's profile
type UserInfo struct {
	ID       string   `json:"id"`
	TenantID string   `json:"tenant_id"`
	Email    string   `json:"email"`
	Name     string   `json:"name"`
	Role     string   `json:"role"`
	Modules  []string `json:"modules"`
}

// CreateUserRequest creates a user in the caller's tenant
type CreateUserRequest struct {
	Email    string   `json:"email" binding:"required,email,max=200"`
	Name     string   `json:"name" binding:"required,min=1,max=200"`
	Password string   `json:"password" binding:"required,min=8,max=128"`
	Role     string   `json:"role" binding:"required,oneof=admin manager staff"`
	Modules  []string `json:"modules" binding:"omitempty,dive,max=30"`
	Status   string   `json:"status" binding:"omitempty,oneof=active inactive"`
}

// UpdateUserRequest changes a user; omitted fields are left untouched
type UpdateUserRequest struct {
	Name     *string   `json:"name" binding:"omitempty,min=1,max=200"`
	Password *string   `json:"password" binding:"omitempty,min=8,max=128"`
	Role     *string   `json:"role" binding:"omitempty,oneof=admin manager staff"`
	Modules  *[]string `json:"modules"`
	Status   *string   `json:"status" binding:"omitempty,oneof=active inactive"`
}
