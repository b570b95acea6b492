package handler

import (
	"github.com/bizdesk/erp/internal/application/tenancy"
	"github.com/bizdesk/erp/internal/domain/identity"
	"github.com/bizdesk/erp/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// TenancyHandler serves the SaaS console: packages, tenants, support
// tickets and subscription payments
type TenancyHandler struct {
	BaseHandler
	packageService *tenancy.PackageService
	tenantService  *tenancy.TenantService
	supportService *tenancy.SupportTicketService
	paymentService *tenancy.PaymentService
}

// NewTenancyHandler creates a new TenancyHandler
func NewTenancyHandler(
	packageService *tenancy.PackageService,
	tenantService *tenancy.TenantService,
	supportService *tenancy.SupportTicketService,
	paymentService *tenancy.PaymentService,
) *TenancyHandler {
	return &TenancyHandler{
		packageService: packageService,
		tenantService:  tenantService,
		supportService: supportService,
		paymentService: paymentService,
	}
}

// ListPackages returns subscription packages. Public.
// GET /packages
func (h *TenancyHandler) ListPackages(c *gin.Context) {
	var q tenancy.ListPackagesQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.packageService.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// GetPackage returns a subscription package. Public.
// GET /packages/:id
func (h *TenancyHandler) GetPackage(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	pkg, err := h.packageService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pkg)
}

// CreatePackage adds a subscription package
// POST /packages
func (h *TenancyHandler) CreatePackage(c *gin.Context) {
	var req tenancy.CreatePackageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	pkg, err := h.packageService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, pkg)
}

// UpdatePackage changes a subscription package
// PUT /packages/:id
func (h *TenancyHandler) UpdatePackage(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req tenancy.UpdatePackageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	pkg, err := h.packageService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pkg)
}

// DeletePackage removes a subscription package
// DELETE /packages/:id
func (h *TenancyHandler) DeletePackage(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.packageService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListTenants returns all tenants
// GET /tenants
func (h *TenancyHandler) ListTenants(c *gin.Context) {
	var q tenancy.ListTenantsQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.tenantService.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// GetTenant returns a tenant
// GET /tenants/:id
func (h *TenancyHandler) GetTenant(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	tenant, err := h.tenantService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// CreateTenant provisions a tenant and its first admin user
// POST /tenants
func (h *TenancyHandler) CreateTenant(c *gin.Context) {
	var req tenancy.CreateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.tenantService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// UpdateTenant changes tenant details or subscription state
// PUT /tenants/:id
func (h *TenancyHandler) UpdateTenant(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req tenancy.UpdateTenantRequest
	if !h.bindJSON(c, &req) {
		return
	}

	tenant, err := h.tenantService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// DeleteTenant removes a tenant. The system tenant is protected.
// DELETE /tenants/:id
func (h *TenancyHandler) DeleteTenant(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.tenantService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListSupportTickets returns the caller's tenant tickets, or every ticket
// for a super-admin
// GET /support-tickets
func (h *TenancyHandler) ListSupportTickets(c *gin.Context) {
	var q tenancy.ListSupportTicketsQuery
	if !h.bindQuery(c, &q) {
		return
	}

	if identity.Role(middleware.GetJWTRole(c)) == identity.RoleSuperAdmin {
		result, err := h.supportService.ListAll(c.Request.Context(), q)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		page(c, result)
		return
	}

	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	result, err := h.supportService.ListForTenant(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// CreateSupportTicket opens a ticket to the platform operator
// POST /support-tickets
func (h *TenancyHandler) CreateSupportTicket(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req tenancy.CreateSupportTicketRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ticket, err := h.supportService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ticket)
}

// AnswerSupportTicket sets status and admin reply
// PATCH /support-tickets/:id
func (h *TenancyHandler) AnswerSupportTicket(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req tenancy.AnswerSupportTicketRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ticket, err := h.supportService.Answer(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ticket)
}

// ListPayments returns subscription payments
// GET /payments
func (h *TenancyHandler) ListPayments(c *gin.Context) {
	var q tenancy.ListPaymentsQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.paymentService.List(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// CreatePayment records a payment and extends the tenant's subscription
// POST /payments
func (h *TenancyHandler) CreatePayment(c *gin.Context) {
	var req tenancy.CreatePaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}
