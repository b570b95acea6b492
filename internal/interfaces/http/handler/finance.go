package handler

import (
	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// FinanceHandler handles cash registers and income/expense transactions
type FinanceHandler struct {
	BaseHandler
	registerService    *finance.CashRegisterService
	transactionService *finance.TransactionService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(registerService *finance.CashRegisterService, transactionService *finance.TransactionService) *FinanceHandler {
	return &FinanceHandler{
		registerService:    registerService,
		transactionService: transactionService,
	}
}

// ListCashRegisters returns a page of cash registers
// GET /cash-registers
func (h *FinanceHandler) ListCashRegisters(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q common.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.registerService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// GetCashRegister returns a cash register
// GET /cash-registers/:id
func (h *FinanceHandler) GetCashRegister(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	register, err := h.registerService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}

// CreateCashRegister opens a register with an opening balance
// POST /cash-registers
func (h *FinanceHandler) CreateCashRegister(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req finance.CreateCashRegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	register, err := h.registerService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, register)
}

// UpdateCashRegister renames a register
// PUT /cash-registers/:id
func (h *FinanceHandler) UpdateCashRegister(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req finance.UpdateCashRegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	register, err := h.registerService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, register)
}

// DeleteCashRegister removes a register without transactions
// DELETE /cash-registers/:id
func (h *FinanceHandler) DeleteCashRegister(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.registerService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListTransactions returns a filtered page of transactions
// GET /transactions
func (h *FinanceHandler) ListTransactions(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q finance.ListTransactionsQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.transactionService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// GetTransaction returns a transaction
// GET /transactions/:id
func (h *FinanceHandler) GetTransaction(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	txn, err := h.transactionService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, txn)
}

// CreateTransaction posts income or expense to a register
// POST /transactions
func (h *FinanceHandler) CreateTransaction(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req finance.CreateTransactionRequest
	if !h.bindJSON(c, &req) {
		return
	}

	txn, err := h.transactionService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, txn)
}

// DeleteTransaction removes a transaction and reverses its balance effects
// DELETE /transactions/:id
func (h *FinanceHandler) DeleteTransaction(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.transactionService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
