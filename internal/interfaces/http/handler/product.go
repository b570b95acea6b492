package handler

import (
	"github.com/bizdesk/erp/internal/application/catalog"
	"github.com/gin-gonic/gin"
)

// ProductHandler handles products and their stock
type ProductHandler struct {
	BaseHandler
	productService *catalog.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalog.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List returns a filtered page of products
// GET /products
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q catalog.ListProductsQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.productService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}

// Get returns a product
// GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create adds a product. A non-zero initial stock is recorded as a movement.
// POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	var req catalog.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update changes product details. Stock is changed through adjustments only.
// PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req catalog.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	product, err := h.productService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete removes a product
// DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// AdjustStock records a manual stock movement
// POST /products/:id/stock-movements
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	tenantID, userID, ok := h.scope(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var req catalog.StockAdjustmentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.productService.AdjustStock(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// ListMovements returns the stock history of a product
// GET /products/:id/stock-movements
func (h *ProductHandler) ListMovements(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	var q catalog.ListMovementsQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.productService.ListMovements(c.Request.Context(), tenantID, id, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page(c, result)
}
