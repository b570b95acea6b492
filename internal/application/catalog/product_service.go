package catalog

import (
	"context"
	"errors"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/bizdesk/erp/internal/domain/notification"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Stock movement reference type for manual corrections
const referenceAdjustment = "adjustment"

// ProductService handles product business operations and manual stock
// corrections
type ProductService struct {
	products  catalog.ProductRepository
	movements catalog.StockMovementRepository
	txScope   common.TransactionScope
	publisher common.EventPublisher
	notifier  common.Notifier
	logger    *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	products catalog.ProductRepository,
	movements catalog.StockMovementRepository,
	txScope common.TransactionScope,
	publisher common.EventPublisher,
	notifier common.Notifier,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		products:  products,
		movements: movements,
		txScope:   txScope,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
	}
}

// List returns a page of products
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, q ListProductsQuery) (common.Page[catalog.Product], error) {
	f := q.Filter()
	if q.Active != nil {
		f = f.With("is_active", *q.Active)
	}
	items, total, err := s.products.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[catalog.Product]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns a product by ID
func (s *ProductService) Get(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	return s.products.FindByIDForTenant(ctx, tenantID, id)
}

// Create creates a product. A positive opening stock is recorded as an
// adjustment_in movement in the same transaction.
func (s *ProductService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateProductRequest) (*catalog.Product, error) {
	exists, err := s.products.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "Product with this code already exists")
	}

	product, err := catalog.NewProduct(tenantID, req.Code, req.Name, req.Unit)
	if err != nil {
		return nil, err
	}
	product.CreatedBy = &userID
	product.Description = req.Description
	if err := product.SetPrices(orZero(req.PurchasePrice), orZero(req.SalePrice)); err != nil {
		return nil, err
	}
	if req.TaxRate != nil {
		if err := validateRate(*req.TaxRate); err != nil {
			return nil, err
		}
		product.TaxRate = *req.TaxRate
	}
	if req.MinStock != nil {
		if req.MinStock.IsNegative() {
			return nil, shared.NewInvalidInputError("Minimum stock cannot be negative")
		}
		product.MinStock = *req.MinStock
	}
	if req.Stock != nil {
		if req.Stock.IsNegative() {
			return nil, shared.NewInvalidInputError("Opening stock cannot be negative")
		}
		product.Stock = *req.Stock
	}

	err = s.txScope.Execute(ctx, func(repos common.Repositories) error {
		if err := repos.Products().Create(ctx, product); err != nil {
			return err
		}
		if !product.Stock.IsPositive() {
			return nil
		}
		movement, err := catalog.NewStockMovement(tenantID, product.ID, catalog.MovementAdjustmentIn, product.Stock)
		if err != nil {
			return err
		}
		movement.Note = "Opening stock"
		movement.CreatedBy = &userID
		return repos.StockMovements().Create(ctx, movement)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.TriggerEvent(ctx, tenantID, common.EventProductCreated, product)
	return product, nil
}

// Update changes product fields other than stock
func (s *ProductService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateProductRequest) (*catalog.Product, error) {
	product, err := s.products.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.PurchasePrice != nil || req.SalePrice != nil {
		purchase, sale := product.PurchasePrice, product.SalePrice
		if req.PurchasePrice != nil {
			purchase = *req.PurchasePrice
		}
		if req.SalePrice != nil {
			sale = *req.SalePrice
		}
		if err := product.SetPrices(purchase, sale); err != nil {
			return nil, err
		}
	}
	if req.TaxRate != nil {
		if err := validateRate(*req.TaxRate); err != nil {
			return nil, err
		}
		product.TaxRate = *req.TaxRate
	}
	if req.MinStock != nil {
		if req.MinStock.IsNegative() {
			return nil, shared.NewInvalidInputError("Minimum stock cannot be negative")
		}
		product.MinStock = *req.MinStock
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}
	product.Touch()

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	product, err := s.products.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	return s.products.Delete(ctx, product.ID)
}

// AdjustStock applies a manual correction. An outbound adjustment that would
// take stock below zero is rolled back with an insufficient stock error.
func (s *ProductService) AdjustStock(ctx context.Context, tenantID, userID, productID uuid.UUID, req StockAdjustmentRequest) (*StockAdjustmentResult, error) {
	movementType := catalog.MovementType(req.Type)
	if movementType != catalog.MovementAdjustmentIn && movementType != catalog.MovementAdjustmentOut {
		return nil, shared.NewInvalidInputError("Only adjustment_in and adjustment_out can be recorded manually")
	}
	if !req.Quantity.IsPositive() {
		return nil, shared.NewInvalidInputError("Quantity must be positive")
	}

	var (
		movement *catalog.StockMovement
		product  *catalog.Product
	)
	err := s.txScope.Execute(ctx, func(repos common.Repositories) error {
		current, err := repos.Products().FindByIDForTenant(ctx, tenantID, productID)
		if err != nil {
			return err
		}
		if err := repos.Products().AdjustStock(ctx, current.ID, movementType.SignedDelta(req.Quantity)); err != nil {
			return err
		}
		product, err = repos.Products().FindByIDForTenant(ctx, tenantID, productID)
		if err != nil {
			return err
		}
		if product.Stock.IsNegative() {
			return shared.NewDomainError(shared.CodeInsufficientStock,
				"Insufficient stock: available "+current.Stock.String()+", requested "+req.Quantity.String())
		}

		movement, err = catalog.NewStockMovement(tenantID, productID, movementType, req.Quantity)
		if err != nil {
			return err
		}
		movement.WithReference(referenceAdjustment, productID)
		movement.Note = req.Note
		movement.CreatedBy = &userID
		return repos.StockMovements().Create(ctx, movement)
	})
	if err != nil {
		if errors.Is(err, shared.ErrInsufficientStock) {
			s.logger.Info("Stock adjustment rejected",
				zap.String("product_id", productID.String()),
				zap.String("quantity", req.Quantity.String()))
		}
		return nil, err
	}

	s.publisher.TriggerEvent(ctx, tenantID, common.EventStockAdjusted, movement)
	if product.IsBelowMinimum() {
		NotifyLowStock(ctx, s.notifier, tenantID, product)
	}
	return &StockAdjustmentResult{Movement: movement, Stock: product.Stock}, nil
}

// ListMovements returns the stock audit trail of a product
func (s *ProductService) ListMovements(ctx context.Context, tenantID, productID uuid.UUID, q ListMovementsQuery) (common.Page[catalog.StockMovement], error) {
	if _, err := s.products.FindByIDForTenant(ctx, tenantID, productID); err != nil {
		return common.Page[catalog.StockMovement]{}, err
	}
	f := q.Filter()
	if q.Type != "" {
		f = f.With("type", q.Type)
	}
	items, total, err := s.movements.FindByProduct(ctx, tenantID, productID, f)
	if err != nil {
		return common.Page[catalog.StockMovement]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// NotifyLowStock warns every user of the tenant that a product dropped below
// its minimum stock
func NotifyLowStock(ctx context.Context, notifier common.Notifier, tenantID uuid.UUID, product *catalog.Product) {
	notifier.Notify(ctx, tenantID, nil, notification.TypeWarning,
		"Low stock: "+product.Name,
		product.Code+" has "+product.Stock.String()+" "+product.Unit+" left (minimum "+product.MinStock.String()+")")
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func validateRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewInvalidInputError("Rate must be between 0 and 100")
	}
	return nil
}
