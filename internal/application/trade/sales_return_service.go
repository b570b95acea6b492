package trade

import (
	"context"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/bizdesk/erp/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SalesReturnService handles goods returned against sales invoices
type SalesReturnService struct {
	returns   trade.SalesReturnRepository
	txScope   common.TransactionScope
	publisher common.EventPublisher
	logger    *zap.Logger
}

// NewSalesReturnService creates a new SalesReturnService
func NewSalesReturnService(
	returns trade.SalesReturnRepository,
	txScope common.TransactionScope,
	publisher common.EventPublisher,
	logger *zap.Logger,
) *SalesReturnService {
	return &SalesReturnService{
		returns:   returns,
		txScope:   txScope,
		publisher: publisher,
		logger:    logger,
	}
}

// List returns a page of sales returns
func (s *SalesReturnService) List(ctx context.Context, tenantID uuid.UUID, q ListSalesReturnsQuery) (common.Page[trade.SalesReturn], error) {
	f := q.Filter().With("invoice_id", q.InvoiceID).With("account_id", q.AccountID)
	items, total, err := s.returns.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[trade.SalesReturn]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns a sales return with its items
func (s *SalesReturnService) Get(ctx context.Context, tenantID, id uuid.UUID) (*trade.SalesReturn, error) {
	return s.returns.FindByIDForTenant(ctx, tenantID, id)
}

// Create records a return. In one transaction returned quantities are
// checked against what is still returnable, products are restocked and the
// customer's balance is reduced by the return total.
func (s *SalesReturnService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateSalesReturnRequest) (*trade.SalesReturn, error) {
	lines := make([]trade.ReturnLine, len(req.Items))
	for i, it := range req.Items {
		lines[i] = trade.ReturnLine{InvoiceItemID: it.InvoiceItemID, Quantity: it.Quantity}
	}

	var ret *trade.SalesReturn
	err := s.txScope.Execute(ctx, func(repos common.Repositories) error {
		invoice, err := repos.Invoices().FindByIDForTenant(ctx, tenantID, req.InvoiceID)
		if err != nil {
			return err
		}
		returned, err := repos.SalesReturns().ReturnedQuantities(ctx, invoice.ID)
		if err != nil {
			return err
		}
		ret, err = trade.NewSalesReturn(userID, invoice, req.Reason, lines, returned)
		if err != nil {
			return err
		}
		if err := repos.SalesReturns().Create(ctx, ret); err != nil {
			return err
		}

		for _, item := range ret.Items {
			if item.ProductID == nil {
				continue
			}
			if _, err := common.PostStock(ctx, repos, common.StockPosting{
				TenantID:      tenantID,
				UserID:        userID,
				ProductID:     *item.ProductID,
				Type:          catalog.MovementSalesReturn,
				Quantity:      item.Quantity,
				ReferenceType: referenceSalesReturn,
				ReferenceID:   ret.ID,
				Note:          ret.ReturnNumber,
			}); err != nil {
				return err
			}
		}

		if ret.AccountID != nil {
			return common.PostBalance(ctx, repos, tenantID, *ret.AccountID, ret.Total.Neg())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Sales return created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("return_id", ret.ID.String()),
		zap.String("invoice_id", ret.InvoiceID.String()))
	s.publisher.TriggerEvent(ctx, tenantID, common.EventSalesReturnCreated, ret)
	return ret, nil
}
