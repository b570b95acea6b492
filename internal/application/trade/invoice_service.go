package trade

import (
	"context"
	"time"

	"github.com/bizdesk/erp/internal/application/catalog"
	"github.com/bizdesk/erp/internal/application/common"
	domaincatalog "github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/bizdesk/erp/internal/domain/notification"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Stock movement reference types written by trade workflows
const (
	referenceInvoice     = "invoice"
	referenceSalesReturn = "sales_return"
)

// InvoiceService handles invoices and their stock and ledger effects
type InvoiceService struct {
	invoices  trade.InvoiceRepository
	txScope   common.TransactionScope
	publisher common.EventPublisher
	notifier  common.Notifier
	logger    *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoices trade.InvoiceRepository,
	txScope common.TransactionScope,
	publisher common.EventPublisher,
	notifier common.Notifier,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoices:  invoices,
		txScope:   txScope,
		publisher: publisher,
		notifier:  notifier,
		logger:    logger,
	}
}

// List returns a page of invoices
func (s *InvoiceService) List(ctx context.Context, tenantID uuid.UUID, q ListInvoicesQuery) (common.Page[trade.Invoice], error) {
	f := q.Filter()
	f = f.With("type", q.Type).With("status", q.Status).With("account_id", q.AccountID)
	f.From, f.To = q.From, q.To
	items, total, err := s.invoices.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[trade.Invoice]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns an invoice with its items
func (s *InvoiceService) Get(ctx context.Context, tenantID, id uuid.UUID) (*trade.Invoice, error) {
	return s.invoices.FindByIDForTenant(ctx, tenantID, id)
}

// Create records an invoice. In one transaction the header and items are
// inserted, every product line moves stock with an audit movement and the
// account balance absorbs the invoice total.
func (s *InvoiceService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateInvoiceRequest) (*trade.Invoice, error) {
	header := trade.InvoiceHeader{
		Number:    req.InvoiceNumber,
		Type:      trade.InvoiceType(req.Type),
		AccountID: req.AccountID,
		Currency:  req.Currency,
		DueDate:   req.DueDate,
		Notes:     req.Notes,
	}
	if req.IssueDate != nil {
		header.IssueDate = *req.IssueDate
	}
	invoice, err := trade.NewInvoice(tenantID, userID, header, toLineInputs(req.Items))
	if err != nil {
		return nil, err
	}

	var lowStock []*domaincatalog.Product
	err = s.txScope.Execute(ctx, func(repos common.Repositories) error {
		taken, err := repos.Invoices().ExistsByNumber(ctx, tenantID, invoice.InvoiceNumber)
		if err != nil {
			return err
		}
		if taken {
			return shared.NewDomainError(shared.CodeAlreadyExists, "Invoice number "+invoice.InvoiceNumber+" is already used")
		}
		if err := repos.Invoices().Create(ctx, invoice); err != nil {
			return err
		}

		for _, item := range invoice.Items {
			if item.ProductID == nil {
				continue
			}
			product, err := common.PostStock(ctx, repos, common.StockPosting{
				TenantID:      tenantID,
				UserID:        userID,
				ProductID:     *item.ProductID,
				Type:          invoice.Type.MovementType(),
				Quantity:      item.Quantity,
				ReferenceType: referenceInvoice,
				ReferenceID:   invoice.ID,
				Note:          invoice.InvoiceNumber,
			})
			if err != nil {
				return err
			}
			if product.IsBelowMinimum() {
				lowStock = append(lowStock, product)
			}
		}

		if invoice.AccountID != nil {
			return common.PostBalance(ctx, repos, tenantID, *invoice.AccountID, invoice.Type.BalanceDelta(invoice.Total))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Invoice created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total", invoice.Total.String()))

	s.publisher.TriggerEvent(ctx, tenantID, common.EventInvoiceCreated, invoice)
	s.notifier.Notify(ctx, tenantID, nil, notification.TypeSuccess,
		"Invoice "+invoice.InvoiceNumber+" created",
		"A "+string(invoice.Type)+" invoice of "+common.FormatAmount(invoice.Total, invoice.Currency)+" was recorded")
	for _, p := range lowStock {
		catalog.NotifyLowStock(ctx, s.notifier, tenantID, p)
	}
	return invoice, nil
}

// Update changes status, due date or notes of an invoice
func (s *InvoiceService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateInvoiceRequest) (*trade.Invoice, error) {
	invoice, err := s.invoices.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		if err := invoice.SetStatus(trade.InvoiceStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	if req.DueDate != nil {
		if err := invoice.SetDueDate(*req.DueDate); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		invoice.Notes = *req.Notes
		invoice.Touch()
	}

	if err := s.invoices.Save(ctx, invoice); err != nil {
		return nil, err
	}
	s.publisher.TriggerEvent(ctx, tenantID, common.EventInvoiceUpdated, invoice)
	return invoice, nil
}

// Delete removes an invoice and its items. Stock and balances are left as
// they are; the movements stay as the audit trail.
func (s *InvoiceService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	invoice, err := s.invoices.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.invoices.Delete(ctx, invoice.ID); err != nil {
		return err
	}
	s.publisher.TriggerEvent(ctx, tenantID, common.EventInvoiceDeleted, map[string]any{
		"id":             invoice.ID,
		"invoice_number": invoice.InvoiceNumber,
		"deleted_at":     time.Now().UTC(),
	})
	return nil
}
