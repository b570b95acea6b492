package trade

import (
	"context"
	"time"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OfferService handles quotations and their conversion into invoices
type OfferService struct {
	offers    trade.OfferRepository
	txScope   common.TransactionScope
	publisher common.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewOfferService creates a new OfferService
func NewOfferService(
	offers trade.OfferRepository,
	txScope common.TransactionScope,
	publisher common.EventPublisher,
	logger *zap.Logger,
) *OfferService {
	return &OfferService{
		offers:    offers,
		txScope:   txScope,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// List returns a page of offers
func (s *OfferService) List(ctx context.Context, tenantID uuid.UUID, q ListOffersQuery) (common.Page[trade.Offer], error) {
	f := q.Filter().With("status", q.Status).With("account_id", q.AccountID)
	items, total, err := s.offers.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return common.Page[trade.Offer]{}, err
	}
	return common.NewPage(items, total, f), nil
}

// Get returns an offer with its items
func (s *OfferService) Get(ctx context.Context, tenantID, id uuid.UUID) (*trade.Offer, error) {
	return s.offers.FindByIDForTenant(ctx, tenantID, id)
}

// Create records a draft offer. Offers have no stock or ledger effects.
func (s *OfferService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateOfferRequest) (*trade.Offer, error) {
	offer, err := trade.NewOffer(tenantID, userID, req.AccountID, req.Currency, req.ValidUntil, req.Notes, toLineInputs(req.Items))
	if err != nil {
		return nil, err
	}
	if err := s.offers.Create(ctx, offer); err != nil {
		return nil, err
	}
	s.publisher.TriggerEvent(ctx, tenantID, common.EventOfferCreated, offer)
	return offer, nil
}

// Update changes header fields and, when items are supplied, replaces the
// lines and recomputes the totals
func (s *OfferService) Update(ctx context.Context, tenantID, id uuid.UUID, req UpdateOfferRequest) (*trade.Offer, error) {
	offer, err := s.offers.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if offer.Status == trade.OfferStatusInvoiced {
		return nil, shared.NewDomainError(shared.CodeInvalidState, "Offer has already been invoiced")
	}

	if req.AccountID != nil {
		offer.AccountID = req.AccountID
	}
	if req.ValidUntil != nil {
		offer.ValidUntil = req.ValidUntil
	}
	if req.Notes != nil {
		offer.Notes = *req.Notes
	}
	if req.Status != nil {
		if err := offer.SetStatus(trade.OfferStatus(*req.Status)); err != nil {
			return nil, err
		}
	}
	replaceItems := req.Items != nil
	if replaceItems {
		if err := offer.ReplaceItems(toLineInputs(*req.Items)); err != nil {
			return nil, err
		}
	}
	offer.Touch()

	if err := s.offers.Save(ctx, offer, replaceItems); err != nil {
		return nil, err
	}
	s.publisher.TriggerEvent(ctx, tenantID, common.EventOfferUpdated, offer)
	return offer, nil
}

// Delete removes an offer and its items
func (s *OfferService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	offer, err := s.offers.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.offers.Delete(ctx, offer.ID); err != nil {
		return err
	}
	s.publisher.TriggerEvent(ctx, tenantID, common.EventOfferDeleted, map[string]any{
		"id":           offer.ID,
		"offer_number": offer.OfferNumber,
	})
	return nil
}

// ConvertToInvoice turns an offer into a sales invoice in one transaction.
// The offer becomes invoiced and the invoice copies its economics and
// lines. No stock is moved and no balance is posted.
func (s *OfferService) ConvertToInvoice(ctx context.Context, tenantID, userID, offerID uuid.UUID) (*ConvertOfferResult, error) {
	var result ConvertOfferResult
	err := s.txScope.Execute(ctx, func(repos common.Repositories) error {
		offer, err := repos.Offers().FindByIDForTenantForUpdate(ctx, tenantID, offerID)
		if err != nil {
			return err
		}
		invoice, err := offer.ToInvoice(userID, s.now())
		if err != nil {
			return err
		}
		if err := repos.Invoices().Create(ctx, invoice); err != nil {
			return err
		}
		if err := repos.Offers().Save(ctx, offer, false); err != nil {
			return err
		}
		result = ConvertOfferResult{Offer: offer, Invoice: invoice}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Offer converted",
		zap.String("tenant_id", tenantID.String()),
		zap.String("offer_id", offerID.String()),
		zap.String("invoice_id", result.Invoice.ID.String()))

	s.publisher.TriggerEvent(ctx, tenantID, common.EventOfferConverted, result.Offer)
	s.publisher.TriggerEvent(ctx, tenantID, common.EventInvoiceCreated, result.Invoice)
	return &result, nil
}
