//go:build integration

package integration

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/bizdesk/erp/internal/application/common"
	tradeapp "github.com/bizdesk/erp/internal/application/trade"
	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/bizdesk/erp/internal/domain/trade"
	"github.com/bizdesk/erp/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func TestConvertOffer_ConcurrentRequestsInvoiceOnce(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	tenant := tdb.CreateTenant("Quotes", "quotes")
	offers := persistence.NewGormOfferRepository(tdb.DB)

	offer, err := trade.NewOffer(tenant.ID, uuid.New(), nil, "", nil, "", []trade.LineInput{
		{Description: "Consulting", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(150)},
	})
	require.NoError(t, err)
	require.NoError(t, offers.Create(ctx, offer))

	svc := tradeapp.NewOfferService(offers, persistence.NewGormTransactionScope(tdb.DB), common.NopPublisher{}, zap.NewNop())

	const callers = 5
	var converted, rejected atomic.Int32
	var g errgroup.Group
	for i := 0; i < callers; i++ {
		g.Go(func() error {
			_, err := svc.ConvertToInvoice(ctx, tenant.ID, uuid.New(), offer.ID)
			var de *shared.DomainError
			switch {
			case err == nil:
				converted.Add(1)
				return nil
			case errors.As(err, &de) && de.Code == shared.CodeInvalidState:
				rejected.Add(1)
				return nil
			default:
				return err
			}
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), converted.Load())
	assert.Equal(t, int32(callers-1), rejected.Load())

	var invoices int64
	require.NoError(t, tdb.DB.Model(&trade.Invoice{}).Where("source_offer_id = ?", offer.ID).Count(&invoices).Error)
	assert.Equal(t, int64(1), invoices)

	stored, err := offers.FindByIDForTenant(ctx, tenant.ID, offer.ID)
	require.NoError(t, err)
	assert.Equal(t, trade.OfferStatusInvoiced, stored.Status)
	require.NotNil(t, stored.InvoiceID)
}
