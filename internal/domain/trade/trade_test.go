package trade

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestComputeTotals(t *testing.T) {
	t.Run("header total equals supplied line totals", func(t *testing.T) {
		lines := []LineInput{
			{Description: "A", Quantity: dec("2"), UnitPrice: dec("10"), TaxRate: dec("20"), Total: decPtr("24.01")},
			{Description: "B", Quantity: dec("1"), UnitPrice: dec("5.5"), Total: decPtr("5.5")},
		}
		totals := ComputeTotals(lines)
		assert.True(t, totals.Total.Equal(dec("29.51")))
		assert.True(t, totals.Subtotal.Equal(dec("25.5")))
		assert.True(t, totals.TaxTotal.Equal(dec("4.01")))
	})

	t.Run("computes missing line totals", func(t *testing.T) {
		lines := []LineInput{
			{Description: "A", Quantity: dec("3"), UnitPrice: dec("100"), TaxRate: dec("18"), DiscountRate: dec("10")},
		}
		totals := ComputeTotals(lines)
		assert.True(t, totals.DiscountTotal.Equal(dec("30")))
		assert.True(t, totals.Total.Equal(dec("318.6")))
		assert.True(t, totals.TaxTotal.Equal(dec("48.6")))
	})
}

func TestLineInput_Validate(t *testing.T) {
	base := LineInput{Description: "A", Quantity: dec("1"), UnitPrice: dec("10")}

	t.Run("accepts a two decimal total", func(t *testing.T) {
		l := base
		l.Total = decPtr("10.05")
		assert.NoError(t, l.Validate(1))
	})

	t.Run("accepts trailing zeros beyond two places", func(t *testing.T) {
		l := base
		l.Total = decPtr("10.0500")
		assert.NoError(t, l.Validate(1))
	})

	t.Run("rejects a total with three decimals", func(t *testing.T) {
		l := base
		l.Total = decPtr("10.005")
		err := l.Validate(2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Line 2")
	})

	t.Run("invoice with an unstorable total is rejected", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), uuid.New(), InvoiceHeader{Type: InvoiceTypeSales, IssueDate: time.Now()}, []LineInput{
			{Description: "A", Quantity: dec("1"), UnitPrice: dec("10"), Total: decPtr("10.005")},
		})
		require.Error(t, err)
	})
}

func TestNewInvoice(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	productID := uuid.New()

	t.Run("builds lines and defaults", func(t *testing.T) {
		issue := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
		inv, err := NewInvoice(tenantID, userID, InvoiceHeader{Type: InvoiceTypeSales, IssueDate: issue}, []LineInput{
			{ProductID: &productID, Quantity: dec("5"), UnitPrice: dec("2"), Total: decPtr("10")},
		})
		require.NoError(t, err)
		assert.Equal(t, issue.Add(DefaultPaymentTerm), inv.DueDate)
		assert.Equal(t, "TRY", inv.Currency)
		assert.Contains(t, inv.InvoiceNumber, "INV-20")
		require.Len(t, inv.Items, 1)
		assert.Equal(t, inv.ID, inv.Items[0].InvoiceID)
		assert.Equal(t, 1, inv.Items[0].LineNo)
		assert.True(t, inv.Total.Equal(dec("10")))
	})

	t.Run("rejects empty lines", func(t *testing.T) {
		_, err := NewInvoice(tenantID, userID, InvoiceHeader{Type: InvoiceTypeSales}, nil)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewInvoice(tenantID, userID, InvoiceHeader{Type: InvoiceTypePurchase}, []LineInput{
			{ProductID: &productID, Quantity: dec("0"), UnitPrice: dec("1")},
		})
		assert.Error(t, err)
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewInvoice(tenantID, userID, InvoiceHeader{Type: "credit"}, []LineInput{
			{Description: "x", Quantity: dec("1"), UnitPrice: dec("1")},
		})
		assert.Error(t, err)
	})
}

func TestInvoiceType_Effects(t *testing.T) {
	assert.True(t, InvoiceTypeSales.BalanceDelta(dec("10")).Equal(dec("10")))
	assert.True(t, InvoiceTypePurchase.BalanceDelta(dec("10")).Equal(dec("-10")))
	assert.Equal(t, "sale", string(InvoiceTypeSales.MovementType()))
	assert.Equal(t, "purchase", string(InvoiceTypePurchase.MovementType()))
}

func TestOffer_ToInvoice(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	productID := uuid.New()
	offer, err := NewOffer(tenantID, userID, nil, "eur", nil, "", []LineInput{
		{ProductID: &productID, Quantity: dec("2"), UnitPrice: dec("50"), TaxRate: dec("20")},
		{Description: "Installation", Quantity: dec("1"), UnitPrice: dec("30")},
	})
	require.NoError(t, err)

	now := time.Now()
	inv, err := offer.ToInvoice(userID, now)
	require.NoError(t, err)

	assert.Equal(t, OfferStatusInvoiced, offer.Status)
	assert.Equal(t, inv.ID, *offer.InvoiceID)
	assert.Equal(t, offer.ID, *inv.SourceOfferID)
	assert.Equal(t, InvoiceTypeSales, inv.Type)
	assert.Equal(t, "EUR", inv.Currency)
	assert.True(t, inv.Total.Equal(offer.Total))
	assert.Equal(t, now.Add(DefaultPaymentTerm), inv.DueDate)
	require.Len(t, inv.Items, len(offer.Items))
	for i := range offer.Items {
		assert.Equal(t, offer.Items[i].ProductID, inv.Items[i].ProductID)
		assert.True(t, offer.Items[i].Quantity.Equal(inv.Items[i].Quantity))
		assert.True(t, offer.Items[i].UnitPrice.Equal(inv.Items[i].UnitPrice))
		assert.NotEqual(t, offer.Items[i].ID, inv.Items[i].ID)
	}

	_, err = offer.ToInvoice(userID, now)
	assert.Error(t, err)
	assert.Error(t, offer.SetStatus(OfferStatusSent))
}

func TestNewSalesReturn(t *testing.T) {
	tenantID, userID := uuid.New(), uuid.New()
	productID := uuid.New()
	inv, err := NewInvoice(tenantID, userID, InvoiceHeader{Type: InvoiceTypeSales}, []LineInput{
		{ProductID: &productID, Quantity: dec("4"), UnitPrice: dec("25"), Total: decPtr("100")},
	})
	require.NoError(t, err)
	itemID := inv.Items[0].ID

	t.Run("prices proportionally", func(t *testing.T) {
		ret, err := NewSalesReturn(userID, inv, "damaged", []ReturnLine{{InvoiceItemID: itemID, Quantity: dec("1")}}, nil)
		require.NoError(t, err)
		assert.True(t, ret.Total.Equal(dec("25")))
		assert.Equal(t, &productID, ret.Items[0].ProductID)
	})

	t.Run("rejects quantities beyond what remains", func(t *testing.T) {
		already := map[uuid.UUID]decimal.Decimal{itemID: dec("3")}
		_, err := NewSalesReturn(userID, inv, "", []ReturnLine{{InvoiceItemID: itemID, Quantity: dec("2")}}, already)
		assert.Error(t, err)
	})

	t.Run("rejects purchase invoices", func(t *testing.T) {
		purchase := *inv
		purchase.Type = InvoiceTypePurchase
		_, err := NewSalesReturn(userID, &purchase, "", []ReturnLine{{InvoiceItemID: itemID, Quantity: dec("1")}}, nil)
		assert.Error(t, err)
	})
}
