package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/bizdesk/erp/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LineInput is a document line as submitted by a client. Total is kept
// verbatim when supplied and computed from the other fields otherwise.
type LineInput struct {
	ProductID    *uuid.UUID
	Description  string
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	TaxRate      decimal.Decimal
	DiscountRate decimal.Decimal
	Total        *decimal.Decimal
}

// Validate checks the line for obviously invalid values
func (l LineInput) Validate(lineNo int) error {
	if !l.Quantity.IsPositive() {
		return shared.NewInvalidInputError(fmt.Sprintf("Line %d: quantity must be positive", lineNo))
	}
	if l.UnitPrice.IsNegative() {
		return shared.NewInvalidInputError(fmt.Sprintf("Line %d: unit price cannot be negative", lineNo))
	}
	if l.TaxRate.IsNegative() || l.DiscountRate.IsNegative() || l.DiscountRate.GreaterThan(hundred) {
		return shared.NewInvalidInputError(fmt.Sprintf("Line %d: invalid tax or discount rate", lineNo))
	}
	if l.Total != nil && !l.Total.Equal(l.Total.Round(2)) {
		return shared.NewInvalidInputError(fmt.Sprintf("Line %d: total cannot have more than two decimal places", lineNo))
	}
	if l.ProductID == nil && strings.TrimSpace(l.Description) == "" {
		return shared.NewInvalidInputError(fmt.Sprintf("Line %d: product or description is required", lineNo))
	}
	return nil
}

// Gross returns quantity * unit price
func (l LineInput) Gross() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// Discount returns the discount amount of the line
func (l LineInput) Discount() decimal.Decimal {
	return l.Gross().Mul(l.DiscountRate).Div(hundred)
}

// LineTotal returns the supplied total or the computed
// q*p*(1-d/100)*(1+t/100) rounded to two places.
func (l LineInput) LineTotal() decimal.Decimal {
	if l.Total != nil {
		return *l.Total
	}
	net := l.Gross().Sub(l.Discount())
	return net.Add(net.Mul(l.TaxRate).Div(hundred)).Round(2)
}

// Totals is the header economics of a trade document
type Totals struct {
	Subtotal      decimal.Decimal
	DiscountTotal decimal.Decimal
	TaxTotal      decimal.Decimal
	Total         decimal.Decimal
}

// ComputeTotals aggregates lines into header totals. Total is exactly the
// sum of line totals; tax absorbs any difference between that and the net.
func ComputeTotals(lines []LineInput) Totals {
	t := Totals{
		Subtotal:      decimal.Zero,
		DiscountTotal: decimal.Zero,
		TaxTotal:      decimal.Zero,
		Total:         decimal.Zero,
	}
	for _, l := range lines {
		t.Subtotal = t.Subtotal.Add(l.Gross())
		t.DiscountTotal = t.DiscountTotal.Add(l.Discount())
		t.Total = t.Total.Add(l.LineTotal())
	}
	t.TaxTotal = t.Total.Sub(t.Subtotal.Sub(t.DiscountTotal))
	return t
}

// GenerateNumber builds a document number such as INV-20260314-3FA2C1
func GenerateNumber(prefix string, now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s-%s-%s", prefix, now.Format("20060102"), suffix)
}
