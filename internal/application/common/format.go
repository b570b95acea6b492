package common

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var amountPrinter = message.NewPrinter(language.English)

var monthCatalog = newMonthCatalog()

func newMonthCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	turkish := [...]string{"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran",
		"Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık"}
	for m := time.January; m <= time.December; m++ {
		key := monthKey(m)
		_ = b.SetString(language.English, key, m.String())
		_ = b.SetString(language.Turkish, key, turkish[m-1])
	}
	return b
}

func monthKey(m time.Month) string {
	return fmt.Sprintf("month.%02d", int(m))
}

// MonthName returns the display name of a month in the given language.
// Languages without a translation get the English name.
func MonthName(tag language.Tag, m time.Month) string {
	p := message.NewPrinter(tag, message.Catalog(monthCatalog))
	return p.Sprintf(message.Key(monthKey(m), m.String()))
}

// FormatAmount renders an amount with thousands grouping and two decimals,
// e.g. "12,345.60 TRY"
func FormatAmount(amount decimal.Decimal, currency string) string {
	s := amountPrinter.Sprintf("%.2f", amount.Round(2).InexactFloat64())
	if currency == "" {
		return s
	}
	return s + " " + currency
}
