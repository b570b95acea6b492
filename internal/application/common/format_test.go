package common

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount   string
		currency string
		want     string
	}{
		{"1234567.891", "TRY", "1,234,567.89 TRY"},
		{"0", "USD", "0.00 USD"},
		{"-950.5", "", "-950.50"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.amount), tt.currency))
		})
	}
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "March", MonthName(language.English, time.March))
	assert.Equal(t, "December", MonthName(language.AmericanEnglish, time.December))
	assert.Equal(t, "Mart", MonthName(language.Turkish, time.March))
	assert.Equal(t, "January", MonthName(language.Japanese, time.January))
}
