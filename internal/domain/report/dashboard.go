package report

import (
	"context"
	"time"

	"github.com/bizdesk/erp/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthsInSeries is the length of the income/expense series
const MonthsInSeries = 6

// MonthlyPoint is income and expense totals of one calendar month
type MonthlyPoint struct {
	Month   string          `json:"month"`
	Year    int             `json:"year"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Dashboard is the tenant overview shown on the home screen
type Dashboard struct {
	Receivables        decimal.Decimal       `json:"receivables"`
	CustomerCount      int64                 `json:"customer_count"`
	ProductCount       int64                 `json:"product_count"`
	OpenTicketCount    int64                 `json:"open_ticket_count"`
	RecentTransactions []finance.Transaction `json:"recent_transactions"`
	Monthly            []MonthlyPoint        `json:"monthly"`
}

// MonthlyTotal is a raw aggregation row: year, month number, type and sum
type MonthlyTotal struct {
	Year   int
	Month  int
	Type   finance.TransactionType
	Amount decimal.Decimal
}

// DashboardRepository runs the read-only aggregation queries
type DashboardRepository interface {
	SumReceivables(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)
	CountCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountProducts(ctx context.Context, tenantID uuid.UUID) (int64, error)
	CountOpenTickets(ctx context.Context, tenantID uuid.UUID) (int64, error)
	RecentTransactions(ctx context.Context, tenantID uuid.UUID, limit int) ([]finance.Transaction, error)
	MonthlyTotals(ctx context.Context, tenantID uuid.UUID, from time.Time) ([]MonthlyTotal, error)
}
