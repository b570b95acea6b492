package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/bizdesk/erp/internal/domain/catalog"
	"github.com/bizdesk/erp/internal/domain/finance"
	"github.com/bizdesk/erp/internal/domain/partner"
	"github.com/bizdesk/erp/internal/domain/report"
	"github.com/bizdesk/erp/internal/domain/servicedesk"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDashboardRepository implements report.DashboardRepository
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewGormDashboardRepository creates a new GormDashboardRepository
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

// SumReceivables sums the positive balances of customer accounts
func (r *GormDashboardRepository) SumReceivables(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	var balances []decimal.Decimal
	err := r.db.WithContext(ctx).Model(&partner.Account{}).
		Where("tenant_id = ? AND type = ? AND balance > 0", tenantID, partner.AccountTypeCustomer).
		Pluck("balance", &balances).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum receivables: %w", err)
	}
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b)
	}
	return sum, nil
}

// CountCustomers counts customer accounts
func (r *GormDashboardRepository) CountCustomers(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&partner.Account{}).
		Where("tenant_id = ? AND type = ?", tenantID, partner.AccountTypeCustomer).
		Count(&n).Error
	return n, err
}

// CountProducts counts products
func (r *GormDashboardRepository) CountProducts(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("tenant_id = ?", tenantID).
		Count(&n).Error
	return n, err
}

// CountOpenTickets counts service tickets that are not resolved or closed
func (r *GormDashboardRepository) CountOpenTickets(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&servicedesk.Ticket{}).
		Where("tenant_id = ? AND status NOT IN ?", tenantID, servicedesk.ClosedStatuses).
		Count(&n).Error
	return n, err
}

// RecentTransactions returns the latest postings by transaction date
func (r *GormDashboardRepository) RecentTransactions(ctx context.Context, tenantID uuid.UUID, limit int) ([]finance.Transaction, error) {
	out := make([]finance.Transaction, 0, limit)
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("transaction_date DESC, created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// MonthlyTotals sums transactions per calendar month and type since from.
func (r *GormDashboardRepository) MonthlyTotals(ctx context.Context, tenantID uuid.UUID, from time.Time) ([]report.MonthlyTotal, error) {
	var rows []finance.Transaction
	err := r.db.WithContext(ctx).
		Select("transaction_date", "type", "amount").
		Where("tenant_id = ? AND transaction_date >= ?", tenantID, from).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("monthly totals: %w", err)
	}

	type key struct {
		year, month int
		typ         finance.TransactionType
	}
	sums := make(map[key]decimal.Decimal)
	var order []key
	for _, row := range rows {
		d := row.TransactionDate
		k := key{d.Year(), int(d.Month()), row.Type}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
			sums[k] = decimal.Zero
		}
		sums[k] = sums[k].Add(row.Amount)
	}

	out := make([]report.MonthlyTotal, 0, len(order))
	for _, k := range order {
		out = append(out, report.MonthlyTotal{Year: k.year, Month: k.month, Type: k.typ, Amount: sums[k]})
	}
	return out, nil
}

var _ report.DashboardRepository = (*GormDashboardRepository)(nil)
