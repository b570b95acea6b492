// Package report builds read-only tenant reports.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/bizdesk/erp/internal/application/common"
	"github.com/bizdesk/erp/internal/domain/finance"
	"github.com/bizdesk/erp/internal/domain/report"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
)

const recentTransactionLimit = 5

// DashboardService assembles the home screen overview
type DashboardService struct {
	repo   report.DashboardRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo report.DashboardRepository, logger *zap.Logger) *DashboardService {
	return &DashboardService{repo: repo, logger: logger, now: time.Now}
}

// Dashboard runs the overview queries and builds the six month series
func (s *DashboardService) Dashboard(ctx context.Context, tenantID uuid.UUID) (*report.Dashboard, error) {
	now := s.now()
	from := seriesStart(now)
	out := &report.Dashboard{}
	var totals []report.MonthlyTotal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Receivables, err = s.repo.SumReceivables(gctx, tenantID)
		return wrap("receivables", err)
	})
	g.Go(func() (err error) {
		out.CustomerCount, err = s.repo.CountCustomers(gctx, tenantID)
		return wrap("customers", err)
	})
	g.Go(func() (err error) {
		out.ProductCount, err = s.repo.CountProducts(gctx, tenantID)
		return wrap("products", err)
	})
	g.Go(func() (err error) {
		out.OpenTicketCount, err = s.repo.CountOpenTickets(gctx, tenantID)
		return wrap("open tickets", err)
	})
	g.Go(func() (err error) {
		out.RecentTransactions, err = s.repo.RecentTransactions(gctx, tenantID, recentTransactionLimit)
		return wrap("recent transactions", err)
	})
	g.Go(func() (err error) {
		totals, err = s.repo.MonthlyTotals(gctx, tenantID, from)
		return wrap("monthly totals", err)
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Dashboard query failed", zap.String("tenant_id", tenantID.String()), zap.Error(err))
		return nil, err
	}

	out.Monthly = buildSeries(totals, now)
	return out, nil
}

// seriesStart is the first day of the oldest month in the series
func seriesStart(now time.Time) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, -(report.MonthsInSeries - 1), 0)
}

// buildSeries lays totals out over the last MonthsInSeries calendar months,
// oldest first. Without any totals the series is a single zero point for
// the current month.
func buildSeries(totals []report.MonthlyTotal, now time.Time) []report.MonthlyPoint {
	if len(totals) == 0 {
		return []report.MonthlyPoint{newPoint(now.Year(), now.Month())}
	}

	start := seriesStart(now)
	points := make([]report.MonthlyPoint, report.MonthsInSeries)
	index := make(map[[2]int]int, report.MonthsInSeries)
	for i := range points {
		m := start.AddDate(0, i, 0)
		points[i] = newPoint(m.Year(), m.Month())
		index[[2]int{m.Year(), int(m.Month())}] = i
	}
	for _, t := range totals {
		i, ok := index[[2]int{t.Year, t.Month}]
		if !ok {
			continue
		}
		switch t.Type {
		case finance.TransactionIncome:
			points[i].Income = points[i].Income.Add(t.Amount)
		case finance.TransactionExpense:
			points[i].Expense = points[i].Expense.Add(t.Amount)
		}
	}
	return points
}

func newPoint(year int, month time.Month) report.MonthlyPoint {
	return report.MonthlyPoint{
		Month:   common.MonthName(language.English, month),
		Year:    year,
		Income:  decimal.Zero,
		Expense: decimal.Zero,
	}
}

func wrap(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("dashboard %s: %w", what, err)
}
