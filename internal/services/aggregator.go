package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/AlvaroPereir4/FinScope/internal/core"
	"github.com/AlvaroPereir4/FinScope/internal/storage"
)

// Period selects the aggregation window.
type Period string

const (
	PeriodAll          Period = "all"
	PeriodLast30Days   Period = "last-30-days"
	PeriodLast6Months  Period = "last-6-months"
	PeriodCalendarYear Period = "calendar-year" // requires Year
)

// AggregateRequest asks for the owner's chartable time series.
type AggregateRequest struct {
	Owner       string
	Period      Period
	Year        int // calendar-year only
	Granularity core.Granularity
}

// ChartRow is one aligned bucket of the dashboard chart. Every row
// carries all three series; a source with no activity in the bucket
// contributes zero rather than dropping the row.
type ChartRow struct {
	Label    string
	Income   decimal.Decimal
	Expense  decimal.Decimal
	Invested decimal.Decimal
}

// Aggregate buckets the owner's incomes, expenses (micro + macro) and
// investment contributions by the requested granularity over the
// resolved period window. Bucket keys are the union across all
// sources, emitted ascending, so the three series stay aligned for
// direct charting.
func (s *Ledger) Aggregate(ctx context.Context, req AggregateRequest) ([]ChartRow, error) {
	from, to, err := s.resolvePeriod(req.Period, req.Year)
	if err != nil {
		return nil, err
	}
	switch req.Granularity {
	case core.ByDay, core.ByMonth, core.ByYear:
	default:
		return nil, fmt.Errorf("%w: unknown granularity %q", core.ErrValidation, req.Granularity)
	}

	cacheKey := fmt.Sprintf("%s|%s|%d|%s", req.Owner, req.Period, req.Year, req.Granularity)
	if s.dashboards != nil {
		if rows, ok := s.dashboards.Get(cacheKey); ok {
			return rows, nil
		}
	}

	var incomes, micro, macro, invested []storage.DatedAmount
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		incomes, err = s.storage.ListIncomeAmounts(gctx, req.Owner, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		micro, err = s.storage.ListExpenseAmounts(gctx, req.Owner, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		macro, err = s.storage.ListMacroExpenseAmounts(gctx, req.Owner, from, to)
		return err
	})
	g.Go(func() error {
		var err error
		invested, err = s.storage.ListContributionAmounts(gctx, req.Owner, from, to)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch aggregation sources: %w", err)
	}

	incomeByKey := bucketTotals(incomes, req.Granularity)
	expenseByKey := bucketTotals(append(micro, macro...), req.Granularity)
	investedByKey := bucketTotals(invested, req.Granularity)

	keys := unionKeys(incomeByKey, expenseByKey, investedByKey)
	rows := make([]ChartRow, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, ChartRow{
			Label:    core.BucketLabel(key, req.Granularity),
			Income:   incomeByKey[key],
			Expense:  expenseByKey[key],
			Invested: investedByKey[key],
		})
	}

	if s.dashboards != nil {
		s.dashboards.Set(cacheKey, rows)
	}
	return rows, nil
}

// resolvePeriod turns a period selector into an inclusive date window.
// Zero dates mean unbounded.
func (s *Ledger) resolvePeriod(p Period, year int) (from, to core.Date, err error) {
	today := core.DateOf(s.now())
	switch p {
	case "", PeriodAll:
		return "", "", nil
	case PeriodLast30Days:
		return core.DateOf(s.now().AddDate(0, 0, -30)), today, nil
	case PeriodLast6Months:
		return today.AddMonths(-6), today, nil
	case PeriodCalendarYear:
		if year < 1 {
			return "", "", fmt.Errorf("%w: calendar-year period requires a year", core.ErrValidation)
		}
		return core.DateOf(time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)),
			core.DateOf(time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)), nil
	default:
		return "", "", fmt.Errorf("%w: unknown period %q", core.ErrValidation, p)
	}
}

// bucketTotals sums amounts per bucket key. Summation happens here
// rather than in SQL so the totals stay exact decimals.
func bucketTotals(rows []storage.DatedAmount, g core.Granularity) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		key := row.Date.BucketKey(g)
		totals[key] = totals[key].Add(row.Amount)
	}
	return totals
}

func unionKeys(maps ...map[string]decimal.Decimal) []string {
	seen := make(map[string]struct{})
	for _, m := range maps {
		for key := range m {
			seen[key] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
