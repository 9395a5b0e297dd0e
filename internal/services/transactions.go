package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/AlvaroPereir4/FinScope/internal/core"
	"github.com/AlvaroPereir4/FinScope/internal/storage"
)

// Feed view filters. The empty view includes every source.
const (
	ViewAll      = "all"
	ViewIncomes  = "incomes"
	ViewMicro    = "micro"
	ViewMacro    = "macro"
	ViewExpenses = "expenses" // micro + macro
)

// FeedRequest selects a page of the unified transaction feed.
type FeedRequest struct {
	Owner    string
	Page     int // 1-based
	PageSize int
	From     core.Date // inclusive, zero means unbounded
	To       core.Date // inclusive, zero means unbounded
	Search   string
	View     string
}

// FeedPage is one page of the merged feed plus its pagination frame.
// The frame describes the full filtered set at the time of the call;
// concurrent writes may shift later pages, which is accepted
// snapshot semantics.
type FeedPage struct {
	Items       []core.Transaction
	TotalItems  int
	CurrentPage int
	TotalPages  int
}

// Transactions merges the owner's incomes, micro expenses and macro
// expenses into one feed sorted date descending with creation time and
// id as deterministic tie breaks, then slices the requested page. The
// three sources are fetched concurrently and re-read on every call; no
// cursor is kept.
func (s *Ledger) Transactions(ctx context.Context, req FeedRequest) (FeedPage, error) {
	if req.Page < 1 {
		return FeedPage{}, fmt.Errorf("%w: page must be >= 1, got %d", core.ErrValidation, req.Page)
	}
	if req.PageSize < 1 {
		return FeedPage{}, fmt.Errorf("%w: page size must be >= 1, got %d", core.ErrValidation, req.PageSize)
	}

	filter := storage.RecordFilter{Owner: req.Owner, From: req.From, To: req.To, Search: req.Search}

	var (
		incomes      []core.Income
		micro, macro []core.Expense
	)
	g, gctx := errgroup.WithContext(ctx)
	if viewIncludes(req.View, core.SourceIncome) {
		g.Go(func() error {
			var err error
			incomes, err = s.storage.ListIncomes(gctx, filter)
			return err
		})
	}
	if viewIncludes(req.View, core.SourceMicro) {
		g.Go(func() error {
			var err error
			micro, err = s.storage.ListExpenses(gctx, filter)
			return err
		})
	}
	if viewIncludes(req.View, core.SourceMacro) {
		g.Go(func() error {
			var err error
			macro, err = s.storage.ListMacroExpenses(gctx, filter)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return FeedPage{}, fmt.Errorf("fetch feed sources: %w", err)
	}

	all := make([]core.Transaction, 0, len(incomes)+len(micro)+len(macro))
	for _, in := range incomes {
		all = append(all, core.FromIncome(in))
	}
	for _, e := range micro {
		all = append(all, core.FromExpense(e, core.SourceMicro))
	}
	for _, e := range macro {
		all = append(all, core.FromExpense(e, core.SourceMacro))
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Less(all[j]) })

	total := len(all)
	totalPages := (total + req.PageSize - 1) / req.PageSize
	start := (req.Page - 1) * req.PageSize
	if start > total {
		start = total
	}
	end := start + req.PageSize
	if end > total {
		end = total
	}

	return FeedPage{
		Items:       all[start:end],
		TotalItems:  total,
		CurrentPage: req.Page,
		TotalPages:  totalPages,
	}, nil
}

// viewIncludes reports whether the view filter admits a source.
// Unrecognized views fall back to including everything.
func viewIncludes(view string, src core.Source) bool {
	switch view {
	case "", ViewAll:
		return true
	case ViewIncomes:
		return src == core.SourceIncome
	case ViewMicro:
		return src == core.SourceMicro
	case ViewMacro:
		return src == core.SourceMacro
	case ViewExpenses:
		return src != core.SourceIncome
	default:
		return true
	}
}
