package services

import (
	"context"
	"log/slog"

	"github.com/AlvaroPereir4/FinScope/internal/amqp"
	"github.com/AlvaroPereir4/FinScope/internal/core"
)

// ExpansionResult reports what an expense submission produced. For the
// single-record path Requested is 1; for an installment series it is
// the series length. Member inserts are independent: a failure on one
// does not roll back the others, it is reported in Failed instead.
type ExpansionResult struct {
	Requested int
	Created   int
	Skipped   int
	Failed    []string // labels of members whose insert failed
}

// SubmitExpense stores an expense submission. Consolidated submissions
// and submissions without a well-formed "current/total" installment
// label are stored as a single record. Otherwise the submission is the
// anchor of an installment series and every member 1..total is
// derived: one calendar month apart, labelled "i/total", non-anchor
// members unconsolidated and marked auto-generated. Members already
// present from an earlier submission of the same series are skipped,
// so retries are no-ops.
func (s *Ledger) SubmitExpense(ctx context.Context, e core.Expense) (ExpansionResult, error) {
	if err := e.Validate(); err != nil {
		return ExpansionResult{}, err
	}

	label, ok := core.ParseInstallmentLabel(e.InstallmentLabel)
	if e.Consolidated || !ok {
		if err := s.storage.CreateExpense(ctx, &e); err != nil {
			return ExpansionResult{}, err
		}
		s.publishRecordEvent(ctx, amqp.KindExpense, amqp.ActionCreated, e.ID, e.Owner)
		s.invalidateDashboards(e.Owner)
		return ExpansionResult{Requested: 1, Created: 1}, nil
	}

	return s.expandInstallments(ctx, e, label)
}

func (s *Ledger) expandInstallments(ctx context.Context, anchor core.Expense, label core.InstallmentLabel) (ExpansionResult, error) {
	res := ExpansionResult{Requested: label.Total}

	for i := 1; i <= label.Total; i++ {
		member := anchor
		member.InstallmentLabel = label.Format(i)
		member.Date = anchor.Date.AddMonths(i - label.Current)
		if i != label.Current {
			member.Observation = core.AutoGeneratedMarker + anchor.Observation
			member.Consolidated = false
		}

		created, err := s.storage.InsertInstallmentMember(ctx, &member)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to insert installment member",
				"label", member.InstallmentLabel, "error", err)
			res.Failed = append(res.Failed, member.InstallmentLabel)
			continue
		}
		if !created {
			res.Skipped++
			continue
		}
		res.Created++
		s.publishRecordEvent(ctx, amqp.KindExpense, amqp.ActionCreated, member.ID, member.Owner)
	}

	if res.Created > 0 {
		s.invalidateDashboards(anchor.Owner)
	}
	return res, nil
}
