package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/AlvaroPereir4/FinScope/internal/core"
	"github.com/AlvaroPereir4/FinScope/internal/storage"
)

func TestSubmitExpenseWithoutLabel(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	res, err := s.SubmitExpense(ctx, core.Expense{
		Owner:       "u1",
		Description: "groceries",
		Amount:      decimal.RequireFromString("54.90"),
		Date:        "2024-03-05",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Requested != 1 || res.Created != 1 || res.Skipped != 0 {
		t.Fatalf("unexpected result %+v", res)
	}

	got, err := s.Expenses(ctx, storage.RecordFilter{Owner: "u1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 expense, got %d", len(got))
	}
}

func TestSubmitExpenseExpandsSeries(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	res, err := s.SubmitExpense(ctx, core.Expense{
		Owner:            "u1",
		Description:      "tv",
		Amount:           decimal.RequireFromString("300.00"),
		Date:             "2024-03-31",
		InstallmentLabel: "3/5",
		Observation:      "black friday",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Requested != 5 || res.Created != 5 {
		t.Fatalf("unexpected result %+v", res)
	}

	got, err := s.Expenses(ctx, storage.RecordFilter{Owner: "u1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 members, got %d", len(got))
	}

	byLabel := make(map[string]core.Expense, len(got))
	for _, e := range got {
		byLabel[e.InstallmentLabel] = e
	}

	wantDates := map[string]core.Date{
		"1/5": "2024-01-31",
		"2/5": "2024-02-29", // day clamped to February's last day
		"3/5": "2024-03-31",
		"4/5": "2024-04-30",
		"5/5": "2024-05-31",
	}
	for label, wantDate := range wantDates {
		member, ok := byLabel[label]
		if !ok {
			t.Fatalf("missing member %s", label)
		}
		if member.Date != wantDate {
			t.Errorf("member %s: date = %s, want %s", label, member.Date, wantDate)
		}
	}

	if byLabel["3/5"].Observation != "black friday" {
		t.Errorf("anchor observation changed: %q", byLabel["3/5"].Observation)
	}
	for _, label := range []string{"1/5", "2/5", "4/5", "5/5"} {
		if byLabel[label].Observation != core.AutoGeneratedMarker+"black friday" {
			t.Errorf("member %s missing auto-generated marker: %q", label, byLabel[label].Observation)
		}
		if byLabel[label].Consolidated {
			t.Errorf("member %s should be unconsolidated", label)
		}
	}
}

func TestSubmitExpenseIdempotent(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	submission := core.Expense{
		Owner:            "u1",
		Description:      "phone",
		Amount:           decimal.RequireFromString("1200.00"),
		Date:             "2024-05-10",
		InstallmentLabel: "3/5",
	}
	if _, err := s.SubmitExpense(ctx, submission); err != nil {
		t.Fatalf("first submit: %v", err)
	}

	res, err := s.SubmitExpense(ctx, submission)
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if res.Created != 0 || res.Skipped != 5 {
		t.Fatalf("resubmission should skip every member, got %+v", res)
	}

	got, err := s.Expenses(ctx, storage.RecordFilter{Owner: "u1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("expected 5 members after resubmission, got %d", len(got))
	}
}

func TestSubmitExpenseMalformedLabel(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		label string
	}{
		{"current above total", "6/5"},
		{"zero current", "0/3"},
		{"zero total", "2/0"},
		{"not numeric", "a/b"},
		{"wrong separator", "3-5"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.SubmitExpense(ctx, core.Expense{
				Owner:            "u1",
				Description:      "label " + tt.name,
				Amount:           decimal.RequireFromString("10.00"),
				Date:             "2024-03-05",
				InstallmentLabel: tt.label,
			})
			if err != nil {
				t.Fatalf("submit: %v", err)
			}
			if res.Requested != 1 || res.Created != 1 {
				t.Fatalf("malformed label should store a single record, got %+v", res)
			}
		})
	}
}

func TestSubmitExpenseConsolidatedNeverExpands(t *testing.T) {
	s := newTestLedger(t)
	ctx := context.Background()

	res, err := s.SubmitExpense(ctx, core.Expense{
		Owner:            "u1",
		Description:      "paid upfront",
		Amount:           decimal.RequireFromString("90.00"),
		Date:             "2024-04-01",
		InstallmentLabel: "1/4",
		Consolidated:     true,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Requested != 1 || res.Created != 1 {
		t.Fatalf("consolidated submission should not expand, got %+v", res)
	}

	got, err := s.Expenses(ctx, storage.RecordFilter{Owner: "u1"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].InstallmentLabel != "1/4" || !got[0].Consolidated {
		t.Fatalf("stored record should keep the submission unchanged: %+v", got)
	}
}

func TestSubmitExpenseValidation(t *testing.T) {
	s := newTestLedger(t)

	_, err := s.SubmitExpense(context.Background(), core.Expense{
		Owner:  "u1",
		Amount: decimal.RequireFromString("10.00"),
		Date:   "2024-03-05",
	})
	if !errors.Is(err, core.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
