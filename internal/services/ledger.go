package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/AlvaroPereir4/FinScope/internal/amqp"
	"github.com/AlvaroPereir4/FinScope/internal/cache"
	applog "github.com/AlvaroPereir4/FinScope/internal/log"
	"github.com/AlvaroPereir4/FinScope/internal/storage"
)

var logs = applog.NewStructuredLogger(applog.New(applog.Config{Component: applog.ComponentLedger}))

// BalancePolicy selects how unconsolidated credit-card expenses count
// toward the fallback balance.
type BalancePolicy string

const (
	// ExcludePendingCredit keeps unconsolidated credit expenses out of
	// the balance until they are consolidated. Default.
	ExcludePendingCredit BalancePolicy = "exclude-pending-credit"
	// CountAllExpenses subtracts every expense regardless of payment
	// method or consolidation state.
	CountAllExpenses BalancePolicy = "count-all"
)

// Ledger orchestrates ledger operations across SQLite and AMQP: record
// CRUD, installment expansion, the unified transaction feed, dashboard
// aggregation and summaries. It holds no per-request state.
type Ledger struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
	dashboards *cache.LRUCache[[]ChartRow]
	policy     BalancePolicy
	now        func() time.Time
}

func NewLedger(storage *storage.SQLiteRepository, amqpClient *amqp.Client, policy BalancePolicy) *Ledger {
	if policy == "" {
		policy = ExcludePendingCredit
	}
	return &Ledger{
		storage:    storage,
		amqpClient: amqpClient,
		policy:     policy,
		now:        time.Now,
	}
}

// WithDashboardCache enables caching of aggregation results. Entries
// for an owner are dropped whenever one of their records changes.
func (s *Ledger) WithDashboardCache(c *cache.LRUCache[[]ChartRow]) *Ledger {
	s.dashboards = c
	return s
}

// publishRecordEvent logs a ledger change and fans it out to the
// export pipeline. Publish failures are logged and swallowed: the
// local write already succeeded and must not be failed retroactively.
func (s *Ledger) publishRecordEvent(ctx context.Context, kind, action string, id uuid.UUID, owner string) {
	logs.LogRecordWrite(ctx, action, kind, id.String(), owner)
	if s.amqpClient == nil {
		return
	}
	ev := amqp.NewRecordEvent(kind, action, id.String(), owner)
	if err := s.amqpClient.PublishRecordEvent(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish record event",
			"kind", kind, "action", action, "id", id.String(), "error", err)
	}
}

// invalidateDashboards drops the owner's cached aggregation rows after
// any write that could change them.
func (s *Ledger) invalidateDashboards(owner string) {
	if s.dashboards == nil {
		return
	}
	s.dashboards.DeletePrefix(owner + "|")
}

// Close releases the storage and AMQP connections.
func (s *Ledger) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger: %v", errs)
	}
	return nil
}
