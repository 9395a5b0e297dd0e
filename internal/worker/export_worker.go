// Package worker runs the export side of the ledger pipeline: it
// consumes record events from AMQP and mirrors the records into an
// export target.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/AlvaroPereir4/FinScope/internal/amqp"
	"github.com/AlvaroPereir4/FinScope/internal/core"
	"github.com/AlvaroPereir4/FinScope/internal/export"
	"github.com/AlvaroPereir4/FinScope/internal/storage"
)

// ExportWorker mirrors ledger writes into an export target.
type ExportWorker struct {
	storage *storage.SQLiteRepository
	writer  export.RowWriter
	deleter export.RowDeleter // optional
}

func NewExportWorker(storage *storage.SQLiteRepository, writer export.RowWriter, deleter export.RowDeleter) *ExportWorker {
	return &ExportWorker{
		storage: storage,
		writer:  writer,
		deleter: deleter,
	}
}

// HandleRecordEvent processes one event from the queue. Records that
// vanished between the event and the handling are dropped: the
// deletion event that follows will clean the target up.
func (w *ExportWorker) HandleRecordEvent(ctx context.Context, ev *amqp.RecordEvent) error {
	slog.InfoContext(ctx, "Processing record event",
		"kind", ev.Kind, "action", ev.Action, "id", ev.ID)

	switch ev.Action {
	case amqp.ActionCreated, amqp.ActionUpdated:
		return w.exportRecord(ctx, ev)
	case amqp.ActionDeleted:
		return w.removeRecord(ctx, ev)
	default:
		slog.WarnContext(ctx, "Dropping event with unknown action", "action", ev.Action)
		return nil
	}
}

func (w *ExportWorker) exportRecord(ctx context.Context, ev *amqp.RecordEvent) error {
	row, err := w.fetchRow(ctx, ev)
	if errors.Is(err, core.ErrNotFound) {
		slog.WarnContext(ctx, "Record gone before export, dropping event",
			"kind", ev.Kind, "id", ev.ID)
		return nil
	}
	if err != nil {
		return err
	}

	// Updates are replace-by-id: drop the stale row, then append.
	if ev.Action == amqp.ActionUpdated && w.deleter != nil {
		if err := w.deleter.Delete(ctx, ev.ID); err != nil {
			return fmt.Errorf("remove stale row: %w", err)
		}
	}

	ref, err := w.writer.Append(ctx, row)
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	slog.InfoContext(ctx, "Record exported", "kind", ev.Kind, "id", ev.ID, "ref", ref)
	return nil
}

func (w *ExportWorker) removeRecord(ctx context.Context, ev *amqp.RecordEvent) error {
	if w.deleter == nil {
		slog.WarnContext(ctx, "No row deleter configured, skipping removal", "id", ev.ID)
		return nil
	}
	if err := w.deleter.Delete(ctx, ev.ID); err != nil {
		return fmt.Errorf("delete row: %w", err)
	}
	slog.InfoContext(ctx, "Record removed from export target", "kind", ev.Kind, "id", ev.ID)
	return nil
}

func (w *ExportWorker) fetchRow(ctx context.Context, ev *amqp.RecordEvent) (export.Row, error) {
	id, err := uuid.Parse(ev.ID)
	if err != nil {
		return export.Row{}, fmt.Errorf("parse record id %q: %w", ev.ID, err)
	}

	switch ev.Kind {
	case amqp.KindIncome:
		in, err := w.storage.GetIncome(ctx, ev.Owner, id)
		if err != nil {
			return export.Row{}, err
		}
		return export.RowFromIncome(ev.Kind, in), nil
	case amqp.KindExpense:
		e, err := w.storage.GetExpense(ctx, ev.Owner, id)
		if err != nil {
			return export.Row{}, err
		}
		return export.RowFromExpense(ev.Kind, e), nil
	case amqp.KindMacroExpense:
		e, err := w.storage.GetMacroExpense(ctx, ev.Owner, id)
		if err != nil {
			return export.Row{}, err
		}
		return export.RowFromExpense(ev.Kind, e), nil
	default:
		return export.Row{}, fmt.Errorf("unknown record kind %q", ev.Kind)
	}
}

// Run consumes record events until the context is cancelled.
func (w *ExportWorker) Run(ctx context.Context, client *amqp.Client) error {
	return client.ConsumeRecordEvents(ctx, func(ev *amqp.RecordEvent) error {
		return w.HandleRecordEvent(ctx, ev)
	})
}
