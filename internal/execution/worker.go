// Package execution holds the River workers behind the bot's background jobs.
package execution

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"

	"github.com/inaiurai/commissionbot/internal/chat"
	"github.com/inaiurai/commissionbot/internal/jobs"
	"github.com/inaiurai/commissionbot/internal/services"
)

// InvoicePoller is the contract the poll worker needs from the invoice service.
type InvoicePoller interface {
	PollOnce(ctx context.Context) (services.PollStats, error)
}

type PollInvoicesWorker struct {
	river.WorkerDefaults[jobs.PollInvoicesArgs]
	poller InvoicePoller
	logger *slog.Logger
}

func NewPollInvoicesWorker(p InvoicePoller, logger *slog.Logger) *PollInvoicesWorker {
	return &PollInvoicesWorker{poller: p, logger: logger}
}

func (w *PollInvoicesWorker) Timeout(*river.Job[jobs.PollInvoicesArgs]) time.Duration {
	return 5 * time.Minute
}

func (w *PollInvoicesWorker) Work(ctx context.Context, job *river.Job[jobs.PollInvoicesArgs]) error {
	stats, err := w.poller.PollOnce(ctx)
	if err != nil {
		return fmt.Errorf("poll invoices: %w", err)
	}
	if stats.Checked > 0 {
		w.logger.Info("invoice cycle finished",
			"checked", stats.Checked, "paid", stats.Paid, "orphaned", stats.Orphaned, "skipped", stats.Skipped)
	}
	return nil
}

type NotifyWorker struct {
	river.WorkerDefaults[jobs.NotifyArgs]
	chat   chat.Platform
	logger *slog.Logger
}

func NewNotifyWorker(p chat.Platform, logger *slog.Logger) *NotifyWorker {
	return &NotifyWorker{chat: p, logger: logger}
}

// Work sends the direct message. Members with closed DMs are logged and
// skipped rather than retried.
func (w *NotifyWorker) Work(ctx context.Context, job *river.Job[jobs.NotifyArgs]) error {
	args := job.Args
	msg := chat.Message{Embeds: []chat.Embed{{Title: args.Title, Description: args.Body}}}
	if err := w.chat.SendDirect(ctx, args.UserID, msg); err != nil {
		w.logger.Warn("direct message not delivered", "user_id", args.UserID, "title", args.Title, "error", err)
	}
	return nil
}
