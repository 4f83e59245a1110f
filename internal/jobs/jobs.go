// Package jobs defines the background jobs the bot runs on River and the
// transactional enqueue used for member notifications.
package jobs

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"

	"github.com/inaiurai/commissionbot/internal/services"
)

// QueueInvoices runs reconciliation with a single worker so cycles never overlap.
const QueueInvoices = "invoices"

// PollInvoicesArgs triggers one invoice reconciliation cycle.
type PollInvoicesArgs struct{}

func (PollInvoicesArgs) Kind() string { return "poll_invoices" }

// InsertOpts keeps at most one cycle queued or running at a time.
func (PollInvoicesArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       QueueInvoices,
		MaxAttempts: 1,
		UniqueOpts: river.UniqueOpts{
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}

// NotifyArgs delivers a direct message to a member.
type NotifyArgs struct {
	UserID int64  `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

func (NotifyArgs) Kind() string { return "notify_member" }

func (NotifyArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{MaxAttempts: 3}
}

// PeriodicJobs schedules reconciliation every interval, starting immediately.
func PeriodicJobs(interval time.Duration) []*river.PeriodicJob {
	return []*river.PeriodicJob{
		river.NewPeriodicJob(
			river.PeriodicInterval(interval),
			func() (river.JobArgs, *river.InsertOpts) {
				return PollInvoicesArgs{}, nil
			},
			&river.PeriodicJobOpts{RunOnStart: true},
		),
	}
}

// QueueConfig returns the queues the bot's River client works.
func QueueConfig() map[string]river.QueueConfig {
	return map[string]river.QueueConfig{
		river.QueueDefault: {MaxWorkers: 10},
		QueueInvoices:      {MaxWorkers: 1},
	}
}

// InsertNotifyTxFunc enqueues a NotifyArgs job within tx. Provided by main using river.Client.InsertTx.
type InsertNotifyTxFunc func(ctx context.Context, tx pgx.Tx, args NotifyArgs) error

// NotifyTx adapts insert to the services' notification hook so a
// notification is only delivered if the surrounding transaction commits.
func NotifyTx(insert InsertNotifyTxFunc) services.NotifyTxFunc {
	return func(ctx context.Context, tx pgx.Tx, n services.Notification) error {
		return insert(ctx, tx, NotifyArgs{UserID: n.UserID, Title: n.Title, Body: n.Body})
	}
}
