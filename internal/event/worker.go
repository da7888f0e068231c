package event

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	errs "github.com/iamwavecut/guardbot/internal/errors"
)

const jobTimeout = 10 * time.Second

var l = log.WithField("context", "event_worker")

// RunWorker drains the bus in the background until the returned cancel
// func is called. Failed jobs are logged and dropped; in-memory state is
// authoritative for the process lifetime, so a lost write is recoverable.
func RunWorker() context.CancelFunc {
	ctx, cancelFunc := context.WithCancel(context.Background())
	go run(ctx)
	return cancelFunc
}

func run(ctx context.Context) {
	l.Trace("persistence worker go")
	done := ctx.Done()
	for {
		select {
		case <-done:
			l.Info("shutting down persistence worker by cancelled context")
			return
		default:
			time.Sleep(1 * time.Millisecond)
			job := Bus.DQ()
			if job == nil {
				continue
			}
			if job.Expired() {
				l.WithField("kind", job.Kind()).Debug("skip expired job")
				continue
			}
			jobCtx, cancel := context.WithTimeout(ctx, jobTimeout)
			if err := job.run(jobCtx); err != nil {
				l.WithError(errors.Wrap(errs.ErrPersistence, err.Error())).
					WithField("kind", job.Kind()).
					Error("persistence job failed")
			}
			cancel()
		}
	}
}
