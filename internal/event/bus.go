package event

import (
	"context"
	"time"
)

// The bus decouples persistence writes from the message path: moderation
// state mutates in memory first, and the durable write is queued here so a
// slow store never stalls decision making.
type (
	bus struct {
		q chan *Job
	}

	// Job is a single deferred persistence write. Expired jobs are skipped
	// without running.
	Job struct {
		kind     string
		expireAt time.Time
		run      func(ctx context.Context) error
	}
)

func NewJob(kind string, expiresAt time.Time, run func(ctx context.Context) error) *Job {
	return &Job{
		kind:     kind,
		expireAt: expiresAt,
		run:      run,
	}
}

func (j *Job) Kind() string {
	return j.kind
}

func (j *Job) Expired() bool {
	return time.Until(j.expireAt) < 0
}

var Bus = &bus{q: make(chan *Job, 100000)}

func (b *bus) Enqueue(job *Job) {
	go func() { b.q <- job }()
}

func (b *bus) DQ() *Job {
	select {
	case j := <-b.q:
		return j
	default:
		return nil
	}
}
