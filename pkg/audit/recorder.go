package audit

import (
	"context"
	"time"

	"github.com/shashiranjanraj/orderdesk/pkg/logger"
	"github.com/shashiranjanraj/orderdesk/pkg/metrics"
	"github.com/shashiranjanraj/orderdesk/pkg/workerpool"
)

// Recorder is the fire-and-forget front of a Sink.
type Recorder struct {
	sink Sink
	pool *workerpool.Pool
	now  func() time.Time
}

// NewRecorder delivers through pool; a nil pool writes inline.
func NewRecorder(sink Sink, pool *workerpool.Pool) *Recorder {
	if sink == nil {
		sink = Discard{}
	}
	return &Recorder{sink: sink, pool: pool, now: time.Now}
}

// Sink returns the underlying sink, for history queries.
func (r *Recorder) Sink() Sink { return r.sink }

// Record stamps and delivers an entry. It never blocks on the sink and
// never reports failure to the caller.
func (r *Recorder) Record(ctx context.Context, entity, action, detail string) {
	if r == nil {
		return
	}

	e := Entry{Time: r.now(), Entity: entity, Action: action, Detail: detail}
	log := logger.WithCtx(ctx)
	ctx = context.WithoutCancel(ctx)

	write := func() {
		if err := r.sink.Write(ctx, e); err != nil {
			metrics.AuditDropped.Inc()
			log.Warn("audit: write failed", "entity", e.Entity, "action", e.Action, "error", err)
		}
	}

	if r.pool == nil {
		write()
		return
	}
	if err := r.pool.Submit(write); err != nil {
		metrics.AuditDropped.Inc()
		log.Warn("audit: entry dropped", "entity", e.Entity, "action", e.Action, "error", err)
	}
}
