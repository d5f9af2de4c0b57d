// Package activity is the append-only audit log. Entries are recorded best-effort: a full
// queue or a failed write loses the entry and never fails the caller.
package activity

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/linesmerrill/court-records-api/databases"
	"github.com/linesmerrill/court-records-api/models"
)

const (
	defaultQueueSize  = 1024
	defaultQueryLimit = 500
	persistTimeout    = 5 * time.Second
)

// Broadcaster receives every entry once it is persisted
type Broadcaster interface {
	Broadcast(a models.Activity)
}

// Options configures a Recorder. Zero values pick defaults.
type Options struct {
	QueueSize   int
	QueryLimit  int
	Metrics     *Metrics
	Broadcaster Broadcaster
}

// Recorder queues activity entries and persists them on a background worker
type Recorder struct {
	db          databases.ActivityDatabase
	queue       chan models.Activity
	metrics     *Metrics
	broadcaster Broadcaster
	queryLimit  int

	mu     sync.RWMutex
	closed bool
	done   chan struct{}

	clockMu sync.Mutex
	last    time.Time
	now     func() time.Time
}

// NewRecorder starts a recorder writing to db
func NewRecorder(db databases.ActivityDatabase, opts Options) *Recorder {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.QueryLimit <= 0 {
		opts.QueryLimit = defaultQueryLimit
	}
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics(nil)
	}
	r := &Recorder{
		db:          db,
		queue:       make(chan models.Activity, opts.QueueSize),
		metrics:     opts.Metrics,
		broadcaster: opts.Broadcaster,
		queryLimit:  opts.QueryLimit,
		done:        make(chan struct{}),
		now:         time.Now,
	}
	go r.run()
	return r
}

// Append stamps an entry and queues it for persistence. It never blocks: when the queue
// is full or the recorder is closed the entry is dropped and counted.
func (r *Recorder) Append(actor models.Actor, action, targetType, targetID string, details map[string]interface{}) models.Activity {
	a := models.Activity{
		ID:         uuid.NewString(),
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    details,
		At:         r.stamp(),
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.drop(a, "recorder closed")
		return a
	}
	select {
	case r.queue <- a:
	default:
		r.drop(a, "queue full")
	}
	return a
}

func (r *Recorder) drop(a models.Activity, reason string) {
	r.metrics.Dropped.Inc()
	zap.S().Warnw("activity dropped", "reason", reason, "action", a.Action, "targetId", a.TargetID)
}

// stamp returns a timestamp that never goes backwards within this process
func (r *Recorder) stamp() time.Time {
	r.clockMu.Lock()
	defer r.clockMu.Unlock()
	at := r.now().UTC().Truncate(time.Millisecond)
	if at.Before(r.last) {
		at = r.last
	}
	r.last = at
	return at
}

func (r *Recorder) run() {
	defer close(r.done)
	for a := range r.queue {
		r.persist(a)
	}
}

func (r *Recorder) persist(a models.Activity) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := r.db.InsertOne(ctx, a); err != nil {
		r.metrics.PersistFailures.Inc()
		zap.S().Errorw("failed to persist activity",
			"action", a.Action,
			"targetId", a.TargetID,
			"error", err)
		return
	}
	r.metrics.Recorded.Inc()
	if r.broadcaster != nil {
		r.broadcaster.Broadcast(a)
	}
}

// Close stops intake and waits for queued entries to be persisted or ctx to end
func (r *Recorder) Close(ctx context.Context) error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.queue)
	}
	r.mu.Unlock()

	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Query returns persisted entries matching f, newest first. The limit is clamped to the
// configured maximum.
func (r *Recorder) Query(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error) {
	if f.Limit <= 0 || f.Limit > r.queryLimit {
		f.Limit = r.queryLimit
	}
	if f.Role != "" {
		if role := models.CanonicalRole(f.Role); role != "" {
			f.Role = role
		}
	}
	return r.db.Find(ctx, f)
}
