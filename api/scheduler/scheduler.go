package scheduler

import (
	"context"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/linesmerrill/court-records-api/models"
)

const jobTimeout = 5 * time.Minute

// PendingLister lists access requests still pending after olderThan
type PendingLister interface {
	Pending(ctx context.Context, olderThan time.Duration) ([]models.LedgerItem, error)
}

// Sweeper forgets idle rate limiter state and reports how many entries it removed
type Sweeper interface {
	Sweep() int
}

// Scheduler handles periodic background jobs. Every job is read-only with respect to
// case records.
type Scheduler struct {
	cron     *cron.Cron
	Ledger   PendingLister
	Limiter  Sweeper
	StaleAge time.Duration
}

// NewScheduler creates a new scheduler instance
func NewScheduler(ledger PendingLister, limiter Sweeper, staleAge time.Duration) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		Ledger:   ledger,
		Limiter:  limiter,
		StaleAge: staleAge,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Report access requests waiting on a registrar, hourly on the hour
	if _, err := s.cron.AddFunc("0 * * * *", s.reportStaleRequests); err != nil {
		zap.S().Errorw("failed to register stale request job", "error", err)
	}
	if s.Limiter != nil {
		if _, err := s.cron.AddFunc("@every 30m", s.sweepLimiter); err != nil {
			zap.S().Errorw("failed to register limiter sweep job", "error", err)
		}
	}

	s.cron.Start()
	zap.S().Info("scheduler started")
}

// Stop gracefully stops the scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("scheduler stopped")
}

func (s *Scheduler) reportStaleRequests() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if _, err := s.StaleRequests(ctx); err != nil {
		zap.S().Errorw("failed to list stale access requests", "error", err)
	}
}

// StaleRequests logs a summary of access requests pending for longer than StaleAge and
// returns the ids of the cases holding them
func (s *Scheduler) StaleRequests(ctx context.Context) ([]string, error) {
	items, err := s.Ledger.Pending(ctx, s.StaleAge)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		zap.S().Debugw("no stale access requests", "olderThan", s.StaleAge)
		return nil, nil
	}

	seen := map[string]bool{}
	caseIDs := []string{}
	for _, item := range items {
		if !seen[item.CaseID] {
			seen[item.CaseID] = true
			caseIDs = append(caseIDs, item.CaseID)
		}
	}
	sort.Strings(caseIDs)
	zap.S().Infow("access requests awaiting a decision",
		"count", len(items),
		"olderThan", s.StaleAge,
		"caseIds", caseIDs)
	return caseIDs, nil
}

func (s *Scheduler) sweepLimiter() {
	if removed := s.Limiter.Sweep(); removed > 0 {
		zap.S().Debugw("rate limiter swept", "removed", removed)
	}
}
