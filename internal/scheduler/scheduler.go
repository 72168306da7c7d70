// Package scheduler runs the periodic re-embedding sweep.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/spigell/cv-sync/internal/logger"
)

const DefaultIntervalHours = 24

// Refresher regenerates missing or stale resume vectors.
type Refresher interface {
	ResumeIDs(ctx context.Context) ([]string, error)
	RefreshEmbedding(ctx context.Context, id string) (bool, error)
}

// SweepStats summarizes one sweep.
type SweepStats struct {
	Checked   int
	Refreshed int
	Failed    int
}

// Scheduler wraps robfig/cron and owns the sweep loop.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	logger    *zap.Logger
	spec      string
	wg        sync.WaitGroup
}

// New creates a Scheduler that fires every intervalHours hours.
func New(refresher Refresher, intervalHours int, log *zap.Logger) *Scheduler {
	if intervalHours < 1 {
		intervalHours = DefaultIntervalHours
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		cron:      cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		refresher: refresher,
		logger:    log,
		spec:      fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the sweep, starts cron and runs one sweep right away in
// the background. The immediate sweep goes through the same chain, so a
// scheduled tick never overlaps it.
func (s *Scheduler) Start(ctx context.Context) error {
	id, err := s.cron.AddFunc(s.spec, func() { s.Sweep(ctx) })
	if err != nil {
		return fmt.Errorf("register sweep: %w", err)
	}
	job := s.cron.Entry(id).WrappedJob

	s.cron.Start()
	s.logger.Info("re-embedding scheduler started", zap.String("spec", s.spec))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		job.Run()
	}()

	return nil
}

// Stop halts the schedule and waits for running sweeps to finish, the
// immediate one included.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("re-embedding scheduler stopped")
}

// Sweep refreshes every resume in turn. A failing resume is logged and skipped.
func (s *Scheduler) Sweep(ctx context.Context) SweepStats {
	var stats SweepStats

	ids, err := s.refresher.ResumeIDs(ctx)
	if err != nil {
		s.logger.Error("listing resumes for re-embedding", zap.Error(err))
		return stats
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			s.logger.Warn("re-embedding sweep cancelled", zap.Error(ctx.Err()))
			break
		}

		stats.Checked++
		refreshed, err := s.refresher.RefreshEmbedding(ctx, id)
		if err != nil {
			stats.Failed++
			logger.ForResume(s.logger, id).Warn("re-embedding failed", zap.Error(err))
			continue
		}
		if refreshed {
			stats.Refreshed++
		}
	}

	s.logger.Info("re-embedding sweep complete",
		zap.Int("checked", stats.Checked),
		zap.Int("refreshed", stats.Refreshed),
		zap.Int("failed", stats.Failed),
	)
	return stats
}
