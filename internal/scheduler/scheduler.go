// Package scheduler runs the daily pipeline stages on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/acca-engine/internal/config"
	"github.com/yourusername/acca-engine/internal/metrics"
	"github.com/yourusername/acca-engine/internal/service"
)

// Pipeline stage names used in logs and metrics labels.
const (
	StageDominanceRefresh = "dominance_refresh"
	StagePickGeneration   = "pick_generation"
	StageComboBuild       = "combo_build"
)

// Scheduler manages the scheduled pipeline stage jobs
type Scheduler struct {
	cron       *cron.Cron
	accService *service.AccumulatorService
	logger     *logrus.Logger
	jobTimeout time.Duration
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
}

// NewScheduler creates a new scheduler. Jobs run in UTC.
func NewScheduler(accService *service.AccumulatorService, cfg config.SchedulerConfig, logger *logrus.Logger) *Scheduler {
	timeout := time.Duration(cfg.TimeoutMins) * time.Minute
	if timeout <= 0 {
		timeout = 15 * time.Minute
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		accService: accService,
		logger:     logger,
		jobTimeout: timeout,
		jobIDs:     make([]cron.EntryID, 0),
	}
}

// SchedulePipeline registers the three stage jobs at their configured cron
// expressions. The stage order is enforced by schedule, not by chaining:
// picks run after the refresh, combos after picks.
func (s *Scheduler) SchedulePipeline(cfg config.SchedulerConfig) error {
	if err := s.scheduleStage(cfg.RefreshCron, StageDominanceRefresh, s.runDominanceRefresh); err != nil {
		return err
	}
	if err := s.scheduleStage(cfg.PicksCron, StagePickGeneration, s.runPickGeneration); err != nil {
		return err
	}
	return s.scheduleStage(cfg.CombosCron, StageComboBuild, s.runComboBuild)
}

// scheduleStage registers one stage job with timeout and outcome recording.
func (s *Scheduler) scheduleStage(cronExpression, stage string, run func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()

		start := time.Now()
		s.logger.WithField("stage", stage).Info("Starting scheduled pipeline stage")

		err := run(ctx)
		metrics.RecordPipelineRun(stage, err)
		if err != nil {
			s.logger.WithError(err).WithField("stage", stage).Error("Scheduled pipeline stage failed")
			return
		}

		s.logger.WithFields(logrus.Fields{
			"stage":       stage,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("Scheduled pipeline stage complete")
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", stage, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"stage": stage,
		"cron":  cronExpression,
	}).Info("Scheduled pipeline stage")

	return nil
}

func (s *Scheduler) runDominanceRefresh(ctx context.Context) error {
	_, err := s.accService.RefreshDominantTeams(ctx, service.SeasonKey(time.Now().UTC()))
	return err
}

func (s *Scheduler) runPickGeneration(ctx context.Context) error {
	_, err := s.accService.GenerateDailyPicks(ctx, time.Now().UTC())
	return err
}

func (s *Scheduler) runComboBuild(ctx context.Context) error {
	_, err := s.accService.BuildDailyCombos(ctx, time.Now().UTC())
	return err
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
