package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// PipelineRunner runs one fetch-and-analyze cycle.
type PipelineRunner interface {
	Execute(ctx context.Context) error
}

// Each scheduled run gets this long before its context is cancelled.
// A cold run against a full slate spends most of its budget on paced
// stats requests.
const defaultRunTimeout = 30 * time.Minute

// Scheduler manages scheduled analysis runs
type Scheduler struct {
	cron            *cron.Cron
	pipeline        PipelineRunner
	logger          *log.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
	runTimeout      time.Duration
}

// NewScheduler creates a new scheduler. A zero gracefulTimeout defaults
// to 30 seconds.
func NewScheduler(pipeline PipelineRunner, gracefulTimeout time.Duration, logger *log.Logger) *Scheduler {
	if gracefulTimeout <= 0 {
		gracefulTimeout = 30 * time.Second
	}

	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		pipeline:        pipeline,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: gracefulTimeout,
		runTimeout:      defaultRunTimeout,
	}
}

// SchedulePipeline schedules recurring analysis runs. The expression
// accepts standard five-field cron specs and @every descriptors, and is
// evaluated in UTC.
func (s *Scheduler) SchedulePipeline(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()

		s.logger.Printf("Starting scheduled analysis run")
		start := time.Now()

		if err := s.pipeline.Execute(ctx); err != nil {
			s.logger.Printf("Error during scheduled analysis run: %v", err)
			return
		}

		s.logger.Printf("Scheduled analysis run completed in %v", time.Since(start).Round(time.Second))
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.Printf("Scheduled analysis job with cron expression: %s", cronExpression)

	return nil
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
	s.logger.Printf("Scheduler started with %d jobs", len(s.jobIDs))

	return nil
}

// Stop stops the scheduler, waiting up to the graceful timeout for any
// in-flight run to finish
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-time.After(s.gracefulTimeout):
		s.logger.Printf("Scheduler stop timed out after %v with a run still in flight", s.gracefulTimeout)
	}

	s.isRunning = false
	s.logger.Printf("Scheduler stopped")

	return nil
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled run
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
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
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

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	s.logger.Printf("Removed job: %d", jobID)

	return nil
}
