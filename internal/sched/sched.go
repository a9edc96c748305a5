// Package sched runs the ingestion pipeline on a fixed interval.
package sched

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"papuanews/internal/config"
	"papuanews/internal/ingest"
	"papuanews/internal/types"
)

// Scheduler triggers ingestion cycles via an embedded cron runner. Only one
// job is ever registered, and overlapping cycles are skipped rather than
// queued.
type Scheduler struct {
	cron     *cron.Cron
	ingester *ingest.Ingester
	cfg      config.SchedulerConfig
	logger   *slog.Logger
	running  atomic.Bool
	started  atomic.Bool
}

// New creates a Scheduler.
func New(in *ingest.Ingester, cfg config.SchedulerConfig, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		ingester: in,
		cfg:      cfg,
		logger:   logger.With("component", "scheduler"),
	}
}

// Start registers the ingestion job and begins the schedule. Calling Start
// twice is a no-op. When RunOnStart is set, one cycle runs immediately
// before the interval timer takes over.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.Enabled {
		s.logger.Info("scheduler disabled")
		return nil
	}
	if !s.started.CompareAndSwap(false, true) {
		return nil
	}

	spec := fmt.Sprintf("@every %s", s.cfg.Interval)
	if _, err := s.cron.AddFunc(spec, func() { s.runCycle(ctx) }); err != nil {
		s.started.Store(false)
		return fmt.Errorf("schedule job: %w", err)
	}

	s.logger.Info("scheduler started", "interval", s.cfg.Interval.String())
	if s.cfg.RunOnStart {
		go s.runCycle(ctx)
	}
	s.cron.Start()
	return nil
}

// runCycle runs one ingestion pass. A failing cycle is logged and the
// schedule continues.
func (s *Scheduler) runCycle(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous cycle still running, skipping")
		return
	}
	defer s.running.Store(false)

	if ctx.Err() != nil {
		return
	}

	report := s.ingester.Run(ctx)
	if report.Status != types.StatusSuccess {
		s.logger.Error("scheduled cycle failed", "message", report.Message)
		return
	}
	s.logger.Info("scheduled cycle complete",
		"found", report.ArticlesFound,
		"saved", report.ArticlesSaved,
		"merged", report.ArticlesMerged)
}

// Stop halts the schedule and waits for a running cycle to finish.
func (s *Scheduler) Stop() {
	if !s.started.Load() {
		return
	}
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("scheduler stopped")
}
