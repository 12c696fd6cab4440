// services/schedule_service.go
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// cronLogger forwards cron's own messages to slog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Debug("cron: "+msg, append([]any{"component", "schedule"}, keysAndValues...)...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	slog.Error("cron: "+msg, append([]any{"component", "schedule", "err", err}, keysAndValues...)...)
}

// CollectionSchedule runs collections on a cron spec. A run that is still in
// progress when the next one is due causes that one to be skipped.
type CollectionSchedule struct {
	cron   *cron.Cron
	svc    *CollectionService
	ctx    context.Context
	cancel context.CancelFunc
}

// NewCollectionSchedule registers svc under spec (standard five-field cron,
// evaluated in loc). The schedule does nothing until Start.
func NewCollectionSchedule(spec string, loc *time.Location, svc *CollectionService) (*CollectionSchedule, error) {
	logger := cronLogger{}
	c := cron.New(
		cron.WithLogger(logger),
		cron.WithLocation(loc),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	ctx, cancel := context.WithCancel(context.Background())
	s := &CollectionSchedule{cron: c, svc: svc, ctx: ctx, cancel: cancel}
	if _, err := c.AddFunc(spec, s.run); err != nil {
		cancel()
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

// run is one scheduled collection. It is cancelled by Stop.
func (s *CollectionSchedule) run() {
	run, err := s.svc.RunCollection(s.ctx)
	if err != nil {
		slog.ErrorContext(s.ctx, "scheduled collection failed", "component", "schedule", "err", err)
		return
	}
	slog.InfoContext(s.ctx, "scheduled collection finished", "component", "schedule", "run_key", run.RunKey, "rows", run.RowCount)
}

func (s *CollectionSchedule) Start() {
	s.cron.Start()
}

// Stop halts the schedule, cancels a running collection and waits for it to
// return.
func (s *CollectionSchedule) Stop() {
	done := s.cron.Stop()
	s.cancel()
	<-done.Done()
}

// Next is the time of the next scheduled collection, zero before Start.
func (s *CollectionSchedule) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
