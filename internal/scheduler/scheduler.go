package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSpec runs the daily summary at 21:00 UTC.
const DefaultSpec = "0 21 * * *"

// Scheduler runs the periodic engagement summary.
type Scheduler struct {
	cron       *cron.Cron
	spec       string
	ctx        context.Context
	cancel     context.CancelFunc
	reportFunc func(ctx context.Context) error
	entry      cron.EntryID
}

// New creates a scheduler for a standard five-field cron spec evaluated in
// UTC. An empty spec means DefaultSpec.
func New(spec string) *Scheduler {
	if spec == "" {
		spec = DefaultSpec
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(time.UTC)),
		spec:   spec,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) SetReportFunction(f func(ctx context.Context) error) {
	s.reportFunc = f
}

// Start registers the report job and starts the cron loop. Without a report
// function it does nothing.
func (s *Scheduler) Start() error {
	if s.reportFunc == nil {
		log.Println("⚠️ Report function not set, scheduler will not generate reports")
		return nil
	}
	if s.entry != 0 {
		return errors.New("scheduler already started")
	}

	id, err := s.cron.AddFunc(s.spec, s.runReport)
	if err != nil {
		return err
	}
	s.entry = id

	s.cron.Start()
	log.Printf("📅 Scheduler started - daily summary on %q (UTC)", s.spec)
	return nil
}

func (s *Scheduler) runReport() {
	log.Println("🕘 Triggered daily summary generation")
	if err := s.reportFunc(s.ctx); err != nil {
		log.Printf("❌ Daily summary generation failed: %v", err)
	}
}

// Next reports when the job fires next; zero if not started.
func (s *Scheduler) Next() time.Time {
	if s.entry == 0 {
		return time.Time{}
	}
	return s.cron.Entry(s.entry).Next
}

// Stop waits for a running job and cancels its context.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
	if s.cancel != nil {
		s.cancel()
	}
	log.Println("📅 Scheduler stopped")
}

func (s *Scheduler) IsRunning() bool {
	return s.cron != nil && len(s.cron.Entries()) > 0
}
