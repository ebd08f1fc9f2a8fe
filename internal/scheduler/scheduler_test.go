package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStartWithoutReportFunction(t *testing.T) {
	s := New("")
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()
	if s.IsRunning() {
		t.Fatalf("scheduler without a report function should not register jobs")
	}
	if !s.Next().IsZero() {
		t.Fatalf("expected zero next run")
	}
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := New("not a cron spec")
	s.SetReportFunction(func(context.Context) error { return nil })
	if err := s.Start(); err == nil {
		t.Fatalf("expected error for invalid spec")
	}
}

func TestDefaultSpecNextRunIs2100UTC(t *testing.T) {
	s := New("")
	s.SetReportFunction(func(context.Context) error { return nil })
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer s.Stop()

	if !s.IsRunning() {
		t.Fatalf("expected a registered job")
	}
	next := s.Next().UTC()
	if next.Hour() != 21 || next.Minute() != 0 {
		t.Fatalf("expected next run at 21:00 UTC, got %v", next)
	}
	if err := s.Start(); err == nil {
		t.Fatalf("second start should fail")
	}
}

func TestRunReportPassesContextAndSurvivesErrors(t *testing.T) {
	calls := 0
	s := New("@every 1h")
	s.SetReportFunction(func(ctx context.Context) error {
		calls++
		if ctx.Err() != nil {
			t.Errorf("report context already cancelled")
		}
		return errors.New("journal unavailable")
	})
	s.runReport()
	s.runReport()
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestStopCancelsContext(t *testing.T) {
	s := New("@every 1h")
	s.SetReportFunction(func(context.Context) error { return nil })
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	next := s.Next()
	if next.Before(time.Now()) {
		t.Fatalf("next run in the past: %v", next)
	}
	s.Stop()
	if s.ctx.Err() == nil {
		t.Fatalf("expected context cancelled after stop")
	}
}
