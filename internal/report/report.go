package report

import (
	"context"
	"fmt"
	"time"

	"scam-honeypot/internal/intel"
)

// Report is the final evidence for one concluded engagement.
type Report struct {
	SessionID              string          `json:"sessionId"`
	ScamDetected           bool            `json:"scamDetected"`
	TotalMessagesExchanged int             `json:"totalMessagesExchanged"`
	ExtractedIntelligence  intel.Artifacts `json:"extractedIntelligence"`
	AgentNotes             string          `json:"agentNotes"`
}

func New(sessionID string, totalMessages int, rec intel.Record) Report {
	return Report{
		SessionID:              sessionID,
		ScamDetected:           true,
		TotalMessagesExchanged: totalMessages,
		ExtractedIntelligence:  rec.Artifacts.Clone(),
		AgentNotes:             rec.AgentNotes,
	}
}

// DispatchError describes a report that did not reach the evaluation
// endpoint. StatusCode is 0 when no response was received.
type DispatchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DispatchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("report: HTTP %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("report: %v", e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Outcome is what observers learn about one dispatch attempt.
type Outcome struct {
	Report     Report
	StatusCode int
	Err        error
	Skipped    bool
	Duration   time.Duration
}

func (o Outcome) Delivered() bool { return !o.Skipped && o.Err == nil }

// Observer is notified after every dispatch attempt. Implementations must
// not block for long; they run on the turn's path.
type Observer interface {
	ReportDispatched(ctx context.Context, o Outcome)
}

type ObserverFunc func(ctx context.Context, o Outcome)

func (f ObserverFunc) ReportDispatched(ctx context.Context, o Outcome) { f(ctx, o) }

// Observers fans an outcome out to several observers.
type Observers []Observer

func (all Observers) ReportDispatched(ctx context.Context, o Outcome) {
	for _, obs := range all {
		if obs != nil {
			obs.ReportDispatched(ctx, o)
		}
	}
}
