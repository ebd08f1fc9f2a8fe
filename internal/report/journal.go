package report

import (
	"context"
	"log"
	"time"

	"scam-honeypot/internal/storage"
)

// JournalObserver appends every dispatch outcome to the engagement journal.
type JournalObserver struct {
	Recorder storage.Recorder
	Now      func() time.Time
}

func (j JournalObserver) ReportDispatched(_ context.Context, o Outcome) {
	if j.Recorder == nil {
		return
	}
	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	ev := storage.Event{
		Timestamp:        now().UTC(),
		Kind:             storage.KindReportSent,
		SessionID:        o.Report.SessionID,
		TotalMessages:    o.Report.TotalMessagesExchanged,
		ConversationOver: true,
		Artifacts:        o.Report.ExtractedIntelligence.Count(),
		StatusCode:       o.StatusCode,
	}
	switch {
	case o.Skipped:
		ev.Kind = storage.KindReportSkipped
	case o.Err != nil:
		ev.Kind = storage.KindReportFailed
		ev.Error = o.Err.Error()
	}
	if err := j.Recorder.AppendEvent(ev); err != nil {
		log.Printf("report: failed to journal outcome for session %s: %v", o.Report.SessionID, err)
	}
}
