package storage

import "time"

type Kind string

const (
	KindTurn          Kind = "turn"
	KindReportSent    Kind = "report_sent"
	KindReportFailed  Kind = "report_failed"
	KindReportSkipped Kind = "report_skipped"
)

// Event is one entry of the engagement journal: either a completed turn or
// the outcome of a final report. Events are expected to be appended in
// chronological order.
type Event struct {
	Timestamp        time.Time      `json:"timestamp"`
	Kind             Kind           `json:"kind"`
	SessionID        string         `json:"session_id"`
	ScammerMessage   string         `json:"scammer_message,omitempty"`
	AgentReply       string         `json:"agent_reply,omitempty"`
	TotalMessages    int            `json:"total_messages"`
	ConversationOver bool           `json:"conversation_over,omitempty"`
	Artifacts        map[string]int `json:"artifacts,omitempty"`
	StatusCode       int            `json:"status_code,omitempty"`
	Error            string         `json:"error,omitempty"`
}

// Recorder abstracts persistence of journal events.
// Implementations can be file-based, database, etc.
// LoadEvents should return events in chronological order.
// AppendEvent should atomically append a new event.
// Implementations must be safe for concurrent use.
type Recorder interface {
	AppendEvent(event Event) error
	LoadEvents() ([]Event, error)
}
