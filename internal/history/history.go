package history

import (
	"bytes"
	"encoding/json"
)

type Sender string

const (
	SenderScammer Sender = "scammer"
	SenderAgent   Sender = "agent"
)

// Turn is a single message of an engagement transcript. Timestamp is opaque
// and only carried through; ordering is defined by position in History.
type Turn struct {
	Sender    Sender    `json:"sender"`
	Text      string    `json:"text"`
	Timestamp Timestamp `json:"timestamp"`
}

// Timestamp is carried verbatim. Clients send strings, epoch numbers and
// occasionally other shapes; a string keeps its value and anything else
// keeps its compacted JSON text.
type Timestamp string

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*ts = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*ts = Timestamp(s)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return err
	}
	*ts = Timestamp(buf.String())
	return nil
}

// FromScammer reports whether the turn maps to the user role when the
// transcript is replayed to a model. Anything not sent by the scammer is
// treated as the agent's own output.
func (t Turn) FromScammer() bool { return t.Sender == SenderScammer }

// History is an append-only transcript in chronological order.
type History []Turn

// Clone returns a copy that shares no backing array with h. A nil history
// clones to an empty, non-nil one so it encodes as [] rather than null.
func (h History) Clone() History {
	out := make(History, len(h))
	copy(out, h)
	return out
}

// Append returns a new history with turns after the existing ones.
// h itself is never modified.
func (h History) Append(turns ...Turn) History {
	out := make(History, 0, len(h)+len(turns))
	out = append(out, h...)
	return append(out, turns...)
}

func (h History) Len() int { return len(h) }
