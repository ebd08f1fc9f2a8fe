package llm

import "fmt"

// TransportError means the model could not be reached or answered with a
// non-success status. StatusCode is 0 when no response was received.
type TransportError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode > 0 && e.Message != "":
		return fmt.Sprintf("llm/%s: HTTP %d: %s", e.Provider, e.StatusCode, e.Message)
	case e.StatusCode > 0:
		return fmt.Sprintf("llm/%s: HTTP %d", e.Provider, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("llm/%s: transport: %v", e.Provider, e.Err)
	default:
		return fmt.Sprintf("llm/%s: transport: %s", e.Provider, e.Message)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError means the model answered but the answer did not satisfy the
// turn contract: unreadable envelope, unreadable payload or missing fields.
type ProtocolError struct {
	Provider string
	Reason   string
	Err      error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm/%s: %s: %v", e.Provider, e.Reason, e.Err)
	}
	return fmt.Sprintf("llm/%s: %s", e.Provider, e.Reason)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
