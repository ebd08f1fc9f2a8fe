package llm

import (
	"context"

	"scam-honeypot/internal/history"
	"scam-honeypot/internal/intel"
)

const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Message is one transcript entry in provider-neutral form. Providers map
// RoleModel to their own name for the assistant side.
type Message struct {
	Role    string
	Content string
}

// Client sends a system instruction and a transcript to a model and returns
// the raw structured text the model produced, with the transport envelope
// already removed. Errors are *TransportError or *ProtocolError.
type Client interface {
	Complete(ctx context.Context, system string, messages []Message) (string, error)
}

// TurnResult is what the model decided for one turn. ExtractedIntelligence
// holds only what was found in this turn.
type TurnResult struct {
	AgentResponseText     string
	IsConversationOver    bool
	ExtractedIntelligence intel.Artifacts
	AgentNotes            string
}

// Gateway produces the agent's next move for a conversation.
type Gateway interface {
	GenerateTurn(ctx context.Context, h history.History, incoming history.Turn) (TurnResult, error)
}

// BuildMessages replays the transcript with scammer turns as the user role
// and everything else as the model role, then appends the incoming message
// as the final user entry.
func BuildMessages(h history.History, incoming history.Turn) []Message {
	out := make([]Message, 0, len(h)+1)
	for _, t := range h {
		role := RoleModel
		if t.FromScammer() {
			role = RoleUser
		}
		out = append(out, Message{Role: role, Content: t.Text})
	}
	return append(out, Message{Role: RoleUser, Content: incoming.Text})
}
