package llm

import (
	"encoding/json"
	"strings"

	"scam-honeypot/internal/intel"
)

// wireTurnResult uses pointers so that absent and null fields can be told
// apart from zero values.
type wireTurnResult struct {
	AgentResponseText     *string          `json:"agentResponseText"`
	IsConversationOver    *bool            `json:"isConversationOver"`
	ExtractedIntelligence *intel.Artifacts `json:"extractedIntelligence"`
	AgentNotes            *string          `json:"agentNotes"`
}

// ParseTurnResult decodes the structured text embedded in a provider
// envelope and checks that every required field is present.
func ParseTurnResult(provider, text string) (TurnResult, error) {
	payload := stripCodeFence(text)
	if payload == "" {
		return TurnResult{}, &ProtocolError{Provider: provider, Reason: "empty model output"}
	}

	var w wireTurnResult
	if err := json.Unmarshal([]byte(payload), &w); err != nil {
		return TurnResult{}, &ProtocolError{Provider: provider, Reason: "decoding model output", Err: err}
	}

	var missing []string
	if w.AgentResponseText == nil {
		missing = append(missing, "agentResponseText")
	}
	if w.IsConversationOver == nil {
		missing = append(missing, "isConversationOver")
	}
	if w.ExtractedIntelligence == nil {
		missing = append(missing, "extractedIntelligence")
	}
	if w.AgentNotes == nil {
		missing = append(missing, "agentNotes")
	}
	if len(missing) > 0 {
		return TurnResult{}, &ProtocolError{
			Provider: provider,
			Reason:   "missing required fields: " + strings.Join(missing, ", "),
		}
	}

	return TurnResult{
		AgentResponseText:     *w.AgentResponseText,
		IsConversationOver:    *w.IsConversationOver,
		ExtractedIntelligence: w.ExtractedIntelligence.Clone(),
		AgentNotes:            *w.AgentNotes,
	}, nil
}

// stripCodeFence removes a surrounding ``` or ```json fence some models add
// even when asked for bare JSON.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = ""
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
