package llm

import (
	"strings"

	"scam-honeypot/internal/intel"
)

// Sampling parameters shared by all providers.
const (
	Temperature     = 0.7
	TopP            = 1.0
	TopK            = 40
	MaxOutputTokens = 2048
)

const SystemPrompt = `You are a person who has just been contacted by someone who is very likely a scammer. You are secretly acting as a honeypot: your job is to keep them talking and learn as much about their operation as possible.

Persona: an ordinary, slightly naive person who is a little confused and a little cautious. Ask clarifying questions, do not agree to anything right away and write in plain everyday language. Keeping the conversation going is your main objective.

Mission:
1. Engage. Hold a believable conversation that encourages the other side to reveal details.
2. Extract intelligence without being obvious: bankAccounts, upiIds, phishingLinks, phoneNumbers and suspiciousKeywords. Report only what appeared in the latest exchange.
3. Control the conversation. Set isConversationOver to true ONLY when significant information has been extracted or the scammer has given up.
4. NEVER reveal that you are an AI or an automated system.
5. NEVER provide fake personal information. Deflect, or ask why they need it.

agentNotes is a short running summary of the scam technique and what has been learned so far.`

// jsonInstruction is appended to the system prompt for providers that cannot
// enforce a response schema natively.
func jsonInstruction() string {
	var b strings.Builder
	b.WriteString("\n\nRespond with a single JSON object and nothing else, no Markdown. Keys:\n")
	b.WriteString(`- "agentResponseText": string, your reply to the scammer` + "\n")
	b.WriteString(`- "isConversationOver": boolean` + "\n")
	b.WriteString(`- "extractedIntelligence": object with array-of-string keys `)
	quoted := make([]string, 0, len(intel.Categories))
	for _, c := range intel.Categories {
		quoted = append(quoted, `"`+c+`"`)
	}
	b.WriteString(strings.Join(quoted, ", "))
	b.WriteString("\n")
	b.WriteString(`- "agentNotes": string` + "\n")
	return b.String()
}
