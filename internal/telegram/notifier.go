package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"scam-honeypot/internal/intel"
	"scam-honeypot/internal/report"
)

// maxMessageLen is Telegram's limit for a single text message.
const maxMessageLen = 4096

// sender is the part of the Bot API the notifier uses.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier posts operator alerts to a single admin chat. Sends run in the
// background so a slow Telegram API never holds up a turn.
type Notifier struct {
	s      sender
	chatID int64
	wg     sync.WaitGroup
}

func New(botToken string, chatID int64) (*Notifier, error) {
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)
	return &Notifier{s: api, chatID: chatID}, nil
}

// ReportDispatched alerts the operator that an engagement concluded.
func (n *Notifier) ReportDispatched(_ context.Context, o report.Outcome) {
	text := formatOutcome(o)
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.send(text)
	}()
}

// SendText sends text synchronously, splitting it to fit Telegram's limit.
func (n *Notifier) SendText(text string) error {
	for _, chunk := range splitMessage(text, maxMessageLen) {
		if _, err := n.s.Send(tgbotapi.NewMessage(n.chatID, chunk)); err != nil {
			return fmt.Errorf("telegram send: %w", err)
		}
	}
	return nil
}

// Wait blocks until background alerts have been sent.
func (n *Notifier) Wait() { n.wg.Wait() }

func (n *Notifier) send(text string) {
	if err := n.SendText(text); err != nil {
		log.Printf("failed to send telegram alert: %v", err)
	}
}

func formatOutcome(o report.Outcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎣 Engagement concluded: %s\n", o.Report.SessionID)
	fmt.Fprintf(&b, "Messages exchanged: %d\n", o.Report.TotalMessagesExchanged)

	counts := o.Report.ExtractedIntelligence.Count()
	for _, c := range intel.Categories {
		if counts[c] == 0 {
			continue
		}
		fmt.Fprintf(&b, "• %s: %s\n", c, strings.Join(o.Report.ExtractedIntelligence.Get(c), ", "))
	}
	if o.Report.ExtractedIntelligence.Total() == 0 {
		b.WriteString("No artifacts extracted\n")
	}
	if o.Report.AgentNotes != "" {
		fmt.Fprintf(&b, "Notes: %s\n", o.Report.AgentNotes)
	}

	switch {
	case o.Skipped:
		b.WriteString("Report: not sent (no endpoint configured)")
	case o.Err != nil:
		fmt.Fprintf(&b, "Report: FAILED (%v)", o.Err)
	default:
		fmt.Fprintf(&b, "Report: delivered (HTTP %d, %s)", o.StatusCode, o.Duration.Round(time.Millisecond))
	}
	return b.String()
}

// splitMessage cuts text into pieces of at most limit bytes, preferring
// line boundaries.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var parts []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
			for cut > 0 && !isRuneStart(text[cut]) {
				cut--
			}
		}
		parts = append(parts, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	if text != "" {
		parts = append(parts, text)
	}
	return parts
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
