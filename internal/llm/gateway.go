package llm

import (
	"context"
	"errors"
	"time"

	"scam-honeypot/internal/history"
)

const DefaultTimeout = 9 * time.Second

// TurnGateway drives a Client for one conversation turn: it assembles the
// request, bounds it in time and validates the structured reply.
type TurnGateway struct {
	client   Client
	provider string
	system   string
	timeout  time.Duration
}

// NewGateway wraps client. provider names the backend in errors; a zero
// timeout uses DefaultTimeout.
func NewGateway(client Client, provider string, timeout time.Duration) *TurnGateway {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &TurnGateway{client: client, provider: provider, system: SystemPrompt, timeout: timeout}
}

func (g *TurnGateway) GenerateTurn(ctx context.Context, h history.History, incoming history.Turn) (TurnResult, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.client.Complete(ctx, g.system, BuildMessages(h, incoming))
	if err != nil {
		return TurnResult{}, g.classify(ctx, err)
	}
	return ParseTurnResult(g.provider, text)
}

// classify makes sure every failure leaving the gateway is one of the two
// typed errors. Deadline expiry is always a transport failure.
func (g *TurnGateway) classify(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		var te *TransportError
		if errors.As(err, &te) && te.StatusCode > 0 {
			return err
		}
		return &TransportError{Provider: g.provider, Message: "timed out after " + g.timeout.String(), Err: err}
	}
	var te *TransportError
	var pe *ProtocolError
	if errors.As(err, &te) || errors.As(err, &pe) {
		return err
	}
	return &TransportError{Provider: g.provider, Err: err}
}
