package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Morwran/yagpt"
)

// iamTokenLifetime is how long an issued IAM token is reused. Yandex tokens
// live up to 12 hours.
const iamTokenLifetime = time.Hour

type (
	issueTokenFunc func() (string, error)
	completeFunc   func(ctx context.Context, iamToken string, msgs []yagpt.Message) (string, error)
)

// YandexClient has no native response schema, so the JSON contract is
// spelled out in the system message and enforced by ParseTurnResult.
type YandexClient struct {
	issue    issueTokenFunc
	complete completeFunc
	now      func() time.Time

	mu       sync.Mutex
	iamToken string
	issuedAt time.Time
}

func NewYandex(oauthToken, folderID string) (*YandexClient, error) {
	// IAM tokens are exchanged from the OAuth token on demand
	iam, err := yagpt.NewYaIam(oauthToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init yandex iam: %w", err)
	}
	issue := func() (string, error) {
		resp, err := iam.Create()
		if err != nil {
			return "", fmt.Errorf("failed to create iam token: %w", err)
		}
		return resp.IamToken, nil
	}

	// Create YaGPT client for a folder
	ya, err := yagpt.NewYagpt(folderID)
	if err != nil {
		return nil, fmt.Errorf("failed to init yagpt: %w", err)
	}
	complete := func(ctx context.Context, token string, msgs []yagpt.Message) (string, error) {
		resp, err := ya.CompletionWithCtx(ctx, token, msgs)
		if err != nil {
			return "", err
		}
		if resp == nil || len(resp.Alternatives) == 0 {
			return "", errEmptyYandexResponse
		}
		return resp.Alternatives[0].Message.Content, nil
	}

	c := newYandexClient(issue, complete, time.Now)
	if _, err := c.token(false); err != nil {
		return nil, err
	}
	return c, nil
}

func newYandexClient(issue issueTokenFunc, complete completeFunc, now func() time.Time) *YandexClient {
	return &YandexClient{issue: issue, complete: complete, now: now}
}

var errEmptyYandexResponse = errors.New("yagpt returned empty response")

// token returns a valid IAM token, issuing a new one when the cached token
// is older than iamTokenLifetime or force is set.
func (c *YandexClient) token(force bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !force && c.iamToken != "" && c.now().Sub(c.issuedAt) < iamTokenLifetime {
		return c.iamToken, nil
	}
	tok, err := c.issue()
	if err != nil {
		return "", err
	}
	c.iamToken, c.issuedAt = tok, c.now()
	return tok, nil
}

func yandexMessages(system string, messages []Message) []yagpt.Message {
	out := make([]yagpt.Message, 0, len(messages)+1)
	out = append(out, yagpt.Message{Role: "system", Content: system + jsonInstruction()})
	for _, m := range messages {
		role := "user"
		if m.Role == RoleModel {
			role = "assistant"
		}
		out = append(out, yagpt.Message{Role: role, Content: m.Content})
	}
	return out
}

// Complete retries once with a fresh IAM token when the API rejects the
// current one.
func (c *YandexClient) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	msgs := yandexMessages(system, messages)

	tok, err := c.token(false)
	if err != nil {
		return "", &TransportError{Provider: ProviderYandex, Message: "iam token", Err: err}
	}
	text, err := c.complete(ctx, tok, msgs)
	if err != nil && isYandexAuthError(err) && ctx.Err() == nil {
		if tok, err = c.token(true); err != nil {
			return "", &TransportError{Provider: ProviderYandex, Message: "iam token", Err: err}
		}
		text, err = c.complete(ctx, tok, msgs)
	}
	if errors.Is(err, errEmptyYandexResponse) {
		return "", &ProtocolError{Provider: ProviderYandex, Reason: err.Error()}
	}
	if err != nil {
		return "", &TransportError{Provider: ProviderYandex, Err: err}
	}
	return text, nil
}

// isYandexAuthError recognises an expired or revoked IAM token from the
// error text.
func isYandexAuthError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "401") || strings.Contains(msg, "unauthorized") || strings.Contains(msg, "unauthenticated")
}
