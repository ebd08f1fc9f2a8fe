package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"scam-honeypot/internal/intel"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIClient talks to any OpenAI-compatible chat completions API
// (OpenAI, OpenRouter, Gemini's compatibility endpoint).
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type headerTransport struct {
	rt      http.RoundTripper
	headers http.Header
}

func (t headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone request to avoid mutating the original
	cl := req.Clone(req.Context())
	for k, vs := range t.headers {
		for _, v := range vs {
			cl.Header.Add(k, v)
		}
	}
	return t.rt.RoundTrip(cl)
}

func NewOpenAI(apiKey, baseURL, model, referrer, title string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = DefaultOpenAIModel
	}
	// Inject optional headers (useful for OpenRouter)
	if referrer != "" || title != "" {
		h := http.Header{}
		if referrer != "" {
			h.Set("HTTP-Referer", referrer)
		}
		if title != "" {
			h.Set("X-Title", title)
		}
		config.HTTPClient = &http.Client{Transport: headerTransport{rt: http.DefaultTransport, headers: h}}
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// turnDefinition is the strict JSON schema for a turn result. Strict mode
// requires every property listed as required and no extra properties.
func turnDefinition() *jsonschema.Definition {
	categories := make(map[string]jsonschema.Definition, len(intel.Categories))
	for _, c := range intel.Categories {
		categories[c] = jsonschema.Definition{Type: jsonschema.Array, Items: &jsonschema.Definition{Type: jsonschema.String}}
	}
	return &jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"agentResponseText":  {Type: jsonschema.String},
			"isConversationOver": {Type: jsonschema.Boolean},
			"extractedIntelligence": {
				Type:                 jsonschema.Object,
				Properties:           categories,
				Required:             append([]string(nil), intel.Categories...),
				AdditionalProperties: false,
			},
			"agentNotes": {Type: jsonschema.String},
		},
		Required:             []string{"agentResponseText", "isConversationOver", "extractedIntelligence", "agentNotes"},
		AdditionalProperties: false,
	}
}

func (c *OpenAIClient) buildRequest(system string, messages []Message) openai.ChatCompletionRequest {
	oaMsgs := []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleSystem, Content: system}}
	for _, m := range messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		oaMsgs = append(oaMsgs, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    oaMsgs,
		Temperature: Temperature,
		TopP:        TopP,
		MaxTokens:   MaxOutputTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "honeypot_turn",
				Schema: turnDefinition(),
				Strict: true,
			},
		},
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, system string, messages []Message) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, c.buildRequest(system, messages))
	if err != nil {
		return "", classifyOpenAIError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &ProtocolError{Provider: ProviderOpenAI, Reason: "no choices in response"}
	}
	msg := resp.Choices[0].Message
	if msg.Refusal != "" {
		return "", &ProtocolError{Provider: ProviderOpenAI, Reason: "model refused: " + msg.Refusal}
	}
	return msg.Content, nil
}

// classifyOpenAIError separates HTTP-level failures from envelopes the
// library could not decode.
func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &TransportError{Provider: ProviderOpenAI, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &TransportError{Provider: ProviderOpenAI, StatusCode: reqErr.HTTPStatusCode, Message: string(reqErr.Body), Err: err}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &ProtocolError{Provider: ProviderOpenAI, Reason: "decoding envelope", Err: err}
	}
	return &TransportError{Provider: ProviderOpenAI, Err: err}
}
