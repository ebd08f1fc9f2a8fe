package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"

	"scam-honeypot/internal/intel"
)

const DefaultGeminiModel = "gemini-2.5-flash"

// harmCategories are all set to BLOCK_NONE.
var harmCategories = []genai.HarmCategory{
	genai.HarmCategoryHarassment,
	genai.HarmCategoryHateSpeech,
	genai.HarmCategorySexuallyExplicit,
	genai.HarmCategoryDangerousContent,
}

type GeminiClient struct {
	models *genai.Models
	model  string
}

// NewGemini creates a Gemini API client. baseURL overrides the API host
// (without the version segment); empty means the SDK default.
func NewGemini(ctx context.Context, apiKey, baseURL, model string, httpClient *http.Client) (*GeminiClient, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init gemini client: %w", err)
	}
	return &GeminiClient{models: client.Models, model: model}, nil
}

func turnSchema() *genai.Schema {
	categories := make(map[string]*genai.Schema, len(intel.Categories))
	for _, c := range intel.Categories {
		categories[c] = &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"agentResponseText":     {Type: genai.TypeString},
			"isConversationOver":    {Type: genai.TypeBoolean},
			"extractedIntelligence": {Type: genai.TypeObject, Properties: categories},
			"agentNotes":            {Type: genai.TypeString},
		},
		Required: []string{"agentResponseText", "isConversationOver", "extractedIntelligence", "agentNotes"},
	}
}

func geminiConfig(system string) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		Temperature:       genai.Ptr[float32](Temperature),
		TopP:              genai.Ptr[float32](TopP),
		TopK:              genai.Ptr[float32](TopK),
		MaxOutputTokens:   MaxOutputTokens,
		ResponseMIMEType:  "application/json",
		ResponseSchema:    turnSchema(),
	}
	for _, cat := range harmCategories {
		cfg.SafetySettings = append(cfg.SafetySettings, &genai.SafetySetting{
			Category:  cat,
			Threshold: genai.HarmBlockThresholdBlockNone,
		})
	}
	return cfg
}

func geminiContents(messages []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		var role genai.Role = genai.RoleUser
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		out = append(out, genai.NewContentFromText(m.Content, role))
	}
	return out
}

func (c *GeminiClient) Complete(ctx context.Context, system string, messages []Message) (text string, err error) {
	// The SDK dereferences a missing error object when a non-2xx body is
	// JSON without an "error" key.
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", &TransportError{Provider: ProviderGemini, Message: "malformed error response", Err: fmt.Errorf("%v", rec)}
		}
	}()

	resp, err := c.models.GenerateContent(ctx, c.model, geminiContents(messages), geminiConfig(system))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	if len(resp.Candidates) == 0 {
		reason := "no candidates in response"
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			reason += " (blocked: " + string(resp.PromptFeedback.BlockReason) + ")"
		}
		return "", &ProtocolError{Provider: ProviderGemini, Reason: reason}
	}
	text = resp.Text()
	if text == "" {
		finish := ""
		if cand := resp.Candidates[0]; cand != nil {
			finish = string(cand.FinishReason)
		}
		return "", &ProtocolError{Provider: ProviderGemini, Reason: "candidate has no text (finishReason " + finish + ")"}
	}
	return text, nil
}

// classifyGeminiError maps SDK failures onto the gateway error types.
func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &TransportError{Provider: ProviderGemini, StatusCode: apiErr.Code, Message: apiErr.Message, Err: err}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &ProtocolError{Provider: ProviderGemini, Reason: "decoding envelope", Err: err}
	}
	return &TransportError{Provider: ProviderGemini, Err: err}
}
