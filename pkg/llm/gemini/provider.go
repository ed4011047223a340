package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ai-assistant-be/pkg/llm"
)

type GeminiProvider struct {
	ApiKey    string
	ModelName string
	Client    *http.Client
}

// Ensure GeminiProvider implements LLMProvider
var _ llm.LLMProvider = &GeminiProvider{}

func NewGeminiProvider(apiKey, modelName string) *GeminiProvider {
	if modelName == "" {
		modelName = "gemini-2.0-flash"
	}
	return &GeminiProvider{
		ApiKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inline_data,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"system_instruction,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content *geminiContent `json:"content"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

// --- Interface Implementation ---

func (g *GeminiProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.7, // Default
	}
	for _, opt := range opts {
		opt(options)
	}

	// Map generic messages to Gemini contents. Gemini calls the assistant
	// role "model"; system messages move into system_instruction.
	var system *geminiContent
	contents := make([]geminiContent, 0, len(history))
	for _, msg := range history {
		switch msg.Role {
		case "system":
			if system == nil {
				system = &geminiContent{Parts: []geminiPart{{Text: msg.Content}}}
			} else {
				system.Parts = append(system.Parts, geminiPart{Text: msg.Content})
			}
		case "assistant", "model":
			contents = append(contents, geminiContent{
				Role:  "model",
				Parts: []geminiPart{{Text: msg.Content}},
			})
		default:
			contents = append(contents, geminiContent{
				Role:  "user",
				Parts: []geminiPart{{Text: msg.Content}},
			})
		}
	}

	reqPayload := geminiRequest{
		Contents:          contents,
		SystemInstruction: system,
		GenerationConfig: &geminiGenerationConfig{
			Temperature: options.Temperature,
		},
	}
	if options.MaxTokens > 0 {
		reqPayload.GenerationConfig.MaxOutputTokens = options.MaxTokens
	}

	return g.call(ctx, g.resolveModel(options), reqPayload)
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return g.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}

func (g *GeminiProvider) GenerateWithFile(ctx context.Context, prompt string, data []byte, mime string, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.2, // Extraction favors determinism
	}
	for _, opt := range opts {
		opt(options)
	}

	reqPayload := geminiRequest{
		Contents: []geminiContent{
			{
				Role: "user",
				Parts: []geminiPart{
					{
						InlineData: &geminiInlineData{
							MimeType: mime,
							Data:     base64.StdEncoding.EncodeToString(data),
						},
					},
					{Text: prompt},
				},
			},
		},
		GenerationConfig: &geminiGenerationConfig{
			Temperature: options.Temperature,
		},
	}

	return g.call(ctx, g.resolveModel(options), reqPayload)
}

func (g *GeminiProvider) resolveModel(options *llm.Options) string {
	if options.Model != "" {
		return options.Model
	}
	return g.ModelName
}

func (g *GeminiProvider) call(ctx context.Context, model string, payload geminiRequest) (string, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf(
		"https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent",
		model,
	)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-goog-api-key", g.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var geminiRes geminiResponse
	if err := json.Unmarshal(bodyBytes, &geminiRes); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	if len(geminiRes.Candidates) == 0 || geminiRes.Candidates[0].Content == nil || len(geminiRes.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return geminiRes.Candidates[0].Content.Parts[0].Text, nil
}
