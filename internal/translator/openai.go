package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lingo-hub/internal/types"

	"github.com/tidwall/gjson"
)

// OpenAIClient talks to any OpenAI-compatible chat-completions endpoint.
type OpenAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewOpenAIClient builds a client from the translator configuration.
func NewOpenAIClient(configManager types.ConfigManager) *OpenAIClient {
	cfg := configManager.GetTranslatorConfig()
	return &OpenAIClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
}

// Translate translates one text into one target language.
func (c *OpenAIClient) Translate(ctx context.Context, req Request) (string, error) {
	system := buildSystemPrompt(req.Instructions)
	user := fmt.Sprintf("Translate the following text from %s to %s. Reply with the translation only, no quotes and no explanations.\n\n%s",
		req.SourceLang, req.TargetLang, req.Text)

	content, err := c.complete(ctx, system, user, false)
	if err != nil {
		return "", err
	}

	translated := strings.TrimSpace(content)
	if translated == "" {
		return "", fmt.Errorf("model returned an empty translation for %s", req.TargetLang)
	}
	return translated, nil
}

// TranslateBatch translates one text into several target languages in one
// model call, using JSON-object structured output.
func (c *OpenAIClient) TranslateBatch(ctx context.Context, req BatchRequest) (map[string]string, error) {
	system := buildSystemPrompt(req.Instructions)
	user := fmt.Sprintf("Translate the following text from %s into each of these target languages: %s.\n"+
		"Respond with a single JSON object mapping each target language code to its translation, for example {\"fr\": \"...\", \"de\": \"...\"}.\n\n%s",
		req.SourceLang, strings.Join(req.TargetLangs, ", "), req.Text)

	content, err := c.complete(ctx, system, user, true)
	if err != nil {
		return nil, err
	}

	parsed := gjson.Parse(stripCodeFences(content))
	if !parsed.IsObject() {
		return nil, fmt.Errorf("model response is not a JSON object: %s", truncateForError(content))
	}

	result := make(map[string]string, len(req.TargetLangs))
	parsed.ForEach(func(key, value gjson.Result) bool {
		if text := strings.TrimSpace(value.String()); text != "" {
			result[key.String()] = text
		}
		return true
	})
	if len(result) == 0 {
		return nil, fmt.Errorf("model returned no translations")
	}
	return result, nil
}

// complete issues one chat-completions call and returns the message content.
func (c *OpenAIClient) complete(ctx context.Context, system, user string, jsonOutput bool) (string, error) {
	payload := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: 0.2,
	}
	if jsonOutput {
		payload.ResponseFormat = &struct {
			Type string `json:"type"`
		}{Type: "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create chat request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("translation request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read translation response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := gjson.GetBytes(respBody, "error.message").String()
		if message == "" {
			message = truncateForError(string(respBody))
		}
		return "", fmt.Errorf("[status %d] %s", resp.StatusCode, message)
	}

	content := gjson.GetBytes(respBody, "choices.0.message.content").String()
	if content == "" {
		return "", fmt.Errorf("translation response contains no content")
	}
	return content, nil
}

func buildSystemPrompt(instructions string) string {
	prompt := "You are a professional software localization translator. " +
		"Preserve placeholders such as {name}, %s, and {{count}} exactly as written. " +
		"Match the tone and length of the source text."
	if instructions != "" {
		prompt += "\n\nAdditional style instructions: " + instructions
	}
	return prompt
}

// stripCodeFences removes a surrounding markdown code fence, which some
// models emit even when asked for bare JSON.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncateForError(s string) string {
	const max = 200
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
