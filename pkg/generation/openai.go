package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	DefaultOpenAIURL   = "https://api.mistral.ai/v1"
	DefaultOpenAIModel = "mistral-medium-latest"
)

// openAIClient speaks the OpenAI chat completions dialect, which Mistral
// and most hosted models also accept.
type openAIClient struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	httpClient  *http.Client
}

func newOpenAIClient(apiKey, model, baseURL string, temperature float64, httpClient *http.Client) *openAIClient {
	if strings.TrimSpace(model) == "" {
		model = DefaultOpenAIModel
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultOpenAIURL
	}
	return &openAIClient{
		apiKey:      apiKey,
		model:       model,
		baseURL:     strings.TrimRight(baseURL, "/"),
		temperature: temperature,
		httpClient:  httpClient,
	}
}

func (c *openAIClient) complete(ctx context.Context, req ObjectRequest) (string, error) {
	temperature := c.temperature
	if req.Temperature > 0 {
		temperature = req.Temperature
	}

	messages := make([]map[string]string, 0, 2)
	if req.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": req.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": req.Prompt})

	payload := map[string]any{
		"model":       c.model,
		"temperature": temperature,
		"messages":    messages,
	}
	if req.Schema != nil {
		name := req.Name
		if name == "" {
			name = "response"
		}
		payload["response_format"] = map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   name,
				"schema": map[string]any(req.Schema),
			},
		}
	} else {
		payload["response_format"] = map[string]any{"type": "json_object"}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("llm: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("llm: build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("llm: call api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("llm: api returned status %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var responseData struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&responseData); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	if len(responseData.Choices) == 0 {
		return "", errors.New("llm: api returned no choices")
	}

	content := strings.TrimSpace(responseData.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
