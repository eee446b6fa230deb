// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	openAIAPIBase      = "https://api.openai.com/v1"
	zhipuAPIBase       = "https://open.bigmodel.cn/api/paas/v4"
	defaultOpenAIModel = "gpt-4o-mini"
	defaultZhipuModel  = "glm-4-flash"
)

// ChatBackend speaks the OpenAI chat-completions protocol. Besides OpenAI
// itself it covers every compatible endpoint (Zhipu, DeepSeek, Groq, Kimi)
// through the BaseURL field.
type ChatBackend struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client

	name string
}

// NewOpenAI targets api.openai.com unless baseURL points elsewhere.
func NewOpenAI(apiKey, model, baseURL string) *ChatBackend {
	if model == "" {
		model = defaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = openAIAPIBase
	}
	return &ChatBackend{APIKey: apiKey, Model: model, BaseURL: baseURL, name: "openai"}
}

// NewZhipu targets the Zhipu GLM endpoint, which is OpenAI-compatible.
func NewZhipu(apiKey, model string) *ChatBackend {
	if model == "" {
		model = defaultZhipuModel
	}
	return &ChatBackend{APIKey: apiKey, Model: model, BaseURL: zhipuAPIBase, name: "zhipu"}
}

func (b *ChatBackend) Name() string { return b.name }

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (b *ChatBackend) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:    b.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := strings.TrimSuffix(b.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling %s API: %w", b.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%s API returned %d: %s", b.name, resp.StatusCode, string(body))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding %s response: %w", b.name, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%s API returned no choices", b.name)
	}
	return parsed.Choices[0].Message.Content, nil
}
