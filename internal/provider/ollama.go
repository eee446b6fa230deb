// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

const defaultOllamaModel = "llama3.2"

// Ollama generates through a local Ollama server. The only backend that
// needs no API key, which makes it the terminal fallback in auto selection.
type Ollama struct {
	llm   *ollama.LLM
	model string
}

// NewOllama connects to the Ollama server at serverURL (empty uses the
// client default, http://localhost:11434).
func NewOllama(model, serverURL string) (*Ollama, error) {
	if model == "" {
		model = defaultOllamaModel
	}
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing ollama provider: %w", err)
	}
	return &Ollama{llm: llm, model: model}, nil
}

func (o *Ollama) Name() string { return "ollama" }

func (o *Ollama) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, o.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("ollama generation: %w", err)
	}
	return out, nil
}
