// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider abstracts the generative AI backends used by the
// summarize and ask stages. Each backend speaks its native HTTP protocol;
// Select picks one from configuration and available credentials.
package provider

import (
	"context"
	"fmt"

	"github.com/mzhao/paper-curator/pkg/types"
)

// Provider generates text from a prompt.
type Provider interface {
	// Name identifies the backend (gemini, zhipu, openai, claude, ollama).
	Name() string

	// Generate returns the model's completion for prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// Keys holds the API credentials loaded from the secrets directory or
// environment. Empty fields mean the corresponding backend is unavailable.
type Keys struct {
	Gemini    string
	Zhipu     string
	OpenAI    string
	Anthropic string
}

// preference is the auto-selection order: free-tier backends first, local
// Ollama as the final fallback since it needs no key at all.
var preference = []string{"gemini", "zhipu", "openai", "claude", "ollama"}

// Select builds the provider named by cfg.Provider, or walks the
// preference order when it is "auto" or empty, returning the first backend
// whose credentials are present. Ollama always qualifies, so auto
// selection only fails when construction itself does.
func Select(cfg types.AIConfig, keys Keys) (Provider, error) {
	name := cfg.Provider
	if name == "" || name == "auto" {
		for _, candidate := range preference {
			if !available(candidate, keys) {
				continue
			}
			return build(candidate, cfg, keys)
		}
		return nil, fmt.Errorf("no AI provider available")
	}
	if !available(name, keys) {
		return nil, fmt.Errorf("provider %s selected but no API key configured", name)
	}
	return build(name, cfg, keys)
}

func available(name string, keys Keys) bool {
	switch name {
	case "gemini":
		return keys.Gemini != ""
	case "zhipu":
		return keys.Zhipu != ""
	case "openai":
		return keys.OpenAI != ""
	case "claude":
		return keys.Anthropic != ""
	case "ollama":
		return true
	default:
		return false
	}
}

func build(name string, cfg types.AIConfig, keys Keys) (Provider, error) {
	switch name {
	case "gemini":
		return NewGemini(keys.Gemini, cfg.Model), nil
	case "zhipu":
		return NewZhipu(keys.Zhipu, cfg.Model), nil
	case "openai":
		return NewOpenAI(keys.OpenAI, cfg.Model, cfg.BaseURL), nil
	case "claude":
		return NewClaude(keys.Anthropic, cfg.Model), nil
	case "ollama":
		return NewOllama(cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown provider %q", name)
	}
}
