// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mzhao/paper-curator/pkg/types"
)

func TestSelectPreferenceOrder(t *testing.T) {
	tests := []struct {
		name string
		keys Keys
		want string
	}{
		{"gemini first", Keys{Gemini: "g", Zhipu: "z", OpenAI: "o", Anthropic: "a"}, "gemini"},
		{"zhipu when no gemini", Keys{Zhipu: "z", OpenAI: "o"}, "zhipu"},
		{"openai when no free tier", Keys{OpenAI: "o", Anthropic: "a"}, "openai"},
		{"claude before ollama", Keys{Anthropic: "a"}, "claude"},
		{"ollama with no keys at all", Keys{}, "ollama"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Select(types.AIConfig{Provider: "auto"}, tt.keys)
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if p.Name() != tt.want {
				t.Errorf("selected %s, want %s", p.Name(), tt.want)
			}
		})
	}
}

func TestSelectExplicitProviderNeedsKey(t *testing.T) {
	_, err := Select(types.AIConfig{Provider: "gemini"}, Keys{})
	if err == nil {
		t.Fatal("expected error for gemini without key")
	}
	if !strings.Contains(err.Error(), "no API key") {
		t.Errorf("err = %v", err)
	}
}

func TestSelectUnknownProvider(t *testing.T) {
	_, err := Select(types.AIConfig{Provider: "bard"}, Keys{})
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestGeminiGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.0-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Errorf("missing API key in query")
		}
		var req geminiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatal(err)
		}
		if req.Contents[0].Parts[0].Text != "hello" {
			t.Errorf("prompt = %q", req.Contents[0].Parts[0].Text)
		}
		json.NewEncoder(w).Encode(geminiResponse{
			Candidates: []struct {
				Content geminiContent `json:"content"`
			}{{Content: geminiContent{Parts: []geminiPart{{Text: "world"}}}}},
		})
	}))
	defer srv.Close()

	oldBase := geminiAPIBase
	geminiAPIBase = srv.URL
	defer func() { geminiAPIBase = oldBase }()

	g := NewGemini("test-key", "")
	out, err := g.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "world" {
		t.Errorf("out = %q", out)
	}
}

func TestChatBackendGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("auth header = %q", got)
		}
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "glm-4-flash" {
			t.Errorf("model = %q", req.Model)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "answer"}},
			},
		})
	}))
	defer srv.Close()

	b := NewZhipu("test-key", "")
	b.BaseURL = srv.URL
	out, err := b.Generate(context.Background(), "question")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "answer" {
		t.Errorf("out = %q", out)
	}
}

func TestChatBackendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	b := NewOpenAI("k", "", srv.URL)
	_, err := b.Generate(context.Background(), "q")
	if err == nil {
		t.Fatal("expected error on 429")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("err = %v", err)
	}
}

func TestClaudeGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "test-key" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got == "" {
			t.Error("missing anthropic-version header")
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": "claude says"},
			},
		})
	}))
	defer srv.Close()

	oldBase := claudeAPIBase
	claudeAPIBase = srv.URL
	defer func() { claudeAPIBase = oldBase }()

	c := NewClaude("test-key", "")
	out, err := c.Generate(context.Background(), "q")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "claude says" {
		t.Errorf("out = %q", out)
	}
}
