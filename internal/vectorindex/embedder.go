// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vectorindex maintains the semantic search index: paper chunks,
// their embeddings, and similarity queries over them. Embeddings live in a
// SQLite database; similarity is brute-force cosine over the stored
// vectors, which is plenty for a personal collection of a few thousand
// chunks.
package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"net/http"
	"strings"

	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/mzhao/paper-curator/pkg/types"
)

// Embedder turns texts into dense vectors. All texts in one call are
// embedded by the same model; ModelID identifies it so the index can
// refuse to mix vectors from different models.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	ModelID() string
}

const (
	defaultOllamaModel  = "nomic-embed-text"
	defaultOpenAIModel  = "text-embedding-3-small"
	defaultOpenAIAPIURL = "https://api.openai.com/v1"
)

// NewEmbedder builds the embedder selected by cfg.EmbeddingProvider:
// ollama (default), openai (any OpenAI-compatible endpoint), or hashing
// (deterministic, offline, for tests and degraded operation).
func NewEmbedder(cfg types.IndexConfig, apiKey string) (Embedder, error) {
	switch cfg.EmbeddingProvider {
	case "", "ollama":
		return NewOllamaEmbedder(cfg.EmbeddingModel, cfg.EmbeddingBaseURL)
	case "openai":
		return NewHTTPEmbedder(cfg.EmbeddingModel, cfg.EmbeddingBaseURL, apiKey), nil
	case "hashing":
		return HashingEmbedder{}, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q (want ollama, openai, or hashing)", cfg.EmbeddingProvider)
	}
}

// OllamaEmbedder embeds via a local Ollama server.
type OllamaEmbedder struct {
	llm   *ollama.LLM
	model string
}

// NewOllamaEmbedder connects to the Ollama server at serverURL (empty
// uses the client default, http://localhost:11434).
func NewOllamaEmbedder(model, serverURL string) (*OllamaEmbedder, error) {
	if model == "" {
		model = defaultOllamaModel
	}
	opts := []ollama.Option{ollama.WithModel(model)}
	if serverURL != "" {
		opts = append(opts, ollama.WithServerURL(serverURL))
	}
	llm, err := ollama.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("initializing ollama embedder: %w", err)
	}
	return &OllamaEmbedder{llm: llm, model: model}, nil
}

func (e *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vecs, err := e.llm.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("ollama embedding: %w", err)
	}
	return vecs, nil
}

func (e *OllamaEmbedder) ModelID() string { return "ollama/" + e.model }

// HTTPEmbedder calls an OpenAI-compatible /embeddings endpoint.
type HTTPEmbedder struct {
	Client  *http.Client
	baseURL string
	model   string
	apiKey  string
}

// NewHTTPEmbedder targets baseURL (default api.openai.com/v1). Any
// endpoint speaking the OpenAI embeddings protocol works.
func NewHTTPEmbedder(model, baseURL, apiKey string) *HTTPEmbedder {
	if model == "" {
		model = defaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = defaultOpenAIAPIURL
	}
	return &HTTPEmbedder{
		Client:  http.DefaultClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		apiKey:  apiKey,
	}
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

func (e *HTTPEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("encoding embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("embedding API returned %s", resp.Status)
	}

	var parsed embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding embedding response: %w", err)
	}
	if len(parsed.Data) != len(texts) {
		return nil, fmt.Errorf("embedding API returned %d vectors for %d inputs", len(parsed.Data), len(texts))
	}

	vecs := make([][]float32, len(texts))
	for _, d := range parsed.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, fmt.Errorf("embedding API returned out-of-range index %d", d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}

func (e *HTTPEmbedder) ModelID() string { return "openai/" + e.model }

const hashingDim = 256

// HashingEmbedder is a deterministic offline embedder: tokens are hashed
// into a fixed-size bag-of-words vector, L2 normalized. Useless for
// semantic nuance, but stable, dependency-free, and good enough to keep
// search working when no embedding backend is reachable.
type HashingEmbedder struct{}

func (HashingEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vecs[i] = hashVector(text)
	}
	return vecs, nil
}

func (HashingEmbedder) ModelID() string { return "hashing/v1" }

func hashVector(text string) []float32 {
	vec := make([]float32, hashingDim)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?()[]{}\"'")
		if tok == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[h.Sum32()%hashingDim]++
	}
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec
}
