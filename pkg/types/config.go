package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-curator/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FetchConfig holds settings for the fetch stage.
type FetchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Categories are the arXiv categories to pull from (default
	// cs.CV, cs.LG, cs.AI, eess.IV).
	Categories []string `json:"categories" yaml:"categories"`

	// MaxResults is the maximum number of candidates to fetch (default 50).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// LookbackDays is the submission-date window; papers older than this
	// many days are dropped (default 1).
	LookbackDays int `json:"lookback_days" yaml:"lookback_days"`

	// PendingDir is the directory for pipeline hand-off files
	// (candidates.json, filtered.json, summarized.json).
	PendingDir string `json:"pending_dir" yaml:"pending_dir"`
}

// FilterConfig holds settings for the score-and-rank stage.
type FilterConfig struct {
	// TopN is the size of the selected shortlist (default 10).
	TopN int `json:"top_n" yaml:"top_n"`
}

// AIConfig holds shared settings for stages that call a generative AI API.
type AIConfig struct {
	// Provider selects the backend: auto, gemini, zhipu, openai, claude,
	// or ollama. "auto" tries the preference order and keeps the first
	// that initializes.
	Provider string `json:"provider" yaml:"provider"`

	// Model is the model identifier. Empty uses each backend's default.
	Model string `json:"model,omitempty" yaml:"model,omitempty"`

	// BaseURL overrides the API endpoint for OpenAI-compatible backends
	// (DeepSeek, Groq, Kimi) and for Ollama.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// MaxRetries is the number of attempts for failed API calls (default 3,
	// linear backoff).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// SummaryConfig holds settings for the summarize stage.
type SummaryConfig struct {
	AIConfig `yaml:",inline"`

	// RequestDelay is the pause between consecutive papers (default 500ms).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`
}

// IndexConfig holds settings for the embedding index.
type IndexConfig struct {
	// DBPath is the SQLite database file (default "data/vectordb/papers.db").
	DBPath string `json:"db_path" yaml:"db_path"`

	// EmbeddingProvider selects the embedder: ollama, openai, or hashing.
	EmbeddingProvider string `json:"embedding_provider" yaml:"embedding_provider"`

	// EmbeddingModel is the embedding model identifier. The index refuses
	// to mix chunks embedded by different models.
	EmbeddingModel string `json:"embedding_model,omitempty" yaml:"embedding_model,omitempty"`

	// EmbeddingBaseURL overrides the embedding API endpoint.
	EmbeddingBaseURL string `json:"embedding_base_url,omitempty" yaml:"embedding_base_url,omitempty"`
}

// QAConfig holds settings for the question-answer stage.
type QAConfig struct {
	AIConfig `yaml:",inline"`

	// ContextSize is the number of retrieved chunks used as context
	// (default 3).
	ContextSize int `json:"context_size" yaml:"context_size"`
}

// CitationsConfig holds settings for the citation tracker.
type CitationsConfig struct {
	HTTPConfig `yaml:",inline"`

	// APIKey is an optional Semantic Scholar key for higher rate limits.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// RequestDelay is the minimum interval between API calls (default 1s).
	RequestDelay time.Duration `json:"request_delay" yaml:"request_delay"`

	// RecheckDays skips papers checked within this many days unless
	// forced (default 7).
	RecheckDays int `json:"recheck_days" yaml:"recheck_days"`
}

// CollectionConfig holds settings for the persisted collection document.
type CollectionConfig struct {
	// Path is the collection YAML file (default "data/papers/papers.yaml").
	Path string `json:"path" yaml:"path"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Fetch      FetchConfig      `json:"fetch" yaml:"fetch"`
	Filter     FilterConfig     `json:"filter" yaml:"filter"`
	Summary    SummaryConfig    `json:"summary" yaml:"summary"`
	Index      IndexConfig      `json:"index" yaml:"index"`
	QA         QAConfig         `json:"qa" yaml:"qa"`
	Citations  CitationsConfig  `json:"citations" yaml:"citations"`
	Collection CollectionConfig `json:"collection" yaml:"collection"`
}
