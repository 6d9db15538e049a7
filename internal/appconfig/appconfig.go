// Package appconfig manages loading and interpreting application
// configuration.
package appconfig

import (
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's
	// configuration file.
	DefaultConfigPath = "config/config.yaml"

	defaultIdleTimeoutSeconds  = 600
	defaultIdleCheckSeconds    = 30
	defaultLoadTimeoutSeconds  = 120
	defaultInferTimeoutSeconds = 300
	defaultTopK                = 5
	defaultDeepTopK            = 10
	defaultMinRelevance        = 0.4
	defaultVectorWeight        = 1.0
	defaultLexicalWeight       = 0.25
	defaultMaxTokens           = 768
)

// Config represents the top-level application configuration.
type Config struct {
	Debug   bool   `mapstructure:"debug"`
	LogFile string `mapstructure:"logFile"`

	Runtime    RuntimeConfig    `mapstructure:"runtime"`
	Embedding  EmbeddingConfig  `mapstructure:"embedding"`
	Index      IndexConfig      `mapstructure:"index"`
	Retrieval  RetrievalConfig  `mapstructure:"retrieval"`
	Generation GenerationConfig `mapstructure:"generation"`
	Lifecycle  LifecycleConfig  `mapstructure:"lifecycle"`
	Diagrams   DiagramConfig    `mapstructure:"diagrams"`
}

// RuntimeConfig describes the local generative-model runtime.
type RuntimeConfig struct {
	URL                 string `mapstructure:"url"`
	Model               string `mapstructure:"model"`
	LoadTimeoutSeconds  int    `mapstructure:"load_timeout_seconds"`
	InferTimeoutSeconds int    `mapstructure:"infer_timeout_seconds"`
}

// EmbeddingConfig describes the embedding provider. Provider is either
// "ollama" or "openai" (any OpenAI-compatible endpoint).
type EmbeddingConfig struct {
	Provider string `mapstructure:"provider"`
	URL      string `mapstructure:"url"`
	Model    string `mapstructure:"model"`
	APIKey   string `mapstructure:"api_key"`
}

// IndexConfig describes the vector index storage.
type IndexConfig struct {
	Path       string `mapstructure:"path"`
	Collection string `mapstructure:"collection"`
	InMemory   bool   `mapstructure:"in_memory"`
}

// RetrievalConfig holds the tunable retrieval parameters.
type RetrievalConfig struct {
	TopK          int     `mapstructure:"top_k"`
	DeepTopK      int     `mapstructure:"deep_top_k"`
	MinRelevance  float64 `mapstructure:"min_relevance"`
	VectorWeight  float64 `mapstructure:"vector_weight"`
	LexicalWeight float64 `mapstructure:"lexical_weight"`
}

// GenerationConfig holds per-generation parameters.
type GenerationConfig struct {
	MaxTokens           int  `mapstructure:"max_tokens"`
	QueueTimeoutSeconds int  `mapstructure:"queue_timeout_seconds"`
	Quiz                bool `mapstructure:"quiz"`
}

// LifecycleConfig holds the idle-reclamation parameters.
type LifecycleConfig struct {
	IdleTimeoutSeconds int `mapstructure:"idle_timeout_seconds"`
	IdleCheckSeconds   int `mapstructure:"idle_check_seconds"`
}

// DiagramConfig points at the chunk-to-diagram mapping file. Empty means
// diagram lookup is disabled.
type DiagramConfig struct {
	Path string `mapstructure:"path"`
}

// Normalize fills zero values with defaults so downstream packages can
// rely on sane settings regardless of what the config file supplied.
func (c *Config) Normalize() {
	if c.Runtime.LoadTimeoutSeconds <= 0 {
		c.Runtime.LoadTimeoutSeconds = defaultLoadTimeoutSeconds
	}
	if c.Runtime.InferTimeoutSeconds <= 0 {
		c.Runtime.InferTimeoutSeconds = defaultInferTimeoutSeconds
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "ollama"
	}
	if c.Index.Collection == "" {
		c.Index.Collection = "curriculum"
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = defaultTopK
	}
	if c.Retrieval.DeepTopK <= 0 {
		c.Retrieval.DeepTopK = defaultDeepTopK
	}
	if c.Retrieval.MinRelevance <= 0 {
		c.Retrieval.MinRelevance = defaultMinRelevance
	}
	if c.Retrieval.VectorWeight <= 0 {
		c.Retrieval.VectorWeight = defaultVectorWeight
	}
	if c.Retrieval.LexicalWeight < 0 {
		c.Retrieval.LexicalWeight = defaultLexicalWeight
	}
	if c.Generation.MaxTokens <= 0 {
		c.Generation.MaxTokens = defaultMaxTokens
	}
	if c.Lifecycle.IdleTimeoutSeconds <= 0 {
		c.Lifecycle.IdleTimeoutSeconds = defaultIdleTimeoutSeconds
	}
	if c.Lifecycle.IdleCheckSeconds <= 0 {
		c.Lifecycle.IdleCheckSeconds = defaultIdleCheckSeconds
	}
}

// IdleTimeout returns the idle duration after which a loaded model is
// reclaimed.
func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.Lifecycle.IdleTimeoutSeconds) * time.Second
}

// IdleCheckInterval returns the period of the background idle check.
func (c Config) IdleCheckInterval() time.Duration {
	return time.Duration(c.Lifecycle.IdleCheckSeconds) * time.Second
}

// QueueTimeout returns the maximum wait for the generation slot. Zero
// means wait indefinitely.
func (c Config) QueueTimeout() time.Duration {
	if c.Generation.QueueTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Generation.QueueTimeoutSeconds) * time.Second
}

// LoadTimeout returns the timeout for runtime model loads.
func (c Config) LoadTimeout() time.Duration {
	return time.Duration(c.Runtime.LoadTimeoutSeconds) * time.Second
}

// InferTimeout returns the timeout for a single inference call.
func (c Config) InferTimeout() time.Duration {
	return time.Duration(c.Runtime.InferTimeoutSeconds) * time.Second
}
