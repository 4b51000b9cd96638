package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "translation-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// MetadataConfig holds settings for the metadata source stage.
type MetadataConfig struct {
	HTTPConfig `yaml:",inline"`

	// BatchSize caps identifiers per metadata API query (default 200,
	// the upstream maximum).
	BatchSize int `json:"batch_size" yaml:"batch_size"`

	// CacheTTL bounds retention of the short-term metadata cache
	// (default 72h).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl"`

	// CacheSize caps the number of cached records (default 4096).
	CacheSize int `json:"cache_size" yaml:"cache_size"`
}

// TranslatorName selects the translation provider.
type TranslatorName string

const (
	TranslatorGoogle  TranslatorName = "google"
	TranslatorTencent TranslatorName = "tencent"
	TranslatorOllama  TranslatorName = "ollama"
)

// TranslationConfig holds settings for the translation backend.
type TranslationConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the backend: google, tencent, or ollama.
	Provider TranslatorName `json:"provider" yaml:"provider"`

	// SourceLanguage and TargetLanguage are ISO codes passed to the
	// provider (defaults "en" and "zh").
	SourceLanguage string `json:"source_language" yaml:"source_language"`
	TargetLanguage string `json:"target_language" yaml:"target_language"`

	// TencentSecretID/TencentSecretKey authenticate the tencent provider.
	TencentSecretID  string `json:"tencent_secret_id,omitempty" yaml:"tencent_secret_id,omitempty"`
	TencentSecretKey string `json:"tencent_secret_key,omitempty" yaml:"tencent_secret_key,omitempty"`

	// TencentRegion selects the TMT endpoint region (default "ap-guangzhou").
	TencentRegion string `json:"tencent_region,omitempty" yaml:"tencent_region,omitempty"`

	// OllamaHost, OllamaModel and OllamaPrefix configure the ollama
	// provider; the prefix is prepended to every chat message.
	OllamaHost   string `json:"ollama_host,omitempty" yaml:"ollama_host,omitempty"`
	OllamaModel  string `json:"ollama_model,omitempty" yaml:"ollama_model,omitempty"`
	OllamaPrefix string `json:"ollama_prefix,omitempty" yaml:"ollama_prefix,omitempty"`
}

// StoreDriver selects the persistence backend.
type StoreDriver string

const (
	StoreSQLite   StoreDriver = "sqlite"
	StorePostgres StoreDriver = "postgres"
)

// StoreConfig holds settings for the persistence store.
type StoreConfig struct {
	// Driver selects the backend: sqlite or postgres.
	Driver StoreDriver `json:"driver" yaml:"driver"`

	// Path is the SQLite database file (sqlite driver only).
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// DSN is the Postgres connection string (postgres driver only).
	DSN string `json:"dsn,omitempty" yaml:"dsn,omitempty"`

	// MaxOpenConns/MaxIdleConns/ConnMaxLifetime tune the postgres pool.
	MaxOpenConns    int           `json:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime" yaml:"conn_max_lifetime"`
}

// IngestConfig holds settings for the worker pool and retry controller.
type IngestConfig struct {
	// Workers bounds concurrent item processing within a pass
	// (default 8; any value >= 1 preserves the pipeline invariants).
	Workers int `json:"workers" yaml:"workers"`

	// MaxPasses bounds retry passes over the failed subset (default 3).
	MaxPasses int `json:"max_passes" yaml:"max_passes"`

	// BaseDelay seeds the exponential backoff between passes
	// (default 1s; pass k waits BaseDelay * 2^(k-1)).
	BaseDelay time.Duration `json:"base_delay" yaml:"base_delay"`

	// Language is the requested output language for resolved listings
	// (default "zh-hans").
	Language string `json:"language" yaml:"language"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Metadata    MetadataConfig    `json:"metadata" yaml:"metadata"`
	Translation TranslationConfig `json:"translation" yaml:"translation"`
	Store       StoreConfig       `json:"store" yaml:"store"`
	Ingest      IngestConfig      `json:"ingest" yaml:"ingest"`
}
