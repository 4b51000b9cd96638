package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cenxiv/translation-engine/internal/cache"
	"github.com/cenxiv/translation-engine/internal/ingest"
	"github.com/cenxiv/translation-engine/internal/metadata"
	"github.com/cenxiv/translation-engine/internal/secrets"
	"github.com/cenxiv/translation-engine/internal/store"
	"github.com/cenxiv/translation-engine/internal/translate"
	"github.com/cenxiv/translation-engine/pkg/logger"
	"github.com/cenxiv/translation-engine/pkg/types"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "translation-engine/0.1"
)

// pipelineConfig assembles the stage configuration from flags, the
// config file, and loaded secrets. Flags win over config file values.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	viper.SetDefault("store.driver", string(types.StoreSQLite))
	viper.SetDefault("store.path", "translation-engine.db")
	viper.SetDefault("translation.provider", string(types.TranslatorGoogle))

	http := types.HTTPConfig{
		Timeout:   defaultTimeout,
		UserAgent: defaultUserAgent,
	}

	cfg := types.PipelineConfig{
		Metadata: types.MetadataConfig{
			HTTPConfig: http,
			BatchSize:  viper.GetInt("metadata.batch_size"),
			CacheTTL:   viper.GetDuration("metadata.cache_ttl"),
			CacheSize:  viper.GetInt("metadata.cache_size"),
		},
		Translation: types.TranslationConfig{
			HTTPConfig:       http,
			Provider:         types.TranslatorName(viper.GetString("translation.provider")),
			SourceLanguage:   viper.GetString("translation.source_language"),
			TargetLanguage:   viper.GetString("translation.target_language"),
			TencentSecretID:  viper.GetString("translation.tencent_secret_id"),
			TencentSecretKey: viper.GetString("translation.tencent_secret_key"),
			TencentRegion:    viper.GetString("translation.tencent_region"),
			OllamaHost:       viper.GetString("translation.ollama_host"),
			OllamaModel:      viper.GetString("translation.ollama_model"),
			OllamaPrefix:     viper.GetString("translation.ollama_prefix"),
		},
		Store: types.StoreConfig{
			Driver:          types.StoreDriver(viper.GetString("store.driver")),
			Path:            viper.GetString("store.path"),
			DSN:             viper.GetString("store.dsn"),
			MaxOpenConns:    viper.GetInt("store.max_open_conns"),
			MaxIdleConns:    viper.GetInt("store.max_idle_conns"),
			ConnMaxLifetime: viper.GetDuration("store.conn_max_lifetime"),
		},
		Ingest: types.IngestConfig{
			Workers:   viper.GetInt("ingest.workers"),
			MaxPasses: viper.GetInt("ingest.max_passes"),
			BaseDelay: viper.GetDuration("ingest.base_delay"),
			Language:  viper.GetString("ingest.language"),
		},
	}

	if provider, _ := cmd.Flags().GetString("provider"); provider != "" {
		cfg.Translation.Provider = types.TranslatorName(provider)
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.Ingest.Workers = workers
	}
	if language, _ := cmd.Flags().GetString("language"); language != "" {
		cfg.Ingest.Language = language
	}

	secrets.Apply(&cfg.Translation, loadedSecrets)
	return cfg
}

// buildPipeline wires the metadata fetcher, translation backend, and
// store into a ready pipeline. The returned cleanup closes the store.
func buildPipeline(cmd *cobra.Command) (*ingest.Pipeline, func(), error) {
	cfg := pipelineConfig(cmd)

	st, err := store.New(cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	backend, err := translate.New(cfg.Translation)
	if err != nil {
		st.Close()
		return nil, nil, fmt.Errorf("building translation backend: %w", err)
	}

	fetcher := metadata.NewCached(metadata.NewArxivSource(cfg.Metadata), cache.New(cfg.Metadata))
	p := ingest.New(fetcher, backend, st, logger.New(), cfg.Ingest)
	return p, func() { st.Close() }, nil
}
