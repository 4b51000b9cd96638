// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the translation-engine CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cenxiv/translation-engine/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// rootCmd is the base command for the translation-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "translation-engine",
	Short: "Translation ingestion pipeline for the bilingual archive mirror",
	Long: `translation-engine resolves daily announcement listings from the upstream
archive into fully translated, persisted entries. It fetches entry metadata,
translates the text fields through a configurable backend, and stores the
results under a per-version unique identity so repeated runs never redo work.

Each operation is a subcommand: listing ingests one announcement day, abs
resolves every version of a single paper.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./translation-engine.yaml or ~/.config/translation-engine/config.yaml)")
}

func initConfig() {
	// A local .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("translation-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "translation-engine"))
		}
	}

	viper.SetEnvPrefix("TRANSLATION_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
