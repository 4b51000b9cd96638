package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective pipeline configuration as YAML",
	Long: `Config resolves the configuration from flags, the config file, the
environment, and the secrets directory, and prints the result. Credential
values are redacted.`,
	RunE: runConfig,
}

func init() {
	configCmd.Flags().String("provider", "", "translation backend: google, tencent, or ollama")
	configCmd.Flags().Int("workers", 0, "concurrent translation workers")
	configCmd.Flags().String("language", "", "output language (default zh-hans)")

	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := pipelineConfig(cmd)

	if cfg.Translation.TencentSecretID != "" {
		cfg.Translation.TencentSecretID = "<redacted>"
	}
	if cfg.Translation.TencentSecretKey != "" {
		cfg.Translation.TencentSecretKey = "<redacted>"
	}

	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("rendering configuration: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
