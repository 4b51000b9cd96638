package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var absCmd = &cobra.Command{
	Use:   "abs <identifier>",
	Short: "Resolve and translate every version of a single paper",
	Long: `Abs fetches the metadata for one paper, translates the text fields of its
latest version, and backfills any earlier versions missing from the store.
The identifier may be bare (2401.00001) or versioned (2401.00001v2); a bare
identifier resolves to the latest version.`,
	Args: cobra.ExactArgs(1),
	RunE: runAbs,
}

func init() {
	absCmd.Flags().String("provider", "", "translation backend: google, tencent, or ollama")
	absCmd.Flags().Int("workers", 0, "concurrent translation workers")
	absCmd.Flags().String("language", "", "output language (default zh-hans)")
	absCmd.Flags().Bool("json", false, "output resolved versions as JSON")

	rootCmd.AddCommand(absCmd)
}

func runAbs(cmd *cobra.Command, args []string) error {
	p, cleanup, err := buildPipeline(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	resolved, err := p.Article(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(resolved)
	}
	for _, r := range resolved {
		fmt.Printf("%s  %s\n", r.Article.IDV(), r.Title())
		if abstract := r.Abstract(); abstract != "" {
			fmt.Printf("    %s\n", abstract)
		}
	}
	return nil
}
