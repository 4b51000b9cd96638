package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cenxiv/translation-engine/internal/listing"
	"github.com/cenxiv/translation-engine/pkg/types"
)

var listingCmd = &cobra.Command{
	Use:   "listing <archive-or-category>",
	Short: "Ingest the latest announcement day for an archive or category",
	Long: `Listing scrapes the most recent announcement day for an archive or
category, fetches metadata for every entry, translates the text fields, and
persists each entry under its versioned identity. Entries translated on a
previous run are served from the store. The resolved listing is printed in
announcement order, grouped into new submissions, cross-lists, and
replacements.`,
	Args: cobra.ExactArgs(1),
	RunE: runListing,
}

func init() {
	listingCmd.Flags().String("provider", "", "translation backend: google, tencent, or ollama")
	listingCmd.Flags().Int("workers", 0, "concurrent translation workers")
	listingCmd.Flags().String("language", "", "output language (default zh-hans)")
	listingCmd.Flags().Bool("json", false, "output resolved entries as JSON")

	rootCmd.AddCommand(listingCmd)
}

func runListing(cmd *cobra.Command, args []string) error {
	p, cleanup, err := buildPipeline(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	scraper := listing.NewScraper(types.HTTPConfig{
		Timeout:   defaultTimeout,
		UserAgent: defaultUserAgent,
	})
	scraped, err := scraper.ScrapeNew(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("scraping listing for %s: %w", args[0], err)
	}

	resolved, err := p.Ingest(cmd.Context(), scraped)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return printJSON(resolved)
	}
	printListing(scraped, resolved)
	return nil
}

var sectionHeadings = map[types.Section]string{
	types.SectionNew:         "New submissions",
	types.SectionCross:       "Cross-lists",
	types.SectionReplacement: "Replacements",
}

func printListing(scraped types.ScrapedListing, resolved []types.Resolved) {
	language := types.LanguageChinese
	if len(resolved) > 0 {
		language = resolved[0].Language
	}
	fmt.Println(listing.DayLabel(scraped.Day, language))

	var current types.Section
	for i, r := range resolved {
		if r.Section != current || i == 0 {
			current = r.Section
			fmt.Printf("\n%s\n", sectionHeadings[current])
		}
		fmt.Printf("  [%d] %s  %s\n", i+1, r.Article.IDV(), r.Title())
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
