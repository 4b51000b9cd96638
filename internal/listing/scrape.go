// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package listing extracts daily announcement listings from the upstream
// archive's HTML pages. The pipeline itself only needs the identifier
// sequence and section offsets; this package is the inbound adapter that
// produces them.
package listing

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/cenxiv/translation-engine/internal/httputil"
	"github.com/cenxiv/translation-engine/pkg/types"
)

// listingBaseURL is a variable so tests can point the scraper at a local
// server.
var listingBaseURL = "https://arxiv.org"

var (
	announcedExpr = regexp.MustCompile(`Showing new listings for (.+)$`)
	totalExpr     = regexp.MustCompile(`Total of (\d+) entries`)
)

const announcedLayout = "Monday, 2 January 2006"

// Scraper fetches and parses the /list/<archive>/new page.
type Scraper struct {
	client    *http.Client
	userAgent string
}

func NewScraper(cfg types.HTTPConfig) *Scraper {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
	}
}

// ScrapeNew returns the most recent announcement day's listing for an
// archive or category, with the 1-based section offsets read from the
// page's navigation anchors.
func (s *Scraper) ScrapeNew(ctx context.Context, archiveOrCategory string) (types.ScrapedListing, error) {
	url := fmt.Sprintf("%s/list/%s/new", listingBaseURL, archiveOrCategory)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return types.ScrapedListing{}, fmt.Errorf("building request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, s.client, req, 0)
	if err != nil {
		return types.ScrapedListing{}, fmt.Errorf("fetching listing page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return types.ScrapedListing{}, fmt.Errorf("listing page returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return types.ScrapedListing{}, fmt.Errorf("parsing listing page: %w", err)
	}
	return parseListing(doc)
}

func parseListing(doc *goquery.Document) (types.ScrapedListing, error) {
	var listing types.ScrapedListing

	day, err := announcedDay(doc)
	if err != nil {
		return listing, err
	}
	listing.Day = day

	listing.NewStart, err = sectionAnchor(doc, "New submissions")
	if err != nil {
		return listing, err
	}
	listing.CrossStart, err = sectionAnchor(doc, "Cross-lists")
	if err != nil {
		return listing, err
	}
	listing.RepStart, err = sectionAnchor(doc, "Replacements")
	if err != nil {
		return listing, err
	}

	doc.Find(`a[title="Abstract"]`).Each(func(_ int, sel *goquery.Selection) {
		if id, ok := sel.Attr("id"); ok {
			listing.Identifiers = append(listing.Identifiers, id)
		}
	})
	if len(listing.Identifiers) == 0 {
		return listing, fmt.Errorf("no abstract anchors found on listing page")
	}

	listing.Count = len(listing.Identifiers)
	if m := totalExpr.FindStringSubmatch(doc.Find("div.paging").Text()); m != nil {
		listing.Count, _ = strconv.Atoi(m[1])
	}
	return listing, nil
}

// announcedDay reads the "Showing new listings for <day>" heading.
func announcedDay(doc *goquery.Document) (time.Time, error) {
	var text string
	doc.Find("h3").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if m := announcedExpr.FindStringSubmatch(strings.TrimSpace(sel.Text())); m != nil {
			text = m[1]
			return false
		}
		return true
	})
	if text == "" {
		return time.Time{}, fmt.Errorf("announcement day heading not found")
	}
	day, err := time.Parse(announcedLayout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing announcement day %q: %w", text, err)
	}
	return day, nil
}

// sectionAnchor resolves a navigation anchor like <a href="#item6">Cross-lists</a>
// to its 1-based item offset.
func sectionAnchor(doc *goquery.Document, label string) (int, error) {
	var href string
	doc.Find("a").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if strings.TrimSpace(sel.Text()) == label {
			href, _ = sel.Attr("href")
			return false
		}
		return true
	})
	if href == "" {
		return 0, fmt.Errorf("section anchor %q not found", label)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(href, "#item"))
	if err != nil {
		return 0, fmt.Errorf("section anchor %q has malformed href %q: %w", label, href, err)
	}
	return n, nil
}
