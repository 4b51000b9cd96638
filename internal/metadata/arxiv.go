// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metadata fetches per-paper metadata records from the upstream
// archive API, batched and in request order.
package metadata

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenxiv/translation-engine/internal/httputil"
	"github.com/cenxiv/translation-engine/pkg/types"
)

// arxivAPIBase is the arXiv export endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// maxBatchSize is the upstream cap on id_list length per query.
const maxBatchSize = 200

// Source returns ordered metadata records for a batch of identifiers.
// Identifiers may be bare ("2401.00001") or versioned ("2401.00001v2");
// bare identifiers resolve to the latest version.
type Source interface {
	FetchBatch(ctx context.Context, identifiers []string) ([]types.Record, error)
}

// ArxivSource queries the arXiv Atom API.
type ArxivSource struct {
	client    *http.Client
	userAgent string
	batchSize int
}

// NewArxivSource builds the source from configuration.
func NewArxivSource(cfg types.MetadataConfig) *ArxivSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	batch := cfg.BatchSize
	if batch <= 0 || batch > maxBatchSize {
		batch = maxBatchSize
	}
	return &ArxivSource{
		client:    &http.Client{Timeout: timeout},
		userAgent: cfg.UserAgent,
		batchSize: batch,
	}
}

// FetchBatch fetches metadata for all identifiers, chunking requests at
// the configured batch size and returning records in request order. A
// record missing from the upstream response is an error: the caller
// needs a complete listing.
func (s *ArxivSource) FetchBatch(ctx context.Context, identifiers []string) ([]types.Record, error) {
	byID := make(map[string]types.Record, len(identifiers))

	for start := 0; start < len(identifiers); start += s.batchSize {
		end := min(start+s.batchSize, len(identifiers))
		chunk := identifiers[start:end]

		records, err := s.fetchChunk(ctx, chunk)
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			entryID, _, err := types.ParseIdv(r.IDV)
			if err != nil {
				continue
			}
			byID[entryID] = r
			// Versioned requests key by the full idv as well.
			byID[r.IDV] = r
		}
	}

	ordered := make([]types.Record, 0, len(identifiers))
	var missing []string
	for _, id := range identifiers {
		r, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		ordered = append(ordered, r)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("metadata source returned no entry for %s", strings.Join(missing, ", "))
	}
	return ordered, nil
}

func (s *ArxivSource) fetchChunk(ctx context.Context, identifiers []string) ([]types.Record, error) {
	params := url.Values{}
	params.Set("id_list", strings.Join(identifiers, ","))
	params.Set("max_results", fmt.Sprintf("%d", len(identifiers)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := httputil.DoWithRetry(ctx, s.client, req, 0)
	if err != nil {
		return nil, fmt.Errorf("metadata API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metadata API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing metadata response: %w", err)
	}

	records := make([]types.Record, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		r, ok := entry.record()
		if !ok {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// arXiv Atom feed XML structures. The arxiv-namespaced extension
// elements (comment, journal_ref, doi, primary_category) match by local
// name.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID              string          `xml:"id"`
	Title           string          `xml:"title"`
	Summary         string          `xml:"summary"`
	Published       string          `xml:"published"`
	Updated         string          `xml:"updated"`
	Comment         string          `xml:"comment"`
	JournalRef      string          `xml:"journal_ref"`
	DOI             string          `xml:"doi"`
	PrimaryCategory arxivCategory   `xml:"primary_category"`
	Categories      []arxivCategory `xml:"category"`
	Authors         []arxivAuthor   `xml:"author"`
	Links           []arxivLink     `xml:"link"`
}

type arxivCategory struct {
	Term string `xml:"term,attr"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href string `xml:"href,attr"`
}

// record converts one Atom entry to a Record. Entries whose <id> does
// not carry a versioned identifier are dropped (the API emits one such
// stub entry for unknown ids).
func (e arxivEntry) record() (types.Record, bool) {
	idv := e.ID
	if i := strings.Index(idv, "/abs/"); i >= 0 {
		idv = idv[i+len("/abs/"):]
	}
	if _, _, err := types.ParseIdv(idv); err != nil {
		return types.Record{}, false
	}

	r := types.Record{
		IDV:             idv,
		Title:           strings.TrimSpace(e.Title),
		Abstract:        strings.TrimSpace(e.Summary),
		Comment:         strings.TrimSpace(e.Comment),
		JournalRef:      strings.TrimSpace(e.JournalRef),
		DOI:             strings.TrimSpace(e.DOI),
		PrimaryCategory: e.PrimaryCategory.Term,
	}

	if t, err := time.Parse(time.RFC3339, e.Published); err == nil {
		r.Published = t
	}
	if t, err := time.Parse(time.RFC3339, e.Updated); err == nil {
		r.Updated = t
	}

	for _, a := range e.Authors {
		r.Authors = append(r.Authors, strings.TrimSpace(a.Name))
	}
	for _, c := range e.Categories {
		if c.Term != "" {
			r.Categories = append(r.Categories, c.Term)
		}
	}
	for _, l := range e.Links {
		if l.Href != "" {
			r.Links = append(r.Links, l.Href)
		}
	}
	return r, true
}
