// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package listing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cenxiv/translation-engine/pkg/types"
)

const samplePage = `<!DOCTYPE html>
<html>
<body>
<div id="dlpage">
  <h3>Showing new listings for Monday, 15 January 2024</h3>
  <ul>
    <li><a href="#item1">New submissions</a></li>
    <li><a href="#item6">Cross-lists</a></li>
    <li><a href="#item9">Replacements</a></li>
  </ul>
  <div class="paging">Total of 10 entries</div>
  <dl>
    <dt><a title="Abstract" id="2401.00001" href="/abs/2401.00001">arXiv:2401.00001</a></dt>
    <dt><a title="Abstract" id="2401.00002" href="/abs/2401.00002">arXiv:2401.00002</a></dt>
    <dt><a title="Abstract" id="2401.00003" href="/abs/2401.00003">arXiv:2401.00003</a></dt>
    <dt><a title="Abstract" id="2401.00004" href="/abs/2401.00004">arXiv:2401.00004</a></dt>
    <dt><a title="Abstract" id="2401.00005" href="/abs/2401.00005">arXiv:2401.00005</a></dt>
    <dt><a title="Abstract" id="2401.00006" href="/abs/2401.00006">arXiv:2401.00006</a></dt>
    <dt><a title="Abstract" id="2401.00007" href="/abs/2401.00007">arXiv:2401.00007</a></dt>
    <dt><a title="Abstract" id="2401.00008" href="/abs/2401.00008">arXiv:2401.00008</a></dt>
    <dt><a title="Abstract" id="2312.00009" href="/abs/2312.00009">arXiv:2312.00009</a></dt>
    <dt><a title="Abstract" id="2312.00010" href="/abs/2312.00010">arXiv:2312.00010</a></dt>
  </dl>
</div>
</body>
</html>`

func withListingServer(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	previous := listingBaseURL
	listingBaseURL = server.URL
	t.Cleanup(func() { listingBaseURL = previous })
}

func TestScrapeNew(t *testing.T) {
	var requestedPath string
	withListingServer(t, func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Write([]byte(samplePage))
	})

	s := NewScraper(types.HTTPConfig{UserAgent: "translation-engine/test"})
	listing, err := s.ScrapeNew(context.Background(), "cs")
	require.NoError(t, err)

	assert.Equal(t, "/list/cs/new", requestedPath)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), listing.Day)
	assert.Equal(t, 1, listing.NewStart)
	assert.Equal(t, 6, listing.CrossStart)
	assert.Equal(t, 9, listing.RepStart)
	assert.Equal(t, 10, listing.Count)
	assert.True(t, listing.HasOffsets())
	require.Len(t, listing.Identifiers, 10)
	assert.Equal(t, "2401.00001", listing.Identifiers[0])
	assert.Equal(t, "2312.00010", listing.Identifiers[9])
}

func TestScrapeNew_MissingAnchor(t *testing.T) {
	withListingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`<html><body><h3>Showing new listings for Monday, 15 January 2024</h3></body></html>`))
	})

	s := NewScraper(types.HTTPConfig{})
	_, err := s.ScrapeNew(context.Background(), "cs")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "New submissions")
}

func TestScrapeNew_ServerError(t *testing.T) {
	withListingServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	s := NewScraper(types.HTTPConfig{})
	_, err := s.ScrapeNew(context.Background(), "nosuch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestDayLabel(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) // a Monday

	assert.Equal(t, "2024年01月15日， 星期一", DayLabel(day, types.LanguageChinese))
	assert.Equal(t, "Mon, 15 Jan 2024", DayLabel(day, types.LanguageEnglish))
}

func TestDayKey(t *testing.T) {
	day := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-01-15", DayKey(day))
}
