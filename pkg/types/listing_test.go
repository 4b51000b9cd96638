// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIdv(t *testing.T) {
	tests := []struct {
		name    string
		idv     string
		entryID string
		version int
		wantErr bool
	}{
		{name: "bare identifier", idv: "2401.00001v2", entryID: "2401.00001", version: 2},
		{name: "entry URL", idv: "http://arxiv.org/abs/2401.00001v3", entryID: "2401.00001", version: 3},
		{name: "old-style identifier", idv: "hep-th/9901001v1", entryID: "hep-th/9901001", version: 1},
		{name: "double-digit version", idv: "2401.00001v12", entryID: "2401.00001", version: 12},
		{name: "no version suffix", idv: "2401.00001", wantErr: true},
		{name: "trailing v", idv: "2401.00001v", wantErr: true},
		{name: "non-numeric version", idv: "2401.00001vx", wantErr: true},
		{name: "zero version", idv: "2401.00001v0", wantErr: true},
		{name: "empty", idv: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entryID, version, err := ParseIdv(tt.idv)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.entryID, entryID)
			assert.Equal(t, tt.version, version)
		})
	}
}

func TestIdvRoundTrip(t *testing.T) {
	idv := Idv("2401.00001", 4)
	assert.Equal(t, "2401.00001v4", idv)

	entryID, version, err := ParseIdv(idv)
	require.NoError(t, err)
	assert.Equal(t, "2401.00001", entryID)
	assert.Equal(t, 4, version)
}

func TestScrapedListingHasOffsets(t *testing.T) {
	assert.False(t, ScrapedListing{}.HasOffsets())
	assert.True(t, ScrapedListing{NewStart: 1, CrossStart: 3, RepStart: 5}.HasOffsets())
}

func TestArticleLanguageProjection(t *testing.T) {
	a := &ArticleVersion{
		EntryID:      "2401.00001",
		EntryVersion: 2,
		TitleEN:      "A Paper",
		TitleCN:      "一篇论文",
		AbstractEN:   "An abstract.",
		AbstractCN:   "一个摘要。",
	}

	assert.Equal(t, "2401.00001v2", a.IDV())
	assert.Equal(t, "一篇论文", a.Title(LanguageChinese))
	assert.Equal(t, "A Paper", a.Title(LanguageEnglish))
	assert.Equal(t, "一个摘要。", a.Abstract(LanguageChinese))

	// Absent optional fields project as absent in both languages.
	assert.Empty(t, a.Comment(LanguageChinese))
	assert.Empty(t, a.JournalRef(LanguageEnglish))
}
