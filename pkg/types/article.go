// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DefaultArchive is the source archive articles are ingested from. The
// schema anticipates other archives but only arXiv is wired today.
const DefaultArchive = "arxiv"

// Author is one author row owned by an ArticleVersion.
type Author struct {
	Name string `json:"name" yaml:"name"`
}

// Category is one category row owned by an ArticleVersion.
type Category struct {
	Name string `json:"name" yaml:"name"`
}

// Link is one link row owned by an ArticleVersion.
type Link struct {
	URL string `json:"url" yaml:"url"`
}

// ArticleVersion is the unit of translation and storage: one specific
// revision of one paper, identified by (SourceArchive, EntryID,
// EntryVersion). Translation fields are written once by the pipeline and
// never overwritten; later requests for the same identity are served from
// the stored row.
type ArticleVersion struct {
	// SourceArchive names the upstream archive (e.g. "arxiv").
	SourceArchive string `json:"source_archive" yaml:"source_archive"`

	// EntryID is the paper's stable identifier (e.g. "2401.00001").
	EntryID string `json:"entry_id" yaml:"entry_id"`

	// EntryVersion is the revision number being described (1-based).
	EntryVersion int `json:"entry_version" yaml:"entry_version"`

	TitleEN    string `json:"title_en" yaml:"title_en"`
	TitleCN    string `json:"title_cn" yaml:"title_cn"`
	AbstractEN string `json:"abstract_en" yaml:"abstract_en"`
	AbstractCN string `json:"abstract_cn" yaml:"abstract_cn"`

	// CommentEN/CommentCN and JournalRefEN/JournalRefCN are optional;
	// empty means absent, and absent fields are never translated.
	CommentEN    string `json:"comment_en,omitempty" yaml:"comment_en,omitempty"`
	CommentCN    string `json:"comment_cn,omitempty" yaml:"comment_cn,omitempty"`
	JournalRefEN string `json:"journal_ref_en,omitempty" yaml:"journal_ref_en,omitempty"`
	JournalRefCN string `json:"journal_ref_cn,omitempty" yaml:"journal_ref_cn,omitempty"`

	DOI             string    `json:"doi,omitempty" yaml:"doi,omitempty"`
	PrimaryCategory string    `json:"primary_category" yaml:"primary_category"`
	PublishedDate   time.Time `json:"published_date" yaml:"published_date"`
	UpdatedDate     time.Time `json:"updated_date" yaml:"updated_date"`

	// TranslationValidated is set only by manual review, never by the
	// ingestion pipeline.
	TranslationValidated bool `json:"translation_validated" yaml:"translation_validated"`

	// Owned child collections, created and deleted with the parent row.
	Authors    []Author   `json:"authors" yaml:"authors"`
	Categories []Category `json:"categories" yaml:"categories"`
	Links      []Link     `json:"links" yaml:"links"`
}

// Identity returns the composite key components for this row.
func (a *ArticleVersion) Identity() (archive, entryID string, version int) {
	return a.SourceArchive, a.EntryID, a.EntryVersion
}

// IDV renders the canonical versioned identifier (e.g. "2401.00001v2").
func (a *ArticleVersion) IDV() string {
	return Idv(a.EntryID, a.EntryVersion)
}

// Title returns the title in the requested language ("zh-hans" selects
// the Chinese translation, anything else the English original).
func (a *ArticleVersion) Title(language string) string {
	if language == LanguageChinese {
		return a.TitleCN
	}
	return a.TitleEN
}

// Abstract returns the abstract in the requested language.
func (a *ArticleVersion) Abstract(language string) string {
	if language == LanguageChinese {
		return a.AbstractCN
	}
	return a.AbstractEN
}

// Comment returns the comment in the requested language, or "" when the
// source metadata carried none.
func (a *ArticleVersion) Comment(language string) string {
	if language == LanguageChinese {
		return a.CommentCN
	}
	return a.CommentEN
}

// JournalRef returns the journal reference in the requested language, or
// "" when the source metadata carried none.
func (a *ArticleVersion) JournalRef(language string) string {
	if language == LanguageChinese {
		return a.JournalRefCN
	}
	return a.JournalRefEN
}

// Language codes accepted by the projection helpers.
const (
	LanguageChinese = "zh-hans"
	LanguageEnglish = "en"
)
