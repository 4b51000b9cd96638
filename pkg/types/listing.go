// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Section classifies a listing entry.
type Section string

const (
	SectionNew         Section = "new"
	SectionCross       Section = "cross"
	SectionReplacement Section = "replacement"
)

// Record is one metadata record returned by the metadata source for a
// single paper version. The canonical identifier carries the version
// suffix (e.g. "2401.00001v2").
type Record struct {
	// IDV is the canonical versioned identifier.
	IDV string `json:"idv" yaml:"idv"`

	Title    string `json:"title" yaml:"title"`
	Abstract string `json:"abstract" yaml:"abstract"`

	// Comment and JournalRef are optional; "" means absent.
	Comment    string `json:"comment,omitempty" yaml:"comment,omitempty"`
	JournalRef string `json:"journal_ref,omitempty" yaml:"journal_ref,omitempty"`

	DOI             string    `json:"doi,omitempty" yaml:"doi,omitempty"`
	PrimaryCategory string    `json:"primary_category" yaml:"primary_category"`
	Published       time.Time `json:"published" yaml:"published"`
	Updated         time.Time `json:"updated" yaml:"updated"`

	Authors    []string `json:"authors" yaml:"authors"`
	Categories []string `json:"categories" yaml:"categories"`
	Links      []string `json:"links" yaml:"links"`
}

// ScrapedListing is the output of the upstream listing-assembly layer: an
// ordered identifier list plus 1-based section-start offsets into it.
// Offsets may be zero when the page carries no section anchors; the
// pipeline then treats every entry as a new submission.
type ScrapedListing struct {
	// Identifiers in display order, without version suffixes.
	Identifiers []string `json:"identifiers" yaml:"identifiers"`

	// NewStart, CrossStart and RepStart are the 1-based positions where
	// each section begins, with NewStart <= CrossStart <= RepStart <= N+1.
	NewStart   int `json:"new_start" yaml:"new_start"`
	CrossStart int `json:"cross_start" yaml:"cross_start"`
	RepStart   int `json:"rep_start" yaml:"rep_start"`

	// Count is the total entry count announced by the page header.
	Count int `json:"count" yaml:"count"`

	// Day is the announcement day the listing was published upstream,
	// used as the metadata cache partition key. Zero when unknown.
	Day time.Time `json:"day" yaml:"day"`
}

// HasOffsets reports whether section offsets were extracted.
func (l ScrapedListing) HasOffsets() bool {
	return l.NewStart > 0
}

// Resolved is one fully translated, persisted listing entry in display
// order, as handed back to the caller.
type Resolved struct {
	Section  Section         `json:"section" yaml:"section"`
	Article  *ArticleVersion `json:"article" yaml:"article"`
	Language string          `json:"language" yaml:"language"`
}

// Title returns the article title in the invocation's requested language.
func (r Resolved) Title() string { return r.Article.Title(r.Language) }

// Abstract returns the abstract in the invocation's requested language.
func (r Resolved) Abstract() string { return r.Article.Abstract(r.Language) }

// Idv renders an entry id and version as the canonical versioned
// identifier string.
func Idv(entryID string, version int) string {
	return fmt.Sprintf("%sv%d", entryID, version)
}

// ParseIdv splits a canonical versioned identifier into entry id and
// version. Accepts both bare API ids ("2401.00001v2") and full entry
// URLs ("http://arxiv.org/abs/2401.00001v2").
func ParseIdv(idv string) (entryID string, version int, err error) {
	// Old-style entry ids carry a slash of their own, so only the URL
	// prefix up to "/abs/" is stripped.
	if i := strings.LastIndex(idv, "/abs/"); i >= 0 {
		idv = idv[i+len("/abs/"):]
	}
	vIdx := strings.LastIndex(idv, "v")
	if vIdx <= 0 || vIdx == len(idv)-1 {
		return "", 0, fmt.Errorf("identifier %q has no version suffix", idv)
	}
	version, err = strconv.Atoi(idv[vIdx+1:])
	if err != nil || version < 1 {
		return "", 0, fmt.Errorf("identifier %q has a malformed version suffix", idv)
	}
	return idv[:vIdx], version, nil
}
