// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package reconcile aligns a scraped ordered identifier list with its
// section boundaries, recovering which entries are new submissions,
// cross-lists, and replacements.
package reconcile

import (
	"fmt"

	"github.com/cenxiv/translation-engine/pkg/types"
)

// Entry pairs one identifier with its section, in display order.
type Entry struct {
	Identifier string
	Section    types.Section
}

// Sections classifies each of the n listing positions given the 1-based
// section-start offsets extracted upstream. A section may be empty
// (crossStart == repStart yields no cross-lists).
//
// The offsets must satisfy 1 <= newStart <= crossStart <= repStart <= n+1;
// callers validate their input, so a violation here is a programming
// error and panics.
func Sections(n, newStart, crossStart, repStart int) []types.Section {
	if n < 0 || newStart < 1 || newStart > crossStart || crossStart > repStart || repStart > n+1 {
		panic(fmt.Sprintf("reconcile: invalid section offsets (n=%d new=%d cross=%d rep=%d)",
			n, newStart, crossStart, repStart))
	}

	crossIdx := crossStart - newStart
	repIdx := repStart - newStart

	sections := make([]types.Section, n)
	for i := range sections {
		switch {
		case i < crossIdx:
			sections[i] = types.SectionNew
		case i < repIdx:
			sections[i] = types.SectionCross
		default:
			sections[i] = types.SectionReplacement
		}
	}
	return sections
}

// Align pairs the scraped identifiers with their section types in display
// order. A listing without offsets classifies every entry as a new
// submission (abs-style pages carry no section anchors).
func Align(listing types.ScrapedListing) []Entry {
	n := len(listing.Identifiers)

	var sections []types.Section
	if listing.HasOffsets() {
		sections = Sections(n, listing.NewStart, listing.CrossStart, listing.RepStart)
	} else {
		sections = make([]types.Section, n)
		for i := range sections {
			sections[i] = types.SectionNew
		}
	}

	entries := make([]Entry, n)
	for i, id := range listing.Identifiers {
		entries[i] = Entry{Identifier: id, Section: sections[i]}
	}
	return entries
}
