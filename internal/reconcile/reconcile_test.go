// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cenxiv/translation-engine/pkg/types"
)

func TestSections_DailyListing(t *testing.T) {
	// 10 entries: new starts at 1, cross at 6, replacements at 9.
	sections := Sections(10, 1, 6, 9)
	require.Len(t, sections, 10)

	for i := 0; i < 5; i++ {
		assert.Equal(t, types.SectionNew, sections[i], "index %d", i)
	}
	for i := 5; i < 8; i++ {
		assert.Equal(t, types.SectionCross, sections[i], "index %d", i)
	}
	for i := 8; i < 10; i++ {
		assert.Equal(t, types.SectionReplacement, sections[i], "index %d", i)
	}
}

func TestSections_EmptySectionsAllowed(t *testing.T) {
	// No cross-lists: crossStart == repStart.
	sections := Sections(4, 1, 3, 3)
	assert.Equal(t, []types.Section{
		types.SectionNew, types.SectionNew,
		types.SectionReplacement, types.SectionReplacement,
	}, sections)

	// Everything is a replacement.
	sections = Sections(2, 1, 1, 1)
	assert.Equal(t, []types.Section{types.SectionReplacement, types.SectionReplacement}, sections)

	// Empty listing.
	assert.Empty(t, Sections(0, 1, 1, 1))
}

// TestSections_CountsMatchOffsets sweeps every valid offset combination
// for small n and checks that each position gets exactly one section and
// the per-section counts equal the offset differences.
func TestSections_CountsMatchOffsets(t *testing.T) {
	for n := 0; n <= 8; n++ {
		for cross := 1; cross <= n+1; cross++ {
			for rep := cross; rep <= n+1; rep++ {
				sections := Sections(n, 1, cross, rep)
				require.Len(t, sections, n)

				counts := map[types.Section]int{}
				for _, s := range sections {
					counts[s]++
				}
				label := fmt.Sprintf("n=%d cross=%d rep=%d", n, cross, rep)
				assert.Equal(t, cross-1, counts[types.SectionNew], label)
				assert.Equal(t, rep-cross, counts[types.SectionCross], label)
				assert.Equal(t, n+1-rep, counts[types.SectionReplacement], label)
			}
		}
	}
}

func TestSections_InvalidOffsetsPanic(t *testing.T) {
	assert.Panics(t, func() { Sections(5, 0, 2, 3) })
	assert.Panics(t, func() { Sections(5, 3, 2, 4) })
	assert.Panics(t, func() { Sections(5, 1, 4, 3) })
	assert.Panics(t, func() { Sections(5, 1, 2, 7) })
}

func TestAlign_PreservesOrder(t *testing.T) {
	listing := types.ScrapedListing{
		Identifiers: []string{"2401.00001", "2401.00002", "2401.00003", "2401.00004"},
		NewStart:    1,
		CrossStart:  3,
		RepStart:    4,
	}

	entries := Align(listing)
	require.Len(t, entries, 4)

	assert.Equal(t, Entry{"2401.00001", types.SectionNew}, entries[0])
	assert.Equal(t, Entry{"2401.00002", types.SectionNew}, entries[1])
	assert.Equal(t, Entry{"2401.00003", types.SectionCross}, entries[2])
	assert.Equal(t, Entry{"2401.00004", types.SectionReplacement}, entries[3])
}

func TestAlign_NoOffsets(t *testing.T) {
	listing := types.ScrapedListing{
		Identifiers: []string{"2401.00001", "2401.00002"},
	}

	entries := Align(listing)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, types.SectionNew, e.Section)
	}
}
