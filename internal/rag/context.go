package rag

import (
	"fmt"
	"strings"

	"diary-recall/internal/storage"
)

const (
	// topSummaries is how many hits contribute a summary line to the prompt.
	topSummaries = 10
	// topFull is how many hits contribute their full entry body.
	topFull = 3
	// summaryFallbackRunes caps the content excerpt used when an entry has
	// no stored summary.
	summaryFallbackRunes = 100
)

// buildContext formats retrieval hits into the two prompt sections: a
// numbered summary list for breadth and a few full entries for depth.
func buildContext(hits []storage.SearchHit) (summaries, fullEntries string) {
	var sb strings.Builder
	for i, hit := range hits {
		if i == topSummaries {
			break
		}
		line := hit.Entry.Summary
		if line == "" {
			line = firstRunes(hit.Entry.Content, summaryFallbackRunes) + "..."
		}
		fmt.Fprintf(&sb, "%d. %s (%s): %s\n", i+1, hit.Entry.DateString(), hit.Entry.EntryType, line)
	}
	summaries = strings.TrimSpace(sb.String())

	var fb strings.Builder
	for i, hit := range hits {
		if i == topFull {
			break
		}
		fmt.Fprintf(&fb, "\n### %s (%s)\n%s\n", hit.Entry.DateString(), hit.Entry.EntryType, hit.Entry.Content)
	}
	fullEntries = strings.TrimSpace(fb.String())

	return summaries, fullEntries
}
