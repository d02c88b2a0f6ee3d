package ingest

import (
	"strings"

	"diary-recall/internal/storage"
)

// retrospectiveMarker is the reserved filename for early-memory files,
// anchored to Jan 1 of the inferred year.
const retrospectiveMarker = "index.md"

// stockMarker tags stock-market diaries, which are always multi-entry.
const stockMarker = "股票"

// noteKeywords mark special note-like files: offline events, conventions,
// rosters, reflections, plans, goals, retrospectives, experience writeups,
// histories, follow-up visits, forum posts and a few named structural terms.
var noteKeywords = []string{
	"线下活动", "漫展", "名单", "感想", "规划", "目标",
	"总结", "经验", "简史", "复诊", "帖子", "三角",
	"叫魂", "record",
}

// summaryKeywords mark semester/term summaries, anchored to Dec 31.
// "vaction" is a recurring typo in the corpus, kept on purpose.
var summaryKeywords = []string{"semester", "term", "vaction"}

// Classify decides the entry type for one source file. Rules are an ordered
// list of predicates over (filename, year, content); the first match wins.
func Classify(filename string, year int, content string) storage.EntryType {
	if filename == retrospectiveMarker {
		return storage.TypeRetrospective
	}

	if strings.Contains(filename, stockMarker) {
		return storage.TypeStockDiary
	}

	for _, kw := range noteKeywords {
		if strings.Contains(filename, kw) {
			return storage.TypeNote
		}
	}

	lower := strings.ToLower(filename)
	for _, kw := range summaryKeywords {
		if strings.Contains(lower, kw) {
			return storage.TypeSummary
		}
	}

	// MM_DD-named files hold either one day or several; several inline
	// markers mean the file bundles consecutive days.
	if _, ok := FilenameDate(filename, year); ok {
		if CountMarkers(content, year) >= 2 {
			return storage.TypeMultiDay
		}
		return storage.TypeSingleDay
	}

	return storage.TypeNote
}
