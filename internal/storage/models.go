package storage

import "time"

// EntryType is the closed category tag distinguishing how a diary record
// was produced.
type EntryType string

const (
	TypeSingleDay     EntryType = "single_day"
	TypeMultiDay      EntryType = "multi_day"
	TypeStockDiary    EntryType = "stock_diary"
	TypeRetrospective EntryType = "retrospective"
	TypeSummary       EntryType = "summary"
	TypeNote          EntryType = "note"
)

// DateFormat is the canonical on-disk date representation.
const DateFormat = "2006-01-02"

// Entry is the persisted diary unit. Exactly one row exists per
// (date, entry_type) pair.
type Entry struct {
	ID        int64
	Date      time.Time
	Content   string
	EntryType EntryType
	WordCount int
	// FileSource lists the originating relative paths, " | "-joined when
	// several files merged into this entry.
	FileSource string
	// Summary is empty until the enrichment step populates it.
	Summary   string
	UpdatedAt time.Time
}

// DateString returns the entry date in canonical YYYY-MM-DD form.
func (e *Entry) DateString() string {
	return e.Date.Format(DateFormat)
}

// YearStat is one derived row per year, fully recomputed after each
// ingestion run.
type YearStat struct {
	Year         int
	TotalEntries int
	TotalWords   int
	FirstEntry   string
	LastEntry    string
}

// TypeStat is a per-entry-type aggregate used by the import report.
type TypeStat struct {
	EntryType EntryType
	Entries   int
	Words     int
}

// Filter restricts queries by time scope and entry type.
// Zero values mean "no restriction".
type Filter struct {
	YearFrom int
	YearTo   int
	Month    int
	Types    []EntryType
}

// SearchHit is one ranked search result.
type SearchHit struct {
	Entry Entry
	// Rank is the full-text relevance score (bm25 scaled by 10, negative,
	// more negative is better) or 0 for substring fallback hits.
	Rank float64
}
