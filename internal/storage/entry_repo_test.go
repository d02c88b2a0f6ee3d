package storage

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func newTestRepo(t *testing.T) *EntryRepo {
	t.Helper()

	db, err := New(t.TempDir() + "/test.db")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewEntryRepo(db)
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func testEntries(t *testing.T) []*Entry {
	t.Helper()
	return []*Entry{
		{Date: mustDate(t, "2023-01-05"), Content: "今天去了上海，看了外滩。", EntryType: TypeSingleDay, WordCount: 11, FileSource: "2023/01_05.txt"},
		{Date: mustDate(t, "2023-03-09"), Content: "到厦门出差，吃了沙茶面。", EntryType: TypeSingleDay, WordCount: 11, FileSource: "2023/03_09.txt"},
		{Date: mustDate(t, "2023-03-09"), Content: "大盘回调，减仓观望。", EntryType: TypeStockDiary, WordCount: 9, FileSource: "2023/股票日记.txt"},
		{Date: mustDate(t, "2024-01-12"), Content: "一月去了广州，天气很暖。", EntryType: TypeSingleDay, WordCount: 11, FileSource: "2024/01_12.txt"},
	}
}

func TestEntryRepo_ReplaceAll(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, testEntries(t)); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	entry, err := repo.GetByKey(ctx, "2023-03-09", TypeStockDiary)
	if err != nil {
		t.Fatalf("GetByKey() error = %v", err)
	}
	if entry.Content != "大盘回调，减仓观望。" {
		t.Errorf("GetByKey() content = %q", entry.Content)
	}
	if entry.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}

	// Denormalized date parts must match the date.
	var year, month, day int
	err = repo.DB().QueryRowContext(ctx,
		"SELECT year, month, day FROM diary_entries WHERE date = ? AND entry_type = ?",
		"2023-03-09", string(TypeStockDiary)).Scan(&year, &month, &day)
	if err != nil {
		t.Fatalf("denormalized columns query error = %v", err)
	}
	if year != 2023 || month != 3 || day != 9 {
		t.Errorf("denormalized date = %d-%d-%d, want 2023-3-9", year, month, day)
	}
}

func TestEntryRepo_ReplaceAll_Idempotent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	snapshot := func() (int, int, []YearStat) {
		var entryCount, ftsCount int
		if err := repo.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM diary_entries").Scan(&entryCount); err != nil {
			t.Fatalf("count entries: %v", err)
		}
		if err := repo.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM diary_fts").Scan(&ftsCount); err != nil {
			t.Fatalf("count fts: %v", err)
		}
		stats, err := repo.YearStats(ctx)
		if err != nil {
			t.Fatalf("YearStats() error = %v", err)
		}
		return entryCount, ftsCount, stats
	}

	if err := repo.ReplaceAll(ctx, testEntries(t)); err != nil {
		t.Fatalf("first ReplaceAll() error = %v", err)
	}
	entries1, fts1, stats1 := snapshot()

	if err := repo.ReplaceAll(ctx, testEntries(t)); err != nil {
		t.Fatalf("second ReplaceAll() error = %v", err)
	}
	entries2, fts2, stats2 := snapshot()

	if entries1 != entries2 || fts1 != fts2 {
		t.Errorf("row counts changed across re-import: entries %d->%d, fts %d->%d", entries1, entries2, fts1, fts2)
	}
	if diff := cmp.Diff(stats1, stats2); diff != "" {
		t.Errorf("yearly stats changed across re-import (-first +second):\n%s", diff)
	}
	if entries1 != 4 || fts1 != 4 {
		t.Errorf("expected 4 rows in both tables, got entries=%d fts=%d", entries1, fts1)
	}
}

func TestEntryRepo_YearStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, testEntries(t)); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	stats, err := repo.YearStats(ctx)
	if err != nil {
		t.Fatalf("YearStats() error = %v", err)
	}

	want := []YearStat{
		{Year: 2023, TotalEntries: 3, TotalWords: 31, FirstEntry: "2023-01-05", LastEntry: "2023-03-09"},
		{Year: 2024, TotalEntries: 1, TotalWords: 11, FirstEntry: "2024-01-12", LastEntry: "2024-01-12"},
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("YearStats() mismatch (-want +got):\n%s", diff)
	}
}

func TestEntryRepo_CountContaining(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, testEntries(t)); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	tests := []struct {
		name   string
		substr string
		filter Filter
		want   int
	}{
		{name: "city anywhere", substr: "厦门", want: 1},
		{name: "city within year", substr: "上海", filter: Filter{YearFrom: 2023, YearTo: 2023}, want: 1},
		{name: "city outside year", substr: "上海", filter: Filter{YearFrom: 2024, YearTo: 2024}, want: 0},
		{name: "city in month", substr: "广州", filter: Filter{YearFrom: 2024, YearTo: 2024, Month: 1}, want: 1},
		{name: "city absent in month", substr: "厦门", filter: Filter{YearFrom: 2023, YearTo: 2023, Month: 1}, want: 0},
		{name: "type filter", substr: "减仓", filter: Filter{Types: []EntryType{TypeSingleDay}}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.CountContaining(ctx, tt.substr, tt.filter)
			if err != nil {
				t.Fatalf("CountContaining() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CountContaining(%q, %+v) = %d, want %d", tt.substr, tt.filter, got, tt.want)
			}
		})
	}
}

func TestEntryRepo_SearchFullText(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, testEntries(t)); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	hits, err := repo.SearchFullText(ctx, `"上海" OR "厦门"`, Filter{YearFrom: 2023, YearTo: 2023}, 30)
	if err != nil {
		t.Fatalf("SearchFullText() error = %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("SearchFullText() returned %d hits, want 2", len(hits))
	}
	for _, hit := range hits {
		if hit.Rank >= 0 {
			t.Errorf("hit %s rank = %v, want negative bm25 score", hit.Entry.DateString(), hit.Rank)
		}
	}

	// Malformed MATCH syntax must surface as an error for the caller to
	// route to the substring fallback.
	if _, err := repo.SearchFullText(ctx, "上海 AND (", Filter{}, 30); err == nil {
		t.Error("SearchFullText() with malformed query expected error, got nil")
	}
}

func TestEntryRepo_SearchSubstring(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, testEntries(t)); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	tests := []struct {
		name      string
		tokens    []string
		rawPrefix string
		filter    Filter
		wantDates []string
	}{
		{
			name:      "tokens newest first",
			tokens:    []string{"上海", "广州"},
			wantDates: []string{"2024-01-12", "2023-01-05"},
		},
		{
			name:      "raw prefix when no tokens",
			rawPrefix: "沙茶面",
			wantDates: []string{"2023-03-09"},
		},
		{
			name:      "filter narrows result",
			tokens:    []string{"上海", "广州"},
			filter:    Filter{YearFrom: 2023, YearTo: 2023},
			wantDates: []string{"2023-01-05"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits, err := repo.SearchSubstring(ctx, tt.tokens, tt.rawPrefix, tt.filter, 30)
			if err != nil {
				t.Fatalf("SearchSubstring() error = %v", err)
			}
			var dates []string
			for _, hit := range hits {
				dates = append(dates, hit.Entry.DateString())
			}
			if diff := cmp.Diff(tt.wantDates, dates); diff != "" {
				t.Errorf("SearchSubstring() dates mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEntryRepo_Summaries(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, testEntries(t)); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	missing, err := repo.ListMissingSummaries(ctx)
	if err != nil {
		t.Fatalf("ListMissingSummaries() error = %v", err)
	}
	if len(missing) != 4 {
		t.Fatalf("ListMissingSummaries() = %d entries, want 4", len(missing))
	}

	if err := repo.UpdateSummary(ctx, missing[0].ID, "去了上海看外滩。"); err != nil {
		t.Fatalf("UpdateSummary() error = %v", err)
	}

	missing, err = repo.ListMissingSummaries(ctx)
	if err != nil {
		t.Fatalf("ListMissingSummaries() after update error = %v", err)
	}
	if len(missing) != 3 {
		t.Errorf("ListMissingSummaries() after update = %d entries, want 3", len(missing))
	}

	entry, err := repo.GetByKey(ctx, "2023-01-05", TypeSingleDay)
	if err != nil {
		t.Fatalf("GetByKey() error = %v", err)
	}
	if entry.Summary != "去了上海看外滩。" {
		t.Errorf("summary = %q, want 去了上海看外滩。", entry.Summary)
	}

	// Re-import resets summaries: the pipeline owns every field but summary,
	// and a full rebuild starts from scratch.
	if err := repo.ReplaceAll(ctx, testEntries(t)); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}
	missing, err = repo.ListMissingSummaries(ctx)
	if err != nil {
		t.Fatalf("ListMissingSummaries() after re-import error = %v", err)
	}
	if len(missing) != 4 {
		t.Errorf("ListMissingSummaries() after re-import = %d entries, want 4", len(missing))
	}

	if err := repo.UpdateSummary(ctx, 999999, "x"); err != ErrNotFound {
		t.Errorf("UpdateSummary() on missing id error = %v, want ErrNotFound", err)
	}
}

func TestEntryRepo_SampleByType(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, testEntries(t)); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	samples, err := repo.SampleByType(ctx, TypeSingleDay, 2)
	if err != nil {
		t.Fatalf("SampleByType() error = %v", err)
	}
	if len(samples) != 2 {
		t.Errorf("SampleByType() = %d entries, want 2", len(samples))
	}
	for _, s := range samples {
		if s.EntryType != TypeSingleDay {
			t.Errorf("SampleByType() returned type %s", s.EntryType)
		}
	}
}

func TestEntryRepo_TypeStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.ReplaceAll(ctx, testEntries(t)); err != nil {
		t.Fatalf("ReplaceAll() error = %v", err)
	}

	stats, err := repo.TypeStats(ctx)
	if err != nil {
		t.Fatalf("TypeStats() error = %v", err)
	}

	want := []TypeStat{
		{EntryType: TypeSingleDay, Entries: 3, Words: 33},
		{EntryType: TypeStockDiary, Entries: 1, Words: 9},
	}
	if diff := cmp.Diff(want, stats); diff != "" {
		t.Errorf("TypeStats() mismatch (-want +got):\n%s", diff)
	}
}

func TestEntryRepo_GetByKey_NotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.GetByKey(context.Background(), "1999-01-01", TypeNote)
	if err != ErrNotFound {
		t.Errorf("GetByKey() error = %v, want ErrNotFound", err)
	}
}
