package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_entry_store.go -package=mocks diary-recall/internal/storage EntryStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// EntryStore defines the interface for diary entry storage operations.
type EntryStore interface {
	// ReplaceAll atomically replaces the whole store with the given merged
	// entries, rebuilds the full-text projection and recomputes yearly stats.
	// Any failure rolls the entire run back.
	ReplaceAll(ctx context.Context, entries []*Entry) error
	// GetByKey gets an entry by its (date, entry_type) merge key.
	// Returns nil and ErrNotFound if not found.
	GetByKey(ctx context.Context, date string, entryType EntryType) (*Entry, error)
	// CountContaining counts entries whose content contains the substring,
	// restricted by the filter.
	CountContaining(ctx context.Context, substr string, f Filter) (int, error)
	// SearchFullText runs an FTS5 MATCH query restricted by the filter,
	// best hits first.
	SearchFullText(ctx context.Context, match string, f Filter, limit int) ([]SearchHit, error)
	// SearchSubstring is the fallback search: OR-of-substring matches over
	// the first tokens (or the raw prefix when no tokens), newest first.
	SearchSubstring(ctx context.Context, tokens []string, rawPrefix string, f Filter, limit int) ([]SearchHit, error)
	// ListMissingSummaries lists entries without a summary, oldest first.
	ListMissingSummaries(ctx context.Context) ([]*Entry, error)
	// SampleByType returns up to limit random entries of the given type.
	SampleByType(ctx context.Context, entryType EntryType, limit int) ([]*Entry, error)
	// UpdateSummary sets the summary of a single entry.
	UpdateSummary(ctx context.Context, id int64, summary string) error
	// YearStats lists the per-year aggregates, oldest year first.
	YearStats(ctx context.Context) ([]YearStat, error)
	// TypeStats aggregates entry and word counts per entry type.
	TypeStats(ctx context.Context) ([]TypeStat, error)
}

// EntryRepo provides methods for diary entry operations.
// It implements the EntryStore interface.
type EntryRepo struct {
	db *sql.DB
}

// NewEntryRepo creates a new EntryRepo.
func NewEntryRepo(db *sql.DB) *EntryRepo {
	return &EntryRepo{db: db}
}

// DB exposes the underlying database handle.
func (r *EntryRepo) DB() *sql.DB {
	return r.db
}

const entryColumns = "id, date, content, summary, entry_type, word_count, file_source, updated_at"

// ReplaceAll atomically replaces the whole store with the given entries.
func (r *EntryRepo) ReplaceAll(ctx context.Context, entries []*Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin import transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, stmt := range []string{
		"DELETE FROM diary_entries",
		"DELETE FROM diary_fts",
		"DELETE FROM yearly_stats",
	} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to clear store: %w", err)
		}
	}

	insertEntry, err := tx.PrepareContext(ctx,
		`INSERT INTO diary_entries
		 (date, year, month, day, content, entry_type, word_count, file_source, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`)
	if err != nil {
		return fmt.Errorf("failed to prepare entry insert: %w", err)
	}
	defer func() {
		_ = insertEntry.Close()
	}()

	insertFTS, err := tx.PrepareContext(ctx,
		"INSERT INTO diary_fts (date, content, file_source) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare fts insert: %w", err)
	}
	defer func() {
		_ = insertFTS.Close()
	}()

	for _, e := range entries {
		date := e.DateString()
		if _, err := insertEntry.ExecContext(ctx,
			date, e.Date.Year(), int(e.Date.Month()), e.Date.Day(),
			e.Content, string(e.EntryType), e.WordCount, e.FileSource,
		); err != nil {
			return fmt.Errorf("failed to insert entry %s (%s): %w", date, e.EntryType, err)
		}
		if _, err := insertFTS.ExecContext(ctx, date, e.Content, e.FileSource); err != nil {
			return fmt.Errorf("failed to insert fts row %s: %w", date, err)
		}
	}

	// Yearly stats are recomputed from scratch on every run so they can
	// never drift from diary_entries.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO yearly_stats (year, total_entries, total_words, first_entry_date, last_entry_date, updated_at)
		 SELECT year, COUNT(*), COALESCE(SUM(word_count), 0), MIN(date), MAX(date), CURRENT_TIMESTAMP
		 FROM diary_entries GROUP BY year`,
	); err != nil {
		return fmt.Errorf("failed to rebuild yearly stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit import: %w", err)
	}
	return nil
}

// GetByKey gets an entry by its (date, entry_type) merge key.
func (r *EntryRepo) GetByKey(ctx context.Context, date string, entryType EntryType) (*Entry, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+" FROM diary_entries WHERE date = ? AND entry_type = ?",
		date, string(entryType))

	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query entry: %w", err)
	}
	return entry, nil
}

// CountContaining counts entries whose content contains the substring.
func (r *EntryRepo) CountContaining(ctx context.Context, substr string, f Filter) (int, error) {
	query := "SELECT COUNT(*) FROM diary_entries WHERE content LIKE ?"
	args := []any{"%" + substr + "%"}

	cond, condArgs := f.where("")
	query += cond
	args = append(args, condArgs...)

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

// SearchFullText runs an FTS5 MATCH query restricted by the filter.
func (r *EntryRepo) SearchFullText(ctx context.Context, match string, f Filter, limit int) ([]SearchHit, error) {
	// The projection is keyed by date, so the join is grouped by entry id to
	// avoid duplicate rows when two entry types share one date.
	query := `SELECT e.id, e.date, e.content, e.summary, e.entry_type, e.word_count, e.file_source, e.updated_at,
		 MIN(fts.rank) * 10 AS score
		 FROM diary_entries e
		 JOIN diary_fts fts ON e.date = fts.date
		 WHERE fts.content MATCH ?`
	args := []any{match}

	cond, condArgs := f.where("e.")
	query += cond
	args = append(args, condArgs...)

	// bm25 rank is negative; more negative is better.
	query += " GROUP BY e.id ORDER BY score ASC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("full-text query failed: %w", err)
	}
	return collectHits(rows)
}

// SearchSubstring is the LIKE-based fallback search.
func (r *EntryRepo) SearchSubstring(ctx context.Context, tokens []string, rawPrefix string, f Filter, limit int) ([]SearchHit, error) {
	query := "SELECT " + entryColumns + ", 0 AS score FROM diary_entries WHERE 1=1"
	var args []any

	cond, condArgs := f.where("")
	query += cond
	args = append(args, condArgs...)

	if len(tokens) > 0 {
		clauses := make([]string, 0, len(tokens))
		for _, token := range tokens {
			clauses = append(clauses, "content LIKE ?")
			args = append(args, "%"+token+"%")
		}
		query += " AND (" + strings.Join(clauses, " OR ") + ")"
	} else {
		query += " AND content LIKE ?"
		args = append(args, "%"+rawPrefix+"%")
	}

	query += " ORDER BY date DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("substring query failed: %w", err)
	}
	return collectHits(rows)
}

// ListMissingSummaries lists entries without a summary, oldest first.
func (r *EntryRepo) ListMissingSummaries(ctx context.Context) ([]*Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM diary_entries WHERE summary IS NULL ORDER BY date")
	if err != nil {
		return nil, fmt.Errorf("failed to list entries without summary: %w", err)
	}
	return collectEntries(rows)
}

// SampleByType returns up to limit random entries of the given type.
func (r *EntryRepo) SampleByType(ctx context.Context, entryType EntryType, limit int) ([]*Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM diary_entries WHERE entry_type = ? ORDER BY RANDOM() LIMIT ?",
		string(entryType), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sample entries: %w", err)
	}
	return collectEntries(rows)
}

// UpdateSummary sets the summary of a single entry.
func (r *EntryRepo) UpdateSummary(ctx context.Context, id int64, summary string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE diary_entries SET summary = ? WHERE id = ?", summary, id)
	if err != nil {
		return fmt.Errorf("failed to update summary: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check summary update: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// YearStats lists the per-year aggregates, oldest year first.
func (r *EntryRepo) YearStats(ctx context.Context) ([]YearStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT year, total_entries, total_words, first_entry_date, last_entry_date
		 FROM yearly_stats ORDER BY year`)
	if err != nil {
		return nil, fmt.Errorf("failed to query yearly stats: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var stats []YearStat
	for rows.Next() {
		var s YearStat
		if err := rows.Scan(&s.Year, &s.TotalEntries, &s.TotalWords, &s.FirstEntry, &s.LastEntry); err != nil {
			return nil, fmt.Errorf("failed to scan yearly stat: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return stats, nil
}

// TypeStats aggregates entry and word counts per entry type.
func (r *EntryRepo) TypeStats(ctx context.Context) ([]TypeStat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT entry_type, COUNT(*), COALESCE(SUM(word_count), 0)
		 FROM diary_entries GROUP BY entry_type ORDER BY COUNT(*) DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query type stats: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var stats []TypeStat
	for rows.Next() {
		var s TypeStat
		var entryType string
		if err := rows.Scan(&entryType, &s.Entries, &s.Words); err != nil {
			return nil, fmt.Errorf("failed to scan type stat: %w", err)
		}
		s.EntryType = EntryType(entryType)
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return stats, nil
}

// where builds the SQL filter fragment for the given column alias prefix.
func (f Filter) where(alias string) (string, []any) {
	var sb strings.Builder
	var args []any

	if f.YearFrom != 0 {
		sb.WriteString(" AND " + alias + "year >= ?")
		args = append(args, f.YearFrom)
	}
	if f.YearTo != 0 {
		sb.WriteString(" AND " + alias + "year <= ?")
		args = append(args, f.YearTo)
	}
	if f.Month != 0 {
		sb.WriteString(" AND " + alias + "month = ?")
		args = append(args, f.Month)
	}
	if len(f.Types) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(f.Types)), ",")
		sb.WriteString(" AND " + alias + "entry_type IN (" + placeholders + ")")
		for _, t := range f.Types {
			args = append(args, string(t))
		}
	}
	return sb.String(), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanEntry scans one diary_entries row (entryColumns order).
func scanEntry(row rowScanner, extra ...any) (*Entry, error) {
	var e Entry
	var date, updatedAt string
	var summary sql.NullString
	var entryType string

	dest := []any{&e.ID, &date, &e.Content, &summary, &entryType, &e.WordCount, &e.FileSource, &updatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	parsed, err := time.Parse(DateFormat, date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse entry date %q: %w", date, err)
	}
	e.Date = parsed
	e.EntryType = EntryType(entryType)
	e.Summary = summary.String

	// SQLite stores CURRENT_TIMESTAMP as "2006-01-02 15:04:05".
	if t, err := time.Parse("2006-01-02 15:04:05", updatedAt); err == nil {
		e.UpdatedAt = t
	} else if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		e.UpdatedAt = t
	}

	return &e, nil
}

func collectEntries(rows *sql.Rows) ([]*Entry, error) {
	defer func() {
		_ = rows.Close()
	}()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

func collectHits(rows *sql.Rows) ([]SearchHit, error) {
	defer func() {
		_ = rows.Close()
	}()

	var hits []SearchHit
	for rows.Next() {
		var score float64
		entry, err := scanEntry(rows, &score)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search hit: %w", err)
		}
		hits = append(hits, SearchHit{Entry: *entry, Rank: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return hits, nil
}
