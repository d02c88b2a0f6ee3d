package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"diary-recall/internal/contextutil"
	"diary-recall/internal/diary"
	"diary-recall/internal/storage"
)

// Pipeline orchestrates the batch import of a diary tree into the store:
// classify, split, merge in memory, then persist in one transaction and
// recompute yearly stats.
type Pipeline struct {
	scanner *diary.Scanner
	store   storage.EntryStore
}

// Report summarizes one ingestion run.
type Report struct {
	FilesProcessed  int
	EntriesImported int
	// Warnings accumulates non-fatal conditions (same-day merges, suspected
	// date typos, splitter fallbacks) for end-of-run reporting.
	Warnings []string
	Years    []storage.YearStat
	Types    []storage.TypeStat
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(scanner *diary.Scanner, store storage.EntryStore) *Pipeline {
	return &Pipeline{
		scanner: scanner,
		store:   store,
	}
}

// Run executes a full import. Single-file failures are logged and skipped;
// a storage failure aborts and rolls back the entire run. Two passes: the
// merge arena must see every candidate entry before anything is written,
// otherwise merge results would depend on file iteration order.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	logger := contextutil.LoggerFromContext(ctx)

	files, err := p.scanner.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to scan diary tree: %w", err)
	}
	logger.InfoContext(ctx, "starting import", "total_files", len(files))

	report := &Report{}
	merger := NewMerger()

	// Pass 1: collect and merge in memory.
	for _, file := range files {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		entries, warnings, err := p.processFile(file)
		if err != nil {
			logger.ErrorContext(ctx, "failed to process file", "rel_path", file.RelPath, "error", err)
			continue
		}

		report.FilesProcessed++
		report.Warnings = append(report.Warnings, warnings...)
		for _, entry := range entries {
			merger.Add(entry)
		}
	}

	merged := merger.Entries()
	report.Warnings = append(report.Warnings, merger.Warnings()...)

	// Word counts are computed on the merged bodies, after same-day
	// appends have settled.
	for _, entry := range merged {
		entry.WordCount = WordCount(entry.Content)
	}

	// Pass 2: persist atomically and rebuild stats.
	if err := p.store.ReplaceAll(ctx, merged); err != nil {
		return nil, fmt.Errorf("import aborted, store rolled back: %w", err)
	}
	report.EntriesImported = len(merged)

	if report.Years, err = p.store.YearStats(ctx); err != nil {
		return nil, fmt.Errorf("failed to read yearly stats: %w", err)
	}
	if report.Types, err = p.store.TypeStats(ctx); err != nil {
		return nil, fmt.Errorf("failed to read type stats: %w", err)
	}

	logger.InfoContext(ctx, "import completed",
		"files", report.FilesProcessed,
		"entries", report.EntriesImported,
		"warnings", len(report.Warnings))
	return report, nil
}

// processFile turns one source file into zero or more candidate entries.
func (p *Pipeline) processFile(file diary.SourceFile) ([]*storage.Entry, []string, error) {
	raw, err := os.ReadFile(file.AbsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}

	content := string(raw)
	if filepath.Ext(file.Name) == ".md" {
		content = FlattenMarkdown(raw)
	}
	content = strings.TrimSpace(strings.ReplaceAll(content, "\r\n", "\n"))

	if content == "" {
		return nil, []string{fmt.Sprintf("empty file skipped: %s", file.RelPath)}, nil
	}

	entryType := Classify(file.Name, file.Year, content)

	switch entryType {
	case storage.TypeRetrospective:
		return []*storage.Entry{newEntry(yearDate(file.Year, time.January, 1), content, entryType, file.RelPath)}, nil, nil

	case storage.TypeSummary:
		return []*storage.Entry{newEntry(yearDate(file.Year, time.December, 31), content, entryType, file.RelPath)}, nil, nil

	case storage.TypeSingleDay:
		// Classify only yields single_day when the filename date parses.
		date, _ := FilenameDate(file.Name, file.Year)
		return []*storage.Entry{newEntry(date, content, entryType, file.RelPath)}, nil, nil

	case storage.TypeMultiDay, storage.TypeStockDiary:
		segments, warnings := Split(content, file.Year, file.RelPath)
		if len(segments) == 0 {
			// Splitting failed; keep the whole file as one entry under the
			// filename-derived date or the year default.
			date, ok := FilenameDate(file.Name, file.Year)
			if !ok {
				date = yearDate(file.Year, time.January, 1)
			}
			warnings = append(warnings, fmt.Sprintf("multi-day split produced no segments, stored whole: %s", file.RelPath))
			return []*storage.Entry{newEntry(date, content, entryType, file.RelPath)}, warnings, nil
		}

		entries := make([]*storage.Entry, 0, len(segments))
		for _, seg := range segments {
			entries = append(entries, newEntry(seg.Date, seg.Content, entryType, file.RelPath))
		}
		return entries, warnings, nil

	default: // storage.TypeNote
		date, ok := FilenameDate(file.Name, file.Year)
		if !ok {
			date = yearDate(file.Year, time.January, 1)
		}
		return []*storage.Entry{newEntry(date, content, storage.TypeNote, file.RelPath)}, nil, nil
	}
}

func newEntry(date time.Time, content string, entryType storage.EntryType, source string) *storage.Entry {
	return &storage.Entry{
		Date:       date,
		Content:    content,
		EntryType:  entryType,
		FileSource: source,
	}
}

func yearDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
