package diary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// The diary tree holds one directory per year; anything outside this span
// is not a diary year.
const (
	FirstYear = 2004
	LastYear  = 2026
)

// excludedNames are non-diary files and folders that may live inside the tree.
var excludedNames = map[string]struct{}{
	"anime_record":   {},
	"etc":            {},
	"fap":            {},
	"merged_diaries": {},
	"database_tools": {},
	".gitignore":     {},
	"README.md":      {},
	".git":           {},
}

// binaryMarkers flag filenames that embed a binary-looking extension
// (exported images, spreadsheets, rich text saved with a .txt suffix).
var binaryMarkers = []string{".jpg", ".png", ".xlsx", ".rtf"}

// SourceFile is one eligible diary file found during scanning.
type SourceFile struct {
	Year    int    // Year inferred from the containing folder
	Name    string // Base filename
	RelPath string // Path relative to the diary root, forward slashes
	AbsPath string // Absolute file path
}

// Scanner walks a diary tree of year-named subdirectories.
type Scanner struct {
	root string
}

// NewScanner creates a scanner rooted at the diary base directory.
func NewScanner(root string) *Scanner {
	return &Scanner{root: root}
}

// Scan returns every eligible diary file, ordered by year then filename.
func (s *Scanner) Scan(ctx context.Context) ([]SourceFile, error) {
	var files []SourceFile

	for year := FirstYear; year <= LastYear; year++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		yearDir := filepath.Join(s.root, strconv.Itoa(year))
		info, err := os.Stat(yearDir)
		if err != nil || !info.IsDir() {
			continue
		}

		// os.ReadDir returns entries sorted by filename, which fixes the
		// file-processing order the merger depends on.
		entries, err := os.ReadDir(yearDir)
		if err != nil {
			return nil, fmt.Errorf("failed to read year directory %s: %w", yearDir, err)
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name := entry.Name()
			if !eligible(name) {
				continue
			}
			files = append(files, SourceFile{
				Year:    year,
				Name:    name,
				RelPath: strconv.Itoa(year) + "/" + name,
				AbsPath: filepath.Join(yearDir, name),
			})
		}
	}

	return files, nil
}

// eligible reports whether a filename belongs to the diary corpus.
func eligible(name string) bool {
	if _, excluded := excludedNames[name]; excluded {
		return false
	}

	ext := filepath.Ext(name)
	if ext != ".txt" && ext != ".md" {
		return false
	}

	lower := strings.ToLower(name)
	for _, marker := range binaryMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}
	return true
}
