package ingest

import (
	"fmt"
	"sort"

	"diary-recall/internal/storage"
)

// mergeSeparator marks a same-day addition inside a merged entry body.
const mergeSeparator = "\n\n---[同日补充]---\n\n"

// sourceSeparator joins provenance paths of a merged entry.
const sourceSeparator = " | "

type mergeKey struct {
	date      string
	entryType storage.EntryType
}

// Merger is the in-memory arena that deduplicates entries landing on the
// same (date, entry_type) key. The first entry for a key is stored as-is;
// later ones are appended behind a visible separator with their source path
// added to the provenance list. Nothing touches storage until the whole
// candidate set has been collected.
type Merger struct {
	entries  map[mergeKey]*storage.Entry
	warnings []string
}

// NewMerger creates an empty merge arena.
func NewMerger() *Merger {
	return &Merger{entries: make(map[mergeKey]*storage.Entry)}
}

// Add feeds one candidate entry into the arena.
func (m *Merger) Add(entry *storage.Entry) {
	key := mergeKey{date: entry.DateString(), entryType: entry.EntryType}

	existing, ok := m.entries[key]
	if !ok {
		m.entries[key] = entry
		return
	}

	existing.Content += mergeSeparator + entry.Content
	existing.FileSource += sourceSeparator + entry.FileSource
	m.warnings = append(m.warnings, fmt.Sprintf(
		"same-day merge: %s (%s) from %s", key.date, key.entryType, entry.FileSource))
}

// Entries returns the merged set ordered by date then entry type, so the
// persisted result is independent of file visitation order.
func (m *Merger) Entries() []*storage.Entry {
	keys := make([]mergeKey, 0, len(m.entries))
	for key := range m.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].date != keys[j].date {
			return keys[i].date < keys[j].date
		}
		return keys[i].entryType < keys[j].entryType
	})

	entries := make([]*storage.Entry, 0, len(keys))
	for _, key := range keys {
		entries = append(entries, m.entries[key])
	}
	return entries
}

// Warnings returns the merge events recorded so far.
func (m *Merger) Warnings() []string {
	return m.warnings
}
