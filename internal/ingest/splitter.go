package ingest

import (
	"fmt"
	"strings"
	"time"
)

// maxMonthJump is the largest month difference between consecutive markers
// that is not flagged as a suspected typo. The December to January/February
// wraparound is always allowed. This threshold is a tuned heuristic; changing
// it changes which real diary entries get flagged.
const maxMonthJump = 2

// Segment is one dated slice of a multi-day file.
type Segment struct {
	Date    time.Time
	Content string
}

// Split cuts a multi-day file's content into consecutive dated segments.
// Lines that parse as whole-line date markers open a new segment; title
// banner lines are skipped; all other lines accumulate into the open
// segment with blank lines preserved as paragraph breaks. Returned warnings
// flag suspicious month jumps; the entries themselves are still kept.
func Split(content string, year int, source string) ([]Segment, []string) {
	var (
		segments []Segment
		warnings []string

		current     []string
		currentDate time.Time
		haveDate    bool
		prevMonth   int // 0 until the first marker is seen
	)

	closeSegment := func() {
		if !haveDate || len(current) == 0 {
			return
		}
		// Trim trailing blank lines from the closed segment.
		for len(current) > 0 && current[len(current)-1] == "" {
			current = current[:len(current)-1]
		}
		text := strings.TrimSpace(strings.Join(current, "\n"))
		if text != "" {
			segments = append(segments, Segment{Date: currentDate, Content: text})
		}
	}

	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			if haveDate && len(current) > 0 {
				current = append(current, "")
			}
			continue
		}

		if IsTitleLine(stripped, year) {
			continue
		}

		if date, ok := ParseMarker(stripped, year); ok {
			closeSegment()

			month := int(date.Month())
			if prevMonth != 0 && month != prevMonth {
				jump := month - prevMonth
				if jump < 0 {
					jump = -jump
				}
				if jump > maxMonthJump && !(prevMonth == 12 && month <= 2) {
					warnings = append(warnings, fmt.Sprintf(
						"date jump in %s: marker %s follows a month-%d entry, possible typo",
						source, date.Format("01/02"), prevMonth))
				}
			}
			prevMonth = month

			currentDate = date
			haveDate = true
			current = nil
			continue
		}

		current = append(current, strings.TrimRight(line, " \t\r"))
	}

	closeSegment()
	return segments, warnings
}
