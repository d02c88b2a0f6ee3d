package ingest

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// The four inline marker formats: 0401, 4_1 / 04_01, 4月1日, 04/01.
// A line is a marker only if the whole trimmed line matches.
var markerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{2})(\d{2})$`),
	regexp.MustCompile(`^(\d{1,2})_(\d{1,2})$`),
	regexp.MustCompile(`^(\d{1,2})月(\d{1,2})日$`),
	regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`),
}

// Filename date variants: exact "04_01", "04_01 封城日记", "09_01_马来西亚日记".
// Matched against the filename with its extension stripped.
var filenamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(\d{1,2})_(\d{1,2})$`),
	regexp.MustCompile(`^(\d{1,2})_(\d{1,2})\s`),
	regexp.MustCompile(`^(\d{1,2})_(\d{1,2})_`),
}

// Title banner lines like "2025 生活日记" that the splitter skips.
var titleSuffixes = []string{"生活日记", "炒股日记", "日记"}

// ParseMarker parses an inline date marker line against the given year.
// It returns false for anything that is not a whole-line marker, for
// out-of-range month/day values and for impossible calendar dates.
func ParseMarker(line string, year int) (time.Time, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return time.Time{}, false
	}

	for _, pattern := range markerPatterns {
		m := pattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		return makeDate(year, month, day)
	}
	return time.Time{}, false
}

// FilenameDate extracts a date from an MM_DD-style filename, if present.
func FilenameDate(filename string, year int) (time.Time, bool) {
	name := filename
	if dot := strings.LastIndex(name, "."); dot > 0 {
		name = name[:dot]
	}

	for _, pattern := range filenamePatterns {
		m := pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if d, ok := makeDate(year, month, day); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// IsTitleLine reports whether the line is a year-prefixed banner such as
// "2025 生活日记".
func IsTitleLine(line string, year int) bool {
	line = strings.TrimSpace(line)
	yearPrefix := strconv.Itoa(year)
	if !strings.HasPrefix(line, yearPrefix) {
		return false
	}
	rest := strings.TrimLeft(strings.TrimPrefix(line, yearPrefix), " \t")
	for _, suffix := range titleSuffixes {
		if strings.HasPrefix(rest, suffix) {
			return true
		}
	}
	return false
}

// makeDate validates month/day ranges and calendar validity (Feb 30 etc.).
func makeDate(year, month, day int) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (Feb 30 becomes Mar 2), so a changed
	// month or day means the input was not a real calendar date.
	if int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// CountMarkers counts valid inline date markers in the content.
func CountMarkers(content string, year int) int {
	count := 0
	for _, line := range strings.Split(content, "\n") {
		if _, ok := ParseMarker(line, year); ok {
			count++
		}
	}
	return count
}

// WordCount counts the non-whitespace runes of a text.
func WordCount(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}
