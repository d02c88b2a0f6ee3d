package rag

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Trip yes/no question shapes: 去了X吗 / 去过X吗 / 有没有去X.
var tripPatterns = []*regexp.Regexp{
	regexp.MustCompile(`去了([\p{Han}A-Za-z]{2,10}?)了?吗$`),
	regexp.MustCompile(`去过([\p{Han}A-Za-z]{2,10}?)了?吗$`),
	regexp.MustCompile(`有没有去([\p{Han}A-Za-z]{2,10})$`),
}

var (
	citySuffixRe = regexp.MustCompile(`(这个|那个|那边|这里)$`)
	cityTrailRe  = regexp.MustCompile(`了$`)
	whereRe      = regexp.MustCompile(`去了?哪里|去过哪|到过哪`)

	yearSingleRe = regexp.MustCompile(`(\d{4})年`)
	yearDashRe   = regexp.MustCompile(`(\d{4})-(\d{4})`)
	yearToRe     = regexp.MustCompile(`(\d{4})到(\d{4})`)

	monthArabicRe = regexp.MustCompile(`(1[0-2]|[1-9])\s*月`)
	monthCJKRe    = regexp.MustCompile(`(十一|十二|十|一|二|三|四|五|六|七|八|九)月`)
)

var cjkMonths = map[string]int{
	"一": 1, "二": 2, "三": 3, "四": 4, "五": 5, "六": 6,
	"七": 7, "八": 8, "九": 9, "十": 10, "十一": 11, "十二": 12,
}

// TripCityOf extracts the place name from a yes/no trip question, if the
// question has that shape. Demonstrative and aspect suffixes stuck to the
// captured name are stripped.
func TripCityOf(question string) (string, bool) {
	q := strings.Trim(question, "？?。!！")
	for _, pattern := range tripPatterns {
		m := pattern.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		city := citySuffixRe.ReplaceAllString(m[1], "")
		city = cityTrailRe.ReplaceAllString(city, "")
		if city != "" {
			return city, true
		}
	}
	return "", false
}

// IsWhereQuestion reports whether the question asks which places were
// visited.
func IsWhereQuestion(question string) bool {
	return whereRe.MatchString(question)
}

// YearRangeOf extracts an inclusive year range from the question. Relative
// words (今年/去年/前年) resolve against the supplied current time.
func YearRangeOf(question string, now time.Time) (YearRange, bool) {
	if m := yearDashRe.FindStringSubmatch(question); m != nil {
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		return YearRange{From: from, To: to}, true
	}
	if m := yearToRe.FindStringSubmatch(question); m != nil {
		from, _ := strconv.Atoi(m[1])
		to, _ := strconv.Atoi(m[2])
		return YearRange{From: from, To: to}, true
	}
	if m := yearSingleRe.FindStringSubmatch(question); m != nil {
		year, _ := strconv.Atoi(m[1])
		return YearRange{From: year, To: year}, true
	}

	current := now.Year()
	switch {
	case strings.Contains(question, "去年"):
		return YearRange{From: current - 1, To: current - 1}, true
	case strings.Contains(question, "前年"):
		return YearRange{From: current - 2, To: current - 2}, true
	case strings.Contains(question, "今年"):
		return YearRange{From: current, To: current}, true
	}
	return YearRange{}, false
}

// MonthOf extracts a month from the question, accepting both arabic (1月,
// 12 月) and CJK numeral (十一月) spellings.
func MonthOf(question string) (int, bool) {
	if m := monthArabicRe.FindStringSubmatch(question); m != nil {
		month, _ := strconv.Atoi(m[1])
		return month, true
	}
	if m := monthCJKRe.FindStringSubmatch(question); m != nil {
		return cjkMonths[m[1]], true
	}
	return 0, false
}
