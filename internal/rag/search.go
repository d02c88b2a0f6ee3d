package rag

import (
	"context"
	"strings"

	"diary-recall/internal/contextutil"
	"diary-recall/internal/storage"
)

// searchLimit caps how many entries one retrieval round can return.
const searchLimit = 30

// likeTokenLimit caps how many keywords the substring fallback combines.
const likeTokenLimit = 6

// cityGazetteer lists the place names the "where" aggregation counts.
// Ordered roughly by how often they appear in the corpus.
var cityGazetteer = []string{
	"上海", "厦门", "广州", "北京", "天津", "成都", "重庆", "深圳", "杭州", "南京",
	"苏州", "香港", "澳门", "武汉", "青岛", "西安", "长沙", "三亚", "万宁", "福州",
	"泉州", "东京", "大阪", "京都", "首尔",
}

// buildFTSQuery turns keywords into an FTS5 MATCH expression. Each term is
// phrase-quoted with inner quotes doubled, which keeps user punctuation from
// becoming MATCH syntax. Terms are OR-joined for recall.
func buildFTSQuery(tokens []string) string {
	terms := make([]string, 0, len(tokens))
	for _, token := range tokens {
		t := strings.TrimSpace(strings.ReplaceAll(token, `"`, `""`))
		if t == "" {
			continue
		}
		terms = append(terms, `"`+t+`"`)
	}
	return strings.Join(terms, " OR ")
}

// search runs the hybrid retrieval round: FTS5 first, LIKE fallback when
// the MATCH query errors or returns nothing.
func (e *engine) search(ctx context.Context, question string, tokens []string, f storage.Filter) ([]storage.SearchHit, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if match := buildFTSQuery(tokens); match != "" {
		hits, err := e.store.SearchFullText(ctx, match, f, searchLimit)
		if err != nil {
			logger.WarnContext(ctx, "full-text search failed, falling back to substring scan",
				"match", match, "error", err)
		} else if len(hits) > 0 {
			return hits, nil
		}
	}

	likeTokens := tokens
	if len(likeTokens) > likeTokenLimit {
		likeTokens = likeTokens[:likeTokenLimit]
	}

	// With no usable tokens at all, scan for a prefix of the raw question.
	rawPrefix := ""
	if len(likeTokens) == 0 {
		rawPrefix = firstRunes(question, 50)
	}

	return e.store.SearchSubstring(ctx, likeTokens, rawPrefix, f, searchLimit)
}

// cityMention pairs a gazetteer city with its entry count.
type cityMention struct {
	City  string
	Count int
}

// cityMentions counts, for each gazetteer city, the entries inside the
// filter window whose content mentions it. Cities with no mentions are
// dropped; the rest are sorted by count descending, then name ascending.
func (e *engine) cityMentions(ctx context.Context, f storage.Filter, limit int) ([]cityMention, error) {
	var mentions []cityMention
	for _, city := range cityGazetteer {
		count, err := e.store.CountContaining(ctx, city, f)
		if err != nil {
			return nil, err
		}
		if count > 0 {
			mentions = append(mentions, cityMention{City: city, Count: count})
		}
	}

	sortCityMentions(mentions)
	if len(mentions) > limit {
		mentions = mentions[:limit]
	}
	return mentions, nil
}

func sortCityMentions(mentions []cityMention) {
	for i := 0; i < len(mentions)-1; i++ {
		for j := i + 1; j < len(mentions); j++ {
			a, b := mentions[i], mentions[j]
			if b.Count > a.Count || (b.Count == a.Count && b.City < a.City) {
				mentions[i], mentions[j] = mentions[j], mentions[i]
			}
		}
	}
}

// firstRunes returns the first n runes of s.
func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
