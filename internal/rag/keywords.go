package rag

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"diary-recall/internal/contextutil"
)

const (
	maxKeywords           = 8
	keywordTimeout        = 30 * time.Second
	keywordMaxTokens      = 50
	keywordTemperature    = 0.1
	lexicalFallbackExpr   = `[\p{Han}]{2,6}|[A-Za-z]{2,}|\d{4}`
	keywordTrimCutset     = "，。！？、；：\"”“'（）《》【】()"
	keywordStripExprChars = `[\s,，。！？、；：："“”'` + "`" + `()\[\]{}<>]+`
)

var (
	lexicalFallbackRe = regexp.MustCompile(lexicalFallbackExpr)
	keywordStripRe    = regexp.MustCompile(keywordStripExprChars)
	digitsOnlyRe      = regexp.MustCompile(`^\d+$`)
)

// Extractor turns a free-form question into search keywords. The primary
// path asks the LLM to tokenize; when that fails or yields nothing it falls
// back to lexical extraction, then to splitting the question rune by rune.
type Extractor struct {
	completer Completer
}

// NewExtractor creates a keyword extractor backed by the given completer.
// A nil completer disables the LLM path.
func NewExtractor(completer Completer) *Extractor {
	return &Extractor{completer: completer}
}

// Extract returns up to eight cleaned, deduplicated keywords. It never
// returns an error; every failure mode degrades to a cheaper strategy.
func (x *Extractor) Extract(ctx context.Context, question string) []string {
	logger := contextutil.LoggerFromContext(ctx)

	if x.completer != nil {
		if tokens := x.extractWithLLM(ctx, question); len(tokens) > 0 {
			return tokens
		}
		logger.DebugContext(ctx, "LLM tokenization yielded nothing, using lexical fallback")
	}

	if tokens := normalizeKeywords(lexicalFallbackRe.FindAllString(question, -1)); len(tokens) > 0 {
		return tokens
	}

	runes := make([]string, 0, len(question))
	for _, r := range question {
		runes = append(runes, string(r))
	}
	return normalizeKeywords(runes)
}

func (x *Extractor) extractWithLLM(ctx context.Context, question string) []string {
	ctx, cancel := context.WithTimeout(ctx, keywordTimeout)
	defer cancel()

	reply, err := x.completer.Complete(ctx,
		fmt.Sprintf(tokenizePrompt, question),
		keywordMaxTokens, keywordTemperature)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "keyword extraction failed", "error", err)
		return nil
	}

	replacer := strings.NewReplacer("，", " ", "、", " ", ",", " ")
	var tokens []string
	for _, field := range strings.Fields(replacer.Replace(reply)) {
		token := strings.Trim(field, keywordTrimCutset)
		if token == "" || isStopword(token) {
			continue
		}
		tokens = append(tokens, token)
		if len(tokens) == maxKeywords {
			break
		}
	}
	return normalizeKeywords(tokens)
}

// normalizeKeywords strips punctuation and whitespace from each candidate,
// drops stopwords and short bare numbers, deduplicates preserving order and
// caps the list. FTS MATCH syntax errors start here, so the cleaning is
// deliberately aggressive.
func normalizeKeywords(candidates []string) []string {
	seen := make(map[string]struct{})
	var result []string
	for _, c := range candidates {
		token := keywordStripRe.ReplaceAllString(c, "")
		if token == "" || isStopword(token) {
			continue
		}
		if digitsOnlyRe.MatchString(token) && len(token) <= 2 {
			continue
		}
		if _, dup := seen[token]; dup {
			continue
		}
		seen[token] = struct{}{}
		result = append(result, token)
		if len(result) == maxKeywords {
			break
		}
	}
	return result
}
