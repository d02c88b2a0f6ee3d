package enrich

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_completer.go -package=mocks diary-recall/internal/enrich Completer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"diary-recall/internal/contextutil"
	"diary-recall/internal/storage"
)

const (
	summaryTimeout     = 60 * time.Second
	summaryMaxTokens   = 200
	summaryTemperature = 0.3

	// verbatimLimit is the rune count below which the entry text is stored
	// as its own summary without calling the model.
	verbatimLimit = 20

	// Long entries are cut to a head and a tail with a visible ellipsis
	// between, keeping prompts inside the local model's window.
	truncateLimit = 2000
	truncateHead  = 1500
	truncateTail  = 500
	ellipsisMark  = "\n\n...[中间省略]...\n\n"

	// consecutiveFailureStop aborts a full run that never succeeds, which
	// almost always means the model server is down.
	consecutiveFailureStop = 3
)

// summaryPrompt compresses a dated diary entry into one sentence.
const summaryPrompt = `你是一个日记摘要助手。请用一句话概括以下日记的核心内容，保留关键人物、地点、事件和情绪。不要添加任何评论或解释，只输出摘要本身。

日期：%s
日记内容：
%s

一句话摘要：`

// noteSummaryPrompt allows a few sentences, since notes mix topics.
const noteSummaryPrompt = `你是一个日记摘要助手。请用2-3句话概括以下笔记的核心内容，保留关键主题和要点。不要添加任何评论或解释，只输出摘要本身。

日期：%s
笔记内容：
%s

摘要：`

// sampleQuotas is how many random entries of each type a sample run takes.
var sampleQuotas = []struct {
	entryType storage.EntryType
	count     int
}{
	{storage.TypeSingleDay, 3},
	{storage.TypeMultiDay, 3},
	{storage.TypeStockDiary, 2},
	{storage.TypeNote, 1},
	{storage.TypeRetrospective, 1},
}

// Completer produces a single-turn LLM completion.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)
}

// Builder generates per-entry summaries with a local model and writes them
// back to the store. Summaries are the cheap retrieval layer: the QA prompt
// quotes many summaries but only a few full entries.
type Builder struct {
	store     storage.EntryStore
	completer Completer
}

// Result tallies one enrichment run.
type Result struct {
	Processed int
	Succeeded int
	Failed    int
}

// NewBuilder creates a summary builder.
func NewBuilder(store storage.EntryStore, completer Completer) *Builder {
	return &Builder{store: store, completer: completer}
}

// Probe checks that the model server is reachable and answering.
func (b *Builder) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	if _, err := b.completer.Complete(ctx, "请回复'OK'", 5, summaryTemperature); err != nil {
		return fmt.Errorf("model server unreachable: %w", err)
	}
	return nil
}

// RunSample summarizes a small random sample across entry types, for
// checking summary quality before committing to a full run.
func (b *Builder) RunSample(ctx context.Context) (*Result, error) {
	var entries []*storage.Entry
	for _, quota := range sampleQuotas {
		sample, err := b.store.SampleByType(ctx, quota.entryType, quota.count)
		if err != nil {
			return nil, fmt.Errorf("failed to sample %s entries: %w", quota.entryType, err)
		}
		entries = append(entries, sample...)
	}
	return b.run(ctx, entries, false)
}

// RunAll summarizes every entry that has no summary yet, oldest first.
// Interrupting is safe: finished summaries are already persisted, and the
// next run picks up the remainder.
func (b *Builder) RunAll(ctx context.Context) (*Result, error) {
	entries, err := b.store.ListMissingSummaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries without summaries: %w", err)
	}
	return b.run(ctx, entries, true)
}

func (b *Builder) run(ctx context.Context, entries []*storage.Entry, stopOnColdFailure bool) (*Result, error) {
	logger := contextutil.LoggerFromContext(ctx)
	result := &Result{}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "enrichment interrupted, progress is saved",
				"succeeded", result.Succeeded, "remaining", len(entries)-result.Processed)
			return result, ctx.Err()
		default:
		}

		result.Processed++

		summary, err := b.summaryFor(ctx, entry)
		if err != nil {
			result.Failed++
			logger.ErrorContext(ctx, "summary generation failed",
				"date", entry.DateString(), "entry_type", entry.EntryType, "error", err)
			if stopOnColdFailure && result.Failed >= consecutiveFailureStop && result.Succeeded == 0 {
				return result, fmt.Errorf("aborting after %d failures with no successes: %w", result.Failed, err)
			}
			continue
		}

		if err := b.store.UpdateSummary(ctx, entry.ID, summary); err != nil {
			return result, fmt.Errorf("failed to save summary for %s: %w", entry.DateString(), err)
		}
		result.Succeeded++
		logger.InfoContext(ctx, "summary saved",
			"date", entry.DateString(), "entry_type", entry.EntryType,
			"progress", fmt.Sprintf("%d/%d", result.Processed, len(entries)))
	}

	return result, nil
}

// summaryFor produces the summary text for one entry. Very short entries
// are their own summary.
func (b *Builder) summaryFor(ctx context.Context, entry *storage.Entry) (string, error) {
	clean := strings.TrimSpace(entry.Content)
	if len([]rune(clean)) < verbatimLimit {
		return clean, nil
	}

	template := summaryPrompt
	if entry.EntryType == storage.TypeNote {
		template = noteSummaryPrompt
	}
	prompt := fmt.Sprintf(template, entry.DateString(), truncate(clean))

	ctx, cancel := context.WithTimeout(ctx, summaryTimeout)
	defer cancel()

	summary, err := b.completer.Complete(ctx, prompt, summaryMaxTokens, summaryTemperature)
	if err != nil {
		return "", err
	}
	if summary == "" {
		return "", fmt.Errorf("model returned an empty summary")
	}
	return summary, nil
}

// truncate keeps the head and tail of over-long content.
func truncate(content string) string {
	runes := []rune(content)
	if len(runes) <= truncateLimit {
		return content
	}
	return string(runes[:truncateHead]) + ellipsisMark + string(runes[len(runes)-truncateTail:])
}
