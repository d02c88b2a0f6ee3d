package rag

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_rag.go -package=mocks diary-recall/internal/rag Completer,Engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"diary-recall/internal/contextutil"
	"diary-recall/internal/storage"
)

const (
	qaTimeout     = 120 * time.Second
	qaMaxTokens   = 800
	qaTemperature = 0.5

	// whereCityLimit caps the place list of a "where" answer.
	whereCityLimit = 15
)

// Engine answers diary questions.
type Engine interface {
	// Ask answers a question by rule-based lookup or hybrid retrieval plus
	// LLM synthesis, depending on the question's shape.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)
}

// Option configures engine construction.
type Option func(*engine)

// WithClock overrides the time source used to resolve relative year words.
func WithClock(now func() time.Time) Option {
	return func(e *engine) {
		e.now = now
	}
}

type engine struct {
	store     storage.EntryStore
	completer Completer
	extractor *Extractor
	now       func() time.Time
}

// NewEngine creates a new question-answering engine.
func NewEngine(store storage.EntryStore, completer Completer, opts ...Option) Engine {
	e := &engine{
		store:     store,
		completer: completer,
		extractor: NewExtractor(completer),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Ask dispatches a question to the cheapest path that can answer it: the
// structured trip check, the gazetteer aggregation, or full retrieval.
func (e *engine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return AskResponse{}, fmt.Errorf("empty question")
	}

	filter := storage.Filter{}
	yearRange, hasYears := YearRangeOf(question, e.now())
	if hasYears {
		filter.YearFrom = yearRange.From
		filter.YearTo = yearRange.To
	}
	if month, ok := MonthOf(question); ok {
		filter.Month = month
	}

	logger.InfoContext(ctx, "question received",
		"question", question,
		"year_from", filter.YearFrom,
		"year_to", filter.YearTo,
		"month", filter.Month,
	)

	if city, ok := TripCityOf(question); ok {
		return e.answerTrip(ctx, city, yearRange, hasYears, filter)
	}

	if hasYears && IsWhereQuestion(question) {
		return e.answerWhere(ctx, yearRange, filter)
	}

	return e.answerSearch(ctx, question, filter)
}

// answerTrip answers a yes/no presence check from a structured count.
func (e *engine) answerTrip(ctx context.Context, city string, yearRange YearRange, hasYears bool, f storage.Filter) (AskResponse, error) {
	count, err := e.store.CountContaining(ctx, city, f)
	if err != nil {
		return AskResponse{}, fmt.Errorf("failed to count mentions of %q: %w", city, err)
	}

	var scope strings.Builder
	if hasYears {
		if yearRange.Single() {
			fmt.Fprintf(&scope, "%d年", yearRange.From)
		} else {
			fmt.Fprintf(&scope, "%d-%d年", yearRange.From, yearRange.To)
		}
	}
	if f.Month != 0 {
		fmt.Fprintf(&scope, "%d月", f.Month)
	}

	var answer string
	if count > 0 {
		answer = fmt.Sprintf("去了。%s相关日记中检索到 %d 条提到“%s”的记录。", scope.String(), count, city)
	} else {
		answer = fmt.Sprintf("没去（或未记录）。%s相关日记中没有检索到“%s”的记录。", scope.String(), city)
	}
	return AskResponse{Answer: answer, Mode: ModeTrip}, nil
}

// answerWhere lists the gazetteer cities mentioned inside the year window.
func (e *engine) answerWhere(ctx context.Context, yearRange YearRange, f storage.Filter) (AskResponse, error) {
	mentions, err := e.cityMentions(ctx, f, whereCityLimit)
	if err != nil {
		return AskResponse{}, fmt.Errorf("failed to aggregate city mentions: %w", err)
	}
	if len(mentions) == 0 {
		return AskResponse{Answer: "没找到明确地点记录。", Mode: ModeWhere}, nil
	}

	parts := make([]string, 0, len(mentions))
	for _, m := range mentions {
		parts = append(parts, fmt.Sprintf("%s(%d)", m.City, m.Count))
	}
	cityText := strings.Join(parts, "、")

	var answer string
	if yearRange.Single() {
		answer = fmt.Sprintf("%d年你提到/去过的地点包括：%s。", yearRange.From, cityText)
	} else {
		answer = fmt.Sprintf("%d-%d年你提到/去过的地点包括：%s。", yearRange.From, yearRange.To, cityText)
	}
	return AskResponse{Answer: answer, Mode: ModeWhere}, nil
}

// answerSearch runs hybrid retrieval and synthesizes an answer with the LLM.
func (e *engine) answerSearch(ctx context.Context, question string, f storage.Filter) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	tokens := e.extractor.Extract(ctx, question)
	logger.DebugContext(ctx, "keywords extracted", "tokens", tokens)

	hits, err := e.search(ctx, question, tokens, f)
	if err != nil {
		return AskResponse{}, fmt.Errorf("retrieval failed: %w", err)
	}
	if len(hits) == 0 {
		return AskResponse{Answer: "没有找到相关日记。", Mode: ModeSearch}, nil
	}

	summaries, fullEntries := buildContext(hits)
	prompt := fmt.Sprintf(qaPrompt, summaries, fullEntries, question)

	qaCtx, cancel := context.WithTimeout(ctx, qaTimeout)
	defer cancel()

	answer, err := e.completer.Complete(qaCtx, prompt, qaMaxTokens, qaTemperature)
	if err != nil {
		return AskResponse{}, fmt.Errorf("failed to generate answer: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for _, hit := range hits {
		results = append(results, Result{
			Date:       hit.Entry.DateString(),
			EntryType:  string(hit.Entry.EntryType),
			FileSource: hit.Entry.FileSource,
		})
	}

	logger.InfoContext(ctx, "question answered",
		"mode", ModeSearch,
		"hits", len(hits),
		"answer_length", len(answer),
	)
	return AskResponse{Answer: answer, Mode: ModeSearch, Results: results}, nil
}
