package rag

import "context"

// Mode identifies which answering path produced a response.
type Mode string

const (
	// ModeTrip answers yes/no "did I go to X" questions from structured counts.
	ModeTrip Mode = "trip"
	// ModeWhere lists visited places for a year range from gazetteer counts.
	ModeWhere Mode = "where"
	// ModeSearch is the general path: hybrid retrieval plus LLM synthesis.
	ModeSearch Mode = "search"
)

// Completer produces a single-turn LLM completion. The concrete
// implementation lives in the llm package.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int, temperature float32) (string, error)
}

// AskRequest represents a diary question.
type AskRequest struct {
	// Question is the user's question, usually in Chinese.
	Question string `json:"question"`
}

// Result points at one diary entry that backed the answer.
type Result struct {
	// Date is the entry date in YYYY-MM-DD form.
	Date string `json:"date"`
	// EntryType is the entry's classification (single_day, stock_diary, ...).
	EntryType string `json:"entry_type"`
	// FileSource is the provenance path(s) of the entry.
	FileSource string `json:"file_source"`
}

// AskResponse represents the answer to a diary question.
type AskResponse struct {
	// Answer is the generated or rule-based answer text.
	Answer string `json:"answer"`
	// Mode names the answering path that was taken.
	Mode Mode `json:"mode"`
	// Results are the retrieved entries, newest relevance first. Empty for
	// the rule-based trip and where modes.
	Results []Result `json:"results,omitempty"`
}

// YearRange is an inclusive year filter extracted from a question.
type YearRange struct {
	From int
	To   int
}

// Single reports whether the range covers exactly one year.
func (r YearRange) Single() bool {
	return r.From == r.To
}
