package handlers

import (
	"net/http"

	"diary-recall/internal/contextutil"
	"diary-recall/internal/storage"
)

// StatsHandler serves the per-year and per-type corpus aggregates.
type StatsHandler struct {
	store storage.EntryStore
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(store storage.EntryStore) *StatsHandler {
	return &StatsHandler{store: store}
}

// YearStatResponse is one year's aggregate row.
type YearStatResponse struct {
	Year         int    `json:"year"`
	TotalEntries int    `json:"total_entries"`
	TotalWords   int    `json:"total_words"`
	FirstEntry   string `json:"first_entry"`
	LastEntry    string `json:"last_entry"`
}

// TypeStatResponse is one entry type's aggregate row.
type TypeStatResponse struct {
	EntryType string `json:"entry_type"`
	Entries   int    `json:"entries"`
	Words     int    `json:"words"`
}

// StatsResponse is the HTTP response payload for corpus statistics.
type StatsResponse struct {
	Years []YearStatResponse `json:"years"`
	Types []TypeStatResponse `json:"types"`
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	years, err := h.store.YearStats(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load yearly stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}
	types, err := h.store.TypeStats(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load type stats", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load stats")
		return
	}

	resp := StatsResponse{
		Years: make([]YearStatResponse, 0, len(years)),
		Types: make([]TypeStatResponse, 0, len(types)),
	}
	for _, y := range years {
		resp.Years = append(resp.Years, YearStatResponse{
			Year:         y.Year,
			TotalEntries: y.TotalEntries,
			TotalWords:   y.TotalWords,
			FirstEntry:   y.FirstEntry,
			LastEntry:    y.LastEntry,
		})
	}
	for _, t := range types {
		resp.Types = append(resp.Types, TypeStatResponse{
			EntryType: string(t.EntryType),
			Entries:   t.Entries,
			Words:     t.Words,
		})
	}

	writeJSON(ctx, w, http.StatusOK, resp)
}
