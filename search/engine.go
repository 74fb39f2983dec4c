package search

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// MaxResults is the global cap on matches returned by a single search. It
// bounds worst-case time and memory against pathological documents; once hit
// the partial list collected so far is returned with no error.
const MaxResults = 5000

// TextSource supplies per-page text. *document.Session implements it.
type TextSource interface {
	IsOpen() bool
	PageCount() int
	ExtractPageText(ctx context.Context, index int) (string, error)
}

// Engine performs linear text search across a document's pages.
type Engine struct {
	source TextSource
	logger *slog.Logger
}

// NewEngine creates an engine reading pages from source. A nil logger
// disables search logging.
func NewEngine(source TextSource, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{source: source, logger: logger}
}

// Search scans every page in ascending order and returns matches tagged with
// their page index. The query is trimmed first; a blank query or a closed
// source returns empty without touching the document.
func (e *Engine) Search(ctx context.Context, query string, caseSensitive bool) ([]Match, error) {
	return e.SearchRange(ctx, query, 0, e.source.PageCount()-1, caseSensitive)
}

// SearchRange is Search restricted to the inclusive page range
// [startPage, endPage], with both ends clamped to the document. A clamped
// start past the clamped end returns empty.
func (e *Engine) SearchRange(ctx context.Context, query string, startPage, endPage int, caseSensitive bool) ([]Match, error) {
	query = strings.TrimSpace(query)
	if query == "" || !e.source.IsOpen() {
		return nil, nil
	}

	total := e.source.PageCount()
	if total == 0 {
		return nil, nil
	}
	startPage = clamp(startPage, 0, total-1)
	endPage = clamp(endPage, 0, total-1)
	if startPage > endPage {
		return nil, nil
	}

	var matches []Match
	for page := startPage; page <= endPage; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := e.source.ExtractPageText(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, m := range FindMatches(text, query, caseSensitive) {
			m.Page = page
			matches = append(matches, m)
			if len(matches) >= MaxResults {
				e.logger.Debug("search truncated at result cap", "cap", MaxResults, "page", page)
				return matches, nil
			}
		}
	}
	return matches, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
