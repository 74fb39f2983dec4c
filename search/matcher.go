package search

import "strings"

// Match is one occurrence of a query within a page's extracted text.
// Offsets are byte offsets into the scanned text, with
// 0 <= Start < End <= len(text). Matches are ephemeral; nothing references
// them by key.
type Match struct {
	// Page is the zero-based index of the page the match was found on.
	Page int
	// Text is the matched substring, in its original casing.
	Text string
	// Start is the offset of the first matched byte.
	Start int
	// End is the offset one past the last matched byte.
	End int
}

// FindMatches returns every occurrence of query in text, in ascending offset
// order. Matches may overlap: the scan for the next match resumes one byte
// after the previous match's start, not after its end, so "ana" in "banana"
// is reported at offsets 1 and 3.
//
// When caseSensitive is false both text and query are lowercased for
// matching, but Match.Text preserves the original casing. Empty text or an
// empty query yields no matches.
func FindMatches(text, query string, caseSensitive bool) []Match {
	if text == "" || query == "" {
		return nil
	}

	hay, needle := text, query
	if !caseSensitive {
		hay = strings.ToLower(text)
		needle = strings.ToLower(query)
	}

	// Lowercasing can change byte length for a few code points (e.g. U+0130).
	// When it does, offsets are only meaningful against the folded text, so
	// report substrings from it instead.
	src := text
	if len(hay) != len(text) {
		src = hay
	}

	var matches []Match
	for from := 0; ; {
		i := strings.Index(hay[from:], needle)
		if i < 0 {
			break
		}
		start := from + i
		end := start + len(needle)
		matches = append(matches, Match{
			Text:  src[start:end],
			Start: start,
			End:   end,
		})
		from = start + 1
	}
	return matches
}
