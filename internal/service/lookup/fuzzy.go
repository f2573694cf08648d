package lookup

import (
	"github.com/octobees/complaint-helper/api/internal/entity"
)

// exactScore is reserved for a name identical to the query after case folding.
const exactScore = 1

// matcher finds the best fuzzy candidate for a query, returning its position
// in the dataset.
type matcher interface {
	Best(query string) (int, bool)
}

// spanMatcher ranks company names that contain the query as an in-order
// subsequence. Tighter spans rank first; ties keep dataset order.
type spanMatcher struct {
	names [][]rune
}

func newSpanMatcher(records []entity.Company) *spanMatcher {
	names := make([][]rune, len(records))
	for i, rec := range records {
		names[i] = []rune(foldCase(rec.CompanyName))
	}
	return &spanMatcher{names: names}
}

// Best returns the index of the lowest scoring name, or false when no name
// contains the query.
func (m *spanMatcher) Best(query string) (int, bool) {
	q := []rune(foldCase(query))
	if len(q) == 0 {
		return 0, false
	}

	best, bestScore := -1, 0
	for i, name := range m.names {
		score, ok := spanScore(name, q)
		if !ok {
			continue
		}
		if best < 0 || score < bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

// spanScore reports whether query is a subsequence of name and, if so, how
// loosely it is spread out. Lower is better.
func spanScore(name, query []rune) (int, bool) {
	start, end, ok := tightestSpan(name, query)
	if !ok {
		return 0, false
	}
	if string(name) == string(query) {
		return exactScore, true
	}
	if len(query) == 1 {
		return 2 + start, true
	}
	return 2 + (end - start), true
}

// tightestSpan tries every occurrence of the first query rune as an anchor and
// greedily consumes the rest. It keeps the narrowest span, earliest on ties.
func tightestSpan(name, query []rune) (int, int, bool) {
	bestStart, bestEnd := -1, -1
	for anchor, r := range name {
		if r != query[0] {
			continue
		}
		pos := anchor
		matched := true
		for _, want := range query[1:] {
			pos = indexFrom(name, want, pos+1)
			if pos < 0 {
				matched = false
				break
			}
		}
		if !matched {
			// later anchors cannot succeed where this one ran out of name
			break
		}
		if bestStart < 0 || pos-anchor < bestEnd-bestStart {
			bestStart, bestEnd = anchor, pos
		}
	}
	if bestStart < 0 {
		return 0, 0, false
	}
	return bestStart, bestEnd, true
}

func indexFrom(s []rune, r rune, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == r {
			return i
		}
	}
	return -1
}
