package app

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/atomicstack/clock-menu/internal/menu"
)

// Entry is one demo item before it is added to the menu.
type Entry struct {
	Label  string
	Action menu.Action
}

// FilterEntries keeps the entries whose label fuzzy-matches query, in their
// original order. Matching ignores case and diacritics. An empty query
// keeps everything.
func FilterEntries(entries []Entry, query string) []Entry {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return append([]Entry(nil), entries...)
	}
	labels := make([]string, len(entries))
	for i, e := range entries {
		labels[i] = e.Label
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	matches := make(map[int]struct{}, len(ranks))
	for _, rank := range ranks {
		matches[rank.OriginalIndex] = struct{}{}
	}
	filtered := make([]Entry, 0, len(matches))
	for idx, e := range entries {
		if _, ok := matches[idx]; ok {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
