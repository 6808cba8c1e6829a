package ledger

import (
	"slices"
	"strings"
)

// SortForDisplay returns items ordered by the position of their type in
// categoryOrder. Types are matched case-insensitively; unmatched types sort
// after every listed category. The sort is stable, so items of equal priority
// keep their insertion order. The input slice is not modified.
func SortForDisplay(items []LineItem, categoryOrder []string) []LineItem {
	priority := make(map[string]int, len(categoryOrder))
	for i, c := range categoryOrder {
		key := strings.ToLower(strings.TrimSpace(c))
		if _, seen := priority[key]; !seen {
			priority[key] = i
		}
	}
	rank := func(it LineItem) int {
		if p, ok := priority[strings.ToLower(strings.TrimSpace(it.Type))]; ok {
			return p
		}
		return len(categoryOrder)
	}

	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b LineItem) int {
		return rank(a) - rank(b)
	})
	return out
}
