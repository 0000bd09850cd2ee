package models

import (
	"sort"
	"strconv"
	"strings"
)

// OptionKey builds the canonical identity of a variant's option set:
// deduplicated, ascending option ids joined by commas. Two variants of the
// same product can never share a key, which is what the unique index on
// (product_id, option_key) enforces.
func OptionKey(optionIDs []int64) string {
	if len(optionIDs) == 0 {
		return ""
	}

	seen := make(map[int64]struct{}, len(optionIDs))
	ids := make([]int64, 0, len(optionIDs))
	for _, id := range optionIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
