package utils

import "strings"

// Truncate returns at most n leading items. A non-positive n returns the slice unchanged.
func Truncate[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[:n]
}

// UniqueLower lowercases every item and drops repeats, keeping first-seen order.
func UniqueLower(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}
