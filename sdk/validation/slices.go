package validation

import "strings"

// UniqueTrimmed trims every item, drops empties and repeats, and keeps the
// order in which items were first seen.
func UniqueTrimmed(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
