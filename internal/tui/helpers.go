package tui

import "strings"

// truncate shortens a string to max runes with ellipsis
func truncate(s string, max int) string {
	r := []rune(s)
	if max < 4 || len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

// splitTitle separates trailing #tag words from a task title
func splitTitle(input string) (string, []string) {
	var words, tags []string
	for _, w := range strings.Fields(input) {
		if len(w) > 1 && strings.HasPrefix(w, "#") {
			tags = append(tags, strings.TrimPrefix(w, "#"))
			continue
		}
		words = append(words, w)
	}
	return strings.Join(words, " "), tags
}
