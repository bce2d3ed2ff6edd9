package service

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicy    = bluemonday.StrictPolicy()
	angleStripper = strings.NewReplacer("<", "", ">", "")
)

// sanitizeText strips markup from free text supplied by users and trims it.
// The result is plain text: entities are decoded and stray angle brackets removed.
func sanitizeText(s string) string {
	clean := html.UnescapeString(textPolicy.Sanitize(s))
	return strings.TrimSpace(angleStripper.Replace(clean))
}

// sanitizeList sanitizes every entry, drops blanks and duplicates, and keeps
// the first-seen order.
func sanitizeList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		v := sanitizeText(item)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
