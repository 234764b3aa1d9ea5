package service

import (
	"regexp"
)

const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// highlighter wraps every case-insensitive occurrence of a literal term.
type highlighter struct {
	re *regexp.Regexp
}

func newHighlighter(term string) *highlighter {
	return &highlighter{re: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(term))}
}

func (h *highlighter) apply(text string) string {
	return h.re.ReplaceAllString(text, markOpen+"${0}"+markClose)
}
