// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug derives URL slugs for posts whose dataset entry has none.
// Accented Latin letters are folded to ASCII, punctuation is dropped and
// word separators become single hyphens.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen caps generated slugs. Longer ones are cut at the last hyphen
// that fits.
const MaxLen = 80

// Generate creates a slug from s.
// Example: "Crème Brûlée: 3 Ways" → "creme-brulee-3-ways"
func Generate(s string) string {
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		s,
	)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-' || r == '_':
			pendingHyphen = true
		}
	}
	return truncate(b.String())
}

func truncate(s string) string {
	if len(s) <= MaxLen {
		return s
	}
	s = s[:MaxLen]
	if i := strings.LastIndexByte(s, '-'); i > 0 {
		s = s[:i]
	}
	return s
}

// Unique derives a slug from title that is not yet in used and records it.
// When the title yields nothing the fallback (typically the post id) is
// slugged instead; on collision the slugged fallback is appended.
func Unique(title, fallback string, used map[string]bool) string {
	s := Generate(title)
	if s == "" {
		s = Generate(fallback)
	}
	if used[s] {
		s = s + "-" + Generate(fallback)
	}
	used[s] = true
	return s
}
