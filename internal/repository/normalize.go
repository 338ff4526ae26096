package repository

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var foldCaser = cases.Fold()

// normalizeName produces the canonical form of a stop or area name used
// for fuzzy lookup (§3): diacritics stripped via NFKD decomposition and
// case folded, so "Gare de l'Est" and "gare de l'est" compare equal.
func normalizeName(name string) string {
	decomposed := norm.NFKD.String(name)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) { // skip combining marks
			continue
		}
		b.WriteRune(r)
	}
	return foldCaser.String(b.String())
}

// NormalizeName exposes normalizeName for callers outside the package
// (e.g. internal/search) that need to fold a user-typed query the same
// way stop and area names were folded at build time.
func NormalizeName(name string) string { return normalizeName(name) }
