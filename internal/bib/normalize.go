// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents replaces accented characters with their base letters by
// decomposing to NFD and dropping combining marks.
func StripAccents(s string) string {
	// Transformers carry state, so build the chain per call; the
	// normalizers must be safe from concurrent worker goroutines.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// FoldWeak lowercases, strips accents, and collapses whitespace while
// keeping punctuation. Used where punctuation is significant.
func FoldWeak(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(StripAccents(s))), " ")
}

// Fold lowercases, strips accents, replaces every non-alphanumeric rune
// with a space, and collapses runs of spaces. This is the comparison
// form for generic text fields.
func Fold(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(StripAccents(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// pageRange matches "start<sep>end" where sep is one or more dashes, a
// unicode dash, or the word "to" set off by spaces.
var pageRange = regexp.MustCompile(`^(\S+)(?:\s*(?:-+|[–—‒―‐‑])\s*|\s+to\s+)(\S+)$`)

const pagesSeparator = "--"

// NormalizePages canonicalizes a pages value: each comma-separated part
// becomes either a single page or "start--end". Degenerate ranges
// ("5--5") collapse to the single page.
func NormalizePages(raw string) string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if m := pageRange.FindStringSubmatch(part); m != nil {
			if m[1] == m[2] {
				part = m[1]
			} else {
				part = m[1] + pagesSeparator + m[2]
			}
		}
		out = append(out, part)
	}
	return strings.Join(out, ", ")
}

// months maps recognized month names, abbreviations, and numbers to
// 1..12.
var months = map[string]int{
	"january": 1, "jan": 1, "1": 1, "01": 1,
	"february": 2, "feb": 2, "2": 2, "02": 2,
	"march": 3, "mar": 3, "3": 3, "03": 3,
	"april": 4, "apr": 4, "4": 4, "04": 4,
	"may": 5, "5": 5, "05": 5,
	"june": 6, "jun": 6, "6": 6, "06": 6,
	"july": 7, "jul": 7, "7": 7, "07": 7,
	"august": 8, "aug": 8, "8": 8, "08": 8,
	"september": 9, "sep": 9, "sept": 9, "9": 9, "09": 9,
	"october": 10, "oct": 10, "10": 10,
	"november": 11, "nov": 11, "11": 11,
	"december": 12, "dec": 12, "12": 12,
}

// NormalizeMonth coerces a month to its number "1".."12". Unrecognized
// values pass through trimmed.
func NormalizeMonth(raw string) string {
	if m, ok := months[Fold(raw)]; ok {
		return strconv.Itoa(m)
	}
	return strings.TrimSpace(raw)
}

// NormalizeYear coerces a plausible year (between 100 and ten years
// from now) to its canonical digits. Anything else passes through
// trimmed.
func NormalizeYear(raw string) string {
	raw = strings.TrimSpace(raw)
	y, err := strconv.Atoi(raw)
	if err != nil {
		return raw
	}
	if y <= 100 || y >= time.Now().Year()+10 {
		return raw
	}
	return strconv.Itoa(y)
}
