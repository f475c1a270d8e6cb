// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"strconv"
	"strings"
)

// Equivalent reports whether two raw values of a field denote the same
// thing under the field's comparator. It is symmetric and reflexive
// after normalization; normalization happens internally, so callers may
// pass raw or already-normalized values.
func Equivalent(field, a, b string) bool {
	switch Lookup(field).Comparator {
	case CmpAbbrev:
		return equivalentAbbrev(a, b)
	case CmpNames:
		na, nb := ParseNames(a), ParseNames(b)
		if len(na) == 0 && len(nb) == 0 {
			// Unparseable name lists stay reflexive under fold
			// equality, like non-numeric years.
			return Fold(a) == Fold(b)
		}
		return NamesIntersect(na, nb)
	case CmpIdentifier:
		return equivalentIdentifier(field, a, b)
	case CmpYear:
		return equivalentYear(a, b)
	default:
		na, _ := Normalize(field, a)
		nb, _ := Normalize(field, b)
		return Fold(na) == Fold(nb)
	}
}

// equivalentAbbrev accepts fold equality or a word-initial abbreviation
// in either direction ("ACM" vs "Association for Computer Machinery",
// "Proc. ACM" vs the full proceedings name).
func equivalentAbbrev(a, b string) bool {
	fa, fb := Fold(a), Fold(b)
	if fa == fb {
		return true
	}
	return isAbbrev(fa, fb) || isAbbrev(fb, fa)
}

// equivalentIdentifier compares validated identifiers by canonical
// form. Values that fail validation never match at identifier grade;
// they are only literally equal to themselves, which keeps them
// eligible for literal voting without producing false identifier
// matches.
func equivalentIdentifier(field, a, b string) bool {
	na, okA := Normalize(field, a)
	nb, okB := Normalize(field, b)
	if okA != okB {
		return false
	}
	if okA {
		return na == nb
	}
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

// equivalentYear compares numerically when both sides parse, literally
// otherwise (preserving reflexivity for non-numeric values).
func equivalentYear(a, b string) bool {
	ya, errA := strconv.Atoi(strings.TrimSpace(a))
	yb, errB := strconv.Atoi(strings.TrimSpace(b))
	if errA == nil && errB == nil {
		return ya == yb
	}
	return Fold(a) == Fold(b)
}

// PersonsMatch reports whether two parsed names plausibly denote the
// same person: last names fold-equal, and when both sides carry first
// names, one equals or abbreviates the other ("J." matches "John").
func PersonsMatch(a, b Name) bool {
	if Fold(a.Last) != Fold(b.Last) {
		return false
	}
	if a.First == "" || b.First == "" {
		return true
	}
	fa, fb := Fold(a.First), Fold(b.First)
	return fa == fb || isAbbrev(fa, fb) || isAbbrev(fb, fa)
}

// NamesIntersect reports whether two name lists share at least one
// person.
func NamesIntersect(a, b []Name) bool {
	for _, na := range a {
		for _, nb := range b {
			if PersonsMatch(na, nb) {
				return true
			}
		}
	}
	return false
}

// isAbbrev reports whether abbrev is a word-initial abbreviation of
// text. Both inputs must already be folded. Each abbreviation word
// consumes letters in order, continuing contiguously or jumping to the
// start of a later word; the first abbreviation word is anchored at the
// first word of text.
//
//	isAbbrev("proc acm", "proceedings of the association for computer machinery") == true
//	isAbbrev("jr", "junior") == false (r is not word-initial)
func isAbbrev(abbrev, text string) bool {
	awords := runeWords(abbrev)
	twords := runeWords(text)
	if len(awords) == 0 || len(twords) == 0 {
		return false
	}
	return matchAbbrevWords(awords, twords, 0, true)
}

func runeWords(s string) [][]rune {
	fields := strings.Fields(s)
	words := make([][]rune, len(fields))
	for i, f := range fields {
		words[i] = []rune(f)
	}
	return words
}

// matchAbbrevWords matches the abbreviation words in order against text
// words starting at index from. When anchored, the first abbreviation
// word must start exactly at twords[from].
func matchAbbrevWords(awords, twords [][]rune, from int, anchored bool) bool {
	if len(awords) == 0 {
		return true
	}
	for w := from; w < len(twords); w++ {
		if twords[w][0] == awords[0][0] {
			cont := func(end int) bool {
				return matchAbbrevWords(awords[1:], twords, end+1, false)
			}
			if matchAbbrevWord(awords[0][1:], twords, w, 1, cont) {
				return true
			}
		}
		if anchored {
			return false
		}
	}
	return false
}

// matchAbbrevWord consumes the remaining letters of one abbreviation
// word from position (wi, ci). Each letter continues contiguously in
// the current word or jumps to the first letter of a later word. cont
// is invoked with the index of the last word touched.
func matchAbbrevWord(letters []rune, twords [][]rune, wi, ci int, cont func(int) bool) bool {
	if len(letters) == 0 {
		return cont(wi)
	}
	c := letters[0]
	if ci < len(twords[wi]) && twords[wi][ci] == c {
		if matchAbbrevWord(letters[1:], twords, wi, ci+1, cont) {
			return true
		}
	}
	for w := wi + 1; w < len(twords); w++ {
		if twords[w][0] == c && matchAbbrevWord(letters[1:], twords, w, 1, cont) {
			return true
		}
	}
	return false
}

// PickLongest returns the more informative of two equivalent values:
// the longer one, or on equal rune length the one with more bytes
// (keeping accented variants over stripped ones).
func PickLongest(a, b string) string {
	la, lb := len([]rune(a)), len([]rune(b))
	if la > lb {
		return a
	}
	if lb > la {
		return b
	}
	if len(a) >= len(b) {
		return a
	}
	return b
}
