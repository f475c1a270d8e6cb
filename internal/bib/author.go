// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"regexp"
	"strings"
)

// Name is one parsed person name. First is empty when the source only
// supplied a last name (or initials could not be separated).
type Name struct {
	Last  string
	First string

	// Particle is set when the last name carries a nobiliary particle
	// ("von Neumann", "de la Cruz").
	Particle bool
}

// String renders the name in comma-inverted form.
func (n Name) String() string {
	if n.First == "" {
		return n.Last
	}
	return n.Last + ", " + n.First
}

// nameSeparator splits "and"-delimited name lists on word boundaries,
// so "Alexander" stays intact.
var nameSeparator = regexp.MustCompile(`\s+[aA][nN][dD]\s+`)

// particles are tokens kept with the last name. Matched
// case-insensitively so capitalized forms ("Van", "De") are preserved
// too.
var particles = map[string]bool{
	"ben": true, "van": true, "von": true, "der": true,
	"de": true, "la": true, "le": true, "del": true,
}

// juniorSuffixes are generational suffixes dropped during parsing.
var juniorSuffixes = map[string]bool{"jr": true, "jnr": true, "junior": true}

// ParseNames parses an "and"-separated name list. Unparseable segments
// are skipped, so a degraded list still produces whatever names could
// be read.
func ParseNames(raw string) []Name {
	raw = strings.Join(strings.Fields(raw), " ")
	var names []Name
	for _, segment := range nameSeparator.Split(raw, -1) {
		if name, ok := ParseName(segment); ok {
			names = append(names, name)
		}
	}
	return names
}

// ParseName parses a single person name, in either comma-inverted
// ("Last, First") or natural ("First von Last") order. It strips
// trailing disambiguation numerals some providers append to last names
// ("Doe 0002") and folds nobiliary particles into the last name.
func ParseName(raw string) (Name, bool) {
	tokens := tokenizeName(raw)
	if len(tokens) == 0 {
		return Name{}, false
	}
	if i := indexComma(tokens); i >= 0 {
		return parseInverted(tokens[:i], tokens[i+1:])
	}
	return parseNatural(tokens)
}

// tokenizeName splits a name into word tokens, separating any comma
// into its own token and normalizing run-together initials ("J.R." to
// "J. R.").
func tokenizeName(raw string) []string {
	raw = strings.ReplaceAll(raw, ",", " , ")
	raw = strings.ReplaceAll(raw, ".", ". ")
	return strings.Fields(raw)
}

func indexComma(tokens []string) int {
	for i, tok := range tokens {
		if tok == "," {
			return i
		}
	}
	return -1
}

// parseInverted handles "von Last, First First2". The particle, if any,
// is already in front of the last name.
func parseInverted(last, first []string) (Name, bool) {
	last = stripNumeral(last)
	if len(last) == 0 {
		return Name{}, false
	}
	return Name{
		Last:     strings.Join(last, " "),
		First:    strings.Join(dropComma(first), " "),
		Particle: particles[strings.ToLower(last[0])],
	}, true
}

// parseNatural handles "First First2 von Last". The last token is the
// last name; particle tokens directly before it are folded in; a
// generational suffix shifts the last name one token left.
func parseNatural(tokens []string) (Name, bool) {
	tokens = stripNumeral(tokens)
	if len(tokens) == 0 {
		return Name{}, false
	}
	last := tokens[len(tokens)-1]
	firsts := tokens[:len(tokens)-1]
	if juniorSuffixes[strings.ToLower(strings.TrimSuffix(last, "."))] && len(firsts) > 0 {
		last = firsts[len(firsts)-1]
		firsts = firsts[:len(firsts)-1]
	}
	particle := false
	for len(firsts) > 0 && particles[strings.ToLower(firsts[len(firsts)-1])] {
		last = firsts[len(firsts)-1] + " " + last
		firsts = firsts[:len(firsts)-1]
		particle = true
	}
	return Name{
		Last:     last,
		First:    strings.Join(firsts, " "),
		Particle: particle,
	}, true
}

// stripNumeral removes a trailing all-digit token (provider
// disambiguation numerals like "Doe 0002").
func stripNumeral(tokens []string) []string {
	for len(tokens) > 0 && isNumeral(tokens[len(tokens)-1]) {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

func isNumeral(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func dropComma(tokens []string) []string {
	out := tokens[:0:0]
	for _, tok := range tokens {
		if tok != "," {
			out = append(out, tok)
		}
	}
	return out
}

// FormatNames renders a name list back to its "and"-separated canonical
// form.
func FormatNames(names []Name) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = n.String()
	}
	return strings.Join(parts, " and ")
}
