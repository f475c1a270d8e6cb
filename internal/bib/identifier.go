// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"net/url"
	"regexp"
	"strings"
)

// doiPattern matches a DOI at the end of a string, so resolver URLs
// like "https://doi.org/10.1145/1234" normalize to the bare DOI. The
// trailing character class rejects sentence punctuation glued onto the
// suffix.
var doiPattern = regexp.MustCompile(`(10\.\d{4,9}/\S*[^;,.\s])$`)

// NormalizeDOI strips any resolver prefix and lowercases the DOI
// (DOIs are case-insensitive). Values that do not contain a
// syntactically valid DOI pass through trimmed with ok=false.
func NormalizeDOI(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if m := doiPattern.FindStringSubmatch(raw); m != nil {
		return strings.ToLower(m[1]), true
	}
	return raw, false
}

var issnShape = regexp.MustCompile(`^[0-9]{7}[0-9x]$`)

// NormalizeISSN validates one ISSN against its mod-11 check digit and
// canonicalizes it to "nnnn-nnnX". Invalid values pass through trimmed
// with ok=false.
func NormalizeISSN(raw string) (string, bool) {
	cleaned := strings.ReplaceAll(Fold(strings.ReplaceAll(strings.ToLower(raw), "issn", "")), " ", "")
	if !issnShape.MatchString(cleaned) {
		return strings.TrimSpace(raw), false
	}
	sum := 0
	for i := 0; i < 8; i++ {
		sum += (8 - i) * digitValue(cleaned[i])
	}
	if sum%11 != 0 {
		return strings.TrimSpace(raw), false
	}
	return cleaned[:4] + "-" + strings.ToUpper(cleaned[4:]), true
}

// NormalizeISSNList normalizes a comma-separated list of ISSNs. The
// list is valid only if every element validates; otherwise the raw
// value passes through.
func NormalizeISSNList(raw string) (string, bool) {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		norm, ok := NormalizeISSN(part)
		if !ok {
			return strings.TrimSpace(raw), false
		}
		out = append(out, norm)
	}
	if len(out) == 0 {
		return strings.TrimSpace(raw), false
	}
	return strings.Join(out, ", "), true
}

var (
	isbn10Shape = regexp.MustCompile(`^[0-9]{9}[0-9x]$`)
	isbn13Shape = regexp.MustCompile(`^[0-9]{13}$`)
)

// NormalizeISBN validates an ISBN-10 or ISBN-13 and canonicalizes it to
// the 13-digit "nnn-nnnnnnnnnn" form. A valid ISBN-10 is converted by
// prefixing 978 and recomputing the check digit. Invalid values pass
// through trimmed with ok=false.
func NormalizeISBN(raw string) (string, bool) {
	cleaned := strings.ReplaceAll(Fold(strings.ReplaceAll(strings.ToLower(raw), "isbn", "")), " ", "")
	switch {
	case isbn10Shape.MatchString(cleaned):
		sum := 0
		for i := 0; i < 10; i++ {
			sum += (10 - i) * digitValue(cleaned[i])
		}
		if sum%11 != 0 {
			return strings.TrimSpace(raw), false
		}
		cleaned = "978" + cleaned[:9]
		cleaned += isbn13CheckDigit(cleaned)
	case isbn13Shape.MatchString(cleaned):
		if cleaned[12:] != isbn13CheckDigit(cleaned[:12]) {
			return strings.TrimSpace(raw), false
		}
	default:
		return strings.TrimSpace(raw), false
	}
	return cleaned[:3] + "-" + cleaned[3:], true
}

// isbn13CheckDigit computes the mod-10 check digit over the first
// twelve digits.
func isbn13CheckDigit(digits string) string {
	sum := 0
	weight := 1
	for i := 0; i < 12; i++ {
		sum += digitValue(digits[i]) * weight
		if weight == 1 {
			weight = 3
		} else {
			weight = 1
		}
	}
	sum %= 10
	if sum == 0 {
		return "0"
	}
	return string(rune('0' + 10 - sum))
}

// digitValue maps '0'-'9' to its value and 'x' to 10.
func digitValue(c byte) int {
	if c == 'x' || c == 'X' {
		return 10
	}
	return int(c - '0')
}

// NormalizeURL checks well-formedness and reduces the URL to a
// canonical scheme-insensitive comparison form. Existence checks are
// the lookup layer's concern. Malformed URLs pass through trimmed with
// ok=false.
func NormalizeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return raw, false
	}
	normalized := "https://" + u.Host + u.EscapedPath()
	if u.RawQuery != "" {
		normalized += "?" + u.Query().Encode()
	}
	if u.Fragment != "" {
		normalized += "#" + u.Fragment
	}
	return normalized, true
}
