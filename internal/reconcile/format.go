// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// uppercaseWord matches any word containing an uppercase letter.
var uppercaseWord = regexp.MustCompile(`[\p{Ll}]*[\p{Lu}]+[\p{Ll}\p{Lu}]*`)

// ProtectUppercase wraps words containing capitals in braces so
// downstream capitalization-normalizing styles leave them alone.
// Already-braced text is left untouched.
func ProtectUppercase(value string) string {
	if strings.ContainsAny(value, "{}") {
		return value
	}
	return uppercaseWord.ReplaceAllString(value, "{$0}")
}

// accentEscapes maps combining marks to TeX accent commands.
var accentEscapes = map[rune]string{
	'̀': "`",  // grave
	'́': "'",  // acute
	'̂': "^",  // circumflex
	'̃': "~",  // tilde
	'̄': "=",  // macron
	'̆': "u",  // breve
	'̇': ".",  // dot above
	'̈': "\"", // diaeresis
	'̊': "r",  // ring above
	'̋': "H",  // double acute
	'̌': "v",  // caron
	'̧': "c",  // cedilla
	'̨': "k",  // ogonek
}

// specialEscapes maps characters without a base-plus-mark decomposition.
var specialEscapes = map[rune]string{
	'ß': `{\ss}`,
	'ø': `{\o}`,
	'Ø': `{\O}`,
	'ł': `{\l}`,
	'Ł': `{\L}`,
	'æ': `{\ae}`,
	'Æ': `{\AE}`,
	'œ': `{\oe}`,
	'Œ': `{\OE}`,
	'ð': `{\dh}`,
	'Ð': `{\DH}`,
	'þ': `{\th}`,
	'Þ': `{\TH}`,
}

// EscapeUnicode rewrites accented characters as TeX escape sequences
// ("é" becomes "{\'e}"). Characters with no known escape pass through
// unchanged. Only the final stored text is escaped; voting always sees
// the unescaped value.
func EscapeUnicode(value string) string {
	var b strings.Builder
	decomposed := []rune(norm.NFD.String(value))
	for i := 0; i < len(decomposed); i++ {
		r := decomposed[i]
		if esc, ok := specialEscapes[r]; ok {
			b.WriteString(esc)
			continue
		}
		if r < 0x80 {
			// Re-attach a following combining mark to this base rune.
			if i+1 < len(decomposed) {
				if cmd, ok := accentEscapes[decomposed[i+1]]; ok {
					b.WriteString(`{\` + cmd)
					// Letter commands (\c, \v, \H, ...) need a
					// separator before the base character.
					if c := cmd[0]; (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
						b.WriteByte(' ')
					}
					b.WriteRune(r)
					b.WriteString("}")
					i++
					continue
				}
			}
			b.WriteRune(r)
			continue
		}
		b.WriteString(norm.NFC.String(string(r)))
	}
	return b.String()
}
