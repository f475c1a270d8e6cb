// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package reconcile

import "testing"

func TestProtectUppercase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"the TCP protocol", "the {TCP} protocol"},
		{"Literate Programming", "{Literate} {Programming}"},
		{"eBPF in practice", "{eBPF} in practice"},
		{"all lowercase", "all lowercase"},
		// Already-braced values are left alone.
		{"the {TCP} protocol", "the {TCP} protocol"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ProtectUppercase(tt.in); got != tt.want {
			t.Errorf("ProtectUppercase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeUnicode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Gödel", `G{\"o}del`},
		{"café", `caf{\'e}`},
		{"Erdős", `Erd{\H o}s`},
		{"Karlsruhe Straße", `Karlsruhe Stra{\ss}e`},
		{"Ødegaard", `{\O}degaard`},
		{"François", `Fran{\c c}ois`},
		{"plain ascii", "plain ascii"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EscapeUnicode(tt.in); got != tt.want {
			t.Errorf("EscapeUnicode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEscapeUnicodeLeavesUnknownRunes(t *testing.T) {
	// No TeX escape is known for CJK; the text passes through.
	in := "動的計画法"
	if got := EscapeUnicode(in); got != in {
		t.Errorf("EscapeUnicode(%q) = %q", in, got)
	}
}
