// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import "testing"

func TestParseName(t *testing.T) {
	tests := []struct {
		in    string
		last  string
		first string
		ok    bool
	}{
		{"Knuth, Donald E.", "Knuth", "Donald E.", true},
		{"Donald E. Knuth", "Knuth", "Donald E.", true},
		{"John von Neumann", "von Neumann", "John", true},
		{"von Neumann, John", "von Neumann", "John", true},
		{"Miguel de la Cruz", "de la Cruz", "Miguel", true},
		{"Ken Griffey Jr.", "Griffey", "Ken", true},
		{"Doe 0002", "Doe", "", true},
		{"J.R. Tolkien", "Tolkien", "J. R.", true},
		{"Plato", "Plato", "", true},
		{"", "", "", false},
		{"  ", "", "", false},
	}
	for _, tt := range tests {
		name, ok := ParseName(tt.in)
		if ok != tt.ok {
			t.Errorf("ParseName(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if !ok {
			continue
		}
		if name.Last != tt.last || name.First != tt.first {
			t.Errorf("ParseName(%q) = %q/%q, want %q/%q", tt.in, name.Last, name.First, tt.last, tt.first)
		}
	}
}

func TestParseNameParticleFlag(t *testing.T) {
	name, ok := ParseName("John von Neumann")
	if !ok || !name.Particle {
		t.Errorf("expected particle in %+v", name)
	}
	name, ok = ParseName("Knuth, Donald E.")
	if !ok || name.Particle {
		t.Errorf("unexpected particle in %+v", name)
	}
}

func TestParseNames(t *testing.T) {
	names := ParseNames("Knuth, Donald E. and Ronald L. Graham and Patashnik, Oren")
	if len(names) != 3 {
		t.Fatalf("got %d names, want 3", len(names))
	}
	wantLast := []string{"Knuth", "Graham", "Patashnik"}
	for i, w := range wantLast {
		if names[i].Last != w {
			t.Errorf("names[%d].Last = %q, want %q", i, names[i].Last, w)
		}
	}
}

func TestParseNamesKeepsAlexanderIntact(t *testing.T) {
	// "and" only splits as a standalone word.
	names := ParseNames("Alexander Grandison")
	if len(names) != 1 || names[0].Last != "Grandison" {
		t.Errorf("names = %+v", names)
	}
}

func TestParseNamesSkipsEmptySegments(t *testing.T) {
	names := ParseNames("Knuth, Donald E. and  and Graham, Ronald L.")
	if len(names) != 2 {
		t.Errorf("got %d names, want 2", len(names))
	}
}

func TestFormatNames(t *testing.T) {
	names := ParseNames("Donald E. Knuth and Ronald L. Graham")
	got := FormatNames(names)
	want := "Knuth, Donald E. and Graham, Ronald L."
	if got != want {
		t.Errorf("FormatNames = %q, want %q", got, want)
	}
}

func TestNameString(t *testing.T) {
	if got := (Name{Last: "Plato"}).String(); got != "Plato" {
		t.Errorf("String = %q", got)
	}
	if got := (Name{Last: "Knuth", First: "Donald E."}).String(); got != "Knuth, Donald E." {
		t.Errorf("String = %q", got)
	}
}
