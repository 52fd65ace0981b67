package rewrite

import "testing"

func TestSextuplePattern(t *testing.T) {
	tests := []struct {
		in      string
		matches bool
	}{
		{"@e[111 200 333 100 222 300]", true},
		{"@e[/fill 1 2 3 4 5 6]", true},
		{"@p[/teleport -1 +2 3.5 4 5 6]", true},
		{"@c[0 0 0 0 0 0]", true},
		{"@e[1 2 3 4 5]", false},      // five coordinates
		{"@e[1 2 3 4 5 6 7]", false},  // seven coordinates
		{"@x[1 2 3 4 5 6]", false},    // unknown tag
		{"@e[ 1 2 3 4 5 6]", false},   // leading space inside brackets
		{"@e[/give 1 2 3 4 5 6]", false},
		{"@e[x=1,y=2,z=3,dx=1,dy=1,dz=1]", false},
	}

	for _, tt := range tests {
		if got := sextupleRE.MatchString(tt.in); got != tt.matches {
			t.Errorf("sextupleRE.MatchString(%q): expected %v, got %v", tt.in, tt.matches, got)
		}
	}
}

func TestTriplePattern(t *testing.T) {
	tests := []struct {
		in      string
		matches bool
	}{
		{"@a[333 555 2]", true},
		{"@s[/summon 1 2 3]", true},
		{"@p[1 2 3]", true},
		{"@r[-1 -2 -3]", true},
		{"@e[1.5 2.25 3]", true},
		{"@c[1 2 3]", true},
		{"@a[1 2]", false},
		{"@a[x=1,y=2,z=3]", false},
		{"@a[/setblock]", false},
		{"e[1 2 3]", false},
	}

	for _, tt := range tests {
		if got := tripleRE.MatchString(tt.in); got != tt.matches {
			t.Errorf("tripleRE.MatchString(%q): expected %v, got %v", tt.in, tt.matches, got)
		}
	}
}

func TestScanSubmatches(t *testing.T) {
	matches := scan(sextupleRE, "tp @e[/fill 1 2 3 4 5 6] done")
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.Tag != "@e" {
		t.Errorf("expected tag @e, got %q", m.Tag)
	}
	if m.Start != 3 {
		t.Errorf("expected start 3, got %d", m.Start)
	}
	if m.Text != "@e[/fill 1 2 3 4 5 6]" {
		t.Errorf("unexpected match text %q", m.Text)
	}
	expected := []string{"1", "2", "3", "4", "5", "6"}
	if len(m.Coords) != len(expected) {
		t.Fatalf("expected %d coords, got %d", len(expected), len(m.Coords))
	}
	for i, c := range expected {
		if m.Coords[i] != c {
			t.Errorf("coord %d: expected %q, got %q", i, c, m.Coords[i])
		}
	}
}

func TestScanMultipleOffsets(t *testing.T) {
	matches := scan(tripleRE, "@a[1 2 3] and @e[4 5 6]")
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].Start != 0 || matches[1].Start != 14 {
		t.Errorf("expected starts 0 and 14, got %d and %d", matches[0].Start, matches[1].Start)
	}
}

func TestScanNoMatch(t *testing.T) {
	if got := scan(tripleRE, "say hello world"); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := scan(sextupleRE, ""); got != nil {
		t.Errorf("expected nil for empty text, got %v", got)
	}
}
