package lsp

import "testing"

func TestPositionConverterLineCount(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected int
	}{
		{name: "empty", content: "", expected: 1},
		{name: "one line", content: "x", expected: 1},
		{name: "trailing newline", content: "x\n", expected: 2},
		{name: "two lines", content: "x\ny", expected: 2},
		{name: "blank lines", content: "\n\n", expected: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc := NewPositionConverter(tt.content)
			if got := pc.LineCount(); got != tt.expected {
				t.Errorf("LineCount() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestPositionConverterLineContent(t *testing.T) {
	pc := NewPositionConverter("one\ntwo\nthree")

	if got := pc.LineContent(1); got != "two" {
		t.Errorf("LineContent(1) = %q, want %q", got, "two")
	}
	if got := pc.LineContent(2); got != "three" {
		t.Errorf("LineContent(2) = %q, want %q", got, "three")
	}
	if got := pc.LineContent(5); got != "" {
		t.Errorf("LineContent(5) = %q, want empty", got)
	}
	if got := pc.LineContent(-1); got != "" {
		t.Errorf("LineContent(-1) = %q, want empty", got)
	}

	start, end := pc.LineByteRange(1)
	if start != 4 || end != 7 {
		t.Errorf("LineByteRange(1) = (%d, %d), want (4, 7)", start, end)
	}
}

func TestByteOffsetToPosition(t *testing.T) {
	pc := NewPositionConverter("one\ntwo\nthree")

	tests := []struct {
		name     string
		offset   int
		expected Position
	}{
		{name: "start", offset: 0, expected: Position{Line: 0, Character: 0}},
		{name: "end of first line", offset: 3, expected: Position{Line: 0, Character: 3}},
		{name: "start of second line", offset: 4, expected: Position{Line: 1, Character: 0}},
		{name: "end of content", offset: 13, expected: Position{Line: 2, Character: 5}},
		{name: "past end clamps", offset: 99, expected: Position{Line: 2, Character: 5}},
		{name: "negative clamps", offset: -1, expected: Position{Line: 0, Character: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pc.ByteOffsetToPosition(tt.offset); got != tt.expected {
				t.Errorf("ByteOffsetToPosition(%d) = %+v, want %+v", tt.offset, got, tt.expected)
			}
		})
	}
}

func TestPositionToByteOffset(t *testing.T) {
	pc := NewPositionConverter("one\ntwo\nthree")

	tests := []struct {
		name     string
		pos      Position
		expected int
	}{
		{name: "start", pos: Position{Line: 0, Character: 0}, expected: 0},
		{name: "second line", pos: Position{Line: 1, Character: 0}, expected: 4},
		{name: "end of content", pos: Position{Line: 2, Character: 5}, expected: 13},
		{name: "line past end clamps", pos: Position{Line: 5, Character: 0}, expected: 13},
		{name: "character past end clamps", pos: Position{Line: 0, Character: 99}, expected: 3},
		{name: "negative line clamps", pos: Position{Line: -1, Character: 0}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pc.PositionToByteOffset(tt.pos); got != tt.expected {
				t.Errorf("PositionToByteOffset(%+v) = %d, want %d", tt.pos, got, tt.expected)
			}
		})
	}
}

func TestPositionConverterUTF16(t *testing.T) {
	// The emoji is four bytes and two UTF-16 code units.
	pc := NewPositionConverter("a\U0001F600b")

	pos := pc.ByteOffsetToPosition(5)
	if pos != (Position{Line: 0, Character: 3}) {
		t.Errorf("ByteOffsetToPosition(5) = %+v, want line 0 char 3", pos)
	}

	if got := pc.PositionToByteOffset(Position{Line: 0, Character: 3}); got != 5 {
		t.Errorf("PositionToByteOffset(char 3) = %d, want 5", got)
	}
	if got := pc.PositionToByteOffset(Position{Line: 0, Character: 1}); got != 1 {
		t.Errorf("PositionToByteOffset(char 1) = %d, want 1", got)
	}
}

func TestRangeRoundTrip(t *testing.T) {
	content := "say hi\nsay @a[1 2 3]\ndone"
	pc := NewPositionConverter(content)

	// The selector on the middle line.
	start, end := 11, 20
	rng := pc.ByteOffsetsToRange(start, end)
	if rng.Start != (Position{Line: 1, Character: 4}) {
		t.Errorf("range start = %+v, want line 1 char 4", rng.Start)
	}
	if rng.End != (Position{Line: 1, Character: 13}) {
		t.Errorf("range end = %+v, want line 1 char 13", rng.End)
	}

	gotStart, gotEnd := pc.RangeToByteOffsets(rng)
	if gotStart != start || gotEnd != end {
		t.Errorf("RangeToByteOffsets = (%d, %d), want (%d, %d)", gotStart, gotEnd, start, end)
	}
}
