package lsp

// PositionConverter translates between byte offsets in document content and
// LSP positions, which are 0-based line/character pairs with characters
// counted in UTF-16 code units.
type PositionConverter struct {
	content string
	lines   []lineInfo
}

// lineInfo records one line's place in the content for fast lookup.
type lineInfo struct {
	byteOffset int // byte offset of line start
	byteLen    int // length in bytes, newline excluded
}

// NewPositionConverter creates a converter for the given content.
func NewPositionConverter(content string) *PositionConverter {
	pc := &PositionConverter{content: content}
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			pc.lines = append(pc.lines, lineInfo{byteOffset: start, byteLen: i - start})
			start = i + 1
		}
	}
	// Last line may not end with a newline.
	pc.lines = append(pc.lines, lineInfo{byteOffset: start, byteLen: len(content) - start})
	return pc
}

// LineCount returns the number of lines.
func (pc *PositionConverter) LineCount() int {
	return len(pc.lines)
}

// LineContent returns the content of a line, newline excluded.
func (pc *PositionConverter) LineContent(lineNum int) string {
	if lineNum < 0 || lineNum >= len(pc.lines) {
		return ""
	}
	line := pc.lines[lineNum]
	return pc.content[line.byteOffset : line.byteOffset+line.byteLen]
}

// LineByteRange returns the byte range of a line, newline excluded.
func (pc *PositionConverter) LineByteRange(lineNum int) (start, end int) {
	if lineNum < 0 || lineNum >= len(pc.lines) {
		return 0, 0
	}
	line := pc.lines[lineNum]
	return line.byteOffset, line.byteOffset + line.byteLen
}

// ByteOffsetToPosition converts a byte offset to an LSP Position. Offsets
// outside the content clamp to its ends.
func (pc *PositionConverter) ByteOffsetToPosition(byteOffset int) Position {
	if byteOffset < 0 {
		return Position{}
	}

	lineNum := len(pc.lines) - 1
	for i, line := range pc.lines {
		if byteOffset <= line.byteOffset+line.byteLen {
			lineNum = i
			break
		}
	}

	line := pc.lines[lineNum]
	charOffset := byteOffset - line.byteOffset
	if charOffset < 0 {
		charOffset = 0
	}
	if charOffset > line.byteLen {
		charOffset = line.byteLen
	}

	lineContent := pc.content[line.byteOffset : line.byteOffset+line.byteLen]
	return Position{
		Line:      lineNum,
		Character: byteToUTF16Offset(lineContent, charOffset),
	}
}

// PositionToByteOffset converts an LSP Position to a byte offset. Positions
// outside the content clamp to its ends.
func (pc *PositionConverter) PositionToByteOffset(pos Position) int {
	if pos.Line < 0 {
		return 0
	}
	if pos.Line >= len(pc.lines) {
		return len(pc.content)
	}

	line := pc.lines[pos.Line]
	lineContent := pc.content[line.byteOffset : line.byteOffset+line.byteLen]
	return line.byteOffset + utf16ToByteOffset(lineContent, pos.Character)
}

// RangeToByteOffsets converts an LSP Range to start and end byte offsets.
func (pc *PositionConverter) RangeToByteOffsets(rng Range) (start, end int) {
	start = pc.PositionToByteOffset(rng.Start)
	end = pc.PositionToByteOffset(rng.End)
	return
}

// ByteOffsetsToRange converts start and end byte offsets to an LSP Range.
func (pc *PositionConverter) ByteOffsetsToRange(start, end int) Range {
	return Range{
		Start: pc.ByteOffsetToPosition(start),
		End:   pc.ByteOffsetToPosition(end),
	}
}

// --- UTF-16 conversion helpers ---

// utf16LenForString returns the length in UTF-16 code units.
func utf16LenForString(s string) int {
	count := 0
	for _, r := range s {
		if r >= 0x10000 {
			count += 2 // Surrogate pair
		} else {
			count++
		}
	}
	return count
}

// byteToUTF16Offset converts a byte offset within a string to a UTF-16 offset.
func byteToUTF16Offset(s string, byteOff int) int {
	if byteOff <= 0 {
		return 0
	}
	if byteOff >= len(s) {
		return utf16LenForString(s)
	}

	utf16Off := 0
	for i, r := range s {
		if i >= byteOff {
			break
		}
		if r >= 0x10000 {
			utf16Off += 2
		} else {
			utf16Off++
		}
	}
	return utf16Off
}

// utf16ToByteOffset converts a UTF-16 offset to a byte offset within a string.
func utf16ToByteOffset(s string, utf16Off int) int {
	if utf16Off <= 0 {
		return 0
	}

	utf16Count := 0
	for i, r := range s {
		if utf16Count >= utf16Off {
			return i
		}
		if r >= 0x10000 {
			utf16Count += 2
		} else {
			utf16Count++
		}
	}
	return len(s)
}
