// Package text provides the immutable source buffer that every other stage of
// the pipeline refers back to, along with spans, lines and locations built on
// top of it.
package text

import (
	"fmt"
	"os"
)

// Span is a half-open byte range [Start, Start+Length) within a SourceText.
type Span struct {
	Start  int
	Length int
}

// NewSpan returns the span starting at start with the given length.
func NewSpan(start, length int) Span {
	return Span{Start: start, Length: length}
}

// SpanFromBounds returns the span covering [start, end).
func SpanFromBounds(start, end int) Span {
	return Span{Start: start, Length: end - start}
}

// End returns the offset of the first byte after the span.
func (s Span) End() int {
	return s.Start + s.Length
}

// Contains reports whether pos lies within the span.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End()
}

// OverlapsWith reports whether the two spans share at least one byte.
func (s Span) OverlapsWith(other Span) bool {
	return s.Start < other.End() && other.Start < s.End()
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End())
}

// Line describes one line of a SourceText. Length excludes the line break;
// LengthIncludingLineBreak includes it.
type Line struct {
	Start                    int
	Length                   int
	LengthIncludingLineBreak int
}

// End returns the offset just past the line's content.
func (l Line) End() int {
	return l.Start + l.Length
}

// Span returns the line's content span.
func (l Line) Span() Span {
	return NewSpan(l.Start, l.Length)
}

// SpanIncludingLineBreak returns the line's span including its terminator.
func (l Line) SpanIncludingLineBreak() Span {
	return NewSpan(l.Start, l.LengthIncludingLineBreak)
}

// SourceText is an immutable source buffer. Line boundaries are computed once
// at construction.
type SourceText struct {
	text     string
	filename string
	lines    []Line
}

// New returns a SourceText for the given text. The filename is only used for
// diagnostic locations and may be empty.
func New(text, filename string) *SourceText {
	return &SourceText{
		text:     text,
		filename: filename,
		lines:    parseLines(text),
	}
}

// Load reads the named file into a SourceText.
func Load(filename string) (*SourceText, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return New(string(data), filename), nil
}

func parseLines(text string) []Line {
	var lines []Line
	position, lineStart := 0, 0
	for position < len(text) {
		width := lineBreakWidth(text, position)
		if width == 0 {
			position++
			continue
		}
		lines = append(lines, Line{
			Start:                    lineStart,
			Length:                   position - lineStart,
			LengthIncludingLineBreak: position - lineStart + width,
		})
		position += width
		lineStart = position
	}
	if position >= lineStart {
		lines = append(lines, Line{
			Start:                    lineStart,
			Length:                   position - lineStart,
			LengthIncludingLineBreak: position - lineStart,
		})
	}
	return lines
}

func lineBreakWidth(text string, position int) int {
	c := text[position]
	if c == '\r' && position+1 < len(text) && text[position+1] == '\n' {
		return 2
	}
	if c == '\r' || c == '\n' {
		return 1
	}
	return 0
}

// Filename returns the name given at construction.
func (t *SourceText) Filename() string {
	return t.filename
}

// Len returns the length of the text in bytes.
func (t *SourceText) Len() int {
	return len(t.text)
}

// Lines returns the line table. Callers must not modify it.
func (t *SourceText) Lines() []Line {
	return t.lines
}

// Line returns the line with the given 0-based index.
func (t *SourceText) Line(index int) Line {
	return t.lines[index]
}

// LineText returns the content of the given line without its line break.
func (t *SourceText) LineText(index int) string {
	return t.Slice(t.lines[index].Span())
}

// LineIndex returns the 0-based index of the line containing position.
func (t *SourceText) LineIndex(position int) int {
	lower, upper := 0, len(t.lines)-1
	for lower <= upper {
		index := lower + (upper-lower)/2
		start := t.lines[index].Start
		if position == start {
			return index
		}
		if start > position {
			upper = index - 1
		} else {
			lower = index + 1
		}
	}
	return lower - 1
}

// Slice returns the text covered by span.
func (t *SourceText) Slice(span Span) string {
	return t.text[span.Start:span.End()]
}

func (t *SourceText) String() string {
	return t.text
}

// Location ties a span to the text it belongs to.
type Location struct {
	Text *SourceText
	Span Span
}

// Filename returns the file name of the underlying text.
func (l Location) Filename() string {
	if l.Text == nil {
		return ""
	}
	return l.Text.Filename()
}

// StartLine returns the 0-based line of the span start.
func (l Location) StartLine() int {
	return l.Text.LineIndex(l.Span.Start)
}

// StartCharacter returns the 0-based byte column of the span start.
func (l Location) StartCharacter() int {
	return l.Span.Start - l.Text.Line(l.StartLine()).Start
}

// EndLine returns the 0-based line of the span end.
func (l Location) EndLine() int {
	return l.Text.LineIndex(l.Span.End())
}

// EndCharacter returns the 0-based byte column of the span end.
func (l Location) EndCharacter() int {
	return l.Span.End() - l.Text.Line(l.EndLine()).Start
}

// String returns "file:line:col" with 1-based line and column numbers.
func (l Location) String() string {
	if l.Text == nil {
		return "unknown"
	}
	pos := fmt.Sprintf("%d:%d", l.StartLine()+1, l.StartCharacter()+1)
	if name := l.Filename(); name != "" {
		return name + ":" + pos
	}
	return pos
}
