package token

import (
	"fmt"
	"iter"
	"strings"
	"unicode"

	"github.com/revelaction/corefbridge/errs"
	"github.com/revelaction/corefbridge/span"
)

// Index holds the tokens of a document, line by line.
type Index struct {
	// lines[0] holds the tokens of line 1
	lines [][]Token
}

// NewIndex builds an Index from already computed lines, lines[0] being line 1.
func NewIndex(lines [][]Token) *Index {
	return &Index{lines: lines}
}

// Normalize converts "\r\n" and lone "\r" line separators to "\n".
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// Tokenize splits text into lines and each line into whitespace tokens.
//
// Every whitespace rune is a separator, so consecutive whitespace produces
// empty chunks. An empty chunk at the start of a line yields a zero-length
// token at the cursor; other empty chunks only advance the cursor. Offsets are
// rune offsets in the normalised text.
func Tokenize(text string) *Index {
	text = Normalize(text)
	if text == "" {
		return &Index{}
	}

	raw := strings.Split(text, "\n")
	// a final separator does not open a new line
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}

	ix := &Index{lines: make([][]Token, 0, len(raw))}
	lineStart := 0
	for n, line := range raw {
		ix.lines = append(ix.lines, splitLine([]rune(line), n+1, lineStart))
		// line separator included
		lineStart += len([]rune(line)) + 1
	}

	return ix
}

// isSeparator reports whether r splits tokens: Unicode white space plus the
// information separators U+001C to U+001F.
func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
}

func splitLine(line []rune, lineNum, cursor int) []Token {
	tokens := []Token{}
	chunkStart := 0
	first := true

	emit := func(chunk []rune) {
		if len(chunk) == 0 {
			if first {
				tokens = append(tokens, Token{Begin: cursor, End: cursor, Line: lineNum, Index: len(tokens)})
			}
			cursor++
			first = false
			return
		}

		tokens = append(tokens, Token{
			Text:  string(chunk),
			Begin: cursor,
			End:   cursor + len(chunk),
			Line:  lineNum,
			Index: len(tokens),
		})
		cursor += len(chunk) + 1
		first = false
	}

	for i, r := range line {
		if isSeparator(r) {
			emit(line[chunkStart:i])
			chunkStart = i + 1
		}
	}
	emit(line[chunkStart:])

	return tokens
}

// Len returns the number of lines.
func (ix *Index) Len() int {
	return len(ix.lines)
}

// Line returns the tokens of the 1-based line n.
func (ix *Index) Line(n int) ([]Token, bool) {
	if n < 1 || n > len(ix.lines) {
		return nil, false
	}
	return ix.lines[n-1], true
}

// Lines iterates over line numbers and their tokens. The sequence can be
// ranged over any number of times.
func (ix *Index) Lines() iter.Seq2[int, []Token] {
	return func(yield func(int, []Token) bool) {
		for i, toks := range ix.lines {
			if !yield(i+1, toks) {
				return
			}
		}
	}
}

// Token returns the token at the native coordinate c.
func (ix *Index) Token(c Coord) (Token, error) {
	toks, ok := ix.Line(c.Line)
	if !ok || c.Token < 0 || c.Token >= len(toks) {
		return Token{}, fmt.Errorf("%s: %w", c, errs.ErrCoordinateOutOfRange)
	}
	return toks[c.Token], nil
}

// CharSpan maps a native span to character offsets: the begin of the start
// token to the end of the end token.
func (ix *Index) CharSpan(lineStart, tokStart, lineEnd, tokEnd int) (span.Span, error) {
	first, err := ix.Token(Coord{Line: lineStart, Token: tokStart})
	if err != nil {
		return span.Span{}, err
	}

	last, err := ix.Token(Coord{Line: lineEnd, Token: tokEnd})
	if err != nil {
		return span.Span{}, err
	}

	return span.Span{Begin: first.Begin, End: last.End}, nil
}

// NativeCoords returns the coordinates of every token overlapping the
// character range [begin, end), in document order.
func (ix *Index) NativeCoords(begin, end int) ([]Coord, error) {
	var coords []Coord
	for _, toks := range ix.lines {
		for _, t := range toks {
			if span.Overlap(begin, end, t.Begin, t.End) {
				coords = append(coords, t.Coord())
			}
		}
	}

	if len(coords) == 0 {
		return nil, fmt.Errorf("span %d-%d: %w", begin, end, errs.ErrNoMappingFound)
	}

	return coords, nil
}

// Trim shrinks s past leading and trailing whitespace of text. The returned
// string is text[begin:end] of the trimmed span.
func Trim(text []rune, s span.Span) (span.Span, string) {
	b, e := max(s.Begin, 0), min(s.End, len(text))
	if b > e {
		return span.Span{Begin: b, End: b}, ""
	}

	for b < e && unicode.IsSpace(text[b]) {
		b++
	}
	for e > b && unicode.IsSpace(text[e-1]) {
		e--
	}

	return span.Span{Begin: b, End: e}, string(text[b:e])
}
