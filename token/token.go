// Package token splits raw documents into whitespace tokens and translates
// between native (line, token) coordinates and absolute character offsets.
package token

import (
	"fmt"
	"strconv"
	"strings"
)

// Token represents a whitespace-delimited chunk of a document line.
type Token struct {
	// The unmodified chunk. Empty for the zero-length token emitted when a
	// line starts with whitespace.
	Text string `json:"text"`

	// Absolute rune offsets in the normalised document, End exclusive.
	Begin int `json:"begin"`
	End   int `json:"end"`

	// 1-based line number
	Line int `json:"line"`

	// 0-based position of the token in its line
	Index int `json:"index"`
}

// Empty reports whether t is the zero-length token of a leading-whitespace line.
func (t Token) Empty() bool {
	return t.Begin == t.End
}

// Coord returns the native coordinate of t.
func (t Token) Coord() Coord {
	return Coord{Line: t.Line, Token: t.Index}
}

// Coord is a native coordinate: 1-based line, 0-based token index.
type Coord struct {
	Line  int `json:"line"`
	Token int `json:"token"`
}

func (c Coord) String() string {
	return strconv.Itoa(c.Line) + ":" + strconv.Itoa(c.Token)
}

// Less orders coordinates by line then token.
func (c Coord) Less(o Coord) bool {
	if c.Line != o.Line {
		return c.Line < o.Line
	}
	return c.Token < o.Token
}

// ParseCoord parses the "line:token" form.
func ParseCoord(s string) (Coord, error) {
	l, t, ok := strings.Cut(s, ":")
	if !ok {
		return Coord{}, fmt.Errorf("invalid coordinate %q", s)
	}

	line, err := strconv.Atoi(l)
	if err != nil {
		return Coord{}, fmt.Errorf("invalid coordinate line %q: %w", s, err)
	}

	tok, err := strconv.Atoi(t)
	if err != nil {
		return Coord{}, fmt.Errorf("invalid coordinate token %q: %w", s, err)
	}

	return Coord{Line: line, Token: tok}, nil
}

// FormatCoords joins coordinates with "|".
func FormatCoords(coords []Coord) string {
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = c.String()
	}
	return strings.Join(parts, "|")
}

// ParseCoords is the inverse of FormatCoords.
func ParseCoords(s string) ([]Coord, error) {
	if s == "" || s == "-" {
		return nil, nil
	}

	var coords []Coord
	for _, p := range strings.Split(s, "|") {
		c, err := ParseCoord(p)
		if err != nil {
			return nil, err
		}
		coords = append(coords, c)
	}

	return coords, nil
}
