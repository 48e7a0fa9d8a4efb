// Package native reads and writes the i2b2 concept (.con) and coreference
// chain (.chains) files, where mentions are addressed by native coordinates.
package native

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/revelaction/corefbridge/errs"
	"github.com/revelaction/corefbridge/logging"
	"github.com/revelaction/corefbridge/token"
)

var (
	conceptRe = regexp.MustCompile(`^c="(.*)" (\d+):(\d+) (\d+):(\d+)\|\|t="(.*)"$`)
	mentionRe = regexp.MustCompile(`^c="(.*)" (\d+):(\d+) (\d+):(\d+)`)
	chainRe   = regexp.MustCompile(`^t="coref\s(.*)"`)
)

// Mention is a span of text addressed by its first and last native token.
type Mention struct {
	Text  string
	Start token.Coord
	End   token.Coord
}

// Key is the identity of a mention across concept and chain files:
// lower(text)#LS:TS#LE:TE.
func (m Mention) Key() string {
	return strings.ToLower(m.Text) + "#" + m.Start.String() + "#" + m.End.String()
}

func (m Mention) String() string {
	return fmt.Sprintf("c=%q %s %s", m.Text, m.Start, m.End)
}

// Concept is a typed mention of a .con file.
type Concept struct {
	Mention
	Type string
}

// ChainRecord is one line of a .chains file.
type ChainRecord struct {
	Mentions []Mention
	Type     string
}

// Pair is a coreference link between two consecutive mentions of a chain.
type Pair struct {
	First  Mention
	Second Mention
	Label  string
}

// Pairs returns the sliding-window pairs of the chain, labelled coref_TYPE.
func (c ChainRecord) Pairs() []Pair {
	if len(c.Mentions) < 2 {
		return nil
	}

	pairs := make([]Pair, 0, len(c.Mentions)-1)
	for i := 0; i+1 < len(c.Mentions); i++ {
		pairs = append(pairs, Pair{
			First:  c.Mentions[i],
			Second: c.Mentions[i+1],
			Label:  "coref_" + c.Type,
		})
	}
	return pairs
}

func newScanner(r io.Reader) *bufio.Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return s
}

func parseMention(groups []string) (Mention, error) {
	var nums [4]int
	for i := range nums {
		n, err := strconv.Atoi(groups[i+2])
		if err != nil {
			return Mention{}, err
		}
		nums[i] = n
	}

	return Mention{
		Text:  groups[1],
		Start: token.Coord{Line: nums[0], Token: nums[1]},
		End:   token.Coord{Line: nums[2], Token: nums[3]},
	}, nil
}

// ParseConcepts reads a .con file. Lines that are not concepts are ignored.
// Exact duplicates are logged and dropped.
func ParseConcepts(r io.Reader, logger logging.Logger) ([]Concept, error) {
	var concepts []Concept
	seen := map[Concept]bool{}

	s := newScanner(r)
	lineNum := 0
	for s.Scan() {
		lineNum++
		line := strings.TrimRight(s.Text(), "\r")

		m := conceptRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		mention, err := parseMention(m)
		if err != nil {
			return nil, fmt.Errorf("line %d: %v: %w", lineNum, err, errs.ErrMalformedRecord)
		}

		c := Concept{Mention: mention, Type: m[6]}
		if seen[c] {
			logger.Warn("skipping duplicate concept", logging.Int("line", lineNum), logging.String("concept", line))
			continue
		}
		seen[c] = true
		concepts = append(concepts, c)
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return concepts, nil
}

// ParseChains reads a .chains file.
func ParseChains(r io.Reader) ([]ChainRecord, error) {
	var chains []ChainRecord

	s := newScanner(r)
	lineNum := 0
	for s.Scan() {
		lineNum++
		line := strings.TrimRight(s.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, "||")
		tm := chainRe.FindStringSubmatch(parts[len(parts)-1])
		if tm == nil {
			return nil, fmt.Errorf("line %d: no chain type: %w", lineNum, errs.ErrMalformedRecord)
		}

		rec := ChainRecord{Type: tm[1]}
		for _, p := range parts[:len(parts)-1] {
			m := mentionRe.FindStringSubmatch(p)
			if m == nil {
				return nil, fmt.Errorf("line %d: invalid mention %q: %w", lineNum, p, errs.ErrMalformedRecord)
			}

			mention, err := parseMention(m)
			if err != nil {
				return nil, fmt.Errorf("line %d: %v: %w", lineNum, err, errs.ErrMalformedRecord)
			}
			rec.Mentions = append(rec.Mentions, mention)
		}

		chains = append(chains, rec)
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	return chains, nil
}

func formatMention(m Mention) string {
	return fmt.Sprintf(`c="%s" %s %s`, m.Text, m.Start, m.End)
}

// WriteConcepts writes concepts in the .con format.
func WriteConcepts(w io.Writer, concepts []Concept) error {
	bw := bufio.NewWriter(w)
	for _, c := range concepts {
		if _, err := fmt.Fprintf(bw, "%s||t=\"%s\"\n", formatMention(c.Mention), c.Type); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteChains writes chains in the .chains format. The mentions of each
// chain are ordered by their start coordinate.
func WriteChains(w io.Writer, chains []ChainRecord) error {
	bw := bufio.NewWriter(w)
	for _, c := range chains {
		mentions := slices.Clone(c.Mentions)
		slices.SortStableFunc(mentions, func(a, b Mention) int {
			switch {
			case a.Start.Less(b.Start):
				return -1
			case b.Start.Less(a.Start):
				return 1
			}
			return 0
		})

		parts := make([]string, 0, len(mentions)+1)
		for _, m := range mentions {
			parts = append(parts, formatMention(m))
		}
		parts = append(parts, fmt.Sprintf(`t="coref %s"`, c.Type))

		if _, err := fmt.Fprintln(bw, strings.Join(parts, "||")); err != nil {
			return err
		}
	}
	return bw.Flush()
}
