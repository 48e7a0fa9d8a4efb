// Package conll encodes coreference chains as per-token bracket markers in
// the CoNLL column format, and decodes them back into mention spans.
package conll

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/revelaction/corefbridge/chain"
	"github.com/revelaction/corefbridge/errs"
	"github.com/revelaction/corefbridge/span"
	"github.com/revelaction/corefbridge/standoff"
	"github.com/revelaction/corefbridge/token"
)

// Row is a token line of a CoNLL document.
type Row struct {
	// 1-based sentence number
	Sentence int

	Word  string
	Begin int
	End   int

	// Native coordinates of the tokens overlapping the row in the
	// reference document.
	Native []token.Coord

	Markers Markers
}

// Span returns the character span of the row.
func (r Row) Span() span.Span {
	return span.Span{Begin: r.Begin, End: r.End}
}

// Document is one "#begin document" block.
type Document struct {
	ID        string
	Sentences [][]Row
}

// Words returns the words of every row, in order.
func (d *Document) Words() []string {
	var words []string
	for _, s := range d.Sentences {
		for _, r := range s {
			words = append(words, r.Word)
		}
	}
	return words
}

// Sentences turns each line of ix into a sentence numbered by its line.
// Zero-length tokens are not rows, and lines left without rows are skipped,
// so sentence numbers may have gaps. Native coordinates are looked up in ix.
func Sentences(ix *token.Index) ([][]Row, error) {
	var sentences [][]Row

	for line, toks := range ix.Lines() {
		var rows []Row
		for _, t := range toks {
			if t.Empty() {
				continue
			}

			coords, err := ix.NativeCoords(t.Begin, t.End)
			if err != nil {
				return nil, fmt.Errorf("token %q at %s: %w", t.Text, t.Coord(), err)
			}

			rows = append(rows, Row{
				Sentence: line,
				Word:     t.Text,
				Begin:    t.Begin,
				End:      t.End,
				Native:   coords,
			})
		}

		if len(rows) > 0 {
			sentences = append(sentences, rows)
		}
	}

	return sentences, nil
}

type position struct {
	sentence int
	row      int
}

// Encode sets the markers of the rows covered by every chain member. A row
// is covered when it lies within the primary span of the entity.
func Encode(sentences [][]Row, chains []chain.Chain, doc *standoff.Document) error {
	for _, c := range chains {
		for _, id := range c.Members {
			e, ok := doc.Entity(id)
			if !ok {
				return fmt.Errorf("chain %d member T%d: %w", c.ID, id, errs.ErrUnresolvedReference)
			}
			if len(e.Spans) == 0 {
				return fmt.Errorf("chain %d member T%d: %w", c.ID, id, errs.ErrNoMappingFound)
			}
			primary := e.Spans[0]

			var covered []position
			for s, rows := range sentences {
				for r, row := range rows {
					if primary.Covers(row.Span()) {
						covered = append(covered, position{s, r})
					}
				}
			}

			switch {
			case len(covered) == 0:
				return fmt.Errorf("chain %d member T%d span %s: %w", c.ID, id, primary, errs.ErrNoMappingFound)
			case covered[0].sentence != covered[len(covered)-1].sentence:
				return fmt.Errorf("chain %d member T%d span %s: %w", c.ID, id, primary, errs.ErrDisjointSpan)
			case len(covered) == 1:
				m := &sentences[covered[0].sentence][covered[0].row].Markers
				m.Singletons = append(m.Singletons, c.ID)
			default:
				first, last := covered[0], covered[len(covered)-1]
				open := &sentences[first.sentence][first.row].Markers
				open.Opens = append(open.Opens, c.ID)
				cl := &sentences[last.sentence][last.row].Markers
				cl.Closes = append(cl.Closes, c.ID)
			}
		}
	}

	return nil
}

// Mention is a decoded chain member, addressed by row indices in a sentence.
type Mention struct {
	Chain int

	// 0-based index in Document.Sentences
	Sentence int

	// 0-based row indices, inclusive
	First int
	Last  int
}

// Decode rebuilds the mentions from the markers. Within a token opens are
// applied first, then singletons, then closes; a close matches the most
// recent open of the same chain. Mentions are ordered by sentence, first
// row, last row and chain.
func Decode(doc *Document) ([]Mention, error) {
	var mentions []Mention

	for s, rows := range doc.Sentences {
		stacks := map[int][]int{}

		for r, row := range rows {
			for _, id := range row.Markers.Opens {
				stacks[id] = append(stacks[id], r)
			}

			for _, id := range row.Markers.Singletons {
				mentions = append(mentions, Mention{Chain: id, Sentence: s, First: r, Last: r})
			}

			for _, id := range row.Markers.Closes {
				st := stacks[id]
				if len(st) == 0 {
					return nil, fmt.Errorf("%s sentence %d token %d: close of chain %d without open: %w",
						doc.ID, s+1, r, id, errs.ErrUnbalancedChain)
				}
				mentions = append(mentions, Mention{Chain: id, Sentence: s, First: st[len(st)-1], Last: r})
				stacks[id] = st[:len(st)-1]
			}
		}

		for id, st := range stacks {
			if len(st) > 0 {
				return nil, fmt.Errorf("%s sentence %d: chain %d left open at token %d: %w",
					doc.ID, s+1, id, st[len(st)-1], errs.ErrUnbalancedChain)
			}
		}
	}

	slices.SortFunc(mentions, func(a, b Mention) int {
		return cmp.Or(
			cmp.Compare(a.Sentence, b.Sentence),
			cmp.Compare(a.First, b.First),
			cmp.Compare(a.Last, b.Last),
			cmp.Compare(a.Chain, b.Chain),
		)
	})

	return mentions, nil
}
