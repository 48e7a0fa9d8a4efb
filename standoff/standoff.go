// Package standoff reads and writes brat annotation files (.ann), where
// entities are addressed by absolute character offsets into a sibling .txt.
package standoff

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/revelaction/corefbridge/errs"
	"github.com/revelaction/corefbridge/span"
)

var (
	entityRe    = regexp.MustCompile(`^T(\d+)\t([^\s]+)\s([^\t]+)\t([^\t]*)$`)
	attributeRe = regexp.MustCompile(`^A(\d+)\t([^\s]+)\sT(\d+)(?:\s(.*))?$`)
	relationRe  = regexp.MustCompile(`^R(\d+)\t([^\s]+)\sArg1:T(\d+)\sArg2:T(\d+)$`)
	noteRe      = regexp.MustCompile(`^#(\d+)\tAnnotatorNotes\s(T|R)(\d+)\t(.*)$`)
)

// Entity is a T record.
type Entity struct {
	ID int

	// Spans[0] is the primary span
	Spans []span.Span

	Type string
	Text string

	// Attribute name to value, from the A records pointing at the entity.
	Attributes map[string]string

	// The entity is discontiguous.
	IsSplit bool
}

// Relation is an R record. Coreference relations are undirected.
type Relation struct {
	ID   int
	Type string
	Arg1 int
	Arg2 int
}

// Attribute is an A record. Value is empty for binary attributes.
type Attribute struct {
	ID     int
	Name   string
	Target int
	Value  string
}

// Note is an AnnotatorNotes record on an entity (T) or relation (R).
type Note struct {
	ID         int
	TargetKind string
	Target     int
	Text       string
}

// Document holds the records of one .ann file in file order.
type Document struct {
	Entities   []Entity
	Relations  []Relation
	Attributes []Attribute
	Notes      []Note

	byID map[int]int
}

// Entity returns the entity with the given T id.
func (d *Document) Entity(id int) (Entity, bool) {
	if d.byID == nil {
		d.index()
	}
	i, ok := d.byID[id]
	if !ok {
		return Entity{}, false
	}
	return d.Entities[i], true
}

func (d *Document) index() {
	d.byID = make(map[int]int, len(d.Entities))
	for i, e := range d.Entities {
		d.byID[e.ID] = i
	}
}

// ParseSpans parses the "b e;b e" span field of a T record.
func ParseSpans(s string) ([]span.Span, error) {
	var spans []span.Span
	for _, frag := range strings.Split(s, ";") {
		f := strings.Fields(frag)
		if len(f) != 2 {
			return nil, fmt.Errorf("invalid span %q", frag)
		}

		b, err := strconv.Atoi(f[0])
		if err != nil {
			return nil, fmt.Errorf("invalid span %q: %w", frag, err)
		}
		e, err := strconv.Atoi(f[1])
		if err != nil {
			return nil, fmt.Errorf("invalid span %q: %w", frag, err)
		}

		spans = append(spans, span.Span{Begin: b, End: e})
	}
	return spans, nil
}

// Parse reads an .ann file. Lines of other record kinds (events,
// normalizations) are ignored. Attributes pointing at an unknown entity are
// kept in Attributes but not attached.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{}

	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNum := 0
	for s.Scan() {
		lineNum++
		line := strings.TrimRight(s.Text(), "\r")

		if m := entityRe.FindStringSubmatch(line); m != nil {
			id, _ := strconv.Atoi(m[1])
			spans, err := ParseSpans(m[3])
			if err != nil {
				return nil, fmt.Errorf("line %d: %v: %w", lineNum, err, errs.ErrMalformedRecord)
			}

			doc.Entities = append(doc.Entities, Entity{
				ID:         id,
				Spans:      spans,
				Type:       m[2],
				Text:       m[4],
				Attributes: map[string]string{},
				IsSplit:    len(spans) > 1,
			})
			continue
		}

		if m := attributeRe.FindStringSubmatch(line); m != nil {
			id, _ := strconv.Atoi(m[1])
			target, _ := strconv.Atoi(m[3])
			doc.Attributes = append(doc.Attributes, Attribute{ID: id, Name: m[2], Target: target, Value: m[4]})
			continue
		}

		if m := relationRe.FindStringSubmatch(line); m != nil {
			id, _ := strconv.Atoi(m[1])
			a1, _ := strconv.Atoi(m[3])
			a2, _ := strconv.Atoi(m[4])
			doc.Relations = append(doc.Relations, Relation{ID: id, Type: m[2], Arg1: a1, Arg2: a2})
			continue
		}

		if m := noteRe.FindStringSubmatch(line); m != nil {
			id, _ := strconv.Atoi(m[1])
			target, _ := strconv.Atoi(m[3])
			doc.Notes = append(doc.Notes, Note{ID: id, TargetKind: m[2], Target: target, Text: m[4]})
		}
	}

	if err := s.Err(); err != nil {
		return nil, err
	}

	doc.index()
	for _, a := range doc.Attributes {
		if i, ok := doc.byID[a.Target]; ok {
			doc.Entities[i].Attributes[a.Name] = a.Value
		}
	}

	return doc, nil
}

// IDs holds the highest id of each record kind.
type IDs struct {
	Entity    int
	Attribute int
	Relation  int
	Note      int
}

// LastIDs returns the highest ids used in doc, 0 for absent kinds.
func LastIDs(doc *Document) IDs {
	var ids IDs
	for _, e := range doc.Entities {
		ids.Entity = max(ids.Entity, e.ID)
	}
	for _, a := range doc.Attributes {
		ids.Attribute = max(ids.Attribute, a.ID)
	}
	for _, r := range doc.Relations {
		ids.Relation = max(ids.Relation, r.ID)
	}
	for _, n := range doc.Notes {
		ids.Note = max(ids.Note, n.ID)
	}
	return ids
}
