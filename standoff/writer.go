package standoff

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/revelaction/corefbridge/errs"
	"github.com/revelaction/corefbridge/span"
)

// Writer emits .ann records with sequential ids starting at 1. Entities are
// registered under an identity key so relations can refer to them before
// their ids are known to the caller.
type Writer struct {
	w *bufio.Writer

	lastEntity    int
	lastRelation  int
	lastAttribute int
	lastNote      int

	registry map[string]int
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), registry: map[string]int{}}
}

// FormatSpans is the inverse of ParseSpans.
func FormatSpans(spans []span.Span) string {
	parts := make([]string, len(spans))
	for i, s := range spans {
		parts[i] = s.String()
	}
	return strings.Join(parts, ";")
}

// Entity writes a T record and registers its id under key, when key is not
// empty. A later entity with the same key takes over the key.
func (w *Writer) Entity(key, typ string, spans []span.Span, text string) (int, error) {
	if len(spans) == 0 {
		return 0, fmt.Errorf("entity %q has no span", key)
	}

	w.lastEntity++
	id := w.lastEntity

	// the text field is single-line
	text = strings.ReplaceAll(text, "\n", " ")
	if _, err := fmt.Fprintf(w.w, "T%d\t%s %s\t%s\n", id, typ, FormatSpans(spans), text); err != nil {
		return 0, err
	}

	if key != "" {
		w.registry[key] = id
	}
	return id, nil
}

// EntityID returns the id registered under key.
func (w *Writer) EntityID(key string) (int, bool) {
	id, ok := w.registry[key]
	return id, ok
}

// Relation writes an R record between two registered entities.
func (w *Writer) Relation(typ, arg1Key, arg2Key string) (int, error) {
	a1, ok := w.registry[arg1Key]
	if !ok {
		return 0, fmt.Errorf("relation %s arg1 %q: %w", typ, arg1Key, errs.ErrUnresolvedReference)
	}
	a2, ok := w.registry[arg2Key]
	if !ok {
		return 0, fmt.Errorf("relation %s arg2 %q: %w", typ, arg2Key, errs.ErrUnresolvedReference)
	}

	return w.relation(typ, a1, a2)
}

func (w *Writer) relation(typ string, a1, a2 int) (int, error) {
	w.lastRelation++
	id := w.lastRelation
	if _, err := fmt.Fprintf(w.w, "R%d\t%s Arg1:T%d Arg2:T%d\n", id, typ, a1, a2); err != nil {
		return 0, err
	}
	return id, nil
}

// Attribute writes an A record on entity id. An empty value writes a binary
// attribute.
func (w *Writer) Attribute(name string, entityID int, value string) (int, error) {
	if entityID < 1 || entityID > w.lastEntity {
		return 0, fmt.Errorf("attribute %s on T%d: %w", name, entityID, errs.ErrUnresolvedReference)
	}

	w.lastAttribute++
	id := w.lastAttribute

	var err error
	if value == "" {
		_, err = fmt.Fprintf(w.w, "A%d\t%s T%d\n", id, name, entityID)
	} else {
		_, err = fmt.Fprintf(w.w, "A%d\t%s T%d %s\n", id, name, entityID, value)
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (w *Writer) note(kind string, target int, text string) error {
	w.lastNote++
	text = strings.ReplaceAll(text, "\n", " ")
	_, err := fmt.Fprintf(w.w, "#%d\tAnnotatorNotes %s%d\t%s\n", w.lastNote, kind, target, text)
	return err
}

// Flush writes any buffered records.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// Write serializes doc. Ids are renumbered sequentially in record order and
// references follow the renumbering.
func Write(out io.Writer, doc *Document) error {
	w := NewWriter(out)

	ids := map[int]int{}
	for _, e := range doc.Entities {
		id, err := w.Entity("", e.Type, e.Spans, e.Text)
		if err != nil {
			return err
		}
		ids[e.ID] = id
	}

	for _, a := range doc.Attributes {
		target, ok := ids[a.Target]
		if !ok {
			return fmt.Errorf("attribute A%d on T%d: %w", a.ID, a.Target, errs.ErrUnresolvedReference)
		}
		if _, err := w.Attribute(a.Name, target, a.Value); err != nil {
			return err
		}
	}

	relIDs := map[int]int{}
	for _, r := range doc.Relations {
		a1, ok1 := ids[r.Arg1]
		a2, ok2 := ids[r.Arg2]
		if !ok1 || !ok2 {
			return fmt.Errorf("relation R%d: %w", r.ID, errs.ErrUnresolvedReference)
		}
		id, err := w.relation(r.Type, a1, a2)
		if err != nil {
			return err
		}
		relIDs[r.ID] = id
	}

	for _, n := range doc.Notes {
		target, ok := ids[n.Target]
		if n.TargetKind == "R" {
			target, ok = relIDs[n.Target]
		}
		if !ok {
			return fmt.Errorf("note #%d on %s%d: %w", n.ID, n.TargetKind, n.Target, errs.ErrUnresolvedReference)
		}
		if err := w.note(n.TargetKind, target, n.Text); err != nil {
			return err
		}
	}

	return w.Flush()
}
