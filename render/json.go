package render

import (
	"encoding/json"
	"io"

	"github.com/revelaction/corefbridge/span"
	"github.com/revelaction/corefbridge/storage"
)

// JSONRenderer writes documents and their chains as JSON to a writer.
type JSONRenderer struct {
	W io.Writer
}

// NewJSONRenderer creates a JSONRenderer writing to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{W: w}
}

type jsonMention struct {
	ID    int         `json:"id"`
	Type  string      `json:"type"`
	Spans []span.Span `json:"spans"`
	Text  string      `json:"text"`
}

type jsonChain struct {
	ID       int           `json:"id"`
	Mentions []jsonMention `json:"mentions"`
}

type jsonDoc struct {
	Name   string      `json:"name"`
	Chains []jsonChain `json:"chains"`
}

// Render serializes the chains of doc as one JSON object.
func (r *JSONRenderer) Render(doc storage.Doc) error {
	out := jsonDoc{Name: doc.Name, Chains: []jsonChain{}}

	for _, c := range doc.Chains() {
		jc := jsonChain{ID: c.ID, Mentions: []jsonMention{}}
		for _, id := range c.Members {
			e, ok := doc.Ann.Entity(id)
			if !ok {
				continue
			}
			jc.Mentions = append(jc.Mentions, jsonMention{ID: e.ID, Type: e.Type, Spans: e.Spans, Text: e.Text})
		}
		out.Chains = append(out.Chains, jc)
	}

	return json.NewEncoder(r.W).Encode(out)
}

// compile-time interface check
var _ DocRenderer = (*JSONRenderer)(nil)
