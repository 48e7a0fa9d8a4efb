package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/revelaction/corefbridge/chain"
	"github.com/revelaction/corefbridge/standoff"
	"github.com/revelaction/corefbridge/storage"
)

const Defaultformat = "chains"

var (
	Black   = "\033[1;30m"
	Red     = "\033[1;31m"
	Green   = "\033[1;32m"
	Yellow  = "\033[0;33m"
	Purple  = "\033[1;34m"
	Magenta = "\033[1;35m"
	Teal    = "\033[1;36m"
	Gray    = "\033[0;37m"
	White   = "\033[1;37m"
	Off     = "\033[0m"
	//Yellow256  = "\033[1;38;5;202m"
	Yellow256 = "\033[1;38;5;130m"
	Grey256   = "\033[1;38;5;145m"
	Green256  = "\033[1;38;5;70m"
	ClearLine = "\033[K"
)

// chain colors, cycled by chain id
var chainColors = []string{Green256, Yellow256, Teal, Magenta, Red, Purple, Green, Yellow}

func SupportedFormats() []string {
	return []string{"chains", "text", "mentions"}
}

// DocRenderer writes a document.
type DocRenderer interface {
	Render(doc storage.Doc) error
}

type Renderer struct {
	W io.Writer

	HasColor bool

	HasPrefix bool

	// Format determines what is printed of a document
	//
	// chains: one line per chain with the text of its mentions
	// text: the document text, mentions colored by chain
	// mentions: one line per entity with its span and chain
	Format string
}

var _ DocRenderer = (*Renderer)(nil)

func NewRenderer() *Renderer {
	return &Renderer{W: os.Stdout, Format: Defaultformat}
}

func ChainColor(id int) string {
	return chainColors[id%len(chainColors)]
}

func (r *Renderer) color(s string, chainID int) string {
	if !r.HasColor || chainID < 0 {
		return s
	}
	return ChainColor(chainID) + s + Off
}

// Render writes doc in the current format.
func (r *Renderer) Render(doc storage.Doc) error {
	switch r.Format {
	case "text":
		return r.Text(doc)
	case "mentions":
		return r.Mentions(doc)
	default:
		return r.Chains(doc)
	}
}

// Chains writes one line per coreference chain.
func (r *Renderer) Chains(doc storage.Doc) error {
	for _, c := range doc.Chains() {
		texts := make([]string, 0, len(c.Members))
		for _, id := range c.Members {
			e, ok := doc.Ann.Entity(id)
			if !ok {
				continue
			}
			texts = append(texts, r.color(fmt.Sprintf("%q", e.Text), c.ID))
		}

		prefix := ""
		if r.HasPrefix {
			prefix = fmt.Sprintf("[%s %3d %2d] ✍  ", r.title(doc.Name), c.ID, len(c.Members))
		}

		if _, err := fmt.Fprintf(r.W, "%s%s\n", prefix, strings.Join(texts, " | ")); err != nil {
			return err
		}
	}

	return nil
}

// Mentions writes one line per entity. Entities outside any chain have
// chain "-".
func (r *Renderer) Mentions(doc storage.Doc) error {
	if doc.Ann == nil {
		return nil
	}

	chainOf := chain.Of(doc.Chains())
	for _, e := range doc.Ann.Entities {
		id, ok := chainOf[e.ID]
		chainStr := "-"
		if !ok {
			id = -1
		} else {
			chainStr = fmt.Sprintf("%d", id)
		}

		prefix := ""
		if r.HasPrefix {
			prefix = r.title(doc.Name) + " "
		}

		_, err := fmt.Fprintf(r.W, "%sT%-4d %-12s %-12s %-4s %s\n",
			prefix, e.ID, e.Type, standoff.FormatSpans(e.Spans), chainStr, r.color(e.Text, id))
		if err != nil {
			return err
		}
	}

	return nil
}

// Text writes the document text with the characters of every chain member
// colored by chain. The first chain to claim a character keeps it.
func (r *Renderer) Text(doc storage.Doc) error {
	runes := []rune(doc.Text)
	owner := make([]int, len(runes))
	for i := range owner {
		owner[i] = -1
	}

	if doc.Ann != nil {
		for _, c := range doc.Chains() {
			for _, id := range c.Members {
				e, ok := doc.Ann.Entity(id)
				if !ok {
					continue
				}
				for _, s := range e.Spans {
					for i := max(s.Begin, 0); i < min(s.End, len(runes)); i++ {
						if owner[i] < 0 {
							owner[i] = c.ID
						}
					}
				}
			}
		}
	}

	var str strings.Builder
	line := 1
	writePrefix := func() {
		if !r.HasPrefix {
			return
		}
		if r.HasColor {
			fmt.Fprintf(&str, "%s%4d%s ", Grey256, line, Off)
			return
		}
		fmt.Fprintf(&str, "%4d ", line)
	}

	writePrefix()
	current := -1
	for i, ch := range runes {
		if r.HasColor && owner[i] != current {
			if current >= 0 {
				str.WriteString(Off)
			}
			if owner[i] >= 0 {
				str.WriteString(ChainColor(owner[i]))
			}
			current = owner[i]
		}

		str.WriteRune(ch)
		if ch == '\n' && i != len(runes)-1 {
			line++
			writePrefix()
		}
	}
	if r.HasColor && current >= 0 {
		str.WriteString(Off)
	}

	_, err := io.WriteString(r.W, str.String())
	return err
}

func (r *Renderer) title(name string) string {
	var part string
	if len(name) <= 20 {
		part = fmt.Sprintf("%-20s", name)
	} else {
		part = name[:20]
	}

	if !r.HasColor {
		return part
	}
	return Grey256 + part + Off
}

// NextFormat sets the Renderer Format option to a different one, following
// the SupportedFormats() order.
func (r *Renderer) NextFormat() {

	supported := SupportedFormats()
	for i, format := range supported {
		if format == r.Format {
			switch i {
			case len(supported) - 1:
				r.Format = supported[0]
			default:
				r.Format = supported[i+1]
			}

			break
		}
	}
}

func (r *Renderer) NextPrefix() {

	// toggle
	r.HasPrefix = !r.HasPrefix
}
