package convert

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/revelaction/corefbridge/charmap"
	"github.com/revelaction/corefbridge/file"
	"github.com/revelaction/corefbridge/logging"
	"github.com/revelaction/corefbridge/native"
	"github.com/revelaction/corefbridge/span"
	"github.com/revelaction/corefbridge/standoff"
	"github.com/revelaction/corefbridge/token"
)

// NativeDoc locates the three files of a native document.
type NativeDoc struct {
	// File name of the text, e.g. "clinical-1.txt"
	Name string

	// Directory of the corpus part relative to the corpus root, mirrored in
	// the output.
	Rel string

	TextPath    string
	ConceptPath string
	ChainPath   string
}

// ID is the document name without extension.
func (d NativeDoc) ID() string {
	return strings.TrimSuffix(d.Name, filepath.Ext(d.Name))
}

func readConcepts(path string, logger logging.Logger) ([]native.Concept, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return native.ParseConcepts(f, logger)
}

func readChains(path string) ([]native.ChainRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return native.ParseChains(f)
}

// NativeToStandoff converts a native document into outDir/<Name> and
// outDir/<name>.ann. The character changes are applied to the written text;
// coordinates are resolved on the original text, which has the same length.
// Entities are emitted in the order of their start line, relations in chain
// order with Arg1 the later mention of each pair.
func NativeToStandoff(doc NativeDoc, outDir string, changes charmap.Changes, logger logging.Logger) error {
	text, err := file.ReadText(doc.TextPath)
	if err != nil {
		return err
	}
	ix := token.Tokenize(text)

	concepts, err := readConcepts(doc.ConceptPath, logger)
	if err != nil {
		return err
	}

	chains, err := readChains(doc.ChainPath)
	if err != nil {
		return err
	}

	content, err := charmap.Apply(text, changes)
	if err != nil {
		return err
	}
	runes := []rune(content)

	slices.SortStableFunc(concepts, func(a, b native.Concept) int {
		return a.Start.Line - b.Start.Line
	})

	var ann bytes.Buffer
	w := standoff.NewWriter(&ann)

	for _, c := range concepts {
		s, err := ix.CharSpan(c.Start.Line, c.Start.Token, c.End.Line, c.End.Token)
		if err != nil {
			return fmt.Errorf("concept %s: %w", c.Mention, err)
		}

		trimmed, str := token.Trim(runes, s)
		if trimmed.Begin >= trimmed.End {
			logger.Warn("empty entity span", logging.String("concept", c.Mention.String()), logging.Int("begin", trimmed.Begin))
		}

		if _, err := w.Entity(c.Key(), c.Type, []span.Span{trimmed}, str); err != nil {
			return err
		}
	}

	for _, ch := range chains {
		for _, p := range ch.Pairs() {
			if _, err := w.Relation(p.Label, p.Second.Key(), p.First.Key()); err != nil {
				return err
			}
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}

	if err := file.WriteString(filepath.Join(outDir, doc.Name), content); err != nil {
		return err
	}

	return file.WriteAtomic(filepath.Join(outDir, file.ReplaceExt(doc.Name, "ann")), func(out io.Writer) error {
		_, err := ann.WriteTo(out)
		return err
	})
}
