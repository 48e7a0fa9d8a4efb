package convert

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/revelaction/corefbridge/conll"
	"github.com/revelaction/corefbridge/errs"
	"github.com/revelaction/corefbridge/file"
	"github.com/revelaction/corefbridge/native"
	"github.com/revelaction/corefbridge/storage"
	"github.com/revelaction/corefbridge/storage/filesystem"
	"github.com/revelaction/corefbridge/token"
)

// StandoffToConll encodes the chains of a standoff document and writes the
// CoNLL document to outPath. The document id is the .ann file name without
// extension.
func StandoffToConll(txtPath, annPath, outPath string) (*conll.Document, error) {
	text, err := file.ReadText(txtPath)
	if err != nil {
		return nil, err
	}

	ann, err := filesystem.ReadAnn(annPath)
	if err != nil {
		return nil, err
	}

	doc, err := EncodeDoc(conll.DocID(annPath), storage.Doc{Text: text, Ann: ann})
	if err != nil {
		return nil, err
	}

	err = file.WriteAtomic(outPath, func(w io.Writer) error {
		return conll.Write(w, doc)
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

// EncodeDoc builds the CoNLL document of an annotated text.
func EncodeDoc(id string, d storage.Doc) (*conll.Document, error) {
	sentences, err := conll.Sentences(token.Tokenize(d.Text))
	if err != nil {
		return nil, err
	}

	if err := conll.Encode(sentences, d.Chains(), d.Ann); err != nil {
		return nil, err
	}

	return &conll.Document{ID: id, Sentences: sentences}, nil
}

// NativeFromConll decodes the mentions of doc into concepts and chains.
// Mention text is the lowercased words of the mention; its coordinates are
// the first and last native coordinates of its rows. Chains of a single
// mention produce a concept but no chain line.
func NativeFromConll(doc *conll.Document, conceptType string) ([]native.Concept, []native.ChainRecord, error) {
	mentions, err := conll.Decode(doc)
	if err != nil {
		return nil, nil, err
	}

	var (
		concepts []native.Concept
		seen     = map[string]bool{}
		byChain  = map[int][]native.Mention{}
		order    []int
	)

	for _, m := range mentions {
		rows := doc.Sentences[m.Sentence][m.First : m.Last+1]

		first, last := rows[0], rows[len(rows)-1]
		if len(first.Native) == 0 || len(last.Native) == 0 {
			return nil, nil, fmt.Errorf("%s sentence %d: mention of chain %d has no native coordinates: %w",
				doc.ID, first.Sentence, m.Chain, errs.ErrNoMappingFound)
		}

		words := make([]string, len(rows))
		for i, r := range rows {
			words[i] = r.Word
		}

		mention := native.Mention{
			Text:  strings.ToLower(strings.Join(words, " ")),
			Start: first.Native[0],
			End:   last.Native[len(last.Native)-1],
		}

		if !seen[mention.Key()] {
			seen[mention.Key()] = true
			concepts = append(concepts, native.Concept{Mention: mention, Type: conceptType})
		}

		if _, ok := byChain[m.Chain]; !ok {
			order = append(order, m.Chain)
		}
		byChain[m.Chain] = append(byChain[m.Chain], mention)
	}

	slices.SortStableFunc(concepts, func(a, b native.Concept) int {
		switch {
		case a.Start.Less(b.Start):
			return -1
		case b.Start.Less(a.Start):
			return 1
		}
		return 0
	})

	slices.Sort(order)
	var chains []native.ChainRecord
	for _, id := range order {
		if len(byChain[id]) < 2 {
			continue
		}
		chains = append(chains, native.ChainRecord{Mentions: byChain[id], Type: conceptType})
	}

	return concepts, chains, nil
}

// ConllToNative writes outDir/concepts/<id>.con and outDir/chains/<id>.chains
// for doc.
func ConllToNative(doc *conll.Document, outDir, conceptType string) error {
	concepts, chains, err := NativeFromConll(doc, conceptType)
	if err != nil {
		return err
	}

	err = file.WriteAtomic(filepath.Join(outDir, "concepts", doc.ID+".con"), func(w io.Writer) error {
		return native.WriteConcepts(w, concepts)
	})
	if err != nil {
		return err
	}

	return file.WriteAtomic(filepath.Join(outDir, "chains", doc.ID+".chains"), func(w io.Writer) error {
		return native.WriteChains(w, chains)
	})
}
