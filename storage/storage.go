package storage

import (
	"errors"

	"github.com/revelaction/corefbridge/chain"
	"github.com/revelaction/corefbridge/standoff"
)

// ErrNotFound is returned by Read for an unknown document name.
var ErrNotFound = errors.New("doc not found")

// Doc is an annotated document of a standoff corpus.
type Doc struct {
	// Path relative to the corpus root, without extension, e.g. "train/clinical-1".
	Name string

	// Normalised document text
	Text string

	Ann *standoff.Document
}

// Chains returns the coreference chains of the document.
func (d Doc) Chains() []chain.Chain {
	if d.Ann == nil {
		return nil
	}
	return chain.Build(d.Ann.Relations)
}

// DocReader defines read operations for document storage
type DocReader interface {
	// List returns the names of the documents, sorted. If match is not
	// empty, only names containing it are returned.
	List(match string) ([]string, error)

	// Read returns a document by name
	Read(name string) (Doc, error)
}

// DocWriter defines write operations for document storage
type DocWriter interface {
	// Write persists a document, replacing any document of the same name
	Write(doc Doc) error
}

// DocRepository combines read and write operations
type DocRepository interface {
	DocReader
	DocWriter
}
