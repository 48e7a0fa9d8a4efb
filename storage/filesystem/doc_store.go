package filesystem

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/revelaction/corefbridge/file"
	"github.com/revelaction/corefbridge/standoff"
	"github.com/revelaction/corefbridge/storage"
)

// DocStore is a standoff corpus directory: every document is a .txt file
// with a sibling .ann file, at any depth.
type DocStore struct {
	root string
}

var _ storage.DocRepository = (*DocStore)(nil)

// NewDocStore creates a filesystem document store rooted at root.
func NewDocStore(root string) (*DocStore, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	return &DocStore{root: root}, nil
}

func (h *DocStore) List(match string) ([]string, error) {
	var names []string

	err := filepath.WalkDir(h.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".ann" {
			return nil
		}

		if !file.Exists(file.ReplaceExt(path, "txt")) {
			return nil
		}

		rel, err := filepath.Rel(h.root, path)
		if err != nil {
			return err
		}

		name := filepath.ToSlash(strings.TrimSuffix(rel, ".ann"))
		if match == "" || strings.Contains(name, match) {
			names = append(names, name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(names)
	return names, nil
}

func (h *DocStore) path(name, ext string) string {
	return filepath.Join(h.root, filepath.FromSlash(name)+"."+ext)
}

func (h *DocStore) Read(name string) (storage.Doc, error) {
	annPath := h.path(name, "ann")
	if !file.Exists(annPath) {
		return storage.Doc{}, fmt.Errorf("%s: %w", name, storage.ErrNotFound)
	}

	text, err := file.ReadText(h.path(name, "txt"))
	if err != nil {
		return storage.Doc{}, err
	}

	ann, err := ReadAnn(annPath)
	if err != nil {
		return storage.Doc{}, err
	}

	return storage.Doc{Name: name, Text: text, Ann: ann}, nil
}

func (h *DocStore) Write(doc storage.Doc) error {
	if doc.Ann == nil {
		doc.Ann = &standoff.Document{}
	}

	// serialize first so a bad document leaves nothing behind
	var ann bytes.Buffer
	if err := standoff.Write(&ann, doc.Ann); err != nil {
		return fmt.Errorf("%s: %w", doc.Name, err)
	}

	if err := file.WriteString(h.path(doc.Name, "txt"), doc.Text); err != nil {
		return err
	}

	return file.WriteAtomic(h.path(doc.Name, "ann"), func(w io.Writer) error {
		_, err := ann.WriteTo(w)
		return err
	})
}

// ReadAnn parses the .ann file at path.
func ReadAnn(path string) (*standoff.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := standoff.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
