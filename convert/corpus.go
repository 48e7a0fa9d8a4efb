package convert

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/revelaction/corefbridge/conll"
	"github.com/revelaction/corefbridge/file"
	"github.com/revelaction/corefbridge/logging"
	"github.com/revelaction/corefbridge/storage/filesystem"
)

const (
	docsDir     = "docs"
	conceptsDir = "concepts"
	chainsDir   = "chains"
)

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FindNativeDocs walks root for corpus parts, directories holding docs/,
// concepts/ and chains/, and returns one NativeDoc per file of docs/.
// Chains are looked up as <name>.chains, then <name>.txt.chains.
func FindNativeDocs(root string) ([]NativeDoc, error) {
	var docs []NativeDoc

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() || d.Name() != docsDir {
			return nil
		}

		part := filepath.Dir(path)
		if !isDir(filepath.Join(part, conceptsDir)) || !isDir(filepath.Join(part, chainsDir)) {
			return nil
		}

		rel, err := filepath.Rel(root, part)
		if err != nil {
			return err
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return err
		}

		for _, e := range entries {
			if !e.Type().IsRegular() {
				continue
			}

			chainPath := filepath.Join(part, chainsDir, file.ReplaceExt(e.Name(), "chains"))
			if !file.Exists(chainPath) {
				chainPath = filepath.Join(part, chainsDir, file.ReplaceExt(e.Name(), "txt.chains"))
			}

			docs = append(docs, NativeDoc{
				Name:        e.Name(),
				Rel:         rel,
				TextPath:    filepath.Join(path, e.Name()),
				ConceptPath: filepath.Join(part, conceptsDir, file.ReplaceExt(e.Name(), "con")),
				ChainPath:   chainPath,
			})
		}

		return fs.SkipDir
	})
	if err != nil {
		return nil, err
	}

	return docs, nil
}

// StandoffDoc locates a .txt/.ann pair of a standoff corpus.
type StandoffDoc struct {
	// Slash separated path relative to the corpus root, without extension
	Name string

	TextPath string
	AnnPath  string
}

// Rel is the directory of the document relative to the corpus root.
func (d StandoffDoc) Rel() string {
	return filepath.Dir(filepath.FromSlash(d.Name))
}

// FindStandoffDocs lists the annotated documents under root, sorted by name.
func FindStandoffDocs(root string) ([]StandoffDoc, error) {
	store, err := filesystem.NewDocStore(root)
	if err != nil {
		return nil, err
	}

	names, err := store.List("")
	if err != nil {
		return nil, err
	}

	docs := make([]StandoffDoc, len(names))
	for i, name := range names {
		base := filepath.Join(root, filepath.FromSlash(name))
		docs[i] = StandoffDoc{Name: name, TextPath: base + ".txt", AnnPath: base + ".ann"}
	}
	return docs, nil
}

// FindConll returns the .conll files under root in lexical walk order.
func FindConll(root string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".conll" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// ConcatConll writes the files of paths, in order, to out. Missing files
// are skipped: a failed document leaves no output.
func ConcatConll(out string, paths []string) error {
	return file.WriteAtomic(out, func(w io.Writer) error {
		for _, p := range paths {
			f, err := os.Open(p)
			if err != nil {
				if os.IsNotExist(err) {
					continue
				}
				return err
			}

			_, err = io.Copy(w, f)
			f.Close()
			if err != nil {
				return fmt.Errorf("%s: %w", p, err)
			}
		}
		return nil
	})
}

// concatPerDir writes, for every directory of paths other than root itself,
// a <dir>.conll file beside it.
func concatPerDir(root string, paths []string) error {
	byDir := map[string][]string{}
	for _, p := range paths {
		dir := filepath.Dir(p)
		if dir == filepath.Clean(root) {
			continue
		}
		byDir[dir] = append(byDir[dir], p)
	}

	dirs := make([]string, 0, len(byDir))
	for dir := range byDir {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)

	for _, dir := range dirs {
		if err := ConcatConll(dir+".conll", byDir[dir]); err != nil {
			return err
		}
	}
	return nil
}

// conllSource is a parsed document and the directory, relative to the
// corpus root, of the file it was read from.
type conllSource struct {
	rel string
	doc conll.Document
}

// readConllCorpus parses every .conll file under root. A document id seen
// before is skipped: concatenated files repeat the per-document files.
func readConllCorpus(root string, logger logging.Logger) ([]conllSource, error) {
	paths, err := FindConll(root)
	if err != nil {
		return nil, err
	}

	var sources []conllSource
	seen := map[string]string{}

	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			return nil, err
		}
		docs, err := conll.Parse(bufio.NewReader(f))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}

		rel, err := filepath.Rel(root, filepath.Dir(p))
		if err != nil {
			return nil, err
		}

		for _, d := range docs {
			if first, ok := seen[d.ID]; ok {
				logger.Warn("skipping duplicate document",
					logging.String("doc", d.ID),
					logging.String("file", p),
					logging.String("first", first))
				continue
			}
			seen[d.ID] = p
			sources = append(sources, conllSource{rel: rel, doc: d})
		}
	}

	return sources, nil
}
