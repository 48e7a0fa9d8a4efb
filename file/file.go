// Package file holds the file helpers shared by the converters: text
// reading, atomic writes, JSON documents and extension swapping.
package file

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/revelaction/corefbridge/token"
)

// ReadText reads a UTF-8 text file and normalises its line separators.
func ReadText(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(b) {
		return "", fmt.Errorf("%s: invalid UTF-8", path)
	}

	return token.Normalize(string(b)), nil
}

// WriteAtomic writes through fn to a temporary file in the directory of
// path, then renames it to path. Nothing is left at path when fn fails.
func WriteAtomic(path string, fn func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err = fn(tmp); err != nil {
		return err
	}

	if err = tmp.Close(); err != nil {
		return err
	}

	if err = os.Chmod(tmpPath, 0o644); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

// WriteString atomically writes s to path.
func WriteString(path, s string) error {
	return WriteAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

// ReadJSON unmarshals the JSON file at path into v.
func ReadJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// WriteJSON atomically writes v as JSON to path.
func WriteJSON(path string, v any) error {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}

	return WriteAtomic(path, func(w io.Writer) error {
		_, err := buf.WriteTo(w)
		return err
	})
}

// ReplaceExt swaps the last extension of name for ext (given without dot).
func ReplaceExt(name, ext string) string {
	return strings.TrimSuffix(name, filepath.Ext(name)) + "." + ext
}

// Exists reports whether path exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ErrOutputExists is returned by PrepareOutput when the output is present and
// overwriting was not requested.
var ErrOutputExists = errors.New("output already exists, use --overwrite")

// PrepareOutput refuses an existing path unless overwrite is set, in which
// case it is removed first. When dir is true the directory is created.
func PrepareOutput(path string, overwrite, dir bool) error {
	if Exists(path) {
		if !overwrite {
			return fmt.Errorf("%s: %w", path, ErrOutputExists)
		}
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}

	if dir {
		return os.MkdirAll(path, 0o755)
	}
	return nil
}
