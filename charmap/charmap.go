// Package charmap records single-character substitutions between a source
// text and a modified copy of it, and replays them on the source.
package charmap

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/revelaction/corefbridge/errs"
	"github.com/revelaction/corefbridge/file"
)

// Changes maps a rune index to its [source, target] characters.
type Changes map[int][2]string

// Map holds the changes of every document, keyed by file name.
type Map map[string]Changes

// Diff compares source and target rune by rune. Both texts must have the
// same length.
func Diff(source, target string) (Changes, error) {
	src, tgt := []rune(source), []rune(target)
	if len(src) != len(tgt) {
		return nil, fmt.Errorf("length %d differs from %d: only substitutions are supported", len(src), len(tgt))
	}

	changes := Changes{}
	for i := range src {
		if src[i] != tgt[i] {
			changes[i] = [2]string{string(src[i]), string(tgt[i])}
		}
	}
	return changes, nil
}

// Apply replaces each recorded character of content. The current character
// must be the recorded source one.
func Apply(content string, changes Changes) (string, error) {
	if len(changes) == 0 {
		return content, nil
	}

	runes := []rune(content)

	indexes := make([]int, 0, len(changes))
	for idx := range changes {
		indexes = append(indexes, idx)
	}
	slices.Sort(indexes)

	for _, idx := range indexes {
		c := changes[idx]
		if idx < 0 || idx >= len(runes) {
			return "", fmt.Errorf("index %d beyond text of length %d: %w", idx, len(runes), errs.ErrInvariantViolation)
		}

		src, tgt := []rune(c[0]), []rune(c[1])
		if len(src) != 1 || len(tgt) != 1 {
			return "", fmt.Errorf("index %d: change %q -> %q is not a single character: %w", idx, c[0], c[1], errs.ErrInvariantViolation)
		}

		if runes[idx] != src[0] {
			return "", fmt.Errorf("index %d: found %q, map expects %q: %w", idx, runes[idx], src[0], errs.ErrInvariantViolation)
		}
		runes[idx] = tgt[0]
	}

	return string(runes), nil
}

// Build diffs every regular file of sourceDir against the file of the same
// name in modifiedDir. Files without changes get an empty entry.
func Build(sourceDir, modifiedDir string) (Map, error) {
	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return nil, err
	}

	m := Map{}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}

		source, err := file.ReadText(filepath.Join(sourceDir, e.Name()))
		if err != nil {
			return nil, err
		}

		modified, err := file.ReadText(filepath.Join(modifiedDir, e.Name()))
		if err != nil {
			return nil, err
		}

		changes, err := Diff(source, modified)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		m[e.Name()] = changes
	}

	return m, nil
}

// Load reads a map written by Save.
func Load(path string) (Map, error) {
	m := Map{}
	if err := file.ReadJSON(path, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// Save writes m as {"file": {"idx": ["src", "tgt"]}}.
func Save(path string, m Map) error {
	return file.WriteJSON(path, m)
}
