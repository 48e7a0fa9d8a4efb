package charmap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revelaction/corefbridge/errs"
)

func TestDiffApply(t *testing.T) {
	source := "Pt’s café\nok"
	target := "Pt's cafe\nok"

	changes, err := Diff(source, target)
	require.NoError(t, err)
	assert.Equal(t, Changes{2: {"’", "'"}, 8: {"é", "e"}}, changes)

	out, err := Apply(source, changes)
	require.NoError(t, err)
	assert.Equal(t, target, out)

	// the map rebuilt from the result is the same map
	again, err := Diff(source, out)
	require.NoError(t, err)
	assert.Equal(t, changes, again)

	// a second application finds the target characters
	_, err = Apply(out, changes)
	assert.True(t, errors.Is(err, errs.ErrInvariantViolation))
}

func TestDiffLengthMismatch(t *testing.T) {
	_, err := Diff("abc", "abcd")
	assert.Error(t, err)
}

func TestApplyEmpty(t *testing.T) {
	out, err := Apply("unchanged", nil)
	require.NoError(t, err)
	assert.Equal(t, "unchanged", out)
}

func TestApplyInvariant(t *testing.T) {
	_, err := Apply("abc", Changes{9: {"x", "y"}})
	assert.True(t, errors.Is(err, errs.ErrInvariantViolation))

	_, err = Apply("abc", Changes{1: {"b", "yy"}})
	assert.True(t, errors.Is(err, errs.ErrInvariantViolation))

	_, err = Apply("abc", Changes{1: {"x", "y"}})
	assert.True(t, errors.Is(err, errs.ErrInvariantViolation))
}

func TestBuildSaveLoad(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "untouched")
	mod := filepath.Join(dir, "modified")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.MkdirAll(mod, 0o755))

	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("naïve\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(mod, "a.txt"), []byte("naive\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "b.txt"), []byte("same\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(mod, "b.txt"), []byte("same\n"), 0o644))

	m, err := Build(src, mod)
	require.NoError(t, err)
	assert.Equal(t, Map{"a.txt": {2: {"ï", "i"}}, "b.txt": {}}, m)

	path := filepath.Join(dir, "mapping.json")
	require.NoError(t, Save(path, m))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a.txt": {"2": ["ï", "i"]}, "b.txt": {}}`, string(raw))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m, loaded)
}

func TestBuildMissingModified(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("x"), 0o644))

	_, err := Build(dir, filepath.Join(dir, "nope"))
	assert.Error(t, err)
}
