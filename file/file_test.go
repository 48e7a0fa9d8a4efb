package file

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "doc.ann")

	require.NoError(t, WriteString(path, "T1\tproblem 0 2\tpt\n"))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "T1\tproblem 0 2\tpt\n", string(b))

	boom := errors.New("boom")
	err = WriteAtomic(path, func(w io.Writer) error {
		io.WriteString(w, "partial")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	// previous content untouched, no temp file left
	b, _ = os.ReadFile(path)
	assert.Equal(t, "T1\tproblem 0 2\tpt\n", string(b))
	entries, _ := os.ReadDir(filepath.Dir(path))
	assert.Len(t, entries, 1)
}

func TestReadText(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\r\nb\r\n"), 0o644))

	s, err := ReadText(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", s)

	bad := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(bad, []byte{0xff, 0xfe}, 0o644))
	_, err = ReadText(bad)
	assert.Error(t, err)
}

func TestJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.json")
	in := map[string]map[int][2]string{"a.txt": {3: {"é", "e"}}}
	require.NoError(t, WriteJSON(path, in))

	var out map[string]map[int][2]string
	require.NoError(t, ReadJSON(path, &out))
	assert.Equal(t, in, out)
}

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, "clinical-1.ann", ReplaceExt("clinical-1.txt", "ann"))
	assert.Equal(t, "report.txt.chains", ReplaceExt("report.txt.txt", "chains"))
	assert.Equal(t, "doc.con", ReplaceExt("doc", "con"))
}

func TestPrepareOutput(t *testing.T) {
	out := filepath.Join(t.TempDir(), "brat")

	require.NoError(t, PrepareOutput(out, false, true))
	require.NoError(t, os.WriteFile(filepath.Join(out, "x"), nil, 0o644))

	err := PrepareOutput(out, false, true)
	assert.ErrorIs(t, err, ErrOutputExists)

	require.NoError(t, PrepareOutput(out, true, true))
	assert.False(t, Exists(filepath.Join(out, "x")))
	assert.True(t, Exists(out))
}
