package placeholder

import (
	"bytes"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docprep/internal/fault"
	"docprep/internal/testsupport"
)

func TestExpandReplacesMarkedLines(t *testing.T) {
	fsys := memfs.New()
	testsupport.WriteText(t, fsys, "/doc/main.tex", "before\n  %%REPLACE%% parts/a.tex\nmiddle\n%%REPLACE%% /abs/b.tex\nafter")
	testsupport.WriteText(t, fsys, "/doc/parts/a.tex", "A1\nA2\n")
	testsupport.WriteText(t, fsys, "/abs/b.tex", "B\n")

	var out bytes.Buffer
	n, err := Expand(fsys, "/doc/main.tex", &out, Options{BaseDir: "/doc"})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "before\nA1\nA2\nmiddle\nB\nafter", out.String())
}

func TestExpandCustomKeyword(t *testing.T) {
	fsys := memfs.New()
	testsupport.WriteText(t, fsys, "/main.tex", "%%REPLACE%% ignored\n@@ /x.tex\n")
	testsupport.WriteText(t, fsys, "/x.tex", "X\n")

	var out bytes.Buffer
	n, err := Expand(fsys, "/main.tex", &out, Options{Keyword: "@@ "})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "%%REPLACE%% ignored\nX\n", out.String())
}

func TestExpandWithoutMarkersFails(t *testing.T) {
	fsys := memfs.New()
	testsupport.WriteText(t, fsys, "/main.tex", "plain\n")

	var out bytes.Buffer
	_, err := Expand(fsys, "/main.tex", &out, Options{})
	require.ErrorIs(t, err, ErrNoReplacements)
	assert.Equal(t, "plain\n", out.String())
}

func TestExpandMissingReplacement(t *testing.T) {
	fsys := memfs.New()
	testsupport.WriteText(t, fsys, "/main.tex", "%%REPLACE%% /gone.tex\n")

	_, err := Expand(fsys, "/main.tex", &bytes.Buffer{}, Options{})
	require.ErrorIs(t, err, fault.ErrInputNotFound)
	assert.Contains(t, err.Error(), "/main.tex:1")
}

func TestExpandMissingDocument(t *testing.T) {
	_, err := Expand(memfs.New(), "/nope.tex", &bytes.Buffer{}, Options{})
	require.ErrorIs(t, err, fault.ErrInputNotFound)
}
