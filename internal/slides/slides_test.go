package slides

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docprep/internal/config"
	"docprep/internal/logging"
	"docprep/internal/testsupport"
)

func TestSanitizeDropsNonImages(t *testing.T) {
	fsys := memfs.New()
	testsupport.WriteFile(t, fsys, "/p/a.PNG", 1)
	testsupport.WriteFile(t, fsys, "/p/b.jpeg", 1)
	testsupport.WriteFile(t, fsys, "/p/notes.txt", 1)
	testsupport.Mkdir(t, fsys, "/p/dir.png")

	var logs bytes.Buffer
	logger, _, err := logging.New(logging.Options{Level: "info", Format: "json", Writer: &logs})
	require.NoError(t, err)

	kept := Sanitize(fsys, []string{"/p/a.PNG", "/p/notes.txt", "/p/missing.png", "/p/dir.png", "b.jpeg"},
		Options{Suffixes: config.DefaultSuffixes(), BaseDir: "/p"}, logger)
	assert.Equal(t, []string{"/p/a.PNG", "b.jpeg"}, kept)
	assert.Contains(t, logs.String(), "/p/notes.txt")
	assert.NotContains(t, logs.String(), "/p/missing.png")
}

func TestBuildGrid(t *testing.T) {
	opts := Options{Columns: 2, Rows: 1, ImageOptions: "width=3cm"}

	frames, err := Build([]string{"a.png", "b.png", "c.png"}, opts)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.True(t, strings.HasPrefix(frames[0], header))
	assert.True(t, strings.HasSuffix(frames[0], footer))
	assert.Contains(t, frames[0],
		"  \\includegraphics[width=3cm]{a.png}\n  \\includegraphics[width=3cm]{b.png}\\\\\n")
	assert.Contains(t, frames[1], "  \\includegraphics[width=3cm]{c.png}\n\\end{minipage}")
}

func TestBuildSingleColumnBreaksEveryRow(t *testing.T) {
	frames, err := Build([]string{"a.png", "b.png"}, Options{Columns: 1, Rows: 2})
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, 2, strings.Count(frames[0], `}\\`))
	assert.Contains(t, frames[0], "{a.png}\\\\\n")
}

func TestBuildRejectsEmptyGrid(t *testing.T) {
	_, err := Build([]string{"a.png"}, Options{Columns: 0, Rows: 2})
	assert.Error(t, err)
}

func TestBuildNoImages(t *testing.T) {
	frames, err := Build(nil, OptionsFromConfig(nil))
	require.NoError(t, err)
	assert.Empty(t, frames)
}

func TestWrite(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Write(&out, []string{"one", "two"}))
	assert.Equal(t, "one\ntwo\n", out.String())
}
