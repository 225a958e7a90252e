package properties

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.props")
	l := FromStrings(map[string]string{
		"outputFormat": "serialized",
		"annotators":   "tokenize,ssplit",
	})

	require.NoError(t, WriteFile(path, l))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "annotators = tokenize,ssplit\n\noutputFormat = serialized\n\n", string(b))
}

func TestWriteFileIsLatin1(t *testing.T) {
	path := filepath.Join(t.TempDir(), "latin.props")
	l := FromStrings(map[string]string{"name": "café", "greek": "λ", "path": `C:\models`})

	require.NoError(t, WriteFile(path, l))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	// é is a single Latin-1 byte, λ is escaped
	assert.Contains(t, string(b), "name = caf\xe9\n")
	assert.Contains(t, string(b), `greek = \u03bb`)

	back, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "café", back.GetString("name"))
	assert.Equal(t, "λ", back.GetString("greek"))
	assert.Equal(t, `C:\models`, back.GetString("path"))
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.props"))
	assert.Error(t, err)
}

func TestWriteTempFile(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteTempFile(dir, FromStrings(map[string]string{"a": "b"}))
	require.NoError(t, err)

	assert.Equal(t, dir, filepath.Dir(path))
	name := filepath.Base(path)
	assert.True(t, strings.HasPrefix(name, "corenlp_server-"), name)
	assert.Len(t, strings.TrimSuffix(strings.TrimPrefix(name, "corenlp_server-"), ".props"), 16)

	assert.NotEqual(t, path, TempFilePath(dir))
}
