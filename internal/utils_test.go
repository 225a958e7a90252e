package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitNonEmpty(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{"simple", "tokenize,ssplit,pos", []string{"tokenize", "ssplit", "pos"}},
		{"spaces", " tokenize , ssplit ", []string{"tokenize", "ssplit"}},
		{"empty parts", "tokenize,,ssplit,", []string{"tokenize", "ssplit"}},
		{"empty", "", []string{}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SplitNonEmpty(tc.input, ","))
		})
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "server.properties")
	require.NoError(t, os.WriteFile(path, []byte("annotators = tokenize\n"), 0o600))

	assert.True(t, FileExists(path))
	assert.False(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing")))
}
