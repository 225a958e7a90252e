package properties

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLanguage(t *testing.T) {
	testCases := []struct {
		input string
		want  Language
		ok    bool
	}{
		{"english", English, true},
		{"EN", English, true},
		{"French", French, true},
		{"zh", Chinese, true},
		{" de ", German, true},
		{"ES", Spanish, true},
		{"arabic", Arabic, true},
		{"fr-custom", "", false},
		{"", "", false},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := ParseLanguage(tc.input)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLanguageFiles(t *testing.T) {
	assert.Equal(t, "StanfordCoreNLP.properties", English.PropertiesFile())
	assert.Equal(t, "StanfordCoreNLP-french.properties", French.PropertiesFile())
	assert.Equal(t, "tokenize,ssplit,pos,depparse", French.DefaultAnnotators())
	assert.Equal(t, "fr", French.ShortCode())
}

func TestCacheRejectsReservedLabels(t *testing.T) {
	cache := NewCache()
	layer := FromStrings(map[string]string{"annotators": "tokenize"})

	var reserved []string
	for _, l := range Languages {
		reserved = append(reserved, string(l), l.ShortCode())
	}
	assert.Len(t, reserved, 12)

	for _, label := range reserved {
		for _, variant := range []string{label, strings.ToUpper(label), strings.ToUpper(label[:1]) + label[1:]} {
			assert.False(t, cache.Register(variant, layer), variant)
		}
	}
	assert.Equal(t, 0, cache.Len())

	assert.True(t, cache.Register("fr-custom", layer))
	got, ok := cache.Lookup("fr-custom")
	assert.True(t, ok)
	assert.True(t, got.Equal(layer))

	// the cached copy is isolated from callers
	got.Set("annotators", "changed")
	again, _ := cache.Lookup("fr-custom")
	assert.Equal(t, "tokenize", again.GetString("annotators"))
}

func TestParseSource(t *testing.T) {
	assert.Equal(t, Default(), ParseSource(""))
	assert.Equal(t, FromLanguage(German), ParseSource("German"))
	assert.Equal(t, FromFile("/etc/corenlp.props"), ParseSource("/etc/corenlp.props"))
}
