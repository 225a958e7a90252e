package composer

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getzep/corenlp/pkg/models"
	"github.com/getzep/corenlp/pkg/properties"
)

func TestComposeAnnotatorsAlwaysWin(t *testing.T) {
	f := gofakeit.New(7)
	cache := properties.NewCache()
	c := New(Options{Annotators: []string{"tokenize", "ssplit"}, OutputFormat: models.OutputXML, Cache: cache})

	for i := 0; i < 25; i++ {
		label := "custom-" + f.Word()
		cache.Register(label, properties.New().Set(models.KeyAnnotators, f.Word()))
		extra := properties.New().Set(models.KeyAnnotators, f.Word())
		want := f.Word() + "," + f.Word()

		props, err := c.Compose(AnnotateParams{
			Annotators:    []string{want},
			PropertiesKey: label,
			Properties:    extra,
		})
		require.NoError(t, err)
		assert.Equal(t, want, props.GetString(models.KeyAnnotators))
	}
}

func TestComposePrecedence(t *testing.T) {
	cache := properties.NewCache()
	cache.Register("fr-custom", properties.FromStrings(map[string]string{
		"annotators":   "tokenize,ssplit,pos",
		"pos.model":    "french.tagger",
		"outputFormat": "conll",
	}))
	c := New(Options{Annotators: []string{"tokenize"}, OutputFormat: models.OutputXML, Cache: cache})

	testCases := []struct {
		name   string
		params AnnotateParams
		want   map[string]string
	}{
		{
			name:   "client defaults only",
			params: AnnotateParams{},
			want:   map[string]string{"annotators": "tokenize", "outputFormat": "xml"},
		},
		{
			name:   "cached layer substitutes defaults",
			params: AnnotateParams{PropertiesKey: "fr-custom"},
			want: map[string]string{
				"annotators": "tokenize,ssplit,pos", "pos.model": "french.tagger", "outputFormat": "conll",
			},
		},
		{
			name: "extra properties overlay the cached layer",
			params: AnnotateParams{
				PropertiesKey: "fr-custom",
				Properties:    properties.FromStrings(map[string]string{"pos.model": "other.tagger"}),
			},
			want: map[string]string{
				"annotators": "tokenize,ssplit,pos", "pos.model": "other.tagger", "outputFormat": "conll",
			},
		},
		{
			name: "explicit output format beats extra properties",
			params: AnnotateParams{
				OutputFormat: models.OutputJSON,
				Properties:   properties.FromStrings(map[string]string{"outputFormat": "text"}),
			},
			want: map[string]string{"annotators": "tokenize", "outputFormat": "json"},
		},
		{
			name:   "other language sets pipelineLanguage over defaults",
			params: AnnotateParams{PropertiesKey: "FR"},
			want:   map[string]string{"annotators": "tokenize", "outputFormat": "xml", "pipelineLanguage": "french"},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			props, err := c.Compose(tc.params)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, props.Strings()); diff != "" {
				t.Errorf("composed properties mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComposeEnglishUsesFullDefaults(t *testing.T) {
	c := New(Options{OutputFormat: models.OutputJSON})

	for _, label := range []string{"english", "EN", "English"} {
		props, err := c.Compose(AnnotateParams{PropertiesKey: label})
		require.NoError(t, err)

		want := properties.EnglishDefaults().Set(models.KeyOutputFormat, models.DefaultOutputFormat)
		assert.True(t, want.Equal(props), label)
		assert.False(t, props.Has(models.KeyPipelineLanguage))
	}
}

func TestComposeUnknownLabel(t *testing.T) {
	c := New(Options{})

	_, err := c.Compose(AnnotateParams{PropertiesKey: "missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrLookup))
	var le *models.LookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "missing", le.Label)
}

func TestComposeOutputFormatFallback(t *testing.T) {
	props, err := New(Options{}).Compose(AnnotateParams{})
	require.NoError(t, err)
	assert.Equal(t, models.OutputSerialized, props.GetString(models.KeyOutputFormat))

	launch := &ServerProperties{Properties: properties.New().Set(models.KeyOutputFormat, models.OutputCoNLLU)}
	props, err = New(Options{Launch: launch}).Compose(AnnotateParams{})
	require.NoError(t, err)
	assert.Equal(t, models.OutputCoNLLU, props.GetString(models.KeyOutputFormat))
}

func TestComposeDoesNotMutateCache(t *testing.T) {
	cache := properties.NewCache()
	cache.Register("mine", properties.New().Set("a", "1"))
	c := New(Options{Cache: cache})

	_, err := c.Compose(AnnotateParams{
		PropertiesKey: "mine",
		Annotators:    []string{"tokenize"},
		Properties:    properties.New().Set("a", "2"),
	})
	require.NoError(t, err)

	cached, _ := cache.Lookup("mine")
	assert.Equal(t, map[string]string{"a": "1"}, cached.Strings())
}

func TestRegisterRejectsLanguages(t *testing.T) {
	c := New(Options{})
	assert.False(t, c.Register("German", properties.New()))
	assert.True(t, c.Register("de-custom", properties.New()))
	assert.Equal(t, 1, c.Cache().Len())
}

func TestAnnotateRequest(t *testing.T) {
	c := New(Options{Annotators: []string{"tokenize,ssplit"}})

	req, err := c.Annotate("Chris wrote a sentence.", AnnotateParams{})
	require.NoError(t, err)

	assert.Equal(t, "/", req.Path)
	assert.Equal(t, []byte("Chris wrote a sentence."), req.Body)
	assert.Equal(t, models.ContentTypeText, req.ContentType)
	assert.Equal(t, models.OutputSerialized, req.OutputFormat)

	var sent map[string]string
	require.NoError(t, json.Unmarshal([]byte(req.Query.Get("properties")), &sent))
	assert.Equal(t, map[string]string{"annotators": "tokenize,ssplit", "outputFormat": "serialized"}, sent)

	assert.Contains(t, req.URL("http://localhost:9000"), "http://localhost:9000/?properties=")
}

func TestContentTypeFollowsInputFormat(t *testing.T) {
	testCases := []struct {
		inputFormat string
		want        string
	}{
		{"", models.ContentTypeText},
		{models.InputText, models.ContentTypeText},
		{models.InputSerialized, models.ContentTypeProtobuf},
		{"xml", ""},
	}
	for _, tc := range testCases {
		t.Run(tc.inputFormat, func(t *testing.T) {
			props := properties.New().Set(models.KeyOutputFormat, models.OutputXML)
			if tc.inputFormat != "" {
				props.Set(models.KeyInputFormat, tc.inputFormat)
			}
			assert.Equal(t, tc.want, ContentType(props))
		})
	}
}

func TestPatternForcesJSON(t *testing.T) {
	c := New(Options{OutputFormat: models.OutputXML})

	for _, kind := range []PatternKind{TokensRegex, Semgrex, TRegex} {
		t.Run(string(kind), func(t *testing.T) {
			req := c.Pattern(kind, "Chris wrote a sentence.", "/wrote/", true)

			assert.Equal(t, "/"+string(kind), req.Path)
			assert.Equal(t, models.OutputJSON, req.OutputFormat)
			assert.Equal(t, models.OutputJSON, req.Properties.GetString(models.KeyOutputFormat))
			assert.Equal(t, models.ContentTypeText, req.ContentType)
			assert.Equal(t, `{"outputFormat":"json"}`, req.Query.Get("properties"))
			assert.Equal(t, "/wrote/", req.Query.Get("pattern"))
			assert.Equal(t, "true", req.Query.Get("filter"))
		})
	}
}

func TestResolveServerPropertiesDefault(t *testing.T) {
	dir := t.TempDir()

	sp, err := ResolveServerProperties(properties.Default(), nil, "", dir)
	require.NoError(t, err)

	assert.True(t, sp.IsTemp)
	assert.Equal(t, dir, filepath.Dir(sp.Path))
	assert.Equal(t, models.DefaultAnnotators, sp.PreloadAnnotators)
	assert.Equal(t, models.OutputSerialized, sp.OutputFormat())

	written, err := properties.ReadFile(sp.Path)
	require.NoError(t, err)
	assert.True(t, written.Equal(sp.Properties))

	require.NoError(t, sp.Cleanup())
	assert.NoFileExists(t, sp.Path)
	require.NoError(t, sp.Cleanup())
}

func TestResolveServerPropertiesInline(t *testing.T) {
	inline := properties.FromStrings(map[string]string{"annotators": "tokenize", "ner.model": "x.gz"})

	sp, err := ResolveServerProperties(properties.Inline(inline), []string{"tokenize", "ssplit"}, models.OutputJSON, t.TempDir())
	require.NoError(t, err)
	defer sp.Cleanup() //nolint:errcheck

	assert.Equal(t, map[string]string{
		"annotators":   "tokenize,ssplit",
		"outputFormat": "json",
		"serializer":   models.DefaultSerializer,
		"ner.model":    "x.gz",
	}, sp.Properties.Strings())
	assert.Equal(t, "tokenize,ssplit", sp.PreloadAnnotators)
}

func TestResolveServerPropertiesLanguage(t *testing.T) {
	sp, err := ResolveServerProperties(properties.FromLanguage(properties.Chinese), []string{"tokenize"}, "", "")
	require.NoError(t, err)

	assert.False(t, sp.IsTemp)
	assert.Equal(t, "StanfordCoreNLP-chinese.properties", sp.Path)
	assert.Equal(t, properties.Chinese.DefaultAnnotators(), sp.PreloadAnnotators)
	assert.Empty(t, sp.OutputFormat())
}

func TestResolveServerPropertiesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.props")
	require.NoError(t, properties.WriteFile(path, properties.FromStrings(map[string]string{
		"annotators":   "tokenize,ssplit,pos",
		"outputFormat": "text",
	})))

	sp, err := ResolveServerProperties(properties.FromFile(path), []string{"ignored"}, models.OutputXML, "")
	require.NoError(t, err)

	assert.False(t, sp.IsTemp)
	assert.Equal(t, path, sp.Path)
	assert.Equal(t, "tokenize,ssplit,pos", sp.PreloadAnnotators)
	assert.Equal(t, models.OutputText, sp.OutputFormat())

	require.NoError(t, sp.Cleanup())
	assert.FileExists(t, path)

	// a path the client cannot see is still handed to the server
	sp, err = ResolveServerProperties(properties.FromFile("StanfordCoreNLP-german.properties"), nil, "", "")
	require.NoError(t, err)
	assert.Nil(t, sp.Properties)
	assert.Empty(t, sp.PreloadAnnotators)
	_, statErr := os.Stat("StanfordCoreNLP-german.properties")
	assert.True(t, os.IsNotExist(statErr))
}

func TestJoinAnnotators(t *testing.T) {
	assert.Equal(t, "tokenize,ssplit,pos", JoinAnnotators([]string{"tokenize, ssplit", "pos"}))
	assert.Equal(t, "", JoinAnnotators(nil))
}
