package cmd

import (
	"bytes"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getzep/corenlp/config"
	"github.com/getzep/corenlp/pkg/models"
	"github.com/getzep/corenlp/pkg/properties"
	"github.com/getzep/corenlp/pkg/stubserver"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()
	ts := httptest.NewServer(stubserver.New(stubserver.Options{}))
	t.Cleanup(ts.Close)
	t.Setenv("CORENLP_SERVER_ENDPOINT", ts.URL)
	t.Setenv("CORENLP_SERVER_START_MODE", string(models.StartModeDontStart))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs(args)
	t.Cleanup(func() {
		cmd.SetOut(nil)
		cmd.SetArgs(nil)
		annotators, outputFormat, propertiesKey, filter = nil, "", "", false
	})

	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestAnnotateCommand(t *testing.T) {
	out := execute(t, "annotate", "--output-format", "text", "Chris", "wrote", "a", "sentence.")
	assert.Contains(t, out, "Sentence #1 (5 tokens):")
}

func TestTokensRegexCommand(t *testing.T) {
	out := execute(t, "tokensregex", "/wrote/", "Chris wrote a sentence.")
	assert.JSONEq(t, `{"sentences":[{"0":{"begin":1,"end":2,"text":"wrote"},"length":1}]}`, out)
}

func TestPingCommand(t *testing.T) {
	out := execute(t, "ping")
	assert.Contains(t, out, "alive")
}

func TestClientOptions(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Endpoint:   "http://localhost:9001",
			StartMode:  "force_start",
			Properties: "de",
			Threads:    3,
			Kwargs:     map[string]string{"server_id": "x"},
		},
		Client:   config.ClientConfig{Annotators: []string{"tokenize"}, OutputFormat: models.OutputJSON},
		Liveness: config.LivenessConfig{Deadline: 10 * time.Second},
	}

	opts := clientOptions(cfg)
	assert.Equal(t, "http://localhost:9001", opts.Endpoint)
	assert.Equal(t, models.StartModeForceStart, opts.StartMode)
	assert.Equal(t, properties.FromLanguage(properties.German), opts.Properties)
	assert.Equal(t, 3, opts.Threads)
	assert.Equal(t, "x", opts.Kwargs["server_id"])
	assert.Equal(t, []string{"tokenize"}, opts.Annotators)
	assert.Equal(t, 10*time.Second, opts.LivenessDeadline)
}
