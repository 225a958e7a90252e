package client

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getzep/corenlp/pkg/composer"
	"github.com/getzep/corenlp/pkg/models"
)

func testLaunchConfig(t *testing.T) launchConfig {
	t.Helper()
	_, lc, err := withDefaults(Options{ClassPath: "/opt/corenlp"})
	require.NoError(t, err)
	return lc
}

func TestBuildCommand(t *testing.T) {
	lc := testLaunchConfig(t)
	lc.Timeout = 15 * time.Second
	lc.Args = []string{"strict", "verbose", "ssl"}
	lc.Kwargs = map[string]string{"server_id": "s1", "status_port": "9001", "uricontext": "/nlp", "color": "blue"}

	endpoint, err := models.ParseEndpoint("http://localhost:9010")
	require.NoError(t, err)
	sp := &composer.ServerProperties{Path: "/tmp/corenlp_server-x.props", PreloadAnnotators: "tokenize,ssplit"}

	cmd, err := buildCommand(lc, endpoint, sp)
	require.NoError(t, err)

	sep := string(os.PathSeparator)
	assert.Equal(t, models.DefaultJavaBinary, cmd.Binary)
	assert.Equal(t, "/opt/corenlp"+sep+"*", cmd.ClassPath)
	assert.Equal(t, []string{
		"-Xmx" + models.DefaultMemory,
		"-cp", "/opt/corenlp" + sep + "*",
		models.ServerMainClass,
		"-port", "9010",
		"-timeout", "15000",
		"-threads", "5",
		"-maxCharLength", "100000",
		"-quiet", "false",
		"-serverProperties", "/tmp/corenlp_server-x.props",
		"-preload", "tokenize,ssplit",
		"-ssl",
		"-strict",
		"-status_port", "9001",
		"-uriContext", "/nlp",
		"-server_id", "s1",
	}, cmd.Args)
}

func TestBuildCommandDisablePreload(t *testing.T) {
	lc := testLaunchConfig(t)
	lc.DisablePreload = true
	endpoint, err := models.ParseEndpoint(models.DefaultEndpoint)
	require.NoError(t, err)

	cmd, err := buildCommand(lc, endpoint, &composer.ServerProperties{Path: "p", PreloadAnnotators: "tokenize"})
	require.NoError(t, err)
	assert.NotContains(t, cmd.Args, "-preload")
}

func TestWithURIContext(t *testing.T) {
	t.Run("endpoint path fills the option", func(t *testing.T) {
		lc := testLaunchConfig(t)
		endpoint, err := models.ParseEndpoint("http://localhost:9010/nlp")
		require.NoError(t, err)

		endpoint, err = withURIContext(endpoint, &lc)
		require.NoError(t, err)
		assert.Equal(t, "/nlp", endpoint.Path)

		cmd, err := buildCommand(lc, endpoint, &composer.ServerProperties{Path: "p"})
		require.NoError(t, err)
		assert.Subset(t, cmd.Args, []string{"-uriContext", "/nlp"})
		assert.Contains(t, cmd.Args, "9010")
	})

	t.Run("option fills the endpoint path", func(t *testing.T) {
		lc := testLaunchConfig(t)
		lc.Kwargs = map[string]string{"uricontext": "nlp/"}
		endpoint, err := models.ParseEndpoint("http://localhost:9010")
		require.NoError(t, err)

		endpoint, err = withURIContext(endpoint, &lc)
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9010/nlp", endpoint.URL())
		assert.Equal(t, "/nlp", lc.Kwargs["uricontext"])
	})

	t.Run("no context leaves both alone", func(t *testing.T) {
		lc := testLaunchConfig(t)
		endpoint, err := models.ParseEndpoint(models.DefaultEndpoint)
		require.NoError(t, err)

		endpoint, err = withURIContext(endpoint, &lc)
		require.NoError(t, err)
		assert.Empty(t, endpoint.Path)
		assert.Empty(t, lc.Kwargs)
	})

	t.Run("conflict", func(t *testing.T) {
		lc := testLaunchConfig(t)
		lc.Kwargs = map[string]string{"uriContext": "/a"}
		endpoint, err := models.ParseEndpoint("http://localhost:9010/b")
		require.NoError(t, err)

		_, err = withURIContext(endpoint, &lc)
		assert.ErrorIs(t, err, models.ErrInvalidConfig)
	})
}

func TestResolveClassPath(t *testing.T) {
	sep := string(os.PathSeparator)

	t.Setenv("CLASSPATH", "/from/classpath")
	t.Setenv("CORENLP_HOME", "/from/home")

	ref := "$CLASSPATH"
	if sep == `\` {
		ref = "%CLASSPATH%"
	}

	cp, err := resolveClassPath(ref)
	require.NoError(t, err)
	assert.Equal(t, "/from/classpath"+sep+"*", cp)

	cp, err = resolveClassPath("")
	require.NoError(t, err)
	assert.Equal(t, "/from/home"+sep+"*", cp)

	cp, err = resolveClassPath("/explicit/")
	require.NoError(t, err)
	assert.Equal(t, "/explicit"+sep+"*", cp)

	t.Setenv("CORENLP_HOME", "")
	_, err = resolveClassPath("")
	assert.ErrorIs(t, err, models.ErrInvalidConfig)
}

func TestDetectVersion(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"stanford-corenlp-4.5.4.jar",
		"stanford-corenlp-4.5.6.jar",
		"stanford-corenlp-4.5.6-models.jar",
		"protobuf.jar",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o600))
	}

	v := detectVersion(dir + string(os.PathSeparator) + "*")
	require.NotNil(t, v)
	assert.Equal(t, "4.5.6", v.String())

	assert.Nil(t, detectVersion(t.TempDir()))
	assert.Nil(t, detectVersion(filepath.Join(dir, "missing")))
}

func TestWithDefaultsDoesNotAliasCaller(t *testing.T) {
	annotators := []string{"tokenize"}
	kwargs := map[string]string{"server_id": "a"}

	opts, lc, err := withDefaults(Options{Annotators: annotators, Kwargs: kwargs})
	require.NoError(t, err)

	opts.Annotators[0] = "changed"
	lc.Kwargs["server_id"] = "b"

	assert.Equal(t, "tokenize", annotators[0])
	assert.Equal(t, "a", kwargs["server_id"])
	assert.Equal(t, models.DefaultEndpoint, opts.Endpoint)
	assert.Equal(t, models.DefaultStartMode, opts.StartMode)
	assert.Equal(t, models.DefaultOutputFormat, opts.OutputFormat)
}
