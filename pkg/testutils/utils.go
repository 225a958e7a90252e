package testutils

import (
	"net"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/getzep/corenlp/pkg/models"
)

// FreeEndpoint returns a loopback endpoint whose port was free a moment ago.
func FreeEndpoint(t *testing.T) models.ServerEndpoint {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return models.ServerEndpoint{Scheme: "http", Host: "127.0.0.1", Port: port}
}

func EndpointOf(t *testing.T, rawURL string) models.ServerEndpoint {
	t.Helper()
	ep, err := models.ParseEndpoint(rawURL)
	require.NoError(t, err)
	return ep
}

// RequireUnix skips tests that spawn POSIX shell commands.
func RequireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
}
