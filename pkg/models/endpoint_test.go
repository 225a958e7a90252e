package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndpoint(t *testing.T) {
	testCases := []struct {
		raw     string
		want    ServerEndpoint
		url     string
		address string
	}{
		{
			raw:     "http://localhost:9000",
			want:    ServerEndpoint{Scheme: "http", Host: "localhost", Port: 9000},
			url:     "http://localhost:9000",
			address: "localhost:9000",
		},
		{
			raw:     "https://corenlp.example.com/",
			want:    ServerEndpoint{Scheme: "https", Host: "corenlp.example.com", Port: 443},
			url:     "https://corenlp.example.com:443",
			address: "corenlp.example.com:443",
		},
		{
			raw:     "http://127.0.0.1:9010/nlp/",
			want:    ServerEndpoint{Scheme: "http", Host: "127.0.0.1", Port: 9010, Path: "/nlp"},
			url:     "http://127.0.0.1:9010/nlp",
			address: "127.0.0.1:9010",
		},
		{
			raw:     "http://localhost:9000/a/b",
			want:    ServerEndpoint{Scheme: "http", Host: "localhost", Port: 9000, Path: "/a/b"},
			url:     "http://localhost:9000/a/b",
			address: "localhost:9000",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			ep, err := ParseEndpoint(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ep)
			assert.Equal(t, tc.url, ep.URL())
			assert.Equal(t, tc.address, ep.Address())
		})
	}
}

func TestParseEndpointInvalid(t *testing.T) {
	for _, raw := range []string{
		"ftp://localhost:9000",
		"http://:9000",
		"http://localhost:0",
		"http://localhost:70000",
		"http://localhost:9000/nlp?x=1",
		"localhost:9000",
	} {
		_, err := ParseEndpoint(raw)
		assert.ErrorIs(t, err, ErrInvalidConfig, raw)
	}
}

func TestNormalizeURIContext(t *testing.T) {
	assert.Equal(t, "", NormalizeURIContext(""))
	assert.Equal(t, "", NormalizeURIContext("/"))
	assert.Equal(t, "/nlp", NormalizeURIContext("nlp"))
	assert.Equal(t, "/nlp", NormalizeURIContext("/nlp/"))
}

func TestIsLocal(t *testing.T) {
	testCases := map[string]bool{
		"localhost":             true,
		"LocalHost":             true,
		"127.0.0.1":             true,
		"::1":                   true,
		"localhost.example.com": false,
		"localhostile":          false,
		"10.0.0.5":              false,
		"corenlp.example.com":   false,
	}
	for host, want := range testCases {
		ep := ServerEndpoint{Scheme: "http", Host: host, Port: 9000}
		assert.Equal(t, want, ep.IsLocal(), host)
	}
}
