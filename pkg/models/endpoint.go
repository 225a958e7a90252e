package models

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// ServerEndpoint identifies the CoreNLP server the client talks to.
type ServerEndpoint struct {
	Scheme string
	Host   string
	Port   int
	// Path is the server's URI context, e.g. "/nlp". Empty when the server
	// is mounted at the root.
	Path string
}

// ParseEndpoint parses a base URL such as "http://localhost:9000" or
// "http://localhost:9000/nlp". A missing port defaults to the scheme's
// well-known port.
func ParseEndpoint(raw string) (ServerEndpoint, error) {
	u, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return ServerEndpoint{}, NewConfigError("bad endpoint %q: %v", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ServerEndpoint{}, NewConfigError("endpoint %q must use http or https", raw)
	}
	if u.Hostname() == "" {
		return ServerEndpoint{}, NewConfigError("endpoint %q has no host", raw)
	}
	if u.RawQuery != "" || u.Fragment != "" {
		return ServerEndpoint{}, NewConfigError("endpoint %q must not carry a query or fragment", raw)
	}

	port := 80
	if u.Scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return ServerEndpoint{}, NewConfigError("endpoint %q has invalid port", raw)
		}
	}

	return ServerEndpoint{
		Scheme: u.Scheme,
		Host:   u.Hostname(),
		Port:   port,
		Path:   NormalizeURIContext(u.EscapedPath()),
	}, nil
}

// NormalizeURIContext returns context with one leading slash and no trailing
// slash; the root context is the empty string.
func NormalizeURIContext(context string) string {
	context = strings.Trim(context, "/")
	if context == "" {
		return ""
	}
	return "/" + context
}

// URL returns the base URL, including the URI context, without a trailing
// slash.
func (e ServerEndpoint) URL() string {
	return fmt.Sprintf("%s://%s%s", e.Scheme, e.Address(), e.Path)
}

// Address returns host:port, suitable for net.Listen.
func (e ServerEndpoint) Address() string {
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

func (e ServerEndpoint) String() string {
	return e.URL()
}

// IsLocal reports whether the host refers to the local machine.
func (e ServerEndpoint) IsLocal() bool {
	if strings.EqualFold(e.Host, "localhost") {
		return true
	}
	ip := net.ParseIP(e.Host)
	return ip != nil && ip.IsLoopback()
}
