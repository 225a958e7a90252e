// Package client is the entry point for talking to a Stanford CoreNLP server.
// A Client optionally launches the server, keeps it alive, and turns
// annotate and pattern calls into HTTP requests.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/getzep/corenlp/internal"
	"github.com/getzep/corenlp/pkg/composer"
	"github.com/getzep/corenlp/pkg/httputil"
	"github.com/getzep/corenlp/pkg/models"
	"github.com/getzep/corenlp/pkg/properties"
	"github.com/getzep/corenlp/pkg/supervisor"
)

var log = internal.GetLogger()

const tracerName = "github.com/getzep/corenlp/pkg/client"

// AnnotateRequest holds the per-call overrides for Annotate. All fields are
// optional.
type AnnotateRequest struct {
	Annotators    []string
	OutputFormat  string
	PropertiesKey string
	Properties    properties.Layer
}

// Client is meant for a single caller at a time.
type Client struct {
	opts        Options
	endpoint    models.ServerEndpoint
	composer    *composer.Composer
	supervisor  *supervisor.Supervisor
	serverProps *composer.ServerProperties
	httpClient  *http.Client
	tracer      trace.Tracer
	version     *semver.Version

	username string
	password string

	closeOnce sync.Once
	closeErr  error
}

// New validates opts and prepares the client. When the start mode allows
// launching a server, the server properties are resolved here (writing a
// temporary file if needed) but nothing is spawned until the first call.
func New(opts Options) (*Client, error) {
	opts, lc, err := withDefaults(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to apply default options: %w", err)
	}

	endpoint, err := models.ParseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, err
	}
	endpoint, err = withURIContext(endpoint, &lc)
	if err != nil {
		return nil, err
	}
	mode, err := models.ParseStartMode(string(opts.StartMode))
	if err != nil {
		return nil, err
	}
	if mode.CanStart() && !endpoint.IsLocal() {
		return nil, models.NewConfigError(
			"cannot start a server for non-local host %s; use start mode %s", endpoint.Host, models.StartModeDontStart,
		)
	}

	c := &Client{
		opts:     opts,
		endpoint: endpoint,
		tracer:   otel.Tracer(tracerName),
		username: lc.Kwargs["username"],
		password: lc.Kwargs["password"],
	}

	launch := &launchCommand{}
	if mode.CanStart() {
		c.serverProps, err = composer.ResolveServerProperties(opts.Properties, opts.Annotators, opts.OutputFormat, opts.TempDir)
		if err != nil {
			return nil, err
		}
		launch, err = buildCommand(lc, endpoint, c.serverProps)
		if err != nil {
			_ = c.serverProps.Cleanup()
			return nil, err
		}
		c.version = detectVersion(launch.ClassPath)
		checkVersion(c.version)
	}

	c.composer = composer.New(composer.Options{
		Annotators:   opts.Annotators,
		OutputFormat: opts.OutputFormat,
		Launch:       c.serverProps,
		Cache:        properties.NewCache(),
	})

	c.httpClient = opts.HTTPClient
	probeClient := opts.HTTPClient
	if c.httpClient == nil {
		c.httpClient = httputil.NewRetryableHTTPClient(0, opts.RequestTimeout, httputil.NoRetryPolicy)
		probeClient = httputil.NewRetryableHTTPClient(0, opts.ProbeTimeout, httputil.NoRetryPolicy)
	}

	c.supervisor = supervisor.New(supervisor.Options{
		Endpoint:         endpoint,
		StartMode:        mode,
		Command:          launch.Binary,
		Args:             launch.Args,
		Quiet:            opts.Quiet,
		LivenessDeadline: opts.LivenessDeadline,
		PollInterval:     opts.PollInterval,
		StopGracePeriod:  opts.StopGracePeriod,
		ProbeTimeout:     opts.ProbeTimeout,
		Username:         c.username,
		Password:         c.password,
		HTTPClient:       probeClient,
	})

	return c, nil
}

// Annotate sends text to the server and decodes the response according to
// the output format that was actually requested. A failed request or an
// undecodable response yields (nil, nil); errors are reserved for unknown
// properties keys and servers that cannot be brought up.
func (c *Client) Annotate(ctx context.Context, text string, req *AnnotateRequest) (*Result, error) {
	if req == nil {
		req = &AnnotateRequest{}
	}
	ctx, span := c.tracer.Start(ctx, "corenlp.Annotate", trace.WithAttributes(
		attribute.Int("corenlp.text_length", len(text)),
		attribute.String("corenlp.properties_key", req.PropertiesKey),
	))
	defer span.End()

	spec, err := c.composer.Annotate(text, composer.AnnotateParams{
		Annotators:    req.Annotators,
		OutputFormat:  req.OutputFormat,
		PropertiesKey: req.PropertiesKey,
		Properties:    req.Properties,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.String("corenlp.output_format", spec.OutputFormat))

	body, err := c.request(ctx, spec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if body == nil {
		return nil, nil
	}
	return decodeResult(spec.OutputFormat, body), nil
}

// TokensRegex matches a TokensRegex pattern against text.
func (c *Client) TokensRegex(ctx context.Context, text, pattern string, filter bool) (map[string]any, error) {
	return c.pattern(ctx, composer.TokensRegex, text, pattern, filter)
}

// Semgrex matches a Semgrex pattern against the dependency graphs of text.
func (c *Client) Semgrex(ctx context.Context, text, pattern string, filter bool) (map[string]any, error) {
	return c.pattern(ctx, composer.Semgrex, text, pattern, filter)
}

// TRegex matches a Tregex pattern against the parse trees of text.
func (c *Client) TRegex(ctx context.Context, text, pattern string, filter bool) (map[string]any, error) {
	return c.pattern(ctx, composer.TRegex, text, pattern, filter)
}

func (c *Client) pattern(
	ctx context.Context,
	kind composer.PatternKind,
	text, pattern string,
	filter bool,
) (map[string]any, error) {
	ctx, span := c.tracer.Start(ctx, "corenlp."+string(kind), trace.WithAttributes(
		attribute.Int("corenlp.text_length", len(text)),
		attribute.String("corenlp.pattern", pattern),
	))
	defer span.End()

	body, err := c.request(ctx, c.composer.Pattern(kind, text, pattern, filter))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if body == nil {
		return nil, nil
	}
	return decodeJSONObject(body), nil
}

// request makes sure the server is up and posts spec. Transport failures
// and non-200 answers are logged and reported as a nil body.
func (c *Client) request(ctx context.Context, spec *composer.RequestSpec) ([]byte, error) {
	if err := c.supervisor.EnsureAlive(ctx); err != nil {
		return nil, err
	}

	url := spec.URL(c.endpoint.URL())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(spec.Body))
	if err != nil {
		log.Errorf("failed to build request to %s: %v", spec.Path, err)
		return nil, nil
	}
	if spec.ContentType != "" {
		req.Header.Set("Content-Type", spec.ContentType)
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Referer", c.endpoint.URL())
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("request to %s%s failed: %v", c.endpoint, spec.Path, err)
		return nil, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Errorf("failed to read response from %s%s: %v", c.endpoint, spec.Path, err)
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		log.Errorf(
			"request to %s%s returned %d: %s",
			c.endpoint, spec.Path, resp.StatusCode, bytes.TrimSpace(truncate(body, 512)),
		)
		return nil, nil
	}

	log.Debugf(
		"%s%s: sent %s, received %s",
		c.endpoint, spec.Path, humanize.Bytes(uint64(len(spec.Body))), humanize.Bytes(uint64(len(body))),
	)
	return body, nil
}

// RegisterProperties caches layer under label for use as a PropertiesKey.
// Language names and codes are reserved and rejected.
func (c *Client) RegisterProperties(label string, layer properties.Layer) bool {
	return c.composer.Register(label, layer)
}

// EnsureAlive starts or waits for the server without sending a request.
func (c *Client) EnsureAlive(ctx context.Context) error {
	return c.supervisor.EnsureAlive(ctx)
}

// Stop terminates a server this client started. The next call starts it again.
func (c *Client) Stop() {
	c.supervisor.Stop()
}

// ServerProperties describes the launched server's properties file, or nil
// when the client never starts a server.
func (c *Client) ServerProperties() *composer.ServerProperties {
	return c.serverProps
}

func (c *Client) Supervisor() *supervisor.Supervisor {
	return c.supervisor
}

func (c *Client) Endpoint() models.ServerEndpoint {
	return c.endpoint
}

// ServerVersion is the CoreNLP version found on the class path, if any.
func (c *Client) ServerVersion() *semver.Version {
	return c.version
}

// Close stops the owned server and removes a generated properties file.
// Files supplied by the caller are left alone. Close is idempotent.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.supervisor.Stop()
		c.closeErr = c.serverProps.Cleanup()
	})
	return c.closeErr
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
