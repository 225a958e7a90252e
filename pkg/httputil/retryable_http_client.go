package httputil

import (
	"context"
	"net/http"
	"net/http/httptrace"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/httptrace/otelhttptrace"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/getzep/corenlp/internal"
)

const (
	DefaultProbeTimeout   = 5 * time.Second
	DefaultRequestTimeout = 100 * time.Second
	MaxIdleConns          = 10
	MaxIdleConnsPerHost   = 4
	IdleConnTimeout       = 30 * time.Second
)

var log = internal.GetLogger()

// NewRetryableHTTPClient returns an *http.Client backed by retryablehttp and
// wrapped in an OpenTelemetry transport. retryMax of 0 means a single
// attempt; the CoreNLP client never retries annotation calls and health
// probes are retried by the supervisor's polling loop instead.
func NewRetryableHTTPClient(
	retryMax int,
	timeout time.Duration,
	retryPolicy retryablehttp.CheckRetry,
) *http.Client {
	if retryPolicy == nil {
		retryPolicy = retryablehttp.DefaultRetryPolicy
	}

	retryableHTTPClient := retryablehttp.NewClient()
	retryableHTTPClient.RetryMax = retryMax
	retryableHTTPClient.HTTPClient = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        MaxIdleConns,
			MaxIdleConnsPerHost: MaxIdleConnsPerHost,
			IdleConnTimeout:     IdleConnTimeout,
		},
	}
	retryableHTTPClient.Logger = internal.NewLeveledLogrus(log)
	retryableHTTPClient.Backoff = retryablehttp.DefaultBackoff
	retryableHTTPClient.CheckRetry = retryPolicy
	// hand back the last response instead of an opaque "giving up" error so
	// callers can report the status code
	retryableHTTPClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &http.Client{
		Transport: otelhttp.NewTransport(
			retryableHTTPClient.StandardClient().Transport,
			otelhttp.WithClientTrace(func(ctx context.Context) *httptrace.ClientTrace {
				return otelhttptrace.NewClientTrace(ctx)
			}),
		),
	}
}

// NoRetryPolicy never retries but still stops on a cancelled context.
func NoRetryPolicy(ctx context.Context, _ *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	return false, err
}
