package client

import (
	"net/http"
	"time"

	"dario.cat/mergo"
	"github.com/jinzhu/copier"

	"github.com/getzep/corenlp/pkg/httputil"
	"github.com/getzep/corenlp/pkg/models"
	"github.com/getzep/corenlp/pkg/properties"
	"github.com/getzep/corenlp/pkg/supervisor"
)

// Options configures a Client. Zero values take the defaults below.
type Options struct {
	Endpoint  string
	StartMode models.StartMode

	// Annotators and OutputFormat are the client-wide request defaults and
	// also shape the server's properties when they are generated locally.
	Annotators   []string
	OutputFormat string
	// Properties selects the server's startup properties.
	Properties properties.Source

	// Server launch settings.
	JavaBinary     string
	ClassPath      string
	Memory         string
	Timeout        time.Duration
	Threads        int
	MaxCharLength  int
	Quiet          bool
	DisablePreload bool
	// Args are boolean server flags (ssl, strict), Kwargs keyed ones
	// (status_port, uriContext, key, username, password, blacklist, server_id).
	Args   []string
	Kwargs map[string]string
	// TempDir holds generated properties files. Empty means os.TempDir.
	TempDir string

	LivenessDeadline time.Duration
	PollInterval     time.Duration
	StopGracePeriod  time.Duration
	ProbeTimeout     time.Duration
	RequestTimeout   time.Duration

	// HTTPClient replaces the default transport for probes and requests.
	HTTPClient *http.Client
}

func defaultOptions() Options {
	return Options{
		Endpoint:         models.DefaultEndpoint,
		StartMode:        models.DefaultStartMode,
		OutputFormat:     models.DefaultOutputFormat,
		JavaBinary:       models.DefaultJavaBinary,
		Memory:           models.DefaultMemory,
		Timeout:          models.DefaultTimeout,
		Threads:          models.DefaultThreads,
		MaxCharLength:    models.DefaultMaxCharLength,
		LivenessDeadline: supervisor.DefaultLivenessDeadline,
		PollInterval:     supervisor.DefaultPollInterval,
		StopGracePeriod:  supervisor.DefaultStopGracePeriod,
		ProbeTimeout:     httputil.DefaultProbeTimeout,
		RequestTimeout:   httputil.DefaultRequestTimeout,
	}
}

// launchConfig is the immutable part of Options used to build the server
// command line.
type launchConfig struct {
	JavaBinary     string
	ClassPath      string
	Memory         string
	Timeout        time.Duration
	Threads        int
	MaxCharLength  int
	Quiet          bool
	DisablePreload bool
	Args           []string
	Kwargs         map[string]string
}

// withDefaults fills unset fields and returns a copy that shares no slices
// or maps with the caller.
func withDefaults(opts Options) (Options, launchConfig, error) {
	if err := mergo.Merge(&opts, defaultOptions()); err != nil {
		return Options{}, launchConfig{}, err
	}
	if opts.Properties == nil {
		opts.Properties = properties.Default()
	}
	if opts.Annotators != nil {
		opts.Annotators = append([]string(nil), opts.Annotators...)
	}

	var lc launchConfig
	if err := copier.CopyWithOption(&lc, &opts, copier.Option{DeepCopy: true}); err != nil {
		return Options{}, launchConfig{}, err
	}
	return opts, lc, nil
}
