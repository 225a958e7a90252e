package config

import "time"

// Config holds the configuration of the application
// Use LoadConfig to create a new instance
type Config struct {
	Server    ServerConfig    `mapstructure:"server"    yaml:"server"`
	Client    ClientConfig    `mapstructure:"client"    yaml:"client"`
	Liveness  LivenessConfig  `mapstructure:"liveness"  yaml:"liveness"`
	Stub      StubConfig      `mapstructure:"stub"      yaml:"stub"`
	Log       LogConfig       `mapstructure:"log"       yaml:"log"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`
}

// ServerConfig describes the CoreNLP server and, when the client is allowed
// to start one, how to launch it.
type ServerConfig struct {
	Endpoint  string `mapstructure:"endpoint"   yaml:"endpoint"   validate:"required,url"`
	StartMode string `mapstructure:"start_mode" yaml:"start_mode" validate:"oneof=dont_start force_start try_start"`
	// Properties is a language name or code, a properties file path, or empty
	// for client-generated defaults.
	Properties     string            `mapstructure:"properties"       yaml:"properties"`
	JavaBinary     string            `mapstructure:"java_binary"      yaml:"java_binary"`
	ClassPath      string            `mapstructure:"class_path"       yaml:"class_path"`
	Memory         string            `mapstructure:"memory"           yaml:"memory"`
	Timeout        time.Duration     `mapstructure:"timeout"          yaml:"timeout"          validate:"gte=0"`
	Threads        int               `mapstructure:"threads"          yaml:"threads"          validate:"gte=1"`
	MaxCharLength  int               `mapstructure:"max_char_length"  yaml:"max_char_length"  validate:"gte=1"`
	Quiet          bool              `mapstructure:"quiet"            yaml:"quiet"`
	DisablePreload bool              `mapstructure:"disable_preload"  yaml:"disable_preload"`
	Args           []string          `mapstructure:"args"             yaml:"args"             validate:"dive,oneof=ssl strict"`
	Kwargs         map[string]string `mapstructure:"kwargs"           yaml:"kwargs"`
	TempDir        string            `mapstructure:"temp_dir"         yaml:"temp_dir"`
}

type ClientConfig struct {
	Annotators     []string      `mapstructure:"annotators"      yaml:"annotators"`
	OutputFormat   string        `mapstructure:"output_format"   yaml:"output_format"   validate:"omitempty,oneof=text json xml conll conllu serialized"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout" validate:"gte=0"`
}

type LivenessConfig struct {
	Deadline        time.Duration `mapstructure:"deadline"          yaml:"deadline"          validate:"gte=0"`
	PollInterval    time.Duration `mapstructure:"poll_interval"     yaml:"poll_interval"     validate:"gte=0"`
	ProbeTimeout    time.Duration `mapstructure:"probe_timeout"     yaml:"probe_timeout"     validate:"gte=0"`
	StopGracePeriod time.Duration `mapstructure:"stop_grace_period" yaml:"stop_grace_period" validate:"gte=0"`
}

// StubConfig configures the built-in stub server used for local testing.
type StubConfig struct {
	Host           string `mapstructure:"host"             yaml:"host"`
	Port           int    `mapstructure:"port"             yaml:"port"             validate:"min=1,max=65535"`
	FailFirstPings int64  `mapstructure:"fail_first_pings" yaml:"fail_first_pings" validate:"gte=0"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
}

type TelemetryConfig struct {
	// OTLPEndpoint enables trace export when set, e.g. localhost:4318.
	OTLPEndpoint string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint"`
	Insecure     bool   `mapstructure:"insecure"      yaml:"insecure"`
	ServiceName  string `mapstructure:"service_name"  yaml:"service_name"`
}
