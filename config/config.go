package config

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/getzep/corenlp/internal"
	"github.com/getzep/corenlp/pkg/httputil"
	"github.com/getzep/corenlp/pkg/models"
	"github.com/getzep/corenlp/pkg/supervisor"
)

// We're bootstrapping so avoid any imports from other packages
var log = logrus.New()

const EnvPrefix = "CORENLP"

// LoadConfig loads the config file and ENV variables into a Config struct.
// A missing config.yaml in the working directory is not an error; a missing
// configFile is.
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
	}

	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, err
		}
		log.Debug("config file not found, using defaults and environment")
	}

	// Environment variables take precedence over config file
	loadDotEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return models.NewConfigError("%s", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.endpoint", models.DefaultEndpoint)
	v.SetDefault("server.start_mode", string(models.DefaultStartMode))
	v.SetDefault("server.properties", "")
	v.SetDefault("server.java_binary", models.DefaultJavaBinary)
	v.SetDefault("server.class_path", "")
	v.SetDefault("server.memory", models.DefaultMemory)
	v.SetDefault("server.timeout", models.DefaultTimeout)
	v.SetDefault("server.threads", models.DefaultThreads)
	v.SetDefault("server.max_char_length", models.DefaultMaxCharLength)
	v.SetDefault("server.quiet", false)
	v.SetDefault("server.disable_preload", false)
	v.SetDefault("server.args", []string{})
	v.SetDefault("server.kwargs", map[string]string{})
	v.SetDefault("server.temp_dir", "")

	v.SetDefault("client.annotators", []string{})
	v.SetDefault("client.output_format", models.DefaultOutputFormat)
	v.SetDefault("client.request_timeout", httputil.DefaultRequestTimeout)

	v.SetDefault("liveness.deadline", supervisor.DefaultLivenessDeadline)
	v.SetDefault("liveness.poll_interval", supervisor.DefaultPollInterval)
	v.SetDefault("liveness.probe_timeout", httputil.DefaultProbeTimeout)
	v.SetDefault("liveness.stop_grace_period", supervisor.DefaultStopGracePeriod)

	v.SetDefault("stub.host", "localhost")
	v.SetDefault("stub.port", 9000)
	v.SetDefault("stub.fail_first_pings", 0)

	v.SetDefault("log.level", "info")

	v.SetDefault("telemetry.otlp_endpoint", "")
	v.SetDefault("telemetry.insecure", false)
	v.SetDefault("telemetry.service_name", "corenlp")
}

// loadDotEnv loads environment variables from .env file
func loadDotEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Debug(".env file not found or unable to load")
	}
}

// SetLogLevel sets the log level based on the config file. Defaults to INFO if not set or invalid
func SetLogLevel(cfg *Config) {
	level, err := logrus.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	internal.SetLogLevel(level)
	log.Debug("Log level set to: ", level)
}
