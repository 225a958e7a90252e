package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getzep/corenlp/config"
	"github.com/getzep/corenlp/pkg/client"
	"github.com/getzep/corenlp/pkg/composer"
	"github.com/getzep/corenlp/pkg/stubserver"
)

var errNoResult = errors.New("the server returned no usable result")

// loadConfig reads the config, applies the log level and handles the flags
// that print something and exit.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("error configuring corenlp: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	config.SetLogLevel(cfg)

	handleCLIOptions(cmd, cfg)
	return cfg, nil
}

// handleCLIOptions handles CLI options that don't require a server
func handleCLIOptions(cmd *cobra.Command, cfg *config.Config) {
	if showVersion {
		fmt.Fprintln(cmd.OutOrStdout(), config.VersionString)
		os.Exit(0)
	}
	if dumpConfig {
		out, err := yaml.Marshal(cfg)
		if err != nil {
			log.Fatalf("failed to dump config: %v", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		os.Exit(0)
	}
}

// withClient loads the config, sets up tracing and hands a client to fn.
// The client is closed, stopping any server it started, when fn returns or
// the process is interrupted.
func withClient(cmd *cobra.Command, fn func(ctx context.Context, c *client.Client) error) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := setupTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Warnf("failed to flush traces: %v", err)
		}
	}()

	c, err := client.New(clientOptions(cfg))
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Errorf("error closing client: %v", err)
		}
	}()

	return fn(ctx, c)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	text, err := readText(cmd, args)
	if err != nil {
		return err
	}
	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		res, err := c.Annotate(ctx, text, &client.AnnotateRequest{
			Annotators:    annotators,
			OutputFormat:  outputFormat,
			PropertiesKey: propertiesKey,
		})
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), res)
	})
}

func runPattern(cmd *cobra.Command, kind composer.PatternKind, args []string) error {
	pattern := args[0]
	text, err := readText(cmd, args[1:])
	if err != nil {
		return err
	}
	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		var matches map[string]any
		switch kind {
		case composer.TokensRegex:
			matches, err = c.TokensRegex(ctx, text, pattern, filter)
		case composer.Semgrex:
			matches, err = c.Semgrex(ctx, text, pattern, filter)
		case composer.TRegex:
			matches, err = c.TRegex(ctx, text, pattern, filter)
		}
		if err != nil {
			return err
		}
		if matches == nil {
			return errNoResult
		}
		return printJSON(cmd.OutOrStdout(), matches)
	})
}

func runPing(cmd *cobra.Command, _ []string) error {
	return withClient(cmd, func(ctx context.Context, c *client.Client) error {
		if err := c.EnsureAlive(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is %s\n", c.Endpoint(), c.Supervisor().State())
		return nil
	})
}

func runStubServer(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	stub := stubserver.New(stubserver.Options{
		FailFirstPings: cfg.Stub.FailFirstPings,
		Username:       cfg.Server.Kwargs["username"],
		Password:       cfg.Server.Kwargs["password"],
	})
	srv := stub.Create(cfg.Stub.Host, cfg.Stub.Port)
	setupSignalHandler(srv)

	log.Infof("Starting corenlp stub server version %s", config.VersionString)
	log.Infof("Listening on: %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// setupSignalHandler shuts the stub server down on termination
func setupSignalHandler(srv *http.Server) {
	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signalCh
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Errorf("Error shutting down stub server: %v", err)
		}
	}()
}

// readText joins args, or reads stdin when there are none.
func readText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(b), nil
}

func printResult(w io.Writer, res *client.Result) error {
	switch {
	case res == nil:
		return errNoResult
	case res.Document != nil:
		_, err := fmt.Fprint(w, res.Document.String())
		return err
	case res.JSON != nil:
		return printJSON(w, res.JSON)
	}
	_, err := fmt.Fprintln(w, strings.TrimRight(res.Text, "\n"))
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
