package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/getzep/corenlp/config"
	"github.com/getzep/corenlp/internal"
	"github.com/getzep/corenlp/pkg/composer"
)

var (
	log = internal.GetLogger()

	cfgFile     string
	logLevel    string
	showVersion bool
	dumpConfig  bool

	annotators    []string
	outputFormat  string
	propertiesKey string
	filter        bool
)

var cmd = &cobra.Command{
	Use:          "corenlp",
	Short:        "corenlp talks to a Stanford CoreNLP server, starting one locally when needed",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(cmd); err != nil {
			return err
		}
		return cmd.Help()
	},
}

var annotateCmd = &cobra.Command{
	Use:     "annotate [text]",
	Short:   "Annotate text read from the arguments or stdin",
	Example: `corenlp annotate --annotators tokenize,ssplit,pos --output-format json "Chris wrote a sentence."`,
	RunE:    runAnnotate,
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Make sure the server is up, starting it if the start mode allows",
	Args:  cobra.NoArgs,
	RunE:  runPing,
}

var stubServerCmd = &cobra.Command{
	Use:   "stub-server",
	Short: "Serve a lightweight stand-in for the CoreNLP server API",
	Args:  cobra.NoArgs,
	RunE:  runStubServer,
}

var dumpJSONSchemaCmd = &cobra.Command{
	Use:     "json-schema",
	Short:   "Generates JSON Schema for the configuration file",
	Example: "corenlp json-schema > corenlp_config_schema.json",
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, err := config.JSONSchema()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(schema))
		return nil
	},
}

func patternCmd(kind composer.PatternKind, short string) *cobra.Command {
	c := &cobra.Command{
		Use:   string(kind) + " <pattern> [text]",
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPattern(cmd, kind, args)
		},
	}
	c.Flags().BoolVar(&filter, "filter", false, "only return sentences that match")
	return c
}

func init() {
	cmd.AddCommand(annotateCmd)
	cmd.AddCommand(patternCmd(composer.TokensRegex, "Match a TokensRegex pattern"))
	cmd.AddCommand(patternCmd(composer.Semgrex, "Match a Semgrex pattern against dependency graphs"))
	cmd.AddCommand(patternCmd(composer.TRegex, "Match a Tregex pattern against parse trees"))
	cmd.AddCommand(pingCmd)
	cmd.AddCommand(stubServerCmd)
	cmd.AddCommand(dumpJSONSchemaCmd)

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level")
	cmd.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "print version number")
	cmd.PersistentFlags().BoolVarP(&dumpConfig, "dump-config", "d", false, "dump config")

	annotateCmd.Flags().StringSliceVar(&annotators, "annotators", nil, "annotators for this request")
	annotateCmd.Flags().StringVar(&outputFormat, "output-format", "", "output format for this request")
	annotateCmd.Flags().StringVar(&propertiesKey, "properties-key", "", "language or registered properties label")
}

// Execute executes the root cobra command.
func Execute() {
	log.SetLevel(logrus.InfoLevel)

	err := cmd.Execute()

	if err != nil {
		os.Exit(1)
	}
}
