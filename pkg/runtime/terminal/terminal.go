package terminal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/dr-readiness/pkg/runtime/terminal/commands"
	"github.com/de-tools/dr-readiness/pkg/services/config"
)

// CLI represents the command-line interface
type CLI struct {
	env     *commands.Env
	logOut  io.Writer
	rootCmd *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Connect  commands.ConnectFunc
	Profiles config.Registry
	Output   io.Writer
	// LogOutput receives log lines; reports go to Output.
	LogOutput io.Writer
	Now       func() time.Time
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	cli := &CLI{
		env: &commands.Env{
			Viper:    config.NewViper(),
			Connect:  opts.Connect,
			Profiles: opts.Profiles,
			Now:      opts.Now,
		},
		logOut: opts.LogOutput,
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "drcheck",
		Short:             "AWS disaster recovery readiness check",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setupLogger,
	}

	v := cli.env.Viper
	flags := cmd.PersistentFlags()
	flags.StringVar(&cli.env.ConfigPath, "config", "", "Path to a YAML, JSON or TOML config file")
	flags.String("profile", "", "AWS shared config profile")
	flags.String("primary-region", "", "Primary AWS region (default is the profile's region)")
	flags.String("dr-region", "", "DR AWS region")
	flags.Int("rpo-minutes", config.DefaultRPOMinutes, "RPO target in minutes")
	flags.Int("replica-lag-threshold", config.DefaultReplicaLagThresholdSeconds, "RDS replica lag threshold in seconds")
	flags.StringP("output", "o", config.DefaultOutput, "Output format: text, json or yaml")
	flags.String("history", "", "Report history: a DuckDB file path or a postgres:// URL")
	flags.String("log-level", config.DefaultLogLevel, "Log level: trace, debug, info, warn or error")

	for key, name := range map[string]string{
		"profile":                       "profile",
		"primary_region":                "primary-region",
		"dr_region":                     "dr-region",
		"rpo_minutes":                   "rpo-minutes",
		"replica_lag_threshold_seconds": "replica-lag-threshold",
		"output":                        "output",
		"history_dsn":                   "history",
		"log_level":                     "log-level",
	} {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}

	cmd.AddCommand(commands.NewCheckCmd(cli.env))
	cmd.AddCommand(commands.NewEvaluateCmd(cli.env))
	cmd.AddCommand(commands.NewProfilesCmd(cli.env))
	cmd.AddCommand(commands.NewHistoryCmd(cli.env))

	return cmd
}

func (cli *CLI) setupLogger(cmd *cobra.Command, _ []string) error {
	level, err := zerolog.ParseLevel(cli.env.Viper.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: cli.logOut, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Logger()
	cmd.SetContext(logger.WithContext(cmd.Context()))
	return nil
}
