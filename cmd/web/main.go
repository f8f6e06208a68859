package main

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/de-tools/dr-readiness/pkg/adapters"
	handlers "github.com/de-tools/dr-readiness/pkg/handlers/reports"
	"github.com/de-tools/dr-readiness/pkg/server"
	awscollector "github.com/de-tools/dr-readiness/pkg/services/collector/aws"
	"github.com/de-tools/dr-readiness/pkg/services/config"
	"github.com/de-tools/dr-readiness/pkg/services/notify"
	"github.com/de-tools/dr-readiness/pkg/services/readiness"
	"github.com/de-tools/dr-readiness/pkg/services/workflow"
	"github.com/de-tools/dr-readiness/pkg/store/history"
)

var cfgPath string

func main() {
	v := config.NewViper()

	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the DR readiness web server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context(), v)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&cfgPath, "config", "c", "", "Path to a YAML, JSON or TOML config file")
	flags.String("addr", config.DefaultAddr, "Listen address, overridden by SERVER_HOST and SERVER_PORT")
	flags.String("history", "", "Report history: a DuckDB file path or a postgres:// URL")
	flags.Duration("interval", 0, "Run readiness checks on this interval, e.g. 15m (0 disables)")
	_ = v.BindPFlag("addr", flags.Lookup("addr"))
	_ = v.BindPFlag("history_dsn", flags.Lookup("history"))
	_ = v.BindPFlag("interval", flags.Lookup("interval"))

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(ctx context.Context, v *viper.Viper) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	settings, err := config.Decode(v, cfgPath)
	if err != nil {
		return err
	}
	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	ctx = logger.WithContext(ctx)

	deps := handlers.Dependencies{
		Evaluator: readiness.NewEvaluator(),
		Defaults:  adapters.MapSettingsToReadiness(*settings, ""),
	}

	if settings.HistoryDSN != "" {
		db, err := history.Open(ctx, settings.HistoryDSN)
		if err != nil {
			return fmt.Errorf("failed to open report history: %w", err)
		}
		defer db.Close()

		store, err := history.NewStore(db)
		if err != nil {
			return fmt.Errorf("failed to create history store: %w", err)
		}
		deps.History = store
		logger.Info().Bool("postgres", history.IsPostgresDSN(settings.HistoryDSN)).Msg("report history enabled")
	}

	// Without a DR region only offline evaluation is served.
	if settings.DRRegion == "" {
		logger.Warn().Msg("no DR region configured, live collection is disabled")
	} else {
		if err := settings.Validate(); err != nil {
			return err
		}

		session, err := awscollector.Connect(ctx, awscollector.Options{
			Profile:         settings.Profile,
			PrimaryRegion:   settings.PrimaryRegion,
			DRRegion:        settings.DRRegion,
			AlarmNamePrefix: settings.AlarmNamePrefix,
		})
		if err != nil {
			return fmt.Errorf("failed to connect to AWS: %w", err)
		}

		var opts []workflow.RunnerOption
		if deps.History != nil {
			opts = append(opts, workflow.WithHistory(deps.History))
		}
		if settings.SNSTopicARN != "" {
			opts = append(opts, workflow.WithNotifier(notify.NewSNSNotifier(session.Primary, settings.SNSTopicARN)))
		}

		runner := workflow.NewRunner(
			session.Controller,
			deps.Evaluator,
			adapters.MapSettingsToReadiness(*settings, session.Primary.Region),
			opts...,
		)
		deps.Runner = runner
		deps.Defaults = runner.Settings()

		if settings.Interval > 0 {
			scheduler := workflow.NewScheduler(runner, settings.Interval)
			schedCtx, cancel := context.WithCancel(ctx)
			defer func() {
				cancel()
				<-scheduler.Done()
			}()
			go scheduler.Run(schedCtx)

			deps.Latest = scheduler
			logger.Info().Dur("interval", settings.Interval).Msg("scheduled readiness runs enabled")
		}
	}

	addr := settings.Addr
	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")
	if host != "" || port != "" {
		addr = net.JoinHostPort(host, port)
	}

	return server.NewWebAPI(logger, server.Config{
		Addr:         addr,
		Dependencies: deps,
	}).Start()
}
