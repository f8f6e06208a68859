package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/dr-readiness/pkg/adapters"
	"github.com/de-tools/dr-readiness/pkg/runtime/terminal/export"
	awscollector "github.com/de-tools/dr-readiness/pkg/services/collector/aws"
	"github.com/de-tools/dr-readiness/pkg/services/notify"
	"github.com/de-tools/dr-readiness/pkg/services/readiness"
	"github.com/de-tools/dr-readiness/pkg/services/workflow"
	"github.com/de-tools/dr-readiness/pkg/store/history"
)

type CheckCmd struct {
	env       *Env
	saveFacts string
}

func NewCheckCmd(env *Env) *cobra.Command {
	cc := &CheckCmd{env: env}
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Collect live DR facts from AWS and evaluate readiness",
		RunE:  cc.run,
	}

	cmd.Flags().String("alarm-prefix", "", "Only evaluate CloudWatch alarms with this name prefix")
	cmd.Flags().Bool("concurrent", false, "Run the readiness checks in parallel")
	cmd.Flags().String("sns-topic", "", "SNS topic ARN notified when the report does not pass")
	cmd.Flags().StringVar(&cc.saveFacts, "save-facts", "", "Write the collected facts to this file for offline evaluation")

	_ = env.Viper.BindPFlag("alarm_name_prefix", cmd.Flags().Lookup("alarm-prefix"))
	_ = env.Viper.BindPFlag("concurrent", cmd.Flags().Lookup("concurrent"))
	_ = env.Viper.BindPFlag("sns_topic_arn", cmd.Flags().Lookup("sns-topic"))

	return cmd
}

func (cc *CheckCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := zerolog.Ctx(ctx)

	settings, err := cc.env.Settings()
	if err != nil {
		return err
	}
	reporter, err := export.NewReporter(settings.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	session, err := cc.env.Connect(ctx, awscollector.Options{
		Profile:         settings.Profile,
		PrimaryRegion:   settings.PrimaryRegion,
		DRRegion:        settings.DRRegion,
		AlarmNamePrefix: settings.AlarmNamePrefix,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to AWS: %w", err)
	}

	opts := []workflow.RunnerOption{workflow.WithClock(cc.env.now)}
	if settings.HistoryDSN != "" {
		db, err := history.Open(ctx, settings.HistoryDSN)
		if err != nil {
			return fmt.Errorf("failed to open report history: %w", err)
		}
		defer db.Close()

		store, err := history.NewStore(db)
		if err != nil {
			return err
		}
		opts = append(opts, workflow.WithHistory(store))
	}
	if settings.SNSTopicARN != "" {
		opts = append(opts, workflow.WithNotifier(notify.NewSNSNotifier(session.Primary, settings.SNSTopicARN)))
	}

	runner := workflow.NewRunner(
		session.Controller,
		readiness.NewEvaluator(),
		adapters.MapSettingsToReadiness(*settings, session.Primary.Region),
		opts...,
	)
	logger.Info().
		Str("primary_region", runner.Settings().PrimaryRegion).
		Str("dr_region", runner.Settings().DRRegion).
		Msg("starting DR readiness check")

	res, err := runner.RunOnce(ctx)
	if err != nil {
		return err
	}

	if cc.saveFacts != "" {
		req := adapters.MapInputToEvaluateRequest(res.Input, runner.Settings(), res.Report.GeneratedAt)
		if err := writeFacts(cc.saveFacts, req); err != nil {
			return err
		}
		logger.Info().Str("path", cc.saveFacts).Msg("saved collected facts")
	}

	if err := reporter.HandleRun(res.Report, res.Input); err != nil {
		return err
	}
	if !res.Report.Ready() {
		return ErrNotReady
	}
	return nil
}
