package commands

import (
	"github.com/spf13/cobra"

	"github.com/de-tools/dr-readiness/pkg/adapters"
	"github.com/de-tools/dr-readiness/pkg/runtime/terminal/export"
	"github.com/de-tools/dr-readiness/pkg/services/readiness"
)

type EvaluateCmd struct {
	env *Env
}

func NewEvaluateCmd(env *Env) *cobra.Command {
	ec := &EvaluateCmd{env: env}
	return &cobra.Command{
		Use:   "evaluate <facts-file>",
		Short: "Evaluate readiness from a saved JSON or YAML facts file",
		Long: "Evaluate readiness from facts saved by 'check --save-facts' or produced elsewhere.\n" +
			"Regions and thresholds in the file are used unless set by flags, environment or config file.",
		Args: cobra.ExactArgs(1),
		RunE: ec.run,
	}
}

func (ec *EvaluateCmd) run(cmd *cobra.Command, args []string) error {
	req, err := readFacts(args[0])
	if err != nil {
		return err
	}

	// the file ranks below every other settings source
	if req.PrimaryRegion != "" {
		ec.env.Viper.SetDefault("primary_region", req.PrimaryRegion)
	}
	if req.DRRegion != "" {
		ec.env.Viper.SetDefault("dr_region", req.DRRegion)
	}
	if req.RPOMinutes > 0 {
		ec.env.Viper.SetDefault("rpo_minutes", req.RPOMinutes)
	}
	if req.ReplicaLagThresholdSeconds > 0 {
		ec.env.Viper.SetDefault("replica_lag_threshold_seconds", req.ReplicaLagThresholdSeconds)
	}

	settings, err := ec.env.Settings()
	if err != nil {
		return err
	}
	reporter, err := export.NewReporter(settings.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	now := ec.env.now().UTC()
	if req.GeneratedAt != nil {
		now = req.GeneratedAt.UTC()
	}

	input := adapters.MapEvaluateRequestToInput(*req)
	report, err := readiness.NewEvaluator().Evaluate(
		input,
		adapters.MapSettingsToReadiness(*settings, ""),
		now,
	)
	if err != nil {
		return err
	}

	if err := reporter.HandleRun(report, input); err != nil {
		return err
	}
	if !report.Ready() {
		return ErrNotReady
	}
	return nil
}
