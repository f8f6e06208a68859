package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/de-tools/dr-readiness/pkg/runtime/terminal/export"
	"github.com/de-tools/dr-readiness/pkg/store/history"
)

type HistoryCmd struct {
	env   *Env
	limit int
}

func NewHistoryCmd(env *Env) *cobra.Command {
	hc := &HistoryCmd{env: env}
	cmd := &cobra.Command{
		Use:   "history [report-id]",
		Short: "List archived readiness reports, or show one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  hc.run,
	}

	cmd.Flags().IntVar(&hc.limit, "limit", history.DefaultListLimit, "Maximum number of reports to list")

	return cmd
}

func (hc *HistoryCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	settings, err := hc.env.PartialSettings()
	if err != nil {
		return err
	}
	if settings.HistoryDSN == "" {
		return fmt.Errorf("no report history configured, set --history or DRCHECK_HISTORY_DSN")
	}
	if hc.limit <= 0 {
		return fmt.Errorf("invalid limit %d, expected a positive integer", hc.limit)
	}
	reporter, err := export.NewReporter(settings.Output, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	db, err := history.Open(ctx, settings.HistoryDSN)
	if err != nil {
		return fmt.Errorf("failed to open report history: %w", err)
	}
	defer db.Close()

	store, err := history.NewStore(db)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		report, err := store.Get(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to load report %s: %w", args[0], err)
		}
		return reporter.Handle(*report)
	}

	reports, err := store.List(ctx, hc.limit)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	return reporter.HandleList(reports)
}
