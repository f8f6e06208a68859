package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

type ProfilesCmd struct {
	env *Env
}

func NewProfilesCmd(env *Env) *cobra.Command {
	pc := &ProfilesCmd{env: env}
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the AWS profiles available for --profile",
		RunE:  pc.run,
	}
}

func (pc *ProfilesCmd) run(cmd *cobra.Command, _ []string) error {
	profiles, err := pc.env.Profiles.GetProfiles(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list AWS profiles: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(profiles) == 0 {
		fmt.Fprintln(out, "No AWS profiles found")
		return nil
	}

	fmt.Fprintln(out, "AWS profiles:")
	for _, p := range profiles {
		region := p.Region
		if region == "" {
			region = "-"
		}
		fmt.Fprintf(out, "  %-30s %-12s %s\n", p.Name, p.Source, region)
	}
	return nil
}
