package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/de-tools/dr-readiness/pkg/runtime/terminal"
	"github.com/de-tools/dr-readiness/pkg/runtime/terminal/commands"
	awscollector "github.com/de-tools/dr-readiness/pkg/services/collector/aws"
	"github.com/de-tools/dr-readiness/pkg/services/config"
)

func main() {
	profiles, err := config.NewDefaultRegistry()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cli := terminal.NewCLI(terminal.Options{
		Connect:  awscollector.Connect,
		Profiles: profiles,
		Output:   os.Stdout,
	})

	if err := cli.Execute(); err != nil {
		if !errors.Is(err, commands.ErrNotReady) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
