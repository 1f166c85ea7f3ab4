package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	var root string

	cmd := &cobra.Command{
		Use:           "feedback",
		Short:         "Collect QR-code survey feedback and report NPS-style scores",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVar(&root, "root", ".", "project root holding config/ and logs/")

	cmd.AddCommand(
		newServeCmd(&root),
		newSeedCmd(&root),
		newScoreCmd(&root),
		newExportCmd(&root),
		newEntryLinkCmd(&root),
	)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
