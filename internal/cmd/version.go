package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zfogg/moodjournal/pkg/guard"
)

// Version is overridden at build time with -ldflags "-X ...cmd.Version=...".
var Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Show CLI version",
	Annotations: withGuard(guard.KindNone),
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "Mood Journal CLI v%s\n", Version)
	},
}
