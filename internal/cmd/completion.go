package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/zfogg/moodjournal/pkg/guard"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for bash, zsh, fish, or powershell.

To load completions in your shell session, run:

Bash:
  source <(journal completion bash)

Zsh:
  source <(journal completion zsh)

Fish:
  journal completion fish | source

PowerShell:
  journal completion powershell | Out-String | Invoke-Expression

To load completions for every new session, execute once:

Bash:
  journal completion bash > /etc/bash_completion.d/journal

Zsh:
  journal completion zsh > /usr/local/share/zsh/site-functions/_journal

Fish:
  journal completion fish > ~/.config/fish/completions/journal.fish

PowerShell:
  journal completion powershell >> $PROFILE
`,
	Annotations: withGuard(guard.KindNone),
	ValidArgs:   []string{"bash", "zsh", "fish", "powershell"},
	Args:        cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(out)
		case "zsh":
			return rootCmd.GenZshCompletion(out)
		case "fish":
			return rootCmd.GenFishCompletion(out, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(out)
		}
		return fmt.Errorf("unknown shell: %s", args[0])
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
