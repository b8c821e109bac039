package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand emits a completion script for the named shell.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <shell>",
		Short: "Generate a shell completion script",
		Long: `Generate a completion script for bash, zsh, fish, or powershell.

The script is written to stdout. Load it in the current session or
install it where your shell looks for completions:

  # bash (current session)
  source <(handflow completion bash)

  # bash (persistent, Linux)
  handflow completion bash > /etc/bash_completion.d/handflow

  # zsh
  handflow completion zsh > "${fpath[1]}/_handflow"

  # fish
  handflow completion fish > ~/.config/fish/completions/handflow.fish

  # powershell
  handflow completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletion(os.Stdout)
			case "zsh":
				return root.GenZshCompletion(os.Stdout)
			case "fish":
				return root.GenFishCompletion(os.Stdout, true)
			default:
				return root.GenPowerShellCompletionWithDesc(os.Stdout)
			}
		},
	}
}
