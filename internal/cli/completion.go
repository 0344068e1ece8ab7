package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

const completionHelp = `Generate shell completion scripts for {{app}}.

Bash:
  $ source <({{app}} completion bash)
  $ {{app}} completion bash > /etc/bash_completion.d/{{app}}

Zsh:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  $ {{app}} completion zsh > "${fpath[1]}/_{{app}}"

Fish:
  $ {{app}} completion fish > ~/.config/fish/completions/{{app}}.fish

PowerShell:
  PS> {{app}} completion powershell | Out-String | Invoke-Expression

Completions include layout --algorithm names.`

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate shell completion scripts",
		Long:                  strings.ReplaceAll(completionHelp, "{{app}}", appName),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := cmd.Root()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(c.Out, true)
			case "zsh":
				return root.GenZshCompletion(c.Out)
			case "fish":
				return root.GenFishCompletion(c.Out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(c.Out)
			}
		},
	}
}
