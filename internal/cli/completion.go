package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/slidesmith/pkg/deck"
	"github.com/matzehuels/slidesmith/pkg/render"
)

var shells = []string{"bash", "zsh", "fish", "powershell"}

// completionCommand creates the completion command.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for slidesmith.

  bash:        source <(slidesmith completion bash)
  zsh:         slidesmith completion zsh > "${fpath[1]}/_slidesmith"
  fish:        slidesmith completion fish | source
  powershell:  slidesmith completion powershell | Out-String | Invoke-Expression

Theme, layout, font style and format flags complete their allowed values.`,
		DisableFlagsInUseLine: true,
		ValidArgs:             shells,
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeCompletion(cmd.Root(), args[0], cmd.OutOrStdout())
		},
	}
}

func writeCompletion(root *cobra.Command, shell string, w io.Writer) error {
	switch shell {
	case "bash":
		return root.GenBashCompletionV2(w, true)
	case "zsh":
		return root.GenZshCompletion(w)
	case "fish":
		return root.GenFishCompletion(w, true)
	case "powershell":
		return root.GenPowerShellCompletionWithDesc(w)
	}
	return fmt.Errorf("unsupported shell %q", shell)
}

// registerSettingsCompletions wires value completion for the settings flags.
func registerSettingsCompletions(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("theme", completeFixed(deck.ThemeNames()...))
	_ = cmd.RegisterFlagCompletionFunc("layout", completeFixed(
		string(deck.LayoutMixed), string(deck.LayoutClassic), string(deck.LayoutSplit), string(deck.LayoutCard)))
	_ = cmd.RegisterFlagCompletionFunc("font-style", completeFixed(
		string(deck.FontModern), string(deck.FontClassic), string(deck.FontHandwritten)))
	_ = cmd.RegisterFlagCompletionFunc("theme-file", completeExt("toml"))
	_ = cmd.RegisterFlagCompletionFunc("logo", completeExt("png", "jpg", "jpeg"))
}

// registerFormatCompletion completes a comma-separated format list.
func registerFormatCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		prefix := ""
		if i := strings.LastIndex(toComplete, ","); i >= 0 {
			prefix = toComplete[:i+1]
		}
		out := make([]string, 0, len(render.Formats))
		for _, f := range render.Formats {
			out = append(out, prefix+f)
		}
		return out, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	})
}

func completeFixed(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

func completeExt(exts ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return exts, cobra.ShellCompDirectiveFilterFileExt
	}
}
