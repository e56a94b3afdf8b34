package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newConfigShowCmd creates the config show command.
func newConfigShowCmd(state *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long: `Prints the configuration after applying defaults, the global config file,
the project .vscroll.yaml overlay, VSCROLL_* environment variables and flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := state.cfg.Marshal()
			if err != nil {
				return fmt.Errorf("rendering configuration: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
