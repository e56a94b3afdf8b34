package cli

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/vscroll/internal/config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// appState carries the resolved configuration from the root command to subcommands.
type appState struct {
	cfg *config.Config

	// stdinIsTTY and stdoutIsTTY are swapped out by tests.
	stdinIsTTY  func() bool
	stdoutIsTTY func() bool
}

// NewRootCmd creates the root Cobra command for the vscroll CLI.
// It wires up configuration, logging and the simulate, browse and config subcommands.
func NewRootCmd(ver string) *cobra.Command {
	return NewRootCmdWithArgs(ver, os.LookupEnv)
}

// NewRootCmdWithArgs creates the root command with an explicit env lookup for testability.
func NewRootCmdWithArgs(ver string, lookupEnv func(string) (string, bool)) *cobra.Command {
	state := &appState{
		stdinIsTTY:  func() bool { return isTerminal(os.Stdin) },
		stdoutIsTTY: func() bool { return isTerminal(os.Stdout) },
	}

	cmd := &cobra.Command{
		Use:           "vscroll",
		Short:         "List windowing engine, trace replayer and terminal list browser",
		Long:          "vscroll: compute which items of a long list intersect a viewport, replay scroll traces and browse huge lists in the terminal",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, lookupEnv)
			if err != nil {
				return err
			}
			state.cfg = cfg
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd)
		},
	}

	cmd.PersistentFlags().String("config", "", "config file (default ~/.vscroll/config.yaml, or $"+config.EnvConfigPath+")")
	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error")

	cmd.AddCommand(newSimulateCmd(state), newBrowseCmd(state), newConfigCmd(state))

	return cmd
}

const rootCmdExample = `  # Replay a recorded scroll session
  vscroll simulate --trace session.yaml

  # Same, as JSON for scripting
  vscroll simulate --trace session.yaml --output json

  # Browse 100,000 generated rows in the terminal
  vscroll browse --count 100000

  # Show the effective configuration
  vscroll config show`

// loadConfig resolves the configuration from file, project overlay, env and
// flags, then initializes logging from it.
func loadConfig(cmd *cobra.Command, lookupEnv func(string) (string, bool)) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if envPath, ok := lookupEnv(config.EnvConfigPath); ok {
			path = envPath
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		cwd = ""
	}

	projectDir := config.ResolveProjectDir(cmd.Context(), lookupEnv, cwd)

	cfg, err := config.LoadWithProject(path, projectDir)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	skipped := cfg.ApplyEnv(lookupEnv)
	notes := cfg.Normalize()

	if err = setupLogging(cmd, cfg); err != nil {
		return nil, err
	}

	for _, name := range skipped {
		logger.Warn().Str("variable", name).Msg("ignoring unparseable environment override")
	}
	for _, note := range notes {
		logger.Warn().Msg(note)
	}
	return cfg, nil
}

// newConfigCmd creates the config command group.
func newConfigCmd(state *appState) *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration commands"}
	cmd.AddCommand(newConfigShowCmd(state))
	return cmd
}
