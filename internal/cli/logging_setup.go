package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/vscroll/internal/config"
)

// setupLogging configures logging from the resolved config and CLI flags.
// --debug wins over --log-level, which wins over config and environment.
func setupLogging(cmd *cobra.Command, cfg *config.Config) error {
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = config.FormatConsole
		cfg.Logging.File = ""
	}

	if err := config.InitLogger(cfg.Logging); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	logger = config.ComponentLogger("cli")

	ctx := logger.WithContext(cmd.Context())
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")
	return nil
}

// cleanupLogging closes the log file handle, if any.
func cleanupLogging(cmd *cobra.Command) error {
	logger.Debug().Ctx(cmd.Context()).Str("command", cmd.Name()).Msg("command finished")
	config.CloseLogFile()
	return nil
}
