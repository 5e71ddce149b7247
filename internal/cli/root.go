// Package cli wires the cobra command tree around the open2fa facade.
// Commands stay thin: parse flags, call the facade, format output.
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/liberfy/open2fa/internal/config"
	"github.com/liberfy/open2fa/internal/logger"
	"github.com/liberfy/open2fa/internal/open2fa"
)

var (
	verbose bool

	cfg *config.Config
	log *zap.Logger
	app *open2fa.Open2FA

	rootCmd = &cobra.Command{
		Use:           "open2fa",
		Short:         "Manage TOTP secrets and generate 2FA codes",
		Long:          "open2fa manages TOTP secrets locally and optionally syncs them,\nencrypted client-side, with a remote server.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			level := "warn"
			if verbose {
				level = "debug"
			}
			if log, err = logger.New(level); err != nil {
				return err
			}
			app, err = open2fa.New(cfg, log)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(remoteCmd)
}

// Execute runs the CLI and returns the process exit code: 0 on
// success, 1 on any fatal configuration or I/O failure.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// confirm prints a y/n prompt and reads one line from stdin.
func confirm(format string, a ...any) bool {
	fmt.Printf(format, a...)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
}

// truncate censors a sensitive value down to its first character.
func truncate(s string) string {
	if len(s) <= 1 {
		return s
	}
	return s[:1] + "..."
}
