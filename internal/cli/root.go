// Package cli implements the envelope command tree. Each command maps
// 1:1 onto an engine command; the engine returns the new full snapshot
// or a typed error, and the formatter renders one or the other.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the envelope CLI.
func NewRootCommand() *cobra.Command {
	// Config must load before flag registration: the env-backed values
	// become the flag defaults, so flags override environment. Any load
	// error is reported from PersistentPreRunE, the earliest point that
	// can return one.
	cfg, err := LoadConfig()
	opts := &RootOptions{Config: cfg}

	cmd := &cobra.Command{
		Use:   "envelope",
		Short: "Envelope - household envelope budgeting",
		Long: `A local-first envelope budgeting ledger for a two-person household.

Every command recomputes the household snapshot from the transaction
history, persists it locally, and best-effort syncs it to the shared
remote document.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid environment configuration", err)
			}
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			logLevel := slog.LevelWarn
			if opts.Verbose {
				logLevel = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})))
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config.DB, "db", opts.Config.DB, "local snapshot database path")
	cmd.PersistentFlags().StringVar(&opts.Config.RemoteDB, "remote-db", opts.Config.RemoteDB, "shared household document database path")
	cmd.PersistentFlags().StringVar(&opts.Config.Household, "household", opts.Config.Household, "household id")
	cmd.PersistentFlags().StringVar(&opts.Config.User, "user", opts.Config.User, "user id for audit metadata")

	// Add subcommands
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewEnvelopeCommand(opts))
	cmd.AddCommand(NewAssignCommand(opts))
	cmd.AddCommand(NewAllocateCommand(opts))
	cmd.AddCommand(NewTxCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
