package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"votely/internal/cache"
	"votely/internal/repository"
	"votely/internal/service"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// Backend opens the store and cache the commands operate on. The returned
// close func releases both.
type Backend func() (*gorm.DB, *cache.Client, func(), error)

// NewRootCommand creates the root command for the votectl CLI.
func NewRootCommand(backend Backend) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "votectl",
		Short: "votectl administers a Votely ballot",
		Long:  "Seed candidates, inspect participation and audit or reconcile vote tallies.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSeedCommand(opts, backend))
	cmd.AddCommand(NewStatsCommand(opts, backend))
	cmd.AddCommand(NewAuditCommand(opts, backend))
	cmd.AddCommand(NewReconcileCommand(opts, backend))

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

// withResults opens the backend and runs fn against a results service.
func withResults(backend Backend, fn func(results service.ResultsService) error) error {
	gormDB, cacheClient, closeFn, err := backend()
	if err != nil {
		return WrapExitError(ExitCommandError, "open database", err)
	}
	defer closeFn()
	return fn(service.NewResultsService(repository.New(gormDB), cacheClient))
}
