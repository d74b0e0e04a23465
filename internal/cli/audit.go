package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"votely/internal/model"
	"votely/internal/service"
)

// NewAuditCommand creates the audit subcommand. It exits with ExitFailure
// when any candidate counter disagrees with its vote rows.
func NewAuditCommand(rootOpts *RootOptions, backend Backend) *cobra.Command {
	return &cobra.Command{
		Use:           "audit",
		Short:         "Compare candidate counters with recorded votes",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return withResults(backend, func(results service.ResultsService) error {
				drift, err := results.Audit(cmd.Context())
				if err != nil {
					return formatter.Failure(WrapExitError(ExitCommandError, "audit tallies", err))
				}
				if len(drift) == 0 {
					return formatter.Result("ok", []model.ResultRow{}, func(w io.Writer) {
						fmt.Fprintln(w, "All candidate tallies match recorded votes")
					})
				}
				if err := formatter.Result("drift", drift, func(w io.Writer) {
					writeDrift(w, "Tallies out of sync:", drift)
				}); err != nil {
					return err
				}
				return NewExitError(ExitFailure, fmt.Sprintf("%d candidate tallies out of sync", len(drift)))
			})
		},
	}
}

// NewReconcileCommand creates the reconcile subcommand.
func NewReconcileCommand(rootOpts *RootOptions, backend Backend) *cobra.Command {
	return &cobra.Command{
		Use:           "reconcile",
		Short:         "Reset drifted candidate counters to their recorded vote count",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return withResults(backend, func(results service.ResultsService) error {
				fixed, err := results.Reconcile(cmd.Context())
				if err != nil {
					return formatter.Failure(WrapExitError(ExitCommandError, "reconcile tallies", err))
				}
				if fixed == nil {
					fixed = []model.ResultRow{}
				}
				return formatter.Result("ok", fixed, func(w io.Writer) {
					if len(fixed) == 0 {
						fmt.Fprintln(w, "Nothing to reconcile")
						return
					}
					writeDrift(w, "Reconciled:", fixed)
				})
			})
		},
	}
}

func writeDrift(w io.Writer, title string, rows []model.ResultRow) {
	fmt.Fprintln(w, title)
	for _, row := range rows {
		fmt.Fprintf(w, "  %d\t%s\tcounter=%d votes=%d\n", row.ID, row.Name, row.VoteCount, row.TotalVotes)
	}
}
