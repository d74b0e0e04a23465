package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"votely/internal/service"
)

// NewStatsCommand creates the stats subcommand.
func NewStatsCommand(rootOpts *RootOptions, backend Backend) *cobra.Command {
	return &cobra.Command{
		Use:           "stats",
		Short:         "Show participation and vote distribution",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			return withResults(backend, func(results service.ResultsService) error {
				stats, err := results.Stats(cmd.Context())
				if err != nil {
					return formatter.Failure(WrapExitError(ExitCommandError, "load stats", err))
				}
				return formatter.Result("ok", stats, func(w io.Writer) {
					fmt.Fprintf(w, "Users:      %d (%d voted)\n", stats.TotalUsers, stats.VotedUsers)
					fmt.Fprintf(w, "Candidates: %d\n", stats.TotalCandidates)
					fmt.Fprintf(w, "Votes:      %d\n", stats.TotalVotes)
					for _, c := range stats.VoteDistribution {
						fmt.Fprintf(w, "  %5d  %s\n", c.VoteCount, c.Name)
					}
				})
			})
		},
	}
}
