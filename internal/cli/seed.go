package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"votely/internal/db"
	"votely/internal/model"
	"votely/internal/repository"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	File string
}

// SeedResult reports what the seed command changed.
type SeedResult struct {
	Source   string            `json:"source"`
	Inserted int               `json:"inserted"`
	Upserted []model.Candidate `json:"upserted,omitempty"`
}

// NewSeedCommand creates the seed subcommand.
func NewSeedCommand(rootOpts *RootOptions, backend Backend) *cobra.Command {
	opts := &SeedOptions{}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed or update candidates",
		Long: `Without --file, inserts the default candidates into an empty candidates table.
With --file, upserts every candidate in the YAML file by id. Vote counts are never changed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), cmd.OutOrStdout(), rootOpts, opts, backend)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "YAML file of candidates to upsert")

	return cmd
}

func runSeed(ctx context.Context, out io.Writer, rootOpts *RootOptions, opts *SeedOptions, backend Backend) error {
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: out}

	var fromFile []model.Candidate
	if opts.File != "" {
		f, err := os.Open(opts.File)
		if err != nil {
			return formatter.Failure(WrapExitError(ExitCommandError, "open candidate file", err))
		}
		fromFile, err = db.LoadCandidates(f)
		f.Close()
		if err != nil {
			return formatter.Failure(WrapExitError(ExitCommandError, opts.File, err))
		}
	}

	gormDB, _, closeFn, err := backend()
	if err != nil {
		return formatter.Failure(WrapExitError(ExitCommandError, "open database", err))
	}
	defer closeFn()

	result := SeedResult{Source: "defaults"}
	if fromFile == nil {
		result.Inserted, err = db.SeedCandidates(gormDB, db.DefaultCandidates)
		if err != nil {
			return formatter.Failure(WrapExitError(ExitCommandError, "seed candidates", err))
		}
	} else {
		result.Source = opts.File
		repos := repository.New(gormDB)
		err = repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
			for i := range fromFile {
				if err := tx.Candidates.Upsert(ctx, &fromFile[i]); err != nil {
					return fmt.Errorf("upsert %q: %w", fromFile[i].Name, err)
				}
			}
			return nil
		})
		if err != nil {
			return formatter.Failure(WrapExitError(ExitCommandError, "seed candidates", err))
		}
		result.Upserted = fromFile
	}

	slog.Info("candidates seeded", "source", result.Source, "inserted", result.Inserted, "upserted", len(result.Upserted))

	return formatter.Result("ok", result, func(w io.Writer) {
		if result.Upserted == nil {
			fmt.Fprintf(w, "Inserted %d default candidates\n", result.Inserted)
			return
		}
		fmt.Fprintf(w, "Upserted %d candidates from %s\n", len(result.Upserted), result.Source)
		for _, c := range result.Upserted {
			fmt.Fprintf(w, "  %d\t%s\n", c.ID, c.Name)
		}
	})
}
