package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qecworks/steanelab/internal/store"
)

// ResultsOptions holds flags for the results command.
type ResultsOptions struct {
	*RootOptions
	Database   string
	RunToken   string
	KeyPrefix  string
	FailedOnly bool
}

// StoredAggregate is one persisted aggregate in results output.
type StoredAggregate struct {
	Key      string  `json:"key"`
	RunToken string  `json:"run_token"`
	Hash     string  `json:"hash"`
	Shots    int     `json:"shots"`
	Accepted int     `json:"accepted"`
	Ones     int     `json:"ones"`
	P0       float64 `json:"p0"`
	Failure  string  `json:"failure,omitempty"`
}

// NewResultsCommand creates the results command.
func NewResultsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResultsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Inspect aggregates persisted by calibrate",
		Long: `List stored aggregates, filtered by run token, key prefix or failure.

Example:
  steanelab results --db ./steanelab.db --run 0190a5c0-...
  steanelab results --db ./steanelab.db --prefix survival- --failed`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResults(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().StringVar(&opts.RunToken, "run", "", "filter by run token")
	cmd.Flags().StringVar(&opts.KeyPrefix, "prefix", "", "filter by key prefix")
	cmd.Flags().BoolVar(&opts.FailedOnly, "failed", false, "only failed configurations")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runResults(opts *ResultsOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, fmt.Sprintf("opening database: %v", err), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx, stop := commandContext(cmd)
	defer stop()

	recs, err := st.QueryAggregates(ctx, store.Query{
		RunToken:   opts.RunToken,
		KeyPrefix:  opts.KeyPrefix,
		FailedOnly: opts.FailedOnly,
	})
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, fmt.Sprintf("querying aggregates: %v", err), nil)
		return WrapExitError(ExitCommandError, "failed to query aggregates", err)
	}

	out := make([]StoredAggregate, 0, len(recs))
	for _, rec := range recs {
		out = append(out, StoredAggregate{
			Key:      rec.Key,
			RunToken: rec.RunToken,
			Hash:     rec.CircuitHash,
			Shots:    rec.Shots,
			Accepted: rec.Accepted,
			Ones:     rec.Ones,
			P0:       rec.P0(),
			Failure:  rec.Failure,
		})
	}

	if formatter.Format == "json" {
		return formatter.Success(out)
	}

	fmt.Fprintf(formatter.Writer, "%d aggregate(s)\n", len(out))
	for _, a := range out {
		if a.Failure != "" {
			fmt.Fprintf(formatter.Writer, "  ✗ %s: %s\n", a.Key, a.Failure)
			continue
		}
		fmt.Fprintf(formatter.Writer, "  ✓ %s: shots=%d accepted=%d p0=%.4f\n",
			a.Key, a.Shots, a.Accepted, a.P0)
	}
	return nil
}
