package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/qecworks/steanelab/internal/backend"
	"github.com/qecworks/steanelab/internal/sweep"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Seed    int64
	Workers int

	// Tokens allows overriding the run token generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	Tokens sweep.RunTokenGenerator
}

// ResultSummary is one configuration's outcome in a sweep report.
type ResultSummary struct {
	Name       string  `json:"name"`
	Key        string  `json:"key"`
	Hash       string  `json:"hash,omitempty"`
	Shots      int     `json:"shots"`
	Accepted   int     `json:"accepted"`
	Ones       int     `json:"ones"`
	P0         float64 `json:"p0"`
	AcceptRate float64 `json:"accept_rate"`
	Error      string  `json:"error,omitempty"`

	config sweep.Config
}

// SweepReport is the full output of a sweep execution.
type SweepReport struct {
	RunToken string          `json:"run_token"`
	Backend  string          `json:"backend"`
	Results  []ResultSummary `json:"results"`
	Failed   int             `json:"failed"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <sweep-dir>",
		Short: "Run sweep configurations on the sampling backend",
		Long: `Run CUE sweep configurations on the built-in sampling backend.

Each configuration is compiled, submitted and decoded independently; a
failing configuration is reported on its own line and never aborts its
siblings.

Example:
  steanelab run ./sweeps
  steanelab run ./sweeps --seed 7 --workers 8 --verbose`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(opts, args[0], cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "sampling backend seed")
	cmd.Flags().IntVar(&opts.Workers, "workers", 4, "worker pool size")

	return cmd
}

func runSweep(opts *RunOptions, sweepDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	configureLogging(opts.Verbose)

	report, err := executeSweep(opts, sweepDir, cmd, formatter)
	if err != nil {
		return err
	}

	return outputSweepReport(formatter, report)
}

// executeSweep loads the configurations and drives them through the
// runner against a seeded sampling backend. Shared by run and the
// store-backed commands.
func executeSweep(opts *RunOptions, sweepDir string, cmd *cobra.Command, formatter *OutputFormatter) (*SweepReport, error) {
	configs, err := sweep.Load(sweepDir)
	if err != nil {
		return nil, outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d configuration(s) from %s", len(configs), sweepDir)

	sampler := backend.NewSampler(opts.Seed)
	runnerOpts := []sweep.RunnerOption{sweep.WithWorkers(opts.Workers)}
	if opts.Tokens != nil {
		runnerOpts = append(runnerOpts, sweep.WithTokenGenerator(opts.Tokens))
	}
	runner := sweep.NewRunner(sampler, runnerOpts...)

	ctx, stop := commandContext(cmd)
	defer stop()

	results, err := runner.Run(ctx, configs)
	if err != nil {
		_ = formatter.Error(ErrCodeBackendFailed, fmt.Sprintf("sweep aborted: %v", err), nil)
		return nil, WrapExitError(ExitCommandError, "sweep aborted", err)
	}

	report := &SweepReport{Backend: sampler.Name()}
	for _, res := range results {
		report.RunToken = res.RunToken
		summary := ResultSummary{
			Name:     res.Config.Name,
			Key:      res.Key,
			Hash:     res.CircuitHash,
			Shots:    res.Aggregate.Shots,
			Accepted: res.Aggregate.Accepted,
			Ones:     res.Aggregate.Ones,
			Error:    res.Err,
			config:   res.Config,
		}
		if !res.Failed() {
			summary.P0 = res.Aggregate.P0()
			summary.AcceptRate = res.Aggregate.AcceptRate()
		} else {
			report.Failed++
		}
		report.Results = append(report.Results, summary)
	}
	return report, nil
}

// outputSweepReport renders a sweep report and maps failed
// configurations to a failure exit code.
func outputSweepReport(formatter *OutputFormatter, report *SweepReport) error {
	if formatter.Format == "json" {
		if err := formatter.SuccessWithRun(report.RunToken, report); err != nil {
			return err
		}
	} else {
		ok := len(report.Results) - report.Failed
		fmt.Fprintf(formatter.Writer, "Run %s on %s: %d ok, %d failed\n\n",
			report.RunToken, report.Backend, ok, report.Failed)
		for _, r := range report.Results {
			if r.Error != "" {
				fmt.Fprintf(formatter.Writer, "  ✗ %s: %s\n", r.Name, r.Error)
				continue
			}
			fmt.Fprintf(formatter.Writer, "  ✓ %s: shots=%d accepted=%d p0=%.4f accept=%.4f\n",
				r.Name, r.Shots, r.Accepted, r.P0, r.AcceptRate)
		}
	}

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d configuration(s) failed", report.Failed))
	}
	return nil
}

// configureLogging sets the process-wide logger based on the verbose flag.
func configureLogging(verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// commandContext derives a cancellable context from the command that
// also honors SIGINT/SIGTERM, so a long sweep shuts down cleanly.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
