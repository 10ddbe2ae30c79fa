package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/qecworks/steanelab/internal/circuit"
	"github.com/qecworks/steanelab/internal/store"
	"github.com/qecworks/steanelab/internal/sweep"
)

// CalibrateOptions holds flags for the calibrate command.
type CalibrateOptions struct {
	RunOptions
	Database string
}

// CalibrationReport extends the sweep report with the fitted noise model.
type CalibrationReport struct {
	SweepReport
	ErrorRate float64 `json:"error_rate"`
	FitPoints int     `json:"fit_points"`
}

// NewCalibrateCommand creates the calibrate command.
func NewCalibrateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CalibrateOptions{RunOptions: RunOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "calibrate <sweep-dir>",
		Short: "Run a calibration sweep and fit the per-cycle error rate",
		Long: `Run a calibration sweep, persist aggregates and fit the noise model.

Survival configurations (no rotation, Z readout) at increasing cycle
counts trace out p0(k) = (1 + (1-q)^k) / 2; the command fits the
per-cycle error rate q to those points and stores every aggregate,
failures included, under the run token.

Example:
  steanelab calibrate --db ./steanelab.db ./sweeps/survival`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalibrate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "sampling backend seed")
	cmd.Flags().IntVar(&opts.Workers, "workers", 4, "worker pool size")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runCalibrate(opts *CalibrateOptions, sweepDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	configureLogging(opts.Verbose)

	slog.Info("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, fmt.Sprintf("opening database: %v", err), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	report, err := executeSweep(&opts.RunOptions, sweepDir, cmd, formatter)
	if err != nil {
		return err
	}

	ctx, stop := commandContext(cmd)
	defer stop()

	if err := st.WriteRun(ctx, report.RunToken, report.Backend); err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, fmt.Sprintf("recording run: %v", err), nil)
		return WrapExitError(ExitCommandError, "failed to record run", err)
	}
	for _, r := range report.Results {
		rec := store.AggregateRecord{
			Key:         r.Key,
			RunToken:    report.RunToken,
			CircuitHash: r.Hash,
			Shots:       r.Shots,
			Accepted:    r.Accepted,
			Ones:        r.Ones,
			Failure:     r.Error,
		}
		if err := st.WriteAggregate(ctx, rec); err != nil {
			_ = formatter.Error(ErrCodeStoreFailed, fmt.Sprintf("recording aggregate %s: %v", r.Key, err), nil)
			return WrapExitError(ExitCommandError, "failed to record aggregate", err)
		}
	}
	slog.Info("aggregates recorded", "run_token", report.RunToken, "count", len(report.Results))

	calib := &CalibrationReport{SweepReport: *report}
	points := survivalPoints(report)
	calib.FitPoints = len(points)
	if len(points) >= 2 {
		q, err := sweep.FitErrorRate(points)
		if err != nil {
			_ = formatter.Error(ErrCodeGeneric, fmt.Sprintf("fitting error rate: %v", err), nil)
			return WrapExitError(ExitFailure, "failed to fit error rate", err)
		}
		calib.ErrorRate = q
	} else {
		formatter.VerboseLog("Not enough survival points to fit an error rate (%d)", len(points))
	}

	return outputCalibrationReport(formatter, calib)
}

// survivalPoints selects the fit points: successful configurations that
// measure bare survival, meaning no rotation and Z readout.
func survivalPoints(report *SweepReport) []sweep.Point {
	var points []sweep.Point
	for _, r := range report.Results {
		if r.Error != "" || r.Accepted == 0 {
			continue
		}
		if r.config.Theta != 0 || r.config.Basis != circuit.BasisZ {
			continue
		}
		points = append(points, sweep.Point{K: r.config.Cycles, P0: r.P0})
	}
	return points
}

// outputCalibrationReport renders the calibration report.
func outputCalibrationReport(formatter *OutputFormatter, calib *CalibrationReport) error {
	if formatter.Format == "json" {
		if err := formatter.SuccessWithRun(calib.RunToken, calib); err != nil {
			return err
		}
	} else {
		ok := len(calib.Results) - calib.Failed
		fmt.Fprintf(formatter.Writer, "Run %s on %s: %d ok, %d failed\n",
			calib.RunToken, calib.Backend, ok, calib.Failed)
		if calib.FitPoints >= 2 {
			fmt.Fprintf(formatter.Writer, "Fitted per-cycle error rate: q=%.6f (%d point(s))\n",
				calib.ErrorRate, calib.FitPoints)
		} else {
			fmt.Fprintf(formatter.Writer, "No error rate fit: %d survival point(s)\n", calib.FitPoints)
		}
	}

	if calib.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d configuration(s) failed", calib.Failed))
	}
	return nil
}
