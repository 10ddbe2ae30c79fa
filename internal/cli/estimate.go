package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/qecworks/steanelab/internal/chem"
)

// EstimateOptions holds flags for the estimate command.
type EstimateOptions struct {
	RunOptions
	ErrorRate float64
	GridSize  int
}

// EstimateReport is the phase estimation output.
type EstimateReport struct {
	SweepReport
	Records int     `json:"records"`
	Phase   float64 `json:"phase"`        // half turns
	Energy  float64 `json:"energy"`       // Hartree
	DeltaE  float64 `json:"delta_energy"` // vs exact ground state
}

// NewEstimateCommand creates the estimate command.
func NewEstimateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EstimateOptions{RunOptions: RunOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "estimate <sweep-dir>",
		Short: "Run a phase estimation sweep and report the H2 energy",
		Long: `Run a phase estimation sweep and infer the H2 ground state energy.

Rotated configurations act as phase estimation iterations: the cycle
count plays the controlled-U power and the rotation angle the
measurement offset. Postselected counts feed a grid posterior over the
eigenphase, which maps back to energy in Hartree.

Example:
  steanelab estimate ./sweeps/qpe --error-rate 0.01`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEstimate(opts, args[0], cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "sampling backend seed")
	cmd.Flags().IntVar(&opts.Workers, "workers", 4, "worker pool size")
	cmd.Flags().Float64Var(&opts.ErrorRate, "error-rate", 0, "calibrated per-cycle error rate")
	cmd.Flags().IntVar(&opts.GridSize, "grid", 0, "posterior grid size (0 = default)")

	return cmd
}

func runEstimate(opts *EstimateOptions, sweepDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	configureLogging(opts.Verbose)

	report, err := executeSweep(&opts.RunOptions, sweepDir, cmd, formatter)
	if err != nil {
		return err
	}

	records := estimationRecords(report)
	if len(records) == 0 {
		_ = formatter.Error(ErrCodeGeneric, "no rotated configurations with accepted shots to estimate from", nil)
		return NewExitError(ExitFailure, "no estimation records")
	}

	phase := chem.EstimatePhase(records, opts.GridSize, opts.ErrorRate)
	energy := chem.EnergyOfPhase(phase)

	est := &EstimateReport{
		SweepReport: *report,
		Records:     len(records),
		Phase:       phase,
		Energy:      energy,
		DeltaE:      energy - chem.FCIEnergy,
	}

	if formatter.Format == "json" {
		if err := formatter.SuccessWithRun(est.RunToken, est); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(formatter.Writer, "Run %s: %d record(s)\n", est.RunToken, est.Records)
		fmt.Fprintf(formatter.Writer, "Estimated phase:  %.6f half turns\n", est.Phase)
		fmt.Fprintf(formatter.Writer, "Estimated energy: %.8f Hartree (delta %+.2e vs FCI)\n",
			est.Energy, est.DeltaE)
	}

	if report.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d configuration(s) failed", report.Failed))
	}
	return nil
}

// estimationRecords converts rotated sweep results into phase
// estimation records. Rejected shots never reach a record; only
// postselected counts carry signal.
func estimationRecords(report *SweepReport) []chem.Record {
	var records []chem.Record
	for _, r := range report.Results {
		if r.Error != "" || r.Accepted == 0 || r.config.Theta == 0 {
			continue
		}
		records = append(records, chem.Record{
			K:     r.config.Cycles,
			Beta:  r.config.Theta / math.Pi,
			Ones:  r.Ones,
			Total: r.Accepted,
		})
	}
	return records
}
