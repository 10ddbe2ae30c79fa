package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qecworks/steanelab/internal/encode"
	"github.com/qecworks/steanelab/internal/sweep"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Count  int      `json:"count"`
	Errors []string `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <sweep-dir>",
		Short: "Validate sweep configurations without running them",
		Long: `Validate CUE sweep configurations without submitting circuits.

Each configuration is loaded, checked against the configuration schema
and dry-compiled, so sequencing and rotation errors surface before any
backend time is spent.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, sweepDir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	configs, err := sweep.Load(sweepDir)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Loaded %d configuration(s) from %s", len(configs), sweepDir)

	var validationErrors []string
	for _, cfg := range configs {
		formatter.VerboseLog("Validating configuration: %s", cfg.Name)
		compiler := encode.NewCompiler(cfg.Setup)
		if _, err := compiler.Compile(cfg.Program()); err != nil {
			validationErrors = append(validationErrors,
				fmt.Sprintf("%s: %v", cfg.Name, err))
		}
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, len(configs), validationErrors)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Count: len(configs)})
	}
	fmt.Fprintf(formatter.Writer, "✓ %d configuration(s) valid\n", len(configs))
	return nil
}

// outputValidationErrors outputs per-configuration validation failures.
func outputValidationErrors(formatter *OutputFormatter, count int, errs []string) error {
	if formatter.Format == "json" {
		result := ValidationResult{
			Valid:  false,
			Count:  count,
			Errors: errs,
		}

		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    ErrCodeCompileFailed,
				Message: errs[0],
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, msg := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s\n", ErrCodeCompileFailed, msg)
	}
	fmt.Fprintln(formatter.Writer)

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
