package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qecworks/steanelab/internal/encode"
	"github.com/qecworks/steanelab/internal/sweep"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Dump bool // include the canonical circuit text in the output
}

// CompiledCircuit is one configuration's compiled form.
type CompiledCircuit struct {
	Name      string `json:"name"`
	Key       string `json:"key"`
	Hash      string `json:"hash"`
	Qubits    int    `json:"qubits"`
	Slots     int    `json:"slots"`
	Canonical string `json:"canonical,omitempty"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <sweep-dir>",
		Short: "Compile sweep configurations to physical circuits",
		Long: `Compile CUE sweep configurations to encoded physical circuits.

Each configuration is expanded into its logical program, scheduled onto
the fixed qubit layout and hashed. Use --dump to print the canonical
circuit text alongside the summary.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Dump, "dump", false, "print canonical circuit text")

	return cmd
}

func runCompile(opts *CompileOptions, sweepDir string, cmd *cobra.Command) error {
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

	compiled := make([]CompiledCircuit, 0, len(configs))
	for _, cfg := range configs {
		formatter.VerboseLog("Compiling configuration: %s", cfg.Name)
		compiler := encode.NewCompiler(cfg.Setup)
		circ, err := compiler.Compile(cfg.Program())
		if err != nil {
			_ = formatter.Error(ErrCodeCompileFailed,
				fmt.Sprintf("compiling %s: %v", cfg.Name, err), nil)
			return NewExitError(ExitCommandError, fmt.Sprintf("compiling %s: %v", cfg.Name, err))
		}

		cc := CompiledCircuit{
			Name:   cfg.Name,
			Key:    cfg.Key(),
			Hash:   circ.Hash(),
			Qubits: circ.Qubits,
			Slots:  circ.Slots,
		}
		if opts.Dump {
			cc.Canonical = string(circ.MarshalCanonical())
		}
		compiled = append(compiled, cc)
	}

	if formatter.Format == "json" {
		return formatter.Success(compiled)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled %d circuit(s)\n\n", len(compiled))
	for _, cc := range compiled {
		fmt.Fprintf(formatter.Writer, "  %s: %d qubits, %d slots\n", cc.Name, cc.Qubits, cc.Slots)
		fmt.Fprintf(formatter.Writer, "    key:  %s\n", cc.Key)
		fmt.Fprintf(formatter.Writer, "    hash: %s\n", cc.Hash)
		if cc.Canonical != "" {
			fmt.Fprintln(formatter.Writer)
			fmt.Fprint(formatter.Writer, cc.Canonical)
		}
	}
	return nil
}

// outputLoadError reports a sweep load failure. Definition errors carry
// their CUE source position in the message; either way the sweep never
// started, so this is a command-level error.
func outputLoadError(formatter *OutputFormatter, err error) error {
	_ = formatter.Error(ErrCodeLoadFailed, err.Error(), nil)
	return WrapExitError(ExitCommandError, "loading sweep configurations", err)
}
