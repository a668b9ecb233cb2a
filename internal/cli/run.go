package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rgould/textgate/internal/eval"
	"github.com/rgould/textgate/internal/preproc"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Output      string   // output file path; empty writes to stdout
	Defines     []string // -D name[=expr] flags
	DefinesFile string   // YAML file of initial definitions
	SaveDefines string   // YAML file to receive post-run definitions
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run [input]",
		Short: "Preprocess a file",
		Long: `Preprocess a file (or stdin when no input is given, or input is "-"),
writing the emitted lines to stdout or --output.

Definitions may be seeded from a YAML file (--defines) and -D flags; the
post-run definitions can be written back with --save-defines to carry them
into a later invocation.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(opts, args, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringArrayVarP(&opts.Defines, "define", "D", nil, "predefine name[=expr] (repeatable)")
	cmd.Flags().StringVar(&opts.DefinesFile, "defines", "", "YAML file of initial definitions")
	cmd.Flags().StringVar(&opts.SaveDefines, "save-defines", "", "write post-run definitions to a YAML file")

	return cmd
}

func runRun(opts *RunOptions, args []string, cmd *cobra.Command) error {
	// Preprocessed text goes to Writer; diagnostics and errors go to stderr
	// so the emitted text stays clean.
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.ErrOrStderr(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	evaluator := eval.NewCUE()

	defs, err := buildDefines(evaluator, opts.DefinesFile, opts.Defines)
	if err != nil {
		_ = formatter.Error("BAD_DEFINITIONS", err.Error(), nil)
		return WrapExitError(ExitCommandError, "building definitions", err)
	}

	input, inputName, err := openInput(cmd, args)
	if err != nil {
		_ = formatter.Error("BAD_INPUT", err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening input", err)
	}
	defer input.Close()

	output, closeOutput, err := openOutput(cmd, opts.Output)
	if err != nil {
		_ = formatter.Error("BAD_OUTPUT", err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening output", err)
	}

	pp := preproc.New(evaluator)
	stats, runErr := pp.Run(input, output, defs)
	if err := closeOutput(); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		_ = formatter.Error(errorCode(runErr), runErr.Error(), nil)
		return WrapExitError(ExitFailure, fmt.Sprintf("preprocessing %s", inputName), runErr)
	}

	formatter.VerboseLog("%s: %d line(s) read, %d emitted, %d directive(s)",
		inputName, stats.Lines, stats.Emitted, stats.Directives)

	if opts.SaveDefines != "" {
		if err := SaveDefinesFile(opts.SaveDefines, defs); err != nil {
			_ = formatter.Error("WRITE_FAILED", err.Error(), nil)
			return WrapExitError(ExitCommandError, "saving definitions", err)
		}
		formatter.VerboseLog("wrote %d definition(s) to %s", len(defs), opts.SaveDefines)
	}

	return nil
}

// openInput resolves the input argument: a path, "-", or nothing (stdin).
func openInput(cmd *cobra.Command, args []string) (io.ReadCloser, string, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.NopCloser(cmd.InOrStdin()), "stdin", nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, "", err
	}
	return f, args[0], nil
}

// openOutput resolves the output flag: a path or stdout. The returned close
// function is a no-op for stdout.
func openOutput(cmd *cobra.Command, path string) (io.Writer, func() error, error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
