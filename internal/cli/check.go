package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/rgould/textgate/internal/eval"
	"github.com/rgould/textgate/internal/preproc"
)

// CheckOptions holds flags for the check command.
type CheckOptions struct {
	*RootOptions
	Defines     []string
	DefinesFile string
}

// CheckResult is the per-input outcome of a check.
type CheckResult struct {
	Input      string `json:"input"`
	OK         bool   `json:"ok"`
	Lines      int    `json:"lines"`
	Directives int    `json:"directives"`
	Code       string `json:"code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// NewCheckCommand creates the check command.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "check [input...]",
		Short: "Validate inputs without emitting text",
		Long: `Run a full preprocessing pass over each input with the output discarded,
reporting directive syntax errors, unbalanced conditionals, and expression
failures. Reads stdin when no inputs are given.

Each input is checked against its own copy of the initial definitions, so
one file's DEFINE directives cannot leak into another's check.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Defines, "define", "D", nil, "predefine name[=expr] (repeatable)")
	cmd.Flags().StringVar(&opts.DefinesFile, "defines", "", "YAML file of initial definitions")

	return cmd
}

func runCheck(opts *CheckOptions, args []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	evaluator := eval.NewCUE()

	baseDefs, err := buildDefines(evaluator, opts.DefinesFile, opts.Defines)
	if err != nil {
		_ = formatter.Error("BAD_DEFINITIONS", err.Error(), nil)
		return WrapExitError(ExitCommandError, "building definitions", err)
	}

	if len(args) == 0 {
		args = []string{"-"}
	}

	pp := preproc.New(evaluator)
	results := make([]CheckResult, 0, len(args))
	failed := 0

	for _, arg := range args {
		input, inputName, err := openInput(cmd, []string{arg})
		if err != nil {
			_ = formatter.Error("BAD_INPUT", err.Error(), nil)
			return WrapExitError(ExitCommandError, "opening input", err)
		}

		stats, runErr := pp.Run(input, io.Discard, baseDefs.Clone())
		input.Close()

		result := CheckResult{
			Input:      inputName,
			OK:         runErr == nil,
			Lines:      stats.Lines,
			Directives: stats.Directives,
		}
		if runErr != nil {
			failed++
			result.Code = errorCode(runErr)
			result.Error = runErr.Error()
		}
		results = append(results, result)
	}

	if err := outputCheckResults(formatter, results); err != nil {
		return err
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d input(s) failed", failed, len(results)))
	}
	return nil
}

// outputCheckResults renders per-input results. JSON responses carry a
// trace_id for correlating a check across tooling that aggregates them.
func outputCheckResults(formatter *OutputFormatter, results []CheckResult) error {
	if formatter.Format == "json" {
		status := "ok"
		var respErr *ResponseError
		for _, r := range results {
			if !r.OK {
				status = "error"
				respErr = &ResponseError{Code: r.Code, Message: r.Error}
				break
			}
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(Response{
			Status:  status,
			Data:    results,
			Error:   respErr,
			TraceID: uuid.NewString(),
		})
	}

	for _, r := range results {
		if r.OK {
			fmt.Fprintf(formatter.Writer, "✓ %s: %d line(s), %d directive(s)\n",
				r.Input, r.Lines, r.Directives)
		} else {
			fmt.Fprintf(formatter.Writer, "✗ %s: %s\n", r.Input, r.Error)
		}
	}
	return nil
}
