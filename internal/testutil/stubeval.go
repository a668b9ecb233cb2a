package testutil

import (
	"fmt"

	"github.com/rgould/textgate/internal/defines"
)

// StubEvaluator returns canned results keyed by exact expression text.
//
// This isolates engine control-flow tests from the real expression language:
// tests declare the outcome of each expression up front and can then assert
// on stack handling, emission gating, and laziness. Calls records every
// expression the engine actually evaluated, in order, which is how tests
// verify that suppressed branches never reach the evaluator.
//
// Implements preproc.Evaluator.
type StubEvaluator struct {
	Results map[string]defines.Value
	Errs    map[string]error
	Calls   []string
}

// NewStubEvaluator creates a stub with the given canned results.
func NewStubEvaluator(results map[string]defines.Value) *StubEvaluator {
	return &StubEvaluator{Results: results}
}

// Eval looks up expr in the canned results. An expression with neither a
// result nor an error configured fails, so tests notice unexpected
// evaluations.
func (s *StubEvaluator) Eval(expr string, defs defines.Map) (defines.Value, error) {
	s.Calls = append(s.Calls, expr)
	if err, ok := s.Errs[expr]; ok {
		return nil, err
	}
	if v, ok := s.Results[expr]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("stub evaluator: no canned result for %q", expr)
}
