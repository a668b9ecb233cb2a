// Package eval evaluates preprocessor expressions with CUE.
//
// An expression is compiled against a scope built from a snapshot of the
// current definitions, so expressions can read definitions but can never
// mutate the mapping. The available environment is the definitions plus
// CUE's own builtins - a fixed, enumerable surface rather than an arbitrary
// host namespace.
package eval

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/rgould/textgate/internal/defines"
)

// CUE evaluates expressions using the CUE SDK's Go API directly (not a CLI
// subprocess). A single CUE instance may be reused across evaluations; each
// call builds a fresh scope from the definitions it is given.
type CUE struct {
	ctx *cue.Context
}

// NewCUE creates a CUE-backed evaluator.
func NewCUE() *CUE {
	return &CUE{ctx: cuecontext.New()}
}

// Eval compiles expr with the definitions in scope and decodes the result.
//
// Definitions appear in the expression under their own names; names defined
// without a value appear as null. Trailing commentary on an expression uses
// CUE comment syntax:
//
//	baz > 2 // only when baz exceeds two
//
// The result must be concrete; an expression that references an undefined
// name or cannot be resolved to a single value fails.
func (e *CUE) Eval(expr string, defs defines.Map) (defines.Value, error) {
	scope := e.ctx.Encode(defs.ToGo())
	if err := scope.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := e.ctx.CompileString(expr,
		cue.Scope(scope),
		cue.Filename("expression"),
	)
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	return decodeValue(v)
}

// decodeValue converts a concrete CUE value to a definition value.
func decodeValue(v cue.Value) (defines.Value, error) {
	switch v.Kind() {
	case cue.NullKind:
		return defines.Null{}, nil

	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return defines.Bool(b), nil

	case cue.IntKind:
		i, err := v.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return defines.Int(i), nil

	case cue.FloatKind, cue.NumberKind:
		f, err := v.Float64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return defines.Float(f), nil

	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		return defines.String(s), nil

	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		var list defines.List
		for iter.Next() {
			elem, err := decodeValue(iter.Value())
			if err != nil {
				return nil, err
			}
			list = append(list, elem)
		}
		return list, nil

	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		obj := defines.Struct{}
		for iter.Next() {
			elem, err := decodeValue(iter.Value())
			if err != nil {
				return nil, err
			}
			obj[iter.Label()] = elem
		}
		return obj, nil

	default:
		return nil, &EvalError{
			Message: fmt.Sprintf("expression did not evaluate to a concrete value (kind %v)", v.Kind()),
			Pos:     v.Pos(),
		}
	}
}

// EvalError represents an expression evaluation failure with source position.
type EvalError struct {
	Message string
	Pos     token.Pos
}

func (e *EvalError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Message)
	}
	return e.Message
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &EvalError{
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
