package preproc

import (
	"bufio"
	"io"

	"github.com/rgould/textgate/internal/defines"
)

// Evaluator is the expression capability the engine depends on. It evaluates
// a one-line expression against the given definitions and returns the
// result. Implementations must treat the definitions as read-only; the
// engine additionally hands them a snapshot so that evaluation can never
// mutate the caller's mapping. Evaluation failures propagate to the engine's
// caller unmodified.
type Evaluator interface {
	Eval(expr string, defs defines.Map) (defines.Value, error)
}

// frame records the emission state visible before a conditional block opened
// and the line number the block opened on. taken tracks whether any branch of
// the chain this frame opened has been true, so ELIF/ELSE after a taken
// branch stay suppressed without re-evaluating.
type frame struct {
	emit  bool
	line  int
	taken bool
}

// Stats summarizes a completed (or aborted) preprocessing pass.
type Stats struct {
	Lines      int // input lines consumed
	Emitted    int // plain-text lines written to the output
	Directives int // directive lines processed
}

// Preprocessor is the engine. It holds no per-pass state; a single
// Preprocessor may be reused for any number of sequential passes.
type Preprocessor struct {
	eval Evaluator
}

// New creates a Preprocessor using the given expression evaluator.
func New(ev Evaluator) *Preprocessor {
	return &Preprocessor{eval: ev}
}

// Run performs one preprocessing pass. It consumes input fully, writes the
// emitted subset of its lines (verbatim, in order, terminators included) to
// output, and mutates defs in place on DEFINE/UNDEF directives. A nil defs
// is replaced with a fresh empty mapping.
//
// Run fails on malformed directive syntax, unbalanced conditionals, UNDEF of
// an absent name, or any expression evaluation failure. Output written
// before the failing line remains written.
func (p *Preprocessor) Run(input io.Reader, output io.Writer, defs defines.Map) (Stats, error) {
	if defs == nil {
		defs = defines.Map{}
	}

	ps := &pass{
		eval:   p.eval,
		output: output,
		defs:   defs,
		emit:   true,
	}

	reader := bufio.NewReader(input)
	for {
		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			ps.lineno++
			ps.stats.Lines++
			if err := ps.processLine(line); err != nil {
				return ps.stats, err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return ps.stats, readErr
		}
	}

	if len(ps.stack) > 0 {
		openLines := make([]int, len(ps.stack))
		for i, f := range ps.stack {
			openLines[i] = f.line
		}
		return ps.stats, newUnterminatedBlockError(ps.lineno, openLines)
	}

	return ps.stats, nil
}

// pass is the state of one run: the conditional stack, the emission flag,
// and the 1-based line counter.
type pass struct {
	eval   Evaluator
	output io.Writer
	defs   defines.Map
	stack  []frame
	emit   bool
	lineno int
	stats  Stats
}

// processLine classifies one line and either copies it through or applies it
// as a directive.
func (ps *pass) processLine(line string) error {
	payload := markerRE.FindStringSubmatch(line)
	if payload == nil {
		if ps.emit {
			ps.stats.Emitted++
			if _, err := io.WriteString(ps.output, line); err != nil {
				return err
			}
		}
		return nil
	}

	ps.stats.Directives++
	d, ok := matchPayload(payload[1])
	if !ok {
		return newUnknownDirectiveError(ps.lineno, payload[1])
	}
	return ps.apply(d)
}

// apply executes one directive against the pass state. Every conditional's
// effective emission value is gated by the state visible before its
// enclosing frame, so nothing inside a suppressed block can emit.
func (ps *pass) apply(d directive) error {
	switch d.kind {
	case kindIf:
		ps.push()
		top := ps.top()
		if !top.emit {
			ps.emit = false
			return nil
		}
		v, err := ps.eval.Eval(d.expr, ps.defs.Clone())
		if err != nil {
			return err
		}
		ps.emit = defines.Truthy(v)
		top.taken = ps.emit

	case kindIfdef:
		ps.push()
		top := ps.top()
		ps.emit = top.emit && ps.defs.Has(d.name)
		top.taken = ps.emit

	case kindIfndef:
		ps.push()
		top := ps.top()
		ps.emit = top.emit && !ps.defs.Has(d.name)
		top.taken = ps.emit

	case kindElif:
		if len(ps.stack) == 0 {
			return newUnexpectedContinuationError(ps.lineno)
		}
		// First true branch wins: once this chain has emitted, later
		// branches stay suppressed and never re-evaluate.
		top := ps.top()
		if top.taken || !top.emit {
			ps.emit = false
			return nil
		}
		v, err := ps.eval.Eval(d.expr, ps.defs.Clone())
		if err != nil {
			return err
		}
		ps.emit = defines.Truthy(v)
		top.taken = ps.emit

	case kindElse:
		if len(ps.stack) == 0 {
			return newUnexpectedContinuationError(ps.lineno)
		}
		top := ps.top()
		ps.emit = top.emit && !top.taken
		top.taken = true

	case kindEndif:
		if len(ps.stack) == 0 {
			return newUnexpectedContinuationError(ps.lineno)
		}
		restored := ps.top().emit
		ps.stack = ps.stack[:len(ps.stack)-1]
		ps.emit = restored

	case kindDefine:
		if !ps.emit {
			return nil
		}
		if d.expr == "" {
			ps.defs.Define(d.name, defines.Unset{})
			return nil
		}
		v, err := ps.eval.Eval(d.expr, ps.defs.Clone())
		if err != nil {
			return err
		}
		ps.defs.Define(d.name, v)

	case kindUndef:
		if !ps.emit {
			return nil
		}
		if err := ps.defs.Undef(d.name); err != nil {
			return newUndefinedNameError(ps.lineno, err)
		}
	}

	return nil
}

// push records the current emission state and line as a new frame.
func (ps *pass) push() {
	ps.stack = append(ps.stack, frame{emit: ps.emit, line: ps.lineno})
}

// top returns the innermost open frame. Callers must check the stack first.
func (ps *pass) top() *frame {
	return &ps.stack[len(ps.stack)-1]
}
