// Package preproc implements the conditional-compilation preprocessor engine.
//
// The engine is a single pass over input lines. Each line is classified as a
// directive (prefixed with "##") or plain text. Directives mutate the
// conditional-nesting stack, the emission flag, or the definition
// environment; plain-text lines are copied verbatim to the output if and
// only if the emission flag is currently true.
//
// CONTROL FLOW:
//
// Single Sequential Pass:
// Lines are consumed eagerly in order with no suspension points, no
// parallelism, and no background work. A run either completes or fails
// synchronously; nothing is retried and nothing already written is rolled
// back.
//
// Nesting Stack:
// IF/IFDEF/IFNDEF push a frame recording the emission state before the block
// and the opening line number. ELIF/ELSE compute the new emission state
// relative to that recorded state, never the global default, so a block
// nested inside a suppressed block can never emit regardless of its own
// condition. ENDIF pops and restores. The stack must be empty when input
// ends.
//
// Lazy Evaluation:
// Expressions are only handed to the evaluator when their result can matter:
// a suppressed IF never evaluates its expression, an ELIF evaluates only
// when no earlier branch of its chain was taken and the enclosing state
// permits, and a DEFINE evaluates only while emitting. A chain emits at most
// one branch.
package preproc
