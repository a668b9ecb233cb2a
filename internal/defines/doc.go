// Package defines provides the definition environment for the preprocessor.
//
// This package contains the value model and the mutable name→value mapping
// consulted by expression evaluation and membership tests. All other internal
// packages import defines; defines imports nothing internal. This keeps the
// environment the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - The mapping is caller-owned and mutated in place; its post-pass state
//     is part of the observable contract (callers carry definitions across
//     repeated passes).
//   - Unset is a dedicated sentinel for "defined with no value". It is
//     distinguishable from every value an expression can produce, including
//     Null.
//   - Value is sealed: only the types declared here implement it.
package defines
