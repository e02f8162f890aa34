/*
File    : ruchy/internal/diag/diag.go
*/

// Package diag defines the normative error taxonomy shared by every
// phase of the pipeline (spec.md §7): lexer, parser, resolver, type
// checker, transpiler, and interpreter all emit the same Diagnostic
// type into a Collector instead of returning bare strings or panicking.
package diag

import (
	"fmt"

	"github.com/ruchy-lang/ruchy/internal/source"
)

// Kind classifies a diagnostic by the phase and failure mode that
// produced it. Names are illustrative, as spec.md §7 allows, but the
// groupings (Lex/Parse/Resolve/Type/Transpile/Runtime) are normative.
type Kind string

const (
	// Lex errors
	KindInvalidToken      Kind = "lex.invalid-token"
	KindUnterminatedStr   Kind = "lex.unterminated-string"
	KindInvalidEscape     Kind = "lex.invalid-escape"
	KindInvalidNumber     Kind = "lex.invalid-number"

	// Parse errors
	KindUnexpectedToken Kind = "parse.unexpected-token"
	KindMissingCloser   Kind = "parse.missing-closer"
	KindInvalidPattern  Kind = "parse.invalid-pattern"
	KindInvalidPath     Kind = "parse.invalid-path"
	KindInvalidLHS      Kind = "parse.invalid-assignment-lhs"

	// Resolve errors
	KindUnknownIdent    Kind = "resolve.unknown-identifier"
	KindUnknownModule   Kind = "resolve.unknown-module"
	KindCyclicImport    Kind = "resolve.cyclic-import"
	KindPrivateSymbol   Kind = "resolve.private-symbol"
	KindAmbiguousImport Kind = "resolve.ambiguous-import"

	// Type errors
	KindUnification     Kind = "type.unification"
	KindOccursCheck     Kind = "type.occurs-check"
	KindNonExhaustive   Kind = "type.non-exhaustive-match"
	KindWrongArity      Kind = "type.wrong-arity"
	KindUnknownMethod   Kind = "type.unknown-method"
	KindTryOutsideResult Kind = "type.try-outside-result"
	KindNonBoolCond     Kind = "type.non-boolean-condition"

	// Transpile errors
	KindUnsupportedConstruct Kind = "transpile.unsupported-construct"

	// Runtime (interpreter) errors
	KindDivByZero       Kind = "runtime.division-by-zero"
	KindModByZero       Kind = "runtime.modulo-by-zero"
	KindOverflow        Kind = "runtime.integer-overflow"
	KindIndexOutOfRange Kind = "runtime.index-out-of-bounds"
	KindMissingKey      Kind = "runtime.missing-key"
	KindTypeMismatch    Kind = "runtime.type-mismatch"
	KindRecursionDepth  Kind = "runtime.recursion-depth-exceeded"
	KindAssertFailed    Kind = "runtime.assertion-failed"
	KindIOFailure       Kind = "runtime.io-failure"
	KindJSONParse       Kind = "runtime.json-parse"
	KindHTMLParse       Kind = "runtime.html-parse"
	KindTimeout         Kind = "runtime.timeout"
)

// Severity distinguishes diagnostics that abort the current operation
// from ones that are merely collected and reported.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityHint
)

// Diagnostic is the single structured type every phase emits: a kind, a
// span, a primary message, and optional hints/suggestions.
type Diagnostic struct {
	Kind     Kind
	Span     source.Span
	Message  string
	Hints    []string
	Severity Severity
}

// Error lets a Diagnostic satisfy the error interface so it can flow
// through ordinary Go error-returning functions when a phase needs to
// report exactly one fatal diagnostic (transpile and runtime errors per
// spec.md §7 are fatal to the current operation).
func (d Diagnostic) Error() string {
	return d.Message
}

// New builds an error-severity diagnostic.
func New(kind Kind, span source.Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Kind: kind, Span: span, Message: fmt.Sprintf(format, args...), Severity: SeverityError}
}

// WithHint appends a hint/suggestion to a diagnostic and returns it.
func (d Diagnostic) WithHint(hint string) Diagnostic {
	d.Hints = append(d.Hints, hint)
	return d
}

// Collector accumulates diagnostics across a phase without aborting,
// matching spec.md §7's "collect multiple diagnostics per file and
// continue where safe" rule for lex/parse/resolve/type-check.
type Collector struct {
	items []Diagnostic
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a diagnostic.
func (c *Collector) Add(d Diagnostic) {
	c.items = append(c.items, d)
}

// Addf is a convenience wrapper around Add(New(...)).
func (c *Collector) Addf(kind Kind, span source.Span, format string, args ...interface{}) {
	c.Add(New(kind, span, format, args...))
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (c *Collector) HasErrors() bool {
	for _, d := range c.items {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// All returns every diagnostic recorded so far, in emission order.
func (c *Collector) All() []Diagnostic {
	return c.items
}

// Merge appends another collector's diagnostics into this one — used by
// the driver when composing independent phases (spec.md §5: "the
// compiler itself is embarrassingly parallel per translation unit").
func (c *Collector) Merge(other *Collector) {
	if other == nil {
		return
	}
	c.items = append(c.items, other.items...)
}
