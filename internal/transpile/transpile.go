/*
File    : ruchy/internal/transpile/transpile.go
*/

package transpile

import (
	"github.com/ruchy-lang/ruchy/internal/ast"
	"github.com/ruchy-lang/ruchy/internal/diag"
	"github.com/ruchy-lang/ruchy/internal/types"
)

// Transpile lowers a checked module to Rust source text, matching
// spec.md §6's transpile(typed AST) -> (emitted Rust source,
// diagnostics) signature. env and copy come from types.Checker's
// CheckModule pass; callers that skip type checking may pass a bare
// types.NewEnv(nil) and a nil copy table. Lowering does not read either
// of them, and no `.clone()` calls are inserted.
func Transpile(mod *ast.Module, env *types.Env, copy map[string]bool) (string, *diag.Collector) {
	diags := diag.NewCollector()
	if env == nil {
		env = types.NewEnv(nil)
	}
	lw := NewLowerer(env, copy)

	prog, err := safeLower(lw, mod)
	if err != nil {
		diags.Add(diag.New(diag.KindUnsupportedConstruct, mod.Span(), "%s", err.Error()))
		return "", diags
	}

	Optimize(prog)
	return Emit(prog), diags
}

// safeLower recovers from any panic raised while walking a construct the
// lowering pass does not yet know how to handle, turning it into a
// single transpile diagnostic instead of crashing the whole pipeline
// (spec.md §7: transpile errors are fatal to the current operation, not
// to the process).
func safeLower(lw *Lowerer, mod *ast.Module) (prog *RProgram, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
			} else {
				err = &unsupportedConstructError{r}
			}
		}
	}()
	return lw.LowerModule(mod), nil
}

type unsupportedConstructError struct{ v interface{} }

func (e *unsupportedConstructError) Error() string {
	return "unsupported construct during lowering: " + formatPanic(e.v)
}

func formatPanic(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	if stringer, ok := v.(interface{ String() string }); ok {
		return stringer.String()
	}
	return "internal error"
}
