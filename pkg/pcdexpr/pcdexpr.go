// Package pcdexpr is the public surface of the PCD/directive expression
// engine (spec.md §6): Evaluate for !if/!elif-style boolean directives and
// PCD default-value text, and EvaluateTyped for width/VOID*-typed PCD
// assignments.
package pcdexpr

import (
	"github.com/edk2tools/pcdexpr/internal/direrr"
	"github.com/edk2tools/pcdexpr/internal/eval"
	"github.com/edk2tools/pcdexpr/internal/macro"
	"github.com/edk2tools/pcdexpr/internal/pcdtype"
	"github.com/edk2tools/pcdexpr/internal/value"
	"github.com/edk2tools/pcdexpr/pkg/symtab"
)

// Option configures evaluation; it is a thin re-export of eval.Option so
// callers never need to import the internal package directly.
type Option = eval.Option

var (
	WithInExceptions = eval.WithInExceptions
	WithMaxDepth     = eval.WithMaxDepth
)

// Result is the outcome of Evaluate: exactly one of Text or Bool is
// meaningful, selected by IsBool. IsBool is set in directive mode, and in
// real-value mode when the result is a boolean.
type Result struct {
	IsBool  bool
	Bool    bool
	Text    string
	Warning string
}

// Symbols bundles the name->text map Evaluate needs with the optional
// platform-PCD side-effect tracking (spec.md §5).
type Symbols struct {
	Values       map[string]string
	PlatformPCDs []string
}

// newSymtab builds the internal symbol table, wiring the conditional-PCD
// side effect through ctx. Evaluate and EvaluateTyped pass a fresh
// macro.Context per call; callers that need the set to accumulate across
// calls share one Context through EvaluateWithContext and read it back with
// its ConditionalPCDs method.
func (s Symbols) newSymtab(ctx *macro.Context) *symtab.SymbolTable {
	return symtab.New(s.Values, ctx)
}

// Evaluate implements evaluate(expr, symbols, real_value) (spec.md §6).
func Evaluate(expr string, symbols Symbols, realValue bool, opts ...Option) (Result, error) {
	ctx := macro.NewContext(symbols.PlatformPCDs)
	return EvaluateWithContext(expr, symbols, ctx, realValue, opts...)
}

// EvaluateWithContext is Evaluate, but lets the caller supply (and later
// inspect) the macro.Context so conditional-PCD references accumulate
// across many calls sharing one context, matching the process-wide
// "conditional PCDs" set of spec.md §5.
func EvaluateWithContext(expr string, symbols Symbols, ctx *macro.Context, realValue bool, opts ...Option) (Result, error) {
	o := eval.NewOptions(opts...)
	table := symbols.newSymtab(ctx)

	e, err := eval.New(expr, table, o, 0)
	if err != nil {
		return Result{}, err
	}

	v, err := e.Run(realValue, 0)
	var warn string
	if err != nil {
		if w, ok := err.(*direrr.WrnExpression); ok {
			warn = w.Error()
			v = w.Result.(value.Value)
		} else {
			return Result{}, err
		}
	}

	return shapeToResult(v, realValue, warn), nil
}

// EvaluateTyped implements evaluate_typed(expr, pcd_type, symbols)
// (spec.md §6).
func EvaluateTyped(expr string, pcdType string, symbols Symbols, opts ...Option) (string, error) {
	t, ok := pcdtype.ParseType(pcdType)
	if !ok {
		return "", direrr.New(direrr.KindBadExpressionGeneric, "unknown PCD type %q", pcdType)
	}
	o := eval.NewOptions(opts...)
	ctx := macro.NewContext(symbols.PlatformPCDs)
	table := symbols.newSymtab(ctx)
	return pcdtype.Evaluate(expr, t, table, o)
}

func shapeToResult(v value.Value, realValue bool, warn string) Result {
	if !realValue || v.Kind == value.Boolean {
		return Result{IsBool: true, Bool: !v.Falsey(), Warning: warn}
	}
	switch v.Kind {
	case value.Integer:
		// The single-token verbatim shortcut (spec.md §4.5) stamps the
		// original spelling into Text; anything computed by the grammar
		// leaves Text empty and falls back to the canonical decimal form.
		if v.Text != "" {
			return Result{Text: v.Text, Warning: warn}
		}
		return Result{Text: v.Int.String(), Warning: warn}
	default:
		return Result{Text: v.Text, Warning: warn}
	}
}
