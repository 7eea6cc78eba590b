package eval

import (
	"strings"

	"github.com/edk2tools/pcdexpr/internal/direrr"
	"github.com/edk2tools/pcdexpr/internal/lexer"
	"github.com/edk2tools/pcdexpr/internal/value"
	"github.com/edk2tools/pcdexpr/pkg/symtab"
)

// Expression is the per-call-site evaluator state described by spec.md §3
// "Parser state": the substituted expression text, a cursor, the most
// recently emitted token and its pre-conversion literal spelling, a pending
// warning, and the PCD-resolution recursion depth. It is constructed once
// per evaluation and discarded afterward (spec.md §3 "Lifecycles").
type Expression struct {
	scanner *lexer.Scanner
	symbols *symtab.SymbolTable
	opts    Options
	depth   int

	token   value.Value
	literal string

	ternaryLive bool
	pendingWarn *direrr.WrnExpression

	// passthrough holds a pre-evaluated value handed to New via NewFromValue;
	// Run returns it unchanged (spec.md §4.5 "non-text expression").
	passthrough    value.Value
	hasPassthrough bool
}

// New substitutes macros into text and prepares an Expression ready for
// Run. depth is the caller's current PCD-resolution depth (0 for a
// top-level call).
func New(text string, symbols *symtab.SymbolTable, opts Options, depth int) (*Expression, error) {
	if depth > opts.MaxDepth {
		return nil, direrr.New(direrr.KindPcdResolve, "PCD resolution recursion depth exceeded (max %d)", opts.MaxDepth)
	}

	substituted, err := substitute(text, symbols, opts)
	if err != nil {
		return nil, err
	}
	substituted = strings.TrimSpace(substituted)
	if substituted == "" {
		return nil, direrr.New(direrr.KindEmptyExpr, "empty expression is not allowed")
	}

	return &Expression{
		scanner:     lexer.NewScanner(substituted),
		symbols:     symbols,
		opts:        opts,
		depth:       depth,
		ternaryLive: strings.Contains(substituted, "?"),
	}, nil
}

// NewFromValue wraps an already-evaluated value so Run returns it
// unchanged, matching the "_NoProcess" path of spec.md §4.5 ("If
// constructed with a non-text expression ... return it unchanged").
func NewFromValue(v value.Value) *Expression {
	return &Expression{passthrough: v, hasPassthrough: true}
}
