package eval

import (
	"strings"

	"github.com/edk2tools/pcdexpr/internal/direrr"
	"github.com/edk2tools/pcdexpr/internal/value"
)

// Run evaluates the expression and returns its final Value, shaped per the
// requested return form (spec.md §4.5). realValue selects canonical-text
// shaping over boolean-truthiness collapsing; depth gates the single-token
// peek shortcut to only the outermost call.
func (e *Expression) Run(realValue bool, depth int) (value.Value, error) {
	if e.hasPassthrough {
		return e.passthrough, nil
	}

	if realValue && depth == 0 {
		save := e.scanner.Pos()
		if val, ok := e.peekSingleTokenExpr(); ok {
			return e.shapeResult(val, realValue), nil
		}
		e.scanner.SetPos(save)
	}

	result, err := e.condExpr()
	if err != nil {
		return value.Value{}, err
	}

	e.scanner.SkipWS()
	if !e.scanner.AtEnd() {
		return value.Value{}, direrr.New(direrr.KindSyntax, "unexpected trailing token: %q", e.scanner.Rest())
	}

	shaped := e.shapeResult(result, realValue)
	if e.pendingWarn != nil {
		e.pendingWarn.Result = shaped
		return shaped, e.pendingWarn
	}
	return shaped, nil
}

// peekSingleTokenExpr implements the RealValue-and-Depth-0 shortcut: when
// the entire substituted expression text is itself a single number token
// (decimal, hex, or a simply-quoted narrow/wide literal) or a brace-array
// literal spanning the whole expression, the original spelling is returned
// unchanged instead of a freshly rendered value (spec.md §4.5 "return it
// verbatim, preserving original spelling"). Anything else falls through to
// the normal grammar.
func (e *Expression) peekSingleTokenExpr() (value.Value, bool) {
	text := e.scanner.Expr

	if v, ok := tryParseNumber(text); ok {
		v.Text = text
		return v, true
	}

	save := e.scanner.Pos()
	_, literal, isParen, _, err := e.getSingleToken()
	e.scanner.SetPos(save)
	if err != nil || isParen {
		return value.Value{}, false
	}
	if !strings.HasPrefix(literal, "{") || !strings.HasSuffix(literal, "}") {
		return value.Value{}, false
	}
	if len(literal) != len(strings.ReplaceAll(text, " ", "")) {
		return value.Value{}, false
	}
	return value.Array(text), true
}

// shapeResult maps the evaluated Value to the caller's requested shape
// (spec.md §4.5 "Map the evaluated value to the requested return shape").
func (e *Expression) shapeResult(v value.Value, realValue bool) value.Value {
	if !realValue {
		return value.Bool(!v.Falsey())
	}

	switch v.Kind {
	case value.Integer, value.Boolean, value.ByteArray:
		return v
	}

	// Text-like (ByteString, WideString, RawText).
	if v.Text == `L""` {
		return value.Bool(false)
	}
	if v.Falsey() {
		return value.Str(`""`)
	}
	if v.Kind == value.WideString || v.IsArray() {
		return v
	}
	return value.Str(`"` + stripQuotes(v.Text) + `"`)
}
