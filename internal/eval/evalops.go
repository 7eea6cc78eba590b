package eval

import (
	"math/big"
	"strings"

	"github.com/edk2tools/pcdexpr/internal/direrr"
	"github.com/edk2tools/pcdexpr/internal/fieldvalue"
	"github.com/edk2tools/pcdexpr/internal/value"
)

var arithOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"&": true, "|": true, "^": true, "<<": true, ">>": true,
}

var relOps = map[string]bool{"<": true, ">": true, "<=": true, ">=": true}
var eqOps = map[string]bool{"==": true, "!=": true}

// applyBinary implements the binary half of the evaluation engine (spec.md
// §4.4): arithmetic/bitwise ops on integers (booleans coerce with a
// latched warning), string comparison for text-kinded operands, strict
// relational comparison mismatch errors, and IN / NOT IN membership (exact
// match against whitespace-separated items) via the legacy IntToStr
// conversion.
func (e *Expression) applyBinary(op string, lhs, rhs value.Value) (value.Value, error) {
	switch {
	case op == "and" || op == "or":
		l := !lhs.Falsey()
		r := !rhs.Falsey()
		if op == "and" {
			return value.Bool(l && r), nil
		}
		return value.Bool(l || r), nil

	case op == "in" || op == "not in":
		return e.applyMembership(op, lhs, rhs)

	case arithOps[op]:
		// Rule 1 (spec.md §4.4): an unquoted/untyped text operand is first
		// coerced to its ParseFieldValue integer representation.
		lhs = coerceRawText(lhs)
		rhs = coerceRawText(rhs)
		li, lok := e.toArithInt(&lhs)
		ri, rok := e.toArithInt(&rhs)
		if !lok || !rok {
			return value.Value{}, direrr.New(direrr.KindBadStringExpr, "operator %q requires integer operands", op)
		}
		return value.Int(intBinOp(op, li, ri)), nil

	case eqOps[op]:
		return e.applyEquality(op, coerceRawText(lhs), coerceRawText(rhs))

	case relOps[op]:
		return e.applyRelational(op, coerceRawText(lhs), coerceRawText(rhs))
	}

	return value.Value{}, direrr.New(direrr.KindOpUnsupported, "unsupported binary operator %q", op)
}

// coerceRawText implements rule 1's "not already quoted or typed" test: a
// RawText or ByteArray operand (never carries an explicit quote/L marker)
// is folded to an Integer via ParseFieldValue when it parses as one;
// ByteString/WideString operands are left alone since they are already a
// quoted literal form.
func coerceRawText(v value.Value) value.Value {
	if v.Kind != value.RawText && v.Kind != value.ByteArray {
		return v
	}
	text := v.Text
	if v.Kind == value.RawText && !strings.HasPrefix(text, `"`) {
		text = `"` + text + `"`
	}
	if n, _, err := fieldvalue.ParseFieldValue(text); err == nil {
		return value.Int(n)
	}
	return v
}

// applyUnary implements the unary half of the evaluation engine: +/-/~
// require an integer operand (boolean coerces with a latched warning, same
// as the binary arithmetic path); not/! coerces an Integer or Boolean
// operand through Falsey. A text operand fails with BadStringExpr for every
// unary operator.
func (e *Expression) applyUnary(op string, v value.Value) (value.Value, error) {
	v = coerceRawText(v)

	if op == "not" {
		if isTextKind(v) {
			return value.Value{}, direrr.New(direrr.KindBadStringExpr, "unary 'not' requires a non-string operand")
		}
		return value.Bool(v.Falsey()), nil
	}

	if isTextKind(v) {
		return value.Value{}, direrr.New(direrr.KindBadStringExpr, "unary %q requires a non-string operand", op)
	}
	n, ok := e.toArithInt(&v)
	if !ok {
		return value.Value{}, direrr.New(direrr.KindBadStringExpr, "unary %q requires an integer operand", op)
	}
	switch op {
	case "+":
		return value.Int(n), nil
	case "-":
		return value.Int(new(big.Int).Neg(n)), nil
	case "~":
		return value.Int(new(big.Int).Not(n)), nil
	}
	return value.Value{}, direrr.New(direrr.KindOpUnsupported, "unsupported unary operator %q", op)
}

// toArithInt coerces v to an integer usable in arithmetic. A Boolean
// operand is allowed but latches WrnBoolInArith (0/1); any text-kinded
// operand is rejected.
func (e *Expression) toArithInt(v *value.Value) (*big.Int, bool) {
	switch v.Kind {
	case value.Integer:
		return v.Int, true
	case value.Boolean:
		n := int64(0)
		if v.Bool {
			n = 1
		}
		e.latch(direrr.NewWarning(direrr.WarnBoolInArith, "boolean operand coerced to integer in arithmetic context"))
		return big.NewInt(n), true
	default:
		return nil, false
	}
}

func intBinOp(op string, l, r *big.Int) *big.Int {
	res := new(big.Int)
	switch op {
	case "+":
		return res.Add(l, r)
	case "-":
		return res.Sub(l, r)
	case "*":
		return res.Mul(l, r)
	case "/":
		if r.Sign() == 0 {
			return big.NewInt(0)
		}
		return res.Quo(l, r)
	case "%":
		if r.Sign() == 0 {
			return big.NewInt(0)
		}
		return res.Rem(l, r)
	case "&":
		return res.And(l, r)
	case "|":
		return res.Or(l, r)
	case "^":
		return res.Xor(l, r)
	case "<<":
		return res.Lsh(l, uint(r.Int64()))
	case ">>":
		return res.Rsh(l, uint(r.Int64()))
	}
	return res
}

func isTextKind(v value.Value) bool {
	switch v.Kind {
	case value.ByteString, value.WideString, value.RawText, value.ByteArray:
		return true
	}
	return false
}

// applyEquality implements == and !=. Two text-kinded operands compare by
// stripped content; a text operand against a non-text operand is not a
// hard error here, it latches WrnEqCmpStringOthers / WrnNeCmpStringOthers
// and resolves to the type-mismatch default (never-equal).
func (e *Expression) applyEquality(op string, lhs, rhs value.Value) (value.Value, error) {
	lText, rText := isTextKind(lhs), isTextKind(rhs)

	if lText && rText {
		if stringWidthMismatch(lhs, rhs) {
			return value.Value{}, direrr.New(direrr.KindStringCmpMismatch, "cannot compare a wide string against a narrow string")
		}
		eq := stripQuotes(lhs.Text) == stripQuotes(rhs.Text)
		if op == "==" {
			return value.Bool(eq), nil
		}
		return value.Bool(!eq), nil
	}

	if lText != rText {
		if op == "==" {
			e.latch(direrr.NewWarning(direrr.WarnEqCmpStringOthers, "comparing a string value against a non-string value is always false"))
			return value.Bool(false), nil
		}
		e.latch(direrr.NewWarning(direrr.WarnNeCmpStringOthers, "comparing a string value against a non-string value is always true"))
		return value.Bool(true), nil
	}

	li, lok := numericView(lhs)
	ri, rok := numericView(rhs)
	if !lok || !rok {
		return value.Value{}, direrr.New(direrr.KindExprTypeMismatch, "operator %q requires comparable operands", op)
	}
	eq := li.Cmp(ri) == 0
	if op == "==" {
		return value.Bool(eq), nil
	}
	return value.Bool(!eq), nil
}

// applyRelational implements <, >, <=, >=. Mismatched string/non-string
// operands are a hard error (RelCmpStringOthers) rather than a warning,
// since there is no sane ordering default to fall back to.
func (e *Expression) applyRelational(op string, lhs, rhs value.Value) (value.Value, error) {
	lText, rText := isTextKind(lhs), isTextKind(rhs)

	if lText && rText {
		if stringWidthMismatch(lhs, rhs) {
			return value.Value{}, direrr.New(direrr.KindStringCmpMismatch, "cannot compare a wide string against a narrow string")
		}
		l, r := stripQuotes(lhs.Text), stripQuotes(rhs.Text)
		return value.Bool(compareStrings(op, l, r)), nil
	}
	if lText != rText {
		return value.Value{}, direrr.New(direrr.KindRelCmpStringOthers, "cannot compare a string value against a non-string value with %q", op)
	}

	li, lok := numericView(lhs)
	ri, rok := numericView(rhs)
	if !lok || !rok {
		return value.Value{}, direrr.New(direrr.KindExprTypeMismatch, "operator %q requires comparable operands", op)
	}
	c := li.Cmp(ri)
	switch op {
	case "<":
		return value.Bool(c < 0), nil
	case ">":
		return value.Bool(c > 0), nil
	case "<=":
		return value.Bool(c <= 0), nil
	case ">=":
		return value.Bool(c >= 0), nil
	}
	return value.Value{}, direrr.New(direrr.KindOpUnsupported, "unsupported relational operator %q", op)
}

func compareStrings(op, l, r string) bool {
	switch op {
	case "<":
		return l < r
	case ">":
		return l > r
	case "<=":
		return l <= r
	case ">=":
		return l >= r
	}
	return false
}

// numericView coerces Integer and Boolean operands to *big.Int for mixed
// comparisons; anything else is not numeric.
func numericView(v value.Value) (*big.Int, bool) {
	switch v.Kind {
	case value.Integer:
		return v.Int, true
	case value.Boolean:
		if v.Bool {
			return big.NewInt(1), true
		}
		return big.NewInt(0), true
	}
	return nil, false
}

func stripQuotes(text string) string {
	t := text
	if strings.HasPrefix(t, "L") {
		t = t[1:]
	}
	if len(t) >= 2 {
		first, last := t[0], t[len(t)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			return t[1 : len(t)-1]
		}
	}
	return t
}

// applyMembership implements IN / NOT IN: both operands are forced to text
// (via intToStr when a side is an Integer, since a quoted literal is already
// packed to an integer by the tokenizer), and the right operand's text is
// split on whitespace to form the membership set the left operand is tested
// against (spec.md §4.4 rule 2).
func (e *Expression) applyMembership(op string, lhs, rhs value.Value) (value.Value, error) {
	needle := membershipText(lhs)
	haystack := membershipText(rhs)

	found := false
	for _, item := range strings.Fields(haystack) {
		if item == needle {
			found = true
			break
		}
	}
	if op == "not in" {
		found = !found
	}
	return value.Bool(found), nil
}

// membershipText renders an IN/NOT IN operand as text: an Integer operand
// (the common case, since a quoted literal is already packed by the time it
// reaches here) goes through intToStr; anything else is already text, so its
// L prefix and surrounding quotes are stripped.
func membershipText(v value.Value) string {
	if v.Kind == value.Integer {
		return intToStr(v.Int)
	}
	return stripQuotes(v.Text)
}

// stringWidthMismatch reports whether lhs and rhs are both genuine string
// literals (ByteString/WideString) of different widths, e.g. L"abc" vs
// "abc" — such pairs can never be compared (spec.md §4.4 rule 9). RawText
// and ByteArray values carry no width distinction and never mismatch here.
func stringWidthMismatch(lhs, rhs value.Value) bool {
	isStringKind := func(v value.Value) bool {
		return v.Kind == value.ByteString || v.Kind == value.WideString
	}
	if !isStringKind(lhs) || !isStringKind(rhs) {
		return false
	}
	return lhs.IsWide() != rhs.IsWide()
}

// intToStr converts an integer to little-endian bytes, emitting bytes
// while the remaining magnitude is still positive. Because the loop
// condition is `value > 0` rather than a fixed byte count, a value whose
// high-order byte happens to be zero silently loses that byte — a
// long-standing quirk of the original PCD expression evaluator preserved
// here rather than "fixed" (spec.md §9), since IN / NOT IN membership
// depends on matching this exact (possibly truncated) byte count.
func intToStr(n *big.Int) string {
	v := new(big.Int).Abs(n)
	mask := big.NewInt(0xff)
	tmp := new(big.Int)
	var buf []byte
	for v.Sign() > 0 {
		tmp.And(v, mask)
		buf = append(buf, byte(tmp.Int64()))
		v.Rsh(v, 8)
	}
	return string(buf)
}

// latch records a recoverable warning. Only the first warning in a given
// top-level evaluation is kept, matching the parser's single pendingWarn
// slot (spec.md §3 invariants).
func (e *Expression) latch(w *direrr.WrnExpression) {
	if e.pendingWarn == nil {
		e.pendingWarn = w
	}
}
