package eval

import (
	"strings"

	"github.com/edk2tools/pcdexpr/internal/direrr"
	"github.com/edk2tools/pcdexpr/internal/value"
)

// condExpr implements the top of the grammar (spec.md §4.3): `Cond := Or
// ('?' Or ':' Or)*`, a left-associative loop whose branches are parsed at
// the Or level, not recursively at Cond level (matches the original's
// `_ExprFuncTemplate(self._OrExpr, ['?', ':'])`, whose `while` loop folds
// chained ternaries left to right: `1 ? 2 : 0 ? 3 : 4` is `(1?2:0)?3:4`).
// Both branches are evaluated unconditionally before one is discarded,
// reproducing the original's eager-both-branch behavior (spec.md §9) rather
// than short-circuiting.
func (e *Expression) condExpr() (value.Value, error) {
	val, err := e.orExpr()
	if err != nil {
		return value.Value{}, err
	}

	for {
		ok, _, err := e.isOperator([]string{"?"})
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			return val, nil
		}
		thenVal, err := e.orExpr()
		if err != nil {
			return value.Value{}, err
		}
		if ok, _, err := e.isOperator([]string{":"}); err != nil {
			return value.Value{}, err
		} else if !ok {
			return value.Value{}, direrr.New(direrr.KindSyntax, "expected ':' in conditional expression")
		}
		elseVal, err := e.orExpr()
		if err != nil {
			return value.Value{}, err
		}
		if !val.Falsey() {
			val = thenVal
		} else {
			val = elseVal
		}
	}
}

// binaryLevel folds one left-associative precedence level: parse next, then
// while an operator from ops matches, parse next again and combine.
func (e *Expression) binaryLevel(ops []string, next func() (value.Value, error)) (value.Value, error) {
	lhs, err := next()
	if err != nil {
		return value.Value{}, err
	}
	for {
		ok, op, err := e.isOperator(ops)
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			return lhs, nil
		}
		rhs, err := next()
		if err != nil {
			return value.Value{}, err
		}
		lhs, err = e.applyBinary(op, lhs, rhs)
		if err != nil {
			return value.Value{}, err
		}
	}
}

func (e *Expression) orExpr() (value.Value, error) {
	return e.binaryLevel([]string{"or"}, e.andExpr)
}
func (e *Expression) andExpr() (value.Value, error) {
	return e.binaryLevel([]string{"and"}, e.bitOrExpr)
}
func (e *Expression) bitOrExpr() (value.Value, error) {
	return e.binaryLevel([]string{"|"}, e.bitXorExpr)
}
func (e *Expression) bitXorExpr() (value.Value, error) {
	return e.binaryLevel([]string{"^"}, e.bitAndExpr)
}
func (e *Expression) bitAndExpr() (value.Value, error) {
	return e.binaryLevel([]string{"&"}, e.eqExpr)
}

// eqExpr handles ==, !=, and the `not in` / `in` membership pair: a bare
// "not"/"!" here must be immediately followed by "in", else KindRelNotIn
// (spec.md §4.3).
func (e *Expression) eqExpr() (value.Value, error) {
	lhs, err := e.relExpr()
	if err != nil {
		return value.Value{}, err
	}
	for {
		if ok, _, err := e.isOperator([]string{"not"}); err != nil {
			return value.Value{}, err
		} else if ok {
			if ok2, _, err := e.isOperator([]string{"in"}); err != nil {
				return value.Value{}, err
			} else if !ok2 {
				return value.Value{}, direrr.New(direrr.KindRelNotIn, "expected 'in' after 'not'")
			}
			rhs, err := e.relExpr()
			if err != nil {
				return value.Value{}, err
			}
			lhs, err = e.applyBinary("not in", lhs, rhs)
			if err != nil {
				return value.Value{}, err
			}
			continue
		}

		ok, op, err := e.isOperator([]string{"==", "!=", "in"})
		if err != nil {
			return value.Value{}, err
		}
		if !ok {
			return lhs, nil
		}
		rhs, err := e.relExpr()
		if err != nil {
			return value.Value{}, err
		}
		lhs, err = e.applyBinary(op, lhs, rhs)
		if err != nil {
			return value.Value{}, err
		}
	}
}

func (e *Expression) relExpr() (value.Value, error) {
	return e.binaryLevel([]string{">=", "<=", ">", "<"}, e.shiftExpr)
}
func (e *Expression) shiftExpr() (value.Value, error) {
	return e.binaryLevel([]string{"<<", ">>"}, e.addExpr)
}
func (e *Expression) addExpr() (value.Value, error) {
	return e.binaryLevel([]string{"+", "-"}, e.mulExpr)
}
func (e *Expression) mulExpr() (value.Value, error) {
	return e.binaryLevel([]string{"*", "/", "%"}, e.unaryExpr)
}

// unaryExpr handles a leading +, -, ~, or not/! prefix, then falls through
// to primary.
func (e *Expression) unaryExpr() (value.Value, error) {
	ok, op, err := e.isOperator([]string{"+", "-", "~", "not"})
	if err != nil {
		return value.Value{}, err
	}
	if !ok {
		return e.primary()
	}
	operand, err := e.unaryExpr()
	if err != nil {
		return value.Value{}, err
	}
	return e.applyUnary(op, operand)
}

// primary implements the Factor production: a resolved literal/identifier,
// or a parenthesized Cond.
func (e *Expression) primary() (value.Value, error) {
	isParen, parenCh, val, err := e.getPrimaryToken()
	if err != nil {
		return value.Value{}, err
	}
	if !isParen {
		return val, nil
	}
	if parenCh == ')' {
		return value.Value{}, direrr.New(direrr.KindMatchParen, "unexpected ')'")
	}

	inner, err := e.condExpr()
	if err != nil {
		return value.Value{}, err
	}
	e.scanner.SkipWS()
	if !strings.HasPrefix(e.scanner.Rest(), ")") {
		return value.Value{}, direrr.New(direrr.KindMatchParen, "expected matching ')'")
	}
	e.scanner.SetPos(e.scanner.Pos() + 1)
	return inner, nil
}
