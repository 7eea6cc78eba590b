// Package direrr defines the fatal and recoverable diagnostics raised by the
// directive/PCD expression engine. A BadExpression aborts evaluation; a
// WrnExpression carries a usable result and is latched by the evaluator
// instead of unwinding the call stack.
package direrr

import "fmt"

// Kind enumerates the error/warning semantics catalogued in the expression
// engine's error design (unterminated tokens, type mismatches, PCD
// resolution failures, and so on). It exists so callers can branch on the
// failure class without parsing message text.
type Kind string

const (
	KindBadStringExpr        Kind = "BadStringExpr"
	KindSyntax               Kind = "Syntax"
	KindMatchParen           Kind = "MatchParen"
	KindBadStringToken       Kind = "BadStringToken"
	KindBadMacroToken        Kind = "BadMacroToken"
	KindEmptyToken           Kind = "EmptyToken"
	KindPcdResolve           Kind = "PcdResolve"
	KindValidToken           Kind = "ValidToken"
	KindExprTypeMismatch     Kind = "ExprTypeMismatch"
	KindOpUnsupported        Kind = "OpUnsupported"
	KindRelNotIn             Kind = "RelNotIn"
	KindRelCmpStringOthers   Kind = "RelCmpStringOthers"
	KindStringCmpMismatch    Kind = "StringCmpMismatch"
	KindBadArrayToken        Kind = "BadArrayToken"
	KindBadArrayElement      Kind = "BadArrayElement"
	KindEmptyExpr            Kind = "EmptyExpr"
	KindInOperand            Kind = "InOperand"
	KindNegativePcd          Kind = "NegativePcd"
	KindPcdWidthExceeded     Kind = "PcdWidthExceeded"
	KindUndefinedOffset      Kind = "UndefinedOffset"
	KindBadExpressionGeneric Kind = "BadExpression"
)

// BadExpression is a fatal parse/semantic failure. PcdName is set when the
// fault is attributable to a specific PCD identifier (spec.md §6).
type BadExpression struct {
	Kind    Kind
	Message string
	PcdName string
}

func (e *BadExpression) Error() string {
	if e.PcdName != "" {
		return fmt.Sprintf("%s: %s (pcd=%s)", e.Kind, e.Message, e.PcdName)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// New builds a BadExpression of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *BadExpression {
	return &BadExpression{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithPcd annotates a BadExpression with the offending PCD identifier.
func (e *BadExpression) WithPcd(name string) *BadExpression {
	e.PcdName = name
	return e
}

// WarnKind enumerates the recoverable-warning catalogue (spec.md §7).
type WarnKind string

const (
	WarnBoolInArith       WarnKind = "WrnBoolInArith"
	WarnEqCmpStringOthers WarnKind = "WrnEqCmpStringOthers"
	WarnNeCmpStringOthers WarnKind = "WrnNeCmpStringOthers"
)

// WrnExpression is a recoverable warning. It always carries the Result the
// evaluator should substitute for the faulting sub-expression; the parser
// latches the warning and keeps consuming the rest of the expression so a
// single top-level call surfaces at most one pending warning (spec.md §3
// invariants, §4.4 "Warning discipline").
type WrnExpression struct {
	Kind    WarnKind
	Message string
	Result  any
}

func (w *WrnExpression) Error() string {
	return fmt.Sprintf("%s: %s", w.Kind, w.Message)
}

// NewWarning builds a WrnExpression; Result must be filled in by the caller
// before the warning is latched.
func NewWarning(kind WarnKind, message string) *WrnExpression {
	return &WrnExpression{Kind: kind, Message: message}
}
