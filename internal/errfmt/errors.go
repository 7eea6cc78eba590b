// Package errfmt renders expression evaluation failures with a caret
// pointing at the offending column, the way the compiler package this was
// adapted from renders source errors — but for a single-line expression
// string instead of a multi-line file.
package errfmt

import (
	"fmt"
	"strings"

	"github.com/edk2tools/pcdexpr/internal/direrr"
	"github.com/edk2tools/pcdexpr/internal/lexer"
)

// ExpressionError pairs a BadExpression with the expression text and the
// column at which the scanner's cursor sat when the error was raised, so
// it can be rendered with a caret like a compiler diagnostic.
type ExpressionError struct {
	Err  *direrr.BadExpression
	Expr string
	Pos  lexer.Position
}

// New builds an ExpressionError. pos is a byte offset into expr (0 if the
// caller has no better estimate, e.g. for errors raised during macro
// substitution rather than tokenization).
func New(err *direrr.BadExpression, expr string, pos int) *ExpressionError {
	return &ExpressionError{Err: err, Expr: expr, Pos: lexer.Position{Column: pos}}
}

func (e *ExpressionError) Error() string {
	return e.Format(false)
}

// Format renders the expression, a caret under the failing column, and the
// error message. If color is true, ANSI codes highlight the caret and
// message.
func (e *ExpressionError) Format(color bool) string {
	var sb strings.Builder

	sb.WriteString(e.Expr)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat(" ", e.Pos.Column))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString("^")
	if color {
		sb.WriteString("\033[0m")
	}
	sb.WriteString("\n")

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(fmt.Sprintf("%s: %s", e.Err.Kind, e.Err.Message))
	if e.Err.PcdName != "" {
		sb.WriteString(fmt.Sprintf(" (pcd=%s)", e.Err.PcdName))
	}
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

// FormatErrors renders multiple expression errors (e.g. one per file
// evaluated in a batch CLI run), numbering them when there is more than
// one.
func FormatErrors(errs []*ExpressionError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d expression(s) failed to evaluate:\n\n", len(errs)))
	for i, err := range errs {
		sb.WriteString(fmt.Sprintf("[%d of %d]\n", i+1, len(errs)))
		sb.WriteString(err.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
