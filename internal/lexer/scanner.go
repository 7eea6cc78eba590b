// Package lexer provides the character-level scanning primitives the
// evaluator (package eval) drives to implement spec.md §4.3's tokenizer:
// whitespace skipping, identifier-character classification, and
// quoted-literal slicing (operator tokens are read by package eval). It
// holds no knowledge of macros,
// symbol tables, or typed values — those live in eval, which is what keeps
// this package reusable and independently testable.
package lexer

import "github.com/edk2tools/pcdexpr/internal/direrr"

// Position locates a single byte offset within an expression string for
// diagnostic display. Expressions are always single-line, so unlike a
// full source-file position this carries no line number.
type Position struct {
	Column int
}

// Scanner is a cursor over an already macro-substituted expression string.
// The cursor moves monotonically forward except for the explicit save/
// restore pair (Pos/SetPos) used by single-token lookahead (spec.md §3
// invariants).
type Scanner struct {
	Expr string
	Idx  int
}

func NewScanner(expr string) *Scanner {
	return &Scanner{Expr: expr}
}

func (s *Scanner) Len() int { return len(s.Expr) }

// Pos returns the current cursor offset.
func (s *Scanner) Pos() int { return s.Idx }

// SetPos restores a previously saved cursor offset (used by lookahead).
func (s *Scanner) SetPos(i int) { s.Idx = i }

// AtEnd reports whether the cursor has reached the end of the expression.
func (s *Scanner) AtEnd() bool { return s.Idx >= len(s.Expr) }

// Rest returns the unconsumed suffix of the expression.
func (s *Scanner) Rest() string { return s.Expr[s.Idx:] }

// SkipWS advances the cursor past spaces and tabs.
func (s *Scanner) SkipWS() {
	for s.Idx < len(s.Expr) && (s.Expr[s.Idx] == ' ' || s.Expr[s.Idx] == '\t') {
		s.Idx++
	}
}

// IsIDChar reports whether ch may appear inside an identifier/PCD-dotted
// token: alphanumerics, `.`, `_`, and `:` (the last so a live ternary's
// `?:` still separates cleanly — see ReadIDToken).
func IsIDChar(ch byte) bool {
	if ch == '.' || ch == '_' || ch == ':' {
		return true
	}
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// ReadIDToken consumes a maximal run of identifier characters. When
// ternaryLive is true (the full expression contains a literal `?`), `:` no
// longer counts as an identifier character, so `cond ? a : b` still tokenizes
// the branches separately (spec.md §4.3 grammar notes on the ternary).
func (s *Scanner) ReadIDToken(ternaryLive bool) string {
	start := s.Idx
	for s.Idx < len(s.Expr) {
		ch := s.Expr[s.Idx]
		if !IsIDChar(ch) {
			break
		}
		if ternaryLive && ch == ':' {
			break
		}
		s.Idx++
	}
	return s.Expr[start:s.Idx]
}

// ReadQuotedLiteral consumes a quoted literal starting at the cursor (which
// must point at `"` or `'`). It returns the literal with its surrounding
// quote characters still attached. An escaped `\\` or `\<quote>` inside the
// body does not end the literal early (spec.md §4.1).
func (s *Scanner) ReadQuotedLiteral() (string, error) {
	start := s.Idx
	quote := s.Expr[s.Idx]
	s.Idx++ // skip opening quote

	closed := false
	for s.Idx < len(s.Expr) {
		ch := s.Expr[s.Idx]
		if ch == '\\' && s.Idx+1 < len(s.Expr) && (s.Expr[s.Idx+1] == '\\' || s.Expr[s.Idx+1] == quote) {
			s.Idx += 2
			continue
		}
		s.Idx++
		if ch == quote {
			closed = true
			break
		}
	}
	token := s.Expr[start:s.Idx]
	if !closed {
		return "", direrr.New(direrr.KindBadStringToken, "unterminated string token: %q", token)
	}
	return token, nil
}
