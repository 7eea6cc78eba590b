package eval

import (
	"strings"

	"github.com/edk2tools/pcdexpr/internal/direrr"
)

// isOperator implements __IsOperator: it peeks at the next token (skipping
// leading whitespace) and reports whether it matches one of candidates,
// consuming it only on a match. The cursor is restored on a miss.
func (e *Expression) isOperator(candidates []string) (bool, string, error) {
	e.scanner.SkipWS()
	save := e.scanner.Pos()

	op, err := e.peekOperator()
	if err != nil {
		e.scanner.SetPos(save)
		return false, "", nil
	}
	if op == "" {
		e.scanner.SetPos(save)
		return false, "", nil
	}

	for _, cand := range candidates {
		if op == cand {
			return true, op, nil
		}
	}
	e.scanner.SetPos(save)
	return false, "", nil
}

// peekOperator reads one operator token at the cursor without regard to a
// candidate set, consuming it on success. It implements _GetOperator: a
// letter-led token (and/or/not/...) is read as an identifier and mapped
// through logicalAliases; otherwise a maximal run of symbol characters is
// read and validated against legalOperators.
func (e *Expression) peekOperator() (string, error) {
	rest := e.scanner.Rest()
	if rest == "" {
		return "", nil
	}

	ch := rest[0]
	if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
		word := e.scanner.ReadIDToken(e.ternaryLive)
		if alias, ok := logicalAliases[word]; ok {
			return alias, nil
		}
		if alias, ok := logicalAliases[strings.ToUpper(word)]; ok {
			return alias, nil
		}
		// Not an operator word: restore so the caller can read it as an
		// identifier/PCD token instead.
		e.scanner.SetPos(e.scanner.Pos() - len(word))
		return "", nil
	}

	start := e.scanner.Pos()
	end := start
	for end < e.scanner.Len() && nonLetterOpChars[e.scanner.Expr[end]] {
		end++
	}
	if end == start {
		return "", nil
	}

	run := e.scanner.Expr[start:end]
	for length := len(run); length > 0; length-- {
		candidate := run[:length]
		if legalOperators[candidate] {
			e.scanner.SetPos(start + length)
			if alias, ok := logicalAliases[candidate]; ok {
				return alias, nil
			}
			return candidate, nil
		}
	}
	return "", direrr.New(direrr.KindOpUnsupported, "unsupported operator token: %q", run)
}
