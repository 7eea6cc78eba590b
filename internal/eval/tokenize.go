package eval

import (
	"github.com/edk2tools/pcdexpr/internal/value"
	"github.com/edk2tools/pcdexpr/pkg/symtab"
)

// Token is one lexical item surfaced by Tokenize: its resolved Value plus
// the raw literal spelling the tokenizer consumed for it. Operators and
// parentheses carry an empty Value and Literal holding the operator
// spelling / "(" / ")".
type Token struct {
	Literal string
	Value   value.Value
	IsParen bool
}

// Tokenize runs macro substitution then repeatedly pulls single tokens and
// operators off the substituted text, for the `lex` CLI subcommand and for
// tests that want to inspect tokenization without going through the full
// grammar.
func Tokenize(text string, symbols *symtab.SymbolTable, opts Options) ([]Token, error) {
	e, err := New(text, symbols, opts, 0)
	if err != nil {
		return nil, err
	}

	var tokens []Token
	for {
		e.scanner.SkipWS()
		if e.scanner.AtEnd() {
			break
		}

		save := e.scanner.Pos()
		val, literal, isParen, parenCh, err := e.getSingleToken()
		if err == nil {
			if isParen {
				tokens = append(tokens, Token{Literal: string(parenCh), IsParen: true})
			} else {
				tokens = append(tokens, Token{Literal: literal, Value: val})
			}
			continue
		}

		e.scanner.SetPos(save)
		op, opErr := e.peekOperator()
		if opErr != nil {
			return tokens, opErr
		}
		if op == "" {
			return tokens, err
		}
		tokens = append(tokens, Token{Literal: op})
	}
	return tokens, nil
}
