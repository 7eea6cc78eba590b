package eval

import (
	"github.com/edk2tools/pcdexpr/internal/macro"
	"github.com/edk2tools/pcdexpr/pkg/symtab"
)

// substitute runs macro substitution (spec.md §4.2) over text using the
// symbol table's values as the macro map and its Context for the
// conditional-PCD side effect.
func substitute(text string, symbols *symtab.SymbolTable, opts Options) (string, error) {
	var macros map[string]string
	var ctx *macro.Context
	if symbols != nil {
		macros = symbols.Values()
		ctx = symbols.Context()
	}
	return macro.Substitute(text, macros, opts.InExceptions, ctx)
}
