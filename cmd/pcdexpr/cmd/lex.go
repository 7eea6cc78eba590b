package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edk2tools/pcdexpr/internal/eval"
	"github.com/edk2tools/pcdexpr/internal/macro"
	"github.com/edk2tools/pcdexpr/pkg/symtab"
)

var lexCmd = &cobra.Command{
	Use:   "lex <expr>",
	Short: "Tokenize an expression after macro substitution",
	Long: `Tokenize (lex) a directive/PCD expression and print the resulting
tokens: identifiers, literals, operators, and parentheses.

This command is useful for debugging macro substitution and the
tokenizer without going through the full grammar.

Examples:
  pcdexpr lex '1 + 2 * 3'
  pcdexpr lex -D ARCH=IA32 '"IA32" IN $(ARCH)'`,
	Args: cobra.ExactArgs(1),
	RunE: lexExpr,
}

func init() {
	rootCmd.AddCommand(lexCmd)
}

func lexExpr(cmd *cobra.Command, args []string) error {
	symbols, err := buildSymbols()
	if err != nil {
		return err
	}
	o := eval.NewOptions(buildOptions()...)
	ctx := macro.NewContext(symbols.PlatformPCDs)
	table := symtab.New(symbols.Values, ctx)

	tokens, err := eval.Tokenize(args[0], table, o)
	if err != nil {
		return fmt.Errorf("lex failed: %w", err)
	}

	for i, tok := range tokens {
		if tok.IsParen {
			fmt.Printf("%2d  paren   %s\n", i, tok.Literal)
			continue
		}
		fmt.Printf("%2d  %-8s %-20s raw=%q\n", i, tok.Value.Kind, tok.Value.Text, tok.Literal)
	}
	return nil
}
