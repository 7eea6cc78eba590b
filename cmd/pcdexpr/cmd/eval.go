package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edk2tools/pcdexpr/pkg/pcdexpr"
)

var realValue bool

var evalCmd = &cobra.Command{
	Use:   "eval <expr>",
	Short: "Evaluate a directive or PCD-default expression",
	Long: `Evaluate a !if/!elif-style expression or a PCD default-value
expression and print the result.

By default the expression is evaluated as a boolean (directive mode).
Pass --real-value to get the canonical text/numeric form (PCD mode).

Examples:
  pcdexpr eval '1 + 2 * 3' --real-value
  pcdexpr eval -D ARCH=IA32 '"IA32" IN $(ARCH)'`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().BoolVar(&realValue, "real-value", false, "return the canonical text/numeric value instead of a boolean")
}

func runEval(cmd *cobra.Command, args []string) error {
	symbols, err := buildSymbols()
	if err != nil {
		return err
	}

	result, err := pcdexpr.Evaluate(args[0], symbols, realValue, buildOptions()...)
	if err != nil {
		return fmt.Errorf("evaluation failed: %w", err)
	}

	if result.IsBool {
		fmt.Println(result.Bool)
	} else {
		fmt.Println(result.Text)
	}
	if result.Warning != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", result.Warning)
	}
	return nil
}
