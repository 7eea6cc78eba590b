package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edk2tools/pcdexpr/pkg/pcdexpr"
)

var pcdType string

var evalTypedCmd = &cobra.Command{
	Use:   "eval-typed <expr>",
	Short: "Evaluate a width/VOID*-typed PCD value assignment",
	Long: `Evaluate a PCD default-value expression against a declared PCD
type (UINT8, UINT16, UINT32, UINT64, BOOLEAN, or VOID*), applying the
width checks and structural GUID/DEVICE_PATH/LABEL handling typed PCDs
require.

Examples:
  pcdexpr eval-typed --type UINT16 '0x1234'
  pcdexpr eval-typed --type UINT32 '{UINT8(1), UINT16(0x0203)}'
  pcdexpr eval-typed --type VOID* "'A'"`,
	Args: cobra.ExactArgs(1),
	RunE: runEvalTyped,
}

func init() {
	rootCmd.AddCommand(evalTypedCmd)
	evalTypedCmd.Flags().StringVar(&pcdType, "type", "", "declared PCD type: UINT8, UINT16, UINT32, UINT64, BOOLEAN, VOID*")
	evalTypedCmd.MarkFlagRequired("type")
}

func runEvalTyped(cmd *cobra.Command, args []string) error {
	symbols, err := buildSymbols()
	if err != nil {
		return err
	}

	result, err := pcdexpr.EvaluateTyped(args[0], pcdType, symbols, buildOptions()...)
	if err != nil {
		return fmt.Errorf("typed evaluation failed: %w", err)
	}
	fmt.Println(result)
	return nil
}
