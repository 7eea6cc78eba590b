package pcdexpr

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// fixture is one directive/PCD expression exercised end to end, snapshotted
// the way the DWScript test suite snapshots whole-script output: the corpus
// grows by adding a row here rather than hand-maintaining expected strings.
type fixture struct {
	name      string
	expr      string
	realValue bool
	symbols   Symbols
}

var directiveFixtures = []fixture{
	{name: "IntegerEquality", expr: "1 == 1"},
	{name: "ArithmeticPrecedence", expr: "1 + 2 * 3 == 7"},
	{name: "LogicalAnd", expr: "TRUE && (1 < 2)"},
	{name: "MacroArchMembership", expr: `"IA32" IN $(ARCH)`,
		symbols: Symbols{Values: map[string]string{"ARCH": "IA32 X64"}}},
	{name: "UndefinedMacroIsZero", expr: "$(UNDEFINED_MACRO) == 0"},
	{name: "TernaryLive", expr: "1 < 2 ? 10 : 20", realValue: true},
	{name: "ByteArrayEquality", expr: "{0x01, 0x02} == {0x01, 0x02}"},
	{name: "PlatformPcdComparison", expr: "gA.Pcd == 1",
		symbols: Symbols{Values: map[string]string{"gA.Pcd": "1"}}},
	{name: "BooleanPlusIntWarns", expr: "TRUE + 1", realValue: true},
}

// TestDirectiveFixtures snapshots Evaluate's Result for a small corpus of
// representative directive and PCD-default expressions.
func TestDirectiveFixtures(t *testing.T) {
	for _, f := range directiveFixtures {
		f := f
		t.Run(f.name, func(t *testing.T) {
			res, err := Evaluate(f.expr, f.symbols, f.realValue)
			var rendered string
			if err != nil {
				rendered = fmt.Sprintf("error: %v", err)
			} else {
				rendered = fmt.Sprintf("IsBool=%v Bool=%v Text=%q Warning=%q",
					res.IsBool, res.Bool, res.Text, res.Warning)
			}
			snaps.MatchSnapshot(t, f.name, rendered)
		})
	}
}

var typedFixtures = []struct {
	name string
	expr string
	ty   string
}{
	{name: "Uint8Sum", expr: "1 + 2", ty: "UINT8"},
	{name: "Uint32BareInteger", expr: "0x1234", ty: "UINT32"},
	{name: "VoidPtrCharLiteral", expr: `"AB"`, ty: "VOID*"},
	{name: "VoidPtrWideLiteral", expr: `L"A"`, ty: "VOID*"},
	{name: "Uint32StructuralMixedWidths", expr: "{UINT8(1), UINT16(2)}", ty: "UINT32"},
	{name: "BooleanTrue", expr: "TRUE", ty: "BOOLEAN"},
}

// TestTypedFixtures snapshots EvaluateTyped's canonical packed-hex text for a
// small corpus of declared PCD types.
func TestTypedFixtures(t *testing.T) {
	for _, f := range typedFixtures {
		f := f
		t.Run(f.name, func(t *testing.T) {
			got, err := EvaluateTyped(f.expr, f.ty, Symbols{})
			var rendered string
			if err != nil {
				rendered = fmt.Sprintf("error: %v", err)
			} else {
				rendered = got
			}
			snaps.MatchSnapshot(t, f.name, rendered)
		})
	}
}
