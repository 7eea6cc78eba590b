package pcdtype

import (
	"fmt"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"

	"github.com/edk2tools/pcdexpr/internal/eval"
	"github.com/edk2tools/pcdexpr/pkg/symtab"
)

// emissionFixtures snapshots the exact packed-hex text the PCD post-processor
// emits for VOID* values (char, wide, brace-array, GUID and DEVICE_PATH
// forms) and for a structural UINT32 brace list: the literal byte
// layout is more legible as a snapshot than as an inline string constant
// (mirrors internal/interp/fixture_test.go's use of go-snaps for whole-script
// output in the teacher).
var emissionFixtures = []struct {
	name   string
	text   string
	ty     Type
	values map[string]string
}{
	{name: "VoidPtrNarrowChar", text: `"AB"`, ty: VoidPtr},
	{name: "VoidPtrWideChar", text: `L"A"`, ty: VoidPtr},
	{name: "VoidPtrArrayLiteral", text: "{0x01, 0x02, 0x03}", ty: VoidPtr},
	{name: "VoidPtrGuidByName", text: "{GUID(gMyGuid)}", ty: VoidPtr,
		values: map[string]string{"gMyGuid": "12345678-1234-1234-1234-123456789ABC"}},
	{name: "VoidPtrDevicePath", text: `{DEVICE_PATH("PciRoot(0x0)")}`, ty: VoidPtr},
	{name: "StructuralMixedWidths", text: "{UINT8(1), UINT16(2)}", ty: UINT32},
}

func TestEmissionFixtures(t *testing.T) {
	for _, f := range emissionFixtures {
		f := f
		t.Run(f.name, func(t *testing.T) {
			table := symtab.New(f.values, nil)
			got, err := Evaluate(f.text, f.ty, table, eval.NewOptions())
			rendered := got
			if err != nil {
				rendered = fmt.Sprintf("error: %v", err)
			}
			snaps.MatchSnapshot(t, f.name, rendered)
		})
	}
}
