package pcdtype

import (
	"testing"

	"github.com/edk2tools/pcdexpr/internal/direrr"
	"github.com/edk2tools/pcdexpr/internal/eval"
	"github.com/edk2tools/pcdexpr/pkg/symtab"
)

func evaluate(t *testing.T, text string, ty Type, values map[string]string) (string, error) {
	t.Helper()
	table := symtab.New(values, nil)
	return Evaluate(text, ty, table, eval.NewOptions())
}

func mustKind(t *testing.T, err error, kind direrr.Kind) {
	t.Helper()
	be, ok := err.(*direrr.BadExpression)
	if !ok {
		t.Fatalf("expected *direrr.BadExpression, got %T (%v)", err, err)
	}
	if be.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, be.Kind, be)
	}
}

func TestEvaluateUint8Direct(t *testing.T) {
	got, err := evaluate(t, "1 + 2", UINT8, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "0x03" {
		t.Fatalf("expected 0x03, got %q", got)
	}
}

func TestEvaluateUint8WidthExceeded(t *testing.T) {
	_, err := evaluate(t, "300", UINT8, nil)
	if err == nil {
		t.Fatal("expected PcdWidthExceeded error")
	}
	mustKind(t, err, direrr.KindPcdWidthExceeded)
}

func TestEvaluateNegativeFails(t *testing.T) {
	_, err := evaluate(t, "-5", UINT8, nil)
	if err == nil {
		t.Fatal("expected NegativePcd error")
	}
	mustKind(t, err, direrr.KindNegativePcd)
}

func TestEvaluateBooleanLiteralTrue(t *testing.T) {
	got, err := evaluate(t, "TRUE", BOOLEAN, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "0x01" {
		t.Fatalf("expected 0x01, got %q", got)
	}
}

func TestEvaluateBooleanLiteralFalse(t *testing.T) {
	got, err := evaluate(t, "FALSE", BOOLEAN, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "0x00" {
		t.Fatalf("expected 0x00, got %q", got)
	}
}

// A quoted char literal for a VOID* PCD is the common real-world shape
// (gTokenSpaceGuid.PcdFoo|"AB"|VOID*|0): the tokenizer would otherwise pack
// it straight to an Integer and lose the "this is a string" fact, so
// evaluateDirect special-cases the quote prefix before invoking the engine.
func TestEvaluateVoidPtrCharLiteral(t *testing.T) {
	got, err := evaluate(t, `"AB"`, VoidPtr, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "{0x41, 0x42, 0x00}" {
		t.Fatalf("expected NUL-terminated ASCII bytes, got %q", got)
	}
}

func TestEvaluateVoidPtrWideLiteral(t *testing.T) {
	got, err := evaluate(t, `L"A"`, VoidPtr, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "{0x41, 0x00, 0x00, 0x00}" {
		t.Fatalf("expected NUL-terminated UTF-16LE code units, got %q", got)
	}
}

func TestEvaluateVoidPtrArrayLiteral(t *testing.T) {
	got, err := evaluate(t, "{0x01, 0x02, 0x03}", VoidPtr, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "{0x01, 0x02, 0x03}" {
		t.Fatalf("expected the array literal passed through unchanged, got %q", got)
	}
}

func TestEvaluateVoidPtrBareInteger(t *testing.T) {
	got, err := evaluate(t, "0x1234", VoidPtr, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "{0x34, 0x12}" {
		t.Fatalf("expected little-endian bytes, got %q", got)
	}
}

func TestEvaluateVoidPtrBareIntegerZero(t *testing.T) {
	got, err := evaluate(t, "0", VoidPtr, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "{0x00}" {
		t.Fatalf("expected {0x00}, got %q", got)
	}
}

// Structural recovery: a brace list of UINT8/UINT16 items is packed into a
// single little-endian value once the direct path rejects the whole
// expression (the engine reads it as a byte array, which a numeric type does
// not accept).
func TestEvaluateStructuralMixedWidths(t *testing.T) {
	got, err := evaluate(t, "{UINT8(1), UINT16(2)}", UINT32, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	// byte 0 = 0x01 (UINT8), bytes 1-2 = 0x02, 0x00 (UINT16), byte 3 is
	// implicit padding, so the little-endian UINT32 word is 0x00000201.
	if got != "0x00000201" {
		t.Fatalf("expected 0x00000201, got %q", got)
	}
}

func TestEvaluateStructuralWidthExceeded(t *testing.T) {
	_, err := evaluate(t, "{UINT8(1), UINT16(2)}", UINT8, nil)
	if err == nil {
		t.Fatal("expected PcdWidthExceeded error")
	}
	mustKind(t, err, direrr.KindPcdWidthExceeded)
}

func TestEvaluateVoidPtrGuidByName(t *testing.T) {
	got, err := evaluate(t, "{GUID(gMyGuid)}", VoidPtr, map[string]string{
		"gMyGuid": "12345678-1234-1234-1234-123456789ABC",
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got == "" || got[0] != '{' {
		t.Fatalf("expected a brace byte array, got %q", got)
	}
}

func TestEvaluateVoidPtrGuidUndefinedName(t *testing.T) {
	_, err := evaluate(t, "{GUID(gUnknown)}", VoidPtr, nil)
	if err == nil {
		t.Fatal("expected an error for an undefined GUID name")
	}
}

func TestEvaluateVoidPtrDevicePath(t *testing.T) {
	got, err := evaluate(t, `{DEVICE_PATH("PciRoot(0x0)")}`, VoidPtr, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got == "" || got[0] != '{' {
		t.Fatalf("expected a brace byte array, got %q", got)
	}
}

// LABEL(name) records the zero-based item index it appears next to;
// OFFSET_OF(name) is rewritten to that index before evaluation.
func TestEvaluateVoidPtrLabelOffsetOf(t *testing.T) {
	got, err := evaluate(t, "{0x01, LABEL(X) 0x02, UINT8(OFFSET_OF(X))}", VoidPtr, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != "{0x01, 0x02, 0x01}" {
		t.Fatalf("expected the offset to resolve to item index 1, got %q", got)
	}
}

func TestEvaluateVoidPtrOffsetOfUndefinedLabelFails(t *testing.T) {
	_, err := evaluate(t, "{0x01, UINT8(OFFSET_OF(Missing))}", VoidPtr, nil)
	if err == nil {
		t.Fatal("expected UndefinedOffset error")
	}
	mustKind(t, err, direrr.KindUndefinedOffset)
}
