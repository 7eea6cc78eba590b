package eval

import (
	"testing"

	"github.com/edk2tools/pcdexpr/internal/direrr"
	"github.com/edk2tools/pcdexpr/internal/value"
)

func TestByteArrayLiteral(t *testing.T) {
	v, err := run(t, "{0x01, 0x02, 0x03}", nil, true)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.Kind != value.ByteArray {
		t.Fatalf("expected ByteArray, got %+v", v)
	}
	if v.Text != "{0x01, 0x02, 0x03}" {
		t.Fatalf("expected the original spelling preserved, got %q", v.Text)
	}
}

func TestByteArrayRejectsOversizedElement(t *testing.T) {
	// Each element must be a plain byte (<=4 chars incl. "0x"); a 3-byte
	// hex literal in a lone-element array fails isPlainByteArray.
	_, err := run(t, "{0x010203}", nil, true)
	if err == nil {
		t.Fatal("expected BadArrayToken error")
	}
	mustBadKind(t, err, direrr.KindBadArrayToken)
}

func TestByteArrayRejectsNonHexElement(t *testing.T) {
	_, err := run(t, "{0x01, abc}", nil, true)
	if err == nil {
		t.Fatal("expected BadArrayElement error")
	}
	mustBadKind(t, err, direrr.KindBadArrayElement)
}

func TestUnterminatedArrayFails(t *testing.T) {
	_, err := run(t, "{0x01, 0x02", nil, true)
	if err == nil {
		t.Fatal("expected BadArrayToken error")
	}
	mustBadKind(t, err, direrr.KindBadArrayToken)
}

// The 11-field C-style GUID structure literal, whose 4th field is itself a
// nested byte array, parses as a single ByteArray value.
func TestGuidStructLiteralDirectSyntax(t *testing.T) {
	v, err := run(t, "{0x12345678, 0x1234, 0x1234, {0x12, 0x34, 0x56, 0x78, 0x9a, 0xbc, 0xde, 0xf0}}", nil, true)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.Kind != value.ByteArray {
		t.Fatalf("expected ByteArray, got %+v", v)
	}
}

// A dashed GUID string literal is rewritten to the same 11-field structure
// and re-parsed as a brace array.
func TestGuidDashedStringLiteral(t *testing.T) {
	v, err := run(t, "12345678-1234-1234-1234-123456789ABC", nil, true)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.Kind != value.ByteArray {
		t.Fatalf("expected ByteArray, got %+v", v)
	}
}
