package eval

import (
	"strings"

	"github.com/edk2tools/pcdexpr/internal/direrr"
	"github.com/edk2tools/pcdexpr/internal/fieldvalue"
	"github.com/edk2tools/pcdexpr/internal/value"
)

// readArray implements __GetArray: a `{ hexbyte (, hexbyte)* }` brace-array
// literal, or an 11-field C-style GUID structure literal whose 4th field is
// itself a nested brace array (spec.md §4.3).
func (e *Expression) readArray() (value.Value, string, bool, byte, error) {
	e.scanner.SetPos(e.scanner.Pos() + 1) // skip '{'

	_, inner, isParen, _, err := e.getNList(true)
	if err != nil {
		return value.Value{}, "", false, 0, err
	}
	if isParen {
		return value.Value{}, "", false, 0, direrr.New(direrr.KindBadArrayToken, "malformed array literal")
	}

	if e.scanner.AtEnd() || e.scanner.Rest()[0] != '}' {
		return value.Value{}, "", false, 0, direrr.New(direrr.KindBadArrayToken, "bad C array or C-format GUID token: %q", "{"+inner)
	}
	token := "{" + inner + "}"
	e.scanner.SetPos(e.scanner.Pos() + 1)

	if !isValidArrayLiteral(token) {
		return value.Value{}, "", false, 0, direrr.New(direrr.KindBadArrayToken, "bad C array or C-format GUID token: %q", token)
	}

	return value.Array(token), token, false, 0, nil
}

func isValidArrayLiteral(token string) bool {
	return isGuidStructLiteral(token) || isPlainByteArray(token)
}

func isGuidStructLiteral(token string) bool {
	fields := strings.Split(token, ",")
	if len(fields) != 11 {
		return false
	}
	if len(strings.Split(token, ",{")) != 2 {
		return false
	}
	if len(strings.Split(token, "},")) != 1 {
		return false
	}
	if !strings.HasPrefix(fields[3], "{") {
		return false
	}
	maxLen := fieldvalue.GuidFieldMaxLen()
	for i, f := range fields {
		if len(f) > maxLen[i] {
			return false
		}
	}
	return true
}

func isPlainByteArray(token string) bool {
	inner := strings.TrimRight(strings.TrimLeft(token, "{"), "}")
	if strings.Contains(inner, "{") {
		return false
	}
	for _, hex := range strings.Split(inner, ",") {
		if len(hex) > 4 {
			return false
		}
	}
	return true
}
