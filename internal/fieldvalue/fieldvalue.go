// Package fieldvalue implements the two lexical collaborators spec.md §6
// describes but leaves as external: ParseFieldValue and
// GuidStringToGuidStructureString. spec.md scopes their *implementation*
// out, but a runnable module needs a concrete behavior behind the
// contract, so this package supplies one grounded in the original
// BaseTools Expression.py callers (original_source/) and in the teacher's
// UTF-16 handling (internal/interp/encoding.go) for wide literals.
package fieldvalue

import (
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

var uint8Re = regexp.MustCompile(`^UINT(8|16|32|64)\((.*)\)$`)
var guidCallRe = regexp.MustCompile(`^GUID\((.*)\)$`)
var devicePathRe = regexp.MustCompile(`^DEVICE_PATH\((.*)\)$`)

// wideEncoder encodes a narrow Go string into UTF-16LE bytes, matching the
// teacher's BOM-aware decoding in internal/interp/encoding.go run in reverse.
var wideEncoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()

// ParseFieldValue parses a literal token into its packed little-endian
// integer representation and byte width, per spec.md §6:
//
//	"..."            -> NUL-terminated ASCII bytes
//	'...'             -> raw ASCII bytes, no terminator
//	L"..."            -> NUL-terminated UTF-16LE code units
//	L'...'            -> raw UTF-16LE code units, no terminator
//	UINT8/16/32/64(n) -> n masked to the named width
//	GUID(xxxxxxxx-...)-> 16-byte little-endian GUID binary layout
//	DEVICE_PATH(...)  -> NUL-terminated ASCII bytes of the path text
//	0x... / decimal   -> the integer itself, minimal byte width
func ParseFieldValue(text string) (*big.Int, int, error) {
	switch {
	case strings.HasPrefix(text, `L"`) && strings.HasSuffix(text, `"`) && len(text) >= 3:
		return packWide(text[2:len(text)-1], true)
	case strings.HasPrefix(text, `L'`) && strings.HasSuffix(text, `'`) && len(text) >= 3:
		return packWide(text[2:len(text)-1], false)
	case strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) && len(text) >= 2:
		return packNarrow(text[1:len(text)-1], true)
	case strings.HasPrefix(text, `'`) && strings.HasSuffix(text, `'`) && len(text) >= 2:
		return packNarrow(text[1:len(text)-1], false)
	}

	if m := uint8Re.FindStringSubmatch(text); m != nil {
		width, _ := strconv.Atoi(m[1])
		size := width / 8
		inner := strings.TrimSpace(m[2])
		n, _, err := ParseFieldValue(inner)
		if err != nil {
			n, ok := new(big.Int).SetString(inner, 0)
			if !ok {
				return nil, 0, fmt.Errorf("fieldvalue: invalid UINT%d operand %q", width, inner)
			}
			return maskTo(n, size), size, nil
		}
		return maskTo(n, size), size, nil
	}

	if m := guidCallRe.FindStringSubmatch(text); m != nil {
		return ParseGuidBinary(strings.TrimSpace(m[1]))
	}

	if m := devicePathRe.FindStringSubmatch(text); m != nil {
		return packNarrow(strings.TrimSpace(m[1]), true)
	}

	n, ok := new(big.Int).SetString(text, 0)
	if !ok {
		return nil, 0, fmt.Errorf("fieldvalue: cannot parse %q", text)
	}
	return n, minByteWidth(n), nil
}

func maskTo(n *big.Int, size int) *big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), uint(size*8))
	mask.Sub(mask, big.NewInt(1))
	return new(big.Int).And(n, mask)
}

func minByteWidth(n *big.Int) int {
	return UnpackLEWidth(n)
}

// UnpackLEWidth returns the minimum number of little-endian bytes needed to
// hold n (at least 1), used by the PCD post-processor when an item carries
// no explicit UINTn width prefix.
func UnpackLEWidth(n *big.Int) int {
	bits := n.BitLen()
	if bits == 0 {
		return 1
	}
	return (bits + 7) / 8
}

func packNarrow(content string, nulTerminate bool) (*big.Int, int, error) {
	b := []byte(content)
	if nulTerminate {
		b = append(b, 0)
	}
	return packLE(b), len(b), nil
}

func packWide(content string, nulTerminate bool) (*big.Int, int, error) {
	encoded, err := wideEncoder.String(content)
	if err != nil {
		return nil, 0, fmt.Errorf("fieldvalue: invalid wide string %q: %w", content, err)
	}
	b := []byte(encoded)
	if nulTerminate {
		b = append(b, 0, 0)
	}
	return packLE(b), len(b), nil
}

// packLE interprets b[0] as the least-significant byte, matching the
// little-endian packing used throughout the PCD post-processor.
func packLE(b []byte) *big.Int {
	n := new(big.Int)
	for i := len(b) - 1; i >= 0; i-- {
		n.Lsh(n, 8)
		n.Or(n, big.NewInt(int64(b[i])))
	}
	return n
}

// UnpackLE is the inverse of packLE: it renders n as size little-endian
// bytes, used by the PCD post-processor to emit `{0xHH, ...}` literals.
func UnpackLE(n *big.Int, size int) []byte {
	out := make([]byte, size)
	tmp := new(big.Int).Set(n)
	mask := big.NewInt(0xff)
	for i := 0; i < size; i++ {
		b := new(big.Int).And(tmp, mask)
		out[i] = byte(b.Int64())
		tmp.Rsh(tmp, 8)
	}
	return out
}
