// Package pcdtype implements the PCD post-processor (spec.md §4.6): a
// typed-coercion layer over the expression engine keyed by a declared PCD
// type (UINT8/16/32/64, BOOLEAN, VOID*). It is grounded on the width/packing
// rules __ValueExpressionEx documents in original_source/ and reuses
// package eval for every sub-expression it evaluates.
package pcdtype

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/edk2tools/pcdexpr/internal/direrr"
	"github.com/edk2tools/pcdexpr/internal/eval"
	"github.com/edk2tools/pcdexpr/internal/fieldvalue"
	"github.com/edk2tools/pcdexpr/internal/value"
	"github.com/edk2tools/pcdexpr/pkg/symtab"
)

// Type enumerates the declared PCD datum types (spec.md §4.6).
type Type int

const (
	UINT8 Type = iota
	UINT16
	UINT32
	UINT64
	BOOLEAN
	VoidPtr
)

// ByteWidth returns the declared type's fixed byte width; VoidPtr has no
// fixed width (its size comes from the resolved literal instead).
func (t Type) ByteWidth() int {
	switch t {
	case UINT8:
		return 1
	case UINT16:
		return 2
	case UINT32:
		return 4
	case UINT64:
		return 8
	case BOOLEAN:
		return 1
	default:
		return 0
	}
}

// ParseType maps a declared-type spelling ("UINT8", "VOID*", ...) onto a
// Type.
func ParseType(s string) (Type, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UINT8":
		return UINT8, true
	case "UINT16":
		return UINT16, true
	case "UINT32":
		return UINT32, true
	case "UINT64":
		return UINT64, true
	case "BOOLEAN":
		return BOOLEAN, true
	case "VOID*":
		return VoidPtr, true
	}
	return 0, false
}

var widthPrefix = regexp.MustCompile(`^UINT(8|16|32|64)\((.*)\)$`)
var guidCallRe = regexp.MustCompile(`^GUID\(([^)]*)\)$`)
var devicePathRe = regexp.MustCompile(`^DEVICE_PATH\(`)
var labelRe = regexp.MustCompile(`LABEL\(([^)]*)\)`)
var offsetOfRe = regexp.MustCompile(`OFFSET_OF\(([^)]*)\)`)

// Evaluate implements evaluate_typed (spec.md §6): it tries the expression
// engine first, and on a BadExpression falls back to a structural parse of
// the declared type (spec.md §4.6's state machine).
func Evaluate(exprText string, t Type, symbols *symtab.SymbolTable, opts eval.Options) (string, error) {
	text := rewriteBooleanLiterals(strings.TrimSpace(exprText))

	if result, err := evaluateDirect(text, t, symbols, opts); err == nil {
		return result, nil
	} else if _, ok := err.(*direrr.BadExpression); !ok {
		return "", err
	}

	result, err := structuralParse(text, t, symbols, opts)
	if err != nil {
		if be, ok := err.(*direrr.BadExpression); ok {
			return "", be.WithPcd(fmt.Sprintf("type=%v value=%q", t, exprText))
		}
		return "", err
	}
	return result, nil
}

func isQuotedLiteral(text string) bool {
	return strings.HasPrefix(text, `"`) || strings.HasPrefix(text, `'`) ||
		strings.HasPrefix(text, `L"`) || strings.HasPrefix(text, `L'`)
}

func rewriteBooleanLiterals(text string) string {
	switch text {
	case "True", "TRUE", "true":
		return "1"
	case "False", "FALSE", "false":
		return "0"
	}
	return text
}

// evaluateDirect is the success path: the text parses cleanly as a normal
// expression, and the resulting value is checked against the declared
// type's shape.
//
// A VOID* value given directly as a quoted literal is handled before the
// expression engine ever sees it: the tokenizer packs any quoted literal to
// an Integer (spec.md §4.3), so by the time a generic Run() result comes
// back there is no way to tell "this was a string" from "this was 0x1234".
// __ValueExpressionEx checks for the same quote prefix up front (see
// ValueExpressionEx.__call__ in original_source), so this mirrors that.
func evaluateDirect(text string, t Type, symbols *symtab.SymbolTable, opts eval.Options) (string, error) {
	if t == VoidPtr && isQuotedLiteral(text) {
		n, size, perr := fieldvalue.ParseFieldValue(text)
		if perr != nil {
			return "", direrr.New(direrr.KindBadExpressionGeneric, "%v", perr)
		}
		return emitByteArray(fieldvalue.UnpackLE(n, size)), nil
	}

	expr, err := eval.New(text, symbols, opts, 0)
	if err != nil {
		return "", err
	}
	v, err := expr.Run(true, 0)
	if err != nil {
		if _, ok := err.(*direrr.WrnExpression); !ok {
			return "", err
		}
	}

	if t == VoidPtr {
		if v.Kind == value.ByteString || v.Kind == value.WideString {
			n, size, perr := fieldvalue.ParseFieldValue(v.Text)
			if perr != nil {
				return "", direrr.New(direrr.KindBadExpressionGeneric, "%v", perr)
			}
			return emitByteArray(fieldvalue.UnpackLE(n, size)), nil
		}
		if v.IsArray() {
			return v.Text, nil
		}
		return "", direrr.New(direrr.KindBadExpressionGeneric, "VOID* value is not a char, wide-char, or array literal")
	}

	switch v.Kind {
	case value.Integer:
		return packNumeric(v.Int, t)
	case value.Boolean:
		n := int64(0)
		if v.Bool {
			n = 1
		}
		return packNumeric(big.NewInt(n), t)
	default:
		return "", direrr.New(direrr.KindBadExpressionGeneric, "numeric PCD value is a string/array literal")
	}
}

func packNumeric(n *big.Int, t Type) (string, error) {
	if n.Sign() < 0 {
		return "", direrr.New(direrr.KindNegativePcd, "PCD value %s is negative", n.String())
	}
	width := t.ByteWidth()
	if width == 0 {
		width = fieldvalue.UnpackLEWidth(n)
	}
	if n.BitLen() > width*8 {
		return "", direrr.New(direrr.KindPcdWidthExceeded, "value %s exceeds declared width of %d bytes", n.String(), width)
	}
	return fmt.Sprintf("0x%0*x", width*2, n), nil
}

func emitByteArray(bytes []byte) string {
	if len(bytes) == 0 {
		return "{0x00}"
	}
	parts := make([]string, len(bytes))
	for i, b := range bytes {
		parts[i] = fmt.Sprintf("0x%02x", b)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// structuralParse implements the error-recovery path of spec.md §4.6's
// state machine: the raw text is treated as a brace list of typed items
// (numeric types) or a VOID* literal form, never as a generic expression.
func structuralParse(text string, t Type, symbols *symtab.SymbolTable, opts eval.Options) (string, error) {
	if t == VoidPtr {
		return structuralVoidPtr(text, symbols, opts)
	}
	return structuralNumeric(text, t, symbols, opts)
}

func structuralNumeric(text string, t Type, symbols *symtab.SymbolTable, opts eval.Options) (string, error) {
	inner := text
	if strings.HasPrefix(inner, "{") && strings.HasSuffix(inner, "}") {
		inner = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(inner, "{"), "}"))
	}
	items, err := splitItems(inner)
	if err != nil {
		return "", err
	}

	width := t.ByteWidth()
	result := new(big.Int)
	runningSize := 0

	for _, item := range items {
		itemVal, itemSize, err := evalItem(item, symbols, opts)
		if err != nil {
			return "", err
		}
		if itemVal.Sign() < 0 {
			return "", direrr.New(direrr.KindNegativePcd, "PCD item %q is negative", item)
		}
		runningSize += itemSize
		if runningSize > width {
			return "", direrr.New(direrr.KindPcdWidthExceeded, "packed items exceed declared width of %d bytes", width)
		}
		shifted := new(big.Int).Lsh(itemVal, uint((runningSize-itemSize)*8))
		result.Or(result, shifted)
	}

	return fmt.Sprintf("0x%0*x", width*2, result), nil
}

// evalItem evaluates one comma-list element of a structural numeric
// literal, returning its value and the byte width it occupies: an explicit
// UINTn(...) prefix fixes the width; otherwise ParseFieldValue's derived
// size is used.
func evalItem(item string, symbols *symtab.SymbolTable, opts eval.Options) (*big.Int, int, error) {
	item = strings.TrimSpace(item)
	if m := widthPrefix.FindStringSubmatch(item); m != nil {
		size := widthBytes(m[1])
		inner := strings.TrimSpace(m[2])
		n, err := evalToInt(inner, symbols, opts)
		if err != nil {
			return nil, 0, err
		}
		return maskTo(n, size), size, nil
	}

	if n, size, err := fieldvalue.ParseFieldValue(item); err == nil {
		return n, size, nil
	}

	n, err := evalToInt(item, symbols, opts)
	if err != nil {
		return nil, 0, err
	}
	return n, fieldvalue.UnpackLEWidth(n), nil
}

func evalToInt(text string, symbols *symtab.SymbolTable, opts eval.Options) (*big.Int, error) {
	expr, err := eval.New(text, symbols, opts, 0)
	if err != nil {
		return nil, err
	}
	v, err := expr.Run(true, 0)
	if err != nil {
		if _, ok := err.(*direrr.WrnExpression); !ok {
			return nil, err
		}
	}
	switch v.Kind {
	case value.Integer:
		return v.Int, nil
	case value.Boolean:
		if v.Bool {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	}
	return nil, direrr.New(direrr.KindBadExpressionGeneric, "structural PCD item %q is not numeric", text)
}

func widthBytes(digits string) int {
	switch digits {
	case "8":
		return 1
	case "16":
		return 2
	case "32":
		return 4
	case "64":
		return 8
	}
	return 0
}

func maskTo(n *big.Int, size int) *big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), uint(size*8))
	mask.Sub(mask, big.NewInt(1))
	return new(big.Int).And(n, mask)
}

// structuralVoidPtr implements the VOID* branch: a bare integer emits its
// little-endian bytes; a brace literal is either GUID(name), DEVICE_PATH(...),
// or a LABEL/OFFSET_OF-resolved comma list of items.
func structuralVoidPtr(text string, symbols *symtab.SymbolTable, opts eval.Options) (string, error) {
	if !strings.HasPrefix(text, "{") {
		n, ok := new(big.Int).SetString(text, 0)
		if !ok {
			return "", direrr.New(direrr.KindBadExpressionGeneric, "VOID* value %q is not an integer or brace literal", text)
		}
		if n.Sign() == 0 {
			return "{0x00}", nil
		}
		return emitByteArray(fieldvalue.UnpackLE(n, fieldvalue.UnpackLEWidth(n))), nil
	}

	inner := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "{"), "}"))

	if m := guidCallRe.FindStringSubmatch(inner); m != nil {
		name := strings.TrimSpace(m[1])
		guidText, ok := symbols.Lookup(name)
		if !ok {
			return "", direrr.New(direrr.KindBadExpressionGeneric, "GUID(%s) is not defined", name)
		}
		n, size, err := fieldvalue.ParseFieldValue("GUID(" + guidText + ")")
		if err != nil {
			return "", direrr.New(direrr.KindBadExpressionGeneric, "%v", err)
		}
		return emitByteArray(fieldvalue.UnpackLE(n, size)), nil
	}

	if devicePathRe.MatchString(inner) {
		n, size, err := fieldvalue.ParseFieldValue(inner)
		if err != nil {
			return "", direrr.New(direrr.KindBadExpressionGeneric, "%v", err)
		}
		return emitByteArray(fieldvalue.UnpackLE(n, size)), nil
	}

	items, err := splitItems(inner)
	if err != nil {
		return "", err
	}
	resolved, err := resolveLabels(items)
	if err != nil {
		return "", err
	}

	var out []byte
	for _, item := range resolved {
		n, size, err := evalItem(item, symbols, opts)
		if err != nil {
			return "", err
		}
		out = append(out, fieldvalue.UnpackLE(n, size)...)
	}
	return emitByteArray(out), nil
}

// resolveLabels implements the two-pass LABEL/OFFSET_OF substitution: the
// first pass records each LABEL(name)'s item index, the second rewrites
// every OFFSET_OF(name) to that recorded index.
func resolveLabels(items []string) ([]string, error) {
	labels := make(map[string]int)
	cleaned := make([]string, len(items))
	for i, item := range items {
		item = strings.TrimSpace(item)
		if m := labelRe.FindStringSubmatch(item); m != nil {
			labels[strings.TrimSpace(m[1])] = i
			item = strings.TrimSpace(labelRe.ReplaceAllString(item, ""))
		}
		cleaned[i] = item
	}

	for i, item := range cleaned {
		if m := offsetOfRe.FindStringSubmatch(item); m != nil {
			name := strings.TrimSpace(m[1])
			idx, ok := labels[name]
			if !ok {
				return nil, direrr.New(direrr.KindUndefinedOffset, "OFFSET_OF(%s) refers to an undefined label", name)
			}
			cleaned[i] = offsetOfRe.ReplaceAllString(item, fmt.Sprintf("%d", idx))
		}
	}
	return cleaned, nil
}

// splitItems splits a comma-separated structural list while respecting
// parenthesis nesting, so e.g. "UINT16(1 + 2), UINT8(3)" splits into two
// items rather than four.
func splitItems(text string) ([]string, error) {
	var items []string
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, direrr.New(direrr.KindMatchParen, "unmatched ')' in structural PCD literal")
			}
		case ',':
			if depth == 0 {
				items = append(items, strings.TrimSpace(text[start:i]))
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, direrr.New(direrr.KindMatchParen, "unmatched '(' in structural PCD literal")
	}
	last := strings.TrimSpace(text[start:])
	if last != "" {
		items = append(items, last)
	}
	return items, nil
}
