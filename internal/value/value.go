// Package value implements the tagged runtime value of the expression
// engine (spec.md §3): an arbitrary-precision Integer, a Boolean, text-like
// byte/wide strings, brace-array literals, and an opaque RawText passthrough
// form used when a PCD's resolved value is already in canonical shape.
package value

import (
	"math/big"
	"strings"
)

// Kind tags which variant a Value holds.
type Kind int

const (
	Integer Kind = iota
	Boolean
	ByteString
	WideString
	ByteArray
	RawText
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "Integer"
	case Boolean:
		return "Boolean"
	case ByteString:
		return "ByteString"
	case WideString:
		return "WideString"
	case ByteArray:
		return "ByteArray"
	case RawText:
		return "RawText"
	default:
		return "Unknown"
	}
}

// Value is the dynamically-typed operand the evaluator works with. Text
// holds the literal spelling for the text-like kinds, quotes/braces
// included: `"abc"`, `L"abc"`, `{0x01, 0x02}`. Keeping the marker in Text
// (rather than stripping it into a separate field) mirrors the way a
// resolved PCD value threads back through the evaluator unchanged — see
// Expression.Run in package eval.
type Value struct {
	Kind Kind
	Int  *big.Int
	Bool bool
	Text string
}

func Int(i *big.Int) Value       { return Value{Kind: Integer, Int: i} }
func IntFromInt64(i int64) Value { return Value{Kind: Integer, Int: big.NewInt(i)} }
func Bool(b bool) Value          { return Value{Kind: Boolean, Bool: b} }
func Str(text string) Value      { return Value{Kind: ByteString, Text: text} }
func Wide(text string) Value     { return Value{Kind: WideString, Text: text} }
func Array(text string) Value    { return Value{Kind: ByteArray, Text: text} }
func Raw(text string) Value      { return Value{Kind: RawText, Text: text} }

// IsText reports whether v is one of the text-like kinds (ByteString,
// WideString, ByteArray, RawText) as opposed to Integer/Boolean.
func (v Value) IsText() bool {
	return v.Kind == ByteString || v.Kind == WideString || v.Kind == ByteArray || v.Kind == RawText
}

// IsWide reports whether v is a wide (L"...") text value.
func (v Value) IsWide() bool {
	return v.Kind == WideString || (v.IsText() && strings.HasPrefix(v.Text, "L\""))
}

// IsArray reports whether v is a brace-array literal.
func (v Value) IsArray() bool {
	return v.Kind == ByteArray || (v.IsText() && strings.HasPrefix(v.Text, "{"))
}

// Falsey mirrors the original's Python truthiness test over the evaluated
// result at the top level: zero integers, false booleans, and empty/`L""`
// strings are falsey.
func (v Value) Falsey() bool {
	switch v.Kind {
	case Integer:
		return v.Int == nil || v.Int.Sign() == 0
	case Boolean:
		return !v.Bool
	default:
		return v.Text == "" || v.Text == `L""`
	}
}

// StrippedEmpty reports whether the value's textual content is empty after
// stripping its quote markers: `""`, `''`, `L""`, `L''`, or an empty Text.
// Brace markers are not stripped, so `{}` is not empty.
func (v Value) StrippedEmpty() bool {
	if !v.IsText() {
		return false
	}
	t := v.Text
	if len(t) >= 2 && (strings.HasPrefix(t, `"`) || strings.HasPrefix(t, `'`)) {
		return t == `""` || t == `''`
	}
	if strings.HasPrefix(t, `L"`) || strings.HasPrefix(t, `L'`) {
		return t == `L""` || t == `L''`
	}
	return t == ""
}
