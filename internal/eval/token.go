package eval

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/edk2tools/pcdexpr/internal/direrr"
	"github.com/edk2tools/pcdexpr/internal/fieldvalue"
	"github.com/edk2tools/pcdexpr/internal/lexer"
	"github.com/edk2tools/pcdexpr/internal/value"
)

var pcdPattern = regexp.MustCompile(`^[_a-zA-Z][0-9A-Za-z_]*\.[_a-zA-Z][0-9A-Za-z_]*$`)
var hexPattern = regexp.MustCompile(`^0[xX][0-9a-fA-F]+$`)
var uintCallPattern = regexp.MustCompile(`^UINT(8|16|32|64)\(`)

// getPrimaryToken implements spec.md §4.3's Primary production: either the
// literal byte '(' (the caller then parses a parenthesized Cond) or a fully
// resolved Value.
func (e *Expression) getPrimaryToken() (isParen bool, parenCh byte, val value.Value, err error) {
	val, literalText, isParen, parenCh, err := e.getNList(false)
	if err != nil {
		return false, 0, value.Value{}, err
	}
	if isParen {
		return true, parenCh, value.Value{}, nil
	}
	e.literal = literalText
	e.token = val
	return false, 0, val, nil
}

// getNList implements __GetNList: it reads one token and, only when that
// token is a hex literal immediately followed by `,`, keeps consuming
// `,`-separated hex literals into a single combined raw token (spec.md
// §4.3's NList). inArray requires every element to be a hex literal.
func (e *Expression) getNList(inArray bool) (val value.Value, literal string, isParen bool, parenCh byte, err error) {
	val, literal, isParen, parenCh, err = e.getSingleToken()
	if err != nil {
		return value.Value{}, "", false, 0, err
	}
	if isParen {
		return value.Value{}, "", true, parenCh, nil
	}
	if !isHexLiteral(literal) {
		if inArray {
			return value.Value{}, "", false, 0, direrr.New(direrr.KindBadArrayElement, "not a HEX value for NList or array: %q", literal)
		}
		return val, literal, false, 0, nil
	}

	e.scanner.SkipWS()
	if !strings.HasPrefix(e.scanner.Rest(), ",") {
		return val, literal, false, 0, nil
	}

	nlist := literal
	for strings.HasPrefix(e.scanner.Rest(), ",") {
		nlist += ","
		e.scanner.SetPos(e.scanner.Pos() + 1)
		e.scanner.SkipWS()
		_, itemLiteral, itemParen, _, itemErr := e.getSingleToken()
		if itemErr != nil {
			return value.Value{}, "", false, 0, itemErr
		}
		if itemParen || !isHexLiteral(itemLiteral) {
			return value.Value{}, "", false, 0, direrr.New(direrr.KindBadArrayElement, "not a HEX value for NList or array: %q", itemLiteral)
		}
		nlist += itemLiteral
		e.scanner.SkipWS()
	}
	return value.Raw(nlist), nlist, false, 0, nil
}

func isHexLiteral(literal string) bool {
	if strings.HasPrefix(literal, "{") && strings.HasSuffix(literal, "}") {
		return true
	}
	return hexPattern.MatchString(literal)
}

// getSingleToken implements _GetSingleToken: it dispatches on the next
// character to a quoted literal, a UINTn(...) typed literal, a GUID
// literal, a brace-array, an identifier/PCD token, or '(' / ')'.
func (e *Expression) getSingleToken() (val value.Value, literal string, isParen bool, parenCh byte, err error) {
	e.scanner.SkipWS()
	rest := e.scanner.Rest()

	switch {
	case strings.HasPrefix(rest, `L"`):
		e.scanner.SetPos(e.scanner.Pos() + 1)
		return e.readQuotedFieldValue(true)
	case strings.HasPrefix(rest, `L'`):
		e.scanner.SetPos(e.scanner.Pos() + 1)
		return e.readQuotedFieldValue(true)
	case strings.HasPrefix(rest, `"`):
		return e.readQuotedFieldValue(false)
	case strings.HasPrefix(rest, `'`):
		return e.readQuotedFieldValue(false)
	case strings.HasPrefix(rest, "UINT") && uintCallPattern.MatchString(rest):
		return e.readTypedWidthLiteral(rest)
	}

	if rest == "" {
		return value.Value{}, "", false, 0, direrr.New(direrr.KindValidToken, "no valid token found in %q", rest)
	}

	ch := rest[0]
	if loc := fieldvalue.RegGuidPattern.FindStringIndex(rest); loc != nil && loc[0] == 0 {
		end := loc[1]
		nextCh := byte(0)
		if end < len(rest) {
			nextCh = rest[end]
		}
		if !isGuidContinuation(nextCh) {
			e.scanner.SetPos(e.scanner.Pos() + end)
			return e.readGuidLiteral(rest[:end])
		}
	}

	switch {
	case lexer.IsIDChar(ch):
		literal := e.scanner.ReadIDToken(e.ternaryLive)
		val, err := e.resolveIdentifier(literal)
		return val, literal, false, 0, err
	case ch == '{':
		return e.readArray()
	case ch == '(' || ch == ')':
		e.scanner.SetPos(e.scanner.Pos() + 1)
		return value.Value{}, "", true, ch, nil
	}

	return value.Value{}, "", false, 0, direrr.New(direrr.KindValidToken, "no valid token found in %q", rest)
}

func isGuidContinuation(ch byte) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func (e *Expression) readQuotedFieldValue(wide bool) (value.Value, string, bool, byte, error) {
	raw, err := e.scanner.ReadQuotedLiteral()
	if err != nil {
		return value.Value{}, "", false, 0, err
	}
	token := raw
	if wide {
		token = "L" + raw
	}
	n, _, perr := fieldvalue.ParseFieldValue(token)
	if perr != nil {
		return value.Value{}, "", false, 0, direrr.New(direrr.KindBadStringToken, "%v", perr)
	}
	return value.Int(n), fmt.Sprintf("0x%x", n), false, 0, nil
}

func (e *Expression) readTypedWidthLiteral(rest string) (value.Value, string, bool, byte, error) {
	openIdx := strings.IndexByte(rest, '(')
	prefix := rest[:openIdx]

	depth := 0
	i := openIdx
	closeIdx := -1
	for ; i < len(rest); i++ {
		switch rest[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				closeIdx = i
			}
		}
		if closeIdx >= 0 {
			break
		}
	}
	if closeIdx < 0 {
		return value.Value{}, "", false, 0, direrr.New(direrr.KindValidToken, "unterminated %s(...) literal", prefix)
	}
	inner := rest[openIdx+1 : closeIdx]
	e.scanner.SetPos(e.scanner.Pos() + closeIdx + 1)

	sub, err := New(inner, e.symbols, e.opts, e.depth)
	if err != nil {
		return value.Value{}, "", false, 0, err
	}
	innerVal, err := sub.Run(true, e.depth)
	if err != nil {
		if warn, ok := err.(*direrr.WrnExpression); ok {
			innerVal = warn.Result.(value.Value)
		} else {
			return value.Value{}, "", false, 0, err
		}
	}

	var rendered string
	switch innerVal.Kind {
	case value.Integer:
		rendered = fmt.Sprintf("0x%x", innerVal.Int)
	case value.Boolean:
		if innerVal.Bool {
			rendered = "1"
		} else {
			rendered = "0"
		}
	default:
		rendered = innerVal.Text
	}

	n, _, perr := fieldvalue.ParseFieldValue(prefix + "(" + rendered + ")")
	if perr != nil {
		return value.Value{}, "", false, 0, direrr.New(direrr.KindValidToken, "%v", perr)
	}
	return value.Int(n), fmt.Sprintf("0x%x", n), false, 0, nil
}

func (e *Expression) readGuidLiteral(guidText string) (value.Value, string, bool, byte, error) {
	structText, err := fieldvalue.GuidStringToGuidStructureString(guidText)
	if err != nil {
		return value.Value{}, "", false, 0, direrr.New(direrr.KindValidToken, "%v", err)
	}
	sub, err := New(structText, e.symbols, e.opts, e.depth+1)
	if err != nil {
		return value.Value{}, "", false, 0, err
	}
	v, err := sub.Run(true, e.depth+1)
	if err != nil {
		return value.Value{}, "", false, 0, err
	}
	return v, v.Text, false, 0, nil
}

// resolveIdentifier implements __ResolveToken for an already-scanned
// identifier/PCD/keyword literal.
func (e *Expression) resolveIdentifier(literal string) (value.Value, error) {
	if literal == "" {
		return value.Value{}, direrr.New(direrr.KindEmptyToken, "empty token is not allowed")
	}

	if pcdPattern.MatchString(literal) {
		raw, ok := e.symbols.Lookup(literal)
		if !ok {
			return value.Value{}, direrr.New(direrr.KindPcdResolve, "PCD token cannot be resolved: %q", literal).WithPcd(literal)
		}
		sub, err := New(raw, e.symbols, e.opts, e.depth+1)
		if err != nil {
			return value.Value{}, err
		}
		resolved, err := sub.Run(true, e.depth+1)
		if err != nil {
			return value.Value{}, err
		}
		if resolved.Kind == value.Integer || resolved.Kind == value.Boolean {
			return resolved, nil
		}
		// Text-shaped resolution: continue through the same narrowing
		// rules a freshly-scanned literal would (quote-stripping, keyword
		// booleans, number coercion), matching __ResolveToken's fallthrough.
		literal = resolved.Text
	}

	switch {
	case strings.HasPrefix(literal, `"`) && strings.HasSuffix(literal, `"`) && len(literal) >= 2:
		return value.Raw(literal[1 : len(literal)-1]), nil
	case literal == "FALSE" || literal == "false" || literal == "False":
		return value.Bool(false), nil
	case literal == "TRUE" || literal == "true" || literal == "True":
		return value.Bool(true), nil
	}

	if v, ok := tryParseNumber(literal); ok {
		return v, nil
	}
	if strings.HasPrefix(literal, "{") && strings.HasSuffix(literal, "}") {
		return value.Array(literal), nil
	}
	if strings.HasPrefix(literal, "L\"") || strings.HasPrefix(literal, "L'") {
		return value.Wide(literal), nil
	}
	return value.Raw(literal), nil
}

// tryParseNumber implements __IsNumberToken for a bare literal (decimal,
// 0x-hex, or a single quoted literal ParseFieldValue can size: exactly two
// unescaped quote characters).
func tryParseNumber(literal string) (value.Value, bool) {
	if strings.HasPrefix(literal, `"`) || strings.HasPrefix(literal, `L"`) ||
		strings.HasPrefix(literal, `'`) || strings.HasPrefix(literal, `L'`) {
		quote := byte('"')
		if strings.HasPrefix(literal, `'`) || strings.HasPrefix(literal, `L'`) {
			quote = '\''
		}
		quotes := 0
		for i := 0; i < len(literal); i++ {
			if literal[i] == quote && (i == 0 || literal[i-1] != '\\') {
				quotes++
			}
		}
		if quotes != 2 {
			return value.Value{}, false
		}
		n, _, err := fieldvalue.ParseFieldValue(literal)
		if err != nil {
			return value.Value{}, false
		}
		return value.Int(n), true
	}

	radix := 10
	digits := literal
	if len(digits) > 2 && digits[0] == '0' && (digits[1] == 'x' || digits[1] == 'X') {
		radix = 16
		digits = digits[2:]
	}
	n, ok := new(big.Int).SetString(digits, radix)
	if !ok {
		return value.Value{}, false
	}
	return value.Int(n), true
}
