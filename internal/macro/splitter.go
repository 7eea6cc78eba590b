// Package macro implements the string splitter and macro substitutor of
// spec.md §4.1-§4.2: partitioning a raw expression into quoted/unquoted
// spans, then replacing `$(NAME)` occurrences per the rules each span kind
// requires.
package macro

import (
	"strings"

	"github.com/edk2tools/pcdexpr/internal/direrr"
)

// Span is one fragment of an expression as produced by SplitString: either
// an unquoted run of text, or a quoted literal with its surrounding quotes
// still attached.
type Span struct {
	Text   string
	Quoted bool
}

// SplitString partitions expr into alternating quoted/unquoted spans,
// mirroring the original SplitString: a `\\` or `\"` inside a quoted span
// does not toggle quote state, and the double quotes are preserved in the
// returned quoted span's Text. Fails with KindBadStringToken if EOF is
// reached with an open quote.
func SplitString(expr string) ([]Span, error) {
	// Normalize escapes exactly like the original: `\\` -> `//` (so a
	// following `\"` is unambiguous), then `\"` -> `\'` so it no longer
	// looks like a quote boundary. We track both the normalized scan
	// string (for quote-toggle decisions) and the original string (for
	// the text we actually keep), index for index.
	// Both substitutions are length-preserving so scan[i] lines up with
	// expr[i] below.
	scan := strings.ReplaceAll(expr, `\\`, `//`)
	scan = strings.ReplaceAll(scan, `\"`, `\'`)

	var spans []Span
	var cur strings.Builder
	inQuote := false
	flush := func(quoted bool) {
		if cur.Len() == 0 {
			return
		}
		spans = append(spans, Span{Text: cur.String(), Quoted: quoted})
		cur.Reset()
	}

	for i := 0; i < len(expr); i++ {
		ch := scan[i]
		if ch == '"' {
			inQuote = !inQuote
			if !inQuote {
				cur.WriteByte(expr[i])
				flush(true)
				continue
			}
			flush(false)
		}
		cur.WriteByte(expr[i])
	}
	if inQuote {
		return nil, direrr.New(direrr.KindBadStringToken, "unterminated string token: %q", cur.String())
	}
	flush(false)
	return spans, nil
}
