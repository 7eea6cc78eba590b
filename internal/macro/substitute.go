package macro

import (
	"strings"

	"github.com/edk2tools/pcdexpr/internal/direrr"
)

// Substitute replaces every `$(NAME)` occurrence in expr according to
// spec.md §4.2. macros maps macro name -> textual value; inExceptions is
// the IN-exception list (eval.NewOptions supplies {TARGET, TOOL_CHAIN_TAG,
// ARCH, FAMILY} by default; a nil map allows no macro after IN);
// ctx (may be nil) accumulates the conditional-PCD side effect.
func Substitute(expr string, macros map[string]string, inExceptions map[string]bool, ctx *Context) (string, error) {
	spans, err := SplitString(expr)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	for _, span := range spans {
		replaced, err := substituteSpan(span, macros, inExceptions, ctx)
		if err != nil {
			return "", err
		}
		out.WriteString(replaced)
	}
	return out.String(), nil
}

func substituteSpan(span Span, macros map[string]string, inExceptions map[string]bool, ctx *Context) (string, error) {
	inQuote := strings.HasPrefix(span.Text, `"`)
	text := span.Text

	if !strings.Contains(text, "$(") {
		if !inQuote && ctx != nil {
			for name := range ctx.PlatformPCDs {
				if strings.Contains(text, name) {
					ctx.recordConditional(name)
				}
			}
		}
		return text, nil
	}

	var result strings.Builder
	rest := text
	for {
		start := strings.Index(rest, "$(")
		if start < 0 {
			result.WriteString(rest)
			break
		}
		result.WriteString(rest[:start])
		end := strings.Index(rest[start:], ")")
		if end < 0 {
			return "", direrr.New(direrr.KindBadMacroToken, "unterminated macro token: %q", rest[start:])
		}
		end += start
		name := rest[start+2 : end]

		var replacement string
		val, defined := macros[name]
		switch {
		case !defined:
			// C-preprocessor rule: an undefined macro name in a constant
			// expression of !if/!elif is replaced by the integer 0.
			replacement = "0"
		case inQuote:
			replacement = val
		default:
			precedingTokens := strings.Fields(result.String())
			precededByIn := len(precedingTokens) > 0 &&
				(precedingTokens[len(precedingTokens)-1] == "IN" || precedingTokens[len(precedingTokens)-1] == "in")
			if precededByIn && !inExceptions[name] {
				return "", direrr.New(direrr.KindInOperand,
					"macro after IN operator can only be one of the IN-exception list: %q", name)
			}
			switch {
			case inExceptions[name]:
				replacement = `"` + val + `"`
			case strings.TrimSpace(val) != "":
				replacement = val
			default:
				replacement = `""`
			}
		}
		// Splice the replacement back into rest rather than past it, so a
		// macro value that itself contains "$(OTHER)" gets rescanned on the
		// next iteration instead of emitted verbatim.
		rest = replacement + rest[end+1:]
	}

	return result.String(), nil
}
