package eval

import (
	"testing"

	"github.com/edk2tools/pcdexpr/internal/direrr"
	"github.com/edk2tools/pcdexpr/internal/value"
	"github.com/edk2tools/pcdexpr/pkg/symtab"
)

// run evaluates text with the given macro/PCD map and no platform-PCD
// tracking, returning the shaped result and any error (including a latched
// *direrr.WrnExpression, which callers may type-assert on).
func run(t *testing.T, text string, values map[string]string, realValue bool, opts ...Option) (value.Value, error) {
	t.Helper()
	table := symtab.New(values, nil)
	o := NewOptions(opts...)
	e, err := New(text, table, o, 0)
	if err != nil {
		return value.Value{}, err
	}
	return e.Run(realValue, 0)
}

func mustBadKind(t *testing.T, err error, kind direrr.Kind) {
	t.Helper()
	be, ok := err.(*direrr.BadExpression)
	if !ok {
		t.Fatalf("expected *direrr.BadExpression, got %T (%v)", err, err)
	}
	if be.Kind != kind {
		t.Fatalf("expected kind %s, got %s (%v)", kind, be.Kind, be)
	}
}
