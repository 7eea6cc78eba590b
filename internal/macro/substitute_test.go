package macro

import "testing"

// DefaultInExceptions is the IN-exception list eval.NewOptions uses by
// default; package eval imports this package, so the tests cannot import it.
var DefaultInExceptions = map[string]bool{
	"TARGET":         true,
	"TOOL_CHAIN_TAG": true,
	"ARCH":           true,
	"FAMILY":         true,
}

func TestSubstituteUnquotedMacro(t *testing.T) {
	out, err := Substitute("$(DEBUG) == 1", map[string]string{"DEBUG": "1"}, DefaultInExceptions, nil)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if out != "1 == 1" {
		t.Fatalf("got %q", out)
	}
}

func TestSubstituteExpandsNestedMacroInValue(t *testing.T) {
	// A macro whose own value contains another "$(NAME)" reference is
	// rescanned and expanded too, not emitted as literal text.
	macros := map[string]string{"OUTER": "$(INNER) + 1", "INNER": "2"}
	out, err := Substitute("$(OUTER)", macros, DefaultInExceptions, nil)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if out != "2 + 1" {
		t.Fatalf("got %q", out)
	}
}

func TestSubstituteUndefinedMacroBecomesZero(t *testing.T) {
	out, err := Substitute("$(UNDEFINED) == 0", nil, DefaultInExceptions, nil)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if out != "0 == 0" {
		t.Fatalf("got %q", out)
	}
}

func TestSubstituteEmptyMacroBecomesEmptyQuotedString(t *testing.T) {
	out, err := Substitute("$(X)", map[string]string{"X": "  "}, DefaultInExceptions, nil)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if out != `""` {
		t.Fatalf("got %q", out)
	}
}

func TestSubstituteInExceptionQuoted(t *testing.T) {
	out, err := Substitute(`"IA32" IN $(ARCH)`, map[string]string{"ARCH": "IA32 X64"}, DefaultInExceptions, nil)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if out != `"IA32" IN "IA32 X64"` {
		t.Fatalf("got %q", out)
	}
}

func TestSubstituteNonExceptionAfterInFails(t *testing.T) {
	_, err := Substitute("$(DEBUG) IN $(NOTANEXCEPTION)", map[string]string{
		"DEBUG":           "1",
		"NOTANEXCEPTION": "1",
	}, DefaultInExceptions, nil)
	if err == nil {
		t.Fatal("expected InOperand error for a non-exception macro after IN")
	}
}

func TestSubstituteRecordsConditionalPCD(t *testing.T) {
	ctx := NewContext([]string{"gPlatformTokenSpace.PcdFoo"})
	_, err := Substitute("gPlatformTokenSpace.PcdFoo == 1",
		map[string]string{"gPlatformTokenSpace.PcdFoo": "1"}, DefaultInExceptions, ctx)
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	got := ctx.ConditionalPCDs()
	if len(got) != 1 || got[0] != "gPlatformTokenSpace.PcdFoo" {
		t.Fatalf("expected conditional PCD recorded, got %v", got)
	}
}

func TestSubstituteConditionalPCDIdempotent(t *testing.T) {
	ctx := NewContext([]string{"gA.PcdX"})
	macros := map[string]string{"gA.PcdX": "1"}
	if _, err := Substitute("gA.PcdX == 1", macros, DefaultInExceptions, ctx); err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if _, err := Substitute("gA.PcdX == 1", macros, DefaultInExceptions, ctx); err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if got := ctx.ConditionalPCDs(); len(got) != 1 {
		t.Fatalf("expected a single recorded PCD, got %v", got)
	}
}

func TestSubstituteUnterminatedMacroToken(t *testing.T) {
	_, err := Substitute("$(DEBUG", nil, DefaultInExceptions, nil)
	if err == nil {
		t.Fatal("expected error for unterminated macro token")
	}
}
