package pcdexpr

import (
	"testing"

	"github.com/edk2tools/pcdexpr/internal/macro"
)

func TestEvaluateBooleanDirective(t *testing.T) {
	res, err := Evaluate("1 == 1", Symbols{}, false)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !res.IsBool || !res.Bool {
		t.Fatalf("expected true, got %+v", res)
	}
}

func TestEvaluateBooleanDirectiveFalse(t *testing.T) {
	res, err := Evaluate("1 == 2", Symbols{}, false)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !res.IsBool || res.Bool {
		t.Fatalf("expected false, got %+v", res)
	}
}

func TestEvaluateRealValueInteger(t *testing.T) {
	res, err := Evaluate("1 + 2", Symbols{}, true)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.IsBool || res.Text != "3" {
		t.Fatalf("expected text \"3\", got %+v", res)
	}
}

func TestEvaluateRealValuePreservesHexSpelling(t *testing.T) {
	// A real-value expression that is nothing but a single numeric token is
	// returned with its original spelling, not re-rendered in decimal.
	res, err := Evaluate("0x1234", Symbols{}, true)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.IsBool || res.Text != "0x1234" {
		t.Fatalf("expected text \"0x1234\", got %+v", res)
	}
}

func TestEvaluateWithPcdValues(t *testing.T) {
	res, err := Evaluate("gA.Pcd == 1", Symbols{Values: map[string]string{"gA.Pcd": "1"}}, false)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !res.IsBool || !res.Bool {
		t.Fatalf("expected true, got %+v", res)
	}
}

func TestEvaluateUndefinedPcdFails(t *testing.T) {
	_, err := Evaluate("gA.NoSuch == 1", Symbols{}, false)
	if err == nil {
		t.Fatal("expected an error resolving an undefined PCD")
	}
}

func TestEvaluateInMembershipWithExceptionMacro(t *testing.T) {
	res, err := Evaluate(`"IA32" IN $(ARCH)`, Symbols{Values: map[string]string{"ARCH": "IA32 X64"}}, false)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !res.IsBool || !res.Bool {
		t.Fatalf("expected true, got %+v", res)
	}
}

func TestEvaluateLatchedWarningSurfacesOnResult(t *testing.T) {
	res, err := Evaluate("TRUE + 1", Symbols{}, true)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Warning == "" {
		t.Fatal("expected a non-empty warning string")
	}
	if res.Text != "2" {
		t.Fatalf("expected text \"2\" despite the warning, got %+v", res)
	}
}

// EvaluateWithContext lets a caller share one macro.Context across many
// directive evaluations so the conditional-PCD set accumulates instead of
// resetting per call (spec.md §5).
func TestEvaluateWithContextAccumulatesConditionalPCDs(t *testing.T) {
	ctx := macro.NewContext([]string{"gA.CondPcd"})
	symbols := Symbols{Values: map[string]string{"gA.CondPcd": "1"}, PlatformPCDs: []string{"gA.CondPcd"}}

	if _, err := EvaluateWithContext("gA.CondPcd == 1", symbols, ctx, false); err != nil {
		t.Fatalf("EvaluateWithContext: %v", err)
	}
	if _, err := EvaluateWithContext("gA.CondPcd == 1", symbols, ctx, false); err != nil {
		t.Fatalf("EvaluateWithContext: %v", err)
	}

	got := ctx.ConditionalPCDs()
	if len(got) != 1 || got[0] != "gA.CondPcd" {
		t.Fatalf("expected a single recorded conditional PCD, got %v", got)
	}
}

func TestEvaluateTypedUint8(t *testing.T) {
	got, err := EvaluateTyped("1 + 2", "UINT8", Symbols{})
	if err != nil {
		t.Fatalf("EvaluateTyped: %v", err)
	}
	if got != "0x03" {
		t.Fatalf("expected 0x03, got %q", got)
	}
}

func TestEvaluateTypedVoidPtr(t *testing.T) {
	got, err := EvaluateTyped(`"AB"`, "VOID*", Symbols{})
	if err != nil {
		t.Fatalf("EvaluateTyped: %v", err)
	}
	if got != "{0x41, 0x42, 0x00}" {
		t.Fatalf("expected a NUL-terminated byte array, got %q", got)
	}
}

func TestEvaluateTypedUnknownTypeFails(t *testing.T) {
	_, err := EvaluateTyped("1", "NOT_A_TYPE", Symbols{})
	if err == nil {
		t.Fatal("expected an error for an unrecognized PCD type")
	}
}
