package diagnostic

import (
	"strings"
	"testing"
)

func TestFormatMatchesWireFormat(t *testing.T) {
	l := NewList("main.cz", "fn main() i32 {\n    x = 3\n    x = 4\n}\n")
	l.Errorf(3, MutabilityViolation, "cannot assign to immutable binding %q", "x")

	if !l.HasErrors() {
		t.Fatalf("expected HasErrors() to be true")
	}

	out := l.Format()
	if !strings.HasPrefix(out, "error main.cz:3: [MutabilityViolation] cannot assign to immutable binding \"x\"") {
		t.Errorf("unexpected format: %q", out)
	}
	if !strings.Contains(out, `"    x = 4"`) {
		t.Errorf("expected snippet in output, got %q", out)
	}
}

func TestWarningsDoNotSetHasErrors(t *testing.T) {
	l := NewList("a.cz", "import cz.fmt\nfn main() i32 { return 0 }\n")
	l.Warnf(1, UnusedImport, "import %q is never used", "cz.fmt")

	if l.HasErrors() {
		t.Fatalf("warnings must not set HasErrors()")
	}
	if len(l.Warnings()) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(l.Warnings()))
	}
	if len(l.Errors()) != 0 {
		t.Fatalf("expected 0 errors, got %d", len(l.Errors()))
	}
}

func TestMerge(t *testing.T) {
	a := NewList("a.cz", "")
	b := NewList("b.cz", "")
	b.Errorf(1, Parse, "boom")

	a.Merge(b)
	if !a.HasErrors() {
		t.Fatalf("expected merged errors to propagate HasErrors")
	}
	if len(a.Items()) != 1 {
		t.Fatalf("expected 1 merged item, got %d", len(a.Items()))
	}
}
