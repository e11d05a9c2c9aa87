package collect

import (
	"testing"

	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/diagnostic"
	"github.com/shkschneider/czar/internal/parser"
)

func parseOK(t *testing.T, src string) (*diagnostic.List, *Collector) {
	t.Helper()
	mod, errs := parser.New("t.cz", src, parser.WithoutRun()).Parse()
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	diags := diagnostic.NewList("t.cz", src)
	c := New(mod, diags)
	return diags, c
}

func TestDuplicateStructNameIsRejected(t *testing.T) {
	src := "struct Point { x i32 }\nstruct Point { y i32 }\n"
	diags, c := parseOK(t, src)
	c.Run()
	if !diags.HasErrors() {
		t.Fatalf("expected a duplicate-declaration error")
	}
}

func TestOverloadedFunctionsAreStamped(t *testing.T) {
	src := "fn add(a i32, b i32) i32 { return a + b }\nfn add(a f32, b f32) f32 { return a + b }\n"
	diags, c := parseOK(t, src)
	c.Run()
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Format())
	}
	set := c.OverloadSet("", "add")
	if len(set) != 2 {
		t.Fatalf("expected 2 overloads, got %d", len(set))
	}
	for _, fn := range set {
		if !fn.IsOverloaded {
			t.Errorf("expected %s(%s) to be flagged overloaded", fn.Name, fn.Signature)
		}
	}
}

func TestDuplicateSignatureIsRejected(t *testing.T) {
	src := "fn add(a i32, b i32) i32 { return a + b }\nfn add(a i32, b i32) i32 { return a - b }\n"
	diags, c := parseOK(t, src)
	c.Run()
	if !diags.HasErrors() {
		t.Fatalf("expected a duplicate-signature error")
	}
}

func TestConsistentVarianceOverloadIsAccepted(t *testing.T) {
	src := "fn add(a u8, b u8) u8 { return a + b }\nfn add(a f32, b f32) f32 { return a + b }\n"
	diags, c := parseOK(t, src)
	c.Run()
	if diags.HasErrors() {
		t.Fatalf("unexpected errors for a single-type-variance overload: %s", diags.Format())
	}
}

func TestInconsistentVarianceOverloadIsRejected(t *testing.T) {
	src := "fn add(a u8, b f32) u8 { return a }\nfn add(a u32, b f64) u8 { return a }\n"
	diags, c := parseOK(t, src)
	c.Run()
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diagnostic.AmbiguousOrUnmatchedOverload {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an AmbiguousOrUnmatchedOverload for inconsistent variance, got: %s", diags.Format())
	}
}

func TestNonGenericFunctionPassesThroughUnchanged(t *testing.T) {
	src := "fn identity(x i32) i32 { return x }\n"
	_, c := parseOK(t, src)
	c.module.Items = c.expandGenerics(c.module.Items)
	if len(c.module.Items) != 1 {
		t.Fatalf("expected ungeneric function to pass through unchanged, got %d items", len(c.module.Items))
	}
}

func TestGenericFunctionExpandsToOneInstancePerType(t *testing.T) {
	src := "fn identity(x i32) i32 { return x }\n"
	_, c := parseOK(t, src)
	fn := c.module.Items[0].(*ast.Function)
	fn.Generics = []string{"i32", "f32"}

	c.module.Items = c.expandGenerics(c.module.Items)
	if len(c.module.Items) != 2 {
		t.Fatalf("expected 2 instances, got %d", len(c.module.Items))
	}
	for _, item := range c.module.Items {
		inst := item.(*ast.Function)
		if !inst.IsGenericInstance {
			t.Errorf("expected %s to be flagged as a generic instance", inst.GenericConcreteType)
		}
	}
}
