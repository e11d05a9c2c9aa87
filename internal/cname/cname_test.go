package cname

import (
	"testing"

	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/ctype"
)

func TestMainGetsReservedName(t *testing.T) {
	fn := &ast.Function{Name: "main"}
	mod := &ast.Module{Items: []ast.Item{fn}}
	New().Run(mod)
	if fn.CName != "main_main" {
		t.Errorf("expected main_main, got %q", fn.CName)
	}
}

func TestMethodGetsReceiverPrefix(t *testing.T) {
	fn := &ast.Function{Name: "push", Receiver: "Stack"}
	mod := &ast.Module{Items: []ast.Item{fn}}
	New().Run(mod)
	if fn.CName != "Stack_push" {
		t.Errorf("expected Stack_push, got %q", fn.CName)
	}
}

func TestOverloadsGetDistinctSuffixes(t *testing.T) {
	a := &ast.Function{Name: "add", IsOverloaded: true, Params: []ast.Param{{Type: &ctype.Named{Name: "i32"}}}}
	b := &ast.Function{Name: "add", IsOverloaded: true, Params: []ast.Param{{Type: &ctype.Named{Name: "f32"}}}}
	mod := &ast.Module{Items: []ast.Item{a, b}}
	New().Run(mod)
	if a.CName == b.CName {
		t.Fatalf("expected distinct names, both got %q", a.CName)
	}
	if a.CName != "add_i32" || b.CName != "add_f32" {
		t.Errorf("unexpected names: %q, %q", a.CName, b.CName)
	}
}

func TestGenericInstanceGetsConcreteTypeSuffix(t *testing.T) {
	fn := &ast.Function{Name: "identity", IsGenericInstance: true, GenericConcreteType: "i32"}
	mod := &ast.Module{Items: []ast.Item{fn}}
	New().Run(mod)
	if fn.CName != "identity__i32" {
		t.Errorf("expected identity__i32, got %q", fn.CName)
	}
}
