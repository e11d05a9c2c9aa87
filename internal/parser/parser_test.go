package parser

import (
	"testing"

	"github.com/shkschneider/czar/internal/ast"
)

func TestParseModuleHeaderAndImports(t *testing.T) {
	src := "#module geometry\nimport cz.fmt\nimport cz.os\n\nfn main() i32 { return 0 }\n"
	mod, errs := New("geometry.cz", src, WithoutRun()).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if mod.Name != "geometry" {
		t.Errorf("expected module name geometry, got %q", mod.Name)
	}
	if len(mod.Imports) != 2 || mod.Imports[0].Path != "cz.fmt" || mod.Imports[1].Path != "cz.os" {
		t.Fatalf("unexpected imports: %+v", mod.Imports)
	}
	if len(mod.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(mod.Items))
	}
}

func TestParseStructWithImplements(t *testing.T) {
	src := "struct Point implements Shape {\n    x i32\n    y i32\n}\n"
	mod, errs := New("p.cz", src, WithoutRun()).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	s, ok := mod.Items[0].(*ast.Struct)
	if !ok {
		t.Fatalf("expected *ast.Struct, got %T", mod.Items[0])
	}
	if s.Name != "Point" || s.Implements != "Shape" || len(s.Fields) != 2 {
		t.Fatalf("unexpected struct: %+v", s)
	}
}

func TestParseFunctionWithIfElseIfElseReturn(t *testing.T) {
	src := `fn clamp(x i32, lo i32, hi i32) i32 {
    if x < lo {
        return lo
    } elseif x > hi {
        return hi
    } else {
        return x
    }
}
`
	mod, errs := New("c.cz", src, WithoutRun()).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn, ok := mod.Items[0].(*ast.Function)
	if !ok {
		t.Fatalf("expected *ast.Function, got %T", mod.Items[0])
	}
	if fn.Name != "clamp" || len(fn.Params) != 3 {
		t.Fatalf("unexpected function: %+v", fn)
	}
	ifStmt, ok := fn.Body.Stmts[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", fn.Body.Stmts[0])
	}
	if len(ifStmt.ElseIfs) != 1 || ifStmt.Else == nil {
		t.Fatalf("expected one elseif and an else, got %+v", ifStmt)
	}
}

func TestParseForInAndRepeat(t *testing.T) {
	src := `fn sumAll(xs i32[]) i32 {
    total := 0
    for i, x in xs {
        total += x
    }
    repeat 3 {
        total += 1
    }
    return total
}
`
	mod, errs := New("f.cz", src, WithoutRun()).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := mod.Items[0].(*ast.Function)
	forIn, ok := fn.Body.Stmts[1].(*ast.ForIn)
	if !ok {
		t.Fatalf("expected *ast.ForIn, got %T", fn.Body.Stmts[1])
	}
	if forIn.IndexVar != "i" || forIn.ItemVar != "x" {
		t.Fatalf("unexpected for-in binding: %+v", forIn)
	}
	if _, ok := fn.Body.Stmts[2].(*ast.RepeatN); !ok {
		t.Fatalf("expected *ast.RepeatN, got %T", fn.Body.Stmts[2])
	}
}

func TestParseNewHeapAndFree(t *testing.T) {
	src := `fn makePoint() Point* {
    p := new Point{ x: 1, y: 2 }
    free p
    return p
}
`
	mod, errs := New("n.cz", src, WithoutRun()).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := mod.Items[0].(*ast.Function)
	decl := fn.Body.Stmts[0].(*ast.VarDecl)
	if _, ok := decl.Init.(*ast.NewHeap); !ok {
		t.Fatalf("expected *ast.NewHeap init, got %T", decl.Init)
	}
	if _, ok := fn.Body.Stmts[1].(*ast.Free); !ok {
		t.Fatalf("expected *ast.Free, got %T", fn.Body.Stmts[1])
	}
}

func TestParseUnsafeFunctionSplicesRawC(t *testing.T) {
	src := "fn raw() i32 #unsafe {\n    return 42;\n}\n"
	mod, errs := New("u.cz", src, WithoutRun()).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := mod.Items[0].(*ast.Function)
	if !fn.Unsafe || fn.Body != nil || fn.RawC == "" {
		t.Fatalf("expected unsafe function with raw C body, got %+v", fn)
	}
}

func TestParseRunItemDisabledDuringTest(t *testing.T) {
	src := "#run {\n    echo hello\n}\nfn main() i32 { return 0 }\n"
	mod, errs := New("r.cz", src, WithoutRun()).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	run, ok := mod.Items[0].(*ast.RunItem)
	if !ok {
		t.Fatalf("expected *ast.RunItem, got %T", mod.Items[0])
	}
	if run.ExitCode != 0 {
		t.Fatalf("expected a disabled #run to report exit code 0, got %d", run.ExitCode)
	}
}

func TestParseBinaryPrecedence(t *testing.T) {
	src := "fn f() i32 {\n    return 1 + 2 * 3\n}\n"
	mod, errs := New("b.cz", src, WithoutRun()).Parse()
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	fn := mod.Items[0].(*ast.Function)
	ret := fn.Body.Stmts[0].(*ast.Return)
	bin, ok := ret.Value.(*ast.BinaryExpr)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected top-level '+', got %+v", ret.Value)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpr)
	if !ok || rhs.Op != "*" {
		t.Fatalf("expected '*' to bind tighter, got %+v", bin.Right)
	}
}
