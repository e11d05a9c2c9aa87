package ast

import (
	"testing"

	"github.com/shkschneider/czar/internal/ctype"
)

func TestExprBaseTracksInferredType(t *testing.T) {
	id := &Ident{exprBase: exprBase{LineNo: 5}, Name: "x"}
	if id.Line() != 5 {
		t.Fatalf("expected line 5, got %d", id.Line())
	}
	if id.Type() != nil {
		t.Fatalf("expected untyped Ident before checking")
	}
	id.SetType(&ctype.Named{Name: ctype.I32})
	got, ok := id.Type().(*ctype.Named)
	if !ok || got.Name != ctype.I32 {
		t.Fatalf("SetType did not stick: %#v", id.Type())
	}
}

func TestFunctionIsConstructor(t *testing.T) {
	f := &Function{Receiver: "Buffer", Name: "init"}
	if !f.IsConstructor() {
		t.Errorf("Buffer.init should be a constructor")
	}
	g := &Function{Receiver: "Buffer", Name: "push"}
	if g.IsConstructor() {
		t.Errorf("Buffer.push should not be a constructor")
	}
	h := &Function{Receiver: "", Name: "init"}
	if h.IsConstructor() {
		t.Errorf("a free function named init is not a constructor")
	}
}

func TestItemSumTypeMembership(t *testing.T) {
	items := []Item{
		&Struct{Name: "Point"},
		&Interface{Name: "Shape"},
		&Enum{Name: "Color"},
		&Function{Name: "main"},
		&TypeAlias{Name: "ID"},
		&AllocatorMacro{Name: "debug"},
		&RunItem{Commands: "echo hi"},
		&InitBlock{Body: &Block{}},
	}
	for _, it := range items {
		_ = it.Line() // every Item must satisfy the interface without panicking
	}
	if len(items) != 8 {
		t.Fatalf("expected 8 item kinds exercised")
	}
}

func TestStmtSumTypeMembership(t *testing.T) {
	stmts := []Stmt{
		&VarDecl{Name: "x"},
		&Assign{},
		&CompoundAssign{Op: "+"},
		&If{},
		&While{},
		&ForIn{ItemVar: "e"},
		&RepeatN{},
		&Break{},
		&Continue{},
		&Return{},
		&Free{},
		&Discard{},
		&ExprStmt{},
		&UnsafeBlock{RawC: "return;"},
		&MacroStmt{Kind: MacroAssert},
		&RunStmt{Commands: "ls"},
	}
	for _, s := range stmts {
		_ = s.Line()
	}
	if len(stmts) != 16 {
		t.Fatalf("expected 16 stmt kinds exercised")
	}
}

func TestExprSumTypeMembership(t *testing.T) {
	exprs := []Expr{
		&IntLit{Value: "1"},
		&FloatLit{Value: "1.0"},
		&StringLit{Value: "s"},
		&BoolLit{Value: true},
		&NullLit{},
		&CharLit{Value: 'a'},
		&Ident{Name: "x"},
		&FieldExpr{Name: "f"},
		&IndexExpr{},
		&SliceExpr{},
		&UnaryExpr{Op: "-"},
		&BinaryExpr{Op: "+"},
		&CallExpr{},
		&StaticMethodCall{TypeName: "Buffer", Method: "new"},
		&StructLit{TypeName: "Point"},
		&ArrayLit{},
		&MapLit{},
		&PairLit{},
		&NewHeap{TypeName: "Point"},
		&NewArray{},
		&NewMap{},
		&CastExpr{},
		&SafeCastExpr{},
		&CloneExpr{},
		&NullCheckExpr{},
		&IsCheckExpr{},
		&TypeOfExpr{},
		&SizeOfExpr{},
		&DirectiveExpr{Name: "FILE"},
		&ImplicitCastExpr{},
		&MutArgExpr{},
	}
	for _, e := range exprs {
		_ = e.Line()
		_ = e.Type()
	}
	if len(exprs) != 31 {
		t.Fatalf("expected 31 expr kinds exercised, got %d", len(exprs))
	}
}
