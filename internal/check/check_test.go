package check

import (
	"testing"

	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/collect"
	"github.com/shkschneider/czar/internal/diagnostic"
	"github.com/shkschneider/czar/internal/parser"
)

func checkSource(t *testing.T, src string) *diagnostic.List {
	t.Helper()
	mod, errs := parser.New("t.cz", src, parser.WithoutRun()).Parse()
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	diags := diagnostic.NewList("t.cz", src)
	c := collect.New(mod, diags)
	c.Run()
	New(mod, diags, c, nil).Run()
	return diags
}

func TestWellTypedProgramHasNoErrors(t *testing.T) {
	src := `#module t
fn main() i32 {
    mut total i32 = 0
    total = total + 1
    return total
}
`
	diags := checkSource(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Format())
	}
}

func TestNonUppercaseEnumValueWarns(t *testing.T) {
	src := `#module t
enum Color {
    Red,
    GREEN
}
fn main() i32 {
    return 0
}
`
	diags := checkSource(t, src)
	found := false
	for _, d := range diags.Warnings() {
		if d.ID == diagnostic.EnumValueNotUppercase {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an EnumValueNotUppercase warning, got: %s", diags.Format())
	}
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Format())
	}
}

func TestAllUppercaseEnumHasNoWarning(t *testing.T) {
	src := `#module t
enum Color {
    RED,
    GREEN
}
fn main() i32 {
    return 0
}
`
	diags := checkSource(t, src)
	for _, d := range diags.Warnings() {
		if d.ID == diagnostic.EnumValueNotUppercase {
			t.Fatalf("unexpected EnumValueNotUppercase for all-uppercase values: %s", diags.Format())
		}
	}
}

func TestUndeclaredIdentifierIsReported(t *testing.T) {
	src := `#module t
fn main() i32 {
    return missing
}
`
	diags := checkSource(t, src)
	if !diags.HasErrors() {
		t.Fatalf("expected an undeclared-identifier error")
	}
}

func TestAssigningToNonMutIsRejected(t *testing.T) {
	src := `#module t
fn main() i32 {
    x i32 = 1
    x = 2
    return x
}
`
	diags := checkSource(t, src)
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diagnostic.MutabilityViolation {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a MutabilityViolation, got: %s", diags.Format())
	}
}

func TestAssigningImmutablePointerIntoMutableTargetDiscardsConst(t *testing.T) {
	src := `#module t
struct Point {
    x i32
    y i32
}
fn main() i32 {
    p Point = new Point{ x: 1, y: 2 }
    mut other Point = new Point{ x: 3, y: 4 }
    mut q Point* = &other
    q = &p
    return 0
}
`
	diags := checkSource(t, src)
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diagnostic.ConstQualifierDiscarded {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a ConstQualifierDiscarded, got: %s", diags.Format())
	}
}

func TestAssigningMutablePointerIntoMutableTargetIsAllowed(t *testing.T) {
	src := `#module t
struct Point {
    x i32
    y i32
}
fn main() i32 {
    mut a Point = new Point{ x: 1, y: 2 }
    mut b Point = new Point{ x: 3, y: 4 }
    mut q Point* = &a
    q = &b
    return 0
}
`
	diags := checkSource(t, src)
	for _, d := range diags.Errors() {
		if d.ID == diagnostic.ConstQualifierDiscarded {
			t.Fatalf("unexpected ConstQualifierDiscarded when source is mut: %s", diags.Format())
		}
	}
}

func TestMissingReturnIsReported(t *testing.T) {
	src := `#module t
fn broken() i32 {
    mut x i32 = 1
}
`
	diags := checkSource(t, src)
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diagnostic.MissingReturn {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a MissingReturn, got: %s", diags.Format())
	}
}

func TestIfElseBothReturningSatisfiesExhaustiveness(t *testing.T) {
	src := `#module t
fn pick(flag bool) i32 {
    if flag {
        return 1
    } else {
        return 0
    }
}
`
	diags := checkSource(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Format())
	}
}

func TestStructFieldAccessAndMissingField(t *testing.T) {
	src := `#module t
struct Point {
    x i32
    y i32
}
fn sum(p Point) i32 {
    return p.x + p.z
}
`
	diags := checkSource(t, src)
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diagnostic.FieldNotFound {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a FieldNotFound, got: %s", diags.Format())
	}
}

func TestStructLiteralMustInitializeEveryField(t *testing.T) {
	src := `#module t
struct Point {
    x i32
    y i32
}
fn origin() Point {
    return Point{ x: 0 }
}
`
	diags := checkSource(t, src)
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diagnostic.MissingField {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a MissingField, got: %s", diags.Format())
	}
}

func TestPointerArithmeticIsForbidden(t *testing.T) {
	src := `#module t
fn bump(p i32*) i32* {
    return p + 1
}
`
	diags := checkSource(t, src)
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diagnostic.PointerArithmeticForbidden {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a PointerArithmeticForbidden, got: %s", diags.Format())
	}
}

func TestDivisionByZeroLiteralIsReported(t *testing.T) {
	src := `#module t
fn bad() i32 {
    return 1 / 0
}
`
	diags := checkSource(t, src)
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diagnostic.DivisionByZero {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a DivisionByZero, got: %s", diags.Format())
	}
}

func TestOverloadResolutionPicksMatchingSignature(t *testing.T) {
	src := `#module t
fn identify(x i32) i32 {
    return x
}
fn identify(x f32) f32 {
    return x
}
fn main() i32 {
    return identify(1)
}
`
	diags := checkSource(t, src)
	if diags.HasErrors() {
		t.Fatalf("unexpected errors: %s", diags.Format())
	}
}

func TestSingleOverloadFallsBackInsteadOfAmbiguous(t *testing.T) {
	src := `#module t
fn identify(x i32) i32 {
    return x
}
fn main() i32 {
    return identify("nope")
}
`
	diags := checkSource(t, src)
	for _, d := range diags.Errors() {
		if d.ID == diagnostic.AmbiguousOrUnmatchedOverload {
			t.Fatalf("expected the sole overload's own TypeMismatch, not AmbiguousOrUnmatchedOverload: %s", diags.Format())
		}
	}
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diagnostic.TypeMismatch {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a TypeMismatch from the fallback candidate, got: %s", diags.Format())
	}
}

func TestMutArgWrapsCallArgumentInAST(t *testing.T) {
	src := `#module t
fn consume(x i32) i32 {
    return x
}
fn main() i32 {
    mut v i32 = 1
    return consume(mut v)
}
`
	mod, errs := parser.New("t.cz", src, parser.WithoutRun()).Parse()
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	diags := diagnostic.NewList("t.cz", src)
	c := collect.New(mod, diags)
	c.Run()
	New(mod, diags, c, nil).Run()

	var mainFn *ast.Function
	for _, item := range mod.Items {
		if fn, ok := item.(*ast.Function); ok && fn.Name == "main" {
			mainFn = fn
		}
	}
	ret := mainFn.Body.Stmts[1].(*ast.Return)
	call := ret.Value.(*ast.CallExpr)
	if _, ok := call.Args[0].(*ast.MutArgExpr); !ok {
		t.Fatalf("expected call argument to be wrapped in MutArgExpr, got %T", call.Args[0])
	}
}

func TestUndefinedFunctionIsReported(t *testing.T) {
	src := `#module t
fn main() i32 {
    return ghost(1)
}
`
	diags := checkSource(t, src)
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diagnostic.UndefinedFunction {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an UndefinedFunction, got: %s", diags.Format())
	}
}

func TestInterfaceConformanceChecksMissingMethod(t *testing.T) {
	src := `#module t
interface Shape {
    fn area() f32
}
struct Square implements Shape {
    side f32
}
`
	diags := checkSource(t, src)
	found := false
	for _, d := range diags.Errors() {
		if d.ID == diagnostic.MissingMethod {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a MissingMethod, got: %s", diags.Format())
	}
}

func TestInterfaceConformanceAcceptsSelfParamMethod(t *testing.T) {
	src := `#module t
interface Shape {
    fn area() f32
}
struct Circle implements Shape {
    r f32
}
fn area(self Circle*) f32 {
    return self.r * self.r * 3.1415
}
`
	diags := checkSource(t, src)
	for _, d := range diags.Errors() {
		if d.ID == diagnostic.MissingMethod {
			t.Fatalf("unexpected MissingMethod for a self-param method: %s", diags.Format())
		}
	}
}
