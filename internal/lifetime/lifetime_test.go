package lifetime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shkschneider/czar/internal/check"
	"github.com/shkschneider/czar/internal/collect"
	"github.com/shkschneider/czar/internal/diagnostic"
	"github.com/shkschneider/czar/internal/parser"
)

func analyze(t *testing.T, src string) *diagnostic.List {
	t.Helper()
	mod, errs := parser.New("t.cz", src, parser.WithoutRun()).Parse()
	if len(errs) != 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	diags := diagnostic.NewList("t.cz", src)
	c := collect.New(mod, diags)
	c.Run()
	check.New(mod, diags, c, nil).Run()
	New(mod, diags, nil).Run()
	return diags
}

func hasDiag(diags *diagnostic.List, id diagnostic.Kind) bool {
	for _, d := range diags.Items() {
		if d.ID == id {
			return true
		}
	}
	return false
}

func TestUseAfterFreeIsReported(t *testing.T) {
	src := `#module t
fn leak() i32 {
    p := new Point{ x: 1, y: 2 }
    free p
    return p.x
}
struct Point {
    x i32
    y i32
}
`
	diags := analyze(t, src)
	assert.True(t, hasDiag(diags, diagnostic.UseAfterFree), "expected a UseAfterFree, got: %s", diags.Format())
}

func TestFreeThenReassignIsNotUseAfterFree(t *testing.T) {
	src := `#module t
fn ok() i32 {
    mut p Point* = new Point{ x: 1, y: 2 }
    free p
    p = new Point{ x: 3, y: 4 }
    return p.x
}
struct Point {
    x i32
    y i32
}
`
	diags := analyze(t, src)
	assert.False(t, hasDiag(diags, diagnostic.UseAfterFree), "unexpected UseAfterFree after reassignment: %s", diags.Format())
}

func TestDoubleFreeIsReported(t *testing.T) {
	src := `#module t
fn bad() i32 {
    p := new Point{ x: 1, y: 2 }
    free p
    free p
    return 0
}
struct Point {
    x i32
    y i32
}
`
	diags := analyze(t, src)
	assert.True(t, hasDiag(diags, diagnostic.UseAfterFree), "expected a UseAfterFree for the double free, got: %s", diags.Format())
}

func TestOversizedArrayTriggersStackOverflow(t *testing.T) {
	src := `#module t
fn huge() i32 {
    mut buf i64[300000] = new [0]
    return 0
}
`
	diags := analyze(t, src)
	assert.True(t, hasDiag(diags, diagnostic.StackOverflow), "expected a StackOverflow for an oversized local array, got: %s", diags.Format())
}

func TestSmallFunctionHasNoStackDiagnostic(t *testing.T) {
	src := `#module t
fn add(a i32, b i32) i32 {
    return a + b
}
`
	diags := analyze(t, src)
	assert.False(t, hasDiag(diags, diagnostic.StackOverflow), "unexpected stack overflow diagnostic for a tiny function: %s", diags.Format())
	assert.False(t, hasDiag(diags, diagnostic.StackWarning), "unexpected stack warning diagnostic for a tiny function: %s", diags.Format())
}
