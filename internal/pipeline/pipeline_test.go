package pipeline

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shkschneider/czar/internal/diagnostic"
)

func TestCompileProducesC(t *testing.T) {
	src := `#module t
fn add(a i32, b i32) i32 {
    return a + b
}
fn main() i32 {
    return add(1, 2)
}
`
	result := Compile("t.cz", src)
	require.False(t, result.Diags.HasErrors(), "unexpected errors: %s", result.Diags.Format())
	require.Contains(t, result.Code, "main_main", "expected renamed entry point in output")
	require.Equal(t, len(src), result.Stats.SourceBytes)
	require.Equal(t, len(result.Code), result.Stats.OutputBytes)
}

func TestCompileStopsAtParseErrors(t *testing.T) {
	result := Compile("t.cz", "#module t\nfn broken( {\n")
	require.True(t, result.Diags.HasErrors(), "expected parse errors to be reported")
	require.Empty(t, result.Code, "expected no output after a parse error")
}

func TestCompileRunDisabledByDefault(t *testing.T) {
	src := "#module t\n#run { echo hi }\nfn main() i32 {\n    return 0\n}\n"
	result := Compile("t.cz", src)
	require.False(t, result.Diags.HasErrors(), "unexpected errors with #run disabled: %s", result.Diags.Format())
}

func TestCompileFileReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.cz")
	src := "#module t\nfn main() i32 {\n    return 0\n}\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0644))

	result, err := New(Options{}).CompileFile(path)
	require.NoError(t, err)
	require.False(t, result.Diags.HasErrors(), "unexpected errors: %s", result.Diags.Format())
}

func TestCompileFileMissingReturnsError(t *testing.T) {
	_, err := New(Options{}).CompileFile("/nonexistent/path/does/not/exist.cz")
	require.Error(t, err)
}

// hasDiag reports whether diags contains a diagnostic of the given kind.
func hasDiag(diags *diagnostic.List, id diagnostic.Kind) bool {
	for _, d := range diags.Items() {
		if d.ID == id {
			return true
		}
	}
	return false
}

func TestEndToEndOverloadSelection(t *testing.T) {
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
	result := Compile("t.cz", src)
	require.False(t, result.Diags.HasErrors(), "unexpected errors: %s", result.Diags.Format())
	require.True(t, strings.Count(result.Code, "identify") >= 2, "expected both overloads to be emitted, got:\n%s", result.Code)
}

func TestEndToEndUseAfterFree(t *testing.T) {
	src := `#module t
struct Point {
    x i32
    y i32
}
fn leak() i32 {
    p := new Point{ x: 1, y: 2 }
    free p
    return p.x
}
fn main() i32 {
    return leak()
}
`
	result := Compile("t.cz", src)
	require.True(t, hasDiag(result.Diags, diagnostic.UseAfterFree), "expected a UseAfterFree: %s", result.Diags.Format())
	require.Empty(t, result.Code, "expected no generated code once a diagnostic error is reported")
}

func TestEndToEndMutabilityViolation(t *testing.T) {
	src := `#module t
fn main() i32 {
    x i32 = 1
    x = 2
    return x
}
`
	result := Compile("t.cz", src)
	require.True(t, hasDiag(result.Diags, diagnostic.MutabilityViolation), "expected a MutabilityViolation: %s", result.Diags.Format())
}

func TestEndToEndArrayIndexOutOfBounds(t *testing.T) {
	src := `#module t
fn main() i32 {
    buf i32[4] = new [0, 0, 0, 0]
    return buf[9]
}
`
	result := Compile("t.cz", src)
	require.True(t, hasDiag(result.Diags, diagnostic.ArrayIndexOutOfBounds), "expected an ArrayIndexOutOfBounds: %s", result.Diags.Format())
}

func TestEndToEndInterfaceConformance(t *testing.T) {
	src := `#module t
interface Shape {
    fn area() f32
}
struct Square implements Shape {
    side f32
}
fn main() i32 {
    return 0
}
`
	result := Compile("t.cz", src)
	require.True(t, hasDiag(result.Diags, diagnostic.MissingMethod), "expected a MissingMethod: %s", result.Diags.Format())
}
