package api

import (
	"strings"
	"testing"
)

func TestCompileEmitsCFunction(t *testing.T) {
	source := `#module t
fn add(a i32, b i32) i32 {
    return a + b
}
fn main() i32 {
    return add(1, 2)
}
`
	result := Compile("t.cz", source)

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if result.OutputSize == 0 {
		t.Fatal("expected non-empty output")
	}
	if !strings.Contains(result.Code, "add(") {
		t.Errorf("expected generated C to contain add(...), got:\n%s", result.Code)
	}
}

func TestCompileReportsParseErrors(t *testing.T) {
	result := Compile("t.cz", "#module t\nfn broken( {\n")

	if len(result.Errors) == 0 {
		t.Fatal("expected parse errors to be reported")
	}
	if result.Code != "" {
		t.Errorf("expected empty Code on error, got:\n%s", result.Code)
	}
}

func TestCompileWithOptionsSplicesRuntimePreamble(t *testing.T) {
	source := "#module t\nfn main() i32 {\n    return 0\n}\n"

	result := CompileWithOptions("t.cz", source, CompileOptions{
		RuntimePreamble: "#define CZ_RUNTIME 1\n",
	})

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if !strings.Contains(result.Code, "CZ_RUNTIME") {
		t.Errorf("expected spliced runtime preamble, got:\n%s", result.Code)
	}
}

func TestCompileFileMissing(t *testing.T) {
	if _, err := CompileFile("/nonexistent/path/does/not/exist.cz"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
