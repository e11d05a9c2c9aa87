package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shkschneider/czar/internal/diagnostic"
	"github.com/shkschneider/czar/internal/parser"
)

func TestResolveSkipsStdlibImports(t *testing.T) {
	src := "import cz.fmt\nfn main() i32 { return 0 }\n"
	mod, _ := parser.New("main.cz", src, parser.WithoutRun()).Parse()
	diags := diagnostic.NewList("main.cz", src)

	r := New()
	resolved := r.Resolve(mod, diags)
	if len(resolved) != 0 {
		t.Fatalf("expected no resolved modules for a stdlib-only import, got %v", resolved)
	}
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.Format())
	}
}

func TestResolveLocalImport(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "shapes.cz"), []byte("struct Point { x i32\ny i32 }\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	mainPath := filepath.Join(dir, "main.cz")
	src := "import cz.shapes\nfn main() i32 { return 0 }\n"

	mod, _ := parser.New(mainPath, src, parser.WithoutRun()).Parse()
	diags := diagnostic.NewList(mainPath, src)

	r := New()
	resolved := r.Resolve(mod, diags)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diags.Format())
	}
	if _, ok := resolved["cz.shapes"]; !ok {
		t.Fatalf("expected cz.shapes to resolve, got %v", resolved)
	}
}

func TestResolveMissingLocalImportIsDiagnosed(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.cz")
	src := "import cz.nonexistent\nfn main() i32 { return 0 }\n"

	mod, _ := parser.New(mainPath, src, parser.WithoutRun()).Parse()
	diags := diagnostic.NewList(mainPath, src)

	r := New()
	r.Resolve(mod, diags)
	if !diags.HasErrors() {
		t.Fatalf("expected a diagnostic for the missing import")
	}
}

func TestMarkUsedImportsFlagsUnused(t *testing.T) {
	src := "import cz.fmt\nimport cz.os\nfn main() i32 {\n    fmt.println(\"hi\")\n    return 0\n}\n"
	mod, _ := parser.New("main.cz", src, parser.WithoutRun()).Parse()

	MarkUsedImports(mod)

	var fmtUsed, osUsed bool
	for _, imp := range mod.Imports {
		if imp.Alias == "fmt" {
			fmtUsed = imp.Used
		}
		if imp.Alias == "os" {
			osUsed = imp.Used
		}
	}
	if !fmtUsed {
		t.Errorf("expected cz.fmt to be marked used")
	}
	if osUsed {
		t.Errorf("expected cz.os to be marked unused")
	}
}
