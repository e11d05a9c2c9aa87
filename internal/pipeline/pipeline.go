// Package pipeline runs the compiler stages in order against one entry
// module: parse, resolve imports, collect declarations, check types,
// analyze lifetimes, then generate C. Each stage consumes exactly what
// the previous one produced; the pipeline aborts after the first stage
// that reports an error so later stages never see a malformed AST.
package pipeline

import (
	"os"

	"github.com/pkg/errors"

	"github.com/shkschneider/czar/internal/check"
	"github.com/shkschneider/czar/internal/cname"
	"github.com/shkschneider/czar/internal/codegen"
	"github.com/shkschneider/czar/internal/collect"
	"github.com/shkschneider/czar/internal/diagnostic"
	"github.com/shkschneider/czar/internal/lifetime"
	"github.com/shkschneider/czar/internal/parser"
	"github.com/shkschneider/czar/internal/resolver"
)

// Options controls how a compile runs.
type Options struct {
	// RuntimePreamble is spliced verbatim above generated declarations,
	// typically the contents of a runtime header shipped alongside czar.
	RuntimePreamble string

	// EmitLineDirectives toggles C `#line` directives in the output,
	// mapping generated lines back to CZ source lines for debuggers.
	EmitLineDirectives bool

	// AllowRun enables `#run` directives executing shell commands at
	// parse time. Disabled by default since it runs arbitrary commands
	// found in source being compiled.
	AllowRun bool
}

// Stats reports size information about one compile.
type Stats struct {
	SourceBytes int
	OutputBytes int
}

// Result is the outcome of compiling one entry file.
type Result struct {
	Code  string
	Diags *diagnostic.List
	Stats Stats
}

// Compiler runs the pipeline for a single entry module, caching
// resolved imports across the run.
type Compiler struct {
	opts Options
}

// New creates a Compiler with the given options.
func New(opts Options) *Compiler {
	return &Compiler{opts: opts}
}

// CompileFile reads path and compiles it as the entry module.
func (c *Compiler) CompileFile(path string) (Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errors.Wrapf(err, "reading %s", path)
	}
	return c.Compile(path, string(src)), nil
}

// Compile runs the full pipeline over source, attributed to sourcePath
// for diagnostics and relative import resolution.
func (c *Compiler) Compile(sourcePath, source string) Result {
	result := Result{Stats: Stats{SourceBytes: len(source)}}

	var popts []parser.Option
	if !c.opts.AllowRun {
		popts = append(popts, parser.WithoutRun())
	}
	module, perrs := parser.New(sourcePath, source, popts...).Parse()
	diags := diagnostic.NewList(sourcePath, source)
	for _, e := range perrs {
		diags.Errorf(e.Line, diagnostic.Lexical, "%s", e.Message)
	}
	result.Diags = diags
	if diags.HasErrors() {
		return result
	}

	res := resolver.New()
	imports := res.Resolve(module, diags)
	resolver.MarkUsedImports(module)
	if diags.HasErrors() {
		return result
	}

	collector := collect.New(module, diags)
	collector.Run()
	if diags.HasErrors() {
		return result
	}

	check.New(module, diags, collector, imports, check.AsEntryModule()).Run()
	if diags.HasErrors() {
		return result
	}

	lifetime.New(module, diags, imports).Run()
	if diags.HasErrors() {
		return result
	}

	// A single Assigner sees every module so C names stay unique across
	// the whole translation unit, not just within the entry module.
	names := cname.New()
	names.Run(module)
	for _, imp := range imports {
		names.Run(imp)
	}

	printer := codegen.New(codegen.Options{
		SourceFile:         sourcePath,
		RuntimePreamble:    c.opts.RuntimePreamble,
		EmitLineDirectives: c.opts.EmitLineDirectives,
	})
	result.Code = printer.Print(module, imports)
	result.Stats.OutputBytes = len(result.Code)
	return result
}

// Compile compiles source with default options and no `#run` support.
func Compile(sourcePath, source string) Result {
	return New(Options{}).Compile(sourcePath, source)
}
