// Package codegen emits a C11 translation unit from a type-checked CZ
// module: includes, struct/enum typedefs, forward declarations, and
// function bodies. It is the last stage before the host C compiler; it
// performs no further validation and assumes internal/check has already
// rejected anything this stage can't express.
package codegen

import (
	"fmt"
	"strings"

	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/linemap"
)

// Options controls output shape.
type Options struct {
	// SourceFile names the CZ file being compiled, used for #line
	// directives and the generated file's header comment.
	SourceFile string

	// RuntimePreamble is the verbatim C runtime source spliced in after
	// the standard includes (allocator, string, slice, map support).
	RuntimePreamble string

	// EmitLineDirectives controls whether #line directives are emitted
	// so the host compiler attributes its own diagnostics back to CZ
	// source lines. Off by default since it clutters golden output in
	// tests; cmd/czar turns it on for real builds.
	EmitLineDirectives bool
}

// Printer renders one module as C11 source text.
type Printer struct {
	opts Options
	buf  strings.Builder

	indent int
	lines  *linemap.Generator
}

// New creates a Printer for one module.
func New(opts Options) *Printer {
	return &Printer{opts: opts, lines: linemap.NewGenerator(opts.SourceFile)}
}

// Print renders module (and, if provided, the modules it imports) into
// one C11 translation unit.
func (p *Printer) Print(module *ast.Module, imports map[string]*ast.Module) string {
	p.buf.Reset()
	p.printPreamble(module)
	p.printForwardDecls(module, imports)
	for _, item := range module.Items {
		p.printItem(item)
	}
	for _, imported := range imports {
		for _, item := range imported.Items {
			p.printItem(item)
		}
	}
	for _, item := range module.Items {
		if fn, ok := item.(*ast.Function); ok && fn.CName == "main_main" {
			p.line("int main(void) {")
			p.line("    return (int)main_main();")
			p.line("}")
			break
		}
	}
	return p.buf.String()
}

// Lines returns the generated-line -> CZ-line mapping built up while
// printing, for diagnostics raised by the host C compiler.
func (p *Printer) Lines() []linemap.Mapping {
	return p.lines.Mappings()
}

// ----------------------------------------------------------------------------
// Output helpers
// ----------------------------------------------------------------------------

func (p *Printer) raw(s string) {
	p.buf.WriteString(s)
}

func (p *Printer) line(format string, args ...interface{}) {
	p.buf.WriteString(strings.Repeat("    ", p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
	p.lines.Skip()
}

// lineFor emits the same as line but records a mapping back to srcLine,
// preceded by a #line directive when EmitLineDirectives is set.
func (p *Printer) lineFor(srcLine int, format string, args ...interface{}) {
	if p.opts.EmitLineDirectives {
		m := linemap.Mapping{SourceFile: p.opts.SourceFile, SourceLine: srcLine}
		p.buf.WriteString(m.Directive())
		p.buf.WriteByte('\n')
		p.lines.Skip()
	}
	p.buf.WriteString(strings.Repeat("    ", p.indent))
	fmt.Fprintf(&p.buf, format, args...)
	p.buf.WriteByte('\n')
	p.lines.AddMapping(srcLine)
}

func (p *Printer) blank() {
	p.buf.WriteByte('\n')
	p.lines.Skip()
}

func (p *Printer) printPreamble(module *ast.Module) {
	p.line("// generated by czar from %s — do not edit", module.SourcePath)
	p.blank()
	p.line("#include <stdint.h>")
	p.line("#include <stdbool.h>")
	p.line("#include <stddef.h>")
	p.line("#include <stdlib.h>")
	p.line("#include <string.h>")
	p.line("#include <stdio.h>")
	p.blank()
	if p.opts.RuntimePreamble != "" {
		p.raw(p.opts.RuntimePreamble)
		if !strings.HasSuffix(p.opts.RuntimePreamble, "\n") {
			p.blank()
		}
		p.blank()
	}
}

// printForwardDecls emits struct/enum typedefs and function prototypes
// ahead of any definitions, since CZ has no forward-declaration syntax
// of its own and C requires one before first use.
func (p *Printer) printForwardDecls(module *ast.Module, imports map[string]*ast.Module) {
	allItems := append([]ast.Item{}, module.Items...)
	for _, imported := range imports {
		allItems = append(allItems, imported.Items...)
	}

	for _, item := range allItems {
		if e, ok := item.(*ast.Enum); ok {
			p.printEnumTypedef(e)
		}
	}
	for _, item := range allItems {
		if s, ok := item.(*ast.Struct); ok {
			p.line("typedef struct %s %s;", s.Name, s.Name)
		}
	}
	p.blank()
	for _, item := range allItems {
		if s, ok := item.(*ast.Struct); ok {
			p.printStructBody(s)
		}
	}
	p.blank()
	for _, item := range allItems {
		if fn, ok := item.(*ast.Function); ok && fn.CName != "" {
			p.line("%s;", p.functionSignature(fn))
		}
	}
	p.blank()
}

func (p *Printer) printItem(item ast.Item) {
	switch d := item.(type) {
	case *ast.Function:
		p.printFunction(d)
	case *ast.InitBlock:
		// #init bodies are not emitted anywhere: neither at module scope
		// nor inside the generated C main.
	default:
		// Struct/Enum/Interface/TypeAlias/AllocatorMacro/RunItem were
		// already consumed by printForwardDecls or earlier stages.
	}
}
