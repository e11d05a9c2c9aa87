// Package lifetime runs the lifetime/escape analysis stage of the
// pipeline: a linear per-function walk that flags use-after-free
// accesses and estimates each function's worst-case C stack frame,
// warning or erroring once that estimate crosses a threshold.
//
// It runs after internal/check, which has already resolved every
// struct's FieldOffsets/ByteSize; this stage reads those directly
// rather than recomputing layout.
package lifetime

import (
	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/diagnostic"
)

// Thresholds for the stack-budget estimate, in bytes.
const (
	warnThreshold  = 1 << 20 // 1 MiB
	errorThreshold = 2 << 20 // 2 MiB
)

// Analyzer walks one module's functions looking for use-after-free
// accesses and oversized stack frames.
type Analyzer struct {
	module  *ast.Module
	diags   *diagnostic.List
	structs map[string]*ast.Struct
	enums   map[string]*ast.Enum
}

// New creates an Analyzer for module. imports maps each local import's
// path to its resolved module, so struct sizes declared in a library
// module are visible when sizing a value of that type; it may be nil.
func New(module *ast.Module, diags *diagnostic.List, imports map[string]*ast.Module) *Analyzer {
	a := &Analyzer{
		module:  module,
		diags:   diags,
		structs: make(map[string]*ast.Struct),
		enums:   make(map[string]*ast.Enum),
	}
	a.registerItems(module.Items)
	for _, imported := range imports {
		a.registerItems(imported.Items)
	}
	return a
}

func (a *Analyzer) registerItems(items []ast.Item) {
	for _, item := range items {
		switch d := item.(type) {
		case *ast.Struct:
			a.structs[d.Name] = d
		case *ast.Enum:
			a.enums[d.Name] = d
		}
	}
}

// Run executes use-after-free detection and stack-budget estimation
// over every function in the module.
func (a *Analyzer) Run() {
	for _, item := range a.module.Items {
		fn, ok := item.(*ast.Function)
		if !ok || fn.Body == nil {
			continue
		}
		a.checkUseAfterFree(fn)
		a.checkStackBudget(fn)
	}
}
