// Package resolver resolves a module's `import cz.<path>` declarations
// and tracks which of them are actually referenced.
//
// Resolution has two halves: standard-library paths (e.g. "cz.fmt")
// resolve against internal/builtins and never touch the filesystem;
// project-local paths resolve to a sibling ".cz" file read relative to
// the importing module's directory and parsed recursively. Usage
// tracking walks the already-parsed AST once with a "mark from roots"
// pass: unused imports are reported as warnings, not removed — CZ has
// no dead-code-elimination pass of its own.
package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/dolthub/swiss"
	"github.com/pkg/errors"

	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/builtins"
	"github.com/shkschneider/czar/internal/diagnostic"
	"github.com/shkschneider/czar/internal/parser"
)

// Resolver resolves and caches parsed modules across an entire compile.
type Resolver struct {
	cache *swiss.Map[string, *ast.Module]
}

// New creates a Resolver with an empty module cache.
func New() *Resolver {
	return &Resolver{cache: swiss.NewMap[string, *ast.Module](8)}
}

// Resolve loads every import of module, recursively resolving their own
// imports, and returns a map from import path to the parsed module.
// Standard-library paths are omitted from the returned map since they
// have no AST of their own. Errors reading or parsing a project-local
// import are recorded as diagnostics at the importing line.
func (r *Resolver) Resolve(module *ast.Module, diags *diagnostic.List) map[string]*ast.Module {
	resolved := make(map[string]*ast.Module)
	for _, imp := range module.Imports {
		if builtins.IsModule(imp.Path) {
			continue
		}
		mod, err := r.resolveLocal(module.SourcePath, imp.Path)
		if err != nil {
			diags.Errorf(imp.Line, diagnostic.Lexical, "cannot resolve import %q: %s", imp.Path, err)
			continue
		}
		resolved[imp.Path] = mod
		sub := r.Resolve(mod, diags)
		for path, m := range sub {
			resolved[path] = m
		}
	}
	return resolved
}

// resolveLocal reads and parses a project-local "cz.<path>" import,
// mapping dots to path separators under the importing file's directory,
// and caches the result so a module imported from several places is
// only read and parsed once.
func (r *Resolver) resolveLocal(fromPath, importPath string) (*ast.Module, error) {
	rel := strings.TrimPrefix(importPath, "cz.")
	rel = strings.ReplaceAll(rel, ".", string(filepath.Separator))
	target := filepath.Join(filepath.Dir(fromPath), rel+".cz")

	if mod, ok := r.cache.Get(target); ok {
		return mod, nil
	}

	src, err := os.ReadFile(target)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", target)
	}
	mod, errs := parser.New(target, string(src)).Parse()
	if len(errs) > 0 {
		return nil, errors.Errorf("%d syntax error(s) in %s: %s", len(errs), target, errs[0])
	}
	r.cache.Put(target, mod)
	return mod, nil
}

// MarkUsedImports walks a module's item bodies looking for identifiers
// and qualified field accesses that reference an import's alias,
// setting Import.Used accordingly. Imports left unused after this walk
// should be reported as warnings by the caller.
func MarkUsedImports(module *ast.Module) {
	used := make(map[string]bool)
	for _, item := range module.Items {
		walkItemForImportUse(item, used)
	}
	for _, imp := range module.Imports {
		if used[imp.Alias] {
			imp.Used = true
		}
	}
}

func walkItemForImportUse(item ast.Item, used map[string]bool) {
	fn, ok := item.(*ast.Function)
	if !ok || fn.Body == nil {
		return
	}
	for _, s := range fn.Body.Stmts {
		walkStmtForImportUse(s, used)
	}
}

func walkStmtForImportUse(s ast.Stmt, used map[string]bool) {
	switch n := s.(type) {
	case *ast.VarDecl:
		walkExprForImportUse(n.Init, used)
	case *ast.Assign:
		walkExprForImportUse(n.Target, used)
		walkExprForImportUse(n.Value, used)
	case *ast.CompoundAssign:
		walkExprForImportUse(n.Target, used)
		walkExprForImportUse(n.Value, used)
	case *ast.If:
		walkExprForImportUse(n.Cond, used)
		walkBlockForImportUse(n.Then, used)
		for _, ei := range n.ElseIfs {
			walkExprForImportUse(ei.Cond, used)
			walkBlockForImportUse(ei.Body, used)
		}
		walkBlockForImportUse(n.Else, used)
	case *ast.While:
		walkExprForImportUse(n.Cond, used)
		walkBlockForImportUse(n.Body, used)
	case *ast.ForIn:
		walkExprForImportUse(n.Collection, used)
		walkBlockForImportUse(n.Body, used)
	case *ast.RepeatN:
		walkExprForImportUse(n.Count, used)
		walkBlockForImportUse(n.Body, used)
	case *ast.Return:
		walkExprForImportUse(n.Value, used)
	case *ast.Free:
		walkExprForImportUse(n.Target, used)
	case *ast.Discard:
		walkExprForImportUse(n.Value, used)
	case *ast.ExprStmt:
		walkExprForImportUse(n.Value, used)
	case *ast.MacroStmt:
		for _, a := range n.Args {
			walkExprForImportUse(a, used)
		}
	}
}

func walkBlockForImportUse(b *ast.Block, used map[string]bool) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		walkStmtForImportUse(s, used)
	}
}

func walkExprForImportUse(e ast.Expr, used map[string]bool) {
	switch n := e.(type) {
	case nil:
		return
	case *ast.FieldExpr:
		if id, ok := n.Receiver.(*ast.Ident); ok {
			used[id.Name] = true
		}
		walkExprForImportUse(n.Receiver, used)
	case *ast.CallExpr:
		walkExprForImportUse(n.Callee, used)
		for _, a := range n.Args {
			walkExprForImportUse(a, used)
		}
	case *ast.BinaryExpr:
		walkExprForImportUse(n.Left, used)
		walkExprForImportUse(n.Right, used)
	case *ast.UnaryExpr:
		walkExprForImportUse(n.Operand, used)
	case *ast.IndexExpr:
		walkExprForImportUse(n.Receiver, used)
		walkExprForImportUse(n.Index, used)
	case *ast.SliceExpr:
		walkExprForImportUse(n.Receiver, used)
		walkExprForImportUse(n.Low, used)
		walkExprForImportUse(n.High, used)
	case *ast.StructLit:
		for _, f := range n.Fields {
			walkExprForImportUse(f.Value, used)
		}
	case *ast.ArrayLit:
		for _, el := range n.Elements {
			walkExprForImportUse(el, used)
		}
	case *ast.NewHeap:
		for _, f := range n.Fields {
			walkExprForImportUse(f.Value, used)
		}
	case *ast.CastExpr:
		walkExprForImportUse(n.Value, used)
	case *ast.CloneExpr:
		walkExprForImportUse(n.Value, used)
	case *ast.NullCheckExpr:
		walkExprForImportUse(n.Value, used)
	}
}
