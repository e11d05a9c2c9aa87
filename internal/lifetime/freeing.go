package lifetime

import (
	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/diagnostic"
)

// freedScope tracks which locals have been `free`d in one lexical
// scope; a name absent here may still be freed in an enclosing scope.
type freedScope map[string]bool

// freeState is the per-function stack of freedScopes, innermost last.
type freeState struct {
	scopes []freedScope
}

func newFreeState() *freeState {
	return &freeState{scopes: []freedScope{{}}}
}

func (s *freeState) push() {
	s.scopes = append(s.scopes, freedScope{})
}

func (s *freeState) pop() {
	s.scopes = s.scopes[:len(s.scopes)-1]
}

func (s *freeState) mark(name string) {
	s.scopes[len(s.scopes)-1][name] = true
}

// clear removes name's freed marker from whichever scope holds it,
// used when a value is reassigned after being freed.
func (s *freeState) clear(name string) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if _, ok := s.scopes[i][name]; ok {
			delete(s.scopes[i], name)
			return
		}
	}
}

func (s *freeState) isFreed(name string) bool {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if s.scopes[i][name] {
			return true
		}
	}
	return false
}

// checkUseAfterFree walks fn's body once, reporting any identifier
// reference that occurs after the value it names was `free`d and
// before it is reassigned.
func (a *Analyzer) checkUseAfterFree(fn *ast.Function) {
	state := newFreeState()
	a.walkBlockFree(fn.Body, state)
}

func (a *Analyzer) walkBlockFree(b *ast.Block, state *freeState) {
	state.push()
	defer state.pop()
	for _, stmt := range b.Stmts {
		a.walkStmtFree(stmt, state)
	}
}

func (a *Analyzer) walkStmtFree(stmt ast.Stmt, state *freeState) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		if s.Init != nil {
			a.checkExprFree(s.Init, state)
		}
		state.clear(s.Name)
	case *ast.Assign:
		a.checkExprFree(s.Value, state)
		if ident, ok := s.Target.(*ast.Ident); ok {
			state.clear(ident.Name)
		} else {
			a.checkExprFree(s.Target, state)
		}
	case *ast.CompoundAssign:
		a.checkExprFree(s.Target, state)
		a.checkExprFree(s.Value, state)
	case *ast.If:
		a.checkExprFree(s.Cond, state)
		a.walkBlockFree(s.Then, state)
		for _, ei := range s.ElseIfs {
			a.checkExprFree(ei.Cond, state)
			a.walkBlockFree(ei.Body, state)
		}
		if s.Else != nil {
			a.walkBlockFree(s.Else, state)
		}
	case *ast.While:
		a.checkExprFree(s.Cond, state)
		a.walkBlockFree(s.Body, state)
	case *ast.ForIn:
		a.checkExprFree(s.Collection, state)
		a.walkBlockFree(s.Body, state)
	case *ast.RepeatN:
		a.checkExprFree(s.Count, state)
		a.walkBlockFree(s.Body, state)
	case *ast.Return:
		if s.Value != nil {
			a.checkExprFree(s.Value, state)
		}
	case *ast.Free:
		a.checkExprFree(s.Target, state)
		if ident, ok := s.Target.(*ast.Ident); ok {
			if state.isFreed(ident.Name) {
				a.diags.Errorf(s.Line(), diagnostic.UseAfterFree,
					"%q is freed more than once", ident.Name)
			}
			state.mark(ident.Name)
		}
	case *ast.Discard:
		a.checkExprFree(s.Value, state)
	case *ast.ExprStmt:
		a.checkExprFree(s.Value, state)
	case *ast.MacroStmt:
		for _, arg := range s.Args {
			a.checkExprFree(arg, state)
		}
	}
}

// checkExprFree reports a use-after-free for every bare identifier
// reference reachable from expr, recursing into operands.
func (a *Analyzer) checkExprFree(expr ast.Expr, state *freeState) {
	switch e := expr.(type) {
	case *ast.Ident:
		if state.isFreed(e.Name) {
			a.diags.Errorf(e.Line(), diagnostic.UseAfterFree,
				"%q is used after being freed", e.Name)
		}
	case *ast.FieldExpr:
		a.checkExprFree(e.Receiver, state)
	case *ast.IndexExpr:
		a.checkExprFree(e.Receiver, state)
		a.checkExprFree(e.Index, state)
	case *ast.SliceExpr:
		a.checkExprFree(e.Receiver, state)
		if e.Low != nil {
			a.checkExprFree(e.Low, state)
		}
		if e.High != nil {
			a.checkExprFree(e.High, state)
		}
	case *ast.UnaryExpr:
		a.checkExprFree(e.Operand, state)
	case *ast.BinaryExpr:
		a.checkExprFree(e.Left, state)
		a.checkExprFree(e.Right, state)
	case *ast.CallExpr:
		a.checkExprFree(e.Callee, state)
		for _, arg := range e.Args {
			a.checkExprFree(arg, state)
		}
	case *ast.StaticMethodCall:
		for _, arg := range e.Args {
			a.checkExprFree(arg, state)
		}
	case *ast.StructLit:
		for _, f := range e.Fields {
			a.checkExprFree(f.Value, state)
		}
	case *ast.ArrayLit:
		for _, el := range e.Elements {
			a.checkExprFree(el, state)
		}
	case *ast.MapLit:
		for _, entry := range e.Entries {
			a.checkExprFree(entry.Key, state)
			a.checkExprFree(entry.Value, state)
		}
	case *ast.PairLit:
		a.checkExprFree(e.Left, state)
		a.checkExprFree(e.Right, state)
	case *ast.NewHeap:
		for _, f := range e.Fields {
			a.checkExprFree(f.Value, state)
		}
	case *ast.NewArray:
		for _, el := range e.Elements {
			a.checkExprFree(el, state)
		}
	case *ast.NewMap:
		for _, entry := range e.Entries {
			a.checkExprFree(entry.Key, state)
			a.checkExprFree(entry.Value, state)
		}
	case *ast.CastExpr:
		a.checkExprFree(e.Value, state)
	case *ast.SafeCastExpr:
		a.checkExprFree(e.Value, state)
	case *ast.CloneExpr:
		a.checkExprFree(e.Value, state)
	case *ast.NullCheckExpr:
		a.checkExprFree(e.Value, state)
	case *ast.IsCheckExpr:
		a.checkExprFree(e.Value, state)
	case *ast.MutArgExpr:
		a.checkExprFree(e.Value, state)
	case *ast.ImplicitCastExpr:
		a.checkExprFree(e.Value, state)
	}
}
