package check

import (
	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/ctype"
	"github.com/shkschneider/czar/internal/diagnostic"
)

func (c *Checker) checkFunction(fn *ast.Function) {
	if fn.Unsafe {
		return // raw C body, nothing to type-check
	}

	prevFn, prevRet := c.currentFn, c.returnType
	c.currentFn = fn
	c.returnType = fn.ReturnType
	defer func() { c.currentFn, c.returnType = prevFn, prevRet }()

	c.pushScope()
	defer c.popScope()

	if fn.Receiver != "" {
		c.declare("self", &ctype.Pointer{Elem: &ctype.Named{Name: fn.Receiver}}, true)
	}
	for _, p := range fn.Params {
		c.declare(p.Name, p.Type, p.Mutable)
	}

	if fn.Body == nil {
		return
	}
	c.checkBlock(fn.Body)

	if !ctype.IsVoidType(fn.ReturnType) && !blockAlwaysReturns(fn.Body) {
		c.diags.Errorf(fn.Line(), diagnostic.MissingReturn,
			"function %q does not return a value on every path", fn.Name)
	}
}

// blockAlwaysReturns conservatively decides whether every path through
// block ends in a return, for the exhaustive-return check. It does not
// attempt to prove unreachable code after a return dead; it only looks
// at the last statement of each branch.
func blockAlwaysReturns(b *ast.Block) bool {
	if b == nil || len(b.Stmts) == 0 {
		return false
	}
	return stmtAlwaysReturns(b.Stmts[len(b.Stmts)-1])
}

func stmtAlwaysReturns(s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.Return:
		return true
	case *ast.If:
		if st.Else == nil {
			return false
		}
		if !blockAlwaysReturns(st.Then) || !blockAlwaysReturns(st.Else) {
			return false
		}
		for _, ei := range st.ElseIfs {
			if !blockAlwaysReturns(ei.Body) {
				return false
			}
		}
		return true
	case *ast.Block:
		return blockAlwaysReturns(st)
	}
	return false
}

func (c *Checker) checkBlock(b *ast.Block) {
	c.pushScope()
	defer c.popScope()
	for _, s := range b.Stmts {
		c.checkStmt(s)
	}
}

func (c *Checker) checkStmt(s ast.Stmt) {
	switch st := s.(type) {
	case *ast.Block:
		c.checkBlock(st)
	case *ast.VarDecl:
		c.checkVarDecl(st)
	case *ast.Assign:
		c.checkAssign(st)
	case *ast.CompoundAssign:
		c.checkCompoundAssign(st)
	case *ast.If:
		c.checkIf(st)
	case *ast.While:
		c.checkExpectBool(c.checkExpr(st.Cond), st.Line())
		c.loopDepth++
		c.checkBlock(st.Body)
		c.loopDepth--
	case *ast.ForIn:
		c.checkForIn(st)
	case *ast.RepeatN:
		t := c.checkExpr(st.Count)
		if !ctype.IsInteger(t) {
			c.diags.Errorf(st.Line(), diagnostic.TypeMismatch, "repeat count must be an integer, got %s", describeType(t))
		}
		c.loopDepth++
		c.checkBlock(st.Body)
		c.loopDepth--
	case *ast.Break:
		if c.loopDepth == 0 {
			c.diags.Errorf(st.Line(), diagnostic.BreakOutsideLoop, "break outside of a loop")
		} else if st.Level > c.loopDepth {
			c.diags.Errorf(st.Line(), diagnostic.InvalidLoopLevel, "break %d exceeds the current loop nesting depth of %d", st.Level, c.loopDepth)
		}
	case *ast.Continue:
		if c.loopDepth == 0 {
			c.diags.Errorf(st.Line(), diagnostic.ContinueOutsideLoop, "continue outside of a loop")
		} else if st.Level > c.loopDepth {
			c.diags.Errorf(st.Line(), diagnostic.InvalidLoopLevel, "continue %d exceeds the current loop nesting depth of %d", st.Level, c.loopDepth)
		}
	case *ast.Return:
		c.checkReturn(st)
	case *ast.Free:
		t := c.checkExpr(st.Target)
		if !ctype.IsPointerLike(t) {
			c.diags.Errorf(st.Line(), diagnostic.TypeMismatch, "free requires a pointer, got %s", describeType(t))
		}
	case *ast.Discard:
		c.checkExpr(st.Value)
	case *ast.ExprStmt:
		c.checkExpr(st.Value)
	case *ast.UnsafeBlock:
		// verbatim C, not type-checked
	case *ast.MacroStmt:
		for _, a := range st.Args {
			c.checkExpr(a)
		}
	case *ast.RunStmt:
		// already executed during parsing
	}
}

func (c *Checker) checkVarDecl(st *ast.VarDecl) {
	var initType ctype.Type
	if st.Init != nil {
		initType = c.checkExpr(st.Init)
	}
	declared := st.Type
	if declared == nil {
		declared = initType
		st.Type = initType
	} else if st.Init != nil && !c.assignable(declared, initType) {
		c.diags.Errorf(st.Line(), diagnostic.TypeMismatch,
			"cannot initialize %s with a value of type %s", describeType(declared), describeType(initType))
	} else if st.Init != nil {
		st.Init = c.maybeWiden(declared, initType, st.Init)
	}
	c.declare(st.Name, declared, st.Mutable)
}

func (c *Checker) checkAssign(st *ast.Assign) {
	targetType := c.checkExpr(st.Target)
	valueType := c.checkExpr(st.Value)
	c.checkLValueMutable(st.Target, st.Line())
	c.checkConstCorrectness(st, targetType)
	if !c.assignable(targetType, valueType) {
		c.diags.Errorf(st.Line(), diagnostic.TypeMismatch,
			"cannot assign %s to a target of type %s", describeType(valueType), describeType(targetType))
		return
	}
	st.Value = c.maybeWiden(targetType, valueType, st.Value)
}

// checkConstCorrectness rejects assigning a pointer taken from an
// immutable binding (`&x` where x is not declared mut) into a target
// that is itself a mutable pointer variable: writing through that
// target would otherwise reach into x's storage despite x being const.
func (c *Checker) checkConstCorrectness(st *ast.Assign, targetType ctype.Type) {
	if !ctype.IsPointerLike(targetType) {
		return
	}
	ident, ok := st.Target.(*ast.Ident)
	if !ok {
		return
	}
	sym, ok := c.lookup(ident.Name)
	if !ok || !sym.Mutable {
		return
	}
	unary, ok := st.Value.(*ast.UnaryExpr)
	if !ok || unary.Op != "&" {
		return
	}
	srcIdent, ok := unary.Operand.(*ast.Ident)
	if !ok {
		return
	}
	if srcSym, ok := c.lookup(srcIdent.Name); ok && !srcSym.Mutable {
		c.diags.Errorf(st.Line(), diagnostic.ConstQualifierDiscarded,
			"assigning &%s, which is not declared mut, into mutable pointer %q discards its const qualifier", srcIdent.Name, ident.Name)
	}
}

func (c *Checker) checkCompoundAssign(st *ast.CompoundAssign) {
	targetType := c.checkExpr(st.Target)
	valueType := c.checkExpr(st.Value)
	c.checkLValueMutable(st.Target, st.Line())
	if !ctype.IsNumeric(targetType) {
		c.diags.Errorf(st.Line(), diagnostic.TypeMismatch,
			"%s= requires a numeric target, got %s", st.Op, describeType(targetType))
		return
	}
	if !ctype.IsNumeric(valueType) {
		c.diags.Errorf(st.Line(), diagnostic.TypeMismatch,
			"%s= requires a numeric value, got %s", st.Op, describeType(valueType))
	}
}

// checkLValueMutable reports a MutabilityViolation when target does not
// resolve to a declared `mut` binding.
func (c *Checker) checkLValueMutable(target ast.Expr, line int) {
	switch t := target.(type) {
	case *ast.Ident:
		sym, ok := c.lookup(t.Name)
		if ok && !sym.Mutable {
			c.diags.Errorf(line, diagnostic.MutabilityViolation, "%q is not declared mut and cannot be assigned to", t.Name)
		}
	case *ast.FieldExpr:
		c.checkLValueMutable(t.Receiver, line)
	case *ast.IndexExpr:
		c.checkLValueMutable(t.Receiver, line)
	}
}

func (c *Checker) checkIf(st *ast.If) {
	c.checkExpectBool(c.checkExpr(st.Cond), st.Line())
	c.checkBlock(st.Then)
	for _, ei := range st.ElseIfs {
		c.checkExpectBool(c.checkExpr(ei.Cond), ei.Line)
		c.checkBlock(ei.Body)
	}
	if st.Else != nil {
		c.checkBlock(st.Else)
	}
}

func (c *Checker) checkForIn(st *ast.ForIn) {
	collType := c.checkExpr(st.Collection)
	elem := ctype.ElemOf(collType)
	var itemType ctype.Type
	switch {
	case elem != nil:
		itemType = elem
	case isMap(collType):
		itemType = mapOf(collType).Value
	default:
		c.diags.Errorf(st.Line(), diagnostic.TypeMismatch,
			"for-in requires an array, slice, varargs, or map, got %s", describeType(collType))
	}

	c.pushScope()
	c.declare(st.ItemVar, itemType, st.Mutable)
	if st.IndexVar != "" {
		c.declare(st.IndexVar, &ctype.Named{Name: ctype.U64}, false)
	}
	c.loopDepth++
	for _, s := range st.Body.Stmts {
		c.checkStmt(s)
	}
	c.loopDepth--
	c.popScope()
}

func isMap(t ctype.Type) bool {
	_, ok := t.(*ctype.Map)
	return ok
}

func mapOf(t ctype.Type) *ctype.Map {
	m, _ := t.(*ctype.Map)
	return m
}

func (c *Checker) checkReturn(st *ast.Return) {
	if ctype.IsVoidType(c.returnType) {
		if st.Value != nil {
			c.diags.Errorf(st.Line(), diagnostic.VoidFunctionReturnsValue, "void function returns a value")
			c.checkExpr(st.Value)
		}
		return
	}
	if st.Value == nil {
		c.diags.Errorf(st.Line(), diagnostic.TypeMismatch, "missing return value for a function returning %s", describeType(c.returnType))
		return
	}
	valueType := c.checkExpr(st.Value)
	if !c.assignable(c.returnType, valueType) {
		c.diags.Errorf(st.Line(), diagnostic.TypeMismatch,
			"cannot return %s from a function declared to return %s", describeType(valueType), describeType(c.returnType))
		return
	}
	st.Value = c.maybeWiden(c.returnType, valueType, st.Value)
	c.checkReturnStackReference(st)
}

// checkReturnStackReference rejects `return &local` when local is an
// ordinary stack-scoped variable rather than something heap-allocated
// with `new`: the pointee would be destroyed the moment the function's
// C stack frame unwinds.
func (c *Checker) checkReturnStackReference(st *ast.Return) {
	unary, ok := st.Value.(*ast.UnaryExpr)
	if !ok || unary.Op != "&" {
		return
	}
	ident, ok := unary.Operand.(*ast.Ident)
	if !ok {
		return
	}
	if _, ok := c.lookup(ident.Name); ok {
		c.diags.Errorf(st.Line(), diagnostic.ReturnStackReference,
			"returning the address of local variable %q, which does not outlive this call", ident.Name)
	}
}

func (c *Checker) checkExpectBool(t ctype.Type, line int) {
	if !ctype.IsBool(t) {
		c.diags.Errorf(line, diagnostic.TypeMismatch, "condition must be bool, got %s", describeType(t))
	}
}
