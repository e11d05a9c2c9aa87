package check

import (
	"strconv"

	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/builtins"
	"github.com/shkschneider/czar/internal/collect"
	"github.com/shkschneider/czar/internal/ctype"
	"github.com/shkschneider/czar/internal/diagnostic"
)

// checkExpr infers e's type, stamps it onto the node's InferredType slot,
// and returns it.
func (c *Checker) checkExpr(e ast.Expr) ctype.Type {
	t := c.inferExpr(e)
	e.SetType(t)
	return t
}

func (c *Checker) inferExpr(e ast.Expr) ctype.Type {
	switch ex := e.(type) {
	case *ast.IntLit:
		return c.inferIntLit(ex)
	case *ast.FloatLit:
		return c.inferFloatLit(ex)
	case *ast.StringLit:
		return &ctype.StringT{}
	case *ast.BoolLit:
		return &ctype.Named{Name: ctype.Bool}
	case *ast.NullLit:
		return ctype.NullTyped()
	case *ast.CharLit:
		return &ctype.Named{Name: ctype.Char}
	case *ast.Ident:
		return c.inferIdent(ex)
	case *ast.FieldExpr:
		return c.inferField(ex)
	case *ast.IndexExpr:
		return c.inferIndex(ex)
	case *ast.SliceExpr:
		return c.inferSlice(ex)
	case *ast.UnaryExpr:
		return c.inferUnary(ex)
	case *ast.BinaryExpr:
		return c.inferBinary(ex)
	case *ast.CallExpr:
		return c.checkCall(ex)
	case *ast.StaticMethodCall:
		return c.checkStaticMethodCall(ex)
	case *ast.StructLit:
		return c.checkStructLit(ex.TypeName, ex.Fields, ex.Line())
	case *ast.ArrayLit:
		return c.checkArrayLit(ex)
	case *ast.MapLit:
		c.checkMapEntries(ex.KeyType, ex.ValueType, ex.Entries)
		return &ctype.Map{Key: ex.KeyType, Value: ex.ValueType}
	case *ast.PairLit:
		return &ctype.Pair{Left: c.checkExpr(ex.Left), Right: c.checkExpr(ex.Right)}
	case *ast.NewHeap:
		c.checkStructLit(ex.TypeName, ex.Fields, ex.Line())
		return &ctype.Pointer{Elem: &ctype.Named{Name: ex.TypeName}}
	case *ast.NewArray:
		return c.checkNewArray(ex)
	case *ast.NewMap:
		c.checkMapEntries(ex.KeyType, ex.ValueType, ex.Entries)
		return &ctype.Pointer{Elem: &ctype.Map{Key: ex.KeyType, Value: ex.ValueType}}
	case *ast.CastExpr:
		c.checkExpr(ex.Value)
		return ex.Target
	case *ast.SafeCastExpr:
		c.checkExpr(ex.Value)
		fallbackType := c.checkExpr(ex.Fallback)
		if !c.assignable(ex.Target, fallbackType) {
			c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch,
				"fallback of type %s does not match cast target %s", describeType(fallbackType), describeType(ex.Target))
		}
		return ex.Target
	case *ast.CloneExpr:
		vt := c.checkExpr(ex.Value)
		if ex.ExplicitType != nil {
			if !c.assignable(ex.ExplicitType, vt) {
				c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch,
					"cannot clone a value of type %s as %s", describeType(vt), describeType(ex.ExplicitType))
			}
			return ex.ExplicitType
		}
		return vt
	case *ast.NullCheckExpr:
		vt := c.checkExpr(ex.Value)
		if n, ok := vt.(*ctype.Nullable); ok {
			return n.Elem
		}
		c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "!! requires a nullable value, got %s", describeType(vt))
		return vt
	case *ast.IsCheckExpr:
		c.checkExpr(ex.Value)
		return &ctype.Named{Name: ctype.Bool}
	case *ast.TypeOfExpr:
		c.checkExpr(ex.Value)
		return &ctype.StringT{}
	case *ast.SizeOfExpr:
		return &ctype.Named{Name: ctype.U64}
	case *ast.DirectiveExpr:
		return directiveType(ex.Name)
	case *ast.ImplicitCastExpr:
		c.checkExpr(ex.Value)
		return ex.Target
	case *ast.MutArgExpr:
		return c.checkExpr(ex.Value)
	default:
		return nil
	}
}

func directiveType(name string) ctype.Type {
	switch name {
	case "LINE":
		return &ctype.Named{Name: ctype.I32}
	case "DEBUG":
		return &ctype.Named{Name: ctype.Bool}
	default: // FILE, FUNCTION
		return &ctype.StringT{}
	}
}

func (c *Checker) inferIntLit(ex *ast.IntLit) ctype.Type {
	if ex.Suffix != "" && ctype.IsPrimitive(ex.Suffix) {
		return &ctype.Named{Name: ex.Suffix}
	}
	return &ctype.Named{Name: ctype.I32}
}

func (c *Checker) inferFloatLit(ex *ast.FloatLit) ctype.Type {
	if ex.Suffix != "" && ctype.IsPrimitive(ex.Suffix) {
		return &ctype.Named{Name: ex.Suffix}
	}
	return &ctype.Named{Name: ctype.F64}
}

func (c *Checker) inferIdent(ex *ast.Ident) ctype.Type {
	if sym, ok := c.lookup(ex.Name); ok {
		return sym.Type
	}
	if enumName, ok := c.lookupEnumValue(ex.Name); ok {
		return &ctype.Named{Name: enumName}
	}
	c.diags.Errorf(ex.Line(), diagnostic.UndeclaredIdentifier, "undeclared identifier %q", ex.Name)
	return nil
}

// lookupEnumValue finds the enum that declares value name, erroring via
// a (false, false)-shaped caller check when the value is declared by
// more than one enum.
func (c *Checker) lookupEnumValue(name string) (string, bool) {
	var found string
	count := 0
	for _, e := range c.enums {
		for _, v := range e.Values {
			if v == name {
				found = e.Name
				count++
			}
		}
	}
	return found, count == 1
}

func (c *Checker) inferField(ex *ast.FieldExpr) ctype.Type {
	if recvIdent, ok := ex.Receiver.(*ast.Ident); ok {
		if _, isLocal := c.lookup(recvIdent.Name); !isLocal {
			if _, isAlias := c.stdlibModuleForAlias(recvIdent.Name); isAlias {
				c.diags.Errorf(ex.Line(), diagnostic.UndeclaredIdentifier,
					"%s.%s is not a value export of that module", recvIdent.Name, ex.Name)
				return nil
			}
		}
	}

	recvType := c.checkExpr(ex.Receiver)
	structName := c.underlyingStructName(recvType)
	if structName == "" {
		c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "%s is not a struct field access target", describeType(recvType))
		return nil
	}
	s, ok := c.structs[structName]
	if !ok {
		c.diags.Errorf(ex.Line(), diagnostic.UndefinedStruct, "undefined struct %q", structName)
		return nil
	}
	if f := findField(s, ex.Name); f != nil {
		return f.Type
	}
	c.diags.Errorf(ex.Line(), diagnostic.FieldNotFound, "struct %q has no field %q", structName, ex.Name)
	return nil
}

func (c *Checker) underlyingStructName(t ctype.Type) string {
	switch ty := t.(type) {
	case *ctype.Named:
		if _, ok := c.structs[ty.Name]; ok {
			return ty.Name
		}
		return ""
	case *ctype.Pointer:
		return c.underlyingStructName(ty.Elem)
	case *ctype.Nullable:
		return c.underlyingStructName(ty.Elem)
	}
	return ""
}

func findField(s *ast.Struct, name string) *ast.Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

func (c *Checker) inferIndex(ex *ast.IndexExpr) ctype.Type {
	recvType := c.checkExpr(ex.Receiver)
	idxType := c.checkExpr(ex.Index)

	if m, ok := recvType.(*ctype.Map); ok {
		if !c.assignable(m.Key, idxType) {
			c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "map key type mismatch: expected %s, got %s", describeType(m.Key), describeType(idxType))
		}
		return m.Value
	}
	elem := ctype.ElemOf(recvType)
	if elem == nil {
		c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "%s is not indexable", describeType(recvType))
		return nil
	}
	if !ctype.IsInteger(idxType) {
		c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "array index must be an integer, got %s", describeType(idxType))
	}
	c.checkStaticBounds(recvType, ex.Index, ex.Line())
	return elem
}

func (c *Checker) checkStaticBounds(recvType ctype.Type, index ast.Expr, line int) {
	arr, ok := recvType.(*ctype.Array)
	if !ok || arr.Inferred {
		return
	}
	lit, ok := index.(*ast.IntLit)
	if !ok {
		return
	}
	n, err := strconv.ParseInt(lit.Value, 0, 64)
	if err != nil {
		return
	}
	if n < 0 || int(n) >= arr.Size {
		c.diags.Errorf(line, diagnostic.ArrayIndexOutOfBounds, "index %d is out of bounds for array of size %d", n, arr.Size)
	}
}

func (c *Checker) inferSlice(ex *ast.SliceExpr) ctype.Type {
	recvType := c.checkExpr(ex.Receiver)
	if ex.Low != nil {
		c.checkExpr(ex.Low)
	}
	if ex.High != nil {
		c.checkExpr(ex.High)
	}
	elem := ctype.ElemOf(recvType)
	if elem == nil {
		c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "%s cannot be sliced", describeType(recvType))
		return nil
	}
	return &ctype.Slice{Elem: elem}
}

func (c *Checker) inferUnary(ex *ast.UnaryExpr) ctype.Type {
	operand := c.checkExpr(ex.Operand)
	switch ex.Op {
	case "-":
		if !ctype.IsNumeric(operand) {
			c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "unary - requires a numeric operand, got %s", describeType(operand))
		}
		return operand
	case "!":
		if !ctype.IsBool(operand) {
			c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "unary ! requires a bool operand, got %s", describeType(operand))
		}
		return &ctype.Named{Name: ctype.Bool}
	case "&":
		return &ctype.Pointer{Elem: operand}
	case "*":
		elem := ctype.ElemOf(operand)
		if elem == nil {
			c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "cannot dereference %s", describeType(operand))
			return nil
		}
		return elem
	}
	return operand
}

func (c *Checker) inferBinary(ex *ast.BinaryExpr) ctype.Type {
	left := c.checkExpr(ex.Left)
	right := c.checkExpr(ex.Right)

	switch ex.Op {
	case "+", "-", "*", "/", "%":
		if ctype.IsPointerLike(left) || ctype.IsPointerLike(right) {
			c.diags.Errorf(ex.Line(), diagnostic.PointerArithmeticForbidden, "pointer arithmetic is forbidden")
			return left
		}
		if (ex.Op == "/" || ex.Op == "%") && isZeroIntLit(ex.Right) {
			c.diags.Errorf(ex.Line(), diagnostic.DivisionByZero, "division by the literal 0")
		}
		if !ctype.IsNumeric(left) || !ctype.IsNumeric(right) {
			c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "%s requires numeric operands, got %s and %s", ex.Op, describeType(left), describeType(right))
			return left
		}
		return widerOf(left, right)
	case "==", "!=":
		if !c.assignable(left, right) && !c.assignable(right, left) {
			c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "cannot compare %s with %s", describeType(left), describeType(right))
		}
		return &ctype.Named{Name: ctype.Bool}
	case "<", ">", "<=", ">=":
		if !ctype.IsNumeric(left) || !ctype.IsNumeric(right) {
			c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "%s requires numeric operands, got %s and %s", ex.Op, describeType(left), describeType(right))
		}
		return &ctype.Named{Name: ctype.Bool}
	case "&&", "||":
		if !ctype.IsBool(left) || !ctype.IsBool(right) {
			c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "%s requires bool operands, got %s and %s", ex.Op, describeType(left), describeType(right))
		}
		return &ctype.Named{Name: ctype.Bool}
	case "??":
		n, ok := left.(*ctype.Nullable)
		if !ok {
			c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "?? requires a nullable left operand, got %s", describeType(left))
			return right
		}
		if !c.assignable(n.Elem, right) {
			c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch, "?? fallback of type %s does not match %s", describeType(right), describeType(n.Elem))
		}
		return n.Elem
	}
	return left
}

func isZeroIntLit(e ast.Expr) bool {
	lit, ok := e.(*ast.IntLit)
	return ok && lit.Value == "0"
}

// ----------------------------------------------------------------------------
// Calls
// ----------------------------------------------------------------------------

func (c *Checker) checkCall(call *ast.CallExpr) ctype.Type {
	argTypes := make([]ctype.Type, len(call.Args))
	for i, arg := range call.Args {
		t := c.checkExpr(arg)
		argTypes[i] = t
		if i < len(call.MutArgs) && call.MutArgs[i] {
			c.checkMutArg(arg, call.Line())
			m := &ast.MutArgExpr{Value: arg}
			m.LineNo = arg.Line()
			m.SetType(t)
			call.Args[i] = m
		}
	}

	switch callee := call.Callee.(type) {
	case *ast.Ident:
		return c.checkFreeCall(callee.Name, argTypes, call.Line())
	case *ast.FieldExpr:
		return c.checkQualifiedCall(callee, argTypes, call.Line())
	default:
		c.checkExpr(callee)
		c.diags.Errorf(call.Line(), diagnostic.TypeMismatch, "expression is not callable")
		return nil
	}
}

func (c *Checker) checkMutArg(arg ast.Expr, line int) {
	switch t := arg.(type) {
	case *ast.Ident:
		sym, ok := c.lookup(t.Name)
		if ok && !sym.Mutable {
			c.diags.Errorf(line, diagnostic.MutabilityViolation, "%q must be declared mut to be passed as mut", t.Name)
		}
	case *ast.FieldExpr, *ast.IndexExpr:
		// mutability of the underlying storage, not of this temporary path
	}
}

func (c *Checker) checkFreeCall(name string, argTypes []ctype.Type, line int) ctype.Type {
	set := c.collector.OverloadSet("", name)
	if len(set) == 0 {
		c.diags.Errorf(line, diagnostic.UndefinedFunction, "undefined function %q", name)
		return nil
	}
	fn := c.resolveOverload(set, argTypes, line, name)
	if fn == nil {
		return nil
	}
	c.checkUnsafeCall(fn, line)
	return fn.ReturnType
}

func (c *Checker) checkQualifiedCall(callee *ast.FieldExpr, argTypes []ctype.Type, line int) ctype.Type {
	if recvIdent, ok := callee.Receiver.(*ast.Ident); ok {
		if _, isLocalVar := c.lookup(recvIdent.Name); !isLocalVar {
			if modPath, isAlias := c.stdlibModuleForAlias(recvIdent.Name); isAlias {
				sig := builtins.Lookup(modPath, callee.Name)
				if sig == nil {
					c.diags.Errorf(line, diagnostic.UndefinedFunction, "%s.%s is not declared in %s", recvIdent.Name, callee.Name, modPath)
					return nil
				}
				c.checkSignatureArgs(sig, argTypes, line, callee.Name)
				return sig.ReturnType
			}
			for _, imp := range c.module.Imports {
				if imp.Alias != recvIdent.Name {
					continue
				}
				if importedMod, ok := c.imports[imp.Path]; ok {
					return c.checkCrossModuleCall(importedMod, callee.Name, argTypes, line)
				}
			}
		}
	}

	recvType := c.checkExpr(callee.Receiver)
	return c.checkMethodCall(recvType, callee.Name, argTypes, line)
}

func (c *Checker) checkMethodCall(recvType ctype.Type, name string, argTypes []ctype.Type, line int) ctype.Type {
	if isStringType(recvType) {
		sig := builtins.LookupStringMethod(name)
		if sig == nil {
			c.diags.Errorf(line, diagnostic.UndefinedFunction, "string has no method %q", name)
			return nil
		}
		c.checkSignatureArgs(sig, argTypes, line, name)
		return sig.ReturnType
	}

	structName := c.underlyingStructName(recvType)
	if structName == "" {
		c.diags.Errorf(line, diagnostic.TypeMismatch, "%s has no methods", describeType(recvType))
		return nil
	}
	set := c.collector.OverloadSet(structName, name)
	if len(set) == 0 {
		c.diags.Errorf(line, diagnostic.MissingMethod, "%q has no method %q", structName, name)
		return nil
	}
	fn := c.resolveOverload(set, argTypes, line, name)
	if fn == nil {
		return nil
	}
	c.checkUnsafeCall(fn, line)
	return fn.ReturnType
}

func isStringType(t ctype.Type) bool {
	switch ty := t.(type) {
	case *ctype.StringT:
		return true
	case *ctype.Pointer:
		return isStringType(ty.Elem)
	case *ctype.Nullable:
		return isStringType(ty.Elem)
	}
	return false
}

func (c *Checker) checkCrossModuleCall(mod *ast.Module, name string, argTypes []ctype.Type, line int) ctype.Type {
	var candidates []*ast.Function
	for _, item := range mod.Items {
		if fn, ok := item.(*ast.Function); ok && fn.Receiver == "" && fn.Name == name {
			candidates = append(candidates, fn)
		}
	}
	if len(candidates) == 0 {
		c.diags.Errorf(line, diagnostic.UndefinedFunction, "%q is not exported by module %q", name, mod.Name)
		return nil
	}
	for _, fn := range candidates {
		if paramsCompatible(fn.Params, argTypes, func(a, b ctype.Type) bool { return c.assignable(a, b) }) {
			return fn.ReturnType
		}
	}
	c.diags.Errorf(line, diagnostic.AmbiguousOrUnmatchedOverload,
		"no overload of %q in module %q matches argument types (%s)", name, mod.Name, joinTypes(argTypes))
	return candidates[0].ReturnType
}

func (c *Checker) checkUnsafeCall(fn *ast.Function, line int) {
	if fn.Unsafe {
		c.diags.Warnf(line, diagnostic.UnsafeCFunction, "calling unsafe function %q", fn.Name)
	}
}

func (c *Checker) checkStaticMethodCall(sm *ast.StaticMethodCall) ctype.Type {
	argTypes := make([]ctype.Type, len(sm.Args))
	for i, arg := range sm.Args {
		argTypes[i] = c.checkExpr(arg)
	}
	set := c.collector.OverloadSet(sm.TypeName, sm.Method)
	if len(set) == 0 {
		c.diags.Errorf(sm.Line(), diagnostic.MissingMethod, "%q has no static method %q", sm.TypeName, sm.Method)
		return nil
	}
	fn := c.resolveOverload(set, argTypes, sm.Line(), sm.Method)
	if fn == nil {
		return nil
	}
	return fn.ReturnType
}

func (c *Checker) resolveOverload(set []*ast.Function, argTypes []ctype.Type, line int, name string) *ast.Function {
	// An overload whose parameter types equal the argument types exactly
	// wins outright, ahead of candidates reachable only by widening.
exact:
	for _, fn := range set {
		if len(fn.Params) != len(argTypes) {
			continue
		}
		for i, p := range fn.Params {
			if !typeEquals(p.Type, argTypes[i]) {
				continue exact
			}
		}
		return fn
	}

	var matches []*ast.Function
	for _, fn := range set {
		if paramsCompatible(fn.Params, argTypes, func(a, b ctype.Type) bool { return c.assignable(a, b) }) {
			matches = append(matches, fn)
		}
	}
	switch len(matches) {
	case 0:
		if len(set) == 1 {
			// A single declared overload: fall back to it rather than
			// reporting an overload-resolution error, and let the normal
			// argument type-checks produce the precise diagnostic.
			c.checkCallArgs(set[0], argTypes, line, name)
			return set[0]
		}
		c.diags.Errorf(line, diagnostic.AmbiguousOrUnmatchedOverload,
			"no overload of %q matches argument types (%s); candidates: %s", name, joinTypes(argTypes), collect.Describe(set))
		return nil
	case 1:
		return matches[0]
	default:
		c.diags.Errorf(line, diagnostic.AmbiguousOrUnmatchedOverload,
			"call to %q is ambiguous among %s", name, collect.Describe(matches))
		return matches[0]
	}
}

// checkCallArgs reports a precise TypeMismatch for each argument that
// isn't assignable to fn's corresponding parameter (and an arity
// mismatch when the call isn't variadic-compatible), used when overload
// resolution falls back to a sole candidate instead of matching by type.
func (c *Checker) checkCallArgs(fn *ast.Function, argTypes []ctype.Type, line int, name string) {
	variadic := len(fn.Params) > 0
	if variadic {
		_, variadic = fn.Params[len(fn.Params)-1].Type.(*ctype.Varargs)
	}
	if !variadic {
		if len(argTypes) != len(fn.Params) {
			c.diags.Errorf(line, diagnostic.TypeMismatch,
				"%q expects %d argument(s), got %d", name, len(fn.Params), len(argTypes))
			return
		}
		for i, p := range fn.Params {
			if !c.assignable(p.Type, argTypes[i]) {
				c.diags.Errorf(line, diagnostic.TypeMismatch,
					"argument %d to %q has type %s, expected %s", i+1, name, describeType(argTypes[i]), describeType(p.Type))
			}
		}
		return
	}
	fixed := fn.Params[:len(fn.Params)-1]
	if len(argTypes) < len(fixed) {
		c.diags.Errorf(line, diagnostic.TypeMismatch,
			"%q expects at least %d argument(s), got %d", name, len(fixed), len(argTypes))
		return
	}
	for i, p := range fixed {
		if !c.assignable(p.Type, argTypes[i]) {
			c.diags.Errorf(line, diagnostic.TypeMismatch,
				"argument %d to %q has type %s, expected %s", i+1, name, describeType(argTypes[i]), describeType(p.Type))
		}
	}
}

func paramsCompatible(params []ast.Param, argTypes []ctype.Type, assignable func(a, b ctype.Type) bool) bool {
	variadic := len(params) > 0
	if variadic {
		_, variadic = params[len(params)-1].Type.(*ctype.Varargs)
	}
	if !variadic {
		if len(params) != len(argTypes) {
			return false
		}
		for i, p := range params {
			if !assignable(p.Type, argTypes[i]) {
				return false
			}
		}
		return true
	}
	fixed := params[:len(params)-1]
	if len(argTypes) < len(fixed) {
		return false
	}
	for i, p := range fixed {
		if !assignable(p.Type, argTypes[i]) {
			return false
		}
	}
	return true
}

func (c *Checker) checkSignatureArgs(sig *builtins.Signature, argTypes []ctype.Type, line int, name string) {
	if !paramsCompatibleSig(sig, argTypes, func(a, b ctype.Type) bool { return c.assignable(a, b) }) {
		c.diags.Errorf(line, diagnostic.TypeMismatch, "%q does not accept argument types (%s)", name, joinTypes(argTypes))
	}
}

func paramsCompatibleSig(sig *builtins.Signature, argTypes []ctype.Type, assignable func(a, b ctype.Type) bool) bool {
	if !sig.Variadic {
		if len(sig.Params) != len(argTypes) {
			return false
		}
		for i, p := range sig.Params {
			if !assignable(p, argTypes[i]) {
				return false
			}
		}
		return true
	}
	fixed := sig.Params[:len(sig.Params)-1]
	if len(argTypes) < len(fixed) {
		return false
	}
	for i, p := range fixed {
		if !assignable(p, argTypes[i]) {
			return false
		}
	}
	return true
}

func (c *Checker) stdlibModuleForAlias(alias string) (string, bool) {
	for _, imp := range c.module.Imports {
		if imp.Alias == alias && builtins.IsModule(imp.Path) {
			return imp.Path, true
		}
	}
	return "", false
}

// ----------------------------------------------------------------------------
// Literal aggregates
// ----------------------------------------------------------------------------

func (c *Checker) checkStructLit(typeName string, fields []ast.FieldInit, line int) ctype.Type {
	s, ok := c.structs[typeName]
	if !ok {
		c.diags.Errorf(line, diagnostic.UndefinedStruct, "undefined struct %q", typeName)
		for _, fi := range fields {
			c.checkExpr(fi.Value)
		}
		return &ctype.Named{Name: typeName}
	}

	seen := make(map[string]bool, len(fields))
	for _, fi := range fields {
		vt := c.checkExpr(fi.Value)
		f := findField(s, fi.Name)
		if f == nil {
			c.diags.Errorf(line, diagnostic.FieldNotFound, "struct %q has no field %q", typeName, fi.Name)
			continue
		}
		seen[fi.Name] = true
		if !c.assignable(f.Type, vt) {
			c.diags.Errorf(line, diagnostic.TypeMismatch,
				"field %q expects %s, got %s", fi.Name, describeType(f.Type), describeType(vt))
		}
	}
	for _, f := range s.Fields {
		if !seen[f.Name] {
			c.diags.Errorf(line, diagnostic.MissingField, "struct literal for %q is missing field %q", typeName, f.Name)
		}
	}
	return &ctype.Named{Name: typeName}
}

func (c *Checker) checkArrayLit(ex *ast.ArrayLit) ctype.Type {
	var elem ctype.Type
	for i, e := range ex.Elements {
		t := c.checkExpr(e)
		if i == 0 {
			elem = t
			continue
		}
		if !c.assignable(elem, t) {
			c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch,
				"array element %d has type %s, expected %s", i, describeType(t), describeType(elem))
		}
	}
	return &ctype.Array{Elem: elem, Size: len(ex.Elements), Inferred: true}
}

func (c *Checker) checkNewArray(ex *ast.NewArray) ctype.Type {
	elem := ex.ElemType
	for i, e := range ex.Elements {
		t := c.checkExpr(e)
		if elem == nil && i == 0 {
			elem = t
			continue
		}
		if elem != nil && !c.assignable(elem, t) {
			c.diags.Errorf(ex.Line(), diagnostic.TypeMismatch,
				"array element %d has type %s, expected %s", i, describeType(t), describeType(elem))
		}
	}
	return &ctype.Pointer{Elem: &ctype.Array{Elem: elem, Size: len(ex.Elements), Inferred: ex.ElemType == nil}}
}

func (c *Checker) checkMapEntries(keyType, valueType ctype.Type, entries []ast.MapEntry) {
	for _, en := range entries {
		kt := c.checkExpr(en.Key)
		vt := c.checkExpr(en.Value)
		if keyType != nil && !c.assignable(keyType, kt) {
			c.diags.Errorf(en.Key.Line(), diagnostic.TypeMismatch, "map key has type %s, expected %s", describeType(kt), describeType(keyType))
		}
		if valueType != nil && !c.assignable(valueType, vt) {
			c.diags.Errorf(en.Value.Line(), diagnostic.TypeMismatch, "map value has type %s, expected %s", describeType(vt), describeType(valueType))
		}
	}
}
