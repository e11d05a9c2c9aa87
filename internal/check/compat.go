package check

import (
	"strings"

	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/ctype"
)

// assignable reports whether a value of type value may be stored into a
// location of type target without an explicit `as` cast.
func (c *Checker) assignable(target, value ctype.Type) bool {
	target = c.resolveType(target)
	value = c.resolveType(value)
	if target == nil || value == nil {
		return true // already diagnosed elsewhere; don't cascade
	}
	if target.Equals(value) {
		return true
	}
	if _, ok := target.(*ctype.Any); ok {
		return true
	}

	if numericWidens(target, value) {
		return true
	}

	if n, ok := target.(*ctype.Nullable); ok {
		if vn, ok := value.(*ctype.Nullable); ok {
			if _, isVoid := vn.Elem.(*ctype.Void); isVoid {
				return true // the `null` literal fits any nullable slot
			}
			return c.assignable(n.Elem, vn.Elem)
		}
		if p, ok := value.(*ctype.Pointer); ok {
			return c.assignable(n.Elem, p.Elem)
		}
		return c.assignable(n.Elem, value)
	}

	if arr, ok := value.(*ctype.Array); ok {
		if sl, ok := target.(*ctype.Slice); ok {
			return c.assignable(sl.Elem, arr.Elem)
		}
	}

	if iface, ok := target.(*ctype.Named); ok {
		if structName := c.underlyingStructName(value); structName != "" {
			if s, ok := c.structs[structName]; ok && s.Implements == iface.Name {
				return true
			}
		}
	}

	return false
}

// numericWidens reports whether value may be implicitly widened to target.
func numericWidens(target, value ctype.Type) bool {
	tn, tok := target.(*ctype.Named)
	vn, vok := value.(*ctype.Named)
	if !tok || !vok {
		return false
	}
	if !ctype.IsNumeric(tn) || !ctype.IsNumeric(vn) {
		return false
	}
	tw, _ := ctype.PrimitiveWidth(tn.Name)
	vw, _ := ctype.PrimitiveWidth(vn.Name)

	switch {
	case ctype.IsFloat(tn) && ctype.IsInteger(vn):
		return true
	case ctype.IsFloat(tn) && ctype.IsFloat(vn):
		return tw >= vw
	case ctype.IsInteger(tn) && ctype.IsInteger(vn):
		return tw >= vw && ctype.IsSigned(tn) == ctype.IsSigned(vn)
	default:
		return false
	}
}

// maybeWiden wraps expr in an ImplicitCastExpr when target and value
// differ but value is assignable to target, so the code generator emits
// the conversion explicitly rather than relying on C's own (looser)
// implicit conversions.
func (c *Checker) maybeWiden(target, value ctype.Type, expr ast.Expr) ast.Expr {
	if target == nil || value == nil || target.Equals(value) {
		return expr
	}
	n := &ast.ImplicitCastExpr{Target: target, Value: expr}
	n.LineNo = expr.Line()
	n.SetType(target)
	return n
}

// widerOf returns whichever of a, b is the dominant type in a binary
// arithmetic expression: float over int, and the larger width within a
// category.
func widerOf(a, b ctype.Type) ctype.Type {
	an, aok := a.(*ctype.Named)
	bn, bok := b.(*ctype.Named)
	if !aok || !bok {
		return a
	}
	if ctype.IsFloat(an) != ctype.IsFloat(bn) {
		if ctype.IsFloat(an) {
			return a
		}
		return b
	}
	aw, _ := ctype.PrimitiveWidth(an.Name)
	bw, _ := ctype.PrimitiveWidth(bn.Name)
	if bw > aw {
		return b
	}
	return a
}

func describeType(t ctype.Type) string {
	if t == nil {
		return "<unknown>"
	}
	return t.String()
}

func joinTypes(types []ctype.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = describeType(t)
	}
	return strings.Join(parts, ", ")
}
