// Package ctype provides the CZ type system used by the declaration
// collector, type checker, lifetime analyzer, and code generator.
//
// Types form a closed sum: named, nullable, pointer, array, slice,
// varargs, map, pair, string, void, any. Every concrete variant
// implements Type; Equals is strict structural equality (the widening
// and literal-fits-in-range compatibility rules live in internal/check,
// which has the scope and constant context Equals does not).
package ctype

import (
	"fmt"
)

// Type represents a CZ type.
type Type interface {
	// String returns the CZ syntax for this type.
	String() string
	// Equals returns true if this type is structurally identical to other.
	Equals(other Type) bool
	// isType is an unexported marker restricting Type to this package's variants.
	isType()
}

// ----------------------------------------------------------------------------
// Named (covers both primitive scalars and struct/enum references)
// ----------------------------------------------------------------------------

// Named is a reference to a declared name: a primitive scalar
// (e.g. "i32", "bool"), a struct, or an enum.
type Named struct {
	Name string
}

func (n *Named) String() string  { return n.Name }
func (n *Named) isType()         {}
func (n *Named) Equals(o Type) bool {
	other, ok := o.(*Named)
	return ok && other.Name == n.Name
}

// Primitive scalar names recognized directly by the type system.
const (
	I8   = "i8"
	U8   = "u8"
	I16  = "i16"
	U16  = "u16"
	I32  = "i32"
	U32  = "u32"
	I64  = "i64"
	U64  = "u64"
	F32  = "f32"
	F64  = "f64"
	Bool = "bool"
	Char = "char"
)

var primitiveWidth = map[string]int{
	I8: 1, U8: 1, Bool: 1, Char: 1,
	I16: 2, U16: 2,
	I32: 4, U32: 4, F32: 4,
	I64: 8, U64: 8, F64: 8,
}

var primitiveSigned = map[string]bool{I8: true, I16: true, I32: true, I64: true, F32: true, F64: true}
var primitiveFloat = map[string]bool{F32: true, F64: true}
var primitiveInteger = map[string]bool{I8: true, U8: true, I16: true, U16: true, I32: true, U32: true, I64: true, U64: true}

// IsPrimitive reports whether name is one of the built-in scalar types.
func IsPrimitive(name string) bool {
	_, ok := primitiveWidth[name]
	return ok
}

// PrimitiveWidth returns the size in bytes of a primitive scalar type.
func PrimitiveWidth(name string) (int, bool) {
	w, ok := primitiveWidth[name]
	return w, ok
}

// IsInteger reports whether t is a primitive integer type.
func IsInteger(t Type) bool {
	n, ok := t.(*Named)
	return ok && primitiveInteger[n.Name]
}

// IsFloat reports whether t is a primitive floating-point type.
func IsFloat(t Type) bool {
	n, ok := t.(*Named)
	return ok && primitiveFloat[n.Name]
}

// IsNumeric reports whether t is any primitive numeric type.
func IsNumeric(t Type) bool {
	return IsInteger(t) || IsFloat(t)
}

// IsSigned reports whether a primitive numeric type is signed.
func IsSigned(t Type) bool {
	n, ok := t.(*Named)
	return ok && primitiveSigned[n.Name]
}

// IsBool reports whether t is the bool type.
func IsBool(t Type) bool {
	n, ok := t.(*Named)
	return ok && n.Name == Bool
}

// IsStructOrEnumRef reports whether t names a non-primitive declared type.
func IsStructOrEnumRef(t Type) bool {
	n, ok := t.(*Named)
	return ok && !IsPrimitive(n.Name)
}

// IsVoidType reports whether t is the void type (or nil, treated as void
// for a function whose return type was never declared).
func IsVoidType(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(*Void)
	return ok
}

// ----------------------------------------------------------------------------
// Nullable and Pointer
// ----------------------------------------------------------------------------

// Nullable is a possibly-null pointer: nullable(T), sugar-spelled T?.
type Nullable struct{ Elem Type }

func (p *Nullable) String() string { return p.Elem.String() + "?" }
func (p *Nullable) isType()        {}
func (p *Nullable) Equals(o Type) bool {
	other, ok := o.(*Nullable)
	return ok && elemEquals(p.Elem, other.Elem)
}

// Pointer is a non-null borrowed reference: pointer(T).
type Pointer struct{ Elem Type }

func (p *Pointer) String() string { return p.Elem.String() + "*" }
func (p *Pointer) isType()        {}
func (p *Pointer) Equals(o Type) bool {
	other, ok := o.(*Pointer)
	return ok && elemEquals(p.Elem, other.Elem)
}

func elemEquals(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equals(b)
}

// ----------------------------------------------------------------------------
// Array, Slice, Varargs
// ----------------------------------------------------------------------------

// Array is a fixed-size array: array(element, size). Inferred is true
// when the source wrote "*" for the size (inferred from an initializer
// by the type checker during var-decl validation).
type Array struct {
	Elem     Type
	Size     int
	Inferred bool
}

func (a *Array) String() string {
	if a.Inferred {
		return fmt.Sprintf("%s[*]", a.Elem.String())
	}
	return fmt.Sprintf("%s[%d]", a.Elem.String(), a.Size)
}
func (a *Array) isType() {}
func (a *Array) Equals(o Type) bool {
	other, ok := o.(*Array)
	return ok && a.Size == other.Size && elemEquals(a.Elem, other.Elem)
}

// Slice is a reference to a run of elements with no owned size: slice(element).
type Slice struct{ Elem Type }

func (s *Slice) String() string { return s.Elem.String() + "[]" }
func (s *Slice) isType()        {}
func (s *Slice) Equals(o Type) bool {
	other, ok := o.(*Slice)
	return ok && elemEquals(s.Elem, other.Elem)
}

// Varargs is a parameter accepting a variable number of elements: varargs(element).
type Varargs struct{ Elem Type }

func (v *Varargs) String() string { return v.Elem.String() + "..." }
func (v *Varargs) isType()        {}
func (v *Varargs) Equals(o Type) bool {
	other, ok := o.(*Varargs)
	return ok && elemEquals(v.Elem, other.Elem)
}

// ----------------------------------------------------------------------------
// Map and Pair
// ----------------------------------------------------------------------------

// Map is map(K, V).
type Map struct{ Key, Value Type }

func (m *Map) String() string { return fmt.Sprintf("map[%s]%s", m.Key.String(), m.Value.String()) }
func (m *Map) isType()        {}
func (m *Map) Equals(o Type) bool {
	other, ok := o.(*Map)
	return ok && elemEquals(m.Key, other.Key) && elemEquals(m.Value, other.Value)
}

// Pair is pair(L, R).
type Pair struct{ Left, Right Type }

func (p *Pair) String() string { return fmt.Sprintf("pair(%s, %s)", p.Left.String(), p.Right.String()) }
func (p *Pair) isType()        {}
func (p *Pair) Equals(o Type) bool {
	other, ok := o.(*Pair)
	return ok && elemEquals(p.Left, other.Left) && elemEquals(p.Right, other.Right)
}

// ----------------------------------------------------------------------------
// String, Void, Any
// ----------------------------------------------------------------------------

// StringT is the library string struct. It is registered in the regular
// method table (internal/builtins) rather than hard-coded in the call
// emitter — see DESIGN.md Open Question 2.
type StringT struct{}

func (*StringT) String() string    { return "string" }
func (*StringT) isType()           {}
func (s *StringT) Equals(o Type) bool {
	_, ok := o.(*StringT)
	return ok
}

// Void is the absence of a value (function return type only).
type Void struct{}

func (*Void) String() string { return "void" }
func (*Void) isType()        {}
func (v *Void) Equals(o Type) bool {
	_, ok := o.(*Void)
	return ok
}

// Any is a type-erased pointer.
type Any struct{}

func (*Any) String() string { return "any" }
func (*Any) isType()        {}
func (a *Any) Equals(o Type) bool {
	_, ok := o.(*Any)
	return ok
}

// ----------------------------------------------------------------------------
// Pointer-family helpers
// ----------------------------------------------------------------------------

// IsPointerLike reports whether t is a pointer, nullable, or the any type
// (i.e. a machine-word-sized reference type).
func IsPointerLike(t Type) bool {
	switch t.(type) {
	case *Pointer, *Nullable, *Any:
		return true
	}
	return false
}

// ElemOf returns the pointee/element type of a pointer-like or
// collection-like type, or nil if t has no single element type.
func ElemOf(t Type) Type {
	switch ty := t.(type) {
	case *Pointer:
		return ty.Elem
	case *Nullable:
		return ty.Elem
	case *Array:
		return ty.Elem
	case *Slice:
		return ty.Elem
	case *Varargs:
		return ty.Elem
	}
	return nil
}

// IsIndexable reports whether t supports index expressions (array,
// slice, or varargs).
func IsIndexable(t Type) bool {
	switch t.(type) {
	case *Array, *Slice, *Varargs:
		return true
	}
	return false
}

// NullTyped returns the type assigned to the `null` literal: nullable(void).
func NullTyped() Type { return &Nullable{Elem: &Void{}} }
