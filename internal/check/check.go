// Package check runs the type-checking stage of the pipeline: name
// resolution, type compatibility and widening, mutability enforcement,
// interface conformance, exhaustive-return checking, loop-statement
// scoping, overload resolution, and caller-controlled mutability. It
// owns the scope stack entirely itself — the AST carries no symbol
// table of its own; scope-stack maintenance belongs to this stage, not
// to internal/ast or internal/parser.
//
// Struct field layout (FieldOffsets/ByteSize) is also resolved here,
// since it requires the same closed set of declared types this stage
// already collects; internal/lifetime consumes the resolved sizes for
// its stack-budget estimate rather than recomputing them.
package check

import (
	"strings"

	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/collect"
	"github.com/shkschneider/czar/internal/ctype"
	"github.com/shkschneider/czar/internal/diagnostic"
)

// pointerSize is the assumed machine word width in bytes: CZ targets a
// 64-bit host C compiler exclusively.
const pointerSize = 8

// symbol is one scope entry: a variable's type and whether it may be
// reassigned or passed as a `mut` argument.
type symbol struct {
	Type    ctype.Type
	Mutable bool
}

type scope map[string]symbol

// Checker runs type checking over one module.
type Checker struct {
	module    *ast.Module
	diags     *diagnostic.List
	collector *collect.Collector
	imports   map[string]*ast.Module // import path -> resolved module (local imports only)

	structs    map[string]*ast.Struct
	interfaces map[string]*ast.Interface
	enums      map[string]*ast.Enum
	aliases    map[string]ctype.Type

	scopes     []scope
	currentFn  *ast.Function
	returnType ctype.Type
	loopDepth  int
	isEntry    bool
}

// Option configures a Checker at construction time.
type Option func(*Checker)

// AsEntryModule marks module as the compilation's entry point, so a
// missing `main` is reported; library modules pulled in only through
// imports are never required to have one.
func AsEntryModule() Option {
	return func(c *Checker) { c.isEntry = true }
}

// New creates a Checker for module. imports maps each local import's
// path to its already-resolved module (produced by internal/resolver);
// it may be nil for a module with no local imports.
func New(module *ast.Module, diags *diagnostic.List, collector *collect.Collector, imports map[string]*ast.Module, opts ...Option) *Checker {
	c := &Checker{
		module:     module,
		diags:      diags,
		collector:  collector,
		imports:    imports,
		structs:    make(map[string]*ast.Struct),
		interfaces: make(map[string]*ast.Interface),
		enums:      make(map[string]*ast.Enum),
		aliases:    make(map[string]ctype.Type),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the full type-checking stage over the module.
func (c *Checker) Run() {
	c.collectTypeDefs()
	c.resolveStructLayouts()
	c.checkUnusedImports()
	c.checkEnumNaming()
	c.checkModuleNaming()
	c.checkMain()
	c.checkInterfaceConformance()

	for _, item := range c.module.Items {
		if fn, ok := item.(*ast.Function); ok {
			c.checkFunction(fn)
		}
	}
}

func (c *Checker) collectTypeDefs() {
	c.registerItems(c.module.Items)
	for _, imported := range c.imports {
		c.registerItems(imported.Items)
	}
}

func (c *Checker) registerItems(items []ast.Item) {
	for _, item := range items {
		switch d := item.(type) {
		case *ast.Struct:
			c.structs[d.Name] = d
		case *ast.Interface:
			c.interfaces[d.Name] = d
		case *ast.Enum:
			c.enums[d.Name] = d
		case *ast.TypeAlias:
			c.aliases[d.Name] = d.Target
		}
	}
}

// resolveType follows alias chains and leaves every other type
// unchanged. A defensive depth cap of 32 steps keeps an alias cycle from
// hanging the checker; when the cap is hit the type reached so far is
// returned and no diagnostic is reported.
func (c *Checker) resolveType(t ctype.Type) ctype.Type {
	for depth := 0; depth < 32; depth++ {
		n, ok := t.(*ctype.Named)
		if !ok {
			return t
		}
		target, ok := c.aliases[n.Name]
		if !ok {
			return t
		}
		t = target
	}
	return t
}

// ----------------------------------------------------------------------------
// Struct layout
// ----------------------------------------------------------------------------

func (c *Checker) resolveStructLayouts() {
	for name := range c.structs {
		c.sizeOfStruct(name, make(map[string]bool))
	}
}

func (c *Checker) sizeOfStruct(name string, visiting map[string]bool) int {
	s, ok := c.structs[name]
	if !ok {
		return pointerSize
	}
	if s.FieldOffsets != nil {
		return s.ByteSize
	}
	if visiting[name] {
		c.diags.Errorf(s.Line(), diagnostic.TypeMismatch,
			"struct %q contains itself by value; use a pointer field to break the cycle", name)
		s.FieldOffsets = map[string]int{}
		s.ByteSize = pointerSize
		return s.ByteSize
	}
	visiting[name] = true

	offsets := make(map[string]int, len(s.Fields))
	offset := 0
	for _, f := range s.Fields {
		offsets[f.Name] = offset
		offset += c.sizeOf(f.Type, visiting)
	}
	delete(visiting, name)

	s.FieldOffsets = offsets
	s.ByteSize = offset
	return s.ByteSize
}

func (c *Checker) sizeOf(t ctype.Type, visiting map[string]bool) int {
	t = c.resolveType(t)
	switch ty := t.(type) {
	case nil:
		return 0
	case *ctype.Named:
		if w, ok := ctype.PrimitiveWidth(ty.Name); ok {
			return w
		}
		if _, ok := c.enums[ty.Name]; ok {
			return 4 // enums carry an i32 tag
		}
		if _, ok := c.structs[ty.Name]; ok {
			return c.sizeOfStruct(ty.Name, visiting)
		}
		return pointerSize // unknown/opaque reference type
	case *ctype.Pointer:
		return pointerSize
	case *ctype.Nullable:
		return pointerSize
	case *ctype.Any:
		return pointerSize
	case *ctype.Array:
		return ty.Size * c.sizeOf(ty.Elem, visiting)
	case *ctype.Slice:
		return pointerSize * 2 // data pointer + length
	case *ctype.Varargs:
		return pointerSize * 2
	case *ctype.Map:
		return pointerSize // opaque runtime handle
	case *ctype.Pair:
		return c.sizeOf(ty.Left, visiting) + c.sizeOf(ty.Right, visiting)
	case *ctype.StringT:
		return pointerSize * 2 // data pointer + length
	case *ctype.Void:
		return 0
	default:
		return pointerSize
	}
}

// ----------------------------------------------------------------------------
// Scope management
// ----------------------------------------------------------------------------

func (c *Checker) pushScope() {
	c.scopes = append(c.scopes, scope{})
}

func (c *Checker) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *Checker) declare(name string, t ctype.Type, mutable bool) {
	c.scopes[len(c.scopes)-1][name] = symbol{Type: t, Mutable: mutable}
}

func (c *Checker) lookup(name string) (symbol, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if s, ok := c.scopes[i][name]; ok {
			return s, true
		}
	}
	return symbol{}, false
}

// ----------------------------------------------------------------------------
// Whole-module checks
// ----------------------------------------------------------------------------

func (c *Checker) checkUnusedImports() {
	for _, imp := range c.module.Imports {
		if !imp.Used {
			c.diags.Warnf(imp.Line, diagnostic.UnusedImport, "import %q is never used", imp.Path)
		}
	}
}

// checkEnumNaming warns on enum values that aren't all-uppercase, the
// canonical CZ convention for enumerators.
func (c *Checker) checkEnumNaming() {
	for _, item := range c.module.Items {
		e, ok := item.(*ast.Enum)
		if !ok {
			continue
		}
		for _, v := range e.Values {
			if v != strings.ToUpper(v) {
				c.diags.Warnf(e.Line(), diagnostic.EnumValueNotUppercase,
					"enum %q value %q should be uppercase", e.Name, v)
			}
		}
	}
}

func (c *Checker) checkModuleNaming() {
	if c.module.Name == "" {
		c.diags.Warnf(1, diagnostic.MissingModuleDeclaration, "source file has no #module declaration")
	}
}

func (c *Checker) checkMain() {
	for _, item := range c.module.Items {
		fn, ok := item.(*ast.Function)
		if !ok || fn.Receiver != "" || fn.Name != "main" {
			continue
		}
		if len(fn.Params) != 0 {
			c.diags.Errorf(fn.Line(), diagnostic.InvalidMainSignature, "main must take no parameters")
		}
		if !ctype.IsInteger(fn.ReturnType) {
			c.diags.Errorf(fn.Line(), diagnostic.InvalidMainSignature, "main must return an integer exit code")
		}
		return
	}
	if c.isEntry {
		c.diags.Errorf(1, diagnostic.MissingMainFunction, "module declares no main function")
	}
}

// checkInterfaceConformance verifies every `implements` struct actually
// provides the fields and method signatures its interface requires.
func (c *Checker) checkInterfaceConformance() {
	methodsByReceiver := make(map[string]map[string]*ast.Function)
	for _, item := range c.module.Items {
		fn, ok := item.(*ast.Function)
		if !ok || fn.Receiver == "" {
			continue
		}
		if methodsByReceiver[fn.Receiver] == nil {
			methodsByReceiver[fn.Receiver] = make(map[string]*ast.Function)
		}
		methodsByReceiver[fn.Receiver][fn.Name] = fn
	}

	implementedBy := make(map[string]bool)
	for _, s := range c.structs {
		if s.Implements == "" {
			continue
		}
		implementedBy[s.Implements] = true
		iface, ok := c.interfaces[s.Implements]
		if !ok {
			c.diags.Errorf(s.Line(), diagnostic.UndefinedStruct,
				"struct %q implements undeclared interface %q", s.Name, s.Implements)
			continue
		}
		for _, f := range iface.Fields {
			if !structHasField(s, f.Name) {
				c.diags.Errorf(s.Line(), diagnostic.MissingField,
					"struct %q is missing field %q required by interface %q", s.Name, f.Name, iface.Name)
			}
		}
		methods := methodsByReceiver[s.Name]
		for _, m := range iface.Methods {
			fn, ok := methods[m.Name]
			if !ok {
				c.diags.Errorf(s.Line(), diagnostic.MissingMethod,
					"struct %q is missing method %q required by interface %q", s.Name, m.Name, iface.Name)
				continue
			}
			if !signatureMatches(fn, m) {
				c.diags.Errorf(fn.Line(), diagnostic.MismatchedSignature,
					"method %s.%s does not match interface %q's signature", s.Name, m.Name, iface.Name)
			}
		}
	}

	for _, iface := range c.interfaces {
		if !implementedBy[iface.Name] {
			c.diags.Warnf(iface.Line(), diagnostic.UselessInterface,
				"interface %q is never implemented by any struct", iface.Name)
		}
	}
}

func structHasField(s *ast.Struct, name string) bool {
	for _, f := range s.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

func signatureMatches(fn *ast.Function, m ast.MethodSig) bool {
	if len(fn.Params) != len(m.Params) {
		return false
	}
	for i, p := range fn.Params {
		if !typeEquals(p.Type, m.Params[i].Type) {
			return false
		}
	}
	return typeEquals(fn.ReturnType, m.ReturnType)
}

func typeEquals(a, b ctype.Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equals(b)
}
