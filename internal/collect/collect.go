// Package collect runs the declaration-collection stage of the
// pipeline: it walks a module's top-level items once, rejecting
// duplicate struct/interface/enum/alias names, grouping functions into
// overload sets, and expanding each `Generics`-bearing function into one
// concrete instance per listed type. This is a structural pass over
// names and signatures; actual type compatibility checking is
// internal/check's job.
//
// Declarations are registered in two phases (collectTypeNames then
// collectOverloads/expandGenerics), each over the full item list, rather
// than cross-checking a name the moment it's seen.
package collect

import (
	"fmt"
	"strings"

	"github.com/dolthub/swiss"

	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/diagnostic"
)

// overloadKey identifies one (receiver, name) overload set.
type overloadKey struct {
	Receiver string
	Name     string
}

// Collector runs declaration collection over one module.
type Collector struct {
	module *ast.Module
	diags  *diagnostic.List

	typeNames *swiss.Map[string, int] // struct/interface/enum/alias name -> declaring line
	overloads *swiss.Map[overloadKey, []*ast.Function]
}

// New creates a Collector for module, reporting into diags.
func New(module *ast.Module, diags *diagnostic.List) *Collector {
	return &Collector{
		module:    module,
		diags:     diags,
		typeNames: swiss.NewMap[string, int](8),
		overloads: swiss.NewMap[overloadKey, []*ast.Function](8),
	}
}

// Run collects declarations, rejects duplicates, expands generics, and
// stamps Signature/IsOverloaded/IsGenericInstance/GenericConcreteType on
// every Function. It rewrites module.Items in place, replacing each
// generic template with its monomorphized instances.
func (c *Collector) Run() {
	c.collectTypeNames()
	c.module.Items = c.expandGenerics(c.module.Items)
	c.collectOverloads()
	c.stampOverloadFlags()
}

func (c *Collector) collectTypeNames() {
	for _, item := range c.module.Items {
		var name string
		switch d := item.(type) {
		case *ast.Struct:
			name = d.Name
		case *ast.Interface:
			name = d.Name
		case *ast.Enum:
			name = d.Name
		case *ast.TypeAlias:
			name = d.Name
		default:
			continue
		}
		if prevLine, ok := c.typeNames.Get(name); ok {
			c.diags.Errorf(item.Line(), diagnostic.DuplicateDeclaration,
				"%q is already declared at line %d", name, prevLine)
			continue
		}
		c.typeNames.Put(name, item.Line())
	}
}

// expandGenerics replaces every Function carrying a non-empty Generics
// list with one concrete instance per listed type, later named
// "<name>__<Type>" by internal/cname; the template itself is dropped
// from the item list. Each instance is a shallow copy of the template:
// its parameter and return types are not rewritten.
func (c *Collector) expandGenerics(items []ast.Item) []ast.Item {
	out := make([]ast.Item, 0, len(items))
	for _, item := range items {
		fn, ok := item.(*ast.Function)
		if !ok || len(fn.Generics) == 0 {
			out = append(out, item)
			continue
		}
		for _, concrete := range fn.Generics {
			instance := *fn
			instance.IsGenericInstance = true
			instance.GenericConcreteType = concrete
			instance.Generics = nil
			out = append(out, &instance)
		}
	}
	return out
}

func (c *Collector) collectOverloads() {
	for _, item := range c.module.Items {
		fn, ok := item.(*ast.Function)
		if !ok {
			continue
		}
		fn.Signature = signatureOf(fn)
		key := overloadKey{Receiver: fn.Receiver, Name: fn.Name}
		set, _ := c.overloads.Get(key)
		for _, existing := range set {
			if existing.Signature == fn.Signature && existing.GenericConcreteType == fn.GenericConcreteType {
				c.diags.Errorf(fn.Line(), diagnostic.DuplicateDeclaration,
					"function %q is already declared with signature (%s)", fn.Name, fn.Signature)
				continue
			}
			if fn.GenericConcreteType == "" && existing.GenericConcreteType == "" {
				checkSingleTypeVariance(c.diags, existing, fn)
			}
		}
		c.overloads.Put(key, append(set, fn))
	}
}

// checkSingleTypeVariance enforces that two overloads of equal arity vary
// by one consistent (from-type -> to-type) change across every position
// where their parameter types differ. (u8, u8) -> (f32, f32) is a single
// change applied twice and is accepted; (u8, f32) -> (u32, f64) applies
// two different changes and is rejected.
func checkSingleTypeVariance(diags *diagnostic.List, a, b *ast.Function) {
	if len(a.Params) != len(b.Params) {
		return
	}
	var from, to string
	for i := range a.Params {
		at, bt := a.Params[i].Type, b.Params[i].Type
		if at == nil || bt == nil || at.Equals(bt) {
			continue
		}
		af, bf := at.String(), bt.String()
		if from == "" && to == "" {
			from, to = af, bf
			continue
		}
		if af != from || bf != to {
			diags.Errorf(b.Line(), diagnostic.AmbiguousOrUnmatchedOverload,
				"overload %q(%s) does not vary consistently with %q(%s): every differing parameter must change the same way",
				b.Name, b.Signature, a.Name, a.Signature)
			return
		}
	}
}

func (c *Collector) stampOverloadFlags() {
	c.overloads.Iter(func(_ overloadKey, set []*ast.Function) bool {
		if len(set) > 1 {
			for _, fn := range set {
				fn.IsOverloaded = true
			}
		}
		return true
	})
}

// signatureOf renders a function's parameter types, comma-joined, for
// use as an overload-set disambiguator.
func signatureOf(fn *ast.Function) string {
	parts := make([]string, 0, len(fn.Params))
	for _, p := range fn.Params {
		if p.Type == nil {
			parts = append(parts, "?")
			continue
		}
		parts = append(parts, p.Type.String())
	}
	return strings.Join(parts, ",")
}

// OverloadSet returns the functions sharing a (receiver, name) pair, or
// nil if there are none.
func (c *Collector) OverloadSet(receiver, name string) []*ast.Function {
	set, _ := c.overloads.Get(overloadKey{Receiver: receiver, Name: name})
	return set
}

// Describe renders a human-readable summary of one overload set, used
// by diagnostic messages that need to list candidate signatures (spec
// §4.4 "AmbiguousOrUnmatchedOverload").
func Describe(set []*ast.Function) string {
	var sb strings.Builder
	for i, fn := range set {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%s(%s)", fn.Name, fn.Signature)
	}
	return sb.String()
}
