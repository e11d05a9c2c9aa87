// Package cname assigns the stable, unique C identifier every function
// is emitted under.
//
// A name is derived deterministically from the CZ name plus whatever
// disambiguates it: a receiver type prefix for methods, a parameter-type
// suffix for overloads, and a concrete-type suffix for generic
// instances. `main` is special-cased to `main_main` so it never
// collides with the C entry point CZar itself emits. This is not a
// shortest-unique-name minifier — CZ names must stay readable in the
// generated C for debugging, so the assignment is purely structural.
package cname

import (
	"fmt"
	"strings"

	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/ctype"
)

// Assigner assigns CName to every function in a module.
type Assigner struct {
	seen map[string]bool
}

// New creates an Assigner.
func New() *Assigner {
	return &Assigner{seen: make(map[string]bool)}
}

// Run assigns Function.CName for every function item in module,
// including generic instances produced by internal/collect.
func (a *Assigner) Run(module *ast.Module) {
	for _, item := range module.Items {
		fn, ok := item.(*ast.Function)
		if !ok {
			continue
		}
		fn.CName = a.assign(fn)
	}
}

func (a *Assigner) assign(fn *ast.Function) string {
	var sb strings.Builder

	switch {
	case fn.Receiver == "" && fn.Name == "main":
		sb.WriteString("main_main")
	case fn.Receiver != "":
		fmt.Fprintf(&sb, "%s_%s", fn.Receiver, fn.Name)
	default:
		sb.WriteString(fn.Name)
	}

	if fn.IsGenericInstance && fn.GenericConcreteType != "" {
		fmt.Fprintf(&sb, "__%s", sanitize(fn.GenericConcreteType))
	}

	if fn.IsOverloaded {
		for _, p := range fn.Params {
			sb.WriteString("_")
			sb.WriteString(suffixFor(p.Type))
		}
	}

	name := sb.String()
	if a.seen[name] {
		// Two overloads that stringify identically after suffixing
		// (e.g. two distinct struct types sharing a name across
		// modules) fall back to a numeric disambiguator.
		for i := 2; ; i++ {
			candidate := fmt.Sprintf("%s_%d", name, i)
			if !a.seen[candidate] {
				name = candidate
				break
			}
		}
	}
	a.seen[name] = true
	return name
}

// suffixFor renders a parameter type as a short identifier-safe suffix.
func suffixFor(t ctype.Type) string {
	if t == nil {
		return "any"
	}
	return sanitize(t.String())
}

var sanitizeReplacer = strings.NewReplacer(
	"*", "ptr",
	"?", "opt",
	"[]", "slice",
	"[", "arr", "]", "",
	"(", "", ")", "", ",", "_", " ", "",
)

func sanitize(s string) string {
	return sanitizeReplacer.Replace(s)
}
