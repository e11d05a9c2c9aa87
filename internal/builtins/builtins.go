// Package builtins defines the CZ standard library's function and
// method signatures.
//
// The runtime bodies of these functions live in the out-of-scope C
// runtime files that get spliced verbatim into generated output (spec
// §2 Non-goals); this package only carries the signatures the type
// checker needs to validate calls against `cz.fmt`, `cz.os`, and the
// `string` struct's methods, plus the three allocator variants (spec
// §10 "Supplemented Features"). `string` is registered here as an
// ordinary interface-bearing struct rather than hard-coded into the
// call emitter — see DESIGN.md Open Question 2.
package builtins

import "github.com/shkschneider/czar/internal/ctype"

// Signature is one function or method's parameter and return types.
type Signature struct {
	Params     []ctype.Type
	ReturnType ctype.Type
	Variadic   bool // true when the final param is varargs(element)
}

// Module is one `cz.<name>` standard library module's exported functions.
type Module struct {
	Name      string
	Functions map[string]*Signature
}

// Table maps `cz.<module>` import paths to their exported function table.
var Table = make(map[string]*Module)

// StringMethods maps `string` struct method names to their signatures
// (the implicit receiver is not counted in Params).
var StringMethods = make(map[string]*Signature)

// AllocatorVariants is the closed set of `#alloc` names: debug and arena
// allocators alongside the default. No compiler stage checks an `#alloc`
// item's name against it.
var AllocatorVariants = map[string]bool{
	"default": true,
	"debug":   true,
	"arena":   true,
}

func init() {
	registerFmt()
	registerOS()
	registerStringMethods()
}

func named(name string) ctype.Type { return &ctype.Named{Name: name} }

func registerFmt() {
	fmtMod := &Module{Name: "fmt", Functions: make(map[string]*Signature)}
	fmtMod.Functions["print"] = &Signature{Params: []ctype.Type{&ctype.StringT{}}, ReturnType: &ctype.Void{}}
	fmtMod.Functions["println"] = &Signature{Params: []ctype.Type{&ctype.StringT{}}, ReturnType: &ctype.Void{}}
	fmtMod.Functions["printInt"] = &Signature{Params: []ctype.Type{named(ctype.I64)}, ReturnType: &ctype.Void{}}
	fmtMod.Functions["printFloat"] = &Signature{Params: []ctype.Type{named(ctype.F64)}, ReturnType: &ctype.Void{}}
	fmtMod.Functions["format"] = &Signature{
		Params:     []ctype.Type{&ctype.StringT{}, &ctype.Varargs{Elem: &ctype.Any{}}},
		ReturnType: &ctype.StringT{},
		Variadic:   true,
	}
	Table["cz.fmt"] = fmtMod
}

func registerOS() {
	osMod := &Module{Name: "os", Functions: make(map[string]*Signature)}
	osMod.Functions["exit"] = &Signature{Params: []ctype.Type{named(ctype.I32)}, ReturnType: &ctype.Void{}}
	osMod.Functions["args"] = &Signature{Params: nil, ReturnType: &ctype.Slice{Elem: &ctype.StringT{}}}
	osMod.Functions["getenv"] = &Signature{
		Params:     []ctype.Type{&ctype.StringT{}},
		ReturnType: &ctype.Nullable{Elem: &ctype.StringT{}},
	}
	osMod.Functions["readFile"] = &Signature{
		Params:     []ctype.Type{&ctype.StringT{}},
		ReturnType: &ctype.Nullable{Elem: &ctype.StringT{}},
	}
	osMod.Functions["writeFile"] = &Signature{
		Params:     []ctype.Type{&ctype.StringT{}, &ctype.StringT{}},
		ReturnType: named(ctype.Bool),
	}
	Table["cz.os"] = osMod
}

func registerStringMethods() {
	StringMethods["length"] = &Signature{ReturnType: named(ctype.U64)}
	StringMethods["isEmpty"] = &Signature{ReturnType: named(ctype.Bool)}
	StringMethods["toUpper"] = &Signature{ReturnType: &ctype.StringT{}}
	StringMethods["toLower"] = &Signature{ReturnType: &ctype.StringT{}}
	StringMethods["concat"] = &Signature{Params: []ctype.Type{&ctype.StringT{}}, ReturnType: &ctype.StringT{}}
	StringMethods["charAt"] = &Signature{Params: []ctype.Type{named(ctype.U64)}, ReturnType: named(ctype.Char)}
	StringMethods["slice"] = &Signature{
		Params:     []ctype.Type{named(ctype.U64), named(ctype.U64)},
		ReturnType: &ctype.StringT{},
	}
	StringMethods["equals"] = &Signature{Params: []ctype.Type{&ctype.StringT{}}, ReturnType: named(ctype.Bool)}
}

// Lookup returns the signature of a stdlib function given its module
// path and name (e.g. "cz.fmt", "println"), or nil if not found.
func Lookup(modulePath, funcName string) *Signature {
	mod, ok := Table[modulePath]
	if !ok {
		return nil
	}
	return mod.Functions[funcName]
}

// LookupStringMethod returns the signature of a `string` method, or nil.
func LookupStringMethod(name string) *Signature {
	return StringMethods[name]
}

// IsModule reports whether path names a known stdlib module (e.g. "cz.fmt").
func IsModule(path string) bool {
	_, ok := Table[path]
	return ok
}
