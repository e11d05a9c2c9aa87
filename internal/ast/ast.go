// Package ast defines the Abstract Syntax Tree for CZ source files.
//
// The tree is immutable after construction except for two mutations:
// declaration collection rewrites the top-level Item list in place
// (generic expansion, duplicate detection) and stamps every Function
// with Signature/IsOverloaded/IsGenericInstance, C-name assignment sets
// Function.CName, and the type checker annotates every Expr with
// InferredType. Every node owns its
// children; there are no back-edges.
package ast

import "github.com/shkschneider/czar/internal/ctype"

// ----------------------------------------------------------------------------
// Module
// ----------------------------------------------------------------------------

// Module is the root of one parsed CZ source file.
type Module struct {
	Name       string // from #module, empty if absent
	NameLine   int
	Source     string
	SourcePath string
	Imports    []*Import
	Items      []Item
}

// Import is one `import cz.<path>` declaration.
type Import struct {
	Path  string // dotted path, e.g. "cz.fmt"
	Alias string // defaults to the last path component
	Line  int
	Used  bool // set by the resolver's usage pass
}

// ----------------------------------------------------------------------------
// Items
// ----------------------------------------------------------------------------

// Item is a top-level declaration.
type Item interface {
	Line() int
	isItem()
}

type itemBase struct{ LineNo int }

func (b itemBase) Line() int { return b.LineNo }

// Visibility controls whether a struct field is visible to other modules.
type Visibility uint8

const (
	Private Visibility = iota
	Public
)

// Field is one struct/interface member.
type Field struct {
	Name       string
	Type       ctype.Type
	Visibility Visibility
	Line       int
}

// MethodSig is one interface method requirement (no body).
type MethodSig struct {
	Name       string
	Params     []Param
	ReturnType ctype.Type
	Line       int
}

// Struct is `struct Name { fields } [implements I]`.
type Struct struct {
	itemBase
	Name       string
	Fields     []Field
	Implements string // interface name, empty if none

	// Layout, computed by internal/check.resolveStructLayouts.
	FieldOffsets map[string]int
	ByteSize     int
}

func (*Struct) isItem() {}

// Interface is `interface Name { fields; method signatures }`.
type Interface struct {
	itemBase
	Name    string
	Fields  []Field
	Methods []MethodSig
}

func (*Interface) isItem() {}

// Enum is `enum Name { VALUE, VALUE, ... }`.
type Enum struct {
	itemBase
	Name   string
	Values []string
}

func (*Enum) isItem() {}

// Param is one function parameter.
type Param struct {
	Name    string
	Type    ctype.Type
	Mutable bool
	Default Expr // optional
	Line    int
}

// Function is `fn [receiver.]name(params) [-> generics] returnType { body }`,
// or an #unsafe-bodied function whose Body is nil and RawC holds the
// verbatim C emitted in its place.
type Function struct {
	itemBase
	Name       string
	Receiver   string // struct type name, empty for free functions
	Params     []Param
	Generics   []string // concrete type names for a single type parameter T; instances keep the template's types unchanged
	ReturnType ctype.Type
	Body       *Block
	Inline     bool
	Unsafe     bool
	RawC       string // verbatim body for #unsafe-only functions

	// Assigned by internal/collect, except CName (internal/cname).
	Signature           string // comma-joined parameter type strings
	CName               string
	IsOverloaded        bool
	IsGenericInstance   bool
	GenericConcreteType string
}

func (*Function) isItem() {}

// IsConstructor reports whether this is an init/fini lifecycle method,
// which may take only `self`.
func (f *Function) IsConstructor() bool {
	return f.Receiver != "" && (f.Name == "init" || f.Name == "fini")
}

// TypeAlias is `#alias Name = Type`.
type TypeAlias struct {
	itemBase
	Name   string
	Target ctype.Type
}

func (*TypeAlias) isItem() {}

// AllocatorMacro is `#alloc <name>` selecting default/debug/arena.
type AllocatorMacro struct {
	itemBase
	Name string
}

func (*AllocatorMacro) isItem() {}

// RunItem is a top-level `#run { commands }` block. Its commands have
// already executed synchronously during parsing; the node is retained
// only so the generated output and diagnostics can cite it.
type RunItem struct {
	itemBase
	Commands string
	ExitCode int
}

func (*RunItem) isItem() {}

// InitBlock is `#init { ... }`, a module-level side-effect block run
// once before main (collected by the resolver from imported modules).
type InitBlock struct {
	itemBase
	Body *Block
}

func (*InitBlock) isItem() {}

// ----------------------------------------------------------------------------
// Statements
// ----------------------------------------------------------------------------

// Stmt is one statement.
type Stmt interface {
	Line() int
	isStmt()
}

type stmtBase struct{ LineNo int }

func (b stmtBase) Line() int { return b.LineNo }

// Block is an ordered list of statements within braces.
type Block struct {
	Stmts []Stmt
}

// VarDecl is `[mut] name Type = init` or `name := init`.
type VarDecl struct {
	stmtBase
	Name    string
	Type    ctype.Type // nil if elided and inferred from Init
	Mutable bool
	Init    Expr
}

func (*VarDecl) isStmt() {}

// Assign is `target = value`.
type Assign struct {
	stmtBase
	Target Expr
	Value  Expr
}

func (*Assign) isStmt() {}

// CompoundAssign is `target += value` and friends.
type CompoundAssign struct {
	stmtBase
	Target Expr
	Op     string // "+", "-", "*", "/", "%"
	Value  Expr
}

func (*CompoundAssign) isStmt() {}

// ElseIf is one `elseif cond { ... }` arm.
type ElseIf struct {
	Cond Expr
	Body *Block
	Line int
}

// If is `if cond { } [elseif cond { }]* [else { }]`.
type If struct {
	stmtBase
	Cond    Expr
	Then    *Block
	ElseIfs []ElseIf
	Else    *Block // nil if absent
}

func (*If) isStmt() {}

// While is `while cond { }`.
type While struct {
	stmtBase
	Cond Expr
	Body *Block
}

func (*While) isStmt() {}

// ForIn is `for [mut] item [, index] in collection { }`.
type ForIn struct {
	stmtBase
	IndexVar   string // empty if not bound
	ItemVar    string
	Mutable    bool
	Collection Expr
	Body       *Block
}

func (*ForIn) isStmt() {}

// RepeatN is `repeat N { }`.
type RepeatN struct {
	stmtBase
	Count Expr
	Body  *Block
}

func (*RepeatN) isStmt() {}

// Break is `break [L]`, L >= 1.
type Break struct {
	stmtBase
	Level int // 0 means unspecified (equivalent to 1)
}

func (*Break) isStmt() {}

// Continue is `continue [L]`, L >= 1.
type Continue struct {
	stmtBase
	Level int
}

func (*Continue) isStmt() {}

// Return is `return [value]`.
type Return struct {
	stmtBase
	Value Expr // nil for void returns
}

func (*Return) isStmt() {}

// Free is `free target`.
type Free struct {
	stmtBase
	Target Expr
}

func (*Free) isStmt() {}

// Discard is `_ = expr`.
type Discard struct {
	stmtBase
	Value Expr
}

func (*Discard) isStmt() {}

// ExprStmt is a bare expression used for its side effect (a call).
type ExprStmt struct {
	stmtBase
	Value Expr
}

func (*ExprStmt) isStmt() {}

// UnsafeBlock is `#unsafe { raw C }`, spliced verbatim into the output.
type UnsafeBlock struct {
	stmtBase
	RawC string
}

func (*UnsafeBlock) isStmt() {}

// MacroKind distinguishes the assert/log/todo/fixme statement macros.
type MacroKind uint8

const (
	MacroAssert MacroKind = iota
	MacroLog
	MacroTodo
	MacroFixme
)

// MacroStmt is one of `assert`, `log`, `todo`, `fixme`.
type MacroStmt struct {
	stmtBase
	Kind MacroKind
	Args []Expr
}

func (*MacroStmt) isStmt() {}

// RunStmt is a `#run { commands }` block appearing inside a function
// body. Like RunItem, its side effect has already happened during parsing.
type RunStmt struct {
	stmtBase
	Commands string
	ExitCode int
}

func (*RunStmt) isStmt() {}

// ----------------------------------------------------------------------------
// Expressions
// ----------------------------------------------------------------------------

// Expr is one expression. Every Expr gains InferredType during type
// checking.
type Expr interface {
	Line() int
	Type() ctype.Type
	SetType(ctype.Type)
	isExpr()
}

type exprBase struct {
	LineNo       int
	InferredType ctype.Type
}

func (b exprBase) Line() int             { return b.LineNo }
func (b exprBase) Type() ctype.Type      { return b.InferredType }
func (b *exprBase) SetType(t ctype.Type) { b.InferredType = t }

// IntLit is an integer literal, optionally suffixed (e.g. "42u8").
type IntLit struct {
	exprBase
	Value  string // digits as written (decimal, 0x, 0b)
	Suffix string // optional type suffix
}

func (*IntLit) isExpr() {}

// FloatLit is a floating-point literal.
type FloatLit struct {
	exprBase
	Value  string
	Suffix string
}

func (*FloatLit) isExpr() {}

// StringLit is a string literal with escapes already resolved.
type StringLit struct {
	exprBase
	Value string
}

func (*StringLit) isExpr() {}

// BoolLit is `true`/`false`.
type BoolLit struct {
	exprBase
	Value bool
}

func (*BoolLit) isExpr() {}

// NullLit is `null`, typed nullable(void) until contextually narrowed.
type NullLit struct{ exprBase }

func (*NullLit) isExpr() {}

// CharLit is a character literal.
type CharLit struct {
	exprBase
	Value rune
}

func (*CharLit) isExpr() {}

// Ident is a bare identifier reference.
type Ident struct {
	exprBase
	Name string
}

func (*Ident) isExpr() {}

// FieldExpr is `receiver.name`.
type FieldExpr struct {
	exprBase
	Receiver Expr
	Name     string
}

func (*FieldExpr) isExpr() {}

// IndexExpr is `receiver[index]`.
type IndexExpr struct {
	exprBase
	Receiver Expr
	Index    Expr
}

func (*IndexExpr) isExpr() {}

// SliceExpr is `receiver[low:high]`.
type SliceExpr struct {
	exprBase
	Receiver   Expr
	Low, High  Expr // either may be nil
}

func (*SliceExpr) isExpr() {}

// UnaryExpr is `-x`, `!x`, `&x`, `*x`.
type UnaryExpr struct {
	exprBase
	Op      string
	Operand Expr
}

func (*UnaryExpr) isExpr() {}

// BinaryExpr is `left op right`.
type BinaryExpr struct {
	exprBase
	Op    string
	Left  Expr
	Right Expr
}

func (*BinaryExpr) isExpr() {}

// CallExpr is `callee(args)`. Method-call sugar (`recv.method(args)`)
// parses Callee as a FieldExpr; the code generator lowers it to a free
// function call passing the receiver as the first argument.
type CallExpr struct {
	exprBase
	Callee  Expr
	Args    []Expr
	MutArgs []bool // per-argument `mut` annotation at the call site
}

func (*CallExpr) isExpr() {}

// StaticMethodCall is `Type::method(args)`.
type StaticMethodCall struct {
	exprBase
	TypeName string
	Method   string
	Args     []Expr
}

func (*StaticMethodCall) isExpr() {}

// FieldInit is one `name: value` pair inside a struct/map literal.
type FieldInit struct {
	Name  string
	Value Expr
}

// StructLit is `Type{ name: value, ... }`.
type StructLit struct {
	exprBase
	TypeName string
	Fields   []FieldInit
}

func (*StructLit) isExpr() {}

// ArrayLit is `[e1, e2, ...]`.
type ArrayLit struct {
	exprBase
	Elements []Expr
}

func (*ArrayLit) isExpr() {}

// MapEntry is one `key: value` pair inside a map literal.
type MapEntry struct {
	Key   Expr
	Value Expr
}

// MapLit is `map[K]V{ k: v, ... }` used as a value (not heap-allocated).
type MapLit struct {
	exprBase
	KeyType   ctype.Type
	ValueType ctype.Type
	Entries   []MapEntry
}

func (*MapLit) isExpr() {}

// PairLit is `(left, right)` typed pair(L, R).
type PairLit struct {
	exprBase
	Left, Right Expr
}

func (*PairLit) isExpr() {}

// NewHeap is `new Type{ ... }`: heap-allocate and construct, yielding a pointer.
type NewHeap struct {
	exprBase
	TypeName string
	Fields   []FieldInit
}

func (*NewHeap) isExpr() {}

// NewArray is `new [e1, ..., en]`: heap-allocate n*sizeof(E), yielding a pointer.
type NewArray struct {
	exprBase
	ElemType ctype.Type
	Elements []Expr
}

func (*NewArray) isExpr() {}

// NewMap is `new map[K]V{ k: v, ... }`: heap-allocate a map struct.
type NewMap struct {
	exprBase
	KeyType   ctype.Type
	ValueType ctype.Type
	Entries   []MapEntry
}

func (*NewMap) isExpr() {}

// CastExpr is `expr as Type`, an infallible cast.
type CastExpr struct {
	exprBase
	Target ctype.Type
	Value  Expr
}

func (*CastExpr) isExpr() {}

// SafeCastExpr is `expr as? Type else fallback`.
type SafeCastExpr struct {
	exprBase
	Target   ctype.Type
	Value    Expr
	Fallback Expr
}

func (*SafeCastExpr) isExpr() {}

// CloneExpr is `clone(x)` or `clone<T>(x)`.
type CloneExpr struct {
	exprBase
	Value        Expr
	ExplicitType ctype.Type // nil unless clone<T>(x) was written
}

func (*CloneExpr) isExpr() {}

// NullCheckExpr is `x!!`: aborts at runtime if x is null, else yields x.
type NullCheckExpr struct {
	exprBase
	Value Expr
}

func (*NullCheckExpr) isExpr() {}

// IsCheckExpr is `x is Type`, a compile-time type query.
type IsCheckExpr struct {
	exprBase
	Value  Expr
	Target ctype.Type
}

func (*IsCheckExpr) isExpr() {}

// TypeOfExpr is `typeof(x)`, yielding the compile-time type name as a string.
type TypeOfExpr struct {
	exprBase
	Value Expr
}

func (*TypeOfExpr) isExpr() {}

// SizeOfExpr is `sizeof(Type)`.
type SizeOfExpr struct {
	exprBase
	Target ctype.Type
}

func (*SizeOfExpr) isExpr() {}

// DirectiveExpr is one of `#FILE`, `#LINE`, `#FUNCTION`, `#DEBUG`.
type DirectiveExpr struct {
	exprBase
	Name string
}

func (*DirectiveExpr) isExpr() {}

// ImplicitCastExpr is inserted by the type checker when it applies
// implicit numeric widening: the AST is rewritten to wrap the original
// value.
type ImplicitCastExpr struct {
	exprBase
	Target ctype.Type
	Value  Expr
}

func (*ImplicitCastExpr) isExpr() {}

// MutArgExpr marks an argument as passed with caller-controlled
// mutability.
type MutArgExpr struct {
	exprBase
	Value Expr
}

func (*MutArgExpr) isExpr() {}
