// Package diagnostic provides structured error and warning reporting for
// the CZar compiler pipeline.
//
// Every diagnostic carries a severity, the source file it came from, a
// 1-indexed line number, an identifier drawn from the closed taxonomy in
// Kind, a human-readable message, and an optional source snippet. The
// pipeline accumulates diagnostics per phase; a phase that produced any
// error-severity diagnostic halts the pipeline before the next phase runs.
package diagnostic

import (
	"fmt"
	"strings"
)

// Severity represents the severity level of a diagnostic.
type Severity uint8

const (
	// Error halts the pipeline after the current phase.
	Error Severity = iota
	// Warning never halts the pipeline.
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// Kind is the closed taxonomy of diagnostic identifiers.
type Kind string

const (
	Lexical                   Kind = "Lexical"
	Parse                     Kind = "Parse"
	DuplicateDeclaration      Kind = "DuplicateDeclaration"
	UndeclaredIdentifier      Kind = "UndeclaredIdentifier"
	UndefinedFunction         Kind = "UndefinedFunction"
	UndefinedStruct           Kind = "UndefinedStruct"
	FieldNotFound             Kind = "FieldNotFound"
	TypeMismatch              Kind = "TypeMismatch"
	PointerArithmeticForbidden Kind = "PointerArithmeticForbidden"
	DivisionByZero            Kind = "DivisionByZero"
	ArrayIndexOutOfBounds     Kind = "ArrayIndexOutOfBounds"
	MutabilityViolation       Kind = "MutabilityViolation"
	ConstQualifierDiscarded   Kind = "ConstQualifierDiscarded"
	ReturnStackReference      Kind = "ReturnStackReference"
	MissingReturn             Kind = "MissingReturn"
	VoidFunctionReturnsValue  Kind = "VoidFunctionReturnsValue"
	MissingMainFunction       Kind = "MissingMainFunction"
	InvalidMainSignature      Kind = "InvalidMainSignature"
	InvalidModuleName         Kind = "InvalidModuleName"
	InvalidStructName         Kind = "InvalidStructName"
	MissingField              Kind = "MissingField"
	MissingMethod             Kind = "MissingMethod"
	MismatchedSignature       Kind = "MismatchedSignature"
	UseAfterFree              Kind = "UseAfterFree"
	StackOverflow             Kind = "StackOverflow"
	AmbiguousOrUnmatchedOverload Kind = "AmbiguousOrUnmatchedOverload"
	BreakOutsideLoop          Kind = "BreakOutsideLoop"
	ContinueOutsideLoop       Kind = "ContinueOutsideLoop"
	InvalidLoopLevel          Kind = "InvalidLoopLevel"

	// Warnings.
	UnsafeCFunction         Kind = "UnsafeCFunction"
	UnusedImport            Kind = "UnusedImport"
	EnumValueNotUppercase   Kind = "EnumValueNotUppercase"
	StackWarning            Kind = "StackWarning"
	MissingModuleDeclaration Kind = "MissingModuleDeclaration"
	UselessInterface        Kind = "UselessInterface"
	DuplicateAlias          Kind = "DuplicateAlias"
)

// Diagnostic is a single structured error or warning.
type Diagnostic struct {
	Severity   Severity
	SourcePath string
	Line       int
	ID         Kind
	Message    string
	Snippet    string // optional, already trimmed source line
}

// Error implements the error interface so a Diagnostic can be returned
// from functions that want Go-idiomatic error propagation at call sites
// that don't care about the structured shape.
func (d Diagnostic) Error() string {
	return d.Format()
}

// Format renders the diagnostic as:
//
//	<severity> <source_path>:<line>: [<id>] <message>
//
// followed by an optional two-space-indented source snippet.
func (d Diagnostic) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s:%d: [%s] %s", d.Severity, d.SourcePath, d.Line, d.ID, d.Message)
	if d.Snippet != "" {
		sb.WriteByte('\n')
		sb.WriteString("  \"")
		sb.WriteString(d.Snippet)
		sb.WriteString("\"")
	}
	return sb.String()
}

// List accumulates diagnostics for one compile. The pipeline creates a
// single List and passes it to every stage in turn; it is the only
// shared mutable resource passed between stages.
type List struct {
	items      []Diagnostic
	sourcePath string
	source     string
	hasErrors  bool
}

// NewList creates a diagnostic list for a given source file.
func NewList(sourcePath, source string) *List {
	return &List{sourcePath: sourcePath, source: source}
}

// Errorf records an error-severity diagnostic at the given line.
func (l *List) Errorf(line int, id Kind, format string, args ...interface{}) {
	l.add(Error, line, id, fmt.Sprintf(format, args...))
}

// Warnf records a warning-severity diagnostic at the given line.
func (l *List) Warnf(line int, id Kind, format string, args ...interface{}) {
	l.add(Warning, line, id, fmt.Sprintf(format, args...))
}

func (l *List) add(sev Severity, line int, id Kind, message string) {
	d := Diagnostic{
		Severity:   sev,
		SourcePath: l.sourcePath,
		Line:       line,
		ID:         id,
		Message:    message,
		Snippet:    l.sourceLine(line),
	}
	l.items = append(l.items, d)
	if sev == Error {
		l.hasErrors = true
	}
}

func (l *List) sourceLine(line int) string {
	if line < 1 {
		return ""
	}
	lines := strings.Split(l.source, "\n")
	if line > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[line-1], "\r")
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (l *List) HasErrors() bool { return l.hasErrors }

// Items returns all recorded diagnostics, in recording order.
func (l *List) Items() []Diagnostic { return l.items }

// Errors returns only the error-severity diagnostics.
func (l *List) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range l.items {
		if d.Severity == Error {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the warning-severity diagnostics.
func (l *List) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range l.items {
		if d.Severity == Warning {
			out = append(out, d)
		}
	}
	return out
}

// Format renders every diagnostic, one per line (plus snippet lines),
// in recording order.
func (l *List) Format() string {
	var sb strings.Builder
	for _, d := range l.items {
		sb.WriteString(d.Format())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Merge appends another list's diagnostics into this one (used when the
// module resolver pulls diagnostics up from an imported module's parse).
func (l *List) Merge(other *List) {
	l.items = append(l.items, other.items...)
	if other.hasErrors {
		l.hasErrors = true
	}
}
