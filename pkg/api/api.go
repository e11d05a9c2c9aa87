// Package api provides the public, embeddable compiler API.
//
// This package is intended for programmatic use of czar as a library.
// For CLI usage, see cmd/czar.
package api

import (
	"github.com/shkschneider/czar/internal/pipeline"
)

// CompileOptions controls how source is compiled to C.
type CompileOptions struct {
	// RuntimePreamble is spliced verbatim above generated declarations.
	RuntimePreamble string

	// EmitLineDirectives controls whether generated C carries #line
	// directives mapping back to CZ source.
	EmitLineDirectives bool

	// AllowRun enables `#run` directives executing shell commands at
	// compile time. Off by default since the source may not be trusted.
	AllowRun bool
}

// CompileResult contains the result of compiling one entry file.
type CompileResult struct {
	// Code is the generated C11 source.
	Code string

	// Errors contains any errors encountered during compilation.
	// If non-empty, Code is empty.
	Errors []string

	// Warnings contains non-fatal diagnostics (unused imports,
	// oversized stack frames, ...).
	Warnings []string

	// OriginalSize is the size of the input in bytes.
	OriginalSize int

	// OutputSize is the size of the generated C in bytes.
	OutputSize int
}

// Compile compiles CZ source code with default options: no `#run`,
// line directives on.
func Compile(sourcePath, source string) CompileResult {
	return CompileWithOptions(sourcePath, source, CompileOptions{EmitLineDirectives: true})
}

// CompileWithOptions compiles CZ source code with custom options.
func CompileWithOptions(sourcePath, source string, opts CompileOptions) CompileResult {
	c := pipeline.New(pipeline.Options{
		RuntimePreamble:    opts.RuntimePreamble,
		EmitLineDirectives: opts.EmitLineDirectives,
		AllowRun:           opts.AllowRun,
	})

	result := c.Compile(sourcePath, source)

	var errs, warns []string
	for _, d := range result.Diags.Errors() {
		errs = append(errs, d.Format())
	}
	for _, d := range result.Diags.Warnings() {
		warns = append(warns, d.Format())
	}

	return CompileResult{
		Code:         result.Code,
		Errors:       errs,
		Warnings:     warns,
		OriginalSize: result.Stats.SourceBytes,
		OutputSize:   result.Stats.OutputBytes,
	}
}

// CompileFile reads path and compiles it with default options.
func CompileFile(path string) (CompileResult, error) {
	c := pipeline.New(pipeline.Options{EmitLineDirectives: true})
	result, err := c.CompileFile(path)
	if err != nil {
		return CompileResult{}, err
	}

	var errs, warns []string
	for _, d := range result.Diags.Errors() {
		errs = append(errs, d.Format())
	}
	for _, d := range result.Diags.Warnings() {
		warns = append(warns, d.Format())
	}

	return CompileResult{
		Code:         result.Code,
		Errors:       errs,
		Warnings:     warns,
		OriginalSize: result.Stats.SourceBytes,
		OutputSize:   result.Stats.OutputBytes,
	}, nil
}
