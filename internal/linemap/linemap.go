// Package linemap tracks the correspondence between a line in generated
// C output and the CZ source line it came from, so diagnostics raised
// by the host C compiler can be reported back against the original
// source instead of the generated file.
//
// A JavaScript-style VLQ/base64 source map has no meaning for a C
// target; C already has a standard mechanism for this, the `#line`
// directive, so a mapping is emitted as one rather than as an encoded
// mappings string.
package linemap

import "fmt"

// Mapping records that a line in generated output corresponds to a
// specific line of a specific CZ source file.
type Mapping struct {
	GeneratedLine int
	SourceFile    string
	SourceLine    int
}

// Generator builds up a mapping incrementally as the code generator
// emits lines, then renders it either as `#line` directives to splice
// into the output or as a standalone table for diagnostics.
type Generator struct {
	file     string // the CZ source file being compiled
	mappings []Mapping
	line     int // current generated line, 1-indexed
}

// NewGenerator creates a Generator for one CZ source file.
func NewGenerator(file string) *Generator {
	return &Generator{file: file, line: 1}
}

// AddMapping records that the current generated line corresponds to
// sourceLine in the file the Generator was created for, then advances
// the generated-line counter by one.
func (g *Generator) AddMapping(sourceLine int) {
	g.mappings = append(g.mappings, Mapping{
		GeneratedLine: g.line,
		SourceFile:    g.file,
		SourceLine:    sourceLine,
	})
	g.line++
}

// AddMappingFor records a mapping for a line originating from a
// different file than the Generator's own — used when a module's
// output interleaves a spliced-in import or runtime source.
func (g *Generator) AddMappingFor(file string, sourceLine int) {
	g.mappings = append(g.mappings, Mapping{
		GeneratedLine: g.line,
		SourceFile:    file,
		SourceLine:    sourceLine,
	})
	g.line++
}

// Skip advances the generated-line counter without recording a mapping,
// for blank lines and brace-only lines that never need to be cited.
func (g *Generator) Skip() {
	g.line++
}

// Mappings returns every mapping recorded so far, in generated-line
// order.
func (g *Generator) Mappings() []Mapping {
	return g.mappings
}

// Directive renders m as the C preprocessor directive that tells the
// host compiler which original file/line a diagnostic at this point in
// the generated output should be attributed to.
func (m Mapping) Directive() string {
	return fmt.Sprintf("#line %d %q", m.SourceLine, m.SourceFile)
}

// Resolve finds the original source location for a 1-indexed generated
// line, returning ok=false if no mapping reaches that far (the line
// preceded the first recorded mapping).
func (g *Generator) Resolve(generatedLine int) (file string, line int, ok bool) {
	var best *Mapping
	for i := range g.mappings {
		m := &g.mappings[i]
		if m.GeneratedLine <= generatedLine && (best == nil || m.GeneratedLine > best.GeneratedLine) {
			best = m
		}
	}
	if best == nil {
		return "", 0, false
	}
	offset := generatedLine - best.GeneratedLine
	return best.SourceFile, best.SourceLine + offset, true
}
