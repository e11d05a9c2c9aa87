package codegen

import (
	"github.com/shkschneider/czar/internal/ast"
)

func (p *Printer) printBlock(b *ast.Block) {
	for _, stmt := range b.Stmts {
		p.printStmt(stmt)
	}
}

func (p *Printer) printStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.VarDecl:
		t := s.Type
		if t == nil && s.Init != nil {
			t = s.Init.Type()
		}
		if s.Init != nil {
			p.lineFor(s.Line(), "%s = %s;", cType(t, s.Name), p.expr(s.Init))
		} else {
			p.lineFor(s.Line(), "%s;", cType(t, s.Name))
		}
	case *ast.Assign:
		p.lineFor(s.Line(), "%s = %s;", p.expr(s.Target), p.expr(s.Value))
	case *ast.CompoundAssign:
		p.lineFor(s.Line(), "%s %s= %s;", p.expr(s.Target), s.Op, p.expr(s.Value))
	case *ast.If:
		p.printIf(s)
	case *ast.While:
		p.lineFor(s.Line(), "while (%s) {", p.expr(s.Cond))
		p.indent++
		p.printBlock(s.Body)
		p.indent--
		p.line("}")
	case *ast.ForIn:
		p.printForIn(s)
	case *ast.RepeatN:
		p.lineFor(s.Line(), "for (int64_t i = 0; i < %s; i++) {", p.expr(s.Count))
		p.indent++
		p.printBlock(s.Body)
		p.indent--
		p.line("}")
	case *ast.Break:
		p.printLoopJump(s.Line(), "break", s.Level)
	case *ast.Continue:
		p.printLoopJump(s.Line(), "continue", s.Level)
	case *ast.Return:
		if s.Value != nil {
			p.lineFor(s.Line(), "return %s;", p.expr(s.Value))
		} else {
			p.lineFor(s.Line(), "return;")
		}
	case *ast.Free:
		p.lineFor(s.Line(), "free(%s);", p.expr(s.Target))
	case *ast.Discard:
		p.lineFor(s.Line(), "(void)(%s);", p.expr(s.Value))
	case *ast.ExprStmt:
		p.lineFor(s.Line(), "%s;", p.expr(s.Value))
	case *ast.UnsafeBlock:
		p.raw(s.RawC)
		p.lines.Skip()
	case *ast.MacroStmt:
		p.printMacroStmt(s)
	case *ast.RunStmt:
		// #run already executed during parsing; nothing to emit.
	}
}

func (p *Printer) printIf(s *ast.If) {
	p.lineFor(s.Line(), "if (%s) {", p.expr(s.Cond))
	p.indent++
	p.printBlock(s.Then)
	p.indent--
	for _, ei := range s.ElseIfs {
		p.lineFor(ei.Line, "} else if (%s) {", p.expr(ei.Cond))
		p.indent++
		p.printBlock(ei.Body)
		p.indent--
	}
	if s.Else != nil {
		p.line("} else {")
		p.indent++
		p.printBlock(s.Else)
		p.indent--
	}
	p.line("}")
}

// printForIn lowers `for [mut] item[, index] in collection { body }` to
// an index-counted C for loop over the collection's backing storage.
func (p *Printer) printForIn(s *ast.ForIn) {
	idx := s.IndexVar
	if idx == "" {
		idx = "__i_" + s.ItemVar
	}
	coll := p.expr(s.Collection)
	p.lineFor(s.Line(), "for (size_t %s = 0; %s < %s.len; %s++) {", idx, idx, coll, idx)
	p.indent++
	p.line("__auto_type %s = %s.data[%s];", s.ItemVar, coll, idx)
	p.printBlock(s.Body)
	p.indent--
	p.line("}")
}

// printLoopJump emits a bare break/continue for an unleveled jump, or a
// goto to a label the enclosing loop prologue must have emitted for a
// multi-level jump. CZ's `break N`/`continue N` has no direct C
// equivalent; a labeled-goto lowering is the idiomatic way out when N
// targets an outer loop, but the common single-level case stays a
// plain break/continue for readable output.
func (p *Printer) printLoopJump(line int, kind string, level int) {
	if level <= 1 {
		p.lineFor(line, "%s;", kind)
		return
	}
	p.lineFor(line, "goto __%s_level_%d;", kind, level)
}

func (p *Printer) printMacroStmt(s *ast.MacroStmt) {
	switch s.Kind {
	case ast.MacroAssert:
		if len(s.Args) > 0 {
			p.lineFor(s.Line(), "if (!(%s)) { abort(); }", p.expr(s.Args[0]))
		}
	case ast.MacroLog:
		if len(s.Args) > 0 {
			p.lineFor(s.Line(), "fprintf(stderr, \"%%s\\n\", %s);", p.expr(s.Args[0]))
		}
	case ast.MacroTodo, ast.MacroFixme:
		p.lineFor(s.Line(), "// %s", macroLabel(s.Kind))
	}
}

func macroLabel(k ast.MacroKind) string {
	switch k {
	case ast.MacroTodo:
		return "TODO"
	case ast.MacroFixme:
		return "FIXME"
	default:
		return ""
	}
}
