package parser

import (
	"strings"

	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/ctype"
	"github.com/shkschneider/czar/internal/lexer"
)

func (p *Parser) parseBlock() *ast.Block {
	p.expect(lexer.TokLBrace)
	block := &ast.Block{}
	for p.current().Kind != lexer.TokRBrace && !p.atEOF() {
		s := p.parseStmt()
		if s != nil {
			block.Stmts = append(block.Stmts, s)
		}
	}
	p.expect(lexer.TokRBrace)
	return block
}

func (p *Parser) parseStmt() ast.Stmt {
	line := p.current().Line
	switch p.current().Kind {
	case lexer.TokIf:
		return p.parseIf()
	case lexer.TokWhile:
		return p.parseWhile()
	case lexer.TokFor:
		return p.parseForIn()
	case lexer.TokRepeat:
		return p.parseRepeat()
	case lexer.TokBreak:
		p.advance()
		lvl := p.parseOptionalLevel()
		n := &ast.Break{Level: lvl}
		n.LineNo = line
		return n
	case lexer.TokContinue:
		p.advance()
		lvl := p.parseOptionalLevel()
		n := &ast.Continue{Level: lvl}
		n.LineNo = line
		return n
	case lexer.TokReturn:
		p.advance()
		var v ast.Expr
		if p.current().Kind != lexer.TokRBrace {
			v = p.parseExpression()
		}
		n := &ast.Return{Value: v}
		n.LineNo = line
		return n
	case lexer.TokFree:
		p.advance()
		target := p.parseExpression()
		n := &ast.Free{Target: target}
		n.LineNo = line
		return n
	case lexer.TokUnderscore:
		p.advance()
		p.expect(lexer.TokEq)
		v := p.parseExpression()
		n := &ast.Discard{Value: v}
		n.LineNo = line
		return n
	case lexer.TokDirective:
		return p.parseDirectiveStmt()
	case lexer.TokMut:
		return p.parseVarDecl()
	case lexer.TokIdent:
		// "name Type = init" (no `mut`) is only distinguishable from an
		// expression-led statement by the bare type token sitting right
		// after the name — no valid expression has two adjacent
		// identifiers, so this lookahead is unambiguous.
		if p.peek(1).Kind == lexer.TokIdent || p.peek(1).Kind == lexer.TokMap {
			return p.parseVarDecl()
		}
		return p.parseIdentLedStmt()
	default:
		p.errorf("unexpected token at start of statement: %s", p.current().Kind)
		p.advance()
		return nil
	}
}

func (p *Parser) parseOptionalLevel() int {
	if p.current().Kind == lexer.TokIntLiteral {
		return atoiSafe(p.advance().Value)
	}
	return 0
}

func (p *Parser) parseDirectiveStmt() ast.Stmt {
	line := p.current().Line
	name := p.current().Value
	switch name {
	case "unsafe":
		p.advance()
		raw := p.parseRawBlock()
		n := &ast.UnsafeBlock{RawC: raw}
		n.LineNo = line
		return n
	case "run":
		p.advance()
		item := p.parseRunItem(line)
		n := &ast.RunStmt{Commands: item.Commands, ExitCode: item.ExitCode}
		n.LineNo = line
		return n
	case "assert":
		return p.parseMacroStmt(ast.MacroAssert, line)
	case "log":
		return p.parseMacroStmt(ast.MacroLog, line)
	case "todo":
		return p.parseMacroStmt(ast.MacroTodo, line)
	case "fixme":
		return p.parseMacroStmt(ast.MacroFixme, line)
	default:
		p.errorf("unknown statement directive #%s", name)
		p.advance()
		return nil
	}
}

func (p *Parser) parseMacroStmt(kind ast.MacroKind, line int) *ast.MacroStmt {
	p.advance()
	var args []ast.Expr
	if p.match(lexer.TokLParen) {
		for p.current().Kind != lexer.TokRParen && !p.atEOF() {
			args = append(args, p.parseExpression())
			if !p.match(lexer.TokComma) {
				break
			}
		}
		p.expect(lexer.TokRParen)
	}
	n := &ast.MacroStmt{Kind: kind, Args: args}
	n.LineNo = line
	return n
}

func (p *Parser) parseVarDecl() *ast.VarDecl {
	line := p.current().Line
	mutable := p.match(lexer.TokMut)
	name, _ := p.expect(lexer.TokIdent)
	declaredType := p.maybeParseType()
	p.expect(lexer.TokEq)
	init := p.parseExpression()
	n := &ast.VarDecl{Name: name.Value, Type: declaredType, Mutable: mutable, Init: init}
	n.LineNo = line
	return n
}

// maybeParseType parses an explicit type annotation if one is present
// before the `=` of a var decl; returns nil when the type is elided.
func (p *Parser) maybeParseType() ctype.Type {
	if p.current().Kind == lexer.TokEq {
		return nil
	}
	return p.parseType()
}

func (p *Parser) parseIdentLedStmt() ast.Stmt {
	line := p.current().Line
	// name := expr
	if p.peek(1).Kind == lexer.TokColonEq {
		name := p.advance().Value
		p.advance() // ':='
		init := p.parseExpression()
		n := &ast.VarDecl{Name: name, Mutable: false, Init: init}
		n.LineNo = line
		return n
	}

	expr := p.parseExpression()

	switch p.current().Kind {
	case lexer.TokEq:
		p.advance()
		v := p.parseExpression()
		n := &ast.Assign{Target: expr, Value: v}
		n.LineNo = line
		return n
	case lexer.TokPlusEq, lexer.TokMinusEq, lexer.TokStarEq, lexer.TokSlashEq, lexer.TokPercentEq:
		op := p.advance()
		v := p.parseExpression()
		n := &ast.CompoundAssign{Target: expr, Op: strings.TrimSuffix(op.Kind.String(), "="), Value: v}
		n.LineNo = line
		return n
	default:
		n := &ast.ExprStmt{Value: expr}
		n.LineNo = line
		return n
	}
}

func (p *Parser) parseIf() *ast.If {
	line := p.current().Line
	p.advance()
	cond := p.parseExpression()
	then := p.parseBlock()
	n := &ast.If{Cond: cond, Then: then}
	n.LineNo = line
	for p.current().Kind == lexer.TokElseif {
		eline := p.current().Line
		p.advance()
		ec := p.parseExpression()
		eb := p.parseBlock()
		n.ElseIfs = append(n.ElseIfs, ast.ElseIf{Cond: ec, Body: eb, Line: eline})
	}
	if p.match(lexer.TokElse) {
		n.Else = p.parseBlock()
	}
	return n
}

func (p *Parser) parseWhile() *ast.While {
	line := p.current().Line
	p.advance()
	cond := p.parseExpression()
	body := p.parseBlock()
	n := &ast.While{Cond: cond, Body: body}
	n.LineNo = line
	return n
}

func (p *Parser) parseForIn() *ast.ForIn {
	line := p.current().Line
	p.advance()
	mutable := p.match(lexer.TokMut)
	first, _ := p.expect(lexer.TokIdent)
	indexVar := ""
	itemVar := first.Value
	if p.match(lexer.TokComma) {
		second, _ := p.expect(lexer.TokIdent)
		indexVar = first.Value
		itemVar = second.Value
	}
	p.expect(lexer.TokIn)
	coll := p.parseExpression()
	body := p.parseBlock()
	n := &ast.ForIn{IndexVar: indexVar, ItemVar: itemVar, Mutable: mutable, Collection: coll, Body: body}
	n.LineNo = line
	return n
}

func (p *Parser) parseRepeat() *ast.RepeatN {
	line := p.current().Line
	p.advance()
	count := p.parseExpression()
	body := p.parseBlock()
	n := &ast.RepeatN{Count: count, Body: body}
	n.LineNo = line
	return n
}
