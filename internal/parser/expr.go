package parser

import (
	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/ctype"
	"github.com/shkschneider/czar/internal/lexer"
)

// Expression parsing walks a fixed chain of precedence-level functions,
// tightest-binds-last: each level parses its operand from the next
// tighter level, then loops consuming same-precedence operators.

func (p *Parser) parseExpression() ast.Expr {
	return p.parseNullCoalesce()
}

func (p *Parser) parseNullCoalesce() ast.Expr {
	left := p.parseLogicalOr()
	for p.current().Kind == lexer.TokQuestionQuestion {
		line := p.current().Line
		p.advance()
		right := p.parseLogicalOr()
		n := &ast.BinaryExpr{Op: "??", Left: left, Right: right}
		n.LineNo = line
		left = n
	}
	return left
}

func (p *Parser) parseLogicalOr() ast.Expr {
	left := p.parseLogicalAnd()
	for p.current().Kind == lexer.TokPipePipe {
		line := p.current().Line
		p.advance()
		right := p.parseLogicalAnd()
		n := &ast.BinaryExpr{Op: "||", Left: left, Right: right}
		n.LineNo = line
		left = n
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	left := p.parseEquality()
	for p.current().Kind == lexer.TokAmpAmp {
		line := p.current().Line
		p.advance()
		right := p.parseEquality()
		n := &ast.BinaryExpr{Op: "&&", Left: left, Right: right}
		n.LineNo = line
		left = n
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for p.current().Kind == lexer.TokEqEq || p.current().Kind == lexer.TokBangEq {
		op := p.advance()
		right := p.parseRelational()
		n := &ast.BinaryExpr{Op: op.Kind.String(), Left: left, Right: right}
		n.LineNo = op.Line
		left = n
	}
	return left
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseAdditive()
	for {
		switch p.current().Kind {
		case lexer.TokLt, lexer.TokGt, lexer.TokLtEq, lexer.TokGtEq:
			op := p.advance()
			right := p.parseAdditive()
			n := &ast.BinaryExpr{Op: op.Kind.String(), Left: left, Right: right}
			n.LineNo = op.Line
			left = n
		default:
			return left
		}
	}
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.current().Kind == lexer.TokPlus || p.current().Kind == lexer.TokMinus {
		op := p.advance()
		right := p.parseMultiplicative()
		n := &ast.BinaryExpr{Op: op.Kind.String(), Left: left, Right: right}
		n.LineNo = op.Line
		left = n
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseCast()
	for {
		switch p.current().Kind {
		case lexer.TokStar, lexer.TokSlash, lexer.TokPercent:
			op := p.advance()
			right := p.parseCast()
			n := &ast.BinaryExpr{Op: op.Kind.String(), Left: left, Right: right}
			n.LineNo = op.Line
			left = n
		default:
			return left
		}
	}
}

// parseCast handles the postfix `as`/`as?`/`is` type operators, which
// bind tighter than arithmetic but looser than unary.
func (p *Parser) parseCast() ast.Expr {
	left := p.parseUnary()
	for {
		switch p.current().Kind {
		case lexer.TokAs:
			line := p.current().Line
			p.advance()
			if p.match(lexer.TokQuestion) {
				target := p.parseType()
				p.expectIdentKeyword("else")
				fallback := p.parseUnary()
				n := &ast.SafeCastExpr{Target: target, Value: left, Fallback: fallback}
				n.LineNo = line
				left = n
				continue
			}
			target := p.parseType()
			n := &ast.CastExpr{Target: target, Value: left}
			n.LineNo = line
			left = n
		case lexer.TokIs:
			line := p.current().Line
			p.advance()
			target := p.parseType()
			n := &ast.IsCheckExpr{Value: left, Target: target}
			n.LineNo = line
			left = n
		default:
			return left
		}
	}
}

// expectIdentKeyword consumes a contextual keyword: the `else` keyword
// token when word is "else" (as in `as? T else fallback`), otherwise a
// plain identifier token spelled as word.
func (p *Parser) expectIdentKeyword(word string) {
	if p.current().Kind == lexer.TokElse && word == "else" {
		p.advance()
		return
	}
	if p.current().Kind == lexer.TokIdent && p.current().Value == word {
		p.advance()
		return
	}
	p.errorf("expected %q, got %s", word, p.current().Kind)
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.current().Kind {
	case lexer.TokMinus, lexer.TokBang, lexer.TokAmp, lexer.TokStar:
		op := p.advance()
		operand := p.parseUnary()
		n := &ast.UnaryExpr{Op: op.Kind.String(), Operand: operand}
		n.LineNo = op.Line
		return n
	default:
		return p.parsePostfix()
	}
}

func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()
	for {
		switch p.current().Kind {
		case lexer.TokDot:
			line := p.current().Line
			p.advance()
			name, _ := p.expect(lexer.TokIdent)
			n := &ast.FieldExpr{Receiver: expr, Name: name.Value}
			n.LineNo = line
			expr = n
		case lexer.TokLBracket:
			line := p.current().Line
			p.advance()
			if p.current().Kind == lexer.TokColon {
				p.advance()
				high := p.parseExpression()
				p.expect(lexer.TokRBracket)
				n := &ast.SliceExpr{Receiver: expr, High: high}
				n.LineNo = line
				expr = n
				continue
			}
			idx := p.parseExpression()
			if p.match(lexer.TokColon) {
				var high ast.Expr
				if p.current().Kind != lexer.TokRBracket {
					high = p.parseExpression()
				}
				p.expect(lexer.TokRBracket)
				n := &ast.SliceExpr{Receiver: expr, Low: idx, High: high}
				n.LineNo = line
				expr = n
				continue
			}
			p.expect(lexer.TokRBracket)
			n := &ast.IndexExpr{Receiver: expr, Index: idx}
			n.LineNo = line
			expr = n
		case lexer.TokLParen:
			line := p.current().Line
			args, mutFlags := p.parseArgList()
			n := &ast.CallExpr{Callee: expr, Args: args, MutArgs: mutFlags}
			n.LineNo = line
			expr = n
		case lexer.TokBangBang:
			line := p.current().Line
			p.advance()
			n := &ast.NullCheckExpr{Value: expr}
			n.LineNo = line
			expr = n
		default:
			return expr
		}
	}
}

func (p *Parser) parseArgList() ([]ast.Expr, []bool) {
	p.expect(lexer.TokLParen)
	var args []ast.Expr
	var mutFlags []bool
	for p.current().Kind != lexer.TokRParen && !p.atEOF() {
		mut := p.match(lexer.TokMut)
		args = append(args, p.parseExpression())
		mutFlags = append(mutFlags, mut)
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.expect(lexer.TokRParen)
	return args, mutFlags
}

func (p *Parser) parsePrimary() ast.Expr {
	tok := p.current()
	switch tok.Kind {
	case lexer.TokIntLiteral:
		p.advance()
		n := &ast.IntLit{Value: tok.Value}
		n.LineNo = tok.Line
		return n
	case lexer.TokFloatLiteral:
		p.advance()
		n := &ast.FloatLit{Value: tok.Value}
		n.LineNo = tok.Line
		return n
	case lexer.TokStringLiteral:
		p.advance()
		n := &ast.StringLit{Value: tok.Value}
		n.LineNo = tok.Line
		return n
	case lexer.TokCharLiteral:
		p.advance()
		r := rune(0)
		for _, c := range tok.Value {
			r = c
			break
		}
		n := &ast.CharLit{Value: r}
		n.LineNo = tok.Line
		return n
	case lexer.TokTrue, lexer.TokFalse:
		p.advance()
		n := &ast.BoolLit{Value: tok.Kind == lexer.TokTrue}
		n.LineNo = tok.Line
		return n
	case lexer.TokNull:
		p.advance()
		n := &ast.NullLit{}
		n.LineNo = tok.Line
		return n
	case lexer.TokSelf:
		p.advance()
		n := &ast.Ident{Name: "self"}
		n.LineNo = tok.Line
		return n
	case lexer.TokDirective:
		p.advance()
		n := &ast.DirectiveExpr{Name: tok.Value}
		n.LineNo = tok.Line
		return n
	case lexer.TokTypeof:
		p.advance()
		p.expect(lexer.TokLParen)
		v := p.parseExpression()
		p.expect(lexer.TokRParen)
		n := &ast.TypeOfExpr{Value: v}
		n.LineNo = tok.Line
		return n
	case lexer.TokSizeof:
		p.advance()
		p.expect(lexer.TokLParen)
		t := p.parseType()
		p.expect(lexer.TokRParen)
		n := &ast.SizeOfExpr{Target: t}
		n.LineNo = tok.Line
		return n
	case lexer.TokClone:
		p.advance()
		var explicit ctype.Type
		if p.match(lexer.TokLt) {
			explicit = p.parseType()
			p.expect(lexer.TokGt)
		}
		p.expect(lexer.TokLParen)
		v := p.parseExpression()
		p.expect(lexer.TokRParen)
		n := &ast.CloneExpr{Value: v, ExplicitType: explicit}
		n.LineNo = tok.Line
		return n
	case lexer.TokNew:
		return p.parseNewExpr()
	case lexer.TokLBracket:
		return p.parseArrayLit()
	case lexer.TokLParen:
		p.advance()
		first := p.parseExpression()
		if p.match(lexer.TokComma) {
			second := p.parseExpression()
			p.expect(lexer.TokRParen)
			n := &ast.PairLit{Left: first, Right: second}
			n.LineNo = tok.Line
			return n
		}
		p.expect(lexer.TokRParen)
		return first
	case lexer.TokIdent:
		return p.parseIdentPrimary()
	default:
		p.errorf("unexpected token in expression: %s", tok.Kind)
		p.advance()
		n := &ast.Ident{Name: "<error>"}
		n.LineNo = tok.Line
		return n
	}
}

func (p *Parser) parseIdentPrimary() ast.Expr {
	tok := p.advance()

	// Type::method(args)
	if p.current().Kind == lexer.TokColonColon {
		p.advance()
		method, _ := p.expect(lexer.TokIdent)
		args, _ := p.parseArgList()
		n := &ast.StaticMethodCall{TypeName: tok.Value, Method: method.Value, Args: args}
		n.LineNo = tok.Line
		return n
	}

	// Type{ field: value, ... } struct literal — only when the brace
	// immediately follows a capitalized identifier, to avoid swallowing
	// an `if` condition's block.
	if p.current().Kind == lexer.TokLBrace && isCapitalized(tok.Value) {
		return p.parseStructLitBody(tok.Value, tok.Line)
	}

	n := &ast.Ident{Name: tok.Value}
	n.LineNo = tok.Line
	return n
}

func isCapitalized(s string) bool {
	if s == "" {
		return false
	}
	return s[0] >= 'A' && s[0] <= 'Z'
}

func (p *Parser) parseStructLitBody(typeName string, line int) ast.Expr {
	p.expect(lexer.TokLBrace)
	var fields []ast.FieldInit
	for p.current().Kind != lexer.TokRBrace && !p.atEOF() {
		name, _ := p.expect(lexer.TokIdent)
		p.expect(lexer.TokColon)
		value := p.parseExpression()
		fields = append(fields, ast.FieldInit{Name: name.Value, Value: value})
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.expect(lexer.TokRBrace)
	n := &ast.StructLit{TypeName: typeName, Fields: fields}
	n.LineNo = line
	return n
}

func (p *Parser) parseArrayLit() ast.Expr {
	line := p.current().Line
	p.advance()
	var elems []ast.Expr
	for p.current().Kind != lexer.TokRBracket && !p.atEOF() {
		elems = append(elems, p.parseExpression())
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.expect(lexer.TokRBracket)
	n := &ast.ArrayLit{Elements: elems}
	n.LineNo = line
	return n
}

// parseNewExpr handles `new Type{...}`, `new [e1, e2, ...]`, and
// `new map[K]V{ k: v, ... }`.
func (p *Parser) parseNewExpr() ast.Expr {
	line := p.current().Line
	p.advance() // 'new'

	if p.current().Kind == lexer.TokMap {
		p.advance()
		p.expect(lexer.TokLBracket)
		key := p.parseType()
		p.expect(lexer.TokRBracket)
		val := p.parseType()
		p.expect(lexer.TokLBrace)
		var entries []ast.MapEntry
		for p.current().Kind != lexer.TokRBrace && !p.atEOF() {
			k := p.parseExpression()
			p.expect(lexer.TokColon)
			v := p.parseExpression()
			entries = append(entries, ast.MapEntry{Key: k, Value: v})
			if !p.match(lexer.TokComma) {
				break
			}
		}
		p.expect(lexer.TokRBrace)
		n := &ast.NewMap{KeyType: key, ValueType: val, Entries: entries}
		n.LineNo = line
		return n
	}

	if p.current().Kind == lexer.TokLBracket {
		p.advance()
		var elems []ast.Expr
		for p.current().Kind != lexer.TokRBracket && !p.atEOF() {
			elems = append(elems, p.parseExpression())
			if !p.match(lexer.TokComma) {
				break
			}
		}
		p.expect(lexer.TokRBracket)
		n := &ast.NewArray{Elements: elems}
		n.LineNo = line
		return n
	}

	name, _ := p.expect(lexer.TokIdent)
	p.expect(lexer.TokLBrace)
	var fields []ast.FieldInit
	for p.current().Kind != lexer.TokRBrace && !p.atEOF() {
		fname, _ := p.expect(lexer.TokIdent)
		p.expect(lexer.TokColon)
		v := p.parseExpression()
		fields = append(fields, ast.FieldInit{Name: fname.Value, Value: v})
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.expect(lexer.TokRBrace)
	n := &ast.NewHeap{TypeName: name.Value, Fields: fields}
	n.LineNo = line
	return n
}
