// Package parser provides recursive-descent parsing of CZ source into
// an AST.
//
// Unlike a two-pass visitor, this parser makes a single left-to-right
// pass building the tree; name resolution and scope-stack maintenance
// are the type checker's job (internal/check), not the parser's (spec
// §4.5 assigns that responsibility to the checking stage). Expression
// parsing uses the classic per-precedence-level function chain: each
// binary operator tier is one function that recurses into the next
// tighter tier, bottoming out at unary and postfix expressions.
//
// #run blocks execute synchronously the moment they are parsed (spec
// §6.5): running the recorded shell commands is a side effect of
// building the tree, not a later pipeline stage.
package parser

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pkg/errors"

	"github.com/shkschneider/czar/internal/ast"
	"github.com/shkschneider/czar/internal/ctype"
	"github.com/shkschneider/czar/internal/lexer"
)

// ParseError represents one syntax error.
type ParseError struct {
	Message string
	Line    int
}

func (e ParseError) Error() string {
	return fmt.Sprintf("%d: %s", e.Line, e.Message)
}

// Parser parses CZ source into an AST.
type Parser struct {
	source     string
	sourcePath string
	tokens     []lexer.Token
	pos        int

	allowRun bool // gate for executing #run blocks (disabled by tests/sandboxed parses)

	errors []ParseError
}

// Option configures a Parser.
type Option func(*Parser)

// WithoutRun disables executing #run blocks during parsing, producing a
// RunItem/RunStmt node with ExitCode 0 and no process actually spawned.
// Used by tooling that parses untrusted or sample source.
func WithoutRun() Option {
	return func(p *Parser) { p.allowRun = false }
}

// New creates a new parser for the given source.
func New(sourcePath, source string, opts ...Option) *Parser {
	p := &Parser{
		source:     source,
		sourcePath: sourcePath,
		tokens:     lexer.New(source).Tokenize(),
		allowRun:   true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses the source and returns the module AST.
func (p *Parser) Parse() (*ast.Module, []ParseError) {
	module := &ast.Module{Source: p.source, SourcePath: p.sourcePath}
	p.parseModuleHeader(module)
	for !p.atEOF() {
		item := p.parseItem()
		if item != nil {
			module.Items = append(module.Items, item)
		}
	}
	return module, p.errors
}

// ----------------------------------------------------------------------------
// Token helpers
// ----------------------------------------------------------------------------

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.TokEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek(offset int) lexer.Token {
	pos := p.pos + offset
	if pos >= len(p.tokens) {
		return lexer.Token{Kind: lexer.TokEOF}
	}
	return p.tokens[pos]
}

func (p *Parser) atEOF() bool { return p.current().Kind == lexer.TokEOF }

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, bool) {
	tok := p.current()
	if tok.Kind != kind {
		p.errorf("expected %s, got %s", kind, tok.Kind)
		return tok, false
	}
	p.advance()
	return tok, true
}

func (p *Parser) match(kind lexer.TokenKind) bool {
	if p.current().Kind == kind {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) errorf(format string, args ...interface{}) {
	p.errors = append(p.errors, ParseError{Message: fmt.Sprintf(format, args...), Line: p.current().Line})
}

// syncToNextItem discards tokens up to the next top-level keyword after a
// parse error, so one bad declaration doesn't cascade into spurious
// errors for the rest of the file.
func (p *Parser) syncToNextItem() {
	for !p.atEOF() {
		switch p.current().Kind {
		case lexer.TokStruct, lexer.TokInterface, lexer.TokEnum, lexer.TokFn, lexer.TokDirective:
			return
		}
		p.advance()
	}
}

// ----------------------------------------------------------------------------
// Module header
// ----------------------------------------------------------------------------

func (p *Parser) parseModuleHeader(module *ast.Module) {
	if p.current().Kind == lexer.TokDirective && p.current().Value == "module" {
		line := p.current().Line
		p.advance()
		name, ok := p.expect(lexer.TokIdent)
		if ok {
			module.Name = name.Value
			module.NameLine = line
		}
	}
	for p.current().Kind == lexer.TokImport {
		p.advance()
		module.Imports = append(module.Imports, p.parseImport())
	}
}

func (p *Parser) parseImport() *ast.Import {
	line := p.current().Line
	var parts []string
	for {
		tok, ok := p.expect(lexer.TokIdent)
		if !ok {
			break
		}
		parts = append(parts, tok.Value)
		if !p.match(lexer.TokDot) {
			break
		}
	}
	path := strings.Join(parts, ".")
	alias := ""
	if len(parts) > 0 {
		alias = parts[len(parts)-1]
	}
	return &ast.Import{Path: path, Alias: alias, Line: line}
}

// ----------------------------------------------------------------------------
// Items
// ----------------------------------------------------------------------------

func (p *Parser) parseItem() ast.Item {
	switch p.current().Kind {
	case lexer.TokStruct:
		return p.parseStruct()
	case lexer.TokInterface:
		return p.parseInterface()
	case lexer.TokEnum:
		return p.parseEnum()
	case lexer.TokInline:
		inline := true
		p.advance()
		return p.parseFunction(inline)
	case lexer.TokFn:
		return p.parseFunction(false)
	case lexer.TokDirective:
		return p.parseDirectiveItem()
	default:
		p.errorf("expected a top-level declaration, got %s", p.current().Kind)
		p.syncToNextItem()
		return nil
	}
}

func (p *Parser) parseDirectiveItem() ast.Item {
	line := p.current().Line
	name := p.current().Value
	switch name {
	case "alias":
		p.advance()
		return p.parseTypeAlias(line)
	case "alloc":
		p.advance()
		tok, _ := p.expect(lexer.TokIdent)
		m := &ast.AllocatorMacro{Name: tok.Value}
		m.LineNo = line
		return m
	case "run":
		p.advance()
		return p.parseRunItem(line)
	case "init":
		p.advance()
		body := p.parseBlock()
		blk := &ast.InitBlock{Body: body}
		blk.LineNo = line
		return blk
	default:
		p.errorf("unknown top-level directive #%s", name)
		p.advance()
		p.syncToNextItem()
		return nil
	}
}

func (p *Parser) parseTypeAlias(line int) *ast.TypeAlias {
	name, _ := p.expect(lexer.TokIdent)
	p.expect(lexer.TokEq)
	target := p.parseType()
	alias := &ast.TypeAlias{Name: name.Value, Target: target}
	alias.LineNo = line
	return alias
}

func (p *Parser) parseRunItem(line int) *ast.RunItem {
	p.expect(lexer.TokLBrace)
	start := p.pos
	depth := 1
	for !p.atEOF() && depth > 0 {
		switch p.current().Kind {
		case lexer.TokLBrace:
			depth++
		case lexer.TokRBrace:
			depth--
			if depth == 0 {
				continue
			}
		}
		p.advance()
	}
	var raw strings.Builder
	for i := start; i < p.pos; i++ {
		raw.WriteString(p.tokens[i].Text(p.source))
		raw.WriteByte(' ')
	}
	p.expect(lexer.TokRBrace)

	commands := strings.TrimSpace(raw.String())
	exitCode := 0
	if p.allowRun && commands != "" {
		exitCode = p.runShell(commands)
	}
	item := &ast.RunItem{Commands: commands, ExitCode: exitCode}
	item.LineNo = line
	return item
}

// runShell executes a #run block's recorded commands synchronously,
// returning the process exit code. Failures surface as a parse error
// wrapped with the underlying cause: a failing #run block is a compile
// error, not a silent no-op.
func (p *Parser) runShell(commands string) int {
	cmd := exec.Command("sh", "-c", commands)
	out, err := cmd.CombinedOutput()
	if err != nil {
		p.errorf("#run failed: %s\n%s", errors.Wrap(err, "executing #run block"), out)
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		return 1
	}
	return 0
}

func (p *Parser) parseFieldList() []ast.Field {
	var fields []ast.Field
	p.expect(lexer.TokLBrace)
	for p.current().Kind != lexer.TokRBrace && !p.atEOF() {
		line := p.current().Line
		name, ok := p.expect(lexer.TokIdent)
		if !ok {
			p.advance()
			continue
		}
		typ := p.parseType()
		fields = append(fields, ast.Field{Name: name.Value, Type: typ, Line: line})
		p.match(lexer.TokComma)
	}
	p.expect(lexer.TokRBrace)
	return fields
}

func (p *Parser) parseStruct() *ast.Struct {
	line := p.current().Line
	p.advance()
	name, _ := p.expect(lexer.TokIdent)
	implements := ""
	if p.match(lexer.TokImplements) {
		tok, _ := p.expect(lexer.TokIdent)
		implements = tok.Value
	}
	fields := p.parseFieldList()
	s := &ast.Struct{Name: name.Value, Fields: fields, Implements: implements}
	s.LineNo = line
	return s
}

func (p *Parser) parseInterface() *ast.Interface {
	line := p.current().Line
	p.advance()
	name, _ := p.expect(lexer.TokIdent)
	p.expect(lexer.TokLBrace)
	var fields []ast.Field
	var methods []ast.MethodSig
	for p.current().Kind != lexer.TokRBrace && !p.atEOF() {
		mline := p.current().Line
		if p.current().Kind == lexer.TokFn {
			p.advance()
			mname, _ := p.expect(lexer.TokIdent)
			params := p.parseParamList()
			ret := p.parseOptionalReturnType()
			methods = append(methods, ast.MethodSig{Name: mname.Value, Params: params, ReturnType: ret, Line: mline})
			continue
		}
		fname, ok := p.expect(lexer.TokIdent)
		if !ok {
			p.advance()
			continue
		}
		ftype := p.parseType()
		fields = append(fields, ast.Field{Name: fname.Value, Type: ftype, Line: mline})
		p.match(lexer.TokComma)
	}
	p.expect(lexer.TokRBrace)
	iface := &ast.Interface{Name: name.Value, Fields: fields, Methods: methods}
	iface.LineNo = line
	return iface
}

func (p *Parser) parseEnum() *ast.Enum {
	line := p.current().Line
	p.advance()
	name, _ := p.expect(lexer.TokIdent)
	p.expect(lexer.TokLBrace)
	var values []string
	for p.current().Kind != lexer.TokRBrace && !p.atEOF() {
		v, ok := p.expect(lexer.TokIdent)
		if ok {
			values = append(values, v.Value)
		}
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.expect(lexer.TokRBrace)
	e := &ast.Enum{Name: name.Value, Values: values}
	e.LineNo = line
	return e
}

func (p *Parser) parseParamList() []ast.Param {
	p.expect(lexer.TokLParen)
	var params []ast.Param
	for p.current().Kind != lexer.TokRParen && !p.atEOF() {
		line := p.current().Line
		mutable := p.match(lexer.TokMut)
		name, _ := p.expect(lexer.TokIdent)
		typ := p.parseType()
		var def ast.Expr
		if p.match(lexer.TokEq) {
			def = p.parseExpression()
		}
		params = append(params, ast.Param{Name: name.Value, Type: typ, Mutable: mutable, Default: def, Line: line})
		if !p.match(lexer.TokComma) {
			break
		}
	}
	p.expect(lexer.TokRParen)
	return params
}

func (p *Parser) parseOptionalReturnType() ctype.Type {
	if p.current().Kind == lexer.TokLBrace || p.current().Kind == lexer.TokSemicolon {
		return &ctype.Void{}
	}
	return p.parseType()
}

func (p *Parser) parseFunction(inline bool) *ast.Function {
	line := p.current().Line
	p.advance() // 'fn'

	unsafe := false
	receiver := ""
	name, _ := p.expect(lexer.TokIdent)
	if p.match(lexer.TokDot) {
		receiver = name.Value
		name, _ = p.expect(lexer.TokIdent)
	}

	params := p.parseParamList()
	if receiver == "" && len(params) > 0 && params[0].Name == "self" {
		if recv, ok := selfReceiverType(params[0].Type); ok {
			receiver = recv
			params = params[1:]
		}
	}
	ret := p.parseOptionalReturnType()

	if p.current().Kind == lexer.TokDirective && p.current().Value == "unsafe" {
		unsafe = true
		p.advance()
		raw := p.parseRawBlock()
		fn := &ast.Function{
			Name: name.Value, Receiver: receiver, Params: params, ReturnType: ret,
			Inline: inline, Unsafe: unsafe, RawC: raw,
		}
		fn.LineNo = line
		return fn
	}

	body := p.parseBlock()
	fn := &ast.Function{
		Name: name.Value, Receiver: receiver, Params: params, ReturnType: ret,
		Inline: inline, Body: body,
	}
	fn.LineNo = line
	return fn
}

// selfReceiverType extracts the receiver struct name from a leading
// `self Type*` parameter, the undotted method-declaration form. Only a
// pointer to a named type counts as a receiver; anything else leaves
// the parameter as an ordinary argument named "self".
func selfReceiverType(t ctype.Type) (string, bool) {
	ptr, ok := t.(*ctype.Pointer)
	if !ok {
		return "", false
	}
	named, ok := ptr.Elem.(*ctype.Named)
	if !ok {
		return "", false
	}
	return named.Name, true
}

// parseRawBlock consumes a brace-delimited block and returns its
// contents verbatim, for #unsafe function bodies that splice raw C.
func (p *Parser) parseRawBlock() string {
	p.expect(lexer.TokLBrace)
	start := p.pos
	depth := 1
	for !p.atEOF() && depth > 0 {
		switch p.current().Kind {
		case lexer.TokLBrace:
			depth++
		case lexer.TokRBrace:
			depth--
			if depth == 0 {
				continue
			}
		}
		p.advance()
	}
	raw := ""
	if p.pos > start {
		raw = p.source[p.tokens[start].Start:p.tokens[p.pos-1].End]
	}
	p.expect(lexer.TokRBrace)
	return strings.TrimSpace(raw)
}

// ----------------------------------------------------------------------------
// Types
// ----------------------------------------------------------------------------

func (p *Parser) parseType() ctype.Type {
	t := p.parseBaseType()
	for {
		switch {
		case p.match(lexer.TokQuestion):
			t = &ctype.Nullable{Elem: t}
		case p.match(lexer.TokStar):
			t = &ctype.Pointer{Elem: t}
		case p.current().Kind == lexer.TokLBracket:
			p.advance()
			if p.match(lexer.TokRBracket) {
				t = &ctype.Slice{Elem: t}
				continue
			}
			if p.current().Kind == lexer.TokStar {
				p.advance()
				p.expect(lexer.TokRBracket)
				t = &ctype.Array{Elem: t, Inferred: true}
				continue
			}
			size, _ := p.expect(lexer.TokIntLiteral)
			p.expect(lexer.TokRBracket)
			t = &ctype.Array{Elem: t, Size: atoiSafe(size.Value)}
		case p.match(lexer.TokDotDotDot):
			t = &ctype.Varargs{Elem: t}
		default:
			return t
		}
	}
}

func (p *Parser) parseBaseType() ctype.Type {
	switch p.current().Kind {
	case lexer.TokMap:
		p.advance()
		p.expect(lexer.TokLBracket)
		key := p.parseType()
		p.expect(lexer.TokRBracket)
		val := p.parseType()
		return &ctype.Map{Key: key, Value: val}
	case lexer.TokLParen:
		p.advance()
		left := p.parseType()
		p.expect(lexer.TokComma)
		right := p.parseType()
		p.expect(lexer.TokRParen)
		return &ctype.Pair{Left: left, Right: right}
	case lexer.TokIdent:
		name := p.advance().Value
		switch name {
		case "string":
			return &ctype.StringT{}
		case "void":
			return &ctype.Void{}
		case "any":
			return &ctype.Any{}
		default:
			return &ctype.Named{Name: name}
		}
	default:
		p.errorf("expected a type, got %s", p.current().Kind)
		p.advance()
		return &ctype.Named{Name: "<error>"}
	}
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
