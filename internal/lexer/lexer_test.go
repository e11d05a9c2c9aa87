package lexer

import "testing"

func kinds(toks []Token) []TokenKind {
	out := make([]TokenKind, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Kind)
	}
	return out
}

func TestTokenizeFunctionSignature(t *testing.T) {
	toks := New("fn add(a i32, b i32) i32 {\n    return a + b\n}\n").Tokenize()
	got := kinds(toks)
	want := []TokenKind{
		TokFn, TokIdent, TokLParen, TokIdent, TokIdent, TokComma,
		TokIdent, TokIdent, TokRParen, TokIdent, TokLBrace,
		TokReturn, TokIdent, TokPlus, TokIdent,
		TokRBrace, TokEOF,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestLineTracking(t *testing.T) {
	toks := New("fn f() void {\n\n    x := 1\n}\n").Tokenize()
	var xLine int
	for _, tok := range toks {
		if tok.Kind == TokIdent && tok.Value == "x" {
			xLine = tok.Line
		}
	}
	if xLine != 3 {
		t.Errorf("expected x on line 3, got %d", xLine)
	}
}

func TestDirectiveToken(t *testing.T) {
	toks := New("#module foo\n#unsafe {\n}\n").Tokenize()
	if toks[0].Kind != TokDirective || toks[0].Value != "module" {
		t.Fatalf("expected directive 'module', got %+v", toks[0])
	}
	if toks[2].Kind != TokDirective || toks[2].Value != "unsafe" {
		t.Fatalf("expected directive 'unsafe', got %+v", toks[2])
	}
}

func TestStringAndCharLiterals(t *testing.T) {
	toks := New(`"hi\n" 'a'`).Tokenize()
	if toks[0].Kind != TokStringLiteral || toks[0].Value != "hi\n" {
		t.Fatalf("unexpected string token: %+v", toks[0])
	}
	if toks[1].Kind != TokCharLiteral || toks[1].Value != "a" {
		t.Fatalf("unexpected char token: %+v", toks[1])
	}
}

func TestUnterminatedStringIsError(t *testing.T) {
	toks := New(`"unterminated`).Tokenize()
	last := toks[len(toks)-1]
	if last.Kind != TokError {
		t.Fatalf("expected error token, got %s", last.Kind)
	}
}

func TestNumberSuffixes(t *testing.T) {
	toks := New("42u8 3.14f32 0x1Fi32 1e10").Tokenize()
	wantKinds := []TokenKind{TokIntLiteral, TokFloatLiteral, TokIntLiteral, TokFloatLiteral, TokEOF}
	for i, k := range wantKinds {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Kind, k)
		}
	}
}

func TestNullableQuestionOperators(t *testing.T) {
	toks := New("a ?? b x!! y?").Tokenize()
	got := kinds(toks)
	want := []TokenKind{TokIdent, TokQuestionQuestion, TokIdent, TokIdent, TokBangBang, TokIdent, TokQuestion, TokEOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestKeywordsRecognized(t *testing.T) {
	toks := New("struct interface enum implements mut repeat free clone").Tokenize()
	want := []TokenKind{TokStruct, TokInterface, TokEnum, TokImplements, TokMut, TokRepeat, TokFree, TokClone, TokEOF}
	got := kinds(toks)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}
