package lexer_test

import (
	"strings"
	"testing"

	"whilec/pkg/lexer"
)

func TestLineComment(t *testing.T) {
	input := "a = 1 ; // trailing comment\nb = 2 ;"
	l := lexer.New(input)
	tokens := l.Tokenize()

	// a = 1 ; b = 2 ; #
	if len(tokens) != 9 {
		t.Fatalf("expected 9 tokens, got %d", len(tokens))
	}
	if tokens[4].Lexeme != "b" || tokens[4].Pos.Line != 2 {
		t.Errorf("expected 'b' on line 2, got %q on line %d", tokens[4].Lexeme, tokens[4].Pos.Line)
	}
	if l.HasErrors() {
		t.Errorf("unexpected errors: %v", l.Errors())
	}
}

func TestBlockComment(t *testing.T) {
	input := "a = /* spans\ntwo lines */ 1 ;"
	l := lexer.New(input)
	tokens := l.Tokenize()

	// a = 1 ; #
	if len(tokens) != 5 {
		t.Fatalf("expected 5 tokens, got %d", len(tokens))
	}
	if tokens[2].Lexeme != "1" || tokens[2].Pos.Line != 2 {
		t.Errorf("expected '1' on line 2, got %q on line %d", tokens[2].Lexeme, tokens[2].Pos.Line)
	}
	if l.HasErrors() {
		t.Errorf("unexpected errors: %v", l.Errors())
	}
}

func TestUnterminatedBlockComment(t *testing.T) {
	l := lexer.New("/* oops")
	tokens := l.Tokenize()

	if len(tokens) != 1 || tokens[0].Type != lexer.EOF {
		t.Fatalf("expected only the sentinel, got %d tokens", len(tokens))
	}
	if !l.HasErrors() {
		t.Fatal("expected an unterminated-comment error")
	}
	msg := l.Errors()[0]
	if !strings.Contains(msg, "注释未闭合") {
		t.Errorf("error does not mention the unterminated comment: %s", msg)
	}
	if !strings.Contains(msg, "第1行, 第1列") {
		t.Errorf("error should point at the opening position: %s", msg)
	}
}
