package parser

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"whilec/pkg/lexer"
	"whilec/pkg/parser/codegen"
)

func parseSource(t *testing.T, src string) (*codegen.Codegen, *Parser, error) {
	t.Helper()

	l := lexer.New(src)
	tokens := l.Tokenize()
	if l.HasErrors() {
		t.Fatalf("lexical errors in %q: %v", src, l.Errors())
	}

	p := New()
	cg, err := p.Parse(tokens, io.Discard)
	return cg, p, err
}

func TestMinimalLoop(t *testing.T) {
	cg, _, err := parseSource(t, "while(true){break;}")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	tac := cg.TAC()
	// A literal true condition emits no jz: only the pending break and the
	// back edge remain.
	if len(tac) != 2 {
		t.Fatalf("expected 2 instructions, got %d: %v", len(tac), tac)
	}
	if tac[0].Op != "goto" || tac[0].Result != "L2" {
		t.Errorf("break should resolve to the terminal label L2, got %s %s", tac[0].Op, tac[0].Result)
	}
	if tac[1].Op != "goto" || tac[1].Result != "L0" {
		t.Errorf("back edge should target L0, got %s %s", tac[1].Op, tac[1].Result)
	}
	if cg.LoopDepth() != 0 {
		t.Errorf("loop stacks not drained: depth %d", cg.LoopDepth())
	}
}

func TestCounterLoop(t *testing.T) {
	cg, _, err := parseSource(t, "int i=0; while(i<10){i=i+1;}")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	tac := cg.TAC()
	expected := []struct {
		op     string
		arg1   string
		arg2   string
		result string
	}{
		{"decl", "int", "", "i"},
		{":=", "0", "", "i"},
		{"<", "i", "10", "T1"},
		{"jz", "T1", "", "L7"},
		{"+", "i", "1", "T2"},
		{":=", "T2", "", "i"},
		{"goto", "", "", "L2"},
	}

	if len(tac) != len(expected) {
		t.Fatalf("expected %d instructions, got %d: %v", len(expected), len(tac), tac)
	}
	for i, exp := range expected {
		got := tac[i]
		if got.Op != exp.op || got.Arg1 != exp.arg1 || got.Arg2 != exp.arg2 || got.Result != exp.result {
			t.Errorf("L%d: expected (%s, %s, %s, %s), got (%s, %s, %s, %s)",
				i, exp.op, exp.arg1, exp.arg2, exp.result, got.Op, got.Arg1, got.Arg2, got.Result)
		}
	}
}

func TestPostfixIncrement(t *testing.T) {
	cg, _, err := parseSource(t, "a = b++;")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	tac := cg.TAC()
	expected := []struct {
		op     string
		arg1   string
		arg2   string
		result string
	}{
		{":=", "b", "", "T1"},
		{"+", "b", "1", "T2"},
		{":=", "T2", "", "b"},
		{":=", "T1", "", "a"},
	}

	if len(tac) != len(expected) {
		t.Fatalf("expected %d instructions, got %d: %v", len(expected), len(tac), tac)
	}
	for i, exp := range expected {
		got := tac[i]
		if got.Op != exp.op || got.Arg1 != exp.arg1 || got.Arg2 != exp.arg2 || got.Result != exp.result {
			t.Errorf("L%d: expected (%s, %s, %s, %s), got (%s, %s, %s, %s)",
				i, exp.op, exp.arg1, exp.arg2, exp.result, got.Op, got.Arg1, got.Arg2, got.Result)
		}
	}
}

func TestNestedLoopBreakScoping(t *testing.T) {
	cg, _, err := parseSource(t, "while(a<1){while(b<2){break;}}")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	tac := cg.TAC()
	if len(tac) != 7 {
		t.Fatalf("expected 7 instructions, got %d: %v", len(tac), tac)
	}

	// Inner jz and break resolve to L6, inside the outer body, past the
	// inner back edge; only the outer jz reaches the outer exit L7.
	if tac[3].Result != "L6" {
		t.Errorf("inner jz should resolve to L6, got %s", tac[3].Result)
	}
	if tac[4].Op != "goto" || tac[4].Result != "L6" {
		t.Errorf("inner break should resolve to L6, got %s %s", tac[4].Op, tac[4].Result)
	}
	if tac[1].Result != "L7" {
		t.Errorf("outer jz should resolve to L7, got %s", tac[1].Result)
	}
	if tac[5].Result != "L2" || tac[6].Result != "L0" {
		t.Errorf("back edges should target L2 and L0, got %s and %s", tac[5].Result, tac[6].Result)
	}

	for _, instr := range tac {
		if strings.HasPrefix(instr.Result, "PENDING") {
			t.Errorf("unresolved placeholder survived: L%d %v", instr.Addr, instr)
		}
	}
}

func TestAddressesMatchIndices(t *testing.T) {
	sources := []string{
		"while(true){break;}",
		"int i=0; while(i<10){i=i+1;}",
		"a = b++;",
		"while(a<1){while(b<2){break;}}",
		"while ( true ) { float b_flag = 1.5 ; if_val = a_var ; while ( b < 1 ) { break ; } continue ; b = a_var ++ ; }",
	}

	for _, src := range sources {
		cg, _, err := parseSource(t, src)
		if err != nil {
			t.Fatalf("parse failed for %q: %v", src, err)
		}
		for i, instr := range cg.TAC() {
			if instr.Addr != i {
				t.Errorf("%q: instruction %d carries addr %d", src, i, instr.Addr)
			}
		}
	}
}

func TestSampleProgram(t *testing.T) {
	src := "while ( true ) { float b_flag = 1.5 ; if_val = a_var ; while ( b < 1 ) { break ; } continue ; b = a_var ++ ; }"
	cg, _, err := parseSource(t, src)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	tac := cg.TAC()
	if len(tac) == 0 {
		t.Fatal("no code generated")
	}
	for _, instr := range tac {
		if strings.HasPrefix(instr.Result, "PENDING") {
			t.Errorf("unresolved placeholder: L%d %v", instr.Addr, instr)
		}
	}
	if cg.LoopDepth() != 0 {
		t.Errorf("loop stacks not drained: depth %d", cg.LoopDepth())
	}

	// TAC and quadruple streams are produced in lock step.
	if len(cg.Quads()) != len(tac) {
		t.Errorf("quadruple count %d differs from TAC count %d", len(cg.Quads()), len(tac))
	}
}

func TestTraceOutput(t *testing.T) {
	l := lexer.New("while(true){break;}")
	tokens := l.Tokenize()

	var buf bytes.Buffer
	p := New()
	if _, err := p.Parse(tokens, &buf); err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	trace := buf.String()
	for _, want := range []string{"步骤", "移进 S", "归约 r", "ACCEPT"} {
		if !strings.Contains(trace, want) {
			t.Errorf("trace misses %q", want)
		}
	}
}

func TestMissingSemicolon(t *testing.T) {
	l := lexer.New("int a = 1 int b = 2;")
	tokens := l.Tokenize()
	if l.HasErrors() {
		t.Fatalf("unexpected lexical errors: %v", l.Errors())
	}

	p := New()
	cg, err := p.Parse(tokens, io.Discard)
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	if len(cg.TAC()) != 0 {
		// Nothing has been reduced before the second statement begins, so
		// no code may exist yet.
		t.Errorf("no TAC expected before the error, got %v", cg.TAC())
	}

	if len(p.Errors()) != 1 {
		t.Fatalf("expected one recorded error, got %d", len(p.Errors()))
	}
	msg := p.Errors()[0]
	for _, want := range []string{"[语法错误]", "第1行, 第11列", "'int'", "';'", "分号"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message misses %q:\n%s", want, msg)
		}
	}
}

func TestUnclosedBrace(t *testing.T) {
	l := lexer.New("while(a<1){b=1;")
	tokens := l.Tokenize()

	p := New()
	if _, err := p.Parse(tokens, io.Discard); err == nil {
		t.Fatal("expected a syntax error")
	}

	msg := p.Errors()[0]
	for _, want := range []string{"[语法错误]", "'#'", "第1行的 '{' 未闭合"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error message misses %q:\n%s", want, msg)
		}
	}
}
