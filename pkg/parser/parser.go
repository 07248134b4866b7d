package parser

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"whilec/pkg/color"
	"whilec/pkg/lexer"
	"whilec/pkg/parser/codegen"
	"whilec/pkg/parser/stack"

	"github.com/charmbracelet/log"
)

// Display widths of the trace columns; overlong stacks keep only a tail.
const (
	stateStackLimit  = 23
	stateStackTail   = 20
	symbolStackLimit = 18
	symbolStackTail  = 15
)

type Parser struct {
	g           *grammar                 // productions, symbol sets, FIRST
	states      []state                  // canonical LR(1) item sets
	actionTable map[int]map[string]action // (state, terminal) → action
	gotoTable   map[int]map[string]int    // (state, nonterminal) → state
	errors      []string                 // syntax errors, first one stops the parse
}

// New builds the LR(1) automaton and the ACTION/GOTO tables for the frozen
// grammar. The tables are read-only once construction finishes.
func New() *Parser {
	p := &Parser{
		g:           newGrammar(),
		actionTable: map[int]map[string]action{},
		gotoTable:   map[int]map[string]int{},
		errors:      []string{},
	}
	p.buildTables()

	return p
}

// StateCount returns the number of LR(1) states
func (p *Parser) StateCount() int {
	return len(p.states)
}

// Errors returns the list of syntax errors
func (p *Parser) Errors() []string {
	return p.errors
}

// Parse runs the shift/reduce driver over the token stream, writing one
// trace line per step to out and emitting intermediate code through the
// returned code generator. Parsing stops at the first syntax error.
func (p *Parser) Parse(tokens []lexer.Token, out io.Writer) (*codegen.Codegen, error) {
	cg := codegen.New()

	stateStack := stack.NewStack(0)
	symbolStack := stack.NewStack("#")
	semStack := make([]codegen.SemItem, 0)
	braceLines := stack.NewStack[int]() // line of every still-open '{'
	ptr := 0

	fmt.Fprintf(out, "%-6s%-25s%-20s%-12s%-15s%s\n",
		"步骤", "状态栈", "符号栈", "当前输入", "动作", "生成四元式")

	step := 1
	for {
		s := stateStack.Peek()
		w := tokens[ptr]
		a := w.Terminal()

		stStr := truncateTail(joinInts(stateStack.Array()), stateStackLimit, stateStackTail)
		syStr := truncateTail(strings.Join(symbolStack.Array(), " "), symbolStackLimit, symbolStackTail)

		act, ok := p.actionTable[s][a]
		if !ok || act.kind == actionError {
			msg := p.syntaxError(w, a, s, braceLines)
			p.errors = append(p.errors, msg)
			fmt.Fprintf(out, "\n%s\n", color.RedText(msg))
			fmt.Fprintf(out, "%-6d%-25s%-20s%-12s%s\n", step, stStr, syStr, a, "错误: 语法不匹配")
			return cg, fmt.Errorf("syntax error at %s", w.Pos.String())
		}

		switch act.kind {
		case actionShift:
			if a == "while" {
				cg.EnterLoop()
			}
			switch a {
			case "{":
				braceLines.Push(w.Pos.Line)
			case "}":
				braceLines.Pop()
			}

			fmt.Fprintf(out, "%-6d%-25s%-20s%-12s%-15s\n",
				step, stStr, syStr, a, "移进 S"+strconv.Itoa(act.target))
			step++

			stateStack.Push(act.target)
			symbolStack.Push(a)
			semStack = append(semStack, codegen.SemItem{Name: w.Lexeme})
			ptr++

		case actionReduce:
			prod := p.g.prods[act.target]
			n := len(prod.Right)
			popped := make([]codegen.SemItem, n)
			for k := n - 1; k >= 0; k-- {
				stateStack.Pop()
				symbolStack.Pop()
				popped[k] = semStack[len(semStack)-1]
				semStack = semStack[:len(semStack)-1]
			}

			res := cg.HandleProduction(act.target, popped, semStack)

			fmt.Fprintf(out, "%-6d%-25s%-20s%-12s%-15s%s\n",
				step, stStr, syStr, a, "归约 r"+strconv.Itoa(act.target), cg.TakeStepQuads())
			step++

			next, ok := p.gotoTable[stateStack.Peek()][prod.Left]
			if !ok {
				log.Error("missing GOTO entry", "state", stateStack.Peek(), "nonterminal", prod.Left)
				return cg, fmt.Errorf("internal error: no GOTO for %s in state %d", prod.Left, stateStack.Peek())
			}
			symbolStack.Push(prod.Left)
			stateStack.Push(next)
			semStack = append(semStack, res)

		case actionAccept:
			fmt.Fprintf(out, "%-6d%-25s%-20s%-12s%-15s\n", step, stStr, syStr, a, "ACCEPT")
			return cg, nil
		}
	}
}

// joinInts renders a state stack as space-separated numbers
func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " ")
}

// truncateTail keeps only the last tail characters of an overlong column
func truncateTail(s string, limit, tail int) string {
	if len(s) > limit {
		return "..." + s[len(s)-tail:]
	}
	return s
}
