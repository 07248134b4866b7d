package parser

import (
	"fmt"
	"strings"

	"whilec/pkg/lexer"
	"whilec/pkg/parser/stack"

	"github.com/emirpasic/gods/sets/treeset"
)

// expectedTerminals collects the terminals the parser would have accepted in
// the given state: terminals right after a dot, plus the lookaheads of every
// reduce item.
func (p *Parser) expectedTerminals(stateID int) []string {
	exp := treeset.NewWithStringComparator()
	for _, it := range p.states[stateID] {
		prod := p.g.prods[it.prodID]
		if it.dot < len(prod.Right) {
			sym := prod.Right[it.dot]
			if p.g.isTerminal(sym) {
				exp.Add(sym)
			}
		} else {
			exp.Add(it.lookahead.Values()...)
		}
	}

	return setStrings(exp)
}

// syntaxError builds the diagnostic for a missing ACTION entry: position,
// offending terminal, the accepted terminals, and a pattern hint when one
// applies.
func (p *Parser) syntaxError(w lexer.Token, a string, stateID int, braceLines *stack.Stack[int]) string {
	msg := fmt.Sprintf("[语法错误] %s: 遇到意外的符号 '%s'", w.Pos.String(), a)

	expected := p.expectedTerminals(stateID)
	if len(expected) > 0 {
		quoted := make([]string, len(expected))
		for i, e := range expected {
			quoted[i] = "'" + e + "'"
		}
		msg += "\n期望的符号: " + strings.Join(quoted, ", ")
	}

	if diag := diagnose(a, expected, braceLines); diag != "" {
		msg += "\n提示: " + diag
	}

	return msg
}

// diagnose matches the common error patterns and returns a hint, or ""
func diagnose(a string, expected []string, braceLines *stack.Stack[int]) string {
	has := func(sym string) bool {
		for _, e := range expected {
			if e == sym {
				return true
			}
		}
		return false
	}

	switch {
	case a == "#" && has("}"):
		// input ended inside a block; report the earliest unmatched '{'
		if braceLines.Size() > 0 {
			return fmt.Sprintf("第%d行的 '{' 未闭合，可能缺少 '}'", braceLines.Array()[0])
		}
		return "可能缺少 '}'"

	case has(";") && startsStatement(a):
		return "上一条语句可能缺少分号 ';'"

	case a == "#" && has(")"):
		return "'(' 未闭合，可能缺少 ')'"

	case a == ")" && !has(")"):
		return "存在多余的 ')' 或缺少 '('"

	case isBinaryOperator(a) && !has(a):
		return "运算符位置不正确"

	case a == "i" && !has("i") && (has("while") || has("int") || has("float")):
		return "此处期望关键字而不是标识符"

	case a == ";" && !has(";"):
		return "表达式可能提前结束"
	}

	return ""
}

// startsStatement reports whether the terminal can begin a statement
func startsStatement(a string) bool {
	switch a {
	case "i", "n", "int", "float", "while", "break", "continue", "++", "--", "-", "(", "true", "false":
		return true
	}
	return false
}

// isBinaryOperator reports whether the terminal is a binary operator
func isBinaryOperator(a string) bool {
	switch a {
	case "+", "-", "*", "/", "&&", "||", ">", "<", ">=", "<=", "==", "!=", "=":
		return true
	}
	return false
}
