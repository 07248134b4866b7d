package lexer

import (
	"regexp"
)

var (
	idRegex  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
	numRegex = regexp.MustCompile(`^[0-9][0-9.]*`)
)

type opPattern struct {
	Lexeme string
	Type   TokenType
	Label  string
}

// Operator and delimiter patterns. Two-character operators come before their
// one-character prefixes so the longest match wins.
var opPatterns = []opPattern{
	{"++", INCDEC, "自增运算符"},
	{"--", INCDEC, "自减运算符"},
	{"&&", LOGIC, "逻辑运算符"},
	{"||", LOGIC, "逻辑运算符"},
	{"==", OP, "关系运算符"},
	{"!=", OP, "关系运算符"},
	{">=", OP, "关系运算符"},
	{"<=", OP, "关系运算符"},

	{"!", LOGIC, "逻辑运算符"},
	{"<", OP, "关系运算符"},
	{">", OP, "关系运算符"},
	{"=", OP, "赋值运算符"},
	{"+", OP, "算术运算符"},
	{"-", OP, "算术运算符"},
	{"*", OP, "算术运算符"},
	{"/", OP, "算术运算符"},

	{"(", SYM, "符号"},
	{")", SYM, "符号"},
	{"{", SYM, "符号"},
	{"}", SYM, "符号"},
	{";", SYM, "符号"},
	{",", SYM, "符号"},
	{".", SYM, "符号"},
}

// MatchOperator returns the operator or delimiter pattern at the start of s
func MatchOperator(s string) (opPattern, bool) {
	for _, p := range opPatterns {
		if len(s) >= len(p.Lexeme) && s[:len(p.Lexeme)] == p.Lexeme {
			return p, true
		}
	}

	return opPattern{}, false
}

// MatchIdentifier returns the identifier or keyword lexeme at the start of s
func MatchIdentifier(s string) string {
	return idRegex.FindString(s)
}

// MatchNumber returns the maximal digits-and-dots run at the start of s.
// Dot placement is validated by the scanner so malformed numbers can be
// reported with their position.
func MatchNumber(s string) string {
	return numRegex.FindString(s)
}

// Check if a byte is a digit
func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
