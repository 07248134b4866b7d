package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"whilec/pkg/color"
	"whilec/pkg/lexer"
	"whilec/pkg/parser"

	"github.com/charmbracelet/log"
)

// sampleProgram is compiled when no source file is given.
const sampleProgram = "while ( true ) { float b_flag = 1.5 ; if_val = a_var ; while ( b < 1 ) { break ; } continue ; b = a_var ++ ; }"

type Compiler struct {
	Verbose    bool   // Enable verbose logging
	NoColor    bool   // Disable colored output
	DumpDir    string // Directory for items.txt and table.csv
	SourceFile string // Path to the source file, empty for the built-in sample
}

// Compile runs the full front end over the source: lexical analysis and its
// table, the LR(1) parse with its step trace, and the final TAC listing.
// Lexical and syntax errors are part of the trace on stdout; only an
// unreadable source file is a failure of the run itself.
func (opts *Compiler) Compile() error {
	src := sampleProgram
	if opts.SourceFile != "" {
		log.Info("Processing file", "file", opts.SourceFile)
		input, err := os.ReadFile(opts.SourceFile)
		if err != nil {
			return fmt.Errorf("cannot read source file %s: %w", opts.SourceFile, err)
		}
		src = string(input)
	} else {
		fmt.Printf("输入代码: %s\n\n", src)
	}

	l := lexer.New(src)
	tokens := l.Tokenize()

	printLexicalTable(tokens)

	if l.HasErrors() {
		fmt.Println(color.BrightRedText("\n--- 错误汇总 ---"))
		for _, err := range l.Errors() {
			fmt.Println(err)
		}
		fmt.Println(strings.Repeat("-", 100))
		return nil
	}

	p := parser.New()

	// Table dumps are written once, at construction; failures are reported
	// but do not block parsing.
	if err := p.SaveItems(filepath.Join(opts.DumpDir, "items.txt")); err != nil {
		log.Warn("cannot write items listing", "error", err)
	}
	if err := p.SaveTableCSV(filepath.Join(opts.DumpDir, "table.csv")); err != nil {
		log.Warn("cannot write parsing table", "error", err)
	}

	cg, err := p.Parse(tokens, os.Stdout)
	fmt.Println(strings.Repeat("-", 100))
	if err != nil {
		fmt.Println(color.BrightRedText("\n--- 错误汇总 ---"))
		for _, msg := range p.Errors() {
			fmt.Println(msg)
		}
		return nil
	}

	cg.WriteTAC(os.Stdout)
	return nil
}

// printLexicalTable prints one row per token; the end-of-input sentinel is
// kept out of the table
func printLexicalTable(tokens []lexer.Token) {
	fmt.Println(color.GreenText("--- 词法分析结果 ---"))
	fmt.Printf("%-15s%-10s%-15s%-8s%-8s\n", "Token", "符号码", "类型", "行号", "列号")
	for _, t := range tokens {
		if t.Type == lexer.EOF {
			continue
		}
		fmt.Printf("%-15s%-10d%-15s%-8d%-8d\n",
			t.Lexeme, int(t.Type), t.Label, t.Pos.Line, t.Pos.Column)
	}
	fmt.Println(strings.Repeat("-", 100))
}
