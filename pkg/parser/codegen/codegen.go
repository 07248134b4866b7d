package codegen

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"whilec/pkg/parser/stack"
)

// Placeholder jump targets awaiting backpatch.
const (
	PendingExit = "PENDING_EXIT"
	PendingTest = "PENDING_TEST"
)

// SemItem is the scalar value carried on the semantic stack: an identifier,
// a literal lexeme, or a freshly minted temporary.
type SemItem struct {
	Name string
}

// loopFrame groups the bookkeeping of one open while loop; the frame stack
// is exactly as deep as the loop nesting.
type loopFrame struct {
	testStart    int   // TAC address of the condition code
	breakList    []int // goto/jz addresses waiting for the exit label
	continueList []int // goto addresses waiting for the test label
}

type Codegen struct {
	tac       []Instruction          // emitted three-address code
	quads     []Quadruple            // parallel quadruple stream
	tempCount int                    // temporary variable counter
	loops     *stack.Stack[*loopFrame] // one frame per open while
	stepQuads []string               // quadruple text buffered for the current step
}

// New creates a new Codegen instance
func New() *Codegen {
	return &Codegen{
		tac:       make([]Instruction, 0),
		quads:     make([]Quadruple, 0),
		tempCount: 0,
		loops:     stack.NewStack[*loopFrame](),
		stepQuads: []string{},
	}
}

// TAC returns the emitted three-address code
func (c *Codegen) TAC() []Instruction {
	return c.tac
}

// Quads returns the emitted quadruples
func (c *Codegen) Quads() []Quadruple {
	return c.quads
}

// LoopDepth returns the number of currently open loops
func (c *Codegen) LoopDepth() int {
	return c.loops.Size()
}

// TakeStepQuads returns and clears the quadruple text buffered since the
// last call; the driver drains it once per parse step
func (c *Codegen) TakeStepQuads() string {
	s := strings.Join(c.stepQuads, " ")
	c.stepQuads = c.stepQuads[:0]
	return s
}

// WriteTAC prints the final TAC listing, one instruction per L<addr> line
func (c *Codegen) WriteTAC(out io.Writer) {
	fmt.Fprintln(out, "\n--- 生成的三地址码 (TAC) ---")
	for _, t := range c.tac {
		fmt.Fprintf(out, "L%3d | %s\n", t.Addr, t.render())
	}
}

// newTemp mints a fresh temporary; names are never reused
func (c *Codegen) newTemp() string {
	c.tempCount++
	return "T" + strconv.Itoa(c.tempCount)
}

// emit appends one TAC record; Addr equals the sequence length at emission
func (c *Codegen) emit(op, a1, a2, res string) {
	c.tac = append(c.tac, Instruction{Op: op, Arg1: a1, Arg2: a2, Result: res, Addr: len(c.tac)})
}

// emitQuad appends one quadruple and buffers its text for the current step
func (c *Codegen) emitQuad(op, a1, a2, res string) {
	q := Quadruple{Op: op, Arg1: a1, Arg2: a2, Result: res}
	c.quads = append(c.quads, q)
	c.stepQuads = append(c.stepQuads, q.String())
}

// backpatch rewrites the Result field of an already emitted instruction
func (c *Codegen) backpatch(addr int, target string) {
	if addr >= 0 && addr < len(c.tac) {
		c.tac[addr].Result = target
	}
}

// EnterLoop is called when the driver shifts a `while`: the current TAC
// address becomes the loop's test start and fresh break/continue lists open
func (c *Codegen) EnterLoop() {
	c.loops.Push(&loopFrame{
		testStart:    len(c.tac),
		breakList:    []int{},
		continueList: []int{},
	})
}

// exitLoop emits the back edge and resolves the pending break and continue
// jumps of the innermost loop
func (c *Codegen) exitLoop() {
	if c.loops.Size() == 0 {
		return
	}
	frame := c.loops.Pop()

	c.emit("goto", "", "", "L"+strconv.Itoa(frame.testStart))
	c.emitQuad("j", "_", "_", strconv.Itoa(frame.testStart))

	exitAddr := len(c.tac)
	for _, addr := range frame.breakList {
		c.backpatch(addr, "L"+strconv.Itoa(exitAddr))
	}
	for _, addr := range frame.continueList {
		c.backpatch(addr, "L"+strconv.Itoa(frame.testStart))
	}
}

// handleBreak emits a pending jump to the loop exit
func (c *Codegen) handleBreak() {
	if c.loops.Size() == 0 {
		return
	}
	frame := c.loops.Peek()
	frame.breakList = append(frame.breakList, len(c.tac))
	c.emit("goto", "", "", PendingExit)
	c.emitQuad("j", "_", "_", PendingExit)
}

// handleContinue emits a pending jump back to the loop test
func (c *Codegen) handleContinue() {
	if c.loops.Size() == 0 {
		return
	}
	frame := c.loops.Peek()
	frame.continueList = append(frame.continueList, len(c.tac))
	c.emit("goto", "", "", PendingTest)
	c.emitQuad("j", "_", "_", PendingTest)
}

// loopCondition fires on the marker reduction M → ε, after the condition
// expression has been reduced and ')' consumed: the condition result sits
// directly below the ')' on top of the semantic stack. A literal `true` condition emits
// nothing; otherwise the jz joins the break list so it resolves to the exit
// label together with the actual breaks.
func (c *Codegen) loopCondition(semStack []SemItem) {
	if len(semStack) < 2 {
		return
	}
	cond := semStack[len(semStack)-2]
	if cond.Name == "true" {
		return
	}

	jzAddr := len(c.tac)
	c.emit("jz", cond.Name, "", PendingExit)
	c.emitQuad("jz", cond.Name, "_", PendingExit)
	if c.loops.Size() > 0 {
		frame := c.loops.Peek()
		frame.breakList = append(frame.breakList, jzAddr)
	}
}
