package codegen

// HandleProduction runs the semantic action for the reduced production.
// popped holds the semantic items removed from the stack, leftmost symbol
// first; semStack is a read-only view of what remains below them. The
// returned item is pushed in place of the right-hand side.
func (c *Codegen) HandleProduction(id int, popped []SemItem, semStack []SemItem) SemItem {
	res := SemItem{}

	switch id {
	case 1: // A → while ( L ) M { B }
		c.exitLoop()

	case 38: // M → ε, the loop-condition marker
		c.loopCondition(semStack)

	case 2: // L → L || M1
		res.Name = c.newTemp()
		c.emit("||", popped[0].Name, popped[2].Name, res.Name)
		c.emitQuad("||", popped[0].Name, popped[2].Name, res.Name)

	case 4: // M1 → M1 && N
		res.Name = c.newTemp()
		c.emit("&&", popped[0].Name, popped[2].Name, res.Name)
		c.emitQuad("&&", popped[0].Name, popped[2].Name, res.Name)

	case 6: // N → ! N
		res.Name = c.newTemp()
		c.emit("!", popped[1].Name, "", res.Name)
		c.emitQuad("!", popped[1].Name, "_", res.Name)

	case 8, 24: // parenthesised expression
		res.Name = popped[1].Name

	case 9: // C → E ROP E, the operator lexeme is the op
		res.Name = c.newTemp()
		c.emit(popped[1].Name, popped[0].Name, popped[2].Name, res.Name)
		c.emitQuad(popped[1].Name, popped[0].Name, popped[2].Name, res.Name)

	case 14: // S → i = E
		c.emit(":=", popped[2].Name, "", popped[0].Name)
		c.emitQuad("=", popped[2].Name, "_", popped[0].Name)
		res.Name = popped[0].Name

	case 15, 16, 18, 19: // E → E + F and friends
		res.Name = c.newTemp()
		c.emit(popped[1].Name, popped[0].Name, popped[2].Name, res.Name)
		c.emitQuad(popped[1].Name, popped[0].Name, popped[2].Name, res.Name)

	case 21: // G → - G
		res.Name = c.newTemp()
		c.emit("neg", popped[1].Name, "", res.Name)
		c.emitQuad("neg", popped[1].Name, "_", res.Name)

	case 31: // G → i ++
		res.Name = c.postfixStep(popped[0].Name, "+")

	case 33: // G → i --
		res.Name = c.postfixStep(popped[0].Name, "-")

	case 32: // G → ++ i
		res.Name = c.prefixStep(popped[1].Name, "+")

	case 34: // G → -- i
		res.Name = c.prefixStep(popped[1].Name, "-")

	case 36: // S → break
		c.handleBreak()

	case 37: // S → continue
		c.handleContinue()

	case 39, 40: // S → int i / float i
		c.emit("decl", popped[0].Name, "", popped[1].Name)
		c.emitQuad("decl", popped[0].Name, "_", popped[1].Name)
		res.Name = popped[1].Name

	case 41, 42: // S → int i = E / float i = E
		c.emit("decl", popped[0].Name, "", popped[1].Name)
		c.emit(":=", popped[3].Name, "", popped[1].Name)
		c.emitQuad("decl", popped[0].Name, "_", popped[1].Name)
		c.emitQuad("=", popped[3].Name, "_", popped[1].Name)
		res.Name = popped[1].Name

	case 43: // G → true
		res.Name = "true"

	case 44: // G → false
		res.Name = "false"

	case 22, 23, 35, 45: // pass-through
		res.Name = popped[0].Name

	default:
		if len(popped) > 0 {
			res.Name = popped[0].Name
		}
	}

	return res
}

// postfixStep saves the old value of target, then steps it by one; the old
// value is the expression result
func (c *Codegen) postfixStep(target, op string) string {
	old := c.newTemp()
	c.emit(":=", target, "", old)
	c.emitQuad("=", target, "_", old)

	t := c.newTemp()
	c.emit(op, target, "1", t)
	c.emit(":=", t, "", target)
	c.emitQuad(op, target, "1", t)
	c.emitQuad("=", t, "_", target)

	return old
}

// prefixStep steps target by one and returns it as the expression result
func (c *Codegen) prefixStep(target, op string) string {
	t := c.newTemp()
	c.emit(op, target, "1", t)
	c.emit(":=", t, "", target)
	c.emitQuad(op, target, "1", t)
	c.emitQuad("=", t, "_", target)

	return target
}
