package px16

import "px16cc/src/ir"

// Branch emits a conditional branch to target under cond. The
// conditional-opcode family doubles as both "materialise 0/1" (see
// emitOperandInsn's KindCond case) and "branch" here, the destination
// being the implicit program counter rather than the A-field register —
// mirrors px_branch's debug rendering of its own instruction as
// "MOV<cond> PC, label".
func Branch(ctx *Context, cond Cond, target string) {
	kind := RefAbs
	if ctx.PIE {
		kind = RefOffs
	}
	ctx.sink.Word(Insn{X: AddrMem, B: RegImm, A: 0, O: CondOp(cond)})
	ctx.sink.LabelRef(target, kind, 0)
}

// Jump emits an unconditional branch to target. Separated from Branch
// (rather than Branch(ctx, CondAL, target)) because an unconditional
// control transfer is its own opcode, JMP, not a member of the
// conditional-opcode family — px_jump is likewise a separate, simpler
// function from px_branch in the original.
func Jump(ctx *Context, target string) {
	kind := RefAbs
	if ctx.PIE {
		kind = RefOffs
	}
	ctx.sink.Word(Insn{X: AddrMem, B: RegImm, A: 0, O: OpJmp})
	ctx.sink.LabelRef(target, kind, 0)
}

// GenIf lowers an if/else statement. genThen and, if non-nil, genElse
// generate the bodies and report whether control definitely does not
// fall off the end of that body (e.g. it ends in a return). GenIf itself
// reports the same for the statement as a whole — true only when every
// branch definitely terminates — so an enclosing generator can elide a
// dead fallthrough exactly as gen_if's own bool return lets its caller do.
//
// The branch-over-else shape (branch to the then-label when the condition
// holds, fall through into the else body otherwise) is the one spec names
// and is what the original's px_branch/label layout produces too.
func GenIf(ctx *Context, cond *ir.Var, genThen func() bool, genElse func() bool) bool {
	c := ValueToCond(ctx, cond)

	if genElse == nil {
		lSkip := ctx.newLabel(labelIfTrue)
		Branch(ctx, c.Invert(), lSkip)
		term := genThen()
		ctx.sink.Bind(lSkip)
		return term
	}

	lThen := ctx.newLabel(labelIfTrue)
	Branch(ctx, c, lThen)

	elseTerm := genElse()

	lEnd := ctx.newLabel(labelIfElseEnd)
	if !elseTerm {
		Jump(ctx, lEnd)
	}
	ctx.sink.Bind(lThen)
	thenTerm := genThen()
	if !elseTerm {
		ctx.sink.Bind(lEnd)
	}
	return thenTerm && elseTerm
}

// GenWhile lowers a while or do-while loop. genCond generates the loop
// condition; it is called once, at the check label after the body, and a
// while loop (unlike a do-while) first jumps to that check label.
// genBody generates the loop body. Continue statements inside
// genBody reach their target through GenContinue, which consults the
// Context's continue-label stack this function pushes to.
func GenWhile(ctx *Context, isDoWhile bool, genCond func() *ir.Var, genBody func()) {
	lHead := ctx.newLabel(labelWhileHead)
	lCheck := ctx.newLabel(labelWhileCheck)

	ctx.continueLabels.Push(lCheck)
	defer ctx.continueLabels.Pop()

	if !isDoWhile {
		Jump(ctx, lCheck)
	}
	ctx.sink.Bind(lHead)
	genBody()
	ctx.sink.Bind(lCheck)
	cond := genCond()
	c := ValueToCond(ctx, cond)
	Branch(ctx, c, lHead)
}

// GenContinue emits a jump to the innermost enclosing loop's condition
// check, the target GenWhile pushed onto the continue-label stack.
func GenContinue(ctx *Context) {
	target, _ := ctx.continueLabels.Peek().(string)
	if target == "" {
		panic("px16: continue statement outside of a loop")
	}
	Jump(ctx, target)
}
