package px16

import (
	"px16cc/src/ir"
	"px16cc/src/ir/types"
)

// ValueToCond converts any Var into a pending condition, the way
// px_var_to_cond does in the original target: a Var that is already a
// KindCond is returned unchanged (cond comparisons never re-evaluate
// themselves), anything else is tested against 1 with CMP1 and the
// result is the unsigned-greater-or-equal condition ("nonzero").
func ValueToCond(ctx *Context, v *ir.Var) Cond {
	if v.Kind == ir.KindCond {
		return Cond(v.Cond)
	}
	r := MaterializeToReg(ctx, v, 0)
	ctx.sink.Word(Insn{X: AddrImm, B: RegImm, A: r.Reg, O: OpCmp1})
	Release(ctx, r)
	return CondUGE
}

// relToCond maps a source-level relational operator (and its signedness)
// to a condition code, following the table gen_expr_math1 builds in the
// original: unsigned and signed comparisons of the same operator use
// different condition codes, except equality which has no sign.
func relToCond(op types.RelationalOperation, signed bool) Cond {
	switch op {
	case types.Eq:
		return CondEQ
	case types.Neq:
		return CondNE
	case types.LessThan:
		if signed {
			return CondSLT
		}
		return CondULT
	case types.LessThanOrEqual:
		if signed {
			return CondSLE
		}
		return CondULE
	case types.GreaterThan:
		if signed {
			return CondSGT
		}
		return CondUGT
	case types.GreaterThanOrEqual:
		if signed {
			return CondSGE
		}
		return CondUGE
	default:
		return CondNV
	}
}

// GenRelation evaluates `a op b` and returns a Var carrying the resulting
// pending condition. a is materialised to a register (CMP needs a real
// register on its left-hand side); b can be any addressing-mode-capable
// operand, exactly like a math1 operand.
func GenRelation(ctx *Context, op types.RelationalOperation, signed bool, a, b *ir.Var) *ir.Var {
	ra := MaterializeToReg(ctx, a, 0)
	cmp := OpCmp
	if b.Kind == ir.KindConst && b.Const == 1 {
		// Comparison against the literal 1 is common enough (boolean
		// results, loop bounds) to warrant CMP1's dedicated encoding,
		// the same peephole Math2 applies to ADD/SUB/SHL/SHR by 1.
		cmp = OpCmp1
	}
	emitOperandInsn(ctx, cmp, ra.Reg, b, 0)
	return ir.NewCond(byte(relToCond(op, signed)))
}

// Math1 evaluates a unary arithmetic operation on operand and returns the
// resulting Var. Logical NOT of an existing condition returns the inverted
// condition without emitting anything (gen_expr_math1's LOGIC_NOT fast
// path); address-of and dereference are handled by Adrof and Deref
// respectively, since they don't fit the "one opcode, one operand"
// arithmetic shape. Neg and bitwise Not are the only other operators
// handled; any other operator panics.
func Math1(ctx *Context, op types.ArithmeticOperation, operand *ir.Var) *ir.Var {
	switch op {
	case types.LogNot:
		if operand.Kind == ir.KindCond {
			return ir.NewCond(byte(Cond(operand.Cond).Invert()))
		}
		cond := ValueToCond(ctx, operand)
		return ir.NewCond(byte(cond.Invert()))

	case types.Adrof:
		return Adrof(ctx, operand)

	case types.Deref:
		return Deref(ctx, operand)

	case types.Neg:
		// px16 has no standalone NEG opcode, so a = -b lowers to a = 0 - b:
		// one SUB against a zeroed temporary, a substitution made explicit
		// here rather than inventing an opcode the encoder table doesn't
		// have.
		zero := ir.NewConst(operand.Type, 0)
		out := MaterializeToReg(ctx, zero, 0)
		emitOperandInsn(ctx, OpSub, out.Reg, operand, 0)
		return out

	case types.Not:
		out := MaterializeToReg(ctx, operand, 0)
		ctx.sink.Word(Insn{X: AddrImm, B: out.Reg, A: out.Reg, O: OpNot})
		return out
	}
	panic("px16: unsupported unary operator")
}

// Math2 evaluates a binary arithmetic operation. When b is the constant 1
// and op is one gen_expr_math2 recognises (ADD/SUB/SHL/SHR), it redirects
// to the dedicated unary INC/DEC/SHL-by-one/SHR-by-one form instead of
// emitting a full binary instruction — the peephole spec documents and
// the original performs via px_math1 with a hard-coded shift of one.
func Math2(ctx *Context, op types.ArithmeticOperation, a, b *ir.Var) *ir.Var {
	if b.Kind == ir.KindConst && b.Const == 1 {
		if out, ok := math2PeepholeByOne(ctx, op, a); ok {
			return out
		}
	}
	out := MaterializeToReg(ctx, a, 0)
	emitOperandInsn(ctx, arithOpcode(op), out.Reg, b, 0)
	return out
}

func math2PeepholeByOne(ctx *Context, op types.ArithmeticOperation, a *ir.Var) (*ir.Var, bool) {
	out := MaterializeToReg(ctx, a, 0)
	var unary Opcode
	switch op {
	case types.Add:
		unary = OpInc
	case types.Sub:
		unary = OpDec
	case types.LShift:
		unary = OpShl
	case types.RShift:
		unary = OpShr
	default:
		return nil, false
	}
	ctx.sink.Word(Insn{X: AddrImm, B: out.Reg, A: out.Reg, O: unary})
	return out, true
}

func arithOpcode(op types.ArithmeticOperation) Opcode {
	switch op {
	case types.Add:
		return OpAdd
	case types.Sub:
		return OpSub
	case types.Mul:
		return OpMul
	case types.Div:
		return OpDiv
	case types.Rem:
		return OpMod
	case types.And:
		return OpAnd
	case types.Or:
		return OpOr
	case types.Xor:
		return OpXor
	case types.LShift:
		return OpShl
	case types.RShift:
		return OpShr
	default:
		panic("px16: not a binary arithmetic operator")
	}
}

// Adrof computes the address of operand. Mirrors gen_expr_math1's ADROF
// case exactly: a label operand lowers to LEA with a PIE or absolute label
// reference, a stack operand lowers to LEA with a stack displacement, a
// Var with a Home recurses onto the home location (the address of a
// spilled value is the address of where it's spilled to), and anything
// else (a bare register, a constant) has no address and is first spilled
// to a stack-only temporary so one can be taken.
func Adrof(ctx *Context, operand *ir.Var) *ir.Var {
	switch operand.Kind {
	case ir.KindLabel:
		out := PickRegister(ctx, true)
		kind := RefAbs
		x := AddrMem
		if ctx.PIE {
			kind = RefOffs
		}
		ctx.sink.Word(Insn{X: x, B: RegImm, A: out, O: OpLea})
		ctx.sink.LabelRef(operand.Label, kind, 0)
		return ir.NewReg(operand.Owner, types.Pointer, out, nil)

	case ir.KindStack:
		out := PickRegister(ctx, true)
		ctx.sink.Word(Insn{X: AddrSt, B: RegImm, A: out, O: OpLea})
		ctx.sink.Literal(uint16(ctx.StackSize - operand.StackOffset))
		return ir.NewReg(operand.Owner, types.Pointer, out, nil)

	default:
		if operand.Home != nil {
			return Adrof(ctx, operand.Home)
		}
		tmp := GetTemp(ctx, 1, false)
		Move(ctx, tmp, operand)
		return Adrof(ctx, tmp)
	}
}

// Deref wraps operand as a pointer Var; the actual memory access happens
// lazily, the next time this Var is materialised or stored to (see
// emitPtrOperandInsn and storeThroughPointer), exactly mirroring the
// original's DEREF case, which just sets VAR_TYPE_PTR and defers the real
// load/store.
func Deref(ctx *Context, operand *ir.Var) *ir.Var {
	return ir.NewPtr(operand)
}
