package px16

import (
	"fmt"

	"px16cc/src/backend/xtoa"
	"px16cc/src/ir"
	"px16cc/src/ir/types"
)

// GenStmt lowers one statement node and reports whether control
// definitely does not fall off the end of it (a return on every path, or
// an if/else whose two arms both do) — the same signal GenIf threads
// through to elide a dead fallthrough jump.
func GenStmt(ctx *Context, n *ir.Node) bool {
	switch n.Typ {
	case ir.BLOCK, ir.STATEMENT_LIST:
		term := false
		for i, c := range n.Children {
			term = GenStmt(ctx, c)
			if term && i != len(n.Children)-1 {
				// Everything after a terminating statement is unreachable;
				// nothing else in the block needs generating.
				return true
			}
		}
		return term

	case ir.NULL_STATEMENT:
		return false

	case ir.DECLARATION, ir.DECLARATION_LIST:
		for _, c := range n.Children {
			genDeclaration(ctx, c)
		}
		return false

	case ir.ASSIGNMENT_STATEMENT:
		dst := lvalue(ctx, n.Children[0])
		src := GenExpr(ctx, n.Children[1])
		Move(ctx, dst, src)
		return false

	case ir.RETURN_STATEMENT:
		if len(n.Children) > 0 {
			GenReturn(ctx, GenExpr(ctx, n.Children[0]))
		} else {
			GenReturn(ctx, nil)
		}
		return true

	case ir.IF_STATEMENT:
		cond := GenExpr(ctx, n.Children[0])
		var genElse func() bool
		if len(n.Children) > 2 {
			elseBody := n.Children[2]
			genElse = func() bool { return GenStmt(ctx, elseBody) }
		}
		thenBody := n.Children[1]
		return GenIf(ctx, cond, func() bool { return GenStmt(ctx, thenBody) }, genElse)

	case ir.WHILE_STATEMENT, ir.DO_WHILE_STATEMENT:
		condNode := n.Children[0]
		body := n.Children[1]
		GenWhile(ctx, n.Typ == ir.DO_WHILE_STATEMENT,
			func() *ir.Var { return GenExpr(ctx, condNode) },
			func() { GenStmt(ctx, body) })
		return false

	case ir.INLINE_ASM_STATEMENT:
		genInlineAsm(ctx, n)
		return false

	default:
		// A bare expression statement, e.g. a call for its side effects.
		GenExpr(ctx, n)
		return false
	}
}

// genDeclaration binds a freshly declared local to a stack-resident Var.
// Locals are never pre-assigned a register: GetTemp/PickRegister promote
// them into one lazily the first time they're used, exactly like any
// other temporary.
func genDeclaration(ctx *Context, n *ir.Node) {
	sym := n.Entry
	if sym == nil {
		return
	}
	v := GetTemp(ctx, sym.Type.Words(), false)
	v.Owner = sym.Name
	ctx.scope[sym] = v
}

// lvalue resolves the storage location an assignment or address-of
// targets, without loading its value - a plain identifier resolves via
// the scope table, while *p resolves to a KindPtr Var wrapping p's value.
func lvalue(ctx *Context, n *ir.Node) *ir.Var {
	switch n.Typ {
	case ir.IDENTIFIER_DATA:
		return resolve(ctx, n)
	case ir.DEREF_EXPRESSION:
		return Deref(ctx, GenExpr(ctx, n.Children[0]))
	default:
		panic(fmt.Sprintf("px16: %s is not an lvalue", n.Type()))
	}
}

// resolve looks up an identifier's bound Var: a parameter or local in the
// current function's scope, or a global's label otherwise.
func resolve(ctx *Context, n *ir.Node) *ir.Var {
	sym := n.Entry
	if sym == nil {
		panic("px16: unresolved identifier reached code generation")
	}
	if v, ok := ctx.scope[sym]; ok {
		return v
	}
	return ir.NewLabel(sym.Name, sym.Type, sym.Label)
}

// GenExpr lowers one expression node to a Var holding its result.
func GenExpr(ctx *Context, n *ir.Node) *ir.Var {
	switch n.Typ {
	case ir.IDENTIFIER_DATA:
		return resolve(ctx, n)

	case ir.INTEGER_DATA:
		return ir.NewConst(types.Int, int64(n.Data.(int)))

	case ir.ADROF_EXPRESSION:
		return Adrof(ctx, lvalue(ctx, n.Children[0]))

	case ir.DEREF_EXPRESSION:
		return Deref(ctx, GenExpr(ctx, n.Children[0]))

	case ir.RELATION:
		op, signed := n.Data.(relData).op, n.Data.(relData).signed
		a := GenExpr(ctx, n.Children[0])
		b := GenExpr(ctx, n.Children[1])
		return GenRelation(ctx, op, signed, a, b)

	case ir.EXPRESSION:
		op := n.Data.(types.ArithmeticOperation)
		if op.IsUnary() {
			return Math1(ctx, op, GenExpr(ctx, n.Children[0]))
		}
		a := GenExpr(ctx, n.Children[0])
		b := GenExpr(ctx, n.Children[1])
		return Math2(ctx, op, a, b)

	case ir.CALL_EXPRESSION:
		callee := n.Entry
		args := make([]*ir.Var, len(n.Children))
		for i, c := range n.Children {
			args[i] = GenExpr(ctx, c)
		}
		return GenCall(ctx, callee.Label, args, callee.Type)

	default:
		panic(fmt.Sprintf("px16: %s is not an expression", n.Type()))
	}
}

// relData is the Data payload a RELATION node carries: which comparison
// and whether its operands are signed.
type relData struct {
	op     types.RelationalOperation
	signed bool
}

// genInlineAsm lowers an `asm(var)` statement, emitting var's address if
// it has one, or its value otherwise — mirroring gen_iasm_var in the
// original, including giving every Kind a defined outcome where the
// original silently falls off the end of the function for VAR_TYPE_PTR.
func genInlineAsm(ctx *Context, n *ir.Node) {
	v := GenExpr(ctx, n.Children[0])
	var text string
	switch v.Kind {
	case ir.KindLabel:
		text = v.Label
	case ir.KindStack:
		text = fmt.Sprintf("[sp+%d]", ctx.StackSize-v.StackOffset)
	case ir.KindReg:
		text = fmt.Sprintf("r%d", v.Reg)
	case ir.KindConst:
		text = xtoa.ItoA(int(v.Const))
	case ir.KindPtr:
		// The original leaves this case without a return statement at all;
		// the safe, defined behaviour is to materialise the pointer itself
		// (its value, not what it points to) since inline asm referring to
		// a pointer variable means "give me the address it holds", not "go
		// read through it".
		r := MaterializeToReg(ctx, v.PtrTo, 0)
		text = fmt.Sprintf("r%d", r.Reg)
	default:
		text = "?"
	}
	ctx.sink.w.Write("# asm %s\n", text)
}
