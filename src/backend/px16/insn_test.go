package px16

import "testing"

func TestInsnPackUnpackRoundTrip(t *testing.T) {
	cases := []Insn{
		{Y: 0, X: 0, B: 0, A: 0, O: OpNop},
		{Y: 1, X: AddrSt, B: RegSt, A: 3, O: OpMov},
		{Y: 0, X: AddrImm, B: RegImm, A: 2, O: OpCall},
		{Y: 0, X: AddrMem, B: RegImm, A: 0, O: CondOp(CondSGE)},
		{Y: 0, X: 4, B: 4, A: 4, O: WithCarry(OpAdd)},
	}
	for _, want := range cases {
		word := want.Pack()
		got := Unpack(word)
		if got != want {
			t.Errorf("Unpack(Pack(%+v)) = %+v, want same", want, got)
		}
	}
}

func TestInsnFieldsAreMasked(t *testing.T) {
	// Fields wider than their bit budget must be truncated, not overflow
	// into neighbouring fields, since Pack is documented as total.
	insn := Insn{Y: 0xFF, X: 0xFF, B: 0xFF, A: 0xFF, O: 0xFF}
	word := insn.Pack()
	got := Unpack(word)
	want := Insn{Y: 1, X: 7, B: 7, A: 7, O: 63}
	if got != want {
		t.Errorf("masked round trip = %+v, want %+v", got, want)
	}
}

func TestWithCarrySetsOnlyCarryBit(t *testing.T) {
	for _, op := range []Opcode{OpAdd, OpSub, OpShl, OpShr} {
		carried := WithCarry(op)
		if carried&carryContinue == 0 {
			t.Errorf("WithCarry(%d) did not set the carry bit", op)
		}
		if carried&^carryContinue != op {
			t.Errorf("WithCarry(%d) = %#x, changed bits outside carryContinue", op, carried)
		}
	}
}

func TestCondOpStaysInConditionalFamily(t *testing.T) {
	for c := CondEQ; c <= CondNV; c++ {
		op := CondOp(c)
		if op&condBit == 0 {
			t.Errorf("CondOp(%s) = %#x, condBit not set", c, op)
		}
		if Cond(op&^condBit) != c {
			t.Errorf("CondOp(%s) round trip = %s", c, Cond(op&^condBit))
		}
	}
}

func TestCondInvertIsInvolution(t *testing.T) {
	for c := CondEQ; c <= CondNV; c++ {
		if got := c.Invert().Invert(); got != c {
			t.Errorf("%s.Invert().Invert() = %s, want %s", c, got, c)
		}
		if c.Invert() == c {
			t.Errorf("%s.Invert() returned itself, conditions must negate to something else", c)
		}
	}
}

func TestOpcodeFamiliesDoNotOverlap(t *testing.T) {
	// The arithmetic/move opcodes (0-15), the conditional-opcode family
	// (condBit|0 through condBit|CondNV, i.e. 32-43) and the fixed high
	// opcodes (CMP/CMP1/CALL/JMP, 48-51) must never collide: every
	// opcode value must belong to exactly one of these three groups.
	plain := []Opcode{OpNop, OpMov, OpLea, OpAdd, OpSub, OpMul, OpDiv, OpMod,
		OpAnd, OpOr, OpXor, OpNot, OpShl, OpShr, OpInc, OpDec}
	for _, op := range plain {
		if op >= condBit && op < OpCmp {
			t.Errorf("plain opcode %d falls inside the conditional-opcode family's range", op)
		}
	}
	high := []Opcode{OpCmp, OpCmp1, OpCall, OpJmp}
	for _, op := range high {
		if op >= condBit && op < OpCmp {
			t.Errorf("high opcode %d falls inside the conditional-opcode family's range", op)
		}
		for _, p := range plain {
			if op == p {
				t.Errorf("high opcode %d collides with plain opcode", op)
			}
		}
	}
	for c := CondEQ; c <= CondNV; c++ {
		cond := CondOp(c)
		for _, op := range append(append([]Opcode{}, plain...), high...) {
			if cond == op {
				t.Errorf("conditional opcode %d (cond %s) collides with opcode %d", cond, c, op)
			}
		}
	}
}
