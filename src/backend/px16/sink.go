package px16

import (
	"fmt"

	"px16cc/src/backend/xtoa"
	"px16cc/src/util"
)

// RefKind distinguishes the two ways a label can be referenced from
// generated code: as a PC-relative displacement (position independent) or
// as an absolute address, mirroring ASM_LABEL_REF_OFFS_PTR and
// ASM_LABEL_REF_ABS_PTR in the original target.
type RefKind int

const (
	RefAbs RefKind = iota
	RefOffs
)

// sink is the assembly output stage: it turns packed instruction words and
// label references into the textual assembly stream written through a
// util.Writer. Every public method here writes exactly one 16-bit memory word
// (or, for Bind, no word at all) so a reader can always recover how many
// words a generated instruction occupies by counting calls.
type sink struct {
	w *util.Writer
}

func newSink(w *util.Writer) *sink {
	return &sink{w: w}
}

// Word emits one packed instruction word, annotated with a disassembly
// comment purely for human readability; the comment carries no semantic
// weight and a downstream assembler ignores it.
func (s *sink) Word(insn Insn) {
	s.w.Write(".word 0x%04x\t; %s\n", insn.Pack(), disasm(insn))
}

// Literal emits a raw data word, e.g. a constant operand or an absolute
// address trailing a MOV/LEA instruction. The trailing comment renders the
// same value in decimal, since a hex word is awkward to eyeball for small
// loop bounds and array sizes.
func (s *sink) Literal(word uint16) {
	s.w.Write(".word 0x%04x\t; %s\n", word, xtoa.ItoA(int(int16(word))))
}

// LabelRef emits a word that is really a relocation against name: the
// final value is filled in by a downstream assembler/linker once label
// addresses are known. kind selects whether the relocation wants an
// absolute address or a PC-relative displacement, and addend adjusts the
// resulting value by a constant (used once, by move-through-label of a
// constant source, to mirror the original's off-by-one label quirk).
func (s *sink) LabelRef(name string, kind RefKind, addend int) {
	rel := "abs"
	if kind == RefOffs {
		rel = "pcrel"
	}
	if addend != 0 {
		s.w.Write(".word %s(%s%+d)\n", rel, name, addend)
	} else {
		s.w.Write(".word %s(%s)\n", rel, name)
	}
}

// Bind defines label name at the current output position.
func (s *sink) Bind(name string) {
	s.w.Label(name)
}

// disasm renders insn as a human-readable mnemonic for the trailing
// comment, e.g. "mov r0, x1" or "moveq r0, #cc".
func disasm(insn Insn) string {
	// The conditional-opcode family only occupies condBit|0 through
	// condBit|CondNV (32-43); OpCmp and above also have bit 5 set simply
	// by virtue of being >= 32, so the upper bound matters as much as the
	// bit test does.
	if insn.O >= condBit && insn.O < OpCmp {
		return fmt.Sprintf("mov%s r%d, #cc", Cond(insn.O&^condBit), insn.A)
	}
	// The carry-continue bit only qualifies the plain opcodes below condBit;
	// CMP/CMP1/CALL/JMP (48-51) have bit 4 set as part of their own value.
	base := insn.O
	cc := ""
	if insn.O < condBit && insn.O&carryContinue != 0 {
		base = insn.O &^ carryContinue
		cc = "+cc"
	}
	switch base {
	case OpNop:
		return "nop"
	case OpMov:
		return fmt.Sprintf("mov%s r%d, x%d", cc, insn.A, insn.B)
	case OpLea:
		return fmt.Sprintf("lea r%d, x%d", insn.A, insn.B)
	case OpAdd:
		return fmt.Sprintf("add%s r%d, r%d, x%d", cc, insn.A, insn.A, insn.B)
	case OpSub:
		return fmt.Sprintf("sub%s r%d, r%d, x%d", cc, insn.A, insn.A, insn.B)
	case OpMul:
		return fmt.Sprintf("mul r%d, r%d, x%d", insn.A, insn.A, insn.B)
	case OpDiv:
		return fmt.Sprintf("div r%d, r%d, x%d", insn.A, insn.A, insn.B)
	case OpMod:
		return fmt.Sprintf("mod r%d, r%d, x%d", insn.A, insn.A, insn.B)
	case OpAnd:
		return fmt.Sprintf("and r%d, r%d, x%d", insn.A, insn.A, insn.B)
	case OpOr:
		return fmt.Sprintf("or r%d, r%d, x%d", insn.A, insn.A, insn.B)
	case OpXor:
		return fmt.Sprintf("xor r%d, r%d, x%d", insn.A, insn.A, insn.B)
	case OpNot:
		return fmt.Sprintf("not r%d, x%d", insn.A, insn.B)
	case OpShl:
		return fmt.Sprintf("shl%s r%d, r%d, x%d", cc, insn.A, insn.A, insn.B)
	case OpShr:
		return fmt.Sprintf("shr%s r%d, r%d, x%d", cc, insn.A, insn.A, insn.B)
	case OpInc:
		return fmt.Sprintf("inc r%d", insn.A)
	case OpDec:
		return fmt.Sprintf("dec r%d", insn.A)
	case OpCmp:
		return fmt.Sprintf("cmp r%d, x%d", insn.A, insn.B)
	case OpCmp1:
		return fmt.Sprintf("cmp1 r%d, x%d", insn.A, insn.B)
	case OpCall:
		return "call"
	case OpJmp:
		return "jmp"
	default:
		return fmt.Sprintf("?%d", insn.O)
	}
}
