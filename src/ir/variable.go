package ir

import (
	"fmt"

	"px16cc/src/ir/types"
)

// Kind discriminates the variant held by a Var. The code generator never
// switches on anything else to decide how to materialise a value; adding a
// new storage class means adding a new Kind and teaching the materialiser
// and the allocator about it, nothing else.
type Kind int

const (
	KindReg   Kind = iota // lives in a real register, Var.Reg
	KindStack             // lives at a displacement from the stack pointer, Var.StackOffset
	KindLabel             // lives at a named memory location, Var.Label
	KindConst             // a compile-time-known literal, Var.Const
	KindCond              // a pending condition code, not yet materialised, Var.Cond
	KindPtr               // a pointer to another Var, Var.PtrTo
)

func (k Kind) String() string {
	switch k {
	case KindReg:
		return "reg"
	case KindStack:
		return "stack"
	case KindLabel:
		return "label"
	case KindConst:
		return "const"
	case KindCond:
		return "cond"
	case KindPtr:
		return "ptr"
	default:
		return "unknown"
	}
}

// Var is the tagged variable descriptor the whole backend passes around:
// "a value currently lives in register 2" and "a value lives at [SP+4]"
// are both just Vars with a different Kind. Home is the descriptor's
// writeback location: when a register- or condition-resident Var must be
// spilled, the allocator moves it to Home rather than inventing a fresh
// slot, so a value always returns to the same place it started from. Home
// is nil for Vars that are already their own home (KindStack, KindLabel,
// KindConst).
type Var struct {
	Owner string // declared name, for diagnostics
	Type  types.DataType
	Kind  Kind
	Home  *Var

	Reg         uint8  // KindReg
	StackOffset int    // KindStack, words from the frame's stack-pointer baseline
	Label       string // KindLabel
	Const       int64  // KindConst
	Cond        byte   // KindCond, a px16.Cond stored as byte to avoid an import cycle
	PtrTo       *Var   // KindPtr
}

// NewReg returns a register-resident Var whose home is the stack slot
// home (the "register convention" parameter home described in the
// calling-convention section); home may be nil for registers with no
// fixed home (temporaries).
func NewReg(owner string, t types.DataType, reg uint8, home *Var) *Var {
	return &Var{Owner: owner, Type: t, Kind: KindReg, Reg: reg, Home: home}
}

// NewStack returns a stack-resident Var at the given word offset from the
// frame's stack-pointer baseline.
func NewStack(owner string, t types.DataType, offset int) *Var {
	return &Var{Owner: owner, Type: t, Kind: KindStack, StackOffset: offset}
}

// NewLabel returns a Var resident at a named memory location.
func NewLabel(owner string, t types.DataType, label string) *Var {
	return &Var{Owner: owner, Type: t, Kind: KindLabel, Label: label}
}

// NewConst returns a compile-time-constant Var.
func NewConst(t types.DataType, v int64) *Var {
	return &Var{Type: t, Kind: KindConst, Const: v}
}

// NewCond returns a Var carrying a not-yet-materialised condition code.
func NewCond(cond byte) *Var {
	return &Var{Type: types.Int, Kind: KindCond, Cond: cond}
}

// NewPtr returns a Var that is a pointer to inner.
func NewPtr(inner *Var) *Var {
	return &Var{Type: types.Pointer, Kind: KindPtr, PtrTo: inner}
}

// Same reports structural equality between two variable descriptors: same
// Kind and same kind-specific payload (constants must also share a Type).
// Owner is not compared: two KindReg Vars both naming register 2 are Same
// even if their Owners differ — Same answers "would materialising either
// produce the identical operand encoding", not "do these name the same
// source variable".
func Same(a, b *Var) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindReg:
		return a.Reg == b.Reg
	case KindStack:
		return a.StackOffset == b.StackOffset
	case KindLabel:
		return a.Label == b.Label
	case KindConst:
		return a.Const == b.Const && a.Type == b.Type
	case KindCond:
		// Two condition descriptors are never Same even with an equal Cond:
		// each names a distinct, one-shot comparison result rather than a
		// reusable storage location, so materialising one can never stand
		// in for the other.
		return false
	case KindPtr:
		return Same(a.PtrTo, b.PtrTo)
	default:
		return false
	}
}

// String renders a Var the way the assembler's debug/verbose output does,
// e.g. "r2", "[sp+4]", "#3", ".L3".
func (v *Var) String() string {
	if v == nil {
		return "<nil>"
	}
	switch v.Kind {
	case KindReg:
		return fmt.Sprintf("r%d", v.Reg)
	case KindStack:
		return fmt.Sprintf("[sp+%d]", v.StackOffset)
	case KindLabel:
		return v.Label
	case KindConst:
		return fmt.Sprintf("#%d", v.Const)
	case KindCond:
		return fmt.Sprintf("cond(%d)", v.Cond)
	case KindPtr:
		return "*" + v.PtrTo.String()
	default:
		return "?"
	}
}
