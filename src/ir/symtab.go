package ir

import "px16cc/src/ir/types"

// Symbol describes one declared name: a global, a local, a parameter or a
// function. The teacher this package grew from referenced a *Symbol type
// from every backend file without ever defining one; this is that
// definition, shaped by what the code generator actually needs to know
// about a declaration to lower it.
type Symbol struct {
	Name string
	Type types.DataType

	IsFunction bool
	Params     []*Symbol // only set when IsFunction

	IsGlobal bool
	Label    string // memory label, set for globals and functions

	PtrDepth int // number of indirections, 0 for a plain value
}

// CallConv identifies how a function's arguments are passed, mirroring
// px_update_cc in the original target: zero arguments need no convention,
// one to four are passed in registers (each with a stack-slot home), more
// than four are pushed on the stack.
type CallConv int

const (
	CallConvNone CallConv = iota
	CallConvRegs
	CallConvStack
)

// CallConvOf returns the calling convention for a function taking n
// arguments.
func CallConvOf(n int) CallConv {
	switch {
	case n == 0:
		return CallConvNone
	case n <= px16MaxRegArgs:
		return CallConvRegs
	default:
		return CallConvStack
	}
}

// px16MaxRegArgs is the number of arguments that still fit the register
// calling convention before falling back to the stack convention. The
// original target fixes this at four regardless of NumRegs; this module
// keeps that literal historical value rather than re-deriving it from the
// register count, since the two happen to already agree (NumRegs == 5,
// one of which is needed as scratch for the call sequence itself).
const px16MaxRegArgs = 4
