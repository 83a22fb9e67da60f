package px16

import (
	"px16cc/src/ir"
	"px16cc/src/util"
)

// Context holds everything one function's code generation needs: the
// function symbol being lowered, the assembly sink, the register/stack
// allocator state and the per-function label counters. A Context is
// created fresh for each function by GenPx16's fan-out and must never be
// shared between two functions generating concurrently — doing so would
// let one function's temporaries or labels leak into another's, which is
// exactly the invariant the per-Context (rather than package-global)
// design here is protecting.
type Context struct {
	Func *ir.Symbol
	PIE  bool

	sink *sink

	// StackSize is the number of words currently reserved on the stack for
	// this function's frame: parameter homes, spilled temporaries and
	// locals all grow it. It is read by hashPolicy's eviction hash and by
	// every stack-relative displacement computation.
	StackSize int

	regsUsed  [NumRegs]bool
	regsOwner [NumRegs]*ir.Var // the Var currently resident in register i, if regsUsed[i]

	labelIndices [numLabelKinds]int

	continueLabels util.Stack // nested while-loop continue targets, innermost on top

	scope map[*ir.Symbol]*ir.Var // symbols bound to a location in the current function
}

// NewContext returns a Context ready to generate code for fn, writing
// through w. pie selects position-independent addressing for labels and
// branches.
func NewContext(fn *ir.Symbol, w *util.Writer, pie bool) *Context {
	return &Context{
		Func:  fn,
		PIE:   pie,
		sink:  newSink(w),
		scope: make(map[*ir.Symbol]*ir.Var),
	}
}
