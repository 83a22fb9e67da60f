package px16

import "px16cc/src/ir"

// EvictionPolicy selects which register to sacrifice when PickRegister
// needs one and none is free. The default, hashPolicy, is deterministic
// (same function, same stack depth, same victim every time) which is what
// makes the generator's output reproducible byte-for-byte across runs —
// a property the teacher's own LRU-based riscv.lruI/lruF victim selection
// does not give you, since LRU order depends on traversal history rather
// than a pure function of (function name, stack size). Swapping in a
// different EvictionPolicy (e.g. an LRU or graph-colouring one) only
// changes which register gets evicted, never correctness.
type EvictionPolicy interface {
	Victim(ctx *Context) uint8
}

// hashPolicy reproduces px_pick_reg's victim formula from the original
// target: hash the first character of the function's name together with
// the current stack depth, scramble it with a fixed multiplier and
// fold it down to a register index. Because it depends only on
// (function name, stack size) — not on any call-order-dependent state —
// two independent compiler runs over the same source always evict the
// same register at the same point, which is useful for diffing generated
// assembly across compiler versions.
type hashPolicy struct{}

func (hashPolicy) Victim(ctx *Context) uint8 {
	var c byte
	if len(ctx.Func.Name) > 0 {
		c = ctx.Func.Name[0]
	}
	h := (uint32(c) + uint32(ctx.StackSize)) * 27483676
	return uint8((h >> 21) % NumRegs)
}

// DefaultEvictionPolicy is the policy PickRegister consults for every
// Context; there is no per-Context override.
var DefaultEvictionPolicy EvictionPolicy = hashPolicy{}

// PickRegister returns a register to hold a new value. A free register is
// returned without any eviction. When none is free and vacate is true, the
// eviction policy's victim is evicted: if it holds a Var with a Home, the
// old value is written back to its home location first (a spill) so it
// remains reachable; if it has no Home, a stack-only temporary is
// allocated for it first and it is relocated there. When none is free and
// vacate is false, PickRegister panics.
func PickRegister(ctx *Context, vacate bool) uint8 {
	for i := uint8(0); i < NumRegs; i++ {
		if !ctx.regsUsed[i] {
			ctx.regsUsed[i] = true
			return i
		}
	}
	if !vacate {
		panic("px16: no free register and eviction not allowed")
	}
	reg := ctx.evictionPolicy().Victim(ctx)
	victim := ctx.regsOwner[reg]
	if home := victim.Home; home != nil {
		storeRegTo(ctx, home, reg)
	} else {
		tmp := GetTemp(ctx, 1, false)
		storeRegTo(ctx, tmp, reg)
		*victim = *tmp
	}
	ctx.regsOwner[reg] = nil
	return reg
}

func (ctx *Context) evictionPolicy() EvictionPolicy {
	return DefaultEvictionPolicy
}

// GetTemp allocates a fresh temporary of the given word count. When
// allowReg is true and size == 1, a free register is preferred; otherwise
// (or when no register is free) the temporary is carved out of the stack
// frame instead, growing StackSize by size words. This mirrors
// px_get_tmp's register-fast-path-then-stack-fallback shape exactly.
func GetTemp(ctx *Context, size int, allowReg bool) *ir.Var {
	if size == 1 && allowReg {
		for i := uint8(0); i < NumRegs; i++ {
			if !ctx.regsUsed[i] {
				ctx.regsUsed[i] = true
				v := ir.NewReg("", 0, i, nil)
				ctx.regsOwner[i] = v
				return v
			}
		}
	}
	offset := ctx.StackSize
	ctx.StackSize += size
	return ir.NewStack("", 0, offset)
}

// Release frees v's storage so a later PickRegister/GetTemp can reuse it.
// Releasing a Var that does not currently occupy live storage (e.g. a
// constant) is a no-op.
func Release(ctx *Context, v *ir.Var) {
	if v == nil || v.Kind != ir.KindReg {
		return
	}
	if v.Reg < NumRegs && ctx.regsOwner[v.Reg] == v {
		ctx.regsOwner[v.Reg] = nil
	}
	if v.Reg < NumRegs {
		ctx.regsUsed[v.Reg] = false
	}
}
