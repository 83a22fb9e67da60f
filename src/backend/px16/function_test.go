package px16

import (
	"strings"
	"testing"

	"px16cc/src/ir"
	"px16cc/src/ir/types"
)

func paramSymbols(names ...string) []*ir.Symbol {
	syms := make([]*ir.Symbol, len(names))
	for i, n := range names {
		syms[i] = &ir.Symbol{Name: n, Type: types.Int}
	}
	return syms
}

func TestGenFunctionEntryRegisterConvention(t *testing.T) {
	fn := testFunc("f")
	fn.Params = paramSymbols("a", "b")

	var params []*ir.Var
	out := capture(t, func(ctx *Context) {
		ctx.Func = fn
		params = GenFunctionEntry(ctx)
	})

	if len(params) != 2 {
		t.Fatalf("got %d params, want 2", len(params))
	}
	for i, p := range params {
		if p.Kind != ir.KindReg || p.Reg != uint8(i) {
			t.Errorf("param %d = %s, want register r%d", i, p, i)
		}
		if p.Home == nil || p.Home.Kind != ir.KindStack {
			t.Errorf("param %d has no stack home to spill to", i)
		}
	}
	if !strings.Contains(out, "sub") {
		t.Errorf("register-convention entry must reserve stack space for param homes, got:\n%s", out)
	}
}

func TestGenFunctionEntryStackConvention(t *testing.T) {
	fn := testFunc("f")
	fn.Params = paramSymbols("a", "b", "c", "d", "e")

	var params []*ir.Var
	capture(t, func(ctx *Context) {
		ctx.Func = fn
		params = GenFunctionEntry(ctx)
	})

	if len(params) != 5 {
		t.Fatalf("got %d params, want 5", len(params))
	}
	for i, p := range params {
		if p.Kind != ir.KindStack || p.StackOffset != i {
			t.Errorf("param %d = %s, want stack offset %d", i, p, i)
		}
	}
}

func TestGenFunctionEntryNoParamsEmitsNothing(t *testing.T) {
	fn := testFunc("f")
	out := capture(t, func(ctx *Context) {
		ctx.Func = fn
		GenFunctionEntry(ctx)
	})
	if strings.TrimSpace(out) != "" {
		t.Errorf("a parameterless function's entry should emit nothing, got:\n%s", out)
	}
}

func TestGenReturnSkipsStackFixupWhenFrameIsEmpty(t *testing.T) {
	out := capture(t, func(ctx *Context) {
		GenReturn(ctx, nil)
	})
	if strings.Contains(out, "add") {
		t.Errorf("an empty frame needs no ADD ST,n before returning, got:\n%s", out)
	}
	if !strings.Contains(out, "jmp") {
		t.Errorf("expected the stack-relative return jump, got:\n%s", out)
	}
}

func TestGenReturnReclaimsFrameAndMovesResultToR0(t *testing.T) {
	out := capture(t, func(ctx *Context) {
		ctx.StackSize = 3
		retval := ir.NewConst(types.Int, 9)
		GenReturn(ctx, retval)
	})
	if !strings.Contains(out, "add") {
		t.Errorf("a grown frame must be reclaimed with ADD ST,n before returning, got:\n%s", out)
	}
	if !strings.Contains(out, "r0") {
		t.Errorf("expected the return value moved into r0, got:\n%s", out)
	}
}

func TestGenCallSpillsAndRestoresLiveRegisters(t *testing.T) {
	out := capture(t, func(ctx *Context) {
		// Occupy r1 with a value that must survive the call.
		ctx.regsUsed[1] = true
		ctx.regsOwner[1] = ir.NewReg("kept", types.Int, 1, nil)

		result := GenCall(ctx, "callee", nil, types.Int)
		if result.Kind != ir.KindReg || result.Reg != 0 {
			t.Errorf("GenCall result = %s, want r0", result)
		}
		if !ctx.regsUsed[1] {
			t.Errorf("r1 should have been restored as in-use after the call")
		}
	})
	if !strings.Contains(out, "call") {
		t.Errorf("expected a call instruction, got:\n%s", out)
	}
}

func TestGenCallRegisterArgumentConvention(t *testing.T) {
	out := capture(t, func(ctx *Context) {
		args := []*ir.Var{
			ir.NewConst(types.Int, 1),
			ir.NewConst(types.Int, 2),
		}
		GenCall(ctx, "callee", args, types.Int)
	})
	if strings.Contains(out, "sub") || strings.Contains(out, "add") {
		t.Errorf("two arguments fit the register convention and should not touch the stack, got:\n%s", out)
	}
}

func TestGenCallStackArgumentConvention(t *testing.T) {
	out := capture(t, func(ctx *Context) {
		args := make([]*ir.Var, 5)
		for i := range args {
			args[i] = ir.NewConst(types.Int, int64(i))
		}
		GenCall(ctx, "callee", args, types.Int)
	})
	if !strings.Contains(out, "sub") {
		t.Errorf("five arguments exceed the register convention and must reserve stack space, got:\n%s", out)
	}
}
