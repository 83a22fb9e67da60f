// Package px16's top-level entry point, GenPx16, fans functions out across
// at most threads goroutines, each lowering one contiguous batch, the way
// riscv.GenRiscv does: each function gets
// its own util.Writer and its own *Context, so two functions generating
// concurrently never share mutable state. Within a single function,
// generation is strictly sequential — nothing in this package suspends
// mid-function — which is what makes a single Context safe to use without
// any locking of its own.
package px16

import (
	"errors"
	"sync"

	"px16cc/src/ir"
	"px16cc/src/util"
)

// GenPx16 generates px16 assembly for every function in the program
// rooted at ir.Root, writing through util.ListenWrite's shared output
// sink. threads bounds how many functions are lowered concurrently; a
// value of 1 or less generates sequentially, useful for tests that want
// deterministic output ordering.
func GenPx16(threads int, pie bool) error {
	funcs := functionSymbols(ir.Root)

	if threads > 1 && len(funcs) > 1 {
		return genParallel(funcs, threads, pie)
	}
	return genSequential(funcs, pie)
}

func genSequential(funcs []*ir.Node, pie bool) error {
	for _, fn := range funcs {
		w := util.NewWriter()
		if err := genOneFunction(fn, &w, pie); err != nil {
			w.Flush()
			w.Close()
			return err
		}
		w.Flush()
		w.Close()
	}
	return nil
}

func genParallel(funcs []*ir.Node, threads int, pie bool) error {
	wg := sync.WaitGroup{}
	var mx sync.Mutex
	var errs []error

	t := threads
	if t > len(funcs) {
		t = len(funcs)
	}
	n := len(funcs) / t
	res := len(funcs) % t

	for b, i := 0, 0; i < len(funcs); b++ {
		m := n
		if b < res {
			m++
		}
		wg.Add(1)
		go func(batch []*ir.Node) {
			defer wg.Done()
			for _, fn := range batch {
				w := util.NewWriter()
				if err := genOneFunction(fn, &w, pie); err != nil {
					mx.Lock()
					errs = append(errs, err)
					mx.Unlock()
				}
				w.Flush()
				w.Close()
			}
		}(funcs[i : i+m])
		i += m
	}

	wg.Wait()
	if len(errs) > 0 {
		return errors.New("errors during parallel code generation")
	}
	return nil
}

// genOneFunction lowers a single function body, adding an implicit
// void return if control can fall off the end of it.
func genOneFunction(fn *ir.Node, w *util.Writer, pie bool) error {
	sym := fn.Entry
	ctx := NewContext(sym, w, pie)
	ctx.sink.Bind(sym.Label)

	params := GenFunctionEntry(ctx)
	for i, p := range sym.Params {
		ctx.scope[p] = params[i]
	}

	body := fn.Children[len(fn.Children)-1]
	terminates := GenStmt(ctx, body)
	if !terminates {
		GenReturn(ctx, nil)
	}
	return nil
}

// functionSymbols collects every FUNCTION node under the program root, the
// same traversal genRiscv performs over ir.Root.Children[0].Children.
func functionSymbols(root *ir.Node) []*ir.Node {
	if root == nil || len(root.Children) == 0 {
		return nil
	}
	var out []*ir.Node
	for _, c := range root.Children[0].Children {
		if c.Typ == ir.FUNCTION {
			out = append(out, c)
		}
	}
	return out
}
