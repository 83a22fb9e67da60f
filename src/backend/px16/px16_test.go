package px16

import (
	"os"
	"sync"
	"testing"

	"px16cc/src/ir"
	"px16cc/src/ir/types"
	"px16cc/src/util"
)

// capture runs fn against a fresh *Context writing through a real
// util.Writer, and returns everything written to the underlying sink as
// text. This mirrors the fan-in main.go itself drives (ListenWrite backed
// by a file, one Writer per unit of work, Close, wait), just pointed at a
// temp file instead of stdout so the test can read it back.
func capture(t *testing.T, fn func(ctx *Context)) string {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "px16-test-*.s")
	if err != nil {
		t.Fatalf("creating temp output file: %v", err)
	}
	defer f.Close()

	var wg sync.WaitGroup
	util.ListenWrite(util.Options{Threads: 1}, f, &wg)

	w := util.NewWriter()
	ctx := NewContext(testFunc("f"), &w, false)
	fn(ctx)
	w.Close()
	wg.Wait()
	// Signal the listener goroutine to shut down; it drains any already
	// -buffered output before exiting (see util.ListenWrite), so every
	// byte fn wrote is on disk by the time Close returns control here.
	util.Close()

	b, err := os.ReadFile(f.Name())
	if err != nil {
		t.Fatalf("reading captured output: %v", err)
	}
	return string(b)
}

// testFunc returns a minimal function Symbol suitable for a Context under
// test: just enough identity for the label generator and eviction hash to
// have something to work with.
func testFunc(name string) *ir.Symbol {
	return &ir.Symbol{Name: name, IsFunction: true, Label: name, Type: types.Int}
}
