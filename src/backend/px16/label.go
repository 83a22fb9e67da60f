package px16

import "fmt"

// Label kinds, one counter each. Unlike the teacher's util.NewLabel these
// counters live on a *Context rather than behind a package-level channel:
// spec requires label numbering to be per function and monotonic, and a
// single function's own code generation must run single-threaded, so a
// shared arbitration goroutine across functions would be both unnecessary
// and wrong (two functions generating concurrently must not perturb each
// other's label sequence).
const (
	labelIfTrue = iota
	labelIfEnd
	labelIfElseEnd
	labelWhileCheck
	labelWhileHead
	labelJump
	numLabelKinds
)

var labelPrefixes = [numLabelKinds]string{
	"LIfTrue",
	"LIfEnd",
	"LIfElseEnd",
	"LWhileCheck",
	"LWhileHead",
	"LJump",
}

// newLabel returns a fresh, function-scoped label name of the given kind.
func (ctx *Context) newLabel(kind int) string {
	n := ctx.labelIndices[kind]
	ctx.labelIndices[kind]++
	return fmt.Sprintf("%s_%s_%03d", ctx.Func.Name, labelPrefixes[kind], n)
}
