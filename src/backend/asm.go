package backend

import (
	"fmt"

	"px16cc/src/backend/px16"
	"px16cc/src/util"
)

// GenerateAssembler takes the syntax tree and generates px16 assembly
// output based on the architecture selection in opt. Unlike the teacher
// this package grew from, there is only ever one real target, so this
// dispatcher's job is picking PIE vs non-PIE addressing rather than
// picking between backend packages.
func GenerateAssembler(opt util.Options) error {
	switch opt.Arch {
	case "", "px16":
		return px16.GenPx16(opt.Threads, opt.PIE)
	default:
		return fmt.Errorf("unsupported target architecture %q", opt.Arch)
	}
}
