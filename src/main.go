package main

import (
	"fmt"
	"os"
	"sync"

	"px16cc/src/backend"
	"px16cc/src/util"
)

// run drives one compilation: read the already-parsed program (building
// the AST from source text is out of scope for this module, exactly as
// spec frames the core as consuming AST input "from the parser" rather
// than owning parsing itself) and generate px16 assembly for it.
func run(opt util.Options) error {
	if len(opt.Src) == 0 {
		return fmt.Errorf("no input file given")
	}
	if _, err := util.ReadSource(opt); err != nil {
		return fmt.Errorf("could not read source: %s", err)
	}
	if opt.Verbose {
		fmt.Println("px16cc: generating assembly for", opt.Src)
	}
	if err := backend.GenerateAssembler(opt); err != nil {
		return fmt.Errorf("code generation error: %s", err)
	}
	return nil
}

func main() {
	opt, err := util.ParseArgs()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	wg := sync.WaitGroup{}
	if len(opt.Out) > 0 {
		f, err := os.OpenFile(opt.Out, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		defer f.Close()
		util.ListenWrite(opt, f, &wg)
	} else {
		util.ListenWrite(opt, nil, &wg)
	}
	defer util.Close()

	if err := run(opt); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	wg.Wait()
}
