package util

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ----------------------------
// ----- Type definitions -----
// ----------------------------

// Options mirrors the flag surface of the command line tool: where the
// source comes from, where output goes, and how the generator should
// behave. It used to be populated by a hand-rolled flag scanner; Cobra
// now owns argument parsing and this struct is just the bag of values the
// rest of the compiler reads.
type Options struct {
	Src     string   // Path to source file.
	Out     string   // Path to output file.
	Include []string // Additional include search paths, -I/--include.
	Threads int      // Thread count for parallel code generation.
	Verbose bool     // Print progress messages to stdout.
	Arch    string   // Output target architecture, currently only "px16".
	PIE     bool     // Generate position-independent code.
	OutType string   // "shared", "raw" or "executable".
}

// ---------------------
// ----- Constants -----
// ---------------------

const maxThreads = 64 // Maximum threads allowed executing in parallel.
const appVersion = "px16cc 1.0"

// ---------------------
// ----- functions -----
// ---------------------

// ParseArgs builds and executes the Cobra root command, returning the
// parsed Options. Cobra handles -h/--help and -v/--version itself; the
// RunE validation below only runs when those aren't requested.
func ParseArgs() (Options, error) {
	var opt Options

	root := &cobra.Command{
		Use:     "px16c [flags] <source>",
		Short:   "px16c compiles a C-like source file to px16 assembly",
		Version: appVersion,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opt.Threads < 1 || opt.Threads > maxThreads {
				return fmt.Errorf("thread count must be in range [1, %d]", maxThreads)
			}
			switch opt.OutType {
			case "shared", "raw", "executable":
			default:
				return fmt.Errorf("unexpected output type: %s", opt.OutType)
			}
			if len(args) > 0 {
				opt.Src = args[0]
			}
			return nil
		},
		SilenceUsage: true,
	}

	root.Flags().StringVarP(&opt.Out, "output", "o", "", "path to the output file; stdout if unset")
	root.Flags().StringArrayVarP(&opt.Include, "include", "I", nil, "add dir to the include search path")
	root.Flags().IntVarP(&opt.Threads, "threads", "t", 1, "number of functions to generate in parallel")
	root.Flags().BoolVarP(&opt.Verbose, "verbose", "V", false, "print progress messages to stdout")
	root.Flags().StringVar(&opt.Arch, "arch", "px16", "target architecture")
	root.Flags().BoolVar(&opt.PIE, "pie", false, "generate position independent code")
	root.Flags().StringVar(&opt.OutType, "outtype", "raw", "output type: shared, raw or executable")
	root.SetVersionTemplate(appVersion + "\n")

	root.SilenceErrors = true
	if err := root.Execute(); err != nil {
		return opt, err
	}
	return opt, nil
}
