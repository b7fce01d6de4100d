// Package cli handles command line interface logic
package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/retroenv/retrochip8/internal/options"
)

// ParseFlags parses command line flags and returns the program options
func ParseFlags() (options.Program, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	flags.SetOutput(os.Stderr)
	opts := options.New()
	readOptionFlags(flags, &opts)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil {
		return opts, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, err
	}

	if opts.Input == "" && opts.Batch == "" {
		if len(args) == 0 {
			opts.Browse = true
		} else {
			opts.Input = args[0]
		}
	}

	if err := validateOptionCombinations(opts); err != nil {
		return opts, err
	}

	return opts, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: retrochip8 [options] [ROM file]\n\n")
	if e.msg != "" {
		fmt.Printf("%s\n\n", e.msg)
	}
	if e.flags != nil {
		e.flags.SetOutput(os.Stdout)
		e.flags.PrintDefaults()
	}
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && len(arg) > 0 && arg[0] == '-' {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after ROM file, please pass the ROM file as last argument", arg),
			}
		}
	}
	return nil
}

// validateOptionCombinations checks for options that can not be used together
func validateOptionCombinations(opts options.Program) error {
	if opts.Batch != "" && !opts.Disassemble {
		return errors.New("batch processing is only supported for disassembling, add the -d flag")
	}
	if opts.Headless && !opts.Disassemble && opts.Cycles == 0 {
		return errors.New("headless mode requires an instruction limit, set -cycles")
	}
	if opts.CPUHz < options.MinimumCPUHz {
		return fmt.Errorf("cpu rate %d is below the minimum of %d instructions per second", opts.CPUHz, options.MinimumCPUHz)
	}
	if opts.KeyHold <= 0 {
		return fmt.Errorf("invalid key hold duration %d", opts.KeyHold)
	}
	return nil
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program) {
	flags.StringVar(&opts.Input, "i", "", "name of the input ROM file")
	flags.StringVar(&opts.Output, "o", "", "name of the output file for listings and frame dumps, printed on console if no name given")
	flags.StringVar(&opts.Batch, "batch", "", "disassemble a batch of given path and file mask with automatic .lst file naming, for example *.ch8")
	flags.BoolVar(&opts.Disassemble, "d", false, "disassemble the ROM instead of running it")
	flags.BoolVar(&opts.Headless, "headless", false, "run without terminal output and dump the final frame")
	flags.BoolVar(&opts.Strict, "strict", false, "stop emulation on stack faults and unknown opcodes")
	flags.IntVar(&opts.CPUHz, "hz", options.DefaultCPUHz, "instructions executed per second")
	flags.Uint64Var(&opts.Cycles, "cycles", 0, "stop after executing the given number of instructions, 0 for unlimited")
	flags.Uint64Var(&opts.Seed, "seed", 0, "seed of the random number generator, 0 for a time based seed")
	flags.IntVar(&opts.KeyHold, "keyhold", options.DefaultKeyHold, "milliseconds a key stays pressed after a terminal key event")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
}
