// Package pipeline orchestrates loading a ROM and either disassembling or running it.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrochip8/internal/config"
	"github.com/retroenv/retrochip8/internal/disasm"
	"github.com/retroenv/retrochip8/internal/emulator"
	"github.com/retroenv/retrochip8/internal/loader"
	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrochip8/internal/terminal"
	"github.com/retroenv/retrogolib/log"
)

// FrontEnd is an interactive display and input device.
type FrontEnd interface {
	emulator.Display
	emulator.Input
	Close()
}

// FrontEndConstructor creates the front end for interactive runs.
type FrontEndConstructor func(logger *log.Logger, keyHold time.Duration) (FrontEnd, error)

// Pipeline orchestrates the complete workflow for a single ROM.
type Pipeline struct {
	logger      *log.Logger
	loader      *loader.Loader
	newFrontEnd FrontEndConstructor
}

// New creates a new pipeline that uses the terminal for interactive runs.
func New(logger *log.Logger) *Pipeline {
	return &Pipeline{
		logger:      logger,
		loader:      loader.New(logger),
		newFrontEnd: newTerminal,
	}
}

// WithFrontEnd replaces the front end constructor used for interactive runs.
func (p *Pipeline) WithFrontEnd(constructor FrontEndConstructor) *Pipeline {
	p.newFrontEnd = constructor
	return p
}

// Execute loads the ROM and disassembles or runs it. Listings and headless
// frame dumps are written to the writer.
func (p *Pipeline) Execute(ctx context.Context, opts options.Program, writer io.Writer) error {
	program, err := p.loader.Load(opts.Input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}

	p.printInfo(opts, program)

	if opts.Disassemble {
		return p.disassemble(ctx, program, writer)
	}
	return p.emulate(ctx, opts, program, writer)
}

func (p *Pipeline) disassemble(ctx context.Context, program []byte, writer io.Writer) error {
	dis := disasm.New(p.logger)
	stats, err := dis.Process(ctx, program, writer)
	if err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}

	p.logger.Debug("Disassembly finished",
		log.Int("instructions", stats.Instructions),
		log.Int("data", stats.Data),
		log.Int("labels", stats.Labels))
	return nil
}

func (p *Pipeline) emulate(ctx context.Context, opts options.Program, program []byte, writer io.Writer) error {
	state := chip8.New()
	if err := chip8.LoadProgram(state, program); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	cfg := emulator.Config{
		CPUHz:     opts.CPUHz,
		MaxCycles: opts.Cycles,
		Strict:    opts.Strict,
		Unpaced:   opts.Headless,
	}

	if opts.Headless {
		executor := chip8.NewExecutor(p.logger, config.CreateRandomSource(opts.Seed))
		return p.runHeadless(ctx, state, executor, cfg, writer)
	}
	return p.runInteractive(ctx, opts, state, cfg)
}

// runHeadless runs the machine without input as fast as possible and
// writes the final frame.
func (p *Pipeline) runHeadless(ctx context.Context, state *chip8.State, executor *chip8.Executor,
	cfg emulator.Config, writer io.Writer) error {

	display := emulator.NewTextDisplay(writer, false)
	emu := emulator.New(p.logger, state, executor, display, nil, cfg)

	err := emu.Run(ctx)
	p.logStats(emu.Stats())
	if err != nil {
		return fmt.Errorf("running emulation: %w", err)
	}

	if err := display.WriteFrame(state); err != nil {
		return fmt.Errorf("writing final frame: %w", err)
	}
	return nil
}

// runInteractive runs the machine on the front end. While the front end owns
// the screen only errors are logged, faults are reported after it closed.
func (p *Pipeline) runInteractive(ctx context.Context, opts options.Program, state *chip8.State,
	cfg emulator.Config) error {

	logger := screenLogger()
	frontEnd, err := p.newFrontEnd(logger, time.Duration(opts.KeyHold)*time.Millisecond)
	if err != nil {
		return fmt.Errorf("creating front end: %w", err)
	}

	executor := chip8.NewExecutor(logger, config.CreateRandomSource(opts.Seed))
	emu := emulator.New(logger, state, executor, frontEnd, frontEnd, cfg)
	err = emu.Run(ctx)
	// the terminal has to be restored before anything gets logged
	frontEnd.Close()

	p.logStats(emu.Stats())
	if err != nil {
		return fmt.Errorf("running emulation: %w", err)
	}
	return nil
}

// printInfo prints information about the ROM being processed.
func (p *Pipeline) printInfo(opts options.Program, program []byte) {
	if opts.Quiet {
		return
	}

	mode := "run"
	switch {
	case opts.Disassemble:
		mode = "disassemble"
	case opts.Headless:
		mode = "headless"
	}

	p.logger.Info("Processing CHIP-8 ROM",
		log.String("file", opts.Input),
		log.Int("size", len(program)),
		log.String("mode", mode),
	)
}

func (p *Pipeline) logStats(stats emulator.Stats) {
	p.logger.Info("Emulation finished",
		log.Int("cycles", int(stats.Cycles)),
		log.Int("frames", int(stats.Frames)),
		log.Int("unknown_opcodes", int(stats.UnknownOpcodes)),
		log.Int("stack_faults", int(stats.StackFaults)),
		log.Int("beeps", int(stats.Beeps)),
	)
	if stats.LastFault != nil {
		p.logger.Warn("Program caused executor faults", log.Err(stats.LastFault))
	}
}

// screenLogger returns the logger used while a front end owns the screen,
// it only passes errors.
func screenLogger() *log.Logger {
	return config.CreateLogger(false, true)
}

func newTerminal(logger *log.Logger, keyHold time.Duration) (FrontEnd, error) {
	t, err := terminal.New(logger, keyHold)
	if err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	return t, nil
}
