// Package emulator drives the CHIP-8 core at a fixed instruction rate and
// connects it to display and input front ends.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// FrameRate is the number of frames per second of the host loop.
const FrameRate = chip8.TimerHz

// ErrUnknownOpcode is returned in strict mode when an unknown opcode was executed.
var ErrUnknownOpcode = errors.New("unknown opcode")

// Display renders the machine framebuffer.
type Display interface {
	Draw(state *chip8.State) error
	Beep()
}

// Input updates the keypad of the machine. It returns true when the user
// requested to quit.
type Input interface {
	Poll(state *chip8.State) bool
}

// Config contains the emulator settings.
type Config struct {
	CPUHz     int    // instructions per second
	MaxCycles uint64 // instruction limit, 0 for unlimited
	Strict    bool   // stop on the first executor fault
	Unpaced   bool   // run frames back to back instead of in real time
}

// Stats contains counters of an emulation run.
type Stats struct {
	Cycles         uint64
	Frames         uint64
	UnknownOpcodes uint64
	StackFaults    uint64
	Beeps          uint64
	LastFault      error // most recent stack fault or unknown opcode
}

// Emulator runs a machine state with an executor and a timer scheduler.
type Emulator struct {
	logger   *log.Logger
	state    *chip8.State
	executor *chip8.Executor
	timers   *chip8.TimerScheduler
	display  Display
	input    Input
	cfg      Config

	stepsPerFrame int
	stats         Stats
}

// New creates a new emulator for the given machine state.
func New(logger *log.Logger, state *chip8.State, executor *chip8.Executor,
	display Display, input Input, cfg Config) *Emulator {

	stepsPerFrame := cfg.CPUHz / FrameRate
	if stepsPerFrame < 1 {
		stepsPerFrame = 1
	}

	return &Emulator{
		logger:        logger,
		state:         state,
		executor:      executor,
		timers:        chip8.NewTimerScheduler(),
		display:       display,
		input:         input,
		cfg:           cfg,
		stepsPerFrame: stepsPerFrame,
	}
}

// Stats returns the counters of the run.
func (e *Emulator) Stats() Stats {
	return e.stats
}

// Run executes frames until the context is cancelled, the input requests
// to quit, the cycle limit is reached or a fault stops a strict run.
func (e *Emulator) Run(ctx context.Context) error {
	frameTime := e.timers.Period()

	var ticker *time.Ticker
	if !e.cfg.Unpaced {
		ticker = time.NewTicker(frameTime)
		defer ticker.Stop()
	}

	e.logger.Debug("Starting emulation",
		log.Int("cpu_hz", e.cfg.CPUHz),
		log.Int("steps_per_frame", e.stepsPerFrame))

	last := time.Now()
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("running emulation: %w", err)
		}

		elapsed := frameTime
		if ticker != nil {
			select {
			case <-ctx.Done():
				return fmt.Errorf("running emulation: %w", ctx.Err())
			case now := <-ticker.C:
				elapsed = now.Sub(last)
				last = now
			}
		}

		quit, err := e.RunFrame(elapsed)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// RunFrame executes a single frame: input is polled, the instructions of
// one frame are executed, the timers advance by the elapsed time and the
// display is updated if the framebuffer changed. It returns true when the
// run should end.
func (e *Emulator) RunFrame(elapsed time.Duration) (bool, error) {
	e.stats.Frames++

	if e.input != nil && e.input.Poll(e.state) {
		e.logger.Debug("Quit requested")
		return true, nil
	}

	limitReached, err := e.runSteps()
	if err != nil {
		return true, err
	}

	if _, beep := e.timers.Advance(e.state, elapsed); beep {
		e.stats.Beeps++
		e.display.Beep()
	}

	if e.state.DrawFlag() {
		if err := e.display.Draw(e.state); err != nil {
			return true, fmt.Errorf("drawing frame: %w", err)
		}
		e.state.ClearDrawFlag()
	}

	return limitReached, nil
}

// runSteps executes the instructions of one frame. A pending key wait
// ends the frame early as the keypad only changes between frames.
func (e *Emulator) runSteps() (bool, error) {
	for range e.stepsPerFrame {
		if e.cfg.MaxCycles > 0 && e.stats.Cycles >= e.cfg.MaxCycles {
			e.logger.Debug("Cycle limit reached", log.Int("cycles", int(e.stats.Cycles)))
			return true, nil
		}

		pc := e.state.PC
		ins := e.executor.Fetch(e.state)
		outcome, err := e.executor.Execute(e.state, ins)
		e.stats.Cycles++

		if err != nil {
			e.stats.StackFaults++
			e.stats.LastFault = err
			e.logger.Warn("Executor fault",
				log.Hex("pc", pc),
				log.Int("stack_depth", e.state.StackDepth()),
				log.Err(err))
			if e.cfg.Strict {
				return true, fmt.Errorf("executing instruction: %w", err)
			}
			continue
		}

		switch outcome {
		case chip8.OutcomeWaitingForKey:
			return false, nil

		case chip8.OutcomeUnknownOpcode:
			e.stats.UnknownOpcodes++
			e.stats.LastFault = fmt.Errorf("executing $%04X at $%03X: %w", ins.Word, pc, ErrUnknownOpcode)
			e.logger.Warn("Unknown opcode", log.Hex("pc", pc), log.Hex("opcode", ins.Word))
			if e.cfg.Strict {
				return true, e.stats.LastFault
			}
		}
	}

	return e.cfg.MaxCycles > 0 && e.stats.Cycles >= e.cfg.MaxCycles, nil
}
