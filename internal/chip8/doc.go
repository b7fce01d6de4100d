// Package chip8 implements the CHIP-8 virtual machine core.
//
// # Machine
//
// State holds the complete machine: 4KB memory, registers V0-VF, the index
// register I, the program counter, a call stack of 16 return addresses,
// the delay and sound timers, the 64x32 monochrome framebuffer and the
// 16 key keypad. The font glyphs live at FontStart, programs are loaded at
// ProgramStart.
//
// # Execution
//
// Decode maps an instruction word to an Instruction, Executor.Execute applies
// it. Executor.Step combines fetch, decode and execute. The instruction
// semantics follow the COSMAC VIP interpreter:
//   - SHR and SHL shift Vx in place, Vy is ignored
//   - SUB and SUBN set VF when no borrow occurred
//   - OR, AND and XOR leave VF untouched
//   - sprites wrap around the screen instead of being clipped
//
// The key wait instruction never blocks. Without a pressed key Step returns
// OutcomeWaitingForKey and leaves the program counter unchanged, so the next
// Step executes the same instruction again.
//
// # Timers
//
// The timers are independent from instruction execution. TickTimers
// performs a single 60 Hz tick, TimerScheduler derives the number of ticks
// from elapsed host time.
//
// # Usage Example
//
//	state := chip8.New()
//	if err := chip8.LoadProgram(state, rom); err != nil {
//		return fmt.Errorf("loading program: %w", err)
//	}
//	executor := chip8.NewExecutor(logger, rand.New(rand.NewPCG(1, 2)))
//	outcome, err := executor.Step(state)
package chip8
