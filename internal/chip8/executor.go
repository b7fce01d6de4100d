package chip8

import (
	"fmt"

	"github.com/retroenv/retrogolib/log"
)

// Outcome describes how a single step ended.
type Outcome uint8

const (
	// OutcomeExecuted means the instruction was executed normally.
	OutcomeExecuted Outcome = iota
	// OutcomeWaitingForKey means a key wait instruction found no pressed key,
	// the program counter was not advanced and the step has to be repeated.
	OutcomeWaitingForKey
	// OutcomeUnknownOpcode means the word has no defined semantics, the
	// program counter was advanced without any other state change.
	OutcomeUnknownOpcode
)

func (o Outcome) String() string {
	switch o {
	case OutcomeExecuted:
		return "executed"
	case OutcomeWaitingForKey:
		return "waiting for key"
	case OutcomeUnknownOpcode:
		return "unknown opcode"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// RandomSource provides random numbers for the RND instruction.
type RandomSource interface {
	Uint32() uint32
}

// Executor executes instructions on a machine state.
type Executor struct {
	logger *log.Logger
	rng    RandomSource
}

// NewExecutor returns a new executor using the given random source.
func NewExecutor(logger *log.Logger, rng RandomSource) *Executor {
	return &Executor{
		logger: logger,
		rng:    rng,
	}
}

// Fetch decodes the instruction at the program counter without executing it.
func (e *Executor) Fetch(s *State) Instruction {
	return Decode(s.readWord(s.PC))
}

// Step fetches, decodes and executes the instruction at the program counter.
// Stack faults are returned as errors after the program counter has been
// advanced, the machine stays usable.
func (e *Executor) Step(s *State) (Outcome, error) {
	return e.Execute(s, e.Fetch(s))
}

// Execute applies a decoded instruction to the state as if it was fetched
// from the current program counter.
func (e *Executor) Execute(s *State, ins Instruction) (Outcome, error) {
	pc := s.PC
	next := pc + 2
	x, y := ins.X, ins.Y
	vx, vy := s.V[x], s.V[y]

	switch ins.Op {
	case OpSys:
		// machine code routines of the COSMAC VIP are not supported

	case OpCls:
		s.clearScreen()

	case OpRet:
		address, err := s.pop()
		if err != nil {
			s.PC = next
			e.logger.Debug("Return with empty stack", log.Hex("pc", pc))
			return OutcomeExecuted, fmt.Errorf("return at $%03X: %w", pc, err)
		}
		next = address

	case OpJp:
		next = ins.NNN

	case OpCall:
		if err := s.push(next); err != nil {
			s.PC = next
			e.logger.Debug("Call exceeds stack depth", log.Hex("pc", pc), log.Hex("target", ins.NNN))
			return OutcomeExecuted, fmt.Errorf("call at $%03X: %w", pc, err)
		}
		next = ins.NNN

	case OpSeByte:
		if vx == ins.KK {
			next += 2
		}

	case OpSneByte:
		if vx != ins.KK {
			next += 2
		}

	case OpSeReg:
		if vx == vy {
			next += 2
		}

	case OpSneReg:
		if vx != vy {
			next += 2
		}

	case OpLdByte:
		s.V[x] = ins.KK

	case OpAddByte:
		s.V[x] = vx + ins.KK

	case OpLdReg:
		s.V[x] = vy

	case OpOr:
		s.V[x] = vx | vy

	case OpAnd:
		s.V[x] = vx & vy

	case OpXor:
		s.V[x] = vx ^ vy

	case OpAddReg:
		sum := uint16(vx) + uint16(vy)
		s.V[x] = byte(sum)
		s.V[FlagRegister] = boolToFlag(sum > 0xFF)

	case OpSub:
		s.V[x] = vx - vy
		s.V[FlagRegister] = boolToFlag(vx >= vy)

	case OpSubn:
		s.V[x] = vy - vx
		s.V[FlagRegister] = boolToFlag(vy >= vx)

	case OpShr:
		s.V[x] = vx >> 1
		s.V[FlagRegister] = vx & 0x01

	case OpShl:
		s.V[x] = vx << 1
		s.V[FlagRegister] = vx >> 7

	case OpLdI:
		s.I = ins.NNN

	case OpJpV0:
		next = ins.NNN + uint16(s.V[0])

	case OpRnd:
		s.V[x] = byte(e.rng.Uint32()) & ins.KK

	case OpDrw:
		e.draw(s, vx, vy, ins.N)

	case OpSkp:
		if s.Key(vx) {
			next += 2
		}

	case OpSknp:
		if !s.Key(vx) {
			next += 2
		}

	case OpLdVxDT:
		s.V[x] = s.DelayTimer

	case OpLdVxK:
		key, ok := firstPressedKey(s)
		if !ok {
			return OutcomeWaitingForKey, nil
		}
		s.V[x] = key

	case OpLdDTVx:
		s.DelayTimer = vx

	case OpLdSTVx:
		s.SoundTimer = vx

	case OpAddI:
		s.I += uint16(vx)

	case OpLdF:
		s.I = FontStart + uint16(vx&0xF)*FontGlyphSize

	case OpLdB:
		s.Memory[s.I&AddressMask] = vx / 100
		s.Memory[(s.I+1)&AddressMask] = vx / 10 % 10
		s.Memory[(s.I+2)&AddressMask] = vx % 10

	case OpStore:
		for r := uint16(0); r <= uint16(x); r++ {
			s.Memory[(s.I+r)&AddressMask] = s.V[r]
		}

	case OpLoad:
		for r := uint16(0); r <= uint16(x); r++ {
			s.V[r] = s.Memory[(s.I+r)&AddressMask]
		}

	default:
		s.PC = next
		e.logger.Debug("Unknown opcode", log.Hex("pc", pc), log.Hex("opcode", ins.Word))
		return OutcomeUnknownOpcode, nil
	}

	s.PC = next
	return OutcomeExecuted, nil
}

// draw XORs an n byte sprite read from memory at I onto the framebuffer.
// Pixels that fall off the right edge continue on the next row, rows
// below the screen wrap to the top. VF is set if any pixel was erased.
func (e *Executor) draw(s *State, vx, vy byte, rows uint8) {
	x := int(vx) % ScreenWidth
	y := int(vy) % ScreenHeight
	collision := false

	for row := range int(rows) {
		sprite := s.Memory[(s.I+uint16(row))&AddressMask]
		for bit := range 8 {
			if sprite&(0x80>>bit) == 0 {
				continue
			}
			index := (x + bit + (y+row)*ScreenWidth) % ScreenSize
			if s.framebuffer[index] == 1 {
				collision = true
			}
			s.framebuffer[index] ^= 1
		}
	}

	s.V[FlagRegister] = boolToFlag(collision)
	s.drawFlag = true
}

func firstPressedKey(s *State) (byte, bool) {
	for key, pressed := range s.keypad {
		if pressed {
			return byte(key), true
		}
	}
	return 0, false
}

func boolToFlag(b bool) byte {
	if b {
		return 1
	}
	return 0
}
