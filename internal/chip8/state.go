package chip8

// CHIP-8 memory layout and machine dimensions.
//
// CHIP-8 memory map (4KB total):
//
//	0x000-0x1FF: Interpreter area, font glyphs at FontStart
//	0x200-0xFFF: User program space (3584 bytes)
const (
	MemorySize     = 0x1000
	AddressMask    = 0x0FFF
	ProgramStart   = 0x200
	MaxProgramSize = MemorySize - ProgramStart

	FontStart     = 0x050
	FontGlyphSize = 5

	RegisterCount = 16
	FlagRegister  = 0xF
	StackDepth    = 16
	KeyCount      = 16

	ScreenWidth  = 64
	ScreenHeight = 32
	ScreenSize   = ScreenWidth * ScreenHeight
)

// State is the complete mutable state of a CHIP-8 virtual machine.
// It is owned by a single mutator, the executor and the timers modify it
// in place.
type State struct {
	Memory [MemorySize]byte
	V      [RegisterCount]byte // V0-VF, VF is the carry/borrow/collision flag
	I      uint16
	PC     uint16

	DelayTimer byte
	SoundTimer byte

	stack       []uint16
	framebuffer [ScreenSize]byte
	keypad      [KeyCount]bool
	drawFlag    bool
}

// New returns a zeroed machine with the font installed and the program
// counter at ProgramStart.
func New() *State {
	s := &State{}
	s.Reset()
	return s
}

// Reset clears all machine state, reinstalls the font and sets the
// program counter to ProgramStart.
func (s *State) Reset() {
	*s = State{
		PC:    ProgramStart,
		stack: make([]uint16, 0, StackDepth),
	}
	LoadFont(s)
}

// Pixel returns whether the pixel at the given screen position is set.
// Coordinates wrap around the screen edges.
func (s *State) Pixel(x, y int) bool {
	x = ((x % ScreenWidth) + ScreenWidth) % ScreenWidth
	y = ((y % ScreenHeight) + ScreenHeight) % ScreenHeight
	return s.framebuffer[x+y*ScreenWidth] != 0
}

// Framebuffer returns a copy of the framebuffer, indexed x + y*ScreenWidth.
func (s *State) Framebuffer() [ScreenSize]byte {
	return s.framebuffer
}

// DrawFlag returns whether the framebuffer changed since the last
// ClearDrawFlag call.
func (s *State) DrawFlag() bool {
	return s.drawFlag
}

// ClearDrawFlag marks the framebuffer as rendered.
func (s *State) ClearDrawFlag() {
	s.drawFlag = false
}

// SetKey sets the pressed state of a keypad key, only the low nibble of
// key is used.
func (s *State) SetKey(key byte, pressed bool) {
	s.keypad[key&0xF] = pressed
}

// Key returns whether a keypad key is pressed.
func (s *State) Key(key byte) bool {
	return s.keypad[key&0xF]
}

// ResetKeys releases all keypad keys.
func (s *State) ResetKeys() {
	s.keypad = [KeyCount]bool{}
}

// StackDepth returns the number of return addresses on the call stack.
func (s *State) StackDepth() int {
	return len(s.stack)
}

func (s *State) push(address uint16) error {
	if len(s.stack) >= StackDepth {
		return ErrStackOverflow
	}
	s.stack = append(s.stack, address)
	return nil
}

func (s *State) pop() (uint16, error) {
	if len(s.stack) == 0 {
		return 0, ErrStackUnderflow
	}
	address := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	return address, nil
}

// readWord returns the big-endian instruction word at the given address,
// wrapping at the end of memory.
func (s *State) readWord(address uint16) uint16 {
	hi := s.Memory[address&AddressMask]
	lo := s.Memory[(address+1)&AddressMask]
	return uint16(hi)<<8 | uint16(lo)
}

func (s *State) clearScreen() {
	s.framebuffer = [ScreenSize]byte{}
	s.drawFlag = true
}
