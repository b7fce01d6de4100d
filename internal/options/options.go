// Package options contains the program options.
package options

// Default values of the program options.
const (
	DefaultCPUHz   = 700
	MinimumCPUHz   = 60
	DefaultKeyHold = 150 // milliseconds a terminal key stays pressed
	ListingFileExt = ".lst"
)

// Parameters contains file path options.
type Parameters struct {
	Input  string // ROM file to run or disassemble
	Output string // listing or frame dump file, stdout if empty
	Batch  string // glob pattern of ROM files to disassemble
}

// Flags contains behavior options.
type Flags struct {
	Disassemble bool
	Headless    bool
	Strict      bool
	Debug       bool
	Quiet       bool
	Browse      bool // no ROM file given, select it in the file browser
}

// Machine contains the emulation options.
type Machine struct {
	CPUHz   int    // instructions executed per second
	Cycles  uint64 // instruction limit, 0 for unlimited
	Seed    uint64 // random seed, 0 for time based
	KeyHold int    // milliseconds a key press is held in the terminal
}

// Program options of the emulator.
type Program struct {
	Parameters
	Flags
	Machine
}

// New returns program options with default values.
func New() Program {
	return Program{
		Machine: Machine{
			CPUHz:   DefaultCPUHz,
			KeyHold: DefaultKeyHold,
		},
	}
}
