package chip8

import "fmt"

// Op identifies the operation of a decoded instruction.
type Op uint8

// Operations of the canonical CHIP-8 instruction set.
const (
	OpUnknown Op = iota
	OpSys        // 0nnn SYS addr
	OpCls        // 00E0 CLS
	OpRet        // 00EE RET
	OpJp         // 1nnn JP addr
	OpCall       // 2nnn CALL addr
	OpSeByte     // 3xkk SE Vx, byte
	OpSneByte    // 4xkk SNE Vx, byte
	OpSeReg      // 5xy0 SE Vx, Vy
	OpLdByte     // 6xkk LD Vx, byte
	OpAddByte    // 7xkk ADD Vx, byte
	OpLdReg      // 8xy0 LD Vx, Vy
	OpOr         // 8xy1 OR Vx, Vy
	OpAnd        // 8xy2 AND Vx, Vy
	OpXor        // 8xy3 XOR Vx, Vy
	OpAddReg     // 8xy4 ADD Vx, Vy
	OpSub        // 8xy5 SUB Vx, Vy
	OpShr        // 8xy6 SHR Vx
	OpSubn       // 8xy7 SUBN Vx, Vy
	OpShl        // 8xyE SHL Vx
	OpSneReg     // 9xy0 SNE Vx, Vy
	OpLdI        // Annn LD I, addr
	OpJpV0       // Bnnn JP V0, addr
	OpRnd        // Cxkk RND Vx, byte
	OpDrw        // Dxyn DRW Vx, Vy, nibble
	OpSkp        // Ex9E SKP Vx
	OpSknp       // ExA1 SKNP Vx
	OpLdVxDT     // Fx07 LD Vx, DT
	OpLdVxK      // Fx0A LD Vx, K
	OpLdDTVx     // Fx15 LD DT, Vx
	OpLdSTVx     // Fx18 LD ST, Vx
	OpAddI       // Fx1E ADD I, Vx
	OpLdF        // Fx29 LD F, Vx
	OpLdB        // Fx33 LD B, Vx
	OpStore      // Fx55 LD [I], Vx
	OpLoad       // Fx65 LD Vx, [I]
)

var mnemonics = [...]string{
	OpUnknown: ".word",
	OpSys:     "SYS",
	OpCls:     "CLS",
	OpRet:     "RET",
	OpJp:      "JP",
	OpCall:    "CALL",
	OpSeByte:  "SE",
	OpSneByte: "SNE",
	OpSeReg:   "SE",
	OpLdByte:  "LD",
	OpAddByte: "ADD",
	OpLdReg:   "LD",
	OpOr:      "OR",
	OpAnd:     "AND",
	OpXor:     "XOR",
	OpAddReg:  "ADD",
	OpSub:     "SUB",
	OpShr:     "SHR",
	OpSubn:    "SUBN",
	OpShl:     "SHL",
	OpSneReg:  "SNE",
	OpLdI:     "LD",
	OpJpV0:    "JP",
	OpRnd:     "RND",
	OpDrw:     "DRW",
	OpSkp:     "SKP",
	OpSknp:    "SKNP",
	OpLdVxDT:  "LD",
	OpLdVxK:   "LD",
	OpLdDTVx:  "LD",
	OpLdSTVx:  "LD",
	OpAddI:    "ADD",
	OpLdF:     "LD",
	OpLdB:     "LD",
	OpStore:   "LD",
	OpLoad:    "LD",
}

// Instruction is a decoded CHIP-8 instruction word. Only the fields used
// by the operation carry meaning, all fields are always extracted.
type Instruction struct {
	Op   Op
	Word uint16 // raw instruction word

	X   uint8  // register index from bits 8-11
	Y   uint8  // register index from bits 4-7
	N   uint8  // lowest nibble
	KK  byte   // lowest byte
	NNN uint16 // 12-bit address
}

// Mnemonic returns the assembler mnemonic of the instruction.
func (i Instruction) Mnemonic() string {
	if int(i.Op) < len(mnemonics) {
		return mnemonics[i.Op]
	}
	return mnemonics[OpUnknown]
}

// Operands returns the assembler operands of the instruction.
func (i Instruction) Operands() string {
	switch i.Op {
	case OpCls, OpRet:
		return ""
	case OpSys, OpJp, OpCall:
		return fmt.Sprintf("$%03X", i.NNN)
	case OpSeByte, OpSneByte, OpLdByte, OpAddByte, OpRnd:
		return fmt.Sprintf("V%X, $%02X", i.X, i.KK)
	case OpSeReg, OpSneReg, OpLdReg, OpOr, OpAnd, OpXor, OpAddReg, OpSub, OpSubn:
		return fmt.Sprintf("V%X, V%X", i.X, i.Y)
	case OpShr, OpShl, OpSkp, OpSknp:
		return fmt.Sprintf("V%X", i.X)
	case OpLdI:
		return fmt.Sprintf("I, $%03X", i.NNN)
	case OpJpV0:
		return fmt.Sprintf("V0, $%03X", i.NNN)
	case OpDrw:
		return fmt.Sprintf("V%X, V%X, %d", i.X, i.Y, i.N)
	case OpLdVxDT:
		return fmt.Sprintf("V%X, DT", i.X)
	case OpLdVxK:
		return fmt.Sprintf("V%X, K", i.X)
	case OpLdDTVx:
		return fmt.Sprintf("DT, V%X", i.X)
	case OpLdSTVx:
		return fmt.Sprintf("ST, V%X", i.X)
	case OpAddI:
		return fmt.Sprintf("I, V%X", i.X)
	case OpLdF:
		return fmt.Sprintf("F, V%X", i.X)
	case OpLdB:
		return fmt.Sprintf("B, V%X", i.X)
	case OpStore:
		return fmt.Sprintf("[I], V%X", i.X)
	case OpLoad:
		return fmt.Sprintf("V%X, [I]", i.X)
	default:
		return fmt.Sprintf("$%04X", i.Word)
	}
}

// String returns the instruction in assembler notation.
func (i Instruction) String() string {
	operands := i.Operands()
	if operands == "" {
		return i.Mnemonic()
	}
	return i.Mnemonic() + " " + operands
}

// IsJump returns true for instructions that unconditionally set the program counter.
func (i Instruction) IsJump() bool {
	return i.Op == OpJp || i.Op == OpJpV0
}

// IsCall returns true if the instruction is a subroutine call.
func (i Instruction) IsCall() bool {
	return i.Op == OpCall
}

// IsReturn returns true if the instruction returns from a subroutine.
func (i Instruction) IsReturn() bool {
	return i.Op == OpRet
}

// IsSkip returns true if the instruction conditionally skips the next instruction.
func (i Instruction) IsSkip() bool {
	switch i.Op {
	case OpSeByte, OpSneByte, OpSeReg, OpSneReg, OpSkp, OpSknp:
		return true
	default:
		return false
	}
}
