package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		word uint16
		op   Op
		text string
	}{
		{0x00E0, OpCls, "CLS"},
		{0x00EE, OpRet, "RET"},
		{0x0123, OpSys, "SYS $123"},
		{0x1ABC, OpJp, "JP $ABC"},
		{0x2ABC, OpCall, "CALL $ABC"},
		{0x3A42, OpSeByte, "SE VA, $42"},
		{0x4A42, OpSneByte, "SNE VA, $42"},
		{0x5AB0, OpSeReg, "SE VA, VB"},
		{0x6A42, OpLdByte, "LD VA, $42"},
		{0x7A42, OpAddByte, "ADD VA, $42"},
		{0x8AB0, OpLdReg, "LD VA, VB"},
		{0x8AB1, OpOr, "OR VA, VB"},
		{0x8AB2, OpAnd, "AND VA, VB"},
		{0x8AB3, OpXor, "XOR VA, VB"},
		{0x8AB4, OpAddReg, "ADD VA, VB"},
		{0x8AB5, OpSub, "SUB VA, VB"},
		{0x8AB6, OpShr, "SHR VA"},
		{0x8AB7, OpSubn, "SUBN VA, VB"},
		{0x8ABE, OpShl, "SHL VA"},
		{0x9AB0, OpSneReg, "SNE VA, VB"},
		{0xA123, OpLdI, "LD I, $123"},
		{0xB123, OpJpV0, "JP V0, $123"},
		{0xCA0F, OpRnd, "RND VA, $0F"},
		{0xDAB5, OpDrw, "DRW VA, VB, 5"},
		{0xEA9E, OpSkp, "SKP VA"},
		{0xEAA1, OpSknp, "SKNP VA"},
		{0xFA07, OpLdVxDT, "LD VA, DT"},
		{0xFA0A, OpLdVxK, "LD VA, K"},
		{0xFA15, OpLdDTVx, "LD DT, VA"},
		{0xFA18, OpLdSTVx, "LD ST, VA"},
		{0xFA1E, OpAddI, "ADD I, VA"},
		{0xFA29, OpLdF, "LD F, VA"},
		{0xFA33, OpLdB, "LD B, VA"},
		{0xFA55, OpStore, "LD [I], VA"},
		{0xFA65, OpLoad, "LD VA, [I]"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			ins := Decode(tt.word)
			assert.Equal(t, tt.op, ins.Op)
			assert.Equal(t, tt.word, ins.Word)
			assert.Equal(t, tt.text, ins.String())
		})
	}
}

func TestDecode_Unknown(t *testing.T) {
	words := []uint16{
		0x5AB1, 0x5ABF, // SE Vx, Vy requires low nibble 0
		0x8AB8, 0x8AB9, 0x8ABA, 0x8ABB, 0x8ABC, 0x8ABD, 0x8ABF,
		0x9AB1,
		0xEA9F, 0xEAA0, 0xE000,
		0xF000, 0xFA08, 0xFA30, 0xFA75, 0xFA85,
		0xFFFF,
	}

	for _, word := range words {
		ins := Decode(word)
		if ins.Op != OpUnknown {
			t.Errorf("word $%04X decoded to op %d, expected unknown", word, ins.Op)
		}
		assert.Equal(t, word, ins.Word)
	}

	assert.Equal(t, ".word $FFFF", Decode(0xFFFF).String())
}

func TestDecode_Fields(t *testing.T) {
	ins := Decode(0xD7A9)

	assert.Equal(t, uint8(0x7), ins.X)
	assert.Equal(t, uint8(0xA), ins.Y)
	assert.Equal(t, uint8(0x9), ins.N)
	assert.Equal(t, byte(0xA9), ins.KK)
	assert.Equal(t, uint16(0x7A9), ins.NNN)
}

// TestDecode_AllWords checks that every word decodes without panicking and
// that exactly the 35 instruction kinds are reachable.
func TestDecode_AllWords(t *testing.T) {
	seen := map[Op]bool{}
	for word := range 0x10000 {
		ins := Decode(uint16(word))
		seen[ins.Op] = true
	}

	assert.True(t, seen[OpUnknown])
	assert.Equal(t, 35+1, len(seen))
}

func TestInstruction_ControlFlow(t *testing.T) {
	tests := []struct {
		word   uint16
		jump   bool
		call   bool
		ret    bool
		isSkip bool
	}{
		{0x1200, true, false, false, false},
		{0xB200, true, false, false, false},
		{0x2200, false, true, false, false},
		{0x00EE, false, false, true, false},
		{0x3000, false, false, false, true},
		{0x4000, false, false, false, true},
		{0x5010, false, false, false, true},
		{0x9010, false, false, false, true},
		{0xE09E, false, false, false, true},
		{0xE0A1, false, false, false, true},
		{0x6000, false, false, false, false},
		{0xFFFF, false, false, false, false},
	}

	for _, tt := range tests {
		ins := Decode(tt.word)
		assert.Equal(t, tt.jump, ins.IsJump())
		assert.Equal(t, tt.call, ins.IsCall())
		assert.Equal(t, tt.ret, ins.IsReturn())
		assert.Equal(t, tt.isSkip, ins.IsSkip())
	}
}
