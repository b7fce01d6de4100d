package disasm

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrochip8/internal/chip8"
	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func name(ins *chip8cpu.Instruction) string {
	return strings.ToUpper(ins.Name)
}

func TestProcess(t *testing.T) {
	program := []byte{
		0x00, 0xE0, // 200: CLS
		0x22, 0x08, // 202: CALL sub_208
		0x12, 0x02, // 204: JP loc_202
		0xFF, 0xFF, // 206: data
		0xA3, 0x00, // 208: LD I, $300
		0x00, 0xEE, // 20A: RET
		0x42, //       20C: trailing byte
	}

	var buf bytes.Buffer
	dis := New(log.NewTestLogger(t))
	stats, err := dis.Process(context.Background(), program, &buf)
	assert.NoError(t, err)

	expected := []string{
		"200: 00E0  " + name(chip8cpu.ClsInst),
		"loc_202:",
		"202: 2208  " + name(chip8cpu.CallInst) + " sub_208",
		"204: 1202  " + name(chip8cpu.JpInst) + " loc_202",
		"",
		"206: FFFF  .word $FFFF",
		"sub_208:",
		"208: A300  " + name(chip8cpu.LdInst) + " I, $300",
		"20A: 00EE  " + name(chip8cpu.RetInst),
		"",
		"20C: 42    .byte $42",
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, len(expected), len(lines))
	for i := range expected {
		assert.Equal(t, expected[i], lines[i])
	}

	assert.Equal(t, 5, stats.Instructions)
	assert.Equal(t, 2, stats.Data)
	assert.Equal(t, 2, stats.Labels)
}

func TestProcess_SkipAndDataLabels(t *testing.T) {
	program := []byte{
		0xA2, 0x06, // 200: LD I, dat_206
		0x30, 0x00, // 202: SE V0, $00
		0x12, 0x00, // 204: JP loc_200
		0x00, 0xEE, // 206: RET
	}

	var buf bytes.Buffer
	stats, err := New(log.NewTestLogger(t)).Process(context.Background(), program, &buf)
	assert.NoError(t, err)

	expected := []string{
		"loc_200:",
		"200: A206  " + name(chip8cpu.LdInst) + " I, dat_206",
		"202: 3000  " + name(chip8cpu.SeInst) + " V0, $00",
		"204: 1200  " + name(chip8cpu.JpInst) + " loc_200",
		"dat_206:",
		"206: 00EE  " + name(chip8cpu.RetInst),
		"",
	}
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	assert.Equal(t, len(expected), len(lines))
	for i := range expected {
		assert.Equal(t, expected[i], lines[i])
	}
	assert.Equal(t, 2, stats.Labels)
}

func TestProcess_OddTargets(t *testing.T) {
	program := []byte{
		0x12, 0x03, // 200: JP $203
		0x60, 0x01, // 202: LD V0, $01
		0x00, 0xE0, // 204: CLS
	}

	var buf bytes.Buffer
	stats, err := New(log.NewTestLogger(t)).Process(context.Background(), program, &buf)
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.Labels)

	lines := strings.Split(buf.String(), "\n")
	assert.Equal(t, "200: 1203  "+name(chip8cpu.JpInst)+" $203", lines[0])
	assert.False(t, strings.Contains(buf.String(), "loc_"))
}

func TestProcess_TargetsOutsideProgram(t *testing.T) {
	program := []byte{
		0x11, 0x00, // JP $100
		0x2F, 0x00, // CALL $F00
	}

	var buf bytes.Buffer
	stats, err := New(log.NewTestLogger(t)).Process(context.Background(), program, &buf)
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.Labels)
	assert.Contains(t, buf.String(), "$100")
	assert.Contains(t, buf.String(), "$F00")
	assert.False(t, strings.Contains(buf.String(), "loc_"))
}

func TestProcess_CallLabelWins(t *testing.T) {
	program := []byte{
		0xA2, 0x06, // LD I, $206
		0x12, 0x06, // JP $206
		0x22, 0x06, // CALL $206
		0x00, 0xEE, // RET
		0x12, 0x08, // JP $208
		0xA2, 0x08, // LD I, $208
	}

	labels := collectLabels(program)
	assert.Equal(t, 2, len(labels))
	assert.Equal(t, "sub_206", labels[0x206])
	assert.Equal(t, "loc_208", labels[0x208])
}

func TestProcess_Errors(t *testing.T) {
	t.Run("program too large", func(t *testing.T) {
		program := make([]byte, chip8.MaxProgramSize+2)
		_, err := New(log.NewTestLogger(t)).Process(context.Background(), program, &bytes.Buffer{})
		assert.True(t, errors.Is(err, chip8.ErrProgramTooLarge))
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := New(log.NewTestLogger(t)).Process(ctx, []byte{0x00, 0xE0}, &bytes.Buffer{})
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestLookupInstruction(t *testing.T) {
	tests := []struct {
		word     uint16
		expected *chip8cpu.Instruction
	}{
		{0x00E0, chip8cpu.ClsInst},
		{0x00EE, chip8cpu.RetInst},
		{0x1234, chip8cpu.JpInst},
		{0x2234, chip8cpu.CallInst},
		{0x3112, chip8cpu.SeInst},
		{0x9120, chip8cpu.SneInst},
		{0x6123, chip8cpu.LdInst},
		{0xD125, chip8cpu.DrwInst},
		{0xE19E, chip8cpu.SkpInst},
		{0xE1A1, chip8cpu.SknpInst},
	}

	for _, tt := range tests {
		t.Run(name(tt.expected), func(t *testing.T) {
			assert.Equal(t, tt.expected, lookupInstruction(tt.word))
		})
	}

	assert.True(t, lookupInstruction(0xFFFF) == nil)
}

func TestEndsBlock(t *testing.T) {
	tests := []struct {
		word uint16
		ends bool
	}{
		{0x1200, true},
		{0xB200, true},
		{0x00EE, true},
		{0x2200, false},
		{0x3000, false},
		{0xFFFF, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ends, endsBlock(chip8.Decode(tt.word)))
	}
}
