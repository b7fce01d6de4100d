// Package disasm provides a linear sweep disassembler for CHIP-8 programs.
package disasm

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	chip8cpu "github.com/retroenv/retrogolib/arch/cpu/chip8"
	"github.com/retroenv/retrogolib/log"
)

// cancelCheckInterval is the number of words processed between context checks.
const cancelCheckInterval = 256

// Stats contains counters of a disassembly run.
type Stats struct {
	Instructions int
	Data         int
	Labels       int
}

// Disassembler converts CHIP-8 program bytes into an assembly listing.
type Disassembler struct {
	logger *log.Logger
}

// New returns a new disassembler.
func New(logger *log.Logger) *Disassembler {
	return &Disassembler{
		logger: logger,
	}
}

// Process writes the listing of the program to the writer. The program is
// assumed to be loaded at chip8.ProgramStart.
func (d *Disassembler) Process(ctx context.Context, program []byte, writer io.Writer) (Stats, error) {
	var stats Stats
	if len(program) > chip8.MaxProgramSize {
		return stats, fmt.Errorf("disassembling %d bytes: %w", len(program), chip8.ErrProgramTooLarge)
	}

	labels := collectLabels(program)
	stats.Labels = len(labels)
	d.logger.Debug("Collected labels", log.Int("count", len(labels)))

	afterSkip := false
	for offset := 0; offset+1 < len(program); offset += 2 {
		if offset%(2*cancelCheckInterval) == 0 {
			if err := ctx.Err(); err != nil {
				return stats, fmt.Errorf("disassembling: %w", err)
			}
		}

		address := uint16(chip8.ProgramStart + offset)
		if label, ok := labels[address]; ok {
			if _, err := fmt.Fprintf(writer, "%s:\n", label); err != nil {
				return stats, fmt.Errorf("writing label: %w", err)
			}
		}

		word := uint16(program[offset])<<8 | uint16(program[offset+1])
		ins := chip8.Decode(word)
		if ins.Op == chip8.OpUnknown {
			stats.Data++
		} else {
			stats.Instructions++
		}

		if _, err := fmt.Fprintf(writer, "%03X: %04X  %s\n", address, word, formatInstruction(ins, labels)); err != nil {
			return stats, fmt.Errorf("writing instruction: %w", err)
		}

		// a skipped jump or return does not end the block
		if endsBlock(ins) && !afterSkip {
			if _, err := fmt.Fprintln(writer); err != nil {
				return stats, fmt.Errorf("writing block separator: %w", err)
			}
		}
		afterSkip = ins.IsSkip()
	}

	if len(program)%2 == 1 {
		last := len(program) - 1
		stats.Data++
		if _, err := fmt.Fprintf(writer, "%03X: %02X    .byte $%02X\n", chip8.ProgramStart+last, program[last], program[last]); err != nil {
			return stats, fmt.Errorf("writing trailing byte: %w", err)
		}
	}

	return stats, nil
}

// collectLabels returns label names for all call, jump and index register
// targets that point to a word inside the program. Call targets take
// precedence over jump targets, which take precedence over data references.
// Odd targets get no label as the listing only has lines at word offsets.
func collectLabels(program []byte) map[uint16]string {
	end := chip8.ProgramStart + len(program)
	labels := map[uint16]string{}
	priority := map[uint16]int{}

	for offset := 0; offset+1 < len(program); offset += 2 {
		ins := chip8.Decode(uint16(program[offset])<<8 | uint16(program[offset+1]))

		var prefix string
		var prio int
		switch {
		case ins.IsCall():
			prefix, prio = "sub", 3
		case ins.Op == chip8.OpJp:
			prefix, prio = "loc", 2
		case ins.Op == chip8.OpLdI:
			prefix, prio = "dat", 1
		default:
			continue
		}

		target := ins.NNN
		if int(target) < chip8.ProgramStart || int(target)+1 >= end || target%2 != 0 {
			continue
		}
		if priority[target] >= prio {
			continue
		}
		priority[target] = prio
		labels[target] = fmt.Sprintf("%s_%03X", prefix, target)
	}
	return labels
}

// formatInstruction returns the assembly text of an instruction, targets
// with a label are replaced by the label name.
func formatInstruction(ins chip8.Instruction, labels map[uint16]string) string {
	if ins.Op == chip8.OpUnknown {
		return ins.String()
	}

	name := ins.Mnemonic()
	if cpuIns := lookupInstruction(ins.Word); cpuIns != nil {
		name = strings.ToUpper(cpuIns.Name)
	}

	operands := ins.Operands()
	if label, ok := labels[ins.NNN]; ok {
		switch ins.Op {
		case chip8.OpCall, chip8.OpJp:
			operands = label
		case chip8.OpLdI:
			operands = "I, " + label
		}
	}
	if operands == "" {
		return name
	}
	return name + " " + operands
}

// lookupInstruction resolves an instruction word using the CHIP-8 opcode
// table, matching the opcode masks of the first nibble family.
func lookupInstruction(word uint16) *chip8cpu.Instruction {
	firstNibble := (word & 0xF000) >> 12
	for _, op := range chip8cpu.Opcodes[int(firstNibble)] {
		if op.Instruction == nil || op.Info.Mask&word != op.Info.Value {
			continue
		}
		return op.Instruction
	}
	return nil
}

// endsBlock returns whether execution never continues with the next word.
func endsBlock(ins chip8.Instruction) bool {
	return ins.IsJump() || ins.IsReturn()
}
