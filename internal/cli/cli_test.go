package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/retrochip8/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func parseArgs(t *testing.T, args ...string) (options.Program, error) {
	t.Helper()

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"prog"}, args...)

	return ParseFlags()
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options.Program
	}{
		{
			name: "defaults",
			args: []string{"pong.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "pong.ch8"},
				Machine:    options.Machine{CPUHz: options.DefaultCPUHz, KeyHold: options.DefaultKeyHold},
			},
		},
		{
			name: "input flag",
			args: []string{"-i", "pong.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "pong.ch8"},
				Machine:    options.Machine{CPUHz: options.DefaultCPUHz, KeyHold: options.DefaultKeyHold},
			},
		},
		{
			name: "disassemble to file",
			args: []string{"-d", "-o", "pong.lst", "pong.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "pong.ch8", Output: "pong.lst"},
				Flags:      options.Flags{Disassemble: true},
				Machine:    options.Machine{CPUHz: options.DefaultCPUHz, KeyHold: options.DefaultKeyHold},
			},
		},
		{
			name: "headless run",
			args: []string{"-headless", "-cycles", "1000", "-hz", "1000", "-seed", "42", "-strict", "pong.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Input: "pong.ch8"},
				Flags:      options.Flags{Headless: true, Strict: true},
				Machine:    options.Machine{CPUHz: 1000, Cycles: 1000, Seed: 42, KeyHold: options.DefaultKeyHold},
			},
		},
		{
			name: "no input browses",
			args: []string{"-hz", "1000"},
			want: options.Program{
				Flags:   options.Flags{Browse: true},
				Machine: options.Machine{CPUHz: 1000, KeyHold: options.DefaultKeyHold},
			},
		},
		{
			name: "batch disassembly",
			args: []string{"-d", "-batch", "*.ch8"},
			want: options.Program{
				Parameters: options.Parameters{Batch: "*.ch8"},
				Flags:      options.Flags{Disassemble: true},
				Machine:    options.Machine{CPUHz: options.DefaultCPUHz, KeyHold: options.DefaultKeyHold},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(t, tt.args...)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		usage      bool
		errContain string
	}{
		{
			name:  "unknown flag",
			args:  []string{"-unknown", "pong.ch8"},
			usage: true,
		},
		{
			name:       "flag after file",
			args:       []string{"pong.ch8", "-d"},
			usage:      true,
			errContain: "after ROM file",
		},
		{
			name:       "batch without disassemble",
			args:       []string{"-batch", "*.ch8"},
			errContain: "-d flag",
		},
		{
			name:       "headless without cycles",
			args:       []string{"-headless", "pong.ch8"},
			errContain: "-cycles",
		},
		{
			name:       "cpu rate too low",
			args:       []string{"-hz", "10", "pong.ch8"},
			errContain: "below the minimum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(t, tt.args...)
			assert.Error(t, err)

			var usageErr *UsageError
			assert.Equal(t, tt.usage, errors.As(err, &usageErr))
			if tt.errContain != "" {
				assert.ErrorContains(t, err, tt.errContain)
			}
		})
	}
}

func TestValidateOptionCombinations(t *testing.T) {
	tests := []struct {
		name        string
		opts        options.Program
		expectError bool
	}{
		{
			name:        "defaults",
			opts:        options.New(),
			expectError: false,
		},
		{
			name: "headless disassembly needs no limit",
			opts: options.Program{
				Flags:   options.Flags{Headless: true, Disassemble: true},
				Machine: options.Machine{CPUHz: options.DefaultCPUHz, KeyHold: 1},
			},
			expectError: false,
		},
		{
			name: "zero key hold",
			opts: options.Program{
				Machine: options.Machine{CPUHz: options.DefaultCPUHz},
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateOptionCombinations(tt.opts)
			if tt.expectError {
				assert.True(t, err != nil)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
