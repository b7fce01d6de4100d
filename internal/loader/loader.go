// Package loader handles ROM file loading operations.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
)

// ErrEmptyROM is returned for ROM files without content.
var ErrEmptyROM = errors.New("empty ROM file")

// romExtensions contains the file extensions commonly used for CHIP-8 ROMs.
var romExtensions = []string{".ch8", ".c8", ".rom", ".bin"}

// Loader handles loading ROM files from disk.
type Loader struct {
	logger *log.Logger
}

// New creates a new ROM loader.
func New(logger *log.Logger) *Loader {
	return &Loader{
		logger: logger,
	}
}

// Load reads a raw CHIP-8 ROM file. The content is returned unmodified,
// it has to fit into the program area of the machine memory.
func (l *Loader) Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}

	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("validating file %s: %w", path, err)
	}

	if !IsROMFile(path) {
		l.logger.Warn("Unexpected ROM file extension",
			log.String("file", path),
			log.String("expected", strings.Join(romExtensions, ", ")))
	}

	l.logger.Debug("ROM loaded",
		log.String("file", path),
		log.Int("size", len(data)))
	return data, nil
}

// Validate checks that the ROM content can be loaded into the machine.
func Validate(data []byte) error {
	if len(data) == 0 {
		return ErrEmptyROM
	}
	if len(data) > chip8.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, maximum is %d", chip8.ErrProgramTooLarge, len(data), chip8.MaxProgramSize)
	}
	return nil
}

// IsROMFile returns whether the file name has a known CHIP-8 ROM extension.
func IsROMFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, romExt := range romExtensions {
		if ext == romExt {
			return true
		}
	}
	return false
}
