package emulator

import (
	"bufio"
	"fmt"
	"io"

	"github.com/retroenv/retrochip8/internal/chip8"
)

const (
	pixelOn  = '#'
	pixelOff = '.'
)

// TextDisplay renders frames as text rows, one character per pixel.
// It is used for headless runs where only selected frames are written.
type TextDisplay struct {
	writer io.Writer
	live   bool

	frames int
	beeps  int
}

// NewTextDisplay returns a text display writing to the given writer. If live
// is set every drawn frame is written, otherwise frames are only counted
// and WriteFrame has to be called explicitly.
func NewTextDisplay(writer io.Writer, live bool) *TextDisplay {
	return &TextDisplay{
		writer: writer,
		live:   live,
	}
}

// Draw implements the Display interface.
func (d *TextDisplay) Draw(state *chip8.State) error {
	d.frames++
	if !d.live {
		return nil
	}
	return d.WriteFrame(state)
}

// Beep implements the Display interface.
func (d *TextDisplay) Beep() {
	d.beeps++
}

// Frames returns the number of frames drawn.
func (d *TextDisplay) Frames() int {
	return d.frames
}

// Beeps returns the number of beeps received.
func (d *TextDisplay) Beeps() int {
	return d.beeps
}

// WriteFrame writes the current framebuffer followed by an empty line.
func (d *TextDisplay) WriteFrame(state *chip8.State) error {
	buf := bufio.NewWriter(d.writer)
	fb := state.Framebuffer()

	for y := range chip8.ScreenHeight {
		row := fb[y*chip8.ScreenWidth : (y+1)*chip8.ScreenWidth]
		for _, pixel := range row {
			c := pixelOff
			if pixel != 0 {
				c = pixelOn
			}
			if _, err := buf.WriteRune(c); err != nil {
				return fmt.Errorf("writing pixel: %w", err)
			}
		}
		if err := buf.WriteByte('\n'); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	if err := buf.WriteByte('\n'); err != nil {
		return fmt.Errorf("writing frame: %w", err)
	}

	if err := buf.Flush(); err != nil {
		return fmt.Errorf("flushing frame: %w", err)
	}
	return nil
}
