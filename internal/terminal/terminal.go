// Package terminal implements a display and input front end for the
// emulator that renders into a text terminal.
package terminal

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrochip8/internal/chip8"
	"github.com/retroenv/retrogolib/log"
	"golang.org/x/term"
)

// cellsPerPixel is the number of terminal cells used for the width of a
// pixel, terminal cells are roughly twice as high as wide.
const cellsPerPixel = 2

const eventBufferSize = 32

// ErrNotTerminal is returned when the standard output is not a terminal.
var ErrNotTerminal = errors.New("standard output is not a terminal")

// Terminal renders the framebuffer using termbox and feeds key events
// into the keypad.
type Terminal struct {
	logger   *log.Logger
	keyboard *keyboard

	events chan termbox.Event
	stop   chan struct{}
	done   chan struct{}
	closed sync.Once
}

// New initializes the terminal. Keys stay pressed for the hold duration
// after each key event. Close has to be called to restore the terminal.
func New(logger *log.Logger, hold time.Duration) (*Terminal, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return nil, ErrNotTerminal
	}

	if err := termbox.Init(); err != nil {
		return nil, fmt.Errorf("initializing terminal: %w", err)
	}
	termbox.SetInputMode(termbox.InputEsc)
	termbox.HideCursor()

	t := &Terminal{
		logger:   logger,
		keyboard: newKeyboard(hold),
		events:   make(chan termbox.Event, eventBufferSize),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go t.pollEvents()

	w, h := termbox.Size()
	if w < chip8.ScreenWidth*cellsPerPixel || h < chip8.ScreenHeight {
		logger.Warn("Terminal is smaller than the screen",
			log.Int("width", w), log.Int("height", h))
	}
	return t, nil
}

// pollEvents forwards terminal events until it gets interrupted by Close.
func (t *Terminal) pollEvents() {
	defer close(t.done)

	for {
		ev := termbox.PollEvent()
		if ev.Type == termbox.EventInterrupt {
			return
		}

		// events that arrive while closing are dropped, the interrupt
		// still has to be received by the next poll
		select {
		case t.events <- ev:
		case <-t.stop:
		}
	}
}

// Poll implements the emulator Input interface.
func (t *Terminal) Poll(state *chip8.State) bool {
	now := time.Now()
	quit := false

	for {
		select {
		case ev := <-t.events:
			if ev.Type == termbox.EventError {
				t.logger.Error("Terminal event error", log.Err(ev.Err))
				continue
			}
			if t.keyboard.handle(ev, now) {
				quit = true
			}

		default:
			t.keyboard.apply(state, now)
			return quit
		}
	}
}

// Draw implements the emulator Display interface.
func (t *Terminal) Draw(state *chip8.State) error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return fmt.Errorf("clearing terminal: %w", err)
	}

	fb := state.Framebuffer()
	for y := range chip8.ScreenHeight {
		for x := range chip8.ScreenWidth {
			if fb[y*chip8.ScreenWidth+x] == 0 {
				continue
			}
			for c := range cellsPerPixel {
				termbox.SetCell(x*cellsPerPixel+c, y, ' ', termbox.ColorDefault, termbox.ColorWhite)
			}
		}
	}

	if err := termbox.Flush(); err != nil {
		return fmt.Errorf("flushing terminal: %w", err)
	}
	return nil
}

// Beep implements the emulator Display interface by ringing the terminal bell.
func (t *Terminal) Beep() {
	_, _ = os.Stdout.WriteString("\a")
}

// Close stops the event polling and restores the terminal.
func (t *Terminal) Close() {
	t.closed.Do(func() {
		close(t.stop)
		termbox.Interrupt()
		<-t.done
		termbox.Close()
	})
}
