package terminal

import (
	"time"
	"unicode"

	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrochip8/internal/chip8"
)

// keyMap maps the left hand block of a QWERTY keyboard to the hex keypad:
//
//	1 2 3 4      1 2 3 C
//	q w e r  =>  4 5 6 D
//	a s d f      7 8 9 E
//	z x c v      A 0 B F
var keyMap = map[rune]byte{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// keyboard tracks the hex keys from terminal key events. Terminals only
// report key presses, so a key is considered held for a fixed duration
// after its last event.
type keyboard struct {
	hold     time.Duration
	deadline [chip8.KeyCount]time.Time
}

func newKeyboard(hold time.Duration) *keyboard {
	return &keyboard{hold: hold}
}

// mapKey returns the hex key for a terminal key event.
func mapKey(ev termbox.Event) (byte, bool) {
	if ev.Type != termbox.EventKey || ev.Ch == 0 {
		return 0, false
	}
	key, ok := keyMap[unicode.ToLower(ev.Ch)]
	return key, ok
}

// handle processes an event and returns whether it requests to quit.
func (k *keyboard) handle(ev termbox.Event, now time.Time) bool {
	if ev.Type != termbox.EventKey {
		return false
	}

	switch ev.Key {
	case termbox.KeyEsc, termbox.KeyCtrlC:
		return true
	}

	if key, ok := mapKey(ev); ok {
		k.deadline[key] = now.Add(k.hold)
	}
	return false
}

// apply sets the keypad of the state to the keys held at the given time.
func (k *keyboard) apply(state *chip8.State, now time.Time) {
	for key, deadline := range k.deadline {
		state.SetKey(byte(key), now.Before(deadline))
	}
}
