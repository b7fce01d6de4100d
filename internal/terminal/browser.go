package terminal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nsf/termbox-go"
	"github.com/retroenv/retrochip8/internal/loader"
	"golang.org/x/term"
)

// ErrNoSelection is returned when the ROM browser was left without selecting a file.
var ErrNoSelection = errors.New("no ROM file selected")

const (
	parentEntry = ".."
	headerLines = 5
)

// Entry is a directory or ROM file shown in the browser.
type Entry struct {
	Name string
	Dir  bool
}

// ListDirectory returns the parent entry, the sub directories and the ROM
// files of a directory. Entries are sorted by name ignoring case, hidden
// entries are skipped.
func ListDirectory(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var entries []Entry
	for _, file := range files {
		name := file.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		isDir := file.IsDir()
		if !isDir && file.Type()&os.ModeSymlink != 0 {
			if info, err := os.Stat(filepath.Join(dir, name)); err == nil {
				isDir = info.IsDir()
			}
		}
		if isDir || loader.IsROMFile(name) {
			entries = append(entries, Entry{Name: name, Dir: isDir})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})

	if filepath.Dir(dir) != dir {
		entries = append([]Entry{{Name: parentEntry, Dir: true}}, entries...)
	}
	return entries, nil
}

type browseAction int

const (
	browseContinue browseAction = iota
	browseSelected
	browseCancelled
)

// browser is the state of the ROM file browser.
type browser struct {
	dir      string
	entries  []Entry
	selected int
	status   string
}

func newBrowser(dir string) (*browser, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving directory %s: %w", dir, err)
	}

	entries, err := ListDirectory(abs)
	if err != nil {
		return nil, err
	}
	return &browser{
		dir:     abs,
		entries: entries,
	}, nil
}

// handle processes a key event. For a selected file its path is returned.
func (b *browser) handle(ev termbox.Event) (string, browseAction) {
	if ev.Type != termbox.EventKey {
		return "", browseContinue
	}

	switch {
	case ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC || ev.Ch == 'q':
		return "", browseCancelled

	case ev.Key == termbox.KeyArrowUp || ev.Ch == 'k':
		b.move(-1)

	case ev.Key == termbox.KeyArrowDown || ev.Ch == 'j':
		b.move(1)

	case ev.Key == termbox.KeyBackspace || ev.Key == termbox.KeyBackspace2 || ev.Key == termbox.KeyArrowLeft:
		b.changeDir(filepath.Dir(b.dir))

	case ev.Key == termbox.KeyEnter || ev.Key == termbox.KeyArrowRight:
		if len(b.entries) == 0 {
			break
		}
		entry := b.entries[b.selected]
		switch {
		case entry.Name == parentEntry:
			b.changeDir(filepath.Dir(b.dir))
		case entry.Dir:
			b.changeDir(filepath.Join(b.dir, entry.Name))
		default:
			return filepath.Join(b.dir, entry.Name), browseSelected
		}
	}

	return "", browseContinue
}

// move changes the selection, wrapping around at both ends.
func (b *browser) move(delta int) {
	if len(b.entries) == 0 {
		return
	}
	b.selected = (b.selected + delta + len(b.entries)) % len(b.entries)
}

// changeDir switches to another directory. A directory that can not be
// read keeps the current listing and shows the error.
func (b *browser) changeDir(dir string) {
	if dir == b.dir {
		return
	}

	entries, err := ListDirectory(dir)
	if err != nil {
		b.status = err.Error()
		return
	}

	b.dir = dir
	b.entries = entries
	b.selected = 0
	b.status = ""
}

// visible returns the index range of entries that fit into the given number
// of rows while keeping the selection in view.
func (b *browser) visible(rows int) (int, int) {
	if rows <= 0 {
		return 0, 0
	}
	first := 0
	if b.selected >= rows {
		first = b.selected - rows + 1
	}
	last := min(first+rows, len(b.entries))
	return first, last
}

func (b *browser) draw() error {
	if err := termbox.Clear(termbox.ColorDefault, termbox.ColorDefault); err != nil {
		return fmt.Errorf("clearing terminal: %w", err)
	}
	width, height := termbox.Size()
	separator := strings.Repeat("-", width)

	printLine(0, "CHIP-8 ROM selector", termbox.ColorDefault|termbox.AttrBold, termbox.ColorDefault)
	printLine(1, "Path: "+b.dir, termbox.ColorDefault, termbox.ColorDefault)
	printLine(2, separator, termbox.ColorDefault, termbox.ColorDefault)
	printLine(3, "up/down = navigate | enter = select | backspace = parent | esc = quit", termbox.ColorDefault, termbox.ColorDefault)
	printLine(4, separator, termbox.ColorDefault, termbox.ColorDefault)

	rows := height - headerLines - 1
	first, last := b.visible(rows)
	for i := first; i < last; i++ {
		entry := b.entries[i]
		prefix := "[ROM]"
		if entry.Dir {
			prefix = "[DIR]"
		}

		fg, bg := termbox.ColorDefault, termbox.ColorDefault
		if i == b.selected {
			fg, bg = termbox.ColorBlack, termbox.ColorWhite
		}
		printLine(headerLines+i-first, prefix+" "+entry.Name, fg, bg)
	}

	if b.status != "" {
		printLine(height-1, b.status, termbox.ColorRed, termbox.ColorDefault)
	}

	if err := termbox.Flush(); err != nil {
		return fmt.Errorf("flushing terminal: %w", err)
	}
	return nil
}

func printLine(y int, text string, fg, bg termbox.Attribute) {
	x := 0
	for _, c := range text {
		termbox.SetCell(x, y, c, fg, bg)
		x++
	}
}

// SelectROM shows a file browser starting in the given directory and
// returns the path of the selected ROM file.
func SelectROM(dir string) (string, error) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return "", ErrNotTerminal
	}

	b, err := newBrowser(dir)
	if err != nil {
		return "", err
	}

	if err := termbox.Init(); err != nil {
		return "", fmt.Errorf("initializing terminal: %w", err)
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc)
	termbox.HideCursor()

	for {
		if err := b.draw(); err != nil {
			return "", err
		}

		ev := termbox.PollEvent()
		if ev.Type == termbox.EventError {
			return "", fmt.Errorf("reading terminal event: %w", ev.Err)
		}

		path, action := b.handle(ev)
		switch action {
		case browseSelected:
			return path, nil
		case browseCancelled:
			return "", ErrNoSelection
		}
	}
}
