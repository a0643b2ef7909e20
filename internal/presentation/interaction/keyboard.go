package interaction

import (
	"os"

	"golang.org/x/sys/unix"
)

// KeyboardReader delivers key presses from stdin with the terminal in raw mode
type KeyboardReader struct {
	oldState *unix.Termios
	input    chan KeyEvent
	stop     chan struct{}
}

type KeyEvent struct {
	Key  rune
	Type KeyType
}

type KeyType int

const (
	KeyChar KeyType = iota
	KeyEscape
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
	KeyArrowDown
)

const keyCtrlC = 3

// IsQuit reports whether the event should end the session
func (e KeyEvent) IsQuit() bool {
	return e.Type == KeyEscape || (e.Type == KeyChar && (e.Key == 'q' || e.Key == 'Q' || e.Key == keyCtrlC))
}

func NewKeyboardReader() (*KeyboardReader, error) {
	kr := newReader()
	if err := kr.enableRawMode(); err != nil {
		return nil, err
	}
	go kr.readInput()
	return kr, nil
}

func newReader() *KeyboardReader {
	return &KeyboardReader{
		input: make(chan KeyEvent, 10),
		stop:  make(chan struct{}),
	}
}

func (kr *KeyboardReader) readInput() {
	buf := make([]byte, 3)
	for {
		select {
		case <-kr.stop:
			return
		default:
		}

		n, err := os.Stdin.Read(buf)
		if err != nil || n == 0 {
			continue
		}
		event := parseInput(buf[:n])
		if event == nil {
			continue
		}
		select {
		case kr.input <- *event:
		case <-kr.stop:
			return
		}
	}
}

// parseInput decodes one read from a raw terminal
func parseInput(buf []byte) *KeyEvent {
	if len(buf) == 0 {
		return nil
	}
	if buf[0] != 27 {
		return &KeyEvent{Key: rune(buf[0]), Type: KeyChar}
	}
	if len(buf) == 1 {
		return &KeyEvent{Key: 27, Type: KeyEscape}
	}
	if len(buf) >= 3 && buf[1] == '[' {
		switch buf[2] {
		case 'A':
			return &KeyEvent{Type: KeyArrowUp}
		case 'B':
			return &KeyEvent{Type: KeyArrowDown}
		case 'C':
			return &KeyEvent{Type: KeyArrowRight}
		case 'D':
			return &KeyEvent{Type: KeyArrowLeft}
		}
	}
	return nil
}

func (kr *KeyboardReader) Events() <-chan KeyEvent {
	return kr.input
}

// Close stops reading and restores the terminal
func (kr *KeyboardReader) Close() error {
	close(kr.stop)
	return kr.disableRawMode()
}

func makeRaw(old unix.Termios) unix.Termios {
	raw := old
	raw.Lflag &^= unix.ECHO | unix.ICANON | unix.IEXTEN
	// ISIG stays on so Ctrl+C still raises SIGINT
	raw.Iflag &^= unix.BRKINT | unix.ICRNL | unix.INPCK | unix.ISTRIP | unix.IXON
	raw.Cflag |= unix.CS8
	raw.Cc[unix.VMIN] = 1
	raw.Cc[unix.VTIME] = 0
	return raw
}
