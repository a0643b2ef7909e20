//go:build darwin

package interaction

import (
	"os"

	"golang.org/x/sys/unix"
)

func (kr *KeyboardReader) enableRawMode() error {
	fd := int(os.Stdin.Fd())
	oldState, err := unix.IoctlGetTermios(fd, unix.TIOCGETA)
	if err != nil {
		return err
	}
	kr.oldState = oldState

	raw := makeRaw(*oldState)
	return unix.IoctlSetTermios(fd, unix.TIOCSETA, &raw)
}

func (kr *KeyboardReader) disableRawMode() error {
	if kr.oldState == nil {
		return nil
	}
	return unix.IoctlSetTermios(int(os.Stdin.Fd()), unix.TIOCSETA, kr.oldState)
}
