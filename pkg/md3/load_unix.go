//go:build unix

package md3

import (
	"fmt"
	"os"
	"runtime/debug"

	"golang.org/x/sys/unix"
)

// readMapped copies the file out of a read-only mapping. ok is false when the file
// cannot be mapped and the caller should fall back to ReadAt.
//
// If the file shrinks after it was sized, touching the pages past the new end
// faults (SIGBUS). The fault is turned into a panic for this goroutine only and
// reported as ErrShortRead.
func readMapped(f *os.File, size int) (data []byte, ok bool, err error) {
	m, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, false, nil
	}
	defer func() { _ = unix.Munmap(m) }()
	defer debug.SetPanicOnFault(debug.SetPanicOnFault(true))
	defer func() {
		if r := recover(); r != nil {
			data, ok, err = nil, true, fmt.Errorf("%w: file truncated while reading (%v)", ErrShortRead, r)
		}
	}()

	out := make([]byte, size)
	copy(out, m)
	return out, true, nil
}
