package main

import (
	"errors"
	"io/fs"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/md3fix/pkg/md3"
)

// Exit statuses, one per failure class.
const (
	exitOK          = 0
	exitFailure     = 1
	exitUsage       = 2
	exitIO          = 3
	exitShortRead   = 4
	exitTooLarge    = 5
	exitMalformed   = 6
	exitUnsupported = 7
)

var errUsage = errors.New("usage")

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}

	switch {
	case errors.Is(err, errUsage):
		return exitUsage
	case errors.Is(err, md3.ErrShortRead), errors.Is(err, md3.ErrEmptyFile):
		return exitShortRead
	case errors.Is(err, md3.ErrFileTooLarge):
		return exitTooLarge
	case errors.Is(err, md3.ErrMalformedLayout):
		return exitMalformed
	case errors.Is(err, md3.ErrInvalidIdent), errors.Is(err, md3.ErrUnsupportedVersion):
		return exitUnsupported
	}

	var (
		pathErr *fs.PathError
		linkErr *os.LinkError
		sysErr  *os.SyscallError
	)
	if errors.As(err, &pathErr) || errors.As(err, &linkErr) || errors.As(err, &sysErr) {
		return exitIO
	}
	return exitFailure
}
