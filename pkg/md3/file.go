package md3

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// MaxFileSize bounds the model buffer. Larger inputs fail with ErrFileTooLarge
// instead of attempting the allocation.
const MaxFileSize = 1 << 30

// ReadFile loads the whole file at path into a buffer sized exactly to the file.
// The returned slice is owned by the caller; no mapping outlives the call.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if stat.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: path, Err: errors.New("is a directory")}
	}
	if !stat.Mode().IsRegular() {
		// Pipes and character devices report no useful size.
		data, err := readStream(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return data, nil
	}
	size64 := stat.Size()
	if size64 == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyFile)
	}
	if size64 < 0 || size64 > MaxFileSize {
		return nil, fmt.Errorf("%s: %d bytes: %w", path, size64, ErrFileTooLarge)
	}
	size := int(size64)

	// Prefer copying out of a read-only mapping where available.
	if data, ok, err := readMapped(f, size); ok {
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return data, nil
	}

	data, err := readAllAt(f, size)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, nil
}

// readStream reads r to EOF, failing once more than MaxFileSize bytes arrive.
func readStream(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	switch {
	case len(data) == 0:
		return nil, ErrEmptyFile
	case len(data) > MaxFileSize:
		return nil, fmt.Errorf("more than %d bytes: %w", MaxFileSize, ErrFileTooLarge)
	}
	return data, nil
}

func readAllAt(r io.ReaderAt, size int) ([]byte, error) {
	out := make([]byte, size)
	var off int64
	for off < int64(size) {
		n, err := r.ReadAt(out[off:], off)
		off += int64(n)
		if err == nil {
			continue
		}
		if err == io.EOF {
			if off == int64(size) {
				break
			}
			return nil, fmt.Errorf("%w: complete read failed, %d of %d bytes read", ErrShortRead, off, size)
		}
		return nil, err
	}
	return out, nil
}

// WriteFile writes data to path through a temporary file in the same directory,
// so a failed write never leaves a partial output behind. If path is a symlink the
// file it points to is replaced, and an existing file keeps its permission bits.
func WriteFile(path string, data []byte) (err error) {
	path, perm, err := destination(path)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = writeFull(tmp, data); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return err
	}
	if err = tmp.Chmod(perm); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// destination resolves symlinks in path and returns the file to replace along with
// the mode it should get: the existing file's, or 0644 for a new one.
func destination(path string) (string, fs.FileMode, error) {
	resolved, err := filepath.EvalSymlinks(path)
	switch {
	case err == nil:
		path = resolved
	case errors.Is(err, fs.ErrNotExist):
		// New file, or a dangling link: follow the link so the target gets created.
		if target, lerr := os.Readlink(path); lerr == nil {
			if !filepath.IsAbs(target) {
				target = filepath.Join(filepath.Dir(path), target)
			}
			path = target
		}
		return path, 0o644, nil
	default:
		return "", 0, err
	}

	st, err := os.Stat(path)
	if err != nil {
		return "", 0, err
	}
	if !st.Mode().IsRegular() {
		return "", 0, &fs.PathError{Op: "write", Path: path, Err: errors.New("not a regular file")}
	}
	return path, st.Mode().Perm(), nil
}

func writeFull(f *os.File, p []byte) error {
	for len(p) > 0 {
		n, err := f.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}
