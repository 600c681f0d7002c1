package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrOutputUnwritable matches errors for a destination that cannot be written.
var ErrOutputUnwritable = errors.New("output unwritable")

// OutputError reports a failure to write the generated script.
type OutputError struct {
	Path string
	Err  error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("%s: cannot write output: %v", e.Path, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

// Is reports whether target is ErrOutputUnwritable.
func (e *OutputError) Is(target error) bool {
	return target == ErrOutputUnwritable
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// writeAtomic streams fill into a temporary file next to path and renames
// it into place, so path is either fully replaced or left untouched.
func writeAtomic(path string, fill func(io.Writer) error) (written int64, err error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, &OutputError{Path: path, Err: err}
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	cw := &countingWriter{w: f}
	if err := fill(cw); err != nil {
		return 0, &OutputError{Path: path, Err: err}
	}
	if err := f.Chmod(0o644); err != nil {
		return 0, &OutputError{Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return 0, &OutputError{Path: path, Err: err}
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return 0, &OutputError{Path: path, Err: err}
	}
	return cw.n, nil
}
