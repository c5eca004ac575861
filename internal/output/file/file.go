package file

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/crimson-sun/artisanize/internal/model"
	"github.com/crimson-sun/artisanize/internal/output"
)

const defaultBufSize = 64 * 1024 // 64KB

// Option configures a file Output.
type Option func(*Output)

// WithBufSize sets the bufio.Writer buffer size. Default: 64KB.
func WithBufSize(bytes int) Option {
	return func(o *Output) { o.bufSize = bytes }
}

// WithPerm sets the permission bits of the written file. Default: 0644.
func WithPerm(perm os.FileMode) Option {
	return func(o *Output) { o.perm = perm }
}

// Output writes an Artisan profile to a file. The profile is written to a
// temporary file next to the destination and renamed into place, so a failed
// write leaves no partial output behind.
type Output struct {
	mu      sync.Mutex
	target  string // as configured: file path, directory, or empty
	written string // absolute path of the last successful write
	bufSize int
	perm    os.FileMode
}

// New creates a file output. path may name the destination file, an existing
// directory, or be empty (current directory); in the last two cases the file
// name is derived from the roast name and uid.
func New(path string, opts ...Option) *Output {
	o := &Output{
		target:  path,
		bufSize: defaultBufSize,
		perm:    0644,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Write serialises the profile and atomically replaces the destination file.
func (o *Output) Write(ctx context.Context, p *model.Profile) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	path, err := filepath.Abs(o.resolve(p))
	if err != nil {
		return &output.SerializationError{Path: o.target, Err: err}
	}
	if err := ctx.Err(); err != nil {
		return &output.SerializationError{Path: path, Err: err}
	}
	if err := o.writeAtomic(path, p.Bytes()); err != nil {
		return &output.SerializationError{Path: path, Err: err}
	}
	o.written = path
	return nil
}

// Path returns the absolute path of the last successful write, or "".
func (o *Output) Path() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.written
}

// Close is a no-op; every Write completes its own file.
func (o *Output) Close() error {
	return nil
}

// resolve maps the configured target to a file path for p.
func (o *Output) resolve(p *model.Profile) string {
	name := output.DefaultFilename(p.Summary.RoastName, p.Summary.UID)
	if o.target == "" {
		return name
	}
	if info, err := os.Stat(o.target); err == nil && info.IsDir() {
		return filepath.Join(o.target, name)
	}
	return o.target
}

func (o *Output) writeAtomic(path string, data []byte) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmp)
		}
	}()

	w := bufio.NewWriterSize(f, o.bufSize)
	if _, err := w.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("write: %w", err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flush: %w", err)
	}
	if err := f.Chmod(o.perm); err != nil {
		f.Close()
		return fmt.Errorf("chmod: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	committed = true
	return nil
}
