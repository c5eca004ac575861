package stdout

import (
	"context"
	"io"
	"os"

	"github.com/crimson-sun/artisanize/internal/model"
	"github.com/crimson-sun/artisanize/internal/output"
)

// Output writes Artisan profiles to stdout, or another writer.
type Output struct {
	w io.Writer
}

// New creates a stdout Output.
func New() *Output {
	return &Output{w: os.Stdout}
}

// NewWriter creates an Output writing to w.
func NewWriter(w io.Writer) *Output {
	return &Output{w: w}
}

// Write emits the profile bytes. No newline follows the last row.
func (o *Output) Write(_ context.Context, p *model.Profile) error {
	if _, err := o.w.Write(p.Bytes()); err != nil {
		return &output.SerializationError{Path: "<stdout>", Err: err}
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
