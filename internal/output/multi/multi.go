package multi

import (
	"context"
	"errors"
	"fmt"

	"github.com/crimson-sun/artisanize/internal/model"
	"github.com/crimson-sun/artisanize/internal/output"
)

// Multi writes one profile to several sinks, e.g. the output directory and a
// webhook in consume mode. A failing sink does not stop delivery to the rest.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi over outputs, written in the given order.
func New(outputs ...output.Output) *Multi {
	return &Multi{outputs: outputs}
}

// Write delivers p to every sink. Each failure is prefixed with the sink's
// position and type, e.g. "sink 2 (*webhook.Output): ...", and the failures
// are joined so errors.Is still reaches output.ErrSerialization.
func (m *Multi) Write(ctx context.Context, p *model.Profile) error {
	if p == nil {
		return errors.New("multi: nil profile")
	}
	var errs []error
	for i, o := range m.outputs {
		if err := o.Write(ctx, p); err != nil {
			errs = append(errs, sinkError(i, o, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink, joining failures the same way as Write.
func (m *Multi) Close() error {
	var errs []error
	for i, o := range m.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, sinkError(i, o, err))
		}
	}
	return errors.Join(errs...)
}

func sinkError(i int, o output.Output, err error) error {
	return fmt.Errorf("sink %d (%T): %w", i+1, o, err)
}
