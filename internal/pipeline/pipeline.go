package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crimson-sun/artisanize/internal/connector"
	"github.com/crimson-sun/artisanize/internal/model"
	"github.com/crimson-sun/artisanize/internal/output"
)

// Converter turns a roast record into an Artisan profile. Implemented by
// *engine.Engine.
type Converter interface {
	Convert(rec model.RoastRecord) (*model.Profile, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for the conversion report. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// Pipeline connects a source, converter and output.
type Pipeline struct {
	source    connector.Source
	converter Converter
	output    output.Output
	log       *slog.Logger
}

// New creates a Pipeline from the given components.
func New(src connector.Source, conv Converter, out output.Output, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:    src,
		converter: conv,
		output:    out,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run fetches ref, converts it and writes the profile. Nothing is written
// unless retrieval and conversion both succeed.
func (p *Pipeline) Run(ctx context.Context, ref string) (model.Summary, error) {
	rec, err := p.source.Fetch(ctx, ref)
	if err != nil {
		return model.Summary{}, fmt.Errorf("pipeline fetch: %w", err)
	}

	profile, err := p.converter.Convert(rec)
	if err != nil {
		return model.Summary{}, fmt.Errorf("pipeline convert: %w", err)
	}
	p.report(profile.Summary)

	if err := p.output.Write(ctx, profile); err != nil {
		return model.Summary{}, fmt.Errorf("pipeline output: %w", err)
	}
	return profile.Summary, nil
}

// Close shuts down the output.
func (p *Pipeline) Close() error {
	return p.output.Close()
}

func (p *Pipeline) report(s model.Summary) {
	if s.Duplicated {
		p.log.Info("detected duplicate samples, using 1-second resolution")
	}
	p.log.Info("roast converted",
		"roast", s.RoastName,
		"uid", s.UID,
		"sample_rate", fmt.Sprintf("%gs", s.SampleInterval),
		"points", s.Points,
		"total", model.Duration(s.TotalSeconds),
		"first_crack", model.Duration(s.FirstCrackSeconds),
		"weight", fmt.Sprintf("%gg -> %gg (%s loss)", s.WeightGreen, s.WeightRoasted, s.WeightLoss()),
		"bt_range", fmt.Sprintf("%.1f°C - %.1f°C", s.BTMin, s.BTMax),
		"et_range", fmt.Sprintf("%.1f°C - %.1f°C", s.ETMin, s.ETMax),
	)
}
