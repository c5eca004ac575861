package artisan

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/crimson-sun/artisanize/internal/engine"
	"github.com/crimson-sun/artisanize/internal/model"
	"github.com/crimson-sun/artisanize/internal/output"
)

// Errors returned by this package can be matched with errors.Is.
var (
	ErrInvalidJSON   = errors.New("invalid roast JSON")
	ErrMissingField  = engine.ErrMissingField
	ErrMalformedData = engine.ErrMalformedData
)

// Convert turns a roast.world JSON export into the bytes of an Artisan
// profile. Nothing is returned on error.
func Convert(data []byte, opts ...Option) ([]byte, error) {
	p, err := convert(data, opts)
	if err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// Summarize converts data and reports what the profile contains.
func Summarize(data []byte) (Summary, error) {
	p, err := convert(data, nil)
	if err != nil {
		return Summary{}, err
	}
	return summaryFromModel(p.Summary), nil
}

// Filename returns the default file name for the roast in data,
// "<name>_<uid[:8]>.csv" with unsafe name characters replaced by "_".
func Filename(data []byte) (string, error) {
	raw, err := decode(data)
	if err != nil {
		return "", err
	}
	rec, err := engine.Validate(raw)
	if err != nil {
		return "", fmt.Errorf("artisan: %w", err)
	}
	return output.DefaultFilename(rec.RoastName, rec.UID), nil
}

func convert(data []byte, opts []Option) (*model.Profile, error) {
	raw, err := decode(data)
	if err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	var engOpts []engine.Option
	if !o.date.IsZero() {
		date := o.date
		engOpts = append(engOpts, engine.WithClock(func() time.Time { return date }))
	}

	p, err := engine.New(engOpts...).Convert(raw)
	if err != nil {
		return nil, fmt.Errorf("artisan: %w", err)
	}
	return p, nil
}

func decode(data []byte) (model.RoastRecord, error) {
	var raw model.RoastRecord
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.RoastRecord{}, fmt.Errorf("artisan: %w: %v", ErrInvalidJSON, err)
	}
	return raw, nil
}

func summaryFromModel(s model.Summary) Summary {
	return Summary{
		RoastName:         s.RoastName,
		UID:               s.UID,
		Duplicated:        s.Duplicated,
		SampleInterval:    s.SampleInterval,
		Points:            s.Points,
		TotalSeconds:      s.TotalSeconds,
		FirstCrackSeconds: s.FirstCrackSeconds,
		WeightGreen:       s.WeightGreen,
		WeightRoasted:     s.WeightRoasted,
		WeightLossPercent: s.WeightLossPercent,
		BTMin:             s.BTMin,
		BTMax:             s.BTMax,
		ETMin:             s.ETMin,
		ETMax:             s.ETMax,
	}
}
