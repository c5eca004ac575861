package engine

import "github.com/crimson-sun/artisanize/internal/model"

// Defaults for optional RoastRecord fields.
const (
	DefaultRoastName = "Roast"
	DefaultUID       = "unknown"
)

// Validate checks required fields and applies defaults, returning a fully
// populated Record. The roast name is carried through byte for byte.
func Validate(raw model.RoastRecord) (model.Record, error) {
	switch {
	case raw.BeanTemperature == nil:
		return model.Record{}, &MissingFieldError{Field: "beanTemperature"}
	case raw.DrumTemperature == nil:
		return model.Record{}, &MissingFieldError{Field: "drumTemperature"}
	case raw.SampleRate == nil:
		return model.Record{}, &MissingFieldError{Field: "sampleRate"}
	case raw.RoastStartIndex == nil:
		return model.Record{}, &MissingFieldError{Field: "roastStartIndex"}
	case raw.WeightGreen == nil:
		return model.Record{}, &MissingFieldError{Field: "weightGreen"}
	case raw.WeightRoasted == nil:
		return model.Record{}, &MissingFieldError{Field: "weightRoasted"}
	}

	rec := model.Record{
		BeanTemperature: raw.BeanTemperature,
		DrumTemperature: raw.DrumTemperature,
		SampleRate:      *raw.SampleRate,
		RoastStartIndex: *raw.RoastStartIndex,
		WeightGreen:     *raw.WeightGreen,
		WeightRoasted:   *raw.WeightRoasted,
		RoastName:       DefaultRoastName,
		UID:             DefaultUID,
	}
	if raw.IndexFirstCrackStart != nil {
		rec.IndexFirstCrackStart = *raw.IndexFirstCrackStart
	}
	if raw.RoastName != nil {
		rec.RoastName = *raw.RoastName
	}
	if raw.UID != nil {
		rec.UID = *raw.UID
	}

	if rec.RoastStartIndex < 0 {
		return model.Record{}, malformedf("roastStartIndex %d is negative", rec.RoastStartIndex)
	}
	if rec.WeightGreen <= 0 {
		return model.Record{}, malformedf("weightGreen %g must be positive", rec.WeightGreen)
	}
	return rec, nil
}
