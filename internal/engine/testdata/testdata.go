// Package testdata provides roast records shared by tests across packages.
package testdata

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/crimson-sun/artisanize/internal/model"
)

//go:embed sample_roast.json
var sampleJSON []byte

// SampleJSON returns the raw bytes of an embedded roast.world export: 120
// double-written samples at a nominal 0.5s rate, roast start 4, first crack
// at index 90, 250g -> 212.5g, plus fields the converter ignores.
func SampleJSON() []byte {
	out := make([]byte, len(sampleJSON))
	copy(out, sampleJSON)
	return out
}

// LoadSample decodes SampleJSON.
func LoadSample() (model.RoastRecord, error) {
	var rec model.RoastRecord
	if err := json.Unmarshal(sampleJSON, &rec); err != nil {
		return model.RoastRecord{}, fmt.Errorf("parse sample_roast.json: %w", err)
	}
	return rec, nil
}

// Ramp returns n strictly increasing readings starting at from.
func Ramp(from float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = from + float64(i)
	}
	return out
}

// Doubled writes every value of series twice.
func Doubled(series []float64) []float64 {
	out := make([]float64, 0, 2*len(series))
	for _, v := range series {
		out = append(out, v, v)
	}
	return out
}

// Record builds a RoastRecord with every field set.
func Record(bean, drum []float64, sampleRate float64, start, firstCrack int) model.RoastRecord {
	return model.RoastRecord{
		BeanTemperature:      bean,
		DrumTemperature:      drum,
		SampleRate:           Ptr(sampleRate),
		RoastStartIndex:      Ptr(start),
		IndexFirstCrackStart: Ptr(firstCrack),
		WeightGreen:          Ptr(300.0),
		WeightRoasted:        Ptr(252.0),
		RoastName:            Ptr("Test Roast"),
		UID:                  Ptr("abc12345"),
	}
}

// Scenario is a 1s-rate roast: 400 bean readings from 20°C, 410 drum
// readings from 18°C, roast start 5, first crack at 305, 300g -> 252g.
func Scenario() model.RoastRecord {
	return Record(Ramp(20, 400), Ramp(18, 410), 1.0, 5, 305)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
