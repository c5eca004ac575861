package model

// RoastRecord is the wire form of a roast profile as published by roast.world.
// Scalars are pointers and slices stay nil so an absent (or null) key can be
// told apart from a zero value. engine validation turns it into a Record.
type RoastRecord struct {
	BeanTemperature      []float64 `json:"beanTemperature"`
	DrumTemperature      []float64 `json:"drumTemperature"`
	SampleRate           *float64  `json:"sampleRate"`
	RoastStartIndex      *int      `json:"roastStartIndex"`
	IndexFirstCrackStart *int      `json:"indexFirstCrackStart"`
	WeightGreen          *float64  `json:"weightGreen"`
	WeightRoasted        *float64  `json:"weightRoasted"`
	RoastName            *string   `json:"roastName"`
	UID                  *string   `json:"uid"`
}

// Record is a validated RoastRecord with defaults applied.
type Record struct {
	BeanTemperature      []float64 // °C
	DrumTemperature      []float64 // °C
	SampleRate           float64   // seconds between raw samples
	RoastStartIndex      int
	IndexFirstCrackStart int // absolute index, 0 = not recorded
	WeightGreen          float64 // grams
	WeightRoasted        float64 // grams
	RoastName            string
	UID                  string
}
