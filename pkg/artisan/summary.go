package artisan

// Summary describes a converted roast.
// This is the stable public type; internal representations may evolve
// independently without breaking consumers.
type Summary struct {
	RoastName         string  `json:"roastName"`
	UID               string  `json:"uid"`
	Duplicated        bool    `json:"duplicated"`        // double-written samples were collapsed
	SampleInterval    float64 `json:"sampleInterval"`    // seconds between profile rows
	Points            int     `json:"points"`            // profile rows
	TotalSeconds      float64 `json:"totalSeconds"`      // DROP time
	FirstCrackSeconds float64 `json:"firstCrackSeconds"` // <= 0 when not recorded
	WeightGreen       float64 `json:"weightGreen"`       // grams
	WeightRoasted     float64 `json:"weightRoasted"`     // grams
	WeightLossPercent float64 `json:"weightLossPercent"`
	BTMin             float64 `json:"btMin"` // °C
	BTMax             float64 `json:"btMax"`
	ETMin             float64 `json:"etMin"`
	ETMax             float64 `json:"etMax"`
}
