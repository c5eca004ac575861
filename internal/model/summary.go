package model

import (
	"fmt"
	"math"
	"strconv"
)

// Summary describes a conversion for reporting. It is not part of the
// Artisan file.
type Summary struct {
	RoastName         string
	UID               string
	Duplicated        bool
	SampleInterval    float64 // effective seconds between retained points
	Points            int
	TotalSeconds      float64
	FirstCrackSeconds float64
	WeightGreen       float64
	WeightRoasted     float64
	WeightLossPercent float64
	BTMin, BTMax      float64 // °C
	ETMin, ETMax      float64 // °C
}

// WeightLoss formats the weight loss with one decimal, e.g. "16.0%".
func (s Summary) WeightLoss() string {
	return strconv.FormatFloat(s.WeightLossPercent, 'f', 1, 64) + "%"
}

// Duration formats whole seconds as "<s>s (m:ss)". Negative values floor,
// so -5 renders as "-5s (-1:55)".
func Duration(seconds float64) string {
	n := int(seconds)
	m := int(math.Floor(float64(n) / 60))
	return fmt.Sprintf("%ds (%d:%02d)", n, m, n-m*60)
}

func formatTemp(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}
