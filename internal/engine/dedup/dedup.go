package dedup

import "math"

// Some recorders write every 1 s sample twice on a 0.5 s tick, giving
// val1, val1, val2, val2, ... The detector samples a single fixed window of
// the drum series; the numbers below are tuned against that recorder.
const (
	MinLength   = 40   // shorter series are never classified as duplicated
	WindowStart = 10   // first index of the first checked pair
	WindowPairs = 10   // pairs (10,11), (12,13) ... (28,29)
	Tolerance   = 0.01 // pair values closer than this count as identical
	Threshold   = 8    // more than this many identical pairs means duplicated
)

// Detect reports whether the drum temperature series was double-written.
func Detect(drum []float64) bool {
	return CountPairs(drum) > Threshold
}

// CountPairs returns how many pairs in the detection window are
// near-identical. Series shorter than MinLength report 0.
func CountPairs(drum []float64) int {
	if len(drum) < MinLength {
		return 0
	}
	n := 0
	for i := WindowStart; i < WindowStart+2*WindowPairs; i += 2 {
		if math.Abs(drum[i]-drum[i+1]) < Tolerance {
			n++
		}
	}
	return n
}

// Resample returns series[start:] taking every stride-th element. A start
// past the end yields an empty, non-nil slice.
func Resample(series []float64, start, stride int) []float64 {
	if stride < 1 {
		stride = 1
	}
	if start >= len(series) {
		return []float64{}
	}
	out := make([]float64, 0, (len(series)-start+stride-1)/stride)
	for i := start; i < len(series); i += stride {
		out = append(out, series[i])
	}
	return out
}
