package ahp

import "math"

// Reweight pins weights[index] to value and rescales every other weight so
// the vector still sums to 1. When the other weights are all zero the
// remaining mass is shared equally among them. value is clamped to [0,1];
// an out-of-range index returns an unmodified copy.
func Reweight(current []float64, index int, value float64) []float64 {
	result := make([]float64, len(current))
	copy(result, current)
	if index < 0 || index >= len(current) {
		return result
	}

	switch {
	case math.IsNaN(value) || value < 0:
		value = 0
	case value > 1:
		value = 1
	}

	var totalOther float64
	for i, w := range current {
		if i != index && finite(w) && w > 0 {
			totalOther += w
		}
	}

	remaining := 1 - value
	others := len(current) - 1
	for i, w := range current {
		if i == index {
			continue
		}
		if !finite(w) || w < 0 {
			w = 0
		}
		if totalOther > 0 {
			result[i] = w * remaining / totalOther
		} else {
			result[i] = remaining / float64(others)
		}
	}
	result[index] = value
	return result
}
