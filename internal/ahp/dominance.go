package ahp

// Dominated reports, for each alternative, whether some other alternative
// scores at least as well on every criterion and strictly better on one.
// A dominated alternative cannot finish first under any criteria weighting.
// alternatives is indexed [criterion][alternative]. O(n^2 * m), fine for the
// entity counts this engine handles.
func Dominated(alternatives [][]float64) []bool {
	n := 0
	for _, v := range alternatives {
		if len(v) > n {
			n = len(v)
		}
	}
	out := make([]bool, n)
	if n <= 1 {
		return out
	}
	for k := 0; k < n; k++ {
		for l := 0; l < n; l++ {
			if k != l && dominates(alternatives, l, k) {
				out[k] = true
				break
			}
		}
	}
	return out
}

// dominates returns true if alternative a dominates alternative b.
func dominates(alternatives [][]float64, a, b int) bool {
	strictly := false
	for _, v := range alternatives {
		pa, pb := at(v, a), at(v, b)
		if pa < pb {
			return false
		}
		if pa > pb {
			strictly = true
		}
	}
	return strictly
}

func at(v []float64, i int) float64 {
	if i >= len(v) || !finite(v[i]) {
		return 0
	}
	return v[i]
}
