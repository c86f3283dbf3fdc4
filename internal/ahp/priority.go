package ahp

import "gonum.org/v1/gonum/floats"

// EstimatePriorities approximates the principal eigenvector by normalised
// column-sum averaging. The result sums to 1 for any non-empty matrix.
func EstimatePriorities(m Matrix) []float64 {
	n := m.Size()
	if n == 0 {
		return []float64{}
	}

	colSums := make([]float64, n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			colSums[j] += m.At(i, j)
		}
		if colSums[j] == 0 {
			colSums[j] = 1
		}
	}

	priorities := make([]float64, n)
	row := make([]float64, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			row[j] = m.At(i, j) / colSums[j]
		}
		priorities[i] = floats.Sum(row) / float64(n)
	}
	return priorities
}
