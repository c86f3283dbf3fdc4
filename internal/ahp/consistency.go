package ahp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ConsistencyThreshold is the conventional CR acceptability bound.
const ConsistencyThreshold = 0.1

// roundingTolerance absorbs float noise so a perfectly consistent matrix
// reports CI == 0 rather than +/-1e-16.
const roundingTolerance = 1e-12

// randomIndex holds the published RI values for n = 1..10.
var randomIndex = []float64{0, 0, 0.58, 0.90, 1.12, 1.24, 1.32, 1.41, 1.45, 1.49}

// Consistency is the outcome of a consistency check.
type Consistency struct {
	LambdaMax    float64 `json:"lambda_max"`
	CI           float64 `json:"ci"`
	CR           float64 `json:"cr"`
	IsConsistent bool    `json:"is_consistent"`
}

// RandomIndex returns RI for a matrix of size n. Sizes past the table fall
// back to 1.
func RandomIndex(n int) float64 {
	if n < 1 {
		return 0
	}
	if n > len(randomIndex) {
		return 1
	}
	return randomIndex[n-1]
}

// Trivial is the result reported whenever consistency is not measured.
func Trivial(n int) Consistency {
	return Consistency{LambdaMax: float64(n), IsConsistent: true}
}

// EvaluateConsistency computes lambda max, CI and CR for m against its
// priority vector. Matrices of size 2 or less are always consistent.
func EvaluateConsistency(m Matrix, priorities []float64) Consistency {
	n := m.Size()
	if n <= 2 {
		return Trivial(n)
	}

	fallback := 1 / float64(n)
	w := make([]float64, n)
	for i := range w {
		w[i] = fallback
		if i < len(priorities) {
			if p := priorities[i]; p != 0 && !math.IsNaN(p) && !math.IsInf(p, 0) {
				w[i] = p
			}
		}
	}

	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, m.At(i, j))
		}
	}
	var ax mat.VecDense
	ax.MulVec(a, mat.NewVecDense(n, w))

	var lambda float64
	for i := 0; i < n; i++ {
		lambda += ax.AtVec(i) / w[i]
	}
	lambda /= float64(n)

	ci := (lambda - float64(n)) / float64(n-1)
	if math.Abs(ci) < roundingTolerance {
		ci = 0
	}
	var cr float64
	if ri := RandomIndex(n); ri != 0 {
		cr = ci / ri
	}

	return Consistency{
		LambdaMax:    lambda,
		CI:           ci,
		CR:           cr,
		IsConsistent: cr < ConsistencyThreshold,
	}
}
