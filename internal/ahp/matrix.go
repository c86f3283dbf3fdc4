package ahp

import "math"

// Entity is a criterion or an alternative. Identity is the ID.
type Entity struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Judgment records that ID1 is Value steps more important than ID2.
// Value lands in M[ID1][ID2]; its reciprocal in M[ID2][ID1].
type Judgment struct {
	ID1   string `json:"id1" yaml:"id1"`
	ID2   string `json:"id2" yaml:"id2"`
	Value Step   `json:"value" yaml:"value"`
}

// Matrix is a square pairwise comparison matrix in entity order.
type Matrix [][]float64

// Size returns the number of rows.
func (m Matrix) Size() int { return len(m) }

// At returns the cell at (i, j), substituting 1 for anything missing,
// zero or non-finite.
func (m Matrix) At(i, j int) float64 {
	if i < 0 || i >= len(m) || j < 0 || j >= len(m[i]) {
		return 1
	}
	return safeCell(m[i][j])
}

func safeCell(v float64) float64 {
	if v == 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	return v
}

// IndexOf maps entity IDs to their position.
func IndexOf(entities []Entity) map[string]int {
	idx := make(map[string]int, len(entities))
	for i, e := range entities {
		if _, ok := idx[e.ID]; !ok {
			idx[e.ID] = i
		}
	}
	return idx
}

// BuildMatrix assembles the reciprocal comparison matrix for entities.
// Unjudged pairs stay at 1. Judgments naming an unknown entity, or the same
// entity twice, are skipped. When a pair is judged more than once the last
// judgment wins.
func BuildMatrix(entities []Entity, judgments []Judgment) Matrix {
	n := len(entities)
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			m[i][j] = 1
		}
	}

	idx := IndexOf(entities)
	for _, jd := range judgments {
		i, ok1 := idx[jd.ID1]
		j, ok2 := idx[jd.ID2]
		if !ok1 || !ok2 || i == j {
			continue
		}
		v := ScaleToValue(jd.Value)
		m[i][j] = v
		m[j][i] = 1 / v
	}
	return m
}
