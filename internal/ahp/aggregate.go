package ahp

import (
	"math"
	"sort"
)

// RankedScore is one alternative's position in the global ranking.
type RankedScore struct {
	Entity
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

// Aggregate combines criteria weights with the per-criterion alternative
// priority vectors: score[k] = sum over c of weights[c] * alternatives[c][k].
// Scores are returned in alternative input order. Missing or non-finite
// entries contribute nothing.
func Aggregate(criteriaWeights []float64, alternatives [][]float64) []float64 {
	n := 0
	for _, v := range alternatives {
		if len(v) > n {
			n = len(v)
		}
	}
	scores := make([]float64, n)
	for c, w := range criteriaWeights {
		if c >= len(alternatives) || !finite(w) {
			continue
		}
		for k, p := range alternatives[c] {
			if finite(p) {
				scores[k] += w * p
			}
		}
	}
	return scores
}

// Rank orders entities by descending score. The sort is stable: ties keep
// the order in which the alternatives were supplied, and tied entries
// still get distinct consecutive ranks.
func Rank(entities []Entity, scores []float64) []RankedScore {
	out := make([]RankedScore, len(entities))
	for i, e := range entities {
		out[i] = RankedScore{Entity: e}
		if i < len(scores) && finite(scores[i]) {
			out[i].Score = scores[i]
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
