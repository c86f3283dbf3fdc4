package ahp

// MaxStars is the highest express-mode rating.
const MaxStars = 5

// starValues maps an express rating onto the Saaty scale. 0 means unrated
// and weighs the same as a neutral 3.
var starValues = [MaxStars + 1]float64{1, 1.0 / 9, 1.0 / 3, 1, 3, 9}

// StarValue returns the Saaty scalar for a rating. Out-of-range ratings are
// treated as unrated.
func StarValue(stars int) float64 {
	if stars < 0 || stars > MaxStars {
		return starValues[0]
	}
	return starValues[stars]
}

// StarsToWeights normalises star ratings for entities into a priority
// vector. Express mode skips pairwise consistency entirely, so the returned
// Consistency is always Trivial.
func StarsToWeights(ratings map[string]int, entities []Entity) ([]float64, Consistency) {
	weights := make([]float64, len(entities))
	var total float64
	for i, e := range entities {
		weights[i] = StarValue(ratings[e.ID])
		total += weights[i]
	}
	if total > 0 {
		for i := range weights {
			weights[i] /= total
		}
	}
	return weights, Trivial(len(entities))
}
