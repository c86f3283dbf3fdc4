package decision

import (
	"sort"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/Odla19/DecissionsMaker/internal/store"
)

// Persona keys describe what a user's history says they optimise for.
const (
	PersonaValueSeeker        = "value_seeker"
	PersonaQualityPurist      = "quality_purist"
	PersonaSpeedDemon         = "speed_demon"
	PersonaBalancedStrategist = "balanced_strategist"
)

var personaKeywords = []struct {
	persona  string
	keywords []string
}{
	{PersonaValueSeeker, []string{"price", "cost", "dinero"}},
	{PersonaQualityPurist, []string{"quality", "calidad", "performance"}},
	{PersonaSpeedDemon, []string{"speed", "tiempo", "time", "fast"}},
}

// InsightsWindow is how many of the most recent decisions feed insights.
const InsightsWindow = 1000

// CriterionAverage is a criterion name's mean weight across the history.
type CriterionAverage struct {
	Name    string  `json:"name"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// Insights summarises saved decisions.
type Insights struct {
	Decisions    int                `json:"decisions"`
	TopCriterion string             `json:"top_criterion,omitempty"`
	Persona      string             `json:"persona,omitempty"`
	Criteria     []CriterionAverage `json:"criteria"`
	MeanScore    float64            `json:"mean_score"`
	MedianScore  float64            `json:"median_score"`
	StdDevScore  float64            `json:"stddev_score"`
}

// ComputeInsights aggregates criterion weights by lower-cased name. The
// average divides by the number of decisions, so a criterion that appears
// rarely is pulled toward zero.
func ComputeInsights(records []*store.DecisionRecord) Insights {
	in := Insights{Decisions: len(records), Criteria: []CriterionAverage{}}
	if len(records) == 0 {
		return in
	}

	totals := make(map[string]float64)
	counts := make(map[string]int)
	var order []string
	scores := make(stats.Float64Data, 0, len(records))
	for _, d := range records {
		scores = append(scores, d.Score)
		for _, cw := range d.CriteriaWeights {
			name := strings.ToLower(strings.TrimSpace(cw.Name))
			if _, ok := totals[name]; !ok {
				order = append(order, name)
			}
			totals[name] += cw.Weight
			counts[name]++
		}
	}

	for _, name := range order {
		in.Criteria = append(in.Criteria, CriterionAverage{
			Name:    name,
			Average: totals[name] / float64(len(records)),
			Count:   counts[name],
		})
	}
	sort.SliceStable(in.Criteria, func(a, b int) bool {
		return in.Criteria[a].Average > in.Criteria[b].Average
	})
	if len(in.Criteria) > 0 {
		in.TopCriterion = in.Criteria[0].Name
		in.Persona = personaFor(in.TopCriterion)
	}

	in.MeanScore, _ = stats.Mean(scores)
	in.MedianScore, _ = stats.Median(scores)
	in.StdDevScore, _ = stats.StandardDeviation(scores)
	return in
}

func personaFor(criterion string) string {
	for _, p := range personaKeywords {
		for _, k := range p.keywords {
			if strings.Contains(criterion, k) {
				return p.persona
			}
		}
	}
	return PersonaBalancedStrategist
}
