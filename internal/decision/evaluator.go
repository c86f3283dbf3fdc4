package decision

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Odla19/DecissionsMaker/internal/ahp"
	"github.com/Odla19/DecissionsMaker/internal/hermes"
	"github.com/Odla19/DecissionsMaker/internal/store"
)

// CriterionResult carries one criterion's weight and the alternative
// priorities derived under it.
type CriterionResult struct {
	Criterion   ahp.Entity      `json:"criterion"`
	Weight      float64         `json:"weight"`
	Priorities  []float64       `json:"priorities"`
	Consistency ahp.Consistency `json:"consistency"`
}

// ScoredAlternative is a ranked alternative with its display score.
type ScoredAlternative struct {
	ahp.RankedScore
	DisplayScore float64 `json:"display_score"`
	Dominated    bool    `json:"dominated"`
}

// Result is the full outcome of evaluating a Problem.
type Result struct {
	Mission             string              `json:"mission,omitempty"`
	Mode                Mode                `json:"mode"`
	CriteriaMatrix      ahp.Matrix          `json:"criteria_matrix"`
	CriteriaConsistency ahp.Consistency     `json:"criteria_consistency"`
	Criteria            []CriterionResult   `json:"criteria"`
	Alternatives        []ahp.Entity        `json:"alternatives"`
	Scores              []float64           `json:"scores"`
	Ranking             []ScoredAlternative `json:"ranking"`
	IsConsistent        bool                `json:"is_consistent"`
}

// CriteriaWeights returns the criterion weight vector in criterion order.
func (r *Result) CriteriaWeights() []float64 {
	w := make([]float64, len(r.Criteria))
	for i, c := range r.Criteria {
		w[i] = c.Weight
	}
	return w
}

// AlternativeWeights returns the per-criterion alternative vectors indexed
// [criterion][alternative].
func (r *Result) AlternativeWeights() [][]float64 {
	out := make([][]float64, len(r.Criteria))
	for i, c := range r.Criteria {
		out[i] = c.Priorities
	}
	return out
}

// Winner returns the top-ranked alternative, if any.
func (r *Result) Winner() (ScoredAlternative, bool) {
	if len(r.Ranking) == 0 {
		return ScoredAlternative{}, false
	}
	return r.Ranking[0], true
}

// Record builds the decision summary a collaborator may choose to persist.
func (r *Result) Record() *store.DecisionRecord {
	rec := &store.DecisionRecord{Mission: r.Mission}
	if w, ok := r.Winner(); ok {
		rec.Winner = w.Name
		rec.Score = w.DisplayScore
	}
	rec.CriteriaWeights = make([]store.CriterionWeight, len(r.Criteria))
	for i, c := range r.Criteria {
		rec.CriteriaWeights[i] = store.CriterionWeight{Name: c.Criterion.Name, Weight: c.Weight}
	}
	return rec
}

// Options tunes score presentation and input bounds.
type Options struct {
	ScoreScale     float64
	ScorePrecision int
	Limits         Limits
}

// DefaultOptions scales scores to percentages with one decimal.
func DefaultOptions() Options {
	return Options{ScoreScale: 100, ScorePrecision: 1, Limits: DefaultLimits()}
}

// Evaluator runs the AHP pipeline over whole decision problems.
type Evaluator struct {
	opts    Options
	metrics *Metrics
	hermes  hermes.Client
	logger  *slog.Logger
}

// NewEvaluator creates an Evaluator. metrics and h may be nil.
func NewEvaluator(opts Options, metrics *Metrics, h hermes.Client, logger *slog.Logger) *Evaluator {
	return &Evaluator{opts: opts, metrics: metrics, hermes: h, logger: logger}
}

// Limits returns the entity bounds this evaluator enforces.
func (e *Evaluator) Limits() Limits { return e.opts.Limits }

// Evaluate validates p, derives criterion weights, computes the alternative
// priorities for every criterion concurrently, and ranks the alternatives.
// Inconsistent judgments are reported, not rejected.
func (e *Evaluator) Evaluate(ctx context.Context, p *Problem) (*Result, error) {
	if err := p.Validate(e.opts.Limits); err != nil {
		return nil, err
	}
	start := time.Now()
	clean := p.sanitized()
	mode := clean.EffectiveMode()

	cm := ahp.BuildMatrix(clean.Criteria, clean.CriteriaJudgments)
	weights := ahp.EstimatePriorities(cm)

	result := &Result{
		Mission:             clean.Mission,
		Mode:                mode,
		CriteriaMatrix:      cm,
		CriteriaConsistency: ahp.EvaluateConsistency(cm, weights),
		Criteria:            make([]CriterionResult, len(clean.Criteria)),
		Alternatives:        clean.Alternatives,
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, c := range clean.Criteria {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			priorities, consistency := e.alternativePriorities(&clean, mode, c.ID)
			result.Criteria[i] = CriterionResult{
				Criterion:   c,
				Weight:      weights[i],
				Priorities:  priorities,
				Consistency: consistency,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluate criteria: %w", err)
	}

	result.IsConsistent = result.CriteriaConsistency.IsConsistent
	for _, c := range result.Criteria {
		result.IsConsistent = result.IsConsistent && c.Consistency.IsConsistent
	}

	result.Scores = ahp.Aggregate(weights, result.AlternativeWeights())
	result.Ranking = e.rank(result)

	e.metrics.observe(result, time.Since(start).Seconds())
	e.publish(result)
	e.logger.Debug("decision evaluated",
		"mode", mode,
		"criteria", len(result.Criteria),
		"alternatives", len(result.Alternatives),
		"criteria_cr", result.CriteriaConsistency.CR,
		"consistent", result.IsConsistent,
	)
	return result, nil
}

func (e *Evaluator) alternativePriorities(p *Problem, mode Mode, criterionID string) ([]float64, ahp.Consistency) {
	if mode == ModeExpress {
		return ahp.StarsToWeights(p.Ratings[criterionID], p.Alternatives)
	}
	m := ahp.BuildMatrix(p.Alternatives, p.AlternativeJudgments[criterionID])
	priorities := ahp.EstimatePriorities(m)
	return priorities, ahp.EvaluateConsistency(m, priorities)
}

// Rerank ranks alternatives for an externally adjusted weighting, as used by
// the sensitivity view.
func (e *Evaluator) Rerank(alternatives []ahp.Entity, criteriaWeights []float64, alternativeWeights [][]float64) []ScoredAlternative {
	r := &Result{
		Alternatives: alternatives,
		Criteria:     make([]CriterionResult, len(alternativeWeights)),
		Scores:       ahp.Aggregate(criteriaWeights, alternativeWeights),
	}
	for i, v := range alternativeWeights {
		r.Criteria[i].Priorities = v
	}
	return e.rank(r)
}

func (e *Evaluator) rank(r *Result) []ScoredAlternative {
	ranked := ahp.Rank(r.Alternatives, r.Scores)
	dominated := ahp.Dominated(r.AlternativeWeights())
	pos := ahp.IndexOf(r.Alternatives)

	out := make([]ScoredAlternative, len(ranked))
	for i, rs := range ranked {
		out[i] = ScoredAlternative{
			RankedScore:  rs,
			DisplayScore: e.DisplayScore(rs.Score),
		}
		if k, ok := pos[rs.ID]; ok && k < len(dominated) {
			out[i].Dominated = dominated[k]
		}
	}
	return out
}

// DisplayScore scales a raw score and rounds it to the configured precision.
func (e *Evaluator) DisplayScore(raw float64) float64 {
	scale := e.opts.ScoreScale
	if scale <= 0 {
		scale = 1
	}
	p := math.Pow(10, float64(e.opts.ScorePrecision))
	return math.Round(raw*scale*p) / p
}

func (e *Evaluator) publish(r *Result) {
	if e.hermes == nil {
		return
	}
	ev := hermes.EvaluatedEvent{
		Mission:      r.Mission,
		Mode:         string(r.Mode),
		Criteria:     len(r.Criteria),
		Alternatives: len(r.Alternatives),
		IsConsistent: r.IsConsistent,
		Timestamp:    time.Now().UTC(),
	}
	if w, ok := r.Winner(); ok {
		ev.Winner = w.Name
		ev.WinnerScore = w.DisplayScore
	}
	hermes.Emit(e.hermes, e.logger, hermes.SubjectEvaluated(), ev)

	if r.IsConsistent {
		return
	}
	inc := hermes.InconsistentEvent{Mission: r.Mission, Timestamp: ev.Timestamp}
	if !r.CriteriaConsistency.IsConsistent {
		inc.Offenders = append(inc.Offenders, hermes.InconsistentSet{CR: r.CriteriaConsistency.CR})
	}
	for _, c := range r.Criteria {
		if !c.Consistency.IsConsistent {
			inc.Offenders = append(inc.Offenders, hermes.InconsistentSet{Criterion: c.Criterion.ID, CR: c.Consistency.CR})
		}
	}
	hermes.Emit(e.hermes, e.logger, hermes.SubjectInconsistent(), inc)
}
