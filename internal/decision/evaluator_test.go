package decision

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Odla19/DecissionsMaker/internal/ahp"
	"github.com/Odla19/DecissionsMaker/internal/hermes"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingHermes struct {
	mu       sync.Mutex
	subjects []string
	payloads []interface{}
}

func (r *recordingHermes) Publish(subject string, data interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, data)
	return nil
}
func (r *recordingHermes) Subscribe(_ string, _ func(string, []byte)) error { return nil }
func (r *recordingHermes) Close()                                           {}

func laptopProblem() *Problem {
	return &Problem{
		Mission: "Choose a <b>laptop</b>",
		Criteria: []ahp.Entity{
			{ID: "price", Name: "Price"},
			{ID: "battery", Name: "Battery"},
		},
		Alternatives: []ahp.Entity{
			{ID: "x", Name: "X1 <script>"},
			{ID: "y", Name: "Y2"},
		},
		CriteriaJudgments: []ahp.Judgment{{ID1: "price", ID2: "battery", Value: 2}},
		AlternativeJudgments: map[string][]ahp.Judgment{
			"price":   {{ID1: "x", ID2: "y", Value: 4}},
			"battery": {{ID1: "x", ID2: "y", Value: -8}},
		},
	}
}

func TestEvaluatePrecision(t *testing.T) {
	e := NewEvaluator(DefaultOptions(), nil, nil, discardLogger())
	res, err := e.Evaluate(context.Background(), laptopProblem())
	require.NoError(t, err)

	assert.Equal(t, ModePrecision, res.Mode)
	assert.Equal(t, "Choose a laptop", res.Mission)
	assert.Equal(t, "X1", res.Alternatives[0].Name)
	require.Len(t, res.Criteria, 2)

	// price 3x battery -> [0.75, 0.25]
	assert.InDelta(t, 0.75, res.Criteria[0].Weight, 1e-9)
	assert.InDelta(t, 0.25, res.Criteria[1].Weight, 1e-9)
	// price: x 5x y -> [5/6, 1/6]; battery: y 9x x -> [0.1, 0.9]
	assert.InDelta(t, 5.0/6, res.Criteria[0].Priorities[0], 1e-9)
	assert.InDelta(t, 0.1, res.Criteria[1].Priorities[0], 1e-9)

	wantX := 0.75*5.0/6 + 0.25*0.1
	assert.InDelta(t, wantX, res.Scores[0], 1e-9)
	assert.InDelta(t, 1-wantX, res.Scores[1], 1e-9)

	winner, ok := res.Winner()
	require.True(t, ok)
	assert.Equal(t, "x", winner.ID)
	assert.Equal(t, 1, winner.Rank)
	assert.Equal(t, math.Round(wantX*1000)/10, winner.DisplayScore)
	assert.True(t, res.IsConsistent)
	assert.False(t, winner.Dominated)
}

func TestEvaluateExpress(t *testing.T) {
	e := NewEvaluator(DefaultOptions(), nil, nil, discardLogger())
	p := &Problem{
		Mode:         ModeExpress,
		Criteria:     []ahp.Entity{{ID: "c1", Name: "Comfort"}, {ID: "c2", Name: "Cost"}},
		Alternatives: []ahp.Entity{{ID: "x", Name: "X"}, {ID: "y", Name: "Y"}},
		Ratings: map[string]map[string]int{
			"c1": {"x": 5, "y": 1},
		},
	}
	res, err := e.Evaluate(context.Background(), p)
	require.NoError(t, err)

	assert.InDelta(t, 0.988, res.Criteria[0].Priorities[0], 0.001)
	assert.InDelta(t, 0.5, res.Criteria[1].Priorities[0], 1e-12)
	for _, c := range res.Criteria {
		assert.True(t, c.Consistency.IsConsistent)
		assert.Zero(t, c.Consistency.CR)
	}
	assert.Equal(t, "x", res.Ranking[0].ID)
	assert.True(t, res.Ranking[1].Dominated)
}

func TestEvaluateTieKeepsInputOrder(t *testing.T) {
	e := NewEvaluator(DefaultOptions(), nil, nil, discardLogger())
	p := &Problem{
		Criteria:     []ahp.Entity{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
		Alternatives: []ahp.Entity{{ID: "x", Name: "X"}, {ID: "y", Name: "Y"}},
		AlternativeJudgments: map[string][]ahp.Judgment{
			"a": {{ID1: "x", ID2: "y", Value: 4}},
			"b": {{ID1: "y", ID2: "x", Value: 4}},
		},
	}
	for i := 0; i < 10; i++ {
		res, err := e.Evaluate(context.Background(), p)
		require.NoError(t, err)
		assert.InDelta(t, res.Scores[0], res.Scores[1], 1e-12)
		assert.Equal(t, "x", res.Ranking[0].ID)
		assert.Equal(t, "y", res.Ranking[1].ID)
	}
}

func TestEvaluateInconsistentPublishesEvent(t *testing.T) {
	h := &recordingHermes{}
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	e := NewEvaluator(DefaultOptions(), m, h, discardLogger())

	p := &Problem{
		Criteria:     []ahp.Entity{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}},
		Alternatives: []ahp.Entity{{ID: "x", Name: "X"}, {ID: "y", Name: "Y"}},
		CriteriaJudgments: []ahp.Judgment{
			{ID1: "a", ID2: "b", Value: 8},
			{ID1: "b", ID2: "c", Value: 8},
			{ID1: "c", ID2: "a", Value: 8},
		},
	}
	res, err := e.Evaluate(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, res.IsConsistent)
	assert.False(t, res.CriteriaConsistency.IsConsistent)
	require.Len(t, res.Ranking, 2, "inconsistency is advisory")

	require.Equal(t, []string{hermes.SubjectEvaluated(), hermes.SubjectInconsistent()}, h.subjects)
	inc := h.payloads[1].(hermes.InconsistentEvent)
	require.Len(t, inc.Offenders, 1)
	assert.Empty(t, inc.Offenders[0].Criterion)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.evaluations.WithLabelValues("precision")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.inconsistent.WithLabelValues("criteria")))
}

func TestEvaluateValidation(t *testing.T) {
	e := NewEvaluator(DefaultOptions(), nil, nil, discardLogger())
	two := []ahp.Entity{{ID: "a"}, {ID: "b"}}

	tests := []struct {
		name string
		p    Problem
		want error
	}{
		{"few criteria", Problem{Criteria: two[:1], Alternatives: two}, ErrTooFewCriteria},
		{"few alternatives", Problem{Criteria: two, Alternatives: nil}, ErrTooFewAlternatives},
		{"duplicate", Problem{Criteria: []ahp.Entity{{ID: "a"}, {ID: "a"}}, Alternatives: two}, ErrDuplicateID},
		{"empty id", Problem{Criteria: two, Alternatives: []ahp.Entity{{ID: "a"}, {Name: "nameless"}}}, ErrEmptyID},
		{"mode", Problem{Mode: "quick", Criteria: two, Alternatives: two}, ErrUnknownMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Evaluate(context.Background(), &tt.p)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	tight := NewEvaluator(Options{ScoreScale: 100, Limits: Limits{MinEntities: 2, MaxEntities: 2}}, nil, nil, discardLogger())
	_, err := tight.Evaluate(context.Background(), &Problem{
		Criteria:     []ahp.Entity{{ID: "a"}, {ID: "b"}, {ID: "c"}},
		Alternatives: two,
	})
	assert.ErrorIs(t, err, ErrTooManyEntities)
}

func TestEvaluateCancelledContext(t *testing.T) {
	e := NewEvaluator(DefaultOptions(), nil, nil, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.Evaluate(ctx, laptopProblem())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResultRecord(t *testing.T) {
	e := NewEvaluator(DefaultOptions(), nil, nil, discardLogger())
	res, err := e.Evaluate(context.Background(), laptopProblem())
	require.NoError(t, err)

	rec := res.Record()
	assert.Equal(t, "Choose a laptop", rec.Mission)
	assert.Equal(t, "X1", rec.Winner)
	assert.Equal(t, res.Ranking[0].DisplayScore, rec.Score)
	require.Len(t, rec.CriteriaWeights, 2)
	assert.Equal(t, "Price", rec.CriteriaWeights[0].Name)
	assert.InDelta(t, 0.75, rec.CriteriaWeights[0].Weight, 1e-9)
}

func TestRerankAfterReweight(t *testing.T) {
	e := NewEvaluator(DefaultOptions(), nil, nil, discardLogger())
	res, err := e.Evaluate(context.Background(), laptopProblem())
	require.NoError(t, err)

	adjusted := ahp.Reweight(res.CriteriaWeights(), 1, 0.9)
	ranking := e.Rerank(res.Alternatives, adjusted, res.AlternativeWeights())
	assert.Equal(t, "y", ranking[0].ID, "battery-heavy weighting favours y")
	assert.InDelta(t, 1, ranking[0].Score+ranking[1].Score, 1e-9)
}

func TestDisplayScore(t *testing.T) {
	e := NewEvaluator(Options{ScoreScale: 100, ScorePrecision: 1}, nil, nil, discardLogger())
	assert.Equal(t, 52.4, e.DisplayScore(0.52416))
	e = NewEvaluator(Options{ScoreScale: 1, ScorePrecision: 3}, nil, nil, discardLogger())
	assert.Equal(t, 0.524, e.DisplayScore(0.52416))
}
