package api

import (
	"errors"
	"net/http"

	"github.com/Odla19/DecissionsMaker/internal/ahp"
	"github.com/Odla19/DecissionsMaker/internal/decision"
)

// EngineHandler exposes the AHP computations. None of its endpoints touch
// storage.
type EngineHandler struct {
	evaluator *decision.Evaluator
}

func NewEngineHandler(e *decision.Evaluator) *EngineHandler {
	return &EngineHandler{evaluator: e}
}

// Evaluate handles POST /api/v1/evaluate
func (h *EngineHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	var p decision.Problem
	if !decodeJSON(w, r, &p) {
		return
	}
	res, err := h.evaluator.Evaluate(r.Context(), &p)
	if err != nil {
		writeError(w, statusForEvaluate(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func statusForEvaluate(err error) int {
	for _, target := range []error{
		decision.ErrTooFewCriteria, decision.ErrTooFewAlternatives, decision.ErrTooManyEntities,
		decision.ErrDuplicateID, decision.ErrEmptyID, decision.ErrUnknownMode,
	} {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

type MatrixRequest struct {
	Entities  []ahp.Entity   `json:"entities"`
	Judgments []ahp.Judgment `json:"judgments"`
}

type MatrixResponse struct {
	Matrix      ahp.Matrix      `json:"matrix"`
	Priorities  []float64       `json:"priorities"`
	Consistency ahp.Consistency `json:"consistency"`
}

// Matrix handles POST /api/v1/matrix
func (h *EngineHandler) Matrix(w http.ResponseWriter, r *http.Request) {
	var req MatrixRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.withinLimit(w, len(req.Entities)) {
		return
	}
	m := ahp.BuildMatrix(req.Entities, req.Judgments)
	p := ahp.EstimatePriorities(m)
	writeJSON(w, http.StatusOK, MatrixResponse{
		Matrix:      m,
		Priorities:  p,
		Consistency: ahp.EvaluateConsistency(m, p),
	})
}

func (h *EngineHandler) withinLimit(w http.ResponseWriter, n int) bool {
	if limit := h.evaluator.Limits().MaxEntities; limit > 0 && n > limit {
		writeError(w, http.StatusBadRequest, "too many entities")
		return false
	}
	return true
}

type ExpressRequest struct {
	Entities []ahp.Entity   `json:"entities"`
	Ratings  map[string]int `json:"ratings"`
}

type ExpressResponse struct {
	Priorities  []float64       `json:"priorities"`
	Consistency ahp.Consistency `json:"consistency"`
}

// Express handles POST /api/v1/express
func (h *EngineHandler) Express(w http.ResponseWriter, r *http.Request) {
	var req ExpressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !h.withinLimit(w, len(req.Entities)) {
		return
	}
	p, c := ahp.StarsToWeights(req.Ratings, req.Entities)
	writeJSON(w, http.StatusOK, ExpressResponse{Priorities: p, Consistency: c})
}

type ReweightRequest struct {
	Weights []float64 `json:"weights"`
	Index   int       `json:"index"`
	Value   float64   `json:"value"`
}

func (req ReweightRequest) validate() string {
	if req.Index < 0 || req.Index >= len(req.Weights) {
		return "index out of range"
	}
	return ""
}

// Reweight handles POST /api/v1/reweight
func (h *EngineHandler) Reweight(w http.ResponseWriter, r *http.Request) {
	var req ReweightRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]float64{
		"weights": ahp.Reweight(req.Weights, req.Index, req.Value),
	})
}

type SensitivityRequest struct {
	Alternatives       []ahp.Entity `json:"alternatives"`
	CriteriaWeights    []float64    `json:"criteria_weights"`
	AlternativeWeights [][]float64  `json:"alternative_weights"`
	Index              int          `json:"index"`
	Value              float64      `json:"value"`
}

type SensitivityResponse struct {
	Weights []float64                    `json:"weights"`
	Ranking []decision.ScoredAlternative `json:"ranking"`
}

// Sensitivity handles POST /api/v1/sensitivity. The caller keeps the
// adjusted state; nothing is stored server side.
func (h *EngineHandler) Sensitivity(w http.ResponseWriter, r *http.Request) {
	var req SensitivityRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rw := ReweightRequest{Weights: req.CriteriaWeights, Index: req.Index, Value: req.Value}
	if msg := rw.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if len(req.AlternativeWeights) != len(req.CriteriaWeights) {
		writeError(w, http.StatusBadRequest, "alternative_weights must have one vector per criterion")
		return
	}
	adjusted := ahp.Reweight(req.CriteriaWeights, req.Index, req.Value)
	writeJSON(w, http.StatusOK, SensitivityResponse{
		Weights: adjusted,
		Ranking: h.evaluator.Rerank(req.Alternatives, adjusted, req.AlternativeWeights),
	})
}
