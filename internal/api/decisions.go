package api

import (
	"context"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Odla19/DecissionsMaker/internal/decision"
	"github.com/Odla19/DecissionsMaker/internal/hermes"
	"github.com/Odla19/DecissionsMaker/internal/store"
)

type DecisionsHandler struct {
	store  store.Store
	hermes hermes.Client
	logger *slog.Logger
}

func NewDecisionsHandler(s store.Store, h hermes.Client, logger *slog.Logger) *DecisionsHandler {
	return &DecisionsHandler{store: s, hermes: h, logger: logger}
}

type SaveDecisionRequest struct {
	Mission         string                  `json:"mission"`
	Winner          string                  `json:"winner"`
	Score           float64                 `json:"score"`
	CriteriaWeights []store.CriterionWeight `json:"criteria_weights"`
}

func (req SaveDecisionRequest) record() *store.DecisionRecord {
	rec := &store.DecisionRecord{
		Mission:         decision.SanitizeText(req.Mission),
		Winner:          decision.SanitizeText(req.Winner),
		Score:           req.Score,
		CriteriaWeights: make([]store.CriterionWeight, 0, len(req.CriteriaWeights)),
	}
	for _, cw := range req.CriteriaWeights {
		rec.CriteriaWeights = append(rec.CriteriaWeights, store.CriterionWeight{
			Name:   decision.SanitizeText(cw.Name),
			Weight: cw.Weight,
		})
	}
	return rec
}

// Save handles POST /api/v1/decisions
func (h *DecisionsHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveDecisionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rec := req.record()
	if msg := validateRecord(rec); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if err := h.save(r.Context(), rec); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func validateRecord(rec *store.DecisionRecord) string {
	if rec.Winner == "" {
		return "winner required"
	}
	if math.IsNaN(rec.Score) || math.IsInf(rec.Score, 0) {
		return "score must be finite"
	}
	return ""
}

func (h *DecisionsHandler) save(ctx context.Context, rec *store.DecisionRecord) error {
	if err := h.store.SaveDecision(ctx, rec); err != nil {
		return err
	}
	hermes.Emit(h.hermes, h.logger, hermes.SubjectSaved(rec.ID.String()), hermes.SavedEvent{
		DecisionID: rec.ID.String(),
		Mission:    rec.Mission,
		Winner:     rec.Winner,
		Score:      rec.Score,
	})
	return nil
}

// List handles GET /api/v1/decisions
func (h *DecisionsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, ok := parseFilter(w, r)
	if !ok {
		return
	}
	records, err := h.store.ListDecisions(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []*store.DecisionRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func parseFilter(w http.ResponseWriter, r *http.Request) (store.DecisionFilter, bool) {
	var f store.DecisionFilter
	for name, dst := range map[string]*int{"limit": &f.Limit, "offset": &f.Offset} {
		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid "+name)
			return f, false
		}
		*dst = n
	}
	return f, true
}

// Get handles GET /api/v1/decisions/{id}
func (h *DecisionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid decision id")
		return
	}
	rec, err := h.store.GetDecision(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rec == nil {
		writeError(w, http.StatusNotFound, "decision not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// Delete handles DELETE /api/v1/decisions/{id}
func (h *DecisionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid decision id")
		return
	}
	deleted, err := h.store.DeleteDecision(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "decision not found")
		return
	}
	hermes.Emit(h.hermes, h.logger, hermes.SubjectDeleted(id.String()), hermes.DeletedEvent{DecisionID: id.String()})
	w.WriteHeader(http.StatusNoContent)
}

// Insights handles GET /api/v1/decisions/insights
func (h *DecisionsHandler) Insights(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListDecisions(r.Context(), store.DecisionFilter{Limit: decision.InsightsWindow})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, decision.ComputeInsights(records))
}
