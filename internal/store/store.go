package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CriterionWeight is one criterion's final weight in a saved decision.
type CriterionWeight struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// DecisionRecord is the finalised summary of a decision. The store assigns
// ID and CreatedAt on save.
type DecisionRecord struct {
	ID              uuid.UUID         `json:"id"`
	Mission         string            `json:"mission"`
	Winner          string            `json:"winner"`
	Score           float64           `json:"score"`
	CriteriaWeights []CriterionWeight `json:"criteria_weights"`
	CreatedAt       time.Time         `json:"date"`
}

// TopWeights returns up to n criterion weights in saved order.
func (d *DecisionRecord) TopWeights(n int) []CriterionWeight {
	if n >= len(d.CriteriaWeights) || n < 0 {
		return d.CriteriaWeights
	}
	return d.CriteriaWeights[:n]
}

type DecisionFilter struct {
	Limit  int
	Offset int
}

const defaultListLimit = 100

func (f DecisionFilter) limit() int {
	if f.Limit <= 0 {
		return defaultListLimit
	}
	return f.Limit
}

// Store persists decision history. Get returns (nil, nil) when the record
// does not exist; Delete reports whether a row was removed.
type Store interface {
	SaveDecision(ctx context.Context, d *DecisionRecord) error
	GetDecision(ctx context.Context, id uuid.UUID) (*DecisionRecord, error)
	ListDecisions(ctx context.Context, filter DecisionFilter) ([]*DecisionRecord, error)
	DeleteDecision(ctx context.Context, id uuid.UUID) (bool, error)

	Close() error
}
