package decision

import (
	"errors"
	"fmt"

	"github.com/Odla19/DecissionsMaker/internal/ahp"
)

// Mode selects how alternatives are compared within each criterion.
type Mode string

const (
	ModePrecision Mode = "precision"
	ModeExpress   Mode = "express"
)

var (
	ErrTooFewCriteria     = errors.New("too few criteria")
	ErrTooFewAlternatives = errors.New("too few alternatives")
	ErrTooManyEntities    = errors.New("too many entities")
	ErrDuplicateID        = errors.New("duplicate entity id")
	ErrEmptyID            = errors.New("empty entity id")
	ErrUnknownMode        = errors.New("unknown comparison mode")
)

// Problem is everything a collaborator collected for one decision.
// AlternativeJudgments and Ratings are keyed by criterion ID; Ratings is
// keyed again by alternative ID.
type Problem struct {
	Mission              string                    `json:"mission" yaml:"mission"`
	Mode                 Mode                      `json:"mode" yaml:"mode"`
	Criteria             []ahp.Entity              `json:"criteria" yaml:"criteria"`
	Alternatives         []ahp.Entity              `json:"alternatives" yaml:"alternatives"`
	CriteriaJudgments    []ahp.Judgment            `json:"criteria_judgments" yaml:"criteria_judgments"`
	AlternativeJudgments map[string][]ahp.Judgment `json:"alternative_judgments,omitempty" yaml:"alternative_judgments"`
	Ratings              map[string]map[string]int `json:"ratings,omitempty" yaml:"ratings"`
}

// Limits bounds the entity counts a problem may carry.
type Limits struct {
	MinEntities int
	MaxEntities int
}

// DefaultLimits mirrors the setup screen: at least two of each.
func DefaultLimits() Limits {
	return Limits{MinEntities: 2, MaxEntities: 15}
}

// Validate checks the structural preconditions for evaluation.
func (p *Problem) Validate(l Limits) error {
	switch p.Mode {
	case "", ModePrecision, ModeExpress:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, p.Mode)
	}
	if len(p.Criteria) < l.MinEntities {
		return fmt.Errorf("%w: need %d, got %d", ErrTooFewCriteria, l.MinEntities, len(p.Criteria))
	}
	if len(p.Alternatives) < l.MinEntities {
		return fmt.Errorf("%w: need %d, got %d", ErrTooFewAlternatives, l.MinEntities, len(p.Alternatives))
	}
	if l.MaxEntities > 0 && (len(p.Criteria) > l.MaxEntities || len(p.Alternatives) > l.MaxEntities) {
		return fmt.Errorf("%w: limit is %d", ErrTooManyEntities, l.MaxEntities)
	}
	if err := uniqueIDs("criterion", p.Criteria); err != nil {
		return err
	}
	return uniqueIDs("alternative", p.Alternatives)
}

// EffectiveMode resolves the empty mode to precision.
func (p *Problem) EffectiveMode() Mode {
	if p.Mode == "" {
		return ModePrecision
	}
	return p.Mode
}

func uniqueIDs(kind string, entities []ahp.Entity) error {
	seen := make(map[string]bool, len(entities))
	for _, e := range entities {
		if e.ID == "" {
			return fmt.Errorf("%w: %s %q", ErrEmptyID, kind, e.Name)
		}
		if seen[e.ID] {
			return fmt.Errorf("%w: %s %q", ErrDuplicateID, kind, e.ID)
		}
		seen[e.ID] = true
	}
	return nil
}

// sanitized returns a copy with display strings stripped of markup.
func (p *Problem) sanitized() Problem {
	out := *p
	out.Mission = SanitizeText(p.Mission)
	out.Criteria = sanitizeEntities(p.Criteria)
	out.Alternatives = sanitizeEntities(p.Alternatives)
	return out
}

func sanitizeEntities(in []ahp.Entity) []ahp.Entity {
	out := make([]ahp.Entity, len(in))
	for i, e := range in {
		out[i] = ahp.Entity{ID: e.ID, Name: SanitizeText(e.Name)}
	}
	return out
}
