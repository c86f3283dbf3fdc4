package hermes

import "time"

type EvaluatedEvent struct {
	Mission      string    `json:"mission,omitempty"`
	Mode         string    `json:"mode"`
	Criteria     int       `json:"criteria"`
	Alternatives int       `json:"alternatives"`
	Winner       string    `json:"winner"`
	WinnerScore  float64   `json:"winner_score"`
	IsConsistent bool      `json:"is_consistent"`
	Timestamp    time.Time `json:"timestamp"`
}

// InconsistentEvent names the comparison sets whose CR crossed the
// threshold. An empty Criterion means the criteria-vs-criteria matrix.
type InconsistentEvent struct {
	Mission   string            `json:"mission,omitempty"`
	Offenders []InconsistentSet `json:"offenders"`
	Timestamp time.Time         `json:"timestamp"`
}

type InconsistentSet struct {
	Criterion string  `json:"criterion,omitempty"`
	CR        float64 `json:"cr"`
}

type SavedEvent struct {
	DecisionID string  `json:"decision_id"`
	Mission    string  `json:"mission,omitempty"`
	Winner     string  `json:"winner"`
	Score      float64 `json:"score"`
}

type DeletedEvent struct {
	DecisionID string `json:"decision_id"`
}
