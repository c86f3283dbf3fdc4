package hermes

const (
	// SubjectSaveRequest carries decision summaries from collaborators that
	// want them persisted without calling the HTTP API.
	SubjectSaveRequest = "decisions.save.request"

	StreamName   = "DECISION_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectEvaluated() string    { return "decisions.evaluated" }
func SubjectInconsistent() string { return "decisions.inconsistent" }

func SubjectSaved(decisionID string) string   { return "decisions." + decisionID + ".saved" }
func SubjectDeleted(decisionID string) string { return "decisions." + decisionID + ".deleted" }
