package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Odla19/DecissionsMaker/internal/hermes"
)

const saveRequestTimeout = 5 * time.Second

// SetupSubscriptions lets collaborators save decision summaries over the
// bus instead of HTTP. Invalid payloads are logged and dropped.
func (h *DecisionsHandler) SetupSubscriptions() error {
	if h.hermes == nil {
		return nil
	}
	return h.hermes.Subscribe(hermes.SubjectSaveRequest, h.handleSaveRequest)
}

func (h *DecisionsHandler) handleSaveRequest(subject string, data []byte) {
	var req SaveDecisionRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.logger.Warn("invalid save request", "subject", subject, "error", err)
		return
	}
	rec := req.record()
	if msg := validateRecord(rec); msg != "" {
		h.logger.Warn("rejected save request", "subject", subject, "reason", msg)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), saveRequestTimeout)
	defer cancel()
	if err := h.save(ctx, rec); err != nil {
		h.logger.Error("failed to save decision from bus", "error", err)
	}
}
