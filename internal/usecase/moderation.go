package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"ConstructionWatch/internal/domain"
	"ConstructionWatch/internal/ports"
	"ConstructionWatch/internal/workflow"
)

var (
	// ErrForbidden rejects an action the caller's role may not perform.
	ErrForbidden = errors.New("action not permitted for role")
	// ErrInvalidTransition rejects an action that is not valid from the current status.
	ErrInvalidTransition = errors.New("invalid transition")
)

// Moderation applies workflow actions to stored suggestions.
type Moderation struct {
	store  ports.SuggestionStore
	logger *slog.Logger
}

// NewModeration wires the suggestion store.
func NewModeration(store ports.SuggestionStore, logger *slog.Logger) *Moderation {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Moderation{store: store, logger: logger.With("component", "moderation")}
}

// Apply checks role permission and the transition table, then persists the
// new status only if nobody changed it in the meantime.
func (m *Moderation) Apply(ctx context.Context, id string, role workflow.Role, action workflow.Action) (domain.Suggestion, error) {
	if !workflow.CanPerformAction(role, action) {
		return domain.Suggestion{}, fmt.Errorf("%w: %s cannot %s", ErrForbidden, role, action)
	}

	s, err := m.store.GetSuggestion(ctx, id)
	if err != nil {
		return domain.Suggestion{}, fmt.Errorf("load suggestion: %w", err)
	}

	res := workflow.Transition(s.Status, action)
	if !res.Success {
		return s, fmt.Errorf("%w: %s", ErrInvalidTransition, res.Error)
	}

	if err := m.store.UpdateSuggestionStatus(ctx, id, s.Status, res.NewStatus); err != nil {
		return s, fmt.Errorf("update suggestion: %w", err)
	}

	m.logger.Info("suggestion moved", "id", id, "action", action, "from", s.Status, "to", res.NewStatus, "role", role)
	s.Status = res.NewStatus
	return s, nil
}
