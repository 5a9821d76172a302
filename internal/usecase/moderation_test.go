package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ConstructionWatch/internal/domain"
	"ConstructionWatch/internal/infrastructure/storage"
	"ConstructionWatch/internal/ports"
	"ConstructionWatch/internal/workflow"
)

func seedSuggestion(t *testing.T, store *storage.MemoryStore) domain.Suggestion {
	t.Helper()
	s, err := store.CreateSuggestion(context.Background(), domain.NewSuggestion{
		Type:         domain.SuggestionCreate,
		Status:       domain.StatusPending,
		ProposedData: domain.ProposedData{Name: "Metro số 2"},
		ContentHash:  "h1",
	})
	require.NoError(t, err)
	return s
}

func TestModerationHappyPath(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := storage.NewMemoryStore()
	s := seedSuggestion(t, store)
	m := NewModeration(store, nil)

	steps := []struct {
		role   workflow.Role
		action workflow.Action
		want   domain.SuggestionStatus
	}{
		{workflow.RoleModerator, workflow.ActionStartReview, domain.StatusUnderReview},
		{workflow.RoleModerator, workflow.ActionRequestChanges, domain.StatusChangesRequested},
		{workflow.RoleContributor, workflow.ActionResubmit, domain.StatusUnderReview},
		{workflow.RoleAdmin, workflow.ActionApprove, domain.StatusApproved},
		{workflow.RoleAdmin, workflow.ActionMerge, domain.StatusMerged},
	}
	for _, step := range steps {
		got, err := m.Apply(ctx, s.ID, step.role, step.action)
		require.NoError(t, err, "%s by %s", step.action, step.role)
		assert.Equal(t, step.want, got.Status)
	}

	stored, err := store.GetSuggestion(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusMerged, stored.Status)
}

func TestModerationForbidden(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	s := seedSuggestion(t, store)

	_, err := NewModeration(store, nil).Apply(context.Background(), s.ID, workflow.RoleContributor, workflow.ActionStartReview)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = NewModeration(store, nil).Apply(context.Background(), s.ID, workflow.Role(""), workflow.ActionResubmit)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestModerationInvalidTransition(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	s := seedSuggestion(t, store)

	got, err := NewModeration(store, nil).Apply(context.Background(), s.ID, workflow.RoleAdmin, workflow.ActionMerge)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "Pending")
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestModerationNotFound(t *testing.T) {
	t.Parallel()

	_, err := NewModeration(storage.NewMemoryStore(), nil).Apply(context.Background(), "nope", workflow.RoleAdmin, workflow.ActionStartReview)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

// staleStore serves a snapshot taken before another moderator acted.
type staleStore struct {
	*storage.MemoryStore
	snapshot domain.Suggestion
}

func (s staleStore) GetSuggestion(context.Context, string) (domain.Suggestion, error) {
	return s.snapshot, nil
}

func TestModerationConflict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mem := storage.NewMemoryStore()
	s := seedSuggestion(t, mem)
	require.NoError(t, mem.UpdateSuggestionStatus(ctx, s.ID, domain.StatusPending, domain.StatusUnderReview))

	_, err := NewModeration(staleStore{MemoryStore: mem, snapshot: s}, nil).
		Apply(ctx, s.ID, workflow.RoleModerator, workflow.ActionStartReview)
	assert.ErrorIs(t, err, ports.ErrStatusConflict)
}
