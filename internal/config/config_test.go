package config

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/trainerBot/internal/domain/models"
	"github.com/letsssgooo/trainerBot/internal/roles"
	"github.com/letsssgooo/trainerBot/internal/storage"
)

func TestLoad_EmptyStoreGetsDefaults(t *testing.T) {
	ctx := context.Background()

	svc, err := Load(ctx, storage.NewMemory())
	require.NoError(t, err)

	for _, role := range roles.All() {
		assert.NotEmpty(t, svc.OnboardingSteps(role), "onboarding for %s", role)
		assert.NotEmpty(t, svc.Questions(role), "quiz for %s", role)
		assert.NotEmpty(t, svc.Resources(role), "resources for %s", role)
	}

	// У Senior Leadership сценариев по умолчанию нет.
	assert.NotEmpty(t, svc.Scenarios(roles.Support))
	assert.NotEmpty(t, svc.Scenarios(roles.Admin))
	assert.Empty(t, svc.Scenarios(roles.SLT))
}

func TestLoad_DefaultsDoNotOverwriteSavedContent(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	saved := &models.Config{
		Quizzes: map[string][]models.QuizQuestion{
			string(roles.Support): {{Question: "custom?", Answer: "custom"}},
		},
		AnnounceChat: 123,
	}
	require.NoError(t, store.SaveConfig(ctx, saved))

	svc, err := Load(ctx, store)
	require.NoError(t, err)

	questions := svc.Questions(roles.Support)
	require.Len(t, questions, 1)
	assert.Equal(t, "custom?", questions[0].Question)

	// Остальные роли дополняются дефолтами.
	assert.NotEmpty(t, svc.Questions(roles.Admin))
	assert.Equal(t, int64(123), svc.AnnounceChat())
}

func TestUpdate_PersistsBeforeSwappingSnapshot(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()

	svc, err := Load(ctx, store)
	require.NoError(t, err)

	err = svc.Update(ctx, func(cfg *models.Config) {
		cfg.AnnounceChat = 42
	})
	require.NoError(t, err)
	assert.Equal(t, int64(42), svc.AnnounceChat())

	persisted, err := store.LoadConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(42), persisted.AnnounceChat)
}

type failingConfigStore struct {
	*storage.Memory
}

func (s *failingConfigStore) SaveConfig(ctx context.Context, cfg *models.Config) error {
	return errors.New("write failed")
}

func TestUpdate_FailedSaveKeepsOldSnapshot(t *testing.T) {
	ctx := context.Background()

	svc, err := Load(ctx, &failingConfigStore{Memory: storage.NewMemory()})
	require.NoError(t, err)

	err = svc.Update(ctx, func(cfg *models.Config) {
		cfg.AnnounceChat = 42
	})
	require.Error(t, err)
	assert.Equal(t, int64(0), svc.AnnounceChat())
}

func TestAccessors_ReturnCopies(t *testing.T) {
	ctx := context.Background()

	svc, err := Load(ctx, storage.NewMemory())
	require.NoError(t, err)

	steps := svc.OnboardingSteps(roles.Support)
	require.NotEmpty(t, steps)
	original := steps[0].Text

	steps[0].Text = "mutated"

	assert.Equal(t, original, svc.OnboardingSteps(roles.Support)[0].Text)
}
