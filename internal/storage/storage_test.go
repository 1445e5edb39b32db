package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/trainerBot/internal/domain/models"
)

func TestMemory_LoadMissingUser(t *testing.T) {
	store := NewMemory()

	rec, err := store.LoadUserRecord(context.Background(), 42)
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.Empty(t, rec.Status)
	assert.Nil(t, rec.Quiz)
	assert.Nil(t, rec.Training)
}

func TestMemory_StatusRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	status := models.StatusMap{
		"support": {Onboarding: true, Quiz: true, Certified: true},
		"admin":   {Onboarding: true},
	}

	err := store.SaveUserRecord(ctx, 1, UserPatch{Status: &status})
	require.NoError(t, err)

	rec, err := store.LoadUserRecord(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, status, rec.Status)
}

func TestMemory_PatchSkipsUnsetFields(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	err := store.SaveUserRecord(ctx, 1, UserPatch{
		SetQuiz: true,
		Quiz:    &models.QuizProgress{Role: "support", Question: 2, Correct: 1},
	})
	require.NoError(t, err)

	// Патч только статуса не должен трогать прогресс квиза.
	status := models.StatusMap{"support": {Onboarding: true}}
	err = store.SaveUserRecord(ctx, 1, UserPatch{Status: &status})
	require.NoError(t, err)

	rec, err := store.LoadUserRecord(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, rec.Quiz)
	assert.Equal(t, 2, rec.Quiz.Question)
	assert.Equal(t, status, rec.Status)
}

func TestMemory_PatchNilClearsField(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	err := store.SaveUserRecord(ctx, 1, UserPatch{
		SetTraining: true,
		Training:    &models.TrainingProgress{Role: "support", Step: 3},
	})
	require.NoError(t, err)

	err = store.SaveUserRecord(ctx, 1, UserPatch{SetTraining: true, Training: nil})
	require.NoError(t, err)

	rec, err := store.LoadUserRecord(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, rec.Training)
}

func TestMemory_LoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	status := models.StatusMap{"support": {Certified: true}}
	require.NoError(t, store.SaveUserRecord(ctx, 1, UserPatch{Status: &status}))

	rec, err := store.LoadUserRecord(ctx, 1)
	require.NoError(t, err)

	rec.Status["support"] = models.RoleStatus{}

	fresh, err := store.LoadUserRecord(ctx, 1)
	require.NoError(t, err)
	assert.True(t, fresh.Status["support"].Certified)
}

func TestMemory_UserStatuses(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	status := models.StatusMap{"support": {Certified: true}}
	require.NoError(t, store.SaveUserRecord(ctx, 1, UserPatch{Status: &status}))

	// Пользователь только с прогрессом квиза в выборку не попадает.
	require.NoError(t, store.SaveUserRecord(ctx, 2, UserPatch{
		SetQuiz: true,
		Quiz:    &models.QuizProgress{Role: "support"},
	}))

	statuses, err := store.UserStatuses(ctx)
	require.NoError(t, err)
	require.Len(t, statuses, 1)
	assert.True(t, statuses[1]["support"].Certified)
}

func TestMemory_ConfigRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory()

	missing, err := store.LoadConfig(ctx)
	require.NoError(t, err)
	assert.Nil(t, missing)

	cfg := &models.Config{
		Quizzes: map[string][]models.QuizQuestion{
			"support": {{Question: "q", Answer: "a"}},
		},
		AnnounceChat: 77,
	}
	require.NoError(t, store.SaveConfig(ctx, cfg))

	loaded, err := store.LoadConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

// failingStorage падает на всех записях.
type failingStorage struct {
	*Memory
	err error
}

func (s *failingStorage) SaveUserRecord(ctx context.Context, userID int64, patch UserPatch) error {
	return s.err
}

func (s *failingStorage) SaveConfig(ctx context.Context, cfg *models.Config) error {
	return s.err
}

func TestCached_ReadThrough(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()

	status := models.StatusMap{"support": {Certified: true}}
	require.NoError(t, inner.SaveUserRecord(ctx, 5, UserPatch{Status: &status}))

	cached := NewCached(inner)

	rec, err := cached.LoadUserRecord(ctx, 5)
	require.NoError(t, err)
	assert.True(t, rec.Status["support"].Certified)
}

func TestCached_WriteThrough(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()
	cached := NewCached(inner)

	_, err := cached.LoadUserRecord(ctx, 5)
	require.NoError(t, err)

	status := models.StatusMap{"admin": {Quiz: true}}
	require.NoError(t, cached.SaveUserRecord(ctx, 5, UserPatch{Status: &status}))

	// Запись должна дойти до нижележащего хранилища, не только до кэша.
	rec, err := inner.LoadUserRecord(ctx, 5)
	require.NoError(t, err)
	assert.True(t, rec.Status["admin"].Quiz)
}

func TestCached_FailedWriteDoesNotTouchCache(t *testing.T) {
	ctx := context.Background()
	inner := &failingStorage{Memory: NewMemory(), err: errors.New("connection lost")}
	cached := NewCached(inner)

	_, err := cached.LoadUserRecord(ctx, 9)
	require.NoError(t, err)

	status := models.StatusMap{"support": {Certified: true}}
	err = cached.SaveUserRecord(ctx, 9, UserPatch{Status: &status})
	require.Error(t, err)

	rec, err := cached.LoadUserRecord(ctx, 9)
	require.NoError(t, err)
	assert.False(t, rec.Status["support"].Certified)
}

func TestCached_ConfigFailedWriteKeepsOldSnapshot(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()
	require.NoError(t, inner.SaveConfig(ctx, &models.Config{AnnounceChat: 1}))

	failing := &failingStorage{Memory: inner, err: errors.New("connection lost")}
	cached := NewCached(failing)

	cfg, err := cached.LoadConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), cfg.AnnounceChat)

	err = cached.SaveConfig(ctx, &models.Config{AnnounceChat: 2})
	require.Error(t, err)

	cfg, err = cached.LoadConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), cfg.AnnounceChat)
}
