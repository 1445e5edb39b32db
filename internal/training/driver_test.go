package training

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/trainerBot/internal/config"
	"github.com/letsssgooo/trainerBot/internal/domain/models"
	"github.com/letsssgooo/trainerBot/internal/roles"
	"github.com/letsssgooo/trainerBot/internal/storage"
)

type recordingAnnouncer struct {
	posts []string
	err   error
}

func (a *recordingAnnouncer) Post(ctx context.Context, text string) error {
	a.posts = append(a.posts, text)
	return a.err
}

func newDriver(t *testing.T) (*Driver, *storage.Memory, *recordingAnnouncer) {
	t.Helper()

	store := storage.NewMemory()
	cfg, err := config.Load(context.Background(), store)
	require.NoError(t, err)

	announcer := &recordingAnnouncer{}

	return New(store, cfg, announcer), store, announcer
}

func TestStart_EmitsFirstStep(t *testing.T) {
	ctx := context.Background()
	driver, store, _ := newDriver(t)

	payload, err := driver.Start(ctx, 1, roles.Support)
	require.NoError(t, err)
	require.NotNil(t, payload)

	assert.Contains(t, payload.Text, "Step 1/5")
	require.Len(t, payload.Options, 1)
	assert.Equal(t, NextKey, payload.Options[0].Key)

	rec, err := store.LoadUserRecord(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, rec.Training)
	assert.Equal(t, 0, rec.Training.Step)
	assert.Equal(t, string(roles.Support), rec.Training.Role)
}

func TestStart_PrerequisiteGate(t *testing.T) {
	ctx := context.Background()
	driver, _, _ := newDriver(t)

	_, err := driver.Start(ctx, 1, roles.Admin)

	var prereqErr *roles.PrerequisiteError
	require.True(t, errors.As(err, &prereqErr))
	assert.Equal(t, roles.Support, prereqErr.Missing)
}

func TestStart_NoContent(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	cfg, err := config.Load(ctx, store)
	require.NoError(t, err)

	// Пустой (но не nil) список шагов — контента нет.
	err = cfg.Update(ctx, func(c *models.Config) {
		c.Onboarding[string(roles.Support)] = []models.OnboardingStep{}
	})
	require.NoError(t, err)

	driver := New(store, cfg, nil)

	_, err = driver.Start(ctx, 1, roles.Support)
	assert.ErrorIs(t, err, ErrNoContent)
}

func TestAdvance_NoSession(t *testing.T) {
	ctx := context.Background()
	driver, store, _ := newDriver(t)

	_, err := driver.Advance(ctx, 1)
	assert.ErrorIs(t, err, ErrNoSession)

	// Фантомная сессия не должна появиться.
	rec, err := store.LoadUserRecord(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, rec.Training)
}

func TestAdvance_FullWalkCompletes(t *testing.T) {
	ctx := context.Background()
	driver, store, announcer := newDriver(t)

	_, err := driver.Start(ctx, 1, roles.Support)
	require.NoError(t, err)

	// 5 шагов: четыре промежуточных Advance и пятый завершающий.
	for i := 1; i < 5; i++ {
		payload, err := driver.Advance(ctx, 1)
		require.NoError(t, err)
		assert.Contains(t, payload.Text, "Training Step")
		require.Len(t, payload.Options, 1)
	}

	payload, err := driver.Advance(ctx, 1)
	require.NoError(t, err)
	assert.Contains(t, payload.Text, "Training complete")
	assert.Empty(t, payload.Options)

	rec, err := store.LoadUserRecord(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, rec.Training)
	assert.True(t, rec.Status[string(roles.Support)].Onboarding)
	assert.False(t, rec.Status[string(roles.Support)].Certified)

	require.Len(t, announcer.posts, 1)
	assert.Contains(t, announcer.posts[0], "Support Staff")
}

func TestAdvance_AnnouncementFailureDoesNotRollBack(t *testing.T) {
	ctx := context.Background()
	driver, store, announcer := newDriver(t)
	announcer.err = errors.New("channel unreachable")

	_, err := driver.Start(ctx, 1, roles.Support)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, err = driver.Advance(ctx, 1)
		require.NoError(t, err)
	}

	rec, err := store.LoadUserRecord(ctx, 1)
	require.NoError(t, err)
	assert.True(t, rec.Status[string(roles.Support)].Onboarding)
}

func TestAdvance_ContentRemovedMidSession(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	cfg, err := config.Load(ctx, store)
	require.NoError(t, err)

	driver := New(store, cfg, nil)

	_, err = driver.Start(ctx, 1, roles.Support)
	require.NoError(t, err)

	err = cfg.Update(ctx, func(c *models.Config) {
		c.Onboarding[string(roles.Support)] = []models.OnboardingStep{}
	})
	require.NoError(t, err)

	_, err = driver.Advance(ctx, 1)
	assert.ErrorIs(t, err, ErrNoContent)

	// Испорченная сессия удалена.
	rec, err := store.LoadUserRecord(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, rec.Training)
}

func TestStart_MediaStepCarriesMedia(t *testing.T) {
	ctx := context.Background()
	driver, _, _ := newDriver(t)

	payload, err := driver.Start(ctx, 1, roles.Support)
	require.NoError(t, err)

	assert.NotEmpty(t, payload.Media)
	assert.Equal(t, models.MediaImage, payload.MediaType)
}
