package vacancy

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/letsssgooo/trainerBot/internal/config"
	"github.com/letsssgooo/trainerBot/internal/domain/models"
	"github.com/letsssgooo/trainerBot/internal/storage"
)

func newService(t *testing.T) (*Service, storage.Storage) {
	t.Helper()

	store := storage.NewMemory()
	cfg, err := config.Load(context.Background(), store)
	require.NoError(t, err)

	return New(cfg), store
}

func addPosition(t *testing.T, s *Service, input Input) models.Position {
	t.Helper()

	position, err := s.Add(context.Background(), 42, input)
	require.NoError(t, err)

	return position
}

func TestAdd_CreatesActivePosition(t *testing.T) {
	ctx := context.Background()
	service, store := newService(t)

	position := addPosition(t, service, Input{
		Title:        "Support Lead",
		Department:   "Support",
		Description:  "Lead the support team",
		Requirements: []string{"1 year experience"},
		Type:         "full-time",
		Location:     "remote",
	})

	assert.NotEmpty(t, position.ID)
	assert.Equal(t, models.PositionActive, position.Status)
	assert.Equal(t, int64(42), position.CreatedBy)
	assert.False(t, position.CreatedAt.IsZero())

	// Вакансия сохранена, а не только закеширована.
	saved, err := store.LoadConfig(ctx)
	require.NoError(t, err)
	assert.Contains(t, saved.Vacancies.Positions, position.ID)
}

func TestGet_NotFound(t *testing.T) {
	service, _ := newService(t)

	_, err := service.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEdit_PartialUpdate(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)

	position := addPosition(t, service, Input{Title: "Moderator", Department: "Community"})

	salary := "$10/h"
	closed := models.PositionClosed
	edited, err := service.Edit(ctx, position.ID, Update{Salary: &salary, Status: &closed})
	require.NoError(t, err)

	assert.Equal(t, "Moderator", edited.Title)
	assert.Equal(t, "$10/h", edited.Salary)
	assert.Equal(t, models.PositionClosed, edited.Status)
}

func TestEdit_NotFound(t *testing.T) {
	service, _ := newService(t)

	title := "x"
	_, err := service.Edit(context.Background(), "missing", Update{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_RemovesPositionAndApplications(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)

	position := addPosition(t, service, Input{Title: "Moderator"})
	require.NoError(t, service.Apply(ctx, position.ID, 7, "hi"))

	require.NoError(t, service.Delete(ctx, position.ID))

	_, err := service.Get(position.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, service.Applications(position.ID))

	assert.ErrorIs(t, service.Delete(ctx, position.ID), ErrNotFound)
}

func TestApply_RecordsAndRejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)

	position := addPosition(t, service, Input{Title: "Moderator"})

	require.NoError(t, service.Apply(ctx, position.ID, 7, "first"))
	assert.ErrorIs(t, service.Apply(ctx, position.ID, 7, "second"), ErrAlreadyApplied)

	apps := service.Applications(position.ID)
	require.Len(t, apps, 1)
	assert.Equal(t, int64(7), apps[0].UserID)
	assert.Equal(t, "first", apps[0].Message)
}

func TestApply_ClosedPositionNotFound(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)

	position := addPosition(t, service, Input{Title: "Moderator"})

	closed := models.PositionClosed
	_, err := service.Edit(ctx, position.ID, Update{Status: &closed})
	require.NoError(t, err)

	assert.ErrorIs(t, service.Apply(ctx, position.ID, 7, "hi"), ErrNotFound)
}

func TestList_FiltersAndSortsNewestFirst(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)

	first := addPosition(t, service, Input{Title: "Old", Department: "Support", Type: "full-time", Location: "remote"})
	second := addPosition(t, service, Input{Title: "New", Department: "Support Ops", Type: "part-time", Location: "remote"})
	addPosition(t, service, Input{Title: "Other", Department: "Design", Type: "full-time", Location: "office"})

	// Сортировка детерминирована разными метками времени.
	older := first.CreatedAt.Add(-time.Hour)
	err := service.cfg.Update(ctx, func(cfg *models.Config) {
		p := cfg.Vacancies.Positions[first.ID]
		p.CreatedAt = older
		cfg.Vacancies.Positions[first.ID] = p
	})
	require.NoError(t, err)

	page, err := service.List(Filter{Department: "support"}, 1)
	require.NoError(t, err)

	require.Len(t, page.Positions, 2)
	assert.Equal(t, second.ID, page.Positions[0].ID)
	assert.Equal(t, first.ID, page.Positions[1].ID)
	assert.Equal(t, 2, page.Total)
	assert.Equal(t, 1, page.Pages)

	page, err = service.List(Filter{Type: "FULL-TIME", Location: "remote"}, 1)
	require.NoError(t, err)
	require.Len(t, page.Positions, 1)
	assert.Equal(t, first.ID, page.Positions[0].ID)
}

func TestList_ExcludesClosed(t *testing.T) {
	ctx := context.Background()
	service, _ := newService(t)

	position := addPosition(t, service, Input{Title: "Moderator"})

	closed := models.PositionClosed
	_, err := service.Edit(ctx, position.ID, Update{Status: &closed})
	require.NoError(t, err)

	page, err := service.List(Filter{}, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Positions)
	assert.Zero(t, page.Total)
}

func TestList_Pagination(t *testing.T) {
	service, _ := newService(t)

	for i := 0; i < PerPage+2; i++ {
		addPosition(t, service, Input{Title: "Role"})
	}

	page, err := service.List(Filter{}, 1)
	require.NoError(t, err)
	assert.Len(t, page.Positions, PerPage)
	assert.Equal(t, 2, page.Pages)
	assert.Equal(t, PerPage+2, page.Total)

	page, err = service.List(Filter{}, 2)
	require.NoError(t, err)
	assert.Len(t, page.Positions, 2)

	_, err = service.List(Filter{}, 3)
	assert.ErrorIs(t, err, ErrInvalidPage)

	_, err = service.List(Filter{}, 0)
	assert.ErrorIs(t, err, ErrInvalidPage)
}

func TestList_EmptyIsSingleEmptyPage(t *testing.T) {
	service, _ := newService(t)

	page, err := service.List(Filter{}, 1)
	require.NoError(t, err)
	assert.Empty(t, page.Positions)
	assert.Equal(t, 1, page.Pages)
}

func TestAnnouncement_ContainsKeyFields(t *testing.T) {
	text := Announcement(models.Position{
		ID:           "abc",
		Title:        "Support Lead",
		Department:   "Support",
		Type:         "full-time",
		Location:     "remote",
		Salary:       "$10/h",
		Description:  "Lead the team",
		Requirements: []string{"experience"},
		Deadline:     "2026-09-30",
	})

	assert.Contains(t, text, "Support Lead")
	assert.Contains(t, text, "$10/h")
	assert.Contains(t, text, "• experience")
	assert.Contains(t, text, "/vacancies apply abc")
}
