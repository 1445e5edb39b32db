package training

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/letsssgooo/trainerBot/internal/config"
	"github.com/letsssgooo/trainerBot/internal/domain/models"
	"github.com/letsssgooo/trainerBot/internal/roles"
	"github.com/letsssgooo/trainerBot/internal/storage"
)

// Ошибки драйвера онбординга.
var (
	ErrNoContent = errors.New("no onboarding steps configured for role")
	ErrNoSession = errors.New("no active training session")
)

// Ключ кнопки продолжения в payload.
const NextKey = "onboarding_next"

// Косметические строки, одна случайная добавляется к каждому шагу.
var flavorLines = []string{
	"Motivation: every great team starts with great training! 💪",
	"Tip: use /help to see all available commands.",
	"Reminder: your progress is saved, you can always continue later.",
}

// Announcer публикует объявление в общий канал. Ошибка доставки не влияет
// на состояние драйвера.
type Announcer interface {
	Post(ctx context.Context, text string) error
}

// Driver проводит пользователя по шагам онбординга роли:
// NotStarted -> InProgress(step) -> Completed.
type Driver struct {
	store    storage.Storage
	cfg      *config.Service
	announce Announcer
}

// New создаёт драйвер онбординга. announce может быть nil.
func New(store storage.Storage, cfg *config.Service, announce Announcer) *Driver {
	return &Driver{store: store, cfg: cfg, announce: announce}
}

// Start начинает онбординг роли: проверяет пререквизиты и наличие контента,
// сохраняет прогресс {role, step 0} и возвращает нулевой шаг.
func (d *Driver) Start(ctx context.Context, userID int64, role roles.Role) (*models.Payload, error) {
	rec, err := d.store.LoadUserRecord(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load record of user %d: %w", userID, err)
	}

	if err := roles.Check(role, rec.Status); err != nil {
		return nil, err
	}

	steps := d.cfg.OnboardingSteps(role)
	if len(steps) == 0 {
		return nil, ErrNoContent
	}

	progress := &models.TrainingProgress{Role: string(role), Step: 0}
	err = d.store.SaveUserRecord(ctx, userID, storage.UserPatch{
		SetTraining: true,
		Training:    progress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save training progress of user %d: %w", userID, err)
	}

	return stepPayload(role, steps, 0), nil
}

// Advance переходит к следующему шагу активной сессии. На последнем шаге
// выставляет флаг онбординга, удаляет прогресс и публикует объявление
// (best effort).
func (d *Driver) Advance(ctx context.Context, userID int64) (*models.Payload, error) {
	rec, err := d.store.LoadUserRecord(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load record of user %d: %w", userID, err)
	}

	if rec.Training == nil {
		return nil, ErrNoSession
	}

	role, ok := roles.Parse(rec.Training.Role)
	if !ok {
		// Роль исчезла из конфигурации — сессия более не валидна.
		return nil, d.abort(ctx, userID, rec.Training.Role)
	}

	steps := d.cfg.OnboardingSteps(role)
	if len(steps) == 0 {
		return nil, d.abort(ctx, userID, rec.Training.Role)
	}

	next := rec.Training.Step + 1
	if next < len(steps) {
		progress := &models.TrainingProgress{Role: string(role), Step: next}
		err = d.store.SaveUserRecord(ctx, userID, storage.UserPatch{
			SetTraining: true,
			Training:    progress,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save training progress of user %d: %w", userID, err)
		}

		return stepPayload(role, steps, next), nil
	}

	// Завершение: сначала долговременная запись, затем объявление.
	status := rec.Status.Clone()
	if status == nil {
		status = models.StatusMap{}
	}
	roleStatus := status[string(role)]
	roleStatus.Onboarding = true
	status[string(role)] = roleStatus

	err = d.store.SaveUserRecord(ctx, userID, storage.UserPatch{
		Status:      &status,
		SetTraining: true,
		Training:    nil,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save status of user %d: %w", userID, err)
	}

	if d.announce != nil {
		text := fmt.Sprintf(
			"🎉 **Training Complete!** A member has completed the **%s** onboarding training!",
			role.Name(),
		)
		if err := d.announce.Post(ctx, text); err != nil {
			slog.Error("failed to post training announcement",
				"user_id", userID, "role", role, "op", "advance", "err", err)
		}
	}

	return &models.Payload{
		Text: fmt.Sprintf("🎉 Training complete for **%s**! Great job!", role.Name()),
	}, nil
}

// abort удаляет испорченную сессию и возвращает ErrNoContent.
func (d *Driver) abort(ctx context.Context, userID int64, role string) error {
	err := d.store.SaveUserRecord(ctx, userID, storage.UserPatch{
		SetTraining: true,
		Training:    nil,
	})
	if err != nil {
		slog.Error("failed to clear broken training session",
			"user_id", userID, "role", role, "op", "advance", "err", err)
	}

	return ErrNoContent
}

// stepPayload собирает сообщение одного шага с кнопкой продолжения.
func stepPayload(role roles.Role, steps []models.OnboardingStep, index int) *models.Payload {
	step := steps[index]
	flavor := flavorLines[rand.Intn(len(flavorLines))]

	return &models.Payload{
		Text: fmt.Sprintf(
			"**%s Training Step %d/%d:**\n%s\n\n_%s_",
			role.Name(), index+1, len(steps), step.Text, flavor,
		),
		Media:     step.Media,
		MediaType: step.MediaType,
		Options:   []models.Option{{Key: NextKey, Label: "Next"}},
	}
}
