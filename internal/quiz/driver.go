package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/letsssgooo/trainerBot/internal/certify"
	"github.com/letsssgooo/trainerBot/internal/config"
	"github.com/letsssgooo/trainerBot/internal/domain/models"
	"github.com/letsssgooo/trainerBot/internal/roles"
	"github.com/letsssgooo/trainerBot/internal/storage"
)

// Ошибки драйвера квиза.
var (
	ErrNoQuiz    = errors.New("no quiz configured for role")
	ErrNoSession = errors.New("no active quiz session")
)

// Mode определяет вариант входа в квиз.
type Mode int

const (
	// ModeFresh — обычный старт с проверкой пререквизитов.
	ModeFresh Mode = iota
	// ModeRetake — пересдача: прогресс сбрасывается, пререквизиты не
	// проверяются. Осознанный шорткат, а не упущение.
	ModeRetake
)

// Announcer публикует объявление в общий канал.
type Announcer interface {
	Post(ctx context.Context, text string) error
}

// Granter выдаёт знак сертификации после сдачи.
type Granter interface {
	Grant(ctx context.Context, userID int64) certify.Outcome
}

// Driver проводит пользователя по вопросам квиза роли:
// NotStarted -> InProgress(q, correct) -> Passed|Failed.
type Driver struct {
	store    storage.Storage
	cfg      *config.Service
	announce Announcer
	granter  Granter
}

// New создаёт драйвер квиза. announce и granter могут быть nil.
func New(store storage.Storage, cfg *config.Service, announce Announcer, granter Granter) *Driver {
	return &Driver{store: store, cfg: cfg, announce: announce, granter: granter}
}

// Start начинает квиз с полной валидацией.
func (d *Driver) Start(ctx context.Context, userID int64, role roles.Role) (*models.Payload, error) {
	return d.Begin(ctx, userID, role, ModeFresh)
}

// Retake перезапускает квиз, минуя проверку пререквизитов.
func (d *Driver) Retake(ctx context.Context, userID int64, role roles.Role) (*models.Payload, error) {
	return d.Begin(ctx, userID, role, ModeRetake)
}

// Begin — единая точка входа в квиз. Валидация параметризована режимом:
// ModeFresh проверяет пререквизиты, ModeRetake их пропускает. Наличие
// вопросов проверяется в обоих режимах, иначе нечего задавать.
func (d *Driver) Begin(ctx context.Context, userID int64, role roles.Role, mode Mode) (*models.Payload, error) {
	questions := d.cfg.Questions(role)
	if len(questions) == 0 {
		return nil, ErrNoQuiz
	}

	if mode == ModeFresh {
		rec, err := d.store.LoadUserRecord(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to load record of user %d: %w", userID, err)
		}

		if err := roles.Check(role, rec.Status); err != nil {
			return nil, err
		}
	}

	progress := &models.QuizProgress{Role: string(role), Question: 0, Correct: 0}
	err := d.store.SaveUserRecord(ctx, userID, storage.UserPatch{
		SetQuiz: true,
		Quiz:    progress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save quiz progress of user %d: %w", userID, err)
	}

	return questionPayload(role, questions, 0), nil
}

// Submit обрабатывает ответ на текущий вопрос. После последнего вопроса
// подводит итог: сдано только при всех верных ответах; несдача снимает
// сертификацию, даже выданную ранее.
func (d *Driver) Submit(ctx context.Context, userID int64, answer string) (*models.Payload, error) {
	rec, err := d.store.LoadUserRecord(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load record of user %d: %w", userID, err)
	}

	if rec.Quiz == nil {
		return nil, ErrNoSession
	}

	role, ok := roles.Parse(rec.Quiz.Role)
	if !ok {
		return nil, d.abort(ctx, userID, rec.Quiz.Role)
	}

	questions := d.cfg.Questions(role)
	if len(questions) == 0 || rec.Quiz.Question >= len(questions) {
		return nil, d.abort(ctx, userID, rec.Quiz.Role)
	}

	question := questions[rec.Quiz.Question]
	correct := Matches(answer, question.Answer)

	feedback := "✅ Correct!"
	if !correct {
		feedback = fmt.Sprintf("❌ Incorrect. The correct answer was: **%s**", question.Answer)
	}

	progress := *rec.Quiz
	if correct {
		progress.Correct++
	}
	progress.Question++

	if progress.Question < len(questions) {
		err = d.store.SaveUserRecord(ctx, userID, storage.UserPatch{
			SetQuiz: true,
			Quiz:    &progress,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to save quiz progress of user %d: %w", userID, err)
		}

		next := questionPayload(role, questions, progress.Question)
		next.Text = feedback + "\n\n" + next.Text

		return next, nil
	}

	return d.finish(ctx, userID, rec.Status, role, progress, len(questions), feedback)
}

// finish завершает квиз: обновляет статус, удаляет прогресс и формирует итог.
func (d *Driver) finish(
	ctx context.Context,
	userID int64,
	current models.StatusMap,
	role roles.Role,
	progress models.QuizProgress,
	total int,
	feedback string,
) (*models.Payload, error) {
	passed := progress.Correct == total

	status := current.Clone()
	if status == nil {
		status = models.StatusMap{}
	}
	roleStatus := status[string(role)]
	roleStatus.Quiz = passed
	roleStatus.Certified = passed
	status[string(role)] = roleStatus

	err := d.store.SaveUserRecord(ctx, userID, storage.UserPatch{
		Status:  &status,
		SetQuiz: true,
		Quiz:    nil,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save status of user %d: %w", userID, err)
	}

	if !passed {
		return &models.Payload{
			Text: fmt.Sprintf(
				"%s\n\nYou got %d/%d correct. Try again with /retake %s.",
				feedback, progress.Correct, total, role,
			),
		}, nil
	}

	if d.announce != nil {
		text := fmt.Sprintf(
			"🏅 **Certification Achieved!** A member has passed the **%s** quiz and is now certified!",
			role.Name(),
		)
		if err := d.announce.Post(ctx, text); err != nil {
			slog.Error("failed to post certification announcement",
				"user_id", userID, "role", role, "op", "submit", "err", err)
		}
	}

	outcome := certify.Unavailable
	if d.granter != nil {
		outcome = d.granter.Grant(ctx, userID)
	}

	return &models.Payload{
		Text: fmt.Sprintf(
			"%s\n\n🎉 You passed the **%s** quiz! You are now certified.\n%s",
			feedback, role.Name(), certify.FollowUp(outcome),
		),
	}, nil
}

// abort удаляет испорченную сессию и возвращает ErrNoQuiz.
func (d *Driver) abort(ctx context.Context, userID int64, role string) error {
	err := d.store.SaveUserRecord(ctx, userID, storage.UserPatch{
		SetQuiz: true,
		Quiz:    nil,
	})
	if err != nil {
		slog.Error("failed to clear broken quiz session",
			"user_id", userID, "role", role, "op", "submit", "err", err)
	}

	return ErrNoQuiz
}

// Matches сравнивает ответ пользователя с ожидаемым: оба нормализуются
// (trim, lower), совпадением считается вхождение одной строки в другую.
// Намеренно мягкое правило, не точное равенство.
func Matches(answer, expected string) bool {
	got := strings.ToLower(strings.TrimSpace(answer))
	want := strings.ToLower(strings.TrimSpace(expected))

	return strings.Contains(got, want) || strings.Contains(want, got)
}

// questionPayload собирает сообщение одного вопроса.
func questionPayload(role roles.Role, questions []models.QuizQuestion, index int) *models.Payload {
	return &models.Payload{
		Text: fmt.Sprintf(
			"**%s Quiz Question %d/%d:**\n%s\n\nPlease type your answer in the chat.",
			role.Name(), index+1, len(questions), questions[index].Question,
		),
	}
}
