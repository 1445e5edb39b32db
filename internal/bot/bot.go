package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/letsssgooo/trainerBot/internal/client"
	"github.com/letsssgooo/trainerBot/internal/config"
	"github.com/letsssgooo/trainerBot/internal/domain/models"
	"github.com/letsssgooo/trainerBot/internal/quiz"
	"github.com/letsssgooo/trainerBot/internal/roles"
	"github.com/letsssgooo/trainerBot/internal/scenario"
	"github.com/letsssgooo/trainerBot/internal/storage"
	"github.com/letsssgooo/trainerBot/internal/training"
	"github.com/letsssgooo/trainerBot/internal/vacancy"
)

// Bot связывает Telegram с драйверами обучения. Каждое обновление
// обрабатывается в своей горутине; шаги одного пользователя сериализуются
// мьютексом по его идентификатору, чтобы два параллельных апдейта не
// прочитали один и тот же прогресс.
type Bot struct {
	client    client.Client
	store     storage.Storage
	cfg       *config.Service
	training  *training.Driver
	quiz      *quiz.Driver
	scenarios *scenario.Driver
	vacancies *vacancy.Service

	admins      map[int64]bool
	pollTimeout int

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

// Deps — зависимости бота.
type Deps struct {
	Client    client.Client
	Store     storage.Storage
	Config    *config.Service
	Training  *training.Driver
	Quiz      *quiz.Driver
	Scenarios *scenario.Driver
	Vacancies *vacancy.Service

	Admins      []int64
	PollTimeout int
}

// New создаёт бота.
func New(deps Deps) *Bot {
	admins := make(map[int64]bool, len(deps.Admins))
	for _, id := range deps.Admins {
		admins[id] = true
	}

	pollTimeout := deps.PollTimeout
	if pollTimeout <= 0 {
		pollTimeout = 30
	}

	return &Bot{
		client:      deps.Client,
		store:       deps.Store,
		cfg:         deps.Config,
		training:    deps.Training,
		quiz:        deps.Quiz,
		scenarios:   deps.Scenarios,
		vacancies:   deps.Vacancies,
		admins:      admins,
		pollTimeout: pollTimeout,
		userLocks:   make(map[int64]*sync.Mutex),
	}
}

// Run запускает long polling до отмены контекста.
func (b *Bot) Run(ctx context.Context) error {
	offset := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		updates, err := b.client.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			slog.Error("failed to get updates", "op", "run", "err", err)
			time.Sleep(time.Second)
			continue
		}

		for _, update := range updates {
			offset = update.UpdateID + 1

			go b.handleUpdate(ctx, update)
		}
	}
}

// handleUpdate обрабатывает одно обновление. Паника внутри обработчика
// не роняет процесс.
func (b *Bot) handleUpdate(ctx context.Context, update client.Update) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in update handler", "op", "handle_update", "panic", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.From != nil && update.Message.Chat != nil:
		b.handleMessage(ctx, update.Message)
	}
}

// handleMessage маршрутизирует входящее сообщение: команда либо текстовый
// ответ на вопрос активного квиза.
func (b *Bot) handleMessage(ctx context.Context, message *client.Message) {
	userID := message.From.ID
	chatID := message.Chat.ID
	text := strings.TrimSpace(message.Text)

	unlock := b.lockUser(userID)
	defer unlock()

	if strings.HasPrefix(text, "/") {
		b.handleCommand(ctx, chatID, userID, text)
		return
	}

	if text == "" {
		return
	}

	payload, err := b.quiz.Submit(ctx, userID, text)
	if errors.Is(err, quiz.ErrNoSession) {
		// Обычный текст без активного квиза игнорируется.
		return
	}
	if err != nil {
		b.sendError(chatID, userID, "submit", err)
		return
	}

	b.sendPayload(chatID, userID, payload)
}

// lockUser возвращает функцию разблокировки мьютекса пользователя.
func (b *Bot) lockUser(userID int64) func() {
	b.mu.Lock()
	lock, ok := b.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		b.userLocks[userID] = lock
	}
	b.mu.Unlock()

	lock.Lock()

	return lock.Unlock
}

// isAdmin сообщает, входит ли пользователь в список администраторов.
func (b *Bot) isAdmin(userID int64) bool {
	return b.admins[userID]
}

// sendPayload доставляет пользователю сообщение драйвера: текст, опциональное
// медиа и кнопки.
func (b *Bot) sendPayload(chatID, userID int64, payload *models.Payload) {
	if payload == nil {
		return
	}

	opts := &client.SendOptions{ParseMode: "Markdown"}
	if len(payload.Options) > 0 {
		keyboard := &client.InlineKeyboardMarkup{}
		for _, option := range payload.Options {
			keyboard.InlineKeyboard = append(keyboard.InlineKeyboard, []client.InlineKeyboardButton{
				{Text: option.Label, CallbackData: option.Key},
			})
		}
		opts.ReplyMarkup = keyboard
	}

	var err error
	switch {
	case payload.Media != "" && payload.MediaType == models.MediaVideo:
		_, err = b.client.SendVideo(chatID, payload.Media, payload.Text, opts)
	case payload.Media != "":
		_, err = b.client.SendPhoto(chatID, payload.Media, payload.Text, opts)
	default:
		_, err = b.client.SendMessage(chatID, payload.Text, opts)
	}

	if err != nil {
		slog.Error("failed to send payload",
			"user_id", userID, "chat_id", chatID, "op", "send_payload", "err", err)
	}
}

// sendText отправляет простой текст.
func (b *Bot) sendText(chatID, userID int64, text string) {
	_, err := b.client.SendMessage(chatID, text, &client.SendOptions{ParseMode: "Markdown"})
	if err != nil {
		slog.Error("failed to send message",
			"user_id", userID, "chat_id", chatID, "op", "send_text", "err", err)
	}
}

// sendError переводит ошибку драйвера в короткое сообщение пользователю.
// Неожиданные ошибки логируются и показываются общим текстом.
func (b *Bot) sendError(chatID, userID int64, op string, err error) {
	var prereqErr *roles.PrerequisiteError

	switch {
	case errors.As(err, &prereqErr):
		b.sendText(chatID, userID, prereqErr.Message())
	case errors.Is(err, training.ErrNoContent):
		b.sendText(chatID, userID, msgNoContent)
	case errors.Is(err, training.ErrNoSession):
		b.sendText(chatID, userID, msgNoTrainingSession)
	case errors.Is(err, quiz.ErrNoQuiz):
		b.sendText(chatID, userID, msgNoQuiz)
	case errors.Is(err, quiz.ErrNoSession):
		b.sendText(chatID, userID, msgNoQuizSession)
	case errors.Is(err, scenario.ErrNoScenarios):
		b.sendText(chatID, userID, msgNoScenarios)
	case errors.Is(err, scenario.ErrUnknownScenario), errors.Is(err, scenario.ErrUnknownOption):
		b.sendText(chatID, userID, msgUnknownScenario)
	case errors.Is(err, vacancy.ErrNotFound):
		b.sendText(chatID, userID, msgVacancyNotFound)
	case errors.Is(err, vacancy.ErrInvalidPage):
		b.sendText(chatID, userID, msgVacancyPageInvalid)
	case errors.Is(err, vacancy.ErrAlreadyApplied):
		b.sendText(chatID, userID, msgAlreadyApplied)
	default:
		slog.Error("handler failed", "user_id", userID, "op", op, "err", err)
		b.sendText(chatID, userID, msgInternalError)
	}
}
