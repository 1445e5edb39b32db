package bot

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/letsssgooo/trainerBot/internal/client"
	"github.com/letsssgooo/trainerBot/internal/roles"
	"github.com/letsssgooo/trainerBot/internal/training"
)

// handleCallback обрабатывает нажатие inline кнопки.
func (b *Bot) handleCallback(ctx context.Context, query *client.CallbackQuery) {
	userID := query.From.ID

	chatID := userID
	if query.Message != nil && query.Message.Chat != nil {
		chatID = query.Message.Chat.ID
	}

	if err := b.client.AnswerCallback(query.ID, ""); err != nil {
		slog.Error("failed to answer callback",
			"user_id", userID, "op", "callback", "err", err)
	}

	unlock := b.lockUser(userID)
	defer unlock()

	data := query.Data
	switch {
	case data == training.NextKey:
		b.callbackTrainingNext(ctx, chatID, userID)
	case strings.HasPrefix(data, "scenario_"):
		b.callbackScenario(chatID, userID, query.Message, data)
	case strings.HasPrefix(data, "jobs_page_"):
		b.callbackJobsPage(chatID, userID, data)
	}
}

func (b *Bot) callbackTrainingNext(ctx context.Context, chatID, userID int64) {
	payload, err := b.training.Advance(ctx, userID)
	if err != nil {
		b.sendError(chatID, userID, "training_next", err)
		return
	}

	b.sendPayload(chatID, userID, payload)
}

// callbackScenario разбирает ключ кнопки сценария:
// scenario_<role>_<scenarioKey>_<optionKey>. Ключи сценария и варианта сами
// содержат подчёркивания, поэтому граница между ними находится по известным
// ключам сценариев роли.
func (b *Bot) callbackScenario(chatID, userID int64, origin *client.Message, data string) {
	role, scenarioKey, optionKey, ok := b.parseScenarioKey(data)
	if !ok {
		b.sendText(chatID, userID, msgUnknownScenario)
		return
	}

	payload, err := b.scenarios.Choose(role, scenarioKey, optionKey)
	if err != nil {
		b.sendError(chatID, userID, "scenario_choose", err)
		return
	}

	b.disableOptions(chatID, userID, origin)
	b.sendPayload(chatID, userID, payload)
}

// disableOptions редактирует сообщение с кнопками после сделанного выбора:
// клавиатура убирается, чтобы повторное нажатие было невозможно.
func (b *Bot) disableOptions(chatID, userID int64, origin *client.Message) {
	if origin == nil {
		return
	}

	text := origin.Text + "\n\n✔ _Answered_"
	err := b.client.EditMessage(chatID, origin.MessageID, text, &client.SendOptions{ParseMode: "Markdown"})
	if err != nil {
		slog.Error("failed to disable message options",
			"user_id", userID, "chat_id", chatID, "op", "callback", "err", err)
	}
}

func (b *Bot) parseScenarioKey(data string) (roles.Role, string, string, bool) {
	rest, found := strings.CutPrefix(data, "scenario_")
	if !found {
		return "", "", "", false
	}

	roleToken, rest, found := strings.Cut(rest, "_")
	if !found {
		return "", "", "", false
	}

	role, ok := roles.Parse(roleToken)
	if !ok {
		return "", "", "", false
	}

	for _, s := range b.cfg.Scenarios(role) {
		optionKey, match := strings.CutPrefix(rest, s.Key+"_")
		if match && optionKey != "" {
			return role, s.Key, optionKey, true
		}
	}

	return "", "", "", false
}

// callbackJobsPage листает список вакансий. Ключ кнопки несёт номер страницы
// и активные фильтры: jobs_page_<n> [dept=...] [type=...] [loc=...].
func (b *Bot) callbackJobsPage(chatID, userID int64, data string) {
	args := strings.Fields(strings.TrimPrefix(data, "jobs_page_"))
	if len(args) == 0 {
		return
	}

	if _, err := strconv.Atoi(args[0]); err != nil {
		return
	}

	b.cmdJobs(chatID, userID, args)
}
