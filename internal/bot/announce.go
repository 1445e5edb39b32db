package bot

import (
	"context"

	"github.com/letsssgooo/trainerBot/internal/client"
	"github.com/letsssgooo/trainerBot/internal/config"
)

// Титул, который получает сертифицированный участник чата.
const certifiedTitle = "Certified Staff"

// ChatAnnouncer публикует объявления в настроенный канал.
type ChatAnnouncer struct {
	client client.Client
	cfg    *config.Service
}

// NewChatAnnouncer создаёт публикатор объявлений.
func NewChatAnnouncer(tgClient client.Client, cfg *config.Service) *ChatAnnouncer {
	return &ChatAnnouncer{client: tgClient, cfg: cfg}
}

// Post отправляет текст в канал объявлений. Без настроенного канала
// объявление молча пропускается: это штатное состояние, а не сбой.
func (a *ChatAnnouncer) Post(_ context.Context, text string) error {
	chatID := a.cfg.AnnounceChat()
	if chatID == 0 {
		return nil
	}

	_, err := a.client.SendMessage(chatID, text, &client.SendOptions{ParseMode: "Markdown"})

	return err
}

// ChatMemberships реализует certify.Memberships поверх Telegram: знак
// сертификации — кастомный титул администратора чата.
type ChatMemberships struct {
	client client.Client
	chats  []int64
}

// NewChatMemberships создаёт обёртку над списком чатов, где бот выдаёт знак.
func NewChatMemberships(tgClient client.Client, chats []int64) *ChatMemberships {
	return &ChatMemberships{client: tgClient, chats: chats}
}

// Chats возвращает идентификаторы чатов, где бот состоит.
func (m *ChatMemberships) Chats() []int64 {
	return m.chats
}

// IsMember сообщает, состоит ли пользователь в чате.
func (m *ChatMemberships) IsMember(_ context.Context, chatID, userID int64) (bool, error) {
	member, err := m.client.GetChatMember(chatID, userID)
	if err != nil {
		return false, err
	}

	switch member.Status {
	case client.MemberStatusCreator,
		client.MemberStatusAdministrator,
		client.MemberStatusMember,
		client.MemberStatusRestricted:
		return true, nil
	}

	return false, nil
}

// HasBadge сообщает, носит ли пользователь титул сертификации в чате.
func (m *ChatMemberships) HasBadge(_ context.Context, chatID, userID int64) (bool, error) {
	member, err := m.client.GetChatMember(chatID, userID)
	if err != nil {
		return false, err
	}

	return member.CustomTitle == certifiedTitle, nil
}

// GrantBadge выдаёт титул сертификации: повышает участника до администратора
// с минимальными правами и ставит кастомный титул.
func (m *ChatMemberships) GrantBadge(_ context.Context, chatID, userID int64) error {
	if err := m.client.PromoteChatMember(chatID, userID); err != nil {
		return err
	}

	return m.client.SetChatAdministratorCustomTitle(chatID, userID, certifiedTitle)
}
