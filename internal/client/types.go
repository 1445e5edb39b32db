package client

import (
	"context"
	"time"
)

// Update представляет обновление от Telegram.
type Update struct {
	UpdateID      int            `json:"update_id"`
	Message       *Message       `json:"message"`
	CallbackQuery *CallbackQuery `json:"callback_query"`
}

// Message представляет сообщение.
type Message struct {
	MessageID int    `json:"message_id"`
	From      *User  `json:"from"`
	Chat      *Chat  `json:"chat"`
	Text      string `json:"text"`
}

// User представляет пользователя Telegram.
type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// Chat представляет чат.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// CallbackQuery представляет callback от inline кнопки.
type CallbackQuery struct {
	ID      string   `json:"id"`
	From    *User    `json:"from"`
	Message *Message `json:"message"`
	Data    string   `json:"data"`
}

// ChatMember представляет участника чата.
type ChatMember struct {
	Status      string `json:"status"`
	User        *User  `json:"user"`
	CustomTitle string `json:"custom_title"`
}

// Статусы участника чата, при которых он считается состоящим в чате.
const (
	MemberStatusCreator       = "creator"
	MemberStatusAdministrator = "administrator"
	MemberStatusMember        = "member"
	MemberStatusRestricted    = "restricted"
)

// InlineKeyboardMarkup представляет inline клавиатуру.
type InlineKeyboardMarkup struct {
	InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
}

// InlineKeyboardButton представляет кнопку inline клавиатуры.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

// SendOptions содержит опции отправки сообщения.
type SendOptions struct {
	ParseMode   string                `json:"parse_mode,omitempty"`
	ReplyMarkup *InlineKeyboardMarkup `json:"reply_markup,omitempty"`
}

// Client определяет интерфейс Telegram клиента.
type Client interface {
	// SendMessage отправляет сообщение.
	SendMessage(chatID int64, text string, opts *SendOptions) (*Message, error)

	// SendPhoto отправляет изображение по URL с подписью.
	SendPhoto(chatID int64, photoURL string, caption string, opts *SendOptions) (*Message, error)

	// SendVideo отправляет видео по URL с подписью.
	SendVideo(chatID int64, videoURL string, caption string, opts *SendOptions) (*Message, error)

	// EditMessage редактирует сообщение.
	EditMessage(chatID int64, messageID int, text string, opts *SendOptions) error

	// AnswerCallback отвечает на callback query.
	AnswerCallback(callbackID string, text string) error

	// GetUpdates получает обновления (long polling).
	GetUpdates(ctx context.Context, offset int, timeout int) ([]Update, error)

	// GetChatMember возвращает участника чата.
	GetChatMember(chatID, userID int64) (*ChatMember, error)

	// PromoteChatMember повышает участника чата до администратора
	// с минимальными правами.
	PromoteChatMember(chatID, userID int64) error

	// SetChatAdministratorCustomTitle устанавливает участнику-администратору
	// кастомный титул.
	SetChatAdministratorCustomTitle(chatID, userID int64, title string) error
}

// Таймауты
const (
	timeoutSend   = 3 * time.Second
	timeoutMember = 5 * time.Second
)
