package certify

import (
	"context"
	"log/slog"
)

// Outcome — результат попытки выдать знак сертификации.
type Outcome string

const (
	// Granted — знак выдан.
	Granted Outcome = "granted"
	// AlreadyHeld — знак уже есть.
	AlreadyHeld Outcome = "already_held"
	// NoTargetFound — пользователь не найден ни в одном чате.
	NoTargetFound Outcome = "no_target_found"
	// Unavailable — внешний клиент недоступен или выдача не удалась.
	Unavailable Outcome = "unavailable"
)

// Memberships описывает внешние чаты, в которых бот может выдать знак.
type Memberships interface {
	// Chats возвращает идентификаторы чатов, где бот состоит.
	Chats() []int64

	// IsMember сообщает, состоит ли пользователь в чате.
	IsMember(ctx context.Context, chatID, userID int64) (bool, error)

	// HasBadge сообщает, есть ли у пользователя знак в чате.
	HasBadge(ctx context.Context, chatID, userID int64) (bool, error)

	// GrantBadge выдаёт пользователю знак в чате.
	GrantBadge(ctx context.Context, chatID, userID int64) error
}

// Effector выдаёт знак сертификации после сдачи квиза. Ошибки никогда не
// блокируют сертификацию: любой сбой превращается в Outcome и уведомление
// о ручной выдаче.
type Effector struct {
	members Memberships
}

// New создаёт эффектор. members может быть nil, тогда выдача недоступна.
func New(members Memberships) *Effector {
	return &Effector{members: members}
}

// Grant ищет пользователя по чатам и выдаёт знак в первом найденном.
// Не больше одной выдачи за вызов.
func (e *Effector) Grant(ctx context.Context, userID int64) Outcome {
	if e == nil || e.members == nil {
		return Unavailable
	}

	for _, chatID := range e.members.Chats() {
		found, err := e.members.IsMember(ctx, chatID, userID)
		if err != nil {
			slog.Error("failed to check membership",
				"user_id", userID, "chat_id", chatID, "op", "grant", "err", err)
			continue
		}
		if !found {
			continue
		}

		has, err := e.members.HasBadge(ctx, chatID, userID)
		if err != nil {
			slog.Error("failed to check badge",
				"user_id", userID, "chat_id", chatID, "op", "grant", "err", err)
			return Unavailable
		}
		if has {
			return AlreadyHeld
		}

		if err := e.members.GrantBadge(ctx, chatID, userID); err != nil {
			slog.Error("failed to grant badge",
				"user_id", userID, "chat_id", chatID, "op", "grant", "err", err)
			return Unavailable
		}

		return Granted
	}

	return NoTargetFound
}

// FollowUp возвращает текст уведомления пользователю по результату выдачи.
func FollowUp(outcome Outcome) string {
	switch outcome {
	case Granted:
		return "You have been given the **Certified Staff** badge!"
	case AlreadyHeld:
		return "You already have the **Certified Staff** badge!"
	default:
		return "Please contact an administrator to get your **Certified Staff** badge."
	}
}
