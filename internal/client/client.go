package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const apiURL = "https://api.telegram.org/bot%s/%s"

// HTTPClient реализует Client через HTTP API Telegram.
type HTTPClient struct {
	token      string
	httpClient *http.Client
}

// NewHTTPClient создаёт нового HTTP клиента Telegram по переданному токену
func NewHTTPClient(token string) *HTTPClient {
	return &HTTPClient{
		token:      token,
		httpClient: &http.Client{},
	}
}

// SendMessage отправляет сообщение text в чат chatID.
// Возвращает указатель на структуру Message в случае успеха.
func (c *HTTPClient) SendMessage(
	chatID int64,
	text string,
	opts *SendOptions,
) (*Message, error) {
	params := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	applyOptions(params, opts)

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutSend)
	defer cancelFunc()

	rawResp, err := c.doRequest(ctx, "sendMessage", params)
	if err != nil {
		return nil, err
	}

	var message Message
	if err = json.Unmarshal(rawResp, &message); err != nil {
		return nil, err
	}

	return &message, nil
}

// SendPhoto отправляет изображение по URL photoURL с подписью caption в чат chatID.
// Возвращает указатель на структуру Message в случае успеха.
func (c *HTTPClient) SendPhoto(
	chatID int64,
	photoURL string,
	caption string,
	opts *SendOptions,
) (*Message, error) {
	params := map[string]interface{}{
		"chat_id": chatID,
		"photo":   photoURL,
		"caption": caption,
	}
	applyOptions(params, opts)

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutSend)
	defer cancelFunc()

	rawResp, err := c.doRequest(ctx, "sendPhoto", params)
	if err != nil {
		return nil, err
	}

	var message Message
	if err = json.Unmarshal(rawResp, &message); err != nil {
		return nil, err
	}

	return &message, nil
}

// SendVideo отправляет видео по URL videoURL с подписью caption в чат chatID.
// Возвращает указатель на структуру Message в случае успеха.
func (c *HTTPClient) SendVideo(
	chatID int64,
	videoURL string,
	caption string,
	opts *SendOptions,
) (*Message, error) {
	params := map[string]interface{}{
		"chat_id": chatID,
		"video":   videoURL,
		"caption": caption,
	}
	applyOptions(params, opts)

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutSend)
	defer cancelFunc()

	rawResp, err := c.doRequest(ctx, "sendVideo", params)
	if err != nil {
		return nil, err
	}

	var message Message
	if err = json.Unmarshal(rawResp, &message); err != nil {
		return nil, err
	}

	return &message, nil
}

// EditMessage изменяет сообщение messageID на text в чате chatID.
// Возвращает nil в случае успеха.
func (c *HTTPClient) EditMessage(
	chatID int64,
	messageID int,
	text string,
	opts *SendOptions,
) error {
	params := map[string]interface{}{
		"chat_id":    chatID,
		"text":       text,
		"message_id": messageID,
	}
	applyOptions(params, opts)

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutSend)
	defer cancelFunc()

	_, err := c.doRequest(ctx, "editMessageText", params)
	if err != nil {
		return err
	}

	return nil
}

// AnswerCallback отвечает уведомлением в верхней части экрана чата (см. документацию
// telegram api) на callback query с идентификатором callbackID.
// Возращает nil в случае успеха.
func (c *HTTPClient) AnswerCallback(callbackID string, text string) error {
	params := map[string]interface{}{
		"callback_query_id": callbackID,
		"text":              text,
	}

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutSend)
	defer cancelFunc()

	_, err := c.doRequest(ctx, "answerCallbackQuery", params)
	if err != nil {
		return err
	}

	return nil
}

// GetUpdates получает обновления.
// Если новых обновлений нет, ждёт до timeout секунд.
// Возвращает слайс Update.
// Для продолжения обработки нужно передать offset = lastUpdateID + 1.
func (c *HTTPClient) GetUpdates(ctx context.Context, offset int, timeout int) ([]Update, error) {
	params := map[string]interface{}{
		"offset":  offset,
		"timeout": timeout,
	}

	rawResp, err := c.doRequest(ctx, "getUpdates", params)
	if err != nil {
		return nil, err
	}

	var updates []Update
	if err = json.Unmarshal(rawResp, &updates); err != nil {
		return nil, err
	}

	return updates, nil
}

// GetChatMember возвращает участника userID чата chatID.
func (c *HTTPClient) GetChatMember(chatID, userID int64) (*ChatMember, error) {
	params := map[string]interface{}{
		"chat_id": chatID,
		"user_id": userID,
	}

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutMember)
	defer cancelFunc()

	rawResp, err := c.doRequest(ctx, "getChatMember", params)
	if err != nil {
		return nil, err
	}

	var member ChatMember
	if err = json.Unmarshal(rawResp, &member); err != nil {
		return nil, err
	}

	return &member, nil
}

// PromoteChatMember повышает участника userID чата chatID до администратора
// с минимальными правами. Кастомный титул доступен только администраторам.
func (c *HTTPClient) PromoteChatMember(chatID, userID int64) error {
	params := map[string]interface{}{
		"chat_id":          chatID,
		"user_id":          userID,
		"can_invite_users": true,
	}

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutMember)
	defer cancelFunc()

	_, err := c.doRequest(ctx, "promoteChatMember", params)
	if err != nil {
		return err
	}

	return nil
}

// SetChatAdministratorCustomTitle устанавливает участнику-администратору userID
// чата chatID кастомный титул title.
func (c *HTTPClient) SetChatAdministratorCustomTitle(chatID, userID int64, title string) error {
	params := map[string]interface{}{
		"chat_id":      chatID,
		"user_id":      userID,
		"custom_title": title,
	}

	ctx, cancelFunc := context.WithTimeout(context.Background(), timeoutMember)
	defer cancelFunc()

	_, err := c.doRequest(ctx, "setChatAdministratorCustomTitle", params)
	if err != nil {
		return err
	}

	return nil
}

// applyOptions добавляет опции отправки к параметрам запроса.
func applyOptions(params map[string]interface{}, opts *SendOptions) {
	if opts == nil {
		return
	}

	if opts.ParseMode != "" {
		params["parse_mode"] = opts.ParseMode
	}

	if opts.ReplyMarkup != nil {
		params["reply_markup"] = opts.ReplyMarkup
	}
}

// doRequest выполняет запрос к Telegram API.
// Возвращает результат запроса в случае успеха.
func (c *HTTPClient) doRequest(
	ctx context.Context,
	method string,
	params map[string]interface{},
) (json.RawMessage, error) {
	url := fmt.Sprintf(apiURL, c.token, method)

	body, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(request)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result struct {
		OK     bool            `json:"ok"`
		Result json.RawMessage `json:"result"`
		Error  string          `json:"description"`
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, err
	}

	if !result.OK {
		return nil, fmt.Errorf("client api error: %s", result.Error)
	}

	return result.Result, nil
}
