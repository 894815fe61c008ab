package bot

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// Messenger delivers reply texts to a chat.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

// TelegramMessenger sends messages through the Telegram Bot API.
type TelegramMessenger struct {
	api    *tgbotapi.BotAPI
	logger *zap.Logger
}

// NewTelegramMessenger authorizes token against apiEndpoint (tgbotapi.APIEndpoint
// when empty). client may be nil.
func NewTelegramMessenger(token, apiEndpoint string, client *http.Client, logger *zap.Logger) (*TelegramMessenger, error) {
	if apiEndpoint == "" {
		apiEndpoint = tgbotapi.APIEndpoint
	}
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, apiEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	logger.Info("bot authorized", zap.String("account", api.Self.UserName))
	return &TelegramMessenger{api: api, logger: logger}, nil
}

// Username returns the bot's account name.
func (m *TelegramMessenger) Username() string {
	return m.api.Self.UserName
}

// SendText sends text as plain text, so stored responses are never parsed as markup.
func (m *TelegramMessenger) SendText(_ context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := m.api.Send(msg); err != nil {
		return fmt.Errorf("send message to %d: %w", chatID, err)
	}
	return nil
}

// SetWebhook points Telegram at url. When secret is set Telegram echoes it in
// the X-Telegram-Bot-Api-Secret-Token header of every update.
func (m *TelegramMessenger) SetWebhook(url, secret string, dropPending bool) error {
	params := make(tgbotapi.Params)
	params["url"] = url
	params.AddNonEmpty("secret_token", secret)
	params.AddBool("drop_pending_updates", dropPending)
	params["allowed_updates"] = `["message"]`

	resp, err := m.api.MakeRequest("setWebhook", params)
	if err != nil {
		return fmt.Errorf("set webhook: %w", err)
	}
	m.logger.Info("webhook registered", zap.String("url", url), zap.String("description", resp.Description))
	return nil
}

// DeleteWebhook removes the webhook registration.
func (m *TelegramMessenger) DeleteWebhook(dropPending bool) error {
	if _, err := m.api.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: dropPending}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	m.logger.Info("webhook removed")
	return nil
}
