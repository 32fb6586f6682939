package telegram

import (
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Messenger is the outbound side of the bot.
type Messenger interface {
	SendMessage(chatID int64, text string) error
	SendMenu(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error
	SetCommands(commands []tgbotapi.BotCommand) error
	AnswerCallback(callbackID string) error
}

// Bot wraps the Telegram bot API
type Bot struct {
	api    *tgbotapi.BotAPI
	logger *logrus.Logger
}

// NewBot creates a new Telegram bot instance. baseURL is the API prefix the
// token is appended to, e.g. "https://api.telegram.org/bot".
func NewBot(token, baseURL string, client *http.Client, logger *logrus.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, baseURL+"%s/%s", client)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	logger.Infof("Authorized on account %s", api.Self.UserName)

	return &Bot{
		api:    api,
		logger: logger,
	}, nil
}

// Username returns the bot's own username, without the leading "@".
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// SetWebhook sets up webhook for the bot
func (b *Bot) SetWebhook(webhookURL string) error {
	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		return fmt.Errorf("failed to create webhook: %w", err)
	}

	_, err = b.api.Request(wh)
	if err != nil {
		return fmt.Errorf("failed to set webhook: %w", err)
	}

	b.logger.Infof("Webhook set to %s", webhookURL)
	return nil
}

// SendMessage sends a plain text message to a chat
func (b *Bot) SendMessage(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// SendMenu sends a message with an inline keyboard attached
func (b *Bot) SendMenu(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = markup

	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send menu: %w", err)
	}
	return nil
}

// SetCommands replaces the command suggestions shown in the client.
func (b *Bot) SetCommands(commands []tgbotapi.BotCommand) error {
	if _, err := b.api.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		return fmt.Errorf("failed to set commands: %w", err)
	}
	return nil
}

// AnswerCallback acknowledges a callback query so the client stops its spinner.
func (b *Bot) AnswerCallback(callbackID string) error {
	if _, err := b.api.Request(tgbotapi.NewCallback(callbackID, "")); err != nil {
		return fmt.Errorf("failed to answer callback: %w", err)
	}
	return nil
}
