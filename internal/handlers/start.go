package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ShopWizard/internal/telegram"
)

const welcomeText = "Welcome to the Shop Wizard Bot, where you can effortlessly create, edit, and remove " +
	"lists and items. Explore the convenience of managing your shopping essentials with " +
	"ease. Additionally, unlock the functionality to create your very own contact book and " +
	"stay informed about the weather in your city. To get started enter '/commands'."

// StartHandler handles the /start command
type StartHandler struct {
	logger *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(logger *logrus.Logger) *StartHandler {
	return &StartHandler{
		logger: logger,
	}
}

// Handle processes the /start command
func (h *StartHandler) Handle(_ context.Context, message *tgbotapi.Message, _ []string) (*telegram.Reply, error) {
	h.logger.WithFields(logrus.Fields{
		"chat_id": telegram.ChatID(message),
		"user_id": message.From.ID,
	}).Info("Sent start message")

	return telegram.NewReply("%s", welcomeText), nil
}
