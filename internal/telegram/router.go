package telegram

import (
	"context"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	apperrors "github.com/Kerhoff/ShopWizard/internal/errors"
	"github.com/Kerhoff/ShopWizard/internal/metrics"
	"github.com/Kerhoff/ShopWizard/internal/models"
)

// UnknownCommandMessage is the reply to text that matches no registered command.
const UnknownCommandMessage = "Unknown command. Use /commands to see available commands."

// Suggestions are re-published after every inbound message.
var Suggestions = []tgbotapi.BotCommand{
	{Command: "commands", Description: "Get to know the available commands"},
	{Command: "weather", Description: "Get the weather for a city"},
	{Command: "status", Description: "Get the amount of contacts"},
	{Command: "list", Description: "Get the list of contacts"},
}

// Reply is what a handler wants sent back to the user. A non-nil Markup turns
// the reply into a button menu.
type Reply struct {
	Text   string
	Markup *tgbotapi.InlineKeyboardMarkup
}

// NewReply creates a plain text reply.
func NewReply(format string, args ...any) *Reply {
	return &Reply{Text: fmt.Sprintf(format, args...)}
}

// CommandHandler defines the interface for command handlers
type CommandHandler interface {
	Handle(ctx context.Context, message *tgbotapi.Message, args []string) (*Reply, error)
}

// CallbackHandler handles one callback payload type.
type CallbackHandler interface {
	HandleCallback(ctx context.Context, query *tgbotapi.CallbackQuery, payload CallbackPayload) (*Reply, error)
}

// ArgumentChecker is implemented by command handlers that need positional
// arguments. Messages with fewer than MinArgs arguments are answered with
// Usage and never reach the handler.
type ArgumentChecker interface {
	MinArgs() int
	Usage() string
}

// UserEnsurer creates or refreshes the sender of an update.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, profile models.User) (*models.User, error)
}

// Router handles message routing and command parsing
type Router struct {
	logger    *logrus.Logger
	messenger Messenger
	users     UserEnsurer
	errors    *apperrors.Handler
	handlers  map[string]CommandHandler
	callbacks map[string]CallbackHandler
}

// NewRouter creates a new message router
func NewRouter(messenger Messenger, users UserEnsurer, logger *logrus.Logger) *Router {
	return &Router{
		logger:    logger,
		messenger: messenger,
		users:     users,
		errors:    apperrors.NewHandler(logger),
		handlers:  make(map[string]CommandHandler),
		callbacks: make(map[string]CallbackHandler),
	}
}

// RegisterCommand registers a command handler, without the leading "/".
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// RegisterCallback registers a handler for a callback payload type.
func (r *Router) RegisterCallback(callbackType string, handler CallbackHandler) {
	r.callbacks[callbackType] = handler
	r.logger.Debugf("Registered callback: %s", callbackType)
}

// HandleUpdate dispatches one webhook update. It returns false for update
// kinds the bot does not act on.
func (r *Router) HandleUpdate(ctx context.Context, update tgbotapi.Update) (handled bool) {
	defer func() {
		if p := recover(); p != nil {
			fields := logrus.Fields{"update_id": update.UpdateID}
			r.logger.WithFields(fields).Errorf("Panic while dispatching update: %v", p)
			if to, ok := senderOf(update); ok {
				r.respond(ctx, to, nil, fmt.Errorf("panic: %v", p), fields)
			}
			handled = true
		}
	}()

	switch {
	case update.Message != nil:
		metrics.RecordUpdate("message")
		r.HandleMessage(ctx, update.Message)
	case update.CallbackQuery != nil:
		metrics.RecordUpdate("callback_query")
		r.HandleCallbackQuery(ctx, update.CallbackQuery)
	default:
		metrics.RecordUpdate("other")
		r.logger.WithField("update_id", update.UpdateID).Debug("Ignoring update")
		return false
	}
	return true
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(ctx context.Context, message *tgbotapi.Message) {
	if message.From == nil {
		r.logger.WithField("message_id", message.MessageID).Debug("Ignoring message without sender")
		return
	}

	fields := logrus.Fields{
		"chat_id":    ChatID(message),
		"user_id":    message.From.ID,
		"username":   message.From.UserName,
		"message_id": message.MessageID,
	}
	r.logger.WithFields(fields).WithField("text", message.Text).Info("Received message")

	chatID := message.From.ID
	defer r.publishSuggestions()

	command, args, ok := parseCommand(message.Text)
	if ok {
		fields["command"] = command
	}

	start := time.Now()
	reply, err := r.safely(func() (*Reply, error) {
		if _, err := r.users.EnsureUser(ctx, profileOf(message.From)); err != nil {
			return nil, fmt.Errorf("ensure user: %w", err)
		}
		if !ok {
			return NewReply(UnknownCommandMessage), nil
		}

		handler, exists := r.handlers[command]
		if !exists {
			r.logger.WithFields(fields).Warn("Unknown command")
			return NewReply(UnknownCommandMessage), nil
		}
		if checker, ok := handler.(ArgumentChecker); ok && len(args) < checker.MinArgs() {
			return nil, apperrors.BadInput("%s", checker.Usage())
		}
		return handler.Handle(ctx, message, args)
	})

	if ok {
		metrics.RecordCommand(command, status(err), time.Since(start))
	}
	r.respond(ctx, chatID, reply, err, fields)
}

// HandleCallbackQuery handles callback queries from inline keyboards
func (r *Router) HandleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	if query.From == nil {
		r.logger.WithField("callback_id", query.ID).Debug("Ignoring callback without sender")
		return
	}

	fields := logrus.Fields{
		"callback_id": query.ID,
		"user_id":     query.From.ID,
	}
	r.logger.WithFields(fields).WithField("data", query.Data).Info("Received callback query")

	// Answer the callback query to remove loading state
	defer func() {
		if err := r.messenger.AnswerCallback(query.ID); err != nil {
			r.logger.WithFields(fields).WithError(err).Warn("Failed to answer callback query")
		}
	}()

	payload, decodeErr := DecodeCallback(query.Data)
	if decodeErr == nil {
		fields["callback_type"] = payload.Type
	}

	start := time.Now()
	reply, err := r.safely(func() (*Reply, error) {
		if _, err := r.users.EnsureUser(ctx, profileOf(query.From)); err != nil {
			return nil, fmt.Errorf("ensure user: %w", err)
		}
		if decodeErr != nil {
			r.logger.WithFields(fields).WithError(decodeErr).Warn("Malformed callback data")
			return nil, apperrors.BadInput("Invalid button data.")
		}

		handler, exists := r.callbacks[payload.Type]
		if !exists {
			return nil, apperrors.BadInput("Unknown action.")
		}
		return handler.HandleCallback(ctx, query, payload)
	})

	if decodeErr == nil {
		metrics.RecordCommand("callback:"+payload.Type, status(err), time.Since(start))
	}
	r.respond(ctx, query.From.ID, reply, err, fields)
}

// respond sends exactly one message for a handled update.
func (r *Router) respond(ctx context.Context, chatID int64, reply *Reply, err error, fields logrus.Fields) {
	if err != nil {
		reply = NewReply("%s", r.errors.Handle(ctx, err, fields))
	}
	if reply == nil {
		return
	}

	var sendErr error
	if reply.Markup != nil {
		sendErr = r.messenger.SendMenu(chatID, reply.Text, *reply.Markup)
	} else {
		sendErr = r.messenger.SendMessage(chatID, reply.Text)
	}
	if sendErr != nil {
		r.logger.WithFields(fields).WithError(sendErr).Error("Failed to send reply")
	}
}

func (r *Router) publishSuggestions() {
	if err := r.messenger.SetCommands(Suggestions); err != nil {
		r.logger.WithError(err).Warn("Failed to publish command suggestions")
	}
}

// safely runs fn and turns a panic into an error.
func (r *Router) safely(fn func() (*Reply, error)) (reply *Reply, err error) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Errorf("Panic in update handler: %v", p)
			reply, err = nil, fmt.Errorf("panic: %v", p)
		}
	}()
	return fn()
}

// parseCommand splits "/name@bot arg1 arg2" into its name and arguments.
func parseCommand(text string) (string, []string, bool) {
	parts := strings.Fields(text)
	if len(parts) == 0 || !strings.HasPrefix(parts[0], "/") {
		return "", nil, false
	}

	command := strings.TrimPrefix(parts[0], "/")
	if at := strings.IndexByte(command, '@'); at >= 0 {
		command = command[:at]
	}
	if command == "" {
		return "", nil, false
	}
	return command, parts[1:], true
}

// ChatID returns the chat a message was sent in, falling back to the sender
// when the update carries no chat.
func ChatID(message *tgbotapi.Message) int64 {
	if message.Chat != nil {
		return message.Chat.ID
	}
	if message.From != nil {
		return message.From.ID
	}
	return 0
}

func senderOf(update tgbotapi.Update) (int64, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, true
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID, true
	}
	return 0, false
}

func profileOf(u *tgbotapi.User) models.User {
	return models.User{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Username:     u.UserName,
		IsBot:        u.IsBot,
		LanguageCode: u.LanguageCode,
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
