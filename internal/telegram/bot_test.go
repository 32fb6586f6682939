package telegram

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTelegram records every Bot API call it receives.
type fakeTelegram struct {
	mu    sync.Mutex
	calls map[string][]url.Values
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	f.mu.Lock()
	f.calls[method] = append(f.calls[method], r.PostForm)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "getMe":
		io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Shop","username":"shop_wizard_bot"}}`)
	case "sendMessage":
		io.WriteString(w, `{"ok":true,"result":{"message_id":7,"date":0,"chat":{"id":5,"type":"private"}}}`)
	default:
		io.WriteString(w, `{"ok":true,"result":true}`)
	}
}

func (f *fakeTelegram) get(method string) []url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func newTestBot(t *testing.T) (*Bot, *fakeTelegram) {
	t.Helper()

	fake := &fakeTelegram{calls: make(map[string][]url.Values)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	bot, err := NewBot("TOKEN", srv.URL+"/bot", srv.Client(), logger)
	require.NoError(t, err)
	return bot, fake
}

func TestBot_Authorizes(t *testing.T) {
	bot, fake := newTestBot(t)

	assert.Equal(t, "shop_wizard_bot", bot.Username())
	assert.Len(t, fake.get("getMe"), 1)
}

func TestBot_SendMessage(t *testing.T) {
	bot, fake := newTestBot(t)

	require.NoError(t, bot.SendMessage(5, `Shop list "Groceries" created successfully!`))

	calls := fake.get("sendMessage")
	require.Len(t, calls, 1)
	assert.Equal(t, "5", calls[0].Get("chat_id"))
	assert.Equal(t, `Shop list "Groceries" created successfully!`, calls[0].Get("text"))
	assert.Empty(t, calls[0].Get("parse_mode"))
}

func TestBot_SendMenu(t *testing.T) {
	bot, fake := newTestBot(t)

	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Paris - FR", `{"type":"weather_city"}`)),
	)
	require.NoError(t, bot.SendMenu(5, "Choose a city from the list:", markup))

	calls := fake.get("sendMessage")
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Get("reply_markup"), `"text":"Paris - FR"`)
}

func TestBot_SetCommandsAndAnswerCallback(t *testing.T) {
	bot, fake := newTestBot(t)

	require.NoError(t, bot.SetCommands([]tgbotapi.BotCommand{
		{Command: "commands", Description: "Get to know the available commands"},
	}))
	require.NoError(t, bot.AnswerCallback("cb-1"))

	commands := fake.get("setMyCommands")
	require.Len(t, commands, 1)
	assert.Contains(t, commands[0].Get("commands"), `"command":"commands"`)

	answers := fake.get("answerCallbackQuery")
	require.Len(t, answers, 1)
	assert.Equal(t, "cb-1", answers[0].Get("callback_query_id"))
}
