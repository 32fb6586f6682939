package telegram

import (
	"context"
	"errors"
	"io"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Kerhoff/ShopWizard/internal/errors"
	"github.com/Kerhoff/ShopWizard/internal/models"
)

type mockMessenger struct {
	mock.Mock
}

func (m *mockMessenger) SendMessage(chatID int64, text string) error {
	return m.Called(chatID, text).Error(0)
}

func (m *mockMessenger) SendMenu(chatID int64, text string, markup tgbotapi.InlineKeyboardMarkup) error {
	return m.Called(chatID, text, markup).Error(0)
}

func (m *mockMessenger) SetCommands(commands []tgbotapi.BotCommand) error {
	return m.Called(commands).Error(0)
}

func (m *mockMessenger) AnswerCallback(callbackID string) error {
	return m.Called(callbackID).Error(0)
}

type fakeUsers struct {
	profiles []models.User
	err      error
}

func (f *fakeUsers) EnsureUser(_ context.Context, profile models.User) (*models.User, error) {
	f.profiles = append(f.profiles, profile)
	if f.err != nil {
		return nil, f.err
	}
	return &profile, nil
}

type stubHandler struct {
	calls     [][]string
	reply     *Reply
	err       error
	panicWith any
}

func (s *stubHandler) Handle(_ context.Context, _ *tgbotapi.Message, args []string) (*Reply, error) {
	s.calls = append(s.calls, args)
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	return s.reply, s.err
}

func (s *stubHandler) HandleCallback(_ context.Context, _ *tgbotapi.CallbackQuery, p CallbackPayload) (*Reply, error) {
	s.calls = append(s.calls, []string{p.Type, p.ListName})
	return s.reply, s.err
}

type checkedHandler struct {
	stubHandler
}

func (c *checkedHandler) MinArgs() int  { return 1 }
func (c *checkedHandler) Usage() string { return "Insufficient arguments. Please provide list name." }

const sender = int64(5)

func newTestRouter(t *testing.T) (*Router, *mockMessenger, *fakeUsers) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	messenger := &mockMessenger{}
	users := &fakeUsers{}
	t.Cleanup(func() { messenger.AssertExpectations(t) })
	return NewRouter(messenger, users, logger), messenger, users
}

func message(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: sender, FirstName: "Ann", UserName: "ann", LanguageCode: "en"},
		Chat:      &tgbotapi.Chat{ID: sender, Type: "private"},
		Text:      text,
	}
}

func TestRouter_DispatchesCommand(t *testing.T) {
	router, messenger, users := newTestRouter(t)
	h := &stubHandler{reply: NewReply("done")}
	router.RegisterCommand("create_list", h)

	messenger.On("SendMessage", sender, "done").Return(nil).Once()
	messenger.On("SetCommands", Suggestions).Return(nil).Once()

	router.HandleMessage(context.Background(), message("/create_list@shop_wizard_bot Groceries"))

	require.Len(t, h.calls, 1)
	assert.Equal(t, []string{"Groceries"}, h.calls[0])
	require.Len(t, users.profiles, 1)
	assert.Equal(t, models.User{ID: sender, FirstName: "Ann", Username: "ann", LanguageCode: "en"}, users.profiles[0])
}

func TestRouter_UnknownInput(t *testing.T) {
	for _, text := range []string{"/frobnicate", "hello there", ""} {
		t.Run(text, func(t *testing.T) {
			router, messenger, users := newTestRouter(t)

			messenger.On("SendMessage", sender, UnknownCommandMessage).Return(nil).Once()
			messenger.On("SetCommands", Suggestions).Return(nil).Once()

			router.HandleMessage(context.Background(), message(text))
			assert.Len(t, users.profiles, 1)
		})
	}
}

func TestRouter_MissingArgumentsNeverReachHandler(t *testing.T) {
	router, messenger, _ := newTestRouter(t)
	h := &checkedHandler{}
	router.RegisterCommand("create_list", h)

	messenger.On("SendMessage", sender, "Insufficient arguments. Please provide list name.").Return(nil).Once()
	messenger.On("SetCommands", Suggestions).Return(nil).Once()

	router.HandleMessage(context.Background(), message("/create_list"))
	assert.Empty(t, h.calls)
}

func TestRouter_ErrorsBecomeOneReply(t *testing.T) {
	tests := []struct {
		name    string
		handler *stubHandler
		want    string
	}{
		{
			name:    "typed error",
			handler: &stubHandler{err: apperrors.NotFound("list", `Shop list "X" not found. Please try other name`)},
			want:    `Shop list "X" not found. Please try other name`,
		},
		{
			name:    "wrapped typed error",
			handler: &stubHandler{err: errors.Join(errors.New("ctx"), apperrors.BadInput("bad"))},
			want:    "bad",
		},
		{
			name:    "unknown error",
			handler: &stubHandler{err: errors.New("connection reset")},
			want:    apperrors.GenericMessage,
		},
		{
			name:    "panic",
			handler: &stubHandler{panicWith: "boom"},
			want:    apperrors.GenericMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, messenger, _ := newTestRouter(t)
			router.RegisterCommand("show_items", tt.handler)

			messenger.On("SendMessage", sender, tt.want).Return(nil).Once()
			messenger.On("SetCommands", Suggestions).Return(nil).Once()

			router.HandleMessage(context.Background(), message("/show_items X"))
		})
	}
}

func TestRouter_EnsureUserFailure(t *testing.T) {
	router, messenger, users := newTestRouter(t)
	users.err = errors.New("db down")
	h := &stubHandler{reply: NewReply("done")}
	router.RegisterCommand("status", h)

	messenger.On("SendMessage", sender, apperrors.GenericMessage).Return(nil).Once()
	messenger.On("SetCommands", Suggestions).Return(nil).Once()

	router.HandleMessage(context.Background(), message("/status"))
	assert.Empty(t, h.calls)
}

func TestRouter_MenuReply(t *testing.T) {
	router, messenger, _ := newTestRouter(t)
	markup := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData("Paris - FR", "{}")),
	)
	router.RegisterCommand("weather", &stubHandler{reply: &Reply{Text: "Choose a city from the list:", Markup: &markup}})

	messenger.On("SendMenu", sender, "Choose a city from the list:", markup).Return(nil).Once()
	messenger.On("SetCommands", Suggestions).Return(nil).Once()

	router.HandleMessage(context.Background(), message("/weather Paris"))
}

func TestRouter_SendFailureIsLoggedOnly(t *testing.T) {
	router, messenger, _ := newTestRouter(t)
	router.RegisterCommand("start", &stubHandler{reply: NewReply("welcome")})

	messenger.On("SendMessage", sender, "welcome").Return(errors.New("timeout")).Once()
	messenger.On("SetCommands", Suggestions).Return(errors.New("timeout")).Once()

	router.HandleMessage(context.Background(), message("/start"))
}

func TestRouter_MessageWithoutChat(t *testing.T) {
	router, messenger, users := newTestRouter(t)
	router.RegisterCommand("create_list", &stubHandler{reply: NewReply("created")})

	messenger.On("SendMessage", sender, "created").Return(nil).Once()
	messenger.On("SetCommands", Suggestions).Return(nil).Once()

	handled := router.HandleUpdate(context.Background(), tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			From: &tgbotapi.User{ID: sender},
			Text: "/create_list Groceries",
		},
	})

	assert.True(t, handled)
	assert.Len(t, users.profiles, 1)
}

func TestRouter_HandleUpdateRecoversDispatchPanic(t *testing.T) {
	router, messenger, _ := newTestRouter(t)
	router.RegisterCommand("start", &stubHandler{reply: NewReply("welcome")})

	messenger.On("SendMessage", sender, "welcome").Run(func(mock.Arguments) { panic("send exploded") }).Once()
	messenger.On("SetCommands", Suggestions).Return(nil).Once()
	messenger.On("SendMessage", sender, apperrors.GenericMessage).Return(nil).Once()

	var handled bool
	require.NotPanics(t, func() {
		handled = router.HandleUpdate(context.Background(), tgbotapi.Update{UpdateID: 2, Message: message("/start")})
	})
	assert.True(t, handled)
}

func TestChatID(t *testing.T) {
	assert.Equal(t, int64(9), ChatID(&tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 9}, From: &tgbotapi.User{ID: sender}}))
	assert.Equal(t, sender, ChatID(&tgbotapi.Message{From: &tgbotapi.User{ID: sender}}))
	assert.Zero(t, ChatID(&tgbotapi.Message{}))
}

func callbackQuery(data string) *tgbotapi.CallbackQuery {
	return &tgbotapi.CallbackQuery{
		ID:   "cb-1",
		From: &tgbotapi.User{ID: sender, FirstName: "Ann"},
		Data: data,
	}
}

func TestRouter_Callback(t *testing.T) {
	router, messenger, _ := newTestRouter(t)
	h := &stubHandler{reply: NewReply("List \"Groceries\" is empty.")}
	router.RegisterCallback(CallbackShowItems, h)

	messenger.On("SendMessage", sender, "List \"Groceries\" is empty.").Return(nil).Once()
	messenger.On("AnswerCallback", "cb-1").Return(nil).Once()

	handled := router.HandleUpdate(context.Background(), tgbotapi.Update{
		UpdateID:      10,
		CallbackQuery: callbackQuery(`{"type":"/show_items","list_name":"Groceries"}`),
	})

	assert.True(t, handled)
	require.Len(t, h.calls, 1)
	assert.Equal(t, []string{CallbackShowItems, "Groceries"}, h.calls[0])
	messenger.AssertNotCalled(t, "SetCommands", mock.Anything)
}

func TestRouter_CallbackFailuresAreAnswered(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "malformed", data: "not json", want: "Invalid button data."},
		{name: "unknown type", data: `{"type":"explode"}`, want: "Unknown action."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, messenger, _ := newTestRouter(t)

			messenger.On("SendMessage", sender, tt.want).Return(nil).Once()
			messenger.On("AnswerCallback", "cb-1").Return(nil).Once()

			router.HandleCallbackQuery(context.Background(), callbackQuery(tt.data))
		})
	}
}

func TestRouter_IgnoresOtherUpdates(t *testing.T) {
	router, messenger, users := newTestRouter(t)

	handled := router.HandleUpdate(context.Background(), tgbotapi.Update{
		UpdateID:      11,
		EditedMessage: message("/status"),
	})

	assert.False(t, handled)
	assert.Empty(t, users.profiles)
	messenger.AssertNotCalled(t, "SendMessage", mock.Anything, mock.Anything)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text    string
		command string
		args    []string
		ok      bool
	}{
		{text: "/add_item Groceries olive oil", command: "add_item", args: []string{"Groceries", "olive", "oil"}, ok: true},
		{text: "  /status  ", command: "status", args: []string{}, ok: true},
		{text: "/show@shop_wizard_bot Ann Lee", command: "show", args: []string{"Ann", "Lee"}, ok: true},
		{text: "/", ok: false},
		{text: "status", ok: false},
		{text: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			command, args, ok := parseCommand(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.command, command)
				assert.Equal(t, tt.args, args)
			}
		})
	}
}
