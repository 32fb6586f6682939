package handlers

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ShopWizard/internal/telegram"
)

const helpText = `Hello! This is the help center of Shop Wizard Bot. Here you can see how to use commands:

/commands - See all available commands

Shop List Commands:
    /create_list - Create a new shopping list. Usage: /create_list <list_name>
    /remove_list - Remove an existing shopping list. Usage: /remove_list <list_name>
    /edit_list - Rename a shopping list. Usage: /edit_list <old_list_name> <new_list_name>
    /add_item - Add an item to a shopping list. Usage: /add_item <list_name> <item>
    /show_items - Show items in a shopping list. Usage: /show_items <list_name>
    /remove_item - Remove an item from a shopping list. Usage: /remove_item <list_name> <item>

Weather Commands:
    /weather - Get the weather for a city. Usage: /weather <your_city>

Contact Book Commands:
    /add - Add a new contact to your contact book. Usage: /add <first_name> <last_name> <contact_phone>
    /status - Show amount of contacts in your contact book. Usage: /status
    /show - Show the contact from your contact book. Usage: /show <first_name> <last_name>
    /list - Show the list of all your contacts. Usage: /list
    /delete - Delete a contact from a contact book. Usage: /delete <first_name> <last_name>

Replace <list_name>, <item>, <your_city>, <first_name>, <last_name> with the actual names you want to use.`

// HelpHandler handles the /commands command
type HelpHandler struct {
	logger *logrus.Logger
}

func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

func (h *HelpHandler) Handle(_ context.Context, message *tgbotapi.Message, _ []string) (*telegram.Reply, error) {
	h.logger.WithFields(logrus.Fields{
		"chat_id": telegram.ChatID(message),
		"user_id": message.From.ID,
	}).Info("Sent help message")

	return telegram.NewReply("%s", helpText), nil
}

// usage declares how many positional arguments a command needs and the text
// sent when they are missing.
type usage struct {
	min  int
	text string
}

func (u usage) MinArgs() int  { return u.min }
func (u usage) Usage() string { return u.text }

const (
	usageListName    = "Insufficient arguments. Please provide list name."
	usageRenameList  = "Insufficient arguments. Please provide both the old list name and new list name."
	usageListAndItem = "Insufficient arguments. Please provide list name and item name."
	usageAddContact  = "Insufficient arguments. Please provide first name, last name and phone number."
	usageContactName = "Insufficient arguments. Please provide both the first name and last name."
	usageCityName    = "Insufficient arguments. Please provide city name."
	usageCoordinates = "Invalid button data."
)
