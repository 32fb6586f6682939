package handlers

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/ShopWizard/internal/service"
	"github.com/Kerhoff/ShopWizard/internal/telegram"
)

// ---------------------------------------------------------------------------
// AddContactHandler – /add <first_name> <last_name> <phone>
// ---------------------------------------------------------------------------

// AddContactHandler handles the /add command.
type AddContactHandler struct {
	usage
	svc    *service.Service
	logger *logrus.Logger
}

// NewAddContactHandler creates a new AddContactHandler.
func NewAddContactHandler(svc *service.Service, logger *logrus.Logger) *AddContactHandler {
	return &AddContactHandler{usage: usage{3, usageAddContact}, svc: svc, logger: logger}
}

// Handle processes the /add command. Arguments past the phone number are ignored.
func (h *AddContactHandler) Handle(ctx context.Context, message *tgbotapi.Message, args []string) (*telegram.Reply, error) {
	first, last, phone := args[0], args[1], args[2]

	contact, err := h.svc.ContactBook.Add(ctx, message.From.ID, first, last, phone)
	if err != nil {
		return nil, err
	}

	h.logger.WithFields(logrus.Fields{
		"user_id":    message.From.ID,
		"contact_id": contact.ID,
	}).Info("Contact added")

	return telegram.NewReply(`Contact "%s %s" added successfully!`, first, last), nil
}

// ---------------------------------------------------------------------------
// DeleteContactHandler – /delete <first_name> <last_name>
// ---------------------------------------------------------------------------

// DeleteContactHandler handles the /delete command.
type DeleteContactHandler struct {
	usage
	svc    *service.Service
	logger *logrus.Logger
}

// NewDeleteContactHandler creates a new DeleteContactHandler.
func NewDeleteContactHandler(svc *service.Service, logger *logrus.Logger) *DeleteContactHandler {
	return &DeleteContactHandler{usage: usage{2, usageContactName}, svc: svc, logger: logger}
}

// Handle processes the /delete command.
func (h *DeleteContactHandler) Handle(ctx context.Context, message *tgbotapi.Message, args []string) (*telegram.Reply, error) {
	first, last := args[0], args[1]

	if err := h.svc.ContactBook.Delete(ctx, message.From.ID, first, last); err != nil {
		return nil, err
	}

	h.logger.WithFields(logrus.Fields{
		"user_id": message.From.ID,
		"contact": first + " " + last,
	}).Info("Contact deleted")

	return telegram.NewReply(`Contact "%s %s" deleted successfully!`, first, last), nil
}

// ---------------------------------------------------------------------------
// StatusHandler – /status
// ---------------------------------------------------------------------------

// StatusHandler handles the /status command.
type StatusHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(svc *service.Service, logger *logrus.Logger) *StatusHandler {
	return &StatusHandler{svc: svc, logger: logger}
}

// Handle processes the /status command.
func (h *StatusHandler) Handle(ctx context.Context, message *tgbotapi.Message, _ []string) (*telegram.Reply, error) {
	count, err := h.svc.ContactBook.Count(ctx, message.From.ID)
	if err != nil {
		return nil, err
	}

	noun := "contacts"
	if count == 1 {
		noun = "contact"
	}
	return telegram.NewReply("You have %d %s in your contact book.", count, noun), nil
}

// ---------------------------------------------------------------------------
// ListContactsHandler – /list
// ---------------------------------------------------------------------------

// ListContactsHandler handles the /list command.
type ListContactsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewListContactsHandler creates a new ListContactsHandler.
func NewListContactsHandler(svc *service.Service, logger *logrus.Logger) *ListContactsHandler {
	return &ListContactsHandler{svc: svc, logger: logger}
}

// Handle processes the /list command.
func (h *ListContactsHandler) Handle(ctx context.Context, message *tgbotapi.Message, _ []string) (*telegram.Reply, error) {
	listing, err := h.svc.ContactBook.List(ctx, message.From.ID)
	if err != nil {
		return nil, err
	}
	if listing == "" {
		return telegram.NewReply("Your contact book is empty."), nil
	}
	return telegram.NewReply("Your contacts:\n%s", listing), nil
}

// ---------------------------------------------------------------------------
// ShowContactHandler – /show <first_name> <last_name>
// ---------------------------------------------------------------------------

// ShowContactHandler handles the /show command.
type ShowContactHandler struct {
	usage
	svc    *service.Service
	logger *logrus.Logger
}

// NewShowContactHandler creates a new ShowContactHandler.
func NewShowContactHandler(svc *service.Service, logger *logrus.Logger) *ShowContactHandler {
	return &ShowContactHandler{usage: usage{2, usageContactName}, svc: svc, logger: logger}
}

// Handle processes the /show command.
func (h *ShowContactHandler) Handle(ctx context.Context, message *tgbotapi.Message, args []string) (*telegram.Reply, error) {
	contact, err := h.svc.ContactBook.Show(ctx, message.From.ID, args[0], args[1])
	if err != nil {
		return nil, err
	}

	text := fmt.Sprintf("Information about %s:\nName - %s\nPhone number - %s",
		contact.FirstName, contact.FullName(), contact.PhoneNumber)
	return telegram.NewReply("%s", text), nil
}
